package applicationhandler

import (
	"bytes"
	pdfexport "careers-backend/lib/export/pdf"
	xlsexport "careers-backend/lib/export/xls"
	filestorage "careers-backend/lib/file-storage"
	"careers-backend/lib/questions"
	"careers-backend/lib/smtp"
	"careers-backend/lib/storage"
	apimodels "careers-backend/models/api"
	applicationapimodels "careers-backend/models/api/application"
	dbmodels "careers-backend/models/db"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// Submit публичная подача заявки. Ошибки валидации - applicationapimodels.FieldErrors,
	// неизвестная или закрытая вакансия - storage.ErrUnknownJob.
	Submit(ctx context.Context, request applicationapimodels.Submit) (*applicationapimodels.ApplicationView, error)

	List(ctx context.Context, request applicationapimodels.ListRequest) (list []applicationapimodels.ApplicationView, rowCount int64, err error)
	Get(ctx context.Context, id string) (*applicationapimodels.ApplicationView, error)
	UpdateStatus(ctx context.Context, id string, request applicationapimodels.StatusUpdate) (hMsg string, err error)
	GetCV(ctx context.Context, id string) (cv *applicationapimodels.CVDownload, hMsg string, err error)
	GetPDF(ctx context.Context, id string) (body []byte, fileName string, err error)
	Export(ctx context.Context, filter applicationapimodels.ListFilter) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler(store storage.Provider, files filestorage.Provider, mailer smtp.Provider, hrEmail string, rules applicationapimodels.Rules) {
	Instance = newImpl(store, files, mailer, hrEmail, rules)
}

func newImpl(store storage.Provider, files filestorage.Provider, mailer smtp.Provider, hrEmail string, rules applicationapimodels.Rules) *impl {
	return &impl{
		store:   store,
		files:   files,
		mailer:  mailer,
		hrEmail: hrEmail,
		rules:   rules,
		async:   func(f func()) { go f() },
	}
}

type impl struct {
	store   storage.Provider
	files   filestorage.Provider
	mailer  smtp.Provider
	hrEmail string
	rules   applicationapimodels.Rules
	async   func(f func())
}

func (i impl) Submit(ctx context.Context, request applicationapimodels.Submit) (*applicationapimodels.ApplicationView, error) {
	logger := log.WithField("job_id", request.JobID)
	info := request.BasicInfo.Normalize()
	if err := info.Validate(i.rules); err != nil {
		return nil, err
	}
	job, err := i.store.GetJob(ctx, request.JobID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения вакансии")
		return nil, err
	}
	if job == nil || !job.Active {
		return nil, errors.Wrapf(storage.ErrUnknownJob, "job_id %q", request.JobID)
	}
	answers := request.JobSpecificAnswers
	if answers == nil {
		answers = map[string]string{}
	}
	if err = questions.ValidateAnswers(questions.For(*job), answers); err != nil {
		return nil, applicationapimodels.FieldErrors{{
			Field:   applicationapimodels.FieldJobSpecificAnswers,
			Message: err.Error(),
		}}
	}

	rec := dbmodels.Application{
		JobID:              job.ID,
		FirstName:          info.FirstName,
		LastName:           info.LastName,
		Email:              info.Email,
		Phone:              info.Phone,
		CanTravel:          info.CanTravel,
		CurrentSalary:      info.CurrentSalary,
		ExpectedSalary:     info.ExpectedSalary,
		Motivation:         info.Motivation,
		JobSpecificAnswers: answers,
	}
	// резюме сохраняется до записи строки, строка без файла не создается
	if info.CV != nil {
		rec.CVFileRef, err = i.uploadCV(ctx, *info.CV)
		if err != nil {
			logger.WithError(err).Error("ошибка сохранения резюме")
			return nil, err
		}
		rec.CVFileName = filestorage.SanitizeName(info.CV.Name)
		logger = logger.WithField("cv_key", rec.CVFileRef)
	}

	created, err := i.store.CreateApplication(ctx, rec)
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения заявки")
		if errors.Is(err, storage.ErrUnconfirmed) {
			// строка могла записаться и ссылаться на файл, его судьбу решит reconcile
			logger.Warn("результат записи заявки неизвестен, резюме оставлено")
			return nil, err
		}
		i.dropCV(rec.CVFileRef)
		return nil, err
	}
	logger.
		WithField("application_id", created.ID).
		Info("принята заявка")
	i.async(func() { i.notify(*created, *job) })
	result := applicationapimodels.ApplicationConvert(*created, job)
	return &result, nil
}

func (i impl) uploadCV(ctx context.Context, cv applicationapimodels.CVFile) (string, error) {
	if i.files == nil {
		return "", storage.Unavailable("upload cv", errors.New("file storage is not configured"))
	}
	reader, err := cv.Open()
	if err != nil {
		return "", errors.Wrap(err, "ошибка чтения файла резюме")
	}
	defer reader.Close()
	key, err := i.files.UploadCV(ctx, cv.Name, reader, cv.Size, ContentTypeByName(cv.Name))
	if err != nil {
		return "", storage.Unavailable("upload cv", err)
	}
	return key, nil
}

// dropCV удаляет резюме заявки, которая не была записана. Если удалить не удалось,
// файл подберет reconcile.
func (i impl) dropCV(key string) {
	if key == "" {
		return
	}
	// запрос мог быть отменен, удаление выполняется в своем контексте
	if err := i.files.DeleteCV(context.Background(), key); err != nil {
		log.
			WithField("cv_key", key).
			WithError(err).
			Error("не удалось удалить резюме несохраненной заявки, файл остался без заявки")
		return
	}
	log.WithField("cv_key", key).Info("резюме несохраненной заявки удалено")
}

func (i impl) notify(rec dbmodels.Application, job dbmodels.Job) {
	if i.mailer == nil || i.hrEmail == "" {
		return
	}
	subject := fmt.Sprintf("New application: %s", job.Title)
	err := i.mailer.SendEMail(i.hrEmail, subject, NotificationText(rec, job))
	if err != nil {
		log.
			WithField("application_id", rec.ID).
			WithError(err).
			Warn("не удалось отправить уведомление о заявке")
	}
}

// NotificationText текст письма HR о новой заявке
func NotificationText(rec dbmodels.Application, job dbmodels.Job) string {
	lines := []string{
		fmt.Sprintf("A new application was submitted for %s (%s).", job.Title, job.Department),
		"",
		"Name: " + rec.GetFIO(),
		"Email: " + rec.Email,
		"Phone: " + rec.Phone,
		"Can travel to Navi Mumbai: " + string(rec.CanTravel),
	}
	if rec.ExpectedSalary != "" {
		lines = append(lines, "Expected salary: "+rec.ExpectedSalary)
	}
	if rec.CVFileName != "" {
		lines = append(lines, "CV: "+rec.CVFileName)
	}
	lines = append(lines, "", "Application id: "+rec.ID)
	return strings.Join(lines, "\n")
}

func (i impl) List(ctx context.Context, request applicationapimodels.ListRequest) (list []applicationapimodels.ApplicationView, rowCount int64, err error) {
	items, err := i.filtered(ctx, request.ListFilter)
	if err != nil {
		return nil, 0, err
	}
	list = make([]applicationapimodels.ApplicationView, 0, len(items))
	for _, item := range apimodels.Paginate(items, request.Pagination) {
		list = append(list, applicationapimodels.ApplicationConvert(item.Application, item.Job))
	}
	return list, int64(len(items)), nil
}

func (i impl) Get(ctx context.Context, id string) (*applicationapimodels.ApplicationView, error) {
	rec, job, err := i.get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	result := applicationapimodels.ApplicationConvert(*rec, job)
	return &result, nil
}

func (i impl) UpdateStatus(ctx context.Context, id string, request applicationapimodels.StatusUpdate) (hMsg string, err error) {
	logger := log.
		WithField("application_id", id).
		WithField("status", request.Status)
	rec, err := i.store.UpdateApplicationStatus(ctx, id, request.Status, request.Notes)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidStatus) {
			return "invalid application status", nil
		}
		logger.WithError(err).Error("ошибка изменения статуса заявки")
		return "", err
	}
	if rec == nil {
		return "application not found", nil
	}
	logger.Info("изменен статус заявки")
	return "", nil
}

func (i impl) GetCV(ctx context.Context, id string) (cv *applicationapimodels.CVDownload, hMsg string, err error) {
	logger := log.WithField("application_id", id)
	rec, err := i.store.GetApplication(ctx, id)
	if err != nil {
		logger.WithError(err).Error("ошибка получения заявки")
		return nil, "", err
	}
	if rec == nil {
		return nil, "application not found", nil
	}
	if rec.CVFileRef == "" {
		return nil, "application has no CV", nil
	}
	if i.files == nil {
		return nil, "", storage.Unavailable("get cv", errors.New("file storage is not configured"))
	}
	body, info, err := i.files.GetCV(ctx, rec.CVFileRef)
	if err != nil {
		if errors.Is(err, filestorage.ErrNotFound) {
			logger.
				WithField("cv_key", rec.CVFileRef).
				Error("резюме заявки отсутствует в хранилище файлов")
			return nil, "CV file is missing", nil
		}
		logger.WithError(err).Error("ошибка получения резюме")
		return nil, "", storage.Unavailable("get cv", err)
	}
	contentType := info.ContentType
	if contentType == "" {
		contentType = ContentTypeByName(rec.CVFileName)
	}
	return &applicationapimodels.CVDownload{
		FileName:    rec.CVFileName,
		ContentType: contentType,
		Body:        body,
	}, "", nil
}

func (i impl) GetPDF(ctx context.Context, id string) (body []byte, fileName string, err error) {
	view, err := i.Get(ctx, id)
	if err != nil || view == nil {
		return nil, "", err
	}
	body, err = pdfexport.GenerateApplicationCard(*view)
	if err != nil {
		log.
			WithField("application_id", id).
			WithError(err).
			Error("ошибка формирования pdf заявки")
		return nil, "", err
	}
	return body, "application-" + view.ID + ".pdf", nil
}

func (i impl) Export(ctx context.Context, filter applicationapimodels.ListFilter) (*bytes.Buffer, error) {
	items, err := i.filtered(ctx, filter)
	if err != nil {
		return nil, err
	}
	buf, err := xlsexport.Instance.ExportApplicationList(items)
	if err != nil {
		log.WithError(err).Error("ошибка выгрузки заявок в xlsx")
		return nil, err
	}
	return buf, nil
}

func (i impl) get(ctx context.Context, id string) (*dbmodels.Application, *dbmodels.Job, error) {
	logger := log.WithField("application_id", id)
	rec, err := i.store.GetApplication(ctx, id)
	if err != nil {
		logger.WithError(err).Error("ошибка получения заявки")
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, nil
	}
	job, err := i.store.GetJob(ctx, rec.JobID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения вакансии заявки")
		return nil, nil, err
	}
	return rec, job, nil
}

// filtered заявки по фильтру, новые первыми, вместе с вакансиями
func (i impl) filtered(ctx context.Context, filter applicationapimodels.ListFilter) ([]dbmodels.ApplicationWithJob, error) {
	var (
		list []dbmodels.Application
		err  error
	)
	if filter.JobID != "" {
		list, err = i.store.GetApplicationsForJob(ctx, filter.JobID)
	} else {
		list, err = i.store.GetAllApplications(ctx)
	}
	if err != nil {
		log.
			WithField("job_id", filter.JobID).
			WithError(err).
			Error("ошибка получения списка заявок")
		return nil, err
	}
	jobs, err := i.store.GetAllJobs(ctx)
	if err != nil {
		log.WithError(err).Error("ошибка получения списка вакансий")
		return nil, err
	}
	jobByID := make(map[string]*dbmodels.Job, len(jobs))
	for idx := range jobs {
		jobByID[jobs[idx].ID] = &jobs[idx]
	}
	result := make([]dbmodels.ApplicationWithJob, 0, len(list))
	for idx := len(list) - 1; idx >= 0; idx-- {
		if !filter.Match(list[idx]) {
			continue
		}
		result = append(result, dbmodels.ApplicationWithJob{
			Application: list[idx],
			Job:         jobByID[list[idx].JobID],
		})
	}
	return result, nil
}

var cvContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func ContentTypeByName(fileName string) string {
	if contentType, ok := cvContentTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
		return contentType
	}
	return "application/octet-stream"
}
