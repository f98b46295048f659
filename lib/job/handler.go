package jobhandler

import (
	"careers-backend/lib/questions"
	"careers-backend/lib/storage"
	jobapimodels "careers-backend/models/api/job"
	dbmodels "careers-backend/models/db"
	"context"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// сайт вакансий: видны только активные вакансии
	ListActive(ctx context.Context) ([]jobapimodels.JobView, error)
	Search(ctx context.Context, keyword string) ([]jobapimodels.JobView, error)
	GetActive(ctx context.Context, jobID string) (*jobapimodels.JobView, error)
	Questions(ctx context.Context, jobID string) (*questions.Selection, error)

	// админка
	Create(ctx context.Context, data jobapimodels.JobData) (jobID string, err error)
	Update(ctx context.Context, jobID string, upd jobapimodels.JobUpdate) (hMsg string, err error)
	Get(ctx context.Context, jobID string) (*jobapimodels.JobAdminView, error)
	Delete(ctx context.Context, jobID string) (hMsg string, err error)
	List(ctx context.Context, filter jobapimodels.ListFilter) ([]jobapimodels.JobAdminView, error)
}

var Instance Provider

func NewHandler(store storage.Provider) {
	Instance = impl{
		store: store,
	}
}

type impl struct {
	store storage.Provider
}

func (i impl) ListActive(ctx context.Context) ([]jobapimodels.JobView, error) {
	list, err := i.store.GetActiveJobs(ctx)
	if err != nil {
		log.WithError(err).Error("ошибка получения списка активных вакансий")
		return nil, err
	}
	return convertList(list), nil
}

func (i impl) Search(ctx context.Context, keyword string) ([]jobapimodels.JobView, error) {
	list, err := i.store.SearchJobs(ctx, keyword)
	if err != nil {
		log.
			WithField("keyword", keyword).
			WithError(err).
			Error("ошибка поиска вакансий")
		return nil, err
	}
	active := make([]dbmodels.Job, 0, len(list))
	for _, rec := range list {
		if rec.Active {
			active = append(active, rec)
		}
	}
	return convertList(active), nil
}

func (i impl) GetActive(ctx context.Context, jobID string) (*jobapimodels.JobView, error) {
	rec, err := i.getActive(ctx, jobID)
	if err != nil || rec == nil {
		return nil, err
	}
	result := jobapimodels.JobConvert(*rec)
	return &result, nil
}

func (i impl) Questions(ctx context.Context, jobID string) (*questions.Selection, error) {
	rec, err := i.getActive(ctx, jobID)
	if err != nil || rec == nil {
		return nil, err
	}
	selection := questions.Select(*rec)
	return &selection, nil
}

func (i impl) Create(ctx context.Context, data jobapimodels.JobData) (jobID string, err error) {
	rec, err := i.store.CreateJob(ctx, data.ToStorage())
	if err != nil {
		log.
			WithField("title", data.Title).
			WithError(err).
			Error("ошибка создания вакансии")
		return "", err
	}
	log.
		WithField("job_id", rec.ID).
		WithField("title", rec.Title).
		Info("создана вакансия")
	return rec.ID, nil
}

func (i impl) Update(ctx context.Context, jobID string, upd jobapimodels.JobUpdate) (hMsg string, err error) {
	logger := log.WithField("job_id", jobID)
	rec, err := i.store.UpdateJob(ctx, jobID, upd.ToStorage())
	if err != nil {
		logger.WithError(err).Error("ошибка обновления вакансии")
		return "", err
	}
	if rec == nil {
		return "job not found", nil
	}
	logger.Info("обновлена вакансия")
	return "", nil
}

func (i impl) Get(ctx context.Context, jobID string) (*jobapimodels.JobAdminView, error) {
	rec, err := i.store.GetJob(ctx, jobID)
	if err != nil {
		log.
			WithField("job_id", jobID).
			WithError(err).
			Error("ошибка получения вакансии")
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	applications, err := i.store.GetApplicationsForJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &jobapimodels.JobAdminView{
		JobView:           jobapimodels.JobConvert(*rec),
		ApplicationsCount: len(applications),
	}, nil
}

func (i impl) Delete(ctx context.Context, jobID string) (hMsg string, err error) {
	logger := log.WithField("job_id", jobID)
	deleted, err := i.store.DeleteJob(ctx, jobID)
	if err != nil {
		logger.WithError(err).Error("ошибка удаления вакансии")
		return "", err
	}
	if !deleted {
		return "job not found", nil
	}
	logger.Info("удалена вакансия")
	return "", nil
}

func (i impl) List(ctx context.Context, filter jobapimodels.ListFilter) ([]jobapimodels.JobAdminView, error) {
	list, err := i.store.SearchJobs(ctx, filter.Search)
	if err != nil {
		log.WithError(err).Error("ошибка получения списка вакансий")
		return nil, err
	}
	applications, err := i.store.GetAllApplications(ctx)
	if err != nil {
		log.WithError(err).Error("ошибка получения списка заявок")
		return nil, err
	}
	counts := map[string]int{}
	for _, rec := range applications {
		counts[rec.JobID]++
	}
	result := make([]jobapimodels.JobAdminView, 0, len(list))
	for _, rec := range list {
		if filter.ActiveOnly && !rec.Active {
			continue
		}
		result = append(result, jobapimodels.JobAdminView{
			JobView:           jobapimodels.JobConvert(rec),
			ApplicationsCount: counts[rec.ID],
		})
	}
	return result, nil
}

func (i impl) getActive(ctx context.Context, jobID string) (*dbmodels.Job, error) {
	rec, err := i.store.GetJob(ctx, jobID)
	if err != nil {
		log.
			WithField("job_id", jobID).
			WithError(err).
			Error("ошибка получения вакансии")
		return nil, err
	}
	if rec == nil || !rec.Active {
		return nil, nil
	}
	return rec, nil
}

func convertList(list []dbmodels.Job) []jobapimodels.JobView {
	result := make([]jobapimodels.JobView, 0, len(list))
	for _, rec := range list {
		result = append(result, jobapimodels.JobConvert(rec))
	}
	return result
}
