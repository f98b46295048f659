package applicationhandler

import (
	"bytes"
	xlsexport "careers-backend/lib/export/xls"
	filestorage "careers-backend/lib/file-storage"
	"careers-backend/lib/storage"
	memorystore "careers-backend/lib/storage/memory-store"
	"careers-backend/models"
	apimodels "careers-backend/models/api"
	applicationapimodels "careers-backend/models/api/application"
	dbmodels "careers-backend/models/db"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type sentMail struct {
	to, subject, message string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendEMail(to, subject, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to: to, subject: subject, message: message})
	return f.err
}

func (f *fakeMailer) IsConfigured() bool { return true }

// brokenStore отказывает в записи заявок
type brokenStore struct {
	storage.Provider
}

func (b brokenStore) CreateApplication(ctx context.Context, rec dbmodels.Application) (*dbmodels.Application, error) {
	return nil, storage.Unavailable("create application", errors.New("quota exceeded"))
}

// unconfirmedStore теряет ответ на запись заявки, результат неизвестен
type unconfirmedStore struct {
	storage.Provider
}

func (u unconfirmedStore) CreateApplication(ctx context.Context, rec dbmodels.Application) (*dbmodels.Application, error) {
	return nil, storage.Unconfirmed("create application", errors.New("deadline exceeded"))
}

// brokenFiles не может ни сохранить, ни удалить файл
type brokenFiles struct {
	*filestorage.Memory
	uploadErr error
	deleteErr error
}

func (b brokenFiles) UploadCV(ctx context.Context, fileName string, reader io.Reader, size int64, contentType string) (string, error) {
	if b.uploadErr != nil {
		return "", b.uploadErr
	}
	return b.Memory.UploadCV(ctx, fileName, reader, size, contentType)
}

func (b brokenFiles) DeleteCV(ctx context.Context, key string) error {
	return b.deleteErr
}

type fixture struct {
	store  storage.Provider
	files  *filestorage.Memory
	mailer *fakeMailer
	h      *impl
	jobs   map[string]string
}

func newFixture(t *testing.T) *fixture {
	ctx := context.Background()
	store := memorystore.NewInstance()
	inactive := false
	jobs := map[string]string{}
	for key, data := range map[string]storage.JobData{
		"social":   {Title: "Social Media Executive", Department: "marketing", Type: models.JobTypeFullTime},
		"office":   {Title: "Office Assistant", Department: "administration", Type: models.JobTypeFullTime},
		"archived": {Title: "Video Editor", Department: "content", Type: models.JobTypeFullTime, Active: &inactive},
	} {
		rec, err := store.CreateJob(ctx, data)
		require.NoError(t, err)
		jobs[key] = rec.ID
	}
	f := &fixture{
		store:  store,
		files:  filestorage.NewMemory(),
		mailer: &fakeMailer{},
		jobs:   jobs,
	}
	f.h = newImpl(f.store, f.files, f.mailer, "hr@example.com", applicationapimodels.DefaultRules())
	f.h.async = func(fn func()) { fn() }
	return f
}

func basicInfo() applicationapimodels.BasicInfo {
	return applicationapimodels.BasicInfo{
		FirstName:  " Asha ",
		LastName:   "Patil",
		Email:      "asha.patil@example.com",
		Phone:      "+91 98200 12345",
		CanTravel:  "Yes",
		Motivation: strings.Repeat("Motor Octane reviews got me into cars. ", 3),
	}
}

func cv(name, body string) *applicationapimodels.CVFile {
	return &applicationapimodels.CVFile{
		Name: name,
		Size: int64(len(body)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(body)), nil },
	}
}

func socialAnswers() map[string]string {
	return map[string]string{
		"Which platforms have you managed professionally?":                    "Instagram, YouTube",
		"What is the largest audience you have grown or managed (followers)?": "120k",
		"Describe a campaign or post that performed well and why it worked.":  "A launch teaser reel.",
		"Are you comfortable shooting and editing Reels or Shorts yourself?":  "Yes",
		"Rate your experience with social media analytics tools.":             "4",
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run(`valid application with CV is stored pending and HR is notified`, func(t *testing.T) {
		f := newFixture(t)
		info := basicInfo()
		info.CV = cv("My CV.pdf", "%PDF-1.4")
		view, err := f.h.Submit(ctx, applicationapimodels.Submit{
			JobID:              f.jobs["social"],
			BasicInfo:          info,
			JobSpecificAnswers: socialAnswers(),
		})
		require.NoError(t, err)
		require.Equal(t, models.ApplicationStatusPending, view.Status)
		require.Equal(t, "Asha", view.FirstName)
		require.Equal(t, models.TravelAnswerYes, view.CanTravel)
		require.Equal(t, "Social Media Executive", view.JobTitle)
		require.True(t, view.HasCV)
		require.Equal(t, "My_CV.pdf", view.CVFileName)

		list, err := f.store.GetApplicationsForJob(ctx, f.jobs["social"])
		require.NoError(t, err)
		require.Len(t, list, 1)
		body, info2, err := f.files.GetCV(ctx, list[0].CVFileRef)
		require.NoError(t, err)
		require.Equal(t, "%PDF-1.4", string(body))
		require.Equal(t, "application/pdf", info2.ContentType)

		require.Len(t, f.mailer.sent, 1)
		require.Equal(t, "hr@example.com", f.mailer.sent[0].to)
		require.Contains(t, f.mailer.sent[0].subject, "Social Media Executive")
		require.Contains(t, f.mailer.sent[0].message, view.ID)
	})

	t.Run(`job without questions accepts empty answers`, func(t *testing.T) {
		f := newFixture(t)
		view, err := f.h.Submit(ctx, applicationapimodels.Submit{JobID: f.jobs["office"], BasicInfo: basicInfo()})
		require.NoError(t, err)
		require.False(t, view.HasCV)
		require.Empty(t, view.JobSpecificAnswers)
	})

	t.Run(`invalid basic info is reported per field and nothing is stored`, func(t *testing.T) {
		f := newFixture(t)
		info := basicInfo()
		info.Email = "asha@"
		info.CV = cv("cv.exe", "MZ")
		_, err := f.h.Submit(ctx, applicationapimodels.Submit{JobID: f.jobs["office"], BasicInfo: info})
		var fieldErrs applicationapimodels.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		require.NotEmpty(t, fieldErrs.Get(applicationapimodels.FieldEmail))
		require.NotEmpty(t, fieldErrs.Get(applicationapimodels.FieldCV))
		list, _ := f.files.ListCV(ctx)
		require.Empty(t, list)
		all, _ := f.store.GetAllApplications(ctx)
		require.Empty(t, all)
	})

	t.Run(`missing answer is a validation error`, func(t *testing.T) {
		f := newFixture(t)
		answers := socialAnswers()
		delete(answers, "Rate your experience with social media analytics tools.")
		_, err := f.h.Submit(ctx, applicationapimodels.Submit{JobID: f.jobs["social"], BasicInfo: basicInfo(), JobSpecificAnswers: answers})
		var fieldErrs applicationapimodels.FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		require.NotEmpty(t, fieldErrs.Get(applicationapimodels.FieldJobSpecificAnswers))
	})

	t.Run(`unknown and inactive jobs are rejected`, func(t *testing.T) {
		f := newFixture(t)
		_, err := f.h.Submit(ctx, applicationapimodels.Submit{JobID: "missing", BasicInfo: basicInfo()})
		require.ErrorIs(t, err, storage.ErrUnknownJob)
		_, err = f.h.Submit(ctx, applicationapimodels.Submit{JobID: f.jobs["archived"], BasicInfo: basicInfo()})
		require.ErrorIs(t, err, storage.ErrUnknownJob)
	})

	t.Run(`failed row write removes the uploaded CV`, func(t *testing.T) {
		f := newFixture(t)
		h := newImpl(brokenStore{f.store}, f.files, f.mailer, "hr@example.com", applicationapimodels.DefaultRules())
		info := basicInfo()
		info.CV = cv("cv.pdf", "%PDF")
		_, err := h.Submit(ctx, applicationapimodels.Submit{JobID: f.jobs["office"], BasicInfo: info})
		require.ErrorIs(t, err, storage.ErrUnavailable)
		list, err := f.files.ListCV(ctx)
		require.NoError(t, err)
		require.Empty(t, list)
		require.Empty(t, f.mailer.sent)
	})

	t.Run(`failed compensation leaves the CV for reconcile`, func(t *testing.T) {
		f := newFixture(t)
		files := brokenFiles{Memory: f.files, deleteErr: errors.New("s3 down")}
		h := newImpl(brokenStore{f.store}, files, f.mailer, "", applicationapimodels.DefaultRules())
		info := basicInfo()
		info.CV = cv("cv.pdf", "%PDF")
		_, err := h.Submit(ctx, applicationapimodels.Submit{JobID: f.jobs["office"], BasicInfo: info})
		require.ErrorIs(t, err, storage.ErrUnavailable)
		list, err := f.files.ListCV(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run(`unconfirmed row write keeps the CV`, func(t *testing.T) {
		f := newFixture(t)
		h := newImpl(unconfirmedStore{f.store}, f.files, f.mailer, "", applicationapimodels.DefaultRules())
		info := basicInfo()
		info.CV = cv("cv.pdf", "%PDF")
		_, err := h.Submit(ctx, applicationapimodels.Submit{JobID: f.jobs["office"], BasicInfo: info})
		require.ErrorIs(t, err, storage.ErrUnavailable)
		require.ErrorIs(t, err, storage.ErrUnconfirmed)
		list, err := f.files.ListCV(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run(`failed CV upload is unavailable and writes no row`, func(t *testing.T) {
		f := newFixture(t)
		files := brokenFiles{Memory: f.files, uploadErr: errors.New("s3 down")}
		h := newImpl(f.store, files, f.mailer, "", applicationapimodels.DefaultRules())
		info := basicInfo()
		info.CV = cv("cv.pdf", "%PDF")
		_, err := h.Submit(ctx, applicationapimodels.Submit{JobID: f.jobs["office"], BasicInfo: info})
		require.ErrorIs(t, err, storage.ErrUnavailable)
		all, _ := f.store.GetAllApplications(ctx)
		require.Empty(t, all)
	})

	t.Run(`mail failure does not fail the submission`, func(t *testing.T) {
		f := newFixture(t)
		f.mailer.err = errors.New("smtp down")
		_, err := f.h.Submit(ctx, applicationapimodels.Submit{JobID: f.jobs["office"], BasicInfo: basicInfo()})
		require.NoError(t, err)
	})
}

func TestAdminApplications(t *testing.T) {
	ctx := context.Background()
	xlsexport.NewHandler()
	f := newFixture(t)

	ids := []string{}
	for _, name := range []string{"Asha", "Ravi", "Meera"} {
		info := basicInfo()
		info.FirstName = name
		info.Email = strings.ToLower(name) + "@example.com"
		info.CV = cv(name+".pdf", "%PDF "+name)
		view, err := f.h.Submit(ctx, applicationapimodels.Submit{JobID: f.jobs["office"], BasicInfo: info})
		require.NoError(t, err)
		ids = append(ids, view.ID)
	}

	t.Run(`list is newest first with paging and total`, func(t *testing.T) {
		list, total, err := f.h.List(ctx, applicationapimodels.ListRequest{Pagination: apimodels.Pagination{Limit: 2, Page: 1}})
		require.NoError(t, err)
		require.Equal(t, int64(3), total)
		require.Len(t, list, 2)
		require.Equal(t, "Meera", list[0].FirstName)
		require.Equal(t, "Office Assistant", list[0].JobTitle)

		list, _, err = f.h.List(ctx, applicationapimodels.ListRequest{Pagination: apimodels.Pagination{Limit: 2, Page: 2}})
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "Asha", list[0].FirstName)
	})

	t.Run(`list filters by search and job`, func(t *testing.T) {
		list, total, err := f.h.List(ctx, applicationapimodels.ListRequest{ListFilter: applicationapimodels.ListFilter{Search: "RAVI"}})
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		require.Equal(t, ids[1], list[0].ID)

		_, total, err = f.h.List(ctx, applicationapimodels.ListRequest{ListFilter: applicationapimodels.ListFilter{JobID: f.jobs["social"]}})
		require.NoError(t, err)
		require.Zero(t, total)
	})

	t.Run(`status update and validation`, func(t *testing.T) {
		notes := "Strong portfolio"
		hMsg, err := f.h.UpdateStatus(ctx, ids[0], applicationapimodels.StatusUpdate{Status: models.ApplicationStatusShortlisted, Notes: &notes})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		view, err := f.h.Get(ctx, ids[0])
		require.NoError(t, err)
		require.Equal(t, models.ApplicationStatusShortlisted, view.Status)
		require.Equal(t, notes, view.Notes)

		hMsg, err = f.h.UpdateStatus(ctx, ids[0], applicationapimodels.StatusUpdate{Status: "archived"})
		require.NoError(t, err)
		require.NotEmpty(t, hMsg)

		hMsg, err = f.h.UpdateStatus(ctx, "missing", applicationapimodels.StatusUpdate{Status: models.ApplicationStatusHired})
		require.NoError(t, err)
		require.Equal(t, "application not found", hMsg)
	})

	t.Run(`get missing application`, func(t *testing.T) {
		view, err := f.h.Get(ctx, "missing")
		require.NoError(t, err)
		require.Nil(t, view)
	})

	t.Run(`CV download`, func(t *testing.T) {
		cvFile, hMsg, err := f.h.GetCV(ctx, ids[1])
		require.NoError(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, "Ravi.pdf", cvFile.FileName)
		require.Equal(t, "%PDF Ravi", string(cvFile.Body))

		_, hMsg, err = f.h.GetCV(ctx, "missing")
		require.NoError(t, err)
		require.Equal(t, "application not found", hMsg)
	})

	t.Run(`PDF card`, func(t *testing.T) {
		body, fileName, err := f.h.GetPDF(ctx, ids[2])
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
		require.Equal(t, "application-"+ids[2]+".pdf", fileName)
	})

	t.Run(`xlsx export`, func(t *testing.T) {
		buf, err := f.h.Export(ctx, applicationapimodels.ListFilter{})
		require.NoError(t, err)
		file, err := excelize.OpenReader(buf)
		require.NoError(t, err)
		defer file.Close()
		rows, err := file.GetRows(xlsexport.SheetName)
		require.NoError(t, err)
		require.Len(t, rows, 4)
	})
}

func TestContentTypeByName(t *testing.T) {
	require.Equal(t, "application/pdf", ContentTypeByName("a.PDF"))
	require.Equal(t, "application/msword", ContentTypeByName("a.doc"))
	require.Equal(t, "application/octet-stream", ContentTypeByName("a"))
}
