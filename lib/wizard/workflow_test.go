package wizard

import (
	"bytes"
	"careers-backend/lib/questions"
	"careers-backend/models"
	apimodels "careers-backend/models/api"
	applicationapimodels "careers-backend/models/api/application"
	dbmodels "careers-backend/models/db"
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func validInfo() applicationapimodels.BasicInfo {
	return applicationapimodels.BasicInfo{
		FirstName:  "Asha",
		LastName:   "Patil",
		Email:      "asha.patil@example.com",
		Phone:      "+91 98200 12345",
		CanTravel:  models.TravelAnswerYes,
		Motivation: strings.Repeat("I have followed every road test you published. ", 2),
	}
}

func TestWorkflow(t *testing.T) {
	rules := applicationapimodels.DefaultRules()

	t.Run(`empty question list skips step two`, func(t *testing.T) {
		w := NewWithQuestions("job-1", []questions.Question{}, rules)
		require.Equal(t, StepBasicInfo, w.Step())
		require.NoError(t, w.SubmitBasicInfo(validInfo()))
		require.Equal(t, StepSubmitted, w.Step())
		s, ok := w.Submission()
		require.True(t, ok)
		require.Equal(t, "job-1", s.JobID)
		require.Empty(t, s.JobSpecificAnswers)
	})

	t.Run(`department without questions skips step two`, func(t *testing.T) {
		w := New(dbmodels.Job{BaseModel: dbmodels.BaseModel{ID: "job-2"}, Title: "Office Assistant", Department: "administration"}, rules)
		require.NoError(t, w.SubmitBasicInfo(validInfo()))
		require.Equal(t, StepSubmitted, w.Step())
	})

	t.Run(`invalid step one stays on step one with field messages`, func(t *testing.T) {
		w := New(dbmodels.Job{Title: "Video Editor"}, rules)
		info := validInfo()
		info.Email = "not-an-email"
		info.CanTravel = "maybe"
		info.Motivation = "short"
		err := w.SubmitBasicInfo(info)
		require.Error(t, err)
		fieldErrs, ok := err.(applicationapimodels.FieldErrors)
		require.True(t, ok)
		require.NotEmpty(t, fieldErrs.Get(applicationapimodels.FieldEmail))
		require.NotEmpty(t, fieldErrs.Get(applicationapimodels.FieldCanTravel))
		require.NotEmpty(t, fieldErrs.Get(applicationapimodels.FieldMotivation))
		require.Empty(t, fieldErrs.Get(applicationapimodels.FieldFirstName))
		require.Equal(t, StepBasicInfo, w.Step())
		require.Equal(t, "not-an-email", w.BasicInfo().Email)
		_, ok = w.Submission()
		require.False(t, ok)
	})

	t.Run(`back keeps step one values and answers`, func(t *testing.T) {
		w := NewWithQuestions("job-3", []questions.Question{
			questions.Radio("Relocate?", "Yes", "No"),
			questions.Text("Notice period?"),
		}, rules)
		require.NoError(t, w.SubmitBasicInfo(validInfo()))
		require.Equal(t, StepAnswers, w.Step())

		err := w.SubmitAnswers(map[string][]string{"Relocate?": {"Yes"}})
		require.Error(t, err)
		require.Equal(t, StepAnswers, w.Step())

		require.NoError(t, w.Back())
		require.Equal(t, StepBasicInfo, w.Step())
		require.Equal(t, "Asha", w.BasicInfo().FirstName)
		require.Equal(t, []string{"Yes"}, w.Answers()["Relocate?"])

		info := w.BasicInfo()
		info.FirstName = "Asha R."
		require.NoError(t, w.SubmitBasicInfo(info))
		require.NoError(t, w.SubmitAnswers(map[string][]string{"Relocate?": {"Yes"}, "Notice period?": {"30 days"}}))
		s, ok := w.Submission()
		require.True(t, ok)
		require.Equal(t, "Asha R.", s.BasicInfo.FirstName)
		require.Equal(t, map[string]string{"Relocate?": "Yes", "Notice period?": "30 days"}, s.JobSpecificAnswers)
	})

	t.Run(`checkbox answers are persisted comma joined`, func(t *testing.T) {
		w := NewWithQuestions("job-4", []questions.Question{questions.Checkbox("Weekend shoots?", "Yes", "No")}, rules)
		require.NoError(t, w.SubmitBasicInfo(validInfo()))
		require.NoError(t, w.SubmitAnswers(map[string][]string{"Weekend shoots?": {"Yes", "No"}}))
		s, _ := w.Submission()
		require.Equal(t, "Yes, No", s.JobSpecificAnswers["Weekend shoots?"])
	})

	t.Run(`actions out of order are rejected`, func(t *testing.T) {
		w := NewWithQuestions("job-5", []questions.Question{questions.Text("Why?")}, rules)
		require.ErrorIs(t, w.Back(), ErrWrongStep)
		require.ErrorIs(t, w.SubmitAnswers(map[string][]string{"Why?": {"x"}}), ErrWrongStep)
		require.NoError(t, w.SubmitBasicInfo(validInfo()))
		require.ErrorIs(t, w.SubmitBasicInfo(validInfo()), ErrWrongStep)
	})

	t.Run(`cancel discards everything`, func(t *testing.T) {
		w := NewWithQuestions("job-6", []questions.Question{questions.Text("Why?")}, rules)
		require.NoError(t, w.SubmitBasicInfo(validInfo()))
		w.Cancel()
		require.Equal(t, StepCancelled, w.Step())
		require.Empty(t, w.BasicInfo().Email)
		require.ErrorIs(t, w.SubmitAnswers(map[string][]string{"Why?": {"x"}}), ErrWrongStep)
		_, ok := w.Submission()
		require.False(t, ok)
	})
}

func TestSubmission(t *testing.T) {
	info := validInfo()
	info.CV = &applicationapimodels.CVFile{
		Name: "asha.pdf",
		Size: 4,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader([]byte("%PDF"))), nil },
	}
	s := Submission{JobID: "job-1", BasicInfo: info, JobSpecificAnswers: map[string]string{"Why?": "Because"}}

	t.Run(`multipart carries every field`, func(t *testing.T) {
		body, contentType, err := s.Multipart()
		require.NoError(t, err)
		_, params, err := mime.ParseMediaType(contentType)
		require.NoError(t, err)
		form, err := multipart.NewReader(body, params["boundary"]).ReadForm(1 << 20)
		require.NoError(t, err)
		require.Equal(t, "job-1", form.Value[applicationapimodels.FieldJobID][0])
		require.Equal(t, "yes", form.Value[applicationapimodels.FieldCanTravel][0])
		require.Equal(t, info.Motivation, form.Value[applicationapimodels.FieldMotivation][0])
		require.NotContains(t, form.Value, applicationapimodels.FieldCurrentSalary)
		require.JSONEq(t, `{"Why?":"Because"}`, form.Value[applicationapimodels.FieldJobSpecificAnswers][0])
		require.Equal(t, "asha.pdf", form.File[applicationapimodels.FieldCV][0].Filename)
	})

	t.Run(`client returns the created application`, func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			require.Equal(t, applicationsPath, r.URL.Path)
			require.NoError(t, r.ParseMultipartForm(1<<20))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(apimodels.NewResponse(applicationapimodels.ApplicationView{
				ID:     "app-1",
				JobID:  r.FormValue(applicationapimodels.FieldJobID),
				Status: models.ApplicationStatusPending,
			}))
		}))
		defer srv.Close()

		view, err := NewClient(srv.URL+"/", srv.Client()).Submit(context.Background(), s)
		require.NoError(t, err)
		require.Equal(t, "app-1", view.ID)
		require.Equal(t, "job-1", view.JobID)
		require.Equal(t, 1, calls)
	})

	t.Run(`client surfaces details before error and never retries`, func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(apimodels.NewErrorWithDetails("storage unavailable", "please try again later"))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, srv.Client()).Submit(context.Background(), s)
		require.Error(t, err)
		apiErr, ok := err.(APIError)
		require.True(t, ok)
		require.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
		require.Equal(t, "please try again later", apiErr.Message)
		require.Equal(t, 1, calls)
	})

	t.Run(`client falls back to error when details are missing`, func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(apimodels.NewError("job not found"))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, srv.Client()).Submit(context.Background(), s)
		require.Equal(t, APIError{StatusCode: http.StatusNotFound, Message: "job not found"}, err)
	})
}
