package sheetsstore

import (
	"careers-backend/lib/storage"
	"careers-backend/lib/storage/storagetest"
	"careers-backend/lib/utils/retry"
	"careers-backend/models"
	dbmodels "careers-backend/models/db"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func testConfig() Config {
	return Config{
		Tabs: Tabs{
			Users:        "Users",
			AdminUsers:   "AdminUsers",
			Jobs:         "Jobs",
			Applications: "Applications",
		},
		Timeout: time.Second,
		Retry:   retry.NewPolicy(3, time.Millisecond, 2*time.Millisecond),
	}
}

func newTestStore(t *testing.T) (*impl, *fakeAPI) {
	api := newFakeAPI()
	s, err := NewInstance(context.Background(), api, testConfig())
	require.NoError(t, err)
	return s.(*impl), api
}

func unavailable503() error {
	return &googleapi.Error{Code: http.StatusServiceUnavailable, Message: "backend error"}
}

func TestSheetsStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		s, _ := newTestStore(t)
		return s
	})
}

func TestSheetsStore(t *testing.T) {
	ctx := context.Background()

	t.Run(`header rows are created`, func(t *testing.T) {
		_, api := newTestStore(t)
		require.Equal(t, [][]string{jobColumns}, api.rows("Jobs"))
		require.Equal(t, [][]string{applicationColumns}, api.rows("Applications"))
	})

	t.Run(`transient read failures are retried`, func(t *testing.T) {
		s, api := newTestStore(t)
		_, err := s.CreateJob(ctx, storage.JobData{Title: "Video Editor", Department: "content", Type: models.JobTypeFullTime})
		require.NoError(t, err)

		before := api.callCount("get")
		api.fail("get", unavailable503(), &googleapi.Error{Code: http.StatusTooManyRequests})
		jobs, err := s.GetAllJobs(ctx)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		require.Equal(t, before+3, api.callCount("get"))
	})

	t.Run(`exhausted retries surface as unavailable, not as not found`, func(t *testing.T) {
		s, api := newTestStore(t)
		api.fail("get", unavailable503(), unavailable503(), unavailable503())
		job, err := s.GetJob(ctx, "some-id")
		require.Nil(t, job)
		require.Error(t, err)
		require.True(t, storage.IsUnavailable(err))
	})

	t.Run(`permanent api errors are not retried`, func(t *testing.T) {
		s, api := newTestStore(t)
		before := api.callCount("get")
		api.fail("get", &googleapi.Error{Code: http.StatusForbidden, Message: "caller does not have permission"})
		_, err := s.GetAllApplications(ctx)
		require.True(t, storage.IsUnavailable(err))
		require.Equal(t, before+1, api.callCount("get"))
	})

	t.Run(`failed append is not retried and leaves no row`, func(t *testing.T) {
		s, api := newTestStore(t)
		job, err := s.CreateJob(ctx, storage.JobData{Title: "Content Writer", Department: "content", Type: models.JobTypeFullTime})
		require.NoError(t, err)

		appendsBefore := api.callCount("append")
		api.fail("append", unavailable503())
		_, err = s.CreateApplication(ctx, dbmodels.Application{JobID: job.ID, FirstName: "Meera"})
		require.True(t, storage.IsUnavailable(err))
		require.Equal(t, appendsBefore+1, api.callCount("append"))
		require.Len(t, api.rows("Applications"), 1, "only the header row")
	})

	t.Run(`append with lost response is reconciled`, func(t *testing.T) {
		s, api := newTestStore(t)
		job, err := s.CreateJob(ctx, storage.JobData{Title: "Content Writer", Department: "content", Type: models.JobTypeFullTime})
		require.NoError(t, err)

		api.loseResponse("append", unavailable503())
		created, err := s.CreateApplication(ctx, dbmodels.Application{JobID: job.ID, FirstName: "Meera"})
		require.NoError(t, err)
		require.Len(t, api.rows("Applications"), 2, "exactly one new row")

		got, err := s.GetApplication(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
	})

	t.Run(`delete retried after lost response does not remove the neighbour row`, func(t *testing.T) {
		s, api := newTestStore(t)
		first, err := s.CreateJob(ctx, storage.JobData{Title: "First", Department: "content", Type: models.JobTypeFullTime})
		require.NoError(t, err)
		second, err := s.CreateJob(ctx, storage.JobData{Title: "Second", Department: "content", Type: models.JobTypeFullTime})
		require.NoError(t, err)

		api.loseResponse("delete", unavailable503())
		deleted, err := s.DeleteJob(ctx, first.ID)
		require.NoError(t, err)
		require.True(t, deleted)

		jobs, err := s.GetAllJobs(ctx)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		require.Equal(t, second.ID, jobs[0].ID)
	})

	t.Run(`delete of a missing id after a transient read failure reports false`, func(t *testing.T) {
		s, api := newTestStore(t)
		_, err := s.CreateJob(ctx, storage.JobData{Title: "First", Department: "content", Type: models.JobTypeFullTime})
		require.NoError(t, err)

		api.fail("get", unavailable503())
		deleted, err := s.DeleteJob(ctx, "no-such-id")
		require.NoError(t, err)
		require.False(t, deleted)
		require.Len(t, api.rows("Jobs"), 2)
		require.Zero(t, api.callCount("delete"))
	})

	t.Run(`manually edited sheet with blank rows`, func(t *testing.T) {
		s, api := newTestStore(t)
		created, err := s.CreateJob(ctx, storage.JobData{Title: "Graphic Designer", Department: "design", Type: models.JobTypeFullTime})
		require.NoError(t, err)
		rows := api.rows("Jobs")
		// пустая строка между заголовком и данными + строка, короче схемы
		api.setRows("Jobs", [][]string{rows[0], {}, rows[1], {"legacy-id", "Legacy Role"}})

		all, err := s.GetAllJobs(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, "Legacy Role", all[1].Title)
		require.False(t, all[1].Active)

		title := "Senior Graphic Designer"
		updated, err := s.UpdateJob(ctx, created.ID, storage.JobUpdate{Title: &title})
		require.NoError(t, err)
		require.NotNil(t, updated)
		rows = api.rows("Jobs")
		require.Equal(t, created.ID, rows[2][0])
		require.Equal(t, title, rows[2][1])
		require.Empty(t, rows[1])
	})

	t.Run(`malformed cells are decoded leniently`, func(t *testing.T) {
		s, api := newTestStore(t)
		rows := api.rows("Jobs")
		api.setRows("Jobs", append(rows, []string{"job-1", "Editor", "content", "Full-time", "", "", "", "not json", "TRUE", "yesterday"}))
		job, err := s.GetJob(ctx, "job-1")
		require.NoError(t, err)
		require.NotNil(t, job)
		require.Equal(t, "Editor", job.Title)
		require.True(t, job.Active)
		require.Empty(t, job.Requirements)
		require.True(t, job.CreatedAt.IsZero())
	})

	t.Run(`ensure tab failure`, func(t *testing.T) {
		api := newFakeAPI()
		api.fail("ensure", unavailable503(), unavailable503(), unavailable503())
		_, err := NewInstance(ctx, api, testConfig())
		require.True(t, storage.IsUnavailable(err))
	})
}
