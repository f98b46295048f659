package reconcile

import (
	filestorage "careers-backend/lib/file-storage"
	"careers-backend/lib/storage"
	memorystore "careers-backend/lib/storage/memory-store"
	"careers-backend/models"
	dbmodels "careers-backend/models/db"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := memorystore.NewInstance()
	files := filestorage.NewMemory()

	job, err := store.CreateJob(ctx, storage.JobData{Title: "Office Assistant", Department: "administration", Type: models.JobTypeFullTime})
	require.NoError(t, err)

	upload := func(name string, modTime time.Time) string {
		key, err := files.UploadCV(ctx, name, strings.NewReader("%PDF"), 4, "application/pdf")
		require.NoError(t, err)
		files.SetModTime(key, modTime)
		return key
	}
	linked := upload("linked.pdf", now.Add(-2*time.Hour))
	oldOrphan := upload("old.pdf", now.Add(-2*time.Hour))
	freshOrphan := upload("fresh.pdf", now.Add(-time.Minute))

	app, err := store.CreateApplication(ctx, dbmodels.Application{JobID: job.ID, FirstName: "Asha", CVFileRef: linked})
	require.NoError(t, err)
	lost, err := store.CreateApplication(ctx, dbmodels.Application{JobID: job.ID, FirstName: "Ravi", CVFileRef: "cv/gone/ravi.pdf"})
	require.NoError(t, err)
	_, err = store.CreateApplication(ctx, dbmodels.Application{JobID: job.ID, FirstName: "Meera"})
	require.NoError(t, err)

	i := newImpl(store, files, time.Hour, 30*time.Minute)
	i.now = func() time.Time { return now }

	report, err := i.reconcile(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, report.Objects)
	require.Equal(t, 3, report.Applications)
	require.Equal(t, []string{oldOrphan}, report.OrphansRemoved)
	require.Equal(t, []string{freshOrphan}, report.OrphansKept)
	require.Equal(t, []string{lost.ID}, report.MissingCV)

	_, _, err = files.GetCV(ctx, oldOrphan)
	require.ErrorIs(t, err, filestorage.ErrNotFound)
	_, _, err = files.GetCV(ctx, app.CVFileRef)
	require.NoError(t, err)
}
