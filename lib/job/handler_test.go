package jobhandler

import (
	"careers-backend/lib/questions"
	"careers-backend/lib/storage"
	memorystore "careers-backend/lib/storage/memory-store"
	"careers-backend/models"
	jobapimodels "careers-backend/models/api/job"
	dbmodels "careers-backend/models/db"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (storage.Provider, map[string]string) {
	ctx := context.Background()
	store := memorystore.NewInstance()
	inactive := false
	ids := map[string]string{}
	for name, data := range map[string]storage.JobData{
		"editor": {Title: "Video Editor", Department: "content", Type: models.JobTypeFullTime, Description: "Cut reviews"},
		"sales":  {Title: "Account Manager", Department: "sales", Type: models.JobTypeFullTime, Description: "Sell ads"},
		"closed": {Title: "Senior Editor", Department: "content", Type: models.JobTypeFullTime, Active: &inactive},
	} {
		rec, err := store.CreateJob(ctx, data)
		require.NoError(t, err)
		ids[name] = rec.ID
	}
	return store, ids
}

func TestPublicJobs(t *testing.T) {
	ctx := context.Background()
	store, ids := newStore(t)
	h := impl{store: store}

	t.Run(`list shows only active jobs`, func(t *testing.T) {
		list, err := h.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		for _, job := range list {
			require.True(t, job.Active)
			require.NotNil(t, job.Requirements)
		}
	})

	t.Run(`search skips inactive jobs`, func(t *testing.T) {
		list, err := h.Search(ctx, "EDITOR")
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, ids["editor"], list[0].ID)
	})

	t.Run(`search by department and description`, func(t *testing.T) {
		list, err := h.Search(ctx, "ads")
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, ids["sales"], list[0].ID)
	})

	t.Run(`inactive job is not visible`, func(t *testing.T) {
		job, err := h.GetActive(ctx, ids["closed"])
		require.NoError(t, err)
		require.Nil(t, job)

		selection, err := h.Questions(ctx, ids["closed"])
		require.NoError(t, err)
		require.Nil(t, selection)
	})

	t.Run(`questions follow the selector`, func(t *testing.T) {
		selection, err := h.Questions(ctx, ids["editor"])
		require.NoError(t, err)
		require.NotNil(t, selection)
		require.Equal(t, questions.SetVideo, selection.Rule)
		require.NotEmpty(t, selection.Questions)

		selection, err = h.Questions(ctx, ids["sales"])
		require.NoError(t, err)
		require.Equal(t, "department:sales", selection.Rule)
	})
}

func TestAdminJobs(t *testing.T) {
	ctx := context.Background()
	store, ids := newStore(t)
	h := impl{store: store}
	_, err := store.CreateApplication(ctx, dbmodels.Application{JobID: ids["editor"], Email: "a@example.com"})
	require.NoError(t, err)

	t.Run(`create then get with applications count`, func(t *testing.T) {
		id, err := h.Create(ctx, jobapimodels.JobData{
			Title:      "  Graphic Designer ",
			Department: "design",
			Type:       models.JobTypeContract,
		})
		require.NoError(t, err)
		view, err := h.Get(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "Graphic Designer", view.Title)
		require.True(t, view.Active)
		require.Zero(t, view.ApplicationsCount)

		view, err = h.Get(ctx, ids["editor"])
		require.NoError(t, err)
		require.Equal(t, 1, view.ApplicationsCount)
	})

	t.Run(`update deactivates job`, func(t *testing.T) {
		active := false
		hMsg, err := h.Update(ctx, ids["sales"], jobapimodels.JobUpdate{Active: &active})
		require.NoError(t, err)
		require.Empty(t, hMsg)
		job, err := h.GetActive(ctx, ids["sales"])
		require.NoError(t, err)
		require.Nil(t, job)
	})

	t.Run(`update and delete unknown job`, func(t *testing.T) {
		title := "x"
		hMsg, err := h.Update(ctx, "missing", jobapimodels.JobUpdate{Title: &title})
		require.NoError(t, err)
		require.Equal(t, "job not found", hMsg)

		hMsg, err = h.Delete(ctx, "missing")
		require.NoError(t, err)
		require.Equal(t, "job not found", hMsg)

		view, err := h.Get(ctx, "missing")
		require.NoError(t, err)
		require.Nil(t, view)
	})

	t.Run(`list includes inactive unless filtered`, func(t *testing.T) {
		list, err := h.List(ctx, jobapimodels.ListFilter{Search: "editor"})
		require.NoError(t, err)
		require.Len(t, list, 2)

		list, err = h.List(ctx, jobapimodels.ListFilter{Search: "editor", ActiveOnly: true})
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, 1, list[0].ApplicationsCount)
	})

	t.Run(`delete`, func(t *testing.T) {
		hMsg, err := h.Delete(ctx, ids["closed"])
		require.NoError(t, err)
		require.Empty(t, hMsg)
		rec, err := store.GetJob(ctx, ids["closed"])
		require.NoError(t, err)
		require.Nil(t, rec)
	})
}
