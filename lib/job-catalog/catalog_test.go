package jobcatalog

import (
	"careers-backend/lib/questions"
	memorystore "careers-backend/lib/storage/memory-store"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := memorystore.NewInstance()

	created, err := Seed(ctx, store)
	require.NoError(t, err)
	require.Equal(t, len(Openings()), created)

	t.Run(`second run is a no-op`, func(t *testing.T) {
		created, err := Seed(ctx, store)
		require.NoError(t, err)
		require.Zero(t, created)
		jobs, err := store.GetAllJobs(ctx)
		require.NoError(t, err)
		require.Len(t, jobs, len(Openings()))
	})

	t.Run(`every opening is active with a question set`, func(t *testing.T) {
		jobs, err := store.GetActiveJobs(ctx)
		require.NoError(t, err)
		require.Len(t, jobs, len(Openings()))
		for _, job := range jobs {
			require.NoError(t, job.Type.Validate())
			require.NotEmpty(t, questions.For(job), job.Title)
		}
	})
}
