// Package storagetest общий набор проверок контракта storage.Provider,
// прогоняется против каждого хранилища
package storagetest

import (
	"careers-backend/lib/storage"
	"careers-backend/models"
	dbmodels "careers-backend/models/db"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Factory создает пустое хранилище для одного подтеста
type Factory func(t *testing.T) storage.Provider

func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run(`users`, func(t *testing.T) {
		s := newStore(t)
		created, err := s.CreateUser(ctx, dbmodels.User{Username: "asha", PasswordHash: "hash"})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)

		got, err := s.GetUser(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, "asha", got.Username)
		require.Equal(t, "hash", got.PasswordHash)

		got, err = s.GetUserByUsername(ctx, "ASHA")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, created.ID, got.ID)

		_, err = s.CreateUser(ctx, dbmodels.User{Username: "Asha", PasswordHash: "other"})
		require.ErrorIs(t, err, storage.ErrDuplicate)

		missing, err := s.GetUser(ctx, "missing")
		require.NoError(t, err)
		require.Nil(t, missing)
		missing, err = s.GetUserByUsername(ctx, "nobody")
		require.NoError(t, err)
		require.Nil(t, missing)
	})

	t.Run(`admin users`, func(t *testing.T) {
		s := newStore(t)
		created, err := s.CreateAdminUser(ctx, dbmodels.AdminPanelUser{
			Email:        "hr@example.com",
			PasswordHash: "hash",
			FirstName:    "Priya",
			Role:         models.UserRoleHRManager,
			IsActive:     true,
		})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)

		got, err := s.GetAdminUserByEmail(ctx, "HR@example.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, created.ID, got.ID)
		require.Equal(t, models.UserRoleHRManager, got.Role)
		require.True(t, got.IsActive)

		_, err = s.CreateAdminUser(ctx, dbmodels.AdminPanelUser{Email: "hr@example.com"})
		require.ErrorIs(t, err, storage.ErrDuplicate)

		name := "Priyanka"
		inactive := false
		updated, err := s.UpdateAdminUser(ctx, created.ID, storage.AdminUserUpdate{FirstName: &name, IsActive: &inactive})
		require.NoError(t, err)
		require.NotNil(t, updated)
		require.Equal(t, "Priyanka", updated.FirstName)
		require.Equal(t, "hr@example.com", updated.Email)

		got, err = s.GetAdminUser(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, "Priyanka", got.FirstName)
		require.False(t, got.IsActive)

		updated, err = s.UpdateAdminUser(ctx, "missing", storage.AdminUserUpdate{FirstName: &name})
		require.NoError(t, err)
		require.Nil(t, updated)

		list, err := s.ListAdminUsers(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)

		deleted, err := s.DeleteAdminUser(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, deleted)
		deleted, err = s.DeleteAdminUser(ctx, created.ID)
		require.NoError(t, err)
		require.False(t, deleted)
	})

	t.Run(`jobs crud`, func(t *testing.T) {
		s := newStore(t)
		job, err := s.CreateJob(ctx, storage.JobData{
			Title:        "Video Editor",
			Department:   "content",
			Type:         models.JobTypeFullTime,
			Description:  "Edit long-form automotive reviews",
			Requirements: []string{"Premiere Pro", "2+ years"},
		})
		require.NoError(t, err)
		require.NotEmpty(t, job.ID)
		require.True(t, job.Active, "active defaults to true")

		got, err := s.GetJob(ctx, job.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, "Video Editor", got.Title)
		require.Equal(t, []string{"Premiere Pro", "2+ years"}, got.Requirements)

		title := "Senior Video Editor"
		inactive := false
		updated, err := s.UpdateJob(ctx, job.ID, storage.JobUpdate{Title: &title, Active: &inactive})
		require.NoError(t, err)
		require.NotNil(t, updated)
		require.Equal(t, "Senior Video Editor", updated.Title)
		require.Equal(t, "content", updated.Department, "fields not provided stay untouched")
		require.False(t, updated.Active)

		updated, err = s.UpdateJob(ctx, "missing", storage.JobUpdate{Title: &title})
		require.NoError(t, err)
		require.Nil(t, updated)

		missing, err := s.GetJob(ctx, "missing")
		require.NoError(t, err)
		require.Nil(t, missing)
	})

	t.Run(`delete job is idempotent`, func(t *testing.T) {
		s := newStore(t)
		first, err := s.CreateJob(ctx, storage.JobData{Title: "Content Writer", Department: "content", Type: models.JobTypeFullTime})
		require.NoError(t, err)
		second, err := s.CreateJob(ctx, storage.JobData{Title: "Media Sales Manager", Department: "sales", Type: models.JobTypeFullTime})
		require.NoError(t, err)

		deleted, err := s.DeleteJob(ctx, "missing")
		require.NoError(t, err)
		require.False(t, deleted)
		all, err := s.GetAllJobs(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)

		deleted, err = s.DeleteJob(ctx, first.ID)
		require.NoError(t, err)
		require.True(t, deleted)
		deleted, err = s.DeleteJob(ctx, first.ID)
		require.NoError(t, err)
		require.False(t, deleted)

		all, err = s.GetAllJobs(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.Equal(t, second.ID, all[0].ID)
	})

	t.Run(`active jobs and search`, func(t *testing.T) {
		s := newStore(t)
		inactive := false
		_, err := s.CreateJob(ctx, storage.JobData{Title: "Social Media Executive", Department: "content", Type: models.JobTypeFullTime, Description: "Instagram and YouTube"})
		require.NoError(t, err)
		_, err = s.CreateJob(ctx, storage.JobData{Title: "Marketing Internship", Department: "marketing", Type: models.JobTypeInternship, Description: "Six month programme"})
		require.NoError(t, err)
		_, err = s.CreateJob(ctx, storage.JobData{Title: "Accountant", Department: "finance", Type: models.JobTypeFullTime, Active: &inactive})
		require.NoError(t, err)

		active, err := s.GetActiveJobs(ctx)
		require.NoError(t, err)
		require.Len(t, active, 2)
		for _, job := range active {
			require.True(t, job.Active)
		}

		found, err := s.SearchJobs(ctx, "YOUTUBE")
		require.NoError(t, err)
		require.Len(t, found, 1)
		require.Equal(t, "Social Media Executive", found[0].Title)

		found, err = s.SearchJobs(ctx, "finance")
		require.NoError(t, err)
		require.Len(t, found, 1, "department is searched as well")

		found, err = s.SearchJobs(ctx, "blockchain")
		require.NoError(t, err)
		require.Empty(t, found)

		all, err := s.GetAllJobs(ctx)
		require.NoError(t, err)
		found, err = s.SearchJobs(ctx, "  ")
		require.NoError(t, err)
		require.Len(t, found, len(all), "empty keyword returns all jobs")
		for idx := range all {
			require.Equal(t, all[idx].ID, found[idx].ID)
		}

		again, err := s.GetAllJobs(ctx)
		require.NoError(t, err)
		require.Len(t, again, len(all))
		for idx := range all {
			require.Equal(t, all[idx].ID, again[idx].ID, "order is stable without writes")
		}
	})

	t.Run(`application round trip`, func(t *testing.T) {
		s := newStore(t)
		job, err := s.CreateJob(ctx, storage.JobData{Title: "Video Editor", Department: "content", Type: models.JobTypeFullTime})
		require.NoError(t, err)

		in := dbmodels.Application{
			JobID:          job.ID,
			FirstName:      "Rahul",
			LastName:       "Sharma",
			Email:          "rahul@example.com",
			Phone:          "+91 98200 00000",
			CanTravel:      models.TravelAnswerYes,
			CurrentSalary:  "6 LPA",
			ExpectedSalary: "8 LPA",
			Motivation:     "=I love cars and storytelling, and I want to build the best automotive channel",
			CVFileRef:      "cv/abc/resume.pdf",
			CVFileName:     "resume.pdf",
			JobSpecificAnswers: map[string]string{
				"Which editing software do you use?": "Premiere Pro, DaVinci Resolve",
				"Rate your colour grading skills":     "4",
			},
		}
		created, err := s.CreateApplication(ctx, in)
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		require.Equal(t, models.ApplicationStatusPending, created.Status)
		require.False(t, created.CreatedAt.IsZero())

		got, err := s.GetApplication(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, in.JobID, got.JobID)
		require.Equal(t, in.FirstName, got.FirstName)
		require.Equal(t, in.LastName, got.LastName)
		require.Equal(t, in.Email, got.Email)
		require.Equal(t, in.Phone, got.Phone)
		require.Equal(t, in.CanTravel, got.CanTravel)
		require.Equal(t, in.CurrentSalary, got.CurrentSalary)
		require.Equal(t, in.ExpectedSalary, got.ExpectedSalary)
		require.Equal(t, in.Motivation, got.Motivation)
		require.Equal(t, in.CVFileRef, got.CVFileRef)
		require.Equal(t, in.CVFileName, got.CVFileName)
		require.Equal(t, in.JobSpecificAnswers, got.JobSpecificAnswers)
		require.True(t, created.CreatedAt.Equal(got.CreatedAt))

		forJob, err := s.GetApplicationsForJob(ctx, job.ID)
		require.NoError(t, err)
		require.Len(t, forJob, 1, "read your writes")
		require.Equal(t, created.ID, forJob[0].ID)

		all, err := s.GetAllApplications(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)

		missing, err := s.GetApplication(ctx, "missing")
		require.NoError(t, err)
		require.Nil(t, missing)
	})

	t.Run(`application requires existing job`, func(t *testing.T) {
		s := newStore(t)
		_, err := s.CreateApplication(ctx, dbmodels.Application{JobID: "missing", FirstName: "Rahul"})
		require.ErrorIs(t, err, storage.ErrUnknownJob)
		all, err := s.GetAllApplications(ctx)
		require.NoError(t, err)
		require.Empty(t, all)
	})

	t.Run(`application status`, func(t *testing.T) {
		s := newStore(t)
		job, err := s.CreateJob(ctx, storage.JobData{Title: "Content Writer", Department: "content", Type: models.JobTypeFullTime})
		require.NoError(t, err)
		created, err := s.CreateApplication(ctx, dbmodels.Application{JobID: job.ID, FirstName: "Meera", Email: "meera@example.com"})
		require.NoError(t, err)

		notes := "strong portfolio"
		updated, err := s.UpdateApplicationStatus(ctx, created.ID, models.ApplicationStatusShortlisted, &notes)
		require.NoError(t, err)
		require.NotNil(t, updated)
		require.Equal(t, models.ApplicationStatusShortlisted, updated.Status)
		require.Equal(t, notes, updated.Notes)

		updated, err = s.UpdateApplicationStatus(ctx, created.ID, models.ApplicationStatusInterview, nil)
		require.NoError(t, err)
		require.Equal(t, notes, updated.Notes, "notes are kept when not provided")

		_, err = s.UpdateApplicationStatus(ctx, created.ID, models.ApplicationStatus("archived"), nil)
		require.ErrorIs(t, err, storage.ErrInvalidStatus)
		got, err := s.GetApplication(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, models.ApplicationStatusInterview, got.Status, "invalid status does not mutate the record")

		updated, err = s.UpdateApplicationStatus(ctx, "missing", models.ApplicationStatusHired, nil)
		require.NoError(t, err)
		require.Nil(t, updated)
	})

	t.Run(`concurrent submissions get unique ids`, func(t *testing.T) {
		s := newStore(t)
		job, err := s.CreateJob(ctx, storage.JobData{Title: "Media Sales Executive", Department: "sales", Type: models.JobTypeFullTime})
		require.NoError(t, err)

		const n = 10
		ids := make(chan string, n)
		wg := sync.WaitGroup{}
		for idx := 0; idx < n; idx++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				rec, err := s.CreateApplication(ctx, dbmodels.Application{JobID: job.ID, FirstName: "Applicant"})
				if err == nil {
					ids <- rec.ID
				}
			}()
		}
		wg.Wait()
		close(ids)
		seen := map[string]bool{}
		for id := range ids {
			require.False(t, seen[id])
			seen[id] = true
		}
		require.Len(t, seen, n)
		forJob, err := s.GetApplicationsForJob(ctx, job.ID)
		require.NoError(t, err)
		require.Len(t, forJob, n)
	})
}
