package memorystore

import (
	"careers-backend/lib/storage"
	"careers-backend/models"
	dbmodels "careers-backend/models/db"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// NewInstance хранилище в памяти процесса: локальный запуск и тесты.
// Порядок выдачи списков совпадает с порядком вставки.
func NewInstance() storage.Provider {
	return &impl{
		now: time.Now,
	}
}

type impl struct {
	mu           sync.RWMutex
	users        []dbmodels.User
	adminUsers   []dbmodels.AdminPanelUser
	jobs         []dbmodels.Job
	applications []dbmodels.Application
	now          func() time.Time
}

func (i *impl) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (i *impl) GetUser(ctx context.Context, id string) (*dbmodels.User, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	for _, rec := range i.users {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, nil
}

func (i *impl) GetUserByUsername(ctx context.Context, username string) (*dbmodels.User, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	for _, rec := range i.users {
		if strings.EqualFold(rec.Username, username) {
			return &rec, nil
		}
	}
	return nil, nil
}

func (i *impl) CreateUser(ctx context.Context, rec dbmodels.User) (*dbmodels.User, error) {
	if rec.Username == "" {
		return nil, errors.New("username is required")
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, existed := range i.users {
		if strings.EqualFold(existed.Username, rec.Username) {
			return nil, errors.Wrapf(storage.ErrDuplicate, "username %q", rec.Username)
		}
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = i.now()
	i.users = append(i.users, rec)
	return &rec, nil
}

func (i *impl) GetAdminUser(ctx context.Context, id string) (*dbmodels.AdminPanelUser, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	idx := i.adminUserIdx(id)
	if idx < 0 {
		return nil, nil
	}
	rec := i.adminUsers[idx]
	return &rec, nil
}

func (i *impl) GetAdminUserByEmail(ctx context.Context, email string) (*dbmodels.AdminPanelUser, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	for _, rec := range i.adminUsers {
		if strings.EqualFold(rec.Email, email) {
			return &rec, nil
		}
	}
	return nil, nil
}

func (i *impl) CreateAdminUser(ctx context.Context, rec dbmodels.AdminPanelUser) (*dbmodels.AdminPanelUser, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, existed := range i.adminUsers {
		if strings.EqualFold(existed.Email, rec.Email) {
			return nil, errors.Wrapf(storage.ErrDuplicate, "email %q", rec.Email)
		}
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = i.now()
	rec.UpdatedAt = rec.CreatedAt
	i.adminUsers = append(i.adminUsers, rec)
	return &rec, nil
}

func (i *impl) UpdateAdminUser(ctx context.Context, id string, upd storage.AdminUserUpdate) (*dbmodels.AdminPanelUser, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	idx := i.adminUserIdx(id)
	if idx < 0 {
		return nil, nil
	}
	if upd.Email != nil {
		for _, existed := range i.adminUsers {
			if existed.ID != id && strings.EqualFold(existed.Email, *upd.Email) {
				return nil, errors.Wrapf(storage.ErrDuplicate, "email %q", *upd.Email)
			}
		}
	}
	rec := i.adminUsers[idx]
	upd.Apply(&rec)
	rec.UpdatedAt = i.now()
	i.adminUsers[idx] = rec
	return &rec, nil
}

func (i *impl) DeleteAdminUser(ctx context.Context, id string) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	idx := i.adminUserIdx(id)
	if idx < 0 {
		return false, nil
	}
	i.adminUsers = append(i.adminUsers[:idx], i.adminUsers[idx+1:]...)
	return true, nil
}

func (i *impl) ListAdminUsers(ctx context.Context) ([]dbmodels.AdminPanelUser, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	result := make([]dbmodels.AdminPanelUser, len(i.adminUsers))
	copy(result, i.adminUsers)
	return result, nil
}

func (i *impl) GetAllJobs(ctx context.Context) ([]dbmodels.Job, error) {
	return i.filterJobs(func(dbmodels.Job) bool { return true }), nil
}

func (i *impl) GetActiveJobs(ctx context.Context) ([]dbmodels.Job, error) {
	return i.filterJobs(func(rec dbmodels.Job) bool { return rec.Active }), nil
}

func (i *impl) GetJob(ctx context.Context, id string) (*dbmodels.Job, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	idx := i.jobIdx(id)
	if idx < 0 {
		return nil, nil
	}
	rec := copyJob(i.jobs[idx])
	return &rec, nil
}

func (i *impl) CreateJob(ctx context.Context, data storage.JobData) (*dbmodels.Job, error) {
	rec := data.ToRecord()
	i.mu.Lock()
	defer i.mu.Unlock()
	rec.ID = uuid.NewString()
	rec.CreatedAt = i.now()
	rec.UpdatedAt = rec.CreatedAt
	rec = copyJob(rec)
	i.jobs = append(i.jobs, rec)
	result := copyJob(rec)
	return &result, nil
}

func (i *impl) UpdateJob(ctx context.Context, id string, upd storage.JobUpdate) (*dbmodels.Job, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	idx := i.jobIdx(id)
	if idx < 0 {
		return nil, nil
	}
	rec := copyJob(i.jobs[idx])
	upd.Apply(&rec)
	rec.UpdatedAt = i.now()
	rec = copyJob(rec)
	i.jobs[idx] = rec
	result := copyJob(rec)
	return &result, nil
}

func (i *impl) DeleteJob(ctx context.Context, id string) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	idx := i.jobIdx(id)
	if idx < 0 {
		return false, nil
	}
	i.jobs = append(i.jobs[:idx], i.jobs[idx+1:]...)
	return true, nil
}

func (i *impl) SearchJobs(ctx context.Context, keyword string) ([]dbmodels.Job, error) {
	return i.filterJobs(func(rec dbmodels.Job) bool { return rec.MatchKeyword(keyword) }), nil
}

func (i *impl) GetApplicationsForJob(ctx context.Context, jobID string) ([]dbmodels.Application, error) {
	return i.filterApplications(func(rec dbmodels.Application) bool { return rec.JobID == jobID }), nil
}

func (i *impl) GetAllApplications(ctx context.Context) ([]dbmodels.Application, error) {
	return i.filterApplications(func(dbmodels.Application) bool { return true }), nil
}

func (i *impl) GetApplication(ctx context.Context, id string) (*dbmodels.Application, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	idx := i.applicationIdx(id)
	if idx < 0 {
		return nil, nil
	}
	rec := copyApplication(i.applications[idx])
	return &rec, nil
}

func (i *impl) CreateApplication(ctx context.Context, rec dbmodels.Application) (*dbmodels.Application, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.jobIdx(rec.JobID) < 0 {
		return nil, errors.Wrapf(storage.ErrUnknownJob, "job_id %q", rec.JobID)
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = i.now()
	rec.UpdatedAt = rec.CreatedAt
	rec.Status = models.ApplicationStatusPending
	rec = copyApplication(rec)
	i.applications = append(i.applications, rec)
	result := copyApplication(rec)
	return &result, nil
}

func (i *impl) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus, notes *string) (*dbmodels.Application, error) {
	if err := status.Validate(); err != nil {
		return nil, errors.Wrap(storage.ErrInvalidStatus, err.Error())
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	idx := i.applicationIdx(id)
	if idx < 0 {
		return nil, nil
	}
	rec := copyApplication(i.applications[idx])
	rec.Status = status
	if notes != nil {
		rec.Notes = *notes
	}
	rec.UpdatedAt = i.now()
	i.applications[idx] = rec
	result := copyApplication(rec)
	return &result, nil
}

func (i *impl) filterJobs(match func(dbmodels.Job) bool) []dbmodels.Job {
	i.mu.RLock()
	defer i.mu.RUnlock()
	result := make([]dbmodels.Job, 0, len(i.jobs))
	for _, rec := range i.jobs {
		if match(rec) {
			result = append(result, copyJob(rec))
		}
	}
	return result
}

func (i *impl) filterApplications(match func(dbmodels.Application) bool) []dbmodels.Application {
	i.mu.RLock()
	defer i.mu.RUnlock()
	result := make([]dbmodels.Application, 0)
	for _, rec := range i.applications {
		if match(rec) {
			result = append(result, copyApplication(rec))
		}
	}
	return result
}

func (i *impl) adminUserIdx(id string) int {
	for idx := range i.adminUsers {
		if i.adminUsers[idx].ID == id {
			return idx
		}
	}
	return -1
}

func (i *impl) jobIdx(id string) int {
	for idx := range i.jobs {
		if i.jobs[idx].ID == id {
			return idx
		}
	}
	return -1
}

func (i *impl) applicationIdx(id string) int {
	for idx := range i.applications {
		if i.applications[idx].ID == id {
			return idx
		}
	}
	return -1
}

func copyJob(rec dbmodels.Job) dbmodels.Job {
	if rec.Requirements != nil {
		rec.Requirements = append([]string(nil), rec.Requirements...)
	}
	return rec
}

func copyApplication(rec dbmodels.Application) dbmodels.Application {
	if rec.JobSpecificAnswers != nil {
		answers := make(map[string]string, len(rec.JobSpecificAnswers))
		for k, v := range rec.JobSpecificAnswers {
			answers[k] = v
		}
		rec.JobSpecificAnswers = answers
	}
	return rec
}
