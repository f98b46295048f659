package pgstore

import (
	"careers-backend/lib/storage"
	"careers-backend/models"
	dbmodels "careers-backend/models/db"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// NewInstance хранилище в Postgres. Уникальность username/email дополнительно
// обеспечивается индексами, нарушение приходит как gorm.ErrDuplicatedKey.
func NewInstance(DB *gorm.DB) storage.Provider {
	return &impl{
		db:  DB,
		// точность timestamp в Postgres - микросекунды
		now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

type impl struct {
	db  *gorm.DB
	now func() time.Time
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (i impl) Ping(ctx context.Context) error {
	db, err := i.db.WithContext(ctx).DB()
	if err != nil {
		return storage.Unavailable("ping", err)
	}
	if err = db.PingContext(ctx); err != nil {
		return storage.Unavailable("ping", err)
	}
	return nil
}

func (i impl) GetUser(ctx context.Context, id string) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rec).
		Error
	return found(&rec, "get user", err)
}

func (i impl) GetUserByUsername(ctx context.Context, username string) (*dbmodels.User, error) {
	rec := dbmodels.User{}
	err := i.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", username).
		First(&rec).
		Error
	return found(&rec, "get user by username", err)
}

func (i impl) CreateUser(ctx context.Context, rec dbmodels.User) (*dbmodels.User, error) {
	if rec.Username == "" {
		return nil, errors.New("username is required")
	}
	existed, err := i.GetUserByUsername(ctx, rec.Username)
	if err != nil {
		return nil, err
	}
	if existed != nil {
		return nil, errors.Wrapf(storage.ErrDuplicate, "username %q", rec.Username)
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = i.now()
	err = i.db.WithContext(ctx).
		Create(&rec).
		Error
	if err != nil {
		return nil, translate("create user", err, "username "+rec.Username)
	}
	return &rec, nil
}

func (i impl) GetAdminUser(ctx context.Context, id string) (*dbmodels.AdminPanelUser, error) {
	rec := dbmodels.AdminPanelUser{}
	err := i.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rec).
		Error
	return found(&rec, "get admin user", err)
}

func (i impl) GetAdminUserByEmail(ctx context.Context, email string) (*dbmodels.AdminPanelUser, error) {
	rec := dbmodels.AdminPanelUser{}
	err := i.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&rec).
		Error
	return found(&rec, "get admin user by email", err)
}

func (i impl) CreateAdminUser(ctx context.Context, rec dbmodels.AdminPanelUser) (*dbmodels.AdminPanelUser, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	existed, err := i.GetAdminUserByEmail(ctx, rec.Email)
	if err != nil {
		return nil, err
	}
	if existed != nil {
		return nil, errors.Wrapf(storage.ErrDuplicate, "email %q", rec.Email)
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = i.now()
	rec.UpdatedAt = rec.CreatedAt
	err = i.db.WithContext(ctx).
		Create(&rec).
		Error
	if err != nil {
		return nil, translate("create admin user", err, "email "+rec.Email)
	}
	return &rec, nil
}

func (i impl) UpdateAdminUser(ctx context.Context, id string, upd storage.AdminUserUpdate) (*dbmodels.AdminPanelUser, error) {
	rec, err := i.GetAdminUser(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	if upd.Email != nil {
		existed, err := i.GetAdminUserByEmail(ctx, *upd.Email)
		if err != nil {
			return nil, err
		}
		if existed != nil && existed.ID != id {
			return nil, errors.Wrapf(storage.ErrDuplicate, "email %q", *upd.Email)
		}
	}
	upd.Apply(rec)
	rec.UpdatedAt = i.now()
	err = i.db.WithContext(ctx).
		Save(rec).
		Error
	if err != nil {
		return nil, translate("update admin user", err, "email "+rec.Email)
	}
	return rec, nil
}

func (i impl) DeleteAdminUser(ctx context.Context, id string) (bool, error) {
	tx := i.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&dbmodels.AdminPanelUser{})
	if tx.Error != nil {
		return false, storage.Unavailable("delete admin user", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) ListAdminUsers(ctx context.Context) ([]dbmodels.AdminPanelUser, error) {
	list := []dbmodels.AdminPanelUser{}
	err := i.db.WithContext(ctx).
		Order("created_at, id").
		Find(&list).
		Error
	if err != nil {
		return nil, storage.Unavailable("list admin users", err)
	}
	return list, nil
}

func (i impl) GetAllJobs(ctx context.Context) ([]dbmodels.Job, error) {
	return i.listJobs(i.db.WithContext(ctx))
}

func (i impl) GetActiveJobs(ctx context.Context) ([]dbmodels.Job, error) {
	return i.listJobs(i.db.WithContext(ctx).Where("active = ?", true))
}

func (i impl) GetJob(ctx context.Context, id string) (*dbmodels.Job, error) {
	rec := dbmodels.Job{}
	err := i.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rec).
		Error
	return found(&rec, "get job", err)
}

func (i impl) CreateJob(ctx context.Context, data storage.JobData) (*dbmodels.Job, error) {
	rec := data.ToRecord()
	rec.ID = uuid.NewString()
	rec.CreatedAt = i.now()
	rec.UpdatedAt = rec.CreatedAt
	err := i.db.WithContext(ctx).
		Create(&rec).
		Error
	if err != nil {
		return nil, storage.Unavailable("create job", err)
	}
	return &rec, nil
}

func (i impl) UpdateJob(ctx context.Context, id string, upd storage.JobUpdate) (*dbmodels.Job, error) {
	rec, err := i.GetJob(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	upd.Apply(rec)
	rec.UpdatedAt = i.now()
	err = i.db.WithContext(ctx).
		Save(rec).
		Error
	if err != nil {
		return nil, storage.Unavailable("update job", err)
	}
	return rec, nil
}

func (i impl) DeleteJob(ctx context.Context, id string) (bool, error) {
	tx := i.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&dbmodels.Job{})
	if tx.Error != nil {
		return false, storage.Unavailable("delete job", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (i impl) SearchJobs(ctx context.Context, keyword string) ([]dbmodels.Job, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return i.GetAllJobs(ctx)
	}
	pattern := "%" + likeEscaper.Replace(keyword) + "%"
	tx := i.db.WithContext(ctx).
		Where("title ILIKE ? OR department ILIKE ? OR description ILIKE ?", pattern, pattern, pattern)
	return i.listJobs(tx)
}

func (i impl) GetApplicationsForJob(ctx context.Context, jobID string) ([]dbmodels.Application, error) {
	return i.listApplications(i.db.WithContext(ctx).Where("job_id = ?", jobID))
}

func (i impl) GetAllApplications(ctx context.Context) ([]dbmodels.Application, error) {
	return i.listApplications(i.db.WithContext(ctx))
}

func (i impl) GetApplication(ctx context.Context, id string) (*dbmodels.Application, error) {
	rec := dbmodels.Application{}
	err := i.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rec).
		Error
	return found(&rec, "get application", err)
}

func (i impl) CreateApplication(ctx context.Context, rec dbmodels.Application) (*dbmodels.Application, error) {
	job, err := i.GetJob(ctx, rec.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errors.Wrapf(storage.ErrUnknownJob, "job_id %q", rec.JobID)
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = i.now()
	rec.UpdatedAt = rec.CreatedAt
	rec.Status = models.ApplicationStatusPending
	err = i.db.WithContext(ctx).
		Create(&rec).
		Error
	if err != nil {
		return nil, storage.Unavailable("create application", err)
	}
	return &rec, nil
}

func (i impl) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus, notes *string) (*dbmodels.Application, error) {
	if err := status.Validate(); err != nil {
		return nil, errors.Wrap(storage.ErrInvalidStatus, err.Error())
	}
	rec, err := i.GetApplication(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	rec.Status = status
	if notes != nil {
		rec.Notes = *notes
	}
	rec.UpdatedAt = i.now()
	updMap := map[string]interface{}{
		"status":     rec.Status,
		"notes":      rec.Notes,
		"updated_at": rec.UpdatedAt,
	}
	err = i.db.WithContext(ctx).
		Model(&dbmodels.Application{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return nil, storage.Unavailable("update application status", err)
	}
	return rec, nil
}

func (i impl) listJobs(tx *gorm.DB) ([]dbmodels.Job, error) {
	list := []dbmodels.Job{}
	err := tx.
		Order("created_at, id").
		Find(&list).
		Error
	if err != nil {
		return nil, storage.Unavailable("list jobs", err)
	}
	return list, nil
}

func (i impl) listApplications(tx *gorm.DB) ([]dbmodels.Application, error) {
	list := []dbmodels.Application{}
	err := tx.
		Order("created_at, id").
		Find(&list).
		Error
	if err != nil {
		return nil, storage.Unavailable("list applications", err)
	}
	return list, nil
}

// found отсутствие записи - (nil, nil), прочие ошибки БД - недоступность хранилища
func found[T any](rec *T, op string, err error) (*T, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storage.Unavailable(op, err)
	}
	return rec, nil
}

func translate(op string, err error, what string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Wrap(storage.ErrDuplicate, what)
	}
	return storage.Unavailable(op, err)
}
