package storage

import (
	"careers-backend/models"
	dbmodels "careers-backend/models/db"
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrUnavailable хранилище недоступно (сеть, квота, таймаут). Не путать с "не найдено".
	ErrUnavailable = errors.New("storage unavailable")
	// ErrDuplicate нарушение уникальности (username, email)
	ErrDuplicate = errors.New("record already exists")
	// ErrUnknownJob заявка ссылается на несуществующую вакансию
	ErrUnknownJob = errors.New("job not found")
	// ErrInvalidStatus статус заявки вне допустимого набора
	ErrInvalidStatus = errors.New("invalid application status")
	// ErrUnconfirmed запись могла выполниться, но подтвердить это не удалось
	ErrUnconfirmed = errors.New("write result unknown")
)

// Provider контракт хранения пользователей, вакансий и заявок.
// Отсутствие записи возвращается как (nil, nil) или false, без ошибки.
type Provider interface {
	Ping(ctx context.Context) error

	GetUser(ctx context.Context, id string) (*dbmodels.User, error)
	GetUserByUsername(ctx context.Context, username string) (*dbmodels.User, error)
	CreateUser(ctx context.Context, rec dbmodels.User) (*dbmodels.User, error)

	GetAdminUser(ctx context.Context, id string) (*dbmodels.AdminPanelUser, error)
	GetAdminUserByEmail(ctx context.Context, email string) (*dbmodels.AdminPanelUser, error)
	CreateAdminUser(ctx context.Context, rec dbmodels.AdminPanelUser) (*dbmodels.AdminPanelUser, error)
	UpdateAdminUser(ctx context.Context, id string, upd AdminUserUpdate) (*dbmodels.AdminPanelUser, error)
	DeleteAdminUser(ctx context.Context, id string) (bool, error)
	ListAdminUsers(ctx context.Context) ([]dbmodels.AdminPanelUser, error)

	GetAllJobs(ctx context.Context) ([]dbmodels.Job, error)
	GetActiveJobs(ctx context.Context) ([]dbmodels.Job, error)
	GetJob(ctx context.Context, id string) (*dbmodels.Job, error)
	CreateJob(ctx context.Context, data JobData) (*dbmodels.Job, error)
	UpdateJob(ctx context.Context, id string, upd JobUpdate) (*dbmodels.Job, error)
	DeleteJob(ctx context.Context, id string) (bool, error)
	SearchJobs(ctx context.Context, keyword string) ([]dbmodels.Job, error)

	GetApplicationsForJob(ctx context.Context, jobID string) ([]dbmodels.Application, error)
	GetAllApplications(ctx context.Context) ([]dbmodels.Application, error)
	GetApplication(ctx context.Context, id string) (*dbmodels.Application, error)
	CreateApplication(ctx context.Context, rec dbmodels.Application) (*dbmodels.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus, notes *string) (*dbmodels.Application, error)
}

// JobData данные для создания вакансии, Active по умолчанию true
type JobData struct {
	Title        string
	Department   string
	Type         models.JobType
	Location     string
	Experience   string
	Description  string
	Requirements []string
	Active       *bool
}

func (d JobData) ToRecord() dbmodels.Job {
	rec := dbmodels.Job{
		Title:        d.Title,
		Department:   d.Department,
		Type:         d.Type,
		Location:     d.Location,
		Experience:   d.Experience,
		Description:  d.Description,
		Requirements: d.Requirements,
		Active:       true,
	}
	if d.Active != nil {
		rec.Active = *d.Active
	}
	return rec
}

// JobUpdate частичное обновление, применяются только заданные поля
type JobUpdate struct {
	Title        *string
	Department   *string
	Type         *models.JobType
	Location     *string
	Experience   *string
	Description  *string
	Requirements *[]string
	Active       *bool
}

func (u JobUpdate) IsEmpty() bool {
	return u.Title == nil && u.Department == nil && u.Type == nil && u.Location == nil &&
		u.Experience == nil && u.Description == nil && u.Requirements == nil && u.Active == nil
}

func (u JobUpdate) Apply(rec *dbmodels.Job) {
	if u.Title != nil {
		rec.Title = *u.Title
	}
	if u.Department != nil {
		rec.Department = *u.Department
	}
	if u.Type != nil {
		rec.Type = *u.Type
	}
	if u.Location != nil {
		rec.Location = *u.Location
	}
	if u.Experience != nil {
		rec.Experience = *u.Experience
	}
	if u.Description != nil {
		rec.Description = *u.Description
	}
	if u.Requirements != nil {
		rec.Requirements = *u.Requirements
	}
	if u.Active != nil {
		rec.Active = *u.Active
	}
}

type AdminUserUpdate struct {
	Email        *string
	FirstName    *string
	LastName     *string
	PasswordHash *string
	Role         *models.UserRole
	IsActive     *bool
	LastLogin    *time.Time
}

func (u AdminUserUpdate) Apply(rec *dbmodels.AdminPanelUser) {
	if u.Email != nil {
		rec.Email = *u.Email
	}
	if u.FirstName != nil {
		rec.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		rec.LastName = *u.LastName
	}
	if u.PasswordHash != nil {
		rec.PasswordHash = *u.PasswordHash
	}
	if u.Role != nil {
		rec.Role = *u.Role
	}
	if u.IsActive != nil {
		rec.IsActive = *u.IsActive
	}
	if u.LastLogin != nil {
		rec.LastLogin = *u.LastLogin
	}
}

// IsUnavailable true если ошибка означает недоступность хранилища
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// Unavailable оборачивает ошибку бэкенда так, что errors.Is(err, ErrUnavailable) == true,
// исходная причина остается доступной через errors.Unwrap
func Unavailable(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &unavailableError{op: op, cause: cause}
}

// Unconfirmed недоступность, при которой результат записи неизвестен:
// errors.Is срабатывает и для ErrUnavailable, и для ErrUnconfirmed
func Unconfirmed(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &unavailableError{op: op, cause: cause, unconfirmed: true}
}

type unavailableError struct {
	op          string
	cause       error
	unconfirmed bool
}

func (e *unavailableError) Error() string {
	return "storage unavailable: " + e.op + ": " + e.cause.Error()
}

func (e *unavailableError) Unwrap() error {
	return e.cause
}

func (e *unavailableError) Is(target error) bool {
	return target == ErrUnavailable || (e.unconfirmed && target == ErrUnconfirmed)
}
