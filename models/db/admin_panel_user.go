package dbmodels

import (
	"careers-backend/models"
	"time"

	"github.com/pkg/errors"
)

type AdminPanelUser struct {
	BaseModel
	IsActive     bool
	Role         models.UserRole `gorm:"type:varchar(255)"`
	PasswordHash string          `gorm:"type:varchar(128)"`
	FirstName    string          `gorm:"type:varchar(150)"`
	LastName     string          `gorm:"type:varchar(150)"`
	Email        string          `gorm:"type:varchar(255);uniqueIndex"`
	LastLogin    time.Time
}

func (u AdminPanelUser) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

func (u AdminPanelUser) IsSuperAdmin() bool {
	return u.Role == models.UserRoleSuperAdmin
}

func (u AdminPanelUser) GetFullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
