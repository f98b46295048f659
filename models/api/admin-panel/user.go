package adminpanelapimodels

import (
	"careers-backend/models"
	dbmodels "careers-backend/models/db"
	"net/mail"
	"time"

	"github.com/pkg/errors"
)

type UserView struct {
	User
	ID        string     `json:"id"`
	IsActive  bool       `json:"is_active"`
	RoleName  string     `json:"role_name"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type User struct {
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Password  string          `json:"password,omitempty"`
	Role      models.UserRole `json:"role"`
}

func (u User) Validate() error {
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return errors.New("email has an invalid format")
	}
	if u.FirstName == "" {
		return errors.New("first name is required")
	}
	if len(u.Password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	return u.Role.Validate()
}

func UserConvert(rec dbmodels.AdminPanelUser) UserView {
	result := UserView{
		User: User{
			Email:     rec.Email,
			FirstName: rec.FirstName,
			LastName:  rec.LastName,
			Role:      rec.Role,
		},
		ID:        rec.ID,
		IsActive:  rec.IsActive,
		RoleName:  rec.Role.ToHuman(),
		CreatedAt: rec.CreatedAt,
	}
	if !rec.LastLogin.IsZero() {
		lastLogin := rec.LastLogin
		result.LastLogin = &lastLogin
	}
	return result
}

type UserUpdate struct {
	Email     *string          `json:"email"`
	FirstName *string          `json:"first_name"`
	LastName  *string          `json:"last_name"`
	Password  *string          `json:"password"`
	Role      *models.UserRole `json:"role"`
	IsActive  *bool            `json:"is_active"`
}

func (u UserUpdate) Validate() error {
	if u.Email != nil {
		if _, err := mail.ParseAddress(*u.Email); err != nil {
			return errors.New("email has an invalid format")
		}
	}
	if u.Password != nil && len(*u.Password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	if u.Role != nil {
		return u.Role.Validate()
	}
	return nil
}
