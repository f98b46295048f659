package authapimodels

import (
	"net/mail"
	"strings"

	"github.com/pkg/errors"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	_, err := mail.ParseAddress(r.Email)
	if err != nil {
		return errors.New("email has an invalid format")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

const minPasswordLen = 8

// RegisterRequest регистрация соискателя
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	username := strings.TrimSpace(r.Username)
	if len(username) < 3 || len(username) > 150 {
		return errors.New("username must be 3 to 150 characters long")
	}
	if strings.ContainsAny(username, " \t\n") {
		return errors.New("username must not contain spaces")
	}
	if len(r.Password) < minPasswordLen {
		return errors.Errorf("password must be at least %d characters long", minPasswordLen)
	}
	return nil
}
