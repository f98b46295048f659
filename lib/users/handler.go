package usershandler

import (
	"careers-backend/lib/storage"
	authutils "careers-backend/lib/utils/auth-utils"
	authapimodels "careers-backend/models/api/auth"
	usersapimodels "careers-backend/models/api/users"
	dbmodels "careers-backend/models/db"
	"context"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Register(ctx context.Context, request authapimodels.RegisterRequest) (user *usersapimodels.UserView, hMsg string, err error)
	Get(ctx context.Context, userID string) (*usersapimodels.UserView, error)
}

var Instance Provider

func NewHandler(store storage.Provider) {
	Instance = impl{
		store: store,
	}
}

type impl struct {
	store storage.Provider
}

func (i impl) Register(ctx context.Context, request authapimodels.RegisterRequest) (user *usersapimodels.UserView, hMsg string, err error) {
	username := strings.TrimSpace(request.Username)
	logger := log.WithField("username", username)
	hash, err := authutils.HashPassword(request.Password)
	if err != nil {
		return nil, "", err
	}
	rec, err := i.store.CreateUser(ctx, dbmodels.User{
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, "this username is already taken", nil
		}
		logger.
			WithError(err).
			Error("ошибка регистрации пользователя")
		return nil, "", err
	}
	logger.
		WithField("user_id", rec.ID).
		Info("зарегистрирован пользователь")
	result := usersapimodels.UserConvert(*rec)
	return &result, "", nil
}

func (i impl) Get(ctx context.Context, userID string) (*usersapimodels.UserView, error) {
	rec, err := i.store.GetUser(ctx, userID)
	if err != nil {
		log.
			WithField("user_id", userID).
			WithError(err).
			Error("ошибка получения пользователя")
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	result := usersapimodels.UserConvert(*rec)
	return &result, nil
}
