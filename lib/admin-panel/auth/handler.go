package adminpanelauthhandler

import (
	"careers-backend/lib/storage"
	authutils "careers-backend/lib/utils/auth-utils"
	authapimodels "careers-backend/models/api/auth"
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

const invalidCredentials = "invalid email or password"

type Provider interface {
	Login(ctx context.Context, email, password string) (response *authapimodels.JWTResponse, hMsg string, err error)
}

var Instance Provider

func NewHandler(store storage.Provider, secret string, expireInSec int) {
	Instance = impl{
		store:       store,
		secret:      secret,
		expireInSec: expireInSec,
	}
}

type impl struct {
	store       storage.Provider
	secret      string
	expireInSec int
}

func (i impl) Login(ctx context.Context, email, password string) (response *authapimodels.JWTResponse, hMsg string, err error) {
	logger := log.WithField("email", email)
	user, err := i.store.GetAdminUserByEmail(ctx, email)
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка поиска пользователя по почте")
		return nil, "", err
	}
	if user == nil {
		logger.Debug("пользователь с такой почтой не найден")
		return nil, invalidCredentials, nil
	}
	if !authutils.CheckPassword(user.PasswordHash, password) {
		logger.Debug("пользователь не прошел проверку пароля")
		return nil, invalidCredentials, nil
	}
	if !user.IsActive {
		logger.Debug("пользователь заблокирован")
		return nil, "user is disabled", nil
	}
	tokenString, err := authutils.GetAdminToken(*user, i.secret, i.expireInSec)
	if err != nil {
		logger.WithError(err).Error("ошибка генерации JWT")
		return nil, "", err
	}
	now := time.Now().UTC()
	_, err = i.store.UpdateAdminUser(ctx, user.ID, storage.AdminUserUpdate{LastLogin: &now})
	if err != nil {
		logger.
			WithError(err).
			Error("ошибка обновления даты последнего входа")
	}
	return &authapimodels.JWTResponse{
		Token:     tokenString,
		ExpiresAt: now.Add(time.Second * time.Duration(i.expireInSec)),
	}, "", nil
}
