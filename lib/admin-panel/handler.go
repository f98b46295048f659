package adminpanelhandler

import (
	"careers-backend/lib/storage"
	authutils "careers-backend/lib/utils/auth-utils"
	"careers-backend/models"
	adminpanelapimodels "careers-backend/models/api/admin-panel"
	dbmodels "careers-backend/models/db"
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	CreateUser(ctx context.Context, request adminpanelapimodels.User) (userID string, hMsg string, err error)
	UpdateUser(ctx context.Context, userID string, request adminpanelapimodels.UserUpdate) (hMsg string, err error)
	DeleteUser(ctx context.Context, userID string) (hMsg string, err error)
	GetUser(ctx context.Context, userID string) (*adminpanelapimodels.UserView, error)
	List(ctx context.Context) ([]adminpanelapimodels.UserView, error)
	// Bootstrap создает супер-админа, если пользователей админки еще нет
	Bootstrap(ctx context.Context, email, password string) error
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

func (i impl) CreateUser(ctx context.Context, request adminpanelapimodels.User) (userID string, hMsg string, err error) {
	logger := log.WithField("email", request.Email)
	hash, err := authutils.HashPassword(request.Password)
	if err != nil {
		return "", "", err
	}
	rec := dbmodels.AdminPanelUser{
		IsActive:     true,
		Role:         request.Role,
		PasswordHash: hash,
		FirstName:    request.FirstName,
		LastName:     request.LastName,
		Email:        request.Email,
	}
	created, err := i.store.CreateAdminUser(ctx, rec)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return "", "a user with this email already exists", nil
		}
		logger.
			WithError(err).
			Error("Ошибка создания пользователя админки")
		return "", "", err
	}
	logger.
		WithField("user_id", created.ID).
		Info("Создан пользователь админки")
	return created.ID, "", nil
}

func (i impl) UpdateUser(ctx context.Context, userID string, request adminpanelapimodels.UserUpdate) (hMsg string, err error) {
	logger := log.WithField("user_id", userID)
	upd := storage.AdminUserUpdate{
		Email:     request.Email,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Role:      request.Role,
		IsActive:  request.IsActive,
	}
	if request.Password != nil {
		hash, err := authutils.HashPassword(*request.Password)
		if err != nil {
			return "", err
		}
		upd.PasswordHash = &hash
	}
	rec, err := i.store.UpdateAdminUser(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return "a user with this email already exists", nil
		}
		logger.
			WithError(err).
			Error("Ошибка обновления пользователя админки")
		return "", err
	}
	if rec == nil {
		return "user not found", nil
	}
	logger.Info("Обновлен пользователь админки")
	return "", nil
}

func (i impl) DeleteUser(ctx context.Context, userID string) (hMsg string, err error) {
	logger := log.WithField("user_id", userID)
	deleted, err := i.store.DeleteAdminUser(ctx, userID)
	if err != nil {
		logger.
			WithError(err).
			Error("Ошибка удаления пользователя админки")
		return "", err
	}
	if !deleted {
		return "user not found", nil
	}
	logger.Info("Удален пользователь админки")
	return "", nil
}

func (i impl) GetUser(ctx context.Context, userID string) (*adminpanelapimodels.UserView, error) {
	rec, err := i.store.GetAdminUser(ctx, userID)
	if err != nil {
		log.
			WithField("user_id", userID).
			WithError(err).
			Error("Ошибка получения пользователя админки")
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	result := adminpanelapimodels.UserConvert(*rec)
	return &result, nil
}

func (i impl) List(ctx context.Context) ([]adminpanelapimodels.UserView, error) {
	list, err := i.store.ListAdminUsers(ctx)
	if err != nil {
		log.
			WithError(err).
			Error("Ошибка получения списка пользователей админки")
		return nil, err
	}
	result := make([]adminpanelapimodels.UserView, 0, len(list))
	for _, rec := range list {
		result = append(result, adminpanelapimodels.UserConvert(rec))
	}
	return result, nil
}

func (i impl) Bootstrap(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		log.Debug("данные супер-админа по умолчанию не заданы, создание пропущено")
		return nil
	}
	list, err := i.store.ListAdminUsers(ctx)
	if err != nil {
		return errors.Wrap(err, "ошибка получения списка пользователей админки")
	}
	if len(list) != 0 {
		return nil
	}
	userID, hMsg, err := i.CreateUser(ctx, adminpanelapimodels.User{
		Email:     email,
		FirstName: "Super",
		LastName:  "Admin",
		Password:  password,
		Role:      models.UserRoleSuperAdmin,
	})
	if err != nil {
		return err
	}
	if hMsg != "" {
		return errors.New(hMsg)
	}
	log.
		WithField("user_id", userID).
		WithField("email", email).
		Info("Создан супер-админ по умолчанию")
	return nil
}
