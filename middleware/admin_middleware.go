package middleware

import (
	adminpanelhandler "careers-backend/lib/admin-panel"
	"careers-backend/lib/storage"
	authutils "careers-backend/lib/utils/auth-utils"
	"careers-backend/models"
	apimodels "careers-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ActiveAdminRequired сверяет владельца токена с текущей записью пользователя.
// Удаленный или отключенный пользователь теряет доступ сразу, роль берется из записи, а не из токена
func ActiveAdminRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userID := authutils.GetUserID(ctx)
		if userID == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("unauthorized"))
		}
		user, err := adminpanelhandler.Instance.GetUser(ctx.UserContext(), userID)
		if err != nil {
			logger := log.WithField("user_id", userID).WithError(err)
			if errors.Is(err, storage.ErrUnavailable) {
				logger.Warn("Ошибка проверки пользователя админки")
				return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError("service unavailable"))
			}
			logger.Error("Ошибка проверки пользователя админки")
			return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError("internal server error"))
		}
		if user == nil || !user.IsActive {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("unauthorized"))
		}
		authutils.SetUserRole(ctx, user.Role)
		return ctx.Next()
	}
}

func SuperAdminRole() fiber.Handler {
	return func(ctx *fiber.Ctx) (err error) {
		if authutils.GetUserRole(ctx) != models.UserRoleSuperAdmin {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operation not permitted"))
		}
		return ctx.Next()
	}
}
