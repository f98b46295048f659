package controllers

import (
	"careers-backend/lib/storage"
	apimodels "careers-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const unavailableDetails = "Our application system is temporarily unavailable. Please try again in a few minutes."

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("failed to read request data")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if id == "" {
		return "", errors.New("id is required")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	logger := log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path())
	if requestID, ok := ctx.Locals("requestid").(string); ok && requestID != "" {
		logger = logger.WithField("request_id", requestID)
	}
	return logger
}

// SendError недоступность хранилища - 503 с просьбой повторить позже, остальное - 500
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, msg string) error {
	if errors.Is(err, storage.ErrUnavailable) {
		logger.WithError(err).Warn(msg)
		return ctx.Status(fiber.StatusServiceUnavailable).
			JSON(apimodels.NewErrorWithDetails("service unavailable", unavailableDetails))
	}
	logger.WithError(err).Error(msg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError("internal server error"))
}

func (c *BaseAPIController) SendBadRequest(ctx *fiber.Ctx, msg string) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(msg))
}

func (c *BaseAPIController) SendNotFound(ctx *fiber.Ctx, msg string) error {
	return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(msg))
}
