package middleware

import (
	apimodels "careers-backend/models/api"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// SubmissionRateLimit ограничение числа заявок с одного IP
func SubmissionRateLimit(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(apimodels.NewErrorWithDetails(
				"too many requests",
				"You have submitted too many applications. Please try again in a minute.",
			))
		},
	})
}
