package middleware

import (
	apimodels "careers-backend/models/api"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

var notifyClient = &http.Client{Timeout: 10 * time.Second}

// ErrNotify отправляет на addr короткое описание каждого ответа 5xx
func ErrNotify(addr string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < http.StatusInternalServerError {
			return err
		}
		var data apimodels.Response
		msg := string(c.Response().Body())
		if unmErr := json.Unmarshal(c.Response().Body(), &data); unmErr == nil && data.Error != "" {
			msg = data.Error
		}
		method := c.Method()
		path := c.OriginalURL()
		if r := c.Route(); r != nil {
			path = r.Path
		}
		go func() {
			payload := fmt.Sprintf(`{"code":%d,"method":%q,"path":%q,"error":%q}`, statusCode, method, path, msg)
			resp, reqErr := notifyClient.Post(addr, "application/json", strings.NewReader(payload))
			if reqErr != nil {
				log.WithError(reqErr).Warn("ошибка отправки уведомления об ошибке")
				return
			}
			_ = resp.Body.Close()
		}()
		return err
	}
}
