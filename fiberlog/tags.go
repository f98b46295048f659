package fiberlog

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid     = "pid"
	TagLatency = "latency"
	TagStatus  = "status"
	TagMethod  = "method"
	TagPath    = "path"
	TagIP      = "ip"
	TagBody    = "body"
	TagResBody = "res_body"
	RequestID  = "request_id"
)

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag значение поля лога для запроса
type FuncTag func(c *fiber.Ctx, d *data) interface{}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid:     func(c *fiber.Ctx, d *data) interface{} { return d.pid },
		TagLatency: func(c *fiber.Ctx, d *data) interface{} { return d.end.Sub(d.start).String() },
		TagStatus:  func(c *fiber.Ctx, d *data) interface{} { return c.Response().StatusCode() },
		TagMethod:  func(c *fiber.Ctx, d *data) interface{} { return c.Method() },
		TagPath:    func(c *fiber.Ctx, d *data) interface{} { return c.Path() },
		TagIP:      func(c *fiber.Ctx, d *data) interface{} { return c.IP() },
		TagBody: func(c *fiber.Ctx, d *data) interface{} {
			if skipBody(cfg, c) {
				return ""
			}
			return truncate(string(c.Body()), cfg.MaxBodyLen)
		},
		TagResBody: func(c *fiber.Ctx, d *data) interface{} {
			contentType := string(c.Response().Header.ContentType())
			if !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
				return ""
			}
			return truncate(string(c.Response().Body()), cfg.MaxBodyLen)
		},
		RequestID: func(c *fiber.Ctx, d *data) interface{} {
			requestID, _ := c.Locals("requestid").(string)
			return requestID
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}

func skipBody(cfg Config, c *fiber.Ctx) bool {
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return true
	}
	for _, prefix := range cfg.SkipBodyFor {
		if strings.HasPrefix(c.Path(), prefix) {
			return true
		}
	}
	return false
}

func truncate(value string, maxLen int) string {
	if maxLen <= 0 || len(value) <= maxLen {
		return value
	}
	return value[:maxLen] + "...(truncated)"
}
