package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid       = "pid"
	TagStatus    = "status"
	TagLatency   = "latency"
	TagMethod    = "method"
	TagPath      = "path"
	TagIP        = "ip"
	TagUserAgent = "user_agent"
	TagBody      = "body"
	TagResBody   = "res_body"
	TagSession   = "session_id"
	RequestID    = "request_id"
)

// тело больше лимита в журнал не попадает целиком
const bodyLogLimit = 2048

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag значение поля журнала для запроса
type FuncTag func(c *fiber.Ctx, d *data) interface{}

func truncate(body []byte) string {
	if len(body) > bodyLogLimit {
		return string(body[:bodyLogLimit]) + "..."
	}
	return string(body)
}

// isBinary multipart и файлы в журнал не пишем
func isBinary(contentType string) bool {
	switch {
	case len(contentType) >= 9 && contentType[:9] == "multipart":
		return true
	case len(contentType) >= 11 && contentType[:11] == "application" && contentType != fiber.MIMEApplicationJSON &&
		contentType != fiber.MIMEApplicationJSONCharsetUTF8:
		return true
	}
	return false
}

func getFuncTagMap(cfg Config, d *data) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(_ *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagStatus: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Response().StatusCode()
		},
		TagLatency: func(_ *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagMethod: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Path()
		},
		TagIP: func(c *fiber.Ctx, _ *data) interface{} {
			return c.IP()
		},
		TagUserAgent: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Get(fiber.HeaderUserAgent)
		},
		TagBody: func(c *fiber.Ctx, _ *data) interface{} {
			if isBinary(string(c.Request().Header.ContentType())) {
				return ""
			}
			return truncate(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, _ *data) interface{} {
			if isBinary(string(c.Response().Header.ContentType())) {
				return ""
			}
			return truncate(c.Response().Body())
		},
		TagSession: func(c *fiber.Ctx, _ *data) interface{} {
			if sessionID, ok := c.Locals(TagSession).(string); ok {
				return sessionID
			}
			return ""
		},
		RequestID: func(c *fiber.Ctx, _ *data) interface{} {
			return c.GetRespHeader(fiber.HeaderXRequestID)
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
