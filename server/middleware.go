package server

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-doc/logger"
	"github.com/mrsingh-rishi/voice-doc/model"
)

const MsgOriginRejected = "Origin not allowed."

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}

	entry := logger.Log(
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"latency", time.Since(start).String(),
		"request_id", requestID(c),
	)
	if status >= fiber.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request")
	}
	return err
}

// enforceOrigin answers 403 when a browser origin is not on the allow-list.
// Requests without an Origin header pass.
func enforceOrigin(allowed []string) fiber.Handler {
	set := make(map[string]struct{}, len(allowed))
	wildcard := len(allowed) == 0
	for _, origin := range allowed {
		if origin == "*" {
			wildcard = true
		}
		set[strings.ToLower(origin)] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin == "" || wildcard {
			return c.Next()
		}
		if _, ok := set[strings.ToLower(strings.TrimSuffix(origin, "/"))]; ok {
			return c.Next()
		}
		logger.Warnf("rejected origin %s on %s %s", origin, c.Method(), c.Path())
		return c.Status(fiber.StatusForbidden).JSON(model.Fail(MsgOriginRejected, "origin "+origin+" is not allowed"))
	}
}

func joinOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}
