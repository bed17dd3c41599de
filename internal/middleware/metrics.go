package middleware

import (
	"errors"

	"storerate/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and latencies labelled by route template.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		done := metrics.RequestStarted()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		done(c.Method(), c.Route().Path, status)
		return err
	}
}
