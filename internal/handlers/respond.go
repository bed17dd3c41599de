package handlers

import (
	"storerate/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// respondError writes err with the status of its kind. Storage failures
// carry the raw error text.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	status := apperrors.Status(err)
	if status == fiber.StatusInternalServerError {
		log.WithFields(log.Fields{"method": c.Method(), "path": c.Path()}).Errorf("%s: %v", fallback, err)
		return c.Status(status).JSON(fiber.Map{
			"msg": fallback,
			"err": err.Error(),
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"msg": apperrors.Message(err, fallback),
	})
}
