package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/iot-sensor-collector/internal/domain"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSensorNotFound), errors.Is(err, domain.ErrNothingDeleted):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrCapacityExceeded):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func writeError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	detail := err.Error()
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		detail = "internal error"
		if status == fiber.StatusServiceUnavailable {
			detail = "database unavailable"
		}
	}
	return c.Status(status).JSON(fiber.Map{"detail": detail})
}

// errorHandler covers errors fiber raises itself, such as unknown routes.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
	}
	return writeError(c, err)
}
