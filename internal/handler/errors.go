package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/navegam/river-booking-system/internal/service"
)

// respondServiceError maps service sentinels to HTTP outcomes. Anything not
// in the taxonomy is a 500 and gets logged with request context; the
// sentinels themselves carry enough detail (rejection reason, weather
// score) for the caller to decide what to do next.
func respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrTripNotFound),
		errors.Is(err, service.ErrVesselNotFound),
		errors.Is(err, service.ErrReservationNotFound),
		errors.Is(err, service.ErrCouponNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientCapacity),
		errors.Is(err, service.ErrTripNotBookable),
		errors.Is(err, service.ErrCouponInvalid):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrTripOverlap),
		errors.Is(err, service.ErrVesselCapacityExceeded),
		errors.Is(err, service.ErrCouponExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrReservationFinal),
		errors.Is(err, service.ErrNotHolder):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrChecklistIncomplete),
		errors.Is(err, service.ErrUnsafeWeather):
		return c.Status(fiber.StatusPreconditionFailed).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrWeatherUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}

	log.Error().
		Err(err).
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// formatValidationError flattens validator errors into a single
// "invalid request: ..." message naming the first offending field.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			switch fe.Tag() {
			case "required":
				return "invalid request: " + field + " is required"
			case "notblank":
				return "invalid request: " + field + " cannot be blank"
			case "max":
				return "invalid request: " + field + " exceeds maximum length"
			case "oneof":
				return "invalid request: " + field + " has an unsupported value"
			case "uuid4":
				return "invalid request: " + field + " must be a UUID"
			default:
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}
