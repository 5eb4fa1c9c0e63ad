package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/navegam/river-booking-system/internal/model"
)

// ReservationServiceInterface defines the reservation business logic.
type ReservationServiceInterface interface {
	Quote(ctx context.Context, req *model.CreateReservationRequest) (*model.PriceBreakdown, error)
	Create(ctx context.Context, req *model.CreateReservationRequest) (*model.Reservation, error)
	Get(ctx context.Context, reservationID uuid.UUID) (*model.Reservation, error)
	Cancel(ctx context.Context, reservationID, requesterID uuid.UUID) (*model.Reservation, error)
	CheckIn(ctx context.Context, reservationID uuid.UUID) error
	Complete(ctx context.Context, reservationID uuid.UUID) error
	Collect(ctx context.Context, reservationID uuid.UUID) error
	ConfirmDelivery(ctx context.Context, reservationID uuid.UUID) error
	MarkPaid(ctx context.Context, reservationID uuid.UUID) error
}

// ReservationHandler handles HTTP requests for reservation operations.
type ReservationHandler struct {
	service   ReservationServiceInterface
	validator *validator.Validate
}

// NewReservationHandler creates a new ReservationHandler with the given
// service and validator.
func NewReservationHandler(svc ReservationServiceInterface, v *validator.Validate) *ReservationHandler {
	return &ReservationHandler{service: svc, validator: v}
}

func reservationIDParam(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Quote handles POST /api/reservations/quote: price preview, no booking.
func (h *ReservationHandler) Quote(c *fiber.Ctx) error {
	var req model.CreateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	breakdown, err := h.service.Quote(c.Context(), &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(breakdown)
}

// CreateReservation handles POST /api/reservations.
func (h *ReservationHandler) CreateReservation(c *fiber.Ctx) error {
	var req model.CreateReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	res, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return respondServiceError(c, err)
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("reservation_id", res.ID.String()).
		Str("trip_id", res.TripID.String()).
		Str("kind", string(res.Kind)).
		Msg("reservation created")
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GetReservation handles GET /api/reservations/:id.
func (h *ReservationHandler) GetReservation(c *fiber.Ctx) error {
	id, ok := reservationIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: id must be a UUID"})
	}
	res, err := h.service.Get(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(res)
}

// CancelReservation handles POST /api/reservations/:id/cancel.
func (h *ReservationHandler) CancelReservation(c *fiber.Ctx) error {
	id, ok := reservationIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: id must be a UUID"})
	}
	var req model.CancelReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}
	requesterID, _ := uuid.Parse(req.RequesterID)

	res, err := h.service.Cancel(c.Context(), id, requesterID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(res)
}

// advance wraps the forward-only status endpoints, which share a shape.
func (h *ReservationHandler) advance(c *fiber.Ctx, fn func(context.Context, uuid.UUID) error) error {
	id, ok := reservationIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: id must be a UUID"})
	}
	if err := fn(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CheckIn handles POST /api/reservations/:id/check-in.
func (h *ReservationHandler) CheckIn(c *fiber.Ctx) error {
	return h.advance(c, h.service.CheckIn)
}

// Complete handles POST /api/reservations/:id/complete.
func (h *ReservationHandler) Complete(c *fiber.Ctx) error {
	return h.advance(c, h.service.Complete)
}

// Collect handles POST /api/reservations/:id/collect.
func (h *ReservationHandler) Collect(c *fiber.Ctx) error {
	return h.advance(c, h.service.Collect)
}

// ConfirmDelivery handles POST /api/reservations/:id/deliver.
func (h *ReservationHandler) ConfirmDelivery(c *fiber.Ctx) error {
	return h.advance(c, h.service.ConfirmDelivery)
}

// MarkPaid handles POST /api/reservations/:id/paid.
func (h *ReservationHandler) MarkPaid(c *fiber.Ctx) error {
	return h.advance(c, h.service.MarkPaid)
}
