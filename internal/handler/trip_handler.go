package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/navegam/river-booking-system/internal/model"
)

// TripServiceInterface defines the trip lifecycle business logic.
type TripServiceInterface interface {
	Create(ctx context.Context, req *model.CreateTripRequest) (*model.Trip, error)
	Get(ctx context.Context, tripID uuid.UUID) (*model.Trip, error)
	Reservations(ctx context.Context, tripID uuid.UUID) ([]*model.Reservation, error)
	SubmitChecklist(ctx context.Context, tripID uuid.UUID, req *model.SubmitChecklistRequest) (*model.SafetyChecklist, error)
	Depart(ctx context.Context, tripID uuid.UUID) (*model.DepartResult, error)
	Complete(ctx context.Context, tripID uuid.UUID) (*model.Trip, error)
	Cancel(ctx context.Context, tripID uuid.UUID) (*model.Trip, error)
	Reconcile(ctx context.Context, tripID uuid.UUID) error
}

// TripHandler handles HTTP requests for trip operations.
type TripHandler struct {
	service   TripServiceInterface
	validator *validator.Validate
}

// NewTripHandler creates a new TripHandler with the given service and validator.
func NewTripHandler(svc TripServiceInterface, v *validator.Validate) *TripHandler {
	return &TripHandler{service: svc, validator: v}
}

func tripIDParam(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// CreateTrip handles POST /api/trips.
func (h *TripHandler) CreateTrip(c *fiber.Ctx) error {
	var req model.CreateTripRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	trip, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(trip)
}

// GetTrip handles GET /api/trips/:id.
func (h *TripHandler) GetTrip(c *fiber.Ctx) error {
	id, ok := tripIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: id must be a UUID"})
	}
	trip, err := h.service.Get(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(trip)
}

// ListReservations handles GET /api/trips/:id/reservations.
func (h *TripHandler) ListReservations(c *fiber.Ctx) error {
	id, ok := tripIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: id must be a UUID"})
	}
	reservations, err := h.service.Reservations(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(reservations)
}

// SubmitChecklist handles PUT /api/trips/:id/checklist.
func (h *TripHandler) SubmitChecklist(c *fiber.Ctx) error {
	id, ok := tripIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: id must be a UUID"})
	}
	var req model.SubmitChecklistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	checklist, err := h.service.SubmitChecklist(c.Context(), id, &req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(checklist)
}

// Depart handles POST /api/trips/:id/depart, the safety-gated transition.
func (h *TripHandler) Depart(c *fiber.Ctx) error {
	id, ok := tripIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: id must be a UUID"})
	}
	result, err := h.service.Depart(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// Complete handles POST /api/trips/:id/complete.
func (h *TripHandler) Complete(c *fiber.Ctx) error {
	id, ok := tripIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: id must be a UUID"})
	}
	trip, err := h.service.Complete(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(trip)
}

// Reconcile handles POST /api/trips/:id/reconcile, the operator-invoked
// repair sweep that rebuilds availability from active reservations.
func (h *TripHandler) Reconcile(c *fiber.Ctx) error {
	id, ok := tripIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: id must be a UUID"})
	}
	if err := h.service.Reconcile(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Cancel handles POST /api/trips/:id/cancel.
func (h *TripHandler) Cancel(c *fiber.Ctx) error {
	id, ok := tripIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: id must be a UUID"})
	}
	trip, err := h.service.Cancel(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(trip)
}
