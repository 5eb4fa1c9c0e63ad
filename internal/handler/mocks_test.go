package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/navegam/river-booking-system/internal/model"
)

// mockTripService is a mock implementation of TripServiceInterface.
type mockTripService struct {
	createFn          func(ctx context.Context, req *model.CreateTripRequest) (*model.Trip, error)
	getFn             func(ctx context.Context, tripID uuid.UUID) (*model.Trip, error)
	reservationsFn    func(ctx context.Context, tripID uuid.UUID) ([]*model.Reservation, error)
	submitChecklistFn func(ctx context.Context, tripID uuid.UUID, req *model.SubmitChecklistRequest) (*model.SafetyChecklist, error)
	departFn          func(ctx context.Context, tripID uuid.UUID) (*model.DepartResult, error)
	completeFn        func(ctx context.Context, tripID uuid.UUID) (*model.Trip, error)
	cancelFn          func(ctx context.Context, tripID uuid.UUID) (*model.Trip, error)
	reconcileFn       func(ctx context.Context, tripID uuid.UUID) error
}

func (m *mockTripService) Create(ctx context.Context, req *model.CreateTripRequest) (*model.Trip, error) {
	return m.createFn(ctx, req)
}

func (m *mockTripService) Get(ctx context.Context, tripID uuid.UUID) (*model.Trip, error) {
	return m.getFn(ctx, tripID)
}

func (m *mockTripService) Reservations(ctx context.Context, tripID uuid.UUID) ([]*model.Reservation, error) {
	return m.reservationsFn(ctx, tripID)
}

func (m *mockTripService) SubmitChecklist(ctx context.Context, tripID uuid.UUID, req *model.SubmitChecklistRequest) (*model.SafetyChecklist, error) {
	return m.submitChecklistFn(ctx, tripID, req)
}

func (m *mockTripService) Depart(ctx context.Context, tripID uuid.UUID) (*model.DepartResult, error) {
	return m.departFn(ctx, tripID)
}

func (m *mockTripService) Complete(ctx context.Context, tripID uuid.UUID) (*model.Trip, error) {
	return m.completeFn(ctx, tripID)
}

func (m *mockTripService) Cancel(ctx context.Context, tripID uuid.UUID) (*model.Trip, error) {
	return m.cancelFn(ctx, tripID)
}

func (m *mockTripService) Reconcile(ctx context.Context, tripID uuid.UUID) error {
	return m.reconcileFn(ctx, tripID)
}

// mockReservationService is a mock implementation of ReservationServiceInterface.
type mockReservationService struct {
	quoteFn           func(ctx context.Context, req *model.CreateReservationRequest) (*model.PriceBreakdown, error)
	createFn          func(ctx context.Context, req *model.CreateReservationRequest) (*model.Reservation, error)
	getFn             func(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	cancelFn          func(ctx context.Context, id, requesterID uuid.UUID) (*model.Reservation, error)
	checkInFn         func(ctx context.Context, id uuid.UUID) error
	completeFn        func(ctx context.Context, id uuid.UUID) error
	collectFn         func(ctx context.Context, id uuid.UUID) error
	confirmDeliveryFn func(ctx context.Context, id uuid.UUID) error
	markPaidFn        func(ctx context.Context, id uuid.UUID) error
}

func (m *mockReservationService) Quote(ctx context.Context, req *model.CreateReservationRequest) (*model.PriceBreakdown, error) {
	return m.quoteFn(ctx, req)
}

func (m *mockReservationService) Create(ctx context.Context, req *model.CreateReservationRequest) (*model.Reservation, error) {
	return m.createFn(ctx, req)
}

func (m *mockReservationService) Get(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	return m.getFn(ctx, id)
}

func (m *mockReservationService) Cancel(ctx context.Context, id, requesterID uuid.UUID) (*model.Reservation, error) {
	return m.cancelFn(ctx, id, requesterID)
}

func (m *mockReservationService) CheckIn(ctx context.Context, id uuid.UUID) error {
	return m.checkInFn(ctx, id)
}

func (m *mockReservationService) Complete(ctx context.Context, id uuid.UUID) error {
	return m.completeFn(ctx, id)
}

func (m *mockReservationService) Collect(ctx context.Context, id uuid.UUID) error {
	return m.collectFn(ctx, id)
}

func (m *mockReservationService) ConfirmDelivery(ctx context.Context, id uuid.UUID) error {
	return m.confirmDeliveryFn(ctx, id)
}

func (m *mockReservationService) MarkPaid(ctx context.Context, id uuid.UUID) error {
	return m.markPaidFn(ctx, id)
}

// mockCouponService is a mock implementation of CouponServiceInterface.
type mockCouponService struct {
	createFn    func(ctx context.Context, req *model.CreateCouponRequest) error
	getByCodeFn func(ctx context.Context, code string) (*model.Coupon, error)
}

func (m *mockCouponService) Create(ctx context.Context, req *model.CreateCouponRequest) error {
	return m.createFn(ctx, req)
}

func (m *mockCouponService) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	return m.getByCodeFn(ctx, code)
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func performRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}
