package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/navegam/river-booking-system/internal/model"
	"github.com/navegam/river-booking-system/pkg/database"
)

// mockTripRepository is a mock implementation of TripRepositoryInterface.
type mockTripRepository struct {
	insertFn              func(ctx context.Context, trip *model.Trip) error
	getByIDFn             func(ctx context.Context, id uuid.UUID) (*model.Trip, error)
	getVesselFn           func(ctx context.Context, id uuid.UUID) (*model.Vessel, error)
	hasOverlappingTripFn  func(ctx context.Context, trip *model.Trip) (bool, error)
	reserveCapacityFn     func(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, kind model.CapacityKind, quantity float64) error
	releaseCapacityFn     func(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, kind model.CapacityKind, quantity float64) error
	restoreFullCapacityFn func(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID) error
	updateStatusFn        func(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, from, to model.TripStatus) error
	reconcileCapacityFn   func(ctx context.Context, tripID uuid.UUID) error
}

func (m *mockTripRepository) Insert(ctx context.Context, trip *model.Trip) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, trip)
	}
	return nil
}

func (m *mockTripRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrTripNotFound
}

func (m *mockTripRepository) GetVessel(ctx context.Context, id uuid.UUID) (*model.Vessel, error) {
	if m.getVesselFn != nil {
		return m.getVesselFn(ctx, id)
	}
	return nil, ErrVesselNotFound
}

func (m *mockTripRepository) HasOverlappingTrip(ctx context.Context, trip *model.Trip) (bool, error) {
	if m.hasOverlappingTripFn != nil {
		return m.hasOverlappingTripFn(ctx, trip)
	}
	return false, nil
}

func (m *mockTripRepository) ReserveCapacity(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, kind model.CapacityKind, quantity float64) error {
	if m.reserveCapacityFn != nil {
		return m.reserveCapacityFn(ctx, tx, tripID, kind, quantity)
	}
	return nil
}

func (m *mockTripRepository) ReleaseCapacity(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, kind model.CapacityKind, quantity float64) error {
	if m.releaseCapacityFn != nil {
		return m.releaseCapacityFn(ctx, tx, tripID, kind, quantity)
	}
	return nil
}

func (m *mockTripRepository) RestoreFullCapacity(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID) error {
	if m.restoreFullCapacityFn != nil {
		return m.restoreFullCapacityFn(ctx, tx, tripID)
	}
	return nil
}

func (m *mockTripRepository) UpdateStatus(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, from, to model.TripStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, tx, tripID, from, to)
	}
	return nil
}

func (m *mockTripRepository) ReconcileCapacity(ctx context.Context, tripID uuid.UUID) error {
	if m.reconcileCapacityFn != nil {
		return m.reconcileCapacityFn(ctx, tripID)
	}
	return nil
}

// mockReservationRepository is a mock implementation of ReservationRepositoryInterface.
type mockReservationRepository struct {
	insertFn           func(ctx context.Context, tx database.TxQuerier, res *model.Reservation) error
	getByIDFn          func(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	listByTripFn       func(ctx context.Context, tripID uuid.UUID) ([]*model.Reservation, error)
	updateStatusFn     func(ctx context.Context, q database.TxQuerier, id uuid.UUID, from, to model.ReservationStatus) error
	cancelFn           func(ctx context.Context, tx database.TxQuerier, id uuid.UUID, refundEligible bool) error
	cascadeStatusFn    func(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, kind model.CapacityKind, from, to model.ReservationStatus) (int64, error)
	cancelAllActiveFn  func(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, refundEligible bool) (int64, error)
	setPaymentStatusFn func(ctx context.Context, q database.TxQuerier, id uuid.UUID, status model.PaymentStatus) error
	nextTrackingCodeFn func(ctx context.Context, q database.TxQuerier) (string, error)
}

func (m *mockReservationRepository) Insert(ctx context.Context, tx database.TxQuerier, res *model.Reservation) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, res)
	}
	return nil
}

func (m *mockReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, ErrReservationNotFound
}

func (m *mockReservationRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*model.Reservation, error) {
	if m.listByTripFn != nil {
		return m.listByTripFn(ctx, tripID)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) UpdateStatus(ctx context.Context, q database.TxQuerier, id uuid.UUID, from, to model.ReservationStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, q, id, from, to)
	}
	return nil
}

func (m *mockReservationRepository) Cancel(ctx context.Context, tx database.TxQuerier, id uuid.UUID, refundEligible bool) error {
	if m.cancelFn != nil {
		return m.cancelFn(ctx, tx, id, refundEligible)
	}
	return nil
}

func (m *mockReservationRepository) CascadeStatus(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, kind model.CapacityKind, from, to model.ReservationStatus) (int64, error) {
	if m.cascadeStatusFn != nil {
		return m.cascadeStatusFn(ctx, tx, tripID, kind, from, to)
	}
	return 0, nil
}

func (m *mockReservationRepository) CancelAllActive(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, refundEligible bool) (int64, error) {
	if m.cancelAllActiveFn != nil {
		return m.cancelAllActiveFn(ctx, tx, tripID, refundEligible)
	}
	return 0, nil
}

func (m *mockReservationRepository) SetPaymentStatus(ctx context.Context, q database.TxQuerier, id uuid.UUID, status model.PaymentStatus) error {
	if m.setPaymentStatusFn != nil {
		return m.setPaymentStatusFn(ctx, q, id, status)
	}
	return nil
}

func (m *mockReservationRepository) NextTrackingCode(ctx context.Context, q database.TxQuerier) (string, error) {
	if m.nextTrackingCodeFn != nil {
		return m.nextTrackingCodeFn(ctx, q)
	}
	return "NVG-000001", nil
}

// mockCouponRepository is a mock implementation of CouponRepositoryInterface.
type mockCouponRepository struct {
	insertFn         func(ctx context.Context, c *model.Coupon) error
	getByCodeFn      func(ctx context.Context, code string) (*model.Coupon, error)
	incrementUsageFn func(ctx context.Context, tx database.TxQuerier, code string) (bool, error)
	decrementUsageFn func(ctx context.Context, tx database.TxQuerier, code string) error
}

func (m *mockCouponRepository) Insert(ctx context.Context, c *model.Coupon) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, c)
	}
	return nil
}

func (m *mockCouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, nil
}

func (m *mockCouponRepository) IncrementUsage(ctx context.Context, tx database.TxQuerier, code string) (bool, error) {
	if m.incrementUsageFn != nil {
		return m.incrementUsageFn(ctx, tx, code)
	}
	return true, nil
}

func (m *mockCouponRepository) DecrementUsage(ctx context.Context, tx database.TxQuerier, code string) error {
	if m.decrementUsageFn != nil {
		return m.decrementUsageFn(ctx, tx, code)
	}
	return nil
}

// mockAccountRepository is a mock implementation of AccountRepositoryInterface.
type mockAccountRepository struct {
	getByIDFn func(ctx context.Context, id uuid.UUID) (*model.Account, error)
}

func (m *mockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

// mockChecklistRepository is a mock implementation of ChecklistRepositoryInterface.
type mockChecklistRepository struct {
	upsertFn    func(ctx context.Context, c *model.SafetyChecklist) error
	getByTripFn func(ctx context.Context, tripID uuid.UUID) (*model.SafetyChecklist, error)
}

func (m *mockChecklistRepository) Upsert(ctx context.Context, c *model.SafetyChecklist) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, c)
	}
	return nil
}

func (m *mockChecklistRepository) GetByTrip(ctx context.Context, tripID uuid.UUID) (*model.SafetyChecklist, error) {
	if m.getByTripFn != nil {
		return m.getByTripFn(ctx, tripID)
	}
	return nil, nil
}

// mockWeather is a mock implementation of WeatherService.
type mockWeather struct {
	safetyScoreFn func(ctx context.Context, lat, lng float64) (int, error)
}

func (m *mockWeather) SafetyScore(ctx context.Context, lat, lng float64) (int, error) {
	if m.safetyScoreFn != nil {
		return m.safetyScoreFn(ctx, lat, lng)
	}
	return 100, nil
}

// mockTx is a mock implementation of pgx.Tx for testing transactions.
type mockTx struct {
	commitFn   func(ctx context.Context) error
	rollbackFn func(ctx context.Context) error
	committed  bool
	rolledBack bool
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("nested transactions not supported")
}

func (m *mockTx) Commit(ctx context.Context) error {
	m.committed = true
	if m.commitFn != nil {
		return m.commitFn(ctx)
	}
	return nil
}

func (m *mockTx) Rollback(ctx context.Context) error {
	if !m.committed {
		m.rolledBack = true
	}
	if m.rollbackFn != nil {
		return m.rollbackFn(ctx)
	}
	return nil
}

func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (m *mockTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *mockTx) Conn() *pgx.Conn {
	return nil
}

// mockTxBeginner is a mock implementation of TxBeginner.
type mockTxBeginner struct {
	beginFn func(ctx context.Context) (pgx.Tx, error)
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.beginFn != nil {
		return m.beginFn(ctx)
	}
	return &mockTx{}, nil
}
