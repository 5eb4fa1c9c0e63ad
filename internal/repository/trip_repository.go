package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/navegam/river-booking-system/internal/model"
	"github.com/navegam/river-booking-system/internal/service"
	"github.com/navegam/river-booking-system/pkg/database"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// TripRepository provides data access for trips and vessels, including the
// capacity ledger. Every capacity mutation goes through a single conditional
// UPDATE so concurrent reservations serialize at the row level; no caller
// ever does a read-then-write on the availability columns.
type TripRepository struct {
	pool PoolInterface
}

// NewTripRepository creates a new TripRepository with the given pool.
func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{pool: pool}
}

// NewTripRepositoryWithPool creates a TripRepository with a custom pool
// interface. Primarily used for testing.
func NewTripRepositoryWithPool(pool PoolInterface) *TripRepository {
	return &TripRepository{pool: pool}
}

const tripColumns = `id, vessel_id, captain_id, origin_city, destination_city,
	departure_at, arrival_at, seat_price, cargo_price_per_kg,
	total_seats, available_seats, total_cargo_kg, available_cargo_kg,
	operator_discount_pct, latitude, longitude, status, created_at`

func scanTrip(row pgx.Row) (*model.Trip, error) {
	var t model.Trip
	err := row.Scan(
		&t.ID, &t.VesselID, &t.CaptainID, &t.OriginCity, &t.DestinationCity,
		&t.DepartureAt, &t.ArrivalAt, &t.SeatPrice, &t.CargoPricePerKg,
		&t.TotalSeats, &t.AvailableSeats, &t.TotalCargoKg, &t.AvailableCargoKg,
		&t.OperatorDiscountPct, &t.Latitude, &t.Longitude, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Insert inserts a new trip with its full capacity available.
func (r *TripRepository) Insert(ctx context.Context, trip *model.Trip) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO trips (id, vessel_id, captain_id, origin_city, destination_city,
			departure_at, arrival_at, seat_price, cargo_price_per_kg,
			total_seats, available_seats, total_cargo_kg, available_cargo_kg,
			operator_discount_pct, latitude, longitude, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10, $11, $11, $12, $13, $14, $15)`,
		trip.ID, trip.VesselID, trip.CaptainID, trip.OriginCity, trip.DestinationCity,
		trip.DepartureAt, trip.ArrivalAt, trip.SeatPrice, trip.CargoPricePerKg,
		trip.TotalSeats, trip.TotalCargoKg,
		trip.OperatorDiscountPct, trip.Latitude, trip.Longitude, trip.Status)
	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

// GetByID retrieves a trip by its ID.
// Returns service.ErrTripNotFound if no such trip exists.
func (r *TripRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	trip, err := scanTrip(r.pool.QueryRow(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrTripNotFound
		}
		return nil, fmt.Errorf("get trip %s: %w", id, err)
	}
	return trip, nil
}

// GetVessel retrieves a vessel by its ID.
// Returns service.ErrVesselNotFound if no such vessel exists.
func (r *TripRepository) GetVessel(ctx context.Context, id uuid.UUID) (*model.Vessel, error) {
	var v model.Vessel
	err := r.pool.QueryRow(ctx,
		`SELECT id, captain_id, name, seat_capacity, cargo_capacity_kg
		FROM vessels WHERE id = $1`, id).
		Scan(&v.ID, &v.CaptainID, &v.Name, &v.SeatCapacity, &v.CargoCapacityKg)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrVesselNotFound
		}
		return nil, fmt.Errorf("get vessel %s: %w", id, err)
	}
	return &v, nil
}

// HasOverlappingTrip reports whether the vessel already has a scheduled or
// in-progress trip whose time window intersects [departure, arrival].
func (r *TripRepository) HasOverlappingTrip(ctx context.Context, trip *model.Trip) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM trips
			WHERE vessel_id = $1
			  AND id <> $2
			  AND status IN ('scheduled', 'in_progress')
			  AND departure_at < $4
			  AND arrival_at > $3
		)`,
		trip.VesselID, trip.ID, trip.DepartureAt, trip.ArrivalAt).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check trip overlap: %w", err)
	}
	return exists, nil
}

// ReserveCapacity atomically claims quantity from the trip's pool of the
// given kind: the availability check and the decrement happen in one
// conditional UPDATE. Zero rows affected means the claim failed; the follow-up
// SELECT only classifies the failure and never mutates anything.
func (r *TripRepository) ReserveCapacity(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, kind model.CapacityKind, quantity float64) error {
	var tag pgconn.CommandTag
	var err error
	if kind == model.KindSeat {
		tag, err = tx.Exec(ctx,
			`UPDATE trips SET available_seats = available_seats - $2
			WHERE id = $1 AND status = 'scheduled' AND available_seats >= $2`,
			tripID, int(quantity))
	} else {
		tag, err = tx.Exec(ctx,
			`UPDATE trips SET available_cargo_kg = available_cargo_kg - $2
			WHERE id = $1 AND status = 'scheduled' AND total_cargo_kg > 0 AND available_cargo_kg >= $2`,
			tripID, quantity)
	}
	if err != nil {
		return fmt.Errorf("reserve %s capacity for trip %s: %w", kind, tripID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return r.classifyReserveFailure(ctx, tx, tripID)
}

func (r *TripRepository) classifyReserveFailure(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID) error {
	var status model.TripStatus
	err := tx.QueryRow(ctx, `SELECT status FROM trips WHERE id = $1`, tripID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.ErrTripNotFound
		}
		return fmt.Errorf("classify reserve failure for trip %s: %w", tripID, err)
	}
	if status != model.TripScheduled {
		return service.ErrTripNotBookable
	}
	return service.ErrInsufficientCapacity
}

// ReleaseCapacity returns quantity to the trip's pool. The strict guard
// refuses to push availability above total; if that guard trips, the update
// is retried clamped to total and ErrCapacityOverflow is reported so the
// caller bug gets logged loudly.
func (r *TripRepository) ReleaseCapacity(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, kind model.CapacityKind, quantity float64) error {
	availCol, totalCol := "available_seats", "total_seats"
	var qty any = int(quantity)
	if kind == model.KindCargo {
		availCol, totalCol = "available_cargo_kg", "total_cargo_kg"
		qty = quantity
	}

	tag, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE trips SET %[1]s = %[1]s + $2 WHERE id = $1 AND %[1]s + $2 <= %[2]s`,
			availCol, totalCol),
		tripID, qty)
	if err != nil {
		return fmt.Errorf("release %s capacity for trip %s: %w", kind, tripID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	tag, err = tx.Exec(ctx,
		fmt.Sprintf(`UPDATE trips SET %[1]s = %[2]s WHERE id = $1`, availCol, totalCol),
		tripID)
	if err != nil {
		return fmt.Errorf("clamped release for trip %s: %w", tripID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrTripNotFound
	}
	return service.ErrCapacityOverflow
}

// RestoreFullCapacity resets both pools to their totals. Used when a
// scheduled trip is cancelled and every active reservation's hold is
// returned at once.
func (r *TripRepository) RestoreFullCapacity(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE trips SET available_seats = total_seats, available_cargo_kg = total_cargo_kg
		WHERE id = $1`, tripID)
	if err != nil {
		return fmt.Errorf("restore capacity for trip %s: %w", tripID, err)
	}
	return nil
}

// UpdateStatus moves the trip from one status to another in a single
// conditional UPDATE, so two concurrent transitions cannot both win.
// Returns service.ErrInvalidTransition if the trip is no longer in from.
func (r *TripRepository) UpdateStatus(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, from, to model.TripStatus) error {
	tag, err := tx.Exec(ctx,
		`UPDATE trips SET status = $3 WHERE id = $1 AND status = $2`,
		tripID, from, to)
	if err != nil {
		return fmt.Errorf("update trip %s status to %s: %w", tripID, to, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1)`, tripID).Scan(&exists); err != nil {
		return fmt.Errorf("classify status update for trip %s: %w", tripID, err)
	}
	if !exists {
		return service.ErrTripNotFound
	}
	return service.ErrInvalidTransition
}

// ReconcileCapacity recomputes availability from the active reservations.
// This is the recovery sweep: if a crash ever left a hold without its
// reservation row, running this restores available = total - sum(active).
func (r *TripRepository) ReconcileCapacity(ctx context.Context, tripID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE trips t SET
			available_seats = t.total_seats - COALESCE((
				SELECT SUM(r.quantity)::int FROM reservations r
				WHERE r.trip_id = t.id AND r.kind = 'seat' AND r.status <> 'cancelled'
			), 0),
			available_cargo_kg = t.total_cargo_kg - COALESCE((
				SELECT SUM(r.quantity) FROM reservations r
				WHERE r.trip_id = t.id AND r.kind = 'cargo' AND r.status <> 'cancelled'
			), 0)
		WHERE t.id = $1`, tripID)
	if err != nil {
		return fmt.Errorf("reconcile capacity for trip %s: %w", tripID, err)
	}
	return nil
}
