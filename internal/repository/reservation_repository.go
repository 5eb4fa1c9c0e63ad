package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/navegam/river-booking-system/internal/model"
	"github.com/navegam/river-booking-system/internal/service"
	"github.com/navegam/river-booking-system/pkg/database"
)

// ReservationRepository provides data access for reservations.
type ReservationRepository struct {
	pool PoolInterface
}

// NewReservationRepository creates a new ReservationRepository with the given pool.
func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

// NewReservationRepositoryWithPool creates a ReservationRepository with a
// custom pool interface. Primarily used for testing.
func NewReservationRepositoryWithPool(pool PoolInterface) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

const reservationColumns = `id, trip_id, holder_id, kind, quantity, final_price,
	subtotal, operator_discount, coupon_discount, loyalty_discount,
	coupon_code, coupon_rejection, loyalty_tier,
	status, payment_status, refund_eligible, tracking_code, created_at`

func scanReservation(row pgx.Row) (*model.Reservation, error) {
	var res model.Reservation
	var couponCode, couponRejection, loyaltyTier, trackingCode *string
	err := row.Scan(
		&res.ID, &res.TripID, &res.HolderID, &res.Kind, &res.Quantity, &res.FinalPrice,
		&res.Breakdown.Subtotal, &res.Breakdown.OperatorDiscount,
		&res.Breakdown.CouponDiscount, &res.Breakdown.LoyaltyDiscount,
		&couponCode, &couponRejection, &loyaltyTier,
		&res.Status, &res.PaymentStatus, &res.RefundEligible, &trackingCode, &res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	res.Breakdown.Final = res.FinalPrice
	if couponCode != nil {
		res.Breakdown.CouponCode = *couponCode
	}
	if couponRejection != nil {
		res.Breakdown.CouponRejection = *couponRejection
	}
	if loyaltyTier != nil {
		res.Breakdown.LoyaltyTier = *loyaltyTier
	}
	if trackingCode != nil {
		res.TrackingCode = *trackingCode
	}
	return &res, nil
}

// Insert persists a new reservation. Must be called inside the same
// transaction that claimed the capacity, so both commit or neither does.
func (r *ReservationRepository) Insert(ctx context.Context, tx database.TxQuerier, res *model.Reservation) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO reservations (id, trip_id, holder_id, kind, quantity, final_price,
			subtotal, operator_discount, coupon_discount, loyalty_discount,
			coupon_code, coupon_rejection, loyalty_tier,
			status, payment_status, refund_eligible, tracking_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		res.ID, res.TripID, res.HolderID, res.Kind, res.Quantity, res.FinalPrice,
		res.Breakdown.Subtotal, res.Breakdown.OperatorDiscount,
		res.Breakdown.CouponDiscount, res.Breakdown.LoyaltyDiscount,
		nullable(res.Breakdown.CouponCode), nullable(res.Breakdown.CouponRejection),
		nullable(res.Breakdown.LoyaltyTier),
		res.Status, res.PaymentStatus, res.RefundEligible, nullable(res.TrackingCode))
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// GetByID retrieves a reservation by its ID.
// Returns service.ErrReservationNotFound if no such reservation exists.
func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	res, err := scanReservation(r.pool.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrReservationNotFound
		}
		return nil, fmt.Errorf("get reservation %s: %w", id, err)
	}
	return res, nil
}

// ListByTrip returns all reservations for a trip, oldest first.
func (r *ReservationRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*model.Reservation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE trip_id = $1 ORDER BY created_at`, tripID)
	if err != nil {
		return nil, fmt.Errorf("list reservations for trip %s: %w", tripID, err)
	}
	defer rows.Close()

	reservations := []*model.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservation rows: %w", err)
	}
	return reservations, nil
}

// UpdateStatus moves a reservation from one status to another with a
// conditional UPDATE. Returns service.ErrReservationFinal when the
// reservation is not in from.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, q database.TxQuerier, id uuid.UUID, from, to model.ReservationStatus) error {
	tag, err := q.Exec(ctx,
		`UPDATE reservations SET status = $3 WHERE id = $1 AND status = $2`,
		id, from, to)
	if err != nil {
		return fmt.Errorf("update reservation %s status to %s: %w", id, to, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrReservationFinal
	}
	return nil
}

// Cancel marks the reservation cancelled and records refund eligibility.
// The status guard makes concurrent cancels race safely: only one caller
// wins the UPDATE, so capacity is released exactly once.
func (r *ReservationRepository) Cancel(ctx context.Context, tx database.TxQuerier, id uuid.UUID, refundEligible bool) error {
	tag, err := tx.Exec(ctx,
		`UPDATE reservations SET status = 'cancelled', refund_eligible = $2
		WHERE id = $1 AND status <> 'cancelled'`,
		id, refundEligible)
	if err != nil {
		return fmt.Errorf("cancel reservation %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrReservationFinal
	}
	return nil
}

// CascadeStatus applies one row of the trip-transition mapping table:
// every active reservation of the given kind currently in from moves to to.
func (r *ReservationRepository) CascadeStatus(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, kind model.CapacityKind, from, to model.ReservationStatus) (int64, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE reservations SET status = $4
		WHERE trip_id = $1 AND kind = $2 AND status = $3`,
		tripID, kind, from, to)
	if err != nil {
		return 0, fmt.Errorf("cascade reservations for trip %s (%s -> %s): %w", tripID, from, to, err)
	}
	return tag.RowsAffected(), nil
}

// CancelAllActive cancels every non-cancelled reservation of the trip,
// flagging refund eligibility as instructed.
func (r *ReservationRepository) CancelAllActive(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, refundEligible bool) (int64, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE reservations SET status = 'cancelled', refund_eligible = $2
		WHERE trip_id = $1 AND status <> 'cancelled'`,
		tripID, refundEligible)
	if err != nil {
		return 0, fmt.Errorf("cancel reservations for trip %s: %w", tripID, err)
	}
	return tag.RowsAffected(), nil
}

// SetPaymentStatus records a payment status transition. Payment execution
// itself belongs to an external collaborator.
func (r *ReservationRepository) SetPaymentStatus(ctx context.Context, q database.TxQuerier, id uuid.UUID, status model.PaymentStatus) error {
	_, err := q.Exec(ctx,
		`UPDATE reservations SET payment_status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set payment status for reservation %s: %w", id, err)
	}
	return nil
}

// NextTrackingCode draws the next cargo tracking code from the database
// sequence, which stays correct across worker processes.
func (r *ReservationRepository) NextTrackingCode(ctx context.Context, q database.TxQuerier) (string, error) {
	var n int64
	if err := q.QueryRow(ctx, `SELECT nextval('tracking_code_seq')`).Scan(&n); err != nil {
		return "", fmt.Errorf("next tracking code: %w", err)
	}
	return fmt.Sprintf("NVG-%06d", n), nil
}

// nullable maps an empty string to NULL for optional text columns.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
