package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/navegam/river-booking-system/internal/config"
	"github.com/navegam/river-booking-system/internal/coupon"
	"github.com/navegam/river-booking-system/internal/loyalty"
	"github.com/navegam/river-booking-system/internal/model"
	"github.com/navegam/river-booking-system/internal/pricing"
	"github.com/navegam/river-booking-system/pkg/database"
)

// TripRepositoryInterface defines the trip and capacity-ledger data access
// the services depend on.
type TripRepositoryInterface interface {
	Insert(ctx context.Context, trip *model.Trip) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Trip, error)
	GetVessel(ctx context.Context, id uuid.UUID) (*model.Vessel, error)
	HasOverlappingTrip(ctx context.Context, trip *model.Trip) (bool, error)
	ReserveCapacity(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, kind model.CapacityKind, quantity float64) error
	ReleaseCapacity(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, kind model.CapacityKind, quantity float64) error
	RestoreFullCapacity(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID) error
	UpdateStatus(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, from, to model.TripStatus) error
	ReconcileCapacity(ctx context.Context, tripID uuid.UUID) error
}

// ReservationRepositoryInterface defines the reservation data access.
type ReservationRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, res *model.Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*model.Reservation, error)
	UpdateStatus(ctx context.Context, q database.TxQuerier, id uuid.UUID, from, to model.ReservationStatus) error
	Cancel(ctx context.Context, tx database.TxQuerier, id uuid.UUID, refundEligible bool) error
	CascadeStatus(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, kind model.CapacityKind, from, to model.ReservationStatus) (int64, error)
	CancelAllActive(ctx context.Context, tx database.TxQuerier, tripID uuid.UUID, refundEligible bool) (int64, error)
	SetPaymentStatus(ctx context.Context, q database.TxQuerier, id uuid.UUID, status model.PaymentStatus) error
	NextTrackingCode(ctx context.Context, q database.TxQuerier) (string, error)
}

// CouponRepositoryInterface defines the coupon data access.
type CouponRepositoryInterface interface {
	Insert(ctx context.Context, c *model.Coupon) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	IncrementUsage(ctx context.Context, tx database.TxQuerier, code string) (bool, error)
	DecrementUsage(ctx context.Context, tx database.TxQuerier, code string) error
}

// AccountRepositoryInterface defines the account data access.
type AccountRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ReservationService orchestrates booking and shipment creation: pricing,
// coupon consumption, the atomic capacity claim, and persistence, all inside
// one database transaction so a reservation row can never exist without its
// capacity and vice versa.
type ReservationService struct {
	pool         TxBeginner
	trips        TripRepositoryInterface
	reservations ReservationRepositoryInterface
	coupons      CouponRepositoryInterface
	accounts     AccountRepositoryInterface
	policy       config.PolicyConfig
	now          func() time.Time
}

// NewReservationService creates a ReservationService wired to a pgx pool.
func NewReservationService(pool *pgxpool.Pool, trips TripRepositoryInterface, reservations ReservationRepositoryInterface, coupons CouponRepositoryInterface, accounts AccountRepositoryInterface, policy config.PolicyConfig) *ReservationService {
	return NewReservationServiceWithTxBeginner(pool, trips, reservations, coupons, accounts, policy)
}

// NewReservationServiceWithTxBeginner creates a ReservationService with a
// custom TxBeginner. Primarily used for testing.
func NewReservationServiceWithTxBeginner(pool TxBeginner, trips TripRepositoryInterface, reservations ReservationRepositoryInterface, coupons CouponRepositoryInterface, accounts AccountRepositoryInterface, policy config.PolicyConfig) *ReservationService {
	return &ReservationService{
		pool:         pool,
		trips:        trips,
		reservations: reservations,
		coupons:      coupons,
		accounts:     accounts,
		policy:       policy,
		now:          time.Now,
	}
}

// quantityFor derives the capacity quantity from the request: a seat count,
// or the chargeable weight for cargo (max of actual and volumetric weight).
func quantityFor(req *model.CreateReservationRequest) (model.CapacityKind, float64, error) {
	kind := model.CapacityKind(req.Kind)
	switch kind {
	case model.KindSeat:
		if req.Seats < 1 {
			return kind, 0, fmt.Errorf("%w: seats must be at least 1", ErrInvalidInput)
		}
		return kind, float64(req.Seats), nil
	case model.KindCargo:
		qty := pricing.ChargeableWeight(req.WeightKg, req.LengthCm, req.WidthCm, req.HeightCm)
		if qty <= 0 {
			return kind, 0, fmt.Errorf("%w: cargo weight must be positive", ErrInvalidInput)
		}
		return kind, qty, nil
	default:
		return kind, 0, fmt.Errorf("%w: unknown capacity kind %q", ErrInvalidInput, req.Kind)
	}
}

// priceFor runs the full pipeline for a prospective reservation and reports
// whether a coupon discount was applied.
func (s *ReservationService) priceFor(ctx context.Context, trip *model.Trip, kind model.CapacityKind, quantity float64, holderID uuid.UUID, couponCode string) (model.PriceBreakdown, bool, error) {
	base := trip.UnitPrice(kind)
	subtotal := base * quantity
	afterOperator := subtotal - subtotal*trip.OperatorDiscountPct/100

	var couponDiscount float64
	var applied bool
	var rejection coupon.RejectReason
	if couponCode != "" {
		c, err := s.coupons.GetByCode(ctx, couponCode)
		if err != nil {
			return model.PriceBreakdown{}, false, fmt.Errorf("load coupon: %w", err)
		}
		var weightKg float64
		if kind == model.KindCargo {
			weightKg = quantity
		}
		couponDiscount, rejection, applied = coupon.Validate(c, coupon.Input{
			Kind:              kind,
			PriceBeforeCoupon: afterOperator,
			OriginCity:        trip.OriginCity,
			DestinationCity:   trip.DestinationCity,
			WeightKg:          weightKg,
			Now:               s.now(),
		})
		if !applied && s.policy.StrictCoupon {
			return model.PriceBreakdown{}, false, fmt.Errorf("%w: %s", ErrCouponInvalid, rejection)
		}
	}

	tier := loyalty.Tier{}
	account, err := s.accounts.GetByID(ctx, holderID)
	if err != nil {
		return model.PriceBreakdown{}, false, fmt.Errorf("load account: %w", err)
	}
	if account != nil {
		tier = loyalty.TierFor(account.LoyaltyPoints)
	} else {
		tier = loyalty.TierFor(0)
	}

	breakdown := pricing.Compute(base, quantity, trip.OperatorDiscountPct, couponDiscount, tier.DiscountPct)
	breakdown.LoyaltyTier = tier.Name
	if applied {
		breakdown.CouponCode = couponCode
	} else if rejection != "" {
		breakdown.CouponRejection = string(rejection)
	}
	return breakdown, applied, nil
}

// Quote prices a prospective reservation without reserving anything.
func (s *ReservationService) Quote(ctx context.Context, req *model.CreateReservationRequest) (*model.PriceBreakdown, error) {
	if req == nil {
		return nil, ErrInvalidInput
	}
	kind, quantity, err := quantityFor(req)
	if err != nil {
		return nil, err
	}
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, fmt.Errorf("%w: trip_id", ErrInvalidInput)
	}
	holderID, err := uuid.Parse(req.HolderID)
	if err != nil {
		return nil, fmt.Errorf("%w: holder_id", ErrInvalidInput)
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if kind == model.KindCargo && !trip.CargoEnabled() {
		return nil, fmt.Errorf("%w: trip does not carry cargo", ErrInvalidInput)
	}

	breakdown, _, err := s.priceFor(ctx, trip, kind, quantity, holderID, req.CouponCode)
	if err != nil {
		return nil, err
	}
	return &breakdown, nil
}

// Create books seats or cargo space on a trip.
//
// The coupon usage increment, the capacity claim, and the reservation insert
// run in one transaction: if any step fails everything rolls back, so a
// failed reservation never consumes coupon usage and capacity is never
// stranded. If a concurrent booking exhausts the coupon's usage limit
// between validation and consumption, the booking proceeds without the
// discount (unless strict coupon policy is on) and the reason is surfaced
// in the breakdown.
func (s *ReservationService) Create(ctx context.Context, req *model.CreateReservationRequest) (*model.Reservation, error) {
	if req == nil {
		return nil, ErrInvalidInput
	}
	kind, quantity, err := quantityFor(req)
	if err != nil {
		return nil, err
	}
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, fmt.Errorf("%w: trip_id", ErrInvalidInput)
	}
	holderID, err := uuid.Parse(req.HolderID)
	if err != nil {
		return nil, fmt.Errorf("%w: holder_id", ErrInvalidInput)
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != model.TripScheduled {
		return nil, ErrTripNotBookable
	}
	if kind == model.KindCargo && !trip.CargoEnabled() {
		return nil, fmt.Errorf("%w: trip does not carry cargo", ErrInvalidInput)
	}

	breakdown, applied, err := s.priceFor(ctx, trip, kind, quantity, holderID, req.CouponCode)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	if applied {
		ok, err := s.coupons.IncrementUsage(ctx, tx, req.CouponCode)
		if err != nil {
			return nil, fmt.Errorf("consume coupon: %w", err)
		}
		if !ok {
			// Lost the race for the last use.
			if s.policy.StrictCoupon {
				return nil, fmt.Errorf("%w: usage_limit_reached", ErrCouponInvalid)
			}
			tier := loyalty.TierFor(0)
			if account, accErr := s.accounts.GetByID(ctx, holderID); accErr == nil && account != nil {
				tier = loyalty.TierFor(account.LoyaltyPoints)
			}
			breakdown = pricing.Compute(trip.UnitPrice(kind), quantity, trip.OperatorDiscountPct, 0, tier.DiscountPct)
			breakdown.LoyaltyTier = tier.Name
			breakdown.CouponRejection = "usage_limit_reached"
			applied = false
		}
	}

	if err := s.trips.ReserveCapacity(ctx, tx, tripID, kind, quantity); err != nil {
		return nil, err
	}

	res := &model.Reservation{
		ID:            uuid.New(),
		TripID:        tripID,
		HolderID:      holderID,
		Kind:          kind,
		Quantity:      quantity,
		FinalPrice:    breakdown.Final,
		Breakdown:     breakdown,
		Status:        model.ReservationConfirmed,
		PaymentStatus: model.PaymentPending,
	}
	if kind == model.KindCargo {
		code, err := s.reservations.NextTrackingCode(ctx, tx)
		if err != nil {
			return nil, err
		}
		res.TrackingCode = code
	}

	if err := s.reservations.Insert(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit reservation: %w", err)
	}

	log.Info().
		Str("reservation_id", res.ID.String()).
		Str("trip_id", tripID.String()).
		Str("kind", string(kind)).
		Float64("quantity", quantity).
		Float64("final_price", res.FinalPrice).
		Msg("reservation created")
	return res, nil
}

// Cancel cancels a reservation on behalf of its holder, releases the held
// capacity back to the trip, and flags the payment as refund eligible.
// Cancellation is terminal; a cancelled reservation cannot be revived.
func (s *ReservationService) Cancel(ctx context.Context, reservationID, requesterID uuid.UUID) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.HolderID != requesterID {
		return nil, ErrNotHolder
	}
	if res.Status.Terminal() {
		return nil, ErrReservationFinal
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.reservations.Cancel(ctx, tx, reservationID, true); err != nil {
		return nil, err
	}
	if err := s.trips.ReleaseCapacity(ctx, tx, res.TripID, res.Kind, res.Quantity); err != nil {
		if errors.Is(err, ErrCapacityOverflow) {
			// Caller bug by definition; the release was clamped to total.
			log.Error().
				Str("reservation_id", reservationID.String()).
				Str("trip_id", res.TripID.String()).
				Msg("capacity release overflowed total, clamped")
		} else {
			return nil, err
		}
	}
	if s.policy.RefundCouponUsage && res.Breakdown.CouponCode != "" {
		if err := s.coupons.DecrementUsage(ctx, tx, res.Breakdown.CouponCode); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit cancellation: %w", err)
	}

	res.Status = model.ReservationCancelled
	res.RefundEligible = true
	log.Info().
		Str("reservation_id", reservationID.String()).
		Str("trip_id", res.TripID.String()).
		Msg("reservation cancelled")
	return res, nil
}

// CheckIn moves a confirmed passenger booking to checked_in.
func (s *ReservationService) CheckIn(ctx context.Context, reservationID uuid.UUID) error {
	return s.advance(ctx, reservationID, model.KindSeat, model.ReservationConfirmed, model.ReservationCheckedIn)
}

// Complete finishes a checked-in passenger booking after the trip.
func (s *ReservationService) Complete(ctx context.Context, reservationID uuid.UUID) error {
	return s.advance(ctx, reservationID, model.KindSeat, model.ReservationCheckedIn, model.ReservationCompleted)
}

// Collect records that a cargo shipment was handed over before departure.
func (s *ReservationService) Collect(ctx context.Context, reservationID uuid.UUID) error {
	return s.advance(ctx, reservationID, model.KindCargo, model.ReservationConfirmed, model.ReservationCollected)
}

// ConfirmDelivery confirms receipt of an arrived cargo shipment.
func (s *ReservationService) ConfirmDelivery(ctx context.Context, reservationID uuid.UUID) error {
	return s.advance(ctx, reservationID, model.KindCargo, model.ReservationArrived, model.ReservationDelivered)
}

// advance applies one forward status move, guarded by kind and current
// status. Status moves are forward-only except cancellation.
func (s *ReservationService) advance(ctx context.Context, reservationID uuid.UUID, kind model.CapacityKind, from, to model.ReservationStatus) error {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if res.Kind != kind {
		return fmt.Errorf("%w: reservation is not a %s reservation", ErrInvalidInput, kind)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.reservations.UpdateStatus(ctx, tx, reservationID, from, to); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// MarkPaid records that the external payment collaborator captured the
// payment. The core tracks only the status transition.
func (s *ReservationService) MarkPaid(ctx context.Context, reservationID uuid.UUID) error {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if res.Status == model.ReservationCancelled {
		return ErrReservationFinal
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.reservations.SetPaymentStatus(ctx, tx, reservationID, model.PaymentPaid); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Get returns a reservation by ID.
func (s *ReservationService) Get(ctx context.Context, reservationID uuid.UUID) (*model.Reservation, error) {
	return s.reservations.GetByID(ctx, reservationID)
}
