package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/navegam/river-booking-system/internal/model"
)

// ChecklistRepositoryInterface defines the safety checklist data access.
type ChecklistRepositoryInterface interface {
	Upsert(ctx context.Context, c *model.SafetyChecklist) error
	GetByTrip(ctx context.Context, tripID uuid.UUID) (*model.SafetyChecklist, error)
}

// cascadeRule is one row of the trip-transition mapping table: when a trip
// enters a status, reservations of the given kind currently in From move to
// To. Expressing the cascade as data keeps it testable and in one place.
type cascadeRule struct {
	Kind model.CapacityKind
	From model.ReservationStatus
	To   model.ReservationStatus
}

// statusCascades maps the new trip status to the reservation sub-state
// moves it implies. Departure puts collected cargo in transit; completion
// marks in-transit cargo arrived. Passenger check-in and delivery
// confirmation stay explicit caller actions and are deliberately absent.
var statusCascades = map[model.TripStatus][]cascadeRule{
	model.TripInProgress: {
		{Kind: model.KindCargo, From: model.ReservationCollected, To: model.ReservationInTransit},
	},
	model.TripCompleted: {
		{Kind: model.KindCargo, From: model.ReservationInTransit, To: model.ReservationArrived},
	},
}

// TripService owns the trip lifecycle state machine and its safety gate.
type TripService struct {
	pool         TxBeginner
	trips        TripRepositoryInterface
	reservations ReservationRepositoryInterface
	checklists   ChecklistRepositoryInterface
	weather      WeatherService
	now          func() time.Time
}

// NewTripService creates a TripService wired to a pgx pool.
func NewTripService(pool *pgxpool.Pool, trips TripRepositoryInterface, reservations ReservationRepositoryInterface, checklists ChecklistRepositoryInterface, weather WeatherService) *TripService {
	return NewTripServiceWithTxBeginner(pool, trips, reservations, checklists, weather)
}

// NewTripServiceWithTxBeginner creates a TripService with a custom
// TxBeginner. Primarily used for testing.
func NewTripServiceWithTxBeginner(pool TxBeginner, trips TripRepositoryInterface, reservations ReservationRepositoryInterface, checklists ChecklistRepositoryInterface, weather WeatherService) *TripService {
	return &TripService{
		pool:         pool,
		trips:        trips,
		reservations: reservations,
		checklists:   checklists,
		weather:      weather,
		now:          time.Now,
	}
}

// Create validates and publishes a trip: the declared capacity must fit the
// vessel, and the vessel must not have another active trip overlapping the
// window.
func (s *TripService) Create(ctx context.Context, req *model.CreateTripRequest) (*model.Trip, error) {
	if req == nil {
		return nil, ErrInvalidInput
	}
	vesselID, err := uuid.Parse(req.VesselID)
	if err != nil {
		return nil, fmt.Errorf("%w: vessel_id", ErrInvalidInput)
	}
	departureAt, err := time.Parse(time.RFC3339, req.DepartureAt)
	if err != nil {
		return nil, fmt.Errorf("%w: departure_at must be RFC 3339", ErrInvalidInput)
	}
	arrivalAt, err := time.Parse(time.RFC3339, req.ArrivalAt)
	if err != nil {
		return nil, fmt.Errorf("%w: arrival_at must be RFC 3339", ErrInvalidInput)
	}
	if !arrivalAt.After(departureAt) {
		return nil, fmt.Errorf("%w: arrival must be after departure", ErrInvalidInput)
	}
	if req.TotalSeats == 0 && req.TotalCargoKg == 0 {
		return nil, fmt.Errorf("%w: trip must offer seats or cargo capacity", ErrInvalidInput)
	}

	vessel, err := s.trips.GetVessel(ctx, vesselID)
	if err != nil {
		return nil, err
	}
	if req.TotalSeats > vessel.SeatCapacity || req.TotalCargoKg > vessel.CargoCapacityKg {
		return nil, ErrVesselCapacityExceeded
	}

	trip := &model.Trip{
		ID:                  uuid.New(),
		VesselID:            vesselID,
		CaptainID:           vessel.CaptainID,
		OriginCity:          req.OriginCity,
		DestinationCity:     req.DestinationCity,
		DepartureAt:         departureAt,
		ArrivalAt:           arrivalAt,
		SeatPrice:           req.SeatPrice,
		CargoPricePerKg:     req.CargoPricePerKg,
		TotalSeats:          req.TotalSeats,
		AvailableSeats:      req.TotalSeats,
		TotalCargoKg:        req.TotalCargoKg,
		AvailableCargoKg:    req.TotalCargoKg,
		OperatorDiscountPct: req.OperatorDiscountPct,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		Status:              model.TripScheduled,
	}

	overlaps, err := s.trips.HasOverlappingTrip(ctx, trip)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, ErrTripOverlap
	}

	if err := s.trips.Insert(ctx, trip); err != nil {
		return nil, err
	}
	log.Info().
		Str("trip_id", trip.ID.String()).
		Str("vessel_id", vesselID.String()).
		Str("route", trip.OriginCity+" -> "+trip.DestinationCity).
		Msg("trip published")
	return trip, nil
}

// Get returns a trip by ID.
func (s *TripService) Get(ctx context.Context, tripID uuid.UUID) (*model.Trip, error) {
	return s.trips.GetByID(ctx, tripID)
}

// Reservations lists a trip's reservations.
func (s *TripService) Reservations(ctx context.Context, tripID uuid.UUID) ([]*model.Reservation, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return nil, err
	}
	return s.reservations.ListByTrip(ctx, tripID)
}

// SubmitChecklist files the pre-departure safety checklist for a trip. The
// completion flag is derived, never client-supplied, and a completed
// checklist is immutable.
func (s *TripService) SubmitChecklist(ctx context.Context, tripID uuid.UUID, req *model.SubmitChecklistRequest) (*model.SafetyChecklist, error) {
	if req == nil {
		return nil, ErrInvalidInput
	}
	captainID, err := uuid.Parse(req.CaptainID)
	if err != nil {
		return nil, fmt.Errorf("%w: captain_id", ErrInvalidInput)
	}
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status.Terminal() {
		return nil, ErrInvalidTransition
	}

	checklist := &model.SafetyChecklist{
		TripID:               tripID,
		CaptainID:            captainID,
		HullInspected:        req.HullInspected,
		LifeJacketsOnboard:   req.LifeJacketsOnboard,
		NavigationLightsOK:   req.NavigationLightsOK,
		RadioChecked:         req.RadioChecked,
		FireExtinguisherOK:   req.FireExtinguisherOK,
		BilgePumpOperational: req.BilgePumpOperational,
		Observations:         req.Observations,
	}
	if checklist.AllItemsChecked() {
		now := s.now()
		checklist.Complete = true
		checklist.CompletedAt = &now
	}

	if err := s.checklists.Upsert(ctx, checklist); err != nil {
		return nil, err
	}
	return checklist, nil
}

// Depart is the guarded Scheduled -> InProgress transition. It requires a
// completed safety checklist, then an acceptable weather score at the trip's
// coordinates. A weather retrieval failure fails closed: no score, no
// departure. On success the status change and the reservation cascade
// commit together.
func (s *TripService) Depart(ctx context.Context, tripID uuid.UUID) (*model.DepartResult, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != model.TripScheduled {
		return nil, ErrInvalidTransition
	}

	checklist, err := s.checklists.GetByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if checklist == nil || !checklist.Complete {
		return nil, ErrChecklistIncomplete
	}

	score, err := s.weather.SafetyScore(ctx, trip.Latitude, trip.Longitude)
	if err != nil {
		log.Warn().Err(err).Str("trip_id", tripID.String()).Msg("weather score unavailable, refusing departure")
		return nil, fmt.Errorf("%w: %s", ErrWeatherUnavailable, err)
	}
	if score < minSafeScore {
		return nil, fmt.Errorf("%w: score %d", ErrUnsafeWeather, score)
	}

	if err := s.transition(ctx, tripID, model.TripScheduled, model.TripInProgress); err != nil {
		return nil, err
	}

	trip.Status = model.TripInProgress
	result := &model.DepartResult{Trip: trip, WeatherScore: score}
	if score < clearScore {
		result.Advisory = fmt.Sprintf("weather score %d: departure permitted, proceed with caution", score)
	}
	log.Info().
		Str("trip_id", tripID.String()).
		Int("weather_score", score).
		Msg("trip departed")
	return result, nil
}

// Complete is the InProgress -> Completed transition. In-transit cargo is
// cascaded to arrived; individual passenger completion and delivery
// confirmation remain explicit caller actions.
func (s *TripService) Complete(ctx context.Context, tripID uuid.UUID) (*model.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != model.TripInProgress {
		return nil, ErrInvalidTransition
	}
	if err := s.transition(ctx, tripID, model.TripInProgress, model.TripCompleted); err != nil {
		return nil, err
	}
	trip.Status = model.TripCompleted
	log.Info().Str("trip_id", tripID.String()).Msg("trip completed")
	return trip, nil
}

// Cancel aborts a trip. From Scheduled every active reservation is cancelled
// refund-eligible and all held capacity returns to the pools. From
// InProgress the trip has already delivered partial service: reservations
// are cancelled but consumed capacity is not released and no refund flag is
// set by the core.
func (s *TripService) Cancel(ctx context.Context, tripID uuid.UUID) (*model.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	switch trip.Status {
	case model.TripScheduled, model.TripInProgress:
	default:
		return nil, ErrInvalidTransition
	}
	fromScheduled := trip.Status == model.TripScheduled

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.trips.UpdateStatus(ctx, tx, tripID, trip.Status, model.TripCancelled); err != nil {
		return nil, err
	}
	cancelled, err := s.reservations.CancelAllActive(ctx, tx, tripID, fromScheduled)
	if err != nil {
		return nil, err
	}
	if fromScheduled {
		if err := s.trips.RestoreFullCapacity(ctx, tx, tripID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit cancellation: %w", err)
	}

	trip.Status = model.TripCancelled
	log.Info().
		Str("trip_id", tripID.String()).
		Int64("reservations_cancelled", cancelled).
		Bool("capacity_released", fromScheduled).
		Msg("trip cancelled")
	return trip, nil
}

// Reconcile restores available = total - sum(active reservations) for a
// trip. Exposed as the recovery sweep for capacity stranded by a crash
// between a claim and its reservation write.
func (s *TripService) Reconcile(ctx context.Context, tripID uuid.UUID) error {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		return err
	}
	return s.trips.ReconcileCapacity(ctx, tripID)
}

// transition applies a trip status move and its reservation cascade in one
// transaction; either the full cascade commits or none of it is visible.
func (s *TripService) transition(ctx context.Context, tripID uuid.UUID, from, to model.TripStatus) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.trips.UpdateStatus(ctx, tx, tripID, from, to); err != nil {
		return err
	}
	for _, rule := range statusCascades[to] {
		if _, err := s.reservations.CascadeStatus(ctx, tx, tripID, rule.Kind, rule.From, rule.To); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
