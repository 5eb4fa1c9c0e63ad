package model

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	TripScheduled  TripStatus = "scheduled"
	TripInProgress TripStatus = "in_progress"
	TripCompleted  TripStatus = "completed"
	TripCancelled  TripStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s TripStatus) Terminal() bool {
	return s == TripCompleted || s == TripCancelled
}

// CapacityKind selects one of the two independent capacity pools of a trip.
// Seats and cargo weight are never fungible with each other.
type CapacityKind string

const (
	KindSeat  CapacityKind = "seat"
	KindCargo CapacityKind = "cargo"
)

// Vessel is a boat owned by a captain. Its capacities bound every trip it runs.
type Vessel struct {
	ID              uuid.UUID `json:"id"`
	CaptainID       uuid.UUID `json:"captain_id"`
	Name            string    `json:"name"`
	SeatCapacity    int       `json:"seat_capacity"`
	CargoCapacityKg float64   `json:"cargo_capacity_kg"`
}

// Trip represents one scheduled departure of one vessel on one route.
// AvailableSeats and AvailableCargoKg are the contended capacity pools;
// they are only ever mutated through the conditional-update ledger operations.
type Trip struct {
	ID                  uuid.UUID  `json:"id"`
	VesselID            uuid.UUID  `json:"vessel_id"`
	CaptainID           uuid.UUID  `json:"captain_id"`
	OriginCity          string     `json:"origin_city"`
	DestinationCity     string     `json:"destination_city"`
	DepartureAt         time.Time  `json:"departure_at"`
	ArrivalAt           time.Time  `json:"arrival_at"`
	SeatPrice           float64    `json:"seat_price"`
	CargoPricePerKg     float64    `json:"cargo_price_per_kg"`
	TotalSeats          int        `json:"total_seats"`
	AvailableSeats      int        `json:"available_seats"`
	TotalCargoKg        float64    `json:"total_cargo_kg"`
	AvailableCargoKg    float64    `json:"available_cargo_kg"`
	OperatorDiscountPct float64    `json:"operator_discount_pct"`
	Latitude            float64    `json:"latitude"`
	Longitude           float64    `json:"longitude"`
	Status              TripStatus `json:"status"`
	CreatedAt           time.Time  `json:"-"`
}

// CargoEnabled reports whether the trip tracks a cargo pool at all.
func (t *Trip) CargoEnabled() bool {
	return t.TotalCargoKg > 0
}

// UnitPrice returns the base unit price for the given capacity kind.
func (t *Trip) UnitPrice(kind CapacityKind) float64 {
	if kind == KindCargo {
		return t.CargoPricePerKg
	}
	return t.SeatPrice
}

// CreateTripRequest is the DTO for publishing a trip.
type CreateTripRequest struct {
	VesselID            string  `json:"vessel_id" validate:"required,uuid4"`
	OriginCity          string  `json:"origin_city" validate:"required,notblank,max=255"`
	DestinationCity     string  `json:"destination_city" validate:"required,notblank,max=255"`
	DepartureAt         string  `json:"departure_at" validate:"required"`
	ArrivalAt           string  `json:"arrival_at" validate:"required"`
	SeatPrice           float64 `json:"seat_price" validate:"gte=0"`
	CargoPricePerKg     float64 `json:"cargo_price_per_kg" validate:"gte=0"`
	TotalSeats          int     `json:"total_seats" validate:"gte=0"`
	TotalCargoKg        float64 `json:"total_cargo_kg" validate:"gte=0"`
	OperatorDiscountPct float64 `json:"operator_discount_pct" validate:"gte=0,lte=100"`
	Latitude            float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude           float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// DepartResult carries the outcome of the guarded depart transition.
// Advisory is set when the weather score allows departure but sits in the
// caution band; the captain proceeds at their own discretion.
type DepartResult struct {
	Trip         *Trip  `json:"trip"`
	WeatherScore int    `json:"weather_score"`
	Advisory     string `json:"advisory,omitempty"`
}
