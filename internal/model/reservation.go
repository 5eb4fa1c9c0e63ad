package model

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus covers both passenger bookings and cargo shipments.
// Passenger path: pending -> confirmed -> checked_in -> completed.
// Cargo path: pending -> confirmed -> collected -> in_transit -> delivered.
// cancelled is terminal for both and is the only backward move.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCheckedIn ReservationStatus = "checked_in"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCollected ReservationStatus = "collected"
	ReservationInTransit ReservationStatus = "in_transit"
	ReservationArrived   ReservationStatus = "arrived"
	ReservationDelivered ReservationStatus = "delivered"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Terminal reports whether the reservation can no longer change state.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCompleted || s == ReservationDelivered || s == ReservationCancelled
}

// PaymentStatus tracks what the core records about payment; payment
// execution itself belongs to an external collaborator.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// PriceBreakdown itemizes how the final price was reached. All discount
// amounts are in currency units, already applied in pipeline order.
type PriceBreakdown struct {
	Subtotal         float64 `json:"subtotal"`
	OperatorDiscount float64 `json:"operator_discount"`
	CouponDiscount   float64 `json:"coupon_discount"`
	LoyaltyDiscount  float64 `json:"loyalty_discount"`
	Final            float64 `json:"final"`
	CouponCode       string  `json:"coupon_code,omitempty"`
	CouponRejection  string  `json:"coupon_rejection,omitempty"`
	LoyaltyTier      string  `json:"loyalty_tier,omitempty"`
}

// Reservation is one holder's claim on a trip's capacity. Quantity is a seat
// count for KindSeat and chargeable weight in kg for KindCargo.
type Reservation struct {
	ID             uuid.UUID         `json:"id"`
	TripID         uuid.UUID         `json:"trip_id"`
	HolderID       uuid.UUID         `json:"holder_id"`
	Kind           CapacityKind      `json:"kind"`
	Quantity       float64           `json:"quantity"`
	FinalPrice     float64           `json:"final_price"`
	Breakdown      PriceBreakdown    `json:"breakdown"`
	Status         ReservationStatus `json:"status"`
	PaymentStatus  PaymentStatus     `json:"payment_status"`
	RefundEligible bool              `json:"refund_eligible"`
	TrackingCode   string            `json:"tracking_code,omitempty"` // cargo only
	CreatedAt      time.Time         `json:"-"`
}

// Active reports whether the reservation currently holds capacity.
func (r *Reservation) Active() bool {
	return r.Status != ReservationCancelled
}

// CreateReservationRequest is the DTO for booking seats or shipping cargo.
// For cargo, either weight_kg alone or weight plus dimensions may be given;
// the chargeable weight is the max of actual and volumetric weight.
type CreateReservationRequest struct {
	TripID     string  `json:"trip_id" validate:"required,uuid4"`
	HolderID   string  `json:"holder_id" validate:"required,uuid4"`
	Kind       string  `json:"kind" validate:"required,oneof=seat cargo"`
	Seats      int     `json:"seats" validate:"gte=0"`
	WeightKg   float64 `json:"weight_kg" validate:"gte=0"`
	LengthCm   float64 `json:"length_cm" validate:"gte=0"`
	WidthCm    float64 `json:"width_cm" validate:"gte=0"`
	HeightCm   float64 `json:"height_cm" validate:"gte=0"`
	CouponCode string  `json:"coupon_code" validate:"omitempty,max=255"`
}

// CancelReservationRequest identifies who is asking for the cancellation.
type CancelReservationRequest struct {
	RequesterID string `json:"requester_id" validate:"required,uuid4"`
}

// Account is the holder profile slice the core needs: loyalty points.
type Account struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	LoyaltyPoints int       `json:"loyalty_points"`
}
