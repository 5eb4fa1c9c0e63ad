package service

import "errors"

var (
	// ErrInvalidInput is returned for caller-supplied malformed data, such
	// as a non-positive quantity. Never retryable.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTripNotFound is returned when a trip cannot be found.
	ErrTripNotFound = errors.New("trip not found")

	// ErrVesselNotFound is returned when a vessel cannot be found.
	ErrVesselNotFound = errors.New("vessel not found")

	// ErrReservationNotFound is returned when a reservation cannot be found.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrCouponNotFound is returned when a coupon code cannot be found.
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCouponExists is returned when creating a coupon whose code is taken.
	ErrCouponExists = errors.New("coupon already exists")

	// ErrCouponInvalid is returned when strict coupon enforcement is on and
	// the coupon did not apply. Wrapped with the rejection reason.
	ErrCouponInvalid = errors.New("coupon not applicable")

	// ErrInsufficientCapacity is returned when a trip cannot cover the
	// requested seats or cargo weight. Expected and frequent; the caller
	// should re-query availability before retrying.
	ErrInsufficientCapacity = errors.New("insufficient capacity")

	// ErrTripNotBookable is returned when reserving against a trip that is
	// no longer accepting reservations (departed, completed, or cancelled).
	ErrTripNotBookable = errors.New("trip is not accepting reservations")

	// ErrCapacityOverflow indicates a release would have pushed available
	// capacity above total. That means a caller bug; the release is clamped
	// and the error logged rather than shown as a normal outcome.
	ErrCapacityOverflow = errors.New("capacity release overflow")

	// ErrTripOverlap is returned when a vessel already has an active trip
	// overlapping the requested time window.
	ErrTripOverlap = errors.New("vessel has an overlapping trip")

	// ErrVesselCapacityExceeded is returned when a trip declares more
	// capacity than its vessel physically has.
	ErrVesselCapacityExceeded = errors.New("trip capacity exceeds vessel capacity")

	// ErrInvalidTransition is returned for a trip status move the state
	// machine does not permit.
	ErrInvalidTransition = errors.New("invalid trip status transition")

	// ErrChecklistIncomplete blocks departure until the safety checklist is
	// filed with every item checked.
	ErrChecklistIncomplete = errors.New("safety checklist incomplete")

	// ErrUnsafeWeather blocks departure while the weather safety score is
	// below the minimum. Retryable once conditions change.
	ErrUnsafeWeather = errors.New("weather conditions unsafe for departure")

	// ErrWeatherUnavailable is returned when the weather score cannot be
	// obtained. The depart gate fails closed rather than assuming safety.
	ErrWeatherUnavailable = errors.New("weather safety score unavailable")

	// ErrNotHolder is returned when someone other than the reservation
	// holder attempts to cancel it.
	ErrNotHolder = errors.New("requester is not the reservation holder")

	// ErrReservationFinal is returned when acting on a cancelled or
	// completed reservation.
	ErrReservationFinal = errors.New("reservation already in a terminal state")
)
