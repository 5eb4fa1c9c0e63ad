// Package coupon evaluates a coupon against a prospective booking or
// shipment. Validation is pure: it never touches usage counters. The caller
// increments usage_count only after the reservation is durably created, so a
// failed reservation never consumes coupon usage.
package coupon

import (
	"strings"
	"time"

	"github.com/navegam/river-booking-system/internal/model"
)

// RejectReason is a machine-readable reason why a coupon did not apply.
type RejectReason string

const (
	ReasonNotFound       RejectReason = "coupon_not_found"
	ReasonInactive       RejectReason = "coupon_inactive"
	ReasonWrongTarget    RejectReason = "not_applicable_to_kind"
	ReasonNotYetValid    RejectReason = "not_yet_valid"
	ReasonExpired        RejectReason = "expired"
	ReasonUsageExhausted RejectReason = "usage_limit_reached"
	ReasonBelowMinimum   RejectReason = "below_minimum_purchase"
	ReasonRouteMismatch  RejectReason = "route_not_covered"
	ReasonWeightOutside  RejectReason = "weight_outside_range"
)

// Input describes the prospective purchase the coupon is checked against.
// PriceBeforeCoupon is the amount after the operator discount; the coupon
// discount is computed from it.
type Input struct {
	Kind              model.CapacityKind
	PriceBeforeCoupon float64
	OriginCity        string
	DestinationCity   string
	WeightKg          float64
	Now               time.Time
}

// Validate runs the applicability checks in order, short-circuiting on the
// first failure, and on success returns the discount amount capped at the
// coupon's MaxDiscount. A nil coupon means the code did not resolve.
func Validate(c *model.Coupon, in Input) (float64, RejectReason, bool) {
	if c == nil {
		return 0, ReasonNotFound, false
	}
	if !c.Active {
		return 0, ReasonInactive, false
	}
	if !c.Target.Matches(in.Kind) {
		return 0, ReasonWrongTarget, false
	}
	if c.ValidFrom != nil && in.Now.Before(*c.ValidFrom) {
		return 0, ReasonNotYetValid, false
	}
	if c.ValidUntil != nil && in.Now.After(*c.ValidUntil) {
		return 0, ReasonExpired, false
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return 0, ReasonUsageExhausted, false
	}
	if c.MinPurchase != nil && in.PriceBeforeCoupon < *c.MinPurchase {
		return 0, ReasonBelowMinimum, false
	}
	if !routeMatches(c.OriginCity, in.OriginCity) || !routeMatches(c.DestCity, in.DestinationCity) {
		return 0, ReasonRouteMismatch, false
	}
	if in.Kind == model.KindCargo {
		if c.MinWeightKg != nil && in.WeightKg < *c.MinWeightKg {
			return 0, ReasonWeightOutside, false
		}
		if c.MaxWeightKg != nil && in.WeightKg > *c.MaxWeightKg {
			return 0, ReasonWeightOutside, false
		}
	}

	var discount float64
	if c.Type == model.DiscountPercentage {
		discount = c.Value * in.PriceBeforeCoupon / 100
	} else {
		discount = c.Value
	}
	if c.MaxDiscount != nil && discount > *c.MaxDiscount {
		discount = *c.MaxDiscount
	}
	return discount, "", true
}

// routeMatches is deliberately permissive: a case-insensitive substring
// match in either direction, so "Manaus (Porto da Ceasa)" satisfies a
// coupon filtered to "Manaus" and vice versa.
func routeMatches(filter *string, city string) bool {
	if filter == nil || strings.TrimSpace(*filter) == "" {
		return true
	}
	f := strings.ToLower(strings.TrimSpace(*filter))
	c := strings.ToLower(strings.TrimSpace(city))
	return strings.Contains(c, f) || strings.Contains(f, c)
}
