package model

import "time"

// DiscountType says how a coupon's Value is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// CouponTarget restricts which reservation kinds a coupon applies to.
type CouponTarget string

const (
	TargetSeat  CouponTarget = "seat"
	TargetCargo CouponTarget = "cargo"
	TargetBoth  CouponTarget = "both"
)

// Matches reports whether the coupon target admits the given capacity kind.
func (t CouponTarget) Matches(kind CapacityKind) bool {
	return t == TargetBoth || string(t) == string(kind)
}

// Coupon is a named discount rule. All constraint fields are optional;
// a nil pointer means the constraint is not set.
type Coupon struct {
	Code        string       `json:"code"`
	Type        DiscountType `json:"type"`
	Value       float64      `json:"value"`
	Target      CouponTarget `json:"target"`
	Active      bool         `json:"active"`
	MinPurchase *float64     `json:"min_purchase,omitempty"`
	MaxDiscount *float64     `json:"max_discount,omitempty"`
	UsageLimit  *int         `json:"usage_limit,omitempty"`
	UsageCount  int          `json:"usage_count"`
	ValidFrom   *time.Time   `json:"valid_from,omitempty"`
	ValidUntil  *time.Time   `json:"valid_until,omitempty"`
	OriginCity  *string      `json:"origin_city,omitempty"`
	DestCity    *string      `json:"dest_city,omitempty"`
	MinWeightKg *float64     `json:"min_weight_kg,omitempty"`
	MaxWeightKg *float64     `json:"max_weight_kg,omitempty"`
	CreatedAt   time.Time    `json:"-"`
}

// CreateCouponRequest is the DTO for creating a coupon.
type CreateCouponRequest struct {
	Code        string   `json:"code" validate:"required,notblank,max=255"`
	Type        string   `json:"type" validate:"required,oneof=percentage fixed"`
	Value       *float64 `json:"value" validate:"required,gt=0"`
	Target      string   `json:"target" validate:"omitempty,oneof=seat cargo both"`
	MinPurchase *float64 `json:"min_purchase" validate:"omitempty,gte=0"`
	MaxDiscount *float64 `json:"max_discount" validate:"omitempty,gt=0"`
	UsageLimit  *int     `json:"usage_limit" validate:"omitempty,gte=1"`
	ValidFrom   *string  `json:"valid_from"`
	ValidUntil  *string  `json:"valid_until"`
	OriginCity  *string  `json:"origin_city" validate:"omitempty,max=255"`
	DestCity    *string  `json:"dest_city" validate:"omitempty,max=255"`
	MinWeightKg *float64 `json:"min_weight_kg" validate:"omitempty,gte=0"`
	MaxWeightKg *float64 `json:"max_weight_kg" validate:"omitempty,gte=0"`
}
