package coupon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/navegam/river-booking-system/internal/model"
)

func strPtr(s string) *string        { return &s }
func floatPtr(f float64) *float64    { return &f }
func intPtr(i int) *int              { return &i }
func timePtr(t time.Time) *time.Time { return &t }

func baseCoupon() *model.Coupon {
	return &model.Coupon{
		Code:   "RIO10",
		Type:   model.DiscountPercentage,
		Value:  10,
		Target: model.TargetBoth,
		Active: true,
	}
}

func baseInput() Input {
	return Input{
		Kind:              model.KindSeat,
		PriceBeforeCoupon: 200,
		OriginCity:        "Manaus (Porto da Ceasa)",
		DestinationCity:   "Parintins",
		Now:               time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestValidate_Success_Percentage(t *testing.T) {
	discount, reason, ok := Validate(baseCoupon(), baseInput())

	assert.True(t, ok)
	assert.Empty(t, reason)
	assert.Equal(t, 20.0, discount)
}

func TestValidate_Success_Fixed(t *testing.T) {
	c := baseCoupon()
	c.Type = model.DiscountFixed
	c.Value = 35

	discount, _, ok := Validate(c, baseInput())

	assert.True(t, ok)
	assert.Equal(t, 35.0, discount)
}

func TestValidate_NilCoupon(t *testing.T) {
	_, reason, ok := Validate(nil, baseInput())

	assert.False(t, ok)
	assert.Equal(t, ReasonNotFound, reason)
}

func TestValidate_Inactive(t *testing.T) {
	c := baseCoupon()
	c.Active = false

	_, reason, ok := Validate(c, baseInput())

	assert.False(t, ok)
	assert.Equal(t, ReasonInactive, reason)
}

func TestValidate_WrongTarget(t *testing.T) {
	c := baseCoupon()
	c.Target = model.TargetCargo

	_, reason, ok := Validate(c, baseInput())

	assert.False(t, ok)
	assert.Equal(t, ReasonWrongTarget, reason)
}

func TestValidate_ValidityWindow(t *testing.T) {
	now := baseInput().Now

	c := baseCoupon()
	c.ValidFrom = timePtr(now.Add(time.Hour))
	_, reason, ok := Validate(c, baseInput())
	assert.False(t, ok)
	assert.Equal(t, ReasonNotYetValid, reason)

	c = baseCoupon()
	c.ValidUntil = timePtr(now.Add(-time.Hour))
	_, reason, ok = Validate(c, baseInput())
	assert.False(t, ok)
	assert.Equal(t, ReasonExpired, reason)
}

func TestValidate_UsageExhausted(t *testing.T) {
	c := baseCoupon()
	c.UsageLimit = intPtr(50)
	c.UsageCount = 50

	_, reason, ok := Validate(c, baseInput())

	assert.False(t, ok)
	assert.Equal(t, ReasonUsageExhausted, reason)
}

func TestValidate_BelowMinimumPurchase(t *testing.T) {
	c := baseCoupon()
	c.MinPurchase = floatPtr(500)

	_, reason, ok := Validate(c, baseInput())

	assert.False(t, ok)
	assert.Equal(t, ReasonBelowMinimum, reason)
}

func TestValidate_RouteFilter_SubstringMatchIsPermissive(t *testing.T) {
	// "Manaus" must match "Manaus (Porto da Ceasa)" in either direction
	c := baseCoupon()
	c.OriginCity = strPtr("manaus")
	c.DestCity = strPtr("Parintins")

	_, _, ok := Validate(c, baseInput())
	assert.True(t, ok)

	c.DestCity = strPtr("Santarém")
	_, reason, ok := Validate(c, baseInput())
	assert.False(t, ok)
	assert.Equal(t, ReasonRouteMismatch, reason)
}

func TestValidate_WeightFilter_CargoOnly(t *testing.T) {
	c := baseCoupon()
	c.MinWeightKg = floatPtr(100)
	c.MaxWeightKg = floatPtr(500)

	in := baseInput()
	in.Kind = model.KindCargo
	in.WeightKg = 50
	_, reason, ok := Validate(c, in)
	assert.False(t, ok)
	assert.Equal(t, ReasonWeightOutside, reason)

	in.WeightKg = 600
	_, reason, ok = Validate(c, in)
	assert.False(t, ok)
	assert.Equal(t, ReasonWeightOutside, reason)

	in.WeightKg = 250
	_, _, ok = Validate(c, in)
	assert.True(t, ok)

	// weight constraints are ignored for seat bookings
	seatIn := baseInput()
	_, _, ok = Validate(c, seatIn)
	assert.True(t, ok)
}

func TestValidate_MaxDiscountCap(t *testing.T) {
	c := baseCoupon()
	c.Value = 15
	c.MaxDiscount = floatPtr(20)

	in := baseInput()
	in.PriceBeforeCoupon = 180 // raw discount 27, capped at 20

	discount, _, ok := Validate(c, in)
	assert.True(t, ok)
	assert.Equal(t, 20.0, discount)
}

func TestValidate_CheckOrder_ShortCircuits(t *testing.T) {
	// An inactive coupon with a wrong target must report inactive first.
	c := baseCoupon()
	c.Active = false
	c.Target = model.TargetCargo

	_, reason, _ := Validate(c, baseInput())
	assert.Equal(t, ReasonInactive, reason)
}
