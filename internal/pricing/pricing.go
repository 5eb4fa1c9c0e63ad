// Package pricing implements the discount pipeline used for every booking
// and shipment: base price, then operator discount, then coupon, then
// loyalty tier. The order is fixed because each discount applies to the
// already-discounted remainder, except the operator discount which always
// comes first.
package pricing

import (
	"math"

	"github.com/navegam/river-booking-system/internal/model"
)

// volumetricDivisor converts cm³ to volumetric kg, the freight-industry
// standard divisor.
const volumetricDivisor = 6000.0

// Compute runs the pipeline and returns the itemized breakdown.
// couponDiscount must already be validated and capped against the
// after-operator amount (see the coupon package); it is clamped here so the
// price can never go negative. Intermediate values carry full float
// precision; only the final price is rounded, half-up, to centavos.
func Compute(basePrice, quantity, operatorDiscountPct, couponDiscount, loyaltyDiscountPct float64) model.PriceBreakdown {
	subtotal := basePrice * quantity

	operatorAmount := subtotal * operatorDiscountPct / 100
	afterOperator := subtotal - operatorAmount

	if couponDiscount > afterOperator {
		couponDiscount = afterOperator
	}
	afterCoupon := afterOperator - couponDiscount

	loyaltyAmount := afterCoupon * loyaltyDiscountPct / 100
	final := afterCoupon - loyaltyAmount
	if final < 0 {
		final = 0
	}

	return model.PriceBreakdown{
		Subtotal:         roundCentavos(subtotal),
		OperatorDiscount: roundCentavos(operatorAmount),
		CouponDiscount:   roundCentavos(couponDiscount),
		LoyaltyDiscount:  roundCentavos(loyaltyAmount),
		Final:            roundCentavos(final),
	}
}

// ChargeableWeight returns the weight used for both pricing and cargo
// capacity consumption: the greater of the actual weight and the volumetric
// weight L×W×H/6000 (dimensions in cm). Zero dimensions mean volumetric
// weight is not considered.
func ChargeableWeight(actualKg, lengthCm, widthCm, heightCm float64) float64 {
	volumetric := lengthCm * widthCm * heightCm / volumetricDivisor
	if volumetric > actualKg {
		return volumetric
	}
	return actualKg
}

// roundCentavos rounds half-up to two decimal places. Inputs here are
// always non-negative, so math.Floor(x*100+0.5) is half-up.
func roundCentavos(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
