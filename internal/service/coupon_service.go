package service

import (
	"context"
	"fmt"
	"time"

	"github.com/navegam/river-booking-system/internal/model"
)

// CouponService provides operator-facing coupon management.
type CouponService struct {
	coupons CouponRepositoryInterface
}

// NewCouponService creates a CouponService with the given repository.
func NewCouponService(coupons CouponRepositoryInterface) *CouponService {
	return &CouponService{coupons: coupons}
}

// Create creates a new coupon from the request.
// Returns ErrCouponExists if the code is already taken and ErrInvalidInput
// for incoherent constraint data.
func (s *CouponService) Create(ctx context.Context, req *model.CreateCouponRequest) error {
	if req == nil || req.Value == nil {
		return ErrInvalidInput
	}

	c := &model.Coupon{
		Code:        req.Code,
		Type:        model.DiscountType(req.Type),
		Value:       *req.Value,
		Target:      model.TargetBoth,
		Active:      true,
		MinPurchase: req.MinPurchase,
		MaxDiscount: req.MaxDiscount,
		UsageLimit:  req.UsageLimit,
		OriginCity:  req.OriginCity,
		DestCity:    req.DestCity,
		MinWeightKg: req.MinWeightKg,
		MaxWeightKg: req.MaxWeightKg,
	}
	if req.Target != "" {
		c.Target = model.CouponTarget(req.Target)
	}
	if c.Type == model.DiscountPercentage && c.Value > 100 {
		return fmt.Errorf("%w: percentage value above 100", ErrInvalidInput)
	}

	var err error
	if c.ValidFrom, err = parseTimePtr(req.ValidFrom); err != nil {
		return fmt.Errorf("%w: valid_from must be RFC 3339", ErrInvalidInput)
	}
	if c.ValidUntil, err = parseTimePtr(req.ValidUntil); err != nil {
		return fmt.Errorf("%w: valid_until must be RFC 3339", ErrInvalidInput)
	}
	if c.ValidFrom != nil && c.ValidUntil != nil && c.ValidUntil.Before(*c.ValidFrom) {
		return fmt.Errorf("%w: valid_until before valid_from", ErrInvalidInput)
	}
	if c.MinWeightKg != nil && c.MaxWeightKg != nil && *c.MaxWeightKg < *c.MinWeightKg {
		return fmt.Errorf("%w: max_weight_kg below min_weight_kg", ErrInvalidInput)
	}

	return s.coupons.Insert(ctx, c)
}

// GetByCode retrieves a coupon by code.
// Returns ErrCouponNotFound if the coupon doesn't exist.
func (s *CouponService) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	c, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if c == nil {
		return nil, ErrCouponNotFound
	}
	return c, nil
}

func parseTimePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
