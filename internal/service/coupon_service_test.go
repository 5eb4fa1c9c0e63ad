package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navegam/river-booking-system/internal/model"
)

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func couponRequest() *model.CreateCouponRequest {
	return &model.CreateCouponRequest{
		Code:  "RIO10",
		Type:  "percentage",
		Value: floatPtr(10),
	}
}

func TestCreateCoupon_Success(t *testing.T) {
	var inserted *model.Coupon
	repo := &mockCouponRepository{
		insertFn: func(ctx context.Context, c *model.Coupon) error {
			inserted = c
			return nil
		},
	}
	svc := NewCouponService(repo)

	err := svc.Create(context.Background(), couponRequest())

	require.NoError(t, err)
	require.NotNil(t, inserted)
	assert.Equal(t, "RIO10", inserted.Code)
	assert.Equal(t, model.DiscountPercentage, inserted.Type)
	assert.Equal(t, 10.0, inserted.Value)
	assert.Equal(t, model.TargetBoth, inserted.Target) // default when omitted
	assert.True(t, inserted.Active)
}

func TestCreateCoupon_ExplicitTarget(t *testing.T) {
	var inserted *model.Coupon
	repo := &mockCouponRepository{
		insertFn: func(ctx context.Context, c *model.Coupon) error {
			inserted = c
			return nil
		},
	}
	svc := NewCouponService(repo)

	req := couponRequest()
	req.Target = "cargo"
	err := svc.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, model.TargetCargo, inserted.Target)
}

func TestCreateCoupon_NilRequest(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{})

	err := svc.Create(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req := couponRequest()
	req.Value = nil
	err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateCoupon_PercentageAbove100(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{})

	req := couponRequest()
	req.Value = floatPtr(150)

	err := svc.Create(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateCoupon_InvalidTimeWindow(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{})

	req := couponRequest()
	req.ValidFrom = strPtr("2026-09-01T00:00:00Z")
	req.ValidUntil = strPtr("2026-08-01T00:00:00Z")
	err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = couponRequest()
	req.ValidFrom = strPtr("not-a-time")
	err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateCoupon_InvalidWeightRange(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{})

	req := couponRequest()
	req.MinWeightKg = floatPtr(500)
	req.MaxWeightKg = floatPtr(100)

	err := svc.Create(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateCoupon_DuplicateCode(t *testing.T) {
	repo := &mockCouponRepository{
		insertFn: func(ctx context.Context, c *model.Coupon) error { return ErrCouponExists },
	}
	svc := NewCouponService(repo)

	err := svc.Create(context.Background(), couponRequest())

	assert.ErrorIs(t, err, ErrCouponExists)
}

func TestGetCouponByCode_Success(t *testing.T) {
	repo := &mockCouponRepository{
		getByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			return &model.Coupon{Code: code, Active: true}, nil
		},
	}
	svc := NewCouponService(repo)

	c, err := svc.GetByCode(context.Background(), "RIO10")

	require.NoError(t, err)
	assert.Equal(t, "RIO10", c.Code)
}

func TestGetCouponByCode_NotFound(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{})

	_, err := svc.GetByCode(context.Background(), "MISSING")

	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestGetCouponByCode_RepositoryError(t *testing.T) {
	repo := &mockCouponRepository{
		getByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := NewCouponService(repo)

	_, err := svc.GetByCode(context.Background(), "RIO10")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCouponNotFound)
}
