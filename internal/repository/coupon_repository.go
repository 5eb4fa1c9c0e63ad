package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/navegam/river-booking-system/internal/model"
	"github.com/navegam/river-booking-system/internal/service"
	"github.com/navegam/river-booking-system/pkg/database"
)

// CouponRepository provides data access for coupons using pgx.
type CouponRepository struct {
	pool PoolInterface
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a CouponRepository with a custom pool
// interface. Primarily used for testing.
func NewCouponRepositoryWithPool(pool PoolInterface) *CouponRepository {
	return &CouponRepository{pool: pool}
}

const couponColumns = `code, type, value, target, active, min_purchase, max_discount,
	usage_limit, usage_count, valid_from, valid_until,
	origin_city, dest_city, min_weight_kg, max_weight_kg, created_at`

// Insert inserts a new coupon.
// Returns service.ErrCouponExists if the code is already taken.
func (r *CouponRepository) Insert(ctx context.Context, c *model.Coupon) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO coupons (code, type, value, target, active, min_purchase, max_discount,
			usage_limit, valid_from, valid_until,
			origin_city, dest_city, min_weight_kg, max_weight_kg)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		c.Code, c.Type, c.Value, c.Target, c.Active, c.MinPurchase, c.MaxDiscount,
		c.UsageLimit, c.ValidFrom, c.ValidUntil,
		c.OriginCity, c.DestCity, c.MinWeightKg, c.MaxWeightKg)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrCouponExists
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// GetByCode retrieves a coupon by its code.
// Returns nil, nil if the coupon is not found (service layer handles this).
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var c model.Coupon
	err := r.pool.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code = $1`, code).Scan(
		&c.Code, &c.Type, &c.Value, &c.Target, &c.Active, &c.MinPurchase, &c.MaxDiscount,
		&c.UsageLimit, &c.UsageCount, &c.ValidFrom, &c.ValidUntil,
		&c.OriginCity, &c.DestCity, &c.MinWeightKg, &c.MaxWeightKg, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get coupon by code %s: %w", code, err)
	}
	return &c, nil
}

// IncrementUsage consumes one use of the coupon in a single conditional
// UPDATE, so concurrent bookings can never push usage_count past the limit.
// Returns false (no error) when the limit is already reached.
func (r *CouponRepository) IncrementUsage(ctx context.Context, tx database.TxQuerier, code string) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE coupons SET usage_count = usage_count + 1
		WHERE code = $1 AND (usage_limit IS NULL OR usage_count < usage_limit)`,
		code)
	if err != nil {
		return false, fmt.Errorf("increment usage for coupon %s: %w", code, err)
	}
	return tag.RowsAffected() == 1, nil
}

// DecrementUsage returns one use to the coupon pool, floored at zero. Only
// called when the refund-usage-on-cancel policy is enabled.
func (r *CouponRepository) DecrementUsage(ctx context.Context, tx database.TxQuerier, code string) error {
	_, err := tx.Exec(ctx,
		`UPDATE coupons SET usage_count = GREATEST(usage_count - 1, 0) WHERE code = $1`,
		code)
	if err != nil {
		return fmt.Errorf("decrement usage for coupon %s: %w", code, err)
	}
	return nil
}
