package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/navegam/river-booking-system/internal/model"
)

// AccountRepository reads the holder profile slice the core needs: the
// loyalty point total. Point accrual and adjustment are external concerns.
type AccountRepository struct {
	pool PoolInterface
}

// NewAccountRepository creates a new AccountRepository with the given pool.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// NewAccountRepositoryWithPool creates an AccountRepository with a custom
// pool interface. Primarily used for testing.
func NewAccountRepositoryWithPool(pool PoolInterface) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// GetByID retrieves an account by its ID.
// Returns nil, nil if the account does not exist; an unknown holder simply
// books at the base loyalty tier.
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var a model.Account
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, loyalty_points FROM accounts WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.LoyaltyPoints)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account %s: %w", id, err)
	}
	return &a, nil
}
