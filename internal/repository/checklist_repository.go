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

// ChecklistRepository provides data access for safety checklists.
type ChecklistRepository struct {
	pool PoolInterface
}

// NewChecklistRepository creates a new ChecklistRepository with the given pool.
func NewChecklistRepository(pool *pgxpool.Pool) *ChecklistRepository {
	return &ChecklistRepository{pool: pool}
}

// NewChecklistRepositoryWithPool creates a ChecklistRepository with a custom
// pool interface. Primarily used for testing.
func NewChecklistRepositoryWithPool(pool PoolInterface) *ChecklistRepository {
	return &ChecklistRepository{pool: pool}
}

// Upsert stores the checklist for a trip. A completed checklist is never
// reset: once complete is true, the guard keeps it (and completed_at) fixed
// regardless of what the new submission says.
func (r *ChecklistRepository) Upsert(ctx context.Context, c *model.SafetyChecklist) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO safety_checklists (trip_id, captain_id, hull_inspected, life_jackets_onboard,
			navigation_lights_ok, radio_checked, fire_extinguisher_ok, bilge_pump_operational,
			observations, complete, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (trip_id) DO UPDATE SET
			captain_id = EXCLUDED.captain_id,
			hull_inspected = EXCLUDED.hull_inspected,
			life_jackets_onboard = EXCLUDED.life_jackets_onboard,
			navigation_lights_ok = EXCLUDED.navigation_lights_ok,
			radio_checked = EXCLUDED.radio_checked,
			fire_extinguisher_ok = EXCLUDED.fire_extinguisher_ok,
			bilge_pump_operational = EXCLUDED.bilge_pump_operational,
			observations = EXCLUDED.observations,
			complete = safety_checklists.complete OR EXCLUDED.complete,
			completed_at = COALESCE(safety_checklists.completed_at, EXCLUDED.completed_at)
		WHERE safety_checklists.complete = FALSE`,
		c.TripID, c.CaptainID, c.HullInspected, c.LifeJacketsOnboard,
		c.NavigationLightsOK, c.RadioChecked, c.FireExtinguisherOK, c.BilgePumpOperational,
		c.Observations, c.Complete, c.CompletedAt)
	if err != nil {
		return fmt.Errorf("upsert checklist for trip %s: %w", c.TripID, err)
	}
	return nil
}

// GetByTrip retrieves the checklist for a trip.
// Returns nil, nil if no checklist has been filed yet.
func (r *ChecklistRepository) GetByTrip(ctx context.Context, tripID uuid.UUID) (*model.SafetyChecklist, error) {
	var c model.SafetyChecklist
	err := r.pool.QueryRow(ctx,
		`SELECT trip_id, captain_id, hull_inspected, life_jackets_onboard,
			navigation_lights_ok, radio_checked, fire_extinguisher_ok, bilge_pump_operational,
			observations, complete, completed_at
		FROM safety_checklists WHERE trip_id = $1`, tripID).Scan(
		&c.TripID, &c.CaptainID, &c.HullInspected, &c.LifeJacketsOnboard,
		&c.NavigationLightsOK, &c.RadioChecked, &c.FireExtinguisherOK, &c.BilgePumpOperational,
		&c.Observations, &c.Complete, &c.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get checklist for trip %s: %w", tripID, err)
	}
	return &c, nil
}
