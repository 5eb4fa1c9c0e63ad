package model

import (
	"time"

	"github.com/google/uuid"
)

// SafetyChecklist is the fixed pre-departure inspection, one per trip.
// Complete is true iff every boolean item is true; once complete it is
// never reset (a new trip requires a new checklist).
type SafetyChecklist struct {
	TripID               uuid.UUID  `json:"trip_id"`
	CaptainID            uuid.UUID  `json:"captain_id"`
	HullInspected        bool       `json:"hull_inspected"`
	LifeJacketsOnboard   bool       `json:"life_jackets_onboard"`
	NavigationLightsOK   bool       `json:"navigation_lights_ok"`
	RadioChecked         bool       `json:"radio_checked"`
	FireExtinguisherOK   bool       `json:"fire_extinguisher_ok"`
	BilgePumpOperational bool       `json:"bilge_pump_operational"`
	Observations         string     `json:"observations,omitempty"`
	Complete             bool       `json:"complete"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
}

// AllItemsChecked reports whether every required boolean item is true.
func (c *SafetyChecklist) AllItemsChecked() bool {
	return c.HullInspected &&
		c.LifeJacketsOnboard &&
		c.NavigationLightsOK &&
		c.RadioChecked &&
		c.FireExtinguisherOK &&
		c.BilgePumpOperational
}

// SubmitChecklistRequest is the DTO for filing the pre-departure checklist.
type SubmitChecklistRequest struct {
	CaptainID            string `json:"captain_id" validate:"required,uuid4"`
	HullInspected        bool   `json:"hull_inspected"`
	LifeJacketsOnboard   bool   `json:"life_jackets_onboard"`
	NavigationLightsOK   bool   `json:"navigation_lights_ok"`
	RadioChecked         bool   `json:"radio_checked"`
	FireExtinguisherOK   bool   `json:"fire_extinguisher_ok"`
	BilgePumpOperational bool   `json:"bilge_pump_operational"`
	Observations         string `json:"observations" validate:"max=2000"`
}
