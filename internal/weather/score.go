package weather

// Conditions is the subset of current weather the navigability score uses.
type Conditions struct {
	WindSpeedKmh  float64
	WindGustsKmh  float64
	PrecipMm      float64 // precipitation over the last hour
	VisibilityM   float64
	Thunderstorms bool
}

// Score folds current conditions into a 0-100 navigability score for river
// departure. 100 is calm; penalties accumulate per hazard and the result is
// clamped to [0, 100]. Thresholds follow small-vessel guidance: sustained
// wind above 20 km/h starts to matter, above 50 km/h the river is off-limits.
func Score(c Conditions) int {
	score := 100.0

	switch {
	case c.WindSpeedKmh > 50:
		score -= 60
	case c.WindSpeedKmh > 35:
		score -= 35
	case c.WindSpeedKmh > 20:
		score -= 15
	}

	if c.WindGustsKmh > c.WindSpeedKmh+20 {
		score -= 10
	}

	switch {
	case c.PrecipMm > 10:
		score -= 30
	case c.PrecipMm > 2:
		score -= 10
	}

	switch {
	case c.VisibilityM > 0 && c.VisibilityM < 1000:
		score -= 30
	case c.VisibilityM > 0 && c.VisibilityM < 4000:
		score -= 10
	}

	if c.Thunderstorms {
		score -= 40
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return int(score)
}
