package service

import "context"

// WeatherService supplies the 0-100 navigability score at a coordinate.
// Implementations may fail; the depart gate treats any failure as
// ErrWeatherUnavailable and refuses the transition.
type WeatherService interface {
	SafetyScore(ctx context.Context, lat, lng float64) (int, error)
}

const (
	// minSafeScore is the score below which departure is refused outright.
	minSafeScore = 50
	// clearScore is the score at and above which no advisory is attached.
	clearScore = 70
)
