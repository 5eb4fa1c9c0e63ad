// Package weather supplies the navigability score consumed by the trip
// depart gate. The retrieval side talks to the Open-Meteo current-weather
// API; the scoring side is a pure function so it can be tested without any
// network.
package weather

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/navegam/river-booking-system/internal/config"
)

// weatherCodeThunderstorm is the lowest WMO code that means thunderstorm.
const weatherCodeThunderstorm = 95

// OpenMeteoClient fetches current conditions from an Open-Meteo compatible
// endpoint and converts them to a safety score.
type OpenMeteoClient struct {
	cfg config.WeatherConfig
}

// NewOpenMeteoClient creates a client for the configured endpoint.
func NewOpenMeteoClient(cfg config.WeatherConfig) *OpenMeteoClient {
	return &OpenMeteoClient{cfg: cfg}
}

type currentResponse struct {
	Current struct {
		WindSpeed   float64 `json:"wind_speed_10m"`
		WindGusts   float64 `json:"wind_gusts_10m"`
		Precip      float64 `json:"precipitation"`
		Visibility  float64 `json:"visibility"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
}

// SafetyScore returns the 0-100 navigability score at the given coordinates.
// Any retrieval or decoding failure is returned as an error; the caller's
// depart gate fails closed on it.
func (c *OpenMeteoClient) SafetyScore(ctx context.Context, lat, lng float64) (int, error) {
	url := fmt.Sprintf(
		"%s/v1/forecast?latitude=%.4f&longitude=%.4f&current=wind_speed_10m,wind_gusts_10m,precipitation,visibility,weather_code",
		c.cfg.BaseURL, lat, lng)

	agent := fiber.AcquireAgent()
	defer fiber.ReleaseAgent(agent)

	req := agent.Request()
	req.Header.SetMethod(fiber.MethodGet)
	req.SetRequestURI(url)
	agent.Timeout(c.cfg.Timeout)

	if err := agent.Parse(); err != nil {
		return 0, fmt.Errorf("weather request: %w", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return 0, fmt.Errorf("weather request: %w", errs[0])
	}
	if code != fiber.StatusOK {
		return 0, fmt.Errorf("weather request: unexpected status %d", code)
	}

	var resp currentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("decode weather response: %w", err)
	}

	return Score(Conditions{
		WindSpeedKmh:  resp.Current.WindSpeed,
		WindGustsKmh:  resp.Current.WindGusts,
		PrecipMm:      resp.Current.Precip,
		VisibilityM:   resp.Current.Visibility,
		Thunderstorms: resp.Current.WeatherCode >= weatherCodeThunderstorm,
	}), nil
}
