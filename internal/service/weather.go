package service

import (
	"context"
	"net/url"
	"time"

	"github.com/montanha-viva/mv-cli/internal/apiclient"
)

// Weather is the current conditions snapshot for the mountain, or for one
// station when the request names one.
type Weather struct {
	StationID   string    `json:"station_id,omitempty"`
	Temperature float64   `json:"temperature_c"`
	Humidity    float64   `json:"humidity_pct"`
	WindSpeed   float64   `json:"wind_speed_kmh"`
	WindGust    float64   `json:"wind_gust_kmh,omitempty"`
	Precip      float64   `json:"precipitation_mm"`
	Pressure    float64   `json:"pressure_hpa,omitempty"`
	Condition   string    `json:"condition"`
	ObservedAt  time.Time `json:"observed_at"`
	FireRiskIdx int       `json:"fire_risk_index,omitempty"`
}

// WeatherService wraps the current conditions endpoint.
type WeatherService struct {
	client *apiclient.Client
}

// NewWeatherService creates a WeatherService.
func NewWeatherService(client *apiclient.Client) *WeatherService {
	return &WeatherService{client: client}
}

// Current returns the latest conditions. An empty stationID asks for the
// mountain-wide aggregate.
func (s *WeatherService) Current(ctx context.Context, stationID string) (*Weather, error) {
	path := "/weather/current/"
	if stationID != "" {
		path += "?" + url.Values{"station": {stationID}}.Encode()
	}

	var w Weather
	if err := s.client.Get(ctx, path, &w); err != nil {
		return nil, err
	}
	return &w, nil
}
