package service

import (
	"context"
	"net/url"
	"time"

	"github.com/montanha-viva/mv-cli/internal/apiclient"
)

// Station is one environmental sensor station.
type Station struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Elevation int      `json:"elevation_m"`
	Active    bool     `json:"active"`
	Metrics   []string `json:"metrics,omitempty"`
}

// Reading is one measurement from a station sensor.
type Reading struct {
	Metric    string    `json:"metric"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadingsQuery narrows a readings request. Zero values mean no filter.
type ReadingsQuery struct {
	From   time.Time
	To     time.Time
	Metric string
}

// StationService wraps the sensor station endpoints.
type StationService struct {
	client *apiclient.Client
}

// NewStationService creates a StationService.
func NewStationService(client *apiclient.Client) *StationService {
	return &StationService{client: client}
}

// List returns all sensor stations.
func (s *StationService) List(ctx context.Context) ([]Station, error) {
	var stations []Station
	err := s.client.Get(ctx, "/stations/", &stations)
	return stations, err
}

// Readings returns the measurements for one station, optionally filtered
// by time window and metric name.
func (s *StationService) Readings(ctx context.Context, stationID string, q ReadingsQuery) ([]Reading, error) {
	query := url.Values{}
	if !q.From.IsZero() {
		query.Set("from", q.From.UTC().Format(time.RFC3339))
	}
	if !q.To.IsZero() {
		query.Set("to", q.To.UTC().Format(time.RFC3339))
	}
	if q.Metric != "" {
		query.Set("metric", q.Metric)
	}

	path := "/stations/" + url.PathEscape(stationID) + "/readings/"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var readings []Reading
	err := s.client.Get(ctx, path, &readings)
	return readings, err
}
