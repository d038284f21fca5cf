package service

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/montanha-viva/mv-cli/internal/adapter/outbound/cache"
	"github.com/montanha-viva/mv-cli/internal/apiclient"
)

// Route is one hiking route.
type Route struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	DistanceKM   float64    `json:"distance_km"`
	Difficulty   string     `json:"difficulty"`
	DurationMin  int        `json:"duration_minutes"`
	ElevationM   int        `json:"elevation_gain_m"`
	Waypoints    []Waypoint `json:"waypoints,omitempty"`
	PointsOfNote []string   `json:"points_of_interest,omitempty"`
}

// Waypoint is one GPS point along a route.
type Waypoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
}

// RouteInput is the admin create/update request body.
type RouteInput struct {
	Name         string     `json:"name" validate:"required"`
	Description  string     `json:"description"`
	DistanceKM   float64    `json:"distance_km" validate:"gte=0"`
	Difficulty   string     `json:"difficulty" validate:"omitempty,oneof=easy moderate hard"`
	DurationMin  int        `json:"duration_minutes" validate:"gte=0"`
	ElevationM   int        `json:"elevation_gain_m"`
	Waypoints    []Waypoint `json:"waypoints,omitempty"`
	PointsOfNote []string   `json:"points_of_interest,omitempty"`
}

// RouteService wraps the hiking route endpoints with the same offline
// read-through cache as the flora encyclopedia.
type RouteService struct {
	client *apiclient.Client
	cache  *cache.Store
	logger *slog.Logger
}

// NewRouteService creates a RouteService. A nil cache disables the
// offline fallback.
func NewRouteService(client *apiclient.Client, cache *cache.Store, logger *slog.Logger) *RouteService {
	return &RouteService{client: client, cache: cache, logger: logger}
}

// List returns all routes, serving a stale cached copy when offline.
func (s *RouteService) List(ctx context.Context) ([]Route, error) {
	var routes []Route
	err := cachedGet(ctx, s.client, s.cache, s.logger, "/routes/", &routes)
	return routes, err
}

// Get returns a single route by id, falling back to the cache offline.
func (s *RouteService) Get(ctx context.Context, id string) (*Route, error) {
	var route Route
	path := "/routes/" + url.PathEscape(id) + "/"
	if err := cachedGet(ctx, s.client, s.cache, s.logger, path, &route); err != nil {
		return nil, err
	}
	return &route, nil
}

// Create adds a route. Admin only.
func (s *RouteService) Create(ctx context.Context, in RouteInput) (*Route, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	var route Route
	if err := s.client.Post(ctx, "/routes/", in, &route); err != nil {
		return nil, err
	}
	return &route, nil
}

// Update replaces a route's fields. Admin only.
func (s *RouteService) Update(ctx context.Context, id string, in RouteInput) (*Route, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	var route Route
	if err := s.client.Put(ctx, "/routes/"+url.PathEscape(id)+"/", in, &route); err != nil {
		return nil, err
	}
	return &route, nil
}

// Delete removes a route. Admin only.
func (s *RouteService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/routes/"+url.PathEscape(id)+"/")
}
