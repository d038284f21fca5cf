package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/montanha-viva/mv-cli/internal/adapter/outbound/cache"
	"github.com/montanha-viva/mv-cli/internal/apiclient"
)

// Plant is one entry of the flora encyclopedia.
type Plant struct {
	ID             string   `json:"id"`
	ScientificName string   `json:"scientific_name"`
	CommonName     string   `json:"common_name"`
	Family         string   `json:"family"`
	Description    string   `json:"description"`
	Habitat        string   `json:"habitat"`
	FloweringStart string   `json:"flowering_start,omitempty"`
	FloweringEnd   string   `json:"flowering_end,omitempty"`
	ImageURLs      []string `json:"image_urls,omitempty"`
	Uses           []string `json:"uses,omitempty"`
}

// PlantInput is the admin create/update request body.
type PlantInput struct {
	ScientificName string   `json:"scientific_name" validate:"required"`
	CommonName     string   `json:"common_name" validate:"required"`
	Family         string   `json:"family"`
	Description    string   `json:"description"`
	Habitat        string   `json:"habitat"`
	FloweringStart string   `json:"flowering_start,omitempty"`
	FloweringEnd   string   `json:"flowering_end,omitempty"`
	ImageURLs      []string `json:"image_urls,omitempty"`
	Uses           []string `json:"uses,omitempty"`
}

// FloraService wraps the flora encyclopedia endpoints with an offline
// read-through cache on the list and detail reads.
type FloraService struct {
	client *apiclient.Client
	cache  *cache.Store
	logger *slog.Logger
}

// NewFloraService creates a FloraService. The cache may be nil, in which
// case reads always go to the network.
func NewFloraService(client *apiclient.Client, cache *cache.Store, logger *slog.Logger) *FloraService {
	return &FloraService{client: client, cache: cache, logger: logger}
}

// List returns the full encyclopedia. On network failure a stale cached
// copy is served when one exists.
func (s *FloraService) List(ctx context.Context) ([]Plant, error) {
	var plants []Plant
	err := cachedGet(ctx, s.client, s.cache, s.logger, "/flora/", &plants)
	return plants, err
}

// Get returns a single plant by id, falling back to the cache offline.
func (s *FloraService) Get(ctx context.Context, id string) (*Plant, error) {
	var plant Plant
	path := "/flora/" + url.PathEscape(id) + "/"
	if err := cachedGet(ctx, s.client, s.cache, s.logger, path, &plant); err != nil {
		return nil, err
	}
	return &plant, nil
}

// Create adds a plant to the encyclopedia. Admin only.
func (s *FloraService) Create(ctx context.Context, in PlantInput) (*Plant, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	var plant Plant
	if err := s.client.Post(ctx, "/flora/", in, &plant); err != nil {
		return nil, err
	}
	return &plant, nil
}

// Update replaces a plant's fields. Admin only.
func (s *FloraService) Update(ctx context.Context, id string, in PlantInput) (*Plant, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	var plant Plant
	if err := s.client.Put(ctx, "/flora/"+url.PathEscape(id)+"/", in, &plant); err != nil {
		return nil, err
	}
	return &plant, nil
}

// Delete removes a plant from the encyclopedia. Admin only.
func (s *FloraService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/flora/"+url.PathEscape(id)+"/")
}

// cachedGet reads through the encyclopedia cache. A fresh cached copy is
// served without touching the network; otherwise the response is fetched
// and stored. A network failure falls back to the most recent cached copy
// regardless of age. API errors (non-2xx) never hit the fallback: the
// server answered, its answer stands.
func cachedGet(ctx context.Context, client *apiclient.Client, store *cache.Store, logger *slog.Logger, path string, result any) error {
	if store != nil {
		body, ok, cerr := store.Get(ctx, path)
		if cerr != nil {
			logger.Warn("cache read failed", "path", path, "error", cerr)
		} else if ok {
			return json.Unmarshal(body, result)
		}
	}

	raw := json.RawMessage{}
	err := client.Get(ctx, path, &raw)
	if err == nil {
		if store != nil {
			if cerr := store.Put(ctx, path, raw); cerr != nil {
				logger.Warn("caching response failed", "path", path, "error", cerr)
			}
		}
		return json.Unmarshal(raw, result)
	}

	if store == nil || !apiclient.IsNetworkError(err) {
		return err
	}

	body, ok, cerr := store.GetStale(ctx, path)
	if cerr != nil || !ok {
		return err
	}
	logger.Info("serving cached response, network unreachable", "path", path)
	if uerr := json.Unmarshal(body, result); uerr != nil {
		return fmt.Errorf("decode cached response: %w", uerr)
	}
	return nil
}
