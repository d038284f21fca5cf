package service

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/montanha-viva/mv-cli/internal/adapter/outbound/cache"
	"github.com/montanha-viva/mv-cli/internal/apiclient"
)

func openTestCache(t *testing.T, ttl time.Duration) *cache.Store {
	t.Helper()
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"), ttl, testLogger())
	if err != nil {
		t.Fatalf("cache.Open() returned unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestFloraListFetchesAndCaches(t *testing.T) {
	var calls atomic.Int64
	mux := http.NewServeMux()
	handleFunc(mux, "GET /flora/", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[{"id":"p1","scientific_name":"Lavandula stoechas","common_name":"rosmaninho"}]`))
	})

	client, _ := newTestClient(t, mux)
	c := openTestCache(t, time.Hour)
	svc := NewFloraService(client, c, testLogger())
	ctx := context.Background()

	plants, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() returned unexpected error: %v", err)
	}
	if len(plants) != 1 || plants[0].ScientificName != "Lavandula stoechas" {
		t.Fatalf("unexpected plants: %+v", plants)
	}

	// Second list within the TTL is served from the cache.
	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("second List() returned error: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 backend call, got %d", got)
	}
}

func TestFloraListFallsBackToStaleCacheOffline(t *testing.T) {
	mux := http.NewServeMux()
	handleFunc(mux, "GET /flora/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"p1","common_name":"rosmaninho"}]`))
	})

	// Negative TTL: every cached entry is immediately stale, so the second
	// read must go to the network and hit the dead server.
	client, _ := newTestClient(t, mux)
	c := openTestCache(t, -time.Second)
	svc := NewFloraService(client, c, testLogger())
	ctx := context.Background()

	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("warm-up List() returned error: %v", err)
	}

	offline, _ := newTestClientClosed(t)
	offlineSvc := NewFloraService(offline, c, testLogger())

	plants, err := offlineSvc.List(ctx)
	if err != nil {
		t.Fatalf("offline List() must serve the stale cache, got error: %v", err)
	}
	if len(plants) != 1 || plants[0].CommonName != "rosmaninho" {
		t.Errorf("unexpected cached plants: %+v", plants)
	}
}

func TestFloraListAPIErrorSkipsFallback(t *testing.T) {
	warm := http.NewServeMux()
	handleFunc(warm, "GET /flora/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	client, _ := newTestClient(t, warm)
	c := openTestCache(t, -time.Second)
	svc := NewFloraService(client, c, testLogger())
	ctx := context.Background()

	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("warm-up List() returned error: %v", err)
	}

	failing := http.NewServeMux()
	handleFunc(failing, "GET /flora/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"forbidden"}`, http.StatusForbidden)
	})
	failingClient, _ := newTestClient(t, failing)
	failingSvc := NewFloraService(failingClient, c, testLogger())

	_, err := failingSvc.List(ctx)
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected the 403 APIError to pass through, got %v", err)
	}
}

func TestFloraGetByID(t *testing.T) {
	mux := http.NewServeMux()
	handleFunc(mux, "GET /flora/p1/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"p1","scientific_name":"Cistus ladanifer"}`))
	})

	client, _ := newTestClient(t, mux)
	svc := NewFloraService(client, nil, testLogger())

	plant, err := svc.Get(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Get() returned unexpected error: %v", err)
	}
	if plant.ScientificName != "Cistus ladanifer" {
		t.Errorf("unexpected plant: %+v", plant)
	}
}

func TestFloraCreateValidatesInput(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for invalid input")
	}))
	svc := NewFloraService(client, nil, testLogger())

	_, err := svc.Create(context.Background(), PlantInput{CommonName: "rosmaninho"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for missing scientific name, got %v", err)
	}
}

func TestFloraNilCacheGoesStraightToNetwork(t *testing.T) {
	var calls atomic.Int64
	mux := http.NewServeMux()
	handleFunc(mux, "GET /flora/", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[]`))
	})

	client, _ := newTestClient(t, mux)
	svc := NewFloraService(client, nil, testLogger())
	ctx := context.Background()

	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("List() returned unexpected error: %v", err)
	}
	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("second List() returned error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 backend calls without a cache, got %d", got)
	}
}
