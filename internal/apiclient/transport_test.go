package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/goleak"

	"github.com/montanha-viva/mv-cli/internal/domain/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memPersister is an in-memory session.Persister for tests.
type memPersister struct {
	mu   sync.Mutex
	snap session.Snapshot
}

func (p *memPersister) Load() (session.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap, nil
}

func (p *memPersister) Save(s session.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap = s
	return nil
}

func newTestStore(t *testing.T, access, refresh string) *session.Store {
	t.Helper()
	store, err := session.NewStore(&memPersister{snap: session.Snapshot{
		Authenticated: refresh != "",
		RefreshToken:  refresh,
	}}, testLogger())
	if err != nil {
		t.Fatalf("NewStore() returned unexpected error: %v", err)
	}
	if access != "" {
		store.SetAccessToken(access)
	}
	return store
}

// testBackend simulates the API plus the token refresh endpoint.
type testBackend struct {
	// apiHandler serves every path except /token/refresh/.
	apiHandler http.HandlerFunc
	// refreshCalls counts POSTs to /token/refresh/.
	refreshCalls atomic.Int64
	// refreshStatus is the status the refresh endpoint answers with.
	refreshStatus int
	// refreshAccess is the access token a successful refresh issues.
	refreshAccess string
	// lastRefreshBody captures the most recent refresh request body.
	lastRefreshBody atomic.Value
}

func (b *testBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token/refresh/" {
			b.refreshCalls.Add(1)
			body, _ := io.ReadAll(r.Body)
			b.lastRefreshBody.Store(string(body))
			if b.refreshStatus != 0 && b.refreshStatus != http.StatusOK {
				http.Error(w, `{"detail":"refresh token invalid"}`, b.refreshStatus)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"access": b.refreshAccess})
			return
		}
		b.apiHandler(w, r)
	}
}

func newTestClient(t *testing.T, backend *testBackend, store *session.Store) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	tr := &http.Transport{}
	t.Cleanup(tr.CloseIdleConnections)
	client := New(server.URL, store,
		WithHTTPClient(&http.Client{Transport: tr}),
		WithLogger(testLogger()),
	)
	return client, server
}

// ---------------------------------------------------------------------------
// Token attachment
// ---------------------------------------------------------------------------

func TestBearerHeaderAttachedWhenTokenPresent(t *testing.T) {
	var gotAuth atomic.Value
	backend := &testBackend{apiHandler: func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}}
	store := newTestStore(t, "T", "R")
	client, _ := newTestClient(t, backend, store)

	if err := client.Get(context.Background(), "/flora/", nil); err != nil {
		t.Fatalf("Get() returned unexpected error: %v", err)
	}
	if auth := gotAuth.Load(); auth != "Bearer T" {
		t.Errorf("expected 'Bearer T' auth header, got %q", auth)
	}
}

func TestNoBearerHeaderWithoutToken(t *testing.T) {
	var gotAuth atomic.Value
	backend := &testBackend{apiHandler: func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}}
	store := newTestStore(t, "", "")
	client, _ := newTestClient(t, backend, store)

	if err := client.Get(context.Background(), "/flora/", nil); err != nil {
		t.Fatalf("Get() returned unexpected error: %v", err)
	}
	if auth := gotAuth.Load(); auth != "" {
		t.Errorf("expected no auth header, got %q", auth)
	}
}

// ---------------------------------------------------------------------------
// Refresh-and-retry
// ---------------------------------------------------------------------------

func TestSuccessfulRefreshIsTransparent(t *testing.T) {
	var apiCalls atomic.Int64
	backend := &testBackend{
		refreshAccess: "fresh-token",
		apiHandler: func(w http.ResponseWriter, r *http.Request) {
			if apiCalls.Add(1) == 1 {
				http.Error(w, `{"detail":"token expired"}`, http.StatusUnauthorized)
				return
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer fresh-token" {
				t.Errorf("retry carried auth header %q, want refreshed token", auth)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		},
	}
	store := newTestStore(t, "stale-token", "refresh-token")
	client, _ := newTestClient(t, backend, store)

	var result map[string]string
	if err := client.Get(context.Background(), "/stations/", &result); err != nil {
		t.Fatalf("expected transparent recovery, got error: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("expected retried response, got %v", result)
	}
	if got := store.AccessToken(); got != "fresh-token" {
		t.Errorf("expected store access token 'fresh-token', got %q", got)
	}
	if n := backend.refreshCalls.Load(); n != 1 {
		t.Errorf("expected 1 refresh call, got %d", n)
	}
	if n := apiCalls.Load(); n != 2 {
		t.Errorf("expected 2 API calls (original + retry), got %d", n)
	}
	if body, _ := backend.lastRefreshBody.Load().(string); body != `{"refresh":"refresh-token"}` {
		t.Errorf("unexpected refresh request body: %s", body)
	}
}

func TestRetryCappedAtOne(t *testing.T) {
	// The refresh succeeds but issues a token the API still rejects:
	// the caller must see the second 401, and no second refresh happens.
	var apiCalls atomic.Int64
	backend := &testBackend{
		refreshAccess: "still-expired",
		apiHandler: func(w http.ResponseWriter, r *http.Request) {
			apiCalls.Add(1)
			http.Error(w, `{"detail":"token expired"}`, http.StatusUnauthorized)
		},
	}
	store := newTestStore(t, "stale", "refresh-token")
	client, _ := newTestClient(t, backend, store)

	err := client.Get(context.Background(), "/stations/", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v (%T)", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 to surface, got %d", apiErr.StatusCode)
	}
	if n := backend.refreshCalls.Load(); n != 1 {
		t.Errorf("expected exactly 1 refresh call, got %d", n)
	}
	if n := apiCalls.Load(); n != 2 {
		t.Errorf("expected exactly 2 API calls, got %d", n)
	}
}

func TestMissingRefreshTokenShortCircuits(t *testing.T) {
	backend := &testBackend{apiHandler: func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"token expired"}`, http.StatusUnauthorized)
	}}
	store := newTestStore(t, "stale", "")
	client, _ := newTestClient(t, backend, store)

	err := client.Get(context.Background(), "/stations/", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected the original 401 as *APIError, got %v (%T)", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", apiErr.StatusCode)
	}
	if n := backend.refreshCalls.Load(); n != 0 {
		t.Errorf("expected no refresh call, got %d", n)
	}
	if store.IsAuthenticated() || store.AccessToken() != "" {
		t.Error("expected session to be cleared")
	}
}

func TestRefreshFailureClearsSession(t *testing.T) {
	backend := &testBackend{
		refreshStatus: http.StatusUnauthorized,
		apiHandler: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"detail":"token expired"}`, http.StatusUnauthorized)
		},
	}
	store := newTestStore(t, "stale", "expired-refresh")
	if err := store.SetUser(&session.User{ID: "u1", Email: "ana@example.pt"}); err != nil {
		t.Fatalf("SetUser() returned unexpected error: %v", err)
	}
	client, _ := newTestClient(t, backend, store)

	err := client.Get(context.Background(), "/stations/", nil)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	var expiredErr *SessionExpiredError
	if !errors.As(err, &expiredErr) {
		t.Fatalf("expected *SessionExpiredError, got %T", err)
	}

	if store.AccessToken() != "" || store.RefreshToken() != "" {
		t.Error("expected tokens to be cleared")
	}
	if store.User() != nil {
		t.Error("expected user to be cleared")
	}
	if store.IsAuthenticated() {
		t.Error("expected authenticated=false")
	}
}

func TestNonAuthErrorsPropagatedVerbatim(t *testing.T) {
	backend := &testBackend{apiHandler: func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	}}
	store := newTestStore(t, "T", "R")
	client, _ := newTestClient(t, backend, store)

	err := client.Get(context.Background(), "/stations/", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v (%T)", err, err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", apiErr.StatusCode)
	}
	if n := backend.refreshCalls.Load(); n != 0 {
		t.Errorf("expected no refresh call for a 500, got %d", n)
	}
	if store.RefreshToken() != "R" {
		t.Error("expected session untouched by a non-auth error")
	}
}

func TestRequestBodyReplayedOnRetry(t *testing.T) {
	var bodies [][]byte
	var mu sync.Mutex
	var apiCalls atomic.Int64
	backend := &testBackend{
		refreshAccess: "fresh",
		apiHandler: func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			bodies = append(bodies, body)
			mu.Unlock()
			if apiCalls.Add(1) == 1 {
				http.Error(w, `{"detail":"token expired"}`, http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusCreated)
		},
	}
	store := newTestStore(t, "stale", "refresh-token")
	client, _ := newTestClient(t, backend, store)

	payload := map[string]string{"code": "MV-TRAIL-042"}
	if err := client.Post(context.Background(), "/qr/scan/", payload, nil); err != nil {
		t.Fatalf("Post() returned unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(bodies) != 2 {
		t.Fatalf("expected 2 request bodies, got %d", len(bodies))
	}
	if string(bodies[0]) != string(bodies[1]) {
		t.Errorf("retry body %s differs from original %s", bodies[1], bodies[0])
	}
}

// ---------------------------------------------------------------------------
// Concurrent refresh coalescing
// ---------------------------------------------------------------------------

func TestConcurrent401sCoalesceIntoOneRefresh(t *testing.T) {
	const workers = 8

	var release sync.WaitGroup
	release.Add(1)
	backend := &testBackend{
		refreshAccess: "fresh",
		apiHandler: func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "Bearer fresh" {
				w.WriteHeader(http.StatusOK)
				return
			}
			// Hold every stale request until all workers are in flight so
			// their 401s land concurrently.
			release.Wait()
			http.Error(w, `{"detail":"token expired"}`, http.StatusUnauthorized)
		},
	}
	store := newTestStore(t, "stale", "refresh-token")
	client, _ := newTestClient(t, backend, store)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = client.Get(context.Background(), "/stations/", nil)
		}(i)
	}
	release.Done()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("worker %d: unexpected error: %v", i, err)
		}
	}
	if n := backend.refreshCalls.Load(); n != 1 {
		t.Errorf("expected concurrent 401s to coalesce into 1 refresh, got %d", n)
	}
}
