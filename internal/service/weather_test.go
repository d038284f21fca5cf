package service

import (
	"context"
	"net/http"
	"testing"
)

func TestWeatherCurrentAggregate(t *testing.T) {
	mux := http.NewServeMux()
	handleFunc(mux, "GET /weather/current/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("expected no query string for the aggregate, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"temperature_c":21.5,"humidity_pct":40,"wind_speed_kmh":12,"precipitation_mm":0,"condition":"clear","observed_at":"2026-08-31T10:00:00Z"}`))
	})

	client, _ := newTestClient(t, mux)
	svc := NewWeatherService(client)

	w, err := svc.Current(context.Background(), "")
	if err != nil {
		t.Fatalf("Current() returned unexpected error: %v", err)
	}
	if w.Temperature != 21.5 || w.Condition != "clear" {
		t.Errorf("unexpected weather: %+v", w)
	}
}

func TestWeatherCurrentForStation(t *testing.T) {
	mux := http.NewServeMux()
	handleFunc(mux, "GET /weather/current/", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("station"); got != "s1" {
			t.Errorf("station = %q, want 's1'", got)
		}
		_, _ = w.Write([]byte(`{"station_id":"s1","temperature_c":17.2,"condition":"fog","observed_at":"2026-08-31T10:00:00Z"}`))
	})

	client, _ := newTestClient(t, mux)
	svc := NewWeatherService(client)

	w, err := svc.Current(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Current() returned unexpected error: %v", err)
	}
	if w.StationID != "s1" || w.Condition != "fog" {
		t.Errorf("unexpected weather: %+v", w)
	}
}
