package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestSubmitFeedback(t *testing.T) {
	var got FeedbackInput
	mux := http.NewServeMux()
	handleFunc(mux, "POST /feedback/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	})

	client, _ := newTestClient(t, mux)
	svc := NewFeedbackService(client)

	in := FeedbackInput{Subject: "Trilho PR2", Message: "Sinalização em falta no cruzamento.", Rating: 4}
	if err := svc.Submit(context.Background(), in); err != nil {
		t.Fatalf("Submit() returned unexpected error: %v", err)
	}
	if got != in {
		t.Errorf("backend received %+v, want %+v", got, in)
	}
}

func TestSubmitFeedbackValidation(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for invalid input")
	}))
	svc := NewFeedbackService(client)
	ctx := context.Background()

	cases := []struct {
		name string
		in   FeedbackInput
	}{
		{"missing subject", FeedbackInput{Message: "m", Rating: 3}},
		{"missing message", FeedbackInput{Subject: "s", Rating: 3}},
		{"rating too high", FeedbackInput{Subject: "s", Message: "m", Rating: 6}},
		{"subject too long", FeedbackInput{Subject: strings.Repeat("x", 201), Message: "m", Rating: 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := svc.Submit(ctx, tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestFeedbackAdminList(t *testing.T) {
	mux := http.NewServeMux()
	handleFunc(mux, "GET /feedback/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"f1","subject":"Trilho PR2","message":"ok","rating":4,"created_at":"2026-08-30T09:00:00Z"}]`))
	})

	client, _ := newTestClient(t, mux)
	svc := NewFeedbackService(client)

	entries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() returned unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Rating != 4 {
		t.Errorf("unexpected entries: %+v", entries)
	}
}
