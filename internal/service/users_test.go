package service

import (
	"context"
	"net/http"
	"testing"
)

func TestUsersAdminList(t *testing.T) {
	mux := http.NewServeMux()
	handleFunc(mux, "GET /users/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"u1","email":"ana@example.pt","role":"admin"},{"id":"u2","email":"rui@example.pt","role":"user"}]`))
	})

	client, _ := newTestClient(t, mux)
	svc := NewUserService(client)

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() returned unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if !users[0].IsAdmin() || users[1].IsAdmin() {
		t.Error("role mapping wrong in listing")
	}
}

func TestUsersGetAndDelete(t *testing.T) {
	deleted := false
	mux := http.NewServeMux()
	handleFunc(mux, "GET /users/u2/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"u2","email":"rui@example.pt"}`))
	})
	handleFunc(mux, "DELETE /users/u2/", func(w http.ResponseWriter, r *http.Request) {
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})

	client, _ := newTestClient(t, mux)
	svc := NewUserService(client)
	ctx := context.Background()

	user, err := svc.Get(ctx, "u2")
	if err != nil {
		t.Fatalf("Get() returned unexpected error: %v", err)
	}
	if user.Email != "rui@example.pt" {
		t.Errorf("unexpected user: %+v", user)
	}

	if err := svc.Delete(ctx, "u2"); err != nil {
		t.Fatalf("Delete() returned unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected DELETE to reach the backend")
	}
}
