package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pauljones0/lotto-receipt-bot/internal/models"
)

type mockLoop struct {
	triggers int
	state    models.State
}

func (m *mockLoop) Trigger() { m.triggers++ }

func (m *mockLoop) Snapshot() models.State { return m.state.Clone() }

func TestHealthHandler(t *testing.T) {
	srv := &Server{processor: &mockLoop{}}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"status":"ok"}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestCheckHandler(t *testing.T) {
	tests := []struct {
		method       string
		wantStatus   int
		wantTriggers int
	}{
		{http.MethodPost, http.StatusAccepted, 1},
		{http.MethodGet, http.StatusAccepted, 1},
		{http.MethodDelete, http.StatusMethodNotAllowed, 0},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			loop := &mockLoop{}
			srv := &Server{processor: loop}
			rec := httptest.NewRecorder()
			srv.Routes().ServeHTTP(rec, httptest.NewRequest(tt.method, "/check", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if loop.triggers != tt.wantTriggers {
				t.Errorf("triggers = %d, want %d", loop.triggers, tt.wantTriggers)
			}
		})
	}
}

func TestStateHandler(t *testing.T) {
	printed := "2024-01-01T20:00:00+00:00"
	loop := &mockLoop{state: models.State{
		"Lotto":     {LastPrintDate: &printed},
		"MiniLotto": {},
	}}
	srv := &Server{processor: loop}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var got map[string]map[string]*string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if v := got["Lotto"]["lastPrintDate"]; v == nil || *v != printed {
		t.Errorf("Lotto lastPrintDate = %v", v)
	}
	if _, ok := got["MiniLotto"]["nextDrawDate"]; !ok {
		t.Error("MiniLotto entry missing nextDrawDate key")
	}
	if v := got["MiniLotto"]["nextDrawDate"]; v != nil {
		t.Errorf("MiniLotto nextDrawDate = %v, want null", *v)
	}
}

func TestStateHandler_RejectsPost(t *testing.T) {
	srv := &Server{processor: &mockLoop{}}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/state", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
