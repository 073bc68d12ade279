package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pauljones0/lotto-receipt-bot/internal/models"
)

// Loop is the part of the poll loop the HTTP surface drives.
type Loop interface {
	Trigger()
	Snapshot() models.State
}

type Server struct {
	processor Loop
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.HealthHandler)
	mux.HandleFunc("/check", s.CheckHandler)
	mux.HandleFunc("/state", s.StateHandler)
	return mux
}

func (s *Server) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"status":"ok"}`)
}

// CheckHandler wakes the poll loop. The sweep itself runs on the loop's
// goroutine, so the response never waits for the API or the printer.
func (s *Server) CheckHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	slog.Info("Early check requested over HTTP", "remote", r.RemoteAddr)
	s.processor.Trigger()
	w.WriteHeader(http.StatusAccepted)
	fmt.Fprintln(w, "Check scheduled.")
}

func (s *Server) StateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.processor.Snapshot()); err != nil {
		slog.Error("Failed to encode state", "error", err)
	}
}
