package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pauljones0/lotto-receipt-bot/internal/models"
)

// Tracker owns the in-memory state and writes it through to a Store after
// every change. The poll loop is its only writer; Snapshot may be called from
// other goroutines.
type Tracker struct {
	mu    sync.Mutex
	store Store
	state models.State
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store, state: models.State{}}
}

// Load replaces the in-memory state with the stored one.
func (t *Tracker) Load(ctx context.Context) error {
	state, err := t.store.Load(ctx)
	if err != nil {
		return err
	}
	if state == nil {
		state = models.State{}
	}
	t.mu.Lock()
	t.state = state
	t.mu.Unlock()
	return nil
}

// EnsureGames adds an empty record for every game that has none. Existing
// records are left untouched.
func (t *Tracker) EnsureGames(games []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, game := range games {
		if t.state[game] == nil {
			slog.Info("Adding state entry for game", "game", game)
			t.state[game] = &models.GameState{}
		}
	}
}

// Save writes the whole state to the store.
func (t *Tracker) Save(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.saveLocked(ctx)
}

func (t *Tracker) saveLocked(ctx context.Context) error {
	if err := t.store.Save(ctx, t.state); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// IsNewDraw reports whether result differs from the last printed draw of game.
// A game that was never printed always has a new draw.
func (t *Tracker) IsNewDraw(game string, result models.DrawResult) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	gs := t.state[game]
	if gs == nil || gs.LastPrintDate == nil {
		return true
	}
	return *gs.LastPrintDate != result.DrawDate
}

// RecordPrinted marks result as printed for game and saves immediately.
func (t *Tracker) RecordPrinted(ctx context.Context, game string, result models.DrawResult) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	gs := t.entry(game)
	drawDate := result.DrawDate
	gs.LastPrintDate = &drawDate
	return t.saveLocked(ctx)
}

// SetNextDrawDate updates the informational next draw timestamp of game. It is
// persisted by the next Save.
func (t *Tracker) SetNextDrawDate(game, drawDate string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	gs := t.entry(game)
	gs.NextDrawDate = &drawDate
}

// Snapshot returns a deep copy of the current state.
func (t *Tracker) Snapshot() models.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

func (t *Tracker) entry(game string) *models.GameState {
	gs := t.state[game]
	if gs == nil {
		gs = &models.GameState{}
		t.state[game] = gs
	}
	return gs
}
