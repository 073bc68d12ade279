package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/pauljones0/lotto-receipt-bot/internal/models"
)

type memStore struct {
	state     models.State
	saveCount int
	saveErr   error
	loadErr   error
}

func (m *memStore) Load(_ context.Context) (models.State, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.state.Clone(), nil
}

func (m *memStore) Save(_ context.Context, state models.State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saveCount++
	m.state = state.Clone()
	return nil
}

func result(drawDate string) models.DrawResult {
	return models.DrawResult{GameType: "Lotto", DrawDate: drawDate}
}

func TestTracker_IsNewDraw(t *testing.T) {
	tests := []struct {
		name     string
		state    models.State
		drawDate string
		want     bool
	}{
		{"game missing", models.State{}, "2024-01-01T20:00:00+00:00", true},
		{"never printed", models.State{"Lotto": {}}, "2024-01-01T20:00:00+00:00", true},
		{"same draw", models.State{"Lotto": {LastPrintDate: strPtr("2024-01-01T20:00:00+00:00")}}, "2024-01-01T20:00:00+00:00", false},
		{"newer draw", models.State{"Lotto": {LastPrintDate: strPtr("2024-01-01T20:00:00+00:00")}}, "2024-01-04T20:00:00+00:00", true},
		{"older draw is still different", models.State{"Lotto": {LastPrintDate: strPtr("2024-01-04T20:00:00+00:00")}}, "2024-01-01T20:00:00+00:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewTracker(&memStore{state: tt.state})
			if err := tracker.Load(context.Background()); err != nil {
				t.Fatal(err)
			}
			if got := tracker.IsNewDraw("Lotto", result(tt.drawDate)); got != tt.want {
				t.Errorf("IsNewDraw() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTracker_RecordPrinted(t *testing.T) {
	ctx := context.Background()
	store := &memStore{state: models.State{"Lotto": {}}}
	tracker := NewTracker(store)
	if err := tracker.Load(ctx); err != nil {
		t.Fatal(err)
	}

	r := result("2024-01-01T20:00:00+00:00")
	if !tracker.IsNewDraw("Lotto", r) {
		t.Fatal("Expected a never-printed game to have a new draw")
	}
	if err := tracker.RecordPrinted(ctx, "Lotto", r); err != nil {
		t.Fatalf("RecordPrinted() error = %v", err)
	}

	if store.saveCount != 1 {
		t.Errorf("Expected RecordPrinted to save once, got %d saves", store.saveCount)
	}
	if got := store.state["Lotto"].LastPrintDate; got == nil || *got != "2024-01-01T20:00:00+00:00" {
		t.Errorf("Stored lastPrintDate = %v", got)
	}
	if tracker.IsNewDraw("Lotto", r) {
		t.Error("Draw should not be new after it was recorded")
	}

	// Recording the same result again changes nothing observable.
	if err := tracker.RecordPrinted(ctx, "Lotto", r); err != nil {
		t.Fatal(err)
	}
	if tracker.IsNewDraw("Lotto", r) {
		t.Error("Draw should not be new after recording twice")
	}
	if got := *store.state["Lotto"].LastPrintDate; got != "2024-01-01T20:00:00+00:00" {
		t.Errorf("Stored lastPrintDate = %q after second record", got)
	}
}

func TestTracker_RecordPrintedSaveError(t *testing.T) {
	store := &memStore{state: models.State{}, saveErr: errors.New("disk full")}
	tracker := NewTracker(store)

	if err := tracker.RecordPrinted(context.Background(), "Lotto", result("2024-01-01T20:00:00Z")); err == nil {
		t.Fatal("RecordPrinted() should surface the store error")
	}
}

func TestTracker_EnsureGamesKeepsExisting(t *testing.T) {
	ctx := context.Background()
	store := &memStore{state: models.State{
		"Lotto": {LastPrintDate: strPtr("2024-01-01T20:00:00+00:00"), NextDrawDate: strPtr("2024-01-04T20:00:00Z")},
	}}
	tracker := NewTracker(store)
	if err := tracker.Load(ctx); err != nil {
		t.Fatal(err)
	}

	tracker.EnsureGames([]string{"Lotto", "MiniLotto"})

	snap := tracker.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Expected 2 games, got %d", len(snap))
	}
	if snap["Lotto"].LastPrintDate == nil || *snap["Lotto"].LastPrintDate != "2024-01-01T20:00:00+00:00" {
		t.Error("EnsureGames overwrote an existing lastPrintDate")
	}
	if snap["Lotto"].NextDrawDate == nil || *snap["Lotto"].NextDrawDate != "2024-01-04T20:00:00Z" {
		t.Error("EnsureGames overwrote an existing nextDrawDate")
	}
	if snap["MiniLotto"] == nil || snap["MiniLotto"].LastPrintDate != nil || snap["MiniLotto"].NextDrawDate != nil {
		t.Errorf("Expected an empty MiniLotto entry, got %+v", snap["MiniLotto"])
	}
	if store.saveCount != 0 {
		t.Error("EnsureGames must not save on its own")
	}
}

func TestTracker_LoadError(t *testing.T) {
	tracker := NewTracker(&memStore{loadErr: errors.New("permission denied")})
	if err := tracker.Load(context.Background()); err == nil {
		t.Error("Load() should surface the store error")
	}
}

func TestTracker_SnapshotIsACopy(t *testing.T) {
	tracker := NewTracker(&memStore{state: models.State{}})
	tracker.EnsureGames([]string{"Lotto"})

	snap := tracker.Snapshot()
	snap["Lotto"].LastPrintDate = strPtr("tampered")

	if !tracker.IsNewDraw("Lotto", result("tampered")) {
		t.Error("Mutating a snapshot leaked into the tracker")
	}
}

func TestTracker_SetNextDrawDate(t *testing.T) {
	ctx := context.Background()
	store := &memStore{state: models.State{}}
	tracker := NewTracker(store)

	tracker.SetNextDrawDate("Lotto", "2024-01-04T20:00:00Z")
	if store.saveCount != 0 {
		t.Error("SetNextDrawDate must not save on its own")
	}
	if err := tracker.RecordPrinted(ctx, "Lotto", result("2024-01-01T20:00:00Z")); err != nil {
		t.Fatal(err)
	}
	if got := store.state["Lotto"].NextDrawDate; got == nil || *got != "2024-01-04T20:00:00Z" {
		t.Errorf("Stored nextDrawDate = %v", got)
	}
}
