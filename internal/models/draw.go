package models

import (
	"fmt"
	"time"
)

// DrawResult is the normalized outcome of one game's latest draw.
type DrawResult struct {
	GameType       string `validate:"required"`
	DrawDate       string `validate:"required"` // Verbatim API timestamp, the dedup key
	DrawSystemID   int64
	Numbers        []int `validate:"required,min=1"`
	SpecialNumbers []int
	Prizes         map[int]PrizeTier `validate:"required"`
}

// PrizeTier holds the winner count and payout for one tier rank.
type PrizeTier struct {
	Winners int64   `json:"prize" firestore:"prize"`
	Value   float64 `json:"prizeValue" firestore:"prizeValue"`
}

// drawDateLayouts are tried in order. Offset-less timestamps are read as UTC.
var drawDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// DrawTime parses DrawDate.
func (r DrawResult) DrawTime() (time.Time, error) {
	for _, layout := range drawDateLayouts {
		if t, err := time.Parse(layout, r.DrawDate); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable draw date %q", r.DrawDate)
}

// GameState is the persisted record for one game.
type GameState struct {
	NextDrawDate  *string `json:"nextDrawDate" firestore:"nextDrawDate"`
	LastPrintDate *string `json:"lastPrintDate" firestore:"lastPrintDate"`
}

// State maps a game identifier to its persisted record.
type State map[string]*GameState

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := make(State, len(s))
	for game, gs := range s {
		if gs == nil {
			out[game] = nil
			continue
		}
		c := &GameState{}
		if gs.NextDrawDate != nil {
			v := *gs.NextDrawDate
			c.NextDrawDate = &v
		}
		if gs.LastPrintDate != nil {
			v := *gs.LastPrintDate
			c.LastPrintDate = &v
		}
		out[game] = c
	}
	return out
}
