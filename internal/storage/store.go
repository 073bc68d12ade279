// Package storage persists the per-game "last printed" state.
package storage

import (
	"context"

	"github.com/pauljones0/lotto-receipt-bot/internal/models"
)

// Store loads and saves the whole state mapping. Save overwrites whatever was
// stored before.
type Store interface {
	Load(ctx context.Context) (models.State, error)
	Save(ctx context.Context, state models.State) error
}
