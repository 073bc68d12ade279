package processor

import (
	"context"

	"github.com/pauljones0/lotto-receipt-bot/internal/models"
)

// ResultFetcher abstracts the lottery results API.
type ResultFetcher interface {
	LatestResult(ctx context.Context, game string) (*models.DrawResult, error)
	NextDrawDate(ctx context.Context, game string) (string, error)
}

// ReceiptPrinter abstracts the receipt printer.
type ReceiptPrinter interface {
	Print(ctx context.Context, text string) error
}

// ReceiptMirror abstracts the optional copy of each printed receipt.
type ReceiptMirror interface {
	Send(ctx context.Context, game, receipt string) error
}
