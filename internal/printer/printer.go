// Package printer sends receipt text to an ESC/POS receipt printer.
package printer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pauljones0/lotto-receipt-bot/internal/config"
	"github.com/pauljones0/lotto-receipt-bot/internal/util"
)

// Printer prints one block of text per call.
type Printer interface {
	Print(ctx context.Context, text string) error
	Close() error
}

// Open acquires the printer described by cfg. A configured device path takes
// precedence over USB discovery. The result retries failed prints
// cfg.PrinterRetries times.
func Open(cfg *config.Config) (Printer, error) {
	profile, err := LookupProfile(cfg.PrinterProfile)
	if err != nil {
		return nil, err
	}

	var p Printer
	if cfg.PrinterDevice != "" {
		slog.Info("Using printer device file", "path", cfg.PrinterDevice, "profile", profile.Name)
		p = NewDevice(cfg.PrinterDevice, profile)
	} else {
		slog.Info("Opening USB printer", "vendor", fmt.Sprintf("%04x", cfg.PrinterVendorID), "product", fmt.Sprintf("%04x", cfg.PrinterProductID), "profile", profile.Name)
		p, err = OpenUSB(USBOptions{
			VendorID:  cfg.PrinterVendorID,
			ProductID: cfg.PrinterProductID,
			Endpoint:  cfg.PrinterEndpoint,
			Timeout:   cfg.PrinterTimeout,
			Profile:   profile,
		})
		if err != nil {
			return nil, err
		}
	}
	return NewRetrying(p, cfg.PrinterRetries, time.Second), nil
}

// Retrying retries failed prints with exponential backoff.
type Retrying struct {
	next       Printer
	maxRetries int
	backoff    time.Duration
}

func NewRetrying(next Printer, maxRetries int, backoff time.Duration) *Retrying {
	return &Retrying{next: next, maxRetries: maxRetries, backoff: backoff}
}

func (r *Retrying) Print(ctx context.Context, text string) error {
	return util.RetryWithBackoff(ctx, r.maxRetries, r.backoff, func(attempt int) error {
		if attempt > 0 {
			slog.Warn("Retrying print", "attempt", attempt+1, "max_attempts", r.maxRetries+1)
		}
		slog.Info("Trying to print...")
		if err := r.next.Print(ctx, text); err != nil {
			slog.Warn("Print failed", "attempt", attempt+1, "error", err)
			return err
		}
		slog.Info("Print success")
		return nil
	})
}

func (r *Retrying) Close() error {
	return r.next.Close()
}
