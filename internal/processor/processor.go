package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pauljones0/lotto-receipt-bot/internal/config"
	"github.com/pauljones0/lotto-receipt-bot/internal/lotto"
	"github.com/pauljones0/lotto-receipt-bot/internal/models"
	"github.com/pauljones0/lotto-receipt-bot/internal/receipt"
	"github.com/pauljones0/lotto-receipt-bot/internal/storage"
)

// outcome is where one game ends up within a sweep.
type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeAlreadyPrinted
	outcomePrinted
)

type DrawProcessor struct {
	fetcher  ResultFetcher
	printer  ReceiptPrinter
	mirror   ReceiptMirror
	tracker  *storage.Tracker
	games    []string
	interval time.Duration
	wake     chan struct{}
}

func New(fetcher ResultFetcher, printer ReceiptPrinter, mirror ReceiptMirror, tracker *storage.Tracker, cfg *config.Config) *DrawProcessor {
	return &DrawProcessor{
		fetcher:  fetcher,
		printer:  printer,
		mirror:   mirror,
		tracker:  tracker,
		games:    append([]string(nil), cfg.Games...),
		interval: cfg.PollInterval,
		wake:     make(chan struct{}, 1),
	}
}

// Init loads the persisted state, adds entries for configured games that have
// none and writes the result back.
func (p *DrawProcessor) Init(ctx context.Context) error {
	slog.Info("Reading last printed state")
	if err := p.tracker.Load(ctx); err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	p.tracker.EnsureGames(p.games)
	return p.tracker.Save(ctx)
}

// Run initializes the state and then sweeps all games forever, sleeping the
// poll interval between sweeps. A sweep is never interrupted: cancelling ctx
// ends the loop at the next sleep and Run returns nil. Any non-transient
// error ends the loop and is returned.
func (p *DrawProcessor) Run(ctx context.Context) error {
	sweepCtx := context.WithoutCancel(ctx)
	if err := p.Init(sweepCtx); err != nil {
		return err
	}

	for {
		if err := p.RunSweep(sweepCtx); err != nil {
			return err
		}

		slog.Info("Sleeping until next sweep", "interval", p.interval)
		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("Poll loop stopped")
			return nil
		case <-p.wake:
			timer.Stop()
			slog.Info("Early check requested")
		case <-timer.C:
		}
	}
}

// Trigger asks a sleeping Run loop to start the next sweep now.
func (p *DrawProcessor) Trigger() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Snapshot returns a copy of the persisted state.
func (p *DrawProcessor) Snapshot() models.State {
	return p.tracker.Snapshot()
}

// RunSweep checks every configured game once, in order. Games whose results
// are missing, not ready or unreachable are skipped until the next sweep.
// Any other error stops the sweep and is returned.
func (p *DrawProcessor) RunSweep(ctx context.Context) error {
	logger := slog.With("sweep", uuid.NewString())
	logger.Info("Starting sweep", "games", p.games)

	var printed, already, skipped int
	for _, game := range p.games {
		out, err := p.checkGame(ctx, logger.With("game", game), game)
		if err != nil {
			logger.Error("Unrecoverable error, stopping", "game", game, "error", err)
			return fmt.Errorf("game %s: %w", game, err)
		}
		switch out {
		case outcomePrinted:
			printed++
		case outcomeAlreadyPrinted:
			already++
		default:
			skipped++
		}
	}

	logger.Info("Finished sweep", "printed", printed, "already_printed", already, "skipped", skipped)
	return nil
}

func (p *DrawProcessor) checkGame(ctx context.Context, logger *slog.Logger, game string) (outcome, error) {
	result, err := p.fetcher.LatestResult(ctx, game)
	if err != nil {
		var transportErr *lotto.TransportError
		switch {
		case errors.Is(err, lotto.ErrDrawNotReady):
			logger.Warn("Draw prizes not ready yet, will retry next sweep", "error", err)
			return outcomeSkipped, nil
		case errors.Is(err, lotto.ErrNoResults):
			logger.Warn("No results, will retry next sweep", "error", err)
			return outcomeSkipped, nil
		case errors.As(err, &transportErr):
			logger.Warn("HTTP error, will retry next sweep", "error", err)
			return outcomeSkipped, nil
		}
		return outcomeSkipped, err
	}

	if !p.tracker.IsNewDraw(game, *result) {
		logger.Info("Already printed", "draw_date", result.DrawDate)
		return outcomeAlreadyPrinted, nil
	}

	text, err := receipt.Format(*result)
	if err != nil {
		return outcomeSkipped, err
	}

	logger.Info("Printing new draw", "draw_date", result.DrawDate, "draw_system_id", result.DrawSystemID)
	if err := p.printer.Print(ctx, text); err != nil {
		return outcomeSkipped, fmt.Errorf("print failed: %w", err)
	}

	if err := p.tracker.RecordPrinted(ctx, game, *result); err != nil {
		return outcomeSkipped, err
	}
	p.refreshNextDrawDate(ctx, logger, game)

	if p.mirror != nil {
		if err := p.mirror.Send(ctx, game, text); err != nil {
			logger.Warn("Failed to mirror receipt", "error", err)
		}
	}
	return outcomePrinted, nil
}

// refreshNextDrawDate stores the next draw time for game. It runs after the
// print has been recorded and is informational only, so failures are logged
// and ignored.
func (p *DrawProcessor) refreshNextDrawDate(ctx context.Context, logger *slog.Logger, game string) {
	next, err := p.fetcher.NextDrawDate(ctx, game)
	if err != nil {
		logger.Warn("Failed to fetch next draw date", "error", err)
		return
	}
	p.tracker.SetNextDrawDate(game, next)
	if err := p.tracker.Save(ctx); err != nil {
		logger.Warn("Failed to save next draw date", "error", err)
	}
}
