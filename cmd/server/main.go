package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pauljones0/lotto-receipt-bot/internal/config"
	"github.com/pauljones0/lotto-receipt-bot/internal/lotto"
	"github.com/pauljones0/lotto-receipt-bot/internal/notifier"
	"github.com/pauljones0/lotto-receipt-bot/internal/printer"
	"github.com/pauljones0/lotto-receipt-bot/internal/processor"
	"github.com/pauljones0/lotto-receipt-bot/internal/receipt"
	"github.com/pauljones0/lotto-receipt-bot/internal/storage"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("Fatal error, exiting", "error", err)
		os.Exit(1)
	}
	slog.Info("Bot stopped.")
}

// run owns every resource of the process. It returns only after they have
// been released, so main can exit with a status code.
func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("Starting lotto receipt bot", "games", cfg.Games, "state_backend", cfg.StateBackend)

	for _, game := range cfg.Games {
		if !receipt.Supported(game) {
			return fmt.Errorf("%w: %q (supported: %s)", receipt.ErrUnsupportedGame, game, strings.Join(receipt.Games(), ", "))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	prn, err := printer.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening printer: %w", err)
	}
	defer func() {
		if err := prn.Close(); err != nil {
			slog.Error("Failed to release printer", "error", err)
		}
	}()

	p := processor.New(lotto.New(cfg), prn, notifier.New(cfg.DiscordWebhookURL), storage.NewTracker(store), cfg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.Run(gctx)
	})

	if cfg.HTTPEnabled() {
		srv := &Server{processor: p}
		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      srv.Routes(),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		g.Go(func() error {
			slog.Info("Listening on port", "port", cfg.Port)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			slog.Info("Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("HTTP server shutdown error", "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// openStore selects the state backend. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.StateBackend {
	case config.StateBackendFirestore:
		fs, err := storage.NewFirestoreStore(ctx, cfg.ProjectID, cfg.FirestoreCredsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing Firestore client: %w", err)
		}
		return fs, func() {
			if err := fs.Close(); err != nil {
				slog.Error("Failed to close Firestore client", "error", err)
			}
		}, nil
	default:
		slog.Info("Using state file", "path", cfg.StateFile)
		return storage.NewFileStore(cfg.StateFile), func() {}, nil
	}
}
