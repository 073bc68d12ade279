package lotto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/pauljones0/lotto-receipt-bot/internal/config"
	"github.com/pauljones0/lotto-receipt-bot/internal/models"
	"github.com/pauljones0/lotto-receipt-bot/internal/util"
	"github.com/pauljones0/lotto-receipt-bot/internal/validator"
)

const maxErrorBody = 1024

type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	validate    *validator.Validator
	baseURL     string
	apiKey      string
	userAgent   string
}

func New(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.APIRateLimit), 1),
		validate:    validator.New(),
		baseURL:     cfg.APIBaseURL,
		apiKey:      cfg.APIKey,
		userAgent:   cfg.UserAgent,
	}
}

// LatestResult queries the latest draw numbers for game and then the prize
// table of that draw, merging both into one DrawResult.
func (c *Client) LatestResult(ctx context.Context, game string) (*models.DrawResult, error) {
	resultsURL := fmt.Sprintf("%s/lotteries/draw-results/last-results-per-game?gameType=%s", c.baseURL, url.QueryEscape(game))
	var entries []lastResultEntry
	if err := c.getJSON(ctx, "last results", resultsURL, &entries); err != nil {
		return nil, err
	}

	latest, err := firstForGame(entries, game, func(e lastResultEntry) string { return e.GameType })
	if err != nil {
		return nil, fmt.Errorf("last results for %s: %w", game, err)
	}
	if latest.DrawSystemID == nil {
		return nil, fmt.Errorf("last results for %s (draw %s): %w", game, latest.DrawDate, ErrDrawNotReady)
	}
	if err := c.validate.ValidateStruct(latest); err != nil {
		return nil, fmt.Errorf("malformed last results for %s: %w", game, err)
	}

	prizesURL := fmt.Sprintf("%s/lotteries/draw-prizes/%s/%d", c.baseURL, url.PathEscape(game), *latest.DrawSystemID)
	var prizeEntries []prizeEntry
	if err := c.getJSON(ctx, "draw prizes", prizesURL, &prizeEntries); err != nil {
		return nil, err
	}

	prizes, err := firstForGame(prizeEntries, game, func(e prizeEntry) string { return e.GameType })
	if err != nil {
		return nil, fmt.Errorf("draw prizes for %s/%d: %w", game, *latest.DrawSystemID, err)
	}
	if err := c.validate.ValidateStruct(prizes); err != nil {
		return nil, fmt.Errorf("malformed draw prizes for %s: %w", game, err)
	}

	result, err := merge(latest, prizes)
	if err != nil {
		return nil, fmt.Errorf("draw prizes for %s/%d: %w", game, *latest.DrawSystemID, err)
	}
	return result, nil
}

// NextDrawDate returns the timestamp of the next scheduled draw for game.
func (c *Client) NextDrawDate(ctx context.Context, game string) (string, error) {
	infoURL := fmt.Sprintf("%s/lotteries/info?gameType=%s", c.baseURL, url.QueryEscape(game))
	var entries []infoEntry
	if err := c.getJSON(ctx, "lottery info", infoURL, &entries); err != nil {
		return "", err
	}
	info, err := firstForGame(entries, game, func(e infoEntry) string { return e.GameType })
	if err != nil {
		return "", fmt.Errorf("lottery info for %s: %w", game, err)
	}
	if info.DrawDate == "" {
		return "", fmt.Errorf("lottery info for %s: %w", game, ErrNoResults)
	}
	return info.DrawDate, nil
}

func merge(latest *lastResultEntry, prizes *prizeEntry) (*models.DrawResult, error) {
	tiers := make(map[int]models.PrizeTier, len(prizes.Prizes))
	for key, tier := range prizes.Prizes {
		rank, err := util.ParseTierRank(key)
		if err != nil {
			return nil, err
		}
		tiers[rank] = tier
	}

	detail := latest.Results[0]
	return &models.DrawResult{
		GameType:       prizes.GameType,
		DrawDate:       prizes.DrawDate,
		DrawSystemID:   prizes.DrawSystemID,
		Numbers:        detail.ResultsJSON,
		SpecialNumbers: detail.SpecialResults,
		Prizes:         tiers,
	}, nil
}

// firstForGame returns the first entry whose game type equals game.
func firstForGame[T any](entries []T, game string, gameType func(T) string) (*T, error) {
	if len(entries) == 0 {
		return nil, ErrNoResults
	}
	var found *T
	matches := 0
	for i := range entries {
		if gameType(entries[i]) != game {
			continue
		}
		matches++
		if found == nil {
			found = &entries[i]
		}
	}
	if found == nil {
		return nil, ErrNoResults
	}
	if matches > 1 {
		slog.Warn("API returned several entries for game, using the first", "game", game, "matches", matches)
	}
	return found, nil
}

func (c *Client) getJSON(ctx context.Context, op, urlStr string, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return &TransportError{Op: op, URL: urlStr, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for URL %s: %w", urlStr, err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("secret", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, URL: urlStr, Err: err}
	}
	defer res.Body.Close()
	slog.Debug("API request done", "op", op, "status", res.StatusCode, "elapsed", time.Since(start))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &TransportError{
			Op:         op,
			URL:        urlStr,
			StatusCode: res.StatusCode,
			Err:        errors.New(strconv.Quote(string(body))),
		}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return &TransportError{Op: op, URL: urlStr, Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response from %s: %w", op, urlStr, err)
	}
	return nil
}
