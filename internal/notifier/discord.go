package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/pauljones0/lotto-receipt-bot/internal/util"
)

const (
	maxSendRetries   = 3
	maxContentLength = 2000 // Discord message limit
	maxErrorBody     = 1024

	// Discord allows 5 webhook requests per 2 seconds.
	sendInterval = 400 * time.Millisecond
)

// Client mirrors printed receipts to a Discord webhook.
type Client struct {
	webhookURL  string
	client      *http.Client
	rateLimiter *rate.Limiter
}

func New(webhookURL string) *Client {
	return &Client{
		webhookURL:  webhookURL,
		client:      &http.Client{Timeout: 10 * time.Second},
		rateLimiter: rate.NewLimiter(rate.Every(sendInterval), 1),
	}
}

type discordWebhookPayload struct {
	Content string `json:"content"`
}

// Send posts the receipt for game as a code block. It is a no-op without a
// webhook URL.
func (c *Client) Send(ctx context.Context, game, receipt string) error {
	if c.webhookURL == "" {
		return nil
	}

	payloadBytes, err := json.Marshal(discordWebhookPayload{Content: formatReceipt(game, receipt)})
	if err != nil {
		return fmt.Errorf("discord: marshal payload: %w", err)
	}

	return util.RetryWithBackoff(ctx, maxSendRetries, 0, func(attempt int) error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return util.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payloadBytes))
		if err != nil {
			return util.Permanent(fmt.Errorf("discord: create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("discord: send request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := fmt.Errorf("discord status: %s, body: %s", resp.Status, string(body))
		wait := retryBackoff(resp, attempt)
		if wait == 0 {
			return util.Permanent(statusErr)
		}
		select {
		case <-ctx.Done():
			return util.Permanent(ctx.Err())
		case <-time.After(wait):
		}
		return statusErr
	})
}

func formatReceipt(game, receipt string) string {
	header := fmt.Sprintf("**%s**\n", game)
	const fence = "```"
	room := maxContentLength - len(header) - 2*len(fence) - 2
	if len(receipt) > room {
		cut := room
		for cut > 0 && !utf8.RuneStart(receipt[cut]) {
			cut--
		}
		receipt = receipt[:cut]
	}
	return header + fence + "\n" + receipt + "\n" + fence
}

// retryBackoff returns how long to wait before retrying resp, or zero when the
// response should not be retried. 429 honours Retry-After.
func retryBackoff(resp *http.Response, attempt int) time.Duration {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		if secs, err := strconv.ParseFloat(resp.Header.Get("Retry-After"), 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
		return time.Second << attempt
	case resp.StatusCode >= 500:
		return time.Second << attempt
	default:
		return 0
	}
}
