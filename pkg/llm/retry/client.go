// Package retry wraps a completion provider with bounded exponential
// backoff. Only the rate-limit error class is retried; provider and
// transport failures surface immediately.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"assembly-guide-be/pkg/llm"
)

// ErrRetriesExhausted is returned after the attempt ceiling is hit while
// the provider keeps rate limiting. It wraps the last provider error.
var ErrRetriesExhausted = errors.New("rate limit retries exhausted")

type Client struct {
	provider     llm.Provider
	maxAttempts  int
	initialDelay time.Duration

	// sleep is injectable so tests can record delays without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// Ensure Client implements llm.Provider
var _ llm.Provider = &Client{}

func New(provider llm.Provider, maxAttempts int, initialDelay time.Duration) *Client {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Client{
		provider:     provider,
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
		sleep:        sleepCtx,
	}
}

// Chat forwards to the wrapped provider, waiting with doubling delays
// between rate-limited attempts. Delays strictly increase; cancellation
// of ctx aborts the wait.
func (c *Client) Chat(ctx context.Context, system string, history []llm.Message, images []llm.ImageAttachment, options ...llm.Option) (string, error) {
	delay := c.initialDelay
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		answer, err := c.provider.Chat(ctx, system, history, images, options...)
		if err == nil {
			return answer, nil
		}
		if !errors.Is(err, llm.ErrRateLimited) {
			// Non-transient: this request will never succeed unmodified.
			return "", err
		}
		lastErr = err
		if attempt == c.maxAttempts {
			break
		}
		if err := c.sleep(ctx, delay); err != nil {
			return "", err
		}
		delay *= 2
	}

	return "", fmt.Errorf("%w after %d attempts: %v", ErrRetriesExhausted, c.maxAttempts, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
