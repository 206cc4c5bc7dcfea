// internal/github/retry.go
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v62/github"
)

const (
	// Attempts per API call, including the first one.
	maxRetries = 3

	maxRateLimitWait = 15 * time.Minute
)

// withRetry runs fn until it succeeds, fails permanently, or maxRetries attempts were made.
// Server errors back off exponentially; rate limit errors wait until the limit resets.
func (c *Client) withRetry(ctx context.Context, op string, fn func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.retryInterval
	b := backoff.WithContext(backoff.WithMaxRetries(eb, maxRetries-1), ctx)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}

		if wait, ok := rateLimitWait(err); ok {
			if wait > maxRateLimitWait {
				return backoff.Permanent(fmt.Errorf("%s: rate limit resets in %s: %w", op, wait.Round(time.Second), err))
			}
			c.logger.Warn("Rate limited by SCM API, waiting for reset", "op", op, "wait", wait.String())
			if err := sleepCtx(ctx, wait); err != nil {
				return backoff.Permanent(err)
			}
			return err
		}

		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}

		c.logger.Warn("SCM API call failed, retrying", "op", op, "attempt", attempt, "error", err)
		return err
	}, b)
}

func rateLimitWait(err error) (time.Duration, bool) {
	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return max(time.Until(rle.Rate.Reset.Time), 0), true
	}
	var arle *github.AbuseRateLimitError
	if errors.As(err, &arle) {
		if arle.RetryAfter != nil {
			return *arle.RetryAfter, true
		}
		return time.Minute, true
	}
	return 0, false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
