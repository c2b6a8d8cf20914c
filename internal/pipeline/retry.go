package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/mkaran/cvsift/internal/capability"
)

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *capability.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3

// RetryingQA wraps an answer extractor with transient-error retries.
// Non-retryable faults pass through; the engine contains them per field.
type RetryingQA struct {
	Inner capability.AnswerExtractor
	Log   *slog.Logger
}

func (r RetryingQA) Answer(ctx context.Context, question, window string) (capability.Answer, error) {
	var ans capability.Answer
	var err error
	for attempt := range MaxRetries {
		ans, err = r.Inner.Answer(ctx, question, window)
		if err == nil || !IsRetryable(err) {
			return ans, err
		}
		r.Log.Warn("retryable qa error", "attempt", attempt, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return capability.Answer{}, ctx.Err()
		}
	}
	return ans, err
}

// RetryingNER wraps an entity recognizer with transient-error retries.
type RetryingNER struct {
	Inner capability.EntityRecognizer
	Log   *slog.Logger
}

func (r RetryingNER) Recognize(ctx context.Context, text string) ([]capability.Entity, error) {
	var entities []capability.Entity
	var err error
	for attempt := range MaxRetries {
		entities, err = r.Inner.Recognize(ctx, text)
		if err == nil || !IsRetryable(err) {
			return entities, err
		}
		r.Log.Warn("retryable ner error", "attempt", attempt, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return entities, err
}
