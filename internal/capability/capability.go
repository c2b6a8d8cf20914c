// Package capability wraps the pretrained model services the engine
// queries: named-entity recognition and extractive question-answering.
// Both are opaque, pre-trained oracles reached over HTTP; the engine
// never sees their internals, only spans and scores.
package capability

import (
	"context"
	"fmt"
	"sync"
)

// Entity labels, normalized from the provider's short tags.
const (
	LabelPerson       = "PERSON"
	LabelOrganization = "ORGANIZATION"
	LabelLocation     = "LOCATION"
	LabelDate         = "DATE"
	LabelMisc         = "MISC"
)

// Entity is one typed span recognized in a piece of text.
type Entity struct {
	Text  string
	Label string
	Score float64
}

// Answer is an extractive QA result: a span from the context plus the
// model's confidence in [0,1].
type Answer struct {
	Text  string
	Score float64
}

// EntityRecognizer produces labeled spans over text.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// AnswerExtractor answers a natural-language question against a bounded
// context window.
type AnswerExtractor interface {
	Answer(ctx context.Context, question, window string) (Answer, error)
}

// RetryableError indicates a transient failure that can be retried,
// including the provider's model-loading responses.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var (
	sharedOnce   sync.Once
	sharedClient *InferenceClient
)

// Shared returns the process-wide inference client, initialized once on
// first use and never mutated afterwards. Concurrent pipeline instances
// read through the same handle.
func Shared(opts Options) *InferenceClient {
	sharedOnce.Do(func() {
		sharedClient = NewInferenceClient(opts)
	})
	return sharedClient
}
