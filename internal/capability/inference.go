package capability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Options configures the inference client. BaseURL points at a
// HuggingFace-Inference-compatible endpoint; models are addressed as
// {BaseURL}/models/{model}.
type Options struct {
	BaseURL  string
	APIToken string
	QAModel  string
	NERModel string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// InferenceClient calls hosted pretrained models for QA and NER.
// It is safe for concurrent use; all state after construction is
// read-only except the latency stats, which guard themselves.
type InferenceClient struct {
	baseURL    string
	apiToken   string
	qaModel    string
	nerModel   string
	httpClient *http.Client
	log        *slog.Logger

	QAStats  *Stats
	NERStats *Stats
}

func NewInferenceClient(opts Options) *InferenceClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &InferenceClient{
		baseURL:  strings.TrimSuffix(opts.BaseURL, "/"),
		apiToken: opts.APIToken,
		qaModel:  opts.QAModel,
		nerModel: opts.NERModel,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:      log,
		QAStats:  NewStats(time.Hour),
		NERStats: NewStats(time.Hour),
	}
}

// QAModel returns the configured question-answering model name.
func (c *InferenceClient) QAModel() string { return c.qaModel }

// NERModel returns the configured entity-recognition model name.
func (c *InferenceClient) NERModel() string { return c.nerModel }

type qaRequest struct {
	Inputs qaInputs `json:"inputs"`
}

type qaInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaResponse struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
}

type nerRequest struct {
	Inputs string `json:"inputs"`
}

type nerSpan struct {
	EntityGroup string  `json:"entity_group"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
}

// Answer runs extractive QA over the given context window.
func (c *InferenceClient) Answer(ctx context.Context, question, window string) (Answer, error) {
	start := time.Now()
	var resp qaResponse
	err := c.post(ctx, c.qaModel, qaRequest{Inputs: qaInputs{Question: question, Context: window}}, &resp)
	c.QAStats.Record(time.Since(start).Milliseconds())
	if err != nil {
		return Answer{}, err
	}
	return Answer{Text: strings.TrimSpace(resp.Answer), Score: resp.Score}, nil
}

// Recognize returns labeled entity spans over the text, in input order.
func (c *InferenceClient) Recognize(ctx context.Context, text string) ([]Entity, error) {
	start := time.Now()
	var spans []nerSpan
	err := c.post(ctx, c.nerModel, nerRequest{Inputs: text}, &spans)
	c.NERStats.Record(time.Since(start).Milliseconds())
	if err != nil {
		return nil, err
	}
	entities := make([]Entity, 0, len(spans))
	for _, s := range spans {
		entities = append(entities, Entity{
			Text:  strings.TrimSpace(s.Word),
			Label: normalizeLabel(s.EntityGroup),
			Score: s.Score,
		})
	}
	return entities, nil
}

func (c *InferenceClient) post(ctx context.Context, model string, body, out any) error {
	reqID := uuid.New().String()

	bs, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("inference api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug("inference.response",
		"req_id", reqID,
		"model", model,
		"status", resp.StatusCode,
		"bytes", len(respBody),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	// 503 while the hosted model warms up is transient, same as rate
	// limits and server faults.
	if resp.StatusCode == http.StatusTooManyRequests ||
		resp.StatusCode == http.StatusServiceUnavailable ||
		resp.StatusCode >= 500 {
		return &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w (raw: %s)", err, truncate(string(respBody), 200))
	}
	return nil
}

func normalizeLabel(group string) string {
	switch strings.ToUpper(group) {
	case "PER", "PERSON":
		return LabelPerson
	case "ORG", "ORGANIZATION":
		return LabelOrganization
	case "LOC", "LOCATION", "GPE":
		return LabelLocation
	case "DATE":
		return LabelDate
	default:
		return LabelMisc
	}
}

// Close releases resources.
func (c *InferenceClient) Close() {
	c.httpClient.CloseIdleConnections()
}
