package ner

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

	"golang.org/x/time/rate"
)

// DefaultHTTPTimeout bounds one recognition request.
const DefaultHTTPTimeout = 30 * time.Second

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 10 * 1024 * 1024

// HTTPRecognizer calls a model server over HTTP.
//
// It POSTs {"text": ...} to <baseURL>/detect and accepts either
// {"entities": [...]} or a bare JSON array. Entities may use the
// text/label/confidence field names or the word/entity_group/score names
// produced by a token-classification pipeline.
type HTTPRecognizer struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	apiKey   string
	logger   *slog.Logger
}

// HTTPOption configures an HTTPRecognizer.
type HTTPOption func(*HTTPRecognizer)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(r *HTTPRecognizer) {
		r.client = client
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) HTTPOption {
	return func(r *HTTPRecognizer) {
		r.client = &http.Client{Timeout: d}
	}
}

// WithRateLimit limits requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) HTTPOption {
	return func(r *HTTPRecognizer) {
		if rps <= 0 {
			r.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) HTTPOption {
	return func(r *HTTPRecognizer) {
		r.apiKey = key
	}
}

// WithHTTPLogger sets the logger.
func WithHTTPLogger(logger *slog.Logger) HTTPOption {
	return func(r *HTTPRecognizer) {
		r.logger = logger
	}
}

// NewHTTPRecognizer returns a recognizer for the server at baseURL.
func NewHTTPRecognizer(baseURL string, opts ...HTTPOption) (*HTTPRecognizer, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrNoEndpoint
	}

	r := &HTTPRecognizer{
		endpoint: baseURL + "/detect",
		client:   &http.Client{Timeout: DefaultHTTPTimeout},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Name returns "http".
func (r *HTTPRecognizer) Name() string {
	return "http"
}

// Recognize sends text to the server and returns its entities.
func (r *HTTPRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", r.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	r.logger.Debug("NER request completed",
		"endpoint", r.endpoint,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return decodeEntities(data)
}

// Close is a no-op; idle connections belong to the client.
func (r *HTTPRecognizer) Close() error {
	return nil
}

// wireEntity accepts both field naming conventions.
type wireEntity struct {
	Text        string   `json:"text"`
	Word        string   `json:"word"`
	Label       string   `json:"label"`
	EntityGroup string   `json:"entity_group"`
	StartPos    *float64 `json:"start_pos"`
	Start       *float64 `json:"start"`
	EndPos      *float64 `json:"end_pos"`
	End         *float64 `json:"end"`
	Confidence  *float64 `json:"confidence"`
	Score       *float64 `json:"score"`
}

func (w wireEntity) entity() Entity {
	return Entity{
		Text:       firstNonEmpty(w.Text, w.Word),
		Label:      firstNonEmpty(w.Label, w.EntityGroup),
		Start:      int(firstNumber(w.StartPos, w.Start)),
		End:        int(firstNumber(w.EndPos, w.End)),
		Confidence: firstNumber(w.Confidence, w.Score),
	}
}

func decodeEntities(data []byte) ([]Entity, error) {
	var wire []wireEntity

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return nil, fmt.Errorf("failed to decode entities: %w", err)
		}
	} else {
		var envelope struct {
			Entities []wireEntity `json:"entities"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode entities: %w", err)
		}
		wire = envelope.Entities
	}

	entities := make([]Entity, 0, len(wire))
	for _, w := range wire {
		entities = append(entities, w.entity())
	}
	return entities, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNumber(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}
