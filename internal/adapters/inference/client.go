package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"aura/internal/adapters/config"
	"aura/internal/domain/news"
	"aura/internal/metrics"
	"aura/pkg/errors"
	"aura/pkg/logger"
)

// Client calls a hosted model-serving API for sentiment analysis and
// zero-shot classification. The models themselves are black boxes; this
// adapter only shapes requests and guards the contracts:
// sentiment is always a float in [-1, 1] and classification is always a
// label from the configured set or "Unknown".
type Client struct {
	cfg        config.InferenceConfig
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates an inference client
func NewClient(cfg config.InferenceConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: logger.Get().With("component", "inference"),
	}
}

// sentimentResult is one label/score pair from a text-classification model
type sentimentResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// zeroShotResult is the response shape of a zero-shot classification model
type zeroShotResult struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Sentiment maps text to a score in [-1, 1]. POSITIVE confidence maps to a
// positive score, NEGATIVE to a negative one. On any failure it returns 0.0
// (neutral) and logs; callers always get a number they can persist.
func (c *Client) Sentiment(ctx context.Context, text string) float64 {
	text = c.truncate(text)

	payload := map[string]interface{}{"inputs": text}
	var results [][]sentimentResult
	start := time.Now()
	if err := c.post(ctx, c.cfg.SentimentModel, payload, &results); err != nil {
		metrics.InferenceCalls.WithLabelValues("sentiment", "error").Inc()
		c.log.Warnw("Sentiment call failed, defaulting to neutral", "error", err)
		return 0.0
	}
	metrics.InferenceCalls.WithLabelValues("sentiment", "success").Inc()
	metrics.InferenceLatency.WithLabelValues("sentiment").Observe(time.Since(start).Seconds())

	if len(results) == 0 || len(results[0]) == 0 {
		c.log.Warnw("Sentiment call returned no candidates, defaulting to neutral")
		return 0.0
	}

	top := results[0][0]
	for _, cand := range results[0][1:] {
		if cand.Score > top.Score {
			top = cand
		}
	}

	score := top.Score
	if top.Label != "POSITIVE" {
		score = -score
	}
	return clamp(score, -1.0, 1.0)
}

// Classify maps text to exactly one label from the candidate set, or
// "Unknown" when the call fails or the model answers outside the set.
func (c *Client) Classify(ctx context.Context, text string, candidates []string) string {
	if len(candidates) == 0 {
		return news.CategoryUnknown
	}
	text = c.truncate(text)

	payload := map[string]interface{}{
		"inputs": text,
		"parameters": map[string]interface{}{
			"candidate_labels": candidates,
		},
	}

	var result zeroShotResult
	start := time.Now()
	if err := c.post(ctx, c.cfg.ClassifierModel, payload, &result); err != nil {
		metrics.InferenceCalls.WithLabelValues("classify", "error").Inc()
		c.log.Warnw("Classification call failed, defaulting to Unknown", "error", err)
		return news.CategoryUnknown
	}
	metrics.InferenceCalls.WithLabelValues("classify", "success").Inc()
	metrics.InferenceLatency.WithLabelValues("classify").Observe(time.Since(start).Seconds())

	if len(result.Labels) == 0 {
		return news.CategoryUnknown
	}

	top := result.Labels[0]
	for _, label := range candidates {
		if label == top {
			return top
		}
	}

	// The model must not fabricate categories outside the configured set
	c.log.Warnw("Classifier returned a label outside the candidate set", "label", top)
	return news.CategoryUnknown
}

// post issues one model call and decodes the JSON response into dest
func (c *Client) post(ctx context.Context, model string, payload interface{}, dest interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to encode request")
	}

	endpoint := c.cfg.BaseURL + "/models/" + model

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrModelUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Wrapf(errors.ErrModelUnavailable, "status %d: %s", resp.StatusCode, string(msg))
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

// truncate bounds input length to keep inference latency and cost predictable
func (c *Client) truncate(text string) string {
	max := c.cfg.MaxTextLength
	if max <= 0 {
		max = 512
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
