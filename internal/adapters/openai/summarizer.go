package openai

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"aura/internal/adapters/config"
	"aura/pkg/logger"
)

// maxDigestHeadlines bounds prompt size and cost
const maxDigestHeadlines = 15

// summaryFallback is returned whenever the model call fails; the digest is
// presentation-only and must never surface an error to its caller
const summaryFallback = "The news digest is unavailable right now. Please try again later."

// Summarizer produces a short free-text digest of recent headlines using
// the official OpenAI Go SDK. Used by the presentation layer only; the
// core pipeline does not depend on it.
type Summarizer struct {
	client  openai.Client
	model   string
	timeout time.Duration
	enabled bool
	log     *logger.Logger
}

// NewSummarizer creates a headline summarizer. With an empty API key it
// stays disabled and always answers with the fallback text.
func NewSummarizer(cfg config.OpenAIConfig) *Summarizer {
	s := &Summarizer{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		enabled: cfg.APIKey != "",
		log:     logger.Get().With("component", "summarizer"),
	}
	if s.timeout == 0 {
		s.timeout = 30 * time.Second
	}
	if s.enabled {
		s.client = openai.NewClient(option.WithAPIKey(cfg.APIKey))
	}
	return s
}

// Summarize turns a list of headlines into a three-sentence digest of the
// global technology agenda. Any failure returns the fallback string.
func (s *Summarizer) Summarize(ctx context.Context, headlines []string) string {
	if len(headlines) == 0 {
		return "No headlines available to summarize."
	}
	if !s.enabled {
		return summaryFallback
	}

	if len(headlines) > maxDigestHeadlines {
		headlines = headlines[:maxDigestHeadlines]
	}

	prompt := "Analyze the following technology headlines and summarize the global agenda in 3 short sentences:\n- " +
		strings.Join(headlines, "\n- ")

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		s.log.Warnw("Digest generation failed", "error", err)
		return summaryFallback
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		s.log.Warnw("Digest generation returned no content")
		return summaryFallback
	}

	return resp.Choices[0].Message.Content
}
