package analysis

import (
	"context"

	"aura/internal/domain/news"
	"aura/pkg/logger"
)

// SentimentScorer maps text to a score in [-1, 1] and never fails:
// model outages degrade to a neutral 0.0 inside the implementation.
type SentimentScorer interface {
	Sentiment(ctx context.Context, text string) float64
}

// CategoryClassifier maps text to one label from the candidate set, or
// "Unknown" when the model is unavailable or answers outside the set.
type CategoryClassifier interface {
	Classify(ctx context.Context, text string, candidates []string) string
}

// Analyzer turns one headline into a scored, categorized, risk-labeled
// analysis. A single misbehaving headline must never take down a batch,
// so every call is isolated behind a recover.
type Analyzer struct {
	scorer     SentimentScorer
	classifier CategoryClassifier
	thresholds news.Thresholds
	categories []string
	log        *logger.Logger
}

// NewAnalyzer creates an analyzer over the given model capabilities
func NewAnalyzer(
	scorer SentimentScorer,
	classifier CategoryClassifier,
	thresholds news.Thresholds,
	categories []string,
	log *logger.Logger,
) *Analyzer {
	return &Analyzer{
		scorer:     scorer,
		classifier: classifier,
		thresholds: thresholds,
		categories: categories,
		log:        log,
	}
}

// Analyze scores and classifies one headline. On an unexpected failure
// inside the analysis it returns the error sentinel: neutral score,
// unknown category, "Error" risk level. Such records are persisted but
// never alerted on.
func (a *Analyzer) Analyze(ctx context.Context, title string) (result news.Analysis) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Errorw("Analysis panicked, recording error sentinel",
				"title", title,
				"panic", r,
			)
			result = news.Analysis{
				SentimentScore: 0.0,
				Category:       news.CategoryUnknown,
				RiskLevel:      news.RiskError,
			}
		}
	}()

	score := a.scorer.Sentiment(ctx, title)
	category := a.classifier.Classify(ctx, title, a.categories)

	return news.Analysis{
		SentimentScore: score,
		Category:       category,
		RiskLevel:      a.thresholds.Level(score),
	}
}
