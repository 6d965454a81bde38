package signals

import (
	"strings"

	"aura/internal/adapters/config"
	"aura/internal/domain/news"
)

// Risk score bucket labels, ordered from calm to severe
const (
	BucketVeryLow  = "Very Low"
	BucketLow      = "Low"
	BucketModerate = "Moderate"
	BucketHigh     = "High"
	BucketCritical = "Critical"
)

// RiskScore is the composite 0-100 risk assessment of a single record
// within a snapshot. Higher means riskier.
type RiskScore struct {
	Record news.Record
	Score  float64
	Bucket string
}

// RiskScorer computes composite risk scores from a snapshot of records.
// The score is a weighted sum of four normalized components: sentiment,
// relative country frequency, per-country sentiment volatility, and the
// presence of a critical keyword in the title.
type RiskScorer struct {
	sentimentWeight  float64
	frequencyWeight  float64
	volatilityWeight float64
	keywordWeight    float64
	keywords         []string
}

// NewRiskScorer creates a scorer from configured weights and keywords.
// Keywords are matched case-insensitively against titles.
func NewRiskScorer(cfg config.RiskConfig) *RiskScorer {
	keywords := make([]string, 0, len(cfg.CriticalKeywords))
	for _, kw := range cfg.CriticalKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}

	return &RiskScorer{
		sentimentWeight:  cfg.SentimentWeight,
		frequencyWeight:  cfg.FrequencyWeight,
		volatilityWeight: cfg.VolatilityWeight,
		keywordWeight:    cfg.KeywordWeight,
		keywords:         keywords,
	}
}

// Score computes a composite score for every record in the snapshot.
// Frequency and volatility components are relative to the snapshot, so
// the same record can score differently in different snapshots.
func (s *RiskScorer) Score(records []news.Record) []RiskScore {
	if len(records) == 0 {
		return []RiskScore{}
	}

	countryCounts := make(map[string]int)
	countryScores := make(map[string][]float64)
	for _, r := range records {
		countryCounts[r.Country]++
		countryScores[r.Country] = append(countryScores[r.Country], r.SentimentScore)
	}

	countryVolatility := make(map[string]float64, len(countryScores))
	for country, scores := range countryScores {
		countryVolatility[country] = stddev(scores)
	}

	total := float64(len(records))
	out := make([]RiskScore, 0, len(records))
	for _, r := range records {
		sentiment := (r.SentimentScore + 1) / 2 * 100 * s.sentimentWeight
		frequency := float64(countryCounts[r.Country]) / total * 100 * s.frequencyWeight
		volatility := countryVolatility[r.Country] * 100 * s.volatilityWeight

		keyword := 0.0
		if s.hasCriticalKeyword(r.Title) {
			keyword = 100 * s.keywordWeight
		}

		score := clip(sentiment+frequency+volatility+keyword, 0, 100)
		out = append(out, RiskScore{
			Record: r,
			Score:  score,
			Bucket: bucket(score),
		})
	}

	return out
}

func (s *RiskScorer) hasCriticalKeyword(title string) bool {
	title = strings.ToLower(title)
	for _, kw := range s.keywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

// bucket maps a 0-100 score onto five ordered categories
func bucket(score float64) string {
	switch {
	case score < 20:
		return BucketVeryLow
	case score < 40:
		return BucketLow
	case score < 60:
		return BucketModerate
	case score < 80:
		return BucketHigh
	default:
		return BucketCritical
	}
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
