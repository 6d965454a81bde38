package insights

import (
	"context"
	"sort"
	"time"

	"aura/internal/domain/news"
	"aura/internal/signals"
	"aura/pkg/logger"
)

const (
	snapshotCacheKey = "insights:snapshot"
	digestCacheKey   = "insights:digest"

	digestHeadlineCount = 15
)

// Cache is the explicit get/set cache the service consults before
// recomputing. A nil cache or any cache failure degrades to direct
// computation, never to an error.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Summarizer produces a short free-text digest from headlines
type Summarizer interface {
	Summarize(ctx context.Context, headlines []string) string
}

// CountryAverage is the mean sentiment of one country in a snapshot
type CountryAverage struct {
	Country          string  `json:"country"`
	AverageSentiment float64 `json:"average_sentiment"`
	RiskLevel        string  `json:"risk_level"`
	RecordCount      int     `json:"record_count"`
}

// Snapshot bundles every derived signal computed from the stored
// records at one point in time. It is cached briefly and recomputed on
// demand; nothing in it is persisted.
type Snapshot struct {
	GeneratedAt     time.Time                `json:"generated_at"`
	TotalRecords    int                      `json:"total_records"`
	CountryAverages []CountryAverage         `json:"country_averages"`
	RiskScores      []signals.RiskScore      `json:"risk_scores"`
	Anomalies       []signals.Anomaly        `json:"anomalies"`
	Trends          map[string]signals.Trend `json:"trends"`
}

// Service computes presentation-facing insights over stored records.
// It only reads; the ingestion pipeline never depends on it.
type Service struct {
	repo       news.Repository
	cache      Cache
	summarizer Summarizer
	scorer     *signals.RiskScorer
	detector   *signals.AnomalyDetector
	predictor  *signals.TrendPredictor
	thresholds news.Thresholds
	cacheTTL   time.Duration
	log        *logger.Logger
}

// NewService creates the insights service. cache and summarizer may be
// nil; the service then computes directly and skips digests gracefully.
func NewService(
	repo news.Repository,
	cache Cache,
	summarizer Summarizer,
	scorer *signals.RiskScorer,
	detector *signals.AnomalyDetector,
	predictor *signals.TrendPredictor,
	thresholds news.Thresholds,
	cacheTTL time.Duration,
	log *logger.Logger,
) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{
		repo:       repo,
		cache:      cache,
		summarizer: summarizer,
		scorer:     scorer,
		detector:   detector,
		predictor:  predictor,
		thresholds: thresholds,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// Snapshot returns the current derived signals, served from cache when
// a fresh copy exists. Cache failures are logged and fall through to a
// direct computation.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s.cache != nil {
		var cached Snapshot
		if err := s.cache.Get(ctx, snapshotCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	records, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := s.compute(records)

	if s.cache != nil {
		if err := s.cache.Set(ctx, snapshotCacheKey, snapshot, s.cacheTTL); err != nil {
			s.log.Warnw("Failed to cache insights snapshot", "error", err)
		}
	}

	return snapshot, nil
}

// Digest returns a short model-written summary of the most recent
// headlines, cached for the snapshot TTL.
func (s *Service) Digest(ctx context.Context) (string, error) {
	if s.summarizer == nil {
		return "", nil
	}

	if s.cache != nil {
		var cached string
		if err := s.cache.Get(ctx, digestCacheKey, &cached); err == nil && cached != "" {
			return cached, nil
		}
	}

	records, err := s.repo.GetRecent(ctx, digestHeadlineCount)
	if err != nil {
		return "", err
	}

	headlines := make([]string, 0, len(records))
	for _, r := range records {
		headlines = append(headlines, r.Title)
	}

	digest := s.summarizer.Summarize(ctx, headlines)

	if s.cache != nil {
		if err := s.cache.Set(ctx, digestCacheKey, digest, s.cacheTTL); err != nil {
			s.log.Warnw("Failed to cache digest", "error", err)
		}
	}

	return digest, nil
}

func (s *Service) compute(records []news.Record) *Snapshot {
	countryScores := make(map[string][]float64)
	for _, r := range records {
		countryScores[r.Country] = append(countryScores[r.Country], r.SentimentScore)
	}

	averages := make([]CountryAverage, 0, len(countryScores))
	for country, scores := range countryScores {
		var sum float64
		for _, v := range scores {
			sum += v
		}
		avg := sum / float64(len(scores))
		averages = append(averages, CountryAverage{
			Country:          country,
			AverageSentiment: avg,
			RiskLevel:        string(s.thresholds.Level(avg)),
			RecordCount:      len(scores),
		})
	}
	sort.Slice(averages, func(i, j int) bool { return averages[i].Country < averages[j].Country })

	trends := make(map[string]signals.Trend, len(countryScores))
	for country := range countryScores {
		trends[country] = s.predictor.Predict(records, country)
	}

	return &Snapshot{
		GeneratedAt:     time.Now().UTC(),
		TotalRecords:    len(records),
		CountryAverages: averages,
		RiskScores:      s.scorer.Score(records),
		Anomalies:       s.detector.Detect(records),
		Trends:          trends,
	}
}
