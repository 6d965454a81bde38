package insights

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura/internal/adapters/config"
	"aura/internal/domain/news"
	"aura/internal/signals"
	"aura/pkg/errors"
	"aura/pkg/logger"
)

type stubRepo struct {
	records []news.Record
	err     error
	calls   int
}

func (r *stubRepo) Init(ctx context.Context) error                       { return nil }
func (r *stubRepo) AddRecords(ctx context.Context, recs []news.Record) (int, error) {
	return 0, nil
}
func (r *stubRepo) GetAll(ctx context.Context) ([]news.Record, error) {
	r.calls++
	return r.records, r.err
}
func (r *stubRepo) GetByCountry(ctx context.Context, code string) ([]news.Record, error) {
	return r.records, nil
}
func (r *stubRepo) GetByCategory(ctx context.Context, label string) ([]news.Record, error) {
	return r.records, nil
}
func (r *stubRepo) GetRecent(ctx context.Context, limit int) ([]news.Record, error) {
	if limit > len(r.records) {
		limit = len(r.records)
	}
	return r.records[:limit], r.err
}

// memCache is a map-backed Cache for tests, round-tripping through JSON
// the way the real store does
type memCache struct {
	data map[string][]byte
	fail bool
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.fail {
		return errors.ErrUnavailable
	}
	raw, ok := c.data[key]
	if !ok {
		return errors.ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.fail {
		return errors.ErrUnavailable
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

type stubSummarizer struct {
	digest string
	calls  int
}

func (s *stubSummarizer) Summarize(ctx context.Context, headlines []string) string {
	s.calls++
	return s.digest
}

func testRecords() []news.Record {
	now := time.Now().UTC()
	recs := []news.Record{}
	for i := 0; i < 6; i++ {
		recs = append(recs, news.Record{
			Country:        "us",
			Title:          "steady headline",
			PublishedAt:    now.Add(-time.Duration(i) * time.Hour).Format(time.RFC3339),
			SentimentScore: 0.2,
		})
	}
	recs = append(recs, news.Record{
		Country:        "fr",
		Title:          "breach at telecom",
		PublishedAt:    now.Format(time.RFC3339),
		SentimentScore: -0.6,
	})
	return recs
}

func newTestService(repo news.Repository, cache Cache, summarizer Summarizer) *Service {
	logger.Init("error", "test")
	cfg := config.RiskConfig{
		SentimentWeight:  0.4,
		FrequencyWeight:  0.3,
		VolatilityWeight: 0.2,
		KeywordWeight:    0.1,
		CriticalKeywords: []string{"breach"},
	}
	return NewService(
		repo,
		cache,
		summarizer,
		signals.NewRiskScorer(cfg),
		signals.NewAnomalyDetector(2.0),
		signals.NewTrendPredictor(30*24*time.Hour),
		news.DefaultThresholds(),
		time.Minute,
		logger.Get(),
	)
}

func TestService_Snapshot_ComputesDerivedSignals(t *testing.T) {
	repo := &stubRepo{records: testRecords()}
	svc := newTestService(repo, nil, nil)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, snap.TotalRecords)
	assert.Len(t, snap.RiskScores, 7)

	require.Len(t, snap.CountryAverages, 2)
	assert.Equal(t, "fr", snap.CountryAverages[0].Country)
	assert.InDelta(t, -0.6, snap.CountryAverages[0].AverageSentiment, 1e-9)
	assert.Equal(t, string(news.RiskWarning), snap.CountryAverages[0].RiskLevel)
	assert.Equal(t, 6, snap.CountryAverages[1].RecordCount)

	require.Contains(t, snap.Trends, "us")
	assert.Equal(t, signals.TrendStatusOK, snap.Trends["us"].Status)
	assert.Equal(t, signals.TrendStatusInsufficientData, snap.Trends["fr"].Status)
}

func TestService_Snapshot_ServedFromCacheOnSecondCall(t *testing.T) {
	repo := &stubRepo{records: testRecords()}
	svc := newTestService(repo, newMemCache(), nil)

	_, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	_, err = svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
}

func TestService_Snapshot_CacheFailureDegradesToDirectComputation(t *testing.T) {
	repo := &stubRepo{records: testRecords()}
	cache := newMemCache()
	cache.fail = true
	svc := newTestService(repo, cache, nil)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, snap.TotalRecords)
	assert.Equal(t, 1, repo.calls)
}

func TestService_Snapshot_PropagatesRepositoryError(t *testing.T) {
	repo := &stubRepo{err: errors.ErrUnavailable}
	svc := newTestService(repo, nil, nil)

	_, err := svc.Snapshot(context.Background())
	assert.Error(t, err)
}

func TestService_Digest_CachesResult(t *testing.T) {
	repo := &stubRepo{records: testRecords()}
	sum := &stubSummarizer{digest: "All quiet on the tech front."}
	svc := newTestService(repo, newMemCache(), sum)

	first, err := svc.Digest(context.Background())
	require.NoError(t, err)
	second, err := svc.Digest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "All quiet on the tech front.", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, sum.calls)
}

func TestService_Digest_NilSummarizer(t *testing.T) {
	svc := newTestService(&stubRepo{}, nil, nil)

	digest, err := svc.Digest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, digest)
}
