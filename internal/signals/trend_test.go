package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura/internal/domain/news"
)

func trendRecord(country string, at time.Time, score float64) news.Record {
	return news.Record{
		Country:        country,
		Title:          "headline",
		PublishedAt:    at.Format(time.RFC3339),
		SentimentScore: score,
	}
}

func fixedPredictor(lookback time.Duration, now time.Time) *TrendPredictor {
	p := NewTrendPredictor(lookback)
	p.now = func() time.Time { return now }
	return p
}

func TestTrendPredictor_Predict_InsufficientData(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	p := fixedPredictor(30*24*time.Hour, now)

	records := []news.Record{
		trendRecord("us", now.Add(-time.Hour), 0.1),
		trendRecord("us", now.Add(-2*time.Hour), 0.2),
		trendRecord("us", now.Add(-3*time.Hour), 0.3),
		trendRecord("us", now.Add(-4*time.Hour), 0.4),
	}

	trend := p.Predict(records, "us")
	assert.Equal(t, TrendStatusInsufficientData, trend.Status)
	assert.Equal(t, "us", trend.Country)
}

func TestTrendPredictor_Predict_IgnoresOtherCountries(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	p := fixedPredictor(30*24*time.Hour, now)

	records := []news.Record{}
	for i := 0; i < 10; i++ {
		records = append(records, trendRecord("fr", now.Add(-time.Duration(i)*time.Hour), 0.1))
	}
	// Only two records belong to the queried country
	records = append(records,
		trendRecord("us", now.Add(-time.Hour), 0.1),
		trendRecord("us", now.Add(-2*time.Hour), 0.2),
	)

	trend := p.Predict(records, "us")
	assert.Equal(t, TrendStatusInsufficientData, trend.Status)
}

func TestTrendPredictor_Predict_NoRecentData(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	p := fixedPredictor(30*24*time.Hour, now)

	// Enough records, but all older than the lookback window
	records := []news.Record{}
	for i := 0; i < 6; i++ {
		records = append(records, trendRecord("us", now.AddDate(0, -6, -i), 0.1))
	}

	trend := p.Predict(records, "us")
	assert.Equal(t, TrendStatusNoRecentData, trend.Status)
}

func TestTrendPredictor_Predict_RisingTrend(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	p := fixedPredictor(30*24*time.Hour, now)

	// Sentiment improves over ten consecutive days, so the short moving
	// average must sit above the long one
	records := []news.Record{}
	for i := 0; i < 10; i++ {
		score := -0.5 + float64(i)*0.1
		records = append(records, trendRecord("us", now.AddDate(0, 0, i-10), score))
	}

	trend := p.Predict(records, "us")
	require.Equal(t, TrendStatusOK, trend.Status)
	assert.Equal(t, TrendRising, trend.Direction)
	assert.Greater(t, trend.SevenDayAverage, trend.ThirtyDayAverage)
	assert.InDelta(t, 0.4, trend.CurrentSentiment, 1e-9)
	assert.Greater(t, trend.Volatility, 0.0)
}

func TestTrendPredictor_Predict_FallingTrend(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	p := fixedPredictor(30*24*time.Hour, now)

	records := []news.Record{}
	for i := 0; i < 10; i++ {
		score := 0.5 - float64(i)*0.1
		records = append(records, trendRecord("us", now.AddDate(0, 0, i-10), score))
	}

	trend := p.Predict(records, "us")
	require.Equal(t, TrendStatusOK, trend.Status)
	assert.Equal(t, TrendFalling, trend.Direction)
}

func TestTrendPredictor_Predict_SkipsUnparseableTimestamps(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	p := fixedPredictor(30*24*time.Hour, now)

	records := []news.Record{}
	for i := 0; i < 6; i++ {
		records = append(records, trendRecord("us", now.Add(-time.Duration(i)*time.Hour), 0.1))
	}
	records = append(records, news.Record{Country: "us", PublishedAt: "yesterday-ish", SentimentScore: 0.9})

	trend := p.Predict(records, "us")
	require.Equal(t, TrendStatusOK, trend.Status)
	// The malformed record must not leak into the averages
	assert.InDelta(t, 0.1, trend.SevenDayAverage, 1e-9)
}

func TestMovingAverage_ShortSeriesFallsBackToMean(t *testing.T) {
	assert.InDelta(t, 0.2, movingAverage([]float64{0.1, 0.2, 0.3}, 7), 1e-9)
}
