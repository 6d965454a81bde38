package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura/internal/domain/news"
	"aura/pkg/errors"
)

// testDB connects to the database named by TEST_POSTGRES_DSN, or skips the
// test when it is not set. Integration tests run against a throwaway schema.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = db.Exec("DROP TABLE IF EXISTS news_records")
		db.Close()
	})

	return db
}

func testRecord(country, title, url string, score float64) news.Record {
	return news.Record{
		Country:        country,
		PublishedAt:    time.Now().UTC().Format("2006-01-02 15:04:05"),
		Title:          title,
		SentimentScore: score,
		URL:            url,
		Category:       "Cybersecurity",
		SourceName:     "Test Wire",
		RiskLevel:      news.RiskNormal,
	}
}

func TestNewsRepository_Init_Idempotent(t *testing.T) {
	db := testDB(t)
	repo := NewNewsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Init(ctx))
	// A second call must not fail
	require.NoError(t, repo.Init(ctx))
}

func TestNewsRepository_AddRecords_SkipsDuplicates(t *testing.T) {
	db := testDB(t)
	repo := NewNewsRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Init(ctx))

	first := testRecord("us", "Data breach at cloud provider", "https://example.com/breach", -0.8)
	n, err := repo.AddRecords(ctx, []news.Record{first})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// Batch of 3 where one (title, url) pair is already stored
	batch := []news.Record{
		first,
		testRecord("us", "Chip exports surge", "https://example.com/chips", 0.6),
		testRecord("us", "New AI framework released", "https://example.com/ai", 0.3),
	}
	n, err = repo.AddRecords(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Re-ingesting an identical batch leaves the store unchanged
	n, err = repo.AddRecords(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestNewsRepository_Reads(t *testing.T) {
	db := testDB(t)
	repo := NewNewsRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Init(ctx))

	records := []news.Record{
		testRecord("us", "Ransomware hits hospital chain", "https://example.com/r1", -0.9),
		testRecord("kr", "Battery plant expansion announced", "https://example.com/r2", 0.5),
		testRecord("kr", "Mobile OS update ships", "https://example.com/r3", 0.2),
	}
	_, err := repo.AddRecords(ctx, records)
	require.NoError(t, err)

	byCountry, err := repo.GetByCountry(ctx, "kr")
	require.NoError(t, err)
	assert.Len(t, byCountry, 2)

	byCategory, err := repo.GetByCategory(ctx, "Cybersecurity")
	require.NoError(t, err)
	assert.Len(t, byCategory, 3)

	recent, err := repo.GetRecent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	// No match returns an empty slice, not an error
	none, err := repo.GetByCountry(ctx, "fr")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(fmt.Errorf("plain error")))
	assert.False(t, isUniqueViolation(errors.Wrap(&pq.Error{Code: "23503"}, "wrapped")))
	assert.True(t, isUniqueViolation(errors.Wrap(&pq.Error{Code: "23505"}, "wrapped")))
}
