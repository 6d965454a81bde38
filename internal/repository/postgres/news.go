package postgres

import (
	"context"

	"github.com/lib/pq"

	"aura/internal/domain/news"
	"aura/internal/metrics"
	"aura/pkg/errors"
	"aura/pkg/logger"
)

// Compile-time check that we implement the interface
var _ news.Repository = (*NewsRepository)(nil)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit
const uniqueViolation = "23505"

// NewsRepository implements news.Repository using sqlx
type NewsRepository struct {
	db  DBTX
	log *logger.Logger
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(db DBTX) *NewsRepository {
	return &NewsRepository{
		db:  db,
		log: logger.Get().With("component", "news_repository"),
	}
}

// Init idempotently creates the news_records table and its secondary
// indexes. Safe to call on every startup.
func (r *NewsRepository) Init(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS news_records (
			id BIGSERIAL PRIMARY KEY,
			country TEXT NOT NULL,
			published_at TEXT NOT NULL,
			title TEXT NOT NULL,
			sentiment_score DOUBLE PRECISION NOT NULL,
			url TEXT NOT NULL,
			category TEXT,
			source_name TEXT,
			risk_level TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (title, url)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_news_records_country ON news_records (country)`,
		`CREATE INDEX IF NOT EXISTS idx_news_records_published_at ON news_records (published_at)`,
		`CREATE INDEX IF NOT EXISTS idx_news_records_category ON news_records (category)`,
		`CREATE INDEX IF NOT EXISTS idx_news_records_sentiment ON news_records (sentiment_score)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to initialize news schema")
		}
	}

	return nil
}

// AddRecords inserts records one by one and returns the count actually
// inserted. A unique violation on (title, url) is an expected duplicate
// and is skipped silently; any other per-record failure is logged and the
// rest of the batch continues.
func (r *NewsRepository) AddRecords(ctx context.Context, records []news.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO news_records (
			country, published_at, title, sentiment_score, url, category, source_name, risk_level
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)`

	inserted := 0
	duplicates := 0
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}

		_, err := r.db.ExecContext(ctx, query,
			rec.Country, rec.PublishedAt, rec.Title, rec.SentimentScore,
			rec.URL, rec.Category, rec.SourceName, rec.RiskLevel,
		)
		if err != nil {
			if isUniqueViolation(err) {
				duplicates++
				metrics.DuplicatesSkipped.Inc()
				continue
			}
			metrics.DBQueries.WithLabelValues("insert", "error").Inc()
			r.log.Warnw("Failed to insert news record",
				"title", rec.Title,
				"country", rec.Country,
				"error", err,
			)
			continue
		}
		inserted++
		metrics.DBQueries.WithLabelValues("insert", "success").Inc()
	}

	r.log.Infow("News records persisted",
		"inserted", inserted,
		"duplicates", duplicates,
		"total", len(records),
	)

	return inserted, nil
}

// GetAll returns every stored record, newest first
func (r *NewsRepository) GetAll(ctx context.Context) ([]news.Record, error) {
	query := `
		SELECT id, country, published_at, title, sentiment_score, url, category, source_name, risk_level, created_at
		FROM news_records
		ORDER BY published_at DESC`

	records := []news.Record{}
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, errors.Wrap(err, "failed to read news records")
	}
	return records, nil
}

// GetByCountry returns records for one country, newest first
func (r *NewsRepository) GetByCountry(ctx context.Context, code string) ([]news.Record, error) {
	query := `
		SELECT id, country, published_at, title, sentiment_score, url, category, source_name, risk_level, created_at
		FROM news_records
		WHERE country = $1
		ORDER BY published_at DESC`

	records := []news.Record{}
	if err := r.db.SelectContext(ctx, &records, query, code); err != nil {
		return nil, errors.Wrapf(err, "failed to read news records for country %s", code)
	}
	return records, nil
}

// GetByCategory returns records with a given category label, newest first
func (r *NewsRepository) GetByCategory(ctx context.Context, label string) ([]news.Record, error) {
	query := `
		SELECT id, country, published_at, title, sentiment_score, url, category, source_name, risk_level, created_at
		FROM news_records
		WHERE category = $1
		ORDER BY published_at DESC`

	records := []news.Record{}
	if err := r.db.SelectContext(ctx, &records, query, label); err != nil {
		return nil, errors.Wrapf(err, "failed to read news records for category %s", label)
	}
	return records, nil
}

// GetRecent returns the newest records up to limit
func (r *NewsRepository) GetRecent(ctx context.Context, limit int) ([]news.Record, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, country, published_at, title, sentiment_score, url, category, source_name, risk_level, created_at
		FROM news_records
		ORDER BY published_at DESC
		LIMIT $1`

	records := []news.Record{}
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, errors.Wrap(err, "failed to read recent news records")
	}
	return records, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint error
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
