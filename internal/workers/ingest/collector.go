package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"aura/internal/domain/news"
	"aura/internal/metrics"
	"aura/internal/workers"
	"aura/pkg/logger"
)

// Fetcher pulls raw headlines per country with bounded concurrency
type Fetcher interface {
	FetchAll(ctx context.Context, countries map[string]string, concurrency int) map[string][]news.RawArticle
}

// Analyzer scores and classifies one headline; it never fails, only degrades
type Analyzer interface {
	Analyze(ctx context.Context, title string) news.Analysis
}

// Store persists analyzed records, skipping (title, url) duplicates
type Store interface {
	AddRecords(ctx context.Context, records []news.Record) (int, error)
}

// Alerter dispatches a critical-record notification; failures stay inside
type Alerter interface {
	NotifyCritical(record news.Record)
}

// Collector is the ingestion orchestrator. One Run is one cycle:
// fetch per country, filter, analyze, persist, alert on new criticals.
// A bad article, country, or model call degrades locally and never
// aborts the cycle.
type Collector struct {
	*workers.BaseWorker
	fetcher     Fetcher
	analyzer    Analyzer
	store       Store
	alerter     Alerter
	countries   map[string]string
	concurrency int
}

// NewCollector creates the ingestion worker
func NewCollector(
	fetcher Fetcher,
	analyzer Analyzer,
	store Store,
	alerter Alerter,
	countries map[string]string,
	concurrency int,
	interval time.Duration,
	enabled bool,
) *Collector {
	if concurrency <= 0 {
		concurrency = 3
	}
	return &Collector{
		BaseWorker:  workers.NewBaseWorker("ingest_collector", interval, enabled),
		fetcher:     fetcher,
		analyzer:    analyzer,
		store:       store,
		alerter:     alerter,
		countries:   countries,
		concurrency: concurrency,
	}
}

// Run executes one ingestion cycle
func (c *Collector) Run(ctx context.Context) error {
	cycleID := uuid.New().String()
	log := c.Log().With("cycle_id", cycleID)
	start := time.Now()

	log.Infow("Ingestion cycle started", "countries", len(c.countries))

	fetched := c.fetcher.FetchAll(ctx, c.countries, c.concurrency)

	var totalFetched, totalInserted, totalAlerted int
	for code, articles := range fetched {
		if err := ctx.Err(); err != nil {
			return err
		}

		totalFetched += len(articles)
		metrics.ArticlesFetched.WithLabelValues(code).Add(float64(len(articles)))

		records := c.analyzeCountry(ctx, code, articles)
		if len(records) == 0 {
			continue
		}

		inserted, alerted := c.persistAndAlert(ctx, code, records, log)
		totalInserted += inserted
		totalAlerted += alerted
	}

	log.Infow("Ingestion cycle completed",
		"fetched", totalFetched,
		"inserted", totalInserted,
		"alerted", totalAlerted,
		"duration", time.Since(start),
	)

	return ctx.Err()
}

// analyzeCountry filters and analyzes one country's raw articles
func (c *Collector) analyzeCountry(ctx context.Context, code string, articles []news.RawArticle) []news.Record {
	records := make([]news.Record, 0, len(articles))

	var dropped int
	for _, a := range articles {
		if ctx.Err() != nil {
			break
		}

		if !news.KeepArticle(a) {
			dropped++
			continue
		}

		analysis := c.analyzer.Analyze(ctx, a.Title)
		metrics.RecordsByRiskLevel.WithLabelValues(string(analysis.RiskLevel)).Inc()

		records = append(records, news.Record{
			Country:        code,
			PublishedAt:    a.PublishedAt,
			Title:          a.Title,
			SentimentScore: analysis.SentimentScore,
			URL:            a.URL,
			Category:       analysis.Category,
			SourceName:     a.SourceName,
			RiskLevel:      analysis.RiskLevel,
		})
	}

	if dropped > 0 {
		metrics.ArticlesFiltered.WithLabelValues(code).Add(float64(dropped))
	}

	return records
}

// persistAndAlert stores one country's records and alerts on newly
// inserted criticals. Critical candidates are inserted one at a time so
// a duplicate that is already stored never triggers a second alert.
func (c *Collector) persistAndAlert(ctx context.Context, code string, records []news.Record, log *logger.Logger) (inserted, alerted int) {
	var criticals, others []news.Record
	for _, r := range records {
		if r.RiskLevel == news.RiskCritical {
			criticals = append(criticals, r)
		} else {
			others = append(others, r)
		}
	}

	if len(others) > 0 {
		n, err := c.store.AddRecords(ctx, others)
		if err != nil {
			log.Warnw("Failed to persist records", "country", code, "error", err)
		}
		inserted += n
	}

	for _, r := range criticals {
		n, err := c.store.AddRecords(ctx, []news.Record{r})
		if err != nil {
			log.Warnw("Failed to persist critical record", "country", code, "title", r.Title, "error", err)
			continue
		}
		inserted += n
		if n == 0 {
			// Already stored from an earlier cycle; no repeat alert
			continue
		}
		if c.alerter != nil {
			c.alerter.NotifyCritical(r)
			alerted++
			metrics.AlertsSent.WithLabelValues(code).Inc()
		}
	}

	metrics.RecordsInserted.WithLabelValues(code).Add(float64(inserted))
	return inserted, alerted
}
