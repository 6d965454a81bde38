package metrics

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"aura/pkg/logger"
)

// Pinger reports cache connectivity
type Pinger interface {
	Health(ctx context.Context) error
}

// CustomCollector collects gauge metrics straight from the backing
// stores on every scrape
type CustomCollector struct {
	log      *logger.Logger
	postgres *sqlx.DB
	cache    Pinger

	totalRecords     *prometheus.Desc
	recordsByCountry *prometheus.Desc
	recordsByRisk    *prometheus.Desc
	cacheUp          *prometheus.Desc
}

// NewCustomCollector creates a new store-backed metrics collector.
// cache may be nil when caching is disabled.
func NewCustomCollector(log *logger.Logger, postgres *sqlx.DB, cache Pinger) *CustomCollector {
	return &CustomCollector{
		log:      log,
		postgres: postgres,
		cache:    cache,

		totalRecords: prometheus.NewDesc(
			"aura_stored_records",
			"Total number of stored news records",
			nil, nil,
		),
		recordsByCountry: prometheus.NewDesc(
			"aura_stored_records_by_country",
			"Stored news records by country",
			[]string{"country"}, nil,
		),
		recordsByRisk: prometheus.NewDesc(
			"aura_stored_records_by_risk_level",
			"Stored news records by risk level",
			[]string{"risk_level"}, nil,
		),
		cacheUp: prometheus.NewDesc(
			"aura_cache_up",
			"Whether the cache responds to ping (0=down, 1=up)",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *CustomCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalRecords
	ch <- c.recordsByCountry
	ch <- c.recordsByRisk
	ch <- c.cacheUp
}

// Collect implements prometheus.Collector
func (c *CustomCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c.collectRecordCounts(ctx, ch)
	c.collectCacheHealth(ctx, ch)
}

func (c *CustomCollector) collectRecordCounts(ctx context.Context, ch chan<- prometheus.Metric) {
	var total int
	if err := c.postgres.GetContext(ctx, &total, "SELECT COUNT(*) FROM news_records"); err != nil {
		c.log.Errorw("Failed to collect record count metric", "error", err)
		return
	}

	ch <- prometheus.MustNewConstMetric(
		c.totalRecords,
		prometheus.GaugeValue,
		float64(total),
	)

	type labeledCount struct {
		Label string `db:"label"`
		Count int    `db:"count"`
	}

	var byCountry []labeledCount
	err := c.postgres.SelectContext(ctx, &byCountry,
		"SELECT country AS label, COUNT(*) AS count FROM news_records GROUP BY country")
	if err != nil {
		c.log.Errorw("Failed to collect per-country metric", "error", err)
		return
	}
	for _, row := range byCountry {
		ch <- prometheus.MustNewConstMetric(
			c.recordsByCountry,
			prometheus.GaugeValue,
			float64(row.Count),
			row.Label,
		)
	}

	var byRisk []labeledCount
	err = c.postgres.SelectContext(ctx, &byRisk,
		"SELECT risk_level AS label, COUNT(*) AS count FROM news_records GROUP BY risk_level")
	if err != nil {
		c.log.Errorw("Failed to collect per-risk metric", "error", err)
		return
	}
	for _, row := range byRisk {
		ch <- prometheus.MustNewConstMetric(
			c.recordsByRisk,
			prometheus.GaugeValue,
			float64(row.Count),
			row.Label,
		)
	}
}

func (c *CustomCollector) collectCacheHealth(ctx context.Context, ch chan<- prometheus.Metric) {
	if c.cache == nil {
		return
	}

	up := 1.0
	if err := c.cache.Health(ctx); err != nil {
		up = 0.0
	}

	ch <- prometheus.MustNewConstMetric(c.cacheUp, prometheus.GaugeValue, up)
}
