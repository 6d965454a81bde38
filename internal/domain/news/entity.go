package news

import (
	"strings"
	"time"
)

// removedMarker is the placeholder some sources substitute for withdrawn articles
const removedMarker = "[Removed]"

// Record represents one analyzed headline
type Record struct {
	ID             int64     `db:"id"`
	Country        string    `db:"country"`
	PublishedAt    string    `db:"published_at"`
	Title          string    `db:"title"`
	SentimentScore float64   `db:"sentiment_score"` // -1 to 1
	URL            string    `db:"url"`
	Category       string    `db:"category"`
	SourceName     string    `db:"source_name"`
	RiskLevel      RiskLevel `db:"risk_level"`
	CreatedAt      time.Time `db:"created_at"`
}

// RawArticle is the untrusted shape returned by the news-search API
type RawArticle struct {
	Title       string
	URL         string
	SourceName  string
	PublishedAt string
}

// KeepArticle reports whether a raw article is worth analyzing.
// Articles without a title or link, or with a removal placeholder,
// are dropped before they reach scoring.
func KeepArticle(a RawArticle) bool {
	if a.Title == "" || a.URL == "" {
		return false
	}
	if strings.Contains(a.Title, removedMarker) {
		return false
	}
	return true
}

// Analysis is the outcome of scoring and classifying one headline
type Analysis struct {
	SentimentScore float64
	Category       string
	RiskLevel      RiskLevel
}

// CategoryUnknown is persisted when classification fails or the model
// returns a label outside the configured set
const CategoryUnknown = "Unknown"
