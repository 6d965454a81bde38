package signals

import (
	"math"

	"aura/internal/domain/news"
)

// Anomaly marks one record whose sentiment deviates from the snapshot
// mean by more than the configured number of standard deviations.
type Anomaly struct {
	Record news.Record
	ZScore float64
}

// AnomalyDetector flags statistical outliers in a snapshot of records
type AnomalyDetector struct {
	threshold float64
}

// NewAnomalyDetector creates a z-score based detector. A non-positive
// threshold falls back to 2.0.
func NewAnomalyDetector(threshold float64) *AnomalyDetector {
	if threshold <= 0 {
		threshold = 2.0
	}
	return &AnomalyDetector{threshold: threshold}
}

// Detect returns the anomalous subset of the snapshot. When all sentiment
// scores are identical the standard deviation is 0 and nothing is flagged;
// there is no division by zero.
func (d *AnomalyDetector) Detect(records []news.Record) []Anomaly {
	anomalies := []Anomaly{}
	if len(records) < 2 {
		return anomalies
	}

	scores := make([]float64, len(records))
	for i, r := range records {
		scores[i] = r.SentimentScore
	}

	m := mean(scores)
	sd := stddev(scores)
	if sd == 0 {
		return anomalies
	}

	for i, r := range records {
		z := math.Abs(scores[i]-m) / sd
		if z > d.threshold {
			anomalies = append(anomalies, Anomaly{Record: r, ZScore: z})
		}
	}

	return anomalies
}
