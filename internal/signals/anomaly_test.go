package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aura/internal/domain/news"
)

func TestAnomalyDetector_Detect_FlagsOutlier(t *testing.T) {
	d := NewAnomalyDetector(2.0)

	records := []news.Record{}
	for i := 0; i < 10; i++ {
		records = append(records, record("us", "steady", 0.1))
	}
	records = append(records, record("us", "shock headline", -0.95))

	anomalies := d.Detect(records)
	require.Len(t, anomalies, 1)
	assert.Equal(t, "shock headline", anomalies[0].Record.Title)
	assert.Greater(t, anomalies[0].ZScore, 2.0)
}

func TestAnomalyDetector_Detect_ZeroStddevFlagsNothing(t *testing.T) {
	d := NewAnomalyDetector(2.0)

	// All values identical: stddev is 0, nothing may be flagged and
	// nothing may divide by zero
	records := []news.Record{
		record("us", "a", 0.5),
		record("us", "b", 0.5),
		record("us", "c", 0.5),
	}

	assert.Empty(t, d.Detect(records))
}

func TestAnomalyDetector_Detect_EmptyAndTinySnapshots(t *testing.T) {
	d := NewAnomalyDetector(2.0)

	assert.Empty(t, d.Detect(nil))
	assert.Empty(t, d.Detect([]news.Record{record("us", "only one", -0.9)}))
}

func TestAnomalyDetector_Detect_RespectsThreshold(t *testing.T) {
	strict := NewAnomalyDetector(10.0)

	records := []news.Record{}
	for i := 0; i < 10; i++ {
		records = append(records, record("us", "steady", 0.1))
	}
	records = append(records, record("us", "shock", -0.95))

	// The same outlier that a 2.0 threshold flags stays under 10.0
	assert.Empty(t, strict.Detect(records))
}

func TestNewAnomalyDetector_DefaultsBadThreshold(t *testing.T) {
	d := NewAnomalyDetector(-1)
	assert.Equal(t, 2.0, d.threshold)
}
