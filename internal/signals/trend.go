package signals

import (
	"sort"
	"time"

	talib "github.com/markcheno/go-talib"

	"aura/internal/domain/news"
)

// Trend statuses and direction labels
const (
	TrendStatusOK               = "ok"
	TrendStatusInsufficientData = "insufficient_data"
	TrendStatusNoRecentData     = "no_recent_data"

	TrendRising  = "Rising"
	TrendFalling = "Falling"
)

// Trend describes the sentiment direction for one country over the
// lookback window. Status is always set; the numeric fields are only
// meaningful when Status is TrendStatusOK.
type Trend struct {
	Status           string
	Country          string
	CurrentSentiment float64
	SevenDayAverage  float64
	ThirtyDayAverage float64
	Direction        string
	Volatility       float64
}

// TrendPredictor computes per-country sentiment trends from moving
// averages. Not a forecaster; it only labels the current direction.
type TrendPredictor struct {
	lookback time.Duration
	now      func() time.Time
}

// NewTrendPredictor creates a predictor with the given lookback window.
// A non-positive lookback falls back to 30 days.
func NewTrendPredictor(lookback time.Duration) *TrendPredictor {
	if lookback <= 0 {
		lookback = 30 * 24 * time.Hour
	}
	return &TrendPredictor{lookback: lookback, now: time.Now}
}

// Predict computes the trend for one country from a snapshot of records.
// Fewer than 5 records for the country yields an insufficient-data status;
// a country whose records all fall outside the lookback window yields a
// no-recent-data status. Neither is an error.
func (p *TrendPredictor) Predict(records []news.Record, country string) Trend {
	type point struct {
		at    time.Time
		score float64
	}

	points := []point{}
	for _, r := range records {
		if r.Country != country {
			continue
		}
		at, err := time.Parse(time.RFC3339, r.PublishedAt)
		if err != nil {
			// Timestamps come from an external feed; unparseable ones
			// cannot be placed on the time axis and are skipped
			continue
		}
		points = append(points, point{at: at, score: r.SentimentScore})
	}

	if len(points) < 5 {
		return Trend{Status: TrendStatusInsufficientData, Country: country}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].at.Before(points[j].at) })

	cutoff := p.now().Add(-p.lookback)
	recent := []float64{}
	for _, pt := range points {
		if !pt.at.Before(cutoff) {
			recent = append(recent, pt.score)
		}
	}

	if len(recent) == 0 {
		return Trend{Status: TrendStatusNoRecentData, Country: country}
	}

	ma7 := movingAverage(recent, 7)
	ma30 := movingAverage(recent, 30)

	direction := TrendFalling
	if ma7 > ma30 {
		direction = TrendRising
	}

	return Trend{
		Status:           TrendStatusOK,
		Country:          country,
		CurrentSentiment: recent[len(recent)-1],
		SevenDayAverage:  ma7,
		ThirtyDayAverage: ma30,
		Direction:        direction,
		Volatility:       stddev(recent),
	}
}

// movingAverage is the latest simple moving average over the given
// period. With fewer samples than the period it averages everything
// available instead of reporting nothing.
func movingAverage(values []float64, period int) float64 {
	if len(values) < period {
		return mean(values)
	}
	sma := talib.Sma(values, period)
	return sma[len(sma)-1]
}
