package news

// RiskLevel is an ordered label derived from a sentiment score
type RiskLevel string

const (
	RiskCritical     RiskLevel = "Critical"
	RiskWarning      RiskLevel = "Warning"
	RiskNormal       RiskLevel = "Normal"
	RiskPositive     RiskLevel = "Positive"
	RiskVeryPositive RiskLevel = "Very Positive"

	// RiskError marks a record whose analysis failed; such records are
	// persisted with a neutral score but never alerted on
	RiskError RiskLevel = "Error"
)

// Thresholds holds the sentiment cut points for risk labeling.
// Values are configuration, not constants; see config.RiskConfig.
type Thresholds struct {
	Critical float64 // score <= Critical -> RiskCritical
	Warning  float64 // score <= Warning  -> RiskWarning
	Positive float64 // score >= Positive -> RiskVeryPositive
}

// DefaultThresholds mirrors the configuration defaults
func DefaultThresholds() Thresholds {
	return Thresholds{
		Critical: -0.7,
		Warning:  -0.4,
		Positive: 0.5,
	}
}

// Level maps a sentiment score to a risk label. Pure and deterministic:
// the same score and thresholds always produce the same label.
func (t Thresholds) Level(score float64) RiskLevel {
	switch {
	case score <= t.Critical:
		return RiskCritical
	case score <= t.Warning:
		return RiskWarning
	case score <= 0:
		return RiskNormal
	case score < t.Positive:
		return RiskPositive
	default:
		return RiskVeryPositive
	}
}
