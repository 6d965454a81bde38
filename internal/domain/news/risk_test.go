package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThresholds_Level_Defaults(t *testing.T) {
	th := DefaultThresholds()

	tests := []struct {
		name  string
		score float64
		want  RiskLevel
	}{
		{"deeply negative is critical", -0.8, RiskCritical},
		{"exact critical boundary", -0.7, RiskCritical},
		{"moderately negative is warning", -0.5, RiskWarning},
		{"exact warning boundary", -0.4, RiskWarning},
		{"slightly negative is normal", -0.1, RiskNormal},
		{"zero is normal", 0.0, RiskNormal},
		{"mildly positive", 0.3, RiskPositive},
		{"strongly positive", 0.7, RiskVeryPositive},
		{"exact positive boundary", 0.5, RiskVeryPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, th.Level(tt.score))
		})
	}
}

func TestThresholds_Level_Deterministic(t *testing.T) {
	th := DefaultThresholds()

	// Same score, same thresholds, same label every time
	for i := 0; i < 100; i++ {
		assert.Equal(t, RiskWarning, th.Level(-0.5))
	}
}

func TestThresholds_Level_CustomThresholds(t *testing.T) {
	th := Thresholds{Critical: -0.9, Warning: -0.2, Positive: 0.8}

	assert.Equal(t, RiskWarning, th.Level(-0.8))
	assert.Equal(t, RiskCritical, th.Level(-0.95))
	assert.Equal(t, RiskPositive, th.Level(0.7))
	assert.Equal(t, RiskVeryPositive, th.Level(0.8))
}
