package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func curveOf(equities ...float64) []EquityPoint {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	curve := make([]EquityPoint, len(equities))
	for i, e := range equities {
		curve[i] = EquityPoint{Time: start.AddDate(0, 0, i), Equity: e}
	}
	return curve
}

func TestComputeMetrics_Empty(t *testing.T) {
	m := computeMetrics(nil, nil)
	assert.Equal(t, Metrics{}, m)
}

func TestComputeMetrics_MaxDrawdown(t *testing.T) {
	m := computeMetrics(curveOf(1.0, 1.2, 0.9, 1.1), nil)
	// Peak 1.2 to trough 0.9.
	assert.InDelta(t, (0.9-1.2)/1.2, m.MaxDrawdown, 1e-12)
}

func TestComputeMetrics_MonotonicCurveHasNoDrawdown(t *testing.T) {
	m := computeMetrics(curveOf(1.0, 1.1, 1.2, 1.3), nil)
	assert.Equal(t, 0.0, m.MaxDrawdown)
	assert.Greater(t, m.Sharpe, 0.0)
	// No losing bars means no downside deviation.
	assert.Equal(t, 0.0, m.Sortino)
}

func TestComputeMetrics_ZeroVarianceSharpe(t *testing.T) {
	m := computeMetrics(curveOf(1.0, 1.0, 1.0), nil)
	assert.Equal(t, 0.0, m.Sharpe)
	assert.Equal(t, 0.0, m.Sortino)
}

func TestComputeMetrics_WinRate(t *testing.T) {
	trades := []TradeRecord{
		{ReturnFraction: 0.05},
		{ReturnFraction: -0.02},
		{ReturnFraction: 0.01},
	}
	m := computeMetrics(curveOf(1.0, 1.05, 1.03, 1.04), trades)
	assert.Equal(t, 3, m.Trades)
	assert.InDelta(t, 2.0/3.0, m.WinRate, 1e-12)
}

func TestComputeMetrics_SortinoUsesDownsideOnly(t *testing.T) {
	m := computeMetrics(curveOf(1.0, 1.1, 1.0, 1.2, 1.1, 1.3), nil)
	assert.Greater(t, m.Sharpe, 0.0)
	assert.Greater(t, m.Sortino, 0.0)
}
