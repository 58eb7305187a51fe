package backtest

import (
	"math"

	"github.com/montanaflynn/stats"
)

// tradingDaysPerYear annualizes per-bar return statistics for daily bars.
const tradingDaysPerYear = 252

// Metrics are the risk statistics of one simulation, computed over the
// per-bar percentage change of the equity curve.
type Metrics struct {
	Sharpe      float64 `json:"sharpe"`
	Sortino     float64 `json:"sortino"`
	MaxDrawdown float64 `json:"max_drawdown"`
	WinRate     float64 `json:"win_rate"`
	Trades      int     `json:"trades"`
}

func computeMetrics(curve []EquityPoint, trades []TradeRecord) Metrics {
	m := Metrics{Trades: len(trades)}

	returns := make([]float64, 0, len(curve))
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, (curve[i].Equity-prev)/prev)
	}

	if len(returns) > 0 {
		mean, _ := stats.Mean(returns)
		std, _ := stats.StandardDeviationSample(returns)
		if std > 0 {
			m.Sharpe = mean / std * math.Sqrt(tradingDaysPerYear)
		}

		var negative []float64
		for _, r := range returns {
			if r < 0 {
				negative = append(negative, r)
			}
		}
		negStd, err := stats.StandardDeviationSample(negative)
		if err == nil && negStd > 0 {
			m.Sortino = mean / negStd * math.Sqrt(tradingDaysPerYear)
		}
	}

	if len(curve) > 1 {
		runningMax := curve[0].Equity
		for _, p := range curve {
			if p.Equity > runningMax {
				runningMax = p.Equity
			}
			if runningMax > 0 {
				if dd := (p.Equity - runningMax) / runningMax; dd < m.MaxDrawdown {
					m.MaxDrawdown = dd
				}
			}
		}
	}

	if len(trades) > 0 {
		wins := 0
		for _, t := range trades {
			if t.ReturnFraction > 0 {
				wins++
			}
		}
		m.WinRate = float64(wins) / float64(len(trades))
	}
	return m
}
