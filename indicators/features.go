package indicators

import (
	"fmt"
	"math"
	"time"

	"github.com/anaslari23/Stock-predictor/market"
)

// maPeriods are the moving-average windows used by the feature pipeline.
// MA(50) is the longest lookback, so series shorter than 50 bars produce
// an empty table.
var maPeriods = [4]int{5, 10, 20, 50}

// MinBars is the number of candles needed before any complete feature row
// exists.
const MinBars = 50

// FeatureVector is one complete feature row keyed by an ordered name list.
// The ordering matches the order used at normalization-fit time and at
// scorer-training time; it is part of the contract.
type FeatureVector struct {
	Time   time.Time
	Names  []string
	Values []float64
}

// Get returns the named feature value.
func (v FeatureVector) Get(name string) (float64, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

// FeatureTable holds one complete feature row per candle that survived
// warm-up trimming. Rows never contain undefined values; bars with any
// undefined feature are dropped, not null-padded.
type FeatureTable struct {
	Names []string
	Times []time.Time
	Rows  [][]float64
}

func (t *FeatureTable) Len() int { return len(t.Rows) }

// Latest returns the most recent complete row. ok is false for an empty
// table.
func (t *FeatureTable) Latest() (FeatureVector, bool) {
	if len(t.Rows) == 0 {
		return FeatureVector{}, false
	}
	i := len(t.Rows) - 1
	return FeatureVector{Time: t.Times[i], Names: t.Names, Values: t.Rows[i]}, true
}

// Compute builds the feature table from a candle series. It is
// deterministic and side-effect free. Fewer than MinBars candles is not an
// error; the result is simply a table with zero rows.
func Compute(cs *market.CandleSet) *FeatureTable {
	closes := cs.Closes()
	highs := cs.Highs()
	lows := cs.Lows()
	volumes := cs.Volumes()
	n := len(closes)

	names := make([]string, 0, 38)
	cols := make([][]float64, 0, 38)
	add := func(name string, col []float64) {
		names = append(names, name)
		cols = append(cols, col)
	}

	// Returns
	ret1 := pctChange(closes, 1)
	add("ret1", ret1)
	add("ret5", pctChange(closes, 5))
	add("ret10", pctChange(closes, 10))
	add("log_ret", logReturn(closes))

	// Trend
	var ma20 []float64
	for _, p := range maPeriods {
		ma := SMA(closes, p)
		if p == 20 {
			ma20 = ma
		}
		add(fmt.Sprintf("ma%d", p), ma)
		add(fmt.Sprintf("ema%d", p), EMA(closes, p))
		add(fmt.Sprintf("close_ma%d_ratio", p), ratio(closes, ma))
	}

	// Momentum
	add("rsi", rsi(closes, 14))
	macd, macdSignal, macdHist := macdSeries(closes, 12, 26, 9)
	add("macd", macd)
	add("macd_signal", macdSignal)
	add("macd_hist", macdHist)

	// Bollinger bands
	bbStd := rollingStd(closes, 20)
	bbUpper := make([]float64, n)
	bbLower := make([]float64, n)
	bbWidth := make([]float64, n)
	bbPosition := make([]float64, n)
	for i := 0; i < n; i++ {
		bbUpper[i] = ma20[i] + 2*bbStd[i]
		bbLower[i] = ma20[i] - 2*bbStd[i]
		bbWidth[i] = (bbUpper[i] - bbLower[i]) / ma20[i]
		// Zero band width has no defined position; the row gets dropped.
		bbPosition[i] = (closes[i] - bbLower[i]) / (bbUpper[i] - bbLower[i])
	}
	add("bb_upper", bbUpper)
	add("bb_middle", ma20)
	add("bb_lower", bbLower)
	add("bb_width", bbWidth)
	add("bb_position", bbPosition)

	// True-range volatility
	atr := atrSeries(highs, lows, closes, 14)
	add("atr", atr)
	add("atr_ratio", ratio(atr, closes))

	// Stochastic oscillator
	stochK := stochasticK(highs, lows, closes, 14)
	add("stoch_k", stochK)
	add("stoch_d", rollingMean(stochK, 3))

	// Volatility of returns
	std5 := rollingStd(ret1, 5)
	std20 := rollingStd(ret1, 20)
	add("std_5", std5)
	add("std_10", rollingStd(ret1, 10))
	add("std_20", std20)
	add("vol_ratio", ratio(std5, std20))
	hlRange := make([]float64, n)
	for i := 0; i < n; i++ {
		if closes[i] == 0 {
			hlRange[i] = nan
			continue
		}
		hlRange[i] = (highs[i] - lows[i]) / closes[i]
	}
	add("hl_range", hlRange)

	// Volume
	volMA20 := SMA(volumes, 20)
	add("volume_ma5", SMA(volumes, 5))
	add("volume_ma20", volMA20)
	add("volume_ratio", ratio(volumes, volMA20))
	add("volume_change", pctChange(volumes, 1))

	// Warm-up trimming: keep only rows where every feature is defined.
	table := &FeatureTable{Names: names}
	for i := 0; i < n; i++ {
		row := make([]float64, len(cols))
		complete := true
		for j, col := range cols {
			v := col[i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				complete = false
				break
			}
			row[j] = v
		}
		if !complete {
			continue
		}
		table.Times = append(table.Times, cs.Candles[i].Time)
		table.Rows = append(table.Rows, row)
	}
	return table
}

// ratio divides two series element-wise; zero denominators yield NaN so the
// row is dropped rather than producing an undefined value.
func ratio(num, den []float64) []float64 {
	out := fill(len(num))
	for i := range num {
		if den[i] == 0 {
			continue
		}
		out[i] = num[i] / den[i]
	}
	return out
}

// rsi computes the relative strength index from rolling means of gains and
// losses. A zero average loss with positive gains maps to 100; a fully
// flat window has no defined RSI and the row is dropped.
func rsi(closes []float64, period int) []float64 {
	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}

	avgGain := rollingMean(gains, period)
	avgLoss := rollingMean(losses, period)

	out := fill(n)
	for i := range out {
		g, l := avgGain[i], avgLoss[i]
		if math.IsNaN(g) || math.IsNaN(l) {
			continue
		}
		if l == 0 {
			if g > 0 {
				out[i] = 100
			}
			continue
		}
		rs := g / l
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// macdSeries returns MACD line, signal line and histogram.
func macdSeries(closes []float64, fast, slow, signal int) (macd, sig, hist []float64) {
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	macd = make([]float64, len(closes))
	for i := range macd {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	sig = EMA(macd, signal)
	hist = make([]float64, len(closes))
	for i := range hist {
		hist[i] = macd[i] - sig[i]
	}
	return macd, sig, hist
}

// atrSeries computes the average true range:
// TR = max(high-low, |high-prev close|, |low-prev close|), averaged over
// the period. The first bar's true range is just high-low.
func atrSeries(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	tr := make([]float64, n)
	for i := 0; i < n; i++ {
		r := highs[i] - lows[i]
		if i > 0 {
			if hc := math.Abs(highs[i] - closes[i-1]); hc > r {
				r = hc
			}
			if lc := math.Abs(lows[i] - closes[i-1]); lc > r {
				r = lc
			}
		}
		tr[i] = r
	}
	return rollingMean(tr, period)
}

// stochasticK computes %K of the stochastic oscillator. A flat 14-bar
// range has no defined %K.
func stochasticK(highs, lows, closes []float64, period int) []float64 {
	lowMin := rollingMin(lows, period)
	highMax := rollingMax(highs, period)

	out := fill(len(closes))
	for i := range out {
		lo, hi := lowMin[i], highMax[i]
		if math.IsNaN(lo) || math.IsNaN(hi) || hi == lo {
			continue
		}
		out[i] = 100 * (closes[i] - lo) / (hi - lo)
	}
	return out
}
