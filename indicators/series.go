package indicators

import "math"

// Series helpers operate on full price/volume slices and return slices of
// the same length, with NaN marking bars that have insufficient lookback.
// Rows containing NaN are trimmed later when the feature table is built.

var nan = math.NaN()

// SMA returns the simple moving average over the given window.
// The first period-1 values are NaN.
func SMA(values []float64, period int) []float64 {
	out := fill(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA returns the exponential moving average with multiplier 2/(period+1),
// seeded from the first value. Every bar has a defined value.
func EMA(values []float64, period int) []float64 {
	out := fill(len(values))
	if period <= 0 || len(values) == 0 {
		return out
	}

	mult := 2.0 / float64(period+1)
	ema := values[0]
	out[0] = ema
	for i := 1; i < len(values); i++ {
		ema = (values[i]-ema)*mult + ema
		out[i] = ema
	}
	return out
}

// pctChange returns the fractional change over lag bars:
// (v[i] - v[i-lag]) / v[i-lag].
func pctChange(values []float64, lag int) []float64 {
	out := fill(len(values))
	for i := lag; i < len(values); i++ {
		prev := values[i-lag]
		if prev == 0 {
			continue // leave NaN, a zero base has no defined change
		}
		out[i] = (values[i] - prev) / prev
	}
	return out
}

// logReturn returns ln(v[i] / v[i-1]).
func logReturn(values []float64) []float64 {
	out := fill(len(values))
	for i := 1; i < len(values); i++ {
		if values[i] <= 0 || values[i-1] <= 0 {
			continue
		}
		out[i] = math.Log(values[i] / values[i-1])
	}
	return out
}

// rollingStd returns the sample standard deviation over the window.
// Any NaN inside the window yields NaN, matching the warm-up of the
// underlying series.
func rollingStd(values []float64, period int) []float64 {
	out := fill(len(values))
	if period <= 1 || len(values) < period {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]
		mean := 0.0
		ok := true
		for _, v := range window {
			if math.IsNaN(v) {
				ok = false
				break
			}
			mean += v
		}
		if !ok {
			continue
		}
		mean /= float64(period)

		ss := 0.0
		for _, v := range window {
			d := v - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(period-1))
	}
	return out
}

// rollingMin returns the minimum over the window.
func rollingMin(values []float64, period int) []float64 {
	out := fill(len(values))
	for i := period - 1; i < len(values); i++ {
		m := values[i]
		for j := i - period + 1; j < i; j++ {
			if values[j] < m {
				m = values[j]
			}
		}
		out[i] = m
	}
	return out
}

// rollingMax returns the maximum over the window.
func rollingMax(values []float64, period int) []float64 {
	out := fill(len(values))
	for i := period - 1; i < len(values); i++ {
		m := values[i]
		for j := i - period + 1; j < i; j++ {
			if values[j] > m {
				m = values[j]
			}
		}
		out[i] = m
	}
	return out
}

// rollingMean averages the window, requiring every value to be defined.
func rollingMean(values []float64, period int) []float64 {
	out := fill(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		ok := true
		for j := i - period + 1; j <= i; j++ {
			if math.IsNaN(values[j]) {
				ok = false
				break
			}
			sum += values[j]
		}
		if ok {
			out[i] = sum / float64(period)
		}
	}
	return out
}

func fill(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = nan
	}
	return out
}
