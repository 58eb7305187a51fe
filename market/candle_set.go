package market

import (
	"fmt"
	"math"
)

// CandleSet holds an ordered, validated candle series for one instrument.
// Validation happens once at the ingestion boundary so downstream code can
// trust the data instead of re-checking it ad hoc.
type CandleSet struct {
	Instrument string
	Candles    []Candle
}

// NewCandleSet validates and wraps a candle series.
// Candles must be ordered ascending by timestamp with unique timestamps,
// and all values must be non-negative finite numbers.
func NewCandleSet(instrument string, candles []Candle) (*CandleSet, error) {
	for i, c := range candles {
		if i > 0 && !candles[i-1].Time.Before(c.Time) {
			return nil, fmt.Errorf("market: candles out of order at index %d (%s >= %s)",
				i, candles[i-1].Time, c.Time)
		}
		for _, v := range [5]float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("market: bad value in candle at index %d (%s)", i, c.Time)
			}
		}
	}
	return &CandleSet{Instrument: instrument, Candles: candles}, nil
}

func (cs *CandleSet) Len() int { return len(cs.Candles) }

// Closes returns the close price series.
func (cs *CandleSet) Closes() []float64 {
	out := make([]float64, len(cs.Candles))
	for i, c := range cs.Candles {
		out[i] = c.Close
	}
	return out
}

// Highs returns the high price series.
func (cs *CandleSet) Highs() []float64 {
	out := make([]float64, len(cs.Candles))
	for i, c := range cs.Candles {
		out[i] = c.High
	}
	return out
}

// Lows returns the low price series.
func (cs *CandleSet) Lows() []float64 {
	out := make([]float64, len(cs.Candles))
	for i, c := range cs.Candles {
		out[i] = c.Low
	}
	return out
}

// Volumes returns the volume series.
func (cs *CandleSet) Volumes() []float64 {
	out := make([]float64, len(cs.Candles))
	for i, c := range cs.Candles {
		out[i] = c.Volume
	}
	return out
}
