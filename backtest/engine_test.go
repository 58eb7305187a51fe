package backtest

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anaslari23/Stock-predictor/market"
)

func candleSet(t *testing.T, closes []float64) *market.CandleSet {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]market.Candle, len(closes))
	for i, c := range closes {
		candles[i] = market.Candle{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	cs, err := market.NewCandleSet("TEST", candles)
	require.NoError(t, err)
	return cs
}

func flatCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100
	}
	return closes
}

func risingCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 2*float64(i)
	}
	return closes
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{EntryThreshold: 0.55, ExitThreshold: 0.5}
	assert.NoError(t, valid.Validate())

	for _, cfg := range []Config{
		{EntryThreshold: 1.1, ExitThreshold: 0.5},
		{EntryThreshold: -0.1, ExitThreshold: 0.5},
		{EntryThreshold: 0.55, ExitThreshold: 2},
		{EntryThreshold: 0.55, ExitThreshold: -1},
		{EntryThreshold: 0.55, ExitThreshold: 0.5, FeeBps: -1},
		{EntryThreshold: 0.55, ExitThreshold: 0.5, SlippageBps: -1},
	} {
		_, err := New(cfg)
		assert.Error(t, err, "%+v", cfg)
	}
}

func TestRunWithSignal_InsufficientData(t *testing.T) {
	engine, err := New(Config{EntryThreshold: 0.55, ExitThreshold: 0.5})
	require.NoError(t, err)

	// 29 usable bars is a hard error.
	cs := candleSet(t, flatCloses(29))
	signal := make([]float64, 29)
	for i := range signal {
		signal[i] = 0.5
	}
	_, err = engine.RunWithSignal(cs, signal)
	assert.True(t, errors.Is(err, ErrInsufficientData))

	// 30 usable bars is fine.
	cs = candleSet(t, flatCloses(30))
	signal = append(signal, 0.5)
	_, err = engine.RunWithSignal(cs, signal)
	assert.NoError(t, err)
}

func TestRunWithSignal_LengthMismatch(t *testing.T) {
	engine, err := New(Config{EntryThreshold: 0.55, ExitThreshold: 0.5})
	require.NoError(t, err)

	_, err = engine.RunWithSignal(candleSet(t, flatCloses(40)), make([]float64, 39))
	assert.Error(t, err)
}

func TestRun_FlatPricesNoTrades(t *testing.T) {
	engine, err := New(Config{EntryThreshold: 0.55, ExitThreshold: 0.5})
	require.NoError(t, err)

	res, err := engine.Run(candleSet(t, flatCloses(60)))
	require.NoError(t, err)

	assert.Empty(t, res.Trades)
	assert.Equal(t, 0, res.Metrics.Trades)
	assert.Equal(t, 1.0, res.FinalEquity)
	for _, p := range res.EquityCurve {
		assert.Equal(t, 1.0, p.Equity)
	}
	assert.Equal(t, 0.0, res.Metrics.Sharpe)
	assert.Equal(t, 0.0, res.Metrics.MaxDrawdown)
	assert.Equal(t, 0.0, res.Metrics.WinRate)
}

func TestRun_RisingMarketSingleTrade(t *testing.T) {
	engine, err := New(Config{EntryThreshold: 0.55, ExitThreshold: 0.5})
	require.NoError(t, err)

	res, err := engine.Run(candleSet(t, risingCloses(60)))
	require.NoError(t, err)

	// Price stays above its 20-bar MA for the whole series: one entry,
	// held to the end and force-closed.
	require.Len(t, res.Trades, 1)
	assert.Greater(t, res.FinalEquity, 1.0)
	assert.Greater(t, res.Trades[0].ReturnFraction, 0.0)
	assert.Equal(t, 1.0, res.Metrics.WinRate)
	assert.Greater(t, res.Metrics.Sharpe, 0.0)
}

func TestRun_FeesReduceReturns(t *testing.T) {
	free, err := New(Config{EntryThreshold: 0.55, ExitThreshold: 0.5})
	require.NoError(t, err)
	costly, err := New(Config{EntryThreshold: 0.55, ExitThreshold: 0.5, FeeBps: 50, SlippageBps: 25})
	require.NoError(t, err)

	cs := candleSet(t, risingCloses(60))

	freeRes, err := free.Run(cs)
	require.NoError(t, err)
	costlyRes, err := costly.Run(cs)
	require.NoError(t, err)

	assert.Greater(t, freeRes.FinalEquity, costlyRes.FinalEquity)
}

func TestRun_ShortHistoryInsufficient(t *testing.T) {
	engine, err := New(Config{EntryThreshold: 0.55, ExitThreshold: 0.5})
	require.NoError(t, err)

	// 48 candles leave 29 bars after the 20-bar MA warm-up.
	_, err = engine.Run(candleSet(t, flatCloses(48)))
	assert.True(t, errors.Is(err, ErrInsufficientData))

	_, err = engine.Run(candleSet(t, flatCloses(49)))
	assert.NoError(t, err)
}

func TestRunWithSignal_EntryExitRoundTrip(t *testing.T) {
	engine, err := New(Config{EntryThreshold: 0.6, ExitThreshold: 0.4})
	require.NoError(t, err)

	closes := flatCloses(40)
	closes[35] = 110 // exit bar price

	signal := make([]float64, 40)
	for i := range signal {
		signal[i] = 0.5
	}
	signal[30] = 0.9 // enter at bar 30 (close 100)
	signal[35] = 0.1 // exit at bar 35 (close 110)

	res, err := engine.RunWithSignal(candleSet(t, closes), signal)
	require.NoError(t, err)

	require.Len(t, res.Trades, 1)
	tr := res.Trades[0]
	assert.InDelta(t, 100.0, tr.EntryPrice, 1e-9)
	assert.InDelta(t, 110.0, tr.ExitPrice, 1e-9)
	assert.InDelta(t, 0.1, tr.ReturnFraction, 1e-9)
	assert.InDelta(t, 1.1, res.FinalEquity, 1e-9)
	assert.Equal(t, 1.0, res.Metrics.WinRate)
}

func TestRunWithSignal_TrimsWarmupNaNs(t *testing.T) {
	engine, err := New(Config{EntryThreshold: 0.55, ExitThreshold: 0.5})
	require.NoError(t, err)

	closes := flatCloses(45)
	signal := make([]float64, 45)
	for i := range signal {
		if i < 10 {
			signal[i] = math.NaN()
		} else {
			signal[i] = 0.5
		}
	}

	res, err := engine.RunWithSignal(candleSet(t, closes), signal)
	require.NoError(t, err)
	// 35 usable bars: equity marked from the second one on.
	assert.Len(t, res.EquityCurve, 34)
}
