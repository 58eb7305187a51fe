package predict

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anaslari23/Stock-predictor/indicators"
	"github.com/anaslari23/Stock-predictor/market"
)

// stubScorer returns a fixed probability, or an error when broken.
type stubScorer struct {
	name   string
	prob   float64
	broken bool
}

func (s stubScorer) Name() string { return s.name }

func (s stubScorer) Score(vec indicators.FeatureVector) (float64, error) {
	if s.broken {
		return 0, errors.New("backend unavailable")
	}
	return s.prob, nil
}

func risingCandleSet(t *testing.T, instrument string, n int) *market.CandleSet {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]market.Candle, n)
	for i := range candles {
		c := 100.0 + float64(i)
		candles[i] = market.Candle{
			Time:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000 + float64(i*10),
		}
	}
	cs, err := market.NewCandleSet(instrument, candles)
	require.NoError(t, err)
	return cs
}

func TestPredict_EnsembleWeightedAverage(t *testing.T) {
	p := NewPredictor(nil,
		Weights{"primary": 0.6, "secondary": 0.4},
		stubScorer{name: "primary", prob: 0.8},
		stubScorer{name: "secondary", prob: 0.2},
	)

	res, err := p.Predict(context.Background(), risingCandleSet(t, "AAPL", 60))
	require.NoError(t, err)

	// (0.8*0.6 + 0.2*0.4) / 1.0 = 0.56
	assert.InDelta(t, 0.56, res.Probability, 1e-12)
	assert.Equal(t, DirectionUp, res.Direction)
	assert.InDelta(t, 0.56, res.Confidence, 1e-12)
	assert.Equal(t, []string{"primary", "secondary"}, res.Sources)
	assert.False(t, res.Normalized)
	assert.NotEmpty(t, res.ID)
	assert.Len(t, res.FeatureNames, 38)
}

func TestPredict_UnknownSourceGetsHalfWeight(t *testing.T) {
	p := NewPredictor(nil, DefaultWeights(),
		stubScorer{name: "primary", prob: 0.9},
		stubScorer{name: "experimental", prob: 0.1},
	)

	res, err := p.Predict(context.Background(), risingCandleSet(t, "AAPL", 60))
	require.NoError(t, err)

	// (0.9*0.6 + 0.1*0.5) / 1.1
	assert.InDelta(t, (0.9*0.6+0.1*0.5)/1.1, res.Probability, 1e-12)
}

func TestPredict_BrokenBackendIsAbsentNotFatal(t *testing.T) {
	p := NewPredictor(nil, DefaultWeights(),
		stubScorer{name: "primary", prob: 0.7},
		stubScorer{name: "secondary", broken: true},
	)

	res, err := p.Predict(context.Background(), risingCandleSet(t, "AAPL", 60))
	require.NoError(t, err)
	assert.Equal(t, []string{"primary"}, res.Sources)
	assert.InDelta(t, 0.7, res.Probability, 1e-12)
}

func TestPredict_MockFallbackIsDeterministic(t *testing.T) {
	p := NewPredictor(nil, nil)

	first, err := p.Predict(context.Background(), risingCandleSet(t, "RELIANCE", 60))
	require.NoError(t, err)
	second, err := p.Predict(context.Background(), risingCandleSet(t, "RELIANCE", 60))
	require.NoError(t, err)

	assert.Equal(t, []string{MockSource}, first.Sources)
	assert.Equal(t, first.Probability, second.Probability)
	assert.GreaterOrEqual(t, first.Probability, 0.2)
	assert.LessOrEqual(t, first.Probability, 0.8)

	other, err := p.Predict(context.Background(), risingCandleSet(t, "TCS", 60))
	require.NoError(t, err)
	assert.NotEqual(t, first.Probability, other.Probability)
}

func TestPredict_DirectionAndConfidence(t *testing.T) {
	p := NewPredictor(nil, DefaultWeights(), stubScorer{name: "primary", prob: 0.2})

	res, err := p.Predict(context.Background(), risingCandleSet(t, "AAPL", 60))
	require.NoError(t, err)
	assert.Equal(t, DirectionDown, res.Direction)
	assert.InDelta(t, 0.8, res.Confidence, 1e-12)
}

func TestPredict_ShortHistoryErrors(t *testing.T) {
	p := NewPredictor(nil, nil)

	_, err := p.Predict(context.Background(), risingCandleSet(t, "AAPL", 20))
	assert.Error(t, err)
}

func TestPredict_ScreenerAnnotations(t *testing.T) {
	p := NewPredictor(nil, nil)

	cs := risingCandleSet(t, "AAPL", 60)
	res, err := p.Predict(context.Background(), cs)
	require.NoError(t, err)

	assert.Equal(t, 100.0, res.RSI) // monotonically rising closes
	assert.Greater(t, res.MACD, 0.0)
	assert.Equal(t, cs.Candles[59].Close, res.Price)
	assert.Greater(t, res.ChangePct, 0.0)
}

func TestWeights_Get(t *testing.T) {
	w := DefaultWeights()
	assert.Equal(t, 0.6, w.Get("primary"))
	assert.Equal(t, 0.4, w.Get("secondary"))
	assert.Equal(t, 0.5, w.Get("anything-else"))
}

func TestLinearScorer_Score(t *testing.T) {
	s := &LinearScorer{Source: "primary", Bias: 0, Coef: []float64{1, -1}}

	vec := indicators.FeatureVector{Names: []string{"a", "b"}, Values: []float64{2, 2}}
	prob, err := s.Score(vec)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, prob, 1e-12) // z = 0

	_, err = s.Score(indicators.FeatureVector{Values: []float64{1}})
	assert.Error(t, err)
}
