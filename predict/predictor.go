package predict

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/anaslari23/Stock-predictor/indicators"
	"github.com/anaslari23/Stock-predictor/internal/logging"
	"github.com/anaslari23/Stock-predictor/market"
	"github.com/anaslari23/Stock-predictor/pkg/id"
)

// Direction of the predicted move.
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// MockSource is the source name recorded when no scorer backend is
// available and the deterministic placeholder fallback was used. A result
// carrying only this source is not a real signal.
const MockSource = "mock"

// Result is one immutable prediction.
type Result struct {
	ID           string    `json:"id"`
	Instrument   string    `json:"instrument"`
	Direction    Direction `json:"direction"`
	Probability  float64   `json:"probability"`
	Confidence   float64   `json:"confidence"`
	FeatureNames []string  `json:"features_used"`
	Sources      []string  `json:"sources_used"`
	Normalized   bool      `json:"normalized"`
	Timestamp    time.Time `json:"timestamp"`

	// Screener annotations, filled from the latest feature row so filter
	// predicates can run without refetching data.
	RSI       float64 `json:"rsi"`
	MACD      float64 `json:"macd"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_percent"`
}

// Predictor combines per-source probability scores into one probability
// with graceful degradation: a missing scaler means unnormalized vectors,
// and zero configured scorers fall back to a deterministic placeholder.
type Predictor struct {
	scaler  *indicators.Scaler
	weights Weights
	scorers []Scorer
}

// NewPredictor wires the estimator. scaler may be nil (unnormalized mode)
// and scorers may be empty (mock fallback mode); weights nil means
// defaults.
func NewPredictor(scaler *indicators.Scaler, weights Weights, scorers ...Scorer) *Predictor {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Predictor{scaler: scaler, weights: weights, scorers: scorers}
}

// Predict runs the feature pipeline over the candles and produces a
// Result. It errors only when no complete feature row exists; per-backend
// problems degrade, they do not abort.
func (p *Predictor) Predict(ctx context.Context, cs *market.CandleSet) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	table := indicators.Compute(cs)
	vec, ok := table.Latest()
	if !ok {
		return Result{}, fmt.Errorf("predict: no valid features for %s (%d candles)",
			cs.Instrument, cs.Len())
	}

	if n := cs.Len(); n > 0 && !vec.Time.Equal(cs.Candles[n-1].Time) {
		logging.L().Warnw("latest feature row incomplete, using prior complete row",
			"instrument", cs.Instrument, "row_time", vec.Time, "last_candle", cs.Candles[n-1].Time)
	}

	scored := vec
	normalized := false
	if p.scaler != nil {
		scored, normalized = p.scaler.Apply(vec)
	}

	scores := p.collectScores(scored)
	var prob float64
	var sources []string
	if len(scores) == 0 {
		prob = mockProbability(cs.Instrument)
		sources = []string{MockSource}
		logging.L().Warnw("no scorer backends available, using mock prediction",
			"instrument", cs.Instrument, "probability", prob)
	} else {
		prob = p.combine(scores)
		sources = make([]string, 0, len(scores))
		for _, s := range p.scorers {
			if _, ok := scores[s.Name()]; ok {
				sources = append(sources, s.Name())
			}
		}
	}

	direction := DirectionDown
	if prob >= 0.5 {
		direction = DirectionUp
	}
	confidence := prob
	if confidence < 0.5 {
		confidence = 1 - prob
	}

	res := Result{
		ID:           id.New(),
		Instrument:   cs.Instrument,
		Direction:    direction,
		Probability:  prob,
		Confidence:   confidence,
		FeatureNames: vec.Names,
		Sources:      sources,
		Normalized:   normalized,
		Timestamp:    time.Now().UTC(),
	}

	// Raw (unnormalized) values: the filters compare against absolute
	// indicator levels.
	if v, ok := vec.Get("rsi"); ok {
		res.RSI = v
	}
	if v, ok := vec.Get("macd"); ok {
		res.MACD = v
	}
	if v, ok := vec.Get("ret1"); ok {
		res.ChangePct = v * 100
	}
	if n := cs.Len(); n > 0 {
		res.Price = cs.Candles[n-1].Close
	}
	return res, nil
}

// collectScores asks every configured backend for a probability. Failing
// backends are logged and skipped; they are absent from the set, never an
// error.
func (p *Predictor) collectScores(vec indicators.FeatureVector) ScoreSet {
	scores := make(ScoreSet, len(p.scorers))
	for _, s := range p.scorers {
		prob, err := s.Score(vec)
		if err != nil {
			logging.L().Warnw("scorer failed, excluding from ensemble",
				"source", s.Name(), "error", err)
			continue
		}
		if prob < 0 {
			prob = 0
		} else if prob > 1 {
			prob = 1
		}
		scores[s.Name()] = prob
	}
	return scores
}

// combine is the ensemble rule: sum(w_i * p_i) / sum(w_i).
func (p *Predictor) combine(scores ScoreSet) float64 {
	var weightedSum, totalWeight float64
	for name, prob := range scores {
		w := p.weights.Get(name)
		weightedSum += prob * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0.5
	}
	return weightedSum / totalWeight
}

// mockProbability is the documented placeholder used when no scorer is
// configured: a pseudo-random value in 0.5±0.3 seeded by a stable hash of
// the instrument, so repeated calls for the same instrument return the
// identical probability. It is explicitly not a statistical signal.
func mockProbability(instrument string) float64 {
	h := fnv.New64a()
	h.Write([]byte(instrument))
	rng := rand.New(rand.NewSource(int64(h.Sum64() % 10000)))
	return 0.5 + (rng.Float64()*0.6 - 0.3)
}
