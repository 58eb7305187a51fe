package predict

import "github.com/anaslari23/Stock-predictor/indicators"

// Scorer is one probability backend. Given the latest (optionally
// normalized) feature vector it returns the probability of an upward move
// in [0, 1].
//
// A backend that is not configured is simply not registered with the
// Predictor; it never shows up as an error.
type Scorer interface {
	Name() string
	Score(vec indicators.FeatureVector) (float64, error)
}

// ScoreSet maps source name to its probability for one prediction call.
// It is built fresh per call and never persisted.
type ScoreSet map[string]float64
