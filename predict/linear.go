package predict

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/anaslari23/Stock-predictor/indicators"
	"github.com/anaslari23/Stock-predictor/internal/logging"
)

// LinearScorer scores a feature vector with a fitted logistic model
// exported by the training pipeline: sigmoid(bias + coef · vector).
// Coefficients are ordered exactly like the pipeline's feature names.
type LinearScorer struct {
	Source string    `yaml:"source"`
	Bias   float64   `yaml:"bias"`
	Coef   []float64 `yaml:"coef"`
}

// LoadLinearScorer reads a model artifact. A missing artifact means the
// backend is not configured: it returns (nil, nil) so the caller simply
// leaves it out of the ensemble.
func LoadLinearScorer(path string) (*LinearScorer, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logging.L().Warnw("model artifact not found, backend not loaded", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var s LinearScorer
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if s.Source == "" {
		return nil, fmt.Errorf("model %s: missing source name", path)
	}
	logging.L().Infow("loaded model", "path", path, "source", s.Source, "coefficients", len(s.Coef))
	return &s, nil
}

func (s *LinearScorer) Name() string { return s.Source }

// Score returns the probability of an upward move.
func (s *LinearScorer) Score(vec indicators.FeatureVector) (float64, error) {
	if len(s.Coef) != len(vec.Values) {
		return 0, fmt.Errorf("model %s: expected %d features, got %d",
			s.Source, len(s.Coef), len(vec.Values))
	}

	z := s.Bias
	for i, c := range s.Coef {
		z += c * vec.Values[i]
	}
	return 1 / (1 + math.Exp(-z)), nil
}
