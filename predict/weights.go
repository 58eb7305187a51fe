package predict

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/anaslari23/Stock-predictor/internal/logging"
)

// Weights maps a scorer name to its non-negative ensemble weight.
type Weights map[string]float64

// DefaultWeights is the fallback mapping used when no weights artifact
// exists.
func DefaultWeights() Weights {
	return Weights{"primary": 0.6, "secondary": 0.4}
}

// unknownWeight is used for scorer names absent from the mapping.
const unknownWeight = 0.5

// Get returns the weight for a source, falling back for unknown names.
func (w Weights) Get(source string) float64 {
	if v, ok := w[source]; ok {
		return v
	}
	return unknownWeight
}

// LoadWeights reads the ensemble weights artifact. Absence is soft and
// yields the defaults; a present-but-broken artifact propagates as an
// error.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logging.L().Warnw("weights artifact not found, using defaults", "path", path)
		return DefaultWeights(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}

	var w Weights
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse weights: %w", err)
	}
	for name, v := range w {
		if v < 0 {
			return nil, fmt.Errorf("weights: negative weight %f for %q", v, name)
		}
	}
	logging.L().Infow("loaded ensemble weights", "path", path, "sources", len(w))
	return w, nil
}
