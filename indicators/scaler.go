package indicators

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/anaslari23/Stock-predictor/internal/logging"
)

// Scaler is the persisted normalization transform fitted at training time.
// It applies a per-feature center/scale to a vector; the feature order in
// the artifact must match the pipeline's order.
type Scaler struct {
	Features []ScalerFeature `yaml:"features"`
}

// ScalerFeature holds the fitted center and scale for one feature.
type ScalerFeature struct {
	Name string  `yaml:"name"`
	Mean float64 `yaml:"mean"`
	Std  float64 `yaml:"std"`
}

// LoadScaler reads the fitted scaler artifact. A missing artifact is not
// fatal: it returns (nil, nil) and all downstream calls run unnormalized.
// A present-but-unreadable artifact is a real failure and propagates.
func LoadScaler(path string) (*Scaler, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logging.L().Warnw("scaler artifact not found, running unnormalized", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read scaler: %w", err)
	}

	var s Scaler
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scaler: %w", err)
	}
	logging.L().Infow("loaded scaler", "path", path, "features", len(s.Features))
	return &s, nil
}

// Apply normalizes the vector in a new slice. It fails soft: on any
// mismatch between the fitted features and the vector, the input is
// returned untouched and ok is false so the caller can flag the
// degradation instead of aborting.
func (s *Scaler) Apply(vec FeatureVector) (FeatureVector, bool) {
	if s == nil {
		return vec, false
	}
	if len(s.Features) != len(vec.Values) {
		logging.L().Errorw("scaler dimension mismatch, returning unnormalized vector",
			"fitted", len(s.Features), "vector", len(vec.Values))
		return vec, false
	}

	out := FeatureVector{Time: vec.Time, Names: vec.Names, Values: make([]float64, len(vec.Values))}
	for i, f := range s.Features {
		if f.Name != vec.Names[i] {
			logging.L().Errorw("scaler feature order mismatch, returning unnormalized vector",
				"index", i, "fitted", f.Name, "vector", vec.Names[i])
			return vec, false
		}
		std := f.Std
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		out.Values[i] = (vec.Values[i] - f.Mean) / std
	}
	return out, true
}
