package cmd

import (
	"github.com/spf13/cobra"

	"github.com/anaslari23/Stock-predictor/config"
	"github.com/anaslari23/Stock-predictor/indicators"
	"github.com/anaslari23/Stock-predictor/internal/logging"
	"github.com/anaslari23/Stock-predictor/predict"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "predictor",
	Short: "Technical-feature stock direction estimator and research tool",
	Long: `Predictor turns OHLCV candle history into a normalized technical
feature vector, estimates the probability of an upward move with an
ensemble of scorer backends, and evaluates the signal with a long-only
backtest. The screen command fans the pipeline out across an instrument
universe and ranks the results.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgFile)
}

// buildPredictor wires the estimator from the configured artifacts.
// Missing artifacts degrade (unnormalized vectors, default weights, mock
// fallback); broken artifacts are real errors.
func buildPredictor(cfg *config.Config) (*predict.Predictor, error) {
	scaler, err := indicators.LoadScaler(cfg.Models.ScalerPath)
	if err != nil {
		return nil, err
	}

	weights, err := predict.LoadWeights(cfg.Models.WeightsPath)
	if err != nil {
		return nil, err
	}

	var scorers []predict.Scorer
	for _, path := range []string{cfg.Models.PrimaryPath, cfg.Models.SecondaryPath} {
		if path == "" {
			continue
		}
		s, err := predict.LoadLinearScorer(path)
		if err != nil {
			return nil, err
		}
		if s != nil {
			scorers = append(scorers, s)
		}
	}

	return predict.NewPredictor(scaler, weights, scorers...), nil
}
