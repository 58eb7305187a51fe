package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anaslari23/Stock-predictor/journal"
	"github.com/anaslari23/Stock-predictor/market"
)

var predictCSVPath string

var predictCmd = &cobra.Command{
	Use:   "predict <instrument>",
	Short: "Estimate the probability of an upward move for one instrument",
	Long: `Predict runs the feature pipeline over the instrument's candle
history and combines the configured scorer backends into one probability.

With no model artifacts configured the command still answers, using the
deterministic mock fallback (sources will show "mock").`,
	Args: cobra.ExactArgs(1),
	RunE: runPredict,
}

func init() {
	rootCmd.AddCommand(predictCmd)
	predictCmd.Flags().StringVar(&predictCSVPath, "csv", "", "candle CSV path (default <data_dir>/<instrument>.csv)")
}

func runPredict(cmd *cobra.Command, args []string) error {
	instrument := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cs, err := loadCandles(cfg.Screener.DataDir, instrument, predictCSVPath)
	if err != nil {
		return err
	}

	predictor, err := buildPredictor(cfg)
	if err != nil {
		return err
	}

	res, err := predictor.Predict(context.Background(), cs)
	if err != nil {
		return err
	}

	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()
	if err := j.RecordPrediction(res); err != nil {
		return fmt.Errorf("record prediction: %w", err)
	}

	fmt.Printf("Prediction for %s\n", res.Instrument)
	fmt.Printf("  ID:          %s\n", res.ID)
	fmt.Printf("  Direction:   %s\n", res.Direction)
	fmt.Printf("  Probability: %.4f\n", res.Probability)
	fmt.Printf("  Confidence:  %.4f\n", res.Confidence)
	fmt.Printf("  Sources:     %s\n", strings.Join(res.Sources, ", "))
	fmt.Printf("  Normalized:  %v\n", res.Normalized)
	fmt.Printf("  Timestamp:   %s\n", res.Timestamp.Format(time.RFC3339))
	return nil
}

func loadCandles(dataDir, instrument, csvPath string) (*market.CandleSet, error) {
	if csvPath == "" {
		src := market.NewDirSource(dataDir)
		candles, err := src.GetCandles(context.Background(), instrument, "")
		if err != nil {
			return nil, err
		}
		return market.NewCandleSet(instrument, candles)
	}

	candles, err := market.LoadCSV(csvPath)
	if err != nil {
		return nil, err
	}
	return market.NewCandleSet(instrument, candles)
}
