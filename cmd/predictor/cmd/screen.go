package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/anaslari23/Stock-predictor/config"
	"github.com/anaslari23/Stock-predictor/market"
	"github.com/anaslari23/Stock-predictor/screener"
)

var (
	screenFilter string
	screenLimit  int
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Rank an instrument universe by prediction confidence",
	Long: `Screen runs the prediction pipeline across the configured
universe under bounded concurrency, applies a filter, and prints the
matches ranked by confidence.

Filters: high_confidence, bearish, trending, oversold_up, all`,
	RunE: runScreen,
}

func init() {
	rootCmd.AddCommand(screenCmd)
	screenCmd.Flags().StringVarP(&screenFilter, "filter", "f", string(screener.FilterAll), "filter predicate")
	screenCmd.Flags().IntVarP(&screenLimit, "limit", "l", 0, "result cap (default from config)")
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	universe, err := config.LoadUniverse(cfg.Screener.UniverseFile)
	if err != nil {
		return err
	}

	predictor, err := buildPredictor(cfg)
	if err != nil {
		return err
	}

	limit := cfg.Screener.MaxResults
	if screenLimit > 0 {
		limit = screenLimit
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := screener.New(market.NewDirSource(cfg.Screener.DataDir), predictor, cfg.Screener.Workers)
	results, err := s.Screen(ctx, universe, screener.Filter(screenFilter), limit)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	fmt.Printf("%-12s %-5s %-8s %-8s %-8s %-10s %s\n",
		"INSTRUMENT", "DIR", "PROB", "CONF", "RSI", "MACD", "SOURCES")
	for _, r := range results {
		fmt.Printf("%-12s %-5s %-8.4f %-8.4f %-8.2f %-10.4f %v\n",
			r.Instrument, r.Direction, r.Probability, r.Confidence, r.RSI, r.MACD, r.Sources)
	}
	return nil
}
