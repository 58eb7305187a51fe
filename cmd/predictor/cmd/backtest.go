package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/anaslari23/Stock-predictor/backtest"
	"github.com/anaslari23/Stock-predictor/journal"
	"github.com/anaslari23/Stock-predictor/pkg/id"
)

var (
	btCSVPath     string
	btEntry       float64
	btExit        float64
	btFeeBps      float64
	btSlippageBps float64
)

var backtestCmd = &cobra.Command{
	Use:   "backtest <instrument>",
	Short: "Replay the long-only probability rule over candle history",
	Long: `Backtest derives a probability signal from price vs the 20-bar
moving average and replays it through a single-position state machine,
reporting Sharpe, Sortino, max drawdown and win rate.

Example:
  predictor backtest AAPL --csv data/AAPL.csv --entry 0.55 --exit 0.5`,
	Args: cobra.ExactArgs(1),
	RunE: runBacktest,
}

func init() {
	rootCmd.AddCommand(backtestCmd)
	backtestCmd.Flags().StringVar(&btCSVPath, "csv", "", "candle CSV path (default <data_dir>/<instrument>.csv)")
	backtestCmd.Flags().Float64Var(&btEntry, "entry", -1, "entry threshold (default from config)")
	backtestCmd.Flags().Float64Var(&btExit, "exit", -1, "exit threshold (default from config)")
	backtestCmd.Flags().Float64Var(&btFeeBps, "fee-bps", -1, "fee in basis points (default from config)")
	backtestCmd.Flags().Float64Var(&btSlippageBps, "slippage-bps", -1, "slippage in basis points (default from config)")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	instrument := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	btCfg := backtest.Config{
		EntryThreshold: cfg.Backtest.EntryThreshold,
		ExitThreshold:  cfg.Backtest.ExitThreshold,
		FeeBps:         cfg.Backtest.FeeBps,
		SlippageBps:    cfg.Backtest.SlippageBps,
	}
	if btEntry >= 0 {
		btCfg.EntryThreshold = btEntry
	}
	if btExit >= 0 {
		btCfg.ExitThreshold = btExit
	}
	if btFeeBps >= 0 {
		btCfg.FeeBps = btFeeBps
	}
	if btSlippageBps >= 0 {
		btCfg.SlippageBps = btSlippageBps
	}

	cs, err := loadCandles(cfg.Screener.DataDir, instrument, btCSVPath)
	if err != nil {
		return err
	}

	engine, err := backtest.New(btCfg)
	if err != nil {
		return err
	}

	res, err := engine.Run(cs)
	if err != nil {
		return err
	}

	runID := id.New()
	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()
	if err := j.RecordBacktest(runID, btCfg, res); err != nil {
		return fmt.Errorf("record backtest: %w", err)
	}

	fmt.Println("==================================================")
	fmt.Println(" Backtest Result")
	fmt.Println("==================================================")
	fmt.Printf("Run ID:        %s\n", runID)
	fmt.Printf("Instrument:    %s\n", res.Instrument)
	fmt.Printf("Start:         %s\n", res.Start.Format(time.RFC3339))
	fmt.Printf("End:           %s\n", res.End.Format(time.RFC3339))
	fmt.Printf("Entry/Exit:    %.2f / %.2f\n", btCfg.EntryThreshold, btCfg.ExitThreshold)
	fmt.Printf("Costs:         %.1f bps fee, %.1f bps slippage\n", btCfg.FeeBps, btCfg.SlippageBps)
	fmt.Println()
	fmt.Printf("Trades:        %d\n", res.Metrics.Trades)
	fmt.Printf("Win Rate:      %.2f%%\n", res.Metrics.WinRate*100)
	fmt.Printf("Sharpe:        %.2f\n", res.Metrics.Sharpe)
	fmt.Printf("Sortino:       %.2f\n", res.Metrics.Sortino)
	fmt.Printf("Max Drawdown:  %.2f%%\n", res.Metrics.MaxDrawdown*100)
	fmt.Printf("Final Equity:  %.4f\n", res.FinalEquity)
	return nil
}
