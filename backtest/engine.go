package backtest

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/anaslari23/Stock-predictor/indicators"
	"github.com/anaslari23/Stock-predictor/internal/logging"
	"github.com/anaslari23/Stock-predictor/market"
)

// ErrInsufficientData is returned when too few usable bars remain after
// the signal's warm-up. Unlike the feature pipeline's soft trimming this
// is a hard error: a backtest over a handful of bars is not a meaningful
// result.
var ErrInsufficientData = errors.New("backtest: insufficient data")

// minUsableBars is the fewest post-warm-up bars a simulation may run on.
const minUsableBars = 30

// signalMAPeriod is the moving-average window of the internally derived
// probability signal.
const signalMAPeriod = 20

// Config are the simulation parameters. Fees and slippage are in basis
// points (1 bp = 0.0001) and converted to fractional rates internally.
type Config struct {
	EntryThreshold float64
	ExitThreshold  float64
	FeeBps         float64
	SlippageBps    float64
}

// Validate rejects out-of-range parameters before any simulation starts.
func (c Config) Validate() error {
	if c.EntryThreshold < 0 || c.EntryThreshold > 1 {
		return fmt.Errorf("backtest: entry threshold %f outside [0,1]", c.EntryThreshold)
	}
	if c.ExitThreshold < 0 || c.ExitThreshold > 1 {
		return fmt.Errorf("backtest: exit threshold %f outside [0,1]", c.ExitThreshold)
	}
	if c.FeeBps < 0 {
		return fmt.Errorf("backtest: negative fee %f bps", c.FeeBps)
	}
	if c.SlippageBps < 0 {
		return fmt.Errorf("backtest: negative slippage %f bps", c.SlippageBps)
	}
	return nil
}

// TradeRecord is appended every time a position closes.
type TradeRecord struct {
	EntryTime      time.Time
	ExitTime       time.Time
	EntryPrice     float64
	ExitPrice      float64
	ReturnFraction float64
}

// EquityPoint is the mark-to-market account value after one bar.
type EquityPoint struct {
	Time   time.Time
	Equity float64
}

// Result is fully determined by the candle series and the Config.
type Result struct {
	Instrument  string
	Metrics     Metrics
	EquityCurve []EquityPoint
	Trades      []TradeRecord
	FinalEquity float64
	Start       time.Time
	End         time.Time
}

// Engine replays a long-only single-position rule bar by bar:
// enter when p_up crosses above the entry threshold, exit when it falls
// below the exit threshold, force-close at the end.
type Engine struct {
	cfg Config
}

func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Run derives the probability signal internally from price vs the 20-bar
// moving average: p_up = 0.5 + 0.5*tanh(3*(close/ma20 - 1)).
func (e *Engine) Run(cs *market.CandleSet) (Result, error) {
	closes := cs.Closes()
	ma := indicators.SMA(closes, signalMAPeriod)

	pUp := make([]float64, len(closes))
	for i := range closes {
		if math.IsNaN(ma[i]) || ma[i] == 0 {
			pUp[i] = math.NaN()
			continue
		}
		pUp[i] = 0.5 + 0.5*math.Tanh(3*(closes[i]/ma[i]-1))
	}
	return e.RunWithSignal(cs, pUp)
}

// RunWithSignal replays an externally supplied per-bar probability signal
// aligned 1:1 with the candles. NaN entries count as warm-up and are
// trimmed.
func (e *Engine) RunWithSignal(cs *market.CandleSet, pUp []float64) (Result, error) {
	if len(pUp) != cs.Len() {
		return Result{}, fmt.Errorf("backtest: signal length %d != candle length %d",
			len(pUp), cs.Len())
	}

	type bar struct {
		time  time.Time
		close float64
		pUp   float64
	}
	var bars []bar
	for i, p := range pUp {
		if math.IsNaN(p) {
			continue
		}
		bars = append(bars, bar{time: cs.Candles[i].Time, close: cs.Candles[i].Close, pUp: p})
	}

	if len(bars) < minUsableBars {
		return Result{}, fmt.Errorf("%w: %d usable bars for %s, need %d",
			ErrInsufficientData, len(bars), cs.Instrument, minUsableBars)
	}

	fee := e.cfg.FeeBps / 10000.0
	slippage := e.cfg.SlippageBps / 10000.0

	cash := 1.0
	units := 0.0
	entryPrice := 0.0
	var entryTime time.Time
	var curve []EquityPoint
	var trades []TradeRecord

	for i := 1; i < len(bars); i++ {
		price := bars[i].close
		signal := bars[i].pUp

		if units == 0 && signal > e.cfg.EntryThreshold {
			buyPrice := price * (1 + fee + slippage)
			if cash > 0 && buyPrice > 0 {
				units = cash / buyPrice
				cash = 0
				entryPrice = buyPrice
				entryTime = bars[i].time
			}
		} else if units > 0 && signal < e.cfg.ExitThreshold {
			sellPrice := price * (1 - fee - slippage)
			cash = units * sellPrice
			trades = append(trades, TradeRecord{
				EntryTime:      entryTime,
				ExitTime:       bars[i].time,
				EntryPrice:     entryPrice,
				ExitPrice:      sellPrice,
				ReturnFraction: (sellPrice - entryPrice) / entryPrice,
			})
			units = 0
			entryPrice = 0
		}

		curve = append(curve, EquityPoint{Time: bars[i].time, Equity: cash + units*price})
	}

	final := cash
	if units > 0 {
		last := bars[len(bars)-1]
		sellPrice := last.close * (1 - fee - slippage)
		final = units * sellPrice
		trades = append(trades, TradeRecord{
			EntryTime:      entryTime,
			ExitTime:       last.time,
			EntryPrice:     entryPrice,
			ExitPrice:      sellPrice,
			ReturnFraction: (sellPrice - entryPrice) / entryPrice,
		})
	} else if len(curve) > 0 {
		final = curve[len(curve)-1].Equity
	}

	res := Result{
		Instrument:  cs.Instrument,
		Metrics:     computeMetrics(curve, trades),
		EquityCurve: curve,
		Trades:      trades,
		FinalEquity: final,
		Start:       bars[0].time,
		End:         bars[len(bars)-1].time,
	}

	logging.L().Infow("backtest complete",
		"instrument", cs.Instrument,
		"bars", len(bars),
		"trades", len(trades),
		"sharpe", res.Metrics.Sharpe,
		"max_drawdown", res.Metrics.MaxDrawdown,
		"final_equity", final)
	return res, nil
}
