// Package screener fans the prediction pipeline out across an instrument
// universe under bounded concurrency and ranks the survivors.
package screener

import (
	"context"
	"sort"
	"sync"

	"github.com/anaslari23/Stock-predictor/internal/logging"
	"github.com/anaslari23/Stock-predictor/market"
	"github.com/anaslari23/Stock-predictor/predict"
)

// Filter selects which predictions survive the screen.
type Filter string

const (
	// FilterHighConfidence keeps UP predictions with probability > 0.7.
	FilterHighConfidence Filter = "high_confidence"
	// FilterBearish keeps DOWN predictions with probability < 0.3.
	FilterBearish Filter = "bearish"
	// FilterTrending keeps UP predictions with positive MACD and probability > 0.6.
	FilterTrending Filter = "trending"
	// FilterOversoldUp keeps UP predictions with RSI < 30 and probability > 0.55.
	FilterOversoldUp Filter = "oversold_up"
	// FilterAll keeps any direction with confidence > 0.6.
	FilterAll Filter = "all"
)

// DefaultWorkers bounds how many instrument evaluations run at once so
// the external data source is not overwhelmed.
const DefaultWorkers = 10

// defaultRange is the candle history requested per instrument.
const defaultRange = "6mo"

// Screener runs the feature + ensemble pipeline per instrument.
// Evaluations share no mutable state; the scaler and weights inside the
// predictor are read-only after load.
type Screener struct {
	source    market.CandleSource
	predictor *predict.Predictor
	workers   int
	rng       string
}

func New(source market.CandleSource, predictor *predict.Predictor, workers int) *Screener {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Screener{
		source:    source,
		predictor: predictor,
		workers:   workers,
		rng:       defaultRange,
	}
}

// Screen evaluates every instrument in the universe, applies the filter,
// sorts by confidence descending and truncates to limit. A failure inside
// one instrument's evaluation is logged and that instrument is omitted;
// it never aborts the batch. Only caller cancellation stops the screen
// early.
func (s *Screener) Screen(ctx context.Context, universe []string, filter Filter, limit int) ([]predict.Result, error) {
	logging.L().Infow("starting screen",
		"universe", len(universe), "filter", filter, "limit", limit, "workers", s.workers)

	jobs := make(chan string)
	out := make(chan predict.Result, len(universe))

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for instrument := range jobs {
				res, err := s.evaluate(ctx, instrument)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					logging.L().Warnw("instrument evaluation failed, omitting",
						"instrument", instrument, "error", err)
					continue
				}
				out <- res
			}
		}()
	}

feed:
	for _, instrument := range universe {
		select {
		case jobs <- instrument:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(out)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var results []predict.Result
	for res := range out {
		if matches(res, filter) {
			results = append(results, res)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	logging.L().Infow("screen complete", "filter", filter, "matches", len(results))
	return results, nil
}

// evaluate is the per-instrument boundary: any failure inside it is
// contained there.
func (s *Screener) evaluate(ctx context.Context, instrument string) (predict.Result, error) {
	candles, err := s.source.GetCandles(ctx, instrument, s.rng)
	if err != nil {
		return predict.Result{}, err
	}

	cs, err := market.NewCandleSet(instrument, candles)
	if err != nil {
		return predict.Result{}, err
	}
	return s.predictor.Predict(ctx, cs)
}

func matches(r predict.Result, filter Filter) bool {
	switch filter {
	case FilterHighConfidence:
		return r.Direction == predict.DirectionUp && r.Probability > 0.7
	case FilterBearish:
		return r.Direction == predict.DirectionDown && r.Probability < 0.3
	case FilterTrending:
		return r.Direction == predict.DirectionUp && r.MACD > 0 && r.Probability > 0.6
	case FilterOversoldUp:
		return r.RSI < 30 && r.Direction == predict.DirectionUp && r.Probability > 0.55
	case FilterAll:
		return r.Confidence > 0.6
	default:
		logging.L().Warnw("unknown filter, keeping all predictions", "filter", filter)
		return true
	}
}
