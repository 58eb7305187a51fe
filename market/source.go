package market

import (
	"context"
	"errors"
)

// ErrNotFound reports that a source has no data for the instrument.
var ErrNotFound = errors.New("market: instrument not found")

// CandleSource supplies candle history for an instrument. rng is a
// source-defined range hint ("6mo", "1y"); sources that serve a fixed
// dataset may ignore it.
//
// Implementations must be safe for concurrent use; the screener calls
// GetCandles from multiple workers at once.
type CandleSource interface {
	GetCandles(ctx context.Context, instrument, rng string) ([]Candle, error)
}
