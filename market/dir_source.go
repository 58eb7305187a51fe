package market

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirSource serves candles from per-instrument CSV files in a directory
// (<dir>/<instrument>.csv). It is the standalone dataset-backed
// implementation of CandleSource used by the CLI; live adapters plug in
// the same interface.
type DirSource struct {
	Dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir}
}

// GetCandles loads the instrument's CSV. The range string is ignored for
// disk datasets; the whole file is the range.
func (s *DirSource) GetCandles(ctx context.Context, instrument, rng string) ([]Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.Dir, instrument+".csv")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, instrument)
	}
	return LoadCSV(path)
}
