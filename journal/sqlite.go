// Package journal persists prediction results and backtest runs to
// SQLite so research sessions leave a queryable history behind.
package journal

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/anaslari23/Stock-predictor/backtest"
	"github.com/anaslari23/Stock-predictor/predict"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteJournal{db: db}, nil
}

// RecordPrediction stores one prediction result.
func (j *SQLiteJournal) RecordPrediction(r predict.Result) error {
	normalized := 0
	if r.Normalized {
		normalized = 1
	}
	_, err := j.db.Exec(`
		INSERT INTO predictions
		(prediction_id, instrument, direction, probability, confidence, sources, normalized, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Instrument, string(r.Direction), r.Probability, r.Confidence,
		strings.Join(r.Sources, ","), normalized, r.Timestamp,
	)
	return err
}

// RecordBacktest stores a run summary and its trades under runID.
func (j *SQLiteJournal) RecordBacktest(runID string, cfg backtest.Config, res backtest.Result) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO backtest_runs
		(run_id, instrument, entry_threshold, exit_threshold, fee_bps, slippage_bps,
		 sharpe, sortino, max_drawdown, win_rate, trades, final_equity,
		 start_time, end_time, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, res.Instrument, cfg.EntryThreshold, cfg.ExitThreshold, cfg.FeeBps, cfg.SlippageBps,
		res.Metrics.Sharpe, res.Metrics.Sortino, res.Metrics.MaxDrawdown, res.Metrics.WinRate,
		res.Metrics.Trades, res.FinalEquity, res.Start, res.End, time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	for _, t := range res.Trades {
		_, err = tx.Exec(`
			INSERT INTO backtest_trades
			(run_id, entry_time, exit_time, entry_price, exit_price, return_fraction)
			VALUES (?, ?, ?, ?, ?, ?)`,
			runID, t.EntryTime, t.ExitTime, t.EntryPrice, t.ExitPrice, t.ReturnFraction,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListTradesByRunID returns the trades of one backtest run in entry order.
func (j *SQLiteJournal) ListTradesByRunID(runID string) ([]backtest.TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT entry_time, exit_time, entry_price, exit_price, return_fraction
		FROM backtest_trades WHERE run_id = ? ORDER BY entry_time`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []backtest.TradeRecord
	for rows.Next() {
		var t backtest.TradeRecord
		if err := rows.Scan(&t.EntryTime, &t.ExitTime, &t.EntryPrice, &t.ExitPrice, &t.ReturnFraction); err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// ListPredictions returns the most recent predictions for an instrument.
func (j *SQLiteJournal) ListPredictions(instrument string, limit int) ([]predict.Result, error) {
	rows, err := j.db.Query(`
		SELECT prediction_id, instrument, direction, probability, confidence, sources, normalized, created
		FROM predictions WHERE instrument = ? ORDER BY created DESC LIMIT ?`, instrument, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []predict.Result
	for rows.Next() {
		var r predict.Result
		var direction, sources string
		var normalized int
		if err := rows.Scan(&r.ID, &r.Instrument, &direction, &r.Probability,
			&r.Confidence, &sources, &normalized, &r.Timestamp); err != nil {
			return nil, err
		}
		r.Direction = predict.Direction(direction)
		if sources != "" {
			r.Sources = strings.Split(sources, ",")
		}
		r.Normalized = normalized == 1
		results = append(results, r)
	}
	return results, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
