// Package id generates time-sortable identifiers for prediction and
// backtest records.
package id

import "github.com/oklog/ulid/v2"

// New returns a ULID string. ULIDs sort lexicographically by generation
// time, which keeps journal queries and SQLite indexes cheap.
func New() string {
	return ulid.Make().String()
}
