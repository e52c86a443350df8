package repo

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"taskease/internal/infra"
)

type call struct {
	query string
	args  []any
}

// stubSQL answers QueryRow with rows[query] and records every call.
type stubSQL struct {
	rows     map[string]pgx.Row
	execTag  pgconn.CommandTag
	execErr  error
	calls    []call
	txCalled bool
}

func newStubSQL() *stubSQL {
	return &stubSQL{rows: map[string]pgx.Row{}}
}

func (s *stubSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.calls = append(s.calls, call{query: query, args: args})
	return s.execTag, s.execErr
}

func (s *stubSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	s.calls = append(s.calls, call{query: query, args: args})
	if row, ok := s.rows[query]; ok {
		return row
	}
	return valuesRow{err: pgx.ErrNoRows}
}

func (s *stubSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	s.calls = append(s.calls, call{query: query, args: args})
	return nil, errors.New("not implemented")
}

func (s *stubSQL) InTx(_ context.Context, fn func(tx infra.SQLExecutor) error) error {
	s.txCalled = true
	return fn(s)
}

func (s *stubSQL) last(query string) (call, bool) {
	for i := len(s.calls) - 1; i >= 0; i-- {
		if s.calls[i].query == query {
			return s.calls[i], true
		}
	}
	return call{}, false
}

// valuesRow assigns vals to the scan destinations positionally.
type valuesRow struct {
	vals []any
	err  error
}

func (r valuesRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return fmt.Errorf("scan: got %d destinations for %d values", len(dest), len(r.vals))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if r.vals[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(r.vals[i]))
	}
	return nil
}

var _ infra.TxExecutor = (*stubSQL)(nil)
