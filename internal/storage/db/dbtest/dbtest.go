// Package dbtest provides a db.DB for unit tests of code that only needs
// transaction boundaries, with repositories replaced by fakes.
package dbtest

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tuanvumaihuynh/bizdesk/internal/storage/db"
)

var ErrNoQueries = errors.New("dbtest: queries are not supported")

var _ db.DB = (*TxDB)(nil)

// TxDB runs WithTx callbacks inline and records whether each one committed.
type TxDB struct {
	Commits   int
	Rollbacks int
}

func (d *TxDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	if err := txFunc(d); err != nil {
		d.Rollbacks++
		return err
	}
	d.Commits++
	return nil
}

func (d *TxDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, ErrNoQueries
}

func (d *TxDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, ErrNoQueries
}

func (d *TxDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{}
}

func (d *TxDB) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, ErrNoQueries
}

func (d *TxDB) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	return nil
}

type errRow struct{}

func (errRow) Scan(...any) error { return ErrNoQueries }
