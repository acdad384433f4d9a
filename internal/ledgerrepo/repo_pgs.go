// Package ledgerrepo provides transactional stores binding account and journal
// repositories to a single unit of work.
package ledgerrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/journalrepo"
	"github.com/go-petr/pet-ledger/internal/ledgerservice"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS runs ledger units of work inside Postgres transactions.
type RepoPGS struct {
	conn *sql.DB
}

// NewRepoPGS returns ledger RepoPGS with connection to start transactions.
func NewRepoPGS(conn *sql.DB) *RepoPGS {
	return &RepoPGS{conn: conn}
}

// ExecTx runs fn inside a read committed transaction and commits when fn returns nil.
//
// Row locks taken by fn are held until commit or rollback.
func (r *RepoPGS) ExecTx(ctx context.Context, fn func(ledgerservice.Repos) error) error {
	return r.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// ReadTx runs fn inside a read-only repeatable read transaction so that every
// query of fn sees the same snapshot.
func (r *RepoPGS) ReadTx(ctx context.Context, fn func(ledgerservice.Repos) error) error {
	return r.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (r *RepoPGS) run(ctx context.Context, opts *sql.TxOptions, fn func(ledgerservice.Repos) error) error {
	l := zerolog.Ctx(ctx)

	tx, err := r.conn.BeginTx(ctx, opts)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	repos := ledgerservice.Repos{
		Accounts: accountrepo.NewRepoPGS(tx),
		Journal:  journalrepo.NewRepoPGS(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}
