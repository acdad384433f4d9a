// Package journalrepo manages repository layer of journal entries and their transactions.
package journalrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates journal repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns journal RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const transactionColumns = `id, journal_entry_id, account_id, debit, credit, currency, notes, date, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (domain.Transaction, error) {
	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.JournalEntryID,
		&t.AccountID,
		&t.Debit,
		&t.Credit,
		&t.Currency,
		&t.Notes,
		&t.Date,
		&t.CreatedAt,
	)

	return t, err
}

const createEntryQuery = `
INSERT INTO
    journal_entries (tenant_id, date)
VALUES
    ($1, $2)
RETURNING id, tenant_id, date, created_at
`

// CreateEntry creates the journal entry header and then returns it.
func (r *RepoPGS) CreateEntry(ctx context.Context, tenantID string, date time.Time) (domain.JournalEntry, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createEntryQuery, tenantID, date)

	var e domain.JournalEntry

	err := row.Scan(
		&e.ID,
		&e.TenantID,
		&e.Date,
		&e.CreatedAt,
	)
	if err != nil {
		l.Error().Err(err).Send()
		return e, errorspkg.ErrInternal
	}

	return e, nil
}

const createTransactionQuery = `
INSERT INTO
    transactions (tenant_id, journal_entry_id, account_id, debit, credit, currency, notes, date)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + transactionColumns

// CreateTransaction creates a posting of the journal entry and then returns it.
func (r *RepoPGS) CreateTransaction(ctx context.Context, tenantID string, date time.Time, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createTransactionQuery,
		tenantID,
		arg.JournalEntryID,
		arg.AccountID,
		arg.Debit,
		arg.Credit,
		arg.Currency,
		arg.Notes,
		date,
	)

	t, err := scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Msgf("CreateTransaction(ctx context.Context, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_account_id_fkey":
				return t, domain.ErrAccountNotFound
			case "transactions_journal_entry_id_fkey":
				return t, domain.ErrJournalEntryNotFound
			case "transactions_debit_check", "transactions_credit_check", "transactions_one_side_check":
				return t, domain.ErrInvalidPosting
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getEntryQuery = `
SELECT id, tenant_id, date, created_at
FROM journal_entries
WHERE tenant_id = $1 AND id = $2
`

// GetEntry returns the tenant's journal entry header with the given id.
func (r *RepoPGS) GetEntry(ctx context.Context, tenantID string, id int64) (domain.JournalEntry, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getEntryQuery, tenantID, id)

	var e domain.JournalEntry

	err := row.Scan(
		&e.ID,
		&e.TenantID,
		&e.Date,
		&e.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return e, domain.ErrJournalEntryNotFound
		}

		l.Error().Err(err).Send()

		return e, errorspkg.ErrInternal
	}

	return e, nil
}

const listEntriesQuery = `
SELECT id, tenant_id, date, created_at
FROM journal_entries
WHERE tenant_id = $1
ORDER BY date, id
LIMIT $2 OFFSET $3
`

// ListEntries returns the specified page of the tenant's journal entry headers.
func (r *RepoPGS) ListEntries(ctx context.Context, arg domain.ListJournalEntriesParams) ([]domain.JournalEntry, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listEntriesQuery, arg.TenantID, arg.Limit, arg.Offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.JournalEntry{}

	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Date, &e.CreatedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, e)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

func (r *RepoPGS) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const listEntryTransactionsQuery = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE tenant_id = $1 AND journal_entry_id = ANY($2)
ORDER BY journal_entry_id, id
`

// ListEntryTransactions returns the postings of the given journal entries in creation order.
func (r *RepoPGS) ListEntryTransactions(ctx context.Context, tenantID string, entryIDs []int64) ([]domain.Transaction, error) {
	return r.queryTransactions(ctx, listEntryTransactionsQuery, tenantID, pq.Array(entryIDs))
}

const listTenantDeltasQuery = `
SELECT account_id, COALESCE(SUM(COALESCE(debit, 0) - COALESCE(credit, 0)), 0)
FROM transactions
WHERE tenant_id = $1
GROUP BY account_id
ORDER BY account_id
`

// ListTenantDeltas returns the net effect of all postings per account of the tenant.
func (r *RepoPGS) ListTenantDeltas(ctx context.Context, tenantID string) ([]domain.AccountDelta, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listTenantDeltasQuery, tenantID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.AccountDelta{}

	for rows.Next() {
		var d domain.AccountDelta
		if err := rows.Scan(&d.AccountID, &d.Delta); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, d)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const sumBeforeQuery = `
SELECT COALESCE(SUM(COALESCE(debit, 0) - COALESCE(credit, 0)), 0)
FROM transactions
WHERE tenant_id = $1 AND account_id = $2 AND date < $3
`

// SumBefore returns the net effect of the account's postings dated strictly before the given time.
func (r *RepoPGS) SumBefore(ctx context.Context, tenantID string, accountID int64, before time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, sumBeforeQuery, tenantID, accountID, before)
}

const windowFilter = `
WHERE tenant_id = $1 AND account_id = $2
    AND ($3::timestamptz IS NULL OR date >= $3)
    AND ($4::timestamptz IS NULL OR date <= $4)
`

const windowOrder = `ORDER BY date, created_at, id`

const countWindowQuery = `SELECT COUNT(*) FROM transactions` + windowFilter

// CountWindow returns the number of the account's postings inside the window.
func (r *RepoPGS) CountWindow(ctx context.Context, w domain.StatementWindow) (int64, error) {
	l := zerolog.Ctx(ctx)

	var n int64

	row := r.db.QueryRowContext(ctx, countWindowQuery, windowArgs(w)...)
	if err := row.Scan(&n); err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return n, nil
}

const sumWindowHeadQuery = `
SELECT COALESCE(SUM(COALESCE(debit, 0) - COALESCE(credit, 0)), 0)
FROM (
    SELECT debit, credit FROM transactions` + windowFilter + windowOrder + `
    LIMIT $5
) head
`

// SumWindowHead returns the net effect of the first n postings of the window in statement order.
func (r *RepoPGS) SumWindowHead(ctx context.Context, w domain.StatementWindow, n int64) (decimal.Decimal, error) {
	return r.sum(ctx, sumWindowHeadQuery, append(windowArgs(w), n)...)
}

const listWindowQuery = `
SELECT ` + transactionColumns + `
FROM transactions` + windowFilter + windowOrder + `
LIMIT $5 OFFSET $6
`

// ListWindow returns one page of the account's postings inside the window in statement order.
func (r *RepoPGS) ListWindow(ctx context.Context, w domain.StatementWindow, limit, offset int64) ([]domain.Transaction, error) {
	return r.queryTransactions(ctx, listWindowQuery, append(windowArgs(w), limit, offset)...)
}

func (r *RepoPGS) sum(ctx context.Context, query string, args ...any) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	var s decimal.Decimal

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&s); err != nil {
		l.Error().Err(err).Send()
		return decimal.Zero, errorspkg.ErrInternal
	}

	return s, nil
}

func windowArgs(w domain.StatementWindow) []any {
	return []any{w.TenantID, w.AccountID, nullTime(w.StartDate), nullTime(w.EndDate)}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: *t, Valid: true}
}
