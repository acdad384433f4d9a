// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const columns = `id, tenant_id, code, name, type, parent_id, is_main, opening_balance, current_balance, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (domain.Account, error) {
	var (
		a        domain.Account
		parentID sql.NullInt64
	)

	err := row.Scan(
		&a.ID,
		&a.TenantID,
		&a.Code,
		&a.Name,
		&a.Type,
		&parentID,
		&a.IsMain,
		&a.OpeningBalance,
		&a.CurrentBalance,
		&a.CreatedAt,
	)
	if err != nil {
		return a, err
	}

	if parentID.Valid {
		id := parentID.Int64
		a.ParentID = &id
	}

	return a, nil
}

func (r *RepoPGS) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
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

const createQuery = `
INSERT INTO
    accounts (tenant_id, code, name, type, parent_id, is_main, opening_balance, current_balance)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $7)
RETURNING ` + columns

// Create creates the account with its opening balance as current balance and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.NewAccountRow) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var parentID sql.NullInt64
	if arg.ParentID != nil {
		parentID = sql.NullInt64{Int64: *arg.ParentID, Valid: true}
	}

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.TenantID,
		arg.Code,
		arg.Name,
		arg.Type,
		parentID,
		arg.IsMain,
		arg.OpeningBalance,
	)

	a, err := scanAccount(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx context.Context, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "accounts_tenant_id_code_key":
				return a, fmt.Errorf("%w: %q", domain.ErrCodeConflict, arg.Code)
			case "accounts_parent_id_fkey":
				return a, domain.ErrParentNotFound
			case "accounts_main_parent_check":
				return a, domain.ErrInvalidHierarchy
			case "accounts_type_check":
				return a, domain.ErrInvalidAccountType
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT ` + columns + `
FROM accounts
WHERE tenant_id = $1 AND id = $2
`

// Get returns the tenant's account with the given id.
func (r *RepoPGS) Get(ctx context.Context, tenantID string, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, getQuery, tenantID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getByCodeQuery = `
SELECT ` + columns + `
FROM accounts
WHERE tenant_id = $1 AND code = $2
`

// GetByCode returns the tenant's account with the given hierarchical code.
func (r *RepoPGS) GetByCode(ctx context.Context, tenantID, code string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, getByCodeQuery, tenantID, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listMainQuery = `
SELECT ` + columns + `
FROM accounts
WHERE tenant_id = $1 AND parent_id IS NULL
ORDER BY id
`

// ListMain returns the tenant's main accounts.
func (r *RepoPGS) ListMain(ctx context.Context, tenantID string) ([]domain.Account, error) {
	return r.queryAccounts(ctx, listMainQuery, tenantID)
}

const listChildrenQuery = `
SELECT ` + columns + `
FROM accounts
WHERE tenant_id = $1 AND parent_id = $2
ORDER BY id
`

// ListChildren returns the direct children of the given account.
func (r *RepoPGS) ListChildren(ctx context.Context, tenantID string, parentID int64) ([]domain.Account, error) {
	return r.queryAccounts(ctx, listChildrenQuery, tenantID, parentID)
}

const listChildCodesQuery = `
SELECT code
FROM accounts
WHERE tenant_id = $1 AND parent_id IS NOT DISTINCT FROM $2
`

// ListChildCodes returns the codes of the parent's children, or of the main accounts when parentID is nil.
func (r *RepoPGS) ListChildCodes(ctx context.Context, tenantID string, parentID *int64) ([]string, error) {
	l := zerolog.Ctx(ctx)

	var parent sql.NullInt64
	if parentID != nil {
		parent = sql.NullInt64{Int64: *parentID, Valid: true}
	}

	rows, err := r.db.QueryContext(ctx, listChildCodesQuery, tenantID, parent)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	codes := []string{}

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return codes, nil
}

const lockForUpdateQuery = `
SELECT ` + columns + `
FROM accounts
WHERE tenant_id = $1 AND id = ANY($2)
ORDER BY id
FOR UPDATE
`

// LockForUpdate locks the given accounts in ascending id order and returns them.
func (r *RepoPGS) LockForUpdate(ctx context.Context, tenantID string, ids []int64) ([]domain.Account, error) {
	accounts, err := r.queryAccounts(ctx, lockForUpdateQuery, tenantID, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	if len(accounts) != len(ids) {
		return nil, domain.ErrAccountNotFound
	}

	return accounts, nil
}

const lockTenantQuery = `
SELECT ` + columns + `
FROM accounts
WHERE tenant_id = $1
ORDER BY id
FOR UPDATE
`

// LockTenant locks and returns every account of the tenant in ascending id order.
func (r *RepoPGS) LockTenant(ctx context.Context, tenantID string) ([]domain.Account, error) {
	return r.queryAccounts(ctx, lockTenantQuery, tenantID)
}

const lockCodeScopeQuery = `SELECT pg_advisory_xact_lock(hashtext($1))`

// LockCodeScope takes a transaction scoped advisory lock on the tenant's parent,
// or on the tenant's main accounts when parentID is nil.
func (r *RepoPGS) LockCodeScope(ctx context.Context, tenantID string, parentID *int64) error {
	l := zerolog.Ctx(ctx)

	key := "accounts:" + tenantID + ":main"
	if parentID != nil {
		key = fmt.Sprintf("accounts:%s:%d", tenantID, *parentID)
	}

	if _, err := r.db.ExecContext(ctx, lockCodeScopeQuery, key); err != nil {
		l.Error().Err(err).Str("key", key).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

const addBalanceQuery = `
UPDATE accounts
SET current_balance = current_balance + $3
WHERE tenant_id = $1 AND id = $2
RETURNING ` + columns

// AddBalance changes the account's balance in place and returns the changed account.
func (r *RepoPGS) AddBalance(ctx context.Context, tenantID string, id int64, delta decimal.Decimal) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	a, err := scanAccount(r.db.QueryRowContext(ctx, addBalanceQuery, tenantID, id, delta))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const setBalanceQuery = `
UPDATE accounts
SET current_balance = $3
WHERE tenant_id = $1 AND id = $2
`

// SetBalance overwrites the account's cached balance.
func (r *RepoPGS) SetBalance(ctx context.Context, tenantID string, id int64, balance decimal.Decimal) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, setBalanceQuery, tenantID, id, balance)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}
