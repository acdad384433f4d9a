// Package ledgerservice manages business logic layer of the ledger: the chart of
// accounts, journal posting, balance propagation, reconciliation and statements.
package ledgerservice

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
)

// AccountRepo provides the account queries needed by the ledger service layer.
//
// Every method is scoped by tenant id.
type AccountRepo interface {
	Create(ctx context.Context, arg domain.NewAccountRow) (domain.Account, error)
	Get(ctx context.Context, tenantID string, id int64) (domain.Account, error)
	GetByCode(ctx context.Context, tenantID, code string) (domain.Account, error)
	ListMain(ctx context.Context, tenantID string) ([]domain.Account, error)
	ListChildren(ctx context.Context, tenantID string, parentID int64) ([]domain.Account, error)
	// ListChildCodes returns the codes of the parent's children, or of the main
	// accounts when parentID is nil.
	ListChildCodes(ctx context.Context, tenantID string, parentID *int64) ([]string, error)
	// LockForUpdate locks the given accounts in ascending id order.
	LockForUpdate(ctx context.Context, tenantID string, ids []int64) ([]domain.Account, error)
	// LockTenant locks and returns every account of the tenant in ascending id order.
	LockTenant(ctx context.Context, tenantID string) ([]domain.Account, error)
	// LockCodeScope serializes code generation under one parent until the transaction ends.
	LockCodeScope(ctx context.Context, tenantID string, parentID *int64) error
	AddBalance(ctx context.Context, tenantID string, id int64, delta decimal.Decimal) (domain.Account, error)
	SetBalance(ctx context.Context, tenantID string, id int64, balance decimal.Decimal) error
}

// JournalRepo provides the journal and posting queries needed by the ledger service layer.
type JournalRepo interface {
	CreateEntry(ctx context.Context, tenantID string, date time.Time) (domain.JournalEntry, error)
	CreateTransaction(ctx context.Context, tenantID string, date time.Time, arg domain.CreateTransactionParams) (domain.Transaction, error)
	GetEntry(ctx context.Context, tenantID string, id int64) (domain.JournalEntry, error)
	ListEntries(ctx context.Context, arg domain.ListJournalEntriesParams) ([]domain.JournalEntry, error)
	ListEntryTransactions(ctx context.Context, tenantID string, entryIDs []int64) ([]domain.Transaction, error)
	// ListTenantDeltas returns Σ(debit - credit) per account over the tenant's whole history.
	ListTenantDeltas(ctx context.Context, tenantID string) ([]domain.AccountDelta, error)
	SumBefore(ctx context.Context, tenantID string, accountID int64, before time.Time) (decimal.Decimal, error)
	CountWindow(ctx context.Context, w domain.StatementWindow) (int64, error)
	// SumWindowHead returns Σ(debit - credit) over the first n window rows in statement order.
	SumWindowHead(ctx context.Context, w domain.StatementWindow, n int64) (decimal.Decimal, error)
	ListWindow(ctx context.Context, w domain.StatementWindow, limit, offset int64) ([]domain.Transaction, error)
}

// Repos is the pair of repositories bound to one store transaction.
type Repos struct {
	Accounts AccountRepo
	Journal  JournalRepo
}

// Store runs units of work against the transactional storage.
//
// ExecTx commits when fn returns nil and rolls back otherwise. ReadTx runs fn
// against a read-only consistent snapshot.
type Store interface {
	ExecTx(ctx context.Context, fn func(Repos) error) error
	ReadTx(ctx context.Context, fn func(Repos) error) error
}

// Config holds the tunables of the ledger service.
type Config struct {
	DefaultCurrency   string
	CodeRetryAttempts int
}

// Service facilitates ledger service layer logic.
type Service struct {
	store Store
	cfg   Config
}

// New returns ledger service struct to manage ledger bussines logic.
func New(store Store, cfg Config) *Service {
	cfg.DefaultCurrency = currencypkg.Normalize(cfg.DefaultCurrency, "")

	if cfg.CodeRetryAttempts < 1 {
		cfg.CodeRetryAttempts = 2
	}

	return &Service{store: store, cfg: cfg}
}
