package ledgerrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/ledgerservice"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoMem is an in-memory ledger store.
//
// Units of work are serialized by a single mutex. ExecTx works on a copy of the
// state which replaces the live state only when fn succeeds, so a failed unit
// of work leaves no trace.
type RepoMem struct {
	mu    sync.RWMutex
	state *memState
}

// NewRepoMem returns an empty in-memory ledger store.
func NewRepoMem() *RepoMem {
	return &RepoMem{state: newMemState()}
}

// ExecTx runs fn against a private copy of the state and publishes the copy on success.
func (r *RepoMem) ExecTx(ctx context.Context, fn func(ledgerservice.Repos) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	work := r.state.clone()

	if err := fn(work.repos(false)); err != nil {
		return err
	}

	r.state = work

	return nil
}

// ReadTx runs fn against the live state. Writes are rejected.
func (r *RepoMem) ReadTx(ctx context.Context, fn func(ledgerservice.Repos) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return fn(r.state.repos(true))
}

type memTransaction struct {
	tenantID string
	domain.Transaction
}

type memState struct {
	accounts     map[int64]domain.Account
	entries      map[int64]domain.JournalEntry
	transactions []memTransaction

	lastAccountID     int64
	lastEntryID       int64
	lastTransactionID int64
}

func newMemState() *memState {
	return &memState{
		accounts: make(map[int64]domain.Account),
		entries:  make(map[int64]domain.JournalEntry),
	}
}

func (s *memState) clone() *memState {
	c := &memState{
		accounts:          make(map[int64]domain.Account, len(s.accounts)),
		entries:           make(map[int64]domain.JournalEntry, len(s.entries)),
		transactions:      make([]memTransaction, len(s.transactions)),
		lastAccountID:     s.lastAccountID,
		lastEntryID:       s.lastEntryID,
		lastTransactionID: s.lastTransactionID,
	}

	for id, a := range s.accounts {
		c.accounts[id] = a
	}

	for id, e := range s.entries {
		c.entries[id] = e
	}

	copy(c.transactions, s.transactions)

	return c
}

func (s *memState) repos(readOnly bool) ledgerservice.Repos {
	return ledgerservice.Repos{
		Accounts: &memAccounts{state: s, readOnly: readOnly},
		Journal:  &memJournal{state: s, readOnly: readOnly},
	}
}

func errReadOnly(ctx context.Context) error {
	zerolog.Ctx(ctx).Error().Msg("write attempted inside a read-only unit of work")
	return errorspkg.ErrInternal
}

// memAccounts implements ledgerservice.AccountRepo over memState.
type memAccounts struct {
	state    *memState
	readOnly bool
}

func (m *memAccounts) Create(ctx context.Context, arg domain.NewAccountRow) (domain.Account, error) {
	if m.readOnly {
		return domain.Account{}, errReadOnly(ctx)
	}

	if !arg.Type.Valid() {
		return domain.Account{}, domain.ErrInvalidAccountType
	}

	if arg.IsMain == (arg.ParentID != nil) {
		return domain.Account{}, domain.ErrInvalidHierarchy
	}

	if arg.ParentID != nil {
		if _, err := m.Get(ctx, arg.TenantID, *arg.ParentID); err != nil {
			return domain.Account{}, domain.ErrParentNotFound
		}
	}

	for _, a := range m.state.accounts {
		if a.TenantID == arg.TenantID && a.Code == arg.Code {
			return domain.Account{}, fmt.Errorf("%w: %q", domain.ErrCodeConflict, arg.Code)
		}
	}

	m.state.lastAccountID++

	var parentID *int64
	if arg.ParentID != nil {
		id := *arg.ParentID
		parentID = &id
	}

	a := domain.Account{
		ID:             m.state.lastAccountID,
		TenantID:       arg.TenantID,
		Code:           arg.Code,
		Name:           arg.Name,
		Type:           arg.Type,
		ParentID:       parentID,
		IsMain:         arg.IsMain,
		OpeningBalance: arg.OpeningBalance,
		CurrentBalance: arg.OpeningBalance,
		CreatedAt:      time.Now().UTC(),
	}

	m.state.accounts[a.ID] = a

	return a, nil
}

func (m *memAccounts) Get(ctx context.Context, tenantID string, id int64) (domain.Account, error) {
	a, ok := m.state.accounts[id]
	if !ok || a.TenantID != tenantID {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return a, nil
}

func (m *memAccounts) GetByCode(ctx context.Context, tenantID, code string) (domain.Account, error) {
	for _, a := range m.state.accounts {
		if a.TenantID == tenantID && a.Code == code {
			return a, nil
		}
	}

	return domain.Account{}, domain.ErrAccountNotFound
}

// filter returns the tenant's accounts matching keep in ascending id order.
func (m *memAccounts) filter(tenantID string, keep func(domain.Account) bool) []domain.Account {
	items := []domain.Account{}

	for _, a := range m.state.accounts {
		if a.TenantID == tenantID && keep(a) {
			items = append(items, a)
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return items
}

func (m *memAccounts) ListMain(ctx context.Context, tenantID string) ([]domain.Account, error) {
	return m.filter(tenantID, func(a domain.Account) bool { return a.ParentID == nil }), nil
}

func (m *memAccounts) ListChildren(ctx context.Context, tenantID string, parentID int64) ([]domain.Account, error) {
	return m.filter(tenantID, func(a domain.Account) bool {
		return a.ParentID != nil && *a.ParentID == parentID
	}), nil
}

func (m *memAccounts) ListChildCodes(ctx context.Context, tenantID string, parentID *int64) ([]string, error) {
	children := m.filter(tenantID, func(a domain.Account) bool {
		if parentID == nil {
			return a.ParentID == nil
		}

		return a.ParentID != nil && *a.ParentID == *parentID
	})

	codes := make([]string, len(children))
	for i, a := range children {
		codes[i] = a.Code
	}

	return codes, nil
}

func (m *memAccounts) LockForUpdate(ctx context.Context, tenantID string, ids []int64) ([]domain.Account, error) {
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	accounts := m.filter(tenantID, func(a domain.Account) bool { return want[a.ID] })
	if len(accounts) != len(want) {
		return nil, domain.ErrAccountNotFound
	}

	return accounts, nil
}

func (m *memAccounts) LockTenant(ctx context.Context, tenantID string) ([]domain.Account, error) {
	return m.filter(tenantID, func(domain.Account) bool { return true }), nil
}

// LockCodeScope is a no-op: units of work are already serialized.
func (m *memAccounts) LockCodeScope(ctx context.Context, tenantID string, parentID *int64) error {
	return nil
}

func (m *memAccounts) AddBalance(ctx context.Context, tenantID string, id int64, delta decimal.Decimal) (domain.Account, error) {
	if m.readOnly {
		return domain.Account{}, errReadOnly(ctx)
	}

	a, err := m.Get(ctx, tenantID, id)
	if err != nil {
		return a, err
	}

	a.CurrentBalance = a.CurrentBalance.Add(delta)
	m.state.accounts[id] = a

	return a, nil
}

func (m *memAccounts) SetBalance(ctx context.Context, tenantID string, id int64, balance decimal.Decimal) error {
	if m.readOnly {
		return errReadOnly(ctx)
	}

	a, err := m.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	a.CurrentBalance = balance
	m.state.accounts[id] = a

	return nil
}

// memJournal implements ledgerservice.JournalRepo over memState.
type memJournal struct {
	state    *memState
	readOnly bool
}

func (m *memJournal) CreateEntry(ctx context.Context, tenantID string, date time.Time) (domain.JournalEntry, error) {
	if m.readOnly {
		return domain.JournalEntry{}, errReadOnly(ctx)
	}

	m.state.lastEntryID++

	e := domain.JournalEntry{
		ID:        m.state.lastEntryID,
		TenantID:  tenantID,
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}

	m.state.entries[e.ID] = e

	return e, nil
}

func (m *memJournal) CreateTransaction(ctx context.Context, tenantID string, date time.Time, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	if m.readOnly {
		return domain.Transaction{}, errReadOnly(ctx)
	}

	if a, ok := m.state.accounts[arg.AccountID]; !ok || a.TenantID != tenantID {
		return domain.Transaction{}, domain.ErrAccountNotFound
	}

	if e, ok := m.state.entries[arg.JournalEntryID]; !ok || e.TenantID != tenantID {
		return domain.Transaction{}, domain.ErrJournalEntryNotFound
	}

	if (arg.Debit.Valid && arg.Debit.Decimal.IsNegative()) || (arg.Credit.Valid && arg.Credit.Decimal.IsNegative()) {
		return domain.Transaction{}, domain.ErrInvalidPosting
	}

	m.state.lastTransactionID++

	t := domain.Transaction{
		ID:             m.state.lastTransactionID,
		JournalEntryID: arg.JournalEntryID,
		AccountID:      arg.AccountID,
		Debit:          arg.Debit,
		Credit:         arg.Credit,
		Currency:       arg.Currency,
		Notes:          arg.Notes,
		Date:           date,
		CreatedAt:      time.Now().UTC(),
	}

	m.state.transactions = append(m.state.transactions, memTransaction{tenantID: tenantID, Transaction: t})

	return t, nil
}

func (m *memJournal) GetEntry(ctx context.Context, tenantID string, id int64) (domain.JournalEntry, error) {
	e, ok := m.state.entries[id]
	if !ok || e.TenantID != tenantID {
		return domain.JournalEntry{}, domain.ErrJournalEntryNotFound
	}

	return e, nil
}

func (m *memJournal) ListEntries(ctx context.Context, arg domain.ListJournalEntriesParams) ([]domain.JournalEntry, error) {
	items := []domain.JournalEntry{}

	for _, e := range m.state.entries {
		if e.TenantID == arg.TenantID {
			items = append(items, e)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}

		return items[i].ID < items[j].ID
	})

	return page(items, arg.Limit, arg.Offset), nil
}

func (m *memJournal) ListEntryTransactions(ctx context.Context, tenantID string, entryIDs []int64) ([]domain.Transaction, error) {
	want := make(map[int64]bool, len(entryIDs))
	for _, id := range entryIDs {
		want[id] = true
	}

	items := m.transactionsOf(tenantID, func(t domain.Transaction) bool { return want[t.JournalEntryID] })

	sort.Slice(items, func(i, j int) bool {
		if items[i].JournalEntryID != items[j].JournalEntryID {
			return items[i].JournalEntryID < items[j].JournalEntryID
		}

		return items[i].ID < items[j].ID
	})

	return items, nil
}

func (m *memJournal) ListTenantDeltas(ctx context.Context, tenantID string) ([]domain.AccountDelta, error) {
	sums := make(map[int64]decimal.Decimal)

	for _, t := range m.transactionsOf(tenantID, func(domain.Transaction) bool { return true }) {
		sums[t.AccountID] = sums[t.AccountID].Add(t.Delta())
	}

	deltas := make([]domain.AccountDelta, 0, len(sums))
	for id, d := range sums {
		deltas = append(deltas, domain.AccountDelta{AccountID: id, Delta: d})
	}

	sort.Slice(deltas, func(i, j int) bool { return deltas[i].AccountID < deltas[j].AccountID })

	return deltas, nil
}

func (m *memJournal) SumBefore(ctx context.Context, tenantID string, accountID int64, before time.Time) (decimal.Decimal, error) {
	txs := m.transactionsOf(tenantID, func(t domain.Transaction) bool {
		return t.AccountID == accountID && t.Date.Before(before)
	})

	return sum(txs), nil
}

func (m *memJournal) CountWindow(ctx context.Context, w domain.StatementWindow) (int64, error) {
	return int64(len(m.window(w))), nil
}

func (m *memJournal) SumWindowHead(ctx context.Context, w domain.StatementWindow, n int64) (decimal.Decimal, error) {
	return sum(page(m.window(w), n, 0)), nil
}

func (m *memJournal) ListWindow(ctx context.Context, w domain.StatementWindow, limit, offset int64) ([]domain.Transaction, error) {
	return page(m.window(w), limit, offset), nil
}

// window returns the window's transactions ordered by date, creation time and id.
func (m *memJournal) window(w domain.StatementWindow) []domain.Transaction {
	items := m.transactionsOf(w.TenantID, func(t domain.Transaction) bool {
		if t.AccountID != w.AccountID {
			return false
		}

		if w.StartDate != nil && t.Date.Before(*w.StartDate) {
			return false
		}

		if w.EndDate != nil && t.Date.After(*w.EndDate) {
			return false
		}

		return true
	})

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]

		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}

		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}

		return a.ID < b.ID
	})

	return items
}

func (m *memJournal) transactionsOf(tenantID string, keep func(domain.Transaction) bool) []domain.Transaction {
	items := []domain.Transaction{}

	for _, t := range m.state.transactions {
		if t.tenantID == tenantID && keep(t.Transaction) {
			items = append(items, t.Transaction)
		}
	}

	return items
}

func sum(txs []domain.Transaction) decimal.Decimal {
	s := decimal.Zero
	for _, t := range txs {
		s = s.Add(t.Delta())
	}

	return s
}

func page[T any](items []T, limit, offset int64) []T {
	n := int64(len(items))
	if offset < 0 || limit < 1 || offset >= n {
		return []T{}
	}

	end := n
	if limit < n-offset {
		end = offset + limit
	}

	return items[offset:end]
}
