package ledgerservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
)

func validatePosting(i int, p domain.PostingParams) error {
	if p.Debit.Valid && !domain.AmountInRange(p.Debit.Decimal) {
		return fmt.Errorf("%w: posting %d debit", domain.ErrAmountOutOfRange, i)
	}

	if p.Credit.Valid && !domain.AmountInRange(p.Credit.Decimal) {
		return fmt.Errorf("%w: posting %d credit", domain.ErrAmountOutOfRange, i)
	}

	if p.Debit.Valid && p.Debit.Decimal.IsNegative() {
		return fmt.Errorf("%w: posting %d has a negative debit", domain.ErrInvalidPosting, i)
	}

	if p.Credit.Valid && p.Credit.Decimal.IsNegative() {
		return fmt.Errorf("%w: posting %d has a negative credit", domain.ErrInvalidPosting, i)
	}

	hasDebit := p.Debit.Valid && !p.Debit.Decimal.IsZero()
	hasCredit := p.Credit.Valid && !p.Credit.Decimal.IsZero()

	if hasDebit && hasCredit {
		return fmt.Errorf("%w: posting %d has both debit and credit", domain.ErrInvalidPosting, i)
	}

	return nil
}

// checkBalanced compares total debit and total credit exactly.
func checkBalanced(postings []domain.PostingParams) error {
	debit, credit := decimal.Zero, decimal.Zero

	for _, p := range postings {
		if p.Debit.Valid {
			debit = debit.Add(p.Debit.Decimal)
		}

		if p.Credit.Valid {
			credit = credit.Add(p.Credit.Decimal)
		}
	}

	if !debit.Equal(credit) {
		return fmt.Errorf("%w: debit %s, credit %s", domain.ErrUnbalancedEntry, debit, credit)
	}

	return nil
}

// resolveAccounts loads every distinct posted account inside the tenant.
func resolveAccounts(ctx context.Context, r AccountRepo, tenantID string, postings []domain.PostingParams) ([]domain.Account, error) {
	seen := make(map[int64]bool)
	accounts := make([]domain.Account, 0, len(postings))

	for _, p := range postings {
		if seen[p.AccountID] {
			continue
		}

		seen[p.AccountID] = true

		a, err := r.Get(ctx, tenantID, p.AccountID)
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %d", err, p.AccountID)
		}

		if err != nil {
			return nil, err
		}

		accounts = append(accounts, a)
	}

	return accounts, nil
}

// PostJournalEntry validates a balanced set of postings and commits it.
//
// The entry, its transactions and the resulting balance changes of every
// posted account and its ancestors are committed in one store transaction.
func (s *Service) PostJournalEntry(ctx context.Context, arg domain.PostJournalEntryParams) (domain.JournalEntry, error) {
	l := zerolog.Ctx(ctx)

	if arg.TenantID == "" {
		return domain.JournalEntry{}, domain.ErrTenantRequired
	}

	if len(arg.Postings) == 0 {
		l.Info().Err(domain.ErrEmptyEntry).Send()
		return domain.JournalEntry{}, domain.ErrEmptyEntry
	}

	for i, p := range arg.Postings {
		if err := validatePosting(i, p); err != nil {
			l.Info().Err(err).Send()
			return domain.JournalEntry{}, err
		}
	}

	date := arg.Date.UTC()

	var entry domain.JournalEntry

	err := s.store.ExecTx(ctx, func(r Repos) error {
		accounts, err := resolveAccounts(ctx, r.Accounts, arg.TenantID, arg.Postings)
		if err != nil {
			return err
		}

		if err := checkBalanced(arg.Postings); err != nil {
			return err
		}

		if err := lockAncestors(ctx, r.Accounts, arg.TenantID, accounts); err != nil {
			return err
		}

		entry, err = r.Journal.CreateEntry(ctx, arg.TenantID, date)
		if err != nil {
			return err
		}

		entry.Transactions = make([]domain.Transaction, 0, len(arg.Postings))

		for _, p := range arg.Postings {
			t, err := r.Journal.CreateTransaction(ctx, arg.TenantID, date, domain.CreateTransactionParams{
				JournalEntryID: entry.ID,
				AccountID:      p.AccountID,
				Debit:          p.Debit,
				Credit:         p.Credit,
				Currency:       currencypkg.Normalize(p.Currency, s.cfg.DefaultCurrency),
				Notes:          p.Notes,
			})
			if err != nil {
				return err
			}

			entry.Transactions = append(entry.Transactions, t)
		}

		for _, d := range netDeltas(arg.Postings) {
			if err := propagate(ctx, r.Accounts, arg.TenantID, d.AccountID, d.Delta); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		l.Info().Err(err).Msg("journal entry rejected")
		return domain.JournalEntry{}, err
	}

	l.Debug().Int64("journal_entry_id", entry.ID).Int("postings", len(entry.Transactions)).Msg("journal entry posted")

	return entry, nil
}

// GetJournalEntry returns the tenant's journal entry with its transactions.
func (s *Service) GetJournalEntry(ctx context.Context, tenantID string, id int64) (domain.JournalEntry, error) {
	var entry domain.JournalEntry

	err := s.store.ReadTx(ctx, func(r Repos) error {
		var err error

		entry, err = r.Journal.GetEntry(ctx, tenantID, id)
		if err != nil {
			return err
		}

		entry.Transactions, err = r.Journal.ListEntryTransactions(ctx, tenantID, []int64{entry.ID})

		return err
	})

	return entry, err
}

// ListJournalEntries returns a page of the tenant's journal entries with their transactions.
func (s *Service) ListJournalEntries(ctx context.Context, tenantID string, pageSize, pageID int32) ([]domain.JournalEntry, error) {
	if pageSize < 1 || pageID < 1 {
		return nil, domain.ErrInvalidPagination
	}

	arg := domain.ListJournalEntriesParams{
		TenantID: tenantID,
		Limit:    int64(pageSize),
		Offset:   int64(pageID-1) * int64(pageSize),
	}

	var entries []domain.JournalEntry

	err := s.store.ReadTx(ctx, func(r Repos) error {
		var err error

		entries, err = r.Journal.ListEntries(ctx, arg)
		if err != nil || len(entries) == 0 {
			return err
		}

		ids := make([]int64, len(entries))
		index := make(map[int64]int, len(entries))

		for i, e := range entries {
			ids[i] = e.ID
			index[e.ID] = i
			entries[i].Transactions = []domain.Transaction{}
		}

		txs, err := r.Journal.ListEntryTransactions(ctx, tenantID, ids)
		if err != nil {
			return err
		}

		for _, t := range txs {
			i := index[t.JournalEntryID]
			entries[i].Transactions = append(entries[i].Transactions, t)
		}

		return nil
	})

	return entries, err
}
