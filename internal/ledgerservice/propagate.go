package ledgerservice

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// ancestorClosure returns the ids of the given accounts and of all their
// ancestors in ascending order.
func ancestorClosure(ctx context.Context, r AccountRepo, tenantID string, accounts []domain.Account) ([]int64, error) {
	closure := make(map[int64]bool)

	for _, a := range accounts {
		chain := make(map[int64]bool)
		acc := a

		for {
			if chain[acc.ID] {
				return nil, fmt.Errorf("%w: account %d", domain.ErrCyclicHierarchy, acc.ID)
			}

			chain[acc.ID] = true

			if closure[acc.ID] {
				// The rest of the chain was collected by an earlier account.
				break
			}

			closure[acc.ID] = true

			if acc.ParentID == nil {
				break
			}

			parent, err := r.Get(ctx, tenantID, *acc.ParentID)
			if err != nil {
				return nil, err
			}

			acc = parent
		}
	}

	ids := make([]int64, 0, len(closure))
	for id := range closure {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids, nil
}

// lockAncestors locks the accounts and their whole ancestor closure.
//
// Locks are always taken in ascending id order so that two units of work
// sharing ancestors cannot deadlock.
func lockAncestors(ctx context.Context, r AccountRepo, tenantID string, accounts []domain.Account) error {
	ids, err := ancestorClosure(ctx, r, tenantID, accounts)
	if err != nil {
		return err
	}

	_, err = r.LockForUpdate(ctx, tenantID, ids)

	return err
}

// propagate adds delta to the account and to every ancestor up to the root.
//
// It must run inside the transaction of the change that caused it, after the
// ancestor closure has been locked.
func propagate(ctx context.Context, r AccountRepo, tenantID string, accountID int64, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}

	l := zerolog.Ctx(ctx)

	visited := make(map[int64]bool)
	id := &accountID

	for id != nil {
		if visited[*id] {
			l.Error().Int64("account_id", accountID).Int64("revisited", *id).Msg("cyclic account hierarchy")
			return fmt.Errorf("%w: account %d", domain.ErrCyclicHierarchy, *id)
		}

		visited[*id] = true

		acc, err := r.AddBalance(ctx, tenantID, *id, delta)
		if err != nil {
			return err
		}

		id = acc.ParentID
	}

	return nil
}

// netDeltas sums debit - credit per distinct account in ascending account id order.
func netDeltas(postings []domain.PostingParams) []domain.AccountDelta {
	sums := make(map[int64]decimal.Decimal)

	for _, p := range postings {
		sums[p.AccountID] = sums[p.AccountID].Add(domain.Delta(p.Debit, p.Credit))
	}

	deltas := make([]domain.AccountDelta, 0, len(sums))
	for id, d := range sums {
		deltas = append(deltas, domain.AccountDelta{AccountID: id, Delta: d})
	}

	sort.Slice(deltas, func(i, j int) bool { return deltas[i].AccountID < deltas[j].AccountID })

	return deltas
}
