package ledgerservice

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/accountcode"
	"github.com/go-petr/pet-ledger/internal/domain"
)

// RecomputeBalances rebuilds every account balance of the tenant from its
// transaction history and persists the result.
//
// All tenant accounts stay locked for the whole rebuild so postings cannot
// interleave with it. Integrity issues are reported and logged as warnings;
// the recomputed balances are applied regardless.
func (s *Service) RecomputeBalances(ctx context.Context, tenantID string) (domain.RecomputeReport, error) {
	l := zerolog.Ctx(ctx)

	report := domain.RecomputeReport{TenantID: tenantID}

	if tenantID == "" {
		return report, domain.ErrTenantRequired
	}

	err := s.store.ExecTx(ctx, func(r Repos) error {
		accounts, err := r.Accounts.LockTenant(ctx, tenantID)
		if err != nil {
			return err
		}

		deltas, err := r.Journal.ListTenantDeltas(ctx, tenantID)
		if err != nil {
			return err
		}

		balances, issues := aggregateBalances(accounts, deltas)

		report.Accounts = len(accounts)
		report.Issues = issues
		report.Updated = 0

		for _, a := range accounts {
			b := balances[a.ID]
			if b.Equal(a.CurrentBalance) {
				continue
			}

			report.Issues = append(report.Issues, domain.IntegrityIssue{
				AccountID: a.ID,
				Code:      a.Code,
				Problem: fmt.Sprintf("%s: cached %s, recomputed %s",
					domain.ErrBalanceMismatch, a.CurrentBalance, b),
			})

			if err := r.Accounts.SetBalance(ctx, tenantID, a.ID, b); err != nil {
				return err
			}

			report.Updated++
		}

		return nil
	})
	if err != nil {
		l.Error().Err(err).Str("tenant_id", tenantID).Msg("balance recomputation failed")
		return domain.RecomputeReport{TenantID: tenantID}, err
	}

	for _, issue := range report.Issues {
		l.Warn().
			Str("tenant_id", tenantID).
			Int64("account_id", issue.AccountID).
			Str("code", issue.Code).
			Msg(issue.Problem)
	}

	l.Info().
		Str("tenant_id", tenantID).
		Int("accounts", report.Accounts).
		Int("updated", report.Updated).
		Msg("balances recomputed")

	return report, nil
}

// aggregateBalances computes every account's balance bottom-up.
//
// The local balance of an account is its opening balance plus its own net
// postings. Accounts are visited deepest first, each folding its aggregate into
// its parent, so every account is visited strictly after all its descendants.
// Accounts on a broken parent chain keep their local balance.
func aggregateBalances(accounts []domain.Account, deltas []domain.AccountDelta) (map[int64]decimal.Decimal, []domain.IntegrityIssue) {
	byID := make(map[int64]domain.Account, len(accounts))
	balances := make(map[int64]decimal.Decimal, len(accounts))

	for _, a := range accounts {
		byID[a.ID] = a
		balances[a.ID] = a.OpeningBalance
	}

	for _, d := range deltas {
		if _, ok := byID[d.AccountID]; ok {
			balances[d.AccountID] = balances[d.AccountID].Add(d.Delta)
		}
	}

	depths, broken, issues := treeDepths(accounts, byID)

	order := make([]int64, 0, len(depths))
	for id := range depths {
		order = append(order, id)
	}

	sort.Slice(order, func(i, j int) bool {
		if depths[order[i]] != depths[order[j]] {
			return depths[order[i]] > depths[order[j]]
		}

		return order[i] < order[j]
	})

	for _, id := range order {
		a := byID[id]
		if a.ParentID == nil || broken[id] {
			continue
		}

		if _, ok := byID[*a.ParentID]; !ok {
			continue
		}

		balances[*a.ParentID] = balances[*a.ParentID].Add(balances[id])
	}

	return balances, issues
}

// treeDepths computes the depth of every account by walking parent pointers,
// with roots at depth 1.
//
// Accounts whose chain revisits an account are marked broken and left out of
// the depth map. Accounts with a parent outside the tenant are treated as roots.
// A code whose segment count disagrees with the tree depth, or that does not
// extend its parent's code, is reported.
func treeDepths(accounts []domain.Account, byID map[int64]domain.Account) (map[int64]int, map[int64]bool, []domain.IntegrityIssue) {
	depths := make(map[int64]int, len(accounts))
	broken := make(map[int64]bool)

	var issues []domain.IntegrityIssue

	for _, a := range accounts {
		if _, ok := depths[a.ID]; ok || broken[a.ID] {
			continue
		}

		var (
			path   []int64
			onPath = make(map[int64]bool)
			base   = 0
			cyclic = false
			id     = a.ID
		)

		for {
			if d, ok := depths[id]; ok {
				base = d
				break
			}

			if broken[id] || onPath[id] {
				cyclic = true
				break
			}

			onPath[id] = true
			path = append(path, id)

			acc := byID[id]
			if acc.ParentID == nil {
				break
			}

			if _, ok := byID[*acc.ParentID]; !ok {
				issues = append(issues, domain.IntegrityIssue{
					AccountID: acc.ID,
					Code:      acc.Code,
					Problem:   fmt.Sprintf("%s: parent %d", domain.ErrParentNotFound, *acc.ParentID),
				})

				break
			}

			id = *acc.ParentID
		}

		if cyclic {
			for _, p := range path {
				broken[p] = true
				issues = append(issues, domain.IntegrityIssue{
					AccountID: p,
					Code:      byID[p].Code,
					Problem:   domain.ErrCyclicHierarchy.Error(),
				})
			}

			continue
		}

		for i := len(path) - 1; i >= 0; i-- {
			base++
			depths[path[i]] = base
		}
	}

	for _, a := range accounts {
		d, ok := depths[a.ID]
		if !ok {
			continue
		}

		codeDepth, err := accountcode.Depth(a.Code)
		if err != nil {
			issues = append(issues, domain.IntegrityIssue{AccountID: a.ID, Code: a.Code, Problem: err.Error()})
			continue
		}

		if codeDepth != d {
			issues = append(issues, domain.IntegrityIssue{
				AccountID: a.ID,
				Code:      a.Code,
				Problem:   fmt.Sprintf("%s: code depth %d, tree depth %d", domain.ErrInvalidCodeFormat, codeDepth, d),
			})

			continue
		}

		if a.ParentID == nil {
			continue
		}

		if parent, ok := byID[*a.ParentID]; ok && !accountcode.IsChildOf(a.Code, parent.Code) {
			issues = append(issues, domain.IntegrityIssue{
				AccountID: a.ID,
				Code:      a.Code,
				Problem:   fmt.Sprintf("%s: not a child of parent code %q", domain.ErrInvalidCodeFormat, parent.Code),
			})
		}
	}

	return depths, broken, issues
}
