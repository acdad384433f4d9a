package ledgerservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// GetStatement returns the account's opening balance for the window and one
// page of window transactions with their running balances.
//
// Running balances are cumulative over the whole window: a page is seeded with
// the opening balance plus the net effect of every window row before it.
func (s *Service) GetStatement(ctx context.Context, arg domain.StatementParams) (domain.Statement, error) {
	l := zerolog.Ctx(ctx)

	if arg.Page < 1 || arg.Limit < 1 {
		return domain.Statement{}, domain.ErrInvalidPagination
	}

	if arg.StartDate != nil && arg.EndDate != nil && arg.StartDate.After(*arg.EndDate) {
		return domain.Statement{}, domain.ErrInvalidDateRange
	}

	st := domain.Statement{
		Page:      arg.Page,
		Limit:     arg.Limit,
		StartDate: arg.StartDate,
		EndDate:   arg.EndDate,
		Rows:      []domain.StatementRow{},
	}

	w := domain.StatementWindow{
		TenantID:  arg.TenantID,
		AccountID: arg.AccountID,
		StartDate: arg.StartDate,
		EndDate:   arg.EndDate,
	}

	offset := int64(arg.Page-1) * int64(arg.Limit)

	err := s.store.ReadTx(ctx, func(r Repos) error {
		var err error

		st.Account, err = r.Accounts.Get(ctx, arg.TenantID, arg.AccountID)
		if err != nil {
			return err
		}

		st.OpeningBalance = st.Account.OpeningBalance

		if arg.StartDate != nil {
			before, err := r.Journal.SumBefore(ctx, arg.TenantID, arg.AccountID, *arg.StartDate)
			if err != nil {
				return err
			}

			st.OpeningBalance = st.OpeningBalance.Add(before)
		}

		st.TotalWindowCount, err = r.Journal.CountWindow(ctx, w)
		if err != nil {
			return err
		}

		if offset >= st.TotalWindowCount {
			return nil
		}

		seed := st.OpeningBalance

		if offset > 0 {
			head, err := r.Journal.SumWindowHead(ctx, w, offset)
			if err != nil {
				return err
			}

			seed = seed.Add(head)
		}

		txs, err := r.Journal.ListWindow(ctx, w, int64(arg.Limit), offset)
		if err != nil {
			return err
		}

		st.Rows = runningBalances(seed, txs)

		return nil
	})
	if err != nil {
		l.Info().Err(err).Int64("account_id", arg.AccountID).Msg("statement query failed")
		return domain.Statement{}, err
	}

	st.TotalPages = (st.TotalWindowCount + int64(arg.Limit) - 1) / int64(arg.Limit)

	return st, nil
}

// runningBalances attaches to every transaction the balance after applying it,
// starting from seed.
func runningBalances(seed decimal.Decimal, txs []domain.Transaction) []domain.StatementRow {
	rows := make([]domain.StatementRow, len(txs))
	balance := seed

	for i, t := range txs {
		balance = balance.Add(t.Delta())
		rows[i] = domain.StatementRow{Transaction: t, RunningBalance: balance}
	}

	return rows
}
