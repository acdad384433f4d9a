package ledgerservice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountcode"
	"github.com/go-petr/pet-ledger/internal/domain"
)

func validateCreateAccount(arg domain.CreateAccountParams) error {
	if arg.TenantID == "" {
		return domain.ErrTenantRequired
	}

	if arg.Name == "" {
		return domain.ErrNameRequired
	}

	if !arg.Type.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidAccountType, arg.Type)
	}

	hasParent := arg.ParentID != nil || arg.ParentCode != ""

	if arg.IsMain && hasParent {
		return fmt.Errorf("%w: main account cannot have a parent", domain.ErrInvalidHierarchy)
	}

	if !arg.IsMain && !hasParent {
		return fmt.Errorf("%w: parent account is required for sub-accounts", domain.ErrInvalidHierarchy)
	}

	if !domain.AmountInRange(arg.OpeningBalance) {
		return fmt.Errorf("%w: opening balance", domain.ErrAmountOutOfRange)
	}

	if arg.ParentCode != "" {
		if _, err := accountcode.Parse(arg.ParentCode); err != nil {
			return err
		}
	}

	return nil
}

// CreateAccount assigns the next free hierarchical code and creates the account.
//
// A conflict on the derived code means a concurrent creation won the race; the
// code is re-derived and the creation retried up to the configured attempts.
func (s *Service) CreateAccount(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	arg.Name = strings.TrimSpace(arg.Name)

	if err := validateCreateAccount(arg); err != nil {
		l.Info().Err(err).Send()
		return domain.Account{}, err
	}

	for attempt := 1; ; attempt++ {
		account, err := s.createAccount(ctx, arg)
		if err == nil {
			return account, nil
		}

		if !errors.Is(err, domain.ErrCodeConflict) || attempt >= s.cfg.CodeRetryAttempts {
			return domain.Account{}, err
		}

		l.Warn().Err(err).Int("attempt", attempt).Msg("account code taken, retrying")
	}
}

func (s *Service) createAccount(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	var created domain.Account

	err := s.store.ExecTx(ctx, func(r Repos) error {
		var parent *domain.Account

		if !arg.IsMain {
			p, err := resolveParent(ctx, r.Accounts, arg)
			if err != nil {
				return err
			}

			parent = &p
		}

		var parentID *int64
		if parent != nil {
			parentID = &parent.ID
		}

		if err := r.Accounts.LockCodeScope(ctx, arg.TenantID, parentID); err != nil {
			return err
		}

		if parent != nil {
			if err := lockAncestors(ctx, r.Accounts, arg.TenantID, []domain.Account{*parent}); err != nil {
				return err
			}
		}

		siblings, err := r.Accounts.ListChildCodes(ctx, arg.TenantID, parentID)
		if err != nil {
			return err
		}

		next, err := accountcode.Next(siblings)
		if err != nil {
			return err
		}

		code := accountcode.Main(next)
		if parent != nil {
			code = accountcode.Child(parent.Code, next)
		}

		created, err = r.Accounts.Create(ctx, domain.NewAccountRow{
			TenantID:       arg.TenantID,
			Code:           code,
			Name:           arg.Name,
			Type:           arg.Type,
			ParentID:       parentID,
			IsMain:         arg.IsMain,
			OpeningBalance: arg.OpeningBalance,
		})
		if err != nil {
			return err
		}

		// The new account already carries its opening balance; its ancestors
		// aggregate it like any posting.
		if parent != nil {
			return propagate(ctx, r.Accounts, arg.TenantID, parent.ID, arg.OpeningBalance)
		}

		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}

	return created, nil
}

func resolveParent(ctx context.Context, r AccountRepo, arg domain.CreateAccountParams) (domain.Account, error) {
	var (
		parent domain.Account
		err    error
	)

	if arg.ParentID != nil {
		parent, err = r.Get(ctx, arg.TenantID, *arg.ParentID)
	} else {
		parent, err = r.GetByCode(ctx, arg.TenantID, arg.ParentCode)
	}

	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return parent, domain.ErrParentNotFound
		}

		return parent, err
	}

	if arg.ParentID != nil && arg.ParentCode != "" && parent.Code != arg.ParentCode {
		return parent, fmt.Errorf("%w: parent id %d does not have code %q",
			domain.ErrInvalidHierarchy, parent.ID, arg.ParentCode)
	}

	if _, err := accountcode.Parse(parent.Code); err != nil {
		return parent, err
	}

	return parent, nil
}

// sortByCode orders accounts numerically by code, so "1.2" precedes "1.10".
// Malformed codes fall back to text order.
func sortByCode(accounts []domain.Account) {
	sort.SliceStable(accounts, func(i, j int) bool {
		c, err := accountcode.Compare(accounts[i].Code, accounts[j].Code)
		if err != nil {
			return accounts[i].Code < accounts[j].Code
		}

		return c < 0
	})
}

// GetAccount returns the tenant's account with the given id.
func (s *Service) GetAccount(ctx context.Context, tenantID string, id int64) (domain.Account, error) {
	var account domain.Account

	err := s.store.ReadTx(ctx, func(r Repos) error {
		var err error
		account, err = r.Accounts.Get(ctx, tenantID, id)

		return err
	})

	return account, err
}

// FindAccountByCode returns the tenant's account with the given hierarchical code.
func (s *Service) FindAccountByCode(ctx context.Context, tenantID, code string) (domain.Account, error) {
	if _, err := accountcode.Parse(code); err != nil {
		return domain.Account{}, err
	}

	var account domain.Account

	err := s.store.ReadTx(ctx, func(r Repos) error {
		var err error
		account, err = r.Accounts.GetByCode(ctx, tenantID, code)

		return err
	})

	return account, err
}

// ListMainAccounts returns the tenant's root accounts ordered by code.
func (s *Service) ListMainAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	var accounts []domain.Account

	err := s.store.ReadTx(ctx, func(r Repos) error {
		var err error
		accounts, err = r.Accounts.ListMain(ctx, tenantID)

		return err
	})
	if err != nil {
		return nil, err
	}

	sortByCode(accounts)

	return accounts, nil
}

// ListSubAccounts returns the direct children of the account with the given code
// ordered by code.
func (s *Service) ListSubAccounts(ctx context.Context, tenantID, code string) ([]domain.Account, error) {
	if _, err := accountcode.Parse(code); err != nil {
		return nil, err
	}

	var accounts []domain.Account

	err := s.store.ReadTx(ctx, func(r Repos) error {
		parent, err := r.Accounts.GetByCode(ctx, tenantID, code)
		if err != nil {
			return err
		}

		accounts, err = r.Accounts.ListChildren(ctx, tenantID, parent.ID)

		return err
	})
	if err != nil {
		return nil, err
	}

	sortByCode(accounts)

	return accounts, nil
}
