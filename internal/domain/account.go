// Package domain provides defenitions of all ledger entities.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

// Supported account types.
const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// AccountTypes holds all the supported account types.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// Valid returns true if the account type is supported.
func (t AccountType) Valid() bool {
	for _, at := range AccountTypes {
		if at == t {
			return true
		}
	}

	return false
}

// Account is a node of a tenant's chart of accounts.
//
// CurrentBalance is a cached aggregate: the account's own opening balance and
// postings plus the current balances of all its direct children.
type Account struct {
	ID             int64           `json:"id"`
	TenantID       string          `json:"tenant_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	ParentID       *int64          `json:"parent_id"`
	IsMain         bool            `json:"is_main"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateAccountParams is the input data to create an account.
//
// A sub-account names its parent either by ParentID or by ParentCode.
type CreateAccountParams struct {
	TenantID       string          `json:"tenant_id"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	IsMain         bool            `json:"is_main"`
	ParentID       *int64          `json:"parent_id,omitempty"`
	ParentCode     string          `json:"parent_code,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// NewAccountRow holds a fully derived account ready to be inserted.
type NewAccountRow struct {
	TenantID       string
	Code           string
	Name           string
	Type           AccountType
	ParentID       *int64
	IsMain         bool
	OpeningBalance decimal.Decimal
}
