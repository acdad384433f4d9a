package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementParams is the input data for an account statement.
type StatementParams struct {
	TenantID  string     `json:"tenant_id"`
	AccountID int64      `json:"account_id"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Page      int32      `json:"page"`
	Limit     int32      `json:"limit"`
}

// StatementWindow selects an account's transactions inside an optional date range.
type StatementWindow struct {
	TenantID  string
	AccountID int64
	StartDate *time.Time
	EndDate   *time.Time
}

// StatementRow is a window transaction with the running balance as of that row.
type StatementRow struct {
	Transaction
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// Statement is a paginated view of an account's transactions with running balances.
type Statement struct {
	Account          Account         `json:"account"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	Rows             []StatementRow  `json:"rows"`
	TotalWindowCount int64           `json:"total_window_count"`
	Page             int32           `json:"page"`
	Limit            int32           `json:"limit"`
	TotalPages       int64           `json:"total_pages"`
	StartDate        *time.Time      `json:"start_date"`
	EndDate          *time.Time      `json:"end_date"`
}

// IntegrityIssue describes an inconsistency found while rebuilding balances.
type IntegrityIssue struct {
	AccountID int64  `json:"account_id"`
	Code      string `json:"code"`
	Problem   string `json:"problem"`
}

// RecomputeReport summarises a batch balance rebuild.
type RecomputeReport struct {
	TenantID string           `json:"tenant_id"`
	Accounts int              `json:"accounts"`
	Updated  int              `json:"updated"`
	Issues   []IntegrityIssue `json:"issues"`
}
