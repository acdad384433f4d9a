package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is an atomic, balanced group of postings dated as a single event.
type JournalEntry struct {
	ID           int64         `json:"id"`
	TenantID     string        `json:"tenant_id"`
	Date         time.Time     `json:"date"`
	Transactions []Transaction `json:"transactions"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Transaction is one posting of a journal entry to a single account.
type Transaction struct {
	ID             int64               `json:"id"`
	JournalEntryID int64               `json:"journal_entry_id"`
	AccountID      int64               `json:"account_id"`
	Debit          decimal.NullDecimal `json:"debit"`
	Credit         decimal.NullDecimal `json:"credit"`
	Currency       string              `json:"currency"`
	Notes          string              `json:"notes"`
	Date           time.Time           `json:"date"` // date of the owning entry
	CreatedAt      time.Time           `json:"created_at"`
}

// Delta returns the net effect of the transaction on its account: debit - credit.
func (t Transaction) Delta() decimal.Decimal {
	return Delta(t.Debit, t.Credit)
}

// Amounts and opening balances are stored as numeric(20, 4).
const (
	AmountMaxIntDigits = 16
	AmountMaxScale     = 4
)

var amountLimit = decimal.New(1, AmountMaxIntDigits)

// AmountInRange reports whether d has at most AmountMaxIntDigits integer digits
// and AmountMaxScale significant decimal places.
func AmountInRange(d decimal.Decimal) bool {
	// Far exponents are rejected before any rescaling arithmetic.
	if exp := d.Exponent(); exp > AmountMaxIntDigits || exp < -(AmountMaxIntDigits+AmountMaxScale) {
		return false
	}

	return d.Abs().LessThan(amountLimit) && d.Truncate(AmountMaxScale).Equal(d)
}

// Delta returns debit - credit treating null amounts as zero.
func Delta(debit, credit decimal.NullDecimal) decimal.Decimal {
	d := decimal.Zero
	if debit.Valid {
		d = d.Add(debit.Decimal)
	}

	if credit.Valid {
		d = d.Sub(credit.Decimal)
	}

	return d
}

// PostingParams is a single posting requested for a new journal entry.
type PostingParams struct {
	AccountID int64               `json:"account_id"`
	Debit     decimal.NullDecimal `json:"debit"`
	Credit    decimal.NullDecimal `json:"credit"`
	Currency  string              `json:"currency"`
	Notes     string              `json:"notes"`
}

// PostJournalEntryParams is the input data to post a journal entry.
type PostJournalEntryParams struct {
	TenantID string          `json:"tenant_id"`
	Date     time.Time       `json:"date"`
	Postings []PostingParams `json:"postings"`
}

// CreateTransactionParams holds data needed to insert a single posting.
type CreateTransactionParams struct {
	JournalEntryID int64
	AccountID      int64
	Debit          decimal.NullDecimal
	Credit         decimal.NullDecimal
	Currency       string
	Notes          string
}

// AccountDelta is the summed net effect of postings on one account.
type AccountDelta struct {
	AccountID int64
	Delta     decimal.Decimal
}

// ListJournalEntriesParams is the input data to page through a tenant's journal.
type ListJournalEntriesParams struct {
	TenantID string
	Limit    int64
	Offset   int64
}
