package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// JournalEntry represents a single, balanced financial event composed of
// multiple debit/credit lines. An entry is created DRAFT, transitions to
// POSTED exactly once, and may only be neutralized by a reversing entry.
// Posted history is never mutated or deleted.
type JournalEntry struct {
	EntryID      string          `json:"entryID"`      // Primary key (UUID)
	EntryDate    time.Time       `json:"entryDate"`    // Date the event occurred
	Description  string          `json:"description"`
	CurrencyCode string          `json:"currencyCode"` // Currency of every line on this entry
	ExchangeRate decimal.Decimal `json:"exchangeRate"` // Captured at creation, immutable thereafter
	Status       EntryStatus     `json:"status"`
	PostedBy     string          `json:"postedBy,omitempty"`
	PostedAt     *time.Time      `json:"postedAt,omitempty"`
	// OriginalEntryID is set on a reversal and points at the entry it
	// neutralizes. ReversingEntryID is the back-link set on the original.
	OriginalEntryID  *string       `json:"originalEntryID,omitempty"`
	ReversingEntryID *string       `json:"reversingEntryID,omitempty"`
	Lines            []JournalLine `json:"lines,omitempty"` // Often loaded separately
	AuditFields
}

// IsReversal reports whether this entry was created to neutralize another.
func (e *JournalEntry) IsReversal() bool {
	return e.OriginalEntryID != nil
}

// JournalLine is a single line item within an entry, affecting one account.
// Exactly one of Debit/Credit is non-zero; both are non-negative.
type JournalLine struct {
	LineID      string          `json:"lineID"`  // Primary key (UUID)
	EntryID     string          `json:"entryID"` // FK -> JournalEntry
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debitAmount"`
	Credit      decimal.Decimal `json:"creditAmount"`
	Description string          `json:"description"`
	AuditFields
}

// IsDebit reports whether the line carries its amount on the debit side.
func (l *JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the non-zero side of the line.
func (l *JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}
