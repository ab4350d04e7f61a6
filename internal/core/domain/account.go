package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// AccountTypes lists every valid account type, in reporting order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Income, Expense}

// IsValid reports whether t is one of the five known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether accounts of this type increase with debits.
// ASSET and EXPENSE are debit-normal; LIABILITY, EQUITY and INCOME are
// credit-normal.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents a single account in the chart of accounts.
// Accounts form a tree via ParentAccountID; the hierarchy is kept flat and
// id-keyed, cycle checks walk the ancestor chain explicitly.
type Account struct {
	AccountID       string      `json:"accountID"`       // Primary key (UUID)
	Code            string      `json:"code"`            // Unique across the whole chart
	Name            string      `json:"name"`            // User-defined name
	AccountType     AccountType `json:"accountType"`     // ASSET, LIABILITY, EQUITY, INCOME, EXPENSE
	CurrencyCode    string      `json:"currencyCode"`    // Native currency (ISO 4217)
	ParentAccountID string      `json:"parentAccountID"` // Empty for root accounts
	Description     string      `json:"description"`
	IsActive        bool        `json:"isActive"` // Soft-delete flag; postings require an active account
	AuditFields
}
