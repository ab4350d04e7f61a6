package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceQuery restricts a ledger aggregation to a date window and a
// currency. From is optional; a nil From means "from the beginning of
// history". Only POSTED entries whose currency matches CurrencyCode
// contribute.
type BalanceQuery struct {
	From         *time.Time
	To           time.Time
	CurrencyCode string
}

// AccountActivity is the raw debit/credit aggregate for one account over a
// query window, before any sign convention is applied.
type AccountActivity struct {
	AccountID   string
	Code        string
	Name        string
	AccountType AccountType
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// NetBalance folds the raw activity into a single signed balance using the
// account type's normal side: debit-minus-credit for debit-normal accounts,
// credit-minus-debit otherwise.
func (a AccountActivity) NetBalance() decimal.Decimal {
	if a.AccountType.IsDebitNormal() {
		return a.Debit.Sub(a.Credit)
	}
	return a.Credit.Sub(a.Debit)
}

// AccountBalance is an account with its net balance for financial reports.
type AccountBalance struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
}

// TrialBalanceRow is one line of a trial balance report. At most one of
// DebitBalance/CreditBalance is non-zero; both are zero when the account's
// activity nets to zero.
type TrialBalanceRow struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	AccountType   AccountType     `json:"accountType"`
	DebitBalance  decimal.Decimal `json:"debitBalance"`
	CreditBalance decimal.Decimal `json:"creditBalance"`
}

// TrialBalance lists every active account's balance as of a date, together
// with the verified grand totals.
type TrialBalance struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// BalanceSheet is a point-in-time report of assets, liabilities and equity.
// RetainedEarnings (cumulative income minus cumulative expense up to AsOf)
// is folded into TotalEquity.
type BalanceSheet struct {
	AsOf             time.Time        `json:"asOf"`
	Assets           []AccountBalance `json:"assets"`
	Liabilities      []AccountBalance `json:"liabilities"`
	Equity           []AccountBalance `json:"equity"`
	TotalAssets      decimal.Decimal  `json:"totalAssets"`
	TotalLiabilities decimal.Decimal  `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal  `json:"totalEquity"`
	RetainedEarnings decimal.Decimal  `json:"retainedEarnings"`
	IsBalanced       bool             `json:"isBalanced"`
}

// IncomeStatement is a period report of revenue and expenses.
type IncomeStatement struct {
	FromDate      time.Time        `json:"fromDate"`
	ToDate        time.Time        `json:"toDate"`
	Revenue       []AccountBalance `json:"revenue"`
	Expenses      []AccountBalance `json:"expenses"`
	TotalRevenue  decimal.Decimal  `json:"totalRevenue"`
	TotalExpenses decimal.Decimal  `json:"totalExpenses"`
	NetIncome     decimal.Decimal  `json:"netIncome"`
}
