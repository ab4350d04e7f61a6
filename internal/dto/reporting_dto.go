package dto

import (
	"github.com/finometry/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

const reportDateFormat = "2006-01-02"

// TrialBalanceRowResponse represents a row in the trial balance response.
type TrialBalanceRowResponse struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	AccountType   string          `json:"accountType"`
	DebitBalance  decimal.Decimal `json:"debitBalance"`
	CreditBalance decimal.Decimal `json:"creditBalance"`
}

// TrialBalanceResponse represents the trial balance report response.
type TrialBalanceResponse struct {
	AsOf        string                    `json:"asOf"`
	Currency    string                    `json:"currency"`
	Accounts    []TrialBalanceRowResponse `json:"accounts"`
	TotalDebit  decimal.Decimal           `json:"totalDebit"`
	TotalCredit decimal.Decimal           `json:"totalCredit"`
}

// AccountBalanceResponse represents an account with its balance in a report.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
}

// BalanceSheetResponse represents the balance sheet report response.
type BalanceSheetResponse struct {
	AsOf             string                   `json:"asOf"`
	Currency         string                   `json:"currency"`
	Assets           []AccountBalanceResponse `json:"assets"`
	Liabilities      []AccountBalanceResponse `json:"liabilities"`
	Equity           []AccountBalanceResponse `json:"equity"`
	TotalAssets      decimal.Decimal          `json:"totalAssets"`
	TotalLiabilities decimal.Decimal          `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal          `json:"totalEquity"`
	RetainedEarnings decimal.Decimal          `json:"retainedEarnings"`
	IsBalanced       bool                     `json:"isBalanced"`
}

// IncomeStatementResponse represents the income statement report response.
type IncomeStatementResponse struct {
	FromDate      string                   `json:"fromDate"`
	ToDate        string                   `json:"toDate"`
	Currency      string                   `json:"currency"`
	Revenue       []AccountBalanceResponse `json:"revenue"`
	Expenses      []AccountBalanceResponse `json:"expenses"`
	TotalRevenue  decimal.Decimal          `json:"totalRevenue"`
	TotalExpenses decimal.Decimal          `json:"totalExpenses"`
	NetIncome     decimal.Decimal          `json:"netIncome"`
}

// BalanceResponse is the payload of the account balance endpoint.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	Currency  string          `json:"currency"`
	From      string          `json:"from,omitempty"`
	AsOf      string          `json:"asOf"`
	Rollup    bool            `json:"rollup"`
	Balance   decimal.Decimal `json:"balance"`
}

func toAccountBalanceResponses(balances []domain.AccountBalance) []AccountBalanceResponse {
	out := make([]AccountBalanceResponse, len(balances))
	for i, b := range balances {
		out[i] = AccountBalanceResponse{
			AccountID: b.AccountID,
			Code:      b.Code,
			Name:      b.Name,
			Balance:   b.Balance,
		}
	}
	return out
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response.
func ToTrialBalanceResponse(tb *domain.TrialBalance, currency string) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, row := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID:     row.AccountID,
			Code:          row.Code,
			Name:          row.Name,
			AccountType:   string(row.AccountType),
			DebitBalance:  row.DebitBalance,
			CreditBalance: row.CreditBalance,
		}
	}
	return TrialBalanceResponse{
		AsOf:        tb.AsOf.Format(reportDateFormat),
		Currency:    currency,
		Accounts:    rows,
		TotalDebit:  tb.TotalDebit,
		TotalCredit: tb.TotalCredit,
	}
}

// ToBalanceSheetResponse converts a domain balance sheet to a DTO response.
func ToBalanceSheetResponse(bs *domain.BalanceSheet, currency string) BalanceSheetResponse {
	return BalanceSheetResponse{
		AsOf:             bs.AsOf.Format(reportDateFormat),
		Currency:         currency,
		Assets:           toAccountBalanceResponses(bs.Assets),
		Liabilities:      toAccountBalanceResponses(bs.Liabilities),
		Equity:           toAccountBalanceResponses(bs.Equity),
		TotalAssets:      bs.TotalAssets,
		TotalLiabilities: bs.TotalLiabilities,
		TotalEquity:      bs.TotalEquity,
		RetainedEarnings: bs.RetainedEarnings,
		IsBalanced:       bs.IsBalanced,
	}
}

// ToIncomeStatementResponse converts a domain income statement to a DTO
// response.
func ToIncomeStatementResponse(is *domain.IncomeStatement, currency string) IncomeStatementResponse {
	return IncomeStatementResponse{
		FromDate:      is.FromDate.Format(reportDateFormat),
		ToDate:        is.ToDate.Format(reportDateFormat),
		Currency:      currency,
		Revenue:       toAccountBalanceResponses(is.Revenue),
		Expenses:      toAccountBalanceResponses(is.Expenses),
		TotalRevenue:  is.TotalRevenue,
		TotalExpenses: is.TotalExpenses,
		NetIncome:     is.NetIncome,
	}
}
