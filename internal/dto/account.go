package dto

import (
	"time"

	"github.com/finometry/ledger_backend/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating an account.
type CreateAccountRequest struct {
	Code            string  `json:"code" binding:"required,max=50"`
	Name            string  `json:"name" binding:"required,max=200"`
	AccountType     string  `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	CurrencyCode    string  `json:"currencyCode" binding:"required,currencycode"`
	ParentAccountID *string `json:"parentAccountID,omitempty"`
	Description     string  `json:"description"`
}

// UpdateAccountRequest defines the payload for updating an account.
// All fields are optional; ParentAccountID set to an empty string moves the
// account to the root of the chart.
type UpdateAccountRequest struct {
	Code            *string `json:"code,omitempty" binding:"omitempty,max=50"`
	Name            *string `json:"name,omitempty" binding:"omitempty,max=200"`
	Description     *string `json:"description,omitempty"`
	ParentAccountID *string `json:"parentAccountID,omitempty"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string    `json:"accountID"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	AccountType     string    `json:"accountType"`
	CurrencyCode    string    `json:"currencyCode"`
	ParentAccountID string    `json:"parentAccountID,omitempty"`
	Description     string    `json:"description,omitempty"`
	IsActive        bool      `json:"isActive"`
	ChildCount      int64     `json:"childCount"`
	CreatedAt       time.Time `json:"createdAt"`
	CreatedBy       string    `json:"createdBy"`
}

// ToAccountResponse converts a domain.Account to an AccountResponse DTO.
func ToAccountResponse(a *domain.Account, childCount int64) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     string(a.AccountType),
		CurrencyCode:    a.CurrencyCode,
		ParentAccountID: a.ParentAccountID,
		Description:     a.Description,
		IsActive:        a.IsActive,
		ChildCount:      childCount,
		CreatedAt:       a.CreatedAt,
		CreatedBy:       a.CreatedBy,
	}
}

// ListAccountsResponse wraps the account list endpoint payload.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
