package dto

import (
	"time"

	"github.com/finometry/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineRequest is one debit/credit line of a new entry. Exactly one of
// DebitAmount/CreditAmount must be non-zero; the service validates this
// beyond what binding can express.
type CreateLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}

// CreateEntryRequest defines the payload for creating a DRAFT journal entry.
type CreateEntryRequest struct {
	Date         time.Time           `json:"date" binding:"required"`
	Description  string              `json:"description" binding:"required"`
	CurrencyCode string              `json:"currencyCode" binding:"required,currencycode"`
	ExchangeRate decimal.Decimal     `json:"exchangeRate"` // Defaults to 1 when zero
	Lines        []CreateLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID          string          `json:"entryID"`
	Date             time.Time       `json:"date"`
	Description      string          `json:"description"`
	CurrencyCode     string          `json:"currencyCode"`
	ExchangeRate     decimal.Decimal `json:"exchangeRate"`
	Status           string          `json:"status"`
	PostedBy         string          `json:"postedBy,omitempty"`
	PostedAt         *time.Time      `json:"postedAt,omitempty"`
	OriginalEntryID  *string         `json:"originalEntryID,omitempty"`
	ReversingEntryID *string         `json:"reversingEntryID,omitempty"`
	Lines            []LineResponse  `json:"lines,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}

// ToLineResponse converts a domain.JournalLine to a LineResponse DTO.
func ToLineResponse(l *domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:       l.LineID,
		EntryID:      l.EntryID,
		AccountID:    l.AccountID,
		DebitAmount:  l.Debit,
		CreditAmount: l.Credit,
		Description:  l.Description,
	}
}

// ToLineResponses converts a slice of domain lines to DTOs.
func ToLineResponses(lines []domain.JournalLine) []LineResponse {
	responses := make([]LineResponse, len(lines))
	for i := range lines {
		responses[i] = ToLineResponse(&lines[i])
	}
	return responses
}

// ToEntryResponse converts a domain.JournalEntry to an EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	return EntryResponse{
		EntryID:          e.EntryID,
		Date:             e.EntryDate,
		Description:      e.Description,
		CurrencyCode:     e.CurrencyCode,
		ExchangeRate:     e.ExchangeRate,
		Status:           string(e.Status),
		PostedBy:         e.PostedBy,
		PostedAt:         e.PostedAt,
		OriginalEntryID:  e.OriginalEntryID,
		ReversingEntryID: e.ReversingEntryID,
		Lines:            ToLineResponses(e.Lines),
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
}

// ListEntriesParams holds parameters for listing entries.
type ListEntriesParams struct {
	Limit            int     `form:"limit"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals"`
}

// ListEntriesResponse wraps a page of entries plus the next-page token.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ListLinesParams holds parameters for listing an account's lines.
type ListLinesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListLinesResponse wraps a page of lines plus the next-page token.
type ListLinesResponse struct {
	Lines     []LineResponse `json:"lines"`
	NextToken *string        `json:"nextToken,omitempty"`
}
