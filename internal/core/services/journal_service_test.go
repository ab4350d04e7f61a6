package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finometry/ledger_backend/internal/apperrors"
	"github.com/finometry/ledger_backend/internal/core/domain"
	portssvc "github.com/finometry/ledger_backend/internal/core/ports/services"
	"github.com/finometry/ledger_backend/internal/core/services"
	"github.com/finometry/ledger_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	mockAuditSvc    *MockAuditService
	service         portssvc.JournalSvc
	userID          string

	cashAccount    domain.Account
	revenueAccount domain.Account
	expenseAccount domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockAuditSvc = new(MockAuditService)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountRepo, suite.mockAuditSvc)
	suite.userID = uuid.NewString()

	suite.cashAccount = domain.Account{
		AccountID: uuid.NewString(), Code: "1000", Name: "Cash",
		AccountType: domain.Asset, CurrencyCode: "USD", IsActive: true,
	}
	suite.revenueAccount = domain.Account{
		AccountID: uuid.NewString(), Code: "4000", Name: "Sales Revenue",
		AccountType: domain.Income, CurrencyCode: "USD", IsActive: true,
	}
	suite.expenseAccount = domain.Account{
		AccountID: uuid.NewString(), Code: "5000", Name: "Rent Expense",
		AccountType: domain.Expense, CurrencyCode: "USD", IsActive: true,
	}
}

func (suite *JournalServiceTestSuite) accountsByID(accounts ...domain.Account) map[string]domain.Account {
	out := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out
}

func (suite *JournalServiceTestSuite) expectAudit() {
	suite.mockAuditSvc.On("Record",
		mock.Anything, domain.AuditEntityEntry, mock.AnythingOfType("string"),
		mock.AnythingOfType("domain.AuditAction"), mock.Anything, mock.Anything, suite.userID,
	).Return()
}

func (suite *JournalServiceTestSuite) balancedRequest() dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		Date:         time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Description:  "March consulting invoice",
		CurrencyCode: "USD",
		Lines: []dto.CreateLineRequest{
			{AccountID: suite.cashAccount.AccountID, DebitAmount: decimal.NewFromInt(500)},
			{AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(500)},
		},
	}
}

// draftEntry builds a stored two-line balanced DRAFT against cash and
// revenue.
func (suite *JournalServiceTestSuite) draftEntry() *domain.JournalEntry {
	entryID := uuid.NewString()
	return &domain.JournalEntry{
		EntryID:      entryID,
		EntryDate:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Description:  "March consulting invoice",
		CurrencyCode: "USD",
		ExchangeRate: decimal.NewFromInt(1),
		Status:       domain.Draft,
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(500)},
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(500)},
		},
	}
}

func (suite *JournalServiceTestSuite) expectEntryLoad(entry *domain.JournalEntry) {
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, entry.EntryID).Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, entry.EntryID).Return(entry.Lines, nil).Once()
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Success() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsByID(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx,
		mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).
		Return(nil).Once()
	suite.expectAudit()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.Draft, entry.Status)
	suite.True(entry.ExchangeRate.Equal(decimal.NewFromInt(1)), "zero exchange rate should default to 1")
	suite.Len(entry.Lines, 2)
	for _, line := range entry.Lines {
		suite.Equal(entry.EntryID, line.EntryID)
		suite.NotEmpty(line.LineID)
	}
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAuditSvc.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateEntry_NoLines() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines = nil

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(apperrors.CodeEntryNoLines, apperrors.CodeOf(err))
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_LineWithBothSides() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].CreditAmount = decimal.NewFromInt(500)

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.Equal(apperrors.CodeLineMalformed, apperrors.CodeOf(err))
}

func (suite *JournalServiceTestSuite) TestCreateEntry_NegativeAmount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].DebitAmount = decimal.NewFromInt(-500)

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.Equal(apperrors.CodeLineMalformed, apperrors.CodeOf(err))
}

func (suite *JournalServiceTestSuite) TestCreateEntry_Unbalanced() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].CreditAmount = decimal.RequireFromString("499.98")

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(apperrors.CodeEntryUnbalanced, apperrors.CodeOf(err))
}

func (suite *JournalServiceTestSuite) TestCreateEntry_WithinTolerance() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].CreditAmount = decimal.RequireFromString("499.99")

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsByID(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("SaveEntry", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.expectAudit()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.NotNil(entry)
}

func (suite *JournalServiceTestSuite) TestCreateEntry_InactiveAccount() {
	ctx := context.Background()
	inactive := suite.cashAccount
	inactive.IsActive = false
	req := suite.balancedRequest()

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsByID(inactive, suite.revenueAccount), nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.Equal(apperrors.CodeAccountInactive, apperrors.CodeOf(err))
}

func (suite *JournalServiceTestSuite) TestCreateEntry_CurrencyMismatch() {
	ctx := context.Background()
	eurAccount := suite.revenueAccount
	eurAccount.CurrencyCode = "EUR"
	req := suite.balancedRequest()

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.AnythingOfType("[]string")).
		Return(suite.accountsByID(suite.cashAccount, eurAccount), nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.Equal(apperrors.CodeCurrencyMismatch, apperrors.CodeOf(err))
}

func (suite *JournalServiceTestSuite) TestCreateEntry_NegativeExchangeRate() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.ExchangeRate = decimal.NewFromInt(-2)

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.Equal(apperrors.CodeInvalidParameter, apperrors.CodeOf(err))
}

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.expectEntryLoad(entry)
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.AnythingOfType("[]string")).
		Return(suite.accountsByID(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("PostEntry", mock.Anything, entry.EntryID, suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()
	suite.expectAudit()

	posted, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Equal(suite.userID, posted.PostedBy)
	suite.Require().NotNil(posted.PostedAt)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_AlreadyPosted() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Posted

	suite.expectEntryLoad(entry)

	posted, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(posted)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal(apperrors.CodeEntryNotDraft, apperrors.CodeOf(err))
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_LostRace() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.expectEntryLoad(entry)
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.AnythingOfType("[]string")).
		Return(suite.accountsByID(suite.cashAccount, suite.revenueAccount), nil).Once()
	suite.mockJournalRepo.On("PostEntry", mock.Anything, entry.EntryID, suite.userID, mock.AnythingOfType("time.Time")).
		Return(apperrors.NewConflict(apperrors.CodeEntryNotDraft, "stale")).Once()

	posted, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(posted)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *JournalServiceTestSuite) TestPostEntry_AccountDeactivatedSinceDraft() {
	ctx := context.Background()
	entry := suite.draftEntry()
	deactivated := suite.cashAccount
	deactivated.IsActive = false

	suite.expectEntryLoad(entry)
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, mock.AnythingOfType("[]string")).
		Return(suite.accountsByID(deactivated, suite.revenueAccount), nil).Once()

	posted, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(posted)
	suite.Equal(apperrors.CodeAccountInactive, apperrors.CodeOf(err))
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_Success() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Posted
	entry.ExchangeRate = decimal.RequireFromString("1.25")

	suite.expectEntryLoad(entry)
	suite.mockJournalRepo.On("SaveReversal", mock.Anything,
		mock.MatchedBy(func(reversal domain.JournalEntry) bool {
			return reversal.Status == domain.Posted &&
				reversal.OriginalEntryID != nil && *reversal.OriginalEntryID == entry.EntryID &&
				reversal.ExchangeRate.Equal(entry.ExchangeRate)
		}),
		mock.MatchedBy(func(lines []domain.JournalLine) bool {
			if len(lines) != 2 {
				return false
			}
			// Debit and credit swap sides on every line.
			return lines[0].Credit.Equal(entry.Lines[0].Debit) &&
				lines[1].Debit.Equal(entry.Lines[1].Credit)
		}),
		entry.EntryID, suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()
	suite.expectAudit()

	reversal, err := suite.service.ReverseEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal(domain.Posted, reversal.Status)
	suite.True(reversal.IsReversal())
	suite.Contains(reversal.Description, entry.EntryID)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	// One REVERSE record for the original, one CREATE for the reversal.
	suite.mockAuditSvc.AssertNumberOfCalls(suite.T(), "Record", 2)
}

func (suite *JournalServiceTestSuite) TestReverseEntry_NotPosted() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.expectEntryLoad(entry)

	reversal, err := suite.service.ReverseEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrState)
	suite.Equal(apperrors.CodeEntryNotPosted, apperrors.CodeOf(err))
}

func (suite *JournalServiceTestSuite) TestReverseEntry_AlreadyReversed() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Posted
	existingReversal := uuid.NewString()
	entry.ReversingEntryID = &existingReversal

	suite.expectEntryLoad(entry)

	reversal, err := suite.service.ReverseEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveReversal",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestDiscardDraft_Success() {
	ctx := context.Background()
	entry := suite.draftEntry()

	suite.expectEntryLoad(entry)
	suite.mockJournalRepo.On("DeleteDraftEntry", mock.Anything, entry.EntryID).Return(nil).Once()
	suite.expectAudit()

	err := suite.service.DiscardDraft(ctx, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestDiscardDraft_NotDraft() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Posted

	suite.expectEntryLoad(entry)

	err := suite.service.DiscardDraft(ctx, entry.EntryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrState)
	suite.Equal(apperrors.CodeEntryNotDraft, apperrors.CodeOf(err))
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteDraftEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestListEntries_ClampsLimit() {
	ctx := context.Background()

	suite.mockJournalRepo.On("ListEntries", ctx, 100, (*string)(nil), false).
		Return([]domain.JournalEntry{}, nil, nil).Once()

	resp, err := suite.service.ListEntries(ctx, dto.ListEntriesParams{Limit: 5000})

	suite.Require().NoError(err)
	suite.Empty(resp.Entries)
	suite.Nil(resp.NextToken)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
