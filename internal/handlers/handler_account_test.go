package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/finometry/ledger_backend/internal/apperrors"
	"github.com/finometry/ledger_backend/internal/core/domain"
	portssvc "github.com/finometry/ledger_backend/internal/core/ports/services"
	"github.com/finometry/ledger_backend/internal/dto"
	"github.com/finometry/ledger_backend/internal/handlers"
	"github.com/finometry/ledger_backend/internal/middleware"
	"github.com/finometry/ledger_backend/internal/platform/validation"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvc = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CountChildren(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountService) ChildCounts(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

var registerValidatorsOnce sync.Once

// --- Test Suite ---

type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	jwtSecret          string
}

func (suite *AccountHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "ledger-backend-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	registerValidatorsOnce.Do(func() { _ = validation.RegisterCustomValidators() })

	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockAccountService = new(MockAccountService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterAccountRoutes(v1, suite.mockAccountService)
}

func (suite *AccountHandlerTestSuite) serve(method, url, userID string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	userID := uuid.NewString()
	reqBody := dto.CreateAccountRequest{
		Code:         "1000",
		Name:         "Cash",
		AccountType:  "ASSET",
		CurrencyCode: "USD",
	}
	created := &domain.Account{
		AccountID:    uuid.NewString(),
		Code:         "1000",
		Name:         "Cash",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		IsActive:     true,
	}

	suite.mockAccountService.On("CreateAccount", mock.Anything, reqBody, userID).
		Return(created, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/accounts", userID, reqBody)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.AccountID, resp.AccountID)
	suite.Equal("1000", resp.Code)
	suite.True(resp.IsActive)
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_BadCurrencyCode() {
	userID := uuid.NewString()
	reqBody := dto.CreateAccountRequest{
		Code:         "1000",
		Name:         "Cash",
		AccountType:  "ASSET",
		CurrencyCode: "usd",
	}

	w := suite.serve(http.MethodPost, "/api/v1/accounts", userID, reqBody)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateCode() {
	userID := uuid.NewString()
	reqBody := dto.CreateAccountRequest{
		Code:         "1000",
		Name:         "Cash",
		AccountType:  "ASSET",
		CurrencyCode: "USD",
	}

	suite.mockAccountService.On("CreateAccount", mock.Anything, reqBody, userID).
		Return(nil, apperrors.NewConflict(apperrors.CodeAccountCodeExists, "account code 1000 already exists")).Once()

	w := suite.serve(http.MethodPost, "/api/v1/accounts", userID, reqBody)

	suite.Equal(http.StatusConflict, w.Code)
	var resp map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(apperrors.CodeAccountCodeExists, resp["code"])
}

func (suite *AccountHandlerTestSuite) TestGetAccount_Success() {
	userID := uuid.NewString()
	account := &domain.Account{
		AccountID:    uuid.NewString(),
		Code:         "1000",
		Name:         "Cash",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		IsActive:     true,
	}

	suite.mockAccountService.On("GetAccountByID", mock.Anything, account.AccountID).Return(account, nil).Once()
	suite.mockAccountService.On("CountChildren", mock.Anything, account.AccountID).Return(int64(3), nil).Once()

	w := suite.serve(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s", account.AccountID), userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(account.AccountID, resp.AccountID)
	suite.Equal(int64(3), resp.ChildCount)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	userID := uuid.NewString()
	accountID := uuid.NewString()

	suite.mockAccountService.On("GetAccountByID", mock.Anything, accountID).
		Return(nil, apperrors.NewNotFound(apperrors.CodeAccountNotFound, "account not found")).Once()

	w := suite.serve(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s", accountID), userID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountHandlerTestSuite) TestListAccounts_PopulatesChildCounts() {
	userID := uuid.NewString()
	parent := domain.Account{
		AccountID:    uuid.NewString(),
		Code:         "1000",
		Name:         "Assets",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	leaf := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            "1100",
		Name:            "Cash",
		AccountType:     domain.Asset,
		CurrencyCode:    "USD",
		ParentAccountID: parent.AccountID,
		IsActive:        true,
	}

	suite.mockAccountService.On("ListAccounts", mock.Anything, false).
		Return([]domain.Account{parent, leaf}, nil).Once()
	suite.mockAccountService.On("ChildCounts", mock.Anything).
		Return(map[string]int64{parent.AccountID: 1}, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/accounts", userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Accounts, 2)
	suite.Equal(int64(1), resp.Accounts[0].ChildCount)
	suite.Equal(int64(0), resp.Accounts[1].ChildCount)
}

func (suite *AccountHandlerTestSuite) TestUpdateAccount_PopulatesChildCount() {
	userID := uuid.NewString()
	account := &domain.Account{
		AccountID:    uuid.NewString(),
		Code:         "1000",
		Name:         "Current Assets",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
		IsActive:     true,
	}
	newName := "Current Assets"
	reqBody := dto.UpdateAccountRequest{Name: &newName}

	suite.mockAccountService.On("UpdateAccount", mock.Anything, account.AccountID, reqBody, userID).
		Return(account, nil).Once()
	suite.mockAccountService.On("CountChildren", mock.Anything, account.AccountID).
		Return(int64(2), nil).Once()

	w := suite.serve(http.MethodPut, fmt.Sprintf("/api/v1/accounts/%s", account.AccountID), userID, reqBody)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(2), resp.ChildCount)
}

func (suite *AccountHandlerTestSuite) TestDeleteAccount_HasPostings() {
	userID := uuid.NewString()
	accountID := uuid.NewString()

	suite.mockAccountService.On("DeleteAccount", mock.Anything, accountID, userID).
		Return(apperrors.NewState(apperrors.CodeAccountHasPostings, "account has journal lines; deactivate it instead")).Once()

	w := suite.serve(http.MethodDelete, fmt.Sprintf("/api/v1/accounts/%s", accountID), userID, nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *AccountHandlerTestSuite) TestListAccounts_MissingToken() {
	req, err := http.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	suite.Require().NoError(err)
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything)
}

func TestAccountHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
