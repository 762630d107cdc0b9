package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/handlers"
	"github.com/SscSPs/erp_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalEntriesResponse), args.Error(1)
}
func (m *MockJournalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) UpdateDraftEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) DeleteEntry(ctx context.Context, entryID string, userID string) error {
	return m.Called(ctx, entryID, userID).Error(0)
}
func (m *MockJournalService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ReverseEntry(ctx context.Context, entryID string, date *time.Time, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, date, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock VendorPaymentService ---
type MockVendorPaymentService struct {
	mock.Mock
}

func (m *MockVendorPaymentService) CreateVendorBill(ctx context.Context, req dto.CreateVendorBillRequest, userID string) (*domain.VendorBill, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VendorBill), args.Error(1)
}
func (m *MockVendorPaymentService) GetVendorBill(ctx context.Context, billID string) (*domain.VendorBill, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VendorBill), args.Error(1)
}
func (m *MockVendorPaymentService) CreateVendorPayment(ctx context.Context, req dto.CreateVendorPaymentRequest, userID string) (*domain.VendorPayment, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VendorPayment), args.Error(1)
}
func (m *MockVendorPaymentService) GetVendorPayment(ctx context.Context, paymentID string) (*domain.VendorPayment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VendorPayment), args.Error(1)
}
func (m *MockVendorPaymentService) ApproveVendorPayment(ctx context.Context, paymentID string, userID string) (*domain.VendorPayment, error) {
	args := m.Called(ctx, paymentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VendorPayment), args.Error(1)
}
func (m *MockVendorPaymentService) ProcessVendorPayment(ctx context.Context, paymentID string, userID string) (*domain.PaymentResult, error) {
	args := m.Called(ctx, paymentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentResult), args.Error(1)
}
func (m *MockVendorPaymentService) ReverseVendorPayment(ctx context.Context, paymentID string, userID string) (*domain.PaymentResult, error) {
	args := m.Called(ctx, paymentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentResult), args.Error(1)
}

var _ portssvc.VendorPaymentSvcFacade = (*MockVendorPaymentService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalanceReport), args.Error(1)
}
func (m *MockReportingService) ProfitAndLoss(ctx context.Context, from, to time.Time) (*domain.PAndLReport, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PAndLReport), args.Error(1)
}
func (m *MockReportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheetReport), args.Error(1)
}
func (m *MockReportingService) CashFlow(ctx context.Context, start, end time.Time) (*domain.CashFlowStatement, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashFlowStatement), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Test Suite Setup ---
type HandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	journalMock   *MockJournalService
	paymentMock   *MockVendorPaymentService
	reportingMock *MockReportingService
	cfg           *config.Config
	token         string
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.journalMock = new(MockJournalService)
	s.paymentMock = new(MockVendorPaymentService)
	s.reportingMock = new(MockReportingService)
	s.cfg = &config.Config{JWTSecret: "handler-test-secret-long-enough", JWTIssuer: "erp-ledger"}

	container := &portssvc.ServiceContainer{
		Journal:       s.journalMock,
		VendorPayment: s.paymentMock,
		Reporting:     s.reportingMock,
	}
	s.router = gin.New()
	handlers.RegisterRoutes(s.router, s.cfg, container, nil, nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "erp-ledger",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	s.Require().NoError(err)
	s.token = signed
}

func (s *HandlerTestSuite) TearDownTest() {
	s.journalMock.AssertExpectations(s.T())
	s.paymentMock.AssertExpectations(s.T())
	s.reportingMock.AssertExpectations(s.T())
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) decodeError(w *httptest.ResponseRecorder) dto.ErrorBody {
	var resp dto.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

// --- Tests ---

func (s *HandlerTestSuite) TestHealthIsPublic() {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestRequiresBearerToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/journal-entries/je-1", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestCreateEntry_Success() {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	req := dto.CreateJournalEntryRequest{
		TransactionDate: date,
		Description:     "Cash sale",
		Lines: []dto.JournalLineRequest{
			{AccountID: "cash", DebitAmount: decimal.NewFromInt(1000)},
			{AccountID: "sales", CreditAmount: decimal.NewFromInt(1000)},
		},
	}
	entry := &domain.JournalEntry{
		EntryID:         "je-1",
		EntryNumber:     "JE-000001",
		TransactionDate: date,
		Description:     "Cash sale",
		Status:          domain.EntryDraft,
		TotalAmount:     decimal.NewFromInt(1000),
	}
	s.journalMock.On("CreateEntry", mock.Anything, mock.AnythingOfType("dto.CreateJournalEntryRequest"), "user-1").Return(entry, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/journal-entries", req)

	s.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalEntryResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("JE-000001", resp.EntryNumber)
	s.Equal("DRAFT", resp.Status)
	s.Equal("2024-03-15", resp.TransactionDate)
}

func (s *HandlerTestSuite) TestCreateEntry_SingleLineRejectedBeforeService() {
	req := map[string]any{
		"transactionDate": "2024-03-15T00:00:00Z",
		"description":     "Half an entry",
		"lines":           []map[string]any{{"accountID": "cash", "debitAmount": "10"}},
	}

	w := s.do(http.MethodPost, "/api/v1/journal-entries", req)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(string(apperrors.KindValidation), s.decodeError(w).Kind)
	s.journalMock.AssertNotCalled(s.T(), "CreateEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestPostEntry_AlreadyPostedIsConflict() {
	s.journalMock.On("PostEntry", mock.Anything, "je-1", "user-1").
		Return(nil, apperrors.NewStateConflict("cannot modify posted entry", "je-1")).Once()

	w := s.do(http.MethodPost, "/api/v1/journal-entries/je-1/post", nil)

	s.Equal(http.StatusConflict, w.Code)
	body := s.decodeError(w)
	s.Equal("STATE_CONFLICT", body.Kind)
	s.Equal("cannot modify posted entry", body.Message)
	s.Equal("je-1", body.RecordID)
}

func (s *HandlerTestSuite) TestReverseEntry_WithoutBodyUsesToday() {
	reversal := &domain.JournalEntry{EntryID: "je-2", EntryNumber: "JE-000002", Status: domain.EntryPosted}
	s.journalMock.On("ReverseEntry", mock.Anything, "je-1", (*time.Time)(nil), "user-1").Return(reversal, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/journal-entries/je-1/reverse", nil)

	s.Equal(http.StatusCreated, w.Code)
}

func (s *HandlerTestSuite) TestGetEntry_InternalErrorIsNotLeaked() {
	s.journalMock.On("GetEntry", mock.Anything, "je-1").Return(nil, errors.New("pq: connection reset")).Once()

	w := s.do(http.MethodGet, "/api/v1/journal-entries/je-1", nil)

	s.Equal(http.StatusInternalServerError, w.Code)
	body := s.decodeError(w)
	s.Equal("INTERNAL", body.Kind)
	s.NotContains(body.Message, "connection reset")
}

func (s *HandlerTestSuite) TestCreateVendorBill_ZeroAmountRejected() {
	req := map[string]any{"vendorID": "v-1", "billNumber": "B-1", "totalAmount": "0"}

	w := s.do(http.MethodPost, "/api/v1/vendor-bills", req)

	s.Equal(http.StatusBadRequest, w.Code)
	s.paymentMock.AssertNotCalled(s.T(), "CreateVendorBill", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlerTestSuite) TestProcessVendorPayment_InsufficientBalance() {
	s.paymentMock.On("ProcessVendorPayment", mock.Anything, "pay-1", "user-1").
		Return(nil, apperrors.NewInsufficientBalance("insufficient balance", "cash-1")).Once()

	w := s.do(http.MethodPost, "/api/v1/vendor-payments/pay-1/process", nil)

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("INSUFFICIENT_BALANCE", s.decodeError(w).Kind)
}

func (s *HandlerTestSuite) TestProcessVendorPayment_WarningsStillSucceed() {
	result := &domain.PaymentResult{
		Payment: domain.VendorPayment{
			PaymentID: "pay-1",
			Amount:    decimal.NewFromInt(5000),
			Method:    domain.MethodBankTransfer,
			Status:    domain.StatusProcessed,
		},
		Warnings: []domain.OperationWarning{{Step: "update_bill", RecordID: "bill-1", Message: "vendor bill not found"}},
	}
	s.paymentMock.On("ProcessVendorPayment", mock.Anything, "pay-1", "user-1").Return(result, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/vendor-payments/pay-1/process", nil)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.PaymentResultResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("PROCESSED", resp.Payment.Status)
	s.Require().Len(resp.Warnings, 1)
	s.Equal("bill-1", resp.Warnings[0].RecordID)
}

func (s *HandlerTestSuite) TestBalanceSheet_ReportsImbalance() {
	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	report := &domain.BalanceSheetReport{
		AsOf:                      asOf,
		TotalAssets:               decimal.NewFromInt(100),
		TotalLiabilitiesAndEquity: decimal.NewFromInt(90),
		Difference:                decimal.NewFromInt(10),
		IsBalanced:                false,
	}
	s.reportingMock.On("BalanceSheet", mock.Anything, mock.AnythingOfType("time.Time")).Return(report, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/reports/balance-sheet?asOf=2024-03-31", nil)

	s.Equal(http.StatusOK, w.Code)
	var resp dto.BalanceSheetResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.False(resp.IsBalanced)
	s.True(resp.Summary.Difference.Equal(decimal.NewFromInt(10)))
}

func (s *HandlerTestSuite) TestCashFlow_RequiresBothDates() {
	w := s.do(http.MethodGet, "/api/v1/reports/cash-flow?startDate=2024-03-01", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestTrialBalance_TimeoutMapsTo504() {
	s.reportingMock.On("TrialBalance", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.Wrap(apperrors.KindTimeout, "trial balance did not complete before the deadline", "", context.DeadlineExceeded)).Once()

	w := s.do(http.MethodGet, "/api/v1/reports/trial-balance", nil)

	s.Equal(http.StatusGatewayTimeout, w.Code)
	s.Equal("TIMEOUT", s.decodeError(w).Kind)
}
