package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_ingest/internal/apperrors"
	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_ingest/internal/core/ports/services"
	"github.com/SscSPs/ledger_ingest/internal/dto"
	"github.com/SscSPs/ledger_ingest/internal/handlers"
	"github.com/SscSPs/ledger_ingest/internal/platform/config"
	"github.com/SscSPs/ledger_ingest/internal/utils"
)

// --- Mock StagingSvc ---
type MockStagingService struct {
	mock.Mock
}

func (m *MockStagingService) Stage(ctx context.Context, req domain.StageRequest) (*domain.StageResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StageResult), args.Error(1)
}
func (m *MockStagingService) Clear(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ portssvc.StagingSvc = (*MockStagingService)(nil)

// --- Mock ValidationSvc ---
type MockValidationService struct {
	mock.Mock
}

func (m *MockValidationService) ValidateStaging(ctx context.Context) (*domain.ValidationReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValidationReport), args.Error(1)
}
func (m *MockValidationService) ValidateLedger(ctx context.Context, filter domain.EntryFilter) (*domain.ValidationReport, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValidationReport), args.Error(1)
}

var _ portssvc.ValidationSvc = (*MockValidationService)(nil)

// --- Mock ConfirmationSvc ---
type MockConfirmationService struct {
	mock.Mock
}

func (m *MockConfirmationService) Confirm(ctx context.Context) (*domain.ConfirmResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConfirmResult), args.Error(1)
}
func (m *MockConfirmationService) Preview(ctx context.Context) (*domain.ConfirmPreview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConfirmPreview), args.Error(1)
}
func (m *MockConfirmationService) SyncUploads(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var _ portssvc.ConfirmationSvc = (*MockConfirmationService)(nil)

// --- Mock PeriodCloseSvc ---
type MockPeriodCloseService struct {
	mock.Mock
}

func (m *MockPeriodCloseService) Close(ctx context.Context, period domain.Period, reclose bool) (*domain.CloseResult, error) {
	args := m.Called(ctx, period, reclose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CloseResult), args.Error(1)
}
func (m *MockPeriodCloseService) State(ctx context.Context, period domain.Period) (domain.PeriodState, error) {
	args := m.Called(ctx, period)
	return args.Get(0).(domain.PeriodState), args.Error(1)
}

var _ portssvc.PeriodCloseSvc = (*MockPeriodCloseService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TrialBalance(ctx context.Context, asOf *domain.Period) (*domain.TrialBalance, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}
func (m *MockReportingService) SetSummaries(ctx context.Context, relation domain.Relation, filter domain.EntryFilter) ([]domain.SetSummary, error) {
	args := m.Called(ctx, relation, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SetSummary), args.Error(1)
}
func (m *MockReportingService) Cashflow(ctx context.Context, relation domain.Relation, filter domain.EntryFilter) ([]domain.CashflowRow, error) {
	args := m.Called(ctx, relation, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashflowRow), args.Error(1)
}
func (m *MockReportingService) AccountBalances(ctx context.Context, from, to *domain.Period) ([]domain.AccountPeriodBalance, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountPeriodBalance), args.Error(1)
}
func (m *MockReportingService) ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.Entry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Entry), next, args.Error(2)
}
func (m *MockReportingService) TableSummary(ctx context.Context) ([]domain.TableSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TableSummary), args.Error(1)
}
func (m *MockReportingService) SourceFiles(ctx context.Context) ([]domain.SourceFileSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SourceFileSummary), args.Error(1)
}
func (m *MockReportingService) RecentConfirmations(ctx context.Context, days int) ([]domain.ConfirmationDay, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConfirmationDay), args.Error(1)
}
func (m *MockReportingService) FinancialStatus(ctx context.Context) ([]domain.FinancialStatusRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialStatusRow), args.Error(1)
}
func (m *MockReportingService) MonthlyTrend(ctx context.Context, months int) ([]domain.MonthlyTrendRow, error) {
	args := m.Called(ctx, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyTrendRow), args.Error(1)
}
func (m *MockReportingService) ClosingStatus(ctx context.Context) (*domain.ClosingStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClosingStatus), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Test Suite Setup ---
type HandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockStaging      *MockStagingService
	mockValidation   *MockValidationService
	mockConfirmation *MockConfirmationService
	mockPeriodClose  *MockPeriodCloseService
	mockReporting    *MockReportingService
	cfg              *config.Config
	token            string
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockStaging = new(MockStagingService)
	suite.mockValidation = new(MockValidationService)
	suite.mockConfirmation = new(MockConfirmationService)
	suite.mockPeriodClose = new(MockPeriodCloseService)
	suite.mockReporting = new(MockReportingService)

	suite.cfg = &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "ledger-test",
		IsProduction:      true,
	}

	services := &portssvc.ServiceContainer{
		Staging:      suite.mockStaging,
		Validation:   suite.mockValidation,
		Confirmation: suite.mockConfirmation,
		PeriodClose:  suite.mockPeriodClose,
		Reporting:    suite.mockReporting,
	}
	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, suite.cfg, services, nil, nil)

	token, err := utils.GenerateJWT("operator", suite.cfg.JWTSecret, time.Hour, suite.cfg.JWTIssuer, time.Now())
	suite.Require().NoError(err)
	suite.token = token
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.mockStaging.AssertExpectations(suite.T())
	suite.mockValidation.AssertExpectations(suite.T())
	suite.mockConfirmation.AssertExpectations(suite.T())
	suite.mockPeriodClose.AssertExpectations(suite.T())
	suite.mockReporting.AssertExpectations(suite.T())
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

// Helper to make requests
func (suite *HandlerTestSuite) makeRequest(method, path, contentType string, body *bytes.Buffer) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer "+suite.token)

	rr := httptest.NewRecorder()
	suite.router.ServeHTTP(rr, req)
	return rr
}

func (suite *HandlerTestSuite) makeJSONRequest(method, path string, body any) *httptest.ResponseRecorder {
	buf := &bytes.Buffer{}
	if body != nil {
		suite.Require().NoError(json.NewEncoder(buf).Encode(body))
	}
	return suite.makeRequest(method, path, "application/json", buf)
}

func (suite *HandlerTestSuite) decodeError(rr *httptest.ResponseRecorder) string {
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

// --- Auth and root routes ---

func (suite *HandlerTestSuite) TestHealth_NoAuth() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	suite.router.ServeHTTP(rr, req)

	suite.Equal(http.StatusOK, rr.Code)
	suite.Equal("OK", rr.Body.String())
}

func (suite *HandlerTestSuite) TestAPI_RequiresToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	rr := httptest.NewRecorder()
	suite.router.ServeHTTP(rr, req)

	suite.Equal(http.StatusUnauthorized, rr.Code)
	suite.Equal("Authorization header required", suite.decodeError(rr))
}

func (suite *HandlerTestSuite) TestAPI_WrongSecret() {
	token, err := utils.GenerateJWT("operator", "another-secret", time.Hour, "x", time.Now())
	suite.Require().NoError(err)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	suite.router.ServeHTTP(rr, req)

	suite.Equal(http.StatusUnauthorized, rr.Code)
	suite.Equal("Invalid token", suite.decodeError(rr))
}

func (suite *HandlerTestSuite) TestAPI_ExpiredToken() {
	token, err := utils.GenerateJWT("operator", suite.cfg.JWTSecret, time.Minute, "x", time.Now().Add(-time.Hour))
	suite.Require().NoError(err)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	suite.router.ServeHTTP(rr, req)

	suite.Equal(http.StatusUnauthorized, rr.Code)
	suite.Equal("Token has expired", suite.decodeError(rr))
}

func (suite *HandlerTestSuite) TestWhoAmI() {
	rr := suite.makeRequest(http.MethodGet, "/api/v1/whoami", "", nil)

	suite.Equal(http.StatusOK, rr.Code)
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &body))
	suite.Equal("operator", body["subject"])
}

// --- Staging ---

func (suite *HandlerTestSuite) TestStage_JSON() {
	body := dto.StageRequest{
		SourceFile: "march.csv",
		Clear:      true,
		Entries: []dto.StageEntryRequest{
			{Date: "2024-03-15", SetID: "S1", SubjectCode: 500, Amount: decimal.NewFromInt(1200)},
			{Date: "2024-03-15", SetID: "S1", SubjectCode: 100, Amount: decimal.NewFromInt(-1200), Remarks: "rent"},
		},
	}
	result := &domain.StageResult{BatchID: "B1", SourceFile: "march.csv", Staged: 2, Cleared: 4}

	suite.mockStaging.On("Stage", mock.Anything, mock.MatchedBy(func(req domain.StageRequest) bool {
		return req.SourceFile == "march.csv" && req.Clear && !req.Force && len(req.Entries) == 2 &&
			req.Entries[0].SubjectCode == 500 && req.Entries[1].Remarks == "rent" &&
			req.Entries[0].Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	})).Return(result, nil).Once()

	rr := suite.makeJSONRequest(http.MethodPost, "/api/v1/staging", body)

	suite.Equal(http.StatusCreated, rr.Code)
	var resp dto.StageResponse
	suite.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	suite.Equal(2, resp.Staged)
	suite.Equal(int64(4), resp.Cleared)
	suite.Empty(resp.Warning)
}

func (suite *HandlerTestSuite) TestStage_Multipart() {
	csv := "date,set_id,subject_code,amount\n" +
		"2024-03-15,S1,500,1200\n" +
		"2024-03-15,S1,100,-1200\n"

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("file", "march.csv")
	suite.Require().NoError(err)
	_, err = part.Write([]byte(csv))
	suite.Require().NoError(err)
	suite.Require().NoError(w.Close())

	suite.mockStaging.On("Stage", mock.Anything, mock.MatchedBy(func(req domain.StageRequest) bool {
		return req.SourceFile == "march.csv" && req.Force && len(req.Entries) == 2 && req.Entries[1].EntryID == "S1_002"
	})).Return(&domain.StageResult{SourceFile: "march.csv", Staged: 2}, nil).Once()

	rr := suite.makeRequest(http.MethodPost, "/api/v1/staging?force=true", w.FormDataContentType(), buf)

	suite.Equal(http.StatusCreated, rr.Code)
}

func (suite *HandlerTestSuite) TestStage_MultipartMissingFile() {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	suite.Require().NoError(w.WriteField("other", "x"))
	suite.Require().NoError(w.Close())

	rr := suite.makeRequest(http.MethodPost, "/api/v1/staging", w.FormDataContentType(), buf)

	suite.Equal(http.StatusBadRequest, rr.Code)
	suite.Contains(suite.decodeError(rr), "multipart field")
}

func (suite *HandlerTestSuite) TestStage_InvalidBody() {
	tests := []struct {
		name string
		body any
	}{
		{"no entries", dto.StageRequest{SourceFile: "a.csv"}},
		{"missing source file", dto.StageRequest{Entries: []dto.StageEntryRequest{{Date: "2024-03-01", SetID: "S", SubjectCode: 100}}}},
		{"code out of range", dto.StageRequest{SourceFile: "a.csv", Entries: []dto.StageEntryRequest{{Date: "2024-03-01", SetID: "S", SubjectCode: 42}}}},
		{"bad kind", dto.StageRequest{SourceFile: "a.csv", Entries: []dto.StageEntryRequest{{Date: "2024-03-01", SetID: "S", SubjectCode: 100, Kind: "CLOSING_ZERO"}}}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			rr := suite.makeJSONRequest(http.MethodPost, "/api/v1/staging", tt.body)
			suite.Equal(http.StatusBadRequest, rr.Code)
		})
	}
}

func (suite *HandlerTestSuite) TestStage_BadDate() {
	body := dto.StageRequest{
		SourceFile: "a.csv",
		Entries:    []dto.StageEntryRequest{{Date: "15.03.2024", SetID: "S", SubjectCode: 100}},
	}

	rr := suite.makeJSONRequest(http.MethodPost, "/api/v1/staging", body)

	suite.Equal(http.StatusBadRequest, rr.Code)
	suite.Contains(suite.decodeError(rr), "entries[0]")
}

func (suite *HandlerTestSuite) TestStage_AlreadyStaged() {
	body := dto.StageRequest{
		SourceFile: "a.csv",
		Entries:    []dto.StageEntryRequest{{Date: "2024-03-01", SetID: "S", SubjectCode: 100}},
	}
	suite.mockStaging.On("Stage", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: a.csv is already staged", apperrors.ErrDuplicate)).Once()

	rr := suite.makeJSONRequest(http.MethodPost, "/api/v1/staging", body)

	suite.Equal(http.StatusConflict, rr.Code)
	suite.Contains(suite.decodeError(rr), "already staged")
}

func (suite *HandlerTestSuite) TestClearStaging() {
	suite.mockStaging.On("Clear", mock.Anything).Return(int64(7), nil).Once()

	rr := suite.makeRequest(http.MethodDelete, "/api/v1/staging", "", nil)

	suite.Equal(http.StatusOK, rr.Code)
	var resp dto.ClearStagingResponse
	suite.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	suite.Equal(int64(7), resp.Deleted)
}

func (suite *HandlerTestSuite) TestValidateStaging() {
	report := &domain.ValidationReport{Balanced: true, Message: "all 3 sets balanced", SetCount: 3}
	suite.mockValidation.On("ValidateStaging", mock.Anything).Return(report, nil).Once()

	rr := suite.makeRequest(http.MethodGet, "/api/v1/staging/validation", "", nil)

	suite.Equal(http.StatusOK, rr.Code)
	var got domain.ValidationReport
	suite.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &got))
	suite.True(got.Balanced)
	suite.Equal(3, got.SetCount)
}

// --- Confirmation ---

func (suite *HandlerTestSuite) TestConfirm_Success() {
	confirmedAt := time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC)
	result := &domain.ConfirmResult{
		Promoted:    4,
		Replaced:    1,
		ConfirmedAt: confirmedAt,
		SourceFiles: []string{"march.csv"},
		FileWarning: fmt.Errorf("rename march.csv: permission denied"),
	}
	suite.mockConfirmation.On("Confirm", mock.Anything).Return(result, nil).Once()

	rr := suite.makeRequest(http.MethodPost, "/api/v1/confirmations", "", nil)

	suite.Equal(http.StatusOK, rr.Code)
	var resp dto.ConfirmResponse
	suite.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	suite.Equal(4, resp.Promoted)
	suite.Equal(int64(1), resp.Replaced)
	suite.True(confirmedAt.Equal(resp.ConfirmedAt))
	suite.Contains(resp.Warning, "permission denied")
}

func (suite *HandlerTestSuite) TestConfirm_Unbalanced() {
	report := &domain.ValidationReport{
		Message:  "1 of 2 sets unbalanced",
		SetCount: 2,
		Unbalanced: []domain.UnbalancedSet{{
			SetID:   "S2",
			Date:    time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			Balance: decimal.NewFromInt(10),
		}},
	}
	suite.mockConfirmation.On("Confirm", mock.Anything).Return(nil, &domain.UnbalancedSetsError{Report: report}).Once()

	rr := suite.makeRequest(http.MethodPost, "/api/v1/confirmations", "", nil)

	suite.Equal(http.StatusUnprocessableEntity, rr.Code)
	var resp dto.UnbalancedResponse
	suite.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	suite.Equal("1 of 2 sets unbalanced", resp.Error)
	suite.Require().Len(resp.Report.Unbalanced, 1)
	suite.Equal("S2", resp.Report.Unbalanced[0].SetID)
}

func (suite *HandlerTestSuite) TestConfirm_StoreFailure() {
	suite.mockConfirmation.On("Confirm", mock.Anything).Return(nil, fmt.Errorf("connection reset")).Once()

	rr := suite.makeRequest(http.MethodPost, "/api/v1/confirmations", "", nil)

	suite.Equal(http.StatusInternalServerError, rr.Code)
	suite.Equal("Failed to confirm staging", suite.decodeError(rr))
}

func (suite *HandlerTestSuite) TestSyncUploads() {
	suite.mockConfirmation.On("SyncUploads", mock.Anything).Return([]string{"march.csv"}, nil).Once()

	rr := suite.makeRequest(http.MethodPost, "/api/v1/uploads/sync", "", nil)

	suite.Equal(http.StatusOK, rr.Code)
	var resp dto.SyncFilesResponse
	suite.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	suite.Equal([]string{"march.csv"}, resp.Moved)
}

// --- Periods ---

func (suite *HandlerTestSuite) TestClosePeriod() {
	march := domain.Period{Year: 2024, Month: 3}
	result := &domain.CloseResult{
		Period:      march,
		Outcome:     domain.CloseOutcomeReclosed,
		SetID:       domain.ClosingSetID(march),
		DeletedLegs: 3,
		NetIncome:   decimal.NewFromInt(-2000),
	}
	suite.mockPeriodClose.On("Close", mock.Anything, march, true).Return(result, nil).Once()

	rr := suite.makeRequest(http.MethodPost, "/api/v1/periods/2024-03/close?reclose=true", "", nil)

	suite.Equal(http.StatusOK, rr.Code)
	var got map[string]any
	suite.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &got))
	suite.Equal("CLOSE-2024-03", got["setID"])
	suite.Equal(float64(3), got["deletedLegs"])
}

func (suite *HandlerTestSuite) TestClosePeriod_InvalidPeriod() {
	for _, p := range []string{"2024-13", "march", "2024-3-1"} {
		suite.Run(p, func() {
			rr := suite.makeRequest(http.MethodPost, "/api/v1/periods/"+p+"/close", "", nil)
			suite.Equal(http.StatusBadRequest, rr.Code)
		})
	}
}

func (suite *HandlerTestSuite) TestPeriodState() {
	march := domain.Period{Year: 2024, Month: 3}
	suite.mockPeriodClose.On("State", mock.Anything, march).Return(domain.PeriodClosed, nil).Once()

	rr := suite.makeRequest(http.MethodGet, "/api/v1/periods/2024-03", "", nil)

	suite.Equal(http.StatusOK, rr.Code)
	var resp dto.PeriodStateResponse
	suite.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	suite.Equal("2024-03", resp.Period)
	suite.Equal(domain.PeriodClosed, resp.State)
}

// --- Ledger and reports ---

func (suite *HandlerTestSuite) TestListEntries() {
	next := "tok-2"
	entries := []domain.Entry{{EntryID: "S1_001", SetID: "S1", SubjectCode: 500, Amount: decimal.NewFromInt(10)}}
	suite.mockReporting.On("ListEntries", mock.Anything, mock.MatchedBy(func(f domain.EntryFilter) bool {
		return f.SetID == "S1" && f.Code == 500 && f.From != nil && f.From.Month == 3 && len(f.Kinds) == 1 && f.Kinds[0] == domain.LegImport
	}), 10, mock.MatchedBy(func(tok *string) bool { return tok != nil && *tok == "tok-1" })).
		Return(entries, &next, nil).Once()

	rr := suite.makeRequest(http.MethodGet, "/api/v1/entries?from=2024-03&setID=S1&code=500&kind=import&limit=10&nextToken=tok-1", "", nil)

	suite.Equal(http.StatusOK, rr.Code)
	var resp dto.ListEntriesResponse
	suite.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	suite.Require().Len(resp.Entries, 1)
	suite.Equal("S1_001", resp.Entries[0].EntryID)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("tok-2", *resp.NextToken)
}

func (suite *HandlerTestSuite) TestListEntries_BadToken() {
	suite.mockReporting.On("ListEntries", mock.Anything, mock.Anything, 0, mock.Anything).
		Return(nil, nil, apperrors.NewAppError(http.StatusBadRequest, "invalid pagination token", fmt.Errorf("bad base64"))).Once()

	rr := suite.makeRequest(http.MethodGet, "/api/v1/entries?nextToken=???", "", nil)

	suite.Equal(http.StatusBadRequest, rr.Code)
	suite.Equal("invalid pagination token", suite.decodeError(rr))
}

func (suite *HandlerTestSuite) TestListEntries_LimitOutOfRange() {
	rr := suite.makeRequest(http.MethodGet, "/api/v1/entries?limit=5000", "", nil)

	suite.Equal(http.StatusBadRequest, rr.Code)
}

func (suite *HandlerTestSuite) TestTrialBalance() {
	march := domain.Period{Year: 2024, Month: 3}
	tb := &domain.TrialBalance{
		AsOf: &march,
		Rows: []domain.TrialBalanceRow{
			{SubjectCode: 100, Subject: "Cash", Debit: decimal.NewFromInt(5000), Net: decimal.NewFromInt(5000)},
			{SubjectCode: 400, Subject: "Salary", Credit: decimal.NewFromInt(5000), Net: decimal.NewFromInt(-5000)},
		},
		TotalDebit:  decimal.NewFromInt(5000),
		TotalCredit: decimal.NewFromInt(5000),
	}
	suite.mockReporting.On("TrialBalance", mock.Anything, &march).Return(tb, nil).Once()

	rr := suite.makeRequest(http.MethodGet, "/api/v1/reports/trial-balance?asOf=2024-03", "", nil)

	suite.Equal(http.StatusOK, rr.Code)
	var got domain.TrialBalance
	suite.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &got))
	suite.Len(got.Rows, 2)
	suite.True(got.TotalDebit.Equal(got.TotalCredit))
}

func (suite *HandlerTestSuite) TestTrialBalance_InvalidAsOf() {
	rr := suite.makeRequest(http.MethodGet, "/api/v1/reports/trial-balance?asOf=2024-00", "", nil)

	suite.Equal(http.StatusBadRequest, rr.Code)
	suite.Equal("Invalid period format. Use YYYY-MM", suite.decodeError(rr))
}

func (suite *HandlerTestSuite) TestSetSummaries_InvalidRelation() {
	rr := suite.makeRequest(http.MethodGet, "/api/v1/reports/sets?relation=archive", "", nil)

	suite.Equal(http.StatusBadRequest, rr.Code)
}

func (suite *HandlerTestSuite) TestCashflow() {
	rows := []domain.CashflowRow{{
		Date:       time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC),
		SetID:      "SAL",
		Remarks:    "salary",
		CashChange: decimal.NewFromInt(5000),
	}}
	suite.mockReporting.On("Cashflow", mock.Anything, domain.RelationStaging, mock.MatchedBy(func(f domain.EntryFilter) bool {
		return f.From != nil && *f.From == domain.Period{Year: 2024, Month: 3}
	})).Return(rows, nil).Once()

	rr := suite.makeRequest(http.MethodGet, "/api/v1/reports/cashflow?relation=staging&from=2024-03", "", nil)

	suite.Equal(http.StatusOK, rr.Code)
	var got []domain.CashflowRow
	suite.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &got))
	suite.Require().Len(got, 1)
	suite.Equal("SAL", got[0].SetID)
	suite.True(decimal.NewFromInt(5000).Equal(got[0].CashChange))
}

func (suite *HandlerTestSuite) TestCashflow_InvalidRelation() {
	rr := suite.makeRequest(http.MethodGet, "/api/v1/reports/cashflow?relation=archive", "", nil)

	suite.Equal(http.StatusBadRequest, rr.Code)
}

func (suite *HandlerTestSuite) TestMonthlyTrend() {
	suite.mockReporting.On("MonthlyTrend", mock.Anything, 6).Return([]domain.MonthlyTrendRow{}, nil).Once()

	rr := suite.makeRequest(http.MethodGet, "/api/v1/reports/monthly-trend?months=6", "", nil)

	suite.Equal(http.StatusOK, rr.Code)
	suite.JSONEq("[]", rr.Body.String())
}

func (suite *HandlerTestSuite) TestMonthlyTrend_OutOfRange() {
	rr := suite.makeRequest(http.MethodGet, "/api/v1/reports/monthly-trend?months=500", "", nil)

	suite.Equal(http.StatusBadRequest, rr.Code)
}
