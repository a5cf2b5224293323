package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	portssvc "github.com/SscSPs/orders_sync_app/internal/core/ports/services"
	"github.com/SscSPs/orders_sync_app/internal/dto"
	"github.com/SscSPs/orders_sync_app/internal/handlers"
	"github.com/SscSPs/orders_sync_app/internal/jobs"
	"github.com/SscSPs/orders_sync_app/internal/middleware"
	"github.com/SscSPs/orders_sync_app/internal/platform/config"
	"github.com/SscSPs/orders_sync_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock OrderService ---
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListOrdersResponse), args.Error(1)
}

func (m *MockOrderService) Reconcile(ctx context.Context, rows []domain.SheetRow) (*domain.ReconciliationResult, error) {
	args := m.Called(ctx, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationResult), args.Error(1)
}

var _ portssvc.OrderSvcFacade = (*MockOrderService)(nil)

// --- Mock RecipientService ---
type MockRecipientService struct {
	mock.Mock
}

func (m *MockRecipientService) ListRecipients(ctx context.Context) ([]domain.NotificationRecipient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationRecipient), args.Error(1)
}

func (m *MockRecipientService) CreateRecipient(ctx context.Context, req dto.CreateRecipientRequest) (*domain.NotificationRecipient, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationRecipient), args.Error(1)
}

func (m *MockRecipientService) DeleteRecipient(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var _ portssvc.RecipientSvcFacade = (*MockRecipientService)(nil)

// --- Mock JobRunner ---
type MockJobRunner struct {
	mock.Mock
}

func (m *MockJobRunner) Jobs() []string {
	return m.Called().Get(0).([]string)
}

func (m *MockJobRunner) RunOnce(ctx context.Context, name string) (*jobs.Run, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobs.Run), args.Error(1)
}

var _ handlers.JobRunner = (*MockJobRunner)(nil)

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	cfg           *config.Config
	orderSvc      *MockOrderService
	recipientSvc  *MockRecipientService
	runner        *MockJobRunner
	adminPassword string
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.adminPassword = "correct horse battery staple"
	hash, err := utils.HashPassword(s.adminPassword)
	s.Require().NoError(err)

	s.cfg = &config.Config{
		IsProduction:      true,
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "orders-sync-test",
		AdminUsername:     "admin",
		AdminPasswordHash: hash,
		APIRateLimit:      "1000-M",
	}
	s.orderSvc = new(MockOrderService)
	s.recipientSvc = new(MockRecipientService)
	s.runner = new(MockJobRunner)

	s.router = gin.New()
	s.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	services := &portssvc.ServiceContainer{Order: s.orderSvc, Recipient: s.recipientSvc}
	s.Require().NoError(handlers.RegisterRoutes(s.router, s.cfg, services, s.runner, nil))
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) adminToken() string {
	token, err := utils.GenerateJWT("admin", s.cfg.JWTSecret, time.Hour, s.cfg.JWTIssuer)
	s.Require().NoError(err)
	return token
}

func (s *HandlerTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *HandlerTestSuite) TestLogin() {
	w := s.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "admin", Password: s.adminPassword}, "")
	s.Require().Equal(http.StatusOK, w.Code)

	var resp dto.LoginResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	claims, err := utils.ParseAndValidateJWT(resp.Token, s.cfg.JWTSecret)
	s.Require().NoError(err)
	s.Equal("admin", claims.Subject)

	w = s.do(http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Username: "admin", Password: "wrong"}, "")
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin"}, "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestListOrders() {
	next := "next"
	expected := &dto.ListOrdersResponse{
		Orders:    []dto.OrderResponse{{ID: 1, OrderID: "1249708", CostSource: decimal.NewFromInt(675), CostTarget: decimal.RequireFromString("50625.00"), DeliveryDate: "2022-05-24"}},
		NextToken: &next,
	}
	s.orderSvc.On("ListOrders", mock.Anything, dto.ListOrdersParams{Limit: 1, PageToken: "abc"}).Return(expected, nil).Once()

	w := s.do(http.MethodGet, "/api/v1/orders?limit=1&pageToken=abc", nil, "")

	s.Require().Equal(http.StatusOK, w.Code)
	var resp dto.ListOrdersResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.Orders, 1)
	s.Equal("1249708", resp.Orders[0].OrderID)
	s.Equal("next", *resp.NextToken)
	s.orderSvc.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestListOrders_BadInput() {
	w := s.do(http.MethodGet, "/api/v1/orders?limit=1000", nil, "")
	s.Equal(http.StatusBadRequest, w.Code)

	s.orderSvc.On("ListOrders", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: bad token", apperrors.ErrValidation)).Once()
	w = s.do(http.MethodGet, "/api/v1/orders?pageToken=zzz", nil, "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestGetOrder() {
	order := &domain.Order{ID: 7, OrderID: "A", DeliveryDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	s.orderSvc.On("GetOrderByID", mock.Anything, int64(7)).Return(order, nil).Once()
	s.orderSvc.On("GetOrderByID", mock.Anything, int64(8)).Return(nil, apperrors.NewNotFoundError("order 8 not found")).Once()

	w := s.do(http.MethodGet, "/api/v1/orders/7", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	var resp dto.OrderResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("2024-01-02", resp.DeliveryDate)

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/v1/orders/8", nil, "").Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/orders/x", nil, "").Code)
}

func (s *HandlerTestSuite) TestRecipientsRequireAuth() {
	w := s.do(http.MethodGet, "/api/v1/recipients", nil, "")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.recipientSvc.AssertNotCalled(s.T(), "ListRecipients", mock.Anything)
}

func (s *HandlerTestSuite) TestCreateRecipient() {
	name := "Ivan"
	req := dto.CreateRecipientRequest{ExternalID: "42", Name: &name}
	s.recipientSvc.On("CreateRecipient", mock.Anything, req).Return(&domain.NotificationRecipient{ID: 1, ExternalID: "42", Name: &name}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/recipients", req, s.adminToken())

	s.Require().Equal(http.StatusCreated, w.Code)
	var resp dto.RecipientResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(int64(1), resp.ID)
	s.Equal("Ivan", *resp.Name)
}

func (s *HandlerTestSuite) TestCreateRecipient_Errors() {
	token := s.adminToken()
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/v1/recipients", map[string]string{}, token).Code)

	dup := dto.CreateRecipientRequest{ExternalID: "42"}
	s.recipientSvc.On("CreateRecipient", mock.Anything, dup).Return(nil, fmt.Errorf("save: %w", apperrors.ErrDuplicate)).Once()
	s.Equal(http.StatusConflict, s.do(http.MethodPost, "/api/v1/recipients", dup, token).Code)
}

func (s *HandlerTestSuite) TestListAndDeleteRecipients() {
	token := s.adminToken()
	s.recipientSvc.On("ListRecipients", mock.Anything).Return([]domain.NotificationRecipient{{ID: 1, ExternalID: "42"}}, nil).Once()
	s.recipientSvc.On("DeleteRecipient", mock.Anything, int64(1)).Return(nil).Once()
	s.recipientSvc.On("DeleteRecipient", mock.Anything, int64(2)).Return(apperrors.NewNotFoundError("recipient 2 not found")).Once()

	w := s.do(http.MethodGet, "/api/v1/recipients", nil, token)
	s.Require().Equal(http.StatusOK, w.Code)
	var list []dto.RecipientResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	s.Len(list, 1)

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/recipients/1", nil, token).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/recipients/2", nil, token).Code)
	s.recipientSvc.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestJobs() {
	token := s.adminToken()
	s.runner.On("Jobs").Return([]string{jobs.ReconcileOrders, jobs.SendNotifications}).Once()
	s.runner.On("RunOnce", mock.Anything, jobs.ReconcileOrders).
		Return(&jobs.Run{Job: jobs.ReconcileOrders, Duration: time.Second, Result: &domain.SyncResult{RowsFetched: 3}}, nil).Once()
	s.runner.On("RunOnce", mock.Anything, jobs.SendNotifications).Return(nil, apperrors.ErrJobAlreadyRunning).Once()
	s.runner.On("RunOnce", mock.Anything, "nope").Return(nil, apperrors.NewNotFoundError("job nope not found")).Once()

	w := s.do(http.MethodGet, "/api/v1/jobs", nil, token)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), jobs.SendNotifications)

	w = s.do(http.MethodPost, "/api/v1/jobs/reconcile_orders/run", nil, token)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"rowsFetched":3`)

	s.Equal(http.StatusConflict, s.do(http.MethodPost, "/api/v1/jobs/send_notifications/run", nil, token).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodPost, "/api/v1/jobs/nope/run", nil, token).Code)
	s.runner.AssertExpectations(s.T())
}
