package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"karen/internal/domain"
	"karen/internal/dto"
	apperrors "karen/internal/errors"
)

type MockCreateOrderUseCase struct {
	mock.Mock
}

func (m *MockCreateOrderUseCase) Create(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error) {
	args := m.Called(ctx, req)
	order, _ := args.Get(0).(*domain.Order)
	return order, args.Error(1)
}

type MockOrderQueryUseCase struct {
	mock.Mock
}

func (m *MockOrderQueryUseCase) PaymentStatus(ctx context.Context, rawID string) (bool, error) {
	args := m.Called(ctx, rawID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderQueryUseCase) OrdersByPhone(ctx context.Context, rawPhone string) ([]domain.Order, error) {
	args := m.Called(ctx, rawPhone)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Error(1)
}

func (m *MockOrderQueryUseCase) AllOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Error(1)
}

func (m *MockOrderQueryUseCase) OrdersByDate(ctx context.Context, rawDate string) ([]domain.Order, error) {
	args := m.Called(ctx, rawDate)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Error(1)
}

func (m *MockOrderQueryUseCase) MonthlyEarnings(ctx context.Context) ([]domain.MonthlyEarning, error) {
	args := m.Called(ctx)
	earnings, _ := args.Get(0).([]domain.MonthlyEarning)
	return earnings, args.Error(1)
}

func sampleOrder() domain.Order {
	phone := "0712345678"
	return domain.Order{
		ID:            42,
		CustomerPhone: &phone,
		PaymentMethod: domain.PaymentMethodMpesa,
		TotalAmount:   decimal.NewFromInt(500),
		CreatedAt:     time.Date(2024, 1, 15, 7, 0, 0, 0, time.UTC),
		Items:         []domain.OrderItem{{ProductID: 3, Quantity: 1}},
	}
}

func TestOrderController_Create(t *testing.T) {
	createUC := new(MockCreateOrderUseCase)
	order := sampleOrder()
	createUC.On("Create", mock.Anything, mock.MatchedBy(func(req dto.CreateOrderRequest) bool {
		return req.PaymentMethod == "mpesa" && len(req.Items) == 1 && req.TotalAmount.Equal(decimal.NewFromInt(500))
	})).Return(&order, nil)

	body := `{"customer_phone":"0712345678","payment_method":"mpesa","total_amount":"500.00","items":[{"product_id":3}]}`
	rec := httptest.NewRecorder()
	NewOrderController(createUC, new(MockOrderQueryUseCase), zap.NewNop()).
		Create(rec, httptest.NewRequest(http.MethodPost, "/api/orders/create/", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, float64(42), got["id"])
	assert.Equal(t, "500.00", got["total_amount"])
	assert.Equal(t, false, got["is_paid"])
	assert.Equal(t, "", got["transaction_id"])
	assert.Nil(t, got["customer_name"])
	createUC.AssertExpectations(t)
}

func TestOrderController_Create_Invalid(t *testing.T) {
	createUC := new(MockCreateOrderUseCase)
	createUC.On("Create", mock.Anything, mock.Anything).Return(nil, apperrors.NewValidationError("validation failed",
		apperrors.ValidationDetail{Field: "payment_method", Message: "payment_method is required"}))

	rec := httptest.NewRecorder()
	NewOrderController(createUC, new(MockOrderQueryUseCase), zap.NewNop()).
		Create(rec, httptest.NewRequest(http.MethodPost, "/api/orders/create/", strings.NewReader(`{"items":[]}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"validation failed","details":[{"field":"payment_method","message":"payment_method is required"}]}`, rec.Body.String())
}

func TestOrderController_Create_MalformedJSON(t *testing.T) {
	createUC := new(MockCreateOrderUseCase)

	rec := httptest.NewRecorder()
	NewOrderController(createUC, new(MockOrderQueryUseCase), zap.NewNop()).
		Create(rec, httptest.NewRequest(http.MethodPost, "/api/orders/create/", strings.NewReader(`{"items":`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	createUC.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderController_Status(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		paid       bool
		err        error
		wantStatus int
		want       string
	}{
		{"paid", "42", true, nil, http.StatusOK, `{"order_paid":true}`},
		{"unpaid", "43", false, nil, http.StatusOK, `{"order_paid":false}`},
		{"missing", "", false, apperrors.NewMissingParameterError("Missing id"), http.StatusBadRequest, `{"error":"Missing id"}`},
		{"unknown", "9", false, apperrors.NewNotFoundError("Order not found"), http.StatusNotFound, `{"error":"Order not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queryUC := new(MockOrderQueryUseCase)
			queryUC.On("PaymentStatus", mock.Anything, tt.query).Return(tt.paid, tt.err)

			rec := httptest.NewRecorder()
			NewOrderController(new(MockCreateOrderUseCase), queryUC, zap.NewNop()).
				Status(rec, httptest.NewRequest(http.MethodGet, "/api/orders/status/?id="+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestOrderController_ByPhone_NotFound(t *testing.T) {
	queryUC := new(MockOrderQueryUseCase)
	queryUC.On("OrdersByPhone", mock.Anything, "0712345678").Return(nil, apperrors.NewNotFoundError("No orders found for this phone number."))

	rec := httptest.NewRecorder()
	NewOrderController(new(MockCreateOrderUseCase), queryUC, zap.NewNop()).
		ByPhone(rec, httptest.NewRequest(http.MethodGet, "/api/orders/by-phone/?phone=0712345678", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"No orders found for this phone number."}`, rec.Body.String())
}

func TestOrderController_ByDate(t *testing.T) {
	queryUC := new(MockOrderQueryUseCase)
	queryUC.On("OrdersByDate", mock.Anything, "2024-01-15").Return([]domain.Order{sampleOrder()}, nil)

	rec := httptest.NewRecorder()
	NewOrderController(new(MockCreateOrderUseCase), queryUC, zap.NewNop()).
		ByDate(rec, httptest.NewRequest(http.MethodGet, "/api/orders/by-date/?date=2024-01-15", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var got []dto.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, []dto.OrderItemResponse{{ProductID: 3, Quantity: 1}}, got[0].Items)
}

func TestOrderController_All_Empty(t *testing.T) {
	queryUC := new(MockOrderQueryUseCase)
	queryUC.On("AllOrders", mock.Anything).Return([]domain.Order{}, nil)

	rec := httptest.NewRecorder()
	NewOrderController(new(MockCreateOrderUseCase), queryUC, zap.NewNop()).
		All(rec, httptest.NewRequest(http.MethodGet, "/api/orders/all/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestOrderController_MonthlyEarnings(t *testing.T) {
	queryUC := new(MockOrderQueryUseCase)
	queryUC.On("MonthlyEarnings", mock.Anything).Return([]domain.MonthlyEarning{
		{Month: "2024-01", Total: decimal.RequireFromString("1500.5")},
		{Month: "2024-02", Total: decimal.NewFromInt(200)},
	}, nil)

	rec := httptest.NewRecorder()
	NewOrderController(new(MockCreateOrderUseCase), queryUC, zap.NewNop()).
		MonthlyEarnings(rec, httptest.NewRequest(http.MethodGet, "/api/orders/earnings/monthly/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"month":"2024-01","total_earnings":1500.50},{"month":"2024-02","total_earnings":200.00}]`, rec.Body.String())
}
