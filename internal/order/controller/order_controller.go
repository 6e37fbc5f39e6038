package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"karen/internal/domain"
	"karen/internal/dto"
	apperrors "karen/internal/errors"
	"karen/internal/infrastructure/web"
)

const maxRequestBodyBytes = 1 << 20

type CreateOrderUseCase interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error)
}

type OrderQueryUseCase interface {
	PaymentStatus(ctx context.Context, rawID string) (bool, error)
	OrdersByPhone(ctx context.Context, rawPhone string) ([]domain.Order, error)
	AllOrders(ctx context.Context) ([]domain.Order, error)
	OrdersByDate(ctx context.Context, rawDate string) ([]domain.Order, error)
	MonthlyEarnings(ctx context.Context) ([]domain.MonthlyEarning, error)
}

type OrderController struct {
	createUseCase CreateOrderUseCase
	queryUseCase  OrderQueryUseCase
	logger        *zap.Logger
}

func NewOrderController(createUseCase CreateOrderUseCase, queryUseCase OrderQueryUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		createUseCase: createUseCase,
		queryUseCase:  queryUseCase,
		logger:        logger,
	}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger()

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		web.HandleError(w, apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		}), logger)
		return
	}

	order, err := c.createUseCase.Create(r.Context(), req)
	if err != nil {
		web.HandleError(w, err, logger)
		return
	}

	web.WriteJSON(w, http.StatusCreated, dto.NewOrderResponse(*order), logger)
}

func (c *OrderController) Status(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger()

	paid, err := c.queryUseCase.PaymentStatus(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		web.HandleError(w, err, logger)
		return
	}

	web.WriteJSON(w, http.StatusOK, dto.OrderStatusResponse{OrderPaid: paid}, logger)
}

func (c *OrderController) ByPhone(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger()

	orders, err := c.queryUseCase.OrdersByPhone(r.Context(), r.URL.Query().Get("phone"))
	if err != nil {
		web.HandleListError(w, err, logger)
		return
	}

	web.WriteJSON(w, http.StatusOK, dto.NewOrderResponses(orders), logger)
}

func (c *OrderController) All(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger()

	orders, err := c.queryUseCase.AllOrders(r.Context())
	if err != nil {
		web.HandleError(w, err, logger)
		return
	}

	web.WriteJSON(w, http.StatusOK, dto.NewOrderResponses(orders), logger)
}

func (c *OrderController) ByDate(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger()

	orders, err := c.queryUseCase.OrdersByDate(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		web.HandleListError(w, err, logger)
		return
	}

	web.WriteJSON(w, http.StatusOK, dto.NewOrderResponses(orders), logger)
}

func (c *OrderController) MonthlyEarnings(w http.ResponseWriter, r *http.Request) {
	logger := c.requestLogger()

	earnings, err := c.queryUseCase.MonthlyEarnings(r.Context())
	if err != nil {
		web.HandleError(w, err, logger)
		return
	}

	web.WriteJSON(w, http.StatusOK, dto.NewMonthlyEarningResponses(earnings), logger)
}

func (c *OrderController) requestLogger() *zap.Logger {
	return c.logger.With(zap.String("traceId", uuid.New().String()))
}
