package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"karen/internal/domain"
	"karen/internal/dto"
	apperrors "karen/internal/errors"
	"karen/internal/phone"
)

const (
	maxItemsPerOrder    = 100
	maxItemQuantity     = 10000
	maxCustomerNameSize = 255
	amountScale         = 2
)

// maxAmount matches DECIMAL(10,2).
var maxAmount = decimal.New(1, 8)

type OrderService interface {
	CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
}

type ProductService interface {
	GetProductsByIDs(ctx context.Context, ids []int) ([]domain.Product, []int, error)
}

type CreateOrderUseCase struct {
	orderSvc   OrderService
	productSvc ProductService
	logger     *zap.Logger
	now        func() time.Time
}

func NewCreateOrderUseCase(orderSvc OrderService, productSvc ProductService, logger *zap.Logger) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderSvc:   orderSvc,
		productSvc: productSvc,
		logger:     logger,
		now:        time.Now,
	}
}

// Create validates the request and stores a new unpaid order.
func (uc *CreateOrderUseCase) Create(ctx context.Context, req dto.CreateOrderRequest) (*domain.Order, error) {
	order, err := uc.buildOrder(req)
	if err != nil {
		return nil, err
	}

	if err := uc.checkProducts(ctx, order.Items); err != nil {
		return nil, err
	}

	return uc.orderSvc.CreateOrder(ctx, *order)
}

func (uc *CreateOrderUseCase) buildOrder(req dto.CreateOrderRequest) (*domain.Order, error) {
	var details []apperrors.ValidationDetail
	addDetail := func(field, message string) {
		details = append(details, apperrors.ValidationDetail{Field: field, Message: message})
	}

	order := &domain.Order{
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		CreatedAt:     uc.now().UTC(),
	}

	if req.CustomerName != nil {
		name := strings.TrimSpace(*req.CustomerName)
		if utf8.RuneCountInString(name) > maxCustomerNameSize {
			addDetail("customer_name", fmt.Sprintf("customer_name must be at most %d characters", maxCustomerNameSize))
		}
		if name != "" {
			order.CustomerName = &name
		}
	}

	if req.CustomerPhone != nil && phone.Clean(*req.CustomerPhone) != "" {
		local, err := phone.ToLocal(*req.CustomerPhone)
		if err != nil {
			addDetail("customer_phone", err.Error())
		} else {
			order.CustomerPhone = &local
		}
	}

	switch {
	case req.PaymentMethod == "":
		addDetail("payment_method", "payment_method is required")
	case !order.PaymentMethod.Valid():
		addDetail("payment_method", fmt.Sprintf("%q is not a valid choice, use mpesa or card", req.PaymentMethod))
	}

	switch {
	case req.TotalAmount == nil:
		addDetail("total_amount", "total_amount is required")
	case req.TotalAmount.IsNegative():
		addDetail("total_amount", "total_amount must not be negative")
	case !req.TotalAmount.Equal(req.TotalAmount.Truncate(amountScale)):
		addDetail("total_amount", "total_amount must have at most 2 decimal places")
	case req.TotalAmount.GreaterThanOrEqual(maxAmount):
		addDetail("total_amount", "total_amount must be less than 100000000")
	default:
		order.TotalAmount = *req.TotalAmount
	}

	if len(req.Items) == 0 {
		addDetail("items", "items must not be empty")
	}
	if len(req.Items) > maxItemsPerOrder {
		addDetail("items", fmt.Sprintf("items exceeds maximum of %d", maxItemsPerOrder))
	}

	for idx, item := range req.Items {
		quantity := domain.DefaultItemQuantity
		if item.Quantity != nil {
			quantity = *item.Quantity
		}

		if item.ProductID <= 0 {
			addDetail(fmt.Sprintf("items[%d].product_id", idx), "product_id must be a positive integer")
		}
		if quantity < 1 || quantity > maxItemQuantity {
			addDetail(fmt.Sprintf("items[%d].quantity", idx), fmt.Sprintf("quantity must be between 1 and %d", maxItemQuantity))
		}

		order.Items = append(order.Items, domain.OrderItem{ProductID: item.ProductID, Quantity: quantity})
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}
	return order, nil
}

func (uc *CreateOrderUseCase) checkProducts(ctx context.Context, items []domain.OrderItem) error {
	seen := make(map[int]struct{}, len(items))
	ids := make([]int, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			ids = append(ids, item.ProductID)
		}
	}

	_, notFoundIDs, err := uc.productSvc.GetProductsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(notFoundIDs) == 0 {
		return nil
	}

	uc.logger.Info("order references unknown products", zap.Ints("productIds", notFoundIDs))

	missing := make(map[int]struct{}, len(notFoundIDs))
	for _, id := range notFoundIDs {
		missing[id] = struct{}{}
	}

	var details []apperrors.ValidationDetail
	for idx, item := range items {
		if _, ok := missing[item.ProductID]; ok {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].product_id", idx),
				Message: fmt.Sprintf("product %d does not exist", item.ProductID),
			})
		}
	}
	return apperrors.NewValidationError("validation failed", details...)
}
