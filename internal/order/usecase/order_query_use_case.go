package usecase

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"karen/internal/domain"
	apperrors "karen/internal/errors"
	"karen/internal/phone"
)

const dateLayout = "2006-01-02"

// Safaricom ranges only: 07/01 local or 2547/2541 international.
var orderPhonePattern = regexp.MustCompile(`^(0[17]\d{8}|254[17]\d{8})$`)

type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindByPhones(ctx context.Context, phones ...string) ([]domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error)
	MonthlyEarnings(ctx context.Context) ([]domain.MonthlyEarning, error)
}

type OrderItemRepository interface {
	FindByOrderIDs(ctx context.Context, orderIDs []uint) (map[uint][]domain.OrderItem, error)
}

type OrderQueryUseCase struct {
	orderRepo     OrderRepository
	orderItemRepo OrderItemRepository
}

func NewOrderQueryUseCase(orderRepo OrderRepository, orderItemRepo OrderItemRepository) *OrderQueryUseCase {
	return &OrderQueryUseCase{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
	}
}

// PaymentStatus reports whether the order identified by rawID has been paid.
func (uc *OrderQueryUseCase) PaymentStatus(ctx context.Context, rawID string) (bool, error) {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return false, apperrors.NewMissingParameterError("Missing id")
	}

	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return false, apperrors.NewInvalidFormatError("Invalid id")
	}

	order, err := uc.orderRepo.FindByID(ctx, uint(id))
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return false, apperrors.NewNotFoundError("Order not found")
		}
		return false, err
	}
	return order.IsPaid, nil
}

func (uc *OrderQueryUseCase) OrdersByPhone(ctx context.Context, rawPhone string) ([]domain.Order, error) {
	if rawPhone == "" {
		return nil, apperrors.NewMissingParameterError("Phone number is required (?phone=...)")
	}
	if !orderPhonePattern.MatchString(rawPhone) {
		return nil, apperrors.NewInvalidFormatError("Invalid phone number format. Use 07XXXXXXXX, 01XXXXXXXX, 2547XXXXXXXX, or 2541XXXXXXXX.")
	}

	local, international, err := phone.Variants(rawPhone)
	if err != nil {
		return nil, err
	}

	orders, err := uc.orderRepo.FindByPhones(ctx, local, international)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperrors.NewNotFoundError("No orders found for this phone number.")
	}
	return uc.withItems(ctx, orders)
}

func (uc *OrderQueryUseCase) AllOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := uc.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return uc.withItems(ctx, orders)
}

// OrdersByDate returns the orders created on the given UTC calendar day.
func (uc *OrderQueryUseCase) OrdersByDate(ctx context.Context, rawDate string) ([]domain.Order, error) {
	if rawDate == "" {
		return nil, apperrors.NewMissingParameterError("Date query parameter (?date=YYYY-MM-DD) is required.")
	}

	day, err := time.ParseInLocation(dateLayout, rawDate, time.UTC)
	if err != nil {
		return nil, apperrors.NewInvalidFormatError("Invalid date format. Use YYYY-MM-DD.")
	}

	orders, err := uc.orderRepo.FindCreatedBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperrors.NewNotFoundError("No orders found for the specified date.")
	}
	return uc.withItems(ctx, orders)
}

func (uc *OrderQueryUseCase) MonthlyEarnings(ctx context.Context) ([]domain.MonthlyEarning, error) {
	return uc.orderRepo.MonthlyEarnings(ctx)
}

func (uc *OrderQueryUseCase) withItems(ctx context.Context, orders []domain.Order) ([]domain.Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	items, err := uc.orderItemRepo.FindByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}
