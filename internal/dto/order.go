package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"karen/internal/domain"
)

type CreateOrderRequest struct {
	CustomerName  *string                  `json:"customer_name"`
	CustomerPhone *string                  `json:"customer_phone"`
	PaymentMethod string                   `json:"payment_method"`
	TotalAmount   *decimal.Decimal         `json:"total_amount"`
	Items         []CreateOrderItemRequest `json:"items"`
}

type CreateOrderItemRequest struct {
	ProductID int  `json:"product_id"`
	Quantity  *int `json:"quantity"`
}

type OrderItemResponse struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type OrderResponse struct {
	ID            uint                `json:"id"`
	CustomerName  *string             `json:"customer_name"`
	CustomerPhone *string             `json:"customer_phone"`
	PaymentMethod string              `json:"payment_method"`
	TransactionID string              `json:"transaction_id"`
	TotalAmount   string              `json:"total_amount"`
	IsPaid        bool                `json:"is_paid"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

func NewOrderResponse(o domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	return OrderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		PaymentMethod: string(o.PaymentMethod),
		TransactionID: o.TransactionID,
		TotalAmount:   o.TotalAmount.StringFixed(2),
		IsPaid:        o.IsPaid,
		Items:         items,
		CreatedAt:     o.CreatedAt,
	}
}

func NewOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = NewOrderResponse(o)
	}
	return out
}

type OrderStatusResponse struct {
	OrderPaid bool `json:"order_paid"`
}

type MonthlyEarningResponse struct {
	Month         string      `json:"month"`
	TotalEarnings json.Number `json:"total_earnings"`
}

func NewMonthlyEarningResponses(earnings []domain.MonthlyEarning) []MonthlyEarningResponse {
	out := make([]MonthlyEarningResponse, len(earnings))
	for i, e := range earnings {
		out[i] = MonthlyEarningResponse{
			Month:         e.Month,
			TotalEarnings: json.Number(e.Total.StringFixed(2)),
		}
	}
	return out
}
