package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodMpesa PaymentMethod = "mpesa"
	PaymentMethodCard  PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodMpesa || m == PaymentMethodCard
}

type Order struct {
	ID            uint
	CustomerName  *string
	CustomerPhone *string
	PaymentMethod PaymentMethod
	TransactionID string
	TotalAmount   decimal.Decimal
	IsPaid        bool
	CreatedAt     time.Time
	Items         []OrderItem
}

type OrderItem struct {
	ID        uint
	OrderID   uint
	ProductID int
	Quantity  int
}

const DefaultItemQuantity = 1

// AwaitingPayment reports whether the order can still be matched by a payment callback
// that carries no usable account reference.
func (o Order) AwaitingPayment() bool {
	return !o.IsPaid && o.TransactionID == ""
}

// MarkPaid applies the result of a successful reconciliation.
func (o *Order) MarkPaid(receiptNumber, customerPhone string) {
	o.TransactionID = receiptNumber
	o.CustomerPhone = &customerPhone
	o.IsPaid = true
}

// MonthlyEarning is the sum of paid order totals for one calendar month ("2006-01").
type MonthlyEarning struct {
	Month string
	Total decimal.Decimal
}
