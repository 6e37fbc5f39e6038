package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MpesaTransaction records one provider-confirmed payment. ReceiptNumber is unique and
// rows are never updated after insert.
type MpesaTransaction struct {
	ID                uint
	ReceiptNumber     string
	PhoneNumber       string
	Amount            decimal.Decimal
	TransactionDate   time.Time
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDescription string
	OrderID           *uint
	CreatedAt         time.Time
}
