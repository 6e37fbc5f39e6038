package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CallbackPayment is a successful provider callback after metadata extraction.
type CallbackPayment struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	AccountReference  string
	ReceiptNumber     string
	RawPhone          string
	Phone             string
	Amount            decimal.Decimal
	TransactionDate   time.Time
}

type ReconciliationOutcome string

const (
	OutcomeIgnored   ReconciliationOutcome = "IGNORED"
	OutcomeMatched   ReconciliationOutcome = "MATCHED"
	OutcomeUnmatched ReconciliationOutcome = "UNMATCHED"
)

type MatchSource string

const (
	MatchByAccountReference MatchSource = "account_reference"
	MatchByPhoneAndAmount   MatchSource = "phone_amount"
)

type ReconciliationResult struct {
	Outcome       ReconciliationOutcome
	OrderID       uint
	MatchedBy     MatchSource
	TransactionID uint
	ReceiptNumber string
}

// Message is the acknowledgement text returned to the provider.
func (r ReconciliationResult) Message() string {
	switch r.Outcome {
	case OutcomeMatched:
		return fmt.Sprintf("Order %d updated with payment", r.OrderID)
	case OutcomeIgnored:
		return "Transaction failed or cancelled"
	default:
		return "Callback received and logged"
	}
}

// PaymentConfirmedEvent is published after an order is marked paid.
type PaymentConfirmedEvent struct {
	OrderID         uint        `json:"order_id"`
	ReceiptNumber   string      `json:"receipt_number"`
	PhoneNumber     string      `json:"phone_number"`
	Amount          string      `json:"amount"`
	TransactionDate time.Time   `json:"transaction_date"`
	MatchedBy       MatchSource `json:"matched_by"`
}
