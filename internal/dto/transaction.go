package dto

import (
	"time"

	"karen/internal/domain"
)

type TransactionResponse struct {
	ID                uint      `json:"id"`
	ReceiptNumber     string    `json:"receipt_number"`
	PhoneNumber       string    `json:"phone_number"`
	Amount            string    `json:"amount"`
	TransactionDate   time.Time `json:"transaction_date"`
	MerchantRequestID string    `json:"merchant_request_id"`
	CheckoutRequestID string    `json:"checkout_request_id"`
	ResultCode        int       `json:"result_code"`
	ResultDescription string    `json:"result_description"`
}

func NewTransactionResponses(txns []domain.MpesaTransaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		out[i] = TransactionResponse{
			ID:                t.ID,
			ReceiptNumber:     t.ReceiptNumber,
			PhoneNumber:       t.PhoneNumber,
			Amount:            t.Amount.StringFixed(2),
			TransactionDate:   t.TransactionDate,
			MerchantRequestID: t.MerchantRequestID,
			CheckoutRequestID: t.CheckoutRequestID,
			ResultCode:        t.ResultCode,
			ResultDescription: t.ResultDescription,
		}
	}
	return out
}
