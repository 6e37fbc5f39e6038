package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type InitiatePaymentRequest struct {
	Phone   string          `json:"phone"`
	Amount  decimal.Decimal `json:"amount"`
	OrderID Reference       `json:"order_id"`
}

// StkPushPayload is the body of a Daraja "Lipa na M-Pesa Online" request.
type StkPushPayload struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// ProviderResponse is passed back to the caller untouched.
type ProviderResponse struct {
	StatusCode int
	Body       json.RawMessage
}

type AccessToken struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   json.Number `json:"expires_in,omitempty"`
}
