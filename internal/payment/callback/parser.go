// Package callback decodes the asynchronous STK push result sent by M-Pesa.
//
// The provider posts {"Body":{"stkCallback":{...}}}. Metadata arrives as a list of
// {Name, Value} pairs whose values may be strings or numbers; Parse turns that list
// into typed fields so nothing downstream handles the raw shape.
package callback

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"karen/internal/dto"
	apperrors "karen/internal/errors"
)

// TransactionDateLayout is the provider's 14 digit timestamp, YYYYMMDDHHMMSS.
const TransactionDateLayout = "20060102150405"

const (
	itemReceiptNumber   = "MpesaReceiptNumber"
	itemPhoneNumber     = "PhoneNumber"
	itemAmount          = "Amount"
	itemTransactionDate = "TransactionDate"
)

const (
	MessageInvalidEnvelope = "Invalid callback data"
	MessageIncompleteData  = "Incomplete callback metadata"
	MessageInvalidDate     = "Invalid transaction date format"
	messageInvalidAmount   = "Invalid transaction amount"
)

// ProviderLocation is the zone the provider reports timestamps in (EAT, UTC+3).
var ProviderLocation = time.FixedZone("EAT", 3*60*60)

type envelope struct {
	Body *struct {
		StkCallback json.RawMessage `json:"stkCallback"`
	} `json:"Body"`
}

// Scalar fields stay raw so a number where a string is expected never rejects the callback.
type stkCallback struct {
	MerchantRequestID json.RawMessage   `json:"MerchantRequestID"`
	CheckoutRequestID json.RawMessage   `json:"CheckoutRequestID"`
	ResultCode        json.RawMessage   `json:"ResultCode"`
	ResultDesc        json.RawMessage   `json:"ResultDesc"`
	AccountReference  json.RawMessage   `json:"AccountReference"`
	CallbackMetadata  *callbackMetadata `json:"CallbackMetadata"`
}

type callbackMetadata struct {
	Item []metadataItem `json:"Item"`
}

type metadataItem struct {
	Name  string          `json:"Name"`
	Value json.RawMessage `json:"Value"`
}

// Notification is a decoded stkCallback envelope.
type Notification struct {
	MerchantRequestID string
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	AccountReference  string

	resultCodeValid bool
	receiptNumber   string
	phoneNumber     string
	amount          string
	transactionDate string
}

// Parse decodes the request body. It fails only when the envelope itself is unusable.
func Parse(body []byte) (*Notification, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Body == nil || isEmptyObject(env.Body.StkCallback) {
		return nil, apperrors.NewValidationError(MessageInvalidEnvelope)
	}

	var cb stkCallback
	if err := json.Unmarshal(env.Body.StkCallback, &cb); err != nil {
		return nil, apperrors.NewValidationError(MessageInvalidEnvelope)
	}

	n := &Notification{
		MerchantRequestID: scalar(cb.MerchantRequestID),
		CheckoutRequestID: scalar(cb.CheckoutRequestID),
		ResultDesc:        scalar(cb.ResultDesc),
		AccountReference:  scalar(cb.AccountReference),
	}
	n.ResultCode, n.resultCodeValid = parseInt(cb.ResultCode)

	if cb.CallbackMetadata != nil {
		for _, item := range cb.CallbackMetadata.Item {
			value := scalar(item.Value)
			switch item.Name {
			case itemReceiptNumber:
				n.receiptNumber = value
			case itemPhoneNumber:
				n.phoneNumber = value
			case itemAmount:
				n.amount = value
			case itemTransactionDate:
				n.transactionDate = value
			}
		}
	}

	return n, nil
}

// Succeeded is false for cancelled, failed and malformed result codes.
func (n *Notification) Succeeded() bool {
	return n.resultCodeValid && n.ResultCode == 0
}

// Payment validates the metadata of a successful callback. The returned phone is the
// provider's raw value; normalization is left to the caller.
func (n *Notification) Payment() (*dto.CallbackPayment, error) {
	if n.receiptNumber == "" || n.phoneNumber == "" || n.transactionDate == "" {
		return nil, apperrors.NewMissingParameterError(MessageIncompleteData)
	}

	date, err := time.ParseInLocation(TransactionDateLayout, n.transactionDate, ProviderLocation)
	if err != nil || len(n.transactionDate) != len(TransactionDateLayout) {
		return nil, apperrors.NewInvalidFormatError(MessageInvalidDate)
	}

	amount := decimal.Zero
	if n.amount != "" {
		amount, err = decimal.NewFromString(n.amount)
		if err != nil {
			return nil, apperrors.NewInvalidFormatError(messageInvalidAmount)
		}
	}

	return &dto.CallbackPayment{
		MerchantRequestID: n.MerchantRequestID,
		CheckoutRequestID: n.CheckoutRequestID,
		ResultCode:        n.ResultCode,
		ResultDesc:        n.ResultDesc,
		AccountReference:  n.AccountReference,
		ReceiptNumber:     n.receiptNumber,
		RawPhone:          n.phoneNumber,
		Amount:            amount,
		TransactionDate:   date,
	}, nil
}

func isEmptyObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return true
	}
	return len(fields) == 0
}

// scalar returns the literal text of a JSON string or number, or "" for anything else.
func scalar(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return n.String()
	}
	return ""
}

func parseInt(raw json.RawMessage) (int, bool) {
	value := scalar(raw)
	if value == "" {
		return 0, false
	}
	code, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return code, true
}
