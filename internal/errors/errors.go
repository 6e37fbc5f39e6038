package errors

import (
	stderrors "errors"
	"fmt"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// InvalidFormatError is returned when a phone number, date or amount cannot be parsed.
type InvalidFormatError struct {
	Message string
}

func (e *InvalidFormatError) Error() string {
	return e.Message
}

func NewInvalidFormatError(message string) *InvalidFormatError {
	return &InvalidFormatError{Message: message}
}

func IsInvalidFormatError(err error) (*InvalidFormatError, bool) {
	var fe *InvalidFormatError
	if stderrors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

type MissingParameterError struct {
	Message string
}

func (e *MissingParameterError) Error() string {
	return e.Message
}

func NewMissingParameterError(message string) *MissingParameterError {
	return &MissingParameterError{Message: message}
}

func IsMissingParameterError(err error) (*MissingParameterError, bool) {
	var me *MissingParameterError
	if stderrors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// AuthenticationError means the payment provider refused to issue an access token.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{Message: message}
}

func IsAuthenticationError(err error) (*AuthenticationError, bool) {
	var ae *AuthenticationError
	if stderrors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

type DuplicateReceiptError struct {
	ReceiptNumber string
}

func (e *DuplicateReceiptError) Error() string {
	return fmt.Sprintf("A transaction with receipt number '%s' already exists.", e.ReceiptNumber)
}

func NewDuplicateReceiptError(receiptNumber string) *DuplicateReceiptError {
	return &DuplicateReceiptError{ReceiptNumber: receiptNumber}
}

func IsDuplicateReceiptError(err error) (*DuplicateReceiptError, bool) {
	var de *DuplicateReceiptError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	if stderrors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}

// NetworkError wraps transport failures and timeouts talking to the payment provider.
type NetworkError struct {
	Message string
	Cause   error
}

func (e *NetworkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

func NewNetworkError(message string, cause error) *NetworkError {
	return &NetworkError{
		Message: message,
		Cause:   cause,
	}
}

func IsNetworkError(err error) (*NetworkError, bool) {
	var ne *NetworkError
	if stderrors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}

type DeadlockError struct {
	Message string
}

func (e *DeadlockError) Error() string {
	return e.Message
}

func NewDeadlockError(message string) *DeadlockError {
	return &DeadlockError{Message: message}
}

func IsDeadlockError(err error) (*DeadlockError, bool) {
	var de *DeadlockError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

// IsClientError reports whether err should be answered with 400 Bad Request.
func IsClientError(err error) bool {
	if _, ok := IsValidationError(err); ok {
		return true
	}
	if _, ok := IsInvalidFormatError(err); ok {
		return true
	}
	if _, ok := IsMissingParameterError(err); ok {
		return true
	}
	if _, ok := IsAuthenticationError(err); ok {
		return true
	}
	if _, ok := IsDuplicateReceiptError(err); ok {
		return true
	}
	return false
}
