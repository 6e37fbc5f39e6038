package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestNotFoundError_IsNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading order: %w", NewNotFoundError("order with id 7 not found"))

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "order with id 7 not found", notFoundErr.Message)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "payment_method", Message: "payment_method must be one of mpesa, card"},
		{Field: "items", Message: "items must not be empty"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestDuplicateReceiptError_Message(t *testing.T) {
	err := NewDuplicateReceiptError("ABC123XYZ")

	assert.Equal(t, "A transaction with receipt number 'ABC123XYZ' already exists.", err.Error())

	de, ok := IsDuplicateReceiptError(fmt.Errorf("reconciling: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "ABC123XYZ", de.ReceiptNumber)
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := NewNetworkError("requesting access token", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "requesting access token")
	assert.Contains(t, err.Error(), "i/o timeout")
}

func TestIsClientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"validation", NewValidationError("bad"), true},
		{"invalid format", NewInvalidFormatError("Invalid phone number format"), true},
		{"missing parameter", NewMissingParameterError("Missing id"), true},
		{"authentication", NewAuthenticationError("Unable to retrieve access token"), true},
		{"duplicate receipt", NewDuplicateReceiptError("X"), true},
		{"not found", NewNotFoundError("Order not found"), false},
		{"network", NewNetworkError("timeout", nil), false},
		{"internal", NewInternalError("boom", nil), false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsClientError(tt.err))
		})
	}
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
