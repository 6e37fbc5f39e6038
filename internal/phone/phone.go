// Package phone converts Kenyan mobile numbers between the two canonical forms used by the shop:
// the trunk-prefixed local form ("0712345678") stored on orders and shown to users, and the
// country-code form ("254712345678") expected by the M-Pesa API.
package phone

import (
	"strings"
	"unicode"

	apperrors "karen/internal/errors"
)

const (
	CountryCode    = "254"
	TrunkPrefix    = "0"
	subscriberSize = 9
)

const invalidFormatMessage = "Invalid phone number format"

// Clean removes whitespace anywhere in the number and a leading "+".
func Clean(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	return strings.TrimPrefix(cleaned, "+")
}

// ToInternational returns the provider-facing form, 254XXXXXXXXX.
func ToInternational(raw string) (string, error) {
	subscriber, err := subscriberNumber(raw)
	if err != nil {
		return "", err
	}
	return CountryCode + subscriber, nil
}

// ToLocal returns the storage form, 0XXXXXXXXX.
func ToLocal(raw string) (string, error) {
	subscriber, err := subscriberNumber(raw)
	if err != nil {
		return "", err
	}
	return TrunkPrefix + subscriber, nil
}

// Variants returns both canonical forms of the same number.
func Variants(raw string) (local, international string, err error) {
	subscriber, err := subscriberNumber(raw)
	if err != nil {
		return "", "", err
	}
	return TrunkPrefix + subscriber, CountryCode + subscriber, nil
}

func subscriberNumber(raw string) (string, error) {
	p := Clean(raw)

	var subscriber string
	switch {
	case len(p) == len(CountryCode)+subscriberSize && strings.HasPrefix(p, CountryCode):
		subscriber = p[len(CountryCode):]
	case len(p) == len(TrunkPrefix)+subscriberSize && strings.HasPrefix(p, TrunkPrefix):
		subscriber = p[len(TrunkPrefix):]
	default:
		return "", apperrors.NewInvalidFormatError(invalidFormatMessage)
	}

	for _, r := range subscriber {
		if r < '0' || r > '9' {
			return "", apperrors.NewInvalidFormatError(invalidFormatMessage)
		}
	}

	return subscriber, nil
}
