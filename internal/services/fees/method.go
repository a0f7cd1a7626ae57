package fees

import (
	"fmt"

	apperrors "greekpay/internal/errors"
	"greekpay/internal/models"
)

// Method is a processor payment-method type.
type Method string

const (
	MethodCard Method = "card"
	MethodACH  Method = "us_bank_account"
)

// ParseMethod validates a method string coming from a request or a saved
// payment method.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidMethod, s)
	}
	return m, nil
}

// Valid reports whether m is one of the supported method types.
func (m Method) Valid() bool {
	return m == MethodCard || m == MethodACH
}

// Code returns the ledger payment-method code for m.
func (m Method) Code() string {
	switch m {
	case MethodCard:
		return models.PaymentMethodStripeCard
	case MethodACH:
		return models.PaymentMethodStripeACH
	default:
		return ""
	}
}

// MethodFromCode is the inverse of Code.
func MethodFromCode(code string) (Method, bool) {
	switch code {
	case models.PaymentMethodStripeCard:
		return MethodCard, true
	case models.PaymentMethodStripeACH:
		return MethodACH, true
	default:
		return "", false
	}
}
