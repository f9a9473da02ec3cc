package paymentmethod

import (
	"database/sql/driver"
	"errors"
)

// PaymentMethod is how an order is paid for. It is fixed at placement.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

var ErrInvalidPaymentMethod = errors.New("invalid payment method")

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return m.String(), nil
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch s {
	case PaymentMethodCash.String():
		return PaymentMethodCash, nil
	case PaymentMethodCard.String():
		return PaymentMethodCard, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}
