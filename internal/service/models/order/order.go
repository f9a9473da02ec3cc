package order

import (
	"errors"
	"time"

	"github.com/shopfront-labs/order-lifecycle/internal/service/models/currency"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/customer"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/orderitem"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/paymentmethod"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/status"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyItems    = errors.New("order must have at least one item")
	ErrNegativeTotal = errors.New("order total must be non-negative")
)

// Order represents a placed purchase. Everything except Status and UpdatedAt
// is immutable after placement; Status is mutated only through the lifecycle
// service. UpdatedAt moves with every committed status change and serves as
// the staleness token for callers caching snapshots.
type Order struct {
	ID            int64                       `json:"id"`
	CustomerID    int64                       `json:"customerId"`
	Status        status.Status               `json:"status"`
	TotalCents    int64                       `json:"totalCents"`
	TotalCurrency currency.Currency           `json:"totalCurrency"`
	PaymentMethod paymentmethod.PaymentMethod `json:"paymentMethod"`
	Address       string                      `json:"address"`
	City          string                      `json:"city"`
	Notes         string                      `json:"notes,omitempty"`
	CreatedAt     time.Time                   `json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
	OrderItems    []orderitem.OrderItem       `json:"orderItems"`
	Customer      *customer.Customer          `json:"customer,omitempty"`
}

// ValidateForPlacement checks the invariants an order must satisfy before it
// can be inserted.
func (o *Order) ValidateForPlacement() error {
	if len(o.OrderItems) == 0 {
		return ErrEmptyItems
	}
	if o.TotalCents < 0 {
		return ErrNegativeTotal
	}

	return nil
}
