package icustomerrepo

import (
	"context"

	"github.com/shopfront-labs/order-lifecycle/internal/service/models/customer"
)

// ICustomerRepository resolves the read-only customer projection for display.
type ICustomerRepository interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]customer.Customer, error)
}
