package iorderrepo

import (
	"context"
	"time"

	"github.com/shopfront-labs/order-lifecycle/internal/service/models/order"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/status"
)

// IOrderRepository is an interface for order postgres repository.
type IOrderRepository interface {
	GetByID(ctx context.Context, id int64) (*order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
	BulkInsert(ctx context.Context, orders []order.Order) ([]order.Order, error)

	// UpdateStatus is a compare-and-set: the stored status must still equal
	// from for the update to land.
	UpdateStatus(
		ctx context.Context,
		id int64,
		from, to status.Status,
		now time.Time,
	) (time.Time, error)
}
