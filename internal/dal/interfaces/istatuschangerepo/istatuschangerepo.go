package istatuschangerepo

import (
	"context"

	"github.com/shopfront-labs/order-lifecycle/internal/service/models/statuschange"
)

// IStatusChangeRepository is an interface for the status change postgres repository.
type IStatusChangeRepository interface {
	Insert(ctx context.Context, change statuschange.StatusChange) (statuschange.StatusChange, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]statuschange.StatusChange, error)
}
