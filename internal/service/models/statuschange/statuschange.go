package statuschange

import (
	"time"

	"github.com/shopfront-labs/order-lifecycle/internal/service/models/actor"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/status"
)

// StatusChange records one committed transition of an order. Rows are
// append-only; together they form the order's status timeline.
type StatusChange struct {
	ID         int64         `json:"id"`
	OrderID    int64         `json:"orderId"`
	FromStatus status.Status `json:"fromStatus"`
	ToStatus   status.Status `json:"toStatus"`
	ChangedBy  actor.Actor   `json:"changedBy"`
	ChangedAt  time.Time     `json:"changedAt"`
}
