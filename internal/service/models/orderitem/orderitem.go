package orderitem

import (
	"time"

	"github.com/shopfront-labs/order-lifecycle/internal/service/models/currency"
)

// OrderItem is a line item within an order. It is a snapshot taken at order
// placement; quantity and price never change afterwards.
type OrderItem struct {
	ID            int64             `json:"id"`
	OrderID       int64             `json:"orderId"`
	ProductTitle  string            `json:"productTitle"`
	Size          string            `json:"size"`
	Quantity      int               `json:"quantity"`
	PriceCents    int64             `json:"priceCents"`
	PriceCurrency currency.Currency `json:"priceCurrency"`
	CreatedAt     time.Time         `json:"createdAt"`
}
