package order

import "github.com/shopfront-labs/order-lifecycle/internal/service/models/status"

// QueryOrdersModel represents filter parameters for querying orders
type QueryOrdersModel struct {
	Ids         []int64         `json:"ids,omitempty"`
	CustomerIds []int64         `json:"customerIds,omitempty"`
	Statuses    []status.Status `json:"statuses,omitempty"`
	Limit       int             `json:"limit,omitempty"`
	Offset      int             `json:"offset,omitempty"`
}
