package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopfront-labs/order-lifecycle/internal/service/models/currency"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/order"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/orderitem"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/paymentmethod"
	"github.com/shopfront-labs/order-lifecycle/internal/transport/http/httperr"
)

// service is an interface for the service layer.
type service interface {
	PlaceOrders(ctx context.Context, orders []order.Order) ([]order.Order, error)
}

type placeOrderItem struct {
	ProductTitle  string `json:"productTitle"`
	Size          string `json:"size"`
	Quantity      int    `json:"quantity"`
	PriceCents    int64  `json:"priceCents"`
	PriceCurrency string `json:"priceCurrency"`
}

type placeOrder struct {
	CustomerID    int64            `json:"customerId"`
	TotalCents    int64            `json:"totalCents"`
	TotalCurrency string           `json:"totalCurrency"`
	PaymentMethod string           `json:"paymentMethod"`
	Address       string           `json:"address"`
	City          string           `json:"city"`
	Notes         string           `json:"notes"`
	Items         []placeOrderItem `json:"items"`
}

type placeOrdersRequest struct {
	Orders []placeOrder `json:"orders"`
}

type placeOrdersResponse struct {
	Orders []order.Order `json:"orders"`
}

func (p *placeOrder) toModel() (*order.Order, error) {
	cur, err := currency.ParseCurrency(p.TotalCurrency)
	if err != nil {
		return nil, err
	}
	method, err := paymentmethod.ParsePaymentMethod(p.PaymentMethod)
	if err != nil {
		return nil, err
	}

	items := make([]orderitem.OrderItem, 0, len(p.Items))
	for _, item := range p.Items {
		itemCur, err := currency.ParseCurrency(item.PriceCurrency)
		if err != nil {
			return nil, err
		}
		items = append(items, orderitem.OrderItem{
			ProductTitle:  item.ProductTitle,
			Size:          item.Size,
			Quantity:      item.Quantity,
			PriceCents:    item.PriceCents,
			PriceCurrency: itemCur,
		})
	}

	return &order.Order{
		CustomerID:    p.CustomerID,
		TotalCents:    p.TotalCents,
		TotalCurrency: cur,
		PaymentMethod: method,
		Address:       p.Address,
		City:          p.City,
		Notes:         p.Notes,
		OrderItems:    items,
	}, nil
}

// PlaceOrders handles the batch order placement request.
func PlaceOrders(w http.ResponseWriter, r *http.Request, service service) {
	var req placeOrdersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.Response{
			Error: "failed to decode request body",
			Code:  httperr.CodeInvalidRequestBody,
		})
		slog.Error("Error decoding request body for place orders", "error", err)

		return
	}

	orders := make([]order.Order, 0, len(req.Orders))
	for _, p := range req.Orders {
		model, err := p.toModel()
		if err != nil {
			httperr.Write(w, http.StatusBadRequest, httperr.Response{
				Error: err.Error(),
				Code:  httperr.CodeInvalidRequestBody,
			})

			return
		}
		orders = append(orders, *model)
	}

	placed, err := service.PlaceOrders(r.Context(), orders)
	if err != nil {
		httperr.WriteServiceError(w, err)
		slog.Error("Error placing orders", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(placeOrdersResponse{Orders: placed}); err != nil {
		slog.Error("Error writing response for place orders", "error", err)
	}
}
