package orderhistory

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shopfront-labs/order-lifecycle/internal/service/models/statuschange"
	"github.com/shopfront-labs/order-lifecycle/internal/transport/http/httperr"
)

// service is an interface for the service layer.
type service interface {
	GetOrderHistory(ctx context.Context, orderID int64) ([]statuschange.StatusChange, error)
}

type orderHistoryResponse struct {
	History []statuschange.StatusChange `json:"history"`
}

// OrderHistory handles the status timeline request for one order.
func OrderHistory(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.Response{
			Error: "order id must be an integer",
			Code:  httperr.CodeInvalidID,
		})

		return
	}

	history, err := service.GetOrderHistory(r.Context(), orderID)
	if err != nil {
		httperr.WriteServiceError(w, err)
		slog.Error("Error getting order history", "order_id", orderID, "error", err)

		return
	}

	if history == nil {
		history = []statuschange.StatusChange{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orderHistoryResponse{History: history}); err != nil {
		slog.Error("Error writing response for order history", "error", err)
	}
}
