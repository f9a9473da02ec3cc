package getorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shopfront-labs/order-lifecycle/internal/service/models/order"
	"github.com/shopfront-labs/order-lifecycle/internal/transport/http/httperr"
)

// service is an interface for the service layer.
type service interface {
	GetOrder(ctx context.Context, orderID int64) (*order.Order, error)
}

type getOrderResponse struct {
	Order *order.Order `json:"order"`
}

// GetOrder handles the single order detail request.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.Response{
			Error: "order id must be an integer",
			Code:  httperr.CodeInvalidID,
		})

		return
	}

	ord, err := service.GetOrder(r.Context(), orderID)
	if err != nil {
		httperr.WriteServiceError(w, err)
		slog.Error("Error getting order", "order_id", orderID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(getOrderResponse{Order: ord}); err != nil {
		slog.Error("Error writing response for get order", "error", err)
	}
}
