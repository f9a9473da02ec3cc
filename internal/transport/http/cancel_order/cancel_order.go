package cancelorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shopfront-labs/order-lifecycle/internal/service/models/actor"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/order"
	"github.com/shopfront-labs/order-lifecycle/internal/transport/http/httperr"
)

// service is an interface for the service layer.
type service interface {
	CancelOrder(ctx context.Context, orderID int64, byActor actor.Actor) (*order.Order, error)
}

type cancelOrderResponse struct {
	Order *order.Order `json:"order"`
}

// CancelOrder handles the cancellation request. The endpoint is exposed to
// the admin console only, so the actor is always admin.
func CancelOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.Response{
			Error: "order id must be an integer",
			Code:  httperr.CodeInvalidID,
		})

		return
	}

	ord, err := service.CancelOrder(r.Context(), orderID, actor.ActorAdmin)
	if err != nil {
		httperr.WriteServiceError(w, err)
		slog.Error("Error cancelling order", "order_id", orderID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(cancelOrderResponse{Order: ord}); err != nil {
		slog.Error("Error writing response for cancel order", "error", err)
	}
}
