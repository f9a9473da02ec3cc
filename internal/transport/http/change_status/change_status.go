package changestatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shopfront-labs/order-lifecycle/internal/service/models/actor"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/order"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/status"
	"github.com/shopfront-labs/order-lifecycle/internal/transport/http/httperr"
)

// service is an interface for the service layer.
type service interface {
	RequestTransition(
		ctx context.Context,
		orderID int64,
		requested status.Status,
		byActor actor.Actor,
	) (*order.Order, error)
}

type changeStatusRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor,omitempty"`
}

type changeStatusResponse struct {
	Order *order.Order `json:"order"`
}

// ChangeStatus handles a status transition request for one order.
func ChangeStatus(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.Response{
			Error: "order id must be an integer",
			Code:  httperr.CodeInvalidID,
		})

		return
	}

	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.Response{
			Error: "failed to decode request body",
			Code:  httperr.CodeInvalidRequestBody,
		})

		return
	}

	requested, err := status.ParseStatus(req.Status)
	if err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.Response{
			Error: "unknown status " + req.Status,
			Code:  httperr.CodeInvalidStatus,
		})

		return
	}

	// The admin console is the primary caller, so an omitted actor means admin.
	byActor := actor.ActorAdmin
	if req.Actor != "" {
		if byActor, err = actor.ParseActor(req.Actor); err != nil {
			httperr.Write(w, http.StatusBadRequest, httperr.Response{
				Error: "unknown actor " + req.Actor,
				Code:  httperr.CodeInvalidActor,
			})

			return
		}
	}

	ord, err := service.RequestTransition(r.Context(), orderID, requested, byActor)
	if err != nil {
		httperr.WriteServiceError(w, err)
		slog.Error("Error changing order status",
			"order_id", orderID,
			"requested", requested.String(),
			"actor", byActor.String(),
			"error", err,
		)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(changeStatusResponse{Order: ord}); err != nil {
		slog.Error("Error writing response for change status", "error", err)
	}
}
