package listorders

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopfront-labs/order-lifecycle/internal/service/models/order"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/status"
	"github.com/shopfront-labs/order-lifecycle/internal/transport/http/httperr"
)

// service is an interface for the service layer.
type service interface {
	ListOrders(ctx context.Context, query *order.QueryOrdersModel) ([]order.Order, error)
}

type listOrdersResponse struct {
	Orders []order.Order `json:"orders"`
}

// parseIntSlice parses comma-separated string to slice of int64. Any
// malformed entry fails the whole filter; dropping it silently would return
// results the caller did not ask for.
func parseIntSlice(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	result := make([]int64, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not a valid id: %q", strings.TrimSpace(part))
		}
		result = append(result, val)
	}

	return result, nil
}

// ListOrders handles the list orders request.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	query := r.URL.Query()

	ids, err := parseIntSlice(query.Get("ids"))
	if err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.Response{
			Error: "invalid ids filter: " + err.Error(),
			Code:  httperr.CodeInvalidID,
		})

		return
	}

	customerIds, err := parseIntSlice(query.Get("customerIds"))
	if err != nil {
		httperr.Write(w, http.StatusBadRequest, httperr.Response{
			Error: "invalid customerIds filter: " + err.Error(),
			Code:  httperr.CodeInvalidID,
		})

		return
	}

	model := &order.QueryOrdersModel{
		Ids:         ids,
		CustomerIds: customerIds,
	}

	if rawStatuses := query.Get("statuses"); rawStatuses != "" {
		for _, raw := range strings.Split(rawStatuses, ",") {
			st, err := status.ParseStatus(strings.TrimSpace(raw))
			if err != nil {
				httperr.Write(w, http.StatusBadRequest, httperr.Response{
					Error: "unknown status " + raw,
					Code:  httperr.CodeInvalidStatus,
				})

				return
			}
			model.Statuses = append(model.Statuses, st)
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			httperr.Write(w, http.StatusBadRequest, httperr.Response{
				Error: "invalid limit: " + limitStr,
				Code:  httperr.CodeInvalidQueryParam,
			})

			return
		}
		model.Limit = limit
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			httperr.Write(w, http.StatusBadRequest, httperr.Response{
				Error: "invalid offset: " + offsetStr,
				Code:  httperr.CodeInvalidQueryParam,
			})

			return
		}
		model.Offset = offset
	}

	orders, err := service.ListOrders(r.Context(), model)
	if err != nil {
		httperr.WriteServiceError(w, err)
		slog.Error("Error listing orders", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(listOrdersResponse{Orders: orders}); err != nil {
		slog.Error("Error writing response for list orders", "error", err)
	}
}
