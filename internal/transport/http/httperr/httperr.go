package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopfront-labs/order-lifecycle/internal/service/models/actor"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/order"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/status"
	"github.com/shopfront-labs/order-lifecycle/internal/service/services/lifecyclesvc"
)

const (
	CodeNotFound           = "order_not_found"
	CodeIllegalTransition  = "illegal_transition"
	CodeConflict           = "transition_in_flight"
	CodeActorNotPermitted  = "actor_not_permitted"
	CodeInvalidStatus      = "invalid_status"
	CodeInvalidActor       = "invalid_actor"
	CodeInvalidRequestBody = "invalid_request_body"
	CodeInvalidID          = "invalid_id"
	CodeInvalidQueryParam  = "invalid_query_param"
	CodeEmptyItems         = "empty_items"
	CodeInternalError      = "internal_error"
)

// Response is the error body every endpoint returns. From and To are set
// only for illegal transitions so the console can explain the rejection.
type Response struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	From  string `json:"from,omitempty"`
	To    string `json:"to,omitempty"`
}

func Write(w http.ResponseWriter, statusCode int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
	}
}

// WriteServiceError maps a lifecycle service failure to an HTTP response.
// All four taxonomy kinds stay structured; anything else is an internal error.
func WriteServiceError(w http.ResponseWriter, err error) {
	var illegal *status.IllegalTransitionError

	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		Write(w, http.StatusNotFound, Response{Error: err.Error(), Code: CodeNotFound})
	case errors.As(err, &illegal):
		Write(w, http.StatusUnprocessableEntity, Response{
			Error: illegal.Error(),
			Code:  CodeIllegalTransition,
			From:  illegal.From.String(),
			To:    illegal.To.String(),
		})
	case errors.Is(err, lifecyclesvc.ErrTransitionInFlight):
		Write(w, http.StatusConflict, Response{Error: err.Error(), Code: CodeConflict})
	case errors.Is(err, lifecyclesvc.ErrActorNotPermitted):
		Write(w, http.StatusForbidden, Response{Error: err.Error(), Code: CodeActorNotPermitted})
	case errors.Is(err, status.ErrInvalidStatus):
		Write(w, http.StatusBadRequest, Response{Error: err.Error(), Code: CodeInvalidStatus})
	case errors.Is(err, actor.ErrInvalidActor):
		Write(w, http.StatusBadRequest, Response{Error: err.Error(), Code: CodeInvalidActor})
	case errors.Is(err, order.ErrEmptyItems):
		Write(w, http.StatusBadRequest, Response{Error: err.Error(), Code: CodeEmptyItems})
	default:
		Write(w, http.StatusInternalServerError, Response{Error: "internal error", Code: CodeInternalError})
	}
}
