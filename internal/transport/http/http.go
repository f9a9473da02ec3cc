package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/shopfront-labs/order-lifecycle/internal/service/models/actor"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/order"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/status"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/statuschange"
	cancelorder "github.com/shopfront-labs/order-lifecycle/internal/transport/http/cancel_order"
	changestatus "github.com/shopfront-labs/order-lifecycle/internal/transport/http/change_status"
	createorder "github.com/shopfront-labs/order-lifecycle/internal/transport/http/create_order"
	getorder "github.com/shopfront-labs/order-lifecycle/internal/transport/http/get_order"
	listorders "github.com/shopfront-labs/order-lifecycle/internal/transport/http/list_orders"
	orderhistory "github.com/shopfront-labs/order-lifecycle/internal/transport/http/order_history"
	"github.com/shopfront-labs/order-lifecycle/pkg/http/middleware/trace"
	"github.com/shopfront-labs/order-lifecycle/pkg/logger"
)

type service interface {
	GetOrder(ctx context.Context, orderID int64) (*order.Order, error)
	ListOrders(ctx context.Context, query *order.QueryOrdersModel) ([]order.Order, error)
	GetOrderHistory(ctx context.Context, orderID int64) ([]statuschange.StatusChange, error)
	PlaceOrders(ctx context.Context, orders []order.Order) ([]order.Order, error)
	RequestTransition(
		ctx context.Context,
		orderID int64,
		requested status.Status,
		byActor actor.Actor,
	) (*order.Order, error)
	CancelOrder(ctx context.Context, orderID int64, byActor actor.Actor) (*order.Order, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
}

func NewHTTPTransport(service service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Get("/orders", h.listOrders)
		r.Post("/orders", h.placeOrders)
		r.Get("/orders/{orderID}", h.getOrder)
		r.Post("/orders/{orderID}/status", h.changeStatus)
		r.Post("/orders/{orderID}/cancel", h.cancelOrder)
		r.Get("/orders/{orderID}/history", h.orderHistory)
	})
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.service)
}

func (h *HTTPTransport) placeOrders(w http.ResponseWriter, r *http.Request) {
	createorder.PlaceOrders(w, r, h.service)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.service)
}

func (h *HTTPTransport) changeStatus(w http.ResponseWriter, r *http.Request) {
	changestatus.ChangeStatus(w, r, h.service)
}

func (h *HTTPTransport) cancelOrder(w http.ResponseWriter, r *http.Request) {
	cancelorder.CancelOrder(w, r, h.service)
}

func (h *HTTPTransport) orderHistory(w http.ResponseWriter, r *http.Request) {
	orderhistory.OrderHistory(w, r, h.service)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
