package lifecyclesvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/shopfront-labs/order-lifecycle/internal/dal/interfaces/icustomerrepo"
	"github.com/shopfront-labs/order-lifecycle/internal/dal/interfaces/iorderitemrepo"
	"github.com/shopfront-labs/order-lifecycle/internal/dal/interfaces/iorderrepo"
	"github.com/shopfront-labs/order-lifecycle/internal/dal/interfaces/ioutboxrepo"
	"github.com/shopfront-labs/order-lifecycle/internal/dal/interfaces/istatuschangerepo"
	"github.com/shopfront-labs/order-lifecycle/internal/dal/postgres"
	customerrepo "github.com/shopfront-labs/order-lifecycle/internal/dal/repositories/customer/postgres"
	"github.com/shopfront-labs/order-lifecycle/internal/dal/uow"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/actor"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/customer"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/order"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/orderitem"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/outbox"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/status"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/statuschange"
)

var (
	// ErrTransitionInFlight means another status mutation for the same order
	// is between validation and commit. The caller should retry after the
	// in-flight one resolves.
	ErrTransitionInFlight = errors.New("transition already in flight for this order")

	// ErrActorNotPermitted means the caller's role may not perform the
	// requested transition.
	ErrActorNotPermitted = errors.New("actor not permitted to perform this transition")
)

// LifecycleService owns all status mutation. It validates a requested
// transition against the transition graph, applies it atomically and records
// the change; nothing else in the system writes order status.
type LifecycleService struct {
	pgClient     *postgres.Client
	customerRepo icustomerrepo.ICustomerRepository
	newUOWFn     func() unitOfWork
	locks        *orderLocks
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	StatusChangeRepository() istatuschangerepo.IStatusChangeRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

func (s *LifecycleService) newUOW() unitOfWork {
	if s.newUOWFn != nil {
		return s.newUOWFn()
	}
	return uow.NewUnitOfWork(s.pgClient)
}

// option is a function that configures the LifecycleService.
type option func(*LifecycleService)

// MustNewLifecycleService creates a new LifecycleService.
func MustNewLifecycleService(opts ...option) *LifecycleService {
	s := &LifecycleService{
		locks: newOrderLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.pgClient != nil && s.customerRepo == nil {
		s.customerRepo = customerrepo.NewPostgresCustomerRepository(s.pgClient.Pool())
	}

	return s
}

// WithPostgresClient sets the Postgres client for the LifecycleService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *LifecycleService) {
		s.pgClient = pgClient
	}
}

// WithCustomerRepository overrides the customer projection source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCustomerRepository(repo icustomerrepo.ICustomerRepository) option {
	return func(s *LifecycleService) {
		s.customerRepo = repo
	}
}

// WithUnitOfWorkFactory overrides how units of work are created.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(fn func() unitOfWork) option {
	return func(s *LifecycleService) {
		s.newUOWFn = fn
	}
}

// RequestTransition moves one order to the requested status. The per-order
// mutation right is taken first; holding it, the current snapshot is read,
// the actor and transition rules are checked, and the change is committed
// together with its history record and, for terminal statuses, its
// notification event. Returns the updated snapshot.
func (s *LifecycleService) RequestTransition(
	ctx context.Context,
	orderID int64,
	requested status.Status,
	byActor actor.Actor,
) (*order.Order, error) {
	tracer := otel.Tracer("order-lifecycle")
	ctx, span := tracer.Start(ctx, "lifecyclesvc.RequestTransition")
	defer span.End()

	release, ok := s.locks.TryAcquire(orderID)
	if !ok {
		return nil, ErrTransitionInFlight
	}
	defer release()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	ord, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := checkActor(ord.Status, requested, byActor); err != nil {
		return nil, err
	}

	if err := status.Validate(ord.Status, requested); err != nil {
		return nil, err
	}

	now := time.Now()
	updatedAt, err := work.OrderRepository().UpdateStatus(ctx, orderID, ord.Status, requested, now)
	if err != nil {
		// The snapshot was read under the mutation lock, so a vanished row
		// means the order is gone, not that the status moved underneath us.
		return nil, err
	}

	change := statuschange.StatusChange{
		OrderID:    orderID,
		FromStatus: ord.Status,
		ToStatus:   requested,
		ChangedBy:  byActor,
		ChangedAt:  now,
	}
	if _, err := work.StatusChangeRepository().Insert(ctx, change); err != nil {
		return nil, err
	}

	if requested.IsTerminal() {
		if err := s.enqueueStatusEvent(ctx, work.OutboxRepository(), change); err != nil {
			return nil, err
		}
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	ord.Status = requested
	ord.UpdatedAt = updatedAt

	return ord, nil
}

// CancelOrder is the cancellation specialization of RequestTransition.
func (s *LifecycleService) CancelOrder(
	ctx context.Context,
	orderID int64,
	byActor actor.Actor,
) (*order.Order, error) {
	return s.RequestTransition(ctx, orderID, status.StatusCancelled, byActor)
}

// checkActor enforces the role asymmetry the transition graph does not know
// about: admins may request any edge, customers may only cancel and only
// while the order has not shipped.
func checkActor(current, requested status.Status, byActor actor.Actor) error {
	if byActor == actor.ActorAdmin {
		return nil
	}

	if requested != status.StatusCancelled {
		return ErrActorNotPermitted
	}
	if current != status.StatusPending && current != status.StatusPlaced {
		return ErrActorNotPermitted
	}

	return nil
}

// statusEvent is the wire payload of a status change notification.
type statusEvent struct {
	EventID    string    `json:"eventId"`
	OrderID    int64     `json:"orderId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	ChangedBy  string    `json:"changedBy"`
	ChangedAt  time.Time `json:"changedAt"`
}

func (s *LifecycleService) enqueueStatusEvent(
	ctx context.Context,
	outboxRepo ioutboxrepo.IOutboxRepository,
	change statuschange.StatusChange,
) error {
	payload, err := json.Marshal(statusEvent{
		EventID:    uuid.NewString(),
		OrderID:    change.OrderID,
		FromStatus: change.FromStatus.String(),
		ToStatus:   change.ToStatus.String(),
		ChangedBy:  change.ChangedBy.String(),
		ChangedAt:  change.ChangedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 10
	}

	return outboxRepo.Insert(ctx, outbox.OutboxMessage{
		QueueName:   outbox.StatusEventsQueue,
		RoutingKey:  outbox.StatusEventsQueue,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  maxRetries,
		CreatedAt:   change.ChangedAt,
		UpdatedAt:   change.ChangedAt,
		NextRetryAt: change.ChangedAt,
	})
}

// GetOrder retrieves one order with its items and customer projection.
func (s *LifecycleService) GetOrder(ctx context.Context, orderID int64) (*order.Order, error) {
	work := s.newUOW()

	ord, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := work.OrderItemRepository().Query(ctx, &orderitem.QueryOrderItemsModel{
		OrderIds: []int64{orderID},
	})
	if err != nil {
		return nil, err
	}
	ord.OrderItems = items

	if s.customerRepo != nil {
		customers, err := s.customerRepo.GetByIDs(ctx, []int64{ord.CustomerID})
		if err != nil {
			return nil, err
		}
		if c, ok := customers[ord.CustomerID]; ok {
			ord.Customer = &c
		}
	}

	return ord, nil
}

// ListOrders retrieves orders matching the filter, with items and customer
// projections hydrated. Orders come back in creation order, ascending.
func (s *LifecycleService) ListOrders(
	ctx context.Context,
	query *order.QueryOrdersModel,
) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	orderIds := make([]int64, 0, len(orders))
	customerIds := make([]int64, 0, len(orders))
	for _, o := range orders {
		orderIds = append(orderIds, o.ID)
		customerIds = append(customerIds, o.CustomerID)
	}

	var (
		items     []orderitem.OrderItem
		customers map[int64]customer.Customer
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = work.OrderItemRepository().Query(gctx, &orderitem.QueryOrderItemsModel{
			OrderIds: orderIds,
		})
		return err
	})
	g.Go(func() error {
		if s.customerRepo == nil {
			return nil
		}
		var err error
		customers, err = s.customerRepo.GetByIDs(gctx, customerIds)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
		if c, ok := customers[orders[i].CustomerID]; ok {
			orders[i].Customer = &c
		}
	}

	return orders, nil
}

// GetOrderHistory returns the status timeline of an order, oldest first.
func (s *LifecycleService) GetOrderHistory(
	ctx context.Context,
	orderID int64,
) ([]statuschange.StatusChange, error) {
	work := s.newUOW()

	// Surface NotFound for unknown ids rather than an empty timeline.
	if _, err := work.OrderRepository().GetByID(ctx, orderID); err != nil {
		return nil, err
	}

	return work.StatusChangeRepository().ListByOrderID(ctx, orderID)
}

// PlaceOrders creates multiple orders with their items in a transaction.
// Every order enters the system in pending.
func (s *LifecycleService) PlaceOrders(
	ctx context.Context,
	orders []order.Order,
) ([]order.Order, error) {
	tracer := otel.Tracer("order-lifecycle")
	ctx, span := tracer.Start(ctx, "lifecyclesvc.PlaceOrders")
	defer span.End()

	now := time.Now()

	for i := range orders {
		orders[i].Status = status.StatusPending
		orders[i].CreatedAt = now
		orders[i].UpdatedAt = now
		if err := orders[i].ValidateForPlacement(); err != nil {
			return nil, err
		}
	}

	work := s.newUOW()

	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = work.Rollback(ctx) }()

	orders, err := work.OrderRepository().BulkInsert(ctx, orders)
	if err != nil {
		return nil, err
	}

	orderItems := make([]orderitem.OrderItem, 0)
	for _, o := range orders {
		for _, item := range o.OrderItems {
			item.OrderID = o.ID
			item.CreatedAt = now
			orderItems = append(orderItems, item)
		}
	}
	orderItems, err = work.OrderItemRepository().BulkInsert(ctx, orderItems)
	if err != nil {
		return nil, err
	}

	itemsByOrder := make(map[int64][]orderitem.OrderItem, len(orders))
	for _, item := range orderItems {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}
	for i := range orders {
		orders[i].OrderItems = itemsByOrder[orders[i].ID]
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	return orders, nil
}
