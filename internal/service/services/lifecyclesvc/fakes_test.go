package lifecyclesvc

import (
	"context"
	"sync"
	"time"

	"github.com/shopfront-labs/order-lifecycle/internal/dal/interfaces/iorderitemrepo"
	"github.com/shopfront-labs/order-lifecycle/internal/dal/interfaces/iorderrepo"
	"github.com/shopfront-labs/order-lifecycle/internal/dal/interfaces/ioutboxrepo"
	"github.com/shopfront-labs/order-lifecycle/internal/dal/interfaces/istatuschangerepo"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/customer"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/order"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/orderitem"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/outbox"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/status"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/statuschange"
)

// fakeStore is a shared in-memory backing store for the fake repositories.
// It mimics the relevant Postgres behavior: compare-and-set on status, ids
// assigned on insert, snapshots isolated from callers.
type fakeStore struct {
	mu sync.Mutex

	orders    map[int64]order.Order
	items     map[int64][]orderitem.OrderItem
	changes   []statuschange.StatusChange
	outbox    []outbox.OutboxMessage
	customers map[int64]customer.Customer

	nextOrderID  int64
	nextItemID   int64
	nextChangeID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:      make(map[int64]order.Order),
		items:       make(map[int64][]orderitem.OrderItem),
		customers:   make(map[int64]customer.Customer),
		nextOrderID: 1,
		nextItemID:  1,
	}
}

func (f *fakeStore) addOrder(o order.Order) order.Order {
	f.mu.Lock()
	defer f.mu.Unlock()

	o.ID = f.nextOrderID
	f.nextOrderID++
	items := o.OrderItems
	o.OrderItems = nil
	f.orders[o.ID] = o

	for _, item := range items {
		item.OrderID = o.ID
		item.ID = f.nextItemID
		f.nextItemID++
		f.items[o.ID] = append(f.items[o.ID], item)
	}

	o.OrderItems = f.items[o.ID]

	return o
}

type fakeUOW struct {
	store *fakeStore
}

func (f *fakeUOW) Begin(ctx context.Context) error    { return nil }
func (f *fakeUOW) Commit(ctx context.Context) error   { return nil }
func (f *fakeUOW) Rollback(ctx context.Context) error { return nil }

func (f *fakeUOW) OrderRepository() iorderrepo.IOrderRepository {
	return &fakeOrderRepo{store: f.store}
}

func (f *fakeUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return &fakeOrderItemRepo{store: f.store}
}

func (f *fakeUOW) StatusChangeRepository() istatuschangerepo.IStatusChangeRepository {
	return &fakeStatusChangeRepo{store: f.store}
}

func (f *fakeUOW) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return &fakeOutboxRepo{store: f.store}
}

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}

	return &o, nil
}

func (r *fakeOrderRepo) Query(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []order.Order
	for id := int64(1); id < r.store.nextOrderID; id++ {
		o, ok := r.store.orders[id]
		if !ok {
			continue
		}
		if len(filter.Ids) > 0 && !containsID(filter.Ids, o.ID) {
			continue
		}
		if len(filter.CustomerIds) > 0 && !containsID(filter.CustomerIds, o.CustomerID) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, o.Status) {
			continue
		}
		result = append(result, o)
	}

	return result, nil
}

func (r *fakeOrderRepo) BulkInsert(
	ctx context.Context,
	orders []order.Order,
) ([]order.Order, error) {
	result := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, r.store.addOrder(o))
	}

	return result, nil
}

func (r *fakeOrderRepo) UpdateStatus(
	ctx context.Context,
	id int64,
	from, to status.Status,
	now time.Time,
) (time.Time, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.orders[id]
	if !ok || o.Status != from {
		return time.Time{}, order.ErrOrderNotFound
	}

	o.Status = to
	o.UpdatedAt = now
	r.store.orders[id] = o

	return now, nil
}

type fakeOrderItemRepo struct {
	store *fakeStore
}

func (r *fakeOrderItemRepo) Query(
	ctx context.Context,
	filter *orderitem.QueryOrderItemsModel,
) ([]orderitem.OrderItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []orderitem.OrderItem
	for _, orderID := range filter.OrderIds {
		result = append(result, r.store.items[orderID]...)
	}

	return result, nil
}

func (r *fakeOrderItemRepo) BulkInsert(
	ctx context.Context,
	items []orderitem.OrderItem,
) ([]orderitem.OrderItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result := make([]orderitem.OrderItem, 0, len(items))
	for _, item := range items {
		item.ID = r.store.nextItemID
		r.store.nextItemID++
		r.store.items[item.OrderID] = append(r.store.items[item.OrderID], item)
		result = append(result, item)
	}

	return result, nil
}

type fakeStatusChangeRepo struct {
	store *fakeStore
}

func (r *fakeStatusChangeRepo) Insert(
	ctx context.Context,
	change statuschange.StatusChange,
) (statuschange.StatusChange, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextChangeID++
	change.ID = r.store.nextChangeID
	r.store.changes = append(r.store.changes, change)

	return change, nil
}

func (r *fakeStatusChangeRepo) ListByOrderID(
	ctx context.Context,
	orderID int64,
) ([]statuschange.StatusChange, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []statuschange.StatusChange
	for _, change := range r.store.changes {
		if change.OrderID == orderID {
			result = append(result, change)
		}
	}

	return result, nil
}

type fakeOutboxRepo struct {
	store *fakeStore
}

func (r *fakeOutboxRepo) Insert(ctx context.Context, msg outbox.OutboxMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	msg.ID = int64(len(r.store.outbox) + 1)
	r.store.outbox = append(r.store.outbox, msg)

	return nil
}

func (r *fakeOutboxRepo) GetPendingMessages(
	ctx context.Context,
	limit int,
) ([]outbox.OutboxMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result := make([]outbox.OutboxMessage, len(r.store.outbox))
	copy(result, r.store.outbox)

	return result, nil
}

func (r *fakeOutboxRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

func (r *fakeOutboxRepo) UpdateRetry(
	ctx context.Context,
	id int64,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	return nil
}

type fakeCustomerRepo struct {
	store *fakeStore
}

func (r *fakeCustomerRepo) GetByIDs(
	ctx context.Context,
	ids []int64,
) (map[int64]customer.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result := make(map[int64]customer.Customer)
	for _, id := range ids {
		if c, ok := r.store.customers[id]; ok {
			result[id] = c
		}
	}

	return result, nil
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func containsStatus(statuses []status.Status, s status.Status) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
