package lifecyclesvc

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/shopfront-labs/order-lifecycle/internal/service/models/actor"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/currency"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/customer"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/order"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/orderitem"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/paymentmethod"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/status"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestService(store *fakeStore) *LifecycleService {
	return MustNewLifecycleService(
		WithUnitOfWorkFactory(func() unitOfWork {
			return &fakeUOW{store: store}
		}),
		WithCustomerRepository(&fakeCustomerRepo{store: store}),
	)
}

func seedOrder(store *fakeStore, st status.Status) order.Order {
	return store.addOrder(order.Order{
		CustomerID:    gofakeit.Int64(),
		Status:        st,
		TotalCents:    int64(gofakeit.Number(100, 100_000)),
		TotalCurrency: currency.CurrencyUSD,
		PaymentMethod: paymentmethod.PaymentMethodCard,
		Address:       gofakeit.Street(),
		City:          gofakeit.City(),
		OrderItems: []orderitem.OrderItem{
			{
				ProductTitle:  gofakeit.ProductName(),
				Size:          "M",
				Quantity:      1,
				PriceCents:    int64(gofakeit.Number(100, 10_000)),
				PriceCurrency: currency.CurrencyUSD,
			},
		},
	})
}

func TestRequestTransition_PendingToPlaced(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ord := seedOrder(store, status.StatusPending)

	updated, err := svc.RequestTransition(context.Background(), ord.ID, status.StatusPlaced, actor.ActorAdmin)
	require.NoError(t, err)
	assert.Equal(t, status.StatusPlaced, updated.Status)
	assert.Equal(t, ord.ID, updated.ID)
	assert.Equal(t, ord.TotalCents, updated.TotalCents, "total must not change")

	history, err := svc.GetOrderHistory(context.Background(), ord.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, status.StatusPending, history[0].FromStatus)
	assert.Equal(t, status.StatusPlaced, history[0].ToStatus)
	assert.Equal(t, actor.ActorAdmin, history[0].ChangedBy)
}

func TestRequestTransition_SkippingStateDenied(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ord := seedOrder(store, status.StatusPlaced)

	_, err := svc.RequestTransition(context.Background(), ord.ID, status.StatusArrived, actor.ActorAdmin)
	require.Error(t, err)

	var illegal *status.IllegalTransitionError
	require.True(t, errors.As(err, &illegal))
	assert.Equal(t, status.StatusPlaced, illegal.From)
	assert.Equal(t, status.StatusArrived, illegal.To)

	got, err := svc.GetOrder(context.Background(), ord.ID)
	require.NoError(t, err)
	assert.Equal(t, status.StatusPlaced, got.Status, "denied transition must not change status")
}

func TestRequestTransition_TerminalStatesRejectAll(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	completed := seedOrder(store, status.StatusCompleted)
	cancelled := seedOrder(store, status.StatusCancelled)

	_, err := svc.RequestTransition(context.Background(), completed.ID, status.StatusCancelled, actor.ActorAdmin)
	var illegal *status.IllegalTransitionError
	require.True(t, errors.As(err, &illegal))
	assert.Equal(t, status.StatusCompleted, illegal.From)
	assert.Equal(t, status.StatusCancelled, illegal.To)

	for _, target := range status.Statuses() {
		_, err := svc.RequestTransition(context.Background(), cancelled.ID, target, actor.ActorAdmin)
		assert.Error(t, err, "cancelled→%s must be denied", target)
	}
}

func TestRequestTransition_SelfTransitionDenied(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ord := seedOrder(store, status.StatusPlaced)

	_, err := svc.RequestTransition(context.Background(), ord.ID, status.StatusPlaced, actor.ActorAdmin)

	var illegal *status.IllegalTransitionError
	require.True(t, errors.As(err, &illegal))
}

func TestRequestTransition_UnknownOrder(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.RequestTransition(context.Background(), 42, status.StatusPlaced, actor.ActorAdmin)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestCancelOrder_AdminCancelsInTransit(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ord := seedOrder(store, status.StatusInTransit)

	updated, err := svc.CancelOrder(context.Background(), ord.ID, actor.ActorAdmin)
	require.NoError(t, err)
	assert.Equal(t, status.StatusCancelled, updated.Status)
}

func TestCancelOrder_CustomerRules(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	pending := seedOrder(store, status.StatusPending)
	placed := seedOrder(store, status.StatusPlaced)
	inTransit := seedOrder(store, status.StatusInTransit)

	_, err := svc.CancelOrder(context.Background(), pending.ID, actor.ActorCustomer)
	assert.NoError(t, err, "customer may cancel a pending order")

	_, err = svc.CancelOrder(context.Background(), placed.ID, actor.ActorCustomer)
	assert.NoError(t, err, "customer may cancel a placed order")

	_, err = svc.CancelOrder(context.Background(), inTransit.ID, actor.ActorCustomer)
	assert.ErrorIs(t, err, ErrActorNotPermitted)
}

func TestRequestTransition_CustomerMayOnlyCancel(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ord := seedOrder(store, status.StatusPending)

	_, err := svc.RequestTransition(context.Background(), ord.ID, status.StatusPlaced, actor.ActorCustomer)
	assert.ErrorIs(t, err, ErrActorNotPermitted)
}

func TestRequestTransition_TerminalTransitionEnqueuesOneEvent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	ord := seedOrder(store, status.StatusArrived)
	_, err := svc.RequestTransition(context.Background(), ord.ID, status.StatusCompleted, actor.ActorAdmin)
	require.NoError(t, err)
	require.Len(t, store.outbox, 1, "completion must enqueue exactly one event")

	other := seedOrder(store, status.StatusPending)
	_, err = svc.RequestTransition(context.Background(), other.ID, status.StatusPlaced, actor.ActorAdmin)
	require.NoError(t, err)
	assert.Len(t, store.outbox, 1, "non-terminal transition must not enqueue an event")

	_, err = svc.CancelOrder(context.Background(), other.ID, actor.ActorAdmin)
	require.NoError(t, err)
	assert.Len(t, store.outbox, 2, "cancellation must enqueue exactly one event")
}

func TestRequestTransition_ConcurrentRequestsOneWinner(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ord := seedOrder(store, status.StatusArrived)

	targets := []status.Status{status.StatusCompleted, status.StatusCancelled}
	results := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = svc.RequestTransition(context.Background(), ord.ID, target, actor.ActorAdmin)
		}()
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}

		var illegal *status.IllegalTransitionError
		inFlight := errors.Is(err, ErrTransitionInFlight)
		assert.True(t, inFlight || errors.As(err, &illegal),
			"loser must observe Conflict or IllegalTransition, got %v", err)
	}
	assert.Equal(t, 1, successes, "exactly one concurrent transition must win")

	got, err := svc.GetOrder(context.Background(), ord.ID)
	require.NoError(t, err)
	assert.Contains(t, targets, got.Status,
		"final status must be one valid edge from the original status")
}

func TestGetOrderAndListOrders_NeverDiverge(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ord := seedOrder(store, status.StatusPending)

	_, err := svc.RequestTransition(context.Background(), ord.ID, status.StatusPlaced, actor.ActorAdmin)
	require.NoError(t, err)

	single, err := svc.GetOrder(context.Background(), ord.ID)
	require.NoError(t, err)

	listed, err := svc.ListOrders(context.Background(), &order.QueryOrdersModel{Ids: []int64{ord.ID}})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	assert.Equal(t, single.Status, listed[0].Status)
	assert.Equal(t, single.UpdatedAt, listed[0].UpdatedAt)
}

func TestGetOrder_HydratesItemsAndCustomer(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ord := seedOrder(store, status.StatusPending)
	store.customers[ord.CustomerID] = customer.Customer{
		ID:        ord.CustomerID,
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Email:     gofakeit.Email(),
		Phone:     gofakeit.Phone(),
	}

	got, err := svc.GetOrder(context.Background(), ord.ID)
	require.NoError(t, err)
	require.Len(t, got.OrderItems, 1)
	require.NotNil(t, got.Customer)
	assert.Equal(t, ord.CustomerID, got.Customer.ID)
}

func TestGetOrderHistory_UnknownOrder(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.GetOrderHistory(context.Background(), 99)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestPlaceOrders_EntersPending(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	placed, err := svc.PlaceOrders(context.Background(), []order.Order{
		{
			CustomerID:    7,
			TotalCents:    2500,
			TotalCurrency: currency.CurrencyUSD,
			PaymentMethod: paymentmethod.PaymentMethodCash,
			Address:       gofakeit.Street(),
			City:          gofakeit.City(),
			OrderItems: []orderitem.OrderItem{
				{ProductTitle: "Linen shirt", Size: "L", Quantity: 1, PriceCents: 2500, PriceCurrency: currency.CurrencyUSD},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Equal(t, status.StatusPending, placed[0].Status)
	assert.NotZero(t, placed[0].ID)
	require.Len(t, placed[0].OrderItems, 1)
	assert.Equal(t, placed[0].ID, placed[0].OrderItems[0].OrderID)
}

func TestPlaceOrders_RejectsEmptyItems(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.PlaceOrders(context.Background(), []order.Order{
		{
			CustomerID:    7,
			TotalCents:    100,
			TotalCurrency: currency.CurrencyUSD,
			PaymentMethod: paymentmethod.PaymentMethodCard,
		},
	})
	assert.ErrorIs(t, err, order.ErrEmptyItems)
}

func TestPlaceOrders_RejectsNegativeTotal(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.PlaceOrders(context.Background(), []order.Order{
		{
			CustomerID:    7,
			TotalCents:    -1,
			TotalCurrency: currency.CurrencyUSD,
			PaymentMethod: paymentmethod.PaymentMethodCard,
			OrderItems: []orderitem.OrderItem{
				{ProductTitle: "Socks", Quantity: 1, PriceCents: 100, PriceCurrency: currency.CurrencyUSD},
			},
		},
	})
	assert.ErrorIs(t, err, order.ErrNegativeTotal)
}
