package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/shopfront-labs/order-lifecycle/internal/dal/interfaces/iorderitemrepo"
	"github.com/shopfront-labs/order-lifecycle/internal/dal/interfaces/iorderrepo"
	"github.com/shopfront-labs/order-lifecycle/internal/dal/interfaces/ioutboxrepo"
	"github.com/shopfront-labs/order-lifecycle/internal/dal/interfaces/istatuschangerepo"
	"github.com/shopfront-labs/order-lifecycle/internal/dal/postgres"
	orderrepo "github.com/shopfront-labs/order-lifecycle/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/shopfront-labs/order-lifecycle/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/shopfront-labs/order-lifecycle/internal/dal/repositories/outbox/postgres"
	statuschangerepo "github.com/shopfront-labs/order-lifecycle/internal/dal/repositories/statuschange/postgres"
)

// unitOfWork binds the repositories to a single pgx transaction so a status
// change, its history record and its outbox message commit or roll back
// together. Before Begin the repositories run directly against the pool.
type unitOfWork struct {
	client *postgres.Client
	tx     pgx.Tx

	orderRepo        iorderrepo.IOrderRepository
	orderItemRepo    iorderitemrepo.IOrderItemRepository
	statusChangeRepo istatuschangerepo.IStatusChangeRepository
	outboxRepo       ioutboxrepo.IOutboxRepository
}

func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	return &unitOfWork{
		client:           client,
		orderRepo:        orderrepo.NewPostgresOrderRepository(client.Pool()),
		orderItemRepo:    orderitemrepo.NewPostgresOrderItemRepository(client.Pool()),
		statusChangeRepo: statuschangerepo.NewPostgresStatusChangeRepository(client.Pool()),
		outboxRepo:       outboxrepo.NewOutboxRepository(client.Pool()),
	}
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *unitOfWork) StatusChangeRepository() istatuschangerepo.IStatusChangeRepository {
	return u.statusChangeRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.client.Pool().Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(tx)
	u.statusChangeRepo = statuschangerepo.NewPostgresStatusChangeRepository(tx)
	u.outboxRepo = outboxrepo.NewOutboxRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}
