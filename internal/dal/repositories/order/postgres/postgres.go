package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/shopfront-labs/order-lifecycle/internal/dal/postgres"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/currency"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/order"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/orderitem"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/paymentmethod"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/status"
)

const ordersTable = "orders"

var orderColumns = []string{
	"id",
	"customer_id",
	"status",
	"total_cents",
	"total_currency",
	"payment_method",
	"address",
	"city",
	"notes",
	"created_at",
	"updated_at",
}

// OrderDal represents order data access layer model
type OrderDal struct {
	Id            int64     `db:"id"`
	CustomerId    int64     `db:"customer_id"`
	Status        string    `db:"status"`
	TotalCents    int64     `db:"total_cents"`
	TotalCurrency string    `db:"total_currency"`
	PaymentMethod string    `db:"payment_method"`
	Address       string    `db:"address"`
	City          string    `db:"city"`
	Notes         string    `db:"notes"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to service layer Order model
func (o *OrderDal) ToModel() (*order.Order, error) {
	st, err := status.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}
	cur, err := currency.ParseCurrency(o.TotalCurrency)
	if err != nil {
		return nil, err
	}
	method, err := paymentmethod.ParsePaymentMethod(o.PaymentMethod)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:            o.Id,
		CustomerID:    o.CustomerId,
		Status:        st,
		TotalCents:    o.TotalCents,
		TotalCurrency: cur,
		PaymentMethod: method,
		Address:       o.Address,
		City:          o.City,
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		OrderItems:    []orderitem.OrderItem{}, // Will be populated separately
	}, nil
}

type PostgresOrderRepository struct {
	conn postgres.Querier
}

func NewPostgresOrderRepository(conn postgres.Querier) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.CustomerId,
		&dal.Status,
		&dal.TotalCents,
		&dal.TotalCurrency,
		&dal.PaymentMethod,
		&dal.Address,
		&dal.City,
		&dal.Notes,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel()
}

// GetByID retrieves a single order snapshot without its items.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From(ordersTable).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	model, err := scanOrder(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}

		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}

	return model, nil
}

// Query retrieves orders based on filter criteria, ordered by creation time
// ascending.
func (r *PostgresOrderRepository) Query(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	builder := sq.Select(orderColumns...).
		From(ordersTable).
		OrderBy("created_at ASC, id ASC").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if len(filter.CustomerIds) > 0 {
		builder = builder.Where(sq.Eq{"customer_id": filter.CustomerIds})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, s.String())
		}
		builder = builder.Where(sq.Eq{"status": statuses})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// UpdateStatus replaces the status of an order if and only if the stored
// status still equals from. Returns the updated timestamp on success and
// order.ErrOrderNotFound when no row matched, which the caller disambiguates
// by re-reading the order.
func (r *PostgresOrderRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	from, to status.Status,
	now time.Time,
) (time.Time, error) {
	query, args, err := sq.Update(ordersTable).
		Set("status", to.String()).
		Set("updated_at", now).
		Where(sq.Eq{"id": id, "status": from.String()}).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to build update query: %w", err)
	}

	var updatedAt time.Time
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, order.ErrOrderNotFound
		}

		return time.Time{}, fmt.Errorf("failed to update status of order %d: %w", id, err)
	}

	return updatedAt, nil
}

// BulkInsert inserts multiple orders and returns the inserted orders with IDs
func (r *PostgresOrderRepository) BulkInsert(
	ctx context.Context,
	orders []order.Order,
) ([]order.Order, error) {
	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	sql := `
		INSERT INTO orders (
			customer_id,
			status,
			total_cents,
			total_currency,
			payment_method,
			address,
			city,
			notes,
			created_at,
			updated_at
		)
		SELECT
			customer_id,
			status,
			total_cents,
			total_currency,
			payment_method,
			address,
			city,
			notes,
			created_at,
			updated_at
		FROM unnest(
			$1::bigint[], $2::text[], $3::bigint[], $4::text[], $5::text[],
			$6::text[], $7::text[], $8::text[], $9::timestamptz[], $10::timestamptz[]
		)
		AS t(customer_id, status, total_cents, total_currency, payment_method,
			address, city, notes, created_at, updated_at)
		RETURNING
			id,
			customer_id,
			status,
			total_cents,
			total_currency,
			payment_method,
			address,
			city,
			notes,
			created_at,
			updated_at
	`

	customerIds := make([]int64, len(orders))
	statuses := make([]string, len(orders))
	totalCents := make([]int64, len(orders))
	totalCurrencies := make([]string, len(orders))
	paymentMethods := make([]string, len(orders))
	addresses := make([]string, len(orders))
	cities := make([]string, len(orders))
	notes := make([]string, len(orders))
	createdAts := make([]time.Time, len(orders))
	updatedAts := make([]time.Time, len(orders))

	for i, o := range orders {
		customerIds[i] = o.CustomerID
		statuses[i] = o.Status.String()
		totalCents[i] = o.TotalCents
		totalCurrencies[i] = o.TotalCurrency.String()
		paymentMethods[i] = o.PaymentMethod.String()
		addresses[i] = o.Address
		cities[i] = o.City
		notes[i] = o.Notes
		createdAts[i] = o.CreatedAt
		updatedAts[i] = o.UpdatedAt
	}

	rows, err := r.conn.Query(ctx, sql,
		customerIds,
		statuses,
		totalCents,
		totalCurrencies,
		paymentMethods,
		addresses,
		cities,
		notes,
		createdAts,
		updatedAts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	i := 0
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		model.OrderItems = append(model.OrderItems, orders[i].OrderItems...)
		i++

		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
