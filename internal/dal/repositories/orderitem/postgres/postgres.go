package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/shopfront-labs/order-lifecycle/internal/dal/postgres"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/currency"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/orderitem"
)

const orderItemsTable = "order_items"

var orderItemColumns = []string{
	"id",
	"order_id",
	"product_title",
	"size",
	"quantity",
	"price_cents",
	"price_currency",
	"created_at",
}

// OrderItemDal represents order item data access layer model
type OrderItemDal struct {
	Id            int64     `db:"id"`
	OrderId       int64     `db:"order_id"`
	ProductTitle  string    `db:"product_title"`
	Size          string    `db:"size"`
	Quantity      int       `db:"quantity"`
	PriceCents    int64     `db:"price_cents"`
	PriceCurrency string    `db:"price_currency"`
	CreatedAt     time.Time `db:"created_at"`
}

// ToModel converts OrderItemDal to service layer OrderItem model
func (i *OrderItemDal) ToModel() (*orderitem.OrderItem, error) {
	cur, err := currency.ParseCurrency(i.PriceCurrency)
	if err != nil {
		return nil, err
	}

	return &orderitem.OrderItem{
		ID:            i.Id,
		OrderID:       i.OrderId,
		ProductTitle:  i.ProductTitle,
		Size:          i.Size,
		Quantity:      i.Quantity,
		PriceCents:    i.PriceCents,
		PriceCurrency: cur,
		CreatedAt:     i.CreatedAt,
	}, nil
}

type PostgresOrderItemRepository struct {
	conn postgres.Querier
}

func NewPostgresOrderItemRepository(conn postgres.Querier) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
	}
}

// Query retrieves order items based on filter criteria.
func (r *PostgresOrderItemRepository) Query(
	ctx context.Context,
	filter *orderitem.QueryOrderItemsModel,
) ([]orderitem.OrderItem, error) {
	builder := sq.Select(orderItemColumns...).
		From(orderItemsTable).
		OrderBy("order_id ASC, id ASC").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Ids) > 0 {
		builder = builder.Where(sq.Eq{"id": filter.Ids})
	}
	if len(filter.OrderIds) > 0 {
		builder = builder.Where(sq.Eq{"order_id": filter.OrderIds})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var result []orderitem.OrderItem
	for rows.Next() {
		var dal OrderItemDal
		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.ProductTitle,
			&dal.Size,
			&dal.Quantity,
			&dal.PriceCents,
			&dal.PriceCurrency,
			&dal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order item dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// BulkInsert inserts multiple order items and returns them with IDs
func (r *PostgresOrderItemRepository) BulkInsert(
	ctx context.Context,
	items []orderitem.OrderItem,
) ([]orderitem.OrderItem, error) {
	if len(items) == 0 {
		return []orderitem.OrderItem{}, nil
	}

	sql := `
		INSERT INTO order_items (
			order_id,
			product_title,
			size,
			quantity,
			price_cents,
			price_currency,
			created_at
		)
		SELECT
			order_id,
			product_title,
			size,
			quantity,
			price_cents,
			price_currency,
			created_at
		FROM unnest(
			$1::bigint[], $2::text[], $3::text[], $4::int[],
			$5::bigint[], $6::text[], $7::timestamptz[]
		)
		AS t(order_id, product_title, size, quantity, price_cents, price_currency, created_at)
		RETURNING
			id,
			order_id,
			product_title,
			size,
			quantity,
			price_cents,
			price_currency,
			created_at
	`

	orderIds := make([]int64, len(items))
	productTitles := make([]string, len(items))
	sizes := make([]string, len(items))
	quantities := make([]int32, len(items))
	priceCents := make([]int64, len(items))
	priceCurrencies := make([]string, len(items))
	createdAts := make([]time.Time, len(items))

	for i, item := range items {
		orderIds[i] = item.OrderID
		productTitles[i] = item.ProductTitle
		sizes[i] = item.Size
		quantities[i] = int32(item.Quantity)
		priceCents[i] = item.PriceCents
		priceCurrencies[i] = item.PriceCurrency.String()
		createdAts[i] = item.CreatedAt
	}

	rows, err := r.conn.Query(ctx, sql,
		orderIds,
		productTitles,
		sizes,
		quantities,
		priceCents,
		priceCurrencies,
		createdAts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert order items: %w", err)
	}
	defer rows.Close()

	var result []orderitem.OrderItem
	for rows.Next() {
		var dal OrderItemDal
		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.ProductTitle,
			&dal.Size,
			&dal.Quantity,
			&dal.PriceCents,
			&dal.PriceCurrency,
			&dal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order item dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
