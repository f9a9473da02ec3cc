package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/shopfront-labs/order-lifecycle/internal/dal/postgres"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/customer"
)

const customersTable = "customers"

// PostgresCustomerRepository reads the customer projection maintained by the
// identity service. This service never writes to it.
type PostgresCustomerRepository struct {
	conn postgres.Querier
}

func NewPostgresCustomerRepository(conn postgres.Querier) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		conn: conn,
	}
}

// GetByIDs resolves customers by id, keyed by id for cheap lookup.
func (r *PostgresCustomerRepository) GetByIDs(
	ctx context.Context,
	ids []int64,
) (map[int64]customer.Customer, error) {
	if len(ids) == 0 {
		return map[int64]customer.Customer{}, nil
	}

	query, args, err := sq.Select("id", "first_name", "last_name", "email", "phone").
		From(customersTable).
		Where(sq.Eq{"id": ids}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	result := make(map[int64]customer.Customer, len(ids))
	for rows.Next() {
		var c customer.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		result[c.ID] = c
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
