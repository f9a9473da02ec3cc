package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/shopfront-labs/order-lifecycle/internal/dal/postgres"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/actor"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/status"
	"github.com/shopfront-labs/order-lifecycle/internal/service/models/statuschange"
)

const statusChangesTable = "status_changes"

type PostgresStatusChangeRepository struct {
	conn postgres.Querier
}

func NewPostgresStatusChangeRepository(conn postgres.Querier) *PostgresStatusChangeRepository {
	return &PostgresStatusChangeRepository{
		conn: conn,
	}
}

// Insert appends a status change record and returns it with its ID.
func (r *PostgresStatusChangeRepository) Insert(
	ctx context.Context,
	change statuschange.StatusChange,
) (statuschange.StatusChange, error) {
	query, args, err := sq.Insert(statusChangesTable).
		Columns("order_id", "from_status", "to_status", "changed_by", "changed_at").
		Values(
			change.OrderID,
			change.FromStatus.String(),
			change.ToStatus.String(),
			change.ChangedBy.String(),
			change.ChangedAt,
		).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return statuschange.StatusChange{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&change.ID); err != nil {
		return statuschange.StatusChange{}, fmt.Errorf("failed to insert status change: %w", err)
	}

	return change, nil
}

// ListByOrderID returns the status timeline of an order, oldest first.
func (r *PostgresStatusChangeRepository) ListByOrderID(
	ctx context.Context,
	orderID int64,
) ([]statuschange.StatusChange, error) {
	query, args, err := sq.Select("id", "order_id", "from_status", "to_status", "changed_by", "changed_at").
		From(statusChangesTable).
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("changed_at ASC, id ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query status changes: %w", err)
	}
	defer rows.Close()

	var result []statuschange.StatusChange
	for rows.Next() {
		var (
			change   statuschange.StatusChange
			from, to string
			by       string
		)
		err := rows.Scan(&change.ID, &change.OrderID, &from, &to, &by, &change.ChangedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status change: %w", err)
		}

		if change.FromStatus, err = status.ParseStatus(from); err != nil {
			return nil, fmt.Errorf("failed to parse from_status: %w", err)
		}
		if change.ToStatus, err = status.ParseStatus(to); err != nil {
			return nil, fmt.Errorf("failed to parse to_status: %w", err)
		}
		if change.ChangedBy, err = actor.ParseActor(by); err != nil {
			return nil, fmt.Errorf("failed to parse changed_by: %w", err)
		}

		result = append(result, change)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
