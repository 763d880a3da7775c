package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/KretovDmitry/order-workflow/internal/application/errs"
	"github.com/KretovDmitry/order-workflow/internal/domain/entities"
	"github.com/KretovDmitry/order-workflow/internal/domain/repositories"
	"github.com/KretovDmitry/order-workflow/pkg/logger"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
)

const orderColumns = "id, number, customer, total, status, created_at, updated_at"

type OrderRepository struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
	logger logger.Logger
}

func NewOrderRepository(db *sql.DB, getter *trmsql.CtxGetter, logger logger.Logger) (*OrderRepository, error) {
	if db == nil {
		return nil, errors.New("nil dependency: database")
	}
	if getter == nil {
		return nil, errors.New("nil dependency: transaction getter")
	}

	return &OrderRepository{db: db, getter: getter, logger: logger}, nil
}

var (
	_ repositories.OrderRepository   = (*OrderRepository)(nil)
	_ repositories.HistoryRepository = (*OrderRepository)(nil)
)

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*entities.Order, error) {
	order := new(entities.Order)
	err := row.Scan(
		&order.ID,
		&order.Number,
		&order.Customer,
		&order.Total,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id entities.OrderID) (*entities.Order, error) {
	const query = "SELECT " + orderColumns + " FROM orders WHERE id = $1"

	order, err := scanOrder(r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}

	return order, nil
}

func (r *OrderRepository) GetOrderForUpdate(ctx context.Context, id entities.OrderID) (*entities.Order, error) {
	const query = "SELECT " + orderColumns + " FROM orders WHERE id = $1 FOR UPDATE"

	order, err := scanOrder(r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("lock order %d: %w", id, err)
	}

	return order, nil
}

func (r *OrderRepository) UpdateStatus(
	ctx context.Context, id entities.OrderID, expected, next entities.Status,
) (*entities.Order, error) {
	const query = `
		UPDATE orders SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
		RETURNING ` + orderColumns

	order, err := scanOrder(r.getter.DefaultTrOrDB(ctx, r.db).
		QueryRowContext(ctx, query, next, id, expected))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			// Someone moved the order first.
			return nil, fmt.Errorf("%w: order %d is no longer %s",
				errs.ErrInvalidTransition, id, expected)
		}
		return nil, fmt.Errorf("update order %d: %w", id, err)
	}

	return order, nil
}

func (r *OrderRepository) GetOrdersByStatuses(ctx context.Context, statuses []entities.Status) ([]*entities.Order, error) {
	const query = "SELECT " + orderColumns + " FROM orders WHERE status = ANY($1) ORDER BY updated_at DESC"

	orders := make([]*entities.Order, 0)

	if len(statuses) == 0 {
		return orders, nil
	}

	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = s.String()
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.db).QueryContext(ctx, query, values)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err = rows.Close(); err != nil {
			r.logger.Errorf("close rows: %s", err)
		}
	}()

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	// Rows.Err will report the last error encountered by Rows.Scan.
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrderRepository) SaveHistoryItem(ctx context.Context, item *entities.StatusHistoryItem) error {
	const query = `
		INSERT INTO order_status_history
			(order_id, from_status, to_status, changed_by_department, changed_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at;
	`

	err := r.getter.DefaultTrOrDB(ctx, r.db).
		QueryRowContext(ctx, query,
			item.OrderID,
			item.FromStatus,
			item.ToStatus,
			item.ChangedByDepartment,
			item.ChangedBy,
			item.Notes,
		).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("save history item: %w", err)
	}

	return nil
}

func (r *OrderRepository) GetHistory(ctx context.Context, id entities.OrderID) ([]*entities.StatusHistoryItem, error) {
	const query = `
		SELECT id, order_id, from_status, to_status, changed_by_department,
			changed_by, notes, created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY created_at, id;
	`

	items := make([]*entities.StatusHistoryItem, 0)

	rows, err := r.getter.DefaultTrOrDB(ctx, r.db).QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err = rows.Close(); err != nil {
			r.logger.Errorf("close rows: %s", err)
		}
	}()

	for rows.Next() {
		item := new(entities.StatusHistoryItem)
		err = rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.FromStatus,
			&item.ToStatus,
			&item.ChangedByDepartment,
			&item.ChangedBy,
			&item.Notes,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	// Rows.Err will report the last error encountered by Rows.Scan.
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
