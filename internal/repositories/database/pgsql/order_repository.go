package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	portsrepo "github.com/SscSPs/orders_sync_app/internal/core/ports/repositories"
	"github.com/SscSPs/orders_sync_app/internal/models"
	"github.com/SscSPs/orders_sync_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reconcileLockKey identifies the transaction-scoped advisory lock taken by every reconciliation.
const reconcileLockKey int64 = 0x6f72646572730001

const orderColumns = `id, order_id, cost_source, cost_target, delivery_date, created_at, updated_at`

type PgxOrderRepository struct {
	BaseRepository
	orderQueries
}

// newPgxOrderRepository creates a new repository for order data.
func newPgxOrderRepository(pool *pgxpool.Pool) portsrepo.OrderRepositoryFacade {
	return &PgxOrderRepository{
		BaseRepository: BaseRepository{Pool: pool},
		orderQueries:   orderQueries{q: pool},
	}
}

var (
	_ portsrepo.OrderRepositoryFacade = (*PgxOrderRepository)(nil)
	_ portsrepo.OrderReconcileStore   = (*orderQueries)(nil)
)

// WithinReconcileTx runs fn inside a transaction holding the reconciliation advisory lock.
// Concurrent reconciliations in other processes block on the lock until this one commits or rolls back.
func (r *PgxOrderRepository) WithinReconcileTx(ctx context.Context, fn func(ctx context.Context, store portsrepo.OrderReconcileStore) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, reconcileLockKey); err != nil {
		return fmt.Errorf("failed to acquire reconcile lock: %w", err)
	}

	if err := fn(ctx, &orderQueries{q: tx}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// orderQueries runs order statements against either the pool or a transaction.
type orderQueries struct {
	q querier
}

func scanOrder(row pgx.Row) (models.Order, error) {
	var m models.Order
	err := row.Scan(
		&m.ID,
		&m.OrderID,
		&m.CostSource,
		&m.CostTarget,
		&m.DeliveryDate,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func (o *orderQueries) collect(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := o.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	modelOrders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Order, error) {
		return scanOrder(row)
	})
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainOrders(modelOrders), nil
}

// FindOrderByID retrieves an order by its spreadsheet id.
func (o *orderQueries) FindOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1;`
	m, err := scanOrder(o.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("order " + formatID(id) + " not found")
		}
		return nil, fmt.Errorf("failed to find order by id %d: %w", id, err)
	}
	order := mapping.ToDomainOrder(m)
	return &order, nil
}

// ListOrders retrieves all orders.
func (o *orderQueries) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := o.collect(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListOrdersPage retrieves one keyset page of orders.
func (o *orderQueries) ListOrdersPage(ctx context.Context, afterID int64, limit int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id > $1 ORDER BY id LIMIT $2;`
	orders, err := o.collect(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders after %d: %w", afterID, err)
	}
	return orders, nil
}

// ListOrdersDeliveredBy retrieves orders whose delivery date is not after asOf.
func (o *orderQueries) ListOrdersDeliveredBy(ctx context.Context, asOf time.Time) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE delivery_date <= $1::date ORDER BY id;`
	orders, err := o.collect(ctx, query, domain.TruncateToDate(asOf))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders delivered by %s: %w", asOf.Format(domain.DateLayout), err)
	}
	return orders, nil
}

// InsertOrders inserts all orders in one batch.
func (o *orderQueries) InsertOrders(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	ids := make([]int64, len(orders))
	for i, order := range orders {
		m := mapping.ToModelOrder(order)
		batch.Queue(query, m.ID, m.OrderID, m.CostSource, m.CostTarget, m.DeliveryDate, m.CreatedAt, m.UpdatedAt)
		ids[i] = m.ID
	}
	if err := execBatch(ctx, o.q, batch, ids); err != nil {
		return fmt.Errorf("failed to insert %d orders: %w", len(orders), err)
	}
	return nil
}

// UpdateOrders overwrites order_id, costs, delivery date and updated_at of existing orders.
func (o *orderQueries) UpdateOrders(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	query := `
		UPDATE orders
		SET order_id = $2, cost_source = $3, cost_target = $4, delivery_date = $5, updated_at = $6
		WHERE id = $1;
	`
	batch := &pgx.Batch{}
	ids := make([]int64, len(orders))
	for i, order := range orders {
		m := mapping.ToModelOrder(order)
		batch.Queue(query, m.ID, m.OrderID, m.CostSource, m.CostTarget, m.DeliveryDate, m.UpdatedAt)
		ids[i] = m.ID
	}
	if err := execBatch(ctx, o.q, batch, ids); err != nil {
		return fmt.Errorf("failed to update %d orders: %w", len(orders), err)
	}
	return nil
}

// DeleteOrders deletes the given ids. Notification records go with them via ON DELETE CASCADE.
func (o *orderQueries) DeleteOrders(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := o.q.Exec(ctx, `DELETE FROM orders WHERE id = ANY($1);`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %d orders: %w", len(ids), err)
	}
	return tag.RowsAffected(), nil
}

// ResetOrderIDSequence points the id sequence at MAX(id), or restarts it at 1 for an empty table.
func (o *orderQueries) ResetOrderIDSequence(ctx context.Context) error {
	query := `
		SELECT setval(pg_get_serial_sequence('orders', 'id'), COALESCE(MAX(id), 1), MAX(id) IS NOT NULL)
		FROM orders;
	`
	if _, err := o.q.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to reset order id sequence: %w", err)
	}
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
