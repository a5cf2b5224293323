package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/orders_sync_app/internal/core/domain"
)

// OrderReader defines read operations for order data
type OrderReader interface {
	// FindOrderByID retrieves an order by its spreadsheet id. Returns apperrors.ErrNotFound if absent.
	FindOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	// ListOrders returns every persisted order ordered by id.
	ListOrders(ctx context.Context) ([]domain.Order, error)
	// ListOrdersPage returns up to limit orders with id greater than afterID, ordered by id.
	ListOrdersPage(ctx context.Context, afterID int64, limit int) ([]domain.Order, error)
	// ListOrdersDeliveredBy returns orders whose delivery date is on or before asOf.
	ListOrdersDeliveredBy(ctx context.Context, asOf time.Time) ([]domain.Order, error)
}

// OrderWriter defines write operations for order data
type OrderWriter interface {
	InsertOrders(ctx context.Context, orders []domain.Order) error
	// UpdateOrders overwrites every mutable field of the given orders.
	UpdateOrders(ctx context.Context, orders []domain.Order) error
	// DeleteOrders removes the given ids and returns the number of deleted rows.
	DeleteOrders(ctx context.Context, ids []int64) (int64, error)
	// ResetOrderIDSequence moves the id sequence to the current maximum id.
	ResetOrderIDSequence(ctx context.Context) error
}

// OrderReconcileStore is the transaction-scoped view handed to a reconciliation.
type OrderReconcileStore interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	OrderWriter
}

// OrderRepositoryFacade combines all order-related repository interfaces
type OrderRepositoryFacade interface {
	OrderReader
	// WithinReconcileTx runs fn in one transaction that holds the reconciliation lock.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinReconcileTx(ctx context.Context, fn func(ctx context.Context, store OrderReconcileStore) error) error
}
