package services

import (
	"context"

	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	"github.com/SscSPs/orders_sync_app/internal/dto"
)

// OrderReaderSvc defines read operations exposed to the API
type OrderReaderSvc interface {
	GetOrderByID(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error)
}

// OrderReconcilerSvc applies a spreadsheet snapshot to the orders table
type OrderReconcilerSvc interface {
	Reconcile(ctx context.Context, rows []domain.SheetRow) (*domain.ReconciliationResult, error)
}

// OrderSvcFacade combines all order-related service interfaces
type OrderSvcFacade interface {
	OrderReaderSvc
	OrderReconcilerSvc
}

// SyncSvc runs one spreadsheet-to-database sync
type SyncSvc interface {
	SyncOrders(ctx context.Context) (*domain.SyncResult, error)
}
