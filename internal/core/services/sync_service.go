package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	"github.com/SscSPs/orders_sync_app/internal/core/ports/gateways"
	portssvc "github.com/SscSPs/orders_sync_app/internal/core/ports/services"
	"github.com/SscSPs/orders_sync_app/internal/utils"
)

type syncService struct {
	BaseService
	rates      gateways.RateProvider
	source     gateways.RowSource
	reconciler portssvc.OrderReconcilerSvc
}

// SyncServiceOption is a functional option for configuring the sync service
type SyncServiceOption func(*syncService)

// WithSyncClock overrides the clock that picks the rate date.
func WithSyncClock(now func() time.Time) SyncServiceOption {
	return func(s *syncService) {
		s.now = now
	}
}

// NewSyncService creates the service that runs one spreadsheet sync.
func NewSyncService(rates gateways.RateProvider, source gateways.RowSource, reconciler portssvc.OrderReconcilerSvc, options ...SyncServiceOption) portssvc.SyncSvc {
	svc := &syncService{rates: rates, source: source, reconciler: reconciler}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// SyncOrders fetches today's rate and the spreadsheet snapshot, then reconciles the orders table.
// The rate and rows are fully fetched before anything is written.
func (s *syncService) SyncOrders(ctx context.Context) (*domain.SyncResult, error) {
	rate, err := s.rates.GetRate(ctx, s.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch currency rate: %w", err)
	}

	raw, err := s.source.FetchRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet rows: %w", err)
	}

	rows, dropped := ParseRows(ctx, raw, rate)
	s.LogInfo(ctx, "Spreadsheet rows parsed",
		slog.Int("fetched", len(raw)),
		slog.Int("admitted", len(rows)),
		slog.Int("dropped", dropped),
		slog.String("rate", utils.FormatWithPrecision(rate, 4)))

	recon, err := s.reconciler.Reconcile(ctx, rows)
	if err != nil {
		return nil, err
	}

	return &domain.SyncResult{
		Rate:        rate,
		RowsFetched: len(raw),
		RowsDropped: dropped,
		Reconcile:   *recon,
	}, nil
}
