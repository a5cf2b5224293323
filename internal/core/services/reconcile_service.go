package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	portsrepo "github.com/SscSPs/orders_sync_app/internal/core/ports/repositories"
)

// Reconcile makes the orders table equal to the given snapshot.
// Rows whose id is absent are inserted, present ones are overwritten, and every persisted order
// missing from the snapshot is deleted. All writes happen in one transaction; on error nothing is applied.
func (s *orderService) Reconcile(ctx context.Context, rows []domain.SheetRow) (*domain.ReconciliationResult, error) {
	result := &domain.ReconciliationResult{}

	err := s.orderRepo.WithinReconcileTx(ctx, func(ctx context.Context, store portsrepo.OrderReconcileStore) error {
		existing, err := store.ListOrders(ctx)
		if err != nil {
			return fmt.Errorf("failed to load persisted orders: %w", err)
		}
		persisted := make(map[int64]domain.Order, len(existing))
		for _, o := range existing {
			persisted[o.ID] = o
		}

		// Last occurrence of an id wins; position follows the first occurrence.
		latest := make(map[int64]domain.SheetRow, len(rows))
		ids := make([]int64, 0, len(rows))
		for _, row := range rows {
			if _, seen := latest[row.ID]; seen {
				s.LogWarn(ctx, "Duplicate id in spreadsheet snapshot, keeping the last row", slog.Int64("id", row.ID))
			} else {
				ids = append(ids, row.ID)
			}
			latest[row.ID] = row
		}

		now := s.Now()
		var inserts, updates []domain.Order
		for _, id := range ids {
			row := latest[id]
			if current, ok := persisted[id]; ok {
				row.ApplyTo(&current)
				current.UpdatedAt = now
				updates = append(updates, current)
				continue
			}
			order := row.ToOrder()
			order.CreatedAt = now
			order.UpdatedAt = now
			inserts = append(inserts, order)
		}

		if len(inserts) > 0 {
			if err := store.InsertOrders(ctx, inserts); err != nil {
				return fmt.Errorf("failed to insert orders: %w", err)
			}
		}
		if len(updates) > 0 {
			if err := store.UpdateOrders(ctx, updates); err != nil {
				return fmt.Errorf("failed to update orders: %w", err)
			}
		}

		var stale []int64
		for _, o := range existing {
			if _, keep := latest[o.ID]; !keep {
				stale = append(stale, o.ID)
			}
		}
		if len(rows) == 0 && len(stale) > 0 {
			s.LogWarn(ctx, "Spreadsheet snapshot is empty, deleting every persisted order", slog.Int("count", len(stale)))
		}
		if len(stale) > 0 {
			deleted, err := store.DeleteOrders(ctx, stale)
			if err != nil {
				return fmt.Errorf("failed to delete orders: %w", err)
			}
			result.Deleted = int(deleted)
			result.DeletedIDs = stale
		}

		if err := store.ResetOrderIDSequence(ctx); err != nil {
			return fmt.Errorf("failed to reset order id sequence: %w", err)
		}

		result.Inserted = len(inserts)
		result.Updated = len(updates)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Order reconciliation rolled back")
		return nil, fmt.Errorf("reconcile orders: %w", err)
	}

	s.LogInfo(ctx, "Orders reconciled",
		slog.Int("inserted", result.Inserted),
		slog.Int("updated", result.Updated),
		slog.Int("deleted", result.Deleted))
	return result, nil
}
