package pgsql

import (
	"context"
	"fmt"
	"time"

	portsrepo "github.com/SscSPs/orders_sync_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxNotificationRepository struct {
	BaseRepository
	now func() time.Time
}

// newPgxNotificationRepository creates a new repository for order notification records.
func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepositoryFacade {
	return &PgxNotificationRepository{
		BaseRepository: BaseRepository{Pool: pool},
		now:            time.Now,
	}
}

var _ portsrepo.NotificationRepositoryFacade = (*PgxNotificationRepository)(nil)

// ListSentOrderIDs returns the ids of orders with a sent notification for the recipient.
func (r *PgxNotificationRepository) ListSentOrderIDs(ctx context.Context, recipientID int64) ([]int64, error) {
	query := `
		SELECT order_id
		FROM order_notifications
		WHERE recipient_id = $1 AND is_sent
		ORDER BY order_id;
	`
	rows, err := r.Pool.Query(ctx, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sent notifications for recipient %d: %w", recipientID, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan sent notifications for recipient %d: %w", recipientID, err)
	}
	return ids, nil
}

// UpsertSentNotifications marks the orders as sent to the recipient in a single statement.
// is_sent only ever moves to TRUE.
func (r *PgxNotificationRepository) UpsertSentNotifications(ctx context.Context, recipientID int64, orderIDs []int64) error {
	if len(orderIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO order_notifications (order_id, recipient_id, is_sent, updated_at)
		SELECT o.id, $1, TRUE, $3
		FROM unnest($2::bigint[]) AS o(id)
		ON CONFLICT (order_id, recipient_id) DO UPDATE SET
			is_sent = TRUE,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.Pool.Exec(ctx, query, recipientID, orderIDs, r.now().UTC()); err != nil {
		return fmt.Errorf("failed to mark %d orders as sent to recipient %d: %w", len(orderIDs), recipientID, err)
	}
	return nil
}
