package jobs

import (
	"context"
	"time"

	portssvc "github.com/SscSPs/orders_sync_app/internal/core/ports/services"
)

// Job names, as accepted by RunOnce, the -run flag and the jobs API.
const (
	ReconcileOrders   = "reconcile_orders"
	SendNotifications = "send_notifications"
)

// TableConfig holds the scheduling knobs of the job table.
type TableConfig struct {
	ReconcileInterval time.Duration
	NotifyInterval    time.Duration
	// ReconcileTriggersNotify starts send_notifications after every successful reconcile_orders.
	ReconcileTriggersNotify bool
}

// NewTable builds the job table over the services.
func NewTable(svc *portssvc.ServiceContainer, cfg TableConfig) []Job {
	reconcile := Job{
		Name:     ReconcileOrders,
		Interval: cfg.ReconcileInterval,
		Run: func(ctx context.Context) (any, error) {
			return svc.Sync.SyncOrders(ctx)
		},
	}
	if cfg.ReconcileTriggersNotify {
		reconcile.Then = SendNotifications
	}

	notify := Job{
		Name:     SendNotifications,
		Interval: cfg.NotifyInterval,
		Run: func(ctx context.Context) (any, error) {
			return svc.Notification.SendNotifications(ctx)
		},
	}
	return []Job{reconcile, notify}
}
