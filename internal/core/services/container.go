package services

import (
	"github.com/SscSPs/orders_sync_app/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/orders_sync_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/orders_sync_app/internal/core/ports/services"
)

// Gateways groups the external systems the services talk to.
type Gateways struct {
	Rates     gateways.RateProvider
	Rows      gateways.RowSource
	Transport gateways.MessageTransport
}

// NewContainer creates the service container with its dependencies wired
func NewContainer(repos *portsrepo.RepositoryProvider, gw Gateways, messageLocale string) *portssvc.ServiceContainer {
	orderSvc := NewOrderService(repos.OrderRepo)

	return &portssvc.ServiceContainer{
		Order: orderSvc,
		Sync:  NewSyncService(gw.Rates, gw.Rows, orderSvc),
		Notification: NewNotificationService(
			repos.OrderRepo,
			repos.RecipientRepo,
			repos.NotificationRepo,
			gw.Transport,
			WithDigestLocale(messageLocale),
		),
		Recipient: NewRecipientService(repos.RecipientRepo),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.OrderSvcFacade        = (*orderService)(nil)
	_ portssvc.SyncSvc               = (*syncService)(nil)
	_ portssvc.NotificationSvcFacade = (*notificationService)(nil)
	_ portssvc.RecipientSvcFacade    = (*recipientService)(nil)
)
