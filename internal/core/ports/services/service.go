package services

// ServiceContainer holds instances of all the application services.
// It is used by the handlers and by the job scheduler.
type ServiceContainer struct {
	Order        OrderSvcFacade
	Sync         SyncSvc
	Notification NotificationSvcFacade
	Recipient    RecipientSvcFacade
}
