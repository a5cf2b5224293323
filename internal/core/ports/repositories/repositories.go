package repositories

// RepositoryProvider holds all repository interfaces needed by services.
type RepositoryProvider struct {
	OrderRepo        OrderRepositoryFacade
	RecipientRepo    RecipientRepositoryFacade
	NotificationRepo NotificationRepositoryFacade
}
