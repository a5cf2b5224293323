package pgsql

import (
	portsrepo "github.com/SscSPs/orders_sync_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		OrderRepo:        newPgxOrderRepository(dbPool),
		RecipientRepo:    newPgxRecipientRepository(dbPool),
		NotificationRepo: newPgxNotificationRepository(dbPool),
	}
}
