package repositories

import (
	"context"

	"github.com/SscSPs/orders_sync_app/internal/core/domain"
)

// RecipientReader defines read operations for notification recipients
type RecipientReader interface {
	// ListRecipients returns all recipients ordered by id.
	ListRecipients(ctx context.Context) ([]domain.NotificationRecipient, error)
	FindRecipientByID(ctx context.Context, id int64) (*domain.NotificationRecipient, error)
}

// RecipientWriter defines write operations for notification recipients
type RecipientWriter interface {
	// SaveRecipient inserts a recipient and returns it with its id set.
	// Returns apperrors.ErrDuplicate if the external id is already registered.
	SaveRecipient(ctx context.Context, recipient domain.NotificationRecipient) (*domain.NotificationRecipient, error)
	// DeleteRecipient removes a recipient together with its notification records.
	DeleteRecipient(ctx context.Context, id int64) error
}

// RecipientRepositoryFacade combines all recipient-related repository interfaces
type RecipientRepositoryFacade interface {
	RecipientReader
	RecipientWriter
}
