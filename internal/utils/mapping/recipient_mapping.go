package mapping

import (
	"database/sql"

	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	"github.com/SscSPs/orders_sync_app/internal/models"
)

// ToModelRecipient converts a domain NotificationRecipient to a model NotificationRecipient
func ToModelRecipient(d domain.NotificationRecipient) models.NotificationRecipient {
	m := models.NotificationRecipient{
		ID:         d.ID,
		ExternalID: d.ExternalID,
		CreatedAt:  d.CreatedAt,
	}
	if d.Name != nil {
		m.Name = sql.NullString{String: *d.Name, Valid: true}
	}
	return m
}

// ToDomainRecipient converts a model NotificationRecipient to a domain NotificationRecipient
func ToDomainRecipient(m models.NotificationRecipient) domain.NotificationRecipient {
	d := domain.NotificationRecipient{
		ID:         m.ID,
		ExternalID: m.ExternalID,
		CreatedAt:  m.CreatedAt,
	}
	if m.Name.Valid {
		name := m.Name.String
		d.Name = &name
	}
	return d
}
