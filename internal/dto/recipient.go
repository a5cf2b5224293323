package dto

import (
	"time"

	"github.com/SscSPs/orders_sync_app/internal/core/domain"
)

// CreateRecipientRequest registers a new notification recipient.
type CreateRecipientRequest struct {
	ExternalID string  `json:"externalID" binding:"required,max=64"`
	Name       *string `json:"name" binding:"omitempty,max=255"`
}

// RecipientResponse is the API representation of a recipient.
type RecipientResponse struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"externalID"`
	Name       *string   `json:"name,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToRecipientResponse converts a domain recipient
func ToRecipientResponse(r *domain.NotificationRecipient) RecipientResponse {
	return RecipientResponse{
		ID:         r.ID,
		ExternalID: r.ExternalID,
		Name:       r.Name,
		CreatedAt:  r.CreatedAt,
	}
}
