package domain

import "time"

// NotificationRecipient is someone who receives delivery-reminder digests.
// ExternalID is the messaging platform's identifier for the recipient (a Telegram chat id).
type NotificationRecipient struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"externalID"`
	Name       *string   `json:"name,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DisplayName returns the recipient's name, falling back to the external id.
func (r NotificationRecipient) DisplayName() string {
	if r.Name != nil && *r.Name != "" {
		return *r.Name
	}
	return r.ExternalID
}

// OrderNotification records that an order was reported to a recipient.
// At most one exists per (order, recipient) pair and IsSent never goes back to false.
type OrderNotification struct {
	ID          int64     `json:"id"`
	OrderID     int64     `json:"orderID"`
	RecipientID int64     `json:"recipientID"`
	IsSent      bool      `json:"isSent"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
