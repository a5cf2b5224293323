package repositories

import (
	"context"
)

// NotificationReader defines read operations for order notifications
type NotificationReader interface {
	// ListSentOrderIDs returns the ids of orders already reported to the recipient.
	ListSentOrderIDs(ctx context.Context, recipientID int64) ([]int64, error)
}

// NotificationWriter defines write operations for order notifications
type NotificationWriter interface {
	// UpsertSentNotifications marks each (order, recipient) pair as sent, creating missing records.
	UpsertSentNotifications(ctx context.Context, recipientID int64, orderIDs []int64) error
}

// NotificationRepositoryFacade combines all notification-related repository interfaces
type NotificationRepositoryFacade interface {
	NotificationReader
	NotificationWriter
}
