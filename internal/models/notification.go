package models

import (
	"database/sql"
	"time"
)

// NotificationRecipient is a row of the notification_recipients table.
type NotificationRecipient struct {
	ID         int64          `db:"id"`
	ExternalID string         `db:"external_id"`
	Name       sql.NullString `db:"name"`
	CreatedAt  time.Time      `db:"created_at"`
}
