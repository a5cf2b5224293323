package domain

import "github.com/shopspring/decimal"

// ReconciliationResult summarises the writes applied by one reconciliation.
type ReconciliationResult struct {
	Inserted   int     `json:"inserted"`
	Updated    int     `json:"updated"`
	Deleted    int     `json:"deleted"`
	DeletedIDs []int64 `json:"deletedIDs,omitempty"`
}

// SyncResult describes one full spreadsheet sync run.
type SyncResult struct {
	Rate        decimal.Decimal      `json:"rate"`
	RowsFetched int                  `json:"rowsFetched"`
	RowsDropped int                  `json:"rowsDropped"`
	Reconcile   ReconciliationResult `json:"reconcile"`
}

// NotificationRunResult describes one notification run over all recipients.
type NotificationRunResult struct {
	Recipients int `json:"recipients"`
	Notified   int `json:"notified"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}
