// Package gateways declares the external systems the services depend on.
package gateways

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateProvider returns the official conversion rate of a currency pair fixed at construction.
type RateProvider interface {
	GetRate(ctx context.Context, asOf time.Time) (decimal.Decimal, error)
}

// RowSource returns the current snapshot of spreadsheet rows, each a slice of cell strings.
type RowSource interface {
	FetchRows(ctx context.Context) ([][]string, error)
}

// MessageTransport opens sessions on a messaging platform.
type MessageTransport interface {
	Open(ctx context.Context) (MessageSession, error)
}

// MessageSession sends messages until closed.
type MessageSession interface {
	// Send delivers text to the recipient identified by externalID.
	// Returns apperrors.ErrRecipientUnreachable when the platform cannot reach the recipient.
	Send(ctx context.Context, externalID string, text string) error
	Close() error
}

// JobLocker hands out locks shared by every instance of the service.
type JobLocker interface {
	// Obtain takes key for at most ttl. Returns apperrors.ErrJobAlreadyRunning when someone else holds it.
	Obtain(ctx context.Context, key string, ttl time.Duration) (JobLock, error)
}

// JobLock is a held JobLocker key.
type JobLock interface {
	Release(ctx context.Context) error
}
