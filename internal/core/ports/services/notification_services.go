package services

import (
	"context"
	"time"

	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	"github.com/SscSPs/orders_sync_app/internal/dto"
)

// NotificationSelectorSvc tracks which orders each recipient has been told about
type NotificationSelectorSvc interface {
	OrdersDueForNotification(ctx context.Context, recipient domain.NotificationRecipient, asOf time.Time) ([]domain.Order, error)
	MarkNotified(ctx context.Context, orders []domain.Order, recipient domain.NotificationRecipient) error
}

// NotificationDispatcherSvc sends digests to every recipient
type NotificationDispatcherSvc interface {
	SendNotifications(ctx context.Context) (*domain.NotificationRunResult, error)
}

// NotificationSvcFacade combines all notification-related service interfaces
type NotificationSvcFacade interface {
	NotificationSelectorSvc
	NotificationDispatcherSvc
}

// RecipientSvcFacade manages notification recipients
type RecipientSvcFacade interface {
	ListRecipients(ctx context.Context) ([]domain.NotificationRecipient, error)
	CreateRecipient(ctx context.Context, req dto.CreateRecipientRequest) (*domain.NotificationRecipient, error)
	DeleteRecipient(ctx context.Context, id int64) error
}
