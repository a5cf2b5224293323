package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	"github.com/SscSPs/orders_sync_app/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/orders_sync_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/orders_sync_app/internal/core/ports/services"
)

type notificationService struct {
	BaseService
	orderRepo        portsrepo.OrderReader
	recipientRepo    portsrepo.RecipientReader
	notificationRepo portsrepo.NotificationRepositoryFacade
	transport        gateways.MessageTransport
	locale           string
}

// NotificationServiceOption is a functional option for configuring the notification service
type NotificationServiceOption func(*notificationService)

// WithNotificationClock overrides the clock that decides which orders are due.
func WithNotificationClock(now func() time.Time) NotificationServiceOption {
	return func(s *notificationService) {
		s.now = now
	}
}

// WithDigestLocale selects the digest language.
func WithDigestLocale(locale string) NotificationServiceOption {
	return func(s *notificationService) {
		s.locale = locale
	}
}

// NewNotificationService creates the notification selector and dispatcher
func NewNotificationService(
	orderRepo portsrepo.OrderReader,
	recipientRepo portsrepo.RecipientReader,
	notificationRepo portsrepo.NotificationRepositoryFacade,
	transport gateways.MessageTransport,
	options ...NotificationServiceOption,
) portssvc.NotificationSvcFacade {
	svc := &notificationService{
		orderRepo:        orderRepo,
		recipientRepo:    recipientRepo,
		notificationRepo: notificationRepo,
		transport:        transport,
		locale:           LocaleRU,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// OrdersDueForNotification returns orders delivered on or before asOf that the recipient
// has not been notified about yet.
func (s *notificationService) OrdersDueForNotification(ctx context.Context, recipient domain.NotificationRecipient, asOf time.Time) ([]domain.Order, error) {
	due, err := s.orderRepo.ListOrdersDeliveredBy(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list due orders: %w", err)
	}
	sentIDs, err := s.notificationRepo.ListSentOrderIDs(ctx, recipient.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent notifications for recipient %d: %w", recipient.ID, err)
	}
	sent := make(map[int64]struct{}, len(sentIDs))
	for _, id := range sentIDs {
		sent[id] = struct{}{}
	}

	var pending []domain.Order
	for _, o := range due {
		if _, done := sent[o.ID]; done || !o.IsDueBy(asOf) {
			continue
		}
		pending = append(pending, o)
	}
	return pending, nil
}

// MarkNotified records that the recipient was told about the orders. Repeating it is harmless.
func (s *notificationService) MarkNotified(ctx context.Context, orders []domain.Order, recipient domain.NotificationRecipient) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	if err := s.notificationRepo.UpsertSentNotifications(ctx, recipient.ID, ids); err != nil {
		return fmt.Errorf("failed to mark orders notified for recipient %d: %w", recipient.ID, err)
	}
	return nil
}

// SendNotifications sends each recipient a digest of its pending orders.
// A failure for one recipient is logged and does not stop the others. The messaging session is
// opened on the first digest and closed before returning.
func (s *notificationService) SendNotifications(ctx context.Context) (*domain.NotificationRunResult, error) {
	recipients, err := s.recipientRepo.ListRecipients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	sort.Slice(recipients, func(i, j int) bool { return recipients[i].ID < recipients[j].ID })

	result := &domain.NotificationRunResult{Recipients: len(recipients)}
	asOf := s.Now()

	var session gateways.MessageSession
	defer func() {
		if session == nil {
			return
		}
		if cerr := session.Close(); cerr != nil {
			s.LogError(ctx, cerr, "Failed to close messaging session")
		}
	}()

	for _, recipient := range recipients {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		logger := s.GetLogger(ctx).With(slog.Int64("recipient_id", recipient.ID))

		orders, err := s.OrdersDueForNotification(ctx, recipient, asOf)
		if err != nil {
			logger.Error("Failed to select orders for recipient", slog.String("error", err.Error()))
			result.Failed++
			continue
		}
		if len(orders) == 0 {
			logger.Debug("Nothing to notify")
			result.Skipped++
			continue
		}

		if session == nil {
			session, err = s.transport.Open(ctx)
			if err != nil {
				return result, fmt.Errorf("failed to open messaging session: %w", err)
			}
		}

		if err := session.Send(ctx, recipient.ExternalID, BuildDigest(orders, s.locale)); err != nil {
			if errors.Is(err, apperrors.ErrRecipientUnreachable) {
				logger.Warn("Recipient unreachable", slog.String("name", recipient.DisplayName()), slog.String("error", err.Error()))
			} else {
				logger.Error("Failed to send digest", slog.String("error", err.Error()))
			}
			result.Failed++
			continue
		}

		if err := s.MarkNotified(ctx, orders, recipient); err != nil {
			logger.Error("Digest sent but not recorded", slog.String("error", err.Error()))
			result.Failed++
			continue
		}
		logger.Info("Digest sent", slog.Int("orders", len(orders)))
		result.Notified++
	}

	return result, nil
}
