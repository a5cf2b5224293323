package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	portsrepo "github.com/SscSPs/orders_sync_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/orders_sync_app/internal/core/ports/services"
	"github.com/SscSPs/orders_sync_app/internal/dto"
)

type recipientService struct {
	BaseService
	recipientRepo portsrepo.RecipientRepositoryFacade
}

// NewRecipientService creates a new recipient service
func NewRecipientService(repo portsrepo.RecipientRepositoryFacade) portssvc.RecipientSvcFacade {
	return &recipientService{recipientRepo: repo}
}

func (s *recipientService) ListRecipients(ctx context.Context) ([]domain.NotificationRecipient, error) {
	recipients, err := s.recipientRepo.ListRecipients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	return recipients, nil
}

func (s *recipientService) CreateRecipient(ctx context.Context, req dto.CreateRecipientRequest) (*domain.NotificationRecipient, error) {
	externalID := strings.TrimSpace(req.ExternalID)
	if externalID == "" {
		return nil, fmt.Errorf("%w: external id is required", apperrors.ErrValidation)
	}
	recipient := domain.NotificationRecipient{
		ExternalID: externalID,
		CreatedAt:  s.Now(),
	}
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			recipient.Name = &name
		}
	}

	saved, err := s.recipientRepo.SaveRecipient(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipient: %w", err)
	}
	s.LogInfo(ctx, "Recipient registered", slog.Int64("recipient_id", saved.ID))
	return saved, nil
}

func (s *recipientService) DeleteRecipient(ctx context.Context, id int64) error {
	if err := s.recipientRepo.DeleteRecipient(ctx, id); err != nil {
		return fmt.Errorf("failed to delete recipient %d: %w", id, err)
	}
	s.LogInfo(ctx, "Recipient deleted", slog.Int64("recipient_id", id))
	return nil
}
