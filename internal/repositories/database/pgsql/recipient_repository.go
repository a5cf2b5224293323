package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	portsrepo "github.com/SscSPs/orders_sync_app/internal/core/ports/repositories"
	"github.com/SscSPs/orders_sync_app/internal/models"
	"github.com/SscSPs/orders_sync_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRecipientRepository struct {
	BaseRepository
}

// newPgxRecipientRepository creates a new repository for notification recipients.
func newPgxRecipientRepository(pool *pgxpool.Pool) portsrepo.RecipientRepositoryFacade {
	return &PgxRecipientRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.RecipientRepositoryFacade = (*PgxRecipientRepository)(nil)

func scanRecipient(row pgx.Row) (models.NotificationRecipient, error) {
	var m models.NotificationRecipient
	err := row.Scan(&m.ID, &m.ExternalID, &m.Name, &m.CreatedAt)
	return m, err
}

// ListRecipients retrieves all recipients ordered by id.
func (r *PgxRecipientRepository) ListRecipients(ctx context.Context) ([]domain.NotificationRecipient, error) {
	query := `
		SELECT id, external_id, name, created_at
		FROM notification_recipients
		ORDER BY id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipients: %w", err)
	}
	defer rows.Close()

	modelRecipients, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.NotificationRecipient, error) {
		return scanRecipient(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan recipients: %w", err)
	}

	recipients := make([]domain.NotificationRecipient, len(modelRecipients))
	for i, m := range modelRecipients {
		recipients[i] = mapping.ToDomainRecipient(m)
	}
	return recipients, nil
}

// FindRecipientByID retrieves a recipient by id.
func (r *PgxRecipientRepository) FindRecipientByID(ctx context.Context, id int64) (*domain.NotificationRecipient, error) {
	query := `
		SELECT id, external_id, name, created_at
		FROM notification_recipients
		WHERE id = $1;
	`
	m, err := scanRecipient(r.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("recipient " + formatID(id) + " not found")
		}
		return nil, fmt.Errorf("failed to find recipient by id %d: %w", id, err)
	}
	recipient := mapping.ToDomainRecipient(m)
	return &recipient, nil
}

// SaveRecipient inserts a recipient and returns the stored row.
func (r *PgxRecipientRepository) SaveRecipient(ctx context.Context, recipient domain.NotificationRecipient) (*domain.NotificationRecipient, error) {
	m := mapping.ToModelRecipient(recipient)
	query := `
		INSERT INTO notification_recipients (external_id, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, external_id, name, created_at;
	`
	saved, err := scanRecipient(r.Pool.QueryRow(ctx, query, m.ExternalID, m.Name, m.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("recipient with external id %s: %w", m.ExternalID, apperrors.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to save recipient %s: %w", m.ExternalID, err)
	}
	out := mapping.ToDomainRecipient(saved)
	return &out, nil
}

// DeleteRecipient deletes a recipient. Its notification records are removed by ON DELETE CASCADE.
func (r *PgxRecipientRepository) DeleteRecipient(ctx context.Context, id int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM notification_recipients WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipient %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("recipient " + formatID(id) + " not found")
	}
	return nil
}
