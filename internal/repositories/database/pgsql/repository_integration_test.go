package pgsql

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	portsrepo "github.com/SscSPs/orders_sync_app/internal/core/ports/repositories"
	"github.com/SscSPs/orders_sync_app/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// RepositorySuite runs against a real PostgreSQL named by TEST_PGSQL_URL and is skipped without it.
type RepositorySuite struct {
	suite.Suite
	ctx   context.Context
	pool  *pgxpool.Pool
	repos portsrepo.RepositoryProvider
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupSuite() {
	url := os.Getenv("TEST_PGSQL_URL")
	if url == "" {
		s.T().Skip("TEST_PGSQL_URL not set")
	}
	s.ctx = context.Background()

	_, err := database.RunMigrations(url, "file://../../../../migrations")
	s.Require().NoError(err)

	s.pool, err = database.NewPgxPool(s.ctx, url, true)
	s.Require().NoError(err)
	s.repos = NewRepositoryProvider(s.pool)
}

func (s *RepositorySuite) TearDownSuite() {
	database.ClosePgxPool(s.pool)
}

func (s *RepositorySuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, `TRUNCATE order_notifications, notification_recipients, orders RESTART IDENTITY CASCADE;`)
	s.Require().NoError(err)
}

func order(id int64, orderID string, cost string, delivery time.Time) domain.Order {
	c := decimal.RequireFromString(cost)
	now := time.Now().UTC().Truncate(time.Second)
	return domain.Order{
		ID:           id,
		OrderID:      orderID,
		CostSource:   c,
		CostTarget:   c.Mul(decimal.NewFromInt(75)),
		DeliveryDate: delivery,
		AuditFields:  domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *RepositorySuite) writeOrders(orders ...domain.Order) {
	err := s.repos.OrderRepo.WithinReconcileTx(s.ctx, func(ctx context.Context, store portsrepo.OrderReconcileStore) error {
		return store.InsertOrders(ctx, orders)
	})
	s.Require().NoError(err)
}

func (s *RepositorySuite) TestOrderWriteCycle() {
	s.writeOrders(order(1, "A", "10.00", day(2024, 1, 1)), order(5, "B", "2.50", day(2024, 2, 1)))

	err := s.repos.OrderRepo.WithinReconcileTx(s.ctx, func(ctx context.Context, store portsrepo.OrderReconcileStore) error {
		if err := store.UpdateOrders(ctx, []domain.Order{order(1, "A2", "11.00", day(2024, 1, 2))}); err != nil {
			return err
		}
		deleted, err := store.DeleteOrders(ctx, []int64{5, 99})
		s.Equal(int64(1), deleted)
		if err != nil {
			return err
		}
		return store.ResetOrderIDSequence(ctx)
	})
	s.Require().NoError(err)

	got, err := s.repos.OrderRepo.FindOrderByID(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal("A2", got.OrderID)
	s.True(decimal.RequireFromString("11").Equal(got.CostSource))
	s.True(day(2024, 1, 2).Equal(got.DeliveryDate))

	_, err = s.repos.OrderRepo.FindOrderByID(s.ctx, 5)
	s.True(errors.Is(err, apperrors.ErrNotFound))

	var next int64
	s.Require().NoError(s.pool.QueryRow(s.ctx, `SELECT nextval(pg_get_serial_sequence('orders', 'id'))`).Scan(&next))
	s.Equal(int64(2), next)
}

func (s *RepositorySuite) TestReconcileTxRollsBack() {
	injected := errors.New("injected")
	err := s.repos.OrderRepo.WithinReconcileTx(s.ctx, func(ctx context.Context, store portsrepo.OrderReconcileStore) error {
		if err := store.InsertOrders(ctx, []domain.Order{order(1, "A", "1", day(2024, 1, 1))}); err != nil {
			return err
		}
		return injected
	})
	s.ErrorIs(err, injected)

	orders, err := s.repos.OrderRepo.ListOrders(s.ctx)
	s.Require().NoError(err)
	s.Empty(orders)
}

func (s *RepositorySuite) TestUpdateMissingOrderFails() {
	err := s.repos.OrderRepo.WithinReconcileTx(s.ctx, func(ctx context.Context, store portsrepo.OrderReconcileStore) error {
		return store.UpdateOrders(ctx, []domain.Order{order(42, "X", "1", day(2024, 1, 1))})
	})
	s.True(errors.Is(err, apperrors.ErrNotFound))
}

func (s *RepositorySuite) TestListOrdersPageAndDue() {
	s.writeOrders(
		order(1, "A", "1", day(2024, 1, 1)),
		order(2, "B", "1", day(2024, 3, 1)),
		order(3, "C", "1", day(2024, 2, 1)),
	)

	page, err := s.repos.OrderRepo.ListOrdersPage(s.ctx, 1, 1)
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal(int64(2), page[0].ID)

	due, err := s.repos.OrderRepo.ListOrdersDeliveredBy(s.ctx, day(2024, 2, 1).Add(15*time.Hour))
	s.Require().NoError(err)
	s.Require().Len(due, 2)
	s.Equal(int64(1), due[0].ID)
	s.Equal(int64(3), due[1].ID)
}

func (s *RepositorySuite) TestRecipientsAndNotifications() {
	name := "Ivan"
	r, err := s.repos.RecipientRepo.SaveRecipient(s.ctx, domain.NotificationRecipient{ExternalID: "42", Name: &name, CreatedAt: time.Now().UTC()})
	s.Require().NoError(err)
	s.NotZero(r.ID)

	_, err = s.repos.RecipientRepo.SaveRecipient(s.ctx, domain.NotificationRecipient{ExternalID: "42", CreatedAt: time.Now().UTC()})
	s.True(errors.Is(err, apperrors.ErrDuplicate))

	s.writeOrders(order(1, "A", "1", day(2024, 1, 1)), order(2, "B", "1", day(2024, 1, 1)))

	s.Require().NoError(s.repos.NotificationRepo.UpsertSentNotifications(s.ctx, r.ID, []int64{1, 2}))
	s.Require().NoError(s.repos.NotificationRepo.UpsertSentNotifications(s.ctx, r.ID, []int64{2}))

	var rows int
	s.Require().NoError(s.pool.QueryRow(s.ctx, `SELECT COUNT(*) FROM order_notifications`).Scan(&rows))
	s.Equal(2, rows)

	sent, err := s.repos.NotificationRepo.ListSentOrderIDs(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal([]int64{1, 2}, sent)

	err = s.repos.OrderRepo.WithinReconcileTx(s.ctx, func(ctx context.Context, store portsrepo.OrderReconcileStore) error {
		_, err := store.DeleteOrders(ctx, []int64{1})
		return err
	})
	s.Require().NoError(err)
	sent, err = s.repos.NotificationRepo.ListSentOrderIDs(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal([]int64{2}, sent)

	s.Require().NoError(s.repos.RecipientRepo.DeleteRecipient(s.ctx, r.ID))
	s.True(errors.Is(s.repos.RecipientRepo.DeleteRecipient(s.ctx, r.ID), apperrors.ErrNotFound))
	_, err = s.repos.RecipientRepo.FindRecipientByID(s.ctx, r.ID)
	s.True(errors.Is(err, apperrors.ErrNotFound))
}
