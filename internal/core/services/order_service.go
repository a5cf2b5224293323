package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	portsrepo "github.com/SscSPs/orders_sync_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/orders_sync_app/internal/core/ports/services"
	"github.com/SscSPs/orders_sync_app/internal/dto"
	"github.com/SscSPs/orders_sync_app/internal/utils/pagination"
)

// orderService serves order reads and owns the reconciliation of spreadsheet snapshots.
type orderService struct {
	BaseService
	orderRepo portsrepo.OrderRepositoryFacade
}

// OrderServiceOption is a functional option for configuring the order service
type OrderServiceOption func(*orderService)

// WithOrderClock overrides the clock used for audit timestamps.
func WithOrderClock(now func() time.Time) OrderServiceOption {
	return func(s *orderService) {
		s.now = now
	}
}

// NewOrderService creates a new order service
func NewOrderService(repo portsrepo.OrderRepositoryFacade, options ...OrderServiceOption) portssvc.OrderSvcFacade {
	svc := &orderService{orderRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// GetOrderByID retrieves a single order.
func (s *orderService) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	return order, nil
}

// ListOrders returns one keyset page of orders ordered by id.
func (s *orderService) ListOrders(ctx context.Context, params dto.ListOrdersParams) (*dto.ListOrdersResponse, error) {
	afterID, err := pagination.DecodeIDToken(params.PageToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	// One extra row tells whether another page exists.
	orders, err := s.orderRepo.ListOrdersPage(ctx, afterID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	resp := &dto.ListOrdersResponse{}
	if len(orders) > limit {
		orders = orders[:limit]
		next := pagination.EncodeIDToken(orders[len(orders)-1].ID)
		resp.NextToken = &next
	}
	resp.Orders = dto.ToOrderResponses(orders)
	s.LogDebug(ctx, "Listed orders", slog.Int("count", len(orders)), slog.Int64("after_id", afterID))
	return resp, nil
}
