package dto

import (
	"time"

	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OrderResponse is the API representation of an order.
type OrderResponse struct {
	ID           int64           `json:"id"`
	OrderID      string          `json:"orderID"`
	CostSource   decimal.Decimal `json:"costSource"`
	CostTarget   decimal.Decimal `json:"costTarget"`
	DeliveryDate string          `json:"deliveryDate"` // YYYY-MM-DD
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ListOrdersParams defines query parameters for listing orders.
type ListOrdersParams struct {
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	PageToken string `form:"pageToken"`
}

// ListOrdersResponse wraps one page of orders.
type ListOrdersResponse struct {
	Orders    []OrderResponse `json:"orders"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToOrderResponse converts a domain order to its API representation
func ToOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		OrderID:      o.OrderID,
		CostSource:   o.CostSource,
		CostTarget:   o.CostTarget,
		DeliveryDate: o.DeliveryDate.Format(time.DateOnly),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}
