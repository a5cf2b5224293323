package mapping

import (
	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	"github.com/SscSPs/orders_sync_app/internal/models"
)

// ToModelOrder converts a domain Order to a model Order.
// The delivery date is truncated to the calendar date stored in the DATE column.
func ToModelOrder(d domain.Order) models.Order {
	return models.Order{
		ID:           d.ID,
		OrderID:      d.OrderID,
		CostSource:   d.CostSource,
		CostTarget:   d.CostTarget,
		DeliveryDate: domain.TruncateToDate(d.DeliveryDate),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOrder converts a model Order to a domain Order
func ToDomainOrder(m models.Order) domain.Order {
	return domain.Order{
		ID:           m.ID,
		OrderID:      m.OrderID,
		CostSource:   m.CostSource,
		CostTarget:   m.CostTarget,
		DeliveryDate: domain.TruncateToDate(m.DeliveryDate),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainOrders converts a slice of model orders
func ToDomainOrders(ms []models.Order) []domain.Order {
	out := make([]domain.Order, len(ms))
	for i, m := range ms {
		out[i] = ToDomainOrder(m)
	}
	return out
}
