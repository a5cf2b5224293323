package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a row of the orders table.
type Order struct {
	ID           int64           `db:"id"`
	OrderID      string          `db:"order_id"`
	CostSource   decimal.Decimal `db:"cost_source"`   // NUMERIC(14,2)
	CostTarget   decimal.Decimal `db:"cost_target"`   // NUMERIC(14,2)
	DeliveryDate time.Time       `db:"delivery_date"` // DATE
	AuditFields
}
