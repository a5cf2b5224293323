package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a persisted order mirrored from the spreadsheet.
// ID is the spreadsheet row's id column, not generated by the database.
type Order struct {
	ID           int64           `json:"id"`
	OrderID      string          `json:"orderID"`
	CostSource   decimal.Decimal `json:"costSource"`
	CostTarget   decimal.Decimal `json:"costTarget"`
	DeliveryDate time.Time       `json:"deliveryDate"`
	AuditFields
}

// IsDueBy reports whether the delivery date is on or before asOf (compared by calendar date).
func (o Order) IsDueBy(asOf time.Time) bool {
	return !TruncateToDate(o.DeliveryDate).After(TruncateToDate(asOf))
}

// SheetRow is one admitted spreadsheet row, already converted to typed values.
type SheetRow struct {
	ID           int64
	OrderID      string
	CostSource   decimal.Decimal
	CostTarget   decimal.Decimal
	DeliveryDate time.Time
}

// ToOrder builds a new Order carrying the row's values.
func (r SheetRow) ToOrder() Order {
	o := Order{ID: r.ID}
	r.ApplyTo(&o)
	return o
}

// ApplyTo overwrites every mutable field of o with the row's values.
func (r SheetRow) ApplyTo(o *Order) {
	o.OrderID = r.OrderID
	o.CostSource = r.CostSource
	o.CostTarget = r.CostTarget
	o.DeliveryDate = r.DeliveryDate
}
