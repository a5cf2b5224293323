package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	"github.com/SscSPs/orders_sync_app/internal/middleware"
	"github.com/SscSPs/orders_sync_app/internal/utils"
	"github.com/SscSPs/orders_sync_app/internal/utils/convert"
	"github.com/shopspring/decimal"
)

// sheetColumns is the number of leading cells read from each row: id, order id, cost, delivery date.
const sheetColumns = 4

// maxCostIntegerDigits matches the NUMERIC(14,2) columns of the orders table.
const maxCostIntegerDigits = 12

var costLimit = decimal.New(1, maxCostIntegerDigits)

// ParseRow converts the cells of one spreadsheet row.
// A row that cannot be admitted yields an error wrapping apperrors.ErrValidation.
// Cells beyond the fourth are ignored.
func ParseRow(cells []string, rate decimal.Decimal) (*domain.SheetRow, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("%w: empty row", apperrors.ErrValidation)
	}
	if len(cells) < sheetColumns {
		return nil, fmt.Errorf("%w: expected %d cells, got %d", apperrors.ErrValidation, sheetColumns, len(cells))
	}

	id, err := convert.ToInt(cells[0])
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}
	if id <= 0 {
		return nil, fmt.Errorf("%w: id must be positive, got %d", apperrors.ErrValidation, id)
	}
	orderID, err := convert.ToString(cells[1])
	if err != nil {
		return nil, fmt.Errorf("order id: %w", err)
	}
	cost, err := convert.ToDecimal(cells[2])
	if err != nil {
		return nil, fmt.Errorf("cost: %w", err)
	}
	cost = cost.Round(utils.MoneyPrecision)
	costTarget := utils.ConvertAmount(cost, rate)
	if cost.Abs().GreaterThanOrEqual(costLimit) || costTarget.Abs().GreaterThanOrEqual(costLimit) {
		return nil, fmt.Errorf("%w: cost %s (%s converted) exceeds %d integer digits",
			apperrors.ErrValidation, cost, costTarget, maxCostIntegerDigits)
	}
	deliveryDate, err := convert.ToDate(cells[3])
	if err != nil {
		return nil, fmt.Errorf("delivery date: %w", err)
	}

	return &domain.SheetRow{
		ID:           id,
		OrderID:      orderID,
		CostSource:   cost,
		CostTarget:   costTarget,
		DeliveryDate: deliveryDate,
	}, nil
}

// ParseRows parses every raw row, logging and skipping the ones that cannot be admitted.
// It returns the admitted rows in source order and the number of dropped rows.
func ParseRows(ctx context.Context, raw [][]string, rate decimal.Decimal) ([]domain.SheetRow, int) {
	logger := middleware.GetLoggerFromCtx(ctx)
	rows := make([]domain.SheetRow, 0, len(raw))
	dropped := 0
	for i, cells := range raw {
		row, err := ParseRow(cells, rate)
		if err != nil {
			dropped++
			logger.Warn("Dropping spreadsheet row", slog.Int("index", i), slog.String("reason", err.Error()))
			continue
		}
		rows = append(rows, *row)
	}
	return rows, dropped
}
