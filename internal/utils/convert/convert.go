// Package convert turns raw spreadsheet cell text into typed values.
// Every converter reports a failure as an error wrapping apperrors.ErrValidation.
package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ToInt parses a base-10 integer. Surrounding whitespace is ignored.
func ToInt(cell string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", apperrors.ErrValidation, cell)
	}
	return v, nil
}

// ToString returns the cell unchanged.
func ToString(cell string) (string, error) {
	return cell, nil
}

// plainDecimal is an optional sign, digits and an optional dot fraction.
// Grouped ("1,234"), comma-fraction and exponent forms are rejected.
var plainDecimal = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// ToDecimal parses a plain decimal number. Surrounding whitespace is ignored.
func ToDecimal(cell string) (decimal.Decimal, error) {
	s := strings.TrimSpace(cell)
	if !plainDecimal.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", apperrors.ErrValidation, cell)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", apperrors.ErrValidation, cell)
	}
	return v, nil
}

// ToDate parses a DD.MM.YYYY calendar date into UTC midnight.
func ToDate(cell string) (time.Time, error) {
	v, err := time.ParseInLocation(domain.DateLayout, strings.TrimSpace(cell), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a DD.MM.YYYY date", apperrors.ErrValidation, cell)
	}
	return v, nil
}
