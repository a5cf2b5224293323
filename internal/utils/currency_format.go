package utils

import (
	"github.com/shopspring/decimal"
)

// MoneyPrecision is the number of fractional digits stored for monetary amounts.
const MoneyPrecision = 2

// ConvertAmount multiplies amount by rate and rounds half away from zero to MoneyPrecision digits.
// Example: 10.00 at rate 75.0 returns 750.00
func ConvertAmount(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(MoneyPrecision)
}

// FormatWithPrecision formats an amount with the given precision
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}
