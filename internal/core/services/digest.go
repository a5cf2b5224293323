package services

import (
	"fmt"
	"strings"

	"github.com/SscSPs/orders_sync_app/internal/core/domain"
)

// Supported digest locales.
const (
	LocaleRU = "ru"
	LocaleEN = "en"
)

const digestSeparator = "\n====\n"

var digestLines = map[string]string{
	LocaleRU: "У заказа #%s истекает дата доставки %s.",
	LocaleEN: "Order #%s delivery date expires %s.",
}

// BuildDigest renders one sentence per order, in the given order, joined by a separator line.
// Unknown locales fall back to Russian.
func BuildDigest(orders []domain.Order, locale string) string {
	line, ok := digestLines[locale]
	if !ok {
		line = digestLines[LocaleRU]
	}
	parts := make([]string, len(orders))
	for i, o := range orders {
		parts[i] = fmt.Sprintf(line, o.OrderID, o.DeliveryDate.Format(domain.DateLayout))
	}
	return strings.Join(parts, digestSeparator)
}
