package domain

import "fmt"

// CurrencyPair names the conversion applied to spreadsheet costs.
type CurrencyPair struct {
	Source string `json:"source"` // e.g., "USD"
	Target string `json:"target"` // e.g., "RUB"
}

func (p CurrencyPair) String() string {
	return fmt.Sprintf("%s/%s", p.Source, p.Target)
}
