// Package currency fetches official exchange rates from the Central Bank of Russia.
package currency

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/core/domain"
	"github.com/SscSPs/orders_sync_app/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

const cbrTargetCurrency = "RUB"

// cbrCodes maps ISO currency codes to the internal ids used in the daily rates document.
var cbrCodes = map[string]string{
	"USD": "R01235",
}

// CBRConfig configures a CBRRateProvider.
type CBRConfig struct {
	URL            string
	SourceCurrency string
	TargetCurrency string
	Timeout        time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// CBRRateProvider reads the daily XML rates document.
type CBRRateProvider struct {
	url    string
	pair   domain.CurrencyPair
	cbrID  string
	client *http.Client
}

var _ gateways.RateProvider = (*CBRRateProvider)(nil)

// NewCBRRateProvider fails with apperrors.ErrConfiguration for a pair the bank does not publish.
func NewCBRRateProvider(cfg CBRConfig) (*CBRRateProvider, error) {
	pair := domain.CurrencyPair{
		Source: strings.ToUpper(cfg.SourceCurrency),
		Target: strings.ToUpper(cfg.TargetCurrency),
	}
	if pair.Target != cbrTargetCurrency {
		return nil, fmt.Errorf("%w: unsupported target currency %q", apperrors.ErrConfiguration, pair.Target)
	}
	id, ok := cbrCodes[pair.Source]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported source currency %q", apperrors.ErrConfiguration, pair.Source)
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: rate provider url is empty", apperrors.ErrConfiguration)
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &CBRRateProvider{url: cfg.URL, pair: pair, cbrID: id, client: client}, nil
}

// Pair returns the currency pair the provider was built for.
func (p *CBRRateProvider) Pair() domain.CurrencyPair {
	return p.pair
}

type valCurs struct {
	XMLName xml.Name `xml:"ValCurs"`
	Date    string   `xml:"Date,attr"`
	Valutes []valute `xml:"Valute"`
}

type valute struct {
	ID       string `xml:"ID,attr"`
	CharCode string `xml:"CharCode"`
	Nominal  string `xml:"Nominal"`
	Value    string `xml:"Value"`
}

// GetRate returns how many target units one source unit costs on asOf.
// It makes exactly one request and never retries.
func (p *CBRRateProvider) GetRate(ctx context.Context, asOf time.Time) (decimal.Decimal, error) {
	reqURL, err := url.Parse(p.url)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid rate provider url: %v", apperrors.ErrConfiguration, err)
	}
	q := reqURL.Query()
	q.Set("date_req", asOf.Format("02/01/2006"))
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return decimal.Zero, fmt.Errorf("%w: unexpected status %d, body: %s", apperrors.ErrProviderUnavailable, resp.StatusCode, string(body))
	}

	var doc valCurs
	decoder := xml.NewDecoder(resp.Body)
	decoder.CharsetReader = charsetReader
	if err := decoder.Decode(&doc); err != nil {
		return decimal.Zero, fmt.Errorf("%w: decode response: %v", apperrors.ErrProviderUnavailable, err)
	}

	return p.pick(doc)
}

func (p *CBRRateProvider) pick(doc valCurs) (decimal.Decimal, error) {
	var match *valute
	for i := range doc.Valutes {
		if doc.Valutes[i].ID != p.cbrID {
			continue
		}
		if match != nil {
			return decimal.Zero, fmt.Errorf("%w: %s listed more than once", apperrors.ErrAmbiguousRate, p.cbrID)
		}
		match = &doc.Valutes[i]
	}
	if match == nil {
		return decimal.Zero, fmt.Errorf("%w: %s (%s) not in response for %s", apperrors.ErrRateNotFound, p.pair.Source, p.cbrID, doc.Date)
	}

	value, err := parseCBRDecimal(match.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad value %q: %v", apperrors.ErrRateNotFound, match.Value, err)
	}
	// Value is quoted per Nominal units of the source currency.
	if strings.TrimSpace(match.Nominal) != "" {
		nominal, err := parseCBRDecimal(match.Nominal)
		if err != nil || !nominal.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: bad nominal %q", apperrors.ErrRateNotFound, match.Nominal)
		}
		value = value.Div(nominal)
	}
	return value, nil
}

// parseCBRDecimal accepts the comma decimal separator used in the document.
func parseCBRDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "windows-1251", "cp1251":
		return charmap.Windows1251.NewDecoder().Reader(input), nil
	case "utf-8", "utf8":
		return input, nil
	}
	return nil, fmt.Errorf("unsupported charset %q", label)
}
