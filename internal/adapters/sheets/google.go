// Package sheets provides spreadsheet row sources.
package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/core/ports/gateways"
	"github.com/SscSPs/orders_sync_app/internal/middleware"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// GoogleSheetsConfig configures a GoogleSheetsSource.
type GoogleSheetsConfig struct {
	SpreadsheetID   string
	Range           string // e.g. "A2:D"
	CredentialsPath string
	TokenPath       string
	// ClientOptions replace the OAuth user credentials when set.
	ClientOptions []option.ClientOption
}

// GoogleSheetsSource reads a range of a spreadsheet through the Sheets API.
type GoogleSheetsSource struct {
	cfg GoogleSheetsConfig
}

var _ gateways.RowSource = (*GoogleSheetsSource)(nil)

// NewGoogleSheetsSource creates a Google Sheets row source.
func NewGoogleSheetsSource(cfg GoogleSheetsConfig) (*GoogleSheetsSource, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("%w: spreadsheet id is empty", apperrors.ErrConfiguration)
	}
	if cfg.Range == "" {
		cfg.Range = "A2:D"
	}
	return &GoogleSheetsSource{cfg: cfg}, nil
}

// FetchRows returns the configured range as rows of formatted cell strings.
func (s *GoogleSheetsSource) FetchRows(ctx context.Context) ([][]string, error) {
	opts, err := s.clientOptions(ctx)
	if err != nil {
		return nil, err
	}

	srv, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create sheets client: %v", apperrors.ErrConfiguration, err)
	}

	// Cells arrive as displayed in the sheet. Grouped costs such as "1,234" are rejected by the row parser.
	resp, err := srv.Spreadsheets.Values.Get(s.cfg.SpreadsheetID, s.cfg.Range).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read spreadsheet range %s: %v", apperrors.ErrProviderUnavailable, s.cfg.Range, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, values := range resp.Values {
		cells := make([]string, len(values))
		for j, v := range values {
			cells[j] = fmt.Sprint(v)
		}
		rows[i] = cells
	}
	return rows, nil
}

// clientOptions builds an HTTP client from the saved user token. A refreshed token is written back.
func (s *GoogleSheetsSource) clientOptions(ctx context.Context) ([]option.ClientOption, error) {
	if len(s.cfg.ClientOptions) > 0 {
		return s.cfg.ClientOptions, nil
	}

	oauthCfg, err := LoadOAuthConfig(s.cfg.CredentialsPath)
	if err != nil {
		return nil, err
	}
	saved, err := LoadToken(s.cfg.TokenPath)
	if err != nil {
		return nil, err
	}

	tokenSource := oauthCfg.TokenSource(ctx, saved)
	current, err := tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: refresh oauth token: %v", apperrors.ErrConfiguration, err)
	}
	if current.AccessToken != saved.AccessToken {
		if err := SaveToken(s.cfg.TokenPath, current); err != nil {
			middleware.GetLoggerFromCtx(ctx).Warn("Failed to persist refreshed token", slog.String("error", err.Error()))
		}
	}

	return []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource))}, nil
}
