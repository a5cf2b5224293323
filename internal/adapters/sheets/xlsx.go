package sheets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/core/ports/gateways"
	"github.com/xuri/excelize/v2"
)

// XLSXConfig configures an XLSXSource.
type XLSXConfig struct {
	Path string
	// Sheet defaults to the first sheet of the workbook.
	Sheet string
	// SkipRows is the number of header rows to drop.
	SkipRows int
}

// XLSXSource reads rows from a local workbook. The file is reopened on every fetch.
type XLSXSource struct {
	cfg XLSXConfig
}

var _ gateways.RowSource = (*XLSXSource)(nil)

// NewXLSXSource creates a workbook row source.
func NewXLSXSource(cfg XLSXConfig) (*XLSXSource, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: xlsx path is empty", apperrors.ErrConfiguration)
	}
	if cfg.SkipRows < 0 {
		return nil, fmt.Errorf("%w: negative skip rows", apperrors.ErrConfiguration)
	}
	return &XLSXSource{cfg: cfg}, nil
}

func (s *XLSXSource) FetchRows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.cfg.Path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: workbook %s not found", apperrors.ErrConfiguration, s.cfg.Path)
	}

	f, err := excelize.OpenFile(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", apperrors.ErrProviderUnavailable, err)
	}
	defer f.Close()

	sheet := s.cfg.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", apperrors.ErrProviderUnavailable)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", apperrors.ErrConfiguration, sheet, err)
	}
	if s.cfg.SkipRows >= len(rows) {
		return [][]string{}, nil
	}
	return rows[s.cfg.SkipRows:], nil
}
