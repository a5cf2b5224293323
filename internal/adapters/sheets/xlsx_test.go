package sheets

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "orders.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestXLSXSource_FetchRows(t *testing.T) {
	path := writeWorkbook(t, "Orders", [][]any{
		{"id", "order", "cost", "date"},
		{"1", "1249708", "675", "24.05.2022"},
		{"2", "1182407", "214", "13.05.2022"},
	})
	src, err := NewXLSXSource(XLSXConfig{Path: path, SkipRows: 1})
	require.NoError(t, err)

	rows, err := src.FetchRows(context.Background())

	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"1", "1249708", "675", "24.05.2022"},
		{"2", "1182407", "214", "13.05.2022"},
	}, rows)
}

func TestXLSXSource_SkipAllRows(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]any{{"id", "order", "cost", "date"}})
	src, err := NewXLSXSource(XLSXConfig{Path: path, Sheet: "Sheet1", SkipRows: 5})
	require.NoError(t, err)

	rows, err := src.FetchRows(context.Background())

	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestXLSXSource_Errors(t *testing.T) {
	_, err := NewXLSXSource(XLSXConfig{})
	assert.True(t, errors.Is(err, apperrors.ErrConfiguration))

	src, err := NewXLSXSource(XLSXConfig{Path: filepath.Join(t.TempDir(), "missing.xlsx")})
	require.NoError(t, err)
	_, err = src.FetchRows(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrConfiguration))

	path := writeWorkbook(t, "Sheet1", [][]any{{"1"}})
	src, err = NewXLSXSource(XLSXConfig{Path: path, Sheet: "Nope"})
	require.NoError(t, err)
	_, err = src.FetchRows(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrConfiguration))
}
