package convert

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "plain", in: "42", want: 42},
		{name: "padded", in: " 7 ", want: 7},
		{name: "empty", in: "", wantErr: true},
		{name: "fraction", in: "1.5", wantErr: true},
		{name: "letters", in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToInt(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, apperrors.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "integer", in: "75", want: "75"},
		{name: "fraction", in: "75.1234", want: "75.1234"},
		{name: "padded", in: " 10.50 ", want: "10.5"},
		{name: "signed", in: "-3.25", want: "-3.25"},
		{name: "thousands separator", in: "1,234", wantErr: true},
		{name: "grouped with fraction", in: "1,234.50", wantErr: true},
		{name: "comma fraction", in: "75,1234", wantErr: true},
		{name: "exponent", in: "1e13", wantErr: true},
		{name: "words", in: "seventy", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToDecimal(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, apperrors.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestToDate(t *testing.T) {
	got, err := ToDate("24.05.2022")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 5, 24, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"2022-05-24", "31.02.2022", ""} {
		_, err := ToDate(bad)
		assert.True(t, errors.Is(err, apperrors.ErrValidation), bad)
	}
}

func TestToString(t *testing.T) {
	got, err := ToString(" A-1 ")
	require.NoError(t, err)
	assert.Equal(t, " A-1 ", got)
}
