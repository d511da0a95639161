package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/n0l0g0/pos-frontend/internal/api"
)

func TestExportWritesWorkbook(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exporter := NewExporter(dir, time.UTC)

	sales := []api.Sale{
		{
			ReceiptID:       "RCPT-20250615103000-7",
			TotalPrice:      decimal.NewFromInt(40),
			Discount:        decimal.NewFromInt(10),
			DiscountKind:    api.DiscountPercentage,
			DiscountedPrice: decimal.NewFromInt(36),
			PaymentMethod:   "cash",
			Cashier:         "Alice",
			CreatedAt:       time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			ReceiptID:       "RCPT-20250615110000-42",
			TotalPrice:      decimal.NewFromInt(100),
			Discount:        decimal.NewFromInt(25),
			DiscountKind:    api.DiscountAbsolute,
			DiscountedPrice: decimal.NewFromInt(75),
			PaymentMethod:   "card",
			Cashier:         "Bob",
			CreatedAt:       time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC),
		},
	}

	path, err := exporter.Export(sales, "sales.xlsx")
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Date", "Receipt", "Total", "Discount", "Net", "Method", "Cashier"}, rows[0])
	assert.Equal(t, "15/06/2025 10:30", rows[1][0])
	assert.Equal(t, "RCPT-20250615103000-7", rows[1][1])
	assert.Equal(t, "10%", rows[1][3])
	assert.Equal(t, "36", rows[1][4])
	assert.Equal(t, "฿25", rows[2][3])
	assert.Equal(t, "Bob", rows[2][6])
}

func TestExportEmptyHistoryStillWritesHeader(t *testing.T) {
	t.Parallel()

	exporter := NewExporter(t.TempDir(), nil)
	path, err := exporter.Export(nil, "empty.xlsx")
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestExportRequiresFilename(t *testing.T) {
	t.Parallel()

	exporter := NewExporter(t.TempDir(), nil)
	_, err := exporter.Export(nil, "")
	assert.Error(t, err)
}

func TestDefaultFilename(t *testing.T) {
	t.Parallel()

	exporter := NewExporter(".", time.UTC)
	now := time.Date(2025, 6, 15, 10, 30, 45, 0, time.UTC)
	assert.Equal(t, "sales-20250615-103045.xlsx", exporter.DefaultFilename(now))
}
