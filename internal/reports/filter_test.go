package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n0l0g0/pos-frontend/internal/api"
)

func sampleSales() []api.Sale {
	return []api.Sale{
		{
			ReceiptID:       "RCPT-20250614090000-12",
			DiscountedPrice: decimal.NewFromInt(100),
			PaymentMethod:   "cash",
			CreatedAt:       time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC),
		},
		{
			ReceiptID:       "RCPT-20250615103000-7",
			DiscountedPrice: decimal.NewFromInt(36),
			PaymentMethod:   "card",
			CreatedAt:       time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			ReceiptID:       "RCPT-20250701120000-301",
			DiscountedPrice: decimal.NewFromInt(64),
			PaymentMethod:   "cash",
			CreatedAt:       time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestApplySortsNewestFirst(t *testing.T) {
	t.Parallel()

	out := Apply(sampleSales(), Filter{}, nil)
	require.Len(t, out, 3)
	assert.Equal(t, "RCPT-20250701120000-301", out[0].ReceiptID)
	assert.Equal(t, "RCPT-20250614090000-12", out[2].ReceiptID)
}

func TestApplyDateFilter(t *testing.T) {
	t.Parallel()

	out := Apply(sampleSales(), Filter{Date: "2025-06-15"}, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "RCPT-20250615103000-7", out[0].ReceiptID)
}

func TestApplyMonthFilter(t *testing.T) {
	t.Parallel()

	out := Apply(sampleSales(), Filter{Month: "2025-06"}, nil)
	assert.Len(t, out, 2)
}

func TestApplyReceiptFilterIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	out := Apply(sampleSales(), Filter{Receipt: "rcpt-20250701"}, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "RCPT-20250701120000-301", out[0].ReceiptID)
}

func TestApplyDateWinsOverMonth(t *testing.T) {
	t.Parallel()

	out := Apply(sampleSales(), Filter{Date: "2025-07-01", Month: "2025-06"}, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "RCPT-20250701120000-301", out[0].ReceiptID)
}

func TestApplyHonorsDisplayTimezone(t *testing.T) {
	t.Parallel()

	bangkok, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)

	// 2025-06-14 22:00 UTC is already 2025-06-15 05:00 in Bangkok.
	sales := []api.Sale{{
		ReceiptID: "RCPT-20250614220000-1",
		CreatedAt: time.Date(2025, 6, 14, 22, 0, 0, 0, time.UTC),
	}}
	assert.Len(t, Apply(sales, Filter{Date: "2025-06-15"}, bangkok), 1)
	assert.Empty(t, Apply(sales, Filter{Date: "2025-06-14"}, bangkok))
}
