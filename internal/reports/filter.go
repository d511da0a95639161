package reports

import (
	"sort"
	"strings"
	"time"

	"github.com/n0l0g0/pos-frontend/internal/api"
)

// Filter narrows the sales history. Date wins over Month when both are set;
// Receipt matches as a case-insensitive substring.
type Filter struct {
	Date    string // yyyy-mm-dd
	Month   string // yyyy-mm
	Receipt string
}

func (f Filter) matches(sale api.Sale, loc *time.Location) bool {
	created := sale.CreatedAt.In(loc)
	if f.Date != "" && created.Format("2006-01-02") != f.Date {
		return false
	}
	if f.Date == "" && f.Month != "" && created.Format("2006-01") != f.Month {
		return false
	}
	if f.Receipt != "" && !strings.Contains(strings.ToLower(sale.ReceiptID), strings.ToLower(f.Receipt)) {
		return false
	}
	return true
}

// Apply filters the history and sorts it newest first. A nil location means
// UTC.
func Apply(sales []api.Sale, filter Filter, loc *time.Location) []api.Sale {
	if loc == nil {
		loc = time.UTC
	}
	var out []api.Sale
	for _, sale := range sales {
		if filter.matches(sale, loc) {
			out = append(out, sale)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
