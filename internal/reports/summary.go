package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/n0l0g0/pos-frontend/internal/api"
)

// NetTotal sums the discounted price of the given sales, typically one
// displayed page.
func NetTotal(sales []api.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(sale.DiscountedPrice)
	}
	return total
}

// MethodShare is one payment method's slice of the given sales.
type MethodShare struct {
	Method  string
	Total   decimal.Decimal
	Percent decimal.Decimal
}

// PaymentSplit breaks the sales down by payment method. Percentages are over
// the net total and rounded to two places; methods come out alphabetically.
func PaymentSplit(sales []api.Sale) []MethodShare {
	totals := map[string]decimal.Decimal{}
	for _, sale := range sales {
		totals[sale.PaymentMethod] = totals[sale.PaymentMethod].Add(sale.DiscountedPrice)
	}

	grand := NetTotal(sales)
	hundred := decimal.NewFromInt(100)

	out := make([]MethodShare, 0, len(totals))
	for method, total := range totals {
		share := MethodShare{Method: method, Total: total}
		if grand.IsPositive() {
			share.Percent = total.Mul(hundred).Div(grand).Round(2)
		}
		out = append(out, share)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out
}

// DayPoint is one day's net revenue on the dashboard chart.
type DayPoint struct {
	Label string // dd/mm/yyyy in the display timezone
	Total decimal.Decimal
	day   time.Time
}

// DailySeries groups net revenue per calendar day in the display timezone,
// oldest first. A nil location means UTC.
func DailySeries(sales []api.Sale, loc *time.Location) []DayPoint {
	if loc == nil {
		loc = time.UTC
	}
	byDay := map[string]*DayPoint{}
	for _, sale := range sales {
		created := sale.CreatedAt.In(loc)
		label := created.Format("02/01/2006")
		point, ok := byDay[label]
		if !ok {
			day := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, loc)
			point = &DayPoint{Label: label, day: day}
			byDay[label] = point
		}
		point.Total = point.Total.Add(sale.DiscountedPrice)
	}

	out := make([]DayPoint, 0, len(byDay))
	for _, point := range byDay {
		out = append(out, *point)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].day.Before(out[j].day) })
	return out
}

// SellerRank is one product's units sold across the given sales.
type SellerRank struct {
	Name string
	Qty  int
}

// BestSellers ranks products by units sold, best first, capped at limit.
// Ties break alphabetically so the ranking is stable.
func BestSellers(sales []api.Sale, limit int) []SellerRank {
	counts := map[string]int{}
	for _, sale := range sales {
		for _, line := range sale.Cart {
			counts[line.Name] += line.Qty
		}
	}

	out := make([]SellerRank, 0, len(counts))
	for name, qty := range counts {
		out = append(out, SellerRank{Name: name, Qty: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Qty != out[j].Qty {
			return out[i].Qty > out[j].Qty
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
