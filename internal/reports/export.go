package reports

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/n0l0g0/pos-frontend/internal/api"
	pkgerrors "github.com/n0l0g0/pos-frontend/pkg/errors"
)

const sheetName = "Sales"

var exportHeader = []any{"Date", "Receipt", "Total", "Discount", "Net", "Method", "Cashier"}

// Exporter writes sales reports as XLSX workbooks into a fixed directory.
type Exporter struct {
	dir string
	loc *time.Location
}

// NewExporter builds an exporter. A nil location means UTC.
func NewExporter(dir string, loc *time.Location) *Exporter {
	if loc == nil {
		loc = time.UTC
	}
	return &Exporter{dir: dir, loc: loc}
}

// Export writes the given sales, one row each, and returns the file path.
func (e *Exporter) Export(sales []api.Sale, filename string) (string, error) {
	if filename == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "export filename is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to set up workbook")
	}
	if err := f.SetSheetRow(sheetName, "A1", &exportHeader); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to write header row")
	}

	for i, sale := range sales {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to address row")
		}
		row := []any{
			sale.CreatedAt.In(e.loc).Format("02/01/2006 15:04"),
			sale.ReceiptID,
			sale.TotalPrice.InexactFloat64(),
			formatDiscount(sale),
			sale.DiscountedPrice.InexactFloat64(),
			sale.PaymentMethod,
			sale.Cashier,
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to write sale row")
		}
	}

	path := filepath.Join(e.dir, filename)
	if err := f.SaveAs(path); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to save workbook")
	}
	return path, nil
}

// DefaultFilename stamps the export with the current time so repeated
// exports never overwrite each other.
func (e *Exporter) DefaultFilename(now time.Time) string {
	return fmt.Sprintf("sales-%s.xlsx", now.In(e.loc).Format("20060102-150405"))
}

func formatDiscount(sale api.Sale) string {
	if sale.Discount.IsZero() {
		return "-"
	}
	if sale.DiscountKind == api.DiscountPercentage {
		return fmt.Sprintf("%s%%", sale.Discount.String())
	}
	return fmt.Sprintf("฿%s", sale.Discount.String())
}
