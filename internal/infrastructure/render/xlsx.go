package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
)

// renderXLSX produces a single-sheet workbook: header block, one row per line
// item, then the totals. Unlike the other formats this one keeps the numbers
// as numbers so the sheet stays editable.
func renderXLSX(rec *domain.DocumentRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Invoice"
	title := "INVOICE"
	numberLabel := "Invoice Number"
	if rec.DocumentType == domain.TypeQuote {
		sheet = "Quotation"
		title = "QUOTATION"
		numberLabel = "Quote Number"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	currency := ""
	if rec.Currency != nil {
		currency = *rec.Currency
	}

	row := 1
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
	writeRow := func(values ...any) {
		for i, v := range values {
			write(i+1, v)
		}
		row++
	}

	writeRow(title)
	writeRow(numberLabel, rec.Number())
	writeRow("Date", rec.Date)
	writeRow("Currency", currency)
	writeRow()
	writeRow("Customer", rec.CustomerName)
	writeRow("Address", rec.Address)
	writeRow("City", rec.City)
	writeRow("Country", rec.Country)
	writeRow()

	writeRow("Description", "Quantity", "Unit Price", "Amount")
	for _, item := range rec.Items {
		writeRow(item.Description, item.Quantity, item.UnitPrice, item.Amount)
	}
	writeRow()

	writeRow("Subtotal", "", "", rec.Subtotal)
	writeRow(fmt.Sprintf("Tax (%.1f%%)", rec.TaxRatePercentage), "", "", rec.TaxAmount)
	if rec.DocumentType == domain.TypeInvoice {
		writeRow(fmt.Sprintf("Delivery (%.1f%%)", rec.DeliveryRatePercentage), "", "", rec.DeliveryAmount)
	}
	writeRow("TOTAL", "", "", rec.Total)

	_ = f.SetColWidth(sheet, "A", "A", 36)
	_ = f.SetColWidth(sheet, "B", "D", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
