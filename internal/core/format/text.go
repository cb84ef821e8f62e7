// Package format renders an enriched document record as a deterministic
// plain-text summary. It trusts every number on the record; all arithmetic
// lives in the enrichment engine.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
)

func Text(rec *domain.DocumentRecord) string {
	currency := ""
	if rec.Currency != nil {
		currency = *rec.Currency
	}

	var items strings.Builder
	for i, item := range rec.Items {
		if i > 0 {
			items.WriteString("\n")
		}
		fmt.Fprintf(&items, "%s\n  Qty: %s x %s %s = %s %s",
			item.Description,
			strconv.FormatFloat(item.Quantity, 'f', -1, 64),
			currency, Money(item.UnitPrice),
			currency, Money(item.Amount),
		)
	}

	if rec.DocumentType == domain.TypeInvoice {
		return fmt.Sprintf(`--- INVOICE ---
Invoice Number: %s
Date: %s

Bill To:
%s
%s
%s, %s

Items:
%s

Subtotal: %s %s
Tax (%.1f%%): %s %s
Delivery (%.1f%%): %s %s

TOTAL: %s %s`,
			rec.InvoiceNumber, rec.Date,
			orNA(rec.CustomerName), orNA(rec.Address), orNA(rec.City), orNA(rec.Country),
			items.String(),
			currency, Money(rec.Subtotal),
			rec.TaxRatePercentage, currency, Money(rec.TaxAmount),
			rec.DeliveryRatePercentage, currency, Money(rec.DeliveryAmount),
			currency, Money(rec.Total),
		)
	}

	return fmt.Sprintf(`--- QUOTATION ---
Quote Number: %s
Date: %s

To:
%s
%s
%s, %s

Items:
%s

Subtotal: %s %s
Tax (%.1f%%): %s %s

TOTAL: %s %s`,
		rec.QuoteNumber, rec.Date,
		orNA(rec.CustomerName), orNA(rec.Address), orNA(rec.City), orNA(rec.Country),
		items.String(),
		currency, Money(rec.Subtotal),
		rec.TaxRatePercentage, currency, Money(rec.TaxAmount),
		currency, Money(rec.Total),
	)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// Money renders a value with two decimals and comma-grouped thousands.
func Money(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}
	return sign + grouped.String() + "." + fracPart
}
