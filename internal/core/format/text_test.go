package format

import (
	"strings"
	"testing"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
)

func sampleRecord(docType domain.DocumentType) *domain.DocumentRecord {
	cur := "NGN"
	rec := &domain.DocumentRecord{
		DocumentType: docType,
		Date:         "2024-12-01",
		CustomerName: "John Doe",
		Address:      "123 Main St",
		City:         "Lagos",
		Country:      "Nigeria",
		Currency:     &cur,
		Items: []domain.LineItem{
			{Description: "Product X", Quantity: 100, UnitPrice: 5000, Amount: 500000},
		},
		Subtotal:          500000,
		TaxRatePercentage: 7.5,
		TaxRate:           0.075,
		TaxAmount:         37500,
		Total:             537500,
	}
	if docType == domain.TypeInvoice {
		rec.InvoiceNumber = "INV20241201150405"
		rec.DeliveryRatePercentage = 3
		rec.DeliveryRate = 0.03
		rec.DeliveryAmount = 15000
		rec.Total = 552500
	} else {
		rec.QuoteNumber = "QT20241201150405"
	}
	return rec
}

func TestTextInvoiceLayout(t *testing.T) {
	out := Text(sampleRecord(domain.TypeInvoice))

	for _, want := range []string{
		"--- INVOICE ---",
		"Invoice Number: INV20241201150405",
		"Bill To:",
		"Lagos, Nigeria",
		"Qty: 100 x NGN 5,000.00 = NGN 500,000.00",
		"Subtotal: NGN 500,000.00",
		"Tax (7.5%): NGN 37,500.00",
		"Delivery (3.0%): NGN 15,000.00",
		"TOTAL: NGN 552,500.00",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("invoice text missing %q:\n%s", want, out)
		}
	}
}

func TestTextQuoteOmitsDelivery(t *testing.T) {
	out := Text(sampleRecord(domain.TypeQuote))

	if !strings.Contains(out, "--- QUOTATION ---") {
		t.Fatalf("missing quotation header:\n%s", out)
	}
	if strings.Contains(out, "Delivery") {
		t.Fatalf("quote text must not mention delivery:\n%s", out)
	}
	if !strings.Contains(out, "TOTAL: NGN 537,500.00") {
		t.Fatalf("unexpected total:\n%s", out)
	}
}

func TestTextDefaultsMissingCustomerFields(t *testing.T) {
	rec := sampleRecord(domain.TypeQuote)
	rec.CustomerName = ""
	rec.Country = ""

	out := Text(rec)
	if !strings.Contains(out, "N/A\n123 Main St\nLagos, N/A") {
		t.Fatalf("missing N/A defaults:\n%s", out)
	}
}

func TestMoneyGrouping(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999.5, "999.50"},
		{1000, "1,000.00"},
		{750000, "750,000.00"},
		{1234567.89, "1,234,567.89"},
		{-22500, "-22,500.00"},
	}
	for _, tc := range cases {
		if got := Money(tc.in); got != tc.want {
			t.Fatalf("Money(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
