package enrich

import (
	"time"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
)

// Engine derives every computed field of a document record from a raw
// extraction. It is pure and never fails: missing numerics default to zero,
// missing collections to empty. It is the single source of numeric truth;
// renderers downstream must not recompute.
type Engine struct {
	defaultTaxPercent      float64
	defaultDeliveryPercent float64
	now                    func() time.Time
}

func NewEngine(defaultTaxPercent, defaultDeliveryPercent float64) *Engine {
	return &Engine{
		defaultTaxPercent:      defaultTaxPercent,
		defaultDeliveryPercent: defaultDeliveryPercent,
		now:                    time.Now,
	}
}

// WithClock fixes the timestamp source. Identifier and date are the only
// non-deterministic outputs, so tests pin them here.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	clone := *e
	clone.now = now
	return &clone
}

func (e *Engine) Enrich(raw domain.RawExtraction, docType domain.DocumentType) *domain.DocumentRecord {
	ts := e.now()

	rec := &domain.DocumentRecord{
		DocumentType: docType,
		Date:         ts.Format("2006-01-02"),
		CustomerName: raw.String("customer_name"),
		Address:      raw.String("address"),
		City:         raw.String("city"),
		Country:      raw.String("country"),
		Items:        raw.Items(),
	}
	if rec.Items == nil {
		rec.Items = []domain.LineItem{}
	}

	stamp := ts.Format("20060102150405")
	if docType == domain.TypeInvoice {
		rec.InvoiceNumber = "INV" + stamp
	} else {
		rec.QuoteNumber = "QT" + stamp
	}

	var subtotal float64
	for _, item := range rec.Items {
		subtotal += item.Amount
	}
	rec.Subtotal = subtotal

	// A zero tax rate on a nonzero subtotal is read as "rate omitted", not as
	// an explicit 0%. The percentage form is kept for display, the decimal
	// form for calculation.
	taxPercent := raw.Number("tax_rate")
	if taxPercent == 0 && subtotal > 0 {
		taxPercent = e.defaultTaxPercent
	}
	rec.TaxRatePercentage = taxPercent
	rec.TaxRate = taxPercent / 100
	rec.TaxAmount = subtotal * rec.TaxRate

	if docType == domain.TypeInvoice {
		deliveryPercent := raw.Number("delivery_rate")
		if deliveryPercent == 0 && subtotal > 0 {
			deliveryPercent = e.defaultDeliveryPercent
		}
		rec.DeliveryRatePercentage = deliveryPercent
		rec.DeliveryRate = deliveryPercent / 100
		rec.DeliveryAmount = subtotal * rec.DeliveryRate
		rec.Total = subtotal + rec.TaxAmount + rec.DeliveryAmount
	} else {
		rec.Total = subtotal + rec.TaxAmount
	}

	if cur, ok := raw.Currency(); ok {
		rec.Currency = &cur
	}

	return rec
}
