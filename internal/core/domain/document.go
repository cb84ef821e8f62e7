package domain

import "strings"

type DocumentType string

const (
	TypeInvoice DocumentType = "invoice"
	TypeQuote   DocumentType = "quote"
)

// ParseDocumentType accepts the two supported document kinds in any case.
func ParseDocumentType(s string) (DocumentType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(TypeInvoice):
		return TypeInvoice, true
	case string(TypeQuote):
		return TypeQuote, true
	default:
		return "", false
	}
}

type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// DocumentRecord is the canonical, numerically consistent document produced by
// enrichment. It is built fresh per request and never persisted or mutated
// after being handed to the caller.
type DocumentRecord struct {
	DocumentType DocumentType `json:"document_type"`

	InvoiceNumber string `json:"invoice_number,omitempty"`
	QuoteNumber   string `json:"quote_number,omitempty"`
	Date          string `json:"date"`

	CustomerName string `json:"customer_name,omitempty"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	Country      string `json:"country,omitempty"`

	Items []LineItem `json:"items"`

	// Currency is nil when the user never named one. Enrichment preserves the
	// nil; the orchestrator gates on it before enrichment ever runs.
	Currency *string `json:"currency"`

	Subtotal          float64 `json:"subtotal"`
	TaxRatePercentage float64 `json:"tax_rate_percentage"`
	TaxRate           float64 `json:"tax_rate"`
	TaxAmount         float64 `json:"tax_amount"`

	DeliveryRatePercentage float64 `json:"delivery_rate_percentage,omitempty"`
	DeliveryRate           float64 `json:"delivery_rate,omitempty"`
	DeliveryAmount         float64 `json:"delivery_amount,omitempty"`

	Total float64 `json:"total"`
}

// Number returns whichever identifier matches the document type.
func (r *DocumentRecord) Number() string {
	if r.DocumentType == TypeInvoice {
		return r.InvoiceNumber
	}
	return r.QuoteNumber
}

type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
