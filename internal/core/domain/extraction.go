package domain

import "strings"

// RawExtraction is the untyped JSON object recovered from model output. It is
// permissive on purpose: extraction output is unreliable, and the shape only
// becomes trusted once enrichment converts it into a DocumentRecord.
type RawExtraction map[string]any

// String reads a trimmed string field, tolerating absent or non-string values.
func (r RawExtraction) String(key string) string {
	v, ok := r[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

// Number reads a numeric field. Models occasionally emit numbers as strings;
// those are not recovered here, they default to zero like any other junk.
func (r RawExtraction) Number(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Currency reports the extracted currency and whether one is present at all.
// Empty string and JSON null both count as absent.
func (r RawExtraction) Currency() (string, bool) {
	cur := r.String("currency")
	if cur == "" {
		return "", false
	}
	return cur, true
}

// Items decodes the raw items array into line items, computing amount from
// quantity and unit price only when the extraction did not supply one.
func (r RawExtraction) Items() []LineItem {
	raw, ok := r["items"].([]any)
	if !ok {
		return nil
	}

	items := make([]LineItem, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		re := RawExtraction(m)
		item := LineItem{
			Description: re.String("description"),
			Quantity:    re.Number("quantity"),
			UnitPrice:   re.Number("unit_price"),
		}
		if _, explicit := m["amount"]; explicit {
			item.Amount = re.Number("amount")
		} else {
			item.Amount = item.Quantity * item.UnitPrice
		}
		items = append(items, item)
	}
	return items
}

// TypeDetection is the parsed result of the document-type classification call.
type TypeDetection struct {
	DocumentType string `json:"document_type"`
	Message      string `json:"message"`
}

// TypeResolution is the resolver verdict: either a concrete document type or a
// conversational reply that short-circuits the pipeline.
type TypeResolution struct {
	Type         DocumentType
	Conversation bool
	Message      string
}
