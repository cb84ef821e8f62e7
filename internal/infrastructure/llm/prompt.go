package llm

import (
	"fmt"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
)

// defaultExtractionPrompt is the in-process fallback when no template file is
// deployed for the document type.
func defaultExtractionPrompt(docType domain.DocumentType) string {
	return fmt.Sprintf(`Extract business document information from user requests. Return ONLY valid JSON, no markdown, no explanations.

For %s:
{
  "customer_name": "string",
  "address": "string",
  "city": "string",
  "country": "string",
  "items": [{"description": "string", "quantity": number, "unit_price": number}],
  "tax_rate": number,
  "currency": "NGN"
}

Rules:
- quantity and unit_price are numbers, never strings.
- tax_rate is a percentage (8 means 8%%); use 0 when the user gives none.
- currency is the ISO-like code the user named; omit the field entirely when no currency was mentioned.`, docType)
}
