package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
	"github.com/missiontoscale/quotla-api/internal/core/format"
)

// Single-page A4 layout constants, in points.
const (
	pdfPageWidth  = 595
	pdfPageHeight = 842
	pdfMarginLeft = 56
	pdfMarginTop  = 64
	pdfFontSize   = 11
	pdfLeading    = 16
)

// renderPDF writes a minimal single-page PDF by hand: one Helvetica text
// object per line of the plain-text summary. Good enough for a download link;
// layout-rich output is the front end's job.
func renderPDF(rec *domain.DocumentRecord) ([]byte, error) {
	lines := strings.Split(format.Text(rec), "\n")

	var content bytes.Buffer
	content.WriteString("BT\n")
	fmt.Fprintf(&content, "/F1 %d Tf\n", pdfFontSize)
	fmt.Fprintf(&content, "%d %d Td\n", pdfMarginLeft, pdfPageHeight-pdfMarginTop)
	fmt.Fprintf(&content, "%d TL\n", pdfLeading)
	for i, line := range lines {
		if i > 0 {
			content.WriteString("T*\n")
		}
		fmt.Fprintf(&content, "(%s) Tj\n", escapePDFString(line))
	}
	content.WriteString("ET\n")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
			pdfPageWidth, pdfPageHeight),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects)+1)
	for i, body := range objects {
		offsets[i+1] = out.Len()
		fmt.Fprintf(&out, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefOffset := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(objects)+1)
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefOffset)

	return out.Bytes(), nil
}

func escapePDFString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
