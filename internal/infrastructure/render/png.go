package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/missiontoscale/quotla-api/internal/core/domain"
	"github.com/missiontoscale/quotla-api/internal/core/format"
)

const (
	pngMargin       = 24
	pngLineHeight   = 18
	pngMinWidth     = 480
	pngGlyphAdvance = 7
)

// renderPNG draws the plain-text summary onto a white canvas with the fixed
// 7x13 face. Image size follows the content so long item lists never clip.
func renderPNG(rec *domain.DocumentRecord) ([]byte, error) {
	lines := strings.Split(format.Text(rec), "\n")

	width := pngMinWidth
	for _, line := range lines {
		if w := len(line)*pngGlyphAdvance + 2*pngMargin; w > width {
			width = w
		}
	}
	height := len(lines)*pngLineHeight + 2*pngMargin

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(pngMargin, pngMargin+(i+1)*pngLineHeight)
		drawer.DrawString(line)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
