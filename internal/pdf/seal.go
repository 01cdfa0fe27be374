package pdf

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const sealSize = 256

func loadFontFace(size float64) (font.Face, error) {
	parsed, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsed, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

// drawSeal renders the round badge placed in the certificate corner.
func drawSeal() ([]byte, error) {
	const half = float64(sealSize) / 2

	dc := gg.NewContext(sealSize, sealSize)

	dc.DrawCircle(half, half, half-4)
	dc.SetColor(color.NRGBA{R: 0, G: 0, B: 139, A: 255})
	dc.Fill()

	dc.SetLineWidth(6)
	dc.DrawCircle(half, half, half-22)
	dc.SetColor(color.NRGBA{R: 255, G: 140, B: 30, A: 255})
	dc.Stroke()

	title, err := loadFontFace(34)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(title)
	dc.SetColor(color.White)
	dc.DrawStringAnchored("CyberAware", half, half-14, 0.5, 0.5)

	sub, err := loadFontFace(22)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(sub)
	dc.DrawStringAnchored("CERTIFIED", half, half+26, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
