package objectdetection

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"go.viam.com/ssd/rimage"
)

// Overlay defaults.
const (
	DefaultThickness = 3
	DefaultFontSize  = 12
	labelAlpha       = 0xb0
)

// OverlayConfig controls how detections are drawn.
type OverlayConfig struct {
	Thickness int
	FontSize  float64
}

func (cfg OverlayConfig) withDefaults() OverlayConfig {
	if cfg.Thickness <= 0 {
		cfg.Thickness = DefaultThickness
	}
	if cfg.FontSize <= 0 {
		cfg.FontSize = DefaultFontSize
	}
	return cfg
}

// Overlay draws the normalized detections onto a copy of img. Each class gets a fixed color;
// the label reads "name: score" and sits above the box, or inside it at the top edge of the
// canvas.
func Overlay(img *rimage.Image, dets []Detection, labels Labels, cfg OverlayConfig) *rimage.Image {
	cfg = cfg.withDefaults()
	dc := gg.NewContextForImage(img.ToStd())

	// ids outside the labels get their color computed on demand
	palette := rimage.NewPalette(len(labels))

	for _, d := range Denormalize(dets, img.Width(), img.Height()) {
		c := palette.Color(d.ClassID)
		r := d.Box.Rect()
		rimage.DrawRectangleEmpty(dc, r, c, cfg.Thickness)

		bg := c
		bg.A = labelAlpha
		text := fmt.Sprintf("%s: %.2f", labels.Name(d.ClassID), d.Score)
		rimage.DrawLabel(dc, text, r.Min, bg, color.White, cfg.FontSize)
	}
	return rimage.NewImageFromStdImage(dc.Image())
}
