package rimage

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

var font *truetype.Font

// init sets up the fonts we want to use.
func init() {
	var err error
	font, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// Font returns the font we use for drawing.
func Font() *truetype.Font {
	return font
}

// DrawRectangleEmpty draws the outline of r. A thickness above one is made of that many
// 1px outlines, each offset one pixel outward from the previous.
func DrawRectangleEmpty(dc *gg.Context, r image.Rectangle, c color.Color, thickness int) {
	dc.SetColor(c)
	if thickness < 1 {
		thickness = 1
	}
	for i := 0; i < thickness; i++ {
		o := r.Inset(-i)
		drawSegment(dc, o.Min.X, o.Min.Y, o.Max.X, o.Min.Y) // top
		drawSegment(dc, o.Min.X, o.Max.Y, o.Max.X, o.Max.Y) // bottom
		drawSegment(dc, o.Min.X, o.Min.Y, o.Min.X, o.Max.Y) // left
		drawSegment(dc, o.Max.X, o.Min.Y, o.Max.X, o.Max.Y) // right
	}
}

// drawSegment fills the pixels of an axis-aligned segment, end points included.
func drawSegment(dc *gg.Context, x0, y0, x1, y1 int) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	dc.DrawRectangle(float64(x0), float64(y0), float64(x1-x0+1), float64(y1-y0+1))
	dc.Fill()
}

// DrawLabel writes text on a filled background whose bottom-left corner sits at anchor. The
// label moves below the anchor when it would leave the top of the canvas. The background is
// painted with bg (typically translucent) and the text twice: once blended with the
// background, once on top at full opacity.
func DrawLabel(dc *gg.Context, text string, anchor image.Point, bg, fg color.Color, size float64) image.Rectangle {
	dc.SetFontFace(truetype.NewFace(Font(), &truetype.Options{Size: size}))
	w, h := dc.MeasureString(text)
	pad := size / 4
	boxW, boxH := int(w+2*pad+0.5), int(h+2*pad+0.5)

	top := anchor.Y - boxH
	if top < 0 {
		top = anchor.Y
	}
	box := image.Rect(anchor.X, top, anchor.X+boxW, top+boxH)

	dc.SetColor(bg)
	dc.DrawRectangle(float64(box.Min.X), float64(box.Min.Y), float64(box.Dx()), float64(box.Dy()))
	dc.Fill()

	textAt := func(c color.Color) {
		dc.SetColor(c)
		dc.DrawStringAnchored(text, float64(box.Min.X)+pad, float64(box.Min.Y)+pad, 0, 1)
	}
	r, g, b, _ := fg.RGBA()
	textAt(color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 0x80})
	textAt(fg)
	return box
}
