package rimage

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// goldenAngle spreads consecutive class hues as far apart as possible.
const goldenAngle = 137.50776405003785

// Palette maps a class id to its drawing color.
type Palette []color.NRGBA

// ClassColor returns the color for a class id. It depends on nothing but the id.
func ClassColor(classID int) color.NRGBA {
	if classID < 0 {
		classID = -classID
	}
	hue := math.Mod(float64(classID)*goldenAngle, 360)
	// alternate saturation/value a little so neighbouring hues stay distinguishable
	sat := 0.85 - 0.15*float64(classID%2)
	val := 0.95 - 0.10*float64((classID/2)%2)
	r, g, b := colorful.Hsv(hue, sat, val).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

// NewPalette precomputes the colors of class ids [0, n).
func NewPalette(n int) Palette {
	if n < 0 {
		n = 0
	}
	p := make(Palette, n)
	for i := range p {
		p[i] = ClassColor(i)
	}
	return p
}

// Color returns the color of classID, falling back to ClassColor outside the table.
func (p Palette) Color(classID int) color.NRGBA {
	if classID >= 0 && classID < len(p) {
		return p[classID]
	}
	return ClassColor(classID)
}
