package rimage

import (
	"image"
	"image/color"
	"testing"

	"github.com/fogleman/gg"
	"go.viam.com/test"
)

func TestDrawRectangleEmpty(t *testing.T) {
	dc := gg.NewContext(50, 50)
	red := color.NRGBA{255, 0, 0, 255}
	DrawRectangleEmpty(dc, image.Rect(10, 10, 30, 30), red, 3)
	out := NewImageFromStdImage(dc.Image())

	at := func(x, y int) []uint8 {
		i := 3 * (y*out.Width() + x)
		return out.Pix()[i : i+3]
	}
	// the outline and its two outer offsets
	test.That(t, at(20, 10), test.ShouldResemble, []uint8{255, 0, 0})
	test.That(t, at(20, 9), test.ShouldResemble, []uint8{255, 0, 0})
	test.That(t, at(20, 8), test.ShouldResemble, []uint8{255, 0, 0})
	test.That(t, at(32, 20), test.ShouldResemble, []uint8{255, 0, 0})
	// outside the thickness and inside the box stay untouched
	test.That(t, at(20, 7), test.ShouldResemble, []uint8{0, 0, 0})
	test.That(t, at(20, 11), test.ShouldResemble, []uint8{0, 0, 0})
	test.That(t, at(20, 20), test.ShouldResemble, []uint8{0, 0, 0})
}

func TestDrawLabelPlacement(t *testing.T) {
	dc := gg.NewContext(200, 100)
	bg := color.NRGBA{0, 0, 255, 128}
	box := DrawLabel(dc, "cat: 0.90", image.Pt(20, 50), bg, color.White, 12)
	test.That(t, box.Max.Y, test.ShouldEqual, 50)
	test.That(t, box.Min.X, test.ShouldEqual, 20)
	test.That(t, box.Dx(), test.ShouldBeGreaterThan, 0)

	// no room above: the label goes below the anchor
	box = DrawLabel(dc, "cat: 0.90", image.Pt(20, 2), bg, color.White, 12)
	test.That(t, box.Min.Y, test.ShouldEqual, 2)
}

func TestPalette(t *testing.T) {
	p := NewPalette(20)
	test.That(t, p, test.ShouldHaveLength, 20)
	test.That(t, NewPalette(20), test.ShouldResemble, p)
	test.That(t, p.Color(3), test.ShouldResemble, ClassColor(3))
	test.That(t, p.Color(42), test.ShouldResemble, ClassColor(42))

	seen := map[color.NRGBA]bool{}
	for _, c := range p {
		test.That(t, c.A, test.ShouldEqual, 255)
		seen[c] = true
	}
	test.That(t, len(seen), test.ShouldEqual, 20)
	test.That(t, NewPalette(-1), test.ShouldHaveLength, 0)
}

func TestFitToDisplay(t *testing.T) {
	img := NewImage(400, 200, 3)
	test.That(t, FitToDisplay(img, 0), test.ShouldEqual, img)
	test.That(t, FitToDisplay(img, 500), test.ShouldEqual, img)

	fit := FitToDisplay(img, 100)
	test.That(t, fit.Width(), test.ShouldEqual, 100)
	test.That(t, fit.Height(), test.ShouldEqual, 50)
}
