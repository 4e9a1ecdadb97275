package rimage

import (
	"github.com/disintegration/imaging"
)

// FitToDisplay scales img down so that neither side exceeds maxSize, keeping the aspect
// ratio. Images that already fit, and a non-positive maxSize, return img unchanged.
func FitToDisplay(img *Image, maxSize int) *Image {
	if maxSize <= 0 || (img.Width() <= maxSize && img.Height() <= maxSize) {
		return img
	}
	return NewImageFromStdImage(imaging.Fit(img.ToStd(), maxSize, maxSize, imaging.Lanczos))
}
