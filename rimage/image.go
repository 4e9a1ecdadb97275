// Package rimage holds the interleaved pixel buffer the pipeline works on, along with the
// decoding, encoding, resizing and drawing primitives around it.
package rimage

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// Image is a row-major pixel buffer with interleaved channels. Color images carry 3 channels
// in R, G, B order, grayscale images carry 1.
type Image struct {
	pix                     []uint8
	width, height, channels int
}

// NewImage returns a zeroed image of the given size.
func NewImage(width, height, channels int) *Image {
	return &Image{
		pix:      make([]uint8, width*height*channels),
		width:    width,
		height:   height,
		channels: channels,
	}
}

// NewImageFromBuffer wraps an existing interleaved buffer. The buffer is not copied.
func NewImageFromBuffer(pix []uint8, width, height, channels int) *Image {
	return &Image{pix: pix, width: width, height: height, channels: channels}
}

// NewImageFromStdImage converts a decoded image. Grayscale sources keep a single channel,
// everything else becomes 3-channel RGB with alpha dropped.
func NewImageFromStdImage(img image.Image) *Image {
	b := img.Bounds()
	switch src := img.(type) {
	case *image.Gray:
		out := NewImage(b.Dx(), b.Dy(), 1)
		for y := 0; y < out.height; y++ {
			start := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.pix[y*out.width:(y+1)*out.width], src.Pix[start:start+out.width])
		}
		return out
	case *image.Gray16:
		out := NewImage(b.Dx(), b.Dy(), 1)
		for y := 0; y < out.height; y++ {
			for x := 0; x < out.width; x++ {
				out.pix[y*out.width+x] = uint8(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y >> 8)
			}
		}
		return out
	case *image.RGBA:
		out := NewImage(b.Dx(), b.Dy(), 3)
		for y := 0; y < out.height; y++ {
			in := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			dst := out.pix[y*out.width*3:]
			for x := 0; x < out.width; x++ {
				dst[3*x] = in[4*x]
				dst[3*x+1] = in[4*x+1]
				dst[3*x+2] = in[4*x+2]
			}
		}
		return out
	}

	out := NewImage(b.Dx(), b.Dy(), 3)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.pix[i] = c.R
			out.pix[i+1] = c.G
			out.pix[i+2] = c.B
			i += 3
		}
	}
	return out
}

// Width returns the width in pixels.
func (i *Image) Width() int {
	return i.width
}

// Height returns the height in pixels.
func (i *Image) Height() int {
	return i.height
}

// Channels returns the number of interleaved channels per pixel.
func (i *Image) Channels() int {
	return i.channels
}

// Pix returns the underlying buffer. Callers must not modify it.
func (i *Image) Pix() []uint8 {
	return i.pix
}

// Empty reports whether the image has no pixels.
func (i *Image) Empty() bool {
	return i.width <= 0 || i.height <= 0 || len(i.pix) == 0
}

// Bounds returns the image rectangle, anchored at the origin.
func (i *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.width, i.height)
}

// Clone returns a deep copy.
func (i *Image) Clone() *Image {
	pix := make([]uint8, len(i.pix))
	copy(pix, i.pix)
	return NewImageFromBuffer(pix, i.width, i.height, i.channels)
}

// ToStd copies the image into a freshly allocated *image.RGBA (or *image.Gray for single
// channel images).
func (i *Image) ToStd() image.Image {
	if i.channels == 1 {
		out := image.NewGray(i.Bounds())
		copy(out.Pix, i.pix)
		return out
	}
	out := image.NewRGBA(i.Bounds())
	for p := 0; p < i.width*i.height; p++ {
		out.Pix[4*p] = i.pix[i.channels*p]
		out.Pix[4*p+1] = i.pix[i.channels*p+1]
		out.Pix[4*p+2] = i.pix[i.channels*p+2]
		out.Pix[4*p+3] = 0xff
	}
	return out
}

// Resize returns a bilinear-resampled copy of the image with the given size.
func (i *Image) Resize(width, height int) *Image {
	resized := resize.Resize(uint(width), uint(height), i.ToStd(), resize.Bilinear)
	return NewImageFromStdImage(resized)
}
