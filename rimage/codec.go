package rimage

import (
	"bufio"
	"image"
	// register the standard raster formats.
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	_ "github.com/lmittmann/ppm" // register ppm
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"go.viam.com/ssd/utils"
)

// JPEGQuality is the fixed quality used for every encoded jpeg.
const JPEGQuality = 90

// DecodeImage decodes any registered raster format and returns the image with its format name.
func DecodeImage(r io.Reader) (*Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	return NewImageFromStdImage(img), format, nil
}

// NewImageFromFile decodes the image stored at path.
func NewImageFromFile(path string) (*Image, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		//nolint:errcheck
		f.Close()
	}()

	img, _, err := DecodeImage(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot decode %q", path)
	}
	return img, nil
}

// EncodeImage writes img to w as utils.MimeTypePNG or utils.MimeTypeJPEG.
func EncodeImage(w io.Writer, img *Image, mimeType string) error {
	switch mimeType {
	case utils.MimeTypePNG:
		return png.Encode(w, img.ToStd())
	case utils.MimeTypeJPEG:
		return jpeg.Encode(w, img.ToStd(), &jpeg.Options{Quality: JPEGQuality})
	default:
		return errors.Errorf("unsupported output type %q", mimeType)
	}
}

// WriteImageToFile encodes img according to the extension of path (png, otherwise jpeg).
func WriteImageToFile(path string, img *Image) (err error) {
	format := utils.MimeTypeJPEG
	if utils.MimeTypeFromPath(path) == utils.MimeTypePNG {
		format = utils.MimeTypePNG
	}
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	w := bufio.NewWriter(f)
	if err := EncodeImage(w, img, format); err != nil {
		return err
	}
	return w.Flush()
}
