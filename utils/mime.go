package utils

import (
	"path/filepath"
	"strings"
)

const (
	// MimeTypeJPEG is regular jpgs.
	MimeTypeJPEG = "image/jpeg"

	// MimeTypePNG is regular pngs.
	MimeTypePNG = "image/png"

	// MimeTypeGIF is gifs, decode only.
	MimeTypeGIF = "image/gif"

	// MimeTypeBMP is bitmaps, decode only.
	MimeTypeBMP = "image/bmp"

	// MimeTypeTIFF is tiffs, decode only.
	MimeTypeTIFF = "image/tiff"

	// MimeTypeWEBP is webp, decode only.
	MimeTypeWEBP = "image/webp"
)

var extensionMimeTypes = map[string]string{
	".jpg":  MimeTypeJPEG,
	".jpeg": MimeTypeJPEG,
	".png":  MimeTypePNG,
	".gif":  MimeTypeGIF,
	".bmp":  MimeTypeBMP,
	".tif":  MimeTypeTIFF,
	".tiff": MimeTypeTIFF,
	".webp": MimeTypeWEBP,
}

// MimeTypeFromPath returns the image mime type implied by the extension of path, or the
// empty string.
func MimeTypeFromPath(path string) string {
	return extensionMimeTypes[strings.ToLower(filepath.Ext(path))]
}
