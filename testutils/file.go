package testutils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.viam.com/ssd/ml"
	"go.viam.com/ssd/rimage"
)

// WriteModelFiles writes placeholder parameters and the given definition for a model named
// "ssd" in dir and returns its prefix.
func WriteModelFiles(t *testing.T, dir string, epoch int, definition string) string {
	t.Helper()
	prefix := filepath.Join(dir, "ssd")
	files := ml.ModelFilePaths(prefix, epoch)
	test.That(t, os.WriteFile(files.Params, []byte("weights"), 0o600), test.ShouldBeNil)
	test.That(t, os.WriteFile(files.Definition, []byte(definition), 0o600), test.ShouldBeNil)
	return prefix
}

// WriteUniformImage writes a w x h image with every sample set to value. The format follows
// the extension of path.
func WriteUniformImage(t *testing.T, path string, w, h, channels int, value uint8) {
	t.Helper()
	img := rimage.NewImageFromBuffer(bytes.Repeat([]uint8{value}, w*h*channels), w, h, channels)
	test.That(t, rimage.WriteImageToFile(path, img), test.ShouldBeNil)
}
