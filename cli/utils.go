package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// printf prints a message with a newline to w.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf prints a warning to w.
func warningf(w io.Writer, format string, a ...interface{}) {
	printf(w, "Warning: "+format, a...)
}

// samePath returns true if abs(path1) and abs(path2) are the same.
func samePath(path1, path2 string) (bool, error) {
	abs1, err := filepath.Abs(path1)
	if err != nil {
		return false, err
	}
	abs2, err := filepath.Abs(path2)
	if err != nil {
		return false, err
	}
	return abs1 == abs2, nil
}

// ensureDir creates dir if needed and checks that it is a directory.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return errors.Wrapf(err, "could not create directory: %s", dir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrapf(err, "could not stat directory: %s", dir)
	}
	if !info.IsDir() {
		return errors.Errorf("resolved path is not a directory: %s", dir)
	}
	return nil
}

// annotatedPath returns where the annotated copy of imagePath is written.
func annotatedPath(outDir, imagePath string) string {
	base := filepath.Base(imagePath)
	return filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+"_detections.jpg")
}
