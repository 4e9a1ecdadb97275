package utils

import (
	"os"

	"github.com/pkg/errors"
)

// CheckNonEmptyFile returns an error unless path names a regular file with content.
func CheckNonEmptyFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Errorf("file %q does not exist", path)
		}
		return errors.Wrapf(err, "cannot stat %q", path)
	}
	if info.IsDir() {
		return errors.Errorf("%q is a directory", path)
	}
	if info.Size() == 0 {
		return errors.Errorf("file %q is empty", path)
	}
	return nil
}
