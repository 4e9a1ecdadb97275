package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestErrorKinds(t *testing.T) {
	cfgErr := NewConfigurationErrorf("epoch", "%d out of range", 10000)
	test.That(t, cfgErr.Error(), test.ShouldContainSubstring, "epoch")
	test.That(t, IsConfigurationError(cfgErr), test.ShouldBeTrue)
	test.That(t, IsInputError(cfgErr), test.ShouldBeFalse)

	wrapped := errors.Wrap(NewInputError("cat.jpg", errors.New("not an image")), "detect")
	test.That(t, IsInputError(wrapped), test.ShouldBeTrue)
	test.That(t, wrapped.Error(), test.ShouldContainSubstring, "cat.jpg")

	shapeErr := NewShapeMismatchError(7, 6)
	test.That(t, IsShapeMismatchError(shapeErr), test.ShouldBeTrue)
	test.That(t, shapeErr.Error(), test.ShouldContainSubstring, "7 values")

	ioErr := NewIOError("/nope/out.txt", os.ErrPermission)
	test.That(t, IsIOError(ioErr), test.ShouldBeTrue)
	test.That(t, errors.Is(ioErr, os.ErrPermission), test.ShouldBeTrue)
}

func TestCheckNonEmptyFile(t *testing.T) {
	dir := t.TempDir()

	err := CheckNonEmptyFile(filepath.Join(dir, "missing.params"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "does not exist")

	empty := filepath.Join(dir, "empty.params")
	test.That(t, os.WriteFile(empty, nil, 0o600), test.ShouldBeNil)
	err = CheckNonEmptyFile(empty)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "empty")

	err = CheckNonEmptyFile(dir)
	test.That(t, err, test.ShouldNotBeNil)

	full := filepath.Join(dir, "full.params")
	test.That(t, os.WriteFile(full, []byte{1}, 0o600), test.ShouldBeNil)
	test.That(t, CheckNonEmptyFile(full), test.ShouldBeNil)
}
