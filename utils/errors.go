package utils

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigurationError is raised while building a detector: an invalid parameter or a missing
// model file. A detector is never returned alongside one.
type ConfigurationError struct {
	Param string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %q: %v", e.Param, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// InputError is raised for a single image (or label file) that cannot be used. It only stops
// processing of that input.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid input: %v", e.Err)
	}
	return fmt.Sprintf("invalid input %q: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// ShapeMismatchError is raised when a detection buffer is not made of whole 6-value records.
type ShapeMismatchError struct {
	Size   int
	Stride int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("detection output has %d values, not a multiple of %d", e.Size, e.Stride)
}

// IOError is raised when an output (result file, image, database) cannot be written.
// Callers report it as a warning.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cannot write %q: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewConfigurationError is used when the detector configuration field param is invalid.
func NewConfigurationError(param string, err error) error {
	return &ConfigurationError{Param: param, Err: err}
}

// NewConfigurationErrorf is NewConfigurationError with a formatted cause.
func NewConfigurationErrorf(param, format string, args ...interface{}) error {
	return &ConfigurationError{Param: param, Err: errors.Errorf(format, args...)}
}

// NewInputError is used when the input at path cannot be processed.
func NewInputError(path string, err error) error {
	return &InputError{Path: path, Err: err}
}

// NewShapeMismatchError is used when a buffer of size values cannot be split in stride-sized records.
func NewShapeMismatchError(size, stride int) error {
	return &ShapeMismatchError{Size: size, Stride: stride}
}

// NewIOError is used when the output at path cannot be written.
func NewIOError(path string, err error) error {
	return &IOError{Path: path, Err: err}
}

// IsConfigurationError reports whether err has a ConfigurationError in its chain.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsInputError reports whether err has an InputError in its chain.
func IsInputError(err error) bool {
	var target *InputError
	return errors.As(err, &target)
}

// IsShapeMismatchError reports whether err has a ShapeMismatchError in its chain.
func IsShapeMismatchError(err error) bool {
	var target *ShapeMismatchError
	return errors.As(err, &target)
}

// IsIOError reports whether err has an IOError in its chain.
func IsIOError(err error) bool {
	var target *IOError
	return errors.As(err, &target)
}

// UncheckedError is used in places where it is safe to ignore an error.
func UncheckedError(err error) {
	_ = err
}

// UncheckedErrorFunc calls f and ignores its error.
func UncheckedErrorFunc(f func() error) {
	UncheckedError(f())
}
