package ml

import (
	"github.com/pkg/errors"
)

// Tensor is an owned float32 buffer with an explicit shape.
type Tensor struct {
	Data  []float32
	Shape []int
}

// NewTensor allocates a zeroed tensor of the given shape.
func NewTensor(shape ...int) *Tensor {
	s := make([]int, len(shape))
	copy(s, shape)
	return &Tensor{Data: make([]float32, numElements(s)), Shape: s}
}

// Len returns the number of elements.
func (t *Tensor) Len() int {
	return len(t.Data)
}

// Validate checks that the shape describes the buffer.
func (t *Tensor) Validate() error {
	if len(t.Shape) == 0 {
		return errors.New("tensor has no shape")
	}
	for _, d := range t.Shape {
		if d <= 0 {
			return errors.Errorf("tensor shape %v has a non-positive dimension", t.Shape)
		}
	}
	if n := numElements(t.Shape); n != len(t.Data) {
		return errors.Errorf("tensor shape %v needs %d values, buffer has %d", t.Shape, n, len(t.Data))
	}
	return nil
}

// Shape64 returns the shape as int64, the form native runtimes expect.
func (t *Tensor) Shape64() []int64 {
	out := make([]int64, len(t.Shape))
	for i, d := range t.Shape {
		out[i] = int64(d)
	}
	return out
}

func numElements(shape []int) int {
	if len(shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
