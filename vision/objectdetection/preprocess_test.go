package objectdetection

import (
	"bytes"
	"testing"

	"go.viam.com/test"

	"go.viam.com/ssd/rimage"
	"go.viam.com/ssd/utils"
)

func uniformImage(w, h int, rgb [3]uint8) *rimage.Image {
	pix := bytes.Repeat(rgb[:], w*h)
	return rimage.NewImageFromBuffer(pix, w, h, 3)
}

func TestPreprocess(t *testing.T) {
	img := uniformImage(8, 6, [3]uint8{100, 150, 200})
	before := img.Clone()
	cfg := PreprocessConfig{Width: 3, Height: 2, Mean: [3]float32{123, 117, 104}}

	tensor, err := Preprocess(img, cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tensor.Shape, test.ShouldResemble, []int{1, 3, 2, 3})
	test.That(t, tensor.Validate(), test.ShouldBeNil)
	for i := 0; i < 6; i++ {
		test.That(t, tensor.Data[i], test.ShouldEqual, float32(-23))
		test.That(t, tensor.Data[6+i], test.ShouldEqual, float32(33))
		test.That(t, tensor.Data[12+i], test.ShouldEqual, float32(96))
	}
	test.That(t, img, test.ShouldResemble, before)

	again, err := Preprocess(img, cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, again, test.ShouldResemble, tensor)
}

func TestPreprocessDeterministic(t *testing.T) {
	pix := make([]uint8, 5*4*3)
	for i := range pix {
		pix[i] = uint8(i * 13)
	}
	img := rimage.NewImageFromBuffer(pix, 5, 4, 3)
	cfg := PreprocessConfig{Width: 7, Height: 3, Mean: [3]float32{1, 2, 3}}
	a, err := Preprocess(img, cfg)
	test.That(t, err, test.ShouldBeNil)
	b, err := Preprocess(img, cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a.Data, test.ShouldResemble, b.Data)
}

func TestPreprocessRejects(t *testing.T) {
	cfg := PreprocessConfig{Width: 3, Height: 3}

	gray := rimage.NewImage(4, 4, 1)
	_, err := Preprocess(gray, cfg)
	test.That(t, utils.IsInputError(err), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "1 channels")

	_, err = Preprocess(rimage.NewImage(0, 0, 3), cfg)
	test.That(t, utils.IsInputError(err), test.ShouldBeTrue)

	_, err = Preprocess(uniformImage(2, 2, [3]uint8{}), PreprocessConfig{})
	test.That(t, err, test.ShouldNotBeNil)
}
