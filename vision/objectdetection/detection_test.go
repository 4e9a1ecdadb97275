package objectdetection

import (
	"image"
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/ssd/utils"
)

var fixture = []float32{
	0, 0.9, 0.1, 0.1, 0.5, 0.5,
	-1, 0, 0, 0, 0, 0,
	2, 0.3, 0.2, 0.2, 0.6, 0.6,
}

func TestFilter(t *testing.T) {
	dets, err := Filter(fixture, 0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dets, test.ShouldHaveLength, 1)
	test.That(t, dets[0].ClassID, test.ShouldEqual, 0)
	test.That(t, Labels{"cat", "dog", "bird"}.Name(dets[0].ClassID), test.ShouldEqual, "cat")
	test.That(t, dets[0].Score, test.ShouldAlmostEqual, 0.9, 1e-6)

	t.Run("keeps order and drops padding at any threshold", func(t *testing.T) {
		dets, err := Filter(fixture, 0)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, dets, test.ShouldHaveLength, 2)
		test.That(t, dets[0].ClassID, test.ShouldEqual, 0)
		test.That(t, dets[1].ClassID, test.ShouldEqual, 2)
	})

	t.Run("score equal to threshold survives", func(t *testing.T) {
		dets, err := Filter([]float32{1, 0.5, 0, 0, 1, 1}, 0.5)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, dets, test.ShouldHaveLength, 1)
	})

	t.Run("NaN class or score is dropped", func(t *testing.T) {
		nan := float32(math.NaN())
		dets, err := Filter([]float32{
			nan, 0.9, 0.1, 0.1, 0.5, 0.5,
			1, nan, 0.1, 0.1, 0.5, 0.5,
			2, 0.8, 0.1, 0.1, 0.5, 0.5,
		}, 0.5)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, dets, test.ShouldHaveLength, 1)
		test.That(t, dets[0].ClassID, test.ShouldEqual, 2)

		dets, err = Filter([]float32{1, nan, 0, 0, 1, 1}, 0)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, dets, test.ShouldHaveLength, 0)
	})

	t.Run("empty", func(t *testing.T) {
		dets, err := Filter(nil, 0.5)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, dets, test.ShouldHaveLength, 0)
	})

	t.Run("partial record", func(t *testing.T) {
		_, err := Filter(fixture[:7], 0.5)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, utils.IsShapeMismatchError(err), test.ShouldBeTrue)
	})
}

func TestDenormalize(t *testing.T) {
	in := []Detection{{ClassID: 0, Score: 0.9, Box: Box{0.1, 0.1, 0.5, 0.5}}}
	out := Denormalize(in, 200, 100)
	test.That(t, out[0].Box.XMin, test.ShouldAlmostEqual, 20, 1e-9)
	test.That(t, out[0].Box.YMin, test.ShouldAlmostEqual, 10, 1e-9)
	test.That(t, out[0].Box.XMax, test.ShouldAlmostEqual, 100, 1e-9)
	test.That(t, out[0].Box.YMax, test.ShouldAlmostEqual, 50, 1e-9)
	test.That(t, out[0].Box.Rect(), test.ShouldResemble, image.Rect(20, 10, 100, 50))
	// the input keeps its normalized box
	test.That(t, in[0].Box, test.ShouldResemble, Box{0.1, 0.1, 0.5, 0.5})

	// from float32 model output
	dets, err := Filter(fixture, 0.5)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, Denormalize(dets, 200, 100)[0].Box.Rect(), test.ShouldResemble, image.Rect(20, 10, 100, 50))
}

func TestPostprocessors(t *testing.T) {
	dets := []Detection{
		{ClassID: 0, Score: 0.9, Box: Box{0, 0, 0.5, 0.5}},
		{ClassID: 1, Score: 0.4, Box: Box{0, 0, 0.1, 0.1}},
		{ClassID: 2, Score: 0.7, Box: Box{0.5, 0.5, 0.4, 0.9}},
	}
	test.That(t, NewScoreFilter(0.5)(dets), test.ShouldHaveLength, 2)
	test.That(t, NewAreaFilter(0.05)(dets), test.ShouldHaveLength, 1)

	both := Chain(NewScoreFilter(0.5), nil, NewAreaFilter(0.05))(dets)
	test.That(t, both, test.ShouldHaveLength, 1)
	test.That(t, both[0].ClassID, test.ShouldEqual, 0)

	test.That(t, Box{0.5, 0.5, 0.4, 0.9}.Area(), test.ShouldEqual, 0)
}
