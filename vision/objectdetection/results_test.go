package objectdetection

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/ssd/utils"
)

func TestWriteResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	labels := Labels{"cat", "dog", "bird"}
	dets, err := Filter(fixture, 0)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, WriteResults(path, dets, labels, 0.5, 200, 100), test.ShouldBeNil)
	data, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldEqual, "cat\t0.9\t20\t10\t100\t50\n")

	// appends, never truncates
	test.That(t, WriteResults(path, dets, labels, 0.2, 200, 100), test.ShouldBeNil)
	data, err = os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	test.That(t, lines, test.ShouldHaveLength, 3)
	test.That(t, lines[2], test.ShouldStartWith, "bird\t0.3\t")

	err = WriteResults(filepath.Join(t.TempDir(), "missing", "results.txt"), dets, labels, 0.5, 200, 100)
	test.That(t, utils.IsIOError(err), test.ShouldBeTrue)
}

func TestResultsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	dets := []Detection{
		{ClassID: 0, Score: 0.91234, Box: Box{0.1, 0.2, 0.3, 0.4}},
		{ClassID: 7, Score: 0.55, Box: Box{0.05, 0.5, 0.95, 0.99}},
	}
	test.That(t, WriteResults(path, dets, Labels{"cat"}, 0.5, 640, 480), test.ShouldBeNil)

	got, err := ReadResultsFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldHaveLength, 2)
	want := Denormalize(dets, 640, 480)
	for i, r := range got {
		test.That(t, r.Score, test.ShouldAlmostEqual, want[i].Score, 1e-4)
		test.That(t, r.Box.XMin, test.ShouldAlmostEqual, want[i].Box.XMin, 1e-4)
		test.That(t, r.Box.YMin, test.ShouldAlmostEqual, want[i].Box.YMin, 1e-4)
		test.That(t, r.Box.XMax, test.ShouldAlmostEqual, want[i].Box.XMax, 1e-4)
		test.That(t, r.Box.YMax, test.ShouldAlmostEqual, want[i].Box.YMax, 1e-4)
	}
	test.That(t, got[0].Label, test.ShouldEqual, "cat")
	test.That(t, got[1].Label, test.ShouldEqual, "7")
}

func TestResultsRoundTripLargeImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	var dets []Detection
	for x := float32(0.5); x < 1; x += 0.00937 {
		dets = append(dets, Detection{ClassID: 0, Score: 0.9, Box: Box{
			float64(x) / 2, float64(x) / 3, float64(x), float64(x),
		}})
	}
	dets = append(dets, Detection{ClassID: 0, Score: 0.9, Box: Box{0.51249, 0.25, 0.75, 0.99999}})
	test.That(t, WriteResults(path, dets, nil, 0, 4032, 3024), test.ShouldBeNil)

	got, err := ReadResultsFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldHaveLength, len(dets))
	want := Denormalize(dets, 4032, 3024)
	for i, r := range got {
		test.That(t, r.Box.XMin, test.ShouldAlmostEqual, want[i].Box.XMin, 1e-4)
		test.That(t, r.Box.YMin, test.ShouldAlmostEqual, want[i].Box.YMin, 1e-4)
		test.That(t, r.Box.XMax, test.ShouldAlmostEqual, want[i].Box.XMax, 1e-4)
		test.That(t, r.Box.YMax, test.ShouldAlmostEqual, want[i].Box.YMax, 1e-4)
	}
}

func TestResultsLabelWithSeparators(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	dets := []Detection{{ClassID: 0, Score: 0.9, Box: Box{0.1, 0.1, 0.5, 0.5}}}
	test.That(t, WriteResults(path, dets, Labels{"hot\tdog\r"}, 0.5, 200, 100), test.ShouldBeNil)

	got, err := ReadResultsFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldHaveLength, 1)
	test.That(t, got[0].Label, test.ShouldEqual, "hot dog ")
}

func TestFormatCoord(t *testing.T) {
	test.That(t, formatCoord(20), test.ShouldEqual, "20")
	test.That(t, formatCoord(2066.35968), test.ShouldEqual, "2066.35968")
	test.That(t, formatCoord(12.5), test.ShouldEqual, "12.5")
	test.That(t, formatCoord(-0.000001), test.ShouldEqual, "0")
}

func TestReadResultsMalformed(t *testing.T) {
	_, err := ReadResults(strings.NewReader("cat\t0.9\t1\t2\t3\n"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "line 1")

	_, err = ReadResults(strings.NewReader("\ncat\t0.9\t1\t2\t3\tx\n"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "line 2")

	res, err := ReadResults(strings.NewReader("\n\n"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res, test.ShouldHaveLength, 0)

	_, err = ReadResultsFile(filepath.Join(t.TempDir(), "none"))
	test.That(t, utils.IsInputError(err), test.ShouldBeTrue)
}
