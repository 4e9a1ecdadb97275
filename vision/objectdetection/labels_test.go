package objectdetection

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.viam.com/ssd/utils"
)

func TestLoadLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	test.That(t, os.WriteFile(path, []byte("cat\r\ndog\n\nbird\n\n\n"), 0o600), test.ShouldBeNil)

	labels, err := LoadLabels(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, labels, test.ShouldResemble, Labels{"cat", "dog", "", "bird"})
	test.That(t, labels.Name(0), test.ShouldEqual, "cat")
	test.That(t, labels.Name(2), test.ShouldEqual, "2")
	test.That(t, labels.Name(3), test.ShouldEqual, "bird")
	test.That(t, labels.Name(4), test.ShouldEqual, "4")
	test.That(t, labels.Name(-1), test.ShouldEqual, "-1")

	_, err = LoadLabels(filepath.Join(t.TempDir(), "missing.txt"))
	test.That(t, utils.IsInputError(err), test.ShouldBeTrue)

	var none Labels
	test.That(t, none.Name(7), test.ShouldEqual, "7")
}
