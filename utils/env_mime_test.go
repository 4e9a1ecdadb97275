package utils

import (
	"testing"

	"go.viam.com/test"
)

func TestMimeTypeFromPath(t *testing.T) {
	test.That(t, MimeTypeFromPath("a/b/cat.JPG"), test.ShouldEqual, MimeTypeJPEG)
	test.That(t, MimeTypeFromPath("cat.jpeg"), test.ShouldEqual, MimeTypeJPEG)
	test.That(t, MimeTypeFromPath("cat.png"), test.ShouldEqual, MimeTypePNG)
	test.That(t, MimeTypeFromPath("cat.webp"), test.ShouldEqual, MimeTypeWEBP)
	test.That(t, MimeTypeFromPath("cat"), test.ShouldEqual, "")
	test.That(t, MimeTypeFromPath("cat.txt"), test.ShouldEqual, "")
}

func TestGetenvDefault(t *testing.T) {
	t.Setenv("SSD_TEST_VALUE", "")
	test.That(t, GetenvDefault("SSD_TEST_VALUE", "fallback"), test.ShouldEqual, "fallback")
	t.Setenv("SSD_TEST_VALUE", "set")
	test.That(t, GetenvDefault("SSD_TEST_VALUE", "fallback"), test.ShouldEqual, "set")
}
