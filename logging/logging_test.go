package logging

import (
	"testing"

	"go.viam.com/test"
)

func TestLevelFromString(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected Level
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{"Warn", WARN},
		{"warning", WARN},
		{"error", ERROR},
	} {
		level, err := LevelFromString(tc.in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, tc.expected)
	}

	_, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "loud")
}

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Infow("detected", "count", 3)
	sub := logger.Sublogger("writer")
	sub.Warnf("could not open %s", "out.txt")

	test.That(t, logs.Len(), test.ShouldEqual, 2)
	test.That(t, logs.FilterMessage("detected").Len(), test.ShouldEqual, 1)
	entry := logs.FilterMessage("could not open out.txt").All()
	test.That(t, entry, test.ShouldHaveLength, 1)
	test.That(t, entry[0].LoggerName, test.ShouldEqual, "writer")
}

func TestSetLevel(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	test.That(t, logger.GetLevel(), test.ShouldEqual, DEBUG)

	logger.SetLevel(WARN)
	test.That(t, logger.GetLevel(), test.ShouldEqual, WARN)
	logger.Info("dropped")
	logger.Error("kept")
	test.That(t, logs.FilterMessage("dropped").Len(), test.ShouldEqual, 0)
	test.That(t, logs.FilterMessage("kept").Len(), test.ShouldEqual, 1)

	// subloggers share the parent's level
	logger.Sublogger("child").Info("also dropped")
	test.That(t, logs.FilterMessage("also dropped").Len(), test.ShouldEqual, 0)
}
