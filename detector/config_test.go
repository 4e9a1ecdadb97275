package detector

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/ssd/utils"
)

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPrefix = "model/ssd"
	test.That(t, cfg.Validate("model"), test.ShouldBeNil)

	for name, tc := range map[string]struct {
		mutate func(*Config)
		field  string
	}{
		"negative epoch": {func(c *Config) { c.Epoch = -1 }, "model.epoch"},
		"huge epoch":     {func(c *Config) { c.Epoch = 10000 }, "model.epoch"},
		"no prefix":      {func(c *Config) { c.ModelPrefix = "" }, "model.model_prefix"},
		"zero width":     {func(c *Config) { c.Width = 0 }, "model.width/height"},
		"bad device":     {func(c *Config) { c.Device = "npu" }, "model.device"},
		"no backend":     {func(c *Config) { c.Backend = "" }, "model.backend"},
	} {
		t.Run(name, func(t *testing.T) {
			c := cfg
			tc.mutate(&c)
			err := c.Validate("model")
			test.That(t, utils.IsConfigurationError(err), test.ShouldBeTrue)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.field)
		})
	}

	cfg.Epoch = 9999
	test.That(t, cfg.Validate(""), test.ShouldBeNil)
}
