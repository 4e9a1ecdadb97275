package detector

import (
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/ssd/ml"
	"go.viam.com/ssd/utils"
)

// Defaults for a 300x300 SSD trained on mean-subtracted RGB input.
const (
	DefaultWidth   = 300
	DefaultHeight  = 300
	DefaultMeanR   = 123
	DefaultMeanG   = 117
	DefaultMeanB   = 104
	DefaultDevice  = ml.CPU
	DefaultBackend = "onnx"
)

// Config describes the model a Detector runs and how its input is prepared.
type Config struct {
	ModelPrefix    string            `json:"model_prefix"`
	Epoch          int               `json:"epoch"`
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	MeanR          float32           `json:"mean_r"`
	MeanG          float32           `json:"mean_g"`
	MeanB          float32           `json:"mean_b"`
	Device         string            `json:"device"`
	Backend        string            `json:"backend"`
	BackendOptions map[string]string `json:"backend_options,omitempty"`
}

// DefaultConfig returns a config with everything but the model location filled in.
func DefaultConfig() Config {
	return Config{
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		MeanR:   DefaultMeanR,
		MeanG:   DefaultMeanG,
		MeanB:   DefaultMeanB,
		Device:  DefaultDevice,
		Backend: DefaultBackend,
	}
}

// Validate checks the config without touching the filesystem. path locates the config for
// error messages and may be empty.
func (conf *Config) Validate(path string) error {
	field := func(name string) string {
		if path == "" {
			return name
		}
		return fmt.Sprintf("%s.%s", path, name)
	}
	if err := ml.ValidateEpoch(conf.Epoch); err != nil {
		return utils.NewConfigurationError(field("epoch"), errors.Unwrap(err))
	}
	if conf.ModelPrefix == "" {
		return utils.NewConfigurationError(field("model_prefix"), errors.New("must not be empty"))
	}
	if conf.Width <= 0 || conf.Height <= 0 {
		return utils.NewConfigurationErrorf(field("width/height"), "input size %dx%d must be positive", conf.Width, conf.Height)
	}
	if _, err := ml.ParseDevice(conf.Device); err != nil {
		return utils.NewConfigurationError(field("device"), err)
	}
	if conf.Backend == "" {
		return utils.NewConfigurationError(field("backend"), errors.New("must not be empty"))
	}
	return nil
}

func (conf *Config) mean() [3]float32 {
	return [3]float32{conf.MeanR, conf.MeanG, conf.MeanB}
}
