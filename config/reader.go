package config

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"

	"go.viam.com/ssd/logging"
	"go.viam.com/ssd/utils"
)

// Read reads a config from the given file, expanding ${VAR} references from the environment.
// Fields missing from the file keep their defaults.
func Read(filePath string, logger logging.Logger) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, utils.NewConfigurationError(filePath, err)
	}
	return FromReader(filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies where, if applicable, the
// file the reader originated from.
func FromReader(originalPath string, r io.Reader, logger logging.Logger) (*Config, error) {
	var attributes map[string]interface{}
	if err := json.NewDecoder(r).Decode(&attributes); err != nil {
		return nil, utils.NewConfigurationError(originalPath, errors.Wrap(err, "cannot parse config"))
	}

	cfg := Default()
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:  "json",
		Result:   cfg,
		Metadata: &md,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, utils.NewConfigurationError(originalPath, err)
	}
	for _, key := range md.Unused {
		logger.Warnw("unknown config field", "path", originalPath, "field", key)
	}
	return cfg, nil
}
