package utils

import (
	"os"
	"strings"

	"go.viam.com/ssd/logging"
)

const (
	// EnvVarPrefix is the prefix for all ssd-detect environment variables.
	EnvVarPrefix = "SSD_"

	// ConfigEnvVar names a config file used when no --config flag is given.
	ConfigEnvVar = "SSD_CONFIG"

	// OnnxRuntimeLibEnvVar is the onnxruntime shared library used when the backend options
	// do not name one.
	OnnxRuntimeLibEnvVar = "SSD_ONNXRUNTIME_LIB"
)

// GetenvDefault returns the value of key, or def when it is unset or empty.
func GetenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// LogEnvVariables logs the ssd-detect environment variables found in [os.Environ].
func LogEnvVariables(msg string, logger logging.Logger) {
	var env []string
	for _, v := range os.Environ() {
		if strings.HasPrefix(v, EnvVarPrefix) {
			env = append(env, v)
		}
	}
	if len(env) != 0 {
		logger.Debugw(msg, "environment", env)
	}
}
