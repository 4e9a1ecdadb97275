package ml

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"go.viam.com/ssd/utils"
)

const (
	// MaxEpoch is the highest epoch a 4-digit model file name can carry.
	MaxEpoch = 9999
	// DefaultInputName is the input tensor name used when the definition does not give one.
	DefaultInputName = "data"
	// DefaultOutputName is the output tensor name used when the definition does not give one.
	DefaultOutputName = "detection"
)

// ModelFiles locates the two files a model is made of.
type ModelFiles struct {
	Params     string
	Definition string
}

// ModelFilePaths derives the file names for prefix and epoch without touching the filesystem:
// "<prefix>-<epoch:04d>.params" and "<prefix>-symbol.json".
func ModelFilePaths(prefix string, epoch int) ModelFiles {
	return ModelFiles{
		Params:     fmt.Sprintf("%s-%04d.params", prefix, epoch),
		Definition: prefix + "-symbol.json",
	}
}

// ValidateEpoch checks the epoch range.
func ValidateEpoch(epoch int) error {
	if epoch < 0 || epoch > MaxEpoch {
		return utils.NewConfigurationErrorf("epoch", "%d is outside [0, %d]", epoch, MaxEpoch)
	}
	return nil
}

// ResolveModelFiles validates the epoch, then checks that both model files exist and are not
// empty. The epoch is checked before any file access.
func ResolveModelFiles(prefix string, epoch int) (ModelFiles, error) {
	if err := ValidateEpoch(epoch); err != nil {
		return ModelFiles{}, err
	}
	if prefix == "" {
		return ModelFiles{}, utils.NewConfigurationError("model_prefix", errors.New("must not be empty"))
	}
	files := ModelFilePaths(prefix, epoch)
	if err := utils.CheckNonEmptyFile(files.Params); err != nil {
		return ModelFiles{}, utils.NewConfigurationError("model parameters", err)
	}
	if err := utils.CheckNonEmptyFile(files.Definition); err != nil {
		return ModelFiles{}, utils.NewConfigurationError("model definition", err)
	}
	return files, nil
}

// TensorInfo names a model input or output and optionally fixes its shape.
type TensorInfo struct {
	Name  string `json:"name"`
	Shape []int  `json:"shape,omitempty"`
}

// Definition is the model definition file: which framework produced the parameters and how
// the single input and output are bound.
type Definition struct {
	Framework string     `json:"framework"`
	Input     TensorInfo `json:"input"`
	Output    TensorInfo `json:"output"`
}

// ReadDefinition parses the definition file at path, filling in default tensor names.
func ReadDefinition(path string) (*Definition, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.NewConfigurationError("model definition", err)
	}
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, utils.NewConfigurationError("model definition", errors.Wrapf(err, "cannot parse %q", path))
	}
	if def.Input.Name == "" {
		def.Input.Name = DefaultInputName
	}
	if def.Output.Name == "" {
		def.Output.Name = DefaultOutputName
	}
	if len(def.Output.Shape) > 0 {
		if n := numElements(def.Output.Shape); n <= 0 || n%DetectionStride != 0 {
			return nil, utils.NewConfigurationError("model definition",
				errors.Errorf("output shape %v in %q is not made of %d-value records", def.Output.Shape, path, DetectionStride))
		}
	}
	return &def, nil
}
