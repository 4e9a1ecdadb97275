// Package gocvnet runs detection models through the OpenCV dnn module.
package gocvnet

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gocv.io/x/gocv"

	"go.viam.com/ssd/logging"
	"go.viam.com/ssd/ml"
	"go.viam.com/ssd/utils"
)

// BackendName is the name the backend registers under.
const BackendName = "gocv"

// OptionConfig is the path to a framework specific network description (a .pbtxt or .prototxt).
const OptionConfig = "config"

// DefaultFramework is used when the model definition does not name one.
const DefaultFramework = "onnx"

func init() {
	ml.RegisterBackend(BackendName, NewPredictor)
}

type predictor struct {
	logger     logging.Logger
	net        gocv.Net
	inputName  string
	outputName string
}

// NewPredictor reads the network from the model parameters.
func NewPredictor(ctx context.Context, cfg ml.BackendConfig, logger logging.Logger) (ml.Predictor, error) {
	def := cfg.Definition
	if def == nil {
		def = &ml.Definition{Input: ml.TensorInfo{Name: ml.DefaultInputName}, Output: ml.TensorInfo{Name: ml.DefaultOutputName}}
	}
	framework := def.Framework
	if framework == "" {
		framework = DefaultFramework
	}
	//nolint:gosec
	params, err := os.ReadFile(cfg.Files.Params)
	if err != nil {
		return nil, utils.NewConfigurationError("model parameters", err)
	}
	var netConfig []byte
	if path := cfg.Options[OptionConfig]; path != "" {
		//nolint:gosec
		if netConfig, err = os.ReadFile(path); err != nil {
			return nil, utils.NewConfigurationError(OptionConfig, err)
		}
	}

	net, err := gocv.ReadNetBytes(framework, params, netConfig)
	if err != nil {
		return nil, utils.NewConfigurationError("model parameters", errors.Wrapf(err, "cannot read %s network", framework))
	}
	if net.Empty() {
		return nil, multierr.Combine(
			utils.NewConfigurationErrorf("model parameters", "%q holds no %s network", cfg.Files.Params, framework),
			net.Close())
	}

	backend, target := gocv.NetBackendDefault, gocv.NetTargetCPU
	if cfg.Device.IsGPU() {
		backend, target = gocv.NetBackendCUDA, gocv.NetTargetCUDA
	}
	if err := multierr.Combine(net.SetPreferableBackend(backend), net.SetPreferableTarget(target)); err != nil {
		return nil, multierr.Combine(utils.NewConfigurationError("device", err), net.Close())
	}

	logger.Debugw("opencv network loaded", "params", cfg.Files.Params, "framework", framework, "device", cfg.Device.String())
	return &predictor{
		logger:     logger,
		net:        net,
		inputName:  def.Input.Name,
		outputName: def.Output.Name,
	}, nil
}

func (p *predictor) Forward(ctx context.Context, input *ml.Tensor) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	blob := gocv.NewMatWithSizes(input.Shape, gocv.MatTypeCV32F)
	defer blob.Close()
	dst, err := blob.DataPtrFloat32()
	if err != nil {
		return nil, err
	}
	copy(dst, input.Data)

	p.net.SetInput(blob, p.inputName)
	out := p.net.Forward(p.outputName)
	defer out.Close()
	if out.Empty() {
		return nil, errors.New("opencv forward pass produced no output")
	}
	raw, err := out.DataPtrFloat32()
	if err != nil {
		return nil, err
	}
	if err := ml.CheckDetectionShape(raw); err != nil {
		return nil, err
	}
	res := make([]float32, len(raw))
	copy(res, raw)
	return res, nil
}

func (p *predictor) Close(ctx context.Context) error {
	return p.net.Close()
}
