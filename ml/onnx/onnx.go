// Package onnx runs detection models through ONNX Runtime.
package onnx

import (
	"context"
	"os"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/multierr"

	"go.viam.com/ssd/logging"
	"go.viam.com/ssd/ml"
	"go.viam.com/ssd/utils"
)

// BackendName is the name the backend registers under.
const BackendName = "onnx"

// Backend options.
const (
	// OptionLibrary is the path to the onnxruntime shared library. It defaults to
	// $SSD_ONNXRUNTIME_LIB.
	OptionLibrary = "library"
	// OptionThreads sets the intra-op thread count.
	OptionThreads = "threads"
)

func init() {
	ml.RegisterBackend(BackendName, NewPredictor)
}

// runtime entry points, replaced in tests.
var (
	ortIsInitialized      = func() bool { return ort.IsInitialized() }
	ortSetLibraryPath     = func(path string) { ort.SetSharedLibraryPath(path) }
	ortInitialize         = func() error { return ort.InitializeEnvironment() }
	ortDestroyEnvironment = func() error { return ort.DestroyEnvironment() }
)

var (
	envMu   sync.Mutex
	envRefs int
	// envOwned is set when this package initialized the environment and so must destroy it.
	envOwned bool
)

// acquireEnvironment initializes the process-wide runtime environment on first use, unless
// someone else already did.
func acquireEnvironment(library string) error {
	envMu.Lock()
	defer envMu.Unlock()
	if envRefs == 0 {
		envOwned = false
		if !ortIsInitialized() {
			if library != "" {
				ortSetLibraryPath(library)
			}
			if err := ortInitialize(); err != nil {
				return errors.Wrap(err, "cannot initialize onnxruntime")
			}
			envOwned = true
		}
	}
	envRefs++
	return nil
}

func releaseEnvironment() error {
	envMu.Lock()
	defer envMu.Unlock()
	if envRefs == 0 {
		return nil
	}
	envRefs--
	if envRefs > 0 || !envOwned {
		return nil
	}
	envOwned = false
	if !ortIsInitialized() {
		return nil
	}
	return ortDestroyEnvironment()
}

type predictor struct {
	logger     logging.Logger
	session    *ort.AdvancedSession
	input      *ort.Tensor[float32]
	output     *ort.Tensor[float32]
	inputShape []int
}

// NewPredictor loads the model parameters as an ONNX graph. The definition must fix the
// output shape since the output tensor is allocated up front.
func NewPredictor(ctx context.Context, cfg ml.BackendConfig, logger logging.Logger) (ml.Predictor, error) {
	if cfg.Definition == nil || len(cfg.Definition.Output.Shape) == 0 {
		return nil, utils.NewConfigurationError("model definition",
			errors.New("the onnx backend needs the output shape in the model definition"))
	}
	//nolint:gosec
	params, err := os.ReadFile(cfg.Files.Params)
	if err != nil {
		return nil, utils.NewConfigurationError("model parameters", err)
	}
	options, err := sessionOptions(cfg)
	if err != nil {
		return nil, err
	}
	library := cfg.Options[OptionLibrary]
	if library == "" {
		library = utils.GetenvDefault(utils.OnnxRuntimeLibEnvVar, "")
	}
	if err := acquireEnvironment(library); err != nil {
		return nil, multierr.Combine(err, options.destroy())
	}

	p, err := newSession(params, cfg, options)
	err = multierr.Combine(err, options.destroy())
	if err != nil {
		return nil, multierr.Combine(err, releaseEnvironment())
	}
	p.logger = logger
	logger.Debugw("onnx model loaded",
		"params", cfg.Files.Params, "input", cfg.Definition.Input.Name, "output", cfg.Definition.Output.Name,
		"device", cfg.Device.String())
	return p, nil
}

type sessionConfig struct {
	threads int
	device  ml.Device
	opts    *ort.SessionOptions
	cuda    *ort.CUDAProviderOptions
}

func sessionOptions(cfg ml.BackendConfig) (*sessionConfig, error) {
	sc := &sessionConfig{device: cfg.Device}
	if t, ok := cfg.Options[OptionThreads]; ok {
		n, err := strconv.Atoi(t)
		if err != nil || n < 1 {
			return nil, utils.NewConfigurationErrorf(OptionThreads, "%q is not a positive integer", t)
		}
		sc.threads = n
	}
	return sc, nil
}

// build creates the native option objects. It must run after the environment is initialized.
func (sc *sessionConfig) build() error {
	opts, err := ort.NewSessionOptions()
	if err != nil {
		return err
	}
	sc.opts = opts
	if sc.threads > 0 {
		if err := opts.SetIntraOpNumThreads(sc.threads); err != nil {
			return err
		}
	}
	if !sc.device.IsGPU() {
		return nil
	}
	cuda, err := ort.NewCUDAProviderOptions()
	if err != nil {
		return errors.Wrap(err, "cuda provider unavailable")
	}
	sc.cuda = cuda
	if err := cuda.Update(map[string]string{"device_id": strconv.Itoa(sc.device.ID)}); err != nil {
		return err
	}
	return errors.Wrap(opts.AppendExecutionProviderCUDA(cuda), "cannot select gpu")
}

func (sc *sessionConfig) destroy() error {
	var err error
	if sc.cuda != nil {
		err = multierr.Combine(err, sc.cuda.Destroy())
		sc.cuda = nil
	}
	if sc.opts != nil {
		err = multierr.Combine(err, sc.opts.Destroy())
		sc.opts = nil
	}
	return err
}

func newSession(params []byte, cfg ml.BackendConfig, sc *sessionConfig) (*predictor, error) {
	if err := sc.build(); err != nil {
		return nil, utils.NewConfigurationError("device", err)
	}
	inputShape := cfg.InputShape()
	in, err := ort.NewEmptyTensor[float32](ort.NewShape(int64s(inputShape)...))
	if err != nil {
		return nil, err
	}
	out, err := ort.NewEmptyTensor[float32](ort.NewShape(int64s(cfg.Definition.Output.Shape)...))
	if err != nil {
		return nil, multierr.Combine(err, in.Destroy())
	}
	session, err := ort.NewAdvancedSessionWithONNXData(params,
		[]string{cfg.Definition.Input.Name}, []string{cfg.Definition.Output.Name},
		[]ort.ArbitraryTensor{in}, []ort.ArbitraryTensor{out}, sc.opts)
	if err != nil {
		return nil, multierr.Combine(utils.NewConfigurationError("model parameters", err), in.Destroy(), out.Destroy())
	}
	return &predictor{session: session, input: in, output: out, inputShape: inputShape}, nil
}

func int64s(in []int) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}

func (p *predictor) Forward(ctx context.Context, input *ml.Tensor) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	dst := p.input.GetData()
	if len(dst) != len(input.Data) {
		return nil, errors.Errorf("input tensor shape %v does not match model input %v", input.Shape, p.inputShape)
	}
	copy(dst, input.Data)
	if err := p.session.Run(); err != nil {
		return nil, errors.Wrap(err, "onnx inference failed")
	}
	raw := p.output.GetData()
	if err := ml.CheckDetectionShape(raw); err != nil {
		return nil, err
	}
	out := make([]float32, len(raw))
	copy(out, raw)
	return out, nil
}

func (p *predictor) Close(ctx context.Context) error {
	return multierr.Combine(
		p.session.Destroy(),
		p.input.Destroy(),
		p.output.Destroy(),
		releaseEnvironment(),
	)
}
