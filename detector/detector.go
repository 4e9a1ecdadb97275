// Package detector runs single images through an SSD model: it owns the loaded predictor and
// turns an image file into the raw detection buffer.
package detector

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/ssd/logging"
	"go.viam.com/ssd/ml"
	"go.viam.com/ssd/rimage"
	"go.viam.com/ssd/utils"
	"go.viam.com/ssd/vision/objectdetection"
)

// ErrClosed is returned when a closed Detector is used.
var ErrClosed = errors.New("detector is closed")

// Result is the outcome of one detection pass.
type Result struct {
	Path  string
	Image *rimage.Image
	// Raw is the model output, (classId, score, xmin, ymin, xmax, ymax) records with normalized
	// coordinates.
	Raw []float32
}

// Detections filters the raw output at threshold.
func (r *Result) Detections(threshold float64) ([]objectdetection.Detection, error) {
	return objectdetection.Filter(r.Raw, threshold)
}

// A Detector holds one loaded model. It is safe to share; forward passes are serialized.
type Detector struct {
	cfg    Config
	logger logging.Logger
	prep   objectdetection.PreprocessConfig

	mu        sync.Mutex
	predictor ml.Predictor
}

// New validates cfg, resolves the model files and loads the model with the configured
// backend. Every failure is a configuration error and no Detector is returned.
func New(ctx context.Context, cfg Config, logger logging.Logger) (*Detector, error) {
	if err := cfg.Validate(""); err != nil {
		return nil, err
	}
	files, err := ml.ResolveModelFiles(cfg.ModelPrefix, cfg.Epoch)
	if err != nil {
		return nil, err
	}
	def, err := ml.ReadDefinition(files.Definition)
	if err != nil {
		return nil, err
	}
	device, err := ml.ParseDevice(cfg.Device)
	if err != nil {
		return nil, utils.NewConfigurationError("device", err)
	}
	construct, ok := ml.LookupBackend(cfg.Backend)
	if !ok {
		return nil, utils.NewConfigurationErrorf("backend", "unknown backend %q, available: %s",
			cfg.Backend, strings.Join(ml.RegisteredBackends(), ", "))
	}

	options := make(map[string]string, len(cfg.BackendOptions))
	for k, v := range cfg.BackendOptions {
		options[k] = v
	}
	cfg.BackendOptions = options

	predictor, err := construct(ctx, ml.BackendConfig{
		Files:      files,
		Definition: def,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Device:     device,
		Options:    options,
	}, logger.Sublogger(cfg.Backend))
	if err != nil {
		if utils.IsConfigurationError(err) {
			return nil, err
		}
		return nil, utils.NewConfigurationError("backend", errors.Wrapf(err, "cannot load model %q", files.Params))
	}

	logger.Infow("model loaded",
		"params", files.Params, "backend", cfg.Backend, "device", device.String(),
		"input", []int{cfg.Width, cfg.Height})
	return &Detector{
		cfg:       cfg,
		logger:    logger,
		prep:      objectdetection.PreprocessConfig{Width: cfg.Width, Height: cfg.Height, Mean: cfg.mean()},
		predictor: predictor,
	}, nil
}

// Config returns the configuration the detector was built with.
func (d *Detector) Config() Config {
	return d.cfg
}

// Detect loads the image at path and runs it through the model. Input errors concern only
// this image; the detector stays usable.
func (d *Detector) Detect(ctx context.Context, path string) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, utils.NewInputError(path, err)
	}
	img, err := rimage.NewImageFromFile(path)
	if err != nil {
		return nil, utils.NewInputError(path, err)
	}
	if img.Empty() {
		return nil, utils.NewInputError(path, errors.New("image is empty"))
	}
	if img.Channels() != 3 {
		return nil, utils.NewInputError(path, errors.Errorf("image has %d channels, need 3", img.Channels()))
	}
	res, err := d.DetectImage(ctx, img)
	if err != nil {
		return nil, err
	}
	res.Path = path
	return res, nil
}

// DetectImage runs an already decoded image through the model.
func (d *Detector) DetectImage(ctx context.Context, img *rimage.Image) (*Result, error) {
	input, err := objectdetection.Preprocess(img, d.prep)
	if err != nil {
		return nil, err
	}
	raw, err := d.forward(ctx, input)
	if err != nil {
		return nil, err
	}
	d.logger.Debugw("forward pass done", "records", len(raw)/ml.DetectionStride)
	return &Result{Image: img, Raw: raw}, nil
}

func (d *Detector) forward(ctx context.Context, input *ml.Tensor) ([]float32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.predictor == nil {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := d.predictor.Forward(ctx, input)
	if err != nil {
		if utils.IsShapeMismatchError(err) {
			return nil, err
		}
		return nil, errors.Wrap(err, "forward pass failed")
	}
	if err := ml.CheckDetectionShape(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Close releases the model. Closing twice is a no-op.
func (d *Detector) Close(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.predictor == nil {
		return nil
	}
	err := d.predictor.Close(ctx)
	d.predictor = nil
	return err
}
