package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/ssd/config"
	"go.viam.com/ssd/detector"
	"go.viam.com/ssd/logging"
	"go.viam.com/ssd/rimage"
	"go.viam.com/ssd/store/sqlite"
	"go.viam.com/ssd/utils"
	"go.viam.com/ssd/vision/objectdetection"
)

// newLogger builds the run logger; tests replace it.
var newLogger = func(cfg *config.Config) logging.Logger {
	level := cfg.Level()
	var logger logging.Logger
	switch {
	case cfg.LogFile != "":
		logger = logging.NewLoggerWithFile("ssd-detect", cfg.LogFile)
	case level == logging.DEBUG:
		return logging.NewDebugLogger("ssd-detect")
	default:
		logger = logging.NewLogger("ssd-detect")
	}
	logger.SetLevel(level)
	return logger
}

// runner holds everything shared by the images of one detect run.
type runner struct {
	cfg      *config.Config
	logger   logging.Logger
	detector *detector.Detector
	labels   objectdetection.Labels
	repo     *sqlite.DetectionRepository
	filter   objectdetection.Postprocessor
	closeDB  func() error
}

// DetectAction runs the detector over every image argument. Configuration problems stop the
// run before any image is read; a failing image is logged and the run continues. Output
// write failures are only warnings.
func DetectAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("no images given")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)
	defer utils.UncheckedErrorFunc(logger.Sync)
	utils.LogEnvVariables("environment", logger)

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := newRunner(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := r.close(ctx); err != nil {
			logger.Warnw("cannot release resources", "error", err)
		}
	}()

	var errs error
	for _, path := range c.Args().Slice() {
		dets, err := r.process(ctx, path)
		if err != nil {
			logger.Errorw("detection failed", "image", path, "error", err)
			warningf(c.App.ErrWriter, "skipping %s: %v", path, err)
			errs = multierr.Append(errs, err)
			continue
		}
		printDetections(c, path, dets, r.labels)
	}
	return errs
}

func newRunner(ctx context.Context, cfg *config.Config, logger logging.Logger) (*runner, error) {
	r := &runner{cfg: cfg, logger: logger}

	pps := []objectdetection.Postprocessor{objectdetection.NewScoreFilter(cfg.Threshold)}
	if cfg.MinArea > 0 {
		pps = append(pps, objectdetection.NewAreaFilter(cfg.MinArea))
	}
	r.filter = objectdetection.Chain(pps...)

	if cfg.Labels != "" {
		labels, err := objectdetection.LoadLabels(cfg.Labels)
		if err != nil {
			logger.Warnw("labels unavailable, showing class ids", "error", err)
		} else {
			r.labels = labels
		}
	}

	if cfg.OutputDir != "" {
		if err := ensureDir(cfg.OutputDir); err != nil {
			logger.Warnw("annotated images will not be written", "error", err)
			cfg.OutputDir = ""
		}
	}

	d, err := detector.New(ctx, cfg.Model, logger.Sublogger("detector"))
	if err != nil {
		return nil, err
	}
	r.detector = d

	if cfg.Database != "" {
		db, err := sqlite.New(ctx, cfg.Database)
		if err != nil {
			logger.Warnw("detections will not be stored", "error", utils.NewIOError(cfg.Database, err))
		} else {
			r.repo = sqlite.NewDetectionRepository(db)
			r.closeDB = db.Close
			logger.Infow("storing detections", "database", cfg.Database, "run", r.repo.RunID())
		}
	}
	return r, nil
}

func (r *runner) close(ctx context.Context) error {
	err := r.detector.Close(ctx)
	if r.closeDB != nil {
		err = multierr.Combine(err, r.closeDB())
	}
	return err
}

// process detects objects in one image and sends the result to every configured sink.
func (r *runner) process(ctx context.Context, path string) ([]objectdetection.Detection, error) {
	res, err := r.detector.Detect(ctx, path)
	if err != nil {
		return nil, err
	}
	dets, err := res.Detections(r.cfg.Threshold)
	if err != nil {
		return nil, err
	}
	dets = r.filter(dets)
	width, height := res.Image.Width(), res.Image.Height()
	r.logger.Infow("detected", "image", path, "count", len(dets))

	if r.cfg.OutputDir != "" {
		r.writeAnnotated(res, dets)
	}
	if r.cfg.Results != "" {
		if err := objectdetection.WriteResults(r.cfg.Results, dets, r.labels, r.cfg.Threshold, width, height); err != nil {
			r.logger.Warnw("cannot write results", "error", err)
		}
	}
	if r.repo != nil {
		if err := r.repo.Save(ctx, path, width, height, dets, r.labels); err != nil {
			r.logger.Warnw("cannot store detections", "error", utils.NewIOError(r.cfg.Database, err))
		}
	}
	return dets, nil
}

func (r *runner) writeAnnotated(res *detector.Result, dets []objectdetection.Detection) {
	out := annotatedPath(r.cfg.OutputDir, res.Path)
	if same, err := samePath(out, res.Path); err == nil && same {
		r.logger.Warnw("annotated image would overwrite its input, skipping", "image", res.Path)
		return
	}
	annotated := objectdetection.Overlay(res.Image, dets, r.labels, objectdetection.OverlayConfig{Thickness: r.cfg.Thickness})
	annotated = rimage.FitToDisplay(annotated, r.cfg.MaxDisplaySize)
	if err := rimage.WriteImageToFile(out, annotated); err != nil {
		r.logger.Warnw("cannot write annotated image", "error", utils.NewIOError(out, err))
		return
	}
	r.logger.Debugw("annotated image written", "path", out)
}

func printDetections(c *cli.Context, path string, dets []objectdetection.Detection, labels objectdetection.Labels) {
	printf(c.App.Writer, "%s: %d detection(s)", path, len(dets))
	if len(dets) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"#", "Label", "Score", "XMin", "YMin", "XMax", "YMax"})
	t.AppendRows(lo.Map(dets, func(d objectdetection.Detection, i int) table.Row {
		return table.Row{
			i, labels.Name(d.ClassID), fmt.Sprintf("%.3f", d.Score),
			fmt.Sprintf("%.3f", d.Box.XMin), fmt.Sprintf("%.3f", d.Box.YMin),
			fmt.Sprintf("%.3f", d.Box.XMax), fmt.Sprintf("%.3f", d.Box.YMax),
		}
	}))
	t.Render()
}

// loadConfig reads the config file, if any, and applies the flags on top of it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.Path(flagConfig); path != "" {
		var err error
		if cfg, err = config.Read(path, logging.NewLogger("config")); err != nil {
			return nil, err
		}
	}

	if c.IsSet(flagDebug) {
		cfg.Debug = c.Bool(flagDebug)
	}
	if c.IsSet(flagLogLevel) {
		cfg.LogLevel = c.String(flagLogLevel)
	}
	if c.IsSet(flagLogFile) {
		cfg.LogFile = c.Path(flagLogFile)
	}
	if c.IsSet(flagPrefix) {
		cfg.Model.ModelPrefix = c.String(flagPrefix)
	}
	if c.IsSet(flagEpoch) {
		cfg.Model.Epoch = c.Int(flagEpoch)
	}
	if c.IsSet(flagWidth) {
		cfg.Model.Width = c.Int(flagWidth)
	}
	if c.IsSet(flagHeight) {
		cfg.Model.Height = c.Int(flagHeight)
	}
	if c.IsSet(flagMeanR) {
		cfg.Model.MeanR = float32(c.Float64(flagMeanR))
	}
	if c.IsSet(flagMeanG) {
		cfg.Model.MeanG = float32(c.Float64(flagMeanG))
	}
	if c.IsSet(flagMeanB) {
		cfg.Model.MeanB = float32(c.Float64(flagMeanB))
	}
	if c.IsSet(flagDevice) {
		cfg.Model.Device = c.String(flagDevice)
	}
	if c.IsSet(flagBackend) {
		cfg.Model.Backend = c.String(flagBackend)
	}
	if c.IsSet(flagBackendOption) {
		opts, err := parseBackendOptions(c.StringSlice(flagBackendOption))
		if err != nil {
			return nil, err
		}
		if cfg.Model.BackendOptions == nil {
			cfg.Model.BackendOptions = map[string]string{}
		}
		for k, v := range opts {
			cfg.Model.BackendOptions[k] = v
		}
	}
	if c.IsSet(flagThresh) {
		cfg.Threshold = c.Float64(flagThresh)
	}
	if c.IsSet(flagMinArea) {
		cfg.MinArea = c.Float64(flagMinArea)
	}
	if c.IsSet(flagLabels) {
		cfg.Labels = c.Path(flagLabels)
	}
	if c.IsSet(flagMaxDisplaySize) {
		cfg.MaxDisplaySize = c.Int(flagMaxDisplaySize)
	}
	if c.IsSet(flagThickness) {
		cfg.Thickness = c.Int(flagThickness)
	}
	if c.IsSet(flagOutDir) {
		cfg.OutputDir = c.Path(flagOutDir)
	}
	if c.IsSet(flagResults) {
		cfg.Results = c.Path(flagResults)
	}
	if c.IsSet(flagDB) {
		cfg.Database = c.Path(flagDB)
	}
	return cfg, nil
}

func parseBackendOptions(kvs []string) (map[string]string, error) {
	opts := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, utils.NewConfigurationErrorf(flagBackendOption, "%q is not KEY=VALUE", kv)
		}
		opts[k] = v
	}
	return opts, nil
}
