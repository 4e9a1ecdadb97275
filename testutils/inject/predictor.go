package inject

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/ssd/logging"
	"go.viam.com/ssd/ml"
)

// Predictor is an injected ml.Predictor.
type Predictor struct {
	ml.Predictor
	ForwardFunc func(ctx context.Context, input *ml.Tensor) ([]float32, error)
	CloseFunc   func(ctx context.Context) error
}

// Forward calls the injected Forward or the real variant.
func (p *Predictor) Forward(ctx context.Context, input *ml.Tensor) ([]float32, error) {
	if p.ForwardFunc == nil {
		return p.Predictor.Forward(ctx, input)
	}
	return p.ForwardFunc(ctx, input)
}

// Close calls the injected Close or the real variant.
func (p *Predictor) Close(ctx context.Context) error {
	if p.CloseFunc == nil {
		if p.Predictor == nil {
			return nil
		}
		return p.Predictor.Close(ctx)
	}
	return p.CloseFunc(ctx)
}

// BackendName is the ml backend served by SetBackend.
const BackendName = "inject"

var (
	backendMu sync.Mutex
	backend   ml.BackendConstructor
)

func init() {
	ml.RegisterBackend(BackendName, func(ctx context.Context, cfg ml.BackendConfig, logger logging.Logger) (ml.Predictor, error) {
		backendMu.Lock()
		c := backend
		backendMu.Unlock()
		if c == nil {
			return nil, errors.New("no injected backend set")
		}
		return c(ctx, cfg, logger)
	})
}

// SetBackend sets what the inject backend constructs.
func SetBackend(c ml.BackendConstructor) {
	backendMu.Lock()
	defer backendMu.Unlock()
	backend = c
}

// SetPredictor makes the inject backend hand out p.
func SetPredictor(p *Predictor) {
	SetBackend(func(context.Context, ml.BackendConfig, logging.Logger) (ml.Predictor, error) {
		return p, nil
	})
}
