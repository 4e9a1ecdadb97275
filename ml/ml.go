// Package ml is the boundary between the detection pipeline and an inference backend. A
// backend sees one planar input tensor per call and hands back the flat detection buffer.
package ml

import (
	"context"

	"go.viam.com/ssd/utils"
)

// DetectionStride is the number of values making up one detection record:
// (classId, score, xmin, ymin, xmax, ymax).
const DetectionStride = 6

// Predictor runs a loaded model. Implementations hold native resources and are not safe for
// concurrent use; callers serialize Forward.
type Predictor interface {
	// Forward runs one synchronous inference pass.
	Forward(ctx context.Context, input *Tensor) ([]float32, error)
	// Close releases the model. The predictor must not be used afterwards.
	Close(ctx context.Context) error
}

// CheckDetectionShape verifies that out is made of whole detection records.
func CheckDetectionShape(out []float32) error {
	if len(out)%DetectionStride != 0 {
		return utils.NewShapeMismatchError(len(out), DetectionStride)
	}
	return nil
}
