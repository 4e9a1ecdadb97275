// Package objectdetection turns images into model input and raw model output into detections,
// and renders or records those detections.
package objectdetection

import (
	"fmt"
	"image"
	"math"

	"go.viam.com/ssd/ml"
)

// Box is an axis aligned bounding box. Coordinates are normalized to [0, 1] as produced by the
// model until Denormalize scales them to pixels.
type Box struct {
	XMin, YMin, XMax, YMax float64
}

// Rect rounds the box to integer pixel coordinates.
func (b Box) Rect() image.Rectangle {
	return image.Rect(
		int(math.Round(b.XMin)), int(math.Round(b.YMin)),
		int(math.Round(b.XMax)), int(math.Round(b.YMax)),
	)
}

// Area returns the box area, zero for inverted boxes.
func (b Box) Area() float64 {
	w, h := b.XMax-b.XMin, b.YMax-b.YMin
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Detection is one surviving record of the model output.
type Detection struct {
	ClassID int
	Score   float64
	Box     Box
}

func (d Detection) String() string {
	return fmt.Sprintf("class %d (%.2f) [%.3f %.3f %.3f %.3f]",
		d.ClassID, d.Score, d.Box.XMin, d.Box.YMin, d.Box.XMax, d.Box.YMax)
}

// Filter splits the flat model output into records of (classId, score, xmin, ymin, xmax, ymax)
// and keeps those with a non-negative class and a score of at least threshold, in input order.
func Filter(raw []float32, threshold float64) ([]Detection, error) {
	if err := ml.CheckDetectionShape(raw); err != nil {
		return nil, err
	}
	out := make([]Detection, 0, len(raw)/ml.DetectionStride)
	for i := 0; i+ml.DetectionStride <= len(raw); i += ml.DetectionStride {
		rec := raw[i : i+ml.DetectionStride]
		// NaN fails both comparisons below
		if !(rec[0] >= 0) {
			continue
		}
		d := Detection{
			ClassID: int(rec[0]),
			Score:   float64(rec[1]),
			Box:     Box{float64(rec[2]), float64(rec[3]), float64(rec[4]), float64(rec[5])},
		}
		if !(d.Score >= threshold) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// Denormalize scales normalized boxes to a width x height image. The input is not modified.
func Denormalize(dets []Detection, width, height int) []Detection {
	w, h := float64(width), float64(height)
	out := make([]Detection, len(dets))
	for i, d := range dets {
		d.Box = Box{d.Box.XMin * w, d.Box.YMin * h, d.Box.XMax * w, d.Box.YMax * h}
		out[i] = d
	}
	return out
}
