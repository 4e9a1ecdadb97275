package objectdetection

// Postprocessor defines a function that filters/modifies on an incoming array of Detections.
type Postprocessor func([]Detection) []Detection

// NewAreaFilter returns a function that filters out detections whose box area is below area.
// The area is in the same units as the boxes, so a fraction of the image for normalized boxes.
func NewAreaFilter(area float64) Postprocessor {
	return func(in []Detection) []Detection {
		out := make([]Detection, 0, len(in))
		for _, d := range in {
			if d.Box.Area() >= area {
				out = append(out, d)
			}
		}
		return out
	}
}

// NewScoreFilter returns a function that filters out detections below a certain confidence.
func NewScoreFilter(conf float64) Postprocessor {
	return func(in []Detection) []Detection {
		out := make([]Detection, 0, len(in))
		for _, d := range in {
			if d.Score >= conf {
				out = append(out, d)
			}
		}
		return out
	}
}

// Chain applies the postprocessors in order.
func Chain(pps ...Postprocessor) Postprocessor {
	return func(in []Detection) []Detection {
		for _, pp := range pps {
			if pp != nil {
				in = pp(in)
			}
		}
		return in
	}
}
