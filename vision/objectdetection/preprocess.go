package objectdetection

import (
	"github.com/pkg/errors"

	"go.viam.com/ssd/ml"
	"go.viam.com/ssd/rimage"
	"go.viam.com/ssd/utils"
)

// PreprocessConfig describes the network input.
type PreprocessConfig struct {
	Width  int
	Height int
	// Mean is subtracted from the R, G and B planes.
	Mean [3]float32
}

// Preprocess resizes img to the network input size and lays it out as a [1, 3, H, W] planar
// tensor of R, G and B with the channel means subtracted. img is not modified.
func Preprocess(img *rimage.Image, cfg PreprocessConfig) (*ml.Tensor, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.Errorf("invalid network input size %dx%d", cfg.Width, cfg.Height)
	}
	if img == nil || img.Empty() {
		return nil, utils.NewInputError("", errors.New("image is empty"))
	}
	if img.Channels() != 3 {
		return nil, utils.NewInputError("", errors.Errorf("image has %d channels, need 3", img.Channels()))
	}

	resized := img.Resize(cfg.Width, cfg.Height)
	pix := resized.Pix()
	plane := cfg.Width * cfg.Height
	t := ml.NewTensor(1, 3, cfg.Height, cfg.Width)
	r, g, b := t.Data[:plane], t.Data[plane:2*plane], t.Data[2*plane:]
	for i := 0; i < plane; i++ {
		r[i] = float32(pix[3*i]) - cfg.Mean[0]
		g[i] = float32(pix[3*i+1]) - cfg.Mean[1]
		b[i] = float32(pix[3*i+2]) - cfg.Mean[2]
	}
	return t, nil
}
