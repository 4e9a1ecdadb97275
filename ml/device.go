package ml

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Device kinds.
const (
	CPU = "cpu"
	GPU = "gpu"
)

// Device selects where inference runs.
type Device struct {
	Kind string
	ID   int
}

// ParseDevice parses "cpu", "gpu" or "gpu:<id>". The empty string means cpu.
func ParseDevice(s string) (Device, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == CPU {
		return Device{Kind: CPU}, nil
	}
	kind, idStr, hasID := strings.Cut(s, ":")
	if kind != GPU {
		return Device{}, errors.Errorf("unknown device %q, expected cpu, gpu or gpu:<id>", s)
	}
	if !hasID {
		return Device{Kind: GPU}, nil
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 0 {
		return Device{}, errors.Errorf("invalid gpu id in device %q", s)
	}
	return Device{Kind: GPU, ID: id}, nil
}

// IsGPU reports whether the device is a gpu.
func (d Device) IsGPU() bool {
	return d.Kind == GPU
}

func (d Device) String() string {
	if d.IsGPU() {
		return GPU + ":" + strconv.Itoa(d.ID)
	}
	return CPU
}
