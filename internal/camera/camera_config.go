package camera

import (
	"fmt"

	"github.com/mkrupp/homecase-camera/internal/domain"
)

// Config holds configuration for the capture device.
type Config struct {
	// Source identifies the capture device: "dummy" (or "", "simulator",
	// "placeholder"), a numeric V4L2 index like "0", or a device path like
	// "/dev/video0".
	Source string `env:"SOURCE" default:"0"`

	// WarmupFrames is the number of frames grabbed and discarded after
	// opening the device, before the frame actually used.
	WarmupFrames int `env:"WARMUP_FRAMES" default:"3"`

	// BufferSize is the requested device-side frame queue depth. Kept at 1
	// so a grab returns the most recent frame instead of a stale queued one.
	// Pass-through knob; the dummy source ignores it.
	BufferSize int `env:"BUFFER_SIZE" default:"1"`
}

// Validate reports configuration values that must fail startup.
func (cfg Config) Validate() error {
	if cfg.WarmupFrames < 0 {
		return fmt.Errorf("%w: warmup frames must not be negative, got %d", domain.ErrInvalidParameters, cfg.WarmupFrames)
	}

	if cfg.BufferSize < 1 {
		return fmt.Errorf("%w: buffer size must be at least 1, got %d", domain.ErrInvalidParameters, cfg.BufferSize)
	}

	return nil
}

// NewSource builds the Source matching the configured identifier.
func NewSource(cfg Config) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if IsDummySource(cfg.Source) {
		return NewDummySource(cfg), nil
	}

	return NewV4L2Source(DevicePath(cfg.Source), cfg), nil
}
