package capturesvc

import (
	"fmt"

	"github.com/mkrupp/homecase-camera/internal/domain"
)

// CaptureConfig holds the capture defaults applied to requests with absent
// fields, plus encoder tuning.
type CaptureConfig struct {
	// DefaultResolution is applied when a request omits the resolution,
	// formatted as "WIDTHxHEIGHT".
	DefaultResolution string `env:"DEFAULT_RESOLUTION" default:"320x320"`

	// DefaultFormat is applied when a request omits the format ("jpeg" or "png").
	DefaultFormat string `env:"DEFAULT_FORMAT" default:"jpeg"`

	// DefaultQuality is applied when a request omits the JPEG quality.
	DefaultQuality int `env:"DEFAULT_QUALITY" default:"95"`

	// Interpolator specifies the image scaling algorithm used when the raw
	// frame differs from the requested resolution.
	// Valid values are: "nearestneighbor", "catmullrom", "bilinear", "approxbilinear"
	Interpolator string `env:"INTERPOLATOR" default:"catmullrom"`
}

// Defaults returns the request-resolution defaults in domain form.
func (cfg CaptureConfig) Defaults() domain.CaptureDefaults {
	return domain.CaptureDefaults{
		Resolution: cfg.DefaultResolution,
		Format:     cfg.DefaultFormat,
		Quality:    cfg.DefaultQuality,
	}
}

// Validate resolves the configured defaults once so misconfiguration fails at
// startup rather than on the first capture.
func (cfg CaptureConfig) Validate() error {
	if _, err := (domain.CaptureRequest{}).Resolve(cfg.Defaults()); err != nil {
		return fmt.Errorf("capture defaults: %w", err)
	}

	if _, err := getInterpolatorByName(cfg.Interpolator); err != nil {
		return fmt.Errorf("capture interpolator: %w", err)
	}

	return nil
}
