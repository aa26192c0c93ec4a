package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Format is the target encoding of a captured frame.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// JPEG quality bounds, matching the underlying codec's accepted range.
const (
	QualityMin = 1
	QualityMax = 100
)

// ParseFormat parses and normalizes a format name.
// Only "jpeg" and "png" are accepted; anything else is ErrInvalidParameters.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(value)) {
	case FormatJPEG:
		return FormatJPEG, nil
	case FormatPNG:
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: format must be either 'jpeg' or 'png', got %q", ErrInvalidParameters, value)
	}
}

// Extension returns the filename extension used for stored images.
// JPEG images are stored with the short ".jpg" suffix.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}

	return string(f)
}

// MIMEType returns the media type announced when serving stored images.
func (f Format) MIMEType() string {
	return "image/" + string(f)
}

// String returns the canonical lowercase format name.
func (f Format) String() string {
	return string(f)
}

// Resolution is a validated pair of positive pixel dimensions.
type Resolution struct {
	Width  int
	Height int
}

// ParseResolution parses a resolution string of the form "<width>x<height>".
// Both dimensions must be positive integers. Failures are ErrInvalidParameters.
func ParseResolution(value string) (Resolution, error) {
	if value == "" {
		return Resolution{}, fmt.Errorf("%w: resolution value is required", ErrInvalidParameters)
	}

	parts := strings.Split(strings.ToLower(value), "x")
	if len(parts) != 2 {
		return Resolution{}, fmt.Errorf(
			"%w: resolution must be formatted as '<width>x<height>', got %q", ErrInvalidParameters, value)
	}

	width, werr := strconv.Atoi(parts[0])
	height, herr := strconv.Atoi(parts[1])

	if werr != nil || herr != nil {
		return Resolution{}, fmt.Errorf("%w: resolution dimensions must be integers, got %q", ErrInvalidParameters, value)
	}

	if width <= 0 || height <= 0 {
		return Resolution{}, fmt.Errorf(
			"%w: resolution dimensions must be positive integers, got %q", ErrInvalidParameters, value)
	}

	return Resolution{Width: width, Height: height}, nil
}

// String renders the resolution in "<width>x<height>" form.
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// CaptureRequest is the raw, per-call capture input. All fields are optional;
// unset fields take the configured defaults during Resolve.
type CaptureRequest struct {
	// Resolution is a string formatted as "WIDTHxHEIGHT", e.g. "1920x1080".
	Resolution string `json:"resolution,omitempty"`

	// Format is either "jpeg" or "png".
	Format string `json:"format,omitempty"`

	// Quality is the JPEG quality in [1,100]. Ignored for PNG. Zero means unset.
	Quality int `json:"quality,omitempty"`
}

// CaptureDefaults holds the configured fallback values applied to capture
// requests with absent fields.
type CaptureDefaults struct {
	Resolution string
	Format     string
	Quality    int
}

// CaptureParams is a fully resolved, validated capture request. An instance
// only exists with in-range fields, so the camera and encoder layers never see
// unvalidated input.
type CaptureParams struct {
	Resolution Resolution
	Format     Format
	Quality    int
}

// Resolve merges the request with the given defaults and validates the result.
// All validation failures wrap ErrInvalidParameters.
func (req CaptureRequest) Resolve(defaults CaptureDefaults) (CaptureParams, error) {
	resolutionStr := req.Resolution
	if resolutionStr == "" {
		resolutionStr = defaults.Resolution
	}

	resolution, err := ParseResolution(resolutionStr)
	if err != nil {
		return CaptureParams{}, err
	}

	formatStr := req.Format
	if formatStr == "" {
		formatStr = defaults.Format
	}

	format, err := ParseFormat(formatStr)
	if err != nil {
		return CaptureParams{}, err
	}

	quality := req.Quality
	if quality == 0 {
		quality = defaults.Quality
	}

	if quality < QualityMin || quality > QualityMax {
		return CaptureParams{}, fmt.Errorf(
			"%w: quality must be in [%d,%d], got %d", ErrInvalidParameters, QualityMin, QualityMax, quality)
	}

	return CaptureParams{
		Resolution: resolution,
		Format:     format,
		Quality:    quality,
	}, nil
}
