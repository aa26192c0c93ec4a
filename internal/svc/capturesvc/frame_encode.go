package capturesvc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/draw"

	"github.com/mkrupp/homecase-camera/internal/domain"
)

// ErrUnknownInterpolator is returned when an unsupported interpolation method is specified.
var ErrUnknownInterpolator = errors.New("unknown interpolator")

//nolint:gochecknoglobals
var (
	// interpolMap maps interpolator names to their implementations.
	// Supported values: "nearestneighbor", "catmullrom", "bilinear", "approxbilinear".
	interpolMap = map[string]draw.Interpolator{
		"nearestneighbor": draw.NearestNeighbor,
		"catmullrom":      draw.CatmullRom,
		"bilinear":        draw.BiLinear,
		"approxbilinear":  draw.ApproxBiLinear,
	}
)

func getInterpolatorByName(name string) (draw.Interpolator, error) {
	interpol, ok := interpolMap[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInterpolator, name)
	}

	return interpol, nil
}

// encodeFrame converts a raw frame into encoded bytes matching the resolved
// capture parameters. The frame is first resized to exactly the requested
// dimensions using the named interpolator; the interpolation policy is fixed
// per configuration so output is deterministic for a given input.
// JPEG output honors the quality parameter; PNG ignores it.
// All failures wrap domain.ErrEncodeFailed.
func encodeFrame(frame *domain.Frame, params domain.CaptureParams, interpolator string) ([]byte, error) {
	if frame == nil || frame.Width() <= 0 || frame.Height() <= 0 {
		return nil, fmt.Errorf("%w: frame has no pixels", domain.ErrEncodeFailed)
	}

	bitmap, err := resizeFrame(frame, params.Resolution, interpolator)
	if err != nil {
		return nil, fmt.Errorf("%w: resize: %w", domain.ErrEncodeFailed, err)
	}

	var buffer bytes.Buffer

	switch params.Format {
	case domain.FormatJPEG:
		//nolint:exhaustruct
		err = jpeg.Encode(&buffer, bitmap, &jpeg.Options{Quality: params.Quality})
	case domain.FormatPNG:
		err = png.Encode(&buffer, bitmap)
	default:
		err = fmt.Errorf("no encoder for format %q", params.Format)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: encode %s: %w", domain.ErrEncodeFailed, params.Format, err)
	}

	return buffer.Bytes(), nil
}

// resizeFrame scales the frame to the exact target resolution. Frames that
// already match pass through unscaled.
func resizeFrame(frame *domain.Frame, target domain.Resolution, interpolator string) (image.Image, error) {
	original := frame.Image()

	if frame.Width() == target.Width && frame.Height() == target.Height {
		return original, nil
	}

	interpol, err := getInterpolatorByName(interpolator)
	if err != nil {
		return nil, fmt.Errorf("get interpolator: %w", err)
	}

	bitmap := image.NewRGBA(image.Rect(0, 0, target.Width, target.Height))
	interpol.Scale(bitmap, bitmap.Bounds(), original, original.Bounds(), draw.Src, nil)

	return bitmap, nil
}
