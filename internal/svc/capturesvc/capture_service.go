package capturesvc

import (
	"context"

	"github.com/mkrupp/homecase-camera/internal/domain"
)

// CaptureService is the externally-facing contract of the camera service,
// consumed by the HTTP transport.
type CaptureService interface {
	// Capture acquires one frame from the camera, encodes it per the request
	// and persists it. Returns the stored image's metadata, or an error from
	// the domain taxonomy: ErrInvalidParameters before any device access,
	// ErrDeviceUnavailable / ErrCaptureFailed from the camera layer,
	// ErrEncodeFailed from the codec, ErrStorage from persistence.
	Capture(ctx context.Context, req domain.CaptureRequest) (domain.StoredImage, error)

	// GetImage returns the bytes and MIME type of a stored image.
	// Unknown or malformed filenames yield ErrNotFound / ErrInvalidParameters.
	GetImage(ctx context.Context, filename string) ([]byte, string, error)

	// Health reports process liveness. It never probes the camera device.
	Health() domain.Health
}
