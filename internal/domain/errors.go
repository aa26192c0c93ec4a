package domain

import "errors"

// Error taxonomy for the capture pipeline. Each sentinel marks the layer
// that failed so transports can map them to client or server error classes.
var (
	// ErrInvalidParameters is returned when a capture request carries an
	// unparseable resolution, an unsupported format or an out-of-range quality.
	ErrInvalidParameters = errors.New("invalid capture parameters")

	// ErrDeviceUnavailable is returned when the camera device cannot be opened.
	ErrDeviceUnavailable = errors.New("camera device unavailable")

	// ErrCaptureFailed is returned when an opened device fails to deliver a frame.
	ErrCaptureFailed = errors.New("camera capture failed")

	// ErrEncodeFailed is returned when a grabbed frame cannot be encoded.
	ErrEncodeFailed = errors.New("frame encode failed")

	// ErrStorage is returned when a captured image cannot be persisted.
	ErrStorage = errors.New("image storage failed")

	// ErrNotFound is returned when a stored image does not exist.
	ErrNotFound = errors.New("image not found")
)
