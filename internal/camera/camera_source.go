// Package camera provides frame acquisition from a single capture device.
// Two source variants exist: a V4L2-backed source reading real hardware
// through ffmpeg, and a dummy source that synthesizes frames in memory for
// tests and hosts without a camera.
package camera

import (
	"context"

	"github.com/mkrupp/homecase-camera/internal/domain"
)

// Source abstracts one physical or virtual capture device.
//
// A device supports a single consumer: Open acquires the per-device exclusion
// and concurrent opens block until the current handle is closed, so capture
// requests against the same source serialize while unrelated work proceeds.
type Source interface {
	// Open acquires the device and returns a session handle.
	// Failures wrap domain.ErrDeviceUnavailable.
	Open(ctx context.Context) (Handle, error)

	// ID returns the normalized source identifier, for logging and comparison.
	ID() string
}

// Handle is an open device session, owned exclusively by the capture call
// that opened it. It must be closed on every exit path.
type Handle interface {
	// Warmup grabs and discards count frames so auto-exposure and white
	// balance settle. Transient grab failures are tolerated up to a small
	// retry budget; exhausting it wraps domain.ErrCaptureFailed.
	Warmup(ctx context.Context, count int) error

	// Grab returns one fresh frame. Failures wrap domain.ErrCaptureFailed.
	Grab(ctx context.Context) (*domain.Frame, error)

	// Close releases the device unconditionally. Safe to call more than once.
	Close() error
}

// warmupRetryBudget is the number of failed grabs tolerated during warmup
// before the session gives up.
const warmupRetryBudget = 3
