package camera

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"github.com/mkrupp/homecase-camera/internal/domain"
	"github.com/mkrupp/homecase-camera/internal/infra/logging"
)

// JPEG frame markers used to split the mjpeg stream.
//
//nolint:gochecknoglobals
var (
	jpegSOI = []byte{0xFF, 0xD8}
	jpegEOI = []byte{0xFF, 0xD9}
)

const readChunkSize = 64 * 1024

// V4L2Source reads frames from a V4L2 device by running ffmpeg as an mjpeg
// pipe. Opening the source starts one ffmpeg process; grabs consume frames
// from its stdout; closing the handle kills the process and releases the
// device.
type V4L2Source struct {
	device string
	cfg    Config
	log    logging.Logger

	mu sync.Mutex // device exclusion, held from Open until Close
}

var _ Source = (*V4L2Source)(nil)

// NewV4L2Source creates a V4L2Source for the given device path.
func NewV4L2Source(device string, cfg Config) *V4L2Source {
	return &V4L2Source{
		device: device,
		cfg:    cfg,
		log: logging.GetLogger("camera.v4l2_source").With(
			logging.Group("camera", "source", NormalizeSource(cfg.Source), "device", device),
		),
	}
}

// ID implements Source.ID.
func (src *V4L2Source) ID() string {
	return NormalizeSource(src.cfg.Source)
}

// Open implements Source.Open. The device node is checked before ffmpeg is
// started; a missing or unstartable device wraps domain.ErrDeviceUnavailable.
func (src *V4L2Source) Open(ctx context.Context) (handle Handle, err error) {
	src.mu.Lock()

	defer func() {
		if err != nil {
			src.mu.Unlock()
			src.log.ErrorContext(ctx, "device open failed", "error", err)
		} else {
			src.log.DebugContext(ctx, "device opened")
		}
	}()

	if _, err := os.Stat(src.device); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDeviceUnavailable, src.device, err)
	}

	// The process gets its own context: the device must stay acquired until
	// Close even if the request that opened it is cancelled.
	procCtx, cancel := context.WithCancel(context.Background())

	// BufferSize bounds ffmpeg's input packet queue so a grab sees the most
	// recent frame rather than a stale queued one.
	cmd := exec.CommandContext(procCtx, "ffmpeg",
		"-f", "v4l2",
		"-thread_queue_size", strconv.Itoa(src.cfg.BufferSize),
		"-i", src.device,
		"-f", "image2pipe",
		"-c:v", "mjpeg",
		"-q:v", "3",
		"-",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()

		return nil, fmt.Errorf("%w: stdout pipe: %w", domain.ErrDeviceUnavailable, err)
	}

	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		cancel()

		return nil, fmt.Errorf("%w: start ffmpeg: %w", domain.ErrDeviceUnavailable, err)
	}

	return &v4l2Handle{
		src:    src,
		cmd:    cmd,
		stdout: stdout,
		cancel: cancel,
	}, nil
}

type v4l2Handle struct {
	src    *V4L2Source
	cmd    *exec.Cmd
	stdout io.ReadCloser
	cancel context.CancelFunc
	buf    bytes.Buffer

	closeOnce sync.Once
}

var _ Handle = (*v4l2Handle)(nil)

// Warmup implements Handle.Warmup, discarding count frames and tolerating up
// to warmupRetryBudget failed reads before giving up.
func (h *v4l2Handle) Warmup(ctx context.Context, count int) error {
	var failures int

	for discarded := 0; discarded < count; {
		if _, err := h.readFrame(ctx); err != nil {
			failures++
			if failures > warmupRetryBudget {
				return fmt.Errorf("%w: warmup: %w", domain.ErrCaptureFailed, err)
			}

			continue
		}

		discarded++
	}

	return nil
}

// Grab implements Handle.Grab.
func (h *v4l2Handle) Grab(ctx context.Context) (*domain.Frame, error) {
	raw, err := h.readFrame(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read frame: %w", domain.ErrCaptureFailed, err)
	}

	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: decode frame: %w", domain.ErrCaptureFailed, err)
	}

	return domain.NewFrame(img), nil
}

// Close implements Handle.Close, killing the ffmpeg process and releasing the
// per-device exclusion exactly once.
func (h *v4l2Handle) Close() error {
	h.closeOnce.Do(func() {
		h.cancel()
		_ = h.stdout.Close()
		_ = h.cmd.Wait() // expected to report the kill
		h.src.mu.Unlock()
		h.src.log.Debug("device released")
	})

	return nil
}

// readFrame consumes the mjpeg stream until one complete JPEG (SOI through
// EOI marker) is available and returns it.
func (h *v4l2Handle) readFrame(ctx context.Context) ([]byte, error) {
	chunk := make([]byte, readChunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if frame := h.nextBufferedFrame(); frame != nil {
			return frame, nil
		}

		n, err := h.stdout.Read(chunk)
		if n > 0 {
			h.buf.Write(chunk[:n])
		}

		if err != nil {
			return nil, fmt.Errorf("read stream: %w", err)
		}
	}
}

// nextBufferedFrame extracts one complete JPEG from the internal buffer, or
// returns nil if none is complete yet.
func (h *v4l2Handle) nextBufferedFrame() []byte {
	data := h.buf.Bytes()

	start := bytes.Index(data, jpegSOI)
	if start < 0 {
		return nil
	}

	end := bytes.Index(data[start+len(jpegSOI):], jpegEOI)
	if end < 0 {
		// Drop garbage before the start marker while waiting for the rest.
		h.buf.Next(start)

		return nil
	}

	frameEnd := start + len(jpegSOI) + end + len(jpegEOI)
	frame := make([]byte, frameEnd-start)
	copy(frame, data[start:frameEnd])
	h.buf.Next(frameEnd)

	return frame
}
