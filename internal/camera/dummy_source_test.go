package camera_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mkrupp/homecase-camera/internal/domain"

	"github.com/mkrupp/homecase-camera/internal/camera"
)

func TestDummySourceGrab(t *testing.T) {
	t.Parallel()

	src := camera.NewDummySource(camera.Config{Source: "dummy", WarmupFrames: 3, BufferSize: 1})

	handle, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	defer handle.Close()

	if err := handle.Warmup(context.Background(), 3); err != nil {
		t.Fatalf("Warmup() unexpected error: %v", err)
	}

	frame, err := handle.Grab(context.Background())
	if err != nil {
		t.Fatalf("Grab() unexpected error: %v", err)
	}

	if frame.Width() != 640 || frame.Height() != 480 {
		t.Errorf("Grab() frame = %dx%d, want 640x480", frame.Width(), frame.Height())
	}
}

func TestDummySourceCancelledContext(t *testing.T) {
	t.Parallel()

	src := camera.NewDummySource(camera.Config{Source: "dummy", WarmupFrames: 3, BufferSize: 1})

	handle, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	defer handle.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := handle.Warmup(ctx, 3); !errors.Is(err, context.Canceled) {
		t.Errorf("Warmup() error = %v, want %v", err, context.Canceled)
	}

	if _, err := handle.Grab(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Grab() error = %v, want %v", err, context.Canceled)
	}
}

func TestDummySourceSerializesOpens(t *testing.T) {
	t.Parallel()

	src := camera.NewDummySource(camera.Config{Source: "dummy", WarmupFrames: 0, BufferSize: 1})

	const sessions = 8

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		active int
		peak   int
	)

	for range sessions {
		wg.Add(1)

		go func() {
			defer wg.Done()

			handle, err := src.Open(context.Background())
			if err != nil {
				t.Errorf("Open() unexpected error: %v", err)
				return
			}

			mu.Lock()
			active++
			if active > peak {
				peak = active
			}
			mu.Unlock()

			if _, err := handle.Grab(context.Background()); err != nil {
				t.Errorf("Grab() unexpected error: %v", err)
			}

			mu.Lock()
			active--
			mu.Unlock()

			if err := handle.Close(); err != nil {
				t.Errorf("Close() unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	if peak != 1 {
		t.Errorf("observed %d concurrent open sessions, want 1", peak)
	}
}

func TestDummyHandleCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	src := camera.NewDummySource(camera.Config{Source: "dummy", WarmupFrames: 0, BufferSize: 1})

	handle, err := src.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}

	if err := handle.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	// A second close must not unlock the device a second time.
	if err := handle.Close(); err != nil {
		t.Fatalf("Close() second call unexpected error: %v", err)
	}

	// The device must be acquirable again after closing.
	handle, err = src.Open(context.Background())
	if err != nil {
		t.Fatalf("Open() after close unexpected error: %v", err)
	}

	_ = handle.Close()
}

func TestNewSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     camera.Config
		wantID  string
		wantErr error
	}{
		{
			name:   "dummy token yields dummy source",
			cfg:    camera.Config{Source: "dummy", WarmupFrames: 3, BufferSize: 1},
			wantID: "raw:dummy",
		},
		{
			name:   "empty token yields dummy source",
			cfg:    camera.Config{Source: "", WarmupFrames: 3, BufferSize: 1},
			wantID: "raw:",
		},
		{
			name:   "numeric index yields v4l2 source",
			cfg:    camera.Config{Source: "0", WarmupFrames: 3, BufferSize: 1},
			wantID: "index:0",
		},
		{
			name:    "negative warmup rejected",
			cfg:     camera.Config{Source: "dummy", WarmupFrames: -1, BufferSize: 1},
			wantErr: domain.ErrInvalidParameters,
		},
		{
			name:    "zero buffer size rejected",
			cfg:     camera.Config{Source: "dummy", WarmupFrames: 3, BufferSize: 0},
			wantErr: domain.ErrInvalidParameters,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := camera.NewSource(tt.cfg)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewSource() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("NewSource() unexpected error: %v", err)
			}

			if got := src.ID(); got != tt.wantID {
				t.Errorf("ID() = %q, want %q", got, tt.wantID)
			}
		})
	}
}
