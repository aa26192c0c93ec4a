package camera

import (
	"context"
	"image"
	"image/color"
	"math/rand/v2"
	"sync"

	"github.com/mkrupp/homecase-camera/internal/domain"
	"github.com/mkrupp/homecase-camera/internal/infra/logging"
)

// Native size of synthesized frames. The encoder resizes to the requested
// resolution, so the dummy always renders at one fixed size.
const (
	dummyFrameWidth  = 640
	dummyFrameHeight = 480
)

// DummySource synthesizes frames in memory without touching hardware. Each
// grab renders a placeholder: a random base color crossed by white diagonals.
type DummySource struct {
	cfg Config
	log logging.Logger

	mu sync.Mutex // device exclusion, held from Open until Close
}

var _ Source = (*DummySource)(nil)

// NewDummySource creates a DummySource.
func NewDummySource(cfg Config) *DummySource {
	return &DummySource{
		cfg: cfg,
		log: logging.GetLogger("camera.dummy_source").With(
			logging.Group("camera", "source", NormalizeSource(cfg.Source)),
		),
	}
}

// ID implements Source.ID.
func (src *DummySource) ID() string {
	return NormalizeSource(src.cfg.Source)
}

// Open implements Source.Open. It never fails, but still acquires the
// per-device exclusion so concurrent captures serialize like on hardware.
func (src *DummySource) Open(ctx context.Context) (Handle, error) {
	src.mu.Lock()
	src.log.DebugContext(ctx, "dummy device opened")

	return &dummyHandle{src: src}, nil
}

type dummyHandle struct {
	src       *DummySource
	closeOnce sync.Once
}

var _ Handle = (*dummyHandle)(nil)

// Warmup implements Handle.Warmup. Synthesized grabs cannot fail, so warmup
// only renders and discards.
func (h *dummyHandle) Warmup(ctx context.Context, count int) error {
	for range count {
		if err := ctx.Err(); err != nil {
			return err
		}

		synthesizeFrame()
	}

	return nil
}

// Grab implements Handle.Grab.
func (h *dummyHandle) Grab(ctx context.Context) (*domain.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return domain.NewFrame(synthesizeFrame()), nil
}

// Close implements Handle.Close.
func (h *dummyHandle) Close() error {
	h.closeOnce.Do(func() {
		h.src.mu.Unlock()
	})

	return nil
}

// synthesizeFrame renders the placeholder bitmap: a random mid-range base
// color with white diagonals from corner to corner.
func synthesizeFrame() image.Image {
	base := color.RGBA{
		R: uint8(64 + rand.IntN(129)),
		G: uint8(64 + rand.IntN(129)),
		B: uint8(64 + rand.IntN(129)),
		A: 255,
	}

	img := image.NewRGBA(image.Rect(0, 0, dummyFrameWidth, dummyFrameHeight))

	for y := range dummyFrameHeight {
		for x := range dummyFrameWidth {
			img.SetRGBA(x, y, base)
		}
	}

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	stroke := max(1, dummyFrameWidth/80)

	for x := range dummyFrameWidth {
		y := x * dummyFrameHeight / dummyFrameWidth

		for d := range stroke {
			if y+d < dummyFrameHeight {
				img.SetRGBA(x, y+d, white)
				img.SetRGBA(x, dummyFrameHeight-1-y-d, white)
			}
		}
	}

	return img
}
