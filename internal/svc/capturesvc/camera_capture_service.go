package capturesvc

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mkrupp/homecase-camera/internal/camera"
	"github.com/mkrupp/homecase-camera/internal/domain"
	"github.com/mkrupp/homecase-camera/internal/infra/logging"
	"github.com/mkrupp/homecase-camera/internal/repo/imagestore"
)

// CameraCaptureService implements CaptureService by orchestrating a camera
// source, the frame encoder and the image store for one capture call, in
// strict order: validate, open, warm up, grab, release, encode, persist.
// The device is released on every exit path.
type CameraCaptureService struct {
	source    camera.Source
	store     imagestore.Store
	cameraCfg camera.Config
	cfg       CaptureConfig
	log       logging.Logger
}

var _ CaptureService = (*CameraCaptureService)(nil)

// NewCameraCaptureService creates a CameraCaptureService. Both configurations
// are validated here so a misconfigured service never starts.
func NewCameraCaptureService(
	source camera.Source,
	store imagestore.Store,
	cameraCfg camera.Config,
	cfg CaptureConfig,
) (*CameraCaptureService, error) {
	if err := cameraCfg.Validate(); err != nil {
		return nil, fmt.Errorf("camera config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("capture config: %w", err)
	}

	return &CameraCaptureService{
		source:    source,
		store:     store,
		cameraCfg: cameraCfg,
		cfg:       cfg,
		log: logging.GetLogger("svc.capturesvc.camera_capture_service").With(
			logging.Group("camera", "source", source.ID()),
		),
	}, nil
}

// Capture implements CaptureService.Capture.
func (svc *CameraCaptureService) Capture(
	ctx context.Context,
	req domain.CaptureRequest,
) (img domain.StoredImage, err error) {
	log := svc.log

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "capture failed", "error", err)
		} else {
			log.InfoContext(ctx, "capture stored", logging.Group("image",
				"filename", img.Filename,
				"size", img.SizeBytes,
			))
		}
	}()

	// Validation happens before any device or filesystem access.
	params, err := req.Resolve(svc.cfg.Defaults())
	if err != nil {
		return domain.StoredImage{}, err
	}

	log = log.With(logging.Group("capture",
		"resolution", params.Resolution.String(),
		"format", params.Format.String(),
		"quality", params.Quality,
	))

	frame, err := svc.acquireFrame(ctx)
	if err != nil {
		return domain.StoredImage{}, err
	}

	data, err := encodeFrame(frame, params, svc.cfg.Interpolator)
	if err != nil {
		return domain.StoredImage{}, err
	}

	img, err = svc.store.Save(ctx, data, params.Format)
	if err != nil {
		return domain.StoredImage{}, fmt.Errorf("save image: %w", err)
	}

	return img, nil
}

// acquireFrame runs the device-holding part of a capture: open, warm up,
// grab. The handle is released before the frame is encoded or persisted,
// keeping device occupancy as short as possible.
func (svc *CameraCaptureService) acquireFrame(ctx context.Context) (*domain.Frame, error) {
	handle, err := svc.source.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open device: %w", err)
	}
	defer func() { _ = handle.Close() }()

	if err := handle.Warmup(ctx, svc.cameraCfg.WarmupFrames); err != nil {
		return nil, fmt.Errorf("warmup: %w", err)
	}

	frame, err := handle.Grab(ctx)
	if err != nil {
		return nil, fmt.Errorf("grab: %w", err)
	}

	return frame, nil
}

// GetImage implements CaptureService.GetImage.
func (svc *CameraCaptureService) GetImage(ctx context.Context, filename string) ([]byte, string, error) {
	data, err := svc.store.Read(ctx, filename)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}

	return data, mediaTypeForFilename(filename), nil
}

// Health implements CaptureService.Health.
func (svc *CameraCaptureService) Health() domain.Health {
	return domain.Healthy()
}

// mediaTypeForFilename infers the MIME type from the filename suffix.
func mediaTypeForFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return domain.FormatJPEG.MIMEType()
	case ".png":
		return domain.FormatPNG.MIMEType()
	default:
		return "application/octet-stream"
	}
}
