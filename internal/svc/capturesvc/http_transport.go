package capturesvc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/mkrupp/homecase-camera/internal/domain"
	"github.com/mkrupp/homecase-camera/internal/infra/logging"
	http_ "github.com/mkrupp/homecase-camera/internal/infra/transport/http"
)

// HTTPTransportConfig contains configuration parameters for the HTTP transport layer.
type HTTPTransportConfig struct {
	http_.HTTPTransportConfig

	// ImagePathPrefix is the URL prefix under which stored images are served.
	// Default is "/api/images".
	ImagePathPrefix string `env:"IMAGE_PATH_PREFIX" default:"/api/images"`

	// MaxCaptureBodyBytes bounds the size of a capture request body.
	MaxCaptureBodyBytes int64 `env:"MAX_CAPTURE_BODY_BYTES" default:"4096"`
}

// HTTPTransport handles HTTP requests for the camera service:
// - GET /health: liveness
// - POST /capture: trigger one capture
// - GET <prefix>/{filename}: serve a stored image.
type HTTPTransport struct {
	captureSvc CaptureService
	log        logging.Logger
	cfg        HTTPTransportConfig
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport wrapping the given CaptureService.
func NewHTTPTransport(captureSvc CaptureService, cfg HTTPTransportConfig) *HTTPTransport {
	return &HTTPTransport{
		captureSvc: captureSvc,
		log:        logging.GetLogger("svc.capturesvc.http_transport"),
		cfg:        cfg,
	}
}

// ServeHTTP implements http.Handler and sets up the service routes.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", ht.HandleHealth)
	mux.HandleFunc("POST /capture", ht.HandleCapture)
	mux.HandleFunc(fmt.Sprintf("GET %s/{filename}", ht.cfg.ImagePathPrefix), ht.HandleGetImage)

	mux.ServeHTTP(w, r)
}

// HandleHealth reports process liveness without probing the camera.
func (ht *HTTPTransport) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ht.writeJSON(w, r, http.StatusOK, ht.captureSvc.Health())
}

// HandleCapture triggers one capture. The JSON body is optional; absent
// fields take the configured defaults.
func (ht *HTTPTransport) HandleCapture(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleCapture(w, r)
}

func (ht *HTTPTransport) handleCapture(w http.ResponseWriter, r *http.Request) (err error) {
	ctx := r.Context()
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "capture request failed", "error", err)
		} else {
			log.DebugContext(ctx, "capture request served")
		}
	}()

	req, err := decodeCaptureRequest(r, ht.cfg.MaxCaptureBodyBytes)
	if err != nil {
		ht.writeError(w, err)

		return err
	}

	img, err := ht.captureSvc.Capture(ctx, req)
	if err != nil {
		ht.writeError(w, err)

		return fmt.Errorf("capture: %w", err)
	}

	ht.writeJSON(w, r, http.StatusOK, domain.CaptureResponse{
		ImageID:        strings.TrimSuffix(img.Filename, "."+img.Format.Extension()),
		ImageURLOrPath: ht.cfg.ImagePathPrefix + "/" + img.Filename,
		Timestamp:      img.CreatedAt.UTC(),
	})

	return nil
}

// HandleGetImage serves the binary content of a stored image.
func (ht *HTTPTransport) HandleGetImage(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleGetImage(w, r)
}

func (ht *HTTPTransport) handleGetImage(w http.ResponseWriter, r *http.Request) (err error) {
	ctx := r.Context()
	filename := r.PathValue("filename")
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "image request failed", "error", err)
		} else {
			log.DebugContext(ctx, "image request served")
		}
	}()

	data, mediaType, err := ht.captureSvc.GetImage(ctx, filename)
	if err != nil {
		ht.writeError(w, err)

		return fmt.Errorf("get image: %w", err)
	}

	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write response: %w", err)
	}

	return nil
}

// decodeCaptureRequest reads the optional JSON body of a capture request.
// An empty body yields the zero request, letting defaults apply.
func decodeCaptureRequest(r *http.Request, maxBytes int64) (domain.CaptureRequest, error) {
	var req domain.CaptureRequest

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return domain.CaptureRequest{}, fmt.Errorf("%w: read body: %w", domain.ErrInvalidParameters, err)
	}

	if len(body) == 0 {
		return req, nil
	}

	if err := json.Unmarshal(body, &req); err != nil {
		return domain.CaptureRequest{}, fmt.Errorf("%w: decode body: %w", domain.ErrInvalidParameters, err)
	}

	return req, nil
}

// writeError maps the domain error taxonomy onto transport status codes:
// invalid input is a client error, a missing image is 404, and camera,
// encoder or storage failures are server errors.
func (ht *HTTPTransport) writeError(w http.ResponseWriter, err error) {
	var status int

	switch {
	case errors.Is(err, domain.ErrInvalidParameters):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
	}

	http.Error(w, http.StatusText(status), status)
}

func (ht *HTTPTransport) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		ht.log.ErrorContext(r.Context(), "encode response", "error", err)
	}
}
