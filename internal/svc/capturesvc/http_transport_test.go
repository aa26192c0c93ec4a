package capturesvc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mkrupp/homecase-camera/internal/domain"
	"github.com/mkrupp/homecase-camera/internal/svc/capturesvc"
)

// mockCaptureService returns canned responses for transport tests.
type mockCaptureService struct {
	captureImg  domain.StoredImage
	captureErr  error
	imageData   []byte
	imageErr    error
	lastRequest domain.CaptureRequest
}

var _ capturesvc.CaptureService = (*mockCaptureService)(nil)

func (m *mockCaptureService) Capture(
	_ context.Context,
	req domain.CaptureRequest,
) (domain.StoredImage, error) {
	m.lastRequest = req

	if m.captureErr != nil {
		return domain.StoredImage{}, m.captureErr
	}

	return m.captureImg, nil
}

func (m *mockCaptureService) GetImage(_ context.Context, _ string) ([]byte, string, error) {
	if m.imageErr != nil {
		return nil, "", m.imageErr
	}

	return m.imageData, "image/jpeg", nil
}

func (m *mockCaptureService) Health() domain.Health {
	return domain.Healthy()
}

func newTestTransport(svc capturesvc.CaptureService) *capturesvc.HTTPTransport {
	return capturesvc.NewHTTPTransport(svc, capturesvc.HTTPTransportConfig{
		ImagePathPrefix:     "/api/images",
		MaxCaptureBodyBytes: 4096,
	})
}

func TestHTTPTransport_Health(t *testing.T) {
	t.Parallel()

	transport := newTestTransport(&mockCaptureService{})

	rec := httptest.NewRecorder()
	transport.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d, want %d", rec.Code, http.StatusOK)
	}

	var health domain.Health
	if err := json.NewDecoder(rec.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}

	if health.Status != "healthy" || health.Service != "camera" {
		t.Errorf("health = %+v, want healthy/camera", health)
	}
}

func TestHTTPTransport_Capture(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		body        string
		svc         *mockCaptureService
		wantStatus  int
		wantID      string
		wantPath    string
		wantRequest domain.CaptureRequest
	}{
		{
			name: "empty body applies defaults",
			body: "",
			svc: &mockCaptureService{
				captureImg: domain.StoredImage{
					Filename:  "abc123.jpg",
					Format:    domain.FormatJPEG,
					CreatedAt: createdAt,
				},
			},
			wantStatus:  http.StatusOK,
			wantID:      "abc123",
			wantPath:    "/api/images/abc123.jpg",
			wantRequest: domain.CaptureRequest{},
		},
		{
			name: "json body is forwarded",
			body: `{"resolution":"640x480","format":"png","quality":80}`,
			svc: &mockCaptureService{
				captureImg: domain.StoredImage{
					Filename:  "def456.png",
					Format:    domain.FormatPNG,
					CreatedAt: createdAt,
				},
			},
			wantStatus:  http.StatusOK,
			wantID:      "def456",
			wantPath:    "/api/images/def456.png",
			wantRequest: domain.CaptureRequest{Resolution: "640x480", Format: "png", Quality: 80},
		},
		{
			name:       "malformed json is a client error",
			body:       `{"resolution":`,
			svc:        &mockCaptureService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid parameters map to 400",
			body:       "",
			svc:        &mockCaptureService{captureErr: domain.ErrInvalidParameters},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "device failure maps to 500",
			body:       "",
			svc:        &mockCaptureService{captureErr: domain.ErrDeviceUnavailable},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := newTestTransport(tt.svc)

			rec := httptest.NewRecorder()
			transport.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/capture", strings.NewReader(tt.body)))

			if rec.Code != tt.wantStatus {
				t.Fatalf("POST /capture status = %d, want %d", rec.Code, tt.wantStatus)
			}

			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp domain.CaptureResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode capture response: %v", err)
			}

			if resp.ImageID != tt.wantID {
				t.Errorf("image_id = %q, want %q", resp.ImageID, tt.wantID)
			}

			if resp.ImageURLOrPath != tt.wantPath {
				t.Errorf("image_url_or_path = %q, want %q", resp.ImageURLOrPath, tt.wantPath)
			}

			if !resp.Timestamp.Equal(createdAt) {
				t.Errorf("timestamp = %s, want %s", resp.Timestamp, createdAt)
			}

			if tt.svc.lastRequest != tt.wantRequest {
				t.Errorf("forwarded request = %+v, want %+v", tt.svc.lastRequest, tt.wantRequest)
			}
		})
	}
}

func TestHTTPTransport_GetImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		svc         *mockCaptureService
		wantStatus  int
		wantBody    string
		wantType    string
	}{
		{
			name:       "serves stored image",
			svc:        &mockCaptureService{imageData: []byte("jpeg bytes")},
			wantStatus: http.StatusOK,
			wantBody:   "jpeg bytes",
			wantType:   "image/jpeg",
		},
		{
			name:       "missing image maps to 404",
			svc:        &mockCaptureService{imageErr: domain.ErrNotFound},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "malformed filename maps to 400",
			svc:        &mockCaptureService{imageErr: domain.ErrInvalidParameters},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "storage failure maps to 500",
			svc:        &mockCaptureService{imageErr: domain.ErrStorage},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			transport := newTestTransport(tt.svc)

			rec := httptest.NewRecorder()
			transport.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/images/some.jpg", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("GET image status = %d, want %d", rec.Code, tt.wantStatus)
			}

			if tt.wantStatus != http.StatusOK {
				return
			}

			if got := rec.Body.String(); got != tt.wantBody {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}

			if got := rec.Header().Get("Content-Type"); got != tt.wantType {
				t.Errorf("content type = %q, want %q", got, tt.wantType)
			}
		})
	}
}

func TestHTTPTransport_UnknownRoute(t *testing.T) {
	t.Parallel()

	transport := newTestTransport(&mockCaptureService{})

	rec := httptest.NewRecorder()
	transport.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /nope status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	// Capture is POST-only.
	rec = httptest.NewRecorder()
	transport.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/capture", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /capture status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
