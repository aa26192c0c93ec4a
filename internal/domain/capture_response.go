package domain

import "time"

// CaptureResponse is the payload returned to callers after a capture.
type CaptureResponse struct {
	ImageID        string    `json:"image_id"`
	ImageURLOrPath string    `json:"image_url_or_path"`
	Timestamp      time.Time `json:"timestamp"`
}

// Health is the payload returned by the health endpoint. It reports process
// liveness only and never probes the camera device.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Healthy returns the canonical healthy response for this service.
func Healthy() Health {
	return Health{Status: "healthy", Service: "camera"}
}
