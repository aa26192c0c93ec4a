package domain

import "time"

// StoredImage describes one persisted capture on disk. The filename embeds the
// capture timestamp and is unique within the storage directory.
type StoredImage struct {
	Filename  string    `json:"filename"`  // Generated unique name, including extension
	Format    Format    `json:"format"`    // Encoding of the stored bytes
	SizeBytes int64     `json:"sizeBytes"` // Encoded size on disk
	CreatedAt time.Time `json:"createdAt"` // Capture timestamp, source of truth for retention
}

// Age returns how long ago the image was captured, relative to now.
func (img StoredImage) Age(now time.Time) time.Duration {
	return now.Sub(img.CreatedAt)
}
