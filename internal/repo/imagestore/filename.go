package imagestore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mkrupp/homecase-camera/internal/domain"
	"github.com/mkrupp/homecase-camera/internal/util/encoding"
	"github.com/mkrupp/homecase-camera/internal/util/uuid"
)

// Stored images are named "<id>.<ext>" where <id> is a Crockford Base32
// encoded UUIDv7. The identifier embeds the capture timestamp and carries
// enough randomness to make collisions within one directory implausible;
// the encoded form is 26 lowercase characters.
const imageIDLength = 26

// newImageFilename generates a fresh collision-free filename for the given format.
func newImageFilename(format domain.Format) (string, error) {
	id, err := uuid.New(uuid.UUIDv7)
	if err != nil {
		return "", fmt.Errorf("new uuid: %w", err)
	}

	return encoding.EncodeCrockfordB32LC(id.Bytes()) + "." + format.Extension(), nil
}

// parseImageFilename validates a filename against the generator's scheme and
// returns the embedded identifier and the image format. Anything that could
// escape the storage directory, or that this store cannot have produced, is
// rejected with domain.ErrInvalidParameters.
func parseImageFilename(filename string) (uuid.UUID, domain.Format, error) {
	if filename == "" ||
		filename != filepath.Base(filename) ||
		strings.ContainsAny(filename, `/\`) ||
		strings.Contains(filename, "..") {
		return uuid.UUID{}, "", fmt.Errorf("%w: invalid image filename %q", domain.ErrInvalidParameters, filename)
	}

	base, ext, ok := strings.Cut(filename, ".")
	if !ok || len(base) != imageIDLength {
		return uuid.UUID{}, "", fmt.Errorf("%w: invalid image filename %q", domain.ErrInvalidParameters, filename)
	}

	var format domain.Format

	switch ext {
	case "jpg":
		format = domain.FormatJPEG
	case "png":
		format = domain.FormatPNG
	default:
		return uuid.UUID{}, "", fmt.Errorf("%w: unknown image extension %q", domain.ErrInvalidParameters, ext)
	}

	raw, err := encoding.DecodeCrockfordB32LC(base)
	if err != nil {
		return uuid.UUID{}, "", fmt.Errorf("%w: invalid image filename %q", domain.ErrInvalidParameters, filename)
	}

	id, err := uuid.FromBytes(raw[:uuid.UUIDSize])
	if err != nil || id.Version() != uuid.UUIDv7 {
		return uuid.UUID{}, "", fmt.Errorf("%w: invalid image filename %q", domain.ErrInvalidParameters, filename)
	}

	return id, format, nil
}
