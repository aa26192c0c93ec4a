package uuid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownVersion = errors.New("unknown UUID version")
	ErrInvalidFormat  = errors.New("invalid UUID format")
)

const (
	UUIDSize = 16

	timestampBytes = 6 // 48-bit Unix millisecond timestamp prefix
)

// UUID represents a 128-bit universally unique identifier as specified in RFC 4122.
type UUID struct {
	bytes [UUIDSize]byte
}

// UUIDVersion represents the version number of a UUID.
// Different versions have different algorithms for generating the UUID.
type UUIDVersion int

const (
	// UUIDv7 represents UUID version 7, a time-ordered UUID built from a
	// 48-bit millisecond timestamp followed by random data. The embedded
	// timestamp makes a v7 identifier double as a creation-time record.
	UUIDv7 UUIDVersion = 7
)

// New generates a new UUID of the specified version.
// Returns an error if an unsupported version is specified.
func New(version UUIDVersion) (UUID, error) {
	return NewAt(version, time.Now())
}

// NewAt generates a UUID of the specified version carrying the given
// timestamp instead of the current time.
func NewAt(version UUIDVersion, at time.Time) (UUID, error) {
	var uuid UUID

	switch version {
	case UUIDv7:
		generateUUIDv7(&uuid, at)
	default:
		return UUID{}, fmt.Errorf("%w: %d", ErrUnknownVersion, version)
	}

	return uuid, nil
}

// Parse decodes a UUID from its string representation.
// The string can contain hyphens which will be removed before parsing.
// Returns an error if the string is not a valid UUID format (32 hex chars with optional hyphens).
func Parse(uuidStr string) (UUID, error) {
	uuidStr = strings.ReplaceAll(uuidStr, "-", "")
	if len(uuidStr) != UUIDSize*2 {
		return UUID{}, ErrInvalidFormat
	}

	bytes, err := hex.DecodeString(uuidStr)
	if err != nil {
		return UUID{}, fmt.Errorf("failed to parse UUID: %w", err)
	}

	return FromBytes(bytes)
}

// FromBytes builds a UUID from a raw 16-byte slice.
func FromBytes(raw []byte) (UUID, error) {
	var uuid UUID

	if len(raw) != UUIDSize {
		return UUID{}, ErrInvalidFormat
	}

	copy(uuid.bytes[:], raw)

	return uuid, nil
}

func generateUUIDv7(uuid *UUID, at time.Time) {
	// 48-bit big-endian Unix millisecond timestamp prefix
	millis := uint64(at.UnixMilli())
	for i := range timestampBytes {
		uuid.bytes[i] = byte(millis >> (8 * (timestampBytes - 1 - i)))
	}

	// 10 bytes of cryptographic randomness
	if _, err := rand.Read(uuid.bytes[timestampBytes:]); err != nil {
		panic("failed to generate UUIDv7: " + err.Error())
	}

	// Version (7) in the high nibble of byte 6
	uuid.bytes[6] = (uuid.bytes[6] & 0x0F) | 0x70

	// RFC 4122 variant: high bits of byte 8 set to "10"
	uuid.bytes[8] = (uuid.bytes[8] & 0x3F) | 0x80
}

// Version returns the version number encoded in the UUID.
func (u UUID) Version() UUIDVersion {
	return UUIDVersion(u.bytes[6] >> 4)
}

// Timestamp returns the creation time embedded in a UUIDv7.
// For other versions the result is meaningless.
func (u UUID) Timestamp() time.Time {
	var millis uint64
	for i := range timestampBytes {
		millis = millis<<8 | uint64(u.bytes[i])
	}

	return time.UnixMilli(int64(millis))
}

// String returns the canonical string representation of the UUID,
// formatted according to RFC 4122 with hyphens (8-4-4-4-12 format).
func (u UUID) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		binary.BigEndian.Uint32(u.bytes[0:4]),
		binary.BigEndian.Uint16(u.bytes[4:6]),
		binary.BigEndian.Uint16(u.bytes[6:8]),
		binary.BigEndian.Uint16(u.bytes[8:10]),
		u.bytes[10:16])
}

// Bytes returns the raw bytes of the UUID.
func (u UUID) Bytes() []byte {
	return u.bytes[:]
}
