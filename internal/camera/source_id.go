package camera

import (
	"strings"
	"unicode"
)

const devVideoPrefix = "/dev/video"

//nolint:gochecknoglobals
var dummySourceTokens = map[string]struct{}{
	"":            {},
	"dummy":       {},
	"simulator":   {},
	"placeholder": {},
}

// IsDummySource reports whether the source token selects the hardware-free
// dummy variant.
func IsDummySource(source string) bool {
	_, ok := dummySourceTokens[strings.ToLower(strings.TrimSpace(source))]

	return ok
}

// DevicePath resolves a source token into a V4L2 device path.
// A bare index like "0" maps to "/dev/video0"; anything else is taken verbatim.
func DevicePath(source string) string {
	token := strings.TrimSpace(source)
	if isDigits(token) {
		return devVideoPrefix + token
	}

	return token
}

// NormalizeSource renders a source token in a deterministic form for logging
// and duplicate comparison: "index:N" for bare indices, "dev:<path>" for
// /dev/video paths, "raw:<token>" otherwise.
func NormalizeSource(source string) string {
	token := strings.TrimSpace(source)
	lower := strings.ToLower(token)

	switch {
	case isDigits(token):
		return "index:" + strings.TrimLeft(token, "0") + zeroIndex(token)
	case strings.HasPrefix(lower, devVideoPrefix):
		return "dev:" + lower
	default:
		return "raw:" + token
	}
}

// EquivalenceKeys returns the set of normalized keys a source token answers
// to, so equivalent notations like "0" and "/dev/video0" compare equal.
func EquivalenceKeys(source string) map[string]struct{} {
	token := strings.TrimSpace(source)
	lower := strings.ToLower(token)
	keys := map[string]struct{}{NormalizeSource(token): {}}

	switch {
	case isDigits(token):
		index := strings.TrimLeft(token, "0") + zeroIndex(token)
		keys["index:"+index] = struct{}{}
		keys["dev:"+devVideoPrefix+index] = struct{}{}
	case strings.HasPrefix(lower, devVideoPrefix):
		if suffix := lower[len(devVideoPrefix):]; isDigits(suffix) {
			index := strings.TrimLeft(suffix, "0") + zeroIndex(suffix)
			keys["index:"+index] = struct{}{}
			keys["dev:"+devVideoPrefix+index] = struct{}{}
		}
	}

	return keys
}

// zeroIndex keeps "0" (and "000") from normalizing to the empty string.
func zeroIndex(token string) string {
	if strings.TrimLeft(token, "0") == "" && token != "" {
		return "0"
	}

	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return true
}
