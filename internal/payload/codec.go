// Package payload decodes inbound image payloads. Clients submit images
// either as raw base64 or as a data URI (`data:image/png;base64,...`); both
// decode to the same bytes once the transport framing is stripped.
package payload

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"tribeserver/internal/domain"
)

var dataURIPrefix = regexp.MustCompile(`^data:([a-zA-Z0-9][a-zA-Z0-9.+-]*/[a-zA-Z0-9][a-zA-Z0-9.+-]*);base64,`)

// Decode strips an optional data-URI prefix and strictly decodes the
// remaining base64. It returns the raw bytes plus the MIME type declared in
// the prefix, or an empty MIME when the payload was bare base64. Decoding is
// strict: malformed base64 fails rather than being salvaged.
func Decode(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, "", fmt.Errorf("payload: empty data: %w", domain.ErrInvalidPayload)
	}

	mime := ""
	if m := dataURIPrefix.FindStringSubmatch(payload); m != nil {
		mime = m[1]
		payload = payload[len(m[0]):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("payload: decode base64: %w", domain.ErrInvalidPayload)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("payload: empty image: %w", domain.ErrInvalidPayload)
	}
	return data, mime, nil
}
