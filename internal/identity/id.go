// Package identity defines the opaque object identifiers used across the
// shift exchange. Identifiers are 24 lowercase hexadecimal characters and are
// validated at the boundary before any store access.
package identity

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Length is the number of characters in a well-formed identifier.
const Length = 24

// ErrInvalidID is returned when a request-supplied identifier is malformed.
var ErrInvalidID = errors.New("identity: invalid object id")

// New returns a fresh random identifier.
func New() string {
	buf := make([]byte, Length/2)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		// rand.Reader failing is effectively fatal elsewhere; keep the
		// identifier well-formed rather than propagating an error from
		// every call site.
		return fmt.Sprintf("%0*x", Length, time.Now().UnixNano())[:Length]
	}
	return hex.EncodeToString(buf)
}

// Parse normalises and validates a request-supplied identifier.
func Parse(raw string) (string, error) {
	candidate := strings.ToLower(strings.TrimSpace(raw))
	if !Valid(candidate) {
		return "", ErrInvalidID
	}
	return candidate, nil
}

// Valid reports whether the value is a well-formed identifier.
func Valid(id string) bool {
	if len(id) != Length {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
