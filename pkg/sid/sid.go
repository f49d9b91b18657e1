// Package sid generates and validates opaque session identifiers.
//
// A session id has the form "sbss-" followed by a lowercase ULID, 31
// characters total. ULIDs sort by creation time, which keeps engine
// scans over session keys roughly chronological.
package sid

import (
	"crypto/rand"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Prefix is the session id prefix.
const Prefix = "sbss-"

// Length is the total length of a session id.
const Length = len(Prefix) + ulid.EncodedSize // 5 + 26

// New generates a new session id.
func New() (string, error) {
	id, err := ulid.New(ulid.Now(), rand.Reader)
	if err != nil {
		return "", err
	}
	return Prefix + strings.ToLower(id.String()), nil
}

// Valid reports whether s is a well-formed session id.
func Valid(s string) bool {
	if len(s) != Length || !strings.HasPrefix(s, Prefix) {
		return false
	}
	body := strings.ToUpper(s[len(Prefix):])
	_, err := ulid.ParseStrict(body)
	return err == nil
}
