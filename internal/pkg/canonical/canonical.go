// Package canonical normalizes agreement text and computes its fingerprint.
//
// The fingerprint doubles as the shareable lookup key and as a lightweight
// integrity proof, so the same text must always produce the same digest:
// invalid UTF-8 is repaired and the result is brought to Unicode NFC before
// hashing.
package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Canonicalize repairs invalid UTF-8 and applies Unicode NFC. Idempotent.
func Canonicalize(text string) string {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}
	return norm.NFC.String(text)
}

// Fingerprint returns the lowercase hex SHA-256 digest of the canonicalized
// text. Deterministic, no salt.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(Canonicalize(text)))
	return hex.EncodeToString(sum[:])
}
