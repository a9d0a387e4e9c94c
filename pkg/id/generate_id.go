package id

import (
	"crypto/rand"
	"encoding/hex"
)

const ReferenceLen = 32

// NewReference returns a public loan reference: 32 lowercase hex characters
// with no separators or prefix.
func NewReference() string {
	b := make([]byte, ReferenceLen/2)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// IsReference reports whether s has the shape NewReference produces.
func IsReference(s string) bool {
	if len(s) != ReferenceLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
