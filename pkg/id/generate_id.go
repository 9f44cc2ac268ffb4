// Package id mints the public identifiers of applicants, loans and status
// transitions. They fill the CHAR(32) key columns and appear in URLs.
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// Len is the length of every public identifier.
const Len = 32

// NewID32 returns 128 random bits as Len lowercase hex characters.
func NewID32() string {
	var b [Len / 2]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// Valid reports whether s has the shape NewID32 produces.
func Valid(s string) bool {
	if len(s) != Len {
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
