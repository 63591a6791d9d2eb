// Package hash provides content digests for change detection.
//
// Worksync compares remote and local file bodies by SHA-256 digest: two
// contents are unchanged iff their digests are equal. Digests are never used
// for integrity or security. The package provides a real implementation using
// crypto/sha256 and a fake implementation for testing.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher provides an abstraction for content hashing.
type Hasher interface {
	// Digest returns the hex-encoded digest of content.
	Digest(content string) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// Digest computes the SHA-256 digest of content.
func (h *SHA256Hasher) Digest(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Equal reports whether a and b have the same digest under h.
func Equal(h Hasher, a, b string) bool {
	return h.Digest(a) == h.Digest(b)
}

// FakeHasher implements Hasher with predetermined digests for testing.
// Contents without a configured digest hash to themselves, so distinct
// contents still compare as different. Calls counts Digest invocations.
type FakeHasher struct {
	digests map[string]string
	Calls   int
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{
		digests: make(map[string]string),
	}
}

// SetDigest sets the digest returned for content.
func (h *FakeHasher) SetDigest(content, digest string) {
	h.digests[content] = digest
}

// Digest returns the configured digest, or the content itself.
func (h *FakeHasher) Digest(content string) string {
	h.Calls++
	if d, ok := h.digests[content]; ok {
		return d
	}
	return "fake:" + content
}
