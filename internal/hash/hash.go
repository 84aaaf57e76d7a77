// Package hash computes content digests of written containers.
//
// slnstart reports a SHA-256 digest for every container it writes (or would
// write, in a dry run) so callers can tell whether two runs produced the same
// file. A fake implementation is provided for tests.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/danieljhkim/slnstart/internal/fsops"
)

// Hasher provides an abstraction for content hashing.
type Hasher interface {
	// HashFile computes the digest of the file at the given path.
	HashFile(path string) (string, error)

	// HashBytes computes the digest of data.
	HashBytes(data []byte) string
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct {
	fs fsops.FS
}

// NewSHA256Hasher creates a new SHA256Hasher reading files through fs.
func NewSHA256Hasher(fs fsops.FS) *SHA256Hasher {
	return &SHA256Hasher{fs: fs}
}

// HashFile computes the SHA-256 digest of the file at the given path.
func (h *SHA256Hasher) HashFile(path string) (string, error) {
	data, err := h.fs.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return h.HashBytes(data), nil
}

// HashBytes computes the SHA-256 digest of data.
func (h *SHA256Hasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FakeHasher implements Hasher with deterministic digests for testing.
type FakeHasher struct {
	digests map[string]string
	calls   []string
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{digests: make(map[string]string)}
}

// SetDigest sets the digest returned for a path.
func (h *FakeHasher) SetDigest(path, digest string) {
	h.digests[path] = digest
}

// Calls returns the paths passed to HashFile, in order.
func (h *FakeHasher) Calls() []string {
	return append([]string(nil), h.calls...)
}

// HashFile returns the predetermined digest for path, or "fakehash".
func (h *FakeHasher) HashFile(path string) (string, error) {
	h.calls = append(h.calls, path)
	if digest, ok := h.digests[path]; ok {
		return digest, nil
	}
	return "fakehash", nil
}

// HashBytes returns a digest derived from the length of data.
func (h *FakeHasher) HashBytes(data []byte) string {
	return fmt.Sprintf("fakehash-%d", len(data))
}
