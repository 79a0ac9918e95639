package domain

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/zeebo/blake3"
)

// Fingerprint hashes dependency input bytes into the hex digest recorded
// in the build manifest. Content hashing (rather than mtime) avoids
// false-freshness when a source file is touched without changing.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FingerprintFile hashes the current content of a generator source file.
func FingerprintFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read dependency input %s: %w", path, err)
	}
	return Fingerprint(data), nil
}
