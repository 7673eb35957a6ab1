package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

// Calculator computes hex checksums of content and files.
type Calculator interface {
	CalculateRaw(content []byte) string
	File(path string) (string, error)
}

// SHA256 is a zero-size SHA-256 calculator.
type SHA256 struct{}

// New returns by value; SHA256 holds no state.
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw computes SHA-256 of content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// File streams the file at path through SHA-256.
func (c SHA256) File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("checksum %s: %w: %w", path, ldmcsv.ErrIO, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("checksum %s: %w: %w", path, ldmcsv.ErrIO, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
