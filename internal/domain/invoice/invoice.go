// Package invoice holds the invoice content rules and the fingerprint
// computation that identifies an invoice across the ledger and the mirror
// store. The fingerprint is SHA-256 over the exact submitted bytes, so two
// producers that agree on the canonical text always agree on the identity.
package invoice

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// RequiredFields are the markers every invoice document must contain
// before a fingerprint may be computed.
var RequiredFields = []string{
	"INVOICE",
	"Invoice Number:",
	"Invoice Date:",
	"Bill To:",
	"Items:",
	"Total Amount:",
}

// Common errors
var (
	ErrEmptyContent = errors.New("invoice content cannot be empty")
)

// ErrMissingFields indicates the invoice content failed structural validation
type ErrMissingFields struct {
	Fields []string
}

func (e ErrMissingFields) Error() string {
	return "invalid invoice structure, missing fields: " + strings.Join(e.Fields, ", ")
}

// Is implements the errors.Is interface for ErrMissingFields
func (e ErrMissingFields) Is(target error) bool {
	_, ok := target.(ErrMissingFields)
	return ok
}

// FingerprintSize is the digest length in bytes.
const FingerprintSize = sha256.Size

// Fingerprint is the deterministic identity of an invoice's content.
type Fingerprint [FingerprintSize]byte

// ComputeFingerprint returns the SHA-256 digest of the content bytes.
// Identical content always yields an identical fingerprint.
func ComputeFingerprint(content string) Fingerprint {
	return sha256.Sum256([]byte(content))
}

// String renders the fingerprint as lowercase hex, the form stored in both
// systems of record.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// ParseFingerprint decodes a lowercase hex fingerprint string.
func ParseFingerprint(s string) (Fingerprint, error) {
	var f Fingerprint
	raw, err := hex.DecodeString(s)
	if err != nil {
		return f, err
	}
	if len(raw) != FingerprintSize {
		return f, errors.New("fingerprint must be 32 bytes")
	}
	copy(f[:], raw)
	return f, nil
}

// Validate checks that all required fields are present in the content.
// It returns ErrMissingFields listing every absent marker, or
// ErrEmptyContent for blank input.
func Validate(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}

	var missing []string
	for _, field := range RequiredFields {
		if !strings.Contains(content, field) {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return ErrMissingFields{Fields: missing}
	}

	return nil
}
