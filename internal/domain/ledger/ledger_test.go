package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrDuplicateFingerprint_Is(t *testing.T) {
	err := ErrDuplicateFingerprint{Fingerprint: "abc"}

	assert.ErrorIs(t, err, ErrDuplicateFingerprint{Fingerprint: "abc"})
	assert.ErrorIs(t, err, ErrDuplicateFingerprint{}, "empty target fingerprint matches any duplicate")
	assert.NotErrorIs(t, err, ErrDuplicateFingerprint{Fingerprint: "other"})

	wrapped := fmt.Errorf("submit failed: %w", err)
	assert.ErrorIs(t, wrapped, ErrDuplicateFingerprint{})
}

func TestErrUnavailable_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrUnavailable{Err: cause}

	assert.ErrorIs(t, err, ErrUnavailable{})
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")

	assert.Equal(t, "ledger unavailable", ErrUnavailable{}.Error())
}

func TestErrRejected_Is(t *testing.T) {
	err := ErrRejected{Reason: "malformed input"}
	assert.ErrorIs(t, err, ErrRejected{})
	assert.Contains(t, err.Error(), "malformed input")
}
