package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinels_AreDistinct(t *testing.T) {
	all := []error{
		ErrNoFile, ErrNeedMigration, ErrBadTag, ErrTruncatedInput, ErrBadVarint,
		ErrDepthMismatch, ErrBadPrice, ErrBadVolume, ErrBadBid, ErrBadAsk,
		ErrBadTimestamp, ErrInvalidEvent, ErrNotThisDay, ErrReopenInAppendMode,
		ErrOrphanDelta, ErrCorruptFile, ErrInvalidHeader, ErrUndefined, ErrIteratorEOF,
	}

	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.NotEqual(t, a, b, "sentinels at %d and %d must be distinct", i, j)
		}
	}
}

func TestSentinels_WrapWithErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("opening file: %w", ErrNoFile)
	assert.True(t, errors.Is(wrapped, ErrNoFile))
	assert.False(t, errors.Is(wrapped, ErrBadTag))
}
