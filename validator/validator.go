// Package validator checks the structural invariants a loaded pulsedb file
// state must satisfy before a Reader or Appender trusts it, per spec.md
// §4.2. It holds no I/O of its own; callers pass in already-parsed header
// and chunk-map data.
package validator

import (
	"fmt"

	"github.com/pulsedb/pulsedb/errs"
	"github.com/pulsedb/pulsedb/format"
	"github.com/pulsedb/pulsedb/section"
)

// ChunkEntry is one populated slot of the in-memory chunk map: the bucket
// it belongs to, the timestamp of its first row, and its byte offset
// relative to the start of the chunk map region.
type ChunkEntry struct {
	Bucket    int
	Timestamp int64
	Offset    uint32
}

// Validate runs all four checks of spec.md §4.2 against a loaded file
// state. entries must already be sorted by bucket. migrationTolerant, when
// true, skips the version check (the caller explicitly requested a
// migration-tolerant open).
func Validate(h section.Header, entries []ChunkEntry, migrationTolerant bool) error {
	if !migrationTolerant && h.Version != format.CurrentVersion {
		return fmt.Errorf("%w: file version %d, engine version %d", errs.ErrNeedMigration, h.Version, format.CurrentVersion)
	}

	if err := h.Validate(); err != nil {
		return err
	}

	return validateChunkMap(h, entries)
}

func validateChunkMap(h section.Header, entries []ChunkEntry) error {
	chunkMs := int64(h.ChunkSize) * 1000
	dayStart := h.DayStartMs()

	var prevOffset uint32
	var prevTimestamp int64
	havePrev := false

	for _, e := range entries {
		if havePrev {
			if e.Offset <= prevOffset {
				return fmt.Errorf("%w: chunk map offsets not strictly increasing at bucket %d", errs.ErrCorruptFile, e.Bucket)
			}
			if e.Timestamp <= prevTimestamp {
				return fmt.Errorf("%w: chunk map timestamps not strictly increasing at bucket %d", errs.ErrCorruptFile, e.Bucket)
			}
		}

		bucketStart := dayStart + int64(e.Bucket)*chunkMs
		bucketEnd := bucketStart + chunkMs
		if e.Timestamp < bucketStart || e.Timestamp >= bucketEnd {
			return fmt.Errorf("%w: bucket %d timestamp %d outside [%d, %d)", errs.ErrCorruptFile, e.Bucket, e.Timestamp, bucketStart, bucketEnd)
		}

		prevOffset = e.Offset
		prevTimestamp = e.Timestamp
		havePrev = true
	}

	return nil
}
