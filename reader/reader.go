// Package reader implements the Reader: opens a pulsedb file read-only,
// parses its header and chunk map, validates it, and buffers the row
// stream into an immutable byte slice for Iterators to share.
package reader

import (
	"io"
	"os"
	"sort"

	"github.com/pulsedb/pulsedb/encoding"
	"github.com/pulsedb/pulsedb/errs"
	"github.com/pulsedb/pulsedb/section"
	"github.com/pulsedb/pulsedb/validator"
)

// Reader holds an immutable snapshot of one pulsedb file: its header,
// chunk map, and the buffered row stream. Multiple Readers may open the
// same file concurrently; multiple Iterators may share one Reader.
type Reader struct {
	Header  section.Header
	Candle  section.Candle
	Entries []validator.ChunkEntry // sorted by Bucket
	Buf     []byte                 // row stream only, starting at the first row
}

// Options control how Open behaves.
type Options struct {
	// AllowMigration opens even a file whose version does not match the
	// engine's current version, skipping the version check in the
	// Validator (spec.md §4.4 step 6).
	AllowMigration bool
}

// Open implements the read-open pipeline of spec.md §4.4.
func Open(path string, opts Options) (*Reader, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.ErrNoFile
		}

		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, errs.ErrNoFile
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, headerLen, err := section.Read(f)
	if err != nil {
		return nil, err
	}

	candleOffset := headerLen
	chunkMapOffset := candleOffset
	var candle section.Candle

	if header.HaveCandle {
		buf := make([]byte, section.CandleSize)
		if _, err := f.ReadAt(buf, candleOffset); err != nil {
			return nil, err
		}

		candle, err = section.DecodeCandle(buf)
		if err != nil {
			return nil, err
		}

		chunkMapOffset = candleOffset + section.CandleSize
	}

	numberOfChunks := header.NumberOfChunks()
	mapBuf := make([]byte, section.ChunkMapSize(numberOfChunks))
	if _, err := f.ReadAt(mapBuf, chunkMapOffset); err != nil {
		return nil, err
	}

	chunkMap, err := section.DecodeChunkMap(mapBuf, numberOfChunks)
	if err != nil {
		return nil, err
	}

	rowStreamOffset := chunkMapOffset + int64(len(mapBuf))

	rowStream, err := io.ReadAll(io.NewSectionReader(f, rowStreamOffset, 1<<62))
	if err != nil {
		return nil, err
	}

	entries, err := buildEntries(rowStream, chunkMap)
	if err != nil {
		return nil, err
	}

	if err := validator.Validate(header, entries, opts.AllowMigration); err != nil {
		return nil, err
	}

	return &Reader{
		Header:  header,
		Candle:  candle,
		Entries: entries,
		Buf:     rowStream,
	}, nil
}

func buildEntries(rowStream []byte, chunkMap []uint32) ([]validator.ChunkEntry, error) {
	entries := make([]validator.ChunkEntry, 0, len(chunkMap))

	for bucket, off := range chunkMap {
		if off == 0 {
			continue
		}
		if int64(off) >= int64(len(rowStream)) {
			return nil, errs.ErrCorruptFile
		}

		_, ts, err := encoding.PeekTimestamp(rowStream[off:])
		if err != nil {
			return nil, err
		}

		entries = append(entries, validator.ChunkEntry{Bucket: bucket, Timestamp: ts, Offset: off})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Bucket < entries[j].Bucket })

	return entries, nil
}

// Presence is the (number_of_chunks, occupied_buckets) view spec.md §4.4
// defines for file_info.
type Presence struct {
	NumberOfChunks int
	Occupied       []int
}

// Presence reports which buckets have data, without decoding any rows.
func (r *Reader) Presence() Presence {
	occupied := make([]int, 0, len(r.Entries))
	for _, e := range r.Entries {
		occupied = append(occupied, e.Bucket)
	}

	return Presence{NumberOfChunks: r.Header.NumberOfChunks(), Occupied: occupied}
}

// Migrate opens path in migration-tolerant mode: the version check is
// skipped so a caller that received errs.ErrNeedMigration from a plain
// Open can still read the file's header, chunk map, and rows on the
// engine's current codec. It is a supplemental entry point, not part of
// the core read/append/iterate path.
func Migrate(path string) (*Reader, error) {
	return Open(path, Options{AllowMigration: true})
}
