// Package appender implements the Appender: the component that owns a
// writable pulsedb file handle and the running state needed to drive the
// append state machine of spec.md §4.3.
package appender

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pulsedb/pulsedb/encoding"
	"github.com/pulsedb/pulsedb/errs"
	"github.com/pulsedb/pulsedb/event"
	"github.com/pulsedb/pulsedb/format"
	"github.com/pulsedb/pulsedb/internal/options"
	"github.com/pulsedb/pulsedb/internal/pool"
	"github.com/pulsedb/pulsedb/section"
	"github.com/pulsedb/pulsedb/validator"
)

// Appender owns a file handle opened for append, plus the in-memory state
// spec.md §3 calls out: the running last snapshot, candle, chunk map, and
// next chunk boundary. A new file is created with O_EXCL; an existing file
// is reopened with plain O_RDWR and no lock, so a second Appender on the
// same existing path is not refused.
//
// Per spec.md §5, at most one Appender exists per path during its
// lifetime and it is not safe for concurrent use by multiple goroutines.
type Appender struct {
	f      *os.File
	path   string
	header section.Header
	cfg    *Config

	candleOffset    int64
	chunkMapOffset  int64
	rowStreamOffset int64 // chunkMapOffset + len(chunk map); stored offsets are relative to this
	chunkMap        []uint32 // mirrors the on-disk chunk map, indexed by bucket
	entries         []validator.ChunkEntry

	lastMD        *event.MarketData // nil: "next md must be full"
	lastTimestamp int64
	nextChunkTime *int64 // nil: "no chunk opened yet"
	candle        section.Candle

	closed bool
}

// Open opens path for append. If the path exists, the header and chunk
// map are replayed to rebuild running state (§4.3 "open existing for
// append"). Otherwise a new file is created with the given stock/date and
// options.
func Open(path, stock string, date time.Time, opts ...Option) (*Appender, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err == nil {
		return openExisting(path, cfg)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	return createNew(path, stock, date, cfg)
}

func createNew(path, stock string, date time.Time, cfg *Config) (*Appender, error) {
	probe := section.Header{Depth: cfg.Depth, Scale: cfg.Scale, ChunkSize: cfg.ChunkSize}
	if err := probe.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}

	header := section.Header{
		Version:    format.CurrentVersion,
		Stock:      stock,
		Date:       date.UTC().Truncate(24 * time.Hour),
		Depth:      cfg.Depth,
		Scale:      cfg.Scale,
		ChunkSize:  cfg.ChunkSize,
		HaveCandle: cfg.HaveCandle,
	}

	if err := section.Write(f, header); err != nil {
		f.Close()
		return nil, err
	}

	candleOffset, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		f.Close()
		return nil, err
	}

	if header.HaveCandle {
		var zero [section.CandleSize]byte
		if _, err := f.Write(zero[:]); err != nil {
			f.Close()
			return nil, err
		}
	}

	chunkMapOffset, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		f.Close()
		return nil, err
	}

	numberOfChunks := header.NumberOfChunks()
	zeroMap := make([]byte, section.ChunkMapSize(numberOfChunks))
	if _, err := f.Write(zeroMap); err != nil {
		f.Close()
		return nil, err
	}

	return &Appender{
		f:               f,
		path:            path,
		header:          header,
		cfg:             cfg,
		candleOffset:    candleOffset,
		chunkMapOffset:  chunkMapOffset,
		rowStreamOffset: chunkMapOffset + int64(len(zeroMap)),
		chunkMap:        make([]uint32, numberOfChunks),
	}, nil
}

func openExisting(path string, cfg *Config) (*Appender, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	header, headerLen, err := section.Read(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	candleOffset := headerLen
	chunkMapOffset := candleOffset
	var candle section.Candle

	if header.HaveCandle {
		buf := make([]byte, section.CandleSize)
		if _, err := f.ReadAt(buf, candleOffset); err != nil {
			f.Close()
			return nil, err
		}

		candle, err = section.DecodeCandle(buf)
		if err != nil {
			f.Close()
			return nil, err
		}

		chunkMapOffset = candleOffset + section.CandleSize
	}

	numberOfChunks := header.NumberOfChunks()
	mapBuf := make([]byte, section.ChunkMapSize(numberOfChunks))
	if _, err := f.ReadAt(mapBuf, chunkMapOffset); err != nil {
		f.Close()
		return nil, err
	}

	chunkMap, err := section.DecodeChunkMap(mapBuf, numberOfChunks)
	if err != nil {
		f.Close()
		return nil, err
	}

	rowStreamOffset := chunkMapOffset + int64(len(mapBuf))

	entries, err := buildEntries(f, chunkMap, rowStreamOffset)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := validator.Validate(header, entries, false); err != nil {
		f.Close()
		return nil, err
	}

	a := &Appender{
		f:               f,
		path:            path,
		header:          header,
		cfg:             cfg,
		candleOffset:    candleOffset,
		chunkMapOffset:  chunkMapOffset,
		rowStreamOffset: rowStreamOffset,
		chunkMap:        chunkMap,
		entries:         entries,
		candle:          candle,
	}

	if len(entries) > 0 {
		last := entries[len(entries)-1]
		nextChunkTime := header.DayStartMs() + int64(last.Bucket+1)*int64(header.ChunkSize)*1000
		a.nextChunkTime = &nextChunkTime
		a.lastTimestamp = last.Timestamp

		if err := replayLastChunk(f, header, last, rowStreamOffset, a); err != nil {
			f.Close()
			return nil, err
		}
	}

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		f.Close()
		return nil, err
	}

	return a, nil
}

func buildEntries(f *os.File, chunkMap []uint32, rowStreamOffset int64) ([]validator.ChunkEntry, error) {
	entries := make([]validator.ChunkEntry, 0, len(chunkMap))

	peekBuf := make([]byte, binaryPeekWindow)

	for bucket, off := range chunkMap {
		if off == 0 {
			continue
		}

		n, err := f.ReadAt(peekBuf, rowStreamOffset+int64(off))
		if err != nil && err != io.EOF {
			return nil, err
		}

		_, ts, err := encoding.PeekTimestamp(peekBuf[:n])
		if err != nil {
			return nil, err
		}

		entries = append(entries, validator.ChunkEntry{Bucket: bucket, Timestamp: ts, Offset: off})
	}

	return entries, nil
}

// binaryPeekWindow is large enough to hold the tag byte and timestamp
// varint of any row record.
const binaryPeekWindow = 16

// replayLastChunk decodes every row of the last occupied chunk to rebuild
// lastMD and lastTimestamp, the running state an Appender needs to resume
// appending, per spec.md §4.3 "rebuilds the running state by decoding the
// last chunk".
func replayLastChunk(f *os.File, header section.Header, last validator.ChunkEntry, rowStreamOffset int64, a *Appender) error {
	start := rowStreamOffset + int64(last.Offset)

	buf, err := io.ReadAll(io.NewSectionReader(f, start, 1<<31-1))
	if err != nil {
		return err
	}

	off := 0
	for off < len(buf) {
		tag, err := encoding.PeekTag(buf[off:])
		if err != nil {
			return err
		}

		switch tag {
		case format.TagFullMD:
			md, n, err := encoding.DecodeFullMD(buf[off:], header.Depth, header.Scale)
			if err != nil {
				return err
			}
			a.lastMD = &md
			a.lastTimestamp = md.Timestamp
			off += n
		case format.TagDeltaMD:
			if a.lastMD == nil {
				return errs.ErrOrphanDelta
			}
			md, n, err := encoding.DecodeDeltaMD(buf[off:], *a.lastMD, header.Scale)
			if err != nil {
				return err
			}
			a.lastMD = &md
			a.lastTimestamp = md.Timestamp
			off += n
		case format.TagTrade:
			t, n, err := encoding.DecodeTrade(buf[off:], header.Scale)
			if err != nil {
				return err
			}
			a.lastTimestamp = t.Timestamp
			off += n
		default:
			return fmt.Errorf("%w: 0x%02x", errs.ErrBadTag, tag)
		}
	}

	return nil
}

// Append validates and writes e, driving the state machine of spec.md
// §4.3. On a validation or not-this-day error, the file and state are left
// unchanged; an I/O error part way through can leave them partly updated.
func (a *Appender) Append(e event.Event) error {
	if a.closed {
		return errs.ErrReopenInAppendMode
	}

	if err := event.Validate(e); err != nil {
		return err
	}

	e = normalizeDepth(e, a.header.Depth)
	ts := e.Ts()

	atBoundary := a.nextChunkTime == nil || ts >= *a.nextChunkTime
	if atBoundary {
		if err := a.appendAtBoundary(e, ts); err != nil {
			return err
		}

		a.lastTimestamp = ts

		return nil
	}

	switch v := e.(type) {
	case event.MarketData:
		if a.lastMD == nil {
			if err := a.writeRow(encoding.EncodeFullMD(nil, v, a.header.Scale)); err != nil {
				return err
			}
			a.lastMD = &v
		} else {
			if err := a.writeRow(encoding.EncodeDeltaMD(nil, v, *a.lastMD, a.header.Scale)); err != nil {
				return err
			}
			a.lastMD = &v
		}
	case event.Trade:
		if err := a.writeRow(encoding.EncodeTrade(nil, v, a.header.Scale)); err != nil {
			return err
		}

		if err := a.updateCandle(v.Price, false); err != nil {
			return err
		}
	}

	a.lastTimestamp = ts

	return nil
}

// appendAtBoundary implements step 2 of the append state machine: the
// bucket bounds check happens before any row is written, per the Design
// Notes' resolution of the "check first" open question.
func (a *Appender) appendAtBoundary(e event.Event, ts int64) error {
	bucket := int((ts - a.header.DayStartMs()) / (int64(a.header.ChunkSize) * 1000))
	if bucket < 0 || bucket >= a.header.NumberOfChunks() {
		return fmt.Errorf("%w: bucket %d out of range", errs.ErrNotThisDay, bucket)
	}

	eof, err := a.f.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}

	var row []byte
	switch v := e.(type) {
	case event.MarketData:
		row = encoding.EncodeFullMD(nil, v, a.header.Scale)
	case event.Trade:
		row = encoding.EncodeTrade(nil, v, a.header.Scale)
	default:
		return fmt.Errorf("%w: %T", errs.ErrInvalidEvent, e)
	}

	if _, err := a.f.Write(row); err != nil {
		return err
	}

	if a.cfg.Sync {
		if err := a.f.Sync(); err != nil {
			return err
		}
	}

	// Offsets are stored relative to rowStreamOffset, matching how the
	// Reader buffers Buf (starting at the first row, after the chunk map).
	offset := uint32(eof - a.rowStreamOffset) //nolint:gosec
	if err := a.writeChunkMapEntry(bucket, offset); err != nil {
		return err
	}

	a.entries = append(a.entries, validator.ChunkEntry{Bucket: bucket, Timestamp: ts, Offset: offset})
	next := a.header.DayStartMs() + int64(bucket+1)*int64(a.header.ChunkSize)*1000
	a.nextChunkTime = &next

	// A new chunk always starts with a self-contained row, so any prior
	// delta base is stale the moment a boundary is crossed.
	a.lastMD = nil

	switch v := e.(type) {
	case event.MarketData:
		a.lastMD = &v
	case event.Trade:
		return a.updateCandle(v.Price, true)
	}

	return a.persistCandle(false)
}

func (a *Appender) updateCandle(price float64, atBoundary bool) error {
	scaled := event.ScalePrice(price, a.header.Scale)
	a.candle = a.candle.Update(int32(scaled)) //nolint:gosec

	if !atBoundary {
		return nil
	}

	return a.persistCandle(a.cfg.Sync)
}

func (a *Appender) persistCandle(sync bool) error {
	if !a.header.HaveCandle {
		return nil
	}

	buf := section.EncodeCandle(a.candle)
	if _, err := a.f.WriteAt(buf[:], a.candleOffset); err != nil {
		return err
	}

	if sync {
		return a.f.Sync()
	}

	return nil
}

func (a *Appender) writeChunkMapEntry(bucket int, offset uint32) error {
	cell := encoding.EncodeChunkCell(nil, offset)
	if _, err := a.f.WriteAt(cell, a.chunkMapOffset+int64(bucket*encoding.ChunkCellSize)); err != nil {
		return err
	}

	a.chunkMap[bucket] = offset

	return nil
}

func (a *Appender) writeRow(row []byte) error {
	buf := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(buf)
	buf.MustWrite(row)

	if _, err := a.f.Seek(0, io.SeekEnd); err != nil {
		return err
	}
	if _, err := a.f.Write(buf.Bytes()); err != nil {
		return err
	}

	return nil
}

// Close persists the candle and closes the underlying file handle.
func (a *Appender) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	if err := a.persistCandle(false); err != nil {
		a.f.Close()
		return err
	}

	return a.f.Close()
}

func normalizeDepth(e event.Event, depth int) event.Event {
	md, ok := e.(event.MarketData)
	if !ok {
		return e
	}

	return event.MarketData{
		Timestamp: md.Timestamp,
		Bid:       md.Bid.Normalize(depth),
		Ask:       md.Ask.Normalize(depth),
	}
}
