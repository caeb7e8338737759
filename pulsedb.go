// Package pulsedb is the narrow façade spec.md §4.6 calls for: open a file
// for read or append, append one event, close, inspect header fields and
// bucket presence, and iterate events with optional range/predicate
// filters. It wires the appender, reader, and iterator packages together;
// it holds no file-format knowledge of its own.
package pulsedb

import (
	"errors"
	"time"

	"github.com/pulsedb/pulsedb/appender"
	"github.com/pulsedb/pulsedb/errs"
	"github.com/pulsedb/pulsedb/event"
	"github.com/pulsedb/pulsedb/iterator"
	"github.com/pulsedb/pulsedb/reader"
)

// Event re-exports event.Event so callers of this package don't need a
// second import for the type they append and read back.
type Event = event.Event

// MarketData re-exports event.MarketData.
type MarketData = event.MarketData

// Trade re-exports event.Trade.
type Trade = event.Trade

// Quote re-exports event.Quote.
type Quote = event.Quote

// AppendOption re-exports appender.Option so callers configuring
// OpenAppend don't need a second import.
type AppendOption = appender.Option

var (
	WithDepth      = appender.WithDepth
	WithScale      = appender.WithScale
	WithChunkSize  = appender.WithChunkSize
	WithHaveCandle = appender.WithHaveCandle
	WithNoSync     = appender.WithNoSync
)

// Appender is the façade's handle for an open-for-append file.
type Appender struct {
	inner *appender.Appender
}

// OpenAppend opens path for append, creating it if absent, per spec.md
// §4.6 "open_append".
func OpenAppend(path, stock string, date time.Time, opts ...AppendOption) (*Appender, error) {
	a, err := appender.Open(path, stock, date, opts...)
	if err != nil {
		return nil, err
	}

	return &Appender{inner: a}, nil
}

// Append writes one validated event, per spec.md §4.6 "append".
func (a *Appender) Append(e Event) error {
	return a.inner.Append(e)
}

// Close persists the candle and releases the file handle, per spec.md
// §4.6 "close".
func (a *Appender) Close() error {
	return a.inner.Close()
}

// Reader is the façade's handle for an open-for-read file.
type Reader struct {
	inner *reader.Reader
}

// OpenRead opens path read-only, per spec.md §4.6 "open_read".
func OpenRead(path string) (*Reader, error) {
	r, err := reader.Open(path, reader.Options{})
	if err != nil {
		return nil, err
	}

	return &Reader{inner: r}, nil
}

// OpenReadTolerant opens path read-only, tolerating a version mismatch
// (skipping the Validator's version check), per spec.md §4.4 step 6.
func OpenReadTolerant(path string) (*Reader, error) {
	r, err := reader.Open(path, reader.Options{AllowMigration: true})
	if err != nil {
		return nil, err
	}

	return &Reader{inner: r}, nil
}

// FileInfo is the key/value subset spec.md §4.6 "info" returns.
type FileInfo struct {
	Stock      string
	Date       time.Time
	Version    int
	Depth      int
	Scale      int64
	ChunkSize  int
	HaveCandle bool
	Presence   reader.Presence
}

// Info returns r's header fields plus its bucket presence view, per
// spec.md §4.6 "info".
func (r *Reader) Info() FileInfo {
	h := r.inner.Header

	return FileInfo{
		Stock:      h.Stock,
		Date:       h.Date,
		Version:    h.Version,
		Depth:      h.Depth,
		Scale:      h.Scale,
		ChunkSize:  h.ChunkSize,
		HaveCandle: h.HaveCandle,
		Presence:   r.inner.Presence(),
	}
}

// Candle is the persisted Open/High/Low/Close for r, valid only if
// r.Info().HaveCandle and Candle.Valid are both true.
func (r *Reader) Candle() (open, high, low, lastClose float64, valid bool) {
	c := r.inner.Candle
	if !c.Valid {
		return 0, 0, 0, 0, false
	}

	scale := float64(r.inner.Header.Scale)

	return float64(c.O) / scale, float64(c.H) / scale, float64(c.L) / scale, float64(c.C) / scale, true
}

// Iterator is the façade's cursor over a Reader's events, per spec.md
// §4.6 "init_reader" / "read_event".
type Iterator struct {
	inner *iterator.Iterator
}

// Iterator returns a fresh cursor positioned at the start of r's buffer.
func (r *Reader) Iterator() *Iterator {
	return &Iterator{inner: iterator.New(r.inner)}
}

// SetRange restricts the iterator to [start, end] millisecond timestamps.
func (it *Iterator) SetRange(start, end int64) {
	it.inner.SetRange(start, end)
}

// WithPredicate attaches a filter predicate, replacing any attached earlier.
func (it *Iterator) WithPredicate(p func(Event) bool) {
	it.inner.WithPredicate(iterator.Predicate(p))
}

// ReadEvent returns the next event, or ok=false at end of stream, per
// spec.md §4.6 "read_event".
func (it *Iterator) ReadEvent() (Event, bool, error) {
	return it.inner.ReadEvent()
}

// Events drains it via repeated ReadEvent calls, per spec.md §4.6
// "events".
func (it *Iterator) Events() ([]Event, error) {
	return it.inner.All()
}

// Events opens path read-only, reads every event in order, and closes the
// underlying handle — the one-shot convenience form of spec.md §4.6
// "events" for a file path rather than an existing iterator.
func Events(path string) ([]Event, error) {
	r, err := OpenRead(path)
	if err != nil {
		return nil, err
	}

	return r.Iterator().Events()
}

// IsNoFile reports whether err is (or wraps) errs.ErrNoFile.
func IsNoFile(err error) bool { return errors.Is(err, errs.ErrNoFile) }

// IsNeedMigration reports whether err is (or wraps) errs.ErrNeedMigration.
func IsNeedMigration(err error) bool { return errors.Is(err, errs.ErrNeedMigration) }
