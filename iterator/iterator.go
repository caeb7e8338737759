// Package iterator implements the Iterator: a stateful cursor over a
// Reader's buffered row stream that decodes events in order, reconstructs
// absolute market-data snapshots from delta chains, and applies range and
// predicate filters.
package iterator

import (
	"sort"

	"github.com/pulsedb/pulsedb/encoding"
	"github.com/pulsedb/pulsedb/errs"
	"github.com/pulsedb/pulsedb/event"
	"github.com/pulsedb/pulsedb/format"
	"github.com/pulsedb/pulsedb/reader"
)

// Predicate is a user-supplied filter applied to every decoded event.
type Predicate func(event.Event) bool

// Iterator is an independent cursor over a Reader's immutable buffer. It
// never mutates the Reader and multiple Iterators may coexist over one
// Reader.
type Iterator struct {
	r      *reader.Reader
	cursor int
	lastMD *event.MarketData

	haveRange  bool
	rangeStart int64
	rangeEnd   int64
	predicate  Predicate
	eof        bool
}

// New creates an Iterator positioned at the first row of r's buffer.
func New(r *reader.Reader) *Iterator {
	return &Iterator{r: r}
}

// SetRange restricts iteration to events with timestamps in [start, end]
// and repositions the cursor at the chunk most likely to contain start,
// per spec.md §4.5.
func (it *Iterator) SetRange(start, end int64) {
	it.haveRange = true
	it.rangeStart = start
	it.rangeEnd = end
	it.lastMD = nil
	it.eof = false

	entries := it.r.Entries
	idx := sort.Search(len(entries), func(i int) bool { return entries[i].Timestamp >= start })

	switch {
	case idx < len(entries):
		it.cursor = int(entries[idx].Offset)
	case len(entries) > 0:
		it.cursor = int(entries[len(entries)-1].Offset)
	default:
		it.cursor = len(it.r.Buf) // nothing to read
	}
}

// ReadEvent decodes and returns the next event satisfying the active
// filters, or (nil, false, nil) at end of stream. A non-nil error is
// fatal to this Iterator but does not affect the Reader or underlying
// file, per spec.md §7.
func (it *Iterator) ReadEvent() (event.Event, bool, error) {
	for {
		if it.eof || it.cursor >= len(it.r.Buf) {
			return nil, false, nil
		}

		e, n, err := it.decodeOne(it.r.Buf[it.cursor:])
		if err != nil {
			return nil, false, err
		}
		it.cursor += n

		ts := e.Ts()

		if it.haveRange {
			if ts < it.rangeStart {
				continue
			}
			if ts > it.rangeEnd {
				it.eof = true
				return nil, false, nil
			}
		}

		if it.predicate != nil && !it.predicate(e) {
			continue
		}

		return e, true, nil
	}
}

func (it *Iterator) decodeOne(data []byte) (event.Event, int, error) {
	tag, err := encoding.PeekTag(data)
	if err != nil {
		return nil, 0, err
	}

	switch tag {
	case format.TagFullMD:
		md, n, err := encoding.DecodeFullMD(data, it.r.Header.Depth, it.r.Header.Scale)
		if err != nil {
			return nil, 0, err
		}
		it.lastMD = &md

		return md, n, nil
	case format.TagDeltaMD:
		if it.lastMD == nil {
			return nil, 0, errs.ErrOrphanDelta
		}

		md, n, err := encoding.DecodeDeltaMD(data, *it.lastMD, it.r.Header.Scale)
		if err != nil {
			return nil, 0, err
		}
		it.lastMD = &md

		return md, n, nil
	case format.TagTrade:
		t, n, err := encoding.DecodeTrade(data, it.r.Header.Scale)
		if err != nil {
			return nil, 0, err
		}

		return t, n, nil
	default:
		return nil, 0, errs.ErrBadTag
	}
}

// WithPredicate attaches a predicate filter, applied in addition to any
// active range. It replaces any predicate attached earlier. The range check
// always runs first and the predicate only sees events inside the range,
// whichever of SetRange and WithPredicate was called first.
func (it *Iterator) WithPredicate(p Predicate) {
	it.predicate = p
}

// All drains the iterator via repeated ReadEvent calls, per spec.md §4.5
// "all_events".
func (it *Iterator) All() ([]event.Event, error) {
	var out []event.Event

	for {
		e, ok, err := it.ReadEvent()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}

		out = append(out, e)
	}
}
