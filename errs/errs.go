// Package errs defines the sentinel errors returned by the pulsedb engine.
//
// Every exported error is a plain sentinel created with errors.New, following
// the same pattern the rest of the engine uses for error wrapping: call sites
// that need to attach context wrap a sentinel with fmt.Errorf("%w: ...", ...)
// rather than constructing a new, unrelated error. Callers should use
// errors.Is against these sentinels, never string matching.
package errs

import "errors"

var (
	// ErrNoFile is returned by open-for-read when the path does not exist
	// or is not a regular file.
	ErrNoFile = errors.New("pulsedb: no such file")

	// ErrNeedMigration is returned when a file's header version does not
	// match the engine's current version and the caller did not request a
	// migration-tolerant open.
	ErrNeedMigration = errors.New("pulsedb: file needs migration")

	// ErrBadTag is returned by the codec when a row record's leading tag
	// bits do not correspond to a known record kind.
	ErrBadTag = errors.New("pulsedb: bad record tag")

	// ErrTruncatedInput is returned by the codec when a row cannot be fully
	// decoded because the buffer ends early.
	ErrTruncatedInput = errors.New("pulsedb: truncated input")

	// ErrBadVarint is returned by the codec when a varint field does not
	// terminate within its maximum encoded width.
	ErrBadVarint = errors.New("pulsedb: malformed varint")

	// ErrDepthMismatch names a decoded quote sequence whose length does not
	// equal the file's configured depth. The decoders always read exactly
	// depth levels per side, so no function in the engine returns it.
	ErrDepthMismatch = errors.New("pulsedb: quote depth mismatch")

	// ErrBadPrice is returned when a quote or trade price is not
	// representable after scaling, or is negative.
	ErrBadPrice = errors.New("pulsedb: bad price")

	// ErrBadVolume names a negative or non-integral volume. Volumes are
	// uint32 values, so event.Validate never returns it.
	ErrBadVolume = errors.New("pulsedb: bad volume")

	// ErrBadBid is returned when a market-data event's bid side fails
	// validation.
	ErrBadBid = errors.New("pulsedb: bad bid quotes")

	// ErrBadAsk is returned when a market-data event's ask side fails
	// validation.
	ErrBadAsk = errors.New("pulsedb: bad ask quotes")

	// ErrBadTimestamp is returned when an event timestamp is not strictly
	// positive.
	ErrBadTimestamp = errors.New("pulsedb: bad timestamp")

	// ErrInvalidEvent is returned when an event is neither MarketData nor
	// Trade, or is otherwise structurally invalid.
	ErrInvalidEvent = errors.New("pulsedb: invalid event")

	// ErrNotThisDay is returned when an event's timestamp falls outside the
	// file's calendar day (its bucket would exceed number_of_chunks).
	ErrNotThisDay = errors.New("pulsedb: timestamp not within this file's day")

	// ErrReopenInAppendMode is returned when an append is attempted on a
	// state that is not open for append (e.g. a closed or read-only state).
	ErrReopenInAppendMode = errors.New("pulsedb: state must be reopened in append mode")

	// ErrOrphanDelta is returned by the iterator when a delta-md record is
	// encountered before any full-md snapshot has established a base.
	ErrOrphanDelta = errors.New("pulsedb: delta market-data with no preceding snapshot")

	// ErrCorruptFile is returned by the validator when a loaded file state
	// fails a structural invariant check.
	ErrCorruptFile = errors.New("pulsedb: corrupt file")

	// ErrInvalidHeader is returned when the header region cannot be parsed
	// (missing shebang, malformed key:value line, unparsable value, no blank
	// terminator line) and by Header.Validate for a zero or invalid depth,
	// scale or chunk_size. The parser does not check that every key is
	// present.
	ErrInvalidHeader = errors.New("pulsedb: invalid header")

	// ErrUndefined names an info key that does not apply to the file (e.g.
	// candle fields when have_candle=false). Reader.Info returns a struct
	// with no error, so no function in the engine returns it.
	ErrUndefined = errors.New("pulsedb: undefined")

	// ErrIteratorEOF names an exhausted iterator. Iterator.ReadEvent does
	// not return it: it reports exhaustion (end of buffer or past the end
	// of a requested range) as ok=false with a nil error.
	ErrIteratorEOF = errors.New("pulsedb: iterator exhausted")
)
