// Package event defines pulsedb's in-memory domain events: market-depth
// quotes and trades.
//
// Design note (see spec.md §9 "State records with tagged union of event
// kinds"): the source system uses field-tagged records; Go has no native sum
// type, so MarketData and Trade both implement the Event interface and
// callers exhaustively type-switch on it, the same "interface + type switch"
// shape mebo uses for its EncodingType/CompressionType enums crossed with a
// format.go String() method per kind.
package event

import (
	"fmt"
	"math"

	"github.com/pulsedb/pulsedb/errs"
)

// Quote is a single (price, volume) level on one side of a market-data
// snapshot. Price is the caller-facing float; on-disk it is stored as
// round(price*scale) per spec.md §3.
type Quote struct {
	Price  float64
	Volume uint32
}

// Quotes is an ordered sequence of price levels on one side of a book.
type Quotes []Quote

// Normalize depth-normalizes q to exactly depth entries: shorter sequences
// are right-padded with zero-valued quotes, longer ones are truncated.
// depth == 0 yields the empty sequence. This is the "setdepth" operation
// from spec.md §4.3, applied by the Appender before every market-data
// write so that every on-disk quote sequence is exactly depth long.
func (q Quotes) Normalize(depth int) Quotes {
	if depth <= 0 {
		return Quotes{}
	}

	out := make(Quotes, depth)
	n := copy(out, q)
	_ = n // remaining entries are already zero-valued

	return out
}

// Kind identifies which concrete event type a value carries.
type Kind uint8

const (
	// KindMarketData identifies a MarketData event.
	KindMarketData Kind = iota + 1
	// KindTrade identifies a Trade event.
	KindTrade
)

func (k Kind) String() string {
	switch k {
	case KindMarketData:
		return "MarketData"
	case KindTrade:
		return "Trade"
	default:
		return "Unknown"
	}
}

// Event is implemented by MarketData and Trade. Callers exhaustively
// type-switch on the concrete type; Kind() is provided for call sites that
// only need to branch without a type assertion (e.g. logging, metrics).
type Event interface {
	Kind() Kind
	Ts() int64
}

// MarketData is a full market-depth snapshot at a point in time: an ordered
// bid side and ask side, each of length `depth` once normalized.
type MarketData struct {
	Timestamp int64
	Bid       Quotes
	Ask       Quotes
}

// Kind implements Event.
func (MarketData) Kind() Kind { return KindMarketData }

// Ts implements Event.
func (m MarketData) Ts() int64 { return m.Timestamp }

// Trade is a single executed trade.
type Trade struct {
	Timestamp int64
	Price     float64
	Volume    uint32
}

// Kind implements Event.
func (Trade) Kind() Kind { return KindTrade }

// Ts implements Event.
func (t Trade) Ts() int64 { return t.Timestamp }

var _ Event = MarketData{}
var _ Event = Trade{}

// Validate checks the structural invariants spec.md §3 places on events
// before they reach the codec: a strictly positive timestamp, and finite,
// non-negative prices on every quote level (or the trade price). Depth is
// not enforced here — normalization happens separately via Quotes.Normalize
// — only the per-field sanity that the append state machine's validation
// step performs ahead of depth normalization.
func Validate(e Event) error {
	switch v := e.(type) {
	case MarketData:
		if v.Timestamp <= 0 {
			return fmt.Errorf("%w: %d", errs.ErrBadTimestamp, v.Timestamp)
		}
		if err := validateQuotes(v.Bid); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrBadBid, err)
		}
		if err := validateQuotes(v.Ask); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrBadAsk, err)
		}

		return nil
	case Trade:
		if v.Timestamp <= 0 {
			return fmt.Errorf("%w: %d", errs.ErrBadTimestamp, v.Timestamp)
		}
		if !validPrice(v.Price) {
			return fmt.Errorf("%w: %v", errs.ErrBadPrice, v.Price)
		}

		return nil
	default:
		return fmt.Errorf("%w: %T", errs.ErrInvalidEvent, e)
	}
}

func validateQuotes(q Quotes) error {
	for _, lvl := range q {
		if !validPrice(lvl.Price) {
			return fmt.Errorf("%w: %v", errs.ErrBadPrice, lvl.Price)
		}
	}

	return nil
}

func validPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0
}

// ScalePrice converts a caller-facing price to its on-disk scaled integer
// representation: round(price * scale).
func ScalePrice(price float64, scale int64) int64 {
	return int64(math.Round(price * float64(scale)))
}

// UnscalePrice converts an on-disk scaled integer price back to a float.
func UnscalePrice(scaled int64, scale int64) float64 {
	return float64(scaled) / float64(scale)
}
