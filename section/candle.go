package section

import (
	"fmt"

	"github.com/pulsedb/pulsedb/endian"
	"github.com/pulsedb/pulsedb/errs"
)

// validBit marks the candle slot as populated; it occupies the high bit of
// the first 32-bit word, leaving 31 bits for O (scaled prices never
// approach 2^31 in practice, matching the spec's packed layout).
const validBit = uint32(1) << 31

// Candle is the running Open/High/Low/Close of scaled trade prices for a
// file, per spec.md §3. A zero-value Candle with Valid=false represents
// "no trade written yet".
type Candle struct {
	Valid      bool
	O, H, L, C int32
}

// Update applies the candle update rule (spec.md §4.3) for a new scaled
// trade price p: if c is not yet valid, all four fields become p; else O
// stays fixed, H/L widen, and C becomes p.
func (c Candle) Update(p int32) Candle {
	if !c.Valid {
		return Candle{Valid: true, O: p, H: p, L: p, C: p}
	}

	h, l := c.H, c.L
	if p > h {
		h = p
	}
	if p < l {
		l = p
	}

	return Candle{Valid: true, O: c.O, H: h, L: l, C: p}
}

// EncodeCandle renders c into the fixed 16-byte candle slot layout
// <valid:1, O:31, H:32, L:32, C:32> big-endian.
func EncodeCandle(c Candle) [CandleSize]byte {
	var buf [CandleSize]byte

	word0 := uint32(c.O) & (validBit - 1) //nolint:gosec
	if c.Valid {
		word0 |= validBit
	}

	endian.Engine.PutUint32(buf[0:4], word0)
	endian.Engine.PutUint32(buf[4:8], uint32(c.H))  //nolint:gosec
	endian.Engine.PutUint32(buf[8:12], uint32(c.L)) //nolint:gosec
	endian.Engine.PutUint32(buf[12:16], uint32(c.C)) //nolint:gosec

	return buf
}

// DecodeCandle parses the fixed 16-byte candle slot.
func DecodeCandle(data []byte) (Candle, error) {
	if len(data) < CandleSize {
		return Candle{}, fmt.Errorf("%w: candle slot", errs.ErrTruncatedInput)
	}

	word0 := endian.Engine.Uint32(data[0:4])

	return Candle{
		Valid: word0&validBit != 0,
		O:     int32(word0 & (validBit - 1)), //nolint:gosec
		H:     int32(endian.Engine.Uint32(data[4:8])),   //nolint:gosec
		L:     int32(endian.Engine.Uint32(data[8:12])),  //nolint:gosec
		C:     int32(endian.Engine.Uint32(data[12:16])), //nolint:gosec
	}, nil
}
