package encoding

import (
	"fmt"

	"github.com/pulsedb/pulsedb/endian"
	"github.com/pulsedb/pulsedb/errs"
	"github.com/pulsedb/pulsedb/event"
	"github.com/pulsedb/pulsedb/format"
)

// tagShift places the 2-bit record discriminator in the high bits of the
// first byte of every row record, leaving the low 6 bits reserved for
// future per-kind flags (currently always zero).
const tagShift = 6

func encodeTag(tag format.RecordTag) byte {
	return byte(tag) << tagShift
}

// PeekTag returns the record kind encoded in the first byte of data without
// decoding anything else.
func PeekTag(data []byte) (format.RecordTag, error) {
	if len(data) == 0 {
		return 0, errs.ErrTruncatedInput
	}

	tag := format.RecordTag(data[0] >> tagShift)
	switch tag {
	case format.TagFullMD, format.TagDeltaMD, format.TagTrade:
		return tag, nil
	default:
		return 0, fmt.Errorf("%w: 0x%02x", errs.ErrBadTag, data[0])
	}
}

// PeekTimestamp decodes only the timestamp field of the row record at the
// start of data, without decoding the rest of the record body. This is the
// primitive the validator uses to check chunk-map timestamps and the
// iterator uses to seek, per spec.md §4.1.
//
// For TagFullMD and TagTrade the returned timestamp is absolute. For
// TagDeltaMD the returned value is the signed delta relative to the previous
// market-data snapshot's timestamp, NOT an absolute timestamp — callers that
// need an absolute value for a delta row must already hold that base
// (spec.md guarantees the first row of every chunk is full-md or trade, so
// callers that only peek at chunk boundaries never see this case).
func PeekTimestamp(data []byte) (tag format.RecordTag, ts int64, err error) {
	tag, err = PeekTag(data)
	if err != nil {
		return 0, 0, err
	}

	body := data[1:]

	switch tag {
	case format.TagFullMD, format.TagTrade:
		abs, _, err := takeUvarint(body)
		if err != nil {
			return 0, 0, err
		}

		return tag, int64(abs), nil //nolint:gosec
	case format.TagDeltaMD:
		delta, _, err := takeVarint(body)
		if err != nil {
			return 0, 0, err
		}

		return tag, delta, nil
	default:
		return 0, 0, fmt.Errorf("%w: 0x%02x", errs.ErrBadTag, tag)
	}
}

// EncodeFullMD encodes a complete, already depth-normalized market-data
// snapshot as a self-contained row: tag byte, absolute timestamp varint,
// then 2*depth (price, volume) pairs — bid side first, then ask side — as
// absolute scaled-price/volume varint pairs.
func EncodeFullMD(dst []byte, md event.MarketData, scale int64) []byte {
	dst = append(dst, encodeTag(format.TagFullMD))
	dst = putUvarint(dst, uint64(md.Timestamp)) //nolint:gosec

	dst = encodeQuotesAbs(dst, md.Bid, scale)
	dst = encodeQuotesAbs(dst, md.Ask, scale)

	return dst
}

func encodeQuotesAbs(dst []byte, q event.Quotes, scale int64) []byte {
	for _, lvl := range q {
		scaled := event.ScalePrice(lvl.Price, scale)
		dst = putUvarint(dst, uint64(scaled)) //nolint:gosec
		dst = putUvarint(dst, uint64(lvl.Volume))
	}

	return dst
}

// DecodeFullMD decodes a full-md row (the tag byte must already be
// TagFullMD; callers use PeekTag/PeekTimestamp or a prior dispatch to know
// this). depth is the file-wide quote depth per side. Returns the decoded
// snapshot and the number of bytes consumed.
func DecodeFullMD(data []byte, depth int, scale int64) (event.MarketData, int, error) {
	if len(data) == 0 {
		return event.MarketData{}, 0, errs.ErrTruncatedInput
	}

	off := 1 // skip tag byte

	ts, n, err := takeUvarint(data[off:])
	if err != nil {
		return event.MarketData{}, 0, err
	}
	off += n

	bid, n, err := decodeQuotesAbs(data[off:], depth, scale)
	if err != nil {
		return event.MarketData{}, 0, err
	}
	off += n

	ask, n, err := decodeQuotesAbs(data[off:], depth, scale)
	if err != nil {
		return event.MarketData{}, 0, err
	}
	off += n

	return event.MarketData{Timestamp: int64(ts), Bid: bid, Ask: ask}, off, nil //nolint:gosec
}

func decodeQuotesAbs(data []byte, depth int, scale int64) (event.Quotes, int, error) {
	q := make(event.Quotes, depth)
	off := 0

	for i := 0; i < depth; i++ {
		scaled, n, err := takeUvarint(data[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n

		vol, n, err := takeUvarint(data[off:])
		if err != nil {
			return nil, 0, err
		}
		off += n

		q[i] = event.Quote{
			Price:  event.UnscalePrice(int64(scaled), scale), //nolint:gosec
			Volume: uint32(vol),                               //nolint:gosec
		}
	}

	return q, off, nil
}

// quoteBitmap is the bitmap of "which (price, volume) slots changed" for a
// delta-md record. It covers 2*depth slots: bid slots [0, depth), then ask
// slots [depth, 2*depth).
type quoteBitmap []byte

func newQuoteBitmap(nbits int) quoteBitmap {
	return make(quoteBitmap, (nbits+7)/8)
}

func (b quoteBitmap) set(i int) { b[i/8] |= 1 << uint(i%8) } //nolint:gosec

func (b quoteBitmap) get(i int) bool { return b[i/8]&(1<<uint(i%8)) != 0 } //nolint:gosec

// EncodeDeltaMD encodes md as a delta against base, emitting only the
// (price, volume) slots that changed. base and md must both already be
// depth-normalized to the same depth.
func EncodeDeltaMD(dst []byte, md event.MarketData, base event.MarketData, scale int64) []byte {
	depth := len(base.Bid)
	nbits := 2 * depth

	changed := newQuoteBitmap(nbits)
	baseAll := append(append(event.Quotes{}, base.Bid...), base.Ask...)
	curAll := append(append(event.Quotes{}, md.Bid...), md.Ask...)

	for i := 0; i < nbits; i++ {
		if curAll[i] != baseAll[i] {
			changed.set(i)
		}
	}

	dst = append(dst, encodeTag(format.TagDeltaMD))
	dst = putVarint(dst, md.Timestamp-base.Timestamp)
	dst = append(dst, changed...)

	for i := 0; i < nbits; i++ {
		if !changed.get(i) {
			continue
		}

		basePrice := event.ScalePrice(baseAll[i].Price, scale)
		curPrice := event.ScalePrice(curAll[i].Price, scale)
		dst = putVarint(dst, curPrice-basePrice)
		dst = putVarint(dst, int64(curAll[i].Volume)-int64(baseAll[i].Volume))
	}

	return dst
}

// DecodeDeltaMD decodes a delta-md row and applies it against base,
// reconstructing the absolute snapshot. base must be depth-normalized; the
// result is depth-normalized to the same depth. Returns the decoded
// absolute snapshot and the number of bytes consumed.
func DecodeDeltaMD(data []byte, base event.MarketData, scale int64) (event.MarketData, int, error) {
	if len(data) == 0 {
		return event.MarketData{}, 0, errs.ErrTruncatedInput
	}

	depth := len(base.Bid)
	nbits := 2 * depth
	bitmapLen := (nbits + 7) / 8

	off := 1 // skip tag byte

	deltaTS, n, err := takeVarint(data[off:])
	if err != nil {
		return event.MarketData{}, 0, err
	}
	off += n

	if len(data) < off+bitmapLen {
		return event.MarketData{}, 0, errs.ErrTruncatedInput
	}
	changed := quoteBitmap(data[off : off+bitmapLen])
	off += bitmapLen

	baseAll := append(append(event.Quotes{}, base.Bid...), base.Ask...)
	curAll := make(event.Quotes, nbits)
	copy(curAll, baseAll)

	for i := 0; i < nbits; i++ {
		if !changed.get(i) {
			continue
		}

		deltaPrice, n, err := takeVarint(data[off:])
		if err != nil {
			return event.MarketData{}, 0, err
		}
		off += n

		deltaVol, n, err := takeVarint(data[off:])
		if err != nil {
			return event.MarketData{}, 0, err
		}
		off += n

		basePrice := event.ScalePrice(baseAll[i].Price, scale)
		curAll[i] = event.Quote{
			Price:  event.UnscalePrice(basePrice+deltaPrice, scale),
			Volume: uint32(int64(baseAll[i].Volume) + deltaVol), //nolint:gosec
		}
	}

	md := event.MarketData{
		Timestamp: base.Timestamp + deltaTS,
		Bid:       curAll[:depth],
		Ask:       curAll[depth:],
	}

	return md, off, nil
}

// EncodeTrade encodes a trade as a self-contained row: tag byte, absolute
// timestamp varint, absolute scaled price varint, absolute volume varint.
func EncodeTrade(dst []byte, t event.Trade, scale int64) []byte {
	dst = append(dst, encodeTag(format.TagTrade))
	dst = putUvarint(dst, uint64(t.Timestamp)) //nolint:gosec
	dst = putUvarint(dst, uint64(event.ScalePrice(t.Price, scale)))
	dst = putUvarint(dst, uint64(t.Volume))

	return dst
}

// DecodeTrade decodes a trade row, returning the decoded trade and the
// number of bytes consumed.
func DecodeTrade(data []byte, scale int64) (event.Trade, int, error) {
	if len(data) == 0 {
		return event.Trade{}, 0, errs.ErrTruncatedInput
	}

	off := 1 // skip tag byte

	ts, n, err := takeUvarint(data[off:])
	if err != nil {
		return event.Trade{}, 0, err
	}
	off += n

	price, n, err := takeUvarint(data[off:])
	if err != nil {
		return event.Trade{}, 0, err
	}
	off += n

	vol, n, err := takeUvarint(data[off:])
	if err != nil {
		return event.Trade{}, 0, err
	}
	off += n

	t := event.Trade{
		Timestamp: int64(ts), //nolint:gosec
		Price:     event.UnscalePrice(int64(price), scale), //nolint:gosec
		Volume:    uint32(vol),                               //nolint:gosec
	}

	return t, off, nil
}

// ChunkCellSize is the fixed, on-disk width of a chunk-offset cell.
const ChunkCellSize = 4

// EncodeChunkCell encodes a chunk-map offset as a fixed-width big-endian
// uint32, per spec.md §6 (OFFSETLEN = 32 bits).
func EncodeChunkCell(dst []byte, offset uint32) []byte {
	return endian.Engine.AppendUint32(dst, offset)
}

// DecodeChunkCell decodes a fixed-width big-endian chunk-map offset cell.
func DecodeChunkCell(data []byte) (uint32, error) {
	if len(data) < ChunkCellSize {
		return 0, errs.ErrTruncatedInput
	}

	return endian.Engine.Uint32(data), nil
}
