// Package encoding implements the pulsedb row codec: the four binary record
// kinds (full market-data, delta market-data, trade, and the chunk-offset
// cell) plus the shared varint/zigzag primitives they're built from.
//
// The package is pure — no I/O, no file-format framing beyond a single row
// or cell — mirroring mebo's encoding package, which keeps timestamp/value
// columnar codecs free of any knowledge of the blob header or index that
// surrounds them.
package encoding

import (
	"encoding/binary"

	"github.com/pulsedb/pulsedb/errs"
)

// putUvarint appends the unsigned varint encoding of v to dst and returns
// the extended slice, the same append-and-grow shape mebo's
// TimestampDeltaEncoder.Write uses around binary.PutUvarint.
func putUvarint(dst []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)

	return append(dst, tmp[:n]...)
}

// putVarint zigzag-encodes a signed value and appends it as an unsigned
// varint, the same scheme mebo's delta timestamp encoder uses for negative
// deltas.
func putVarint(dst []byte, v int64) []byte {
	zigzag := uint64((v << 1) ^ (v >> 63)) //nolint:gosec
	return putUvarint(dst, zigzag)
}

// takeUvarint decodes an unsigned varint from the front of data, returning
// the value and the number of bytes consumed. It returns
// errs.ErrTruncatedInput if data is empty or ends before a terminating
// byte, and errs.ErrBadVarint if the value overflows 64 bits.
func takeUvarint(data []byte) (uint64, int, error) {
	if len(data) == 0 {
		return 0, 0, errs.ErrTruncatedInput
	}

	v, n := binary.Uvarint(data)
	if n == 0 {
		return 0, 0, errs.ErrTruncatedInput
	}
	if n < 0 {
		return 0, 0, errs.ErrBadVarint
	}

	return v, n, nil
}

// takeVarint decodes a zigzag+varint-encoded signed value from the front of
// data.
func takeVarint(data []byte) (int64, int, error) {
	zigzag, n, err := takeUvarint(data)
	if err != nil {
		return 0, 0, err
	}

	v := int64(zigzag>>1) ^ -(int64(zigzag & 1)) //nolint:gosec

	return v, n, nil
}
