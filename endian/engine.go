// Package endian provides the byte-order engine used for pulsedb's
// fixed-width binary fields.
//
// This mirrors mebo's endian package, which combines binary.ByteOrder and
// binary.AppendByteOrder into a single EndianEngine interface for cleaner
// call sites. pulsedb's on-disk format pins the candle slot and chunk map to
// big-endian (spec §6), so unlike mebo — which lets callers choose per
// blob — only the big-endian engine is exposed here.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface, satisfied by binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Engine is the fixed big-endian engine used for the chunk map and candle
// slot, per the file format contract in spec.md §6.
var Engine EndianEngine = binary.BigEndian
