// Package archive provides general-purpose compression codecs for
// exported row-stream data.
//
// This is a supplemental feature layered on top of the core engine, not
// part of the bit-exact on-disk format: a pulsedb file's row stream is
// never compressed in place. cmd/tickctl's export subcommand uses this
// package to shrink a day's decoded events before writing them out for
// cold storage or transfer.
//
// Four codecs are available:
//   - None: passthrough, useful when the caller wants a uniform Codec
//     interface without paying any compression cost
//   - Zstd: best ratio, the default for cold storage exports
//   - S2: balanced ratio and speed
//   - LZ4: fastest decompression, moderate ratio
package archive
