// Package section implements the three fixed-format regions that precede
// the row stream in a pulsedb file: the textual header, the candle slot,
// and the chunk map. Each region has its own encode/decode pair and no
// knowledge of the others; Reader and Appender are the only callers that
// stitch them together against a single file handle.
package section

const (
	// Shebang is the literal first line of every pulsedb file header.
	Shebang = "#!/usr/bin/env pulsedb"

	// SecondsPerDay is the number of seconds in one calendar day; chunk_size
	// must evenly divide it.
	SecondsPerDay = 86400

	// CandleSize is the fixed on-disk width of the candle slot in bytes,
	// per spec.md §6: <valid:1, O:31, H:32, L:32, C:32>.
	CandleSize = 16

	// offsetLen is the width in bits of a single chunk-map offset cell.
	offsetLen = 32
)
