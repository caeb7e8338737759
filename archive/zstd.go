package archive

// ZstdCompressor provides Zstandard compression for exported row data.
//
// Ratio matters more than speed here: exports are cold storage, written
// once and read rarely, so this is the default codec for cmd/tickctl's
// export subcommand.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
