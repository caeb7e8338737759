package section

import (
	"github.com/pulsedb/pulsedb/encoding"
)

// ChunkMapSize returns the fixed on-disk byte length of a chunk map with n
// buckets: n entries of encoding.ChunkCellSize bytes each.
func ChunkMapSize(numberOfChunks int) int {
	return numberOfChunks * encoding.ChunkCellSize
}

// EncodeChunkMap renders offsets (indexed by bucket, zero meaning empty)
// as the fixed-size chunk-map region.
func EncodeChunkMap(offsets []uint32) []byte {
	buf := make([]byte, 0, len(offsets)*encoding.ChunkCellSize)
	for _, off := range offsets {
		buf = encoding.EncodeChunkCell(buf, off)
	}

	return buf
}

// DecodeChunkMap parses the fixed-size chunk-map region into numberOfChunks
// offsets, indexed by bucket.
func DecodeChunkMap(data []byte, numberOfChunks int) ([]uint32, error) {
	offsets := make([]uint32, numberOfChunks)

	for i := 0; i < numberOfChunks; i++ {
		off, err := encoding.DecodeChunkCell(data[i*encoding.ChunkCellSize:])
		if err != nil {
			return nil, err
		}

		offsets[i] = off
	}

	return offsets, nil
}
