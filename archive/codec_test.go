package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCodec(t *testing.T) {
	tests := []struct {
		name  string
		ctype CompressionType
		want  string
	}{
		{"none", CompressionNone, "none"},
		{"zstd", CompressionZstd, "zstd"},
		{"s2", CompressionS2, "s2"},
		{"lz4", CompressionLZ4, "lz4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, err := CreateCodec(tt.ctype, "export")
			require.NoError(t, err)
			require.NotNil(t, codec)
			assert.Equal(t, tt.want, tt.ctype.String())
		})
	}
}

func TestCreateCodec_Invalid(t *testing.T) {
	_, err := CreateCodec(CompressionType(0xFF), "export")
	assert.Error(t, err)
}

func TestGetCodec(t *testing.T) {
	codec, err := GetCodec(CompressionZstd)
	require.NoError(t, err)
	require.NotNil(t, codec)
}

func TestGetCodec_Unsupported(t *testing.T) {
	_, err := GetCodec(CompressionType(0xFF))
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	data := []byte("2024/01/05 full-md row stream payload used for archive round-trip testing")

	for _, ctype := range []CompressionType{CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4} {
		t.Run(ctype.String(), func(t *testing.T) {
			codec, err := CreateCodec(ctype, "export")
			require.NoError(t, err)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)

			assert.Equal(t, data, decompressed)
		})
	}
}

func TestRoundTrip_Empty(t *testing.T) {
	for _, ctype := range []CompressionType{CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4} {
		t.Run(ctype.String(), func(t *testing.T) {
			codec, err := CreateCodec(ctype, "export")
			require.NoError(t, err)

			compressed, err := codec.Compress(nil)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)

			assert.Empty(t, decompressed)
		})
	}
}

func TestCompressionStats(t *testing.T) {
	stats := CompressionStats{
		Algorithm:      CompressionZstd,
		OriginalSize:   1000,
		CompressedSize: 250,
	}

	assert.InDelta(t, 0.25, stats.CompressionRatio(), 0.0001)
	assert.InDelta(t, 75.0, stats.SpaceSavings(), 0.0001)
}

func TestCompressionStats_ZeroOriginal(t *testing.T) {
	stats := CompressionStats{OriginalSize: 0, CompressedSize: 0}
	assert.Equal(t, 0.0, stats.CompressionRatio())
}
