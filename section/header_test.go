package section

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pulsedb/pulsedb/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHeader() Header {
	return Header{
		Version:    1,
		Stock:      "ACME",
		Date:       time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
		Depth:      5,
		Scale:      100,
		ChunkSize:  300,
		HaveCandle: true,
	}
}

func TestHeaderWriteReadRoundTrip(t *testing.T) {
	h := sampleHeader()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, h))

	got, n, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, h.Version, got.Version)
	assert.Equal(t, h.Stock, got.Stock)
	assert.True(t, h.Date.Equal(got.Date))
	assert.Equal(t, h.Depth, got.Depth)
	assert.Equal(t, h.Scale, got.Scale)
	assert.Equal(t, h.ChunkSize, got.ChunkSize)
	assert.Equal(t, h.HaveCandle, got.HaveCandle)
	assert.Greater(t, n, int64(0))
}

func TestHeaderWrite_StartsWithShebang(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleHeader()))
	assert.True(t, strings.HasPrefix(buf.String(), Shebang+"\n"))
}

func TestHeaderRead_ToleratesCommentLines(t *testing.T) {
	raw := Shebang + "\n# a comment\nversion: 1\nstock: FOO\ndate: 2026/07/31\ndepth: 1\nscale: 1\nchunk_size: 86400\nhave_candle: false\n\n"

	h, _, err := Read(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "FOO", h.Stock)
	assert.False(t, h.HaveCandle)
}

func TestHeaderRead_ToleratesUnknownKeys(t *testing.T) {
	raw := Shebang + "\nversion: 1\nstock: FOO\ndate: 2026/07/31\ndepth: 1\nscale: 1\nchunk_size: 86400\nhave_candle: false\nfuture_field: xyz\n\n"

	h, _, err := Read(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "FOO", h.Stock)
}

func TestHeaderRead_Unterminated(t *testing.T) {
	raw := Shebang + "\nversion: 1"
	_, _, err := Read(strings.NewReader(raw))
	assert.ErrorIs(t, err, errs.ErrInvalidHeader)
}

func TestHeaderRead_Empty(t *testing.T) {
	_, _, err := Read(strings.NewReader(""))
	assert.ErrorIs(t, err, errs.ErrInvalidHeader)
}

func TestHeaderRead_MalformedLine(t *testing.T) {
	raw := Shebang + "\nthis line has no colon\n\n"
	_, _, err := Read(strings.NewReader(raw))
	assert.ErrorIs(t, err, errs.ErrInvalidHeader)
}

func TestHeaderRead_BadVersionValue(t *testing.T) {
	raw := Shebang + "\nversion: not-a-number\n\n"
	_, _, err := Read(strings.NewReader(raw))
	assert.ErrorIs(t, err, errs.ErrInvalidHeader)
}

func TestHeaderRead_BadDateValue(t *testing.T) {
	raw := Shebang + "\nversion: 1\ndate: not-a-date\n\n"
	_, _, err := Read(strings.NewReader(raw))
	assert.ErrorIs(t, err, errs.ErrInvalidHeader)
}

func TestHeader_NumberOfChunks(t *testing.T) {
	h := Header{ChunkSize: 300}
	assert.Equal(t, 288, h.NumberOfChunks())
}

func TestHeader_DayStartMs(t *testing.T) {
	h := Header{Date: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, int64(0), h.DayStartMs())
}

func TestHeader_Validate_OK(t *testing.T) {
	h := sampleHeader()
	assert.NoError(t, h.Validate())
}

func TestHeader_Validate_BadDepth(t *testing.T) {
	h := sampleHeader()
	h.Depth = 0
	assert.ErrorIs(t, h.Validate(), errs.ErrInvalidHeader)
}

func TestHeader_Validate_BadScale(t *testing.T) {
	h := sampleHeader()
	h.Scale = -1
	assert.ErrorIs(t, h.Validate(), errs.ErrInvalidHeader)
}

func TestHeader_Validate_ChunkSizeDoesNotDivideDay(t *testing.T) {
	h := sampleHeader()
	h.ChunkSize = 7
	assert.ErrorIs(t, h.Validate(), errs.ErrInvalidHeader)
}

func TestHeader_Validate_ZeroChunkSize(t *testing.T) {
	h := sampleHeader()
	h.ChunkSize = 0
	assert.ErrorIs(t, h.Validate(), errs.ErrInvalidHeader)
}
