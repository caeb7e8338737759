package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandle_Update_FirstTrade(t *testing.T) {
	var c Candle
	c = c.Update(100)

	assert.True(t, c.Valid)
	assert.Equal(t, int32(100), c.O)
	assert.Equal(t, int32(100), c.H)
	assert.Equal(t, int32(100), c.L)
	assert.Equal(t, int32(100), c.C)
}

func TestCandle_Update_WidensHighLow(t *testing.T) {
	var c Candle
	c = c.Update(100)
	c = c.Update(150)
	c = c.Update(90)
	c = c.Update(120)

	assert.Equal(t, int32(100), c.O)
	assert.Equal(t, int32(150), c.H)
	assert.Equal(t, int32(90), c.L)
	assert.Equal(t, int32(120), c.C)
}

func TestCandleEncodeDecodeRoundTrip(t *testing.T) {
	c := Candle{Valid: true, O: 100, H: 200, L: 50, C: 175}

	buf := EncodeCandle(c)
	assert.Len(t, buf, CandleSize)

	decoded, err := DecodeCandle(buf[:])
	require.NoError(t, err)
	assert.Equal(t, c, decoded)
}

func TestCandleEncodeDecode_NotValid(t *testing.T) {
	c := Candle{Valid: false}

	buf := EncodeCandle(c)
	decoded, err := DecodeCandle(buf[:])
	require.NoError(t, err)
	assert.False(t, decoded.Valid)
}

func TestDecodeCandle_Truncated(t *testing.T) {
	_, err := DecodeCandle(make([]byte, 4))
	assert.Error(t, err)
}
