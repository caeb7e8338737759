package endian

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngine_Uint32RoundTrip(t *testing.T) {
	buf := Engine.AppendUint32(nil, 0xDEADBEEF)
	assert.Len(t, buf, 4)
	assert.Equal(t, uint32(0xDEADBEEF), Engine.Uint32(buf))
}

func TestEngine_IsBigEndian(t *testing.T) {
	buf := Engine.AppendUint32(nil, 1)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x01}, buf)
}

func TestEngine_PutUint32(t *testing.T) {
	buf := make([]byte, 4)
	Engine.PutUint32(buf, 0x01020304)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, buf)
	assert.Equal(t, uint32(0x01020304), Engine.Uint32(buf))
}
