package endian

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	require := require.New(t)

	result := CheckEndianness()

	var testValue uint16 = 0x0102
	testBytes := (*[2]byte)(unsafe.Pointer(&testValue))

	switch testBytes[0] {
	case 0x01:
		require.Equal(binary.BigEndian, result)
	case 0x02:
		require.Equal(binary.LittleEndian, result)
	default:
		require.Failf("Unexpected byte value", "got: %v", testBytes[0])
	}
}

func TestIsNativeLittleEndian(t *testing.T) {
	require.Equal(t, CheckEndianness() == binary.LittleEndian, IsNativeLittleEndian())
}

func TestCompareNativeEndian(t *testing.T) {
	little := CompareNativeEndian(GetLittleEndianEngine())
	big := CompareNativeEndian(GetBigEndianEngine())

	require.NotEqual(t, little, big, "exactly one engine matches the host")
	require.Equal(t, IsNativeLittleEndian(), little)
}

func TestEngines_Float32RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		engine EndianEngine
		first  byte
	}{
		{name: "little", engine: GetLittleEndianEngine(), first: 0x00},
		{name: "big", engine: GetBigEndianEngine(), first: 0x3f},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 1.0 is 0x3f800000 in IEEE 754 single precision.
			buf := tt.engine.AppendUint32(nil, math.Float32bits(1.0))

			require.Len(t, buf, 4)
			require.Equal(t, tt.first, buf[0])
			require.Equal(t, float32(1.0), math.Float32frombits(tt.engine.Uint32(buf)))
		})
	}
}
