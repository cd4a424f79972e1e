package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteBits_SingleByte(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 4)
	next := writeBits(buf, 0, 0, 0b101, 3)

	assert.Equal(t, 3, next)
	assert.Equal(t, byte(0b1010_0000), buf[0])
}

func TestWriteBits_CrossesByteBoundary(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 4)
	next := writeBits(buf, 0, 5, 0xABC, 12) // 1010 1011 1100

	assert.Equal(t, 17, next)
	// bits land at positions 5..16: 00000101 01011110 0
	assert.Equal(t, byte(0b0000_0101), buf[0])
	assert.Equal(t, byte(0b0101_1110), buf[1])
	assert.Equal(t, byte(0b0000_0000), buf[2])
}

func TestWriteBits_BaseOffset(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 6)
	writeBits(buf, 3, 0, 0xFF, 8)

	assert.Equal(t, []byte{0, 0, 0, 0xFF, 0, 0}, buf)
}

func TestWriteBits_ORSemantics(t *testing.T) {
	t.Parallel()

	// Adjacent writes into the same byte must not clobber each other.
	buf := make([]byte, 1)
	idx := writeBits(buf, 0, 0, 0b11, 2)
	idx = writeBits(buf, 0, idx, 0b01, 2)
	writeBits(buf, 0, idx, 0b1111, 4)

	assert.Equal(t, byte(0b1101_1111), buf[0])
}

func TestReadBits_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		values []uint32
		widths []int
	}{
		"single_bit_stream": {values: []uint32{1, 0, 1, 1, 0, 1}, widths: []int{1, 1, 1, 1, 1, 1}},
		"mixed_widths":      {values: []uint32{5, 1023, 0, 77, 65535}, widths: []int{3, 10, 7, 9, 16}},
		"max_width_values":  {values: []uint32{65535, 65535}, widths: []int{16, 16}},
		"byte_misalignment": {values: []uint32{1, 2, 3, 4, 5}, widths: []int{5, 5, 5, 5, 5}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			total := 0
			for _, w := range tt.widths {
				total += w
			}
			buf := make([]byte, 2+(total+7)/8)

			idx := 0
			for i, v := range tt.values {
				idx = writeBits(buf, 2, idx, v, tt.widths[i])
			}
			require.Equal(t, total, idx)

			idx = 0
			for i, want := range tt.values {
				got := readBits(buf, 2, idx, tt.widths[i])
				assert.Equal(t, want, got, "value %d", i)
				idx += tt.widths[i]
			}
		})
	}
}

func TestReadBits_MSBFirst(t *testing.T) {
	t.Parallel()

	// 0x80 carries the first bit of the stream.
	buf := []byte{0b1000_0000, 0}
	assert.Equal(t, uint32(1), readBits(buf, 0, 0, 1))
	assert.Equal(t, uint32(0b10), readBits(buf, 0, 0, 2))
	assert.Equal(t, uint32(0b1000_0000_0), readBits(buf, 0, 0, 9))
}
