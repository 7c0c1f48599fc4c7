package pseudorng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBits(t *testing.T) {
	tests := []struct {
		bits      int
		wantBytes int
	}{
		{1, 1},
		{8, 1},
		{9, 2},
		{2048, 256},
	}
	for _, tt := range tests {
		buf, err := ReadBits(tt.bits)
		require.NoError(t, err)
		assert.Len(t, buf, tt.wantBytes)
	}
}

func TestReadBitsMasksTrailingBits(t *testing.T) {
	// 3 bits: the low 5 bits of the single byte must be zero.
	for i := 0; i < 32; i++ {
		buf, err := ReadBits(3)
		require.NoError(t, err)
		assert.Zero(t, buf[0]&0x1F)
	}
}

func TestReadBitsRejectsNonPositive(t *testing.T) {
	for _, bits := range []int{0, -1} {
		_, err := ReadBits(bits)
		assert.Error(t, err)
	}
}
