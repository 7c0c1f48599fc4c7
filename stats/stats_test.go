package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountOnes(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		bits int
		want int
	}{
		{"empty", nil, 8, 0},
		{"zero bits", []byte{0xFF}, 0, 0},
		{"full bytes", []byte{0xFF, 0x0F}, 16, 12},
		{"partial last byte", []byte{0xFF}, 4, 4},
		{"trailing bits ignored", []byte{0x0F}, 4, 0},
		{"bit count beyond buffer", []byte{0xFF}, 32, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountOnes(tt.buf, tt.bits))
		})
	}
}

func TestZTest(t *testing.T) {
	// 16-bit samples: expected mean 8, stddev 2.
	samples := []Sample{
		{Label: "1", Ones: 16},
		{Label: "2", Ones: 8},
		{Label: "3", Ones: 0},
	}
	ZTest(samples, 16)

	assert.InDelta(t, 16.0, samples[0].CumulativeMean, 1e-9)
	assert.InDelta(t, 4.0, samples[0].ZScore, 1e-9) // (16-8)/(2/1)

	assert.InDelta(t, 12.0, samples[1].CumulativeMean, 1e-9)
	assert.InDelta(t, (12.0-8.0)/(2.0/1.4142135623730951), samples[1].ZScore, 1e-9)

	assert.InDelta(t, 8.0, samples[2].CumulativeMean, 1e-9)
	assert.InDelta(t, 0.0, samples[2].ZScore, 1e-9)
}

func TestReadBin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.bin")
	// Two full 16-bit blocks and one partial byte.
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xFF, 0x00, 0x0F, 0xF0}, 0o644))

	samples, err := ReadBin(path, 16)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, Sample{Label: "1", Ones: 16}, samples[0])
	assert.Equal(t, Sample{Label: "2", Ones: 4}, samples[1])
	assert.Equal(t, Sample{Label: "3", Ones: 4}, samples[2])
}

func TestReadBinRejectsBadBlockSize(t *testing.T) {
	for _, bitsPerSample := range []int{0, -8, 12} {
		_, err := ReadBin("ignored.bin", bitsPerSample)
		assert.Error(t, err)
	}
}

func TestReadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.csv")
	content := "20260823T14:05:09,1024\n20260823T14:05:10,1031\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	samples, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, "14:05:09", samples[0].Label)
	assert.Equal(t, 1024, samples[0].Ones)
	assert.Equal(t, "14:05:10", samples[1].Label)
	assert.Equal(t, 1031, samples[1].Ones)
}

func TestReadCSVRejectsBadOnes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.csv")
	require.NoError(t, os.WriteFile(path, []byte("14:05:09,notanumber\n"), 0o644))

	_, err := ReadCSV(path)
	assert.Error(t, err)
}
