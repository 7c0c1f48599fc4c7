package naming

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseName(t *testing.T) {
	now := time.Date(2026, 8, 23, 14, 5, 9, 0, time.UTC)

	tests := []struct {
		name     string
		device   Device
		bits     int
		interval int
		want     string
		wantErr  bool
	}{
		{"mcrng", DeviceMicroRNG, 2048, 1, "20260823T140509_mcrng_s2048_i1", false},
		{"pseudo", DevicePseudo, 256, 5, "20260823T140509_pseudo_s256_i5", false},
		{"unknown device", Device("usb"), 2048, 1, "", true},
		{"zero bits", DeviceMicroRNG, 0, 1, "", true},
		{"negative interval", DeviceMicroRNG, 2048, -1, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BaseName(now, tt.device, tt.bits, tt.interval)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSamplePathsRoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 23, 14, 5, 9, 0, time.UTC)
	binPath, csvPath, err := SamplePaths("data", now, DeviceMicroRNG, 2048, 3)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("data", "20260823T140509_mcrng_s2048_i3.bin"), binPath)
	assert.Equal(t, filepath.Join("data", "20260823T140509_mcrng_s2048_i3.csv"), csvPath)

	for _, p := range []string{binPath, csvPath} {
		bits, err := ParseBits(p)
		require.NoError(t, err)
		assert.Equal(t, 2048, bits)

		interval, err := ParseInterval(p)
		require.NoError(t, err)
		assert.Equal(t, 3, interval)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := ParseBits("data/random.bin")
	assert.Error(t, err)
	_, err = ParseInterval("data/random.bin")
	assert.Error(t, err)
}
