package microrng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutodetectMaxFrequency(t *testing.T) {
	t.Run("stops at first failing step", func(t *testing.T) {
		// Communication holds through step 5 (1.25 MHz) and corrupts from
		// step 6 (1.5 MHz) onward.
		dev := &simDevice{badClockHz: 6 * MinClockHz}
		s := New(dev)

		hz, err := s.AutodetectMaxFrequency()
		require.NoError(t, err)
		assert.Equal(t, 5*MinClockHz, hz)
		assert.Equal(t, 5*MinClockHz, s.MaxClockFrequency())
	})

	t.Run("first step failing fails calibration", func(t *testing.T) {
		dev := &simDevice{badClockHz: MinClockHz}
		s := New(dev)

		_, err := s.AutodetectMaxFrequency()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCalibrationFailed)
		// The session is left at the attempted (failing) frequency; callers
		// must re-set a known-good rate before further use.
		assert.Equal(t, MinClockHz, s.MaxClockFrequency())
		assert.NotEmpty(t, s.LastError())
	})

	t.Run("sweeps the full range when nothing fails", func(t *testing.T) {
		dev := &simDevice{}
		s := New(dev)

		hz, err := s.AutodetectMaxFrequency()
		require.NoError(t, err)
		assert.Equal(t, MaxClockHz-MinClockHz, hz)
	})

	t.Run("probes every step at its own clock", func(t *testing.T) {
		dev := &simDevice{badClockHz: 3 * MinClockHz}
		s := New(dev)

		hz, err := s.AutodetectMaxFrequency()
		require.NoError(t, err)
		assert.Equal(t, 2*MinClockHz, hz)

		// Steps 1 and 2 pass, step 3 fails: the sweep transfers at 250 kHz,
		// 500 kHz and 750 kHz, in order.
		seen := map[uint32]bool{}
		for _, c := range dev.clocks {
			seen[c] = true
		}
		assert.Equal(t, map[uint32]bool{
			MinClockHz:     true,
			2 * MinClockHz: true,
			3 * MinClockHz: true,
		}, seen)
	})
}
