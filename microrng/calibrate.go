package microrng

import "fmt"

// AutodetectMaxFrequency finds the highest SPI clock at which communication
// still validates. It sweeps upward from MinClockHz in MinClockHz steps,
// running ValidateCommunication at each rate, and on the first failure
// restores the last frequency that passed. The calibrated frequency is
// returned and left set on the session.
//
// The sweep is deliberately linear. Near the electrical limit, failure is
// not guaranteed to be monotonic in frequency, so a binary search could
// settle on a rate that only passed by chance; the sweep space is small at
// these rates anyway.
//
// If even the first step fails, ErrCalibrationFailed is returned and the
// session is left at the failing frequency; set a known-good frequency
// before further use.
func (s *Session) AutodetectMaxFrequency() (uint32, error) {
	if err := s.requireConnected(); err != nil {
		return 0, err
	}
	calibrated := false
	for hz := MinClockHz; hz < MaxClockHz; hz += MinClockHz {
		good := s.clockHz
		s.clockHz = hz
		if s.ValidateCommunication() != nil {
			if calibrated {
				s.clockHz = good
			}
			break
		}
		calibrated = true
	}
	if !calibrated {
		return 0, s.fail(fmt.Errorf("no usable clock frequency up to %d Hz: %w", MaxClockHz, ErrCalibrationFailed))
	}
	return s.clockHz, nil
}
