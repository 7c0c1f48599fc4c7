package microrng

import "fmt"

const (
	// deviceProbeCount is the number of transfer IDs sampled by
	// ValidateDevice.
	deviceProbeCount = 16

	// commProbeBytes is the length of the transfer-ID run sampled by
	// ValidateCommunication.
	commProbeBytes = 2048
)

// Session is one open connection to a MicroRNG device. It owns its
// transport exclusively and tracks the protocol state the byte-pumped bus
// requires: the current clock frequency and the opcode sent on the most
// recent transfer.
//
// A Session is not safe for concurrent use; the device supports exactly one
// outstanding exchange at a time.
type Session struct {
	t         Transport
	clockHz   uint32
	lastCmd   byte
	lastErr   string
	connected bool
}

// Connect opens the SPI device at devicePath (for example /dev/spidev0.0),
// configures it for the MicroRNG (mode 1, 8-bit words, MinClockHz) and
// returns a connected session. Failures to open report
// ErrDeviceUnavailable; rejected bus configuration reports
// ErrConfigurationFailed.
func Connect(devicePath string) (*Session, error) {
	t, err := openSpidev(devicePath)
	if err != nil {
		return nil, err
	}
	return New(t), nil
}

// New wraps an already-open transport in a connected session running at
// MinClockHz. Most callers want Connect; New exists for alternative
// transports and tests.
func New(t Transport) *Session {
	return &Session{
		t:         t,
		clockHz:   MinClockHz,
		lastCmd:   cmdNone,
		connected: true,
	}
}

// IsConnected reports whether the session holds an open transport.
func (s *Session) IsConnected() bool { return s.connected }

// LastError returns the message recorded by the most recent failing
// operation. It is overwritten on each failure, never accumulated.
func (s *Session) LastError() string { return s.lastErr }

// SetMaxClockFrequency sets the SPI master clock used by subsequent
// transfers. Rates beyond the wiring's limit corrupt exchanges; use
// AutodetectMaxFrequency to find the sustainable ceiling.
func (s *Session) SetMaxClockFrequency(hz uint32) { s.clockHz = hz }

// MaxClockFrequency returns the SPI master clock currently in use.
func (s *Session) MaxClockFrequency() uint32 { return s.clockHz }

// Disconnect releases the transport. Calling it on an already disconnected
// session is a no-op.
func (s *Session) Disconnect() error {
	if !s.connected {
		return nil
	}
	s.connected = false
	s.lastCmd = cmdNone
	return s.t.Close()
}

// fail records err as the session's last error and returns it.
func (s *Session) fail(err error) error {
	s.lastErr = err.Error()
	return err
}

func (s *Session) requireConnected() error {
	if !s.connected {
		return s.fail(ErrNotConnected)
	}
	return nil
}

// exchangeByte performs one full-duplex transfer: cmd goes out and the
// response to the previously sent opcode comes back.
func (s *Session) exchangeByte(cmd byte) (byte, error) {
	in, err := s.t.Transfer(cmd, s.clockHz)
	if err != nil {
		// The device may or may not have latched cmd; clear the marker so
		// the next command re-primes.
		s.lastCmd = cmdNone
		return 0, s.fail(fmt.Errorf("exchange byte: %w", err))
	}
	s.lastCmd = cmd
	return in, nil
}

// ExecuteCommand sends cmd and returns its response byte. The bus runs one
// command behind: a transfer returns the response to the opcode sent on the
// preceding transfer. When cmd differs from the last opcode sent, or none
// has been sent yet, one extra priming transfer is issued first and its
// stale response discarded. Repeating the same command therefore costs a
// single transfer per call.
func (s *Session) ExecuteCommand(cmd byte) (byte, error) {
	if err := s.requireConnected(); err != nil {
		return 0, err
	}
	if cmd != s.lastCmd {
		if _, err := s.exchangeByte(cmd); err != nil {
			return 0, err
		}
	}
	return s.exchangeByte(cmd)
}

// TestByte returns the device's transfer ID, which increments with every
// transfer. It carries no entropy and exists for link validation.
func (s *Session) TestByte() (byte, error) { return s.ExecuteCommand(cmdTest) }

// RandomByte returns one random byte post-processed by the device's
// embedded linear corrector.
func (s *Session) RandomByte() (byte, error) { return s.ExecuteCommand(cmdRandomByte) }

// RawRandomByte returns one unprocessed random byte. Intended for
// verification runs or external post-processing.
func (s *Session) RawRandomByte() (byte, error) { return s.ExecuteCommand(cmdRawRandomByte) }

// StatusByte returns the device health status. Zero means healthy; any
// other value is a fault code.
func (s *Session) StatusByte() (byte, error) { return s.ExecuteCommand(cmdStatusByte) }

// Sleep stops both noise sources to save energy while the device is idle.
// A healthy device acknowledges with SleepAck.
func (s *Session) Sleep() (byte, error) { return s.ExecuteCommand(cmdSleep) }

// Wake restarts the noise sources after Sleep. A healthy device
// acknowledges with zero.
func (s *Session) Wake() (byte, error) { return s.ExecuteCommand(cmdWake) }

// ResetUARTSpeed asks the device to restore its separate UART interface to
// the factory default baud rate after the next power cycle or reset
// assertion. On the SPI side this is acknowledgement only.
func (s *Session) ResetUARTSpeed() (byte, error) { return s.ExecuteCommand(cmdResetUART) }

// fillBytes populates buf one command at a time, stopping at the first
// failure. Bytes before the failing position keep their retrieved values;
// the rest of buf is left untouched.
func (s *Session) fillBytes(cmd byte, buf []byte, what string) error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	if len(buf) == 0 {
		return s.fail(fmt.Errorf("%s: empty destination buffer: %w", what, ErrInvalidArgument))
	}
	for i := range buf {
		b, err := s.ExecuteCommand(cmd)
		if err != nil {
			return err
		}
		buf[i] = b
	}
	return nil
}

// RandomBytes fills buf with post-processed random bytes. On failure the
// bytes before the failing position remain valid and the rest of buf is
// untouched; callers must not assume a full buffer when an error is
// returned.
func (s *Session) RandomBytes(buf []byte) error {
	return s.fillBytes(cmdRandomByte, buf, "random bytes")
}

// RawRandomBytes fills buf with unprocessed random bytes. Partial-fill
// semantics match RandomBytes.
func (s *Session) RawRandomBytes(buf []byte) error {
	return s.fillBytes(cmdRawRandomByte, buf, "raw random bytes")
}

// TestBytes fills buf with consecutive transfer IDs. Partial-fill semantics
// match RandomBytes.
func (s *Session) TestBytes(buf []byte) error {
	return s.fillBytes(cmdTest, buf, "test bytes")
}

// ValidateDevice checks that a MicroRNG is actually present by sampling 16
// consecutive transfer IDs and requiring each to be exactly one more than
// the previous, mod 256. The first sample only seeds the expected sequence.
// This catches mis-wiring or a clock setting that corrupts bytes even when
// the transport reports every exchange as successful.
func (s *Session) ValidateDevice() error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	var expect byte
	for i := 1; i <= deviceProbeCount; i++ {
		id, err := s.TestByte()
		if err != nil {
			return s.fail(fmt.Errorf("device probe %d: %w: %w", i, err, ErrDeviceNotFound))
		}
		if i == 1 {
			expect = id
			continue
		}
		expect++
		if id != expect {
			return s.fail(fmt.Errorf("device probe %d: transfer ID %d, want %d: %w", i, id, expect, ErrDeviceNotFound))
		}
	}
	return nil
}

// ValidateCommunication retrieves a 2048-byte run of transfer IDs and
// requires the whole run to be one contiguous mod-256 incrementing sequence
// starting from its first byte. This is the integrity probe used during
// clock calibration; ValidateDevice is the short identity probe.
func (s *Session) ValidateCommunication() error {
	if err := s.requireConnected(); err != nil {
		return err
	}
	buf := make([]byte, commProbeBytes)
	if err := s.TestBytes(buf); err != nil {
		return s.fail(fmt.Errorf("communication probe: %w: %w", err, ErrCommunication))
	}
	expect := buf[0]
	for i := 1; i < len(buf); i++ {
		expect++
		if buf[i] != expect {
			return s.fail(fmt.Errorf("communication probe: sequence break at byte %d: %w", i, ErrCommunication))
		}
	}
	return nil
}
