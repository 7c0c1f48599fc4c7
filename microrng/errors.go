package microrng

import "errors"

// Failure categories reported by the driver. Operations wrap these with
// context; match them with errors.Is. No operation retries internally: a
// corrupted multi-byte run cannot be trusted to resume, so every failure is
// surfaced to the caller immediately.
var (
	// ErrDeviceUnavailable means the SPI device node could not be opened.
	ErrDeviceUnavailable = errors.New("spi device unavailable")

	// ErrConfigurationFailed means the bus driver rejected the mode, word
	// width or clock configuration.
	ErrConfigurationFailed = errors.New("spi configuration failed")

	// ErrTransferFailed means a full-duplex byte exchange did not complete.
	ErrTransferFailed = errors.New("spi transfer failed")

	// ErrDeviceNotFound means the device identity probe failed: whatever is
	// on the bus does not behave like a MicroRNG.
	ErrDeviceNotFound = errors.New("microrng device not found")

	// ErrCommunication means the communication integrity probe observed
	// corrupted data, typically from a clock rate beyond the wiring's limit.
	ErrCommunication = errors.New("spi communication validation failed")

	// ErrCalibrationFailed means no clock frequency passed the integrity
	// probe during autodetection.
	ErrCalibrationFailed = errors.New("clock frequency calibration failed")

	// ErrInvalidArgument means the caller passed an unusable argument, such
	// as an empty destination buffer.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotConnected means the operation requires a connected session.
	ErrNotConnected = errors.New("not connected")
)
