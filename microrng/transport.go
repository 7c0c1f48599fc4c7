package microrng

// Transport performs raw full-duplex single-byte exchanges with the device.
// Implementations own the underlying bus handle exclusively; Close releases
// it and must be idempotent.
type Transport interface {
	// Transfer clocks out one byte at the given clock frequency and returns
	// the byte clocked in during the same exchange.
	Transfer(out byte, clockHz uint32) (byte, error)

	Close() error
}
