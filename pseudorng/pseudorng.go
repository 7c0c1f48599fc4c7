// Package pseudorng is a software baseline source used to sanity-check the
// collection pipeline against the hardware generator.
package pseudorng

import (
	crand "crypto/rand"
	"errors"
)

// ReadBits returns bitCount pseudorandom bits packed MSB-first per byte.
// Unused trailing bits of the final byte are zero.
func ReadBits(bitCount int) ([]byte, error) {
	if bitCount <= 0 {
		return nil, errors.New("bitCount must be positive")
	}
	buf := make([]byte, (bitCount+7)/8)
	if _, err := crand.Read(buf); err != nil {
		return nil, err
	}
	if extra := (8 - bitCount%8) % 8; extra != 0 {
		buf[len(buf)-1] &= 0xFF << extra
	}
	return buf, nil
}
