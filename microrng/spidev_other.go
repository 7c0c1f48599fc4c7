//go:build !linux

package microrng

import "fmt"

// The spidev interface only exists on Linux. The engine itself is portable:
// sessions over a custom Transport work on any platform.
func openSpidev(path string) (Transport, error) {
	return nil, fmt.Errorf("open %s: spidev requires linux: %w", path, ErrDeviceUnavailable)
}
