// Package naming implements the filename convention shared by the
// collection and reporting tools:
//
//	YYYYMMDDTHHMMSS_{device}_s{bits}_i{interval}
//
// where device names the data source, bits is the sample size per
// collection and interval is the seconds between collections.
package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// Device identifies the data source used to collect random bits.
type Device string

const (
	// DeviceMicroRNG is the MicroRNG hardware generator on the SPI bus.
	DeviceMicroRNG Device = "mcrng"
	// DevicePseudo is the software baseline source.
	DevicePseudo Device = "pseudo"
)

// Validate checks whether d is one of the known device identifiers.
func (d Device) Validate() error {
	if d == DeviceMicroRNG || d == DevicePseudo {
		return nil
	}
	return fmt.Errorf("invalid device: %q (allowed: mcrng, pseudo)", string(d))
}

const stampLayout = "20060102T150405"

// BaseName builds the base filename for a collection run starting at now.
func BaseName(now time.Time, device Device, bits, intervalSeconds int) (string, error) {
	if err := device.Validate(); err != nil {
		return "", err
	}
	if bits <= 0 {
		return "", errors.New("bits must be > 0")
	}
	if intervalSeconds <= 0 {
		return "", errors.New("intervalSeconds must be > 0")
	}
	return fmt.Sprintf("%s_%s_s%d_i%d", now.Format(stampLayout), string(device), bits, intervalSeconds), nil
}

// SamplePaths returns the .bin and .csv paths for one collection run. An
// empty dir places the files in the current directory.
func SamplePaths(dir string, now time.Time, device Device, bits, intervalSeconds int) (binPath, csvPath string, err error) {
	base, err := BaseName(now, device, bits, intervalSeconds)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(dir, base+".bin"), filepath.Join(dir, base+".csv"), nil
}

var (
	bitsRe     = regexp.MustCompile(`_s(\d+)_i`)
	intervalRe = regexp.MustCompile(`_i(\d+)`)
)

// ParseBits extracts the per-sample bit count from a collected file name.
func ParseBits(path string) (int, error) {
	return parseSegment(bitsRe, path, "bit count")
}

// ParseInterval extracts the collection interval in seconds from a
// collected file name.
func ParseInterval(path string) (int, error) {
	return parseSegment(intervalRe, path, "interval")
}

func parseSegment(re *regexp.Regexp, path, what string) (int, error) {
	m := re.FindStringSubmatch(path)
	if len(m) < 2 {
		return 0, fmt.Errorf("%s not found in file name: %s", what, filepath.Base(path))
	}
	return strconv.Atoi(m[1])
}
