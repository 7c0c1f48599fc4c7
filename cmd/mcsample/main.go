// mcsample demonstrates retrieving random data from a MicroRNG device: a
// handful of raw bytes and a few uniform numbers derived from them.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tectrolabs/microrng-go/microrng"
)

const (
	byteCount   = 10
	numberCount = 10
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mcsample <spi device>")
		fmt.Fprintln(os.Stderr, "Example: mcsample /dev/spidev0.0")
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(flag.Arg(0)); err != nil {
		log.Fatal(err)
	}
}

func run(devicePath string) error {
	s, err := microrng.Connect(devicePath)
	if err != nil {
		return err
	}
	defer s.Disconnect()

	if err := s.ValidateDevice(); err != nil {
		return err
	}
	fmt.Printf("MicroRNG device open, SPI clock frequency: %d Hz\n\n", s.MaxClockFrequency())

	buf := make([]byte, byteCount)
	if err := s.RandomBytes(buf); err != nil {
		return err
	}
	fmt.Printf("*** %d random bytes ***\n", byteCount)
	for i, b := range buf {
		fmt.Printf("random byte %d -> %d\n", i, b)
	}

	raw := make([]byte, numberCount*4)
	if err := s.RandomBytes(raw); err != nil {
		return err
	}
	fmt.Printf("\n*** %d random numbers between 0 and 1 with 5 decimals ***\n", numberCount)
	for i := 0; i < numberCount; i++ {
		u := binary.LittleEndian.Uint32(raw[i*4:])
		fmt.Printf("random number -> %.5f\n", float64(u%99999)/100000.0)
	}
	return nil
}
