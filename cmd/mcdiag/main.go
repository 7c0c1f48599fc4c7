// mcdiag exercises a MicroRNG device end to end: identity, communication
// integrity, clock calibration, sleep/wake, throughput and health status.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/tectrolabs/microrng-go/microrng"
)

const (
	blockSize   = 32000
	speedBlocks = 20
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mcdiag <spi device>")
		fmt.Fprintln(os.Stderr, "Example: mcdiag /dev/spidev0.0")
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
	fmt.Printf("Opening device %s ... ", devicePath)
	s, err := microrng.Connect(devicePath)
	if err != nil {
		fmt.Println("FAILED")
		return err
	}
	defer s.Disconnect()
	fmt.Println("ok")

	// The noise sources may still be asleep from a previous run.
	if _, err := s.Wake(); err != nil {
		return fmt.Errorf("wake: %w", err)
	}

	fmt.Print("Validating device identity ... ")
	if err := s.ValidateDevice(); err != nil {
		fmt.Println("FAILED")
		return err
	}
	fmt.Println("MicroRNG detected")

	fmt.Print("Autodetecting maximum SPI clock ... ")
	hz, err := s.AutodetectMaxFrequency()
	if err != nil {
		fmt.Println("FAILED")
		return err
	}
	fmt.Printf("%d Hz\n", hz)

	buf := make([]byte, blockSize)

	fmt.Printf("Retrieving %d random bytes ... ", blockSize)
	if err := s.RandomBytes(buf); err != nil {
		fmt.Println("FAILED")
		return err
	}
	fmt.Println("ok")

	fmt.Printf("Retrieving %d raw random bytes ... ", blockSize)
	if err := s.RawRandomBytes(buf); err != nil {
		fmt.Println("FAILED")
		return err
	}
	fmt.Println("ok")

	fmt.Print("Shutting noise sources down ... ")
	ack, err := s.Sleep()
	if err != nil {
		fmt.Println("FAILED")
		return err
	}
	if ack != microrng.SleepAck {
		fmt.Println("FAILED")
		return fmt.Errorf("sleep acknowledged with %d, want %d", ack, microrng.SleepAck)
	}
	fmt.Println("ok")

	fmt.Print("Starting noise sources up ... ")
	ack, err = s.Wake()
	if err != nil {
		fmt.Println("FAILED")
		return err
	}
	if ack != 0 {
		fmt.Println("FAILED")
		return fmt.Errorf("wake acknowledged with %d, want 0", ack)
	}
	fmt.Println("ok")

	fmt.Print("Measuring transfer speed ... ")
	start := time.Now()
	for i := 0; i < speedBlocks; i++ {
		if err := s.RandomBytes(buf); err != nil {
			fmt.Println("FAILED")
			return err
		}
	}
	elapsed := time.Since(start)
	kbps := float64(blockSize*speedBlocks*8) / elapsed.Seconds() / 1024
	fmt.Printf("%.0f kbit/s\n", kbps)

	fmt.Print("Checking internal status ... ")
	status, err := s.StatusByte()
	if err != nil {
		fmt.Println("FAILED")
		return err
	}
	if status != 0 {
		fmt.Println("FAILED")
		return fmt.Errorf("device reports fault code %d", status)
	}
	fmt.Println("healthy")
	return nil
}
