// mccollect reads a fixed number of random bits from a MicroRNG device (or
// the software baseline) at a fixed interval, appending the raw bytes to a
// .bin file and a "timestamp,ones" line per sample to a .csv file. The file
// pair follows the naming convention understood by mcexcel.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/tectrolabs/microrng-go/microrng"
	"github.com/tectrolabs/microrng-go/naming"
	"github.com/tectrolabs/microrng-go/pseudorng"
	"github.com/tectrolabs/microrng-go/stats"
)

func main() {
	bitsFlag := flag.Int("bits", 2048, "number of bits per sample (> 0)")
	intervalSec := flag.Int("interval", 1, "interval between samples in seconds (> 0)")
	deviceFlag := flag.String("device", string(naming.DeviceMicroRNG), "data source: mcrng|pseudo")
	devicePath := flag.String("dp", "/dev/spidev0.0", "SPI device path (mcrng source only)")
	outDir := flag.String("outdir", "data", "output directory")
	flag.Parse()

	if *bitsFlag <= 0 {
		log.Fatal("-bits must be > 0")
	}
	if *intervalSec <= 0 {
		log.Fatal("-interval must be > 0")
	}
	dev := naming.Device(*deviceFlag)
	if err := dev.Validate(); err != nil {
		log.Fatal(err)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("creating outdir: %v", err)
	}

	readBits, cleanup, err := newSource(dev, *devicePath, *bitsFlag)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	binPath, csvPath, err := naming.SamplePaths(*outDir, time.Now(), dev, *bitsFlag, *intervalSec)
	if err != nil {
		log.Fatalf("build filenames: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := collect(ctx, readBits, binPath, csvPath, *bitsFlag, *intervalSec); err != nil {
		log.Fatal(err)
	}
}

// newSource returns a reader producing one sample's worth of bits, plus a
// cleanup releasing whatever the source holds open.
func newSource(dev naming.Device, devicePath string, bitCount int) (func() ([]byte, error), func(), error) {
	switch dev {
	case naming.DevicePseudo:
		return func() ([]byte, error) { return pseudorng.ReadBits(bitCount) }, func() {}, nil
	case naming.DeviceMicroRNG:
		s, err := microrng.Connect(devicePath)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open spi device %s: %w", devicePath, err)
		}
		if err := s.ValidateDevice(); err != nil {
			_ = s.Disconnect()
			return nil, nil, err
		}
		byteCount := (bitCount + 7) / 8
		read := func() ([]byte, error) {
			buf := make([]byte, byteCount)
			if err := s.RandomBytes(buf); err != nil {
				return nil, err
			}
			// Zero unused trailing bits so ones counting is consistent.
			if extra := (8 - bitCount%8) % 8; extra != 0 {
				buf[len(buf)-1] &= 0xFF << extra
			}
			return buf, nil
		}
		return read, func() { _ = s.Disconnect() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported device: %s", dev)
	}
}

func collect(ctx context.Context, readBits func() ([]byte, error), binPath, csvPath string, bitCount, intervalSec int) error {
	binFile, err := os.OpenFile(binPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open bin file: %w", err)
	}
	defer binFile.Close()
	binBuf := bufio.NewWriter(binFile)
	defer binBuf.Flush()

	csvFile, err := os.OpenFile(csvPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open csv file: %w", err)
	}
	defer csvFile.Close()
	csvBuf := bufio.NewWriter(csvFile)
	defer csvBuf.Flush()

	interval := time.Duration(intervalSec) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("collecting %d bits every %s into %s", bitCount, interval, binPath)
	sampleNum := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		batch, err := readBits()
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read sample: %w", err)
		}

		if _, err := binBuf.Write(batch); err != nil {
			return fmt.Errorf("write bin: %w", err)
		}
		_ = binBuf.Flush()

		ones := stats.CountOnes(batch, bitCount)
		sampleNum++
		ts := time.Now().Format("20060102T15:04:05")
		if _, err := fmt.Fprintf(csvBuf, "%s,%d\n", ts, ones); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		_ = csvBuf.Flush()

		fmt.Printf("sample %d: ones=%d/%d at %s\n", sampleNum, ones, bitCount, ts)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
