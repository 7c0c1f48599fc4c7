// mcrng downloads random bytes from a MicroRNG device into a file or to
// standard output.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tectrolabs/microrng-go/microrng"
)

const (
	chunkSize     = 32000
	maxDownload   = 200_000_000_000
	defaultSPIDev = "/dev/spidev0.0"
)

func main() {
	fileName := flag.String("fn", "", "output file name, or STDOUT for standard output")
	numBytes := flag.Int64("nb", -1, "number of random bytes to download (max 200000000000); omit for continuous download")
	devicePath := flag.String("dp", defaultSPIDev, "SPI device path")
	flag.Parse()

	if *fileName == "" {
		flag.Usage()
		log.Fatal("no file name defined (-fn)")
	}
	if *numBytes > maxDownload {
		log.Fatalf("number of bytes cannot exceed %d", int64(maxDownload))
	}

	if err := run(*devicePath, *fileName, *numBytes); err != nil {
		log.Fatal(err)
	}
}

func run(devicePath, fileName string, numBytes int64) error {
	s, err := microrng.Connect(devicePath)
	if err != nil {
		return fmt.Errorf("cannot open spi device %s: %w", devicePath, err)
	}
	defer s.Disconnect()

	var sink io.Writer
	if fileName == "STDOUT" || fileName == "/dev/stdout" {
		sink = os.Stdout
	} else {
		f, err := os.Create(fileName)
		if err != nil {
			return fmt.Errorf("cannot open file %s in write mode: %w", fileName, err)
		}
		defer f.Close()
		sink = f
	}

	w := bufio.NewWriter(sink)
	if err := download(s, w, numBytes); err != nil {
		return err
	}
	return w.Flush()
}

// download streams random bytes in chunkSize blocks. A negative numBytes
// streams until an error occurs or the process is killed.
func download(s *microrng.Session, w io.Writer, numBytes int64) error {
	buf := make([]byte, chunkSize)
	for numBytes != 0 {
		n := int64(chunkSize)
		if numBytes > 0 && numBytes < n {
			n = numBytes
		}
		if err := s.RandomBytes(buf[:n]); err != nil {
			return fmt.Errorf("failed to receive %d random bytes: %w", n, err)
		}
		if _, err := w.Write(buf[:n]); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		if numBytes > 0 {
			numBytes -= n
		}
	}
	return nil
}
