// Package stats reads collected random-sample files and computes the
// running z-score of their ones counts against the expectation for an
// unbiased source.
package stats

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"
	"os"
	"strconv"
	"strings"
	"time"
)

// Sample is one collected observation: a label (sample number or time of
// day), its ones count, and the statistics filled in by ZTest.
type Sample struct {
	Label          string
	Ones           int
	CumulativeMean float64
	ZScore         float64
}

// CountOnes returns the number of set bits among the first bitCount bits of
// buf (MSB-first per byte). Trailing bits of the final byte beyond bitCount
// are ignored.
func CountOnes(buf []byte, bitCount int) int {
	if bitCount <= 0 || len(buf) == 0 {
		return 0
	}
	used := (bitCount + 7) / 8
	if used > len(buf) {
		used = len(buf)
	}
	total := 0
	for i := 0; i < used-1; i++ {
		total += bits.OnesCount8(buf[i])
	}
	lastBits := bitCount - (used-1)*8
	if lastBits <= 0 || lastBits > 8 {
		lastBits = 8
	}
	mask := byte(0xFF) << (8 - lastBits)
	return total + bits.OnesCount8(buf[used-1]&mask)
}

// ReadBin slices a .bin capture into blocks of bitsPerSample bits and
// counts ones per block. Samples are labeled with their 1-based block
// number. A partial trailing block is kept.
func ReadBin(path string, bitsPerSample int) ([]Sample, error) {
	if bitsPerSample <= 0 || bitsPerSample%8 != 0 {
		return nil, errors.New("bits per sample must be a positive multiple of 8 for .bin files")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	blockBytes := bitsPerSample / 8
	buf := make([]byte, blockBytes)
	var samples []Sample
	for block := 1; ; block++ {
		n, err := io.ReadFull(r, buf)
		if n == 0 {
			break
		}
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, err
		}
		samples = append(samples, Sample{
			Label: strconv.Itoa(block),
			Ones:  CountOnes(buf[:n], n*8),
		})
		if n < blockBytes {
			break
		}
	}
	return samples, nil
}

// ReadCSV reads "timestamp,ones" lines as written by mccollect. Timestamps
// are reformatted to HH:MM:SS labels where they parse; unknown formats are
// kept verbatim.
func ReadCSV(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	samples := make([]Sample, 0, len(records))
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		ones, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid ones value %q: %w", rec[1], err)
		}
		samples = append(samples, Sample{
			Label: timeLabel(strings.TrimSpace(rec[0])),
			Ones:  ones,
		})
	}
	return samples, nil
}

func timeLabel(s string) string {
	layouts := []string{
		"20060102T15:04:05",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05")
		}
	}
	return s
}

// ZTest fills CumulativeMean and ZScore for each sample in place. An
// unbiased source of bitsPerSample bits has mean 0.5*bits and standard
// deviation sqrt(bits*0.25); the z-score of sample i uses the cumulative
// mean of samples 1..i against the standard error for i observations.
func ZTest(samples []Sample, bitsPerSample int) {
	mean := 0.5 * float64(bitsPerSample)
	stddev := math.Sqrt(float64(bitsPerSample) * 0.25)
	if stddev == 0 {
		return
	}
	sum := 0
	for i := range samples {
		sum += samples[i].Ones
		n := float64(i + 1)
		cum := float64(sum) / n
		samples[i].CumulativeMean = cum
		samples[i].ZScore = (cum - mean) / (stddev / math.Sqrt(n))
	}
}
