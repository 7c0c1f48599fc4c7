// mcexcel converts a collected .bin or .csv sample file into an .xlsx
// workbook with the running z-score and a line chart, written next to the
// input with the extension replaced.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tectrolabs/microrng-go/naming"
	"github.com/tectrolabs/microrng-go/stats"
)

const sheetName = "Zscore"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: mcexcel <path-to-.bin-or-.csv>")
		os.Exit(2)
	}
	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(path string) error {
	bitsPerSample, err := naming.ParseBits(path)
	if err != nil {
		return err
	}
	intervalSec, err := naming.ParseInterval(path)
	if err != nil {
		return err
	}

	var samples []stats.Sample
	labelHeader := "samples"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin":
		samples, err = stats.ReadBin(path, bitsPerSample)
	case ".csv":
		samples, err = stats.ReadCSV(path)
		labelHeader = "time"
	default:
		return fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return errors.New("no data to write")
	}
	stats.ZTest(samples, bitsPerSample)

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".xlsx"
	return writeWorkbook(samples, path, outPath, bitsPerSample, intervalSec, labelHeader)
}

func writeWorkbook(samples []stats.Sample, inPath, outPath string, bitsPerSample, intervalSec int, labelHeader string) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if defaultSheet != sheetName {
		f.NewSheet(sheetName)
		f.DeleteSheet(defaultSheet)
	}

	_ = f.SetCellStr(sheetName, "A1", labelHeader)
	_ = f.SetCellStr(sheetName, "B1", "ones")
	_ = f.SetCellStr(sheetName, "C1", "cumulative_mean")
	_ = f.SetCellStr(sheetName, "D1", "z_test")
	for i, s := range samples {
		row := i + 2
		_ = f.SetCellStr(sheetName, fmt.Sprintf("A%d", row), s.Label)
		_ = f.SetCellInt(sheetName, fmt.Sprintf("B%d", row), s.Ones)
		_ = f.SetCellFloat(sheetName, fmt.Sprintf("C%d", row), s.CumulativeMean, 6, 64)
		_ = f.SetCellFloat(sheetName, fmt.Sprintf("D%d", row), s.ZScore, 6, 64)
	}

	endRow := len(samples) + 1
	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$D$1", sheetName),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheetName, endRow),
				Values:     fmt.Sprintf("%s!$D$2:$D$%d", sheetName, endRow),
			},
		},
		Title:  []excelize.RichTextRun{{Text: filepath.Base(inPath)}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: fmt.Sprintf("Samples - one every %d second(s)", intervalSec)}},
		},
		YAxis: excelize.ChartAxis{
			Title:          []excelize.RichTextRun{{Text: fmt.Sprintf("Z-score - sample size %d bits", bitsPerSample)}},
			MajorGridLines: true,
		},
	}
	if err := f.AddChart(sheetName, "F2", chart); err != nil {
		return err
	}
	return f.SaveAs(outPath)
}
