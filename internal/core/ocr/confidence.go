package ocr

import (
	"strconv"
	"strings"
)

// meanTSVConfidence returns the mean word confidence (0..1) of tesseract TSV
// output. Rows with conf -1 are layout rows, not words.
func meanTSVConfidence(tsv string) (float32, bool) {
	var sum, n float64
	for i, ln := range strings.Split(tsv, "\n") {
		if i == 0 || len(ln) == 0 {
			continue
		} // header
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := strings.TrimSpace(cols[10])
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil && v >= 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float32(sum / n / 100.0), true
}
