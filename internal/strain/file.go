// internal/strain/file.go
package strain

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadFile loads strain values from a plain-text file: one value per line,
// or "time,value" pairs. Blank lines and lines starting with '#' are
// ignored. The returned flag reports whether the file carried a time
// column; bare-value files get index times and the caller supplies the
// sample rate. Mixing both line formats in one file is an error.
func ReadFile(path string) ([]Sample, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("open strain file: %w", err)
	}
	defer f.Close()

	var samples []Sample
	hasTime := false
	scanner := bufio.NewScanner(f)
	// Strain files can run to millions of samples; one line stays tiny.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var s Sample
		if comma := strings.IndexByte(line, ','); comma >= 0 {
			if len(samples) > 0 && !hasTime {
				return nil, false, fmt.Errorf("line %d: time column after bare values", lineNo)
			}
			hasTime = true
			tPart := strings.TrimSpace(line[:comma])
			vPart := strings.TrimSpace(line[comma+1:])
			if s.Time, err = strconv.ParseFloat(tPart, 64); err != nil {
				return nil, false, fmt.Errorf("line %d: bad time %q: %w", lineNo, tPart, err)
			}
			if s.Value, err = strconv.ParseFloat(vPart, 64); err != nil {
				return nil, false, fmt.Errorf("line %d: bad value %q: %w", lineNo, vPart, err)
			}
		} else {
			if hasTime {
				return nil, false, fmt.Errorf("line %d: bare value after time column", lineNo)
			}
			if s.Value, err = strconv.ParseFloat(line, 64); err != nil {
				return nil, false, fmt.Errorf("line %d: bad value %q: %w", lineNo, line, err)
			}
			s.Time = float64(len(samples))
		}
		samples = append(samples, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("read strain file: %w", err)
	}
	if len(samples) == 0 {
		return nil, false, ErrEmptySeries
	}
	return samples, hasTime, nil
}

// ReadValues loads a file and returns the bare values, discarding any time
// column.
func ReadValues(path string) ([]float64, error) {
	samples, _, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}
	return values, nil
}

// WriteFile writes strain values with a time column at the given sample
// rate, in the format ReadFile accepts.
func WriteFile(path string, values []float64, sampleRate float64) error {
	if sampleRate <= 0 {
		return ErrInvalidSampleRate
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create strain file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# strain series: %d samples at %g Hz\n", len(values), sampleRate)
	for i, v := range values {
		fmt.Fprintf(w, "%.12f,%.17g\n", float64(i)/sampleRate, v)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write strain file: %w", err)
	}
	return nil
}
