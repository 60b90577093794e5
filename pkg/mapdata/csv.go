package mapdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// row gives named access to one CSV record.
type row struct {
	cols   map[string]int
	record []string
	line   int
	err    error
}

func (r *row) str(names ...string) string {
	for _, n := range names {
		if i, ok := r.cols[strings.ToLower(n)]; ok && i < len(r.record) {
			return strings.TrimSpace(r.record[i])
		}
	}
	return ""
}

// float parses a numeric cell. Empty cells yield NaN.
func (r *row) float(names ...string) float64 {
	s := r.str(names...)
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("line %d: %s: %w", r.line, names[0], err)
	}
	return f
}

// floatOr returns fallback for empty cells.
func (r *row) floatOr(fallback float64, names ...string) float64 {
	if f := r.float(names...); !math.IsNaN(f) {
		return f
	}
	return fallback
}

func (r *row) int(names ...string) int {
	f := r.floatOr(0, names...)
	return int(f)
}

// readCSV calls fn for every record of path. A missing file is not an
// error unless required.
func readCSV(path string, required bool, fn func(*row) error) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: read header: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		r := &row{cols: cols, record: record, line: line}
		if err := fn(r); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if r.err != nil {
			return fmt.Errorf("%s: %w", path, r.err)
		}
	}
}
