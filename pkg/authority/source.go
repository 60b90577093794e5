package authority

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Source loads an authority table.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string
	Load(ctx context.Context) (*Table, error)
}

// Column names accepted for the overlying and underlying unit.
var (
	overColumns  = []string{"over", "overlying", "code_o", "unit_o"}
	underColumns = []string{"under", "underlying", "code_u", "unit_u"}
)

// ErrMissingColumns is returned when a CSV table lacks the pair columns.
var ErrMissingColumns = errors.New("authority table needs over and under columns")

// ReadCSV parses a header-first CSV of overlie pairs.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return NewTable(), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	overIdx, underIdx := columnIndex(header, overColumns), columnIndex(header, underColumns)
	if overIdx < 0 || underIdx < 0 {
		return nil, fmt.Errorf("%w: got %v", ErrMissingColumns, header)
	}

	table := NewTable()
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if overIdx >= len(record) || underIdx >= len(record) {
			return nil, fmt.Errorf("line %d: expected at least %d fields", line, max(overIdx, underIdx)+1)
		}
		table.add(Pair{Over: record[overIdx], Under: record[underIdx]})
	}
	return table, nil
}

func columnIndex(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range names {
			if h == name {
				return i
			}
		}
	}
	return -1
}
