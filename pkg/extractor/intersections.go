package extractor

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-strata/pkg/strata"
)

// ReadFaultIntersections parses lines of the form
//
//	id, fault, {(neighbour, topology, angle), ...}
//
// Fault ids are returned as written; callers apply strata.FaultKey.
func ReadFaultIntersections(r io.Reader) ([]strata.FaultIntersection, error) {
	var out []strata.FaultIntersection
	err := eachLine(r, func(n int, line string) error {
		head, body, ok := strings.Cut(line, "{")
		if !ok {
			return fmt.Errorf("line %d: %w: missing {", n, strata.ErrInvalidInput)
		}
		fields := splitTrim(head)
		if len(fields) < 2 || fields[1] == "" {
			return fmt.Errorf("line %d: %w: missing fault id", n, strata.ErrInvalidInput)
		}
		rec := strata.FaultIntersection{Fault: fields[1]}

		body = strings.NewReplacer("(", "", ")", "", "}", "").Replace(body)
		parts := splitTrim(body)
		if len(parts) == 1 && parts[0] == "" {
			parts = nil
		}
		if len(parts)%3 != 0 {
			return fmt.Errorf("line %d: %w: neighbours must be (fault, topology, angle) triples", n, strata.ErrInvalidInput)
		}
		for i := 0; i < len(parts); i += 3 {
			angle, err := strconv.ParseFloat(parts[i+2], 64)
			if err != nil {
				return fmt.Errorf("line %d: %w: angle %q", n, strata.ErrInvalidInput, parts[i+2])
			}
			rec.Neighbours = append(rec.Neighbours, strata.FaultNeighbour{
				Fault:    parts[i],
				Topology: parts[i+1],
				Angle:    angle,
			})
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

// ReadUnitFaultIntersections parses lines of the form
//
//	id, unit, {fault, fault, ...}
func ReadUnitFaultIntersections(r io.Reader) ([]strata.UnitFaultIntersection, error) {
	var out []strata.UnitFaultIntersection
	err := eachLine(r, func(n int, line string) error {
		head, body, ok := strings.Cut(line, "{")
		if !ok {
			return fmt.Errorf("line %d: %w: missing {", n, strata.ErrInvalidInput)
		}
		fields := splitTrim(head)
		if len(fields) < 2 || fields[1] == "" {
			return fmt.Errorf("line %d: %w: missing unit code", n, strata.ErrInvalidInput)
		}
		rec := strata.UnitFaultIntersection{Unit: fields[1]}
		for _, f := range splitTrim(strings.TrimSuffix(strings.TrimSpace(body), "}")) {
			if f != "" {
				rec.Faults = append(rec.Faults, f)
			}
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

func eachLine(r io.Reader, fn func(n int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := fn(n, line); err != nil {
			return err
		}
	}
	return sc.Err()
}

func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
