// Package extractor reads the raw outputs of the topology extractor: the
// stratigraphic graph and the fault-fault and unit-fault intersection
// reports.
package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dd0wney/cluso-strata/pkg/strata"
)

// Default file names written by the extractor.
const (
	StratGraphFile        = "graph_strat_NONE.gml"
	FaultIntersectionFile = "fault-fault-intersection.txt"
	UnitFaultFile         = "unit-fault-intersection.txt"
)

// RawTopology is one extractor run.
type RawTopology struct {
	StratGraph             *strata.RawGraph
	FaultIntersections     []strata.FaultIntersection
	UnitFaultIntersections []strata.UnitFaultIntersection
}

// Extractor produces a RawTopology.
type Extractor interface {
	Extract(ctx context.Context) (*RawTopology, error)
}

// Files reads extractor output from a directory. Empty names fall back
// to the defaults. Missing intersection reports read as empty; the
// stratigraphic graph is required.
type Files struct {
	Dir               string
	StratGraph        string
	FaultIntersection string
	UnitFault         string
}

func (f Files) path(name, fallback string) string {
	if name == "" {
		name = fallback
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(f.Dir, name)
}

// StratGraphPath is the stratigraphic graph Extract reads.
func (f Files) StratGraphPath() string { return f.path(f.StratGraph, StratGraphFile) }

func (f Files) FaultIntersectionPath() string {
	return f.path(f.FaultIntersection, FaultIntersectionFile)
}

func (f Files) UnitFaultPath() string { return f.path(f.UnitFault, UnitFaultFile) }

// Extract implements Extractor.
func (f Files) Extract(ctx context.Context) (*RawTopology, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	topo := &RawTopology{}

	strat, err := os.Open(f.StratGraphPath())
	if err != nil {
		return nil, extractError(err)
	}
	defer strat.Close()
	if topo.StratGraph, err = ReadStratGraph(strat); err != nil {
		return nil, extractError(err)
	}

	if err := readOptional(f.FaultIntersectionPath(), func(file *os.File) error {
		topo.FaultIntersections, err = ReadFaultIntersections(file)
		return err
	}); err != nil {
		return nil, extractError(err)
	}
	if err := readOptional(f.UnitFaultPath(), func(file *os.File) error {
		topo.UnitFaultIntersections, err = ReadUnitFaultIntersections(file)
		return err
	}); err != nil {
		return nil, extractError(err)
	}
	return topo, nil
}

func readOptional(path string, read func(*os.File) error) error {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()
	if err := read(file); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

func extractError(err error) error {
	return strata.NewError(strata.StageExtract).Cause(err).Err()
}

// Static returns a fixed topology, for tests and in-memory pipelines.
type Static RawTopology

// Extract implements Extractor.
func (s *Static) Extract(ctx context.Context) (*RawTopology, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t := RawTopology(*s)
	return &t, nil
}
