package mapdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-strata/pkg/strata"
	"github.com/dd0wney/cluso-strata/pkg/validation"
)

// File names read by Dir.
const (
	UnitsFile             = "units.csv"
	FaultDimensionsFile   = "fault_dimensions.csv"
	FaultOrientationsFile = "fault_orientations.csv"
	FaultPointsFile       = "faults.csv"
	FaultGeometriesFile   = "fault_geometries.csv"
	GirdlesFile           = "group_girdles.csv"
	ThicknessFile         = "formation_summary_thicknesses.csv"
	PointsFile            = "points.csv"
	DepositsFile          = "deposits.csv"
	DTMFile               = "dtm.json"
	ProjectFile           = "project.yaml"
)

// Project is the per-map description read from project.yaml.
type Project struct {
	CRS   string              `yaml:"crs"`
	BBox  *strata.BBox        `yaml:"bbox"`
	Files map[Datatype]string `yaml:"files"`
}

// Dir reads map records from CSV, JSON and YAML files in a directory.
// Every record set is validated before it is returned.
type Dir struct {
	Path    string
	project Project
}

// OpenDir reads the project description, if present.
func OpenDir(path string) (*Dir, error) {
	d := &Dir{Path: path}
	data, err := os.ReadFile(d.file(ProjectFile))
	if errors.Is(err, os.ErrNotExist) {
		return d, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &d.project); err != nil {
		return nil, fmt.Errorf("%s: %w", ProjectFile, err)
	}
	if d.project.BBox != nil {
		if err := validation.Struct(d.project.BBox); err != nil {
			return nil, fmt.Errorf("%s: bbox: %w", ProjectFile, err)
		}
	}
	return d, nil
}

func (d *Dir) file(name string) string {
	return filepath.Join(d.Path, name)
}

// Units implements Provider. Missing ages take the wide default range.
func (d *Dir) Units(ctx context.Context) ([]strata.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var units []strata.Unit
	err := readCSV(d.file(UnitsFile), true, func(r *row) error {
		units = append(units, strata.Unit{
			Code:        r.str("code", "unit_name"),
			Group:       r.str("group"),
			MinAge:      r.floatOr(strata.MissingMinAge, "min_age"),
			MaxAge:      r.floatOr(strata.MissingMaxAge, "max_age"),
			RockType1:   r.str("rocktype1"),
			RockType2:   r.str("rocktype2"),
			Description: r.str("description"),
			Colour:      r.str("colour", "color"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return units, validation.Records("unit", units)
}

// Faults implements Provider.
func (d *Dir) Faults(ctx context.Context) (*Faults, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := &Faults{}
	err := readCSV(d.file(FaultDimensionsFile), false, func(r *row) error {
		f.Dimensions = append(f.Dimensions, strata.FaultDimension{
			Fault:             r.str("Fault"),
			HorizontalRadius:  r.floatOr(0, "HorizontalRadius"),
			VerticalRadius:    r.floatOr(0, "VerticalRadius"),
			InfluenceDistance: r.floatOr(0, "InfluenceDistance"),
			IncLength:         r.floatOr(0, "incLength"),
			Colour:            r.str("colour"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	err = readCSV(d.file(FaultOrientationsFile), false, func(r *row) error {
		f.Orientations = append(f.Orientations, strata.FaultOrientation{
			Fault:        r.str("formation", "fault"),
			X:            r.floatOr(0, "X"),
			Y:            r.floatOr(0, "Y"),
			Z:            r.floatOr(0, "Z"),
			Dip:          r.floatOr(0, "dip"),
			DipDirection: r.floatOr(0, "DipDirection"),
			DipPolarity:  r.floatOr(1, "DipPolarity"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	err = readCSV(d.file(FaultPointsFile), false, func(r *row) error {
		f.Points = append(f.Points, strata.FaultPoint{
			Fault: r.str("formation", "fault"),
			X:     r.floatOr(0, "X"),
			Y:     r.floatOr(0, "Y"),
			Z:     r.floatOr(0, "Z"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	err = readCSV(d.file(FaultGeometriesFile), false, func(r *row) error {
		f.Geometries = append(f.Geometries, strata.FaultGeometry{
			Fault: r.str("fault", "formation"),
			Kind:  strata.GeometryKind(r.str("geometry", "kind")),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := errors.Join(
		validation.Records("fault dimension", f.Dimensions),
		validation.Records("fault orientation", f.Orientations),
		validation.Records("fault point", f.Points),
		validation.Records("fault geometry", f.Geometries),
	); err != nil {
		return nil, err
	}
	return f, nil
}

// Structures implements Provider.
func (d *Dir) Structures(ctx context.Context) ([]strata.Girdle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var girdles []strata.Girdle
	err := readCSV(d.file(GirdlesFile), false, func(r *row) error {
		girdles = append(girdles, strata.Girdle{
			Group:   r.str("group"),
			Plunge:  r.floatOr(0, "plunge"),
			Bearing: r.floatOr(0, "bearing"),
			Count:   r.int("count", "n"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return girdles, validation.Records("girdle", girdles)
}

// Thickness implements Provider. Empty statistics stay NaN.
func (d *Dir) Thickness(ctx context.Context) ([]strata.Thickness, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []strata.Thickness
	err := readCSV(d.file(ThicknessFile), false, func(r *row) error {
		out = append(out, strata.Thickness{
			Formation: r.str("formation"),
			Median:    r.float("thickness median"),
			Std:       r.float("thickness std"),
			Method:    r.str("method"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, validation.Records("thickness", out)
}

// Points implements Provider.
func (d *Dir) Points(ctx context.Context) ([]strata.Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []strata.Point
	err := readCSV(d.file(PointsFile), false, func(r *row) error {
		out = append(out, strata.Point{
			X:      r.floatOr(0, "X"),
			Y:      r.floatOr(0, "Y"),
			Z:      r.floatOr(0, "Z"),
			Kind:   r.str("kind", "type"),
			Source: r.str("source"),
		})
		return nil
	})
	return out, err
}

// Deposits implements Provider.
func (d *Dir) Deposits(ctx context.Context) ([]strata.Deposit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []strata.Deposit
	err := readCSV(d.file(DepositsFile), false, func(r *row) error {
		out = append(out, strata.Deposit{
			ID:        r.str("id"),
			X:         r.floatOr(0, "X"),
			Y:         r.floatOr(0, "Y"),
			Commodity: r.str("commodity"),
		})
		return nil
	})
	return out, err
}

// DTM implements Provider. It returns nil when no raster is present.
func (d *Dir) DTM(ctx context.Context) (*strata.DTM, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(d.file(DTMFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var dtm strata.DTM
	if err := json.Unmarshal(data, &dtm); err != nil {
		return nil, fmt.Errorf("%s: %w", DTMFile, err)
	}
	return &dtm, nil
}

// BBox implements Provider.
func (d *Dir) BBox(ctx context.Context) (*strata.BBox, error) {
	return d.project.BBox, ctx.Err()
}

// WorkingCRS implements Provider.
func (d *Dir) WorkingCRS() string { return d.project.CRS }

// Filename implements Provider.
func (d *Dir) Filename(kind Datatype) string { return d.project.Files[kind] }

// Metadata collects provenance for the metadata carrier node.
func Metadata(p Provider) map[string]string {
	meta := map[string]string{"project_crs": p.WorkingCRS()}
	for _, kind := range Datatypes {
		if name := p.Filename(kind); name != "" {
			meta[string(kind)+"_file"] = name
		}
	}
	return meta
}
