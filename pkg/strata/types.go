// Package strata holds the typed records shared by every resolution stage:
// map units, fault reports, orientation girdles, payload records, and the
// warning and error types stages use to report what they did.
package strata

import "math"

// Ages applied to units that carry no age information, wide enough that
// they never constrain group ordering on their own.
const (
	MissingMinAge = 0.0
	MissingMaxAge = 4600.0
)

// Unit is a mapped formation as delivered by the map-data provider.
type Unit struct {
	Code        string  `validate:"required,label"`
	Group       string  `validate:"omitempty,label"`
	MinAge      float64 `validate:"gte=0"`
	MaxAge      float64 `validate:"gtefield=MinAge"`
	RockType1   string
	RockType2   string
	Description string
	Colour      string
}

// GroupLabel returns the unit's cleaned group, falling back to its own
// cleaned code when the unit has no group.
func (u Unit) GroupLabel() string {
	if u.Group == "" {
		return CleanLabel(u.Code)
	}
	return CleanLabel(u.Group)
}

// FaultDimension is one row of the fault dimension table. Only faults
// listed here are tracked by the resolver.
type FaultDimension struct {
	Fault             string  `validate:"required,label"`
	HorizontalRadius  float64 `validate:"gte=0"`
	VerticalRadius    float64 `validate:"gte=0"`
	InfluenceDistance float64 `validate:"gte=0"`
	IncLength         float64 `validate:"gte=0"`
	Colour            string
}

// FaultOrientation is a dip measurement on a fault trace.
type FaultOrientation struct {
	Fault        string `validate:"required"`
	X, Y, Z      float64
	Dip          float64 `validate:"gte=0,lte=90"`
	DipDirection float64 `validate:"gte=0,lte=360"`
	DipPolarity  float64
}

// FaultPoint is a vertex of a fault trace.
type FaultPoint struct {
	Fault   string `validate:"required"`
	X, Y, Z float64
}

// GeometryKind names the shape a fault trace was exported as.
type GeometryKind string

const (
	GeometryLineString      GeometryKind = "LineString"
	GeometryMultiLineString GeometryKind = "MultiLineString"
)

// FaultGeometry records the exported shape kind of a fault.
type FaultGeometry struct {
	Fault string       `validate:"required"`
	Kind  GeometryKind `validate:"required"`
}

// FaultNeighbour is one second-order fault in an intersection record.
type FaultNeighbour struct {
	Fault    string
	Topology string
	Angle    float64
}

// FaultIntersection lists the faults a first-order fault intersects.
type FaultIntersection struct {
	Fault      string
	Neighbours []FaultNeighbour
}

// UnitFaultIntersection lists the faults cutting a unit.
type UnitFaultIntersection struct {
	Unit   string
	Faults []string
}

// Girdle is the best-fit pole of a group's bedding orientations.
type Girdle struct {
	Group   string  `validate:"required"`
	Plunge  float64 `validate:"gte=-90,lte=90"`
	Bearing float64 `validate:"gte=0,lte=360"`
	Count   int     `validate:"gte=0"`
}

// Thickness summarises the measured thickness of a formation.
type Thickness struct {
	Formation string `validate:"required"`
	Median    float64
	Std       float64
	Method    string
}

// MedianOr returns the median, or fallback when it is unknown.
func (t Thickness) MedianOr(fallback float64) float64 {
	if math.IsNaN(t.Median) {
		return fallback
	}
	return t.Median
}

// StdOr returns the standard deviation, or fallback when it is unknown.
func (t Thickness) StdOr(fallback float64) float64 {
	if math.IsNaN(t.Std) {
		return fallback
	}
	return t.Std
}

// Point is a structural observation carried through to the fused graph.
type Point struct {
	X, Y, Z float64
	Kind    string
	Source  string
}

// Deposit is a mineral occurrence record.
type Deposit struct {
	ID        string
	X, Y      float64
	Commodity string
}

// BBox is the model volume.
type BBox struct {
	MinX float64 `yaml:"minx" json:"minx"`
	MinY float64 `yaml:"miny" json:"miny"`
	MaxX float64 `yaml:"maxx" json:"maxx" validate:"gtefield=MinX"`
	MaxY float64 `yaml:"maxy" json:"maxy" validate:"gtefield=MinY"`
	Base float64 `yaml:"base" json:"base"`
	Top  float64 `yaml:"top" json:"top"`
}

// DTM is a regular elevation grid, row 0 at MaxY.
type DTM struct {
	Data [][]float64 `json:"data"`
	MinX float64     `json:"minx"`
	MinY float64     `json:"miny"`
	MaxX float64     `json:"maxx"`
	MaxY float64     `json:"maxy"`
}

// Shape returns rows and columns.
func (d *DTM) Shape() (rows, cols int) {
	if d == nil || len(d.Data) == 0 {
		return 0, 0
	}
	return len(d.Data), len(d.Data[0])
}

// Scale returns the cell size along x and y.
func (d *DTM) Scale() (x, y float64) {
	rows, cols := d.Shape()
	if rows == 0 || cols == 0 {
		return 0, 0
	}
	return (d.MaxX - d.MinX) / float64(cols), (d.MaxY - d.MinY) / float64(rows)
}
