// Package mapdata supplies the typed map records the resolver consumes.
package mapdata

import (
	"context"

	"github.com/dd0wney/cluso-strata/pkg/strata"
)

// Datatype names a source layer for provenance metadata.
type Datatype string

const (
	Geology        Datatype = "geology"
	Fault          Datatype = "fault"
	Fold           Datatype = "fold"
	Structure      Datatype = "structure"
	MineralDeposit Datatype = "mindep"
	DTMGrid        Datatype = "dtm"
	CoverMap       Datatype = "cover_map"
)

// Datatypes lists every layer in metadata order.
var Datatypes = []Datatype{Geology, Fault, Fold, Structure, MineralDeposit, DTMGrid, CoverMap}

// Faults bundles the per-fault reports.
type Faults struct {
	Dimensions   []strata.FaultDimension
	Orientations []strata.FaultOrientation
	Points       []strata.FaultPoint
	Geometries   []strata.FaultGeometry
}

// Provider exposes map records. Optional layers return empty results,
// never an error, when absent.
type Provider interface {
	Units(ctx context.Context) ([]strata.Unit, error)
	Faults(ctx context.Context) (*Faults, error)
	// Structures returns per-group orientation girdles.
	Structures(ctx context.Context) ([]strata.Girdle, error)
	Thickness(ctx context.Context) ([]strata.Thickness, error)
	Points(ctx context.Context) ([]strata.Point, error)
	Deposits(ctx context.Context) ([]strata.Deposit, error)
	DTM(ctx context.Context) (*strata.DTM, error)
	BBox(ctx context.Context) (*strata.BBox, error)
	WorkingCRS() string
	Filename(kind Datatype) string
}
