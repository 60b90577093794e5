// Package stratigraphy partitions the raw stratigraphic graph into groups,
// removes cycles from each group and derives unit orders.
package stratigraphy

import (
	"github.com/dd0wney/cluso-strata/pkg/authority"
	"github.com/dd0wney/cluso-strata/pkg/strata"
)

// CycleEdge is one edge of a detected cycle, "Over overlies Under".
type CycleEdge struct {
	From, To   uint64
	Over       string
	Under      string
	FromMarker bool
	ToMarker   bool
}

// touchesMarker reports whether either endpoint is a sub-group marker.
func (e CycleEdge) touchesMarker() bool {
	return e.FromMarker || e.ToMarker
}

// CycleBreaker picks the single edge to drop from a cycle. Edges are
// given in cycle order, closing edge last.
type CycleBreaker interface {
	Choose(cycle []CycleEdge) (index int, code strata.WarningCode)
}

// FirstEdgeBreaker always drops the first edge of a cycle.
type FirstEdgeBreaker struct{}

func (FirstEdgeBreaker) Choose([]CycleEdge) (int, strata.WarningCode) {
	return 0, strata.CodeFallbackEdgeRemoved
}

// AuthorityBreaker keeps edges the reference table confirms and drops the
// first one it does not, preferring edges that do not touch a marker.
type AuthorityBreaker struct {
	Table *authority.Table
}

func (b AuthorityBreaker) Choose(cycle []CycleEdge) (int, strata.WarningCode) {
	fallback := -1
	for i, e := range cycle {
		if b.Table.Lookup(e.Over, e.Under) == authority.Confirmed {
			continue
		}
		if !e.touchesMarker() {
			return i, strata.CodeEdgeRemoved
		}
		if fallback < 0 {
			fallback = i
		}
	}
	if fallback >= 0 {
		return fallback, strata.CodeEdgeRemoved
	}
	// Every edge confirmed: the table itself is cyclic here.
	return 0, strata.CodeConfirmedEdgeRemoved
}

// NewBreaker returns the authority policy when a non-empty table is
// available and the first-edge fallback otherwise.
func NewBreaker(table *authority.Table) CycleBreaker {
	if table.Len() == 0 {
		return FirstEdgeBreaker{}
	}
	return AuthorityBreaker{Table: table}
}
