package stratigraphy

import (
	"github.com/dd0wney/cluso-strata/pkg/authority"
	"github.com/dd0wney/cluso-strata/pkg/storage"
	"github.com/dd0wney/cluso-strata/pkg/strata"
)

// Reorient returns a copy of raw in which every unit-to-unit edge that
// the table lists the other way round is reversed. Edges touching group
// nodes are left alone. The second value counts reversed edges.
func Reorient(raw *storage.GraphStorage, table *authority.Table) (*storage.GraphStorage, int) {
	out := raw.Clone()
	if table.Len() == 0 {
		return out, 0
	}

	reversed := 0
	for _, e := range raw.Edges() {
		from, err := raw.GetNode(e.FromNodeID)
		if err != nil {
			continue
		}
		to, err := raw.GetNode(e.ToNodeID)
		if err != nil {
			continue
		}
		if strata.IsGroupNode(from) || strata.IsGroupNode(to) {
			continue
		}
		if table.Lookup(strata.Label(from), strata.Label(to)) != authority.Opposite {
			continue
		}
		if err := out.DeleteEdge(e.ID); err != nil {
			continue
		}
		if !out.HasEdge(e.ToNodeID, e.FromNodeID) {
			if _, err := out.CreateEdge(e.ToNodeID, e.FromNodeID, e.Type, e.Properties, e.Weight); err != nil {
				continue
			}
		}
		reversed++
	}
	return out, reversed
}
