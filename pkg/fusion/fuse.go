package fusion

import (
	"encoding/json"
	"fmt"

	"github.com/dd0wney/cluso-strata/pkg/algorithms"
	"github.com/dd0wney/cluso-strata/pkg/faults"
	"github.com/dd0wney/cluso-strata/pkg/groups"
	"github.com/dd0wney/cluso-strata/pkg/storage"
	"github.com/dd0wney/cluso-strata/pkg/strata"
	"github.com/dd0wney/cluso-strata/pkg/supergroups"
)

// Payload holds the opaque carrier node contents.
type Payload struct {
	Points   []strata.Point
	DTM      *strata.DTM
	BBox     *strata.BBox
	CRS      string
	Metadata map[string]string
}

// Input is everything the fused graph is built from. Nil parts are
// skipped.
type Input struct {
	Units       []strata.Unit
	Sorts       []groups.SortRow
	GroupOrder  []string
	Supergroups *supergroups.Result
	Network     *faults.Network
	Faults      []faults.Attributes
	Thickness   []strata.Thickness
	UnitFaults  *faults.Incidence
	GroupFaults *faults.Incidence
	Payload     Payload
}

type builder struct {
	g *storage.GraphStorage
}

func (b *builder) node(key, ntype string, props map[string]storage.Value) error {
	if props == nil {
		props = make(map[string]storage.Value, 1)
	}
	props[PropNodeType] = storage.StringValue(ntype)
	if _, err := b.g.CreateNode(key, []string{ntype}, props); err != nil {
		return strata.NewError(strata.StageFusion).Context("%s node %s", ntype, key).Cause(err).Err()
	}
	return nil
}

// edge links two existing nodes and reports whether it did. Missing
// endpoints are skipped.
func (b *builder) edge(from, to, etype string, props map[string]storage.Value) (bool, error) {
	fromID, ok := b.g.NodeID(from)
	if !ok {
		return false, nil
	}
	toID, ok := b.g.NodeID(to)
	if !ok {
		return false, nil
	}
	if b.g.HasEdge(fromID, toID) {
		return false, nil
	}
	if _, err := b.g.CreateEdge(fromID, toID, etype, props, 1); err != nil {
		return false, err
	}
	return true, nil
}

// Fuse builds the heterogeneous graph. Node and edge types follow the
// allowed endpoint table; Validate can be used to check the result.
func Fuse(in Input) (*storage.GraphStorage, error) {
	b := &builder{g: storage.NewGraphStorage()}
	steps := []func(*builder, Input) error{
		addFormations,
		addFaults,
		addGroups,
		addIncidence,
		addSupergroups,
		addCarriers,
	}
	for _, step := range steps {
		if err := step(b, in); err != nil {
			return nil, err
		}
	}
	return b.g, nil
}

func addFormations(b *builder, in Input) error {
	units := make(map[string]strata.Unit, len(in.Units))
	for _, u := range in.Units {
		units[strata.CleanLabel(u.Code)] = u
	}
	thickness := make(map[string]strata.Thickness, len(in.Thickness))
	for _, t := range in.Thickness {
		thickness[strata.CleanLabel(t.Formation)] = t
	}

	for _, row := range in.Sorts {
		minAge, maxAge := strata.MissingMinAge, strata.MissingMaxAge
		props := map[string]storage.Value{
			"group":         storage.StringValue(row.Group),
			"GroupNumber":   storage.IntValue(int64(row.GroupNumber)),
			"IndexInGroup":  storage.IntValue(int64(row.IndexInGroup)),
			"NumberInGroup": storage.IntValue(int64(row.NumberInGroup)),
		}
		if u, ok := units[row.Code]; ok {
			minAge, maxAge = u.MinAge, u.MaxAge
			props[PropColour] = storage.StringValue(u.Colour)
			props["StratType"] = storage.StringValue(u.RockType1)
		}
		if row.Group == supergroups.CoverGroup {
			minAge, maxAge = 0, 1
		}
		props["MinAge"] = storage.FloatValue(minAge)
		props["MaxAge"] = storage.FloatValue(maxAge)

		median, std := Sentinel, Sentinel
		if t, ok := thickness[row.Code]; ok {
			median, std = t.MedianOr(Sentinel), t.StdOr(Sentinel)
			props["ThicknessMethod"] = storage.StringValue(t.Method)
		}
		props["ThicknessMedian"] = storage.FloatValue(median)
		props["ThicknessStd"] = storage.FloatValue(std)

		if err := b.node(row.Code, NodeFormation, props); err != nil {
			return err
		}
	}

	for i := 0; i+1 < len(in.Sorts); i++ {
		if _, err := b.edge(in.Sorts[i].Code, in.Sorts[i+1].Code, EdgeFormationFormation, nil); err != nil {
			return err
		}
	}
	return nil
}

func addFaults(b *builder, in Input) error {
	var closeness, betweenness map[string]float64
	if in.Network != nil {
		closeness = byKey(in.Network.Graph, algorithms.ClosenessCentrality(in.Network.Graph))
		betweenness = byKey(in.Network.Graph, algorithms.BetweennessCentrality(in.Network.Graph))
	}
	centrality := func(m map[string]float64, id string) storage.Value {
		if v, ok := m[id]; ok {
			return storage.FloatValue(v)
		}
		return storage.FloatValue(Sentinel)
	}

	for _, a := range in.Faults {
		d := a.Dimension
		props := map[string]storage.Value{
			"HorizontalRadius":      storage.FloatValue(d.HorizontalRadius),
			"VerticalRadius":        storage.FloatValue(d.VerticalRadius),
			"InfluenceDistance":     storage.FloatValue(d.InfluenceDistance),
			"IncLength":             storage.FloatValue(d.IncLength),
			PropFColour:             storage.StringValue(d.Colour),
			"Xmean":                 storage.FloatValue(a.XMean),
			"Ymean":                 storage.FloatValue(a.YMean),
			"Zmean":                 storage.FloatValue(a.ZMean),
			"Dip":                   storage.FloatValue(a.Dip),
			"DipDirection":          storage.FloatValue(a.DipDirection),
			"DipPolarity":           storage.FloatValue(a.DipPolarity),
			"OrientationCluster":    storage.IntValue(int64(a.OrientationCluster)),
			"LengthCluster":         storage.IntValue(int64(a.LengthCluster)),
			"ClosenessCentrality":   centrality(closeness, a.Fault),
			"BetweennessCentrality": centrality(betweenness, a.Fault),
		}
		if err := b.node(a.Fault, NodeFault, props); err != nil {
			return err
		}
	}

	if in.Network == nil {
		return nil
	}
	// Tracked faults missing from the attribute table still get a node.
	for _, n := range in.Network.Graph.Nodes() {
		if b.g.HasNode(n.Key) {
			continue
		}
		props := map[string]storage.Value{
			"ClosenessCentrality":   centrality(closeness, n.Key),
			"BetweennessCentrality": centrality(betweenness, n.Key),
		}
		if err := b.node(n.Key, NodeFault, props); err != nil {
			return err
		}
	}
	for _, e := range in.Network.Edges() {
		props := map[string]storage.Value{
			faults.PropAngle:    storage.FloatValue(e.Angle),
			faults.PropTopology: storage.StringValue(e.Topology),
		}
		if _, err := b.edge(e.From, e.To, EdgeFaultFault, props); err != nil {
			return err
		}
	}
	return nil
}

func byKey(g *storage.GraphStorage, scores map[uint64]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for id, v := range scores {
		if n, err := g.GetNode(id); err == nil {
			out[n.Key] = v
		}
	}
	return out
}

func addGroups(b *builder, in Input) error {
	for _, row := range in.Sorts {
		key := GroupKey(row.Group)
		if !b.g.HasNode(key) {
			if err := b.node(key, NodeGroup, nil); err != nil {
				return err
			}
		}
		if _, err := b.edge(key, row.Code, EdgeGroupFormation, nil); err != nil {
			return err
		}
	}
	for i := 0; i+1 < len(in.GroupOrder); i++ {
		if _, err := b.edge(GroupKey(in.GroupOrder[i]), GroupKey(in.GroupOrder[i+1]), EdgeGroupGroup, nil); err != nil {
			return err
		}
	}
	return nil
}

// addIncidence translates incidence tables into fault edges, only where
// both ends are already nodes.
func addIncidence(b *builder, in Input) error {
	if in.GroupFaults != nil {
		for _, group := range in.GroupFaults.Rows {
			for _, f := range in.GroupFaults.Faults(group) {
				if _, err := b.edge(f, GroupKey(group), EdgeFaultGroup, nil); err != nil {
					return err
				}
			}
		}
	}
	if in.UnitFaults != nil {
		for _, unit := range in.UnitFaults.Rows {
			for _, f := range in.UnitFaults.Faults(unit) {
				if _, err := b.edge(f, unit, EdgeFaultFormation, nil); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func addSupergroups(b *builder, in Input) error {
	if in.Supergroups == nil {
		return nil
	}
	for _, sg := range in.Supergroups.Supergroups {
		props := map[string]storage.Value{
			"l": storage.FloatValue(sg.Vector[0]),
			"m": storage.FloatValue(sg.Vector[1]),
			"n": storage.FloatValue(sg.Vector[2]),
		}
		if err := b.node(sg.Label, NodeSupergroup, props); err != nil {
			return err
		}
		for _, group := range sg.Groups {
			if _, err := b.edge(sg.Label, GroupKey(strata.CleanLabel(group)), EdgeSupergroupGroup, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func addCarriers(b *builder, in Input) error {
	p := in.Payload

	points, err := json.Marshal(p.Points)
	if err != nil {
		return err
	}
	if err := b.node(KeyPoints, NodePoints, map[string]storage.Value{
		PropData: storage.StringValue(string(points)),
	}); err != nil {
		return err
	}

	if p.DTM != nil {
		data, err := json.Marshal(p.DTM.Data)
		if err != nil {
			return err
		}
		rows, cols := p.DTM.Shape()
		xscale, yscale := p.DTM.Scale()
		if err := b.node(KeyDTM, NodeDTM, map[string]storage.Value{
			PropData: storage.StringValue(string(data)),
			"shape":  storage.StringValue(fmt.Sprintf("(%d, %d)", rows, cols)),
			"minx":   storage.FloatValue(p.DTM.MinX),
			"miny":   storage.FloatValue(p.DTM.MinY),
			"maxx":   storage.FloatValue(p.DTM.MaxX),
			"maxy":   storage.FloatValue(p.DTM.MaxY),
			"xscale": storage.FloatValue(xscale),
			"yscale": storage.FloatValue(yscale),
		}); err != nil {
			return err
		}
	}

	if p.BBox != nil {
		data, err := json.Marshal(p.BBox)
		if err != nil {
			return err
		}
		if err := b.node(KeyBBox, NodeBBox, map[string]storage.Value{PropData: storage.StringValue(string(data))}); err != nil {
			return err
		}
	}

	if err := b.node(KeyCRS, NodeCRS, map[string]storage.Value{PropData: storage.StringValue(p.CRS)}); err != nil {
		return err
	}

	meta := make(map[string]storage.Value, len(p.Metadata))
	for k, v := range p.Metadata {
		meta[k] = storage.StringValue(v)
	}
	return b.node(KeyMetadata, NodeMetadata, meta)
}
