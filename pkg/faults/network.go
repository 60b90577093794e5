// Package faults resolves the fault-fault intersection network and
// derives fault attributes, clusters and incidence tables.
package faults

import (
	"github.com/dd0wney/cluso-strata/pkg/algorithms"
	"github.com/dd0wney/cluso-strata/pkg/storage"
	"github.com/dd0wney/cluso-strata/pkg/strata"
)

// Node label, edge type and edge properties of the fault network.
const (
	LabelFault     = "fault"
	EdgeFaultFault = "fault_fault"
	PropAngle      = "Angle"
	PropTopology   = "Topol"
)

// RemovedEdge is a fault relationship dropped to break a cycle.
type RemovedEdge struct {
	From string
	To   string
}

// Network is the acyclic fault-fault graph keyed by fault identifier.
type Network struct {
	Graph    *storage.GraphStorage
	Cycles   int
	Longest  int
	Removed  []RemovedEdge
	Warnings strata.Warnings
}

// Tracked returns fault identifiers from dims whose incremental length
// is at least minLength, in table order.
func Tracked(dims []strata.FaultDimension, minLength float64) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, d := range dims {
		id := strata.FaultKey(d.Fault)
		if d.IncLength < minLength || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// Resolve builds the network from intersection reports restricted to
// tracked faults, removes the first edge of every elementary cycle, and
// adds back tracked faults left without relationships. cycleLimit bounds
// each enumeration round (0 for no bound).
func Resolve(reports []strata.FaultIntersection, tracked []string, cycleLimit int) (*Network, error) {
	isTracked := make(map[string]bool, len(tracked))
	for _, id := range tracked {
		isTracked[id] = true
	}

	net := &Network{Graph: storage.NewGraphStorage()}
	g := net.Graph
	warned := make(map[string]bool)
	keep := func(id string) bool {
		if isTracked[id] {
			return true
		}
		if !warned[id] {
			warned[id] = true
			net.Warnings.Add(strata.StageFaults, strata.CodeUntrackedFault, id,
				"fault %s is not in the dimension table, its intersections are ignored", id)
		}
		return false
	}

	for _, report := range reports {
		first := strata.FaultKey(report.Fault)
		if !keep(first) {
			continue
		}
		fromID, err := ensureFault(g, first)
		if err != nil {
			return nil, err
		}
		for _, nb := range report.Neighbours {
			second := strata.FaultKey(nb.Fault)
			if second == first || !keep(second) {
				continue
			}
			toID, err := ensureFault(g, second)
			if err != nil {
				return nil, err
			}
			props := map[string]storage.Value{
				PropAngle:    storage.FloatValue(nb.Angle),
				PropTopology: storage.StringValue(nb.Topology),
			}
			// A repeated pair keeps the last reported metadata.
			if e, ok := g.FindEdge(fromID, toID); ok {
				if err := g.UpdateEdge(e.ID, props); err != nil {
					return nil, err
				}
				continue
			}
			if _, err := g.CreateEdge(fromID, toID, EdgeFaultFault, props, 1); err != nil {
				return nil, err
			}
		}
	}

	net.breakCycles(cycleLimit)

	for _, id := range tracked {
		if _, err := ensureFault(g, id); err != nil {
			return nil, err
		}
	}
	return net, nil
}

func ensureFault(g *storage.GraphStorage, id string) (uint64, error) {
	if nodeID, ok := g.NodeID(id); ok {
		return nodeID, nil
	}
	n, err := g.CreateNode(id, []string{LabelFault}, nil)
	if err != nil {
		return 0, err
	}
	return n.ID, nil
}

// breakCycles removes, in edge order, every edge that opens a detected
// cycle, repeating until no cycle is left.
func (net *Network) breakCycles(limit int) {
	g := net.Graph
	for {
		cycles := algorithms.SimpleCycles(g, limit)
		if len(cycles) == 0 {
			return
		}
		net.Cycles += len(cycles)
		net.Longest = max(net.Longest, algorithms.AnalyzeCycles(cycles).LongestCycle)

		firsts := make(map[[2]uint64]bool, len(cycles))
		for _, c := range cycles {
			firsts[c.Edges()[0]] = true
		}
		for _, e := range g.Edges() {
			if !firsts[[2]uint64{e.FromNodeID, e.ToNodeID}] {
				continue
			}
			if err := g.DeleteEdge(e.ID); err != nil {
				continue
			}
			from, _ := g.GetNode(e.FromNodeID)
			to, _ := g.GetNode(e.ToNodeID)
			net.Removed = append(net.Removed, RemovedEdge{From: from.Key, To: to.Key})
		}
	}
}

// Edge is a surviving relationship with its metadata.
type Edge struct {
	From     string
	To       string
	Angle    float64
	Topology string
}

// Edges lists the surviving relationships in insertion order.
func (net *Network) Edges() []Edge {
	var out []Edge
	for _, e := range net.Graph.Edges() {
		from, err := net.Graph.GetNode(e.FromNodeID)
		if err != nil {
			continue
		}
		to, err := net.Graph.GetNode(e.ToNodeID)
		if err != nil {
			continue
		}
		edge := Edge{From: from.Key, To: to.Key, Topology: e.StringProperty(PropTopology)}
		if v, ok := e.GetProperty(PropAngle); ok {
			edge.Angle, _ = v.AsFloat()
		}
		out = append(out, edge)
	}
	return out
}
