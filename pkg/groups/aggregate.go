package groups

import (
	"fmt"
	"strconv"

	"github.com/dd0wney/cluso-strata/pkg/algorithms"
	"github.com/dd0wney/cluso-strata/pkg/logging"
	"github.com/dd0wney/cluso-strata/pkg/storage"
	"github.com/dd0wney/cluso-strata/pkg/strata"
	"github.com/dd0wney/cluso-strata/pkg/stratigraphy"
)

const (
	// DefaultEnumerationLimit is the largest group count for which every
	// group order is enumerated.
	DefaultEnumerationLimit = 10

	// EdgeGroupOverlies is the edge type of the group graph.
	EdgeGroupOverlies = "group_overlies"

	propRawID = "raw_id"
)

// Options controls aggregation.
type Options struct {
	EnumerationLimit int
	MaxOrders        int
	// EqualAgeFallback keeps the raw edge direction between groups of
	// equal mean age instead of dropping the edge.
	EqualAgeFallback bool
	CycleLimit       int
	Logger           logging.Logger
}

// Result is the ordered group graph.
type Result struct {
	Graph      *storage.GraphStorage
	Orders     [][]string
	Order      []string
	Enumerated bool
	Truncated  bool
	Cycles     int
	Longest    int
	Removed    []stratigraphy.RemovedEdge
	Deduped    int
	Warnings   strata.Warnings
}

// Aggregate builds the group graph from cross-group edges of raw, oriented
// by mean age so that younger groups overlie older ones, removes
// antiparallel duplicates and cycles, and orders the groups.
func Aggregate(raw *storage.GraphStorage, ages []Age, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.EnumerationLimit <= 0 {
		opts.EnumerationLimit = DefaultEnumerationLimit
	}
	if opts.MaxOrders <= 0 || opts.MaxOrders > stratigraphy.MaxOrders {
		opts.MaxOrders = stratigraphy.MaxOrders
	}

	result := &Result{}
	g, nodeGroup, err := groupNodes(raw)
	if err != nil {
		return nil, err
	}

	ageOf := AgeTable(ages)
	missing := make(map[string]bool)
	for _, e := range raw.Edges() {
		g0, ok0 := nodeGroup[e.FromNodeID]
		g1, ok1 := nodeGroup[e.ToNodeID]
		if !ok0 || !ok1 || g0 == g1 {
			continue
		}
		a0, has0 := ageOf[g0]
		a1, has1 := ageOf[g1]
		if !has0 || !has1 {
			for _, label := range []string{g0, g1} {
				if _, ok := ageOf[label]; !ok && !missing[label] {
					missing[label] = true
					result.Warnings.Add(strata.StageGroups, strata.CodeMissingAge, label,
						"group %s has no age record, its cross-group edges are ignored", label)
				}
			}
			continue
		}

		from, to := g0, g1
		switch {
		case a0.Mean < a1.Mean:
		case a0.Mean == a1.Mean && opts.EqualAgeFallback:
		default:
			continue
		}
		fromID, _ := g.NodeID(from)
		toID, _ := g.NodeID(to)
		if g.HasEdge(fromID, toID) {
			continue
		}
		if _, err := g.CreateEdge(fromID, toID, EdgeGroupOverlies, nil, 1); err != nil {
			return nil, err
		}
	}

	result.Deduped = dedupeAntiparallel(g)

	broken := stratigraphy.BreakCycles(g, stratigraphy.FirstEdgeBreaker{}, strata.StageGroups, "", opts.CycleLimit)
	result.Graph = broken.Graph
	result.Cycles = broken.Cycles
	result.Longest = broken.Longest
	result.Removed = broken.Removed
	result.Warnings = append(result.Warnings, broken.Warnings...)

	if err := orderGroups(result, opts); err != nil {
		return nil, err
	}
	if result.Truncated {
		result.Warnings.Add(strata.StageGroups, strata.CodeOrderTruncated, "",
			"group order enumeration stopped at %d orders", opts.MaxOrders)
	}

	logger.Debug("groups aggregated",
		logging.Int("groups", result.Graph.NodeCount()),
		logging.Int("edges", result.Graph.EdgeCount()),
		logging.Int("orders", len(result.Orders)),
		logging.Bool("enumerated", result.Enumerated),
	)
	return result, nil
}

// groupNodes creates one node per partition, keyed by group label, and
// maps every raw node to its group label.
func groupNodes(raw *storage.GraphStorage) (*storage.GraphStorage, map[uint64]string, error) {
	g := storage.NewGraphStorage()
	nodeGroup := make(map[uint64]string)
	for _, part := range stratigraphy.Partitions(raw) {
		if !g.HasNode(part.Label) {
			props := map[string]storage.Value{
				strata.PropLabel: storage.StringValue(part.Label),
				propRawID:        storage.StringValue(part.ID),
			}
			if _, err := g.CreateNode(part.Label, []string{strata.LabelGroup}, props); err != nil {
				return nil, nil, fmt.Errorf("group %s: %w", part.Label, err)
			}
		}
		for _, id := range part.Members {
			nodeGroup[id] = part.Label
		}
	}
	return g, nodeGroup, nil
}

// dedupeAntiparallel removes one edge of every A->B, B->A pair, keeping
// the edge whose source has the numerically larger raw identifier.
func dedupeAntiparallel(g *storage.GraphStorage) int {
	removed := 0
	for _, e := range g.Edges() {
		if !g.HasEdge(e.FromNodeID, e.ToNodeID) || !g.HasEdge(e.ToNodeID, e.FromNodeID) {
			continue
		}
		if e.FromNodeID == e.ToNodeID {
			continue
		}
		if lessID(g, e.FromNodeID, e.ToNodeID) {
			removed += g.RemoveEdgeBetween(e.FromNodeID, e.ToNodeID)
		} else {
			removed += g.RemoveEdgeBetween(e.ToNodeID, e.FromNodeID)
		}
	}
	return removed
}

// lessID compares raw group identifiers numerically when both parse,
// and falls back to node insertion order.
func lessID(g *storage.GraphStorage, a, b uint64) bool {
	na, errA := g.GetNode(a)
	nb, errB := g.GetNode(b)
	if errA == nil && errB == nil {
		ia, e1 := strconv.ParseInt(na.StringProperty(propRawID), 10, 64)
		ib, e2 := strconv.ParseInt(nb.StringProperty(propRawID), 10, 64)
		if e1 == nil && e2 == nil && ia != ib {
			return ia < ib
		}
	}
	return a < b
}

func orderGroups(result *Result, opts Options) error {
	g := result.Graph
	fail := func(err error) error {
		return strata.NewError(strata.StageGroups).Cause(fmt.Errorf("%w: %v", strata.ErrInconsistentOrder, err)).Err()
	}

	var orders [][]uint64
	if g.NodeCount() > opts.EnumerationLimit {
		order, err := algorithms.TopologicalSort(g)
		if err != nil {
			return fail(err)
		}
		orders = [][]uint64{order}
	} else {
		all, err := algorithms.AllTopologicalSorts(g, opts.MaxOrders+1)
		if err != nil {
			return fail(err)
		}
		if len(all) > opts.MaxOrders {
			all = all[:opts.MaxOrders]
			result.Truncated = true
		}
		orders = all
		result.Enumerated = true
	}
	if len(orders) == 0 {
		return fail(fmt.Errorf("no order produced"))
	}

	for _, order := range orders {
		labels := make([]string, 0, len(order))
		for _, id := range order {
			n, err := g.GetNode(id)
			if err != nil {
				return fail(err)
			}
			labels = append(labels, n.Key)
		}
		result.Orders = append(result.Orders, labels)
	}
	result.Order = result.Orders[0]
	return nil
}
