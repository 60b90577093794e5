package stratigraphy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dd0wney/cluso-strata/pkg/algorithms"
	"github.com/dd0wney/cluso-strata/pkg/authority"
	"github.com/dd0wney/cluso-strata/pkg/logging"
	"github.com/dd0wney/cluso-strata/pkg/storage"
	"github.com/dd0wney/cluso-strata/pkg/strata"
)

// Mode selects how many unit orders are produced per group.
type Mode string

const (
	// OneOrder produces a single topological order per group.
	OneOrder Mode = "one"
	// AllOrders enumerates valid orders up to the configured cap.
	AllOrders Mode = "all"
)

// MaxOrders caps order enumeration.
const MaxOrders = 100

// Options controls per-group resolution.
type Options struct {
	Authority  *authority.Table
	Mode       Mode
	MaxOrders  int
	CycleLimit int
	Logger     logging.Logger
}

func (o Options) maxOrders() int {
	if o.MaxOrders <= 0 || o.MaxOrders > MaxOrders {
		return MaxOrders
	}
	return o.MaxOrders
}

// Partition is the set of raw nodes belonging to one group.
type Partition struct {
	ID      string // raw ID of the group node, "" for ungrouped units
	Label   string
	Members []uint64
}

// Group is a resolved group: its acyclic subgraph and unit orders,
// youngest unit first. Marker nodes stay in Graph but never appear in
// an order.
type Group struct {
	ID        string
	Label     string
	Graph     *storage.GraphStorage
	Order     []string
	Orders    [][]string
	Truncated bool
}

// Result collects every resolved group.
type Result struct {
	Groups   []*Group
	Cycles   int
	Longest  int
	Removed  []RemovedEdge
	Warnings strata.Warnings
}

// Group returns the resolved group with the given label.
func (r *Result) Group(label string) (*Group, bool) {
	for _, g := range r.Groups {
		if g.Label == label {
			return g, true
		}
	}
	return nil, false
}

// UnitGroups maps every ordered unit label to its group label.
func (r *Result) UnitGroups() map[string]string {
	m := make(map[string]string)
	for _, g := range r.Groups {
		for _, u := range g.Order {
			m[u] = g.Label
		}
	}
	return m
}

// Partitions splits raw into groups. Group nodes come first in insertion
// order; a unit whose gid matches no group node becomes its own group.
func Partitions(raw *storage.GraphStorage) []Partition {
	nodes := raw.Nodes()
	var parts []Partition
	index := make(map[string]int)
	for _, n := range nodes {
		if strata.IsGroupNode(n) {
			index[n.Key] = len(parts)
			parts = append(parts, Partition{ID: n.Key, Label: strata.Label(n)})
		}
	}
	for _, n := range nodes {
		gid := n.StringProperty(strata.PropGroupID)
		if i, ok := index[gid]; ok {
			parts[i].Members = append(parts[i].Members, n.ID)
			continue
		}
		if !strata.IsGroupNode(n) {
			parts = append(parts, Partition{Label: strata.CleanLabel(strata.Label(n)), Members: []uint64{n.ID}})
		}
	}
	return parts
}

// Resolve breaks cycles inside every group of raw and orders each
// group's units. A group left without a valid order is fatal.
func Resolve(raw *storage.GraphStorage, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	breaker := NewBreaker(opts.Authority)

	result := &Result{}
	for _, part := range Partitions(raw) {
		sub := raw.Subgraph(part.Members)
		broken := BreakCycles(sub, breaker, strata.StageStratigraphy, part.Label, opts.CycleLimit)
		result.Cycles += broken.Cycles
		result.Longest = max(result.Longest, broken.Longest)
		result.Removed = append(result.Removed, broken.Removed...)
		result.Warnings = append(result.Warnings, broken.Warnings...)

		group := &Group{ID: part.ID, Label: part.Label, Graph: broken.Graph}
		if err := orderGroup(group, opts); err != nil {
			return nil, err
		}
		if group.Truncated {
			result.Warnings.Add(strata.StageStratigraphy, strata.CodeOrderTruncated, group.Label,
				"order enumeration stopped at %d orders", opts.maxOrders())
		}
		logger.Debug("group resolved",
			logging.Group(group.Label),
			logging.Int("units", len(group.Order)),
			logging.Int("orders", len(group.Orders)),
			logging.Int("cycles", broken.Cycles),
		)
		result.Groups = append(result.Groups, group)
	}
	return result, nil
}

func orderGroup(group *Group, opts Options) error {
	fail := func(err error) error {
		return strata.NewError(strata.StageStratigraphy).Group(group.Label).
			Cause(fmt.Errorf("%w: %v", strata.ErrInconsistentOrder, err)).Err()
	}

	if opts.Mode == AllOrders {
		limit := opts.maxOrders()
		orders, err := algorithms.AllTopologicalSorts(group.Graph, limit+1)
		if err != nil {
			return fail(err)
		}
		if len(orders) > limit {
			orders = orders[:limit]
			group.Truncated = true
		}
		group.Orders = unitOrders(group.Graph, orders)
	} else {
		order, err := algorithms.TopologicalSort(group.Graph)
		if err != nil {
			return fail(err)
		}
		group.Orders = unitOrders(group.Graph, [][]uint64{order})
	}
	if len(group.Orders) == 0 {
		return fail(errors.New("no order produced"))
	}
	group.Order = group.Orders[0]
	return nil
}

// unitOrders converts node orders to cleaned unit codes, dropping markers
// and any orders that become identical once markers are gone. Raw labels
// stay on the nodes for authority lookups.
func unitOrders(g *storage.GraphStorage, orders [][]uint64) [][]string {
	labels := make(map[uint64]string)
	for _, n := range g.Nodes() {
		if !strata.IsGroupNode(n) {
			labels[n.ID] = strata.CleanLabel(strata.Label(n))
		}
	}

	seen := make(map[string]bool)
	var out [][]string
	for _, order := range orders {
		units := make([]string, 0, len(order))
		for _, id := range order {
			if label, ok := labels[id]; ok {
				units = append(units, label)
			}
		}
		key := strings.Join(units, "\x00")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, units)
	}
	return out
}

// ParseMode accepts "one" or "all"; anything else is an error.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case OneOrder, "":
		return OneOrder, nil
	case AllOrders:
		return AllOrders, nil
	}
	return "", fmt.Errorf("%w: unknown ordering mode %q", strata.ErrInvalidInput, s)
}
