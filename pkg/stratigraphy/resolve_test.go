package stratigraphy

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dd0wney/cluso-strata/pkg/algorithms"
	"github.com/dd0wney/cluso-strata/pkg/authority"
	"github.com/dd0wney/cluso-strata/pkg/strata"
)

func TestResolve_FallbackDropsFirstEdge(t *testing.T) {
	raw := rawGroup(t, []string{"A", "B", "C"}, "A>B", "B>C", "C>A")

	result, err := Resolve(raw, Options{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(result.Removed) != 1 {
		t.Fatalf("Expected 1 removed edge, got %v", result.Removed)
	}
	if got := result.Removed[0]; got.Over != "A" || got.Under != "B" || got.Code != strata.CodeFallbackEdgeRemoved {
		t.Errorf("Removed %+v, want A overlies B via fallback", got)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Message != "A overlies B removed to prevent cycle" {
		t.Errorf("Warnings = %v", result.Warnings)
	}

	group, ok := result.Group("G")
	if !ok {
		t.Fatal("group G missing")
	}
	if want := []string{"B", "C", "A"}; !reflect.DeepEqual(group.Order, want) {
		t.Errorf("Order = %v, want %v", group.Order, want)
	}
	if algorithms.HasCycle(group.Graph) {
		t.Error("resolved group graph is cyclic")
	}

	// Input untouched.
	if raw.EdgeCount() != 3 {
		t.Errorf("raw graph modified, %d edges", raw.EdgeCount())
	}
}

func TestResolve_AuthorityKeepsConfirmedEdges(t *testing.T) {
	raw := rawGroup(t, []string{"A", "B", "C"}, "A>B", "B>C", "C>A")
	table := authority.NewTable(authority.Pair{Over: "A", Under: "B"}, authority.Pair{Over: "B", Under: "C"})

	result, err := Resolve(raw, Options{Authority: table})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(result.Removed) != 1 || result.Removed[0].Over != "C" || result.Removed[0].Under != "A" {
		t.Fatalf("Removed = %v, want C overlies A", result.Removed)
	}
	if result.Removed[0].Code != strata.CodeEdgeRemoved {
		t.Errorf("Code = %s", result.Removed[0].Code)
	}
	group, _ := result.Group("G")
	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(group.Order, want) {
		t.Errorf("Order = %v, want %v", group.Order, want)
	}
}

func TestResolve_OppositeEdgeRemoved(t *testing.T) {
	raw := rawGroup(t, []string{"A", "B"}, "A>B", "B>A")
	table := authority.NewTable(authority.Pair{Over: "B", Under: "A"})

	result, err := Resolve(raw, Options{Authority: table})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	group, _ := result.Group("G")
	if want := []string{"B", "A"}; !reflect.DeepEqual(group.Order, want) {
		t.Errorf("Order = %v, want %v", group.Order, want)
	}
}

func TestResolve_AllConfirmed(t *testing.T) {
	raw := rawGroup(t, []string{"A", "B"}, "A>B", "B>A")
	table := authority.NewTable(authority.Pair{Over: "A", Under: "B"}, authority.Pair{Over: "B", Under: "A"})

	result, err := Resolve(raw, Options{Authority: table})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(result.Removed) != 1 || result.Removed[0].Code != strata.CodeConfirmedEdgeRemoved {
		t.Errorf("Removed = %v", result.Removed)
	}
}

func TestResolve_PrefersEdgesAwayFromMarkers(t *testing.T) {
	raw := &strata.RawGraph{Nodes: []strata.RawNode{
		{ID: "G", Label: "G", IsGroup: true},
		{ID: "A", Label: "A", GroupID: "G"},
		{ID: "M", Label: "Sub group", GroupID: "G", IsGroup: true},
		{ID: "B", Label: "B", GroupID: "G"},
	}}
	g := withEdges(t, raw, "A>M", "M>B", "B>A")
	table := authority.NewTable(authority.Pair{Over: "X", Under: "Y"})

	result, err := Resolve(g, Options{Authority: table})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(result.Removed) != 1 || result.Removed[0].Over != "B" || result.Removed[0].Under != "A" {
		t.Fatalf("Removed = %v, want B overlies A", result.Removed)
	}

	group, _ := result.Group("G")
	if want := []string{"A", "B"}; !reflect.DeepEqual(group.Order, want) {
		t.Errorf("Order = %v, want %v (marker excluded)", group.Order, want)
	}
	if _, ok := result.Group("Sub_group"); !ok {
		t.Error("nested marker should also be resolved as its own group")
	}
}

func TestResolve_AllOrders(t *testing.T) {
	raw := rawGroup(t, []string{"A", "B", "C"}, "A>C", "B>C")

	result, err := Resolve(raw, Options{Mode: AllOrders})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	group, _ := result.Group("G")
	want := [][]string{{"A", "B", "C"}, {"B", "A", "C"}}
	if !reflect.DeepEqual(group.Orders, want) {
		t.Fatalf("Orders = %v, want %v", group.Orders, want)
	}
	for _, order := range group.Orders {
		if !validOrder(group.Graph, order) {
			t.Errorf("invalid order %v", order)
		}
	}
	if group.Truncated {
		t.Error("two orders should not be truncated")
	}
}

func TestResolve_AllOrdersCapped(t *testing.T) {
	// Six unrelated units have 720 orders.
	raw := rawGroup(t, []string{"A", "B", "C", "D", "E", "F"})

	result, err := Resolve(raw, Options{Mode: AllOrders, MaxOrders: 500})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	group, _ := result.Group("G")
	if len(group.Orders) != MaxOrders {
		t.Errorf("Expected %d orders, got %d", MaxOrders, len(group.Orders))
	}
	if !group.Truncated || result.Warnings.Count(strata.CodeOrderTruncated) != 1 {
		t.Error("truncation should be flagged")
	}
}

func TestResolve_AllOrdersAtLimit(t *testing.T) {
	// Three unrelated units have exactly six orders.
	raw := rawGroup(t, []string{"A", "B", "C"})

	result, err := Resolve(raw, Options{Mode: AllOrders, MaxOrders: 6})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	group, _ := result.Group("G")
	if len(group.Orders) != 6 {
		t.Errorf("Expected 6 orders, got %d", len(group.Orders))
	}
	if group.Truncated || result.Warnings.Count(strata.CodeOrderTruncated) != 0 {
		t.Error("exactly the limit of orders should not be flagged as truncated")
	}

	result, err = Resolve(raw, Options{Mode: AllOrders, MaxOrders: 5})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	group, _ = result.Group("G")
	if len(group.Orders) != 5 || !group.Truncated {
		t.Errorf("Orders = %d, Truncated = %v, want 5 and true", len(group.Orders), group.Truncated)
	}
}

func TestResolve_CleansUnitCodes(t *testing.T) {
	raw := rawGroup(t, []string{"A-x", "B y", "C?"}, "A-x>B y", "B y>C?")

	result, err := Resolve(raw, Options{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	group, _ := result.Group("G")
	if want := []string{"A_x", "B_y", "C_"}; !reflect.DeepEqual(group.Order, want) {
		t.Errorf("Order = %v, want %v", group.Order, want)
	}
	if got := result.UnitGroups()["A_x"]; got != "G" {
		t.Errorf("UnitGroups[A_x] = %q, want G", got)
	}
}

func TestResolve_SelfLoop(t *testing.T) {
	raw := rawGroup(t, []string{"A", "B"}, "A>A", "A>B")
	result, err := Resolve(raw, Options{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(result.Removed) != 1 || result.Removed[0].Over != "A" || result.Removed[0].Under != "A" {
		t.Errorf("Removed = %v", result.Removed)
	}
}

func TestPartitions(t *testing.T) {
	raw := &strata.RawGraph{Nodes: []strata.RawNode{
		{ID: "1", Label: "Lower Gp", IsGroup: true},
		{ID: "2", Label: "A", GroupID: "1"},
		{ID: "3", Label: "B", GroupID: "1"},
		{ID: "4", Label: "Dolerite dyke", GroupID: "99"},
	}}
	g := withEdges(t, raw)

	parts := Partitions(g)
	if len(parts) != 2 {
		t.Fatalf("Expected 2 partitions, got %+v", parts)
	}
	if parts[0].Label != "Lower_Gp" || len(parts[0].Members) != 2 {
		t.Errorf("first partition = %+v", parts[0])
	}
	if parts[1].Label != "Dolerite_dyke" || parts[1].ID != "" {
		t.Errorf("orphan partition = %+v", parts[1])
	}
}

func TestResult_UnitGroups(t *testing.T) {
	raw := rawGroup(t, []string{"A", "B"}, "A>B")
	result, err := Resolve(raw, Options{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := map[string]string{"A": "G", "B": "G"}
	if got := result.UnitGroups(); !reflect.DeepEqual(got, want) {
		t.Errorf("UnitGroups = %v", got)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": OneOrder, "one": OneOrder, " ALL ": AllOrders} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("some"); !errors.Is(err, strata.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestReorient(t *testing.T) {
	raw := rawGroup(t, []string{"A", "B", "C"}, "A>B", "C>B", "G>A")
	table := authority.NewTable(authority.Pair{Over: "B", Under: "A"}, authority.Pair{Over: "C", Under: "B"})

	out, n := Reorient(raw, table)
	if n != 1 {
		t.Errorf("Expected 1 reversed edge, got %d", n)
	}
	edges := edgeSet(out)
	if !edges["B>A"] || edges["A>B"] {
		t.Errorf("A>B should be reversed, edges = %v", edges)
	}
	if !edges["C>B"] || !edges["G>A"] {
		t.Errorf("confirmed and group edges must stay, edges = %v", edges)
	}
	if !edgeSet(raw)["A>B"] {
		t.Error("input graph modified")
	}

	same, n := Reorient(raw, nil)
	if n != 0 || same.EdgeCount() != raw.EdgeCount() {
		t.Error("nil table should copy unchanged")
	}
}

func TestBreakers(t *testing.T) {
	cycle := []CycleEdge{
		{Over: "A", Under: "M", ToMarker: true},
		{Over: "M", Under: "B", FromMarker: true},
		{Over: "B", Under: "A"},
	}

	if idx, code := (FirstEdgeBreaker{}).Choose(cycle); idx != 0 || code != strata.CodeFallbackEdgeRemoved {
		t.Errorf("FirstEdgeBreaker = %d, %s", idx, code)
	}

	confirmedPlain := AuthorityBreaker{Table: authority.NewTable(authority.Pair{Over: "B", Under: "A"})}
	if idx, _ := confirmedPlain.Choose(cycle); idx != 0 {
		t.Errorf("only marker edges unconfirmed, expected first of them, got %d", idx)
	}

	if _, ok := NewBreaker(nil).(FirstEdgeBreaker); !ok {
		t.Error("NewBreaker(nil) should fall back to first edge")
	}
	if _, ok := NewBreaker(authority.NewTable(authority.Pair{Over: "A", Under: "B"})).(AuthorityBreaker); !ok {
		t.Error("NewBreaker(table) should use the table")
	}
}
