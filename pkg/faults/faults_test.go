package faults

import (
	"context"
	"errors"
	"testing"

	"github.com/dd0wney/cluso-strata/pkg/algorithms"
	"github.com/dd0wney/cluso-strata/pkg/strata"
)

func report(fault string, neighbours ...strata.FaultNeighbour) strata.FaultIntersection {
	return strata.FaultIntersection{Fault: fault, Neighbours: neighbours}
}

func nb(fault string, angle float64) strata.FaultNeighbour {
	return strata.FaultNeighbour{Fault: fault, Topology: "T", Angle: angle}
}

func TestTracked(t *testing.T) {
	dims := []strata.FaultDimension{
		{Fault: "1", IncLength: 5000},
		{Fault: "2", IncLength: 10},
		{Fault: "Fault_3", IncLength: 800},
		{Fault: "1", IncLength: 6000},
	}
	got := Tracked(dims, 500)
	want := []string{"Fault_1", "Fault_3"}
	if len(got) != len(want) {
		t.Fatalf("Tracked = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tracked[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestResolveBreaksThreeCycle(t *testing.T) {
	tracked := []string{"Fault_1", "Fault_2", "Fault_3"}
	net, err := Resolve([]strata.FaultIntersection{
		report("1", nb("2", 10)),
		report("2", nb("3", 20)),
		report("3", nb("1", 30)),
	}, tracked, 0)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if algorithms.HasCycle(net.Graph) {
		t.Fatal("network still has a cycle")
	}
	if net.Cycles != 1 {
		t.Errorf("Cycles = %d, want 1", net.Cycles)
	}
	if net.Longest != 3 {
		t.Errorf("Longest = %d, want 3", net.Longest)
	}
	if len(net.Removed) != 1 {
		t.Fatalf("Removed = %v, want one edge", net.Removed)
	}
	edges := net.Edges()
	if len(edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(edges))
	}
	angles := map[string]float64{"Fault_1": 10, "Fault_2": 20, "Fault_3": 30}
	for _, e := range edges {
		if e.Angle != angles[e.From] {
			t.Errorf("edge %s->%s angle = %v, want %v", e.From, e.To, e.Angle, angles[e.From])
		}
		if e.Topology != "T" {
			t.Errorf("edge %s->%s topology = %q", e.From, e.To, e.Topology)
		}
	}
}

func TestResolveReaddsIsolatedFaults(t *testing.T) {
	tracked := []string{"Fault_1", "Fault_2", "Fault_9"}
	net, err := Resolve([]strata.FaultIntersection{
		report("1", nb("2", 45)),
		report("2", nb("1", 45)),
	}, tracked, 0)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for _, id := range tracked {
		if !net.Graph.HasNode(id) {
			t.Errorf("fault %s missing from network", id)
		}
	}
	if got := len(net.Edges()); got != 1 {
		t.Errorf("got %d edges, want 1 after breaking the 2-cycle", got)
	}
}

func TestResolveIgnoresUntrackedFaults(t *testing.T) {
	net, err := Resolve([]strata.FaultIntersection{
		report("1", nb("7", 5), nb("2", 15)),
		report("7", nb("2", 25)),
	}, []string{"Fault_1", "Fault_2"}, 0)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if net.Graph.HasNode("Fault_7") {
		t.Error("untracked fault added to network")
	}
	if got := net.Warnings.Count(strata.CodeUntrackedFault); got != 1 {
		t.Errorf("untracked warnings = %d, want 1", got)
	}
}

func TestResolveRepeatedPairKeepsLastMetadata(t *testing.T) {
	net, err := Resolve([]strata.FaultIntersection{
		report("1", nb("2", 10)),
		report("1", nb("2", 70)),
	}, []string{"Fault_1", "Fault_2"}, 0)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	edges := net.Edges()
	if len(edges) != 1 || edges[0].Angle != 70 {
		t.Errorf("edges = %+v, want one edge with angle 70", edges)
	}
}

func TestCheckGeometries(t *testing.T) {
	geoms := []strata.FaultGeometry{
		{Fault: "1", Kind: strata.GeometryLineString},
		{Fault: "2", Kind: strata.GeometryMultiLineString},
	}
	if err := CheckGeometries(geoms, []string{"Fault_1"}); err != nil {
		t.Errorf("single line rejected: %v", err)
	}
	err := CheckGeometries(geoms, []string{"Fault_1", "Fault_2"})
	if !errors.Is(err, strata.ErrUnsupportedGeometry) {
		t.Fatalf("err = %v, want ErrUnsupportedGeometry", err)
	}
	var se *strata.StageError
	if !errors.As(err, &se) || se.ID != "Fault_2" {
		t.Errorf("err = %#v, want stage error for Fault_2", err)
	}
}

func TestIncidenceTables(t *testing.T) {
	units := UnitFaults([]strata.UnitFaultIntersection{
		{Unit: "A-1", Faults: []string{"1", "2"}},
		{Unit: "B", Faults: []string{"2", "8"}},
		{Unit: "Z", Faults: []string{"1"}},
	}, []string{"A_1", "B", "C"}, []string{"Fault_1", "Fault_2"})

	if !units.Get("A_1", "Fault_1") || !units.Get("B", "Fault_2") || units.Get("C", "Fault_1") {
		t.Fatal("unexpected unit incidence")
	}
	if units.Count() != 3 {
		t.Errorf("unit Count = %d, want 3", units.Count())
	}

	unitGroup := map[string]string{"A_1": "G1", "B": "G1", "C": "G2"}
	groups := GroupFaults(units, unitGroup, []string{"G1", "G2"}, nil)
	if got := groups.Faults("G1"); len(got) != 2 {
		t.Errorf("G1 faults = %v, want both", got)
	}
	if got := groups.Faults("G2"); len(got) != 0 {
		t.Errorf("G2 faults = %v, want none", got)
	}

	refuse := ContactFunc(func(group, fault string) bool { return fault != "Fault_2" })
	checked := GroupFaults(units, unitGroup, []string{"G1", "G2"}, refuse)
	if checked.Get("G1", "Fault_2") {
		t.Error("contact check did not switch incidence off")
	}

	super := SupergroupFaults(groups, map[string]string{"G1": "supergroup_0", "G2": "supergroup_0"}, []string{"supergroup_0"})
	if got := super.Faults("supergroup_0"); len(got) != 2 {
		t.Errorf("supergroup faults = %v", got)
	}
}

func TestKMeansDeterministic(t *testing.T) {
	data := [][]float64{{0}, {0.1}, {0.2}, {10}, {10.1}, {10.3}, {50}, {50.5}}
	first, err := kmeans(context.Background(), data, 3, 0, 4)
	if err != nil {
		t.Fatalf("kmeans: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := kmeans(context.Background(), data, 3, 0, 2)
		if err != nil {
			t.Fatalf("kmeans: %v", err)
		}
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("run %d label %d = %d, want %d", run, i, again[i], first[i])
			}
		}
	}
	if first[0] != first[1] || first[0] != first[2] {
		t.Errorf("first cluster split: %v", first)
	}
	if first[3] != first[4] || first[6] != first[7] || first[0] == first[3] || first[3] == first[6] {
		t.Errorf("clusters not separated: %v", first)
	}
}

func TestClusterFaults(t *testing.T) {
	dims := []strata.FaultDimension{
		{Fault: "1", IncLength: 100},
		{Fault: "2", IncLength: 110},
		{Fault: "3", IncLength: 9000},
		{Fault: "4", IncLength: 9100},
	}
	orientations := []strata.FaultOrientation{
		{Fault: "1", Dip: 80, DipDirection: 90},
		{Fault: "1", Dip: 10, DipDirection: 270},
		{Fault: "2", Dip: 82, DipDirection: 92},
		{Fault: "3", Dip: 30, DipDirection: 270},
		{Fault: "4", Dip: 32, DipDirection: 268},
	}
	c, err := ClusterFaults(context.Background(), dims, orientations, ClusterOptions{OrientationClusters: 2, LengthClusters: 2, Workers: 2})
	if err != nil {
		t.Fatalf("ClusterFaults: %v", err)
	}
	if c.LengthLabel("Fault_1") != c.LengthLabel("Fault_2") || c.LengthLabel("Fault_1") == c.LengthLabel("Fault_3") {
		t.Errorf("length clusters = %v", c.Length)
	}
	if c.OrientationLabel("Fault_1") != c.OrientationLabel("Fault_2") || c.OrientationLabel("Fault_1") == c.OrientationLabel("Fault_4") {
		t.Errorf("orientation clusters = %v", c.Orientation)
	}

	few, err := ClusterFaults(context.Background(), dims, orientations, ClusterOptions{OrientationClusters: 5, LengthClusters: 5})
	if err != nil {
		t.Fatalf("ClusterFaults: %v", err)
	}
	if few.LengthLabel("Fault_1") != NoCluster || few.OrientationLabel("Fault_3") != NoCluster {
		t.Errorf("expected NoCluster when faults < k, got %v %v", few.Length, few.Orientation)
	}
}

func TestOrientationVector(t *testing.T) {
	v := OrientationVector(90, 90)
	if v[0] < 0.999 || v[2] > 1e-9 {
		t.Errorf("vertical east-dipping = %v", v)
	}
	h := OrientationVector(0, 0)
	if h[2] < 0.999 {
		t.Errorf("horizontal = %v", h)
	}
}

func TestBuildAttributes(t *testing.T) {
	dims := []strata.FaultDimension{{Fault: "1", IncLength: 10}, {Fault: "2"}, {Fault: "3"}}
	orientations := []strata.FaultOrientation{
		{Fault: "1", X: 100, Y: 100, Dip: 70, DipDirection: 120, DipPolarity: 1},
		{Fault: "1", X: 100, Y: 100, Dip: 10, DipDirection: 10},
		{Fault: "2", X: 4, Y: 6, Z: 2, Dip: 50, DipDirection: 200},
	}
	points := []strata.FaultPoint{{Fault: "1", X: 0, Y: 0}, {Fault: "1", X: 2, Y: 4}}
	clusters := &Clusters{Orientation: map[string]int{"Fault_1": 1}}

	attrs := BuildAttributes(dims, orientations, points, clusters)
	if len(attrs) != 3 {
		t.Fatalf("got %d attributes", len(attrs))
	}
	a := attrs[0]
	if a.Fault != "Fault_1" || a.Dip != 70 || a.DipDirection != 120 || a.DipPolarity != 1 {
		t.Errorf("Fault_1 orientation = %+v", a)
	}
	if a.XMean != 1 || a.YMean != 2 {
		t.Errorf("Fault_1 centroid = (%v, %v), want (1, 2)", a.XMean, a.YMean)
	}
	if a.OrientationCluster != 1 || a.LengthCluster != NoCluster {
		t.Errorf("Fault_1 clusters = %d/%d", a.OrientationCluster, a.LengthCluster)
	}
	if b := attrs[1]; b.XMean != 4 || b.YMean != 6 || b.ZMean != 2 {
		t.Errorf("Fault_2 fallback centroid = %+v", b)
	}
	if c := attrs[2]; c.Dip != Unknown || c.DipDirection != Unknown || c.XMean != 0 {
		t.Errorf("Fault_3 = %+v, want unknown orientation", c)
	}
}
