package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-strata/pkg/faults"
	"github.com/dd0wney/cluso-strata/pkg/fusion"
	"github.com/dd0wney/cluso-strata/pkg/gml"
	"github.com/dd0wney/cluso-strata/pkg/groups"
	"github.com/dd0wney/cluso-strata/pkg/storage"
	"github.com/dd0wney/cluso-strata/pkg/strata"
)

func smallGraph(t *testing.T) *storage.GraphStorage {
	t.Helper()
	g := storage.NewGraphStorage()
	a, err := g.CreateNode("A", []string{fusion.NodeFormation}, map[string]storage.Value{
		fusion.PropNodeType: storage.StringValue(fusion.NodeFormation),
		fusion.PropColour:   storage.StringValue("#123456"),
		"MinAge":            storage.FloatValue(2),
	})
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.CreateNode("B", []string{fusion.NodeFormation}, map[string]storage.Value{
		fusion.PropNodeType: storage.StringValue(fusion.NodeFormation),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.CreateEdge(a.ID, b.ID, fusion.EdgeFormationFormation, nil, 1); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestWriteGML(t *testing.T) {
	g := smallGraph(t)
	var plain, styled bytes.Buffer
	if err := WriteGML(&plain, g, nil); err != nil {
		t.Fatalf("WriteGML: %v", err)
	}
	if err := WriteGML(&styled, g, fusion.Style(g)); err != nil {
		t.Fatalf("WriteGML styled: %v", err)
	}
	if strings.Contains(plain.String(), "graphics") {
		t.Error("plain export carries graphics")
	}

	doc, err := gml.Decode(&styled)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	graph, _ := doc.List("graph")
	nodes := graph.Lists("node")
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes", len(nodes))
	}
	if label, _ := nodes[0].String("label"); label != "A" {
		t.Errorf("label = %q", label)
	}
	gr, ok := nodes[0].List("graphics")
	if !ok {
		t.Fatal("styled node has no graphics")
	}
	if fill, _ := gr.String("fill"); fill != "#123456" {
		t.Errorf("fill = %q", fill)
	}
	if age, _ := nodes[0].Get("MinAge"); age != 2.0 {
		t.Errorf("MinAge = %#v", age)
	}
	edge := graph.Lists("edge")[0]
	if et, _ := edge.String(fusion.PropEdgeType); et != fusion.EdgeFormationFormation {
		t.Errorf("etype = %q", et)
	}
	if eg, _ := edge.List("graphics"); !eg.Has("arrow") {
		t.Error("edge graphics missing arrow")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, smallGraph(t)); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var nl NodeLink
	if err := json.Unmarshal(buf.Bytes(), &nl); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !nl.Directed || len(nl.Nodes) != 2 || len(nl.Links) != 1 {
		t.Fatalf("node-link = %+v", nl)
	}
	if nl.Links[0]["source"] != "A" || nl.Links[0]["target"] != "B" {
		t.Errorf("link = %v", nl.Links[0])
	}
}

func TestCompressRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("formation_formation "), 200)
	packed, err := Compress(data)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(packed) >= len(data) {
		t.Errorf("compressed %d bytes to %d", len(data), len(packed))
	}
	back, err := Decompress(packed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(back, data) {
		t.Error("round trip mismatch")
	}
}

func TestTables(t *testing.T) {
	tests := []struct {
		name  string
		table *Table
		want  string
	}{
		{
			name: "all sorts",
			table: AllSortsTable([]groups.SortRow{
				{Index: 0, GroupNumber: 1, IndexInGroup: 1, NumberInGroup: 1, Code: "A", Group: "G"},
			}),
			want: "index,group number,index in group,number in group,code,group\n0,1,1,1,A,G\n",
		},
		{
			name:  "choices",
			table: ChoiceTable("G.csv", [][]string{{"A", "B"}, {"B", "A"}}),
			want:  "Choice 0,A,B\nChoice 1,B,A\n",
		},
		{
			name:  "ages",
			table: GroupAgesTable([]groups.Age{{Group: "G", Min: 1, Max: 3, Mean: 2}}),
			want:  "index,group_,min,max,ave\n0,G,1,3,2\n",
		},
		{
			name:  "groups",
			table: GroupsTable([]string{"G1", "G2"}),
			want:  "G1\nG2\n",
		},
		{
			name: "warnings",
			table: WarningsTable(strata.Warnings{{
				Stage: strata.StageGroups, Code: strata.CodeEdgeRemoved, Entity: "G", Message: "a, b",
			}}),
			want: "stage,code,entity,message\ngroups,edge_removed,G,\"a, b\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.table.Bytes()
			if err != nil {
				t.Fatalf("Bytes: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestIncidenceTable(t *testing.T) {
	inc := faults.NewIncidence([]string{"G1", "G2"}, []string{"Fault_1", "Fault_2"})
	inc.Set("G2", "Fault_1", true)
	got, err := IncidenceTable("group-fault-relationships.csv", "group", inc).Bytes()
	if err != nil {
		t.Fatal(err)
	}
	want := "group,Fault_1,Fault_2\nG1,0,0\nG2,1,0\n"
	if string(got) != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}
