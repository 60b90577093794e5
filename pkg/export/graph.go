// Package export serialises the fused graph and the side tables the
// modelling engine reads.
package export

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/dd0wney/cluso-strata/pkg/fusion"
	"github.com/dd0wney/cluso-strata/pkg/gml"
	"github.com/dd0wney/cluso-strata/pkg/storage"
)

func sortedKeys(props map[string]storage.Value) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func graphics(g fusion.Graphics) gml.List {
	var l gml.List
	if g.Type != "" {
		l = l.Add("type", g.Type)
	}
	if g.Style != "" {
		l = l.Add("style", g.Style)
	}
	if g.Arrow != "" {
		l = l.Add("arrow", g.Arrow)
	}
	if g.Fill != "" {
		l = l.Add("fill", g.Fill)
	}
	return l
}

// GMLDocument renders g as a directed GML graph. Nodes get consecutive
// integer ids and their key as label. A non-nil presentation adds a
// graphics block to every styled node and edge.
func GMLDocument(g *storage.GraphStorage, p *fusion.Presentation) gml.List {
	body := gml.List{}.Add("directed", int64(1))
	index := make(map[uint64]int64)
	for i, n := range g.Nodes() {
		index[n.ID] = int64(i)
		node := gml.List{}.Add("id", int64(i)).Add("label", n.Key)
		if gr, ok := p.Node(n.ID); ok && !gr.IsZero() {
			node = node.Add("graphics", graphics(gr))
		}
		for _, k := range sortedKeys(n.Properties) {
			node = node.Add(k, n.Properties[k].Interface())
		}
		body = body.Add("node", node)
	}
	for _, e := range g.Edges() {
		edge := gml.List{}.
			Add("source", index[e.FromNodeID]).
			Add("target", index[e.ToNodeID])
		if gr, ok := p.Edge(e.ID); ok && !gr.IsZero() {
			edge = edge.Add("graphics", graphics(gr))
		}
		for _, k := range sortedKeys(e.Properties) {
			edge = edge.Add(k, e.Properties[k].Interface())
		}
		edge = edge.Add(fusion.PropEdgeType, e.Type)
		body = body.Add("edge", edge)
	}
	return gml.List{}.Add("graph", body)
}

// WriteGML writes g, styled when p is non-nil.
func WriteGML(w io.Writer, g *storage.GraphStorage, p *fusion.Presentation) error {
	return gml.Encode(w, GMLDocument(g, p))
}

// NodeLink is the node-link JSON form of a graph.
type NodeLink struct {
	Directed   bool             `json:"directed"`
	Multigraph bool             `json:"multigraph"`
	Graph      map[string]any   `json:"graph"`
	Nodes      []map[string]any `json:"nodes"`
	Links      []map[string]any `json:"links"`
}

// NodeLinkData converts g to the node-link form, keyed by node key.
func NodeLinkData(g *storage.GraphStorage) *NodeLink {
	nl := &NodeLink{
		Directed: true,
		Graph:    map[string]any{},
		Nodes:    []map[string]any{},
		Links:    []map[string]any{},
	}
	keys := make(map[uint64]string)
	for _, n := range g.Nodes() {
		keys[n.ID] = n.Key
		m := map[string]any{"id": n.Key}
		for k, v := range n.Properties {
			m[k] = v.Interface()
		}
		nl.Nodes = append(nl.Nodes, m)
	}
	for _, e := range g.Edges() {
		m := map[string]any{
			"source":            keys[e.FromNodeID],
			"target":            keys[e.ToNodeID],
			fusion.PropEdgeType: e.Type,
		}
		for k, v := range e.Properties {
			m[k] = v.Interface()
		}
		nl.Links = append(nl.Links, m)
	}
	return nl
}

// WriteJSON writes g as indented node-link JSON.
func WriteJSON(w io.Writer, g *storage.GraphStorage) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NodeLinkData(g))
}
