package extractor

import (
	"fmt"
	"io"

	"github.com/dd0wney/cluso-strata/pkg/gml"
	"github.com/dd0wney/cluso-strata/pkg/strata"
)

// ReadStratGraph decodes the extractor's stratigraphic graph. Node labels
// come from LabelGraphics.text, group membership from gid, and nodes
// carrying isGroup are group markers.
func ReadStratGraph(r io.Reader) (*strata.RawGraph, error) {
	doc, err := gml.Decode(r)
	if err != nil {
		return nil, err
	}
	graph, ok := doc.List("graph")
	if !ok {
		return nil, fmt.Errorf("%w: no graph block", strata.ErrInvalidInput)
	}

	raw := &strata.RawGraph{}
	for i, n := range graph.Lists("node") {
		id, ok := n.String("id")
		if !ok {
			return nil, fmt.Errorf("%w: node %d has no id", strata.ErrInvalidInput, i)
		}
		node := strata.RawNode{ID: id, IsGroup: n.Has("isGroup")}
		if lg, ok := n.List("LabelGraphics"); ok {
			node.Label, _ = lg.String("text")
		}
		if node.Label == "" {
			node.Label, _ = n.String("label")
		}
		node.GroupID, _ = n.String("gid")
		raw.Nodes = append(raw.Nodes, node)
	}
	for i, e := range graph.Lists("edge") {
		from, ok1 := e.String("source")
		to, ok2 := e.String("target")
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%w: edge %d needs source and target", strata.ErrInvalidInput, i)
		}
		raw.Edges = append(raw.Edges, strata.RawEdge{From: from, To: to})
	}
	return raw, nil
}
