package fusion

import "github.com/dd0wney/cluso-strata/pkg/storage"

// Graphics is the presentation block of one node or edge.
type Graphics struct {
	Type  string
	Fill  string
	Style string
	Arrow string
}

// IsZero reports whether g carries no attributes.
func (g Graphics) IsZero() bool { return g == Graphics{} }

// Presentation maps node and edge IDs to graphics. It is kept beside the
// graph and only joined with it when a styled export is written.
type Presentation struct {
	Nodes map[uint64]Graphics
	Edges map[uint64]Graphics
}

// Node returns the graphics for a node, if any.
func (p *Presentation) Node(id uint64) (Graphics, bool) {
	if p == nil {
		return Graphics{}, false
	}
	g, ok := p.Nodes[id]
	return g, ok
}

// Edge returns the graphics for an edge, if any.
func (p *Presentation) Edge(id uint64) (Graphics, bool) {
	if p == nil {
		return Graphics{}, false
	}
	g, ok := p.Edges[id]
	return g, ok
}

var nodeStyles = map[string]Graphics{
	NodeSupergroup: {Type: "triangle", Fill: "#FF0000"},
	NodeGroup:      {Type: "triangle", Fill: "#FF9900"},
	NodePoints:     {Type: "octagon", Fill: "#00FF00"},
	NodeDTM:        {Type: "octagon", Fill: "#00FF00"},
	NodeBBox:       {Type: "octagon", Fill: "#00FF00"},
	NodeCRS:        {Type: "octagon", Fill: "#00FF00"},
	NodeMetadata:   {Type: "octagon", Fill: "#00FF00"},
}

var edgeFills = map[string]string{
	EdgeFormationFormation: "#6666FF",
	EdgeFaultGroup:         "#666600",
	EdgeFaultFormation:     "#0066FF",
	EdgeFaultFault:         "#000000",
	EdgeGroupFormation:     "#FF6600",
}

// Style derives presentation attributes from node and edge types.
// Formations are filled with their unit colour and faults drawn as
// ellipses in their fault colour. Types without a style are left out.
func Style(g *storage.GraphStorage) *Presentation {
	p := &Presentation{Nodes: map[uint64]Graphics{}, Edges: map[uint64]Graphics{}}
	for _, n := range g.Nodes() {
		switch t := NodeType(n); t {
		case NodeFormation:
			if c := n.StringProperty(PropColour); c != "" {
				p.Nodes[n.ID] = Graphics{Fill: c}
			}
		case NodeFault:
			if c := n.StringProperty(PropFColour); c != "" {
				p.Nodes[n.ID] = Graphics{Type: "ellipse", Fill: c}
			}
		default:
			if s, ok := nodeStyles[t]; ok {
				p.Nodes[n.ID] = s
			}
		}
	}
	for _, e := range g.Edges() {
		if fill, ok := edgeFills[e.Type]; ok {
			p.Edges[e.ID] = Graphics{Style: "line", Arrow: "last", Fill: fill}
		}
	}
	return p
}
