// Package fusion merges the resolved unit, group, supergroup and fault
// outputs into one typed graph for the modelling engine.
package fusion

// Node types, stored both as the node label and the ntype property.
const (
	NodeFormation  = "formation"
	NodeFault      = "fault"
	NodeGroup      = "group"
	NodeSupergroup = "supergroup"
	NodePoints     = "points"
	NodeDTM        = "dtm"
	NodeBBox       = "bbox"
	NodeCRS        = "dst_crs"
	NodeMetadata   = "metadata"
)

// Edge types.
const (
	EdgeFormationFormation = "formation_formation"
	EdgeGroupFormation     = "group_formation"
	EdgeFaultFault         = "fault_fault"
	EdgeFaultGroup         = "fault_group"
	EdgeFaultFormation     = "fault_formation"
	EdgeGroupGroup         = "group_group"
	EdgeSupergroupGroup    = "supergroup_group"
)

// Attribute names written to the interchange formats.
const (
	PropNodeType = "ntype"
	PropEdgeType = "etype"
	PropColour   = "s_colour"
	PropFColour  = "f_colour"
	PropData     = "data"
)

// Carrier node keys.
const (
	KeyPoints   = "Point_data"
	KeyDTM      = "DTM_data"
	KeyBBox     = "bbox"
	KeyCRS      = "dst_crs"
	KeyMetadata = "metadata"
)

// GroupSuffix is appended to group labels to form group node keys.
const GroupSuffix = "_gp"

// GroupKey returns the node key of a group.
func GroupKey(label string) string { return label + GroupSuffix }

// Sentinel marks an always-present numeric attribute with no value.
const Sentinel = -1.0

// allowed lists the node types each edge type may connect.
var allowed = map[string][2]string{
	EdgeFormationFormation: {NodeFormation, NodeFormation},
	EdgeGroupFormation:     {NodeGroup, NodeFormation},
	EdgeFaultFault:         {NodeFault, NodeFault},
	EdgeFaultGroup:         {NodeFault, NodeGroup},
	EdgeFaultFormation:     {NodeFault, NodeFormation},
	EdgeGroupGroup:         {NodeGroup, NodeGroup},
	EdgeSupergroupGroup:    {NodeSupergroup, NodeGroup},
}

// Endpoints returns the source and target node types allowed for an edge
// type.
func Endpoints(edgeType string) (from, to string, ok bool) {
	e, ok := allowed[edgeType]
	return e[0], e[1], ok
}
