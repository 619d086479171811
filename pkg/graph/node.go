package graph

// NodeKind enumerates the types of nodes in the design graph.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // geometric primitive (box, cylinder, sphere)
	NodeUniverse                  // numbered container placed by fill nodes
	NodeFill                      // named fill shared by reference between lattices
	NodeLattice                   // repeated fill content over integer cells
	NodeTransform                 // placement of a child
	NodeGroup                     // logical grouping (assembly)
	NodeBoolean                   // union, difference or intersection of solids
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeUniverse:
		return "universe"
	case NodeFill:
		return "fill"
	case NodeLattice:
		return "lattice"
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	case NodeBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the design graph.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// DisplayName returns the node name, or its short ID if unnamed.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
