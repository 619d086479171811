package graph

import (
	"fmt"
	"sort"
)

// GlobalDefaults contains graph-wide default settings.
type GlobalDefaults struct {
	Units        string `json:"units"`         // "cm"
	DegreeFormat bool   `json:"degree_format"` // transforms read rotation values as angles
}

// DesignGraph is the top-level data structure produced by Lisp evaluation.
// Each evaluation produces a new graph.
type DesignGraph struct {
	Nodes         map[NodeID]*Node  `json:"nodes"`
	Roots         []NodeID          `json:"roots"`
	NameIndex     map[string]NodeID `json:"name_index"`
	UniverseIndex map[int]NodeID    `json:"universe_index"`
	Defaults      GlobalDefaults    `json:"defaults"`
	Version       uint64            `json:"version"`
}

// New creates an empty DesignGraph with default settings.
func New() *DesignGraph {
	return &DesignGraph{
		Nodes:         make(map[NodeID]*Node),
		NameIndex:     make(map[string]NodeID),
		UniverseIndex: make(map[int]NodeID),
		Defaults: GlobalDefaults{
			Units: "cm",
		},
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
// Universe nodes are also indexed by number.
func (g *DesignGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
	if u, ok := n.Data.(UniverseData); ok {
		g.UniverseIndex[u.Number] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph.
func (g *DesignGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *DesignGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *DesignGraph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *DesignGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Universe returns the universe node with the given number, or nil.
func (g *DesignGraph) Universe(number int) *Node {
	id, ok := g.UniverseIndex[number]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// Lattice returns the lattice data of the named lattice node.
func (g *DesignGraph) Lattice(name string) (LatticeData, error) {
	n := g.Lookup(name)
	if n == nil {
		return LatticeData{}, fmt.Errorf("graph: no node named %q", name)
	}
	ld, ok := n.Data.(LatticeData)
	if !ok {
		return LatticeData{}, fmt.Errorf("graph: node %q is a %s, not a lattice", name, n.Kind)
	}
	return ld, nil
}

// Lattices returns all lattice nodes, ordered by name.
func (g *DesignGraph) Lattices() []*Node {
	return g.ofKind(NodeLattice)
}

// Fills returns all shared fill nodes, ordered by name.
func (g *DesignGraph) Fills() []*Node {
	return g.ofKind(NodeFill)
}

// Primitives returns all primitive nodes, ordered by name.
func (g *DesignGraph) Primitives() []*Node {
	return g.ofKind(NodePrimitive)
}

// Booleans returns all boolean nodes, ordered by name.
func (g *DesignGraph) Booleans() []*Node {
	return g.ofKind(NodeBoolean)
}

// SolidMaterial returns the material of a solid: a primitive's own, a
// boolean's explicit one or else its first operand's, and a placement's
// child's. Anything else has no material.
func (g *DesignGraph) SolidMaterial(n *Node) MaterialSpec {
	for depth := 0; n != nil && depth <= len(g.Nodes); depth++ {
		switch d := n.Data.(type) {
		case PrimitiveData:
			return d.Material
		case BooleanData:
			if d.Material.Name != "" {
				return d.Material
			}
		case TransformData:
		default:
			return MaterialSpec{}
		}
		if len(n.Children) == 0 {
			break
		}
		n = g.Nodes[n.Children[0]]
	}
	return MaterialSpec{}
}

func (g *DesignGraph) ofKind(kind NodeKind) []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Children returns the child nodes of the given node.
func (g *DesignGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// Edges returns every node n depends on: its children, the fill a lattice
// borrows, and the universes named by the lattice's or fill's nodes.
// Universe numbers without a node are skipped.
func (g *DesignGraph) Edges(n *Node) []NodeID {
	edges := append([]NodeID(nil), n.Children...)
	switch d := n.Data.(type) {
	case LatticeData:
		if !d.FillRef.IsZero() {
			edges = append(edges, d.FillRef)
		} else if d.Lattice != nil {
			edges = append(edges, g.universeIDs(d.Lattice.Fill().Universes())...)
		}
	case FillData:
		if d.Fill != nil {
			edges = append(edges, g.universeIDs(d.Fill.Universes())...)
		}
	}
	return edges
}

func (g *DesignGraph) universeIDs(numbers []int) []NodeID {
	var ids []NodeID
	for _, u := range numbers {
		if id, ok := g.UniverseIndex[u]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// NodeCount returns the total number of nodes.
func (g *DesignGraph) NodeCount() int {
	return len(g.Nodes)
}
