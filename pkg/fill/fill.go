// Package fill defines the content placed in lattice cells: a single
// Node, or a grid of nodes addressed by integer cell coordinates over
// fixed inclusive ranges.
package fill

import (
	"fmt"
	"sort"

	"github.com/chazu/latticework/pkg/geom"
)

// Node is the content placed in one cell: a universe number and an
// optional transform applied to that universe inside the cell.
type Node struct {
	Universe  int             `json:"universe"`
	Transform *geom.Transform `json:"transform,omitempty"`
}

// Clone returns a copy of n that does not share its transform.
func (n Node) Clone() Node {
	if n.Transform != nil {
		tx := *n.Transform
		n.Transform = &tx
	}
	return n
}

func (n Node) String() string {
	if n.Transform == nil {
		return fmt.Sprintf("u%d", n.Universe)
	}
	return fmt.Sprintf("u%d%s", n.Universe, n.Transform)
}

// Range is a closed integer interval [First, Second].
type Range struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

// Size returns the number of integers in the range.
func (r Range) Size() int { return r.Second - r.First + 1 }

// Contains reports whether v lies within the range.
func (r Range) Contains(v int) bool { return v >= r.First && v <= r.Second }

func (r Range) String() string { return fmt.Sprintf("%d:%d", r.First, r.Second) }

// Fill is either a single node or a grid of nodes. A Fill is read-only
// once constructed; copying the struct shares the node storage, use Clone
// for an independent copy.
type Fill struct {
	hasGrid bool
	x, y, z Range
	nodes   []Node
}

// NewSingle returns a non-gridded fill holding only n.
func NewSingle(n Node) Fill {
	return Fill{nodes: []Node{n}}
}

// NewGrid returns a gridded fill over the given ranges. nodes are in
// z-major order with x varying fastest, and their count must equal the
// product of the range sizes.
func NewGrid(x, y, z Range, nodes []Node) (Fill, error) {
	for _, r := range []struct {
		axis string
		r    Range
	}{{"x", x}, {"y", y}, {"z", z}} {
		if r.r.Size() < 1 {
			return Fill{}, fmt.Errorf("fill: %s range %s is reversed", r.axis, r.r)
		}
	}
	want := x.Size() * y.Size() * z.Size()
	if len(nodes) != want {
		return Fill{}, fmt.Errorf("fill: grid %s %s %s needs %d nodes, got %d", x, y, z, want, len(nodes))
	}
	return Fill{
		hasGrid: true,
		x:       x,
		y:       y,
		z:       z,
		nodes:   append([]Node(nil), nodes...),
	}, nil
}

// HasGrid reports whether the fill is gridded.
func (f *Fill) HasGrid() bool { return f.hasGrid }

// Ranges returns the grid ranges. They are zero for a non-gridded fill.
func (f *Fill) Ranges() (x, y, z Range) { return f.x, f.y, f.z }

// Len returns the number of nodes.
func (f *Fill) Len() int { return len(f.nodes) }

// Contains reports whether (x, y, z) is a cell of the grid.
func (f *Fill) Contains(x, y, z int) bool {
	return f.hasGrid && f.x.Contains(x) && f.y.Contains(y) && f.z.Contains(z)
}

// HasOrigin reports whether OriginNode is defined: always for a single
// node, and for a grid only when every range includes 0.
func (f *Fill) HasOrigin() bool {
	return !f.hasGrid || f.Contains(0, 0, 0)
}

// SerialIndex maps cell coordinates to the index of their node. It panics
// if the coordinates are outside the grid.
func (f *Fill) SerialIndex(x, y, z int) int {
	if !f.Contains(x, y, z) {
		panic(fmt.Sprintf("fill: cell (%d, %d, %d) outside grid %s %s %s", x, y, z, f.x, f.y, f.z))
	}
	gx := x - f.x.First
	gy := y - f.y.First
	gz := z - f.z.First
	dx := f.x.Size()
	dy := f.y.Size()

	index := gz*(dy*dx) + gy*dx + gx
	if index < 0 || index >= len(f.nodes) {
		panic(fmt.Sprintf("fill: serial index %d out of bounds [0, %d)", index, len(f.nodes)))
	}
	return index
}

// OriginNode returns the single node of a non-gridded fill, or the node
// at (0, 0, 0) of a grid. It panics if the grid does not contain the
// origin.
func (f *Fill) OriginNode() Node {
	if !f.hasGrid {
		return f.nodes[0]
	}
	if !f.HasOrigin() {
		panic(fmt.Sprintf("fill: grid %s %s %s does not contain the origin", f.x, f.y, f.z))
	}
	return f.nodes[f.SerialIndex(0, 0, 0)]
}

// Node returns the node at (x, y, z). It panics on a non-gridded fill or
// for coordinates outside the grid.
func (f *Fill) Node(x, y, z int) Node {
	if !f.hasGrid {
		panic("fill: Node called on a fill without a grid")
	}
	return f.nodes[f.SerialIndex(x, y, z)]
}

// Each calls fn for every cell in storage order. A non-gridded fill has a
// single cell at the origin.
func (f *Fill) Each(fn func(x, y, z int, n Node)) {
	if !f.hasGrid {
		fn(0, 0, 0, f.nodes[0])
		return
	}
	i := 0
	for z := f.z.First; z <= f.z.Second; z++ {
		for y := f.y.First; y <= f.y.Second; y++ {
			for x := f.x.First; x <= f.x.Second; x++ {
				fn(x, y, z, f.nodes[i])
				i++
			}
		}
	}
}

// Universes returns the distinct universe numbers referenced, sorted.
func (f *Fill) Universes() []int {
	seen := make(map[int]bool)
	var out []int
	for _, n := range f.nodes {
		if !seen[n.Universe] {
			seen[n.Universe] = true
			out = append(out, n.Universe)
		}
	}
	sort.Ints(out)
	return out
}

// Clone returns a deep copy of f.
func (f *Fill) Clone() Fill {
	c := *f
	c.nodes = make([]Node, len(f.nodes))
	for i, n := range f.nodes {
		c.nodes[i] = n.Clone()
	}
	return c
}

func (f *Fill) String() string {
	if !f.hasGrid {
		return fmt.Sprintf("fill %s", f.nodes[0])
	}
	return fmt.Sprintf("fill %s %s %s (%d nodes)", f.x, f.y, f.z, len(f.nodes))
}
