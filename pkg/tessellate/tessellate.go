// Package tessellate walks a design graph and produces triangle meshes
// using a geometry kernel. Lattices are expanded cell by cell, so one
// mesh is produced per placed primitive or boolean.
package tessellate

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/chazu/latticework/pkg/fill"
	"github.com/chazu/latticework/pkg/geom"
	"github.com/chazu/latticework/pkg/graph"
	"github.com/chazu/latticework/pkg/kernel"
)

// DefaultMaxDepth bounds graph nesting when Options.MaxDepth is unset.
const DefaultMaxDepth = 32

// cylinderSegments is passed to kernels that facet cylinders.
const cylinderSegments = 32

// Options tunes a walk. The zero value uses DefaultMaxDepth.
type Options struct {
	MaxDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Placement is one solid, a primitive or a boolean, positioned in world
// space. Transforms are
// ordered outermost first; the innermost is applied to the primitive
// first.
type Placement struct {
	Name       string
	Node       *graph.Node
	Transforms []geom.Transform
}

// Apply maps a point from the primitive's frame into world space.
func (p Placement) Apply(v geom.Vector) geom.Vector {
	for i := len(p.Transforms) - 1; i >= 0; i-- {
		v = p.Transforms[i].Apply(v)
	}
	return v
}

// transformStack accumulates spatial transforms during graph traversal.
type transformStack struct {
	transforms []geom.Transform
}

func (ts *transformStack) push(t geom.Transform) {
	ts.transforms = append(ts.transforms, t)
}

func (ts *transformStack) pop() {
	if len(ts.transforms) > 0 {
		ts.transforms = ts.transforms[:len(ts.transforms)-1]
	}
}

// snapshot returns a copy of the stack with identity entries dropped.
func (ts *transformStack) snapshot() []geom.Transform {
	out := make([]geom.Transform, 0, len(ts.transforms))
	for _, t := range ts.transforms {
		if !t.IsIdentity() {
			out = append(out, t)
		}
	}
	return out
}

// walker carries the state of one traversal.
type walker struct {
	g        *graph.DesignGraph
	maxDepth int
	stack    transformStack
	suffix   []string
	out      []Placement
}

// Place walks the design graph from its roots and returns every solid
// placement in traversal order. A boolean is one placement; its operands
// are not walked. Lattice cells are visited in fill storage
// order (z-major, x fastest). The graph is never mutated.
func Place(g *graph.DesignGraph, opts Options) ([]Placement, error) {
	if g == nil {
		return nil, nil
	}
	w := &walker{g: g, maxDepth: opts.maxDepth()}
	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		if err := w.walkNode(root, 0); err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
	}
	return w.out, nil
}

// Tessellate walks the design graph and produces one triangle mesh per
// placed solid using the provided geometry kernel.
func Tessellate(g *graph.DesignGraph, k kernel.Kernel, opts Options) ([]*kernel.Mesh, error) {
	placements, err := Place(g, opts)
	if err != nil {
		return nil, err
	}

	meshes := make([]*kernel.Mesh, 0, len(placements))
	for _, p := range placements {
		m, err := Mesh(g, k, p)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}
	slog.Debug("tessellated design", "placements", len(placements), "nodes", g.NodeCount())
	return meshes, nil
}

// Mesh builds the solid for one placement and meshes it. The placement's
// node is a primitive or a boolean; g resolves a boolean's operands.
func Mesh(g *graph.DesignGraph, k kernel.Kernel, p Placement) (*kernel.Mesh, error) {
	solid, err := buildSolid(g, k, p.Node, 0)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %q: %w", p.Name, err)
	}
	solid = applyTransforms(k, solid, p.Transforms)

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for %q: %w", p.Name, err)
	}
	mesh.Name = p.Name
	if g != nil {
		mesh.Material = g.SolidMaterial(p.Node).Name
	} else if pd, ok := p.Node.Data.(graph.PrimitiveData); ok {
		mesh.Material = pd.Material.Name
	}
	return mesh, nil
}

// applyTransforms applies transforms innermost first: each rotates about
// the origin of its parent frame, then translates.
func applyTransforms(k kernel.Kernel, solid kernel.Solid, transforms []geom.Transform) kernel.Solid {
	for i := len(transforms) - 1; i >= 0; i-- {
		t := transforms[i]
		if t.HasRotation && t.Angle != 0 {
			solid = k.Rotate(solid, t.Axis.Components(), t.Angle)
		}
		if !t.Translation.IsZero() {
			solid = k.Translate(solid, t.Translation.X, t.Translation.Y, t.Translation.Z)
		}
	}
	return solid
}

// buildSolid builds the kernel solid of a primitive, a boolean folded over
// its operands, or a placement of either.
func buildSolid(g *graph.DesignGraph, k kernel.Kernel, n *graph.Node, depth int) (kernel.Solid, error) {
	if n == nil {
		return nil, fmt.Errorf("missing operand")
	}
	if depth > DefaultMaxDepth {
		return nil, fmt.Errorf("solid nesting deeper than %d at node %q", DefaultMaxDepth, n.DisplayName())
	}

	switch d := n.Data.(type) {
	case graph.PrimitiveData:
		switch d.Shape {
		case graph.ShapeBox:
			return k.Box(d.Size.X, d.Size.Y, d.Size.Z), nil
		case graph.ShapeCylinder:
			return k.Cylinder(d.Height, d.Radius, cylinderSegments), nil
		case graph.ShapeSphere:
			return k.Sphere(d.Radius), nil
		default:
			return nil, fmt.Errorf("primitive %q has unknown shape %s", n.DisplayName(), d.Shape)
		}

	case graph.TransformData:
		if g == nil || len(n.Children) != 1 {
			return nil, fmt.Errorf("placement %q must place exactly one solid", n.DisplayName())
		}
		child, err := buildSolid(g, k, g.Get(n.Children[0]), depth+1)
		if err != nil {
			return nil, err
		}
		return applyTransforms(k, child, []geom.Transform{d.Transform}), nil

	case graph.BooleanData:
		if g == nil || len(n.Children) < 2 {
			return nil, fmt.Errorf("%s %q needs at least 2 operands", d.Op, n.DisplayName())
		}
		var acc kernel.Solid
		for i, cid := range n.Children {
			s, err := buildSolid(g, k, g.Get(cid), depth+1)
			if err != nil {
				return nil, err
			}
			if i == 0 {
				acc = s
				continue
			}
			switch d.Op {
			case graph.BooleanUnion:
				acc = k.Union(acc, s)
			case graph.BooleanDifference:
				acc = k.Difference(acc, s)
			case graph.BooleanIntersection:
				acc = k.Intersection(acc, s)
			default:
				return nil, fmt.Errorf("boolean %q has unknown operation %s", n.DisplayName(), d.Op)
			}
		}
		return acc, nil

	default:
		return nil, fmt.Errorf("node %q has unsupported data type %T", n.DisplayName(), n.Data)
	}
}

// walkNode recursively traverses a node and its children, collecting
// placements.
func (w *walker) walkNode(n *graph.Node, depth int) error {
	if depth > w.maxDepth {
		return fmt.Errorf("nesting deeper than %d at node %q", w.maxDepth, n.DisplayName())
	}

	switch n.Kind {
	case graph.NodePrimitive, graph.NodeBoolean:
		w.out = append(w.out, Placement{
			Name:       n.DisplayName() + strings.Join(w.suffix, ""),
			Node:       n,
			Transforms: w.stack.snapshot(),
		})
		return nil

	case graph.NodeTransform:
		td, ok := n.Data.(graph.TransformData)
		if !ok {
			return fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
		}
		w.stack.push(td.Transform)
		defer w.stack.pop()
		return w.walkChildren(n, depth)

	case graph.NodeGroup, graph.NodeUniverse:
		return w.walkChildren(n, depth)

	case graph.NodeLattice:
		return w.walkLattice(n, depth)

	case graph.NodeFill:
		// Shared fills are data; lattices reach their universes.
		return nil

	default:
		return fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

func (w *walker) walkChildren(n *graph.Node, depth int) error {
	for _, child := range w.g.Children(n) {
		if err := w.walkNode(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// walkLattice places the universe of every cell in the lattice extent,
// translated by the cell's offset and transformed by the fill node. Without
// an extent every cell of the fill is placed.
func (w *walker) walkLattice(n *graph.Node, depth int) error {
	ld, ok := n.Data.(graph.LatticeData)
	if !ok || ld.Lattice == nil {
		return fmt.Errorf("lattice node %q has no lattice", n.DisplayName())
	}
	lat := ld.Lattice
	f := lat.Fill()

	visit := func(x, y, z int, fn fill.Node) error {
		u := w.g.Universe(fn.Universe)
		if u == nil {
			return fmt.Errorf("lattice %q cell (%d, %d, %d) places undefined universe %d", n.DisplayName(), x, y, z, fn.Universe)
		}
		return w.walkCell(u, lat.TxForNode(x, y, z), fn.Transform, fmt.Sprintf("[%d,%d,%d]", x, y, z), depth)
	}

	if !ld.HasExtent {
		var err error
		f.Each(func(x, y, z int, fn fill.Node) {
			if err == nil {
				err = visit(x, y, z, fn)
			}
		})
		return err
	}

	cells := ld.Extent
	for z := cells[2].First; z <= cells[2].Second; z++ {
		for y := cells[1].First; y <= cells[1].Second; y++ {
			for x := cells[0].First; x <= cells[0].Second; x++ {
				if f.HasGrid() && !f.Contains(x, y, z) {
					return fmt.Errorf("lattice %q cell (%d, %d, %d) is outside its fill", n.DisplayName(), x, y, z)
				}
				if err := visit(x, y, z, lat.FillForNode(x, y, z)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (w *walker) walkCell(u *graph.Node, cell geom.Transform, local *geom.Transform, suffix string, depth int) error {
	w.stack.push(cell)
	defer w.stack.pop()
	if local != nil {
		w.stack.push(*local)
		defer w.stack.pop()
	}
	w.suffix = append(w.suffix, suffix)
	defer func() { w.suffix = w.suffix[:len(w.suffix)-1] }()

	return w.walkNode(u, depth+1)
}
