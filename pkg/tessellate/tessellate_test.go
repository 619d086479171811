package tessellate_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/chazu/latticework/pkg/fill"
	"github.com/chazu/latticework/pkg/geom"
	"github.com/chazu/latticework/pkg/graph"
	"github.com/chazu/latticework/pkg/kernel"
	"github.com/chazu/latticework/pkg/kernel/sdfx"
	"github.com/chazu/latticework/pkg/lattice"
	"github.com/chazu/latticework/pkg/tessellate"
)

const pitch = 1.26

var (
	v1 = geom.Vector{X: pitch}
	v2 = geom.Vector{Y: pitch}
	v3 = geom.Vector{Z: 10}
)

// ---------------------------------------------------------------------------
// Recording kernel
// ---------------------------------------------------------------------------

// recSolid records the operations applied to it.
type recSolid struct {
	ops []string
}

func (s *recSolid) BoundingBox() (min, max [3]float64) { return min, max }

func (s *recSolid) with(op string) *recSolid {
	ops := append(append([]string(nil), s.ops...), op)
	return &recSolid{ops: ops}
}

// recKernel builds recSolids and keeps every solid passed to ToMesh.
type recKernel struct {
	meshed []*recSolid
}

func (k *recKernel) Box(x, y, z float64) kernel.Solid {
	return &recSolid{ops: []string{fmt.Sprintf("box %g %g %g", x, y, z)}}
}

func (k *recKernel) Cylinder(h, r float64, _ int) kernel.Solid {
	return &recSolid{ops: []string{fmt.Sprintf("cylinder %g %g", h, r)}}
}

func (k *recKernel) Sphere(r float64) kernel.Solid {
	return &recSolid{ops: []string{fmt.Sprintf("sphere %g", r)}}
}

func (k *recKernel) Union(a, b kernel.Solid) kernel.Solid        { return combine("union", a, b) }
func (k *recKernel) Difference(a, b kernel.Solid) kernel.Solid   { return combine("difference", a, b) }
func (k *recKernel) Intersection(a, b kernel.Solid) kernel.Solid { return combine("intersection", a, b) }

func combine(op string, a, b kernel.Solid) *recSolid {
	return &recSolid{ops: []string{fmt.Sprintf("%s(%s | %s)", op,
		strings.Join(a.(*recSolid).ops, ", "), strings.Join(b.(*recSolid).ops, ", "))}}
}

func (k *recKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return s.(*recSolid).with(fmt.Sprintf("translate %g %g %g", x, y, z))
}

func (k *recKernel) Rotate(s kernel.Solid, axis [3]float64, angle float64) kernel.Solid {
	return s.(*recSolid).with(fmt.Sprintf("rotate %g %g %g by %g", axis[0], axis[1], axis[2], angle))
}

func (k *recKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	k.meshed = append(k.meshed, s.(*recSolid))
	return &kernel.Mesh{Vertices: []float32{0, 0, 0}}, nil
}

var _ kernel.Kernel = (*recKernel)(nil)

// ---------------------------------------------------------------------------
// Graph builders
// ---------------------------------------------------------------------------

type builder struct {
	t *testing.T
	g *graph.DesignGraph
}

func newBuilder(t *testing.T) *builder {
	return &builder{t: t, g: graph.New()}
}

func (b *builder) primitive(name string, pd graph.PrimitiveData) graph.NodeID {
	id := graph.NewNodeID("primitive/" + name)
	b.g.AddNode(&graph.Node{ID: id, Kind: graph.NodePrimitive, Name: name, Data: pd})
	return id
}

func (b *builder) universe(n int, children ...graph.NodeID) graph.NodeID {
	id := graph.NewNodeID(fmt.Sprintf("universe/%d", n))
	b.g.AddNode(&graph.Node{ID: id, Kind: graph.NodeUniverse, Children: children, Data: graph.UniverseData{Number: n}})
	return id
}

func (b *builder) lattice(name string, ld graph.LatticeData) graph.NodeID {
	id := graph.NewNodeID("lattice/" + name)
	b.g.AddNode(&graph.Node{ID: id, Kind: graph.NodeLattice, Name: name, Data: ld})
	return id
}

func (b *builder) place(name string, tx geom.Transform, child graph.NodeID) graph.NodeID {
	id := graph.NewNodeID("transform/" + name)
	b.g.AddNode(&graph.Node{ID: id, Kind: graph.NodeTransform, Name: name, Children: []graph.NodeID{child}, Data: graph.TransformData{Transform: tx}})
	return id
}

func (b *builder) boolean(name string, bd graph.BooleanData, operands ...graph.NodeID) graph.NodeID {
	id := graph.NewNodeID("boolean/" + name)
	b.g.AddNode(&graph.Node{ID: id, Kind: graph.NodeBoolean, Name: name, Children: operands, Data: bd})
	return id
}

func (b *builder) root(children ...graph.NodeID) {
	id := graph.NewNodeID(fmt.Sprintf("group/root-%d", len(b.g.Roots)))
	b.g.AddNode(&graph.Node{ID: id, Kind: graph.NodeGroup, Children: children, Data: graph.GroupData{}})
	b.g.AddRoot(id)
}

func (b *builder) grid(x, y, z fill.Range, nodes ...fill.Node) *fill.Fill {
	b.t.Helper()
	f, err := fill.NewGrid(x, y, z, nodes)
	if err != nil {
		b.t.Fatalf("NewGrid: %v", err)
	}
	return &f
}

// pinCell adds universe 1 (fuel pin) and universe 2 (water).
func (b *builder) pinCell() {
	pin := b.primitive("pin", graph.PrimitiveData{Shape: graph.ShapeCylinder, Radius: 0.4, Height: 10, Material: graph.MaterialSpec{Name: "uo2"}})
	water := b.primitive("water", graph.PrimitiveData{Shape: graph.ShapeBox, Size: geom.Vector{X: pitch, Y: pitch, Z: 10}, Material: graph.MaterialSpec{Name: "water"}})
	b.universe(1, pin)
	b.universe(2, water)
}

func origins(ps []tessellate.Placement) []geom.Vector {
	out := make([]geom.Vector, len(ps))
	for i, p := range ps {
		out[i] = p.Apply(geom.Vector{})
	}
	return out
}

func names(ps []tessellate.Placement) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func assertNames(t *testing.T, ps []tessellate.Placement, want ...string) {
	t.Helper()
	got := names(ps)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("placements = %v, want %v", got, want)
	}
}

func assertOrigins(t *testing.T, ps []tessellate.Placement, want ...geom.Vector) {
	t.Helper()
	got := origins(ps)
	if len(got) != len(want) {
		t.Fatalf("got %d placements, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].ApproxEqual(want[i], 1e-9) {
			t.Errorf("placement %d (%s) origin = %s, want %s", i, ps[i].Name, got[i], want[i])
		}
	}
}

// ---------------------------------------------------------------------------
// Placement
// ---------------------------------------------------------------------------

func TestEmptyGraph(t *testing.T) {
	ps, err := tessellate.Place(graph.New(), tessellate.Options{})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if len(ps) != 0 {
		t.Errorf("expected no placements, got %d", len(ps))
	}

	meshes, err := tessellate.Tessellate(nil, &recKernel{}, tessellate.Options{})
	if err != nil || meshes != nil {
		t.Errorf("nil graph: meshes=%v err=%v", meshes, err)
	}
}

func TestPlaceGriddedLattice(t *testing.T) {
	b := newBuilder(t)
	b.pinCell()
	f := b.grid(fill.Range{First: 0, Second: 1}, fill.Range{First: 0, Second: 1}, fill.Range{},
		fill.Node{Universe: 1}, fill.Node{Universe: 2}, fill.Node{Universe: 2}, fill.Node{Universe: 1})
	b.root(b.lattice("core", graph.LatticeData{Lattice: lattice.NewWithFill(2, v1, v2, v3, f)}))

	ps, err := tessellate.Place(b.g, tessellate.Options{})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	assertNames(t, ps, "pin[0,0,0]", "water[1,0,0]", "water[0,1,0]", "pin[1,1,0]")
	assertOrigins(t, ps,
		geom.Vector{},
		geom.Vector{X: pitch},
		geom.Vector{Y: pitch},
		geom.Vector{X: pitch, Y: pitch},
	)
}

func TestPlaceNegativeGridRange(t *testing.T) {
	b := newBuilder(t)
	b.pinCell()
	f := b.grid(fill.Range{First: -1, Second: 1}, fill.Range{}, fill.Range{},
		fill.Node{Universe: 2}, fill.Node{Universe: 1}, fill.Node{Universe: 2})
	b.root(b.lattice("row", graph.LatticeData{Lattice: lattice.NewWithFill(1, v1, v2, v3, f)}))

	ps, err := tessellate.Place(b.g, tessellate.Options{})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	assertNames(t, ps, "water[-1,0,0]", "pin[0,0,0]", "water[1,0,0]")
	assertOrigins(t, ps, geom.Vector{X: -pitch}, geom.Vector{}, geom.Vector{X: pitch})
}

func TestPlaceExtentOverSingleFill(t *testing.T) {
	b := newBuilder(t)
	b.pinCell()
	b.root(b.lattice("row", graph.LatticeData{
		Lattice:   lattice.New(1, v1, v2, v3, fill.Node{Universe: 1}),
		Extent:    [3]fill.Range{{First: -1, Second: 1}, {}, {}},
		HasExtent: true,
	}))

	ps, err := tessellate.Place(b.g, tessellate.Options{})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	assertNames(t, ps, "pin[-1,0,0]", "pin[0,0,0]", "pin[1,0,0]")
	assertOrigins(t, ps, geom.Vector{X: -pitch}, geom.Vector{}, geom.Vector{X: pitch})
}

func TestPlaceInactiveDimensionStacks(t *testing.T) {
	// A 1D lattice ignores y: every row lands on the same cells.
	b := newBuilder(t)
	b.pinCell()
	b.root(b.lattice("row", graph.LatticeData{
		Lattice:   lattice.New(1, v1, v2, v3, fill.Node{Universe: 1}),
		Extent:    [3]fill.Range{{}, {First: 0, Second: 1}, {}},
		HasExtent: true,
	}))

	ps, err := tessellate.Place(b.g, tessellate.Options{})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	assertOrigins(t, ps, geom.Vector{}, geom.Vector{})
}

func TestPlaceFillNodeTransform(t *testing.T) {
	quarter := geom.Transform{Translation: geom.Vector{Z: 5}, HasRotation: true, Axis: geom.Vector{Z: 1}, Angle: 90}
	b := newBuilder(t)
	b.pinCell()
	f := b.grid(fill.Range{First: 0, Second: 1}, fill.Range{}, fill.Range{},
		fill.Node{Universe: 1}, fill.Node{Universe: 1, Transform: &quarter})
	b.root(b.lattice("row", graph.LatticeData{Lattice: lattice.NewWithFill(1, v1, v2, v3, f)}))

	ps, err := tessellate.Place(b.g, tessellate.Options{})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(ps))
	}
	if n := len(ps[0].Transforms); n != 0 {
		t.Errorf("origin cell should carry no transforms, got %d", n)
	}
	if n := len(ps[1].Transforms); n != 2 {
		t.Fatalf("rotated cell should carry cell and fill transforms, got %d", n)
	}

	// The fill transform acts inside the cell: (1,0,0) turns to (0,1,0),
	// lifts by 5, then moves to the cell.
	got := ps[1].Apply(geom.Vector{X: 1})
	want := geom.Vector{X: pitch, Y: 1, Z: 5}
	if !got.ApproxEqual(want, 1e-9) {
		t.Errorf("Apply((1,0,0)) = %s, want %s", got, want)
	}
}

func TestPlaceTransformNode(t *testing.T) {
	b := newBuilder(t)
	b.pinCell()
	core := b.lattice("core", graph.LatticeData{Lattice: lattice.New(1, v1, v2, v3, fill.Node{Universe: 2})})
	b.root(core, b.place("upper", geom.NewTranslation(geom.Vector{Z: 20}), core))

	ps, err := tessellate.Place(b.g, tessellate.Options{})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	assertNames(t, ps, "water[0,0,0]", "water[0,0,0]")
	assertOrigins(t, ps, geom.Vector{}, geom.Vector{Z: 20})
}

func TestPlaceNestedLattices(t *testing.T) {
	b := newBuilder(t)
	b.pinCell()
	inner := b.lattice("assembly", graph.LatticeData{
		Lattice:   lattice.New(1, v1, v2, v3, fill.Node{Universe: 1}),
		Extent:    [3]fill.Range{{First: 0, Second: 1}, {}, {}},
		HasExtent: true,
	})
	b.universe(3, inner)
	b.root(b.lattice("core", graph.LatticeData{
		Lattice:   lattice.New(2, geom.Vector{X: 10}, geom.Vector{Y: 10}, v3, fill.Node{Universe: 3}),
		Extent:    [3]fill.Range{{}, {First: 0, Second: 1}, {}},
		HasExtent: true,
	}))

	ps, err := tessellate.Place(b.g, tessellate.Options{})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	assertNames(t, ps, "pin[0,0,0][0,0,0]", "pin[0,0,0][1,0,0]", "pin[0,1,0][0,0,0]", "pin[0,1,0][1,0,0]")
	assertOrigins(t, ps,
		geom.Vector{},
		geom.Vector{X: pitch},
		geom.Vector{Y: 10},
		geom.Vector{X: pitch, Y: 10},
	)
}

func TestPlaceErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *builder)
		want  string
	}{
		{
			name: "undefined universe",
			build: func(b *builder) {
				b.root(b.lattice("core", graph.LatticeData{Lattice: lattice.New(1, v1, v2, v3, fill.Node{Universe: 9})}))
			},
			want: "undefined universe 9",
		},
		{
			name: "extent outside grid",
			build: func(b *builder) {
				b.pinCell()
				f := b.grid(fill.Range{}, fill.Range{}, fill.Range{}, fill.Node{Universe: 1})
				b.root(b.lattice("core", graph.LatticeData{
					Lattice:   lattice.NewWithFill(1, v1, v2, v3, f),
					Extent:    [3]fill.Range{{First: 0, Second: 1}, {}, {}},
					HasExtent: true,
				}))
			},
			want: "cell (1, 0, 0) is outside its fill",
		},
		{
			name: "universe cycle",
			build: func(b *builder) {
				self := b.lattice("self", graph.LatticeData{Lattice: lattice.New(1, v1, v2, v3, fill.Node{Universe: 4})})
				b.universe(4, self)
				b.root(self)
			},
			want: "nesting deeper than",
		},
		{
			name: "nil lattice",
			build: func(b *builder) {
				b.root(b.lattice("empty", graph.LatticeData{}))
			},
			want: "has no lattice",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuilder(t)
			tt.build(b)
			_, err := tessellate.Place(b.g, tessellate.Options{MaxDepth: 8})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestMaxDepthOption(t *testing.T) {
	b := newBuilder(t)
	b.pinCell()
	inner := b.lattice("inner", graph.LatticeData{Lattice: lattice.New(1, v1, v2, v3, fill.Node{Universe: 1})})
	b.universe(3, inner)
	b.root(b.lattice("outer", graph.LatticeData{Lattice: lattice.New(1, v1, v2, v3, fill.Node{Universe: 3})}))

	// root -> outer -> u3 -> inner -> u1 -> pin
	if _, err := tessellate.Place(b.g, tessellate.Options{MaxDepth: 5}); err != nil {
		t.Errorf("depth 5 should suffice: %v", err)
	}
	if _, err := tessellate.Place(b.g, tessellate.Options{MaxDepth: 4}); err == nil {
		t.Error("depth 4 should be exceeded")
	}
}

// ---------------------------------------------------------------------------
// Meshing
// ---------------------------------------------------------------------------

func TestTessellateAppliesInnermostFirst(t *testing.T) {
	quarter := geom.Transform{Translation: geom.Vector{Z: 5}, HasRotation: true, Axis: geom.Vector{Z: 1}, Angle: 90}
	b := newBuilder(t)
	b.pinCell()
	f := b.grid(fill.Range{First: 0, Second: 1}, fill.Range{}, fill.Range{},
		fill.Node{Universe: 2}, fill.Node{Universe: 1, Transform: &quarter})
	b.root(b.lattice("row", graph.LatticeData{Lattice: lattice.NewWithFill(1, v1, v2, v3, f)}))

	k := &recKernel{}
	meshes, err := tessellate.Tessellate(b.g, k, tessellate.Options{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 2 || len(k.meshed) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	if meshes[0].Name != "water[0,0,0]" || meshes[0].Material != "water" {
		t.Errorf("mesh 0 = %q (%q)", meshes[0].Name, meshes[0].Material)
	}
	if meshes[1].Name != "pin[1,0,0]" || meshes[1].Material != "uo2" {
		t.Errorf("mesh 1 = %q (%q)", meshes[1].Name, meshes[1].Material)
	}

	if got := strings.Join(k.meshed[0].ops, "; "); got != "box 1.26 1.26 10" {
		t.Errorf("origin cell ops = %q", got)
	}
	want := "cylinder 10 0.4; rotate 0 0 1 by 90; translate 0 0 5; translate 1.26 0 0"
	if got := strings.Join(k.meshed[1].ops, "; "); got != want {
		t.Errorf("rotated cell ops = %q, want %q", got, want)
	}
}

func TestTessellateWithSdfx(t *testing.T) {
	b := newBuilder(t)
	b.pinCell()
	b.root(b.lattice("row", graph.LatticeData{
		Lattice:   lattice.New(1, v1, v2, v3, fill.Node{Universe: 2}),
		Extent:    [3]fill.Range{{First: 0, Second: 1}, {}, {}},
		HasExtent: true,
	}))

	meshes, err := tessellate.Tessellate(b.g, sdfx.NewWithCells(30), tessellate.Options{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	for _, m := range meshes {
		if m.IsEmpty() || m.TriangleCount() == 0 {
			t.Errorf("mesh %s is empty", m.Name)
		}
	}

	// The second water box starts one pitch along x.
	min, max := meshes[1].Bounds()
	const tol = 0.35
	if abs(min[0]-pitch) > tol || abs(max[0]-2*pitch) > tol {
		t.Errorf("second cell x bounds = [%f, %f], want about [%f, %f]", min[0], max[0], pitch, 2*pitch)
	}
}

func TestMeshRejectsNonSolid(t *testing.T) {
	n := &graph.Node{ID: graph.NewNodeID("group/x"), Kind: graph.NodeGroup, Data: graph.GroupData{}}
	if _, err := tessellate.Mesh(graph.New(), &recKernel{}, tessellate.Placement{Name: "x", Node: n}); err == nil {
		t.Error("expected error for non-solid placement")
	}
}

// ---------------------------------------------------------------------------
// Booleans
// ---------------------------------------------------------------------------

func TestBooleanIsOnePlacement(t *testing.T) {
	b := newBuilder(t)
	clad := graph.MaterialSpec{Name: "zirc"}
	outer := b.primitive("outer", graph.PrimitiveData{Shape: graph.ShapeCylinder, Radius: 0.5, Height: 10, Material: clad})
	inner := b.primitive("inner", graph.PrimitiveData{Shape: graph.ShapeCylinder, Radius: 0.4, Height: 10})
	tube := b.boolean("tube", graph.BooleanData{Op: graph.BooleanDifference}, outer, inner)
	b.universe(1, tube)
	b.root(b.lattice("row", graph.LatticeData{
		Lattice:   lattice.New(1, v1, v2, v3, fill.Node{Universe: 1}),
		Extent:    [3]fill.Range{{First: 0, Second: 1}, {}, {}},
		HasExtent: true,
	}))

	k := &recKernel{}
	meshes, err := tessellate.Tessellate(b.g, k, tessellate.Options{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected one mesh per cell, got %d", len(meshes))
	}
	if meshes[0].Name != "tube[0,0,0]" || meshes[1].Name != "tube[1,0,0]" {
		t.Errorf("mesh names = %s, %s", meshes[0].Name, meshes[1].Name)
	}
	if meshes[0].Material != "zirc" {
		t.Errorf("material = %q, want the first operand's", meshes[0].Material)
	}

	want := "difference(cylinder 10 0.5 | cylinder 10 0.4); translate 1.26 0 0"
	if got := strings.Join(k.meshed[1].ops, "; "); got != want {
		t.Errorf("second cell ops = %q, want %q", got, want)
	}
}

func TestBooleanFoldsOperandsInOrder(t *testing.T) {
	tests := []struct {
		op   graph.BooleanOp
		want string
	}{
		{graph.BooleanUnion, "union(union(sphere 1 | box 1 1 1) | sphere 2, translate 0 0 3)"},
		{graph.BooleanDifference, "difference(difference(sphere 1 | box 1 1 1) | sphere 2, translate 0 0 3)"},
		{graph.BooleanIntersection, "intersection(intersection(sphere 1 | box 1 1 1) | sphere 2, translate 0 0 3)"},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			b := newBuilder(t)
			a := b.primitive("a", graph.PrimitiveData{Shape: graph.ShapeSphere, Radius: 1, Material: graph.MaterialSpec{Name: "steel"}})
			c := b.primitive("c", graph.PrimitiveData{Shape: graph.ShapeBox, Size: geom.Vector{X: 1, Y: 1, Z: 1}})
			d := b.primitive("d", graph.PrimitiveData{Shape: graph.ShapeSphere, Radius: 2})
			raised := b.place("raised", geom.NewTranslation(geom.Vector{Z: 3}), d)
			b.root(b.boolean("combo", graph.BooleanData{Op: tt.op, Material: graph.MaterialSpec{Name: "mix"}}, a, c, raised))

			k := &recKernel{}
			meshes, err := tessellate.Tessellate(b.g, k, tessellate.Options{})
			if err != nil {
				t.Fatalf("Tessellate failed: %v", err)
			}
			if len(meshes) != 1 {
				t.Fatalf("expected 1 mesh, got %d", len(meshes))
			}
			if meshes[0].Material != "mix" {
				t.Errorf("material = %q, want mix", meshes[0].Material)
			}
			if got := strings.Join(k.meshed[0].ops, "; "); got != tt.want {
				t.Errorf("ops = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBooleanRejectsBadOperands(t *testing.T) {
	b := newBuilder(t)
	b.pinCell()
	a := b.primitive("a", graph.PrimitiveData{Shape: graph.ShapeSphere, Radius: 1})
	lonely := b.boolean("lonely", graph.BooleanData{}, a)
	withUniverse := b.boolean("with-universe", graph.BooleanData{}, a, b.g.Universe(1).ID)

	for _, id := range []graph.NodeID{lonely, withUniverse} {
		n := b.g.Get(id)
		if _, err := tessellate.Mesh(b.g, &recKernel{}, tessellate.Placement{Name: n.Name, Node: n}); err == nil {
			t.Errorf("%s: expected an error", n.Name)
		}
	}
}

func TestBooleanWithSdfx(t *testing.T) {
	b := newBuilder(t)
	box := b.primitive("block", graph.PrimitiveData{Shape: graph.ShapeBox, Size: geom.Vector{X: 2, Y: 2, Z: 2}, Material: graph.MaterialSpec{Name: "steel"}})
	ball := b.primitive("ball", graph.PrimitiveData{Shape: graph.ShapeSphere, Radius: 1})
	far := b.place("far", geom.NewTranslation(geom.Vector{X: 4, Y: 1, Z: 1}), ball)
	b.root(b.boolean("pair", graph.BooleanData{Op: graph.BooleanUnion}, box, far))

	meshes, err := tessellate.Tessellate(b.g, sdfx.NewWithCells(30), tessellate.Options{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 1 || meshes[0].IsEmpty() {
		t.Fatalf("expected one non-empty mesh, got %d", len(meshes))
	}
	min, max := meshes[0].Bounds()
	const tol = 0.35
	if abs(min[0]) > tol || abs(max[0]-5) > tol {
		t.Errorf("union x bounds = [%f, %f], want about [0, 5]", min[0], max[0])
	}
}

func TestLatticeWithoutExtentPlacesEveryFillCell(t *testing.T) {
	b := newBuilder(t)
	b.pinCell()
	f := b.grid(fill.Range{First: -1, Second: 0}, fill.Range{}, fill.Range{First: 0, Second: 1},
		fill.Node{Universe: 1}, fill.Node{Universe: 2}, fill.Node{Universe: 2}, fill.Node{Universe: 3})
	b.root(b.lattice("stack", graph.LatticeData{Lattice: lattice.NewWithFill(3, v1, v2, v3, f)}))

	_, err := tessellate.Place(b.g, tessellate.Options{})
	if err == nil || !strings.Contains(err.Error(), "cell (0, 0, 1) places undefined universe 3") {
		t.Fatalf("expected the last cell to fail, got %v", err)
	}

	b.universe(3, b.primitive("plug", graph.PrimitiveData{Shape: graph.ShapeSphere, Radius: 0.2}))
	ps, err := tessellate.Place(b.g, tessellate.Options{})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	assertNames(t, ps, "pin[-1,0,0]", "water[0,0,0]", "water[-1,0,1]", "plug[0,0,1]")
	assertOrigins(t, ps,
		geom.Vector{X: -pitch}, geom.Vector{}, geom.Vector{X: -pitch, Z: 10}, geom.Vector{Z: 10})
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
