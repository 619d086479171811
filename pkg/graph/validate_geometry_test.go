package graph

import (
	"strings"
	"testing"

	"github.com/chazu/latticework/pkg/fill"
	"github.com/chazu/latticework/pkg/geom"
	"github.com/chazu/latticework/pkg/lattice"
)

// ---------------------------------------------------------------------------
// Test helpers for ValidationResult
// ---------------------------------------------------------------------------

// resultHasError returns true if result.Errors contains at least one entry
// whose Message contains substr.
func resultHasError(r ValidationResult, substr string) bool {
	for _, e := range r.Errors {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// resultHasWarning returns true if result.Warnings contains at least one entry
// whose Message contains substr.
func resultHasWarning(r ValidationResult, substr string) bool {
	for _, w := range r.Warnings {
		if strings.Contains(w.Message, substr) {
			return true
		}
	}
	return false
}

func singlePrimitive(pd PrimitiveData) *DesignGraph {
	g := New()
	id := addPrimitive(g, "part", pd)
	addGroup(g, "root", id)
	return g
}

// ---------------------------------------------------------------------------
// Tier 2: Geometric validation tests
// ---------------------------------------------------------------------------

func TestValidateAll_PrimitiveDimensions(t *testing.T) {
	water := MaterialSpec{Name: "water", Density: 1}
	tests := []struct {
		name string
		pd   PrimitiveData
		want []string
	}{
		{
			name: "zero box side",
			pd:   PrimitiveData{Shape: ShapeBox, Size: geom.Vector{X: 0, Y: 2, Z: 3}, Material: water},
			want: []string{"box dimension X is 0.0000"},
		},
		{
			name: "negative box sides",
			pd:   PrimitiveData{Shape: ShapeBox, Size: geom.Vector{X: 1, Y: -2, Z: -3}, Material: water},
			want: []string{"dimension Y is -2.0000", "dimension Z is -3.0000"},
		},
		{
			name: "flat cylinder",
			pd:   PrimitiveData{Shape: ShapeCylinder, Radius: 0.5, Material: water},
			want: []string{"cylinder dimension height is 0.0000"},
		},
		{
			name: "sphere without radius",
			pd:   PrimitiveData{Shape: ShapeSphere, Material: water},
			want: []string{"sphere dimension radius"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAll(singlePrimitive(tt.pd))
			if len(result.Errors) != len(tt.want) {
				t.Errorf("got %d errors, want %d", len(result.Errors), len(tt.want))
			}
			for _, w := range tt.want {
				if !resultHasError(result, w) {
					t.Errorf("expected error containing %q", w)
				}
			}
			if result.OK() {
				t.Error("result should not be OK")
			}
		})
	}
}

func TestValidateAll_ValidPrimitives(t *testing.T) {
	uo2 := MaterialSpec{Name: "uo2", Density: 10.4}
	for _, pd := range []PrimitiveData{
		{Shape: ShapeBox, Size: geom.Vector{X: 1, Y: 1, Z: 1}, Material: uo2},
		{Shape: ShapeCylinder, Radius: 0.4, Height: 10, Material: uo2},
		{Shape: ShapeSphere, Radius: 0.05, Material: uo2},
	} {
		result := ValidateAll(singlePrimitive(pd))
		if !result.OK() || len(result.Warnings) != 0 {
			t.Errorf("%s: errors=%v warnings=%v", pd.Shape, result.Errors, result.Warnings)
		}
	}
}

func TestValidateAll_Material(t *testing.T) {
	result := ValidateAll(singlePrimitive(PrimitiveData{Shape: ShapeSphere, Radius: 1}))
	if !resultHasWarning(result, `"part" has no material`) {
		t.Error("expected missing material warning")
	}
	if !result.OK() {
		t.Errorf("missing material should not block: %v", result.Errors)
	}

	result = ValidateAll(singlePrimitive(PrimitiveData{
		Shape: ShapeSphere, Radius: 1, Material: MaterialSpec{Name: "void", Density: -1},
	}))
	if !resultHasWarning(result, "negative density") {
		t.Error("expected negative density warning")
	}
}

func TestValidateAll_FillWithoutOrigin(t *testing.T) {
	g := pinAssembly(t)
	f, err := fill.NewGrid(fill.Range{First: 1, Second: 2}, fill.Range{First: 1, Second: 1}, fill.Range{},
		[]fill.Node{{Universe: 1}, {Universe: 2}})
	if err != nil {
		t.Fatal(err)
	}
	id := addSharedFill(g, "offset-map", &f)
	lat := addLattice(g, "offset", LatticeData{
		Lattice: lattice.NewWithFill(2, unitX, unitY, unitZ, &f),
		FillRef: id,
	})
	addGroup(g, "offset-root", lat)

	result := ValidateAll(g)
	if !resultHasWarning(result, `fill of "offset-map" (1:2 1:1 0:0) does not contain the origin cell`) {
		t.Error("expected origin warning on the shared fill")
		for _, w := range result.Warnings {
			t.Logf("  warning: %s", w.Message)
		}
	}
	if resultHasWarning(result, `fill of "offset" `) {
		t.Error("borrowing lattice should not repeat the fill warning")
	}
	if !result.OK() {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestValidateAll_LatticeBasis(t *testing.T) {
	g := pinAssembly(t)
	core := g.MustLookup("core")
	ld := core.Data.(LatticeData)
	f := ld.Lattice.Fill()
	ld.Lattice = lattice.NewWithFill(2, unitX, geom.Vector{}, unitZ, f)
	core.Data = ld

	result := ValidateAll(g)
	if !resultHasWarning(result, `lattice "core" basis v2 is zero`) {
		t.Error("expected zero basis warning")
	}
}

func TestValidateAll_ExtentOnInactiveDimension(t *testing.T) {
	g := New()
	pin := addPrimitive(g, "pin", PrimitiveData{Shape: ShapeSphere, Radius: 0.4, Material: MaterialSpec{Name: "uo2"}})
	addUniverse(g, 1, pin)
	lat := addLattice(g, "row", LatticeData{
		Lattice:   lattice.New(1, unitX, unitY, unitZ, fill.Node{Universe: 1}),
		Extent:    [3]fill.Range{{First: 0, Second: 4}, {First: 0, Second: 2}, {}},
		HasExtent: true,
	})
	addGroup(g, "root", lat)

	result := ValidateAll(g)
	if !resultHasWarning(result, `lattice "row" has 1 dimensions but its y extent 0:2 spans 3 cells`) {
		t.Error("expected overlap warning")
		for _, w := range result.Warnings {
			t.Logf("  warning: %s", w.Message)
		}
	}
	if resultHasWarning(result, "x extent") {
		t.Error("active x extent should not warn")
	}
}

func TestValidateAll_ValidGraph(t *testing.T) {
	result := ValidateAll(pinAssembly(t))
	if !result.OK() {
		for _, e := range result.Errors {
			t.Errorf("unexpected error: %s", e.Message)
		}
	}
	for _, w := range result.Warnings {
		t.Errorf("unexpected warning: %s", w.Message)
	}
}

func TestValidateAll_EmptyGraph(t *testing.T) {
	result := ValidateAll(New())
	if !result.OK() || len(result.Warnings) != 0 {
		t.Errorf("empty graph: errors=%v warnings=%v", result.Errors, result.Warnings)
	}
}

func TestValidateAll_OrphanBecomesWarning(t *testing.T) {
	g := pinAssembly(t)
	addPrimitive(g, "stray", PrimitiveData{Shape: ShapeSphere, Radius: 1, Material: MaterialSpec{Name: "he"}})

	result := ValidateAll(g)
	if !result.OK() {
		t.Errorf("orphan should not block: %v", result.Errors)
	}
	if !resultHasWarning(result, "orphan") {
		t.Error("expected orphan warning")
	}
}
