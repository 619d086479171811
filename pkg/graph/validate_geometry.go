package graph

import (
	"fmt"

	"github.com/chazu/latticework/pkg/fill"
)

// ---------------------------------------------------------------------------
// Tier 2: Geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(g *DesignGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validatePrimitiveDimensions(g)...)

	warnings = append(warnings, validateFillOrigins(g)...)
	warnings = append(warnings, validateLatticeBasis(g)...)
	warnings = append(warnings, validateMaterial(g)...)

	return errs, warnings
}

type namedDim struct {
	name  string
	value float64
}

// validatePrimitiveDimensions checks that every primitive has positive
// dimensions for its shape.
func validatePrimitiveDimensions(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Primitives() {
		pd, ok := node.Data.(PrimitiveData)
		if !ok {
			continue
		}

		var dims []namedDim
		switch pd.Shape {
		case ShapeBox:
			dims = []namedDim{{"X", pd.Size.X}, {"Y", pd.Size.Y}, {"Z", pd.Size.Z}}
		case ShapeCylinder:
			dims = []namedDim{{"radius", pd.Radius}, {"height", pd.Height}}
		case ShapeSphere:
			dims = []namedDim{{"radius", pd.Radius}}
		}

		for _, d := range dims {
			if d.value <= 0 {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("%s dimension %s is %.4f, must be positive", pd.Shape, d.name, d.value),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// validateFillOrigins warns about gridded fills whose ranges exclude the
// origin cell: their origin node is undefined.
func validateFillOrigins(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning

	check := func(node *Node, f *fill.Fill) {
		if f == nil || !f.HasGrid() || f.HasOrigin() {
			return
		}
		x, y, z := f.Ranges()
		warnings = append(warnings, ValidationWarning{
			NodeID:  node.ID,
			Message: fmt.Sprintf("fill of %q (%s %s %s) does not contain the origin cell", node.DisplayName(), x, y, z),
		})
	}

	for _, node := range g.Fills() {
		if d, ok := node.Data.(FillData); ok {
			check(node, d.Fill)
		}
	}
	for _, node := range g.Lattices() {
		if d, ok := node.Data.(LatticeData); ok && d.Lattice != nil && d.FillRef.IsZero() {
			check(node, d.Lattice.Fill())
		}
	}

	return warnings
}

// validateLatticeBasis warns about zero basis vectors on active directions
// (every cell lands in the same place) and about extents that span
// directions the lattice ignores (cells are placed on top of each other).
func validateLatticeBasis(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.Lattices() {
		d, ok := node.Data.(LatticeData)
		if !ok || d.Lattice == nil {
			continue
		}
		v1, v2, v3 := d.Lattice.Basis()
		basis := [3]struct {
			name string
			zero bool
		}{{"v1", v1.IsZero()}, {"v2", v2.IsZero()}, {"v3", v3.IsZero()}}

		dims := d.Lattice.Dims()
		cells := d.Cells()
		axes := [3]string{"x", "y", "z"}
		for i := 0; i < 3; i++ {
			if i < dims {
				if basis[i].zero {
					warnings = append(warnings, ValidationWarning{
						NodeID:  node.ID,
						Message: fmt.Sprintf("lattice %q basis %s is zero", node.DisplayName(), basis[i].name),
					})
				}
				continue
			}
			if cells[i].Size() > 1 {
				warnings = append(warnings, ValidationWarning{
					NodeID: node.ID,
					Message: fmt.Sprintf("lattice %q has %d dimensions but its %s extent %s spans %d cells; they overlap",
						node.DisplayName(), dims, axes[i], cells[i], cells[i].Size()),
				})
			}
		}
	}

	return warnings
}

// validateMaterial warns about primitives without a material or with a
// negative density.
func validateMaterial(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.Primitives() {
		pd, ok := node.Data.(PrimitiveData)
		if !ok {
			continue
		}
		if pd.Material.Name == "" {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("primitive %q has no material", node.DisplayName()),
			})
			continue
		}
		if pd.Material.Density < 0 {
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("primitive %q material %q has negative density %.4f", node.DisplayName(), pd.Material.Name, pd.Material.Density),
			})
		}
	}

	return warnings
}
