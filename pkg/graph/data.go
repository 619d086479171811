package graph

import (
	"github.com/chazu/latticework/pkg/fill"
	"github.com/chazu/latticework/pkg/geom"
	"github.com/chazu/latticework/pkg/lattice"
)

// ---------------------------------------------------------------------------
// Material
// ---------------------------------------------------------------------------

// MaterialSpec describes the material filling a primitive. Advisory only.
type MaterialSpec struct {
	Name    string  `json:"name,omitempty"`    // e.g. "uo2", "water"
	Density float64 `json:"density,omitempty"` // g/cm³
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// ShapeKind distinguishes between primitive shapes.
type ShapeKind int

const (
	ShapeBox      ShapeKind = iota // rectangular solid, min corner at the origin
	ShapeCylinder                  // z-axis cylinder centered at the origin
	ShapeSphere                    // sphere centered at the origin
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	case ShapeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// PrimitiveData is a solid primitive. Size is used by boxes; Radius by
// cylinders and spheres; Height by cylinders.
type PrimitiveData struct {
	Shape    ShapeKind    `json:"shape"`
	Size     geom.Vector  `json:"size,omitzero"`
	Radius   float64      `json:"radius,omitempty"`
	Height   float64      `json:"height,omitempty"`
	Material MaterialSpec `json:"material"`
}

func (PrimitiveData) nodeData() {}

// ---------------------------------------------------------------------------
// Boolean
// ---------------------------------------------------------------------------

// BooleanOp is the set operation a boolean node applies to its operands.
type BooleanOp int

const (
	BooleanUnion        BooleanOp = iota // every point in any operand
	BooleanDifference                    // first operand minus the rest
	BooleanIntersection                  // points in every operand
)

func (op BooleanOp) String() string {
	switch op {
	case BooleanUnion:
		return "union"
	case BooleanDifference:
		return "difference"
	case BooleanIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// BooleanData combines its children into one solid. The children are the
// operands, in order; each is a primitive, another boolean, or a placement
// of one. An empty Material means the first operand's material.
type BooleanData struct {
	Op       BooleanOp    `json:"op"`
	Material MaterialSpec `json:"material"`
}

func (BooleanData) nodeData() {}

// ---------------------------------------------------------------------------
// Universe
// ---------------------------------------------------------------------------

// UniverseData marks a numbered universe. Its children are the content
// placed wherever a fill node names the universe.
type UniverseData struct {
	Number int `json:"number"`
}

func (UniverseData) nodeData() {}

// ---------------------------------------------------------------------------
// Fill
// ---------------------------------------------------------------------------

// FillData is a fill owned by the graph. Lattices created with a reference
// to it borrow the fill rather than copying it.
type FillData struct {
	Fill *fill.Fill `json:"-"`
}

func (FillData) nodeData() {}

// ---------------------------------------------------------------------------
// Lattice
// ---------------------------------------------------------------------------

// LatticeData holds a lattice and the cells to expand when placing it.
type LatticeData struct {
	Lattice *lattice.Lattice `json:"-"`
	// FillRef names the NodeFill the lattice borrows its fill from; zero
	// when the lattice owns its fill.
	FillRef NodeID `json:"fill_ref,omitempty"`
	// Extent is the x, y, z cell range to expand. When HasExtent is false
	// the gridded fill's ranges are used, or the single origin cell.
	Extent    [3]fill.Range `json:"extent"`
	HasExtent bool          `json:"has_extent"`
}

func (LatticeData) nodeData() {}

// Cells returns the x, y, z cell ranges to expand.
func (d LatticeData) Cells() [3]fill.Range {
	if d.HasExtent {
		return d.Extent
	}
	if d.Lattice != nil {
		if f := d.Lattice.Fill(); f.HasGrid() {
			x, y, z := f.Ranges()
			return [3]fill.Range{x, y, z}
		}
	}
	return [3]fill.Range{}
}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData places its children with a transform.
// Created by the (place ...) Lisp form.
type TransformData struct {
	Transform geom.Transform `json:"transform"`
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping.
// Created by the (assembly ...) Lisp form.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
