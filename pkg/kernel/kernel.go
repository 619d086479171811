// Package kernel defines the abstract geometry kernel interface.
// The tessellator builds every placed primitive through this interface,
// so the solid-modeling backend can be swapped without touching the
// design graph or the lattice expansion.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Sphere(radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, axis [3]float64, angle float64) Solid // right-handed, degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
