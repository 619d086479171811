// Package lattice repeats fill content along up to three basis vectors.
// Each integer cell (x, y, z) resolves to a translation and to the fill
// node placed in that cell.
package lattice

import (
	"fmt"

	"github.com/chazu/latticework/pkg/fill"
	"github.com/chazu/latticework/pkg/geom"
)

// MaxDims is the largest number of finite lattice directions.
const MaxDims = 3

// Lattice is a 1-, 2- or 3-dimensional repeating arrangement of fill
// content. Copy a Lattice with Clone, never by dereferencing.
type Lattice struct {
	dims       int
	v1, v2, v3 geom.Vector
	fill       Holder
}

// New returns a lattice that owns a single-node fill: every cell holds
// node.
func New(dims int, v1, v2, v3 geom.Vector, node fill.Node) *Lattice {
	return NewWithHolder(dims, v1, v2, v3, Own(fill.NewSingle(node)))
}

// NewWithFill returns a lattice that references f. f is not copied and
// must outlive the lattice and all of its clones.
func NewWithFill(dims int, v1, v2, v3 geom.Vector, f *fill.Fill) *Lattice {
	return NewWithHolder(dims, v1, v2, v3, Borrow(f))
}

// NewWithHolder returns a lattice using the given fill holder. It panics if
// dims is not 1, 2 or 3.
func NewWithHolder(dims int, v1, v2, v3 geom.Vector, h Holder) *Lattice {
	if dims < 1 || dims > MaxDims {
		panic(fmt.Sprintf("lattice: %d finite dimensions, want 1..%d", dims, MaxDims))
	}
	return &Lattice{dims: dims, v1: v1, v2: v2, v3: v3, fill: h}
}

// Clone returns an independent copy. An owned fill is deep-copied; a
// referenced fill is shared with the original.
func (l *Lattice) Clone() *Lattice {
	c := *l
	c.fill = l.fill.Clone()
	return &c
}

// Dims returns the number of finite lattice directions.
func (l *Lattice) Dims() int { return l.dims }

// Basis returns the three basis vectors.
func (l *Lattice) Basis() (v1, v2, v3 geom.Vector) { return l.v1, l.v2, l.v3 }

// Fill returns the held fill.
func (l *Lattice) Fill() *fill.Fill { return l.fill.Data() }

// Owned reports whether the lattice owns its fill.
func (l *Lattice) Owned() bool { return l.fill.Owned() }

// TxForNode returns the translation of cell (x, y, z). Coordinates along
// inactive directions are ignored: a 2-dimensional lattice ignores z.
func (l *Lattice) TxForNode(x, y, z int) geom.Transform {
	var v geom.Vector
	if l.dims >= 3 {
		v = l.v3.Mul(float64(z))
	}
	if l.dims >= 2 {
		v = v.Add(l.v2.Mul(float64(y)))
	}
	if l.dims >= 1 {
		v = v.Add(l.v1.Mul(float64(x)))
	}
	return geom.NewTranslation(v)
}

// FillForNode returns the fill node for cell (x, y, z). A non-gridded fill
// yields its single node for every cell.
func (l *Lattice) FillForNode(x, y, z int) fill.Node {
	f := l.fill.Data()
	if f.HasGrid() {
		return f.Node(x, y, z)
	}
	return f.OriginNode()
}

func (l *Lattice) String() string {
	kind := "referenced"
	if l.Owned() {
		kind = "owned"
	}
	return fmt.Sprintf("lattice %dd %s %s %s (%s %s)", l.dims, l.v1, l.v2, l.v3, kind, l.Fill())
}
