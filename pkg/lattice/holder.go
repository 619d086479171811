package lattice

import "github.com/chazu/latticework/pkg/fill"

// Holder gives a lattice access to its fill. An owning holder keeps the
// fill inline and deep-copies it on Clone; a borrowing holder keeps a
// pointer to a fill managed elsewhere and clones by sharing that pointer.
type Holder interface {
	// Data returns the held fill.
	Data() *fill.Fill
	// Clone returns a holder that is safe to use for the lifetime of a
	// copied lattice.
	Clone() Holder
	// Owned reports whether the holder owns its fill.
	Owned() bool
}

// Own returns a holder that owns f. The caller should not keep using the
// node storage of f afterwards.
func Own(f fill.Fill) Holder {
	return &ownedFill{f: f}
}

// Borrow returns a holder that references f without owning it. f must
// outlive every lattice using the holder.
func Borrow(f *fill.Fill) Holder {
	if f == nil {
		panic("lattice: Borrow of nil fill")
	}
	return &borrowedFill{f: f}
}

type ownedFill struct {
	f fill.Fill
}

func (h *ownedFill) Data() *fill.Fill { return &h.f }
func (h *ownedFill) Clone() Holder    { return &ownedFill{f: h.f.Clone()} }
func (h *ownedFill) Owned() bool      { return true }

type borrowedFill struct {
	f *fill.Fill
}

func (h *borrowedFill) Data() *fill.Fill { return h.f }
func (h *borrowedFill) Clone() Holder    { return &borrowedFill{f: h.f} }
func (h *borrowedFill) Owned() bool      { return false }
