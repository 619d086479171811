package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/latticework/pkg/fill"
	"github.com/chazu/latticework/pkg/geom"
	"github.com/chazu/latticework/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a geom.Vector.
type sexpVec3 struct {
	vec geom.Vector
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return "(vec3 " + strings.Trim(v.vec.String(), "()") + ")"
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpTransform wraps a geom.Transform built by `transform`.
type sexpTransform struct {
	tx geom.Transform
}

func (t *sexpTransform) SexpString(ps *zygo.PrintState) string { return t.tx.String() }
func (t *sexpTransform) Type() *zygo.RegisteredType            { return nil }

// sexpMaterial wraps a graph.MaterialSpec so it can be passed to primitives.
type sexpMaterial struct {
	spec graph.MaterialSpec
}

func (m *sexpMaterial) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(material :name %q :density %g)", m.spec.Name, m.spec.Density)
}
func (m *sexpMaterial) Type() *zygo.RegisteredType { return nil }

// sexpFillNode wraps a fill.Node built by `fill-node`.
type sexpFillNode struct {
	node fill.Node
}

func (n *sexpFillNode) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(fill-node %s)", n.node)
}
func (n *sexpFillNode) Type() *zygo.RegisteredType { return nil }

// sexpFill wraps an inline fill built by `fill`. A lattice given one owns
// a copy.
type sexpFill struct {
	f fill.Fill
}

func (f *sexpFill) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(fill %s)", f.f.String())
}
func (f *sexpFill) Type() *zygo.RegisteredType { return nil }

// sexpFillRef names a fill registered with `deffill`. A lattice given one
// borrows the registered fill.
type sexpFillRef struct {
	id   graph.NodeID
	name string
	f    *fill.Fill
}

func (r *sexpFillRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(fillref %q)", r.name)
}
func (r *sexpFillRef) Type() *zygo.RegisteredType { return nil }

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. Each
// keyword takes the single value after it; a trailing keyword gets nil.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func describe(s zygo.Sexp) string {
	if s == nil {
		return "nil"
	}
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

// toInt extracts an integer; floats are accepted when integral.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected integer, got %s", describe(s))
}

// toBool extracts a boolean. nil reads as false, so a bare trailing
// keyword does not switch a flag on.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return false, nil
		}
	}
	return false, fmt.Errorf("expected boolean, got %s", describe(s))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", describe(s))
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (graph.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return graph.ZeroID, fmt.Errorf("expected node reference, got %s", describe(s))
}

// toVec3 extracts a geom.Vector from a sexpVec3 or a list of three numbers.
func toVec3(s zygo.Sexp) (geom.Vector, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil || len(items) != 3 {
		return geom.Vector{}, fmt.Errorf("expected vec3, got %s", describe(s))
	}
	nums, err := toFloats(items)
	if err != nil {
		return geom.Vector{}, err
	}
	return geom.VectorFrom(nums), nil
}

// toTransform extracts a transform; a vec3 reads as a translation.
func toTransform(s zygo.Sexp) (geom.Transform, error) {
	switch v := s.(type) {
	case *sexpTransform:
		return v.tx, nil
	case *sexpVec3:
		return geom.NewTranslation(v.vec), nil
	}
	return geom.Transform{}, fmt.Errorf("expected transform, got %s", describe(s))
}

// toMaterial extracts a MaterialSpec from a sexpMaterial.
func toMaterial(s zygo.Sexp) (graph.MaterialSpec, error) {
	if m, ok := s.(*sexpMaterial); ok {
		return m.spec, nil
	}
	return graph.MaterialSpec{}, fmt.Errorf("expected material, got %s", describe(s))
}

// toFillNode extracts a fill.Node from a sexpFillNode or a bare universe
// number.
func toFillNode(s zygo.Sexp) (fill.Node, error) {
	if n, ok := s.(*sexpFillNode); ok {
		return n.node.Clone(), nil
	}
	u, err := toInt(s)
	if err != nil {
		return fill.Node{}, fmt.Errorf("expected fill-node or universe number, got %s", describe(s))
	}
	return fill.Node{Universe: u}, nil
}

// toRange extracts a fill.Range from a two-element list.
func toRange(s zygo.Sexp) (fill.Range, error) {
	items, err := sexpListToSlice(s)
	if err != nil || len(items) != 2 {
		return fill.Range{}, fmt.Errorf("expected (list first second), got %s", describe(s))
	}
	return toRangePair(items[0], items[1])
}

func toRangePair(a, b zygo.Sexp) (fill.Range, error) {
	first, err := toInt(a)
	if err != nil {
		return fill.Range{}, err
	}
	second, err := toInt(b)
	if err != nil {
		return fill.Range{}, err
	}
	return fill.Range{First: first, Second: second}, nil
}

// toFloats converts numeric Sexps, flattening nested lists and arrays.
func toFloats(items []zygo.Sexp) ([]float64, error) {
	var out []float64
	for _, it := range items {
		if nested, err := sexpListToSlice(it); err == nil {
			vals, err := toFloats(nested)
			if err != nil {
				return nil, err
			}
			out = append(out, vals...)
			continue
		}
		f, err := toFloat64(it)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}
