package engine

import (
	"fmt"
	"log/slog"

	"github.com/chazu/latticework/pkg/fill"
	"github.com/chazu/latticework/pkg/geom"
	"github.com/chazu/latticework/pkg/graph"
	"github.com/chazu/latticework/pkg/lattice"
	zygo "github.com/glycerine/zygomys/zygo"
)

// builder populates one DesignGraph during one evaluation. Anonymous node
// IDs are numbered per builder, so the same source always yields the same
// graph.
type builder struct {
	g        *graph.DesignGraph
	degrees  bool
	anon     uint64
	warnings []EvalWarning
}

func newBuilder(g *graph.DesignGraph, degrees bool) *builder {
	return &builder{g: g, degrees: degrees}
}

func (b *builder) nextSuffix() string {
	b.anon++
	return fmt.Sprintf("_anon_%d", b.anon)
}

func (b *builder) warn(id graph.NodeID, format string, args ...any) {
	b.warnings = append(b.warnings, EvalWarning{NodeID: id, Message: fmt.Sprintf(format, args...)})
}

// registerBuiltins installs all DSL builtins into a zygomys environment.
// The builtins operate on the builder's DesignGraph, populating it during
// evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals and
// kebab-case names match the underscore registrations below.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	for name, fn := range map[string]func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error){
		"vec3":         b.vec3,
		"transform":    b.transform,
		"material":     b.material,
		"box":          b.box,
		"cylinder":     b.cylinder,
		"sphere":       b.sphere,
		"part":         b.part,
		"universe":     b.universe,
		"fill_node":    b.fillNode,
		"fill":         b.fill,
		"deffill":      b.deffill,
		"lattice":      b.lattice,
		"place":        b.place,
		"assembly":     b.assembly,
		"union":        b.boolean(graph.BooleanUnion),
		"difference":   b.boolean(graph.BooleanDifference),
		"intersection": b.boolean(graph.BooleanIntersection),
	} {
		env.AddFunction(name, fn)
	}
}

// ---------------------------------------------------------------------------
// (vec3 1 2 3)
// ---------------------------------------------------------------------------

func (b *builder) vec3(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 3 {
		return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
	}
	nums, err := toFloats(args)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
	}
	return &sexpVec3{vec: geom.VectorFrom(nums)}, nil
}

// ---------------------------------------------------------------------------
// (transform 1 0 0  0 1 0  -1 0 0 :degrees false)
//
// 3, 9, 12 or 13 numbers; lists are flattened. Any other count yields a
// translation-only transform and an evaluation warning.
// ---------------------------------------------------------------------------

func (b *builder) transform(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	nums, err := toFloats(pa.positional)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("transform: %w", err)
	}
	degrees := b.degrees
	if v, ok := pa.kw["degrees"]; ok {
		if degrees, err = toBool(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("transform: degrees: %w", err)
		}
	}
	tx := geom.NewTransform(nums, degrees)
	switch len(nums) {
	case 3:
	case 9, 12, 13:
		if !tx.HasRotation && !geom.RotationMatrix(nums, degrees).ApproxEqual(geom.Identity3(), 1e-6) {
			b.warn(graph.ZeroID, "transform rotation values %v have no rotation axis; the rotation is ignored", nums[3:])
		}
	default:
		b.warn(graph.ZeroID, "transform with %d values has no rotation", len(nums))
	}
	return &sexpTransform{tx: tx}, nil
}

// ---------------------------------------------------------------------------
// (material :name "uo2" :density 10.4)
// ---------------------------------------------------------------------------

func (b *builder) material(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	spec := graph.MaterialSpec{}

	if v, ok := pa.kw["name"]; ok {
		s, err := toString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("material: name: %w", err)
		}
		spec.Name = s
	}
	if v, ok := pa.kw["density"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("material: density: %w", err)
		}
		spec.Density = f
	}
	return &sexpMaterial{spec: spec}, nil
}

// ---------------------------------------------------------------------------
// Primitives. Each takes an optional leading name and a :material.
//
//	(box "water" :size (vec3 1.26 1.26 10) :material water)
//	(cylinder "pin" :height 10 :radius 0.4 :material uo2)
//	(sphere :radius 0.05)
// ---------------------------------------------------------------------------

func (b *builder) box(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	pd := graph.PrimitiveData{Shape: graph.ShapeBox}
	if v, ok := pa.kw["size"]; ok {
		vec, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
		}
		pd.Size = vec
	}
	return b.addPrimitive("box", pa, pd)
}

func (b *builder) cylinder(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	pd := graph.PrimitiveData{Shape: graph.ShapeCylinder}
	if v, ok := pa.kw["height"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
		}
		pd.Height = f
	}
	if v, ok := pa.kw["radius"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
		}
		pd.Radius = f
	}
	return b.addPrimitive("cylinder", pa, pd)
}

func (b *builder) sphere(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	pd := graph.PrimitiveData{Shape: graph.ShapeSphere}
	if v, ok := pa.kw["radius"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
		}
		pd.Radius = f
	}
	return b.addPrimitive("sphere", pa, pd)
}

func (b *builder) addPrimitive(form string, pa kwArgs, pd graph.PrimitiveData) (zygo.Sexp, error) {
	if v, ok := pa.kw["material"]; ok {
		m, err := toMaterial(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: material: %w", form, err)
		}
		pd.Material = m
	}

	primName, err := b.optionalName(form, pa)
	if err != nil {
		return zygo.SexpNull, err
	}
	idPath := "primitive/" + primName
	if primName == "" {
		idPath = "primitive/" + b.nextSuffix()
	}
	id := graph.NewNodeID(idPath)
	b.g.AddNode(&graph.Node{
		ID:   id,
		Kind: graph.NodePrimitive,
		Name: primName,
		Data: pd,
	})
	return &sexpNodeRef{id: id, name: primName}, nil
}

// optionalName returns the leading string argument, checking it is not
// already taken.
func (b *builder) optionalName(form string, pa kwArgs) (string, error) {
	if len(pa.positional) == 0 {
		return "", nil
	}
	s, err := toString(pa.positional[0])
	if err != nil {
		return "", fmt.Errorf("%s: name: %w", form, err)
	}
	if b.g.Lookup(s) != nil {
		return "", fmt.Errorf("%s: name %q is already defined", form, s)
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Booleans. An optional leading name, two or more solids and a :material.
//
//	(union "pin" fuel plenum)
//	(difference "tube" outer inner :material zirc)
//	(intersection (part "a") (place (part "b") :at (vec3 1 0 0)))
// ---------------------------------------------------------------------------

func (b *builder) boolean(op graph.BooleanOp) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
	form := op.String()
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		bd := graph.BooleanData{Op: op}
		if v, ok := pa.kw["material"]; ok {
			m, err := toMaterial(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: material: %w", form, err)
			}
			bd.Material = m
		}

		var boolName string
		operands := pa.positional
		if len(operands) > 0 {
			if _, ok := operands[0].(*zygo.SexpStr); ok {
				var err error
				if boolName, err = b.optionalName(form, pa); err != nil {
					return zygo.SexpNull, err
				}
				operands = operands[1:]
			}
		}
		if len(operands) < 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires at least 2 solids, got %d", form, len(operands))
		}
		children, err := nodeRefs(form, operands)
		if err != nil {
			return zygo.SexpNull, err
		}

		idPath := "boolean/" + boolName
		if boolName == "" {
			idPath = "boolean/" + b.nextSuffix()
		}
		id := graph.NewNodeID(idPath)
		b.g.AddNode(&graph.Node{
			ID:       id,
			Kind:     graph.NodeBoolean,
			Name:     boolName,
			Children: children,
			Data:     bd,
		})
		return &sexpNodeRef{id: id, name: boolName}, nil
	}
}

// ---------------------------------------------------------------------------
// (part "name")
// ---------------------------------------------------------------------------

func (b *builder) part(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 {
		return zygo.SexpNull, fmt.Errorf("part requires a name argument")
	}
	partName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
	}
	n := b.g.Lookup(partName)
	if n == nil {
		return zygo.SexpNull, fmt.Errorf("part: no part named %q", partName)
	}
	return &sexpNodeRef{id: n.ID, name: partName}, nil
}

// ---------------------------------------------------------------------------
// (universe 1 pin water)
// ---------------------------------------------------------------------------

func (b *builder) universe(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 {
		return zygo.SexpNull, fmt.Errorf("universe requires a number")
	}
	number, err := toInt(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("universe: number: %w", err)
	}
	if b.g.Universe(number) != nil {
		return zygo.SexpNull, fmt.Errorf("universe: %d is already defined", number)
	}

	children, err := nodeRefs("universe", args[1:])
	if err != nil {
		return zygo.SexpNull, err
	}
	id := graph.NewNodeID(fmt.Sprintf("universe/%d", number))
	b.g.AddNode(&graph.Node{
		ID:       id,
		Kind:     graph.NodeUniverse,
		Children: children,
		Data:     graph.UniverseData{Number: number},
	})
	return &sexpNodeRef{id: id, name: fmt.Sprintf("universe %d", number)}, nil
}

// ---------------------------------------------------------------------------
// (fill-node 2 :transform (transform 0 0 1))
// ---------------------------------------------------------------------------

func (b *builder) fillNode(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) < 1 {
		return zygo.SexpNull, fmt.Errorf("fill-node requires a universe number")
	}
	u, err := toInt(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("fill-node: universe: %w", err)
	}
	node := fill.Node{Universe: u}
	if v, ok := pa.kw["transform"]; ok {
		tx, err := toTransform(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fill-node: transform: %w", err)
		}
		node.Transform = &tx
	}
	return &sexpFillNode{node: node}, nil
}

// ---------------------------------------------------------------------------
// (fill node)
// (fill :x (list 0 1) :y (list 0 1) :nodes (list 1 2 2 1))
//
// Grid nodes are z-major with x varying fastest. Omitted axes span 0:0.
// ---------------------------------------------------------------------------

func (b *builder) fill(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if v, ok := pa.kw["nodes"]; ok {
		var ranges [3]fill.Range
		for i, axis := range [3]string{"x", "y", "z"} {
			rv, ok := pa.kw[axis]
			if !ok {
				continue
			}
			r, err := toRange(rv)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("fill: %s: %w", axis, err)
			}
			ranges[i] = r
		}
		items, err := sexpListToSlice(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fill: nodes: %w", err)
		}
		nodes := make([]fill.Node, len(items))
		for i, it := range items {
			if nodes[i], err = toFillNode(it); err != nil {
				return zygo.SexpNull, fmt.Errorf("fill: node %d: %w", i, err)
			}
		}
		f, err := fill.NewGrid(ranges[0], ranges[1], ranges[2], nodes)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpFill{f: f}, nil
	}

	if len(pa.positional) != 1 {
		return zygo.SexpNull, fmt.Errorf("fill requires one node or :nodes")
	}
	node, err := toFillNode(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("fill: %w", err)
	}
	return &sexpFill{f: fill.NewSingle(node)}, nil
}

// ---------------------------------------------------------------------------
// (deffill "core-map" (fill ...))
// ---------------------------------------------------------------------------

func (b *builder) deffill(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) != 2 {
		return zygo.SexpNull, fmt.Errorf("deffill requires a name and a fill")
	}
	fillName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("deffill: name: %w", err)
	}
	if b.g.Lookup(fillName) != nil {
		return zygo.SexpNull, fmt.Errorf("deffill: name %q is already defined", fillName)
	}

	var f fill.Fill
	switch v := args[1].(type) {
	case *sexpFill:
		f = v.f.Clone()
	case *sexpFillNode:
		f = fill.NewSingle(v.node.Clone())
	default:
		return zygo.SexpNull, fmt.Errorf("deffill: expected fill, got %s", describe(args[1]))
	}

	id := graph.NewNodeID("fill/" + fillName)
	shared := &f
	b.g.AddNode(&graph.Node{
		ID:   id,
		Kind: graph.NodeFill,
		Name: fillName,
		Data: graph.FillData{Fill: shared},
	})
	return &sexpFillRef{id: id, name: fillName, f: shared}, nil
}

// ---------------------------------------------------------------------------
// (lattice "core" :dims 2 :v1 (vec3 1.26 0 0) :v2 (vec3 0 1.26 0)
//          :fill core-map :extent (list 0 16 0 16 0 0))
//
// :fill takes a fill-node, a universe number or an inline fill (the
// lattice owns a copy), or a deffill reference (the lattice borrows it).
// ---------------------------------------------------------------------------

func (b *builder) lattice(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	latName, err := b.optionalName("lattice", pa)
	if err != nil {
		return zygo.SexpNull, err
	}

	dims := lattice.MaxDims
	if v, ok := pa.kw["dims"]; ok {
		if dims, err = toInt(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("lattice: dims: %w", err)
		}
	}
	if dims < 1 || dims > lattice.MaxDims {
		return zygo.SexpNull, fmt.Errorf("lattice: dims must be 1..%d, got %d", lattice.MaxDims, dims)
	}

	var basis [3]geom.Vector
	for i, key := range [3]string{"v1", "v2", "v3"} {
		v, ok := pa.kw[key]
		if !ok {
			continue
		}
		if basis[i], err = toVec3(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("lattice: %s: %w", key, err)
		}
	}

	fv, ok := pa.kw["fill"]
	if !ok {
		return zygo.SexpNull, fmt.Errorf("lattice: :fill is required")
	}
	ld := graph.LatticeData{}
	switch v := fv.(type) {
	case *sexpFillRef:
		ld.Lattice = lattice.NewWithFill(dims, basis[0], basis[1], basis[2], v.f)
		ld.FillRef = v.id
	case *sexpFill:
		ld.Lattice = lattice.NewWithHolder(dims, basis[0], basis[1], basis[2], lattice.Own(v.f.Clone()))
	default:
		node, err := toFillNode(fv)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("lattice: fill: %w", err)
		}
		ld.Lattice = lattice.New(dims, basis[0], basis[1], basis[2], node)
	}

	if v, ok := pa.kw["extent"]; ok {
		items, err := sexpListToSlice(v)
		if err != nil || len(items) != 6 {
			return zygo.SexpNull, fmt.Errorf("lattice: extent: expected (list x0 x1 y0 y1 z0 z1), got %s", describe(v))
		}
		for i := range ld.Extent {
			if ld.Extent[i], err = toRangePair(items[2*i], items[2*i+1]); err != nil {
				return zygo.SexpNull, fmt.Errorf("lattice: extent: %w", err)
			}
		}
		ld.HasExtent = true
	}

	idPath := "lattice/" + latName
	if latName == "" {
		idPath = "lattice/" + b.nextSuffix()
	}
	id := graph.NewNodeID(idPath)
	b.g.AddNode(&graph.Node{
		ID:   id,
		Kind: graph.NodeLattice,
		Name: latName,
		Data: ld,
	})
	slog.Debug("lattice defined", "name", latName, "lattice", ld.Lattice.String())
	return &sexpNodeRef{id: id, name: latName}, nil
}

// ---------------------------------------------------------------------------
// (place (part "core") :transform (transform 0 0 20))
// (place (part "core") :at (vec3 0 0 20))
// ---------------------------------------------------------------------------

func (b *builder) place(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if len(pa.positional) < 1 {
		return zygo.SexpNull, fmt.Errorf("place requires a node reference as first argument")
	}
	childID, err := toNodeRef(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("place: %w", err)
	}

	td := graph.TransformData{}
	if v, ok := pa.kw["transform"]; ok {
		if td.Transform, err = toTransform(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("place: transform: %w", err)
		}
	} else if v, ok := pa.kw["at"]; ok {
		vec, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: at: %w", err)
		}
		td.Transform = geom.NewTranslation(vec)
	}

	idPath := "place/" + b.nextSuffix()
	if child := b.g.Get(childID); child != nil && child.Name != "" {
		idPath = "place/" + child.Name + "/" + b.nextSuffix()
	}
	id := graph.NewNodeID(idPath)
	b.g.AddNode(&graph.Node{
		ID:       id,
		Kind:     graph.NodeTransform,
		Children: []graph.NodeID{childID},
		Data:     td,
	})
	return &sexpNodeRef{id: id}, nil
}

// ---------------------------------------------------------------------------
// (assembly "core" (place ...) (part "reflector") ...)
// ---------------------------------------------------------------------------

func (b *builder) assembly(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
	if len(args) < 1 {
		return zygo.SexpNull, fmt.Errorf("assembly requires a name argument")
	}
	asmName, err := toString(args[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
	}
	if b.g.Lookup(asmName) != nil {
		return zygo.SexpNull, fmt.Errorf("assembly: name %q is already defined", asmName)
	}
	children, err := nodeRefs("assembly", args[1:])
	if err != nil {
		return zygo.SexpNull, err
	}

	id := graph.NewNodeID("assembly/" + asmName)
	b.g.AddNode(&graph.Node{
		ID:       id,
		Kind:     graph.NodeGroup,
		Name:     asmName,
		Children: children,
		Data:     graph.GroupData{},
	})
	b.g.AddRoot(id)
	return &sexpNodeRef{id: id, name: asmName}, nil
}

func nodeRefs(form string, args []zygo.Sexp) ([]graph.NodeID, error) {
	ids := make([]graph.NodeID, 0, len(args))
	for i, a := range args {
		id, err := toNodeRef(a)
		if err != nil {
			return nil, fmt.Errorf("%s: child %d: %w", form, i+1, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
