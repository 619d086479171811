package graph

import (
	"fmt"
	"sort"

	"github.com/chazu/latticework/pkg/fill"
	"github.com/chazu/latticework/pkg/lattice"
)

// ValidationSeverity indicates whether a validation finding blocks evaluation
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks evaluation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if graph-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	NodeID  NodeID
	Message string
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether the result has no blocking errors.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate runs all Tier 1 structural validation checks on the design graph
// and returns a slice of validation errors. An empty slice means the graph is
// valid. This function is read-only and never mutates the graph.
func Validate(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(g)...)
	errs = append(errs, validateReferences(g)...)
	errs = append(errs, validateNames(g)...)
	errs = append(errs, validateUniverses(g)...)
	errs = append(errs, validateRoots(g)...)
	errs = append(errs, validateLattices(g)...)
	errs = append(errs, validateBooleans(g)...)
	return errs
}

// ValidateAll runs both validation tiers (structural, geometric) and returns
// a ValidationResult with separated errors and warnings.
func ValidateAll(g *DesignGraph) ValidationResult {
	tier1 := Validate(g)
	tier2Errs, tier2Warnings := validateGeometry(g)

	var result ValidationResult
	for _, e := range tier1 {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, ValidationWarning{
				NodeID:  e.NodeID,
				Message: e.Message,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}

	result.Errors = append(result.Errors, tier2Errs...)
	result.Warnings = append(result.Warnings, tier2Warnings...)

	return result
}

// sortedIDs returns the node IDs of g in a stable order so that findings are
// reported deterministically.
func sortedIDs(g *DesignGraph) []NodeID {
	ids := make([]NodeID, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// validateDAG checks for cycles using DFS with 3-color marking over all
// dependency edges, including lattice -> universe edges. A universe that
// contains a lattice filled with that same universe is a cycle.
func validateDAG(g *DesignGraph) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int) // default zero = white
	var errs []ValidationError

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray

		node, ok := g.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}

		for _, dep := range g.Edges(node) {
			if visit(dep) {
				return true
			}
		}

		color[id] = black
		return false
	}

	for _, id := range sortedIDs(g) {
		if color[id] == white {
			if visit(id) {
				// One cycle error is sufficient; stop early.
				break
			}
		}
	}

	return errs
}

// validateReferences checks that every NodeID and universe number referenced
// anywhere in the graph resolves.
func validateReferences(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, id := range sortedIDs(g) {
		node := g.Nodes[id]
		for _, childID := range node.Children {
			if _, ok := g.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}

		switch d := node.Data.(type) {
		case LatticeData:
			if d.Lattice == nil {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  "lattice node has no lattice",
					Severity: SeverityError,
				})
				continue
			}
			if !d.FillRef.IsZero() {
				ref, ok := g.Nodes[d.FillRef]
				if !ok {
					errs = append(errs, ValidationError{
						NodeID:   node.ID,
						Message:  fmt.Sprintf("lattice fill reference %s does not exist", d.FillRef.Short()),
						Severity: SeverityError,
					})
				} else if ref.Kind != NodeFill {
					errs = append(errs, ValidationError{
						NodeID:   node.ID,
						Message:  fmt.Sprintf("lattice fill reference %q is a %s, not a fill", ref.DisplayName(), ref.Kind),
						Severity: SeverityError,
					})
				}
				// Universes of a borrowed fill are checked on the fill node.
				continue
			}
			errs = append(errs, undefinedUniverses(g, node, d.Lattice.Fill().Universes())...)

		case FillData:
			if d.Fill == nil {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  "fill node has no fill",
					Severity: SeverityError,
				})
				continue
			}
			errs = append(errs, undefinedUniverses(g, node, d.Fill.Universes())...)
		}
	}

	return errs
}

func undefinedUniverses(g *DesignGraph, node *Node, numbers []int) []ValidationError {
	var errs []ValidationError
	for _, u := range numbers {
		if g.Universe(u) == nil {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("fill of %q places undefined universe %d", node.DisplayName(), u),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateNames checks that the NameIndex is injective (no two nodes share the
// same name) and that every entry in NameIndex points to an existing node.
func validateNames(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for name, id := range g.NameIndex {
		if _, ok := g.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	for id, node := range g.Nodes {
		if node.Name != "" {
			nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
		}
	}
	for name, ids := range nameToNodes {
		if len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateUniverses checks that each universe number is defined by exactly
// one node and that the universe index agrees with the nodes.
func validateUniverses(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	byNumber := make(map[int][]NodeID)
	for _, id := range sortedIDs(g) {
		if u, ok := g.Nodes[id].Data.(UniverseData); ok {
			byNumber[u.Number] = append(byNumber[u.Number], id)
		}
	}
	numbers := make([]int, 0, len(byNumber))
	for n := range byNumber {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	for _, n := range numbers {
		if ids := byNumber[n]; len(ids) > 1 {
			errs = append(errs, ValidationError{
				NodeID:   ids[0],
				Message:  fmt.Sprintf("universe %d defined %d times", n, len(ids)),
				Severity: SeverityError,
			})
		}
	}

	for n, id := range g.UniverseIndex {
		node, ok := g.Nodes[id]
		if !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("universe index entry %d references non-existent node %s", n, id.Short()),
				Severity: SeverityError,
			})
			continue
		}
		if u, ok := node.Data.(UniverseData); !ok || u.Number != n {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("universe index entry %d does not match node data", n),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateRoots checks that every root ID references an existing node and
// warns about orphan nodes (nodes unreachable from any root). Universes and
// fills count as reachable when a reachable lattice uses them.
func validateRoots(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
		}
	}

	if len(g.Nodes) == 0 {
		return errs
	}

	reachable := make(map[NodeID]bool)
	queue := make([]NodeID, 0, len(g.Roots))
	for _, rid := range g.Roots {
		if _, ok := g.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.Nodes[current]
		if node == nil {
			continue
		}
		for _, dep := range g.Edges(node) {
			if !reachable[dep] {
				reachable[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	for _, id := range sortedIDs(g) {
		if !reachable[id] {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q is not reachable from any root (orphan)", g.Nodes[id].DisplayName()),
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// validateLattices checks lattice dimensions and that the cells to expand
// are well formed and, for gridded fills, inside the grid.
func validateLattices(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Lattices() {
		d, ok := node.Data.(LatticeData)
		if !ok || d.Lattice == nil {
			continue
		}
		if dims := d.Lattice.Dims(); dims < 1 || dims > lattice.MaxDims {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("lattice %q has %d dimensions, want 1..%d", node.DisplayName(), dims, lattice.MaxDims),
				Severity: SeverityError,
			})
		}

		cells := d.Cells()
		axes := [3]string{"x", "y", "z"}
		for i, r := range cells {
			if r.Size() < 1 {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("lattice %q %s extent %s is reversed", node.DisplayName(), axes[i], r),
					Severity: SeverityError,
				})
			}
		}

		f := d.Lattice.Fill()
		if !f.HasGrid() {
			continue
		}
		fx, fy, fz := f.Ranges()
		for i, fr := range [3]fill.Range{fx, fy, fz} {
			if cells[i].First < fr.First || cells[i].Second > fr.Second {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("lattice %q %s extent %s exceeds fill range %s", node.DisplayName(), axes[i], cells[i], fr),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// validateBooleans checks that every boolean has at least two operands and
// that each operand is a solid: a primitive, a boolean, or a placement of
// exactly one solid.
func validateBooleans(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Booleans() {
		d, ok := node.Data.(BooleanData)
		if !ok {
			continue
		}
		if len(node.Children) < 2 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("%s %q needs at least 2 operands, has %d", d.Op, node.DisplayName(), len(node.Children)),
				Severity: SeverityError,
			})
		}
		for i, cid := range node.Children {
			if msg := solidOperand(g, cid); msg != "" {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("%s %q operand %d %s", d.Op, node.DisplayName(), i+1, msg),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// solidOperand describes why id cannot be a boolean operand, or returns "".
// Missing nodes are reported by validateReferences.
func solidOperand(g *DesignGraph, id NodeID) string {
	for range len(g.Nodes) + 1 {
		n, ok := g.Nodes[id]
		if !ok {
			return ""
		}
		switch n.Kind {
		case NodePrimitive, NodeBoolean:
			return ""
		case NodeTransform:
			if len(n.Children) != 1 {
				return fmt.Sprintf("places %d nodes, want 1", len(n.Children))
			}
			id = n.Children[0]
		default:
			return fmt.Sprintf("is a %s, not a solid", n.Kind)
		}
	}
	// Only a cycle gets here; validateDAG reports it.
	return ""
}
