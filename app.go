// Package latticework evaluates lattice designs written in a small Lisp
// and turns them into placed triangle meshes.
package latticework

import (
	"fmt"
	"log/slog"

	"github.com/chazu/latticework/internal/config"
	"github.com/chazu/latticework/pkg/engine"
	"github.com/chazu/latticework/pkg/fill"
	"github.com/chazu/latticework/pkg/geom"
	"github.com/chazu/latticework/pkg/graph"
	"github.com/chazu/latticework/pkg/kernel"
	"github.com/chazu/latticework/pkg/kernel/sdfx"
	"github.com/chazu/latticework/pkg/tessellate"
)

// colorPalette assigns distinct colors to materials in order of first use.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs the evaluate, validate, tessellate pipeline.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	opts   tessellate.Options
}

// MeshData is the JSON form of one placed primitive.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Material string    `json:"material,omitempty"`
	Color    string    `json:"color"`
}

// Diagnostic is an error or warning from any pipeline stage.
type Diagnostic struct {
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
	Message string `json:"message"`
	Node    string `json:"node,omitempty"`
}

// EvalResult is the full result of Evaluate.
type EvalResult struct {
	Meshes   []MeshData   `json:"meshes"`
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
}

// OK reports whether the pipeline finished without errors.
func (r EvalResult) OK() bool { return len(r.Errors) == 0 }

// NewApp creates an App with the default configuration.
func NewApp() *App {
	return NewAppWithConfig(config.Default())
}

// NewAppWithConfig creates an App backed by the sdfx kernel.
func NewAppWithConfig(cfg config.Config) *App {
	return &App{
		engine: engine.NewEngineWithOptions(engine.Options{
			Timeout:      cfg.EvalTimeout,
			DegreeFormat: cfg.DegreeFormat,
		}),
		kernel: sdfx.NewWithCells(cfg.MeshCells),
		opts:   tessellate.Options{MaxDepth: cfg.MaxDepth},
	}
}

// Build evaluates and validates source. The graph is nil when any error
// was reported.
func (a *App) Build(source string) (*graph.DesignGraph, EvalResult) {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []Diagnostic{},
		Warnings: []Diagnostic{},
	}

	res, err := a.engine.Run(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		slog.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, Diagnostic{Message: err.Error()})
		return nil, result
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, Diagnostic{
			Line:    w.Line,
			Col:     w.Col,
			Message: w.Message,
			Node:    nodeLabel(res.Graph, w.NodeID),
		})
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, Diagnostic{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return nil, result
	}

	g := res.Graph
	vr := graph.ValidateAll(g)
	for _, e := range vr.Errors {
		result.Errors = append(result.Errors, Diagnostic{Message: e.Message, Node: nodeLabel(g, e.NodeID)})
	}
	for _, w := range vr.Warnings {
		result.Warnings = append(result.Warnings, Diagnostic{Message: w.Message, Node: nodeLabel(g, w.NodeID)})
	}
	if !vr.OK() {
		return nil, result
	}
	return g, result
}

// Evaluate takes DSL source and returns the placed meshes plus any
// diagnostics.
func (a *App) Evaluate(source string) EvalResult {
	g, result := a.Build(source)
	if g == nil {
		return result
	}

	meshes, err := tessellate.Tessellate(g, a.kernel, a.opts)
	if err != nil {
		slog.Error("tessellate failed", "err", err)
		result.Errors = append(result.Errors, Diagnostic{Message: "tessellation failed: " + err.Error()})
		return result
	}

	colors := map[string]string{}
	for _, m := range meshes {
		color, ok := colors[m.Material]
		if !ok {
			color = colorPalette[len(colors)%len(colorPalette)]
			colors[m.Material] = color
		}
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Material: m.Material,
			Color:    color,
		})
	}
	return result
}

// CellInfo describes one lattice cell.
type CellInfo struct {
	Lattice   string         `json:"lattice"`
	X         int            `json:"x"`
	Y         int            `json:"y"`
	Z         int            `json:"z"`
	Transform geom.Transform `json:"transform"`
	Node      fill.Node      `json:"node"`
}

// Cell returns the translation and fill node of cell (x, y, z) of the
// named lattice.
func Cell(g *graph.DesignGraph, latticeName string, x, y, z int) (CellInfo, error) {
	ld, err := g.Lattice(latticeName)
	if err != nil {
		return CellInfo{}, err
	}
	if ld.Lattice == nil {
		return CellInfo{}, fmt.Errorf("lattice %q has no lattice data", latticeName)
	}
	if f := ld.Lattice.Fill(); f.HasGrid() && !f.Contains(x, y, z) {
		return CellInfo{}, fmt.Errorf("cell [%d,%d,%d] is outside the fill of lattice %q", x, y, z, latticeName)
	}
	return CellInfo{
		Lattice:   latticeName,
		X:         x,
		Y:         y,
		Z:         z,
		Transform: ld.Lattice.TxForNode(x, y, z),
		Node:      ld.Lattice.FillForNode(x, y, z),
	}, nil
}

func nodeLabel(g *graph.DesignGraph, id graph.NodeID) string {
	if id.IsZero() {
		return ""
	}
	if g != nil {
		if n := g.Get(id); n != nil {
			return n.DisplayName()
		}
	}
	return id.Short()
}
