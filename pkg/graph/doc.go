// Package graph defines the design graph types for latticework.
// The design graph is a DAG of primitives, numbered universes, shared
// fills, lattices, placements and groups that describes repeated geometry.
package graph
