package graph

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// NodeID is a content-addressed identifier for graph nodes.
type NodeID string

// ZeroID is the empty node ID.
const ZeroID NodeID = ""

// NewNodeID derives a deterministic ID from a node path such as
// "lattice/core" or "universe/3".
func NewNodeID(path string) NodeID {
	return NodeID(fmt.Sprintf("%016x", xxhash.Sum64String(path)))
}

// IsZero reports whether id is unset.
func (id NodeID) IsZero() bool { return id == ZeroID }

// Short returns an abbreviated form of the ID for messages.
func (id NodeID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}
