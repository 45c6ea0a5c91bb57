package xdsm

import (
	"slices"
	"strings"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// UserID is the reserved pseudo-node representing the user/environment
// boundary of the modeled process. It may appear as an edge endpoint and
// as the leading workflow element, but never as a declared node id.
const UserID = "_U_"

// RootName is the conventional key of the top-level diagram in a document.
const RootName = "root"

// Node types emitted by MDO process exporters.
const (
	TypeOptimization = "optimization" // driving optimizer of a scenario
	TypeMDA          = "mda"          // coupled-discipline solver step
	TypeMDO          = "mdo"          // nested sub-scenario (carries subxdsm)
	TypeAnalysis     = "analysis"     // plain discipline evaluation
)

// Node statuses found in monitored exports. The status field is optional
// and opaque to validation; these constants cover the known set.
const (
	StatusPending = "PENDING"
	StatusRunning = "RUNNING"
	StatusDone    = "DONE"
	StatusFailed  = "FAILED"
)

// =============================================================================
// Document - Diagram Collection
// =============================================================================

// Document is the canonical form of an XDSM export: a mapping from diagram
// name to diagram. The "root" key is conventionally present and names the
// top-level process; further keys hold expanded sub-scenarios referenced
// via Node.SubXDSM.
//
// The format is human-readable and designed for round-trip fidelity:
// load → validate → marshal → reload produces an equal structure.
type Document map[string]*Diagram

// Root returns the root diagram and true, or nil and false if the
// document has no "root" key.
func (d Document) Root() (*Diagram, bool) {
	dg, ok := d[RootName]
	return dg, ok
}

// Names returns all diagram names in sorted order.
func (d Document) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Diagram
// =============================================================================

// Diagram describes one level of an XDSM: its process steps (nodes), the
// data exchanges between them (edges), the execution order (workflow), and
// a free-text description of the optimization problem.
type Diagram struct {
	Nodes    []Node   `json:"nodes" bson:"nodes" yaml:"nodes"`
	Edges    []Edge   `json:"edges" bson:"edges" yaml:"edges"`
	Workflow Workflow `json:"workflow" bson:"workflow" yaml:"workflow"`
	OptPb    string   `json:"optpb,omitempty" bson:"optpb,omitempty" yaml:"optpb,omitempty"`
}

// Node returns the node with the given id and true, or nil and false if
// not found. The returned pointer refers to the actual node in the slice.
func (dg *Diagram) Node(id string) (*Node, bool) {
	for i := range dg.Nodes {
		if dg.Nodes[i].ID == id {
			return &dg.Nodes[i], true
		}
	}
	return nil, false
}

// HasNode reports whether a node with the given id is declared.
func (dg *Diagram) HasNode(id string) bool {
	_, ok := dg.Node(id)
	return ok
}

// NodeCount returns the number of declared nodes.
func (dg *Diagram) NodeCount() int { return len(dg.Nodes) }

// EdgeCount returns the number of edges, duplicates included.
func (dg *Diagram) EdgeCount() int { return len(dg.Edges) }

// Scenarios returns the nodes that expand into a sub-diagram, in
// declaration order.
func (dg *Diagram) Scenarios() []Node {
	var out []Node
	for _, n := range dg.Nodes {
		if n.IsScenario() {
			out = append(out, n)
		}
	}
	return out
}

// =============================================================================
// Node - Process Step
// =============================================================================

// Node is a process step in an XDSM diagram: an optimizer, an MDA, a
// discipline analysis, or a nested sub-scenario.
type Node struct {
	ID      string `json:"id" bson:"id" yaml:"id"`
	Name    string `json:"name,omitempty" bson:"name,omitempty" yaml:"name,omitempty"` // Display name (defaults to ID)
	Type    string `json:"type,omitempty" bson:"type,omitempty" yaml:"type,omitempty"`
	SubXDSM string `json:"subxdsm,omitempty" bson:"subxdsm,omitempty" yaml:"subxdsm,omitempty"` // Key of the expanded sub-diagram
	Status  string `json:"status,omitempty" bson:"status,omitempty" yaml:"status,omitempty"`    // Present only in monitored exports
}

// IsScenario reports whether the node expands into a nested diagram.
func (n *Node) IsScenario() bool { return n.SubXDSM != "" }

// IsMDA reports whether the node is a coupled-discipline solver step.
func (n *Node) IsMDA() bool { return n.Type == TypeMDA }

// IsOptimizer reports whether the node is the driving optimizer.
func (n *Node) IsOptimizer() bool { return n.Type == TypeOptimization }

// DisplayName returns the name if set, otherwise the id.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// =============================================================================
// Edge - Directed Data Exchange
// =============================================================================

// Edge represents a directed data exchange between two nodes. Endpoints
// reference node ids or the reserved UserID boundary. Name holds a
// comma-separated list of exchanged variable names; repeated entries are
// legitimate and must be preserved.
type Edge struct {
	From string `json:"from" bson:"from" yaml:"from"`
	To   string `json:"to" bson:"to" yaml:"to"`
	Name string `json:"name" bson:"name" yaml:"name"`
}

// Variables splits the edge label into individual variable names,
// preserving order and duplicates. Empty entries are dropped.
func (e *Edge) Variables() []string {
	if e.Name == "" {
		return nil
	}
	parts := strings.Split(e.Name, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// FromUser reports whether the edge originates at the user boundary.
func (e *Edge) FromUser() bool { return e.From == UserID }

// ToUser reports whether the edge targets the user boundary.
func (e *Edge) ToUser() bool { return e.To == UserID }
