// Package dsm builds the design structure matrix of an XDSM diagram.
//
// A DSM orders the diagram's process steps and records which steps feed
// variables into which others. Couplings above the diagonal (a step
// feeding an earlier step) are feedback couplings; cycles among couplings
// are the loops an MDA has to converge. The user boundary is not part of
// the matrix.
package dsm

import (
	"slices"

	"github.com/mhertel/xdsmview/pkg/xdsm"
)

// Coupling is one directed data exchange between two matrix rows, with
// the exchanged variable names merged from all edges between the pair.
// Repeated variable names are preserved.
type Coupling struct {
	From      string
	To        string
	Variables []string
}

// Matrix is the design structure matrix of one diagram.
type Matrix struct {
	ids   []string
	pos   map[string]int
	cells map[string]map[string][]string // from -> to -> variables
}

// Build constructs the matrix for a diagram. Rows are ordered by first
// appearance in the workflow; nodes the workflow never references are
// appended in declaration order. Edges touching the user boundary are
// ignored.
func Build(dg *xdsm.Diagram) *Matrix {
	m := &Matrix{
		pos:   make(map[string]int),
		cells: make(map[string]map[string][]string),
	}

	add := func(id string) {
		if _, seen := m.pos[id]; seen {
			return
		}
		m.pos[id] = len(m.ids)
		m.ids = append(m.ids, id)
	}

	for _, ref := range dg.Workflow.Refs() {
		if ref != xdsm.UserID && dg.HasNode(ref) {
			add(ref)
		}
	}
	for _, n := range dg.Nodes {
		add(n.ID)
	}

	for i := range dg.Edges {
		e := &dg.Edges[i]
		if e.FromUser() || e.ToUser() {
			continue
		}
		if m.cells[e.From] == nil {
			m.cells[e.From] = make(map[string][]string)
		}
		m.cells[e.From][e.To] = append(m.cells[e.From][e.To], e.Variables()...)
	}

	return m
}

// IDs returns the row order of the matrix.
func (m *Matrix) IDs() []string { return slices.Clone(m.ids) }

// Size returns the number of rows.
func (m *Matrix) Size() int { return len(m.ids) }

// Position returns the row index of a node id.
func (m *Matrix) Position(id string) (int, bool) {
	p, ok := m.pos[id]
	return p, ok
}

// Variables returns the merged variable list exchanged from one node to
// another, or nil when the cell is empty.
func (m *Matrix) Variables(from, to string) []string {
	return m.cells[from][to]
}

// HasCoupling reports whether any variables flow from one node to another.
func (m *Matrix) HasCoupling(from, to string) bool {
	return len(m.cells[from][to]) > 0
}

// Couplings returns all non-empty cells in row-major matrix order.
func (m *Matrix) Couplings() []Coupling {
	var out []Coupling
	for _, from := range m.ids {
		for _, to := range m.ids {
			if vars := m.cells[from][to]; len(vars) > 0 {
				out = append(out, Coupling{From: from, To: to, Variables: vars})
			}
		}
	}
	return out
}

// Feedback returns the couplings above the diagonal: cells where a step
// feeds a step that runs earlier in the matrix order.
func (m *Matrix) Feedback() []Coupling {
	var out []Coupling
	for _, c := range m.Couplings() {
		if m.pos[c.From] > m.pos[c.To] {
			out = append(out, c)
		}
	}
	return out
}

// Loops returns the coupling cycles of the diagram: the strongly
// connected components of the coupling graph with more than one member,
// plus single nodes that feed themselves. Members are listed in matrix
// order. These are the loops an MDA iterates over.
func (m *Matrix) Loops() [][]string {
	// Tarjan's algorithm; index numbering follows matrix order so the
	// component output is deterministic.
	index := make(map[string]int, len(m.ids))
	lowlink := make(map[string]int, len(m.ids))
	onStack := make(map[string]bool, len(m.ids))
	var stack []string
	next := 0

	var components [][]string

	var strongconnect func(v string)
	strongconnect = func(v string) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range m.ids {
			if !m.HasCoupling(v, w) {
				continue
			}
			if _, seen := index[w]; !seen {
				strongconnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], index[w])
			}
		}

		if lowlink[v] == index[v] {
			var comp []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			if len(comp) > 1 || m.HasCoupling(comp[0], comp[0]) {
				slices.SortFunc(comp, func(a, b string) int { return m.pos[a] - m.pos[b] })
				components = append(components, comp)
			}
		}
	}

	for _, v := range m.ids {
		if _, seen := index[v]; !seen {
			strongconnect(v)
		}
	}

	return components
}
