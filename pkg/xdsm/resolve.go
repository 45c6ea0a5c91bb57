package xdsm

import (
	apperrors "github.com/mhertel/xdsmview/pkg/errors"
)

// =============================================================================
// Sub-Diagram Resolution
// =============================================================================

// Tree is a resolved view of a document: every subxdsm reference expanded
// into a nested structure suitable for rendering. NodeID is the id of the
// node in the parent diagram that expands into this level; it is empty
// for the root.
type Tree struct {
	Name     string
	NodeID   string
	Diagram  *Diagram
	Children []*Tree
}

// Depth returns the number of diagram levels below and including this
// one. A tree without scenarios has depth 1.
func (t *Tree) Depth() int {
	max := 0
	for _, c := range t.Children {
		if d := c.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}

// Walk visits the tree depth-first, parents before children.
func (t *Tree) Walk(fn func(*Tree)) {
	fn(t)
	for _, c := range t.Children {
		c.Walk(fn)
	}
}

// Resolve expands the document from its root diagram. It fails with
// DIAGRAM_NOT_FOUND if the document has no "root" key.
func (d Document) Resolve() (*Tree, error) {
	return d.ResolveFrom(RootName)
}

// ResolveFrom expands the document starting at the named diagram,
// recursively following subxdsm references. Expansion fails with
// CYCLIC_SUBDIAGRAM if it would recurse into a diagram already on the
// current expansion path. Each call checks only its own path, so a
// diagram referenced from two sibling scenarios resolves fine.
func (d Document) ResolveFrom(name string) (*Tree, error) {
	dg, ok := d[name]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeDiagramNotFound, "diagram %q not found in document", name)
	}
	return d.resolve(name, "", dg, map[string]bool{})
}

func (d Document) resolve(name, nodeID string, dg *Diagram, path map[string]bool) (*Tree, error) {
	if path[name] {
		return nil, apperrors.New(apperrors.ErrCodeCyclicSubdiagram,
			"sub-diagram %q expands into itself", name)
	}
	path[name] = true
	defer delete(path, name)

	t := &Tree{Name: name, NodeID: nodeID, Diagram: dg}
	for _, n := range dg.Nodes {
		if !n.IsScenario() {
			continue
		}
		sub, ok := d[n.SubXDSM]
		if !ok {
			// Validate catches this for loaded documents; guard anyway for
			// documents assembled in memory.
			return nil, apperrors.New(apperrors.ErrCodeDanglingSubdiagram,
				"diagram %q: node %q references unknown sub-diagram %q", name, n.ID, n.SubXDSM)
		}
		child, err := d.resolve(n.SubXDSM, n.ID, sub, path)
		if err != nil {
			return nil, err
		}
		t.Children = append(t.Children, child)
	}
	return t, nil
}
