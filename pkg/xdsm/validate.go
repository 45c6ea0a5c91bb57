package xdsm

import (
	apperrors "github.com/mhertel/xdsmview/pkg/errors"
)

// Validate checks document integrity and returns nil if valid.
// It verifies, for every diagram:
//
//  1. The diagram declares a node list with unique, well-formed ids.
//  2. Every edge endpoint is UserID or a declared node id.
//  3. Every subxdsm reference resolves to a key of this document.
//  4. The workflow references only declared ids (plus UserID) and, when
//     non-empty, starts with the UserID token.
//
// Duplicate edges are legal and never reported: exporters emit one edge
// per coupling record, so identical from/to pairs with overlapping
// variable payloads are expected.
func (d Document) Validate() error {
	if len(d) == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidDocument, "document has no diagrams")
	}

	for _, name := range d.Names() {
		if err := apperrors.ValidateDiagramName(name); err != nil {
			return err
		}
		dg := d[name]
		if dg == nil {
			return apperrors.New(apperrors.ErrCodeInvalidDocument, "diagram %q is null", name)
		}
		if err := d.validateDiagram(name, dg); err != nil {
			return err
		}
	}
	return nil
}

func (d Document) validateDiagram(name string, dg *Diagram) error {
	if dg.Nodes == nil {
		return apperrors.New(apperrors.ErrCodeInvalidDocument, "diagram %q: missing nodes", name)
	}

	ids := make(map[string]bool, len(dg.Nodes))
	for i := range dg.Nodes {
		n := &dg.Nodes[i]
		if err := apperrors.ValidateNodeID(n.ID); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "diagram %q: node %d", name, i)
		}
		if n.ID == UserID {
			return apperrors.New(apperrors.ErrCodeInvalidDocument,
				"diagram %q: node id %q is reserved for the user boundary", name, UserID)
		}
		if ids[n.ID] {
			return apperrors.New(apperrors.ErrCodeInvalidDocument, "diagram %q: duplicate node id %q", name, n.ID)
		}
		ids[n.ID] = true

		if n.SubXDSM != "" {
			if _, ok := d[n.SubXDSM]; !ok {
				return apperrors.New(apperrors.ErrCodeDanglingSubdiagram,
					"diagram %q: node %q references unknown sub-diagram %q", name, n.ID, n.SubXDSM)
			}
		}
	}

	for i, e := range dg.Edges {
		if e.From != UserID && !ids[e.From] {
			return apperrors.New(apperrors.ErrCodeDanglingReference,
				"diagram %q: edge %d references unknown node %q", name, i, e.From)
		}
		if e.To != UserID && !ids[e.To] {
			return apperrors.New(apperrors.ErrCodeDanglingReference,
				"diagram %q: edge %d references unknown node %q", name, i, e.To)
		}
	}

	if len(dg.Workflow) > 0 && !dg.Workflow.LeadsWithUser() {
		return apperrors.New(apperrors.ErrCodeInvalidWorkflow,
			"diagram %q: workflow must start with the %q token", name, UserID)
	}
	for _, ref := range dg.Workflow.Refs() {
		if ref != UserID && !ids[ref] {
			return apperrors.New(apperrors.ErrCodeDanglingReference,
				"diagram %q: workflow references unknown node %q", name, ref)
		}
	}

	return nil
}
