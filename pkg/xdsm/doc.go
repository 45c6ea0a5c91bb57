// Package xdsm models XDSM workflow documents: the serialized description
// of a multidisciplinary optimization process's data and control flow, as
// emitted by MDO frameworks for diagram rendering.
//
// A document maps diagram names to diagrams. Each diagram declares its
// process steps (nodes), the variable exchanges between them (edges), and
// the execution order (workflow), plus a free-text description of the
// optimization problem. Nodes may expand into nested sub-diagrams via
// subxdsm references.
//
// The package loads documents from JSON or YAML, validates their
// referential integrity, and resolves sub-diagram references into a tree
// for rendering. It performs no layout, no rendering, and no execution:
// the workflow's parallel markers describe the modeled process, not this
// package's behavior.
//
// # Usage
//
//	doc, err := xdsm.ReadFile("xdsm.json")
//	if err != nil {
//	    return err
//	}
//	tree, err := doc.Resolve()
//	if err != nil {
//	    return err
//	}
//	tree.Walk(func(t *xdsm.Tree) {
//	    fmt.Println(t.Name, t.Diagram.NodeCount())
//	})
package xdsm
