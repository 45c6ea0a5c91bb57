// Package render converts resolved XDSM trees into visual artifacts.
//
// The renderer produces a node-link projection of the process: Graphviz
// DOT text with one cluster per expanded sub-diagram, rendered to SVG or
// PNG through the graphviz library. This is a working view of the data
// flow, not the matrix-typeset XDSM diagram.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mhertel/xdsmview/pkg/xdsm"
)

// Options configures DOT generation.
type Options struct {
	// ShowVariables labels edges with the exchanged variable names.
	// When false, edges are drawn bare.
	ShowVariables bool

	// Statuses colors nodes by their execution status when the document
	// was produced by a monitored run.
	Statuses bool
}

// ToDOT converts a resolved tree to Graphviz DOT. The root diagram's
// nodes live at the top level; every expanded sub-diagram becomes a
// cluster, linked from the scenario node that expands into it. Node ids
// are qualified by diagram name so sub-diagrams can reuse ids like "Opt".
// The user boundary is a single shared node.
func ToDOT(t *xdsm.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph XDSM {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  %q [shape=house, style=filled, fillcolor=lightgrey, label=\"user\"];\n", xdsm.UserID)

	writeTree(&buf, t, opts, 1)

	buf.WriteString("}\n")
	return buf.String()
}

// qualify namespaces a node id by its diagram so clusters can repeat ids.
func qualify(diagram, id string) string {
	if id == xdsm.UserID {
		return xdsm.UserID
	}
	return diagram + "/" + id
}

func writeTree(buf *bytes.Buffer, t *xdsm.Tree, opts Options, depth int) {
	indent := strings.Repeat("  ", depth)

	if depth > 1 {
		fmt.Fprintf(buf, "%ssubgraph \"cluster_%s\" {\n", indent, t.Name)
		fmt.Fprintf(buf, "%s  label=%q;\n", indent, t.Name)
		fmt.Fprintf(buf, "%s  style=dashed;\n", indent)
		indent += "  "
	}

	for i := range t.Diagram.Nodes {
		n := &t.Diagram.Nodes[i]
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, qualify(t.Name, n.ID), strings.Join(nodeAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for i := range t.Diagram.Edges {
		e := &t.Diagram.Edges[i]
		attrs := ""
		if opts.ShowVariables && e.Name != "" {
			attrs = fmt.Sprintf(" [label=%q, fontsize=10]", e.Name)
		}
		fmt.Fprintf(buf, "%s%q -> %q%s;\n", indent,
			qualify(t.Name, e.From), qualify(t.Name, e.To), attrs)
	}

	for _, child := range t.Children {
		writeTree(buf, child, opts, depth+1)
		// Tie the scenario node to its expansion.
		if anchor, ok := firstNodeID(child); ok {
			fmt.Fprintf(buf, "%s%q -> %q [style=dotted, arrowhead=none, lhead=\"cluster_%s\"];\n",
				indent, qualify(t.Name, child.NodeID), qualify(child.Name, anchor), child.Name)
		}
	}

	if depth > 1 {
		fmt.Fprintf(buf, "%s}\n", strings.Repeat("  ", depth))
	}
}

func firstNodeID(t *xdsm.Tree) (string, bool) {
	if len(t.Diagram.Nodes) == 0 {
		return "", false
	}
	return t.Diagram.Nodes[0].ID, true
}

func nodeAttrs(n *xdsm.Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.DisplayName())}

	switch n.Type {
	case xdsm.TypeOptimization:
		attrs = append(attrs, "shape=ellipse", "fillcolor=lightyellow")
	case xdsm.TypeMDA:
		attrs = append(attrs, "shape=hexagon", "fillcolor=lightblue")
	case xdsm.TypeMDO:
		attrs = append(attrs, "shape=box3d", "fillcolor=lavender")
	}

	if opts.Statuses && n.Status != "" {
		switch n.Status {
		case xdsm.StatusRunning:
			attrs = append(attrs, "color=orange", "penwidth=2")
		case xdsm.StatusDone:
			attrs = append(attrs, "color=green", "penwidth=2")
		case xdsm.StatusFailed:
			attrs = append(attrs, "color=red", "penwidth=2")
		}
	}

	return attrs
}
