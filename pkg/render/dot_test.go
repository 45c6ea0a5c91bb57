package render

import (
	"strings"
	"testing"

	"github.com/mhertel/xdsmview/pkg/xdsm"
)

func testTree(t *testing.T) *xdsm.Tree {
	t.Helper()
	doc := xdsm.Document{
		"root": {
			Nodes: []xdsm.Node{
				{ID: "Opt", Name: "Optimizer", Type: xdsm.TypeOptimization},
				{ID: "Dis1", Name: "Aerodynamics", Type: xdsm.TypeAnalysis},
				{ID: "Dis2", Name: "Sub_scn-1-1", Type: xdsm.TypeMDO, SubXDSM: "Sub_scn-1-1"},
			},
			Edges: []xdsm.Edge{
				{From: xdsm.UserID, To: "Opt", Name: "x^(0)"},
				{From: "Opt", To: "Dis1", Name: "x"},
				{From: "Dis1", To: "Opt", Name: "f, g"},
			},
			Workflow: xdsm.Workflow{
				xdsm.Ref(xdsm.UserID),
				xdsm.Nested(xdsm.Ref("Opt"), xdsm.Nested(xdsm.Ref("Dis1"), xdsm.Ref("Dis2"))),
			},
		},
		"Sub_scn-1-1": {
			Nodes: []xdsm.Node{
				{ID: "Opt", Name: "Optimizer", Type: xdsm.TypeOptimization},
				{ID: "Dis1", Name: "Structure", Type: xdsm.TypeAnalysis},
			},
			Edges: []xdsm.Edge{
				{From: "Opt", To: "Dis1", Name: "x_1"},
			},
			Workflow: xdsm.Workflow{
				xdsm.Ref(xdsm.UserID),
				xdsm.Nested(xdsm.Ref("Opt"), xdsm.Nested(xdsm.Ref("Dis1"))),
			},
		},
	}
	tree, err := doc.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return tree
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testTree(t), Options{})

	for _, want := range []string{
		"digraph XDSM {",
		`"_U_" [shape=house`,
		`"root/Opt" [label="Optimizer", shape=ellipse`,
		`"root/Dis1" [label="Aerodynamics"]`,
		`"root/Dis2" [label="Sub_scn-1-1", shape=box3d`,
		`subgraph "cluster_Sub_scn-1-1" {`,
		`"Sub_scn-1-1/Opt"`,
		`"_U_" -> "root/Opt"`,
		`"root/Dis1" -> "root/Opt"`,
		`"Sub_scn-1-1/Opt" -> "Sub_scn-1-1/Dis1"`,
		// scenario node tied to its cluster
		`"root/Dis2" -> "Sub_scn-1-1/Opt" [style=dotted`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}

	// Bare edges by default
	if strings.Contains(dot, "label=\"x^(0)\"") {
		t.Error("edge labels should be omitted without ShowVariables")
	}
}

func TestToDOTShowVariables(t *testing.T) {
	dot := ToDOT(testTree(t), Options{ShowVariables: true})

	if !strings.Contains(dot, `label="x^(0)"`) {
		t.Errorf("DOT missing edge label:\n%s", dot)
	}
	if !strings.Contains(dot, `label="f, g"`) {
		t.Errorf("DOT missing multi-variable edge label:\n%s", dot)
	}
}

func TestToDOTStatuses(t *testing.T) {
	tree := testTree(t)
	tree.Diagram.Nodes[1].Status = xdsm.StatusRunning

	dot := ToDOT(tree, Options{Statuses: true})
	if !strings.Contains(dot, "color=orange") {
		t.Errorf("DOT missing status styling:\n%s", dot)
	}

	// Statuses are opt-in.
	dot = ToDOT(tree, Options{})
	if strings.Contains(dot, "color=orange") {
		t.Error("status styling should be opt-in")
	}
}
