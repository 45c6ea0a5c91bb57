package dsm

import (
	"reflect"
	"testing"

	"github.com/mhertel/xdsmview/pkg/xdsm"
)

// coupledDiagram builds a diagram with two mutually coupled disciplines
// feeding an objective chain, the classic MDA shape.
func coupledDiagram() *xdsm.Diagram {
	return &xdsm.Diagram{
		Nodes: []xdsm.Node{
			{ID: "Opt", Type: xdsm.TypeOptimization},
			{ID: "Dis1", Type: xdsm.TypeAnalysis},
			{ID: "Dis2", Type: xdsm.TypeAnalysis},
			{ID: "Dis3", Type: xdsm.TypeAnalysis},
		},
		Edges: []xdsm.Edge{
			{From: xdsm.UserID, To: "Opt", Name: "x^(0)"},
			{From: "Opt", To: "Dis1", Name: "x_1"},
			{From: "Dis1", To: "Dis2", Name: "y_12"},
			{From: "Dis2", To: "Dis1", Name: "y_21"},
			{From: "Dis2", To: "Dis3", Name: "y_23"},
			{From: "Dis3", To: "Opt", Name: "f, g"},
			{From: "Dis3", To: xdsm.UserID, Name: "f^*"},
		},
		Workflow: xdsm.Workflow{
			xdsm.Ref(xdsm.UserID),
			xdsm.Nested(
				xdsm.Ref("Opt"),
				xdsm.Nested(xdsm.Ref("Dis1"), xdsm.Ref("Dis2"), xdsm.Ref("Dis3")),
			),
		},
	}
}

func TestBuildOrder(t *testing.T) {
	tests := []struct {
		name    string
		diagram *xdsm.Diagram
		want    []string
	}{
		{
			name:    "WorkflowOrder",
			diagram: coupledDiagram(),
			want:    []string{"Opt", "Dis1", "Dis2", "Dis3"},
		},
		{
			name: "NodesOutsideWorkflowAppended",
			diagram: &xdsm.Diagram{
				Nodes: []xdsm.Node{{ID: "A"}, {ID: "B"}},
				Workflow: xdsm.Workflow{
					xdsm.Ref(xdsm.UserID),
					xdsm.Nested(xdsm.Ref("B")),
				},
			},
			want: []string{"B", "A"},
		},
		{
			name: "NoWorkflow",
			diagram: &xdsm.Diagram{
				Nodes: []xdsm.Node{{ID: "A"}, {ID: "B"}},
			},
			want: []string{"A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Build(tt.diagram)
			if got := m.IDs(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCells(t *testing.T) {
	m := Build(coupledDiagram())

	if got := m.Variables("Dis1", "Dis2"); !reflect.DeepEqual(got, []string{"y_12"}) {
		t.Errorf("Dis1->Dis2 = %v", got)
	}
	if m.HasCoupling("Opt", "Dis3") {
		t.Error("Opt->Dis3 should be empty")
	}
	// User-boundary edges stay out of the matrix.
	if m.HasCoupling(xdsm.UserID, "Opt") || m.HasCoupling("Dis3", xdsm.UserID) {
		t.Error("user boundary must not appear in cells")
	}
}

func TestDuplicateEdgesMerge(t *testing.T) {
	dg := &xdsm.Diagram{
		Nodes: []xdsm.Node{{ID: "A"}, {ID: "B"}},
		Edges: []xdsm.Edge{
			{From: "A", To: "B", Name: "y_1, y_2"},
			{From: "A", To: "B", Name: "y_1"}, // duplicate pair, repeated payload
		},
	}

	m := Build(dg)
	want := []string{"y_1", "y_2", "y_1"}
	if got := m.Variables("A", "B"); !reflect.DeepEqual(got, want) {
		t.Errorf("variables = %v, want %v", got, want)
	}
}

func TestFeedback(t *testing.T) {
	m := Build(coupledDiagram())

	fb := m.Feedback()
	// Dis2->Dis1 and Dis3->Opt run against the matrix order.
	if len(fb) != 2 {
		t.Fatalf("feedback = %d couplings, want 2 (%v)", len(fb), fb)
	}
	got := map[string]bool{}
	for _, c := range fb {
		got[c.From+"->"+c.To] = true
	}
	if !got["Dis2->Dis1"] || !got["Dis3->Opt"] {
		t.Errorf("feedback pairs = %v", got)
	}
}

func TestLoops(t *testing.T) {
	tests := []struct {
		name    string
		diagram *xdsm.Diagram
		want    [][]string
	}{
		{
			name:    "CoupledPair",
			diagram: coupledDiagram(),
			// Opt->Dis1->Dis2->Dis3->Opt closes through Dis2->Dis1 into a
			// single component containing all four steps.
			want: [][]string{{"Opt", "Dis1", "Dis2", "Dis3"}},
		},
		{
			name: "Acyclic",
			diagram: &xdsm.Diagram{
				Nodes: []xdsm.Node{{ID: "A"}, {ID: "B"}},
				Edges: []xdsm.Edge{{From: "A", To: "B", Name: "y"}},
			},
			want: nil,
		},
		{
			name: "SelfCoupling",
			diagram: &xdsm.Diagram{
				Nodes: []xdsm.Node{{ID: "A"}},
				Edges: []xdsm.Edge{{From: "A", To: "A", Name: "y"}},
			},
			want: [][]string{{"A"}},
		},
		{
			name: "IsolatedPairLoop",
			diagram: &xdsm.Diagram{
				Nodes: []xdsm.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}},
				Edges: []xdsm.Edge{
					{From: "A", To: "B", Name: "y_ab"},
					{From: "B", To: "A", Name: "y_ba"},
					{From: "B", To: "C", Name: "y_bc"},
				},
			},
			want: [][]string{{"A", "B"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.diagram).Loops()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("loops = %v, want %v", got, tt.want)
			}
		})
	}
}
