package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mhertel/xdsmview/pkg/cache"
	"github.com/mhertel/xdsmview/pkg/xdsm"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"dot", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"dot", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Path: "doc.json"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	if opts.Root != xdsm.RootName {
		t.Errorf("Root should default to %q, got %q", xdsm.RootName, opts.Root)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should default to [svg], got %v", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateForLoad(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Missing path and name should fail")
	}

	opts = Options{Name: "sellar"}
	if err := opts.ValidateForLoad(); err != nil {
		t.Errorf("Name-only options should pass: %v", err)
	}
}

func TestOptionsInvalidFormat(t *testing.T) {
	opts := Options{Path: "doc.json", Formats: []string{"pdf"}}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("Unsupported format should fail")
	}
}

func writeTestDocument(t *testing.T) string {
	t.Helper()

	doc := xdsm.Document{
		"root": &xdsm.Diagram{
			Nodes: []xdsm.Node{
				{ID: "Opt", Name: "Optimizer", Type: xdsm.TypeOptimization},
				{ID: "Dis1", Name: "Discipline 1", Type: xdsm.TypeAnalysis},
				{ID: "Dis2", Name: "Scenario", Type: xdsm.TypeMDO, SubXDSM: "Sub_scn-1-1"},
			},
			Edges: []xdsm.Edge{
				{From: "Opt", To: "Dis1", Name: "x"},
				{From: "Dis1", To: "Opt", Name: "y"},
			},
			Workflow: xdsm.Workflow{
				xdsm.Ref(xdsm.UserID),
				xdsm.Nested(xdsm.Ref("Opt"), xdsm.Ref("Dis1"), xdsm.Ref("Dis2")),
			},
		},
		"Sub_scn-1-1": &xdsm.Diagram{
			Nodes: []xdsm.Node{
				{ID: "Dis3", Name: "Inner", Type: xdsm.TypeAnalysis},
			},
			Edges:    []xdsm.Edge{},
			Workflow: xdsm.Workflow{xdsm.Ref(xdsm.UserID), xdsm.Nested(xdsm.Ref("Dis3"))},
		},
	}

	path := filepath.Join(t.TempDir(), "doc.json")
	if err := xdsm.WriteFile(doc, path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestRunnerExecute(t *testing.T) {
	path := writeTestDocument(t)

	runner := NewRunner(cache.NewNullCache(), nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Path:    path,
		Formats: []string{FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID should be set")
	}
	if result.DocumentHash == "" {
		t.Error("DocumentHash should be set")
	}
	if result.Stats.DiagramCount != 2 {
		t.Errorf("DiagramCount = %d, want 2", result.Stats.DiagramCount)
	}
	if result.Stats.Depth != 2 {
		t.Errorf("Depth = %d, want 2", result.Stats.Depth)
	}
	if len(result.Artifacts[FormatDOT]) == 0 {
		t.Error("DOT artifact should be non-empty")
	}
	if len(result.Artifacts[FormatJSON]) == 0 {
		t.Error("JSON artifact should be non-empty")
	}
	if result.CacheInfo.RenderHit {
		t.Error("First run should not hit the cache")
	}
}

func TestRunnerExecuteCacheHit(t *testing.T) {
	path := writeTestDocument(t)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	runner := NewRunner(fc, nil)
	defer runner.Close()

	opts := Options{Path: path, Formats: []string{FormatDOT}}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() first run error = %v", err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("First run should miss the cache")
	}

	second, err := runner.Execute(context.Background(), Options{Path: path, Formats: []string{FormatDOT}})
	if err != nil {
		t.Fatalf("Execute() second run error = %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("Second run should hit the cache")
	}
	if string(first.Artifacts[FormatDOT]) != string(second.Artifacts[FormatDOT]) {
		t.Error("Cached artifact should match the rendered one")
	}
}

func TestRunnerExecuteMissingFile(t *testing.T) {
	runner := NewRunner(nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{
		Path:    filepath.Join(t.TempDir(), "missing.json"),
		Formats: []string{FormatDOT},
	})
	if err == nil {
		t.Error("Missing file should fail")
	}
}
