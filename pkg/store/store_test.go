package store

import (
	"context"
	"reflect"
	"testing"

	apperrors "github.com/mhertel/xdsmview/pkg/errors"
	"github.com/mhertel/xdsmview/pkg/xdsm"
)

func testDocument() xdsm.Document {
	return xdsm.Document{
		"root": &xdsm.Diagram{
			Nodes: []xdsm.Node{
				{ID: "Opt", Name: "Optimizer", Type: xdsm.TypeOptimization},
				{ID: "Dis1", Name: "Discipline", Type: xdsm.TypeAnalysis},
			},
			Edges: []xdsm.Edge{
				{From: "Opt", To: "Dis1", Name: "x"},
			},
			Workflow: xdsm.Workflow{
				xdsm.Ref(xdsm.UserID),
				xdsm.Nested(xdsm.Ref("Opt"), xdsm.Ref("Dis1")),
			},
		},
	}
}

func TestMemoryStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	doc := testDocument()
	if err := s.Put(ctx, "sellar", doc); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, "sellar")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("Get() = %+v, want %+v", got, doc)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "nope")
	if !apperrors.Is(err, apperrors.ErrCodeDocumentNotFound) {
		t.Errorf("Get() error = %v, want code %s", err, apperrors.ErrCodeDocumentNotFound)
	}
}

func TestMemoryStorePutInvalidName(t *testing.T) {
	s := NewMemoryStore()

	err := s.Put(context.Background(), "../escape", testDocument())
	if err == nil {
		t.Fatal("Put() with invalid name should fail")
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	doc := testDocument()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Put(ctx, name, doc); err != nil {
			t.Fatalf("Put(%q) error = %v", name, err)
		}
	}

	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Put(ctx, "doc", testDocument()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Delete(ctx, "doc"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "doc"); !apperrors.Is(err, apperrors.ErrCodeDocumentNotFound) {
		t.Errorf("Get() after delete error = %v, want code %s", err, apperrors.ErrCodeDocumentNotFound)
	}

	// Deleting a missing document is not an error.
	if err := s.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete() of missing document error = %v", err)
	}
}
