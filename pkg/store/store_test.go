package store

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/stresslayout/pkg/errors"
	"github.com/matzehuels/stresslayout/pkg/graph"
)

func sampleLayout(id string) *graph.Layout {
	return &graph.Layout{
		ID: id,
		Nodes: []graph.Node{
			{ID: "a", X: 1, Y: 2, Meta: map[string]any{"group": "x"}},
			{ID: "b", X: 3, Y: 4},
			{ID: "c", X: 5, Y: 6},
		},
		Trace:         []float64{1.5, 0.25, 0},
		Iterations:    3,
		Converged:     true,
		Algorithm:     "generic",
		Weight:        "inverse-squared",
		Termination:   "epsilon",
		Epsilon:       1e-6,
		MaxIterations: 10000,
		DefaultTarget: 100,
	}
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleLayout("3f1c2a90-0000-4000-8000-000000000001")
			if err := st.Save(ctx, want); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			got, err := st.Get(ctx, want.ID)
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if diff := cmp.Diff(*want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Get() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoreReplace(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			l := sampleLayout("same")
			if err := st.Save(ctx, l); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			l.Iterations = 42
			if err := st.Save(ctx, l); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			got, err := st.Get(ctx, "same")
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if got.Iterations != 42 {
				t.Errorf("Iterations = %d, want 42", got.Iterations)
			}
		})
	}
}

func TestStoreNotFound(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Get(ctx, "missing")
			if !errors.Is(err, errors.ErrCodeLayoutNotFound) {
				t.Errorf("Get(missing) error = %v, want LAYOUT_NOT_FOUND", err)
			}
			if err := st.Delete(ctx, "missing"); err != nil {
				t.Errorf("Delete(missing) error: %v", err)
			}
		})
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.Save(ctx, sampleLayout("gone")); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			if err := st.Delete(ctx, "gone"); err != nil {
				t.Fatalf("Delete() error: %v", err)
			}
			if _, err := st.Get(ctx, "gone"); !errors.Is(err, errors.ErrCodeLayoutNotFound) {
				t.Errorf("Get() after Delete error = %v, want LAYOUT_NOT_FOUND", err)
			}
		})
	}
}

func TestStoreRequiresID(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.Save(ctx, sampleLayout("")); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Save(no id) error = %v, want INVALID_INPUT", err)
			}
			if err := st.Save(ctx, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Save(nil) error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	l := sampleLayout("copy")
	if err := st.Save(ctx, l); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	l.Nodes[0].X = 999
	l.Nodes[0].Meta["group"] = "changed"

	got, _ := st.Get(ctx, "copy")
	if got.Nodes[0].X != 1 {
		t.Errorf("stored X = %v, want 1", got.Nodes[0].X)
	}
	if got.Nodes[0].Meta["group"] != "x" {
		t.Errorf("stored meta = %v, want x", got.Nodes[0].Meta["group"])
	}
	if st.Len() != 1 {
		t.Errorf("Len() = %d, want 1", st.Len())
	}
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	ctx := context.Background()
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	if err := st.Save(ctx, sampleLayout("../escape")); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Save(../escape) error = %v, want INVALID_PATH", err)
	}
	if _, err := st.Get(ctx, "../escape"); !errors.Is(err, errors.ErrCodeLayoutNotFound) {
		t.Errorf("Get(../escape) error = %v, want LAYOUT_NOT_FOUND", err)
	}
}
