package traverse

import (
	"context"
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/vietddude/glossary/internal/core/domain"
	"github.com/vietddude/glossary/internal/infra/storage/memory"
)

// For any folder tree, traversal returns every document exactly once,
// labelled with its immediate parent folder (no label at the root).
func TestTraverse_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ws := memory.NewWorkspace()
		root := ws.AddFolder("", "root")

		type folderRef struct{ id, name string }
		folders := []folderRef{{root, domain.NoLabel}}
		want := map[string]string{}

		n := rapid.IntRange(0, 40).Draw(rt, "nodes")
		for i := 0; i < n; i++ {
			parent := rapid.SampledFrom(folders).Draw(rt, fmt.Sprintf("parent_%d", i))
			if rapid.Bool().Draw(rt, fmt.Sprintf("isFolder_%d", i)) {
				name := fmt.Sprintf("F%d", i)
				folders = append(folders, folderRef{ws.AddFolder(parent.id, name), name})
				continue
			}
			id := ws.AddDocument(parent.id, fmt.Sprintf("D%d", i), "")
			want[id] = parent.name
		}

		items, err := newTraverser(ws).Traverse(context.Background(), root, domain.NoLabel)
		if err != nil {
			rt.Fatalf("Traverse failed: %v", err)
		}
		if len(items) != len(want) {
			rt.Fatalf("got %d items, want %d", len(items), len(want))
		}
		for _, it := range items {
			label, ok := want[it.ID]
			if !ok {
				rt.Fatalf("unexpected or duplicate item %s", it.ID)
			}
			if it.Label != label {
				rt.Fatalf("item %s label = %q, want %q", it.Name, it.Label, label)
			}
			delete(want, it.ID)
		}
	})
}
