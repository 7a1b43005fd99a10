package pipeline

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/vietddude/glossary/internal/core/domain"
)

// For any list of items, SortDescending yields a permutation ordered by
// display name, descending, with ties in their original order.
func TestSortDescending_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := []string{"Alpha", "Beta", "Gamma", "Vel", "vel", "Ärn", ""}
		labels := []string{domain.NoLabel, "Towns", "Items"}

		n := rapid.IntRange(0, 30).Draw(rt, "n")
		items := make([]domain.ItemDescriptor, n)
		for i := range items {
			items[i] = domain.ItemDescriptor{
				ID:    fmt.Sprintf("id-%d", i),
				Name:  rapid.SampledFrom(names).Draw(rt, fmt.Sprintf("name_%d", i)),
				Label: rapid.SampledFrom(labels).Draw(rt, fmt.Sprintf("label_%d", i)),
				Kind:  domain.KindDocument,
			}
		}

		sorted := make([]domain.ItemDescriptor, n)
		copy(sorted, items)
		SortDescending(sorted)

		orig := make(map[string]int, n)
		seen := make(map[string]bool, n)
		for i, it := range items {
			orig[it.ID] = i
			seen[it.ID] = true
		}
		for i := range sorted {
			if _, ok := seen[sorted[i].ID]; !ok {
				rt.Fatalf("unknown item %s after sort", sorted[i].ID)
			}
			delete(seen, sorted[i].ID)
			if i == 0 {
				continue
			}
			prev, cur := sorted[i-1], sorted[i]
			if prev.DisplayName() < cur.DisplayName() {
				rt.Fatalf("not descending at %d: %q < %q", i, prev.DisplayName(), cur.DisplayName())
			}
			if prev.DisplayName() == cur.DisplayName() && orig[prev.ID] > orig[cur.ID] {
				rt.Fatalf("equal names reordered at %d: %s before %s", i, prev.ID, cur.ID)
			}
		}
		if len(seen) != 0 {
			rt.Fatalf("items lost during sort: %v", seen)
		}
	})
}
