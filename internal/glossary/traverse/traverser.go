// Package traverse discovers documents below a root folder.
package traverse

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/glossary/internal/core/domain"
	"github.com/vietddude/glossary/internal/glossary/metrics"
	"github.com/vietddude/glossary/internal/infra/retry"
)

// Traverser walks a folder tree through a Lister.
type Traverser struct {
	lister domain.Lister
	exec   *retry.Executor
	log    *slog.Logger
}

// NewTraverser creates a Traverser. Every listing call runs under exec.
func NewTraverser(lister domain.Lister, exec *retry.Executor, log *slog.Logger) *Traverser {
	if log == nil {
		log = slog.Default()
	}
	return &Traverser{
		lister: lister,
		exec:   exec,
		log:    log.With("component", "traverser"),
	}
}

// ResolveRoot returns the id of the first folder named name.
func (t *Traverser) ResolveRoot(ctx context.Context, name string) (string, error) {
	matches, err := retry.Do(ctx, t.exec, "drive.find_folder", func(ctx context.Context) ([]domain.ItemDescriptor, error) {
		return t.lister.FindByNameAndKind(ctx, name, domain.KindFolder)
	})
	if err != nil {
		return "", fmt.Errorf("resolve root folder %q: %w", name, err)
	}
	if len(matches) == 0 {
		t.log.Warn("No folder found with name", "folder", name)
		return "", fmt.Errorf("folder %q: %w", name, domain.ErrNotFound)
	}
	if len(matches) > 1 {
		t.log.Debug("Multiple folders share the root name, using first", "folder", name, "matches", len(matches))
	}
	return matches[0].ID, nil
}

type frame struct {
	folderID string
	label    string
	// pending holds listed children not yet visited, in listing order.
	pending []domain.ItemDescriptor
	listed  bool
}

// Traverse lists every document below folderID.
//
// The result matches a recursive depth-first walk in native listing order:
// a subfolder's documents appear where the subfolder was listed. Documents
// directly inside folderID carry label; documents deeper carry the name of
// their immediate parent folder. An empty folderID yields no items.
func (t *Traverser) Traverse(ctx context.Context, folderID, label string) ([]domain.ItemDescriptor, error) {
	var items []domain.ItemDescriptor
	if folderID == "" {
		return items, nil
	}

	stack := []*frame{{folderID: folderID, label: label}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		top := stack[len(stack)-1]
		if !top.listed {
			children, err := retry.Do(ctx, t.exec, "drive.list", func(ctx context.Context) ([]domain.ItemDescriptor, error) {
				return t.lister.List(ctx, top.folderID, domain.KindDocument, domain.KindFolder)
			})
			if err != nil {
				return nil, fmt.Errorf("list folder %s: %w", top.folderID, err)
			}
			top.pending = children
			top.listed = true
		}

		if len(top.pending) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		child := top.pending[0]
		top.pending = top.pending[1:]

		switch child.Kind {
		case domain.KindFolder:
			stack = append(stack, &frame{folderID: child.ID, label: child.Name})
		case domain.KindDocument:
			item := child.WithLabel(top.label)
			items = append(items, item)
			metrics.ItemsDiscovered.Inc()
			t.log.Info("Added item", "item", item.DisplayName())
		}
	}

	return items, nil
}
