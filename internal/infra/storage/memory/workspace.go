package memory

import (
	"context"
	"fmt"
	"html"
	"slices"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/vietddude/glossary/internal/core/domain"
)

// Paragraph is one paragraph of a document held by Workspace.
type Paragraph struct {
	Text  string
	Style string
}

type node struct {
	item     domain.ItemDescriptor
	parentID string
	text     string
	// paragraphs of documents created through Create, in render order.
	paragraphs []Paragraph
}

// Workspace is an in-memory file store that implements the Lister,
// DocumentCreator, DocumentReader, DocumentWriter and DocumentExporter ports. Listing returns
// children in insertion order.
type Workspace struct {
	nodes    map[string]*node
	children map[string][]string
	nextID   int
	mu       sync.Mutex
}

// NewWorkspace creates an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{
		nodes:    make(map[string]*node),
		children: make(map[string][]string),
	}
}

// AddFolder adds a folder under parentID ("" for the top level) and returns its id.
func (w *Workspace) AddFolder(parentID, name string) string {
	return w.add(parentID, name, domain.KindFolder, "")
}

// AddDocument adds a document with plain text content and returns its id.
func (w *Workspace) AddDocument(parentID, name, text string) string {
	return w.add(parentID, name, domain.KindDocument, text)
}

func (w *Workspace) add(parentID, name string, kind domain.Kind, text string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	id := fmt.Sprintf("item-%d", w.nextID)
	w.nodes[id] = &node{
		item:     domain.ItemDescriptor{ID: id, Name: name, Kind: kind},
		parentID: parentID,
		text:     text,
	}
	w.children[parentID] = append(w.children[parentID], id)
	return id
}

// List returns the children of parentID whose kind is in kinds (all kinds if empty).
func (w *Workspace) List(ctx context.Context, parentID string, kinds ...domain.Kind) ([]domain.ItemDescriptor, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []domain.ItemDescriptor
	for _, id := range w.children[parentID] {
		n := w.nodes[id]
		if len(kinds) == 0 || slices.Contains(kinds, n.item.Kind) {
			out = append(out, n.item)
		}
	}
	return out, nil
}

// FindByNameAndKind returns every item with the exact name and kind, oldest first.
func (w *Workspace) FindByNameAndKind(ctx context.Context, name string, kind domain.Kind) ([]domain.ItemDescriptor, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []domain.ItemDescriptor
	for i := 1; i <= w.nextID; i++ {
		n := w.nodes[fmt.Sprintf("item-%d", i)]
		if n != nil && n.item.Name == name && n.item.Kind == kind {
			out = append(out, n.item)
		}
	}
	return out, nil
}

func (w *Workspace) Create(ctx context.Context, title, mimeType string) (string, error) {
	if mimeType != domain.MimeTypeDocument {
		return "", fmt.Errorf("unsupported mime type %q", mimeType)
	}
	return w.AddDocument("", title, ""), nil
}

// GetBody returns one paragraph per line of the document text, or the
// written paragraphs for documents built through BatchUpdate.
func (w *Workspace) GetBody(ctx context.Context, documentID string) (*domain.Body, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, ok := w.nodes[documentID]
	if !ok || n.item.Kind != domain.KindDocument {
		return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}

	lines := strings.SplitAfter(n.text, "\n")
	if len(n.paragraphs) > 0 {
		lines = lines[:0]
		for _, p := range n.paragraphs {
			lines = append(lines, p.Text+"\n")
		}
	}

	body := &domain.Body{}
	for _, line := range lines {
		if line == "" {
			continue
		}
		body.Content = append(body.Content, domain.StructuralElement{
			Paragraph: &domain.Paragraph{Elements: []domain.ParagraphElement{
				{TextRun: &domain.TextRun{Content: line}},
			}},
		})
	}
	return body, nil
}

// BatchUpdate supports the operations the assembler emits: a single
// paragraph inserted at the anchor followed by a style over that paragraph.
func (w *Workspace) BatchUpdate(ctx context.Context, documentID string, ops []domain.StructuralOp) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, ok := w.nodes[documentID]
	if !ok || n.item.Kind != domain.KindDocument {
		return fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}

	paragraphs := slices.Clone(n.paragraphs)
	for _, op := range ops {
		switch {
		case op.InsertText != nil:
			if op.InsertText.Index != domain.AnchorIndex {
				return fmt.Errorf("insert at %d: only index %d is supported", op.InsertText.Index, domain.AnchorIndex)
			}
			text := strings.TrimSuffix(op.InsertText.Text, "\n")
			paragraphs = slices.Insert(paragraphs, 0, Paragraph{Text: text, Style: "NORMAL_TEXT"})
		case op.UpdateStyle != nil:
			if len(paragraphs) == 0 {
				return fmt.Errorf("style update on empty document %s", documentID)
			}
			want := domain.AnchorIndex + int64(len(utf16.Encode([]rune(paragraphs[0].Text))))
			if op.UpdateStyle.StartIndex != domain.AnchorIndex || op.UpdateStyle.EndIndex != want {
				return fmt.Errorf("style range [%d, %d) does not match first paragraph [%d, %d)",
					op.UpdateStyle.StartIndex, op.UpdateStyle.EndIndex, domain.AnchorIndex, want)
			}
			paragraphs[0].Style = op.UpdateStyle.NamedStyle
		}
	}
	n.paragraphs = paragraphs
	return nil
}

// Paragraphs returns the rendered paragraphs of a document, top to bottom.
func (w *Workspace) Paragraphs(documentID string) []Paragraph {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, ok := w.nodes[documentID]
	if !ok {
		return nil
	}
	return slices.Clone(n.paragraphs)
}

// Export renders written paragraphs as HTML. Only text/html is supported.
func (w *Workspace) Export(ctx context.Context, documentID, mimeType string) ([]byte, error) {
	if mimeType != "text/html" {
		return nil, fmt.Errorf("unsupported export type %q", mimeType)
	}

	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, p := range w.Paragraphs(documentID) {
		tag := "p"
		switch p.Style {
		case "HEADING_1":
			tag = "h1"
		case "HEADING_2":
			tag = "h2"
		}
		fmt.Fprintf(&sb, "<%s>%s</%s>", tag, html.EscapeString(p.Text), tag)
	}
	sb.WriteString("</body></html>")
	return []byte(sb.String()), nil
}
