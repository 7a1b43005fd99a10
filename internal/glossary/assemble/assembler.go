// Package assemble writes entries into the output document.
package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf16"

	"github.com/vietddude/glossary/internal/core/domain"
	"github.com/vietddude/glossary/internal/infra/retry"
)

// Assembler creates the output document and prepends entries to it.
type Assembler struct {
	creator domain.DocumentCreator
	writer  domain.DocumentWriter
	exec    *retry.Executor
	title   string
	log     *slog.Logger
}

// NewAssembler creates an Assembler for a document named title.
func NewAssembler(creator domain.DocumentCreator, writer domain.DocumentWriter, exec *retry.Executor, title string, log *slog.Logger) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	return &Assembler{
		creator: creator,
		writer:  writer,
		exec:    exec,
		title:   title,
		log:     log.With("component", "assembler"),
	}
}

// Title returns the configured document title.
func (a *Assembler) Title() string {
	return a.title
}

// WithTitle returns a copy of a that creates documents named title.
func (a *Assembler) WithTitle(title string) *Assembler {
	cp := *a
	cp.title = title
	return &cp
}

// Create makes an empty output document and returns its id.
func (a *Assembler) Create(ctx context.Context) (string, error) {
	id, err := retry.Do(ctx, a.exec, "drive.create", func(ctx context.Context) (string, error) {
		return a.creator.Create(ctx, a.title, domain.MimeTypeDocument)
	})
	if err != nil {
		return "", fmt.Errorf("create document %q: %w", a.title, err)
	}
	a.log.Info("Created output document", "title", a.title, "document_id", id)
	return id, nil
}

// AppendEntry inserts text as a new paragraph at the anchor and styles it.
// Both operations are sent in one batch.
func (a *Assembler) AppendEntry(ctx context.Context, docID, text string, level domain.HeadingLevel) (bool, error) {
	ops := BuildRequests(text, level)
	_, err := retry.Do(ctx, a.exec, "docs.batch_update", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.writer.BatchUpdate(ctx, docID, ops)
	})
	if err != nil {
		return false, fmt.Errorf("append entry to %s: %w", docID, err)
	}
	return true, nil
}

// BuildRequests returns the insert and style operations for one entry.
// The style range covers text without its trailing newline, measured in
// UTF-16 code units.
func BuildRequests(text string, level domain.HeadingLevel) []domain.StructuralOp {
	end := domain.AnchorIndex + int64(UTF16Len(text))
	return []domain.StructuralOp{
		{InsertText: &domain.InsertText{
			Index: domain.AnchorIndex,
			Text:  text + "\n",
		}},
		{UpdateStyle: &domain.UpdateParagraphStyle{
			StartIndex: domain.AnchorIndex,
			EndIndex:   end,
			NamedStyle: NamedStyle(level),
		}},
	}
}

// NamedStyle maps a heading level to a named paragraph style.
func NamedStyle(level domain.HeadingLevel) string {
	if level == domain.HeadingNone {
		return "NORMAL_TEXT"
	}
	return fmt.Sprintf("HEADING_%d", level)
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
