// Package export converts the assembled glossary to Markdown.
package export

import (
	"context"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/vietddude/glossary/internal/core/domain"
	"github.com/vietddude/glossary/internal/infra/retry"
)

const htmlMimeType = "text/html"

// MarkdownExporter downloads a document as HTML and converts it to Markdown.
type MarkdownExporter struct {
	source    domain.DocumentExporter
	exec      *retry.Executor
	converter *md.Converter
}

// NewMarkdownExporter creates a MarkdownExporter.
func NewMarkdownExporter(source domain.DocumentExporter, exec *retry.Executor) *MarkdownExporter {
	return &MarkdownExporter{
		source:    source,
		exec:      exec,
		converter: md.NewConverter("", true, nil),
	}
}

// Export returns the Markdown rendering of documentID.
func (e *MarkdownExporter) Export(ctx context.Context, documentID string) (string, error) {
	body, err := retry.Do(ctx, e.exec, "drive.export", func(ctx context.Context) ([]byte, error) {
		return e.source.Export(ctx, documentID, htmlMimeType)
	})
	if err != nil {
		return "", fmt.Errorf("export document %s: %w", documentID, err)
	}

	markdown, err := e.converter.ConvertString(string(body))
	if err != nil {
		return "", fmt.Errorf("converting %s to markdown: %w", documentID, err)
	}
	return strings.TrimSpace(markdown) + "\n", nil
}
