// Package summary turns a document into a short generated summary.
package summary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vietddude/glossary/internal/core/domain"
	"github.com/vietddude/glossary/internal/infra/retry"
)

// Generator reads a document and asks a TextGenerator to summarize it.
type Generator struct {
	reader         domain.DocumentReader
	model          domain.TextGenerator
	exec           *retry.Executor
	maxSourceChars int
	log            *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithMaxSourceChars truncates source text longer than n characters.
// Zero disables truncation.
func WithMaxSourceChars(n int) Option {
	return func(g *Generator) {
		g.maxSourceChars = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// NewGenerator creates a Generator.
func NewGenerator(reader domain.DocumentReader, model domain.TextGenerator, exec *retry.Executor, opts ...Option) *Generator {
	g := &Generator{
		reader: reader,
		model:  model,
		exec:   exec,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With("component", "summary")
	return g
}

// Generate returns the indented summary of the document itemID.
func (g *Generator) Generate(ctx context.Context, itemID string) (string, error) {
	body, err := retry.Do(ctx, g.exec, "docs.get", func(ctx context.Context) (*domain.Body, error) {
		return g.reader.GetBody(ctx, itemID)
	})
	if err != nil {
		return "", fmt.Errorf("read document %s: %w", itemID, err)
	}

	text := g.truncate(itemID, ExtractText(body))
	prompt := BuildPrompt(text)

	resp, err := retry.Do(ctx, g.exec, "genai.generate", func(ctx context.Context) (string, error) {
		return g.model.Generate(ctx, prompt)
	})
	if err != nil {
		return "", fmt.Errorf("summarize document %s: %w", itemID, err)
	}

	return Indent + resp, nil
}

func (g *Generator) truncate(itemID, text string) string {
	if g.maxSourceChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= g.maxSourceChars {
		return text
	}
	g.log.Warn("Source text too long, truncating",
		"document_id", itemID,
		"chars", len(runes),
		"max_chars", g.maxSourceChars,
	)
	return string(runes[:g.maxSourceChars])
}
