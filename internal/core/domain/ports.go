package domain

import "context"

// Lister queries the hierarchical file store.
type Lister interface {
	// List returns the immediate children of parentID restricted to kinds.
	List(ctx context.Context, parentID string, kinds ...Kind) ([]ItemDescriptor, error)

	// FindByNameAndKind returns every item with exactly this name and kind.
	FindByNameAndKind(ctx context.Context, name string, kind Kind) ([]ItemDescriptor, error)
}

// DocumentCreator creates new documents in the file store.
type DocumentCreator interface {
	Create(ctx context.Context, title, mimeType string) (string, error)
}

// DocumentReader reads structured document content.
type DocumentReader interface {
	GetBody(ctx context.Context, documentID string) (*Body, error)
}

// DocumentWriter applies structural operations as one atomic batch.
type DocumentWriter interface {
	BatchUpdate(ctx context.Context, documentID string, ops []StructuralOp) error
}

// DocumentExporter renders a document in another format, e.g. text/html.
type DocumentExporter interface {
	Export(ctx context.Context, documentID, mimeType string) ([]byte, error)
}

// TextGenerator turns a prompt into generated text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
