package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockClient returns a deterministic summary without calling a remote model.
type MockClient struct{}

// NewMockClient creates a MockClient.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Generate echoes the first sentence of the source text found after the
// prompt instructions.
func (m *MockClient) Generate(_ context.Context, prompt string) (string, error) {
	source := prompt
	if i := strings.LastIndex(prompt, "\n\n"); i >= 0 {
		source = prompt[i+2:]
	}
	source = strings.TrimSpace(source)
	if i := strings.IndexAny(source, ".!?\n"); i >= 0 {
		source = source[:i+1]
	}
	return fmt.Sprintf("Summary: %s", strings.TrimSpace(source)), nil
}
