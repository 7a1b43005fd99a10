package assemble

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vietddude/glossary/internal/core/domain"
	"github.com/vietddude/glossary/internal/infra/retry"
)

type stubDocs struct {
	title    string
	mimeType string
	batches  [][]domain.StructuralOp
	err      error
}

func (s *stubDocs) Create(_ context.Context, title, mimeType string) (string, error) {
	s.title, s.mimeType = title, mimeType
	return "doc-1", nil
}

func (s *stubDocs) BatchUpdate(_ context.Context, _ string, ops []domain.StructuralOp) error {
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, ops)
	return nil
}

func newExecutor() *retry.Executor {
	return retry.NewExecutor(retry.DefaultConfig, retry.WithSleep(func(context.Context, time.Duration) error { return nil }))
}

func TestBuildRequests(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		level domain.HeadingLevel
		end   int64
		style string
	}{
		{"normal", "\tA summary.", domain.HeadingNone, 12, "NORMAL_TEXT"},
		{"heading2", "Vel [Towns]", domain.Heading2, 12, "HEADING_2"},
		{"heading1", "Okarthel Lore Glossary", domain.Heading1, 23, "HEADING_1"},
		{"surrogate pair", "Rune 🜂", domain.Heading2, 8, "HEADING_2"},
		{"empty", "", domain.HeadingNone, 1, "NORMAL_TEXT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := BuildRequests(tt.text, tt.level)
			if len(ops) != 2 {
				t.Fatalf("expected 2 ops, got %d", len(ops))
			}

			ins := ops[0].InsertText
			if ins == nil || ins.Index != 1 || ins.Text != tt.text+"\n" {
				t.Errorf("unexpected insert: %+v", ins)
			}

			st := ops[1].UpdateStyle
			if st == nil || st.StartIndex != 1 || st.EndIndex != tt.end || st.NamedStyle != tt.style {
				t.Errorf("unexpected style: %+v", st)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	d := &stubDocs{}
	a := NewAssembler(d, d, newExecutor(), "Okarthel Lore Glossary", nil)

	id, err := a.Create(context.Background())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id != "doc-1" || d.title != "Okarthel Lore Glossary" || d.mimeType != domain.MimeTypeDocument {
		t.Errorf("unexpected create: id=%s title=%s mime=%s", id, d.title, d.mimeType)
	}
}

func TestAppendEntry(t *testing.T) {
	d := &stubDocs{}
	a := NewAssembler(d, d, newExecutor(), "T", nil)

	ok, err := a.AppendEntry(context.Background(), "doc-1", "Vel", domain.Heading2)
	if err != nil || !ok {
		t.Fatalf("AppendEntry = %v, %v", ok, err)
	}
	if len(d.batches) != 1 || len(d.batches[0]) != 2 {
		t.Fatalf("expected one batch of two ops, got %+v", d.batches)
	}
}

func TestAppendEntry_Fatal(t *testing.T) {
	boom := errors.New("document deleted")
	d := &stubDocs{err: boom}
	a := NewAssembler(d, d, newExecutor(), "T", nil)

	ok, err := a.AppendEntry(context.Background(), "doc-1", "Vel", domain.Heading2)
	if ok || !errors.Is(err, boom) {
		t.Fatalf("AppendEntry = %v, %v", ok, err)
	}
}
