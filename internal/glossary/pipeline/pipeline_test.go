package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vietddude/glossary/internal/core/domain"
	"github.com/vietddude/glossary/internal/glossary/assemble"
	"github.com/vietddude/glossary/internal/glossary/summary"
	"github.com/vietddude/glossary/internal/glossary/traverse"
	"github.com/vietddude/glossary/internal/infra/retry"
	"github.com/vietddude/glossary/internal/infra/storage/memory"
)

type echoModel struct {
	calls int
	err   error
}

func (m *echoModel) Generate(_ context.Context, prompt string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	i := strings.LastIndex(prompt, "\n\n")
	return "about " + strings.TrimSpace(prompt[i+2:]), nil
}

func newPipeline(ws *memory.Workspace, model domain.TextGenerator) *Pipeline {
	exec := retry.NewExecutor(retry.DefaultConfig, retry.WithSleep(func(context.Context, time.Duration) error { return nil }))
	return NewPipeline(
		traverse.NewTraverser(ws, exec, nil),
		summary.NewGenerator(ws, model, exec),
		assemble.NewAssembler(ws, ws, exec, "Okarthel Lore Glossary", nil),
		nil,
	)
}

func TestSortDescending(t *testing.T) {
	items := []domain.ItemDescriptor{
		{ID: "1", Name: "Alpha"},
		{ID: "2", Name: "Gamma"},
		{ID: "3", Name: "Beta"},
		{ID: "4", Name: "Beta"},
	}
	SortDescending(items)

	var got []string
	for _, it := range items {
		got = append(got, it.ID)
	}
	if strings.Join(got, ",") != "2,3,4,1" {
		t.Errorf("order = %v, want [2 3 4 1]", got)
	}
}

func TestRun_WritesGlossaryInDisplayOrder(t *testing.T) {
	ws := memory.NewWorkspace()
	root := ws.AddFolder("", "Okarthel")
	ws.AddDocument(root, "Beta", "Beta text.\n")
	towns := ws.AddFolder(root, "Towns")
	ws.AddDocument(towns, "Vel", "Vel text.\n")
	ws.AddDocument(root, "Alpha", "Alpha text.\n")

	model := &echoModel{}
	p := newPipeline(ws, model)

	res, err := p.Run(context.Background(), Config{RootFolder: "Okarthel"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Items) != 3 || model.calls != 3 {
		t.Fatalf("expected 3 items and 3 generations, got %d and %d", len(res.Items), model.calls)
	}

	got := ws.Paragraphs(res.DocumentID)
	want := []memory.Paragraph{
		{Text: "Okarthel Lore Glossary", Style: "HEADING_1"},
		{Text: "Alpha", Style: "HEADING_2"},
		{Text: "\tabout Alpha text.", Style: "NORMAL_TEXT"},
		{Text: "Beta", Style: "HEADING_2"},
		{Text: "\tabout Beta text.", Style: "NORMAL_TEXT"},
		{Text: "Vel [Towns]", Style: "HEADING_2"},
		{Text: "\tabout Vel text.", Style: "NORMAL_TEXT"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	st := p.Status()
	if st.State != StateDone || st.Processed != 3 || st.Total != 3 {
		t.Errorf("unexpected status: %+v", st)
	}
}

func TestRun_MissingRootProducesTitleOnly(t *testing.T) {
	ws := memory.NewWorkspace()
	model := &echoModel{}
	p := newPipeline(ws, model)

	res, err := p.Run(context.Background(), Config{RootFolder: "Nowhere", Title: "Empty Glossary"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.RootFolderID != "" || len(res.Items) != 0 || model.calls != 0 {
		t.Errorf("expected empty run, got %+v with %d calls", res, model.calls)
	}

	got := ws.Paragraphs(res.DocumentID)
	if len(got) != 1 || got[0].Text != "Empty Glossary" || got[0].Style != "HEADING_1" {
		t.Errorf("unexpected document: %+v", got)
	}
}

func TestRun_GenerationExhausted(t *testing.T) {
	ws := memory.NewWorkspace()
	root := ws.AddFolder("", "Okarthel")
	ws.AddDocument(root, "Alpha", "Alpha text.\n")

	model := &echoModel{err: domain.ErrQuotaExceeded}
	p := newPipeline(ws, model)

	_, err := p.Run(context.Background(), Config{RootFolder: "Okarthel"})
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Fatalf("Expected ErrServiceUnavailable, got %v", err)
	}
	if model.calls != 10 {
		t.Errorf("expected 10 attempts, got %d", model.calls)
	}

	st := p.Status()
	if st.State != StateFailed || st.LastError == "" {
		t.Errorf("unexpected status: %+v", st)
	}

	// A failed pipeline accepts a new run.
	model.err = nil
	if _, err := p.Run(context.Background(), Config{RootFolder: "Okarthel"}); err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
}

func TestRun_RequiresRootFolder(t *testing.T) {
	p := newPipeline(memory.NewWorkspace(), &echoModel{})
	if _, err := p.Run(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty root folder")
	}
}

func TestRun_RejectsWhileInProgress(t *testing.T) {
	ws := memory.NewWorkspace()
	ws.AddFolder("", "Okarthel")
	p := newPipeline(ws, &echoModel{})
	p.status = Status{State: StateGenerating}

	if _, err := p.Run(context.Background(), Config{RootFolder: "Okarthel"}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Expected ErrInvalidTransition, got %v", err)
	}
	if st := p.Status(); st.State != StateGenerating {
		t.Errorf("state = %s, want %s", st.State, StateGenerating)
	}
}

func TestState_Terminal(t *testing.T) {
	for _, s := range []State{StateDone, StateFailed} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []State{StateIdle, StateResolvingFolder, StateListing, StateSorting, StateGenerating, StateAssembling, StateWritingTitle} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateIdle, StateResolvingFolder, true},
		{StateIdle, StateListing, false},
		{StateSorting, StateWritingTitle, true},
		{StateAssembling, StateGenerating, true},
		{StateGenerating, StateWritingTitle, false},
		{StateDone, StateResolvingFolder, true},
		{StateListing, StateDone, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
