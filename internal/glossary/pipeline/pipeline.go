// Package pipeline drives a full glossary run: resolve the root folder, list
// its documents, summarize each one and assemble the output document.
package pipeline

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/vietddude/glossary/internal/core/domain"
	"github.com/vietddude/glossary/internal/glossary/assemble"
	"github.com/vietddude/glossary/internal/glossary/metrics"
	"github.com/vietddude/glossary/internal/glossary/summary"
	"github.com/vietddude/glossary/internal/glossary/traverse"
)

// Config selects what a run processes.
type Config struct {
	RootFolder string
	// Title overrides the assembler's configured title when set.
	Title string
}

// Result describes a finished run.
type Result struct {
	RootFolderID string
	DocumentID   string
	Items        []domain.ItemDescriptor
	Elapsed      time.Duration
}

// Status is a point-in-time view of the pipeline.
type Status struct {
	State       State     `json:"state"`
	Description string    `json:"description"`
	RootFolder  string    `json:"root_folder,omitempty"`
	DocumentID  string    `json:"document_id,omitempty"`
	Processed   int       `json:"processed"`
	Total       int       `json:"total"`
	StartedAt   time.Time `json:"started_at,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
}

// Pipeline runs the glossary stages in order. Runs are sequential: one remote
// call is outstanding at a time.
type Pipeline struct {
	traverser  *traverse.Traverser
	summarizer *summary.Generator
	assembler  *assemble.Assembler
	log        *slog.Logger

	mu     sync.RWMutex
	status Status
}

// NewPipeline creates a Pipeline from its stage components.
func NewPipeline(
	traverser *traverse.Traverser,
	summarizer *summary.Generator,
	assembler *assemble.Assembler,
	log *slog.Logger,
) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		traverser:  traverser,
		summarizer: summarizer,
		assembler:  assembler,
		log:        log.With("component", "pipeline"),
		status:     Status{State: StateIdle, Description: StateIdle.Description()},
	}
}

// Status returns a snapshot of the current run.
func (p *Pipeline) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Run executes one glossary run.
//
// A root folder that cannot be found is logged and treated as empty, so the
// run still produces a document holding only the title. Entries are inserted
// at the top of the document, which means items are written in descending
// display-name order and render ascending, with the title written last.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.RootFolder == "" {
		return Result{}, errors.New("root folder name must be set")
	}

	asm := p.assembler
	if cfg.Title != "" {
		asm = asm.WithTitle(cfg.Title)
	}

	start := time.Now()
	if err := p.begin(cfg.RootFolder, start); err != nil {
		return Result{}, err
	}
	res := Result{}

	rootID, err := p.traverser.ResolveRoot(ctx, cfg.RootFolder)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		p.log.Warn("Root folder not found, continuing with no items", "folder", cfg.RootFolder)
		rootID = ""
	case err != nil:
		return p.fail(res, start, err)
	}
	res.RootFolderID = rootID

	if err := p.transition(StateListing); err != nil {
		return p.fail(res, start, err)
	}
	items, err := p.traverser.Traverse(ctx, rootID, domain.NoLabel)
	if err != nil {
		return p.fail(res, start, err)
	}
	p.log.Info("Listing complete", "items", len(items), "elapsed", time.Since(start).Round(time.Millisecond))

	if err := p.transition(StateSorting); err != nil {
		return p.fail(res, start, err)
	}
	SortDescending(items)
	res.Items = items
	p.update(func(s *Status) { s.Total = len(items) })

	docID, err := asm.Create(ctx)
	if err != nil {
		return p.fail(res, start, err)
	}
	res.DocumentID = docID
	p.update(func(s *Status) { s.DocumentID = docID })

	for i, item := range items {
		if err := p.writeItem(ctx, asm, docID, item); err != nil {
			return p.fail(res, start, fmt.Errorf("item %q: %w", item.DisplayName(), err))
		}
		p.update(func(s *Status) { s.Processed = i + 1 })
		metrics.ItemsProcessed.Inc()
	}

	if err := p.transition(StateWritingTitle); err != nil {
		return p.fail(res, start, err)
	}
	if _, err := asm.AppendEntry(ctx, docID, asm.Title(), domain.Heading1); err != nil {
		return p.fail(res, start, err)
	}

	if err := p.transition(StateDone); err != nil {
		return p.fail(res, start, err)
	}
	res.Elapsed = time.Since(start)
	metrics.RunDuration.WithLabelValues(string(StateDone)).Observe(res.Elapsed.Seconds())
	p.log.Info("Run complete",
		"items", len(items),
		"document_id", docID,
		"elapsed", res.Elapsed.Round(time.Millisecond),
	)
	return res, nil
}

func (p *Pipeline) writeItem(ctx context.Context, asm *assemble.Assembler, docID string, item domain.ItemDescriptor) error {
	if err := p.transition(StateGenerating); err != nil {
		return err
	}
	text, err := p.summarizer.Generate(ctx, item.ID)
	if err != nil {
		return err
	}

	if err := p.transition(StateAssembling); err != nil {
		return err
	}
	if _, err := asm.AppendEntry(ctx, docID, text, domain.HeadingNone); err != nil {
		return err
	}
	if _, err := asm.AppendEntry(ctx, docID, item.DisplayName(), domain.Heading2); err != nil {
		return err
	}

	p.log.Info("Wrote entry", "item", item.DisplayName())
	return nil
}

// SortDescending orders items by display name, descending. Equal names keep
// their listing order.
func SortDescending(items []domain.ItemDescriptor) {
	slices.SortStableFunc(items, func(a, b domain.ItemDescriptor) int {
		return cmp.Compare(b.DisplayName(), a.DisplayName())
	})
}

func (p *Pipeline) begin(rootFolder string, start time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cur := p.status.State; cur != StateIdle && !cur.Terminal() {
		return fmt.Errorf("%w: run already in progress (%s)", ErrInvalidTransition, cur)
	}
	p.status = Status{
		State:       StateResolvingFolder,
		Description: StateResolvingFolder.Description(),
		RootFolder:  rootFolder,
		StartedAt:   start,
	}
	return nil
}

func (p *Pipeline) transition(to State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	from := p.status.State
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	p.status.State = to
	p.status.Description = to.Description()
	p.log.Debug("State transition", "from", from, "to", to)
	return nil
}

func (p *Pipeline) update(fn func(s *Status)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.status)
}

func (p *Pipeline) fail(res Result, start time.Time, err error) (Result, error) {
	p.mu.Lock()
	p.status.State = StateFailed
	p.status.Description = StateFailed.Description()
	p.status.LastError = err.Error()
	p.mu.Unlock()

	res.Elapsed = time.Since(start)
	metrics.RunDuration.WithLabelValues(string(StateFailed)).Observe(res.Elapsed.Seconds())
	p.log.Error("Run failed", "error", err, "elapsed", res.Elapsed.Round(time.Millisecond))
	return res, err
}
