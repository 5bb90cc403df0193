package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/notefold/aimesh/logging"
	"github.com/notefold/aimesh/workflow"
)

// Note is one searchable corpus entry surfaced to research answers.
type Note struct {
	ID      string
	Title   string
	Excerpt string
}

// NoteSearcher is the corpus lookup the builtin research workflow runs
// against. The persistence layer satisfies it; tests supply fixtures.
type NoteSearcher interface {
	SearchNotes(ctx context.Context, notebookID, query string) ([]Note, error)
}

// SearcherFunc adapts a plain function to the NoteSearcher interface.
type SearcherFunc func(ctx context.Context, notebookID, query string) ([]Note, error)

// SearchNotes implements NoteSearcher.
func (f SearcherFunc) SearchNotes(ctx context.Context, notebookID, query string) ([]Note, error) {
	return f(ctx, notebookID, query)
}

// ResearchOptions configure the builtin research workflow.
type ResearchOptions struct {
	// Searcher supplies the note corpus. When nil the workflow still
	// answers, reporting an empty corpus.
	Searcher NoteSearcher

	// StreamChunkSize bounds the rune length of each delta fragment.
	StreamChunkSize int

	Logger logging.Logger
}

// Research is the always-available research implementation. It answers from
// the local note corpus with plain substring retrieval - no external
// dependency, no network call - making it the fallback every deployment can
// rely on when richer implementations are unconfigured.
type Research struct {
	opts ResearchOptions
}

// NewResearch creates the builtin research workflow.
func NewResearch(optFns ...func(o *ResearchOptions)) *Research {
	opts := ResearchOptions{StreamChunkSize: 48, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.StreamChunkSize <= 0 {
		opts.StreamChunkSize = 48
	}
	return &Research{opts: opts}
}

// Info implements workflow.Workflow.
func (r *Research) Info() workflow.Info {
	return workflow.Info{
		Type:        workflow.TypeResearch,
		ID:          "builtin",
		Name:        "Builtin Research",
		Description: "Answers questions from the local note corpus without external services",
	}
}

// Available implements workflow.Workflow. The builtin has no external
// dependency and is always usable.
func (r *Research) Available() bool { return true }

// Execute implements workflow.Research.
func (r *Research) Execute(ctx context.Context, q workflow.Query) (*workflow.Answer, error) {
	notes, err := r.search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("builtin research: %w", err)
	}

	answer := &workflow.Answer{Response: composeResponse(q.Query, notes)}
	for _, n := range notes {
		answer.Sources = append(answer.Sources, workflow.Source{Name: n.Title, Content: n.Excerpt})
	}
	return answer, nil
}

// ExecuteStream implements workflow.Research. All work is local, so the
// stream simply replays the synchronous answer as status, delta fragments,
// sources and a terminal event.
func (r *Research) ExecuteStream(ctx context.Context, q workflow.Query) <-chan workflow.Event {
	out := make(chan workflow.Event, 16)

	go func() {
		defer close(out)

		emit := func(ev workflow.Event) bool {
			select {
			case <-ctx.Done():
				return false
			case out <- ev:
				return true
			}
		}

		if !emit(workflow.NewStatusEvent("Searching notes")) {
			return
		}

		answer, err := r.Execute(ctx, q)
		if err != nil {
			emit(workflow.NewErrorEvent(err.Error()))
			return
		}
		for _, fragment := range splitRunes(answer.Response, r.opts.StreamChunkSize) {
			if !emit(workflow.NewDeltaEvent(fragment)) {
				return
			}
		}
		if len(answer.Sources) > 0 {
			if !emit(workflow.NewSourcesEvent(answer.Sources)) {
				return
			}
		}
		emit(workflow.NewDoneEvent())
	}()

	return out
}

func (r *Research) search(ctx context.Context, q workflow.Query) ([]Note, error) {
	if r.opts.Searcher == nil {
		return nil, nil
	}
	return r.opts.Searcher.SearchNotes(ctx, q.NotebookID, q.Query)
}

func composeResponse(query string, notes []Note) string {
	if len(notes) == 0 {
		return fmt.Sprintf("No notes matched %q.", query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d note(s) related to %q.\n\n", len(notes), query)
	for _, n := range notes {
		fmt.Fprintf(&b, "- %s: %s\n", n.Title, n.Excerpt)
	}
	return strings.TrimRight(b.String(), "\n")
}

// splitRunes cuts s into fragments of at most size runes, never splitting a
// multi-byte character.
func splitRunes(s string, size int) []string {
	runes := []rune(s)
	var out []string
	for len(runes) > 0 {
		n := size
		if n > len(runes) {
			n = len(runes)
		}
		out = append(out, string(runes[:n]))
		runes = runes[n:]
	}
	return out
}
