package workflow

import "context"

// Type identifies one of the capability categories the registry organizes
// implementations by. The set is closed: callers switch on these constants
// and the registry keys its default table by them.
type Type string

const (
	// TypeResearch answers free-text questions against a notebook corpus,
	// optionally streaming incremental results.
	TypeResearch Type = "research"
	// TypeMetadata derives titles, tags and summaries for a note.
	TypeMetadata Type = "metadata"
	// TypeContent drafts or rewrites note content, optionally streaming.
	TypeContent Type = "content"
	// TypeImage generates or edits images.
	TypeImage Type = "image"
	// TypeBulk applies an operation across a batch of notes.
	TypeBulk Type = "bulk"
	// TypeTask runs named one-shot tasks with free-form parameters.
	TypeTask Type = "task"
)

// Types lists every capability type in a stable order. Used by bootstrap and
// reporting code that iterates all capabilities.
func Types() []Type {
	return []Type{TypeResearch, TypeMetadata, TypeContent, TypeImage, TypeBulk, TypeTask}
}

// Info is the immutable descriptor attached to every workflow implementation.
// (Type, ID) is unique within a registry; registering a duplicate overwrites
// the previous entry.
type Info struct {
	Type        Type   `json:"type"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Workflow is the base contract shared by every capability implementation.
//
// Available is a runtime, configuration-derived probe: an implementation that
// needs an external dependency (API key, webhook URL) reports false until the
// dependency is configured. It never performs network I/O.
type Workflow interface {
	Info() Info
	Available() bool
}

// Research answers free-text questions, optionally with streamed delivery.
//
// Execute and ExecuteStream intentionally differ in failure handling:
// Execute returns a hard error on any transport or remote failure, while
// ExecuteStream always surfaces failures as a terminal error Event on the
// returned channel and never leaks an error through another path. Callers
// of the two must use different handling strategies.
type Research interface {
	Workflow

	// Execute performs one non-streaming research call.
	Execute(ctx context.Context, q Query) (*Answer, error)

	// ExecuteStream performs a streaming research call. The returned channel
	// yields events in arrival order and is closed when the stream ends; a
	// terminal done or error event precedes the close. Cancelling ctx stops
	// the stream and releases the underlying transport promptly.
	ExecuteStream(ctx context.Context, q Query) <-chan Event
}

// Metadata derives structured metadata (title, tags, summary) from note text.
type Metadata interface {
	Workflow

	Generate(ctx context.Context, req MetadataRequest) (*MetadataResult, error)
}

// Content drafts note content. GenerateStream follows the same terminal-event
// discipline as Research.ExecuteStream.
type Content interface {
	Workflow

	Generate(ctx context.Context, req ContentRequest) (*ContentResult, error)
	GenerateStream(ctx context.Context, req ContentRequest) <-chan Event
}

// Image generates and edits images.
type Image interface {
	Workflow

	Generate(ctx context.Context, req ImageRequest) (*ImageResult, error)
	Edit(ctx context.Context, req ImageEditRequest) (*ImageResult, error)
}

// Bulk applies one operation across a batch of items. Individual item
// failures are recorded per item and never abort the batch.
type Bulk interface {
	Workflow

	ExecuteBulk(ctx context.Context, req BulkRequest) (*BulkResult, error)
}

// Task runs a named one-shot task with free-form parameters.
type Task interface {
	Workflow

	ExecuteTask(ctx context.Context, taskType string, params map[string]any) (*TaskResult, error)
}
