package workflow

import "encoding/json"

// EventType discriminates the stream event union. It matches the required
// "type" field of the wire payload.
type EventType string

const (
	// EventStatus carries a human readable progress message.
	EventStatus EventType = "status"
	// EventToolStart announces a remote tool invocation and its input.
	EventToolStart EventType = "tool_start"
	// EventToolResult carries the outcome of a previously announced tool invocation.
	EventToolResult EventType = "tool_result"
	// EventDelta carries an incremental text fragment of the answer.
	EventDelta EventType = "delta"
	// EventSources carries citation records supporting the answer.
	EventSources EventType = "sources"
	// EventDone marks successful stream completion.
	EventDone EventType = "done"
	// EventError marks terminal stream failure.
	EventError EventType = "error"
)

// Source is a single citation record attached to an answer or a sources event.
type Source struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// ToolCall records a remote tool invocation reported by a non-streaming response.
type ToolCall struct {
	Tool   string          `json:"tool"`
	Input  json.RawMessage `json:"input,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// Event is one typed, parsed unit yielded to a stream consumer. Only the
// fields relevant to the Type variant are populated; the rest stay zero.
// Events are transient: produced and consumed within a single request and
// never persisted.
type Event struct {
	Type    EventType       `json:"type"`
	Message string          `json:"message,omitempty"` // status
	Tool    string          `json:"tool,omitempty"`    // tool_start / tool_result
	Input   json.RawMessage `json:"input,omitempty"`   // tool_start
	Result  json.RawMessage `json:"result,omitempty"`  // tool_result
	Text    string          `json:"text,omitempty"`    // delta
	Sources []Source        `json:"sources,omitempty"` // sources
	Error   string          `json:"error,omitempty"`   // error
}

// NewStatusEvent creates a progress status event.
func NewStatusEvent(message string) Event {
	return Event{Type: EventStatus, Message: message}
}

// NewDeltaEvent creates an incremental text fragment event.
func NewDeltaEvent(text string) Event {
	return Event{Type: EventDelta, Text: text}
}

// NewSourcesEvent creates a citations event.
func NewSourcesEvent(sources []Source) Event {
	return Event{Type: EventSources, Sources: sources}
}

// NewDoneEvent creates the successful terminal event.
func NewDoneEvent() Event {
	return Event{Type: EventDone}
}

// NewErrorEvent creates the failing terminal event.
func NewErrorEvent(msg string) Event {
	return Event{Type: EventError, Error: msg}
}

// IsTerminal reports whether the event ends the stream (done or error).
func (e Event) IsTerminal() bool {
	return e.Type == EventDone || e.Type == EventError
}
