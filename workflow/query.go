package workflow

// Turn is one prior conversational exchange supplied as research context.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Query is the research input record. It crosses the boundary to remote
// services verbatim, so the JSON field names are part of the wire contract.
type Query struct {
	Query       string         `json:"query"`
	ChannelID   string         `json:"channelId,omitempty"`
	History     []Turn         `json:"history,omitempty"`
	NotebookID  string         `json:"notebookId,omitempty"`
	Verbose     bool           `json:"verbose,omitempty"`
	SearchWeb   bool           `json:"searchWeb,omitempty"`
	ModelConfig map[string]any `json:"modelConfig,omitempty"`
}

// Answer is the non-streaming research response record.
type Answer struct {
	Response  string     `json:"response"`
	Sources   []Source   `json:"sources,omitempty"`
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
}

// MetadataRequest asks a metadata workflow to describe a note.
type MetadataRequest struct {
	Title   string `json:"title,omitempty"`
	Body    string `json:"body"`
	MaxTags int    `json:"maxTags,omitempty"`
}

// MetadataResult is the derived note metadata.
type MetadataResult struct {
	Title   string   `json:"title"`
	Tags    []string `json:"tags,omitempty"`
	Summary string   `json:"summary,omitempty"`
}

// ContentRequest asks a content workflow to draft text.
type ContentRequest struct {
	Prompt  string `json:"prompt"`
	Context string `json:"context,omitempty"`
	Tone    string `json:"tone,omitempty"`
}

// ContentResult is the drafted text.
type ContentResult struct {
	Text string `json:"text"`
}

// ImageRequest asks an image workflow to generate an image from a prompt.
type ImageRequest struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size,omitempty"` // "1024x1024" style; implementation defined default
}

// ImageEditRequest asks an image workflow to edit an existing image.
type ImageEditRequest struct {
	Image    []byte `json:"-"`
	MimeType string `json:"mimeType,omitempty"`
	Prompt   string `json:"prompt"`
}

// ImageResult carries either a retrieval URL or inline image data.
type ImageResult struct {
	URL      string `json:"url,omitempty"`
	Data     string `json:"data,omitempty"` // base64 encoded bytes when inlined
	MimeType string `json:"mimeType,omitempty"`
}

// BulkItem is one unit of work in a batch.
type BulkItem struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Body  string `json:"body"`
}

// BulkRequest applies a named operation over a batch of items.
type BulkRequest struct {
	Operation string     `json:"operation"`
	Items     []BulkItem `json:"items"`
}

// BulkItemResult is the per-item outcome; exactly one of Metadata or Error is set.
type BulkItemResult struct {
	ID       string          `json:"id"`
	Metadata *MetadataResult `json:"metadata,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// BulkResult summarizes a completed batch. Results preserve item order.
type BulkResult struct {
	Results []BulkItemResult `json:"results"`
	Failed  int              `json:"failed"`
}

// TaskResult is the outcome of a one-shot task run.
type TaskResult struct {
	TaskID string         `json:"taskId"`
	Type   string         `json:"type"`
	Output map[string]any `json:"output,omitempty"`
}
