// Package anthropic provides a provider-routed implementation of the content
// capability using the Anthropic Messages API, with both synchronous and
// streaming generation. It is configuration-gated: the workflow reports
// available only when an API key is present.
package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/notefold/aimesh/logging"
	"github.com/notefold/aimesh/workflow"
)

// Options configure the Anthropic content workflow.
type Options struct {
	// APIKey gates availability. When empty the workflow stays registered
	// but is skipped by availability resolution.
	APIKey string

	Model       anthropic.Model
	MaxTokens   int64
	Temperature float64

	// StreamBuffer sets the event channel capacity for GenerateStream.
	StreamBuffer int

	Logger logging.Logger
}

// Content drafts note content through Claude.
type Content struct {
	client *anthropic.Client
	opts   Options
}

// NewContent creates the Anthropic content workflow.
func NewContent(optFns ...func(o *Options)) *Content {
	opts := Options{
		Model:        anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens:    4096,
		Temperature:  0.7,
		StreamBuffer: 32,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.StreamBuffer <= 0 {
		opts.StreamBuffer = 32
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Content{client: &client, opts: opts}
}

// Info implements workflow.Workflow.
func (c *Content) Info() workflow.Info {
	return workflow.Info{
		Type:        workflow.TypeContent,
		ID:          "anthropic",
		Name:        "Anthropic Content",
		Description: "Drafts note content via the Anthropic Messages API",
	}
}

// Available implements workflow.Workflow.
func (c *Content) Available() bool { return c.opts.APIKey != "" }

// Generate implements workflow.Content.
func (c *Content) Generate(ctx context.Context, req workflow.ContentRequest) (*workflow.ContentResult, error) {
	start := time.Now()
	resp, err := c.client.Messages.New(ctx, c.params(req))
	logging.LogWorkflowCall(c.opts.Logger, string(workflow.TypeContent), "anthropic", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("anthropic content: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.AsText().Text)
		}
	}
	return &workflow.ContentResult{Text: b.String()}, nil
}

// GenerateStream implements workflow.Content. SDK stream events are mapped
// onto delta fragments; the stream always terminates with a done or error
// event before the channel closes, matching the webhook research contract.
func (c *Content) GenerateStream(ctx context.Context, req workflow.ContentRequest) <-chan workflow.Event {
	out := make(chan workflow.Event, c.opts.StreamBuffer)

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

		stream := c.client.Messages.NewStreaming(ctx, c.params(req))
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()
			switch ev := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				switch delta := ev.Delta.AsAny().(type) {
				case anthropic.TextDelta:
					if !emit(workflow.NewDeltaEvent(delta.Text)) {
						return
					}
				}
			}
		}
		if err := stream.Err(); err != nil {
			emit(workflow.NewErrorEvent(fmt.Sprintf("anthropic content: %s", err)))
			return
		}
		emit(workflow.NewDoneEvent())
	}()

	return out
}

func (c *Content) params(req workflow.ContentRequest) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:       c.opts.Model,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: anthropic.Float(c.opts.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if system := systemPrompt(req); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	return params
}

func systemPrompt(req workflow.ContentRequest) string {
	var parts []string
	parts = append(parts, "You draft well-structured notes for a personal knowledge base. Respond with the note content only.")
	if req.Tone != "" {
		parts = append(parts, fmt.Sprintf("Write in a %s tone.", req.Tone))
	}
	if req.Context != "" {
		parts = append(parts, "Relevant context:\n"+req.Context)
	}
	return strings.Join(parts, "\n\n")
}
