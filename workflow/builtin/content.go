package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/notefold/aimesh/workflow"
)

// Content is the always-available content implementation. It produces a
// structured draft skeleton from the prompt so the application remains
// functional when no provider-backed implementation is configured.
type Content struct{}

// NewContent creates the builtin content workflow.
func NewContent() *Content { return &Content{} }

// Info implements workflow.Workflow.
func (c *Content) Info() workflow.Info {
	return workflow.Info{
		Type:        workflow.TypeContent,
		ID:          "builtin",
		Name:        "Builtin Content",
		Description: "Drafts outline-style content locally without external services",
	}
}

// Available implements workflow.Workflow.
func (c *Content) Available() bool { return true }

// Generate implements workflow.Content.
func (c *Content) Generate(_ context.Context, req workflow.ContentRequest) (*workflow.ContentResult, error) {
	return &workflow.ContentResult{Text: draft(req)}, nil
}

// GenerateStream implements workflow.Content, emitting the draft word by
// word followed by a terminal done event.
func (c *Content) GenerateStream(ctx context.Context, req workflow.ContentRequest) <-chan workflow.Event {
	out := make(chan workflow.Event, 16)

	go func() {
		defer close(out)

		text := draft(req)
		for i, word := range strings.Split(text, " ") {
			if i > 0 {
				word = " " + word
			}
			select {
			case <-ctx.Done():
				return
			case out <- workflow.NewDeltaEvent(word):
			}
		}
		select {
		case <-ctx.Done():
		case out <- workflow.NewDoneEvent():
		}
	}()

	return out
}

func draft(req workflow.ContentRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", strings.TrimSpace(req.Prompt))
	if req.Context != "" {
		fmt.Fprintf(&b, "> Context: %s\n\n", req.Context)
	}
	b.WriteString("## Overview\n\nExpand on the topic above.\n\n## Details\n\n- Key point one\n- Key point two\n\n## Conclusion\n\nSummarize the main takeaways.")
	if req.Tone != "" {
		fmt.Fprintf(&b, "\n\n(Target tone: %s)", req.Tone)
	}
	return b.String()
}
