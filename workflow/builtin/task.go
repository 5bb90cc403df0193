package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/notefold/aimesh/workflow"
)

// TaskHandler implements one named task type.
type TaskHandler func(ctx context.Context, params map[string]any) (map[string]any, error)

// Task is the always-available task implementation: a dispatch table of
// named handlers. Word count and reading time handlers ship by default;
// applications register additional handlers before bootstrap completes.
type Task struct {
	handlers map[string]TaskHandler
}

// NewTask creates the builtin task workflow with the default handlers.
func NewTask() *Task {
	t := &Task{handlers: map[string]TaskHandler{}}
	t.RegisterHandler("word_count", wordCount)
	t.RegisterHandler("reading_time", readingTime)
	return t
}

// RegisterHandler adds (or replaces) the handler for a task type. Not safe
// for concurrent use with ExecuteTask; register during startup.
func (t *Task) RegisterHandler(taskType string, h TaskHandler) {
	t.handlers[taskType] = h
}

// Info implements workflow.Workflow.
func (t *Task) Info() workflow.Info {
	return workflow.Info{
		Type:        workflow.TypeTask,
		ID:          "builtin",
		Name:        "Builtin Task",
		Description: "Runs named local tasks such as word counts and reading time estimates",
	}
}

// Available implements workflow.Workflow.
func (t *Task) Available() bool { return true }

// ExecuteTask implements workflow.Task.
func (t *Task) ExecuteTask(ctx context.Context, taskType string, params map[string]any) (*workflow.TaskResult, error) {
	h, ok := t.handlers[taskType]
	if !ok {
		return nil, fmt.Errorf("builtin task: unknown task type %q", taskType)
	}
	output, err := h(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("builtin task %q: %w", taskType, err)
	}
	return &workflow.TaskResult{
		TaskID: uuid.NewString(),
		Type:   taskType,
		Output: output,
	}, nil
}

func textParam(params map[string]any) (string, error) {
	text, ok := params["text"].(string)
	if !ok {
		return "", fmt.Errorf("missing string parameter %q", "text")
	}
	return text, nil
}

func wordCount(_ context.Context, params map[string]any) (map[string]any, error) {
	text, err := textParam(params)
	if err != nil {
		return nil, err
	}
	return map[string]any{"words": len(strings.Fields(text))}, nil
}

// readingTime assumes 200 words per minute, rounding up.
func readingTime(_ context.Context, params map[string]any) (map[string]any, error) {
	text, err := textParam(params)
	if err != nil {
		return nil, err
	}
	words := len(strings.Fields(text))
	minutes := (words + 199) / 200
	if minutes == 0 {
		minutes = 1
	}
	return map[string]any{"words": words, "minutes": minutes}, nil
}
