package builtin

import (
	"context"
	"fmt"
	"sync"

	"github.com/notefold/aimesh/logging"
	"github.com/notefold/aimesh/workflow"
)

// BulkOptions configure the builtin bulk workflow.
type BulkOptions struct {
	// Metadata performs the per-item work. Defaults to the builtin
	// metadata workflow.
	Metadata workflow.Metadata

	// Concurrency bounds the number of items processed simultaneously.
	Concurrency int

	Logger logging.Logger
}

// Bulk is the always-available batch runner. It fans a batch out over a
// bounded worker pool and isolates per-item failures: one failed item is
// recorded in its slot and never aborts the rest of the batch.
type Bulk struct {
	opts BulkOptions
}

// NewBulk creates the builtin bulk workflow.
func NewBulk(optFns ...func(o *BulkOptions)) *Bulk {
	opts := BulkOptions{Concurrency: 4, Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Metadata == nil {
		opts.Metadata = NewMetadata()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Bulk{opts: opts}
}

// Info implements workflow.Workflow.
func (b *Bulk) Info() workflow.Info {
	return workflow.Info{
		Type:        workflow.TypeBulk,
		ID:          "builtin",
		Name:        "Builtin Bulk",
		Description: "Applies metadata generation across note batches with bounded concurrency",
	}
}

// Available implements workflow.Workflow.
func (b *Bulk) Available() bool { return true }

// ExecuteBulk implements workflow.Bulk. Results preserve item order
// regardless of completion order.
func (b *Bulk) ExecuteBulk(ctx context.Context, req workflow.BulkRequest) (*workflow.BulkResult, error) {
	if req.Operation != "metadata" {
		return nil, fmt.Errorf("builtin bulk: unsupported operation %q", req.Operation)
	}

	results := make([]workflow.BulkItemResult, len(req.Items))
	sem := make(chan struct{}, b.opts.Concurrency)
	var wg sync.WaitGroup

	for idx, item := range req.Items {
		wg.Add(1)
		go func(idx int, item workflow.BulkItem) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = b.processItem(ctx, item)
		}(idx, item)
	}
	wg.Wait()

	out := &workflow.BulkResult{Results: results}
	for _, r := range results {
		if r.Error != "" {
			out.Failed++
		}
	}
	if out.Failed > 0 {
		b.opts.Logger.Warn("Bulk run completed with failures", "failed", out.Failed, "total", len(results))
	}
	return out, nil
}

func (b *Bulk) processItem(ctx context.Context, item workflow.BulkItem) workflow.BulkItemResult {
	if err := ctx.Err(); err != nil {
		return workflow.BulkItemResult{ID: item.ID, Error: err.Error()}
	}
	md, err := b.opts.Metadata.Generate(ctx, workflow.MetadataRequest{Title: item.Title, Body: item.Body})
	if err != nil {
		return workflow.BulkItemResult{ID: item.ID, Error: err.Error()}
	}
	return workflow.BulkItemResult{ID: item.ID, Metadata: md}
}
