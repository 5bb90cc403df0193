package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/notefold/aimesh/logging"
	"github.com/notefold/aimesh/sse"
	"github.com/notefold/aimesh/workflow"
)

// errorBodyLimit caps how much of a failed response body is copied into
// error messages and error events.
const errorBodyLimit = 8 << 10

// ResearchOptions configure the webhook research workflow.
type ResearchOptions struct {
	// URL is the remote research endpoint. Availability is solely its
	// presence; no network probe is performed.
	URL string

	// APIKey, when set, is sent as a bearer token.
	APIKey string

	// HTTPClient performs all calls. The default client carries no
	// timeout: streams may legitimately outlive any fixed deadline, so a
	// bounded policy must come from the caller's context or a custom
	// client.
	HTTPClient *http.Client

	// Timeout bounds Execute calls when positive. It deliberately does
	// not apply to ExecuteStream; cancel the stream context instead.
	Timeout time.Duration

	// StreamBuffer sets the event channel capacity for ExecuteStream.
	StreamBuffer int

	Logger logging.Logger
}

// Research calls a remote research service over HTTP. Execute performs one
// JSON request/response round trip; ExecuteStream consumes an event-framed
// text stream through the sse parser.
//
// The two operations fail differently on purpose: Execute returns a hard
// error carrying status and body, while ExecuteStream converts every failure
// (bad status, empty body, mid-stream I/O error) into a terminal error event
// so the stream always completes instead of failing out-of-band.
type Research struct {
	opts ResearchOptions
}

// NewResearch creates the webhook research workflow.
func NewResearch(optFns ...func(o *ResearchOptions)) *Research {
	opts := ResearchOptions{
		HTTPClient:   &http.Client{},
		StreamBuffer: 32,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if opts.StreamBuffer <= 0 {
		opts.StreamBuffer = 32
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Research{opts: opts}
}

// Info implements workflow.Workflow.
func (r *Research) Info() workflow.Info {
	return workflow.Info{
		Type:        workflow.TypeResearch,
		ID:          "webhook",
		Name:        "Webhook Research",
		Description: "Delegates research to a configured HTTP endpoint with streaming support",
	}
}

// Available implements workflow.Workflow. Configuration presence is the sole
// criterion; a configured-but-unreachable endpoint still reports available
// and fails at call time.
func (r *Research) Available() bool { return r.opts.URL != "" }

// Execute implements workflow.Research with a single non-streaming call.
func (r *Research) Execute(ctx context.Context, q workflow.Query) (answer *workflow.Answer, err error) {
	start := time.Now()
	defer func() {
		logging.LogWorkflowCall(r.opts.Logger, string(workflow.TypeResearch), "webhook", time.Since(start), err)
	}()

	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	resp, err := r.post(ctx, q, "application/json")
	if err != nil {
		return nil, fmt.Errorf("webhook research: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, fmt.Errorf("webhook research: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var decoded workflow.Answer
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("webhook research: decode response: %w", err)
	}
	return &decoded, nil
}

// ExecuteStream implements workflow.Research. A dedicated reader goroutine
// performs the network reads and frame parsing and pushes completed events
// onto the returned channel; the channel closes when the stream ends. The
// response body is released exactly once on every path - normal completion,
// transport failure, or consumer cancellation via ctx.
func (r *Research) ExecuteStream(ctx context.Context, q workflow.Query) <-chan workflow.Event {
	out := make(chan workflow.Event, r.opts.StreamBuffer)

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

		resp, err := r.post(ctx, q, "text/event-stream")
		if err != nil {
			emit(workflow.NewErrorEvent(fmt.Sprintf("webhook research: %s", err)))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
			emit(workflow.NewErrorEvent(fmt.Sprintf("webhook research: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))))
			return
		}

		r.readLoop(ctx, resp.Body, emit)
	}()

	return out
}

// readLoop drains the response body through the frame parser, forwarding
// events in arrival order. emit reports false once the consumer is gone,
// which stops the loop; the deferred body close in the caller then tears
// down the transport.
func (r *Research) readLoop(ctx context.Context, body io.Reader, emit func(workflow.Event) bool) {
	parser := sse.NewParser(func(o *sse.Options) { o.Logger = r.opts.Logger })

	buf := make([]byte, 4096)
	received := false
	for {
		n, err := body.Read(buf)
		if n > 0 {
			received = true
			for _, ev := range parser.Feed(buf[:n]) {
				if !emit(ev) {
					return
				}
			}
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			for _, ev := range parser.Flush() {
				if !emit(ev) {
					return
				}
			}
			if !received {
				emit(workflow.NewErrorEvent("webhook research: empty response body"))
			}
			return
		}
		// Mid-stream failure: already-emitted events stand; the stream
		// terminates with a single error event.
		emit(workflow.NewErrorEvent(fmt.Sprintf("webhook research: read stream: %s", err)))
		return
	}
}

func (r *Research) post(ctx context.Context, q workflow.Query, accept string) (*http.Response, error) {
	payload, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.opts.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)
	if r.opts.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.opts.APIKey)
	}

	return r.opts.HTTPClient.Do(req)
}
