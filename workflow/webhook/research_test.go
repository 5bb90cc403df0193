package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notefold/aimesh/internal/testutil"
	"github.com/notefold/aimesh/workflow"
)

func collect(ch <-chan workflow.Event) []workflow.Event {
	var events []workflow.Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func TestResearch_AvailableRequiresURL(t *testing.T) {
	assert.False(t, NewResearch().Available())
	assert.True(t, NewResearch(func(o *ResearchOptions) { o.URL = "http://example.test" }).Available())
}

func TestResearch_Execute(t *testing.T) {
	var gotQuery workflow.Query
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotQuery))

		json.NewEncoder(w).Encode(workflow.Answer{
			Response: "the answer",
			Sources:  []workflow.Source{{Name: "note-1", Content: "excerpt"}},
		})
	}))
	defer srv.Close()

	r := NewResearch(func(o *ResearchOptions) {
		o.URL = srv.URL
		o.APIKey = "secret"
	})

	answer, err := r.Execute(context.Background(), workflow.Query{Query: "test", NotebookID: "nb-1"})
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer.Response)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "test", gotQuery.Query)
	assert.Equal(t, "nb-1", gotQuery.NotebookID)
}

func TestResearch_ExecuteNonSuccessIsHardError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	r := NewResearch(func(o *ResearchOptions) { o.URL = srv.URL })

	_, err := r.Execute(context.Background(), workflow.Query{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "backend unavailable")
}

func TestResearch_ExecuteStream(t *testing.T) {
	body := testutil.Frame(`{"type":"status","message":"thinking"}`) +
		testutil.Frame(`{"type":"delta","text":"hel"}`, `{"type":"delta","text":"lo"}`) +
		testutil.Frame(`{"type":"sources","sources":[{"name":"n","content":"c"}]}`) +
		testutil.Frame(`{"type":"done"}`)

	srv := testutil.NewStreamServer(body, func(o *testutil.StreamServerOptions) {
		o.ChunkSize = 7 // force frame reassembly across reads
	})
	defer srv.Close()

	r := NewResearch(func(o *ResearchOptions) { o.URL = srv.URL })
	events := collect(r.ExecuteStream(context.Background(), workflow.Query{Query: "q"}))

	require.Len(t, events, 5)
	assert.Equal(t, workflow.EventStatus, events[0].Type)
	assert.Equal(t, "hel", events[1].Text)
	assert.Equal(t, "lo", events[2].Text)
	assert.Equal(t, workflow.EventSources, events[3].Type)
	assert.Equal(t, workflow.EventDone, events[4].Type)
}

func TestResearch_ExecuteStreamLastFrameWithoutBlankLine(t *testing.T) {
	body := testutil.Frame(`{"type":"delta","text":"x"}`) + `data: {"type":"done"}`

	srv := testutil.NewStreamServer(body)
	defer srv.Close()

	r := NewResearch(func(o *ResearchOptions) { o.URL = srv.URL })
	events := collect(r.ExecuteStream(context.Background(), workflow.Query{Query: "q"}))

	require.Len(t, events, 2)
	assert.Equal(t, workflow.EventDone, events[1].Type)
}

func TestResearch_ExecuteStreamNonSuccessYieldsErrorEvent(t *testing.T) {
	srv := testutil.NewStreamServer("quota exceeded", func(o *testutil.StreamServerOptions) {
		o.Status = http.StatusTooManyRequests
	})
	defer srv.Close()

	r := NewResearch(func(o *ResearchOptions) { o.URL = srv.URL })
	events := collect(r.ExecuteStream(context.Background(), workflow.Query{Query: "q"}))

	require.Len(t, events, 1)
	assert.Equal(t, workflow.EventError, events[0].Type)
	assert.Contains(t, events[0].Error, "status 429")
	assert.Contains(t, events[0].Error, "quota exceeded")
}

func TestResearch_ExecuteStreamEmptyBodyYieldsErrorEvent(t *testing.T) {
	srv := testutil.NewStreamServer("")
	defer srv.Close()

	r := NewResearch(func(o *ResearchOptions) { o.URL = srv.URL })
	events := collect(r.ExecuteStream(context.Background(), workflow.Query{Query: "q"}))

	require.Len(t, events, 1)
	assert.Equal(t, workflow.EventError, events[0].Type)
	assert.Contains(t, events[0].Error, "empty response body")
}

func TestResearch_ExecuteStreamMidStreamFailure(t *testing.T) {
	body := testutil.Frame(`{"type":"delta","text":"partial"}`) +
		testutil.Frame(`{"type":"delta","text":"never delivered"}`)

	srv := testutil.NewStreamServer(body, func(o *testutil.StreamServerOptions) {
		o.ChunkSize = len(testutil.Frame(`{"type":"delta","text":"partial"}`))
		o.AbortAfter = o.ChunkSize
		o.ChunkDelay = 10 * time.Millisecond
	})
	defer srv.Close()

	r := NewResearch(func(o *ResearchOptions) { o.URL = srv.URL })
	events := collect(r.ExecuteStream(context.Background(), workflow.Query{Query: "q"}))

	// Already-emitted events stand; the stream terminates with one error event.
	require.NotEmpty(t, events)
	assert.Equal(t, "partial", events[0].Text)
	last := events[len(events)-1]
	assert.Equal(t, workflow.EventError, last.Type)
}

func TestResearch_ExecuteStreamConnectionRefused(t *testing.T) {
	r := NewResearch(func(o *ResearchOptions) { o.URL = "http://127.0.0.1:1/stream" })
	events := collect(r.ExecuteStream(context.Background(), workflow.Query{Query: "q"}))

	require.Len(t, events, 1)
	assert.Equal(t, workflow.EventError, events[0].Type)
}

func TestResearch_ExecuteStreamConsumerCancellation(t *testing.T) {
	bodyClosed := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(bodyClosed)
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		w.Write([]byte(testutil.Frame(`{"type":"delta","text":"first"}`)))
		flusher.Flush()
		// Block until the client tears the connection down.
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	r := NewResearch(func(o *ResearchOptions) { o.URL = srv.URL })
	ch := r.ExecuteStream(ctx, workflow.Query{Query: "q"})

	ev := <-ch
	assert.Equal(t, "first", ev.Text)

	// Stop consuming; the reader must release the connection promptly.
	cancel()

	select {
	case <-bodyClosed:
	case <-time.After(2 * time.Second):
		t.Fatal("transport was not released after consumer cancellation")
	}

	for range ch {
		// Drain whatever was buffered; the channel must close.
	}
}

func TestResearch_ExecuteTimeoutApplies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server detects client disconnect and
		// cancels the request context; otherwise Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	r := NewResearch(func(o *ResearchOptions) {
		o.URL = srv.URL
		o.Timeout = 50 * time.Millisecond
	})

	_, err := r.Execute(context.Background(), workflow.Query{Query: "q"})
	require.Error(t, err)
}
