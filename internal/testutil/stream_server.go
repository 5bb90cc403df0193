package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"
)

// Frame assembles one wire frame from data payloads: each payload becomes a
// "data: " line and the frame is terminated by a blank line.
func Frame(payloads ...string) string {
	var b strings.Builder
	for _, p := range payloads {
		b.WriteString("data: ")
		b.WriteString(p)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// StreamServerOptions configure a scripted stream server.
type StreamServerOptions struct {
	// Status is the HTTP status to respond with.
	Status int

	// ChunkSize splits the body into fixed-size write+flush segments,
	// exercising arbitrary chunk boundaries on the client. Zero writes
	// the body in one piece.
	ChunkSize int

	// ChunkDelay sleeps between chunk writes.
	ChunkDelay time.Duration

	// AbortAfter, when positive, aborts the connection after writing
	// that many bytes, simulating a mid-stream transport failure.
	AbortAfter int
}

// NewStreamServer returns an httptest server that plays back body as a
// text/event-stream response according to the options.
func NewStreamServer(body string, optFns ...func(o *StreamServerOptions)) *httptest.Server {
	opts := StreamServerOptions{Status: http.StatusOK}
	for _, fn := range optFns {
		fn(&opts)
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(opts.Status)

		flusher, _ := w.(http.Flusher)
		written := 0
		remaining := body
		for len(remaining) > 0 {
			n := opts.ChunkSize
			if n <= 0 || n > len(remaining) {
				n = len(remaining)
			}
			if opts.AbortAfter > 0 && written+n > opts.AbortAfter {
				panic(http.ErrAbortHandler)
			}
			w.Write([]byte(remaining[:n]))
			if flusher != nil {
				flusher.Flush()
			}
			written += n
			remaining = remaining[n:]
			if opts.ChunkDelay > 0 {
				time.Sleep(opts.ChunkDelay)
			}
		}
	}))
}
