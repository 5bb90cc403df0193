package sse

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/notefold/aimesh/logging"
	"github.com/notefold/aimesh/workflow"
)

// dataPrefix is the only field name the parser extracts; every other line
// inside a frame (comments, ids, retry hints) is ignored.
const dataPrefix = "data: "

// Options configure a Parser.
type Options struct {
	// Logger receives a warning for every dropped malformed data line.
	Logger logging.Logger
}

// Parser reassembles typed workflow events from an arbitrarily-chunked byte
// stream carrying blank-line delimited frames of "data: <JSON>" lines.
//
// The parser is push based: callers Feed raw transport chunks as they arrive
// and receive the events completed by each chunk, in wire order. Chunk
// boundaries carry no meaning - a delimiter, a data prefix or a multi-byte
// character may be split across any two chunks. Buffering operates on bytes
// and frames are only cut at newline bytes, which can never fall inside a
// multi-byte UTF-8 sequence, so split characters reassemble naturally.
//
// A Parser serves exactly one stream and is not safe for concurrent use;
// every stream instance owns its own Parser.
type Parser struct {
	buf     bytes.Buffer
	logger  logging.Logger
	dropped int
}

// NewParser creates a Parser.
func NewParser(optFns ...func(o *Options)) *Parser {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Parser{logger: opts.Logger}
}

// Feed appends one transport chunk and returns the events completed by it,
// preserving wire order. It returns nil when the buffered bytes do not yet
// hold a complete frame.
func (p *Parser) Feed(chunk []byte) []workflow.Event {
	p.buf.Write(chunk)

	var events []workflow.Event
	for {
		frame, ok := p.nextFrame()
		if !ok {
			break
		}
		events = append(events, p.parseFrame(frame)...)
	}
	return events
}

// Flush processes whatever remains in the buffer as one final frame. Remotes
// may omit the trailing blank line on the last message; calling Flush at
// stream end recovers that frame instead of discarding it.
func (p *Parser) Flush() []workflow.Event {
	rest := strings.TrimRight(p.buf.String(), "\r\n")
	p.buf.Reset()
	if rest == "" {
		return nil
	}
	return p.parseFrame(rest)
}

// Dropped reports how many malformed data lines were skipped so far. The
// skip-and-continue policy is deliberate, but silently dropping events can
// hide an upstream protocol regression, so the count is kept observable.
func (p *Parser) Dropped() int { return p.dropped }

// nextFrame extracts the earliest complete frame from the buffer, consuming
// the frame and its delimiter. Both "\n\n" and "\r\n\r\n" delimit frames.
func (p *Parser) nextFrame() (string, bool) {
	data := p.buf.Bytes()

	idx, delimLen := -1, 0
	if i := bytes.Index(data, []byte("\n\n")); i >= 0 {
		idx, delimLen = i, 2
	}
	if i := bytes.Index(data, []byte("\r\n\r\n")); i >= 0 && (idx < 0 || i < idx) {
		idx, delimLen = i, 4
	}
	if idx < 0 {
		return "", false
	}

	frame := string(data[:idx])
	p.buf.Next(idx + delimLen)
	return frame, true
}

// parseFrame splits one complete frame into lines and decodes every data
// line independently. A single frame may legally carry more than one data
// line; each yields its own event, preserving relative order. Lines without
// the data prefix are ignored per the wire contract.
func (p *Parser) parseFrame(frame string) []workflow.Event {
	var events []workflow.Event
	for _, line := range strings.Split(frame, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		payload := line[len(dataPrefix):]

		var ev workflow.Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			p.dropped++
			p.logger.Warn("Dropping malformed stream event", "error", err.Error(), "dropped_total", p.dropped)
			continue
		}
		if ev.Type == "" {
			p.dropped++
			p.logger.Warn("Dropping stream event without type discriminator", "dropped_total", p.dropped)
			continue
		}
		events = append(events, ev)
	}
	return events
}
