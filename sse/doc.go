// Package sse turns a raw, arbitrarily-chunked byte stream into an ordered
// sequence of typed workflow events.
//
// The wire format is a Server-Sent-Events style text stream: frames separated
// by a blank line, each frame holding one or more "data: <JSON>" lines. The
// parser tolerates every chunk boundary the transport can impose - delimiters,
// field prefixes and multi-byte characters split across reads - and applies a
// best-effort policy to malformed payloads: a data line that fails to decode
// is logged, counted and skipped without aborting the stream.
//
// Streaming workflow implementations embed a Parser in their read loop; see
// the webhook package for the canonical consumer.
package sse
