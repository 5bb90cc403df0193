// Package webhook implements the research capability against a remote HTTP
// service.
//
// The implementation is configuration-gated: it reports available as soon as
// a target URL is set, with no network probe. Non-streaming calls POST JSON
// and fail hard on non-2xx responses; streaming calls consume an
// event-framed text stream and surface every failure as a terminal error
// event on the event channel instead. No retries are performed; a failed
// stream is a single terminal error and retry policy belongs to the caller.
package webhook
