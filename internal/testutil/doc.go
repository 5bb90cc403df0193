// Package testutil provides shared test fixtures: scripted event-stream
// servers and wire frame builders used by streaming workflow tests.
package testutil
