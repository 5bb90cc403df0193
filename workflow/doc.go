// Package workflow defines the contracts and data model shared by every
// AI capability implementation in aimesh.
//
// Six capability categories exist (research, metadata, content, image, bulk,
// task), each with its own interface embedding the base Workflow contract.
// Implementations are swappable at runtime: the registry selects among them
// by availability, so callers never branch on which concrete implementation
// serves a request.
//
// Streaming operations (Research.ExecuteStream, Content.GenerateStream)
// deliver typed Events over a channel fed by a dedicated reader goroutine.
// Channel closure signals completion; a terminal done or error event is
// always yielded before the close, so consumers can rely on the stream
// completing rather than failing through a side channel.
package workflow
