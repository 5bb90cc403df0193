// Package builtin provides the always-available workflow implementations,
// one per capability.
//
// Builtins compute locally - substring retrieval, text heuristics, templates,
// placeholder rendering - and never touch the network, so their availability
// probe never fails. They anchor the registry's fallback tier: when a
// configuration-gated implementation (webhook research, provider-routed
// image generation) is unconfigured, resolution lands here and the
// application keeps functioning with degraded quality instead of erroring.
package builtin
