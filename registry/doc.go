// Package registry catalogs workflow implementations by (capability, id) and
// tracks one default implementation per capability.
//
// Resolution is two-tiered: Available returns the capability default when its
// availability probe passes, otherwise the first available implementation in
// registration order. Configuration-gated implementations (webhook research,
// provider-routed image generation) therefore fall back to always-available
// builtins with no branching required by callers.
//
// Lookups never fail with an error; they return an ok boolean, matching the
// map semantics of the underlying catalog. Misuse such as promoting an
// unregistered id to default is a soft failure: SetDefault returns false and
// mutates nothing.
package registry
