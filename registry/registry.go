package registry

import (
	"sync"

	"github.com/notefold/aimesh/logging"
	"github.com/notefold/aimesh/workflow"
)

type key struct {
	typ workflow.Type
	id  string
}

// Options configure a Registry.
type Options struct {
	// Logger receives warnings for duplicate registrations and info logs
	// for default promotions. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Registry is the process-wide catalog mapping (capability type, id) to a
// workflow implementation, plus one default implementation id per capability.
//
// The registry is populated during bootstrap and effectively read-only
// afterwards; all methods are nonetheless guarded by an RWMutex so rare
// administrative mutations (Register, SetDefault, Unregister) after startup
// remain safe alongside concurrent lookups.
//
// Construct one Registry per application and hand it to callers explicitly;
// tests build a fresh instance per case.
type Registry struct {
	mu       sync.RWMutex
	entries  map[key]workflow.Workflow
	order    []key // registration order, drives Available fallback scans
	defaults map[workflow.Type]string
	logger   logging.Logger
}

// New creates an empty Registry.
func New(optFns ...func(o *Options)) *Registry {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Registry{
		entries:  make(map[key]workflow.Workflow),
		defaults: make(map[workflow.Type]string),
		logger:   opts.Logger,
	}
}

// Register inserts w under its (type, id) descriptor key. Registering a
// duplicate key overwrites the previous entry and logs a warning rather than
// failing; last write wins. The implementation becomes the default for its
// capability when makeDefault is true or when no default exists yet.
func (r *Registry) Register(w workflow.Workflow, makeDefault bool) {
	info := w.Info()
	k := key{typ: info.Type, id: info.ID}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[k]; exists {
		r.logger.Warn("Overwriting registered workflow", "workflow_type", info.Type, "workflow_id", info.ID)
	} else {
		r.order = append(r.order, k)
	}
	r.entries[k] = w

	if _, hasDefault := r.defaults[info.Type]; makeDefault || !hasDefault {
		r.defaults[info.Type] = info.ID
		r.logger.Info("Workflow set as default", "workflow_type", info.Type, "workflow_id", info.ID)
	}
}

// Get returns the exact (type, id) implementation. This is the pinned-lookup
// path; callers that just need something usable should call Available.
func (r *Registry) Get(typ workflow.Type, id string) (workflow.Workflow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.entries[key{typ: typ, id: id}]
	return w, ok
}

// Default returns the implementation registered as default for the
// capability, regardless of its availability.
func (r *Registry) Default(typ workflow.Type) (workflow.Workflow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultLocked(typ)
}

func (r *Registry) defaultLocked(typ workflow.Type) (workflow.Workflow, bool) {
	id, ok := r.defaults[typ]
	if !ok {
		return nil, false
	}
	w, ok := r.entries[key{typ: typ, id: id}]
	return w, ok
}

// Available resolves the capability to a usable implementation: the default
// if it reports Available, otherwise the first available implementation in
// registration order. This two-tier policy lets configuration-gated
// implementations silently fall back to a builtin with no external
// dependency.
func (r *Registry) Available(typ workflow.Type) (workflow.Workflow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if w, ok := r.defaultLocked(typ); ok && w.Available() {
		return w, true
	}
	for _, k := range r.order {
		if k.typ != typ {
			continue
		}
		if w := r.entries[k]; w.Available() {
			return w, true
		}
	}
	return nil, false
}

// SetDefault promotes an already-registered (type, id) to default for its
// capability. It returns false, without mutating anything, when the key is
// not registered.
func (r *Registry) SetDefault(typ workflow.Type, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[key{typ: typ, id: id}]; !ok {
		r.logger.Warn("Cannot set unregistered workflow as default", "workflow_type", typ, "workflow_id", id)
		return false
	}
	r.defaults[typ] = id
	r.logger.Info("Workflow set as default", "workflow_type", typ, "workflow_id", id)
	return true
}

// Unregister removes the (type, id) entry, reporting whether it existed.
// When the removed entry was the capability default, the first remaining
// implementation of that capability in registration order is promoted; if
// none remain the default is cleared, keeping the defaults table consistent
// with the entries table.
func (r *Registry) Unregister(typ workflow.Type, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{typ: typ, id: id}
	if _, ok := r.entries[k]; !ok {
		return false
	}
	delete(r.entries, k)
	for i, ek := range r.order {
		if ek == k {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	if r.defaults[typ] == id {
		delete(r.defaults, typ)
		for _, rk := range r.order {
			if rk.typ == typ {
				r.defaults[typ] = rk.id
				r.logger.Info("Workflow promoted to default after unregister", "workflow_type", typ, "workflow_id", rk.id)
				break
			}
		}
	}
	return true
}

// AllOfType returns every implementation of the capability in registration
// order. The slice is a copy; mutating it does not affect the registry.
func (r *Registry) AllOfType(typ workflow.Type) []workflow.Workflow {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []workflow.Workflow
	for _, k := range r.order {
		if k.typ == typ {
			out = append(out, r.entries[k])
		}
	}
	return out
}

// TypeStats reports the registry view of one capability.
type TypeStats struct {
	// Implementations lists registered ids in registration order.
	Implementations []string `json:"implementations"`
	// Default is the current default id, empty when none is registered.
	Default string `json:"default,omitempty"`
	// Available counts implementations whose availability probe passes.
	Available int `json:"available"`
}

// Stats is a point-in-time, read-only report over the whole registry.
type Stats struct {
	Total  int                         `json:"total"`
	ByType map[workflow.Type]TypeStats `json:"byType"`
}

// Stats enumerates registered implementations, defaults and availability per
// capability. It has no side effects.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Stats{Total: len(r.entries), ByType: make(map[workflow.Type]TypeStats)}
	for _, k := range r.order {
		ts := stats.ByType[k.typ]
		ts.Implementations = append(ts.Implementations, k.id)
		ts.Default = r.defaults[k.typ]
		if r.entries[k].Available() {
			ts.Available++
		}
		stats.ByType[k.typ] = ts
	}
	return stats
}

// As narrows a base Workflow lookup result to a concrete capability
// interface. It composes directly with the lookup methods:
//
//	research, ok := registry.As[workflow.Research](reg.Available(workflow.TypeResearch))
//
// ok is false when the lookup missed or the implementation does not satisfy T.
func As[T workflow.Workflow](w workflow.Workflow, ok bool) (T, bool) {
	var zero T
	if !ok {
		return zero, false
	}
	t, ok := w.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
