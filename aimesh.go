// Package aimesh provides a high-level façade over the workflow registry and
// the capability implementations, enabling a content-management backend to
// call interchangeable AI workflows without branching on which one is
// configured. Most applications interact with this package by:
//  1. Creating a Mesh via New() (optionally with a loaded config and logger)
//  2. Resolving a capability (Research, Metadata, Content, Image, Bulk, Task)
//  3. Invoking its synchronous or streaming operation
//
// The façade constructs every implementation once at startup, registers the
// builtins as capability defaults, and promotes configuration-gated
// implementations (webhook research, OpenAI image, Anthropic content) to
// default whenever their configuration is present. The same calling code
// therefore runs against builtins in a bare environment and against the
// richer implementations when they are configured.
package aimesh

import (
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"

	"github.com/notefold/aimesh/config"
	"github.com/notefold/aimesh/logging"
	"github.com/notefold/aimesh/registry"
	"github.com/notefold/aimesh/workflow"
	anthropicwf "github.com/notefold/aimesh/workflow/anthropic"
	"github.com/notefold/aimesh/workflow/builtin"
	openaiwf "github.com/notefold/aimesh/workflow/openai"
	"github.com/notefold/aimesh/workflow/webhook"
)

// Options configure the Mesh instance.
type Options struct {
	// Config gates which non-builtin implementations become defaults.
	// A nil config runs with builtins only.
	Config *config.Config

	// Searcher supplies the note corpus used by builtin research.
	Searcher builtin.NoteSearcher

	// HTTPClient is shared by HTTP-backed implementations. Leave nil for
	// a default client without timeout; streaming calls must be bounded
	// by their context.
	HTTPClient *http.Client

	// StreamBuffer sets the event channel capacity for streaming calls.
	StreamBuffer int

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Mesh is the high-level façade owning the workflow registry.
type Mesh struct {
	opts     Options
	registry *registry.Registry
}

// New creates a Mesh and bootstraps all workflow implementations. Every
// capability gets its builtin registered first, becoming the initial
// default; configuration-gated implementations are then registered and
// promoted when available.
func New(optFns ...func(o *Options)) *Mesh {
	opts := Options{
		Logger:       logging.NoOpLogger{},
		StreamBuffer: 32,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Config == nil {
		opts.Config = &config.Config{}
	}

	m := &Mesh{
		opts:     opts,
		registry: registry.New(func(o *registry.Options) { o.Logger = opts.Logger }),
	}
	m.bootstrap()
	return m
}

func (m *Mesh) bootstrap() {
	cfg := m.opts.Config

	m.registry.Register(builtin.NewResearch(func(o *builtin.ResearchOptions) {
		o.Searcher = m.opts.Searcher
		o.Logger = m.opts.Logger
	}), false)
	m.registry.Register(builtin.NewMetadata(), false)
	m.registry.Register(builtin.NewContent(), false)
	m.registry.Register(builtin.NewImage(), false)
	m.registry.Register(builtin.NewBulk(func(o *builtin.BulkOptions) {
		o.Logger = m.opts.Logger
	}), false)
	m.registry.Register(builtin.NewTask(), false)

	m.promote(webhook.NewResearch(func(o *webhook.ResearchOptions) {
		o.URL = cfg.Research.WebhookURL
		o.APIKey = cfg.Research.APIKey
		o.Timeout = cfg.Research.Timeout
		o.HTTPClient = m.opts.HTTPClient
		o.StreamBuffer = m.opts.StreamBuffer
		o.Logger = m.opts.Logger
	}))

	m.promote(openaiwf.NewImage(func(o *openaiwf.Options) {
		o.APIKey = cfg.OpenAI.APIKey
		if cfg.OpenAI.Model != "" {
			o.Model = openai.ImageModel(cfg.OpenAI.Model)
		}
	}))

	m.promote(anthropicwf.NewContent(func(o *anthropicwf.Options) {
		o.APIKey = cfg.Anthropic.APIKey
		if cfg.Anthropic.Model != "" {
			o.Model = anthropic.Model(cfg.Anthropic.Model)
		}
		o.StreamBuffer = m.opts.StreamBuffer
		o.Logger = m.opts.Logger
	}))
}

// promote registers a configuration-gated implementation and makes it the
// capability default only when its availability probe passes. Unavailable
// implementations stay registered so pinned lookups and stats still see
// them; availability resolution skips them anyway.
func (m *Mesh) promote(w workflow.Workflow) {
	m.registry.Register(w, w.Available())
}

// Registry exposes the underlying registry for administrative operations
// (introspection, runtime registration of custom implementations).
func (m *Mesh) Registry() *registry.Registry { return m.registry }

// Workflow resolves a capability to a base workflow: pinned by id when one
// is given, otherwise the best available implementation.
func (m *Mesh) Workflow(typ workflow.Type, id ...string) (workflow.Workflow, bool) {
	if len(id) > 0 && id[0] != "" {
		return m.registry.Get(typ, id[0])
	}
	return m.registry.Available(typ)
}

// Research resolves the research capability.
func (m *Mesh) Research(id ...string) (workflow.Research, bool) {
	return registry.As[workflow.Research](m.Workflow(workflow.TypeResearch, id...))
}

// Metadata resolves the metadata capability.
func (m *Mesh) Metadata(id ...string) (workflow.Metadata, bool) {
	return registry.As[workflow.Metadata](m.Workflow(workflow.TypeMetadata, id...))
}

// Content resolves the content capability.
func (m *Mesh) Content(id ...string) (workflow.Content, bool) {
	return registry.As[workflow.Content](m.Workflow(workflow.TypeContent, id...))
}

// Image resolves the image capability.
func (m *Mesh) Image(id ...string) (workflow.Image, bool) {
	return registry.As[workflow.Image](m.Workflow(workflow.TypeImage, id...))
}

// Bulk resolves the bulk capability.
func (m *Mesh) Bulk(id ...string) (workflow.Bulk, bool) {
	return registry.As[workflow.Bulk](m.Workflow(workflow.TypeBulk, id...))
}

// Task resolves the task capability.
func (m *Mesh) Task(id ...string) (workflow.Task, bool) {
	return registry.As[workflow.Task](m.Workflow(workflow.TypeTask, id...))
}
