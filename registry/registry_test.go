package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notefold/aimesh/workflow"
)

// stubWorkflow is a minimal registrable research implementation with a
// controllable availability probe.
type stubWorkflow struct {
	info      workflow.Info
	available bool
	executed  int
}

func newStub(typ workflow.Type, id string, available bool) *stubWorkflow {
	return &stubWorkflow{
		info:      workflow.Info{Type: typ, ID: id, Name: id, Description: "stub"},
		available: available,
	}
}

func (s *stubWorkflow) Info() workflow.Info { return s.info }
func (s *stubWorkflow) Available() bool     { return s.available }

func (s *stubWorkflow) Execute(context.Context, workflow.Query) (*workflow.Answer, error) {
	s.executed++
	return &workflow.Answer{Response: "stub answer from " + s.info.ID}, nil
}

func (s *stubWorkflow) ExecuteStream(ctx context.Context, q workflow.Query) <-chan workflow.Event {
	out := make(chan workflow.Event, 1)
	out <- workflow.NewDoneEvent()
	close(out)
	return out
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := New()
	a := newStub(workflow.TypeResearch, "a", true)
	reg.Register(a, false)

	got, ok := reg.Get(workflow.TypeResearch, "a")
	require.True(t, ok)
	assert.Equal(t, a, got)

	_, ok = reg.Get(workflow.TypeResearch, "missing")
	assert.False(t, ok)

	_, ok = reg.Get(workflow.TypeImage, "a")
	assert.False(t, ok, "lookup is keyed by (type, id), not id alone")
}

func TestRegistry_FirstRegistrationBecomesDefault(t *testing.T) {
	reg := New()
	a := newStub(workflow.TypeResearch, "a", true)
	b := newStub(workflow.TypeResearch, "b", true)
	reg.Register(a, false)
	reg.Register(b, false)

	def, ok := reg.Default(workflow.TypeResearch)
	require.True(t, ok)
	assert.Equal(t, "a", def.Info().ID)
}

func TestRegistry_RegisterMakeDefaultOverrides(t *testing.T) {
	reg := New()
	reg.Register(newStub(workflow.TypeResearch, "a", true), false)
	reg.Register(newStub(workflow.TypeResearch, "b", true), true)

	def, ok := reg.Default(workflow.TypeResearch)
	require.True(t, ok)
	assert.Equal(t, "b", def.Info().ID)
}

func TestRegistry_AvailableFallsBackFromUnavailableDefault(t *testing.T) {
	reg := New()
	a := newStub(workflow.TypeResearch, "a", false)
	b := newStub(workflow.TypeResearch, "b", true)
	reg.Register(a, true)
	reg.Register(b, false)

	got, ok := reg.Available(workflow.TypeResearch)
	require.True(t, ok)
	assert.Equal(t, "b", got.Info().ID)
}

func TestRegistry_AvailableTracksProbeChanges(t *testing.T) {
	reg := New()
	a := newStub(workflow.TypeResearch, "a", false)
	reg.Register(a, false)

	_, ok := reg.Available(workflow.TypeResearch)
	assert.False(t, ok)

	a.available = true
	got, ok := reg.Available(workflow.TypeResearch)
	require.True(t, ok)
	assert.Equal(t, "a", got.Info().ID)
}

func TestRegistry_AvailablePrefersDefault(t *testing.T) {
	reg := New()
	reg.Register(newStub(workflow.TypeResearch, "a", true), false)
	reg.Register(newStub(workflow.TypeResearch, "b", true), true)

	got, ok := reg.Available(workflow.TypeResearch)
	require.True(t, ok)
	assert.Equal(t, "b", got.Info().ID)
}

func TestRegistry_SetDefault(t *testing.T) {
	reg := New()
	reg.Register(newStub(workflow.TypeResearch, "a", true), false)
	reg.Register(newStub(workflow.TypeResearch, "b", true), false)

	require.True(t, reg.SetDefault(workflow.TypeResearch, "b"))
	def, _ := reg.Default(workflow.TypeResearch)
	assert.Equal(t, "b", def.Info().ID)

	// Unregistered id: soft failure, no mutation.
	assert.False(t, reg.SetDefault(workflow.TypeResearch, "ghost"))
	def, _ = reg.Default(workflow.TypeResearch)
	assert.Equal(t, "b", def.Info().ID)
}

func TestRegistry_UnregisterPromotesNextDefault(t *testing.T) {
	reg := New()
	reg.Register(newStub(workflow.TypeResearch, "a", true), true)
	reg.Register(newStub(workflow.TypeResearch, "b", true), false)

	require.True(t, reg.Unregister(workflow.TypeResearch, "a"))
	def, ok := reg.Default(workflow.TypeResearch)
	require.True(t, ok)
	assert.Equal(t, "b", def.Info().ID)

	require.True(t, reg.Unregister(workflow.TypeResearch, "b"))
	_, ok = reg.Default(workflow.TypeResearch)
	assert.False(t, ok)

	assert.False(t, reg.Unregister(workflow.TypeResearch, "b"), "double unregister reports missing")
}

func TestRegistry_IdempotentReRegistration(t *testing.T) {
	reg := New()
	reg.Register(newStub(workflow.TypeResearch, "a", true), false)

	replacement := newStub(workflow.TypeResearch, "a", true)
	replacement.info.Name = "replacement"
	reg.Register(replacement, false)

	all := reg.AllOfType(workflow.TypeResearch)
	require.Len(t, all, 1, "overwrite must not create a duplicate entry")
	assert.Equal(t, "replacement", all[0].Info().Name)

	got, ok := reg.Get(workflow.TypeResearch, "a")
	require.True(t, ok)
	assert.Equal(t, "replacement", got.Info().Name)
}

func TestRegistry_AllOfTypePreservesRegistrationOrder(t *testing.T) {
	reg := New()
	reg.Register(newStub(workflow.TypeResearch, "a", true), false)
	reg.Register(newStub(workflow.TypeImage, "x", true), false)
	reg.Register(newStub(workflow.TypeResearch, "b", true), false)

	all := reg.AllOfType(workflow.TypeResearch)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Info().ID)
	assert.Equal(t, "b", all[1].Info().ID)
}

func TestRegistry_Stats(t *testing.T) {
	reg := New()
	reg.Register(newStub(workflow.TypeResearch, "a", false), false)
	reg.Register(newStub(workflow.TypeResearch, "b", true), false)
	reg.Register(newStub(workflow.TypeTask, "t", true), false)

	stats := reg.Stats()
	assert.Equal(t, 3, stats.Total)

	research := stats.ByType[workflow.TypeResearch]
	assert.Equal(t, []string{"a", "b"}, research.Implementations)
	assert.Equal(t, "a", research.Default)
	assert.Equal(t, 1, research.Available)
}

func TestAs_NarrowsToCapabilityInterface(t *testing.T) {
	reg := New()
	reg.Register(newStub(workflow.TypeResearch, "a", true), false)

	research, ok := As[workflow.Research](reg.Available(workflow.TypeResearch))
	require.True(t, ok)

	answer, err := research.Execute(context.Background(), workflow.Query{Query: "q"})
	require.NoError(t, err)
	assert.Contains(t, answer.Response, "a")

	_, ok = As[workflow.Image](reg.Available(workflow.TypeResearch))
	assert.False(t, ok, "research stub does not satisfy the image interface")

	_, ok = As[workflow.Research](reg.Available(workflow.TypeBulk))
	assert.False(t, ok, "missing lookup stays missing after narrowing")
}
