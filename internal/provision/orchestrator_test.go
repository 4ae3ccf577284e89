package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentkit/contentkit/internal/host/memory"
	"github.com/contentkit/contentkit/internal/schema"
)

// fakeHandler records its execution into a shared order slice.
type fakeHandler struct {
	alias    string
	requires []string
	order    *[]string
	run      func(ctx context.Context, scope *Scope) Result
}

func (f *fakeHandler) Alias() string      { return f.alias }
func (f *fakeHandler) Requires() []string { return f.requires }

func (f *fakeHandler) Run(ctx context.Context, scope *Scope) Result {
	if f.order != nil {
		*f.order = append(*f.order, f.alias)
	}
	if f.run != nil {
		return f.run(ctx, scope)
	}
	return Created()
}

func TestRunOrdersByDependencies(t *testing.T) {
	var order []string
	o := NewOrchestrator(memory.New(), nil)

	// Registered backwards; dependencies dictate the run order.
	o.Register(
		&fakeHandler{alias: "page", requires: []string{"composition"}, order: &order},
		&fakeHandler{alias: "content", requires: []string{"page"}, order: &order},
		&fakeHandler{alias: "composition", order: &order},
	)

	require.NoError(t, o.Run(context.Background()))
	assert.Equal(t, []string{"composition", "page", "content"}, order)
}

func TestRegistrationOrderBreaksTies(t *testing.T) {
	var order []string
	o := NewOrchestrator(memory.New(), nil)
	o.Register(
		&fakeHandler{alias: "first", order: &order},
		&fakeHandler{alias: "second", order: &order},
		&fakeHandler{alias: "third", order: &order},
	)

	require.NoError(t, o.Run(context.Background()))
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestDependencyCycleDetected(t *testing.T) {
	var order []string
	o := NewOrchestrator(memory.New(), nil)
	o.Register(
		&fakeHandler{alias: "a", requires: []string{"b"}, order: &order},
		&fakeHandler{alias: "b", requires: []string{"a"}, order: &order},
	)

	err := o.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDependencyCycle))
	assert.Empty(t, order, "no handler runs when ordering fails")
}

func TestUnknownDependencyDetected(t *testing.T) {
	o := NewOrchestrator(memory.New(), nil)
	o.Register(&fakeHandler{alias: "page", requires: []string{"missing"}})

	err := o.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownDependency))
	assert.Contains(t, err.Error(), "missing")
}

func TestDuplicateProviderRejected(t *testing.T) {
	o := NewOrchestrator(memory.New(), nil)
	o.Register(
		&fakeHandler{alias: "page"},
		&fakeHandler{alias: "page"},
	)

	err := o.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both provide")
}

func TestAbortOnFailureStopsRun(t *testing.T) {
	var order []string
	boom := errors.New("host unavailable")
	o := NewOrchestrator(memory.New(), nil)
	o.Register(
		&fakeHandler{alias: "broken", order: &order, run: func(context.Context, *Scope) Result {
			return Failed(boom)
		}},
		&fakeHandler{alias: "next", order: &order},
	)

	err := o.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, []string{"broken"}, order)
}

func TestContinueOnFailureRunsRemaining(t *testing.T) {
	var order []string
	boom := errors.New("host unavailable")
	o := NewOrchestrator(memory.New(), nil, WithPolicy(ContinueOnFailure))
	o.Register(
		&fakeHandler{alias: "broken", order: &order, run: func(context.Context, *Scope) Result {
			return Failed(boom)
		}},
		&fakeHandler{alias: "next", order: &order},
	)

	err := o.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, []string{"broken", "next"}, order)
}

func TestFailedHandlerWritesRollBack(t *testing.T) {
	h := memory.New()
	boom := errors.New("later step failed")
	o := NewOrchestrator(h, nil)
	o.Register(&fakeHandler{alias: "partial", run: func(ctx context.Context, scope *Scope) Result {
		def := &schema.ContentTypeDefinition{Alias: "partial", Name: "Partial"}
		if err := scope.Services().ContentTypes.Save(ctx, def); err != nil {
			return Failed(err)
		}
		return Failed(boom)
	}})

	err := o.Run(context.Background())
	require.Error(t, err)

	_, err = h.Services().ContentTypes.GetByAlias(context.Background(), "partial")
	assert.Error(t, err, "writes from a failed handler must not persist")
}

func TestSuccessfulHandlerWritesCommit(t *testing.T) {
	h := memory.New()
	o := NewOrchestrator(h, nil)
	o.Register(&fakeHandler{alias: "whole", run: func(ctx context.Context, scope *Scope) Result {
		def := &schema.ContentTypeDefinition{Alias: "whole", Name: "Whole"}
		if err := scope.Services().ContentTypes.Save(ctx, def); err != nil {
			return Failed(err)
		}
		return Created()
	}})

	require.NoError(t, o.Run(context.Background()))

	_, err := h.Services().ContentTypes.GetByAlias(context.Background(), "whole")
	assert.NoError(t, err)
}
