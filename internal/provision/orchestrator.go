package provision

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/contentkit/contentkit/internal/host"
)

// ErrDependencyCycle signals that the registered handlers' declared
// dependencies form a cycle and no valid run order exists.
var ErrDependencyCycle = errors.New("provision: dependency cycle between handlers")

// ErrUnknownDependency signals that a handler requires an alias no
// registered handler provides. Handlers are idempotent, so the provider of
// an artifact is expected to be registered even when the artifact already
// exists in the host.
var ErrUnknownDependency = errors.New("provision: no handler provides required alias")

// Policy decides how the orchestrator reacts to a failed handler.
type Policy int

const (
	// AbortOnFailure stops the run at the first failed handler. Artifacts
	// committed by earlier handlers persist; there is no cross-handler
	// transaction.
	AbortOnFailure Policy = iota

	// ContinueOnFailure logs the failure and keeps running the remaining
	// handlers. The run still reports an error at the end.
	ContinueOnFailure
)

// Orchestrator runs provisioning handlers in dependency order, each inside
// its own host scope. Writes commit only when the handler succeeds; a
// failed handler's writes are discarded.
type Orchestrator struct {
	host     host.Host
	logger   *zap.Logger
	policy   Policy
	handlers []Handler
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPolicy sets the failure policy. The default is AbortOnFailure.
func WithPolicy(p Policy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

// NewOrchestrator creates an orchestrator over the given host.
func NewOrchestrator(h host.Host, logger *zap.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{host: h, logger: logger, policy: AbortOnFailure}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Register adds handlers. Registration order only breaks ties; the run
// order is determined by each handler's declared dependencies.
func (o *Orchestrator) Register(handlers ...Handler) {
	o.handlers = append(o.handlers, handlers...)
}

// Run executes all registered handlers once, in dependency order. It
// returns an error when ordering is impossible (cycle, unknown
// dependency) or when a handler fails under the configured policy.
func (o *Orchestrator) Run(ctx context.Context) error {
	ordered, err := sortHandlers(o.handlers)
	if err != nil {
		return err
	}

	var failures []error
	for _, h := range ordered {
		result := o.runOne(ctx, h)
		if result.Outcome != OutcomeFailed {
			continue
		}

		err := fmt.Errorf("handler %q: %w", h.Alias(), result.Err)
		if o.policy == AbortOnFailure {
			return err
		}
		failures = append(failures, err)
	}

	if len(failures) > 0 {
		return fmt.Errorf("provisioning finished with %d failure(s): %w", len(failures), errors.Join(failures...))
	}
	return nil
}

// runOne executes a single handler inside its own scope, committing the
// scope only on success.
func (o *Orchestrator) runOne(ctx context.Context, h Handler) Result {
	logger := o.logger.With(zap.String("handler", h.Alias()))

	hostScope, err := o.host.Begin(ctx)
	if err != nil {
		logger.Error("failed to open provisioning scope", zap.Error(err))
		return Failed(fmt.Errorf("opening scope: %w", err))
	}

	result := h.Run(ctx, &Scope{services: hostScope.Services(), logger: logger})

	switch result.Outcome {
	case OutcomeCreated:
		hostScope.Complete()
		logger.Info("provisioned", zap.String("outcome", result.Outcome.String()))
	case OutcomeAlreadyExists:
		hostScope.Complete()
		logger.Info("already provisioned, skipping")
	case OutcomeFailed:
		logger.Error("provisioning failed", zap.Error(result.Err))
	}

	if err := hostScope.Close(); err != nil {
		logger.Error("failed to close provisioning scope", zap.Error(err))
		if result.Outcome != OutcomeFailed {
			return Failed(fmt.Errorf("closing scope: %w", err))
		}
	}

	return result
}

// sortHandlers topologically sorts handlers by their declared
// dependencies using Kahn's algorithm. Registration order decides ties so
// runs stay deterministic. A requirement no handler provides, or a cycle,
// is an ordering error detected before anything runs.
func sortHandlers(handlers []Handler) ([]Handler, error) {
	providers := make(map[string]int, len(handlers))
	for i, h := range handlers {
		if prev, dup := providers[h.Alias()]; dup {
			return nil, fmt.Errorf("handlers %d and %d both provide alias %q", prev, i, h.Alias())
		}
		providers[h.Alias()] = i
	}

	indegree := make([]int, len(handlers))
	dependents := make(map[int][]int, len(handlers))
	for i, h := range handlers {
		for _, req := range h.Requires() {
			provider, ok := providers[req]
			if !ok {
				return nil, fmt.Errorf("%w: handler %q requires %q", ErrUnknownDependency, h.Alias(), req)
			}
			indegree[i]++
			dependents[provider] = append(dependents[provider], i)
		}
	}

	var ready []int
	for i := range handlers {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	ordered := make([]Handler, 0, len(handlers))
	for len(ready) > 0 {
		// Lowest registration index first.
		next := 0
		for i := 1; i < len(ready); i++ {
			if ready[i] < ready[next] {
				next = i
			}
		}
		idx := ready[next]
		ready = append(ready[:next], ready[next+1:]...)

		ordered = append(ordered, handlers[idx])
		for _, dep := range dependents[idx] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(ordered) != len(handlers) {
		var stuck []string
		for i := range handlers {
			if indegree[i] > 0 {
				stuck = append(stuck, handlers[i].Alias())
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyCycle, stuck)
	}

	return ordered, nil
}
