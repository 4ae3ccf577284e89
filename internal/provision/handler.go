// Package provision orchestrates the startup handlers that create content
// types, compositions, folders and seed content through the host services.
// Handlers are idempotent and run exactly once per startup, sequentially,
// in dependency order. The check-then-act idempotency sequence assumes the
// host invokes provisioning in a single pass; concurrent provisioning is
// only protected by the host's unique-alias constraint.
package provision

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/contentkit/contentkit/internal/host"
	"github.com/contentkit/contentkit/internal/schema"
)

// ErrMissingDependency signals that an artifact a handler requires was
// absent at run time. Handlers fail loudly on this rather than degrading:
// continuing would produce a content type missing its composed properties.
var ErrMissingDependency = errors.New("provision: required artifact missing")

// Handler provisions one artifact. Implementations must be idempotent:
// when the artifact already exists they return AlreadyExists without
// modifying it.
type Handler interface {
	// Alias identifies the artifact the handler provides. Other handlers
	// reference it from Requires.
	Alias() string

	// Requires lists the aliases that must be provisioned before this
	// handler runs. The orchestrator orders handlers accordingly.
	Requires() []string

	// Run provisions the artifact inside the given scope. All host writes
	// must go through the scope's services so they commit or roll back as
	// a group.
	Run(ctx context.Context, scope *Scope) Result
}

// Scope wraps one handler's transactional boundary: the scoped host
// services plus a logger carrying the handler's identity.
type Scope struct {
	services host.Services
	logger   *zap.Logger
}

// Services returns the host services bound to this scope.
func (s *Scope) Services() host.Services {
	return s.services
}

// Logger returns the scope logger.
func (s *Scope) Logger() *zap.Logger {
	return s.logger
}

// requireContentType resolves a content type that must already exist,
// translating absence into ErrMissingDependency.
func requireContentType(ctx context.Context, svc host.ContentTypeService, alias schema.Alias) (*schema.ContentTypeDefinition, error) {
	def, err := svc.GetByAlias(ctx, alias)
	if errors.Is(err, host.ErrNotFound) {
		return nil, fmt.Errorf("%w: content type %q", ErrMissingDependency, alias)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up content type %q: %w", alias, err)
	}
	return def, nil
}

// exists reports whether a content type with the alias is already
// provisioned. Lookup failures other than absence are returned.
func exists(ctx context.Context, svc host.ContentTypeService, alias schema.Alias) (bool, error) {
	_, err := svc.GetByAlias(ctx, alias)
	if errors.Is(err, host.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up content type %q: %w", alias, err)
	}
	return true, nil
}
