// Package host defines the service boundary to the CMS host. The builders
// and provisioning handlers consume these interfaces only; they never reach
// into host storage directly. Two reference implementations ship with the
// module: an in-memory host (memory) and a SQLite-backed host (sqlitehost).
package host

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/contentkit/contentkit/internal/schema"
)

// ErrNotFound is returned by lookup operations when no artifact exists for
// the given alias or parent. Callers use errors.Is to distinguish "absent"
// from real failures; absence is the normal idempotent-path signal, not an
// error condition.
var ErrNotFound = errors.New("host: not found")

// RootParentID is the sentinel parent id for the content root.
const RootParentID int64 = -1

// Container is a content-tree folder node. Containers carry no properties
// and exist purely to organize content instances.
type Container struct {
	ID       int64
	Key      uuid.UUID
	Name     string
	ParentID int64
}

// PublishResult reports the outcome of a publish attempt. Publish failure
// is data, not an error: the instance stays saved-but-unpublished and the
// invalid property aliases explain why.
type PublishResult struct {
	Success           bool
	InvalidProperties []string
}

// ContentTypeService persists and resolves content-type definitions.
type ContentTypeService interface {
	// GetByAlias returns the definition with the given alias, or ErrNotFound.
	GetByAlias(ctx context.Context, alias schema.Alias) (*schema.ContentTypeDefinition, error)

	// List returns every persisted definition.
	List(ctx context.Context) ([]*schema.ContentTypeDefinition, error)

	// Save persists a definition, assigning ID and Key on first save.
	// Saving a definition whose alias already belongs to another
	// definition, or whose property aliases collide (including across
	// compositions), is a constraint violation and returns an error.
	Save(ctx context.Context, def *schema.ContentTypeDefinition) error

	// CreateContainer creates a folder node under the given parent.
	CreateContainer(ctx context.Context, parentID int64, name string) (*Container, error)

	// ListContainers returns the folder nodes directly under the parent.
	ListContainers(ctx context.Context, parentID int64) ([]*Container, error)
}

// TemplateService persists and resolves render templates.
type TemplateService interface {
	// GetByAlias returns the template with the given alias, or ErrNotFound.
	GetByAlias(ctx context.Context, alias schema.Alias) (*schema.TemplateDefinition, error)

	// Save persists a template, creating it or updating the stored content.
	Save(ctx context.Context, tpl *schema.TemplateDefinition) error
}

// ContentService creates and publishes content instances.
type ContentService interface {
	// Create builds an unsaved instance of the given type under the parent.
	Create(ctx context.Context, name string, parentID int64, typeAlias schema.Alias) (*schema.ContentInstance, error)

	// Save persists the instance, assigning identity on first save.
	Save(ctx context.Context, c *schema.ContentInstance) error

	// Publish attempts to publish a saved instance.
	Publish(ctx context.Context, c *schema.ContentInstance) (PublishResult, error)

	// FirstChildOfType returns the first instance of the given type under
	// the parent, or ErrNotFound.
	FirstChildOfType(ctx context.Context, parentID int64, typeAlias schema.Alias) (*schema.ContentInstance, error)
}

// Services bundles the host service surface handed to builders and
// provisioning handlers.
type Services struct {
	ContentTypes ContentTypeService
	Templates    TemplateService
	Content      ContentService
}

// Scope groups the writes of one provisioning pass. Writes inside a scope
// become final only when Complete is called before Close; closing an
// uncompleted scope discards them. There is no cross-scope transaction.
type Scope interface {
	// Services returns the service surface bound to this scope.
	Services() Services

	// Complete marks the scope's writes for commit on Close.
	Complete()

	// Close finalizes the scope: commit when completed, discard otherwise.
	Close() error
}

// Host is a CMS host capable of scoped writes.
type Host interface {
	// Begin opens a write scope.
	Begin(ctx context.Context) (Scope, error)
}
