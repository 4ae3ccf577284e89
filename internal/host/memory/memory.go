// Package memory provides an in-memory host implementation. It backs tests
// and demos, and enforces the constraints the host boundary promises:
// alias uniqueness, property-alias uniqueness across compositions, and
// identity assignment on save.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/contentkit/contentkit/internal/host"
	"github.com/contentkit/contentkit/internal/schema"
)

// Stats counts the write operations the host has performed. Tests use it
// to assert idempotency (one create, not two).
type Stats struct {
	ContentTypeSaves int
	TemplateSaves    int
	ContainerCreates int
	ContentCreates   int
	ContentSaves     int
	Publishes        int
}

// Host is an in-memory CMS host. Safe for concurrent use, though the
// provisioning layer only ever drives it sequentially.
type Host struct {
	mu         sync.RWMutex
	nextID     int64
	types      map[schema.Alias]schema.ContentTypeDefinition
	typeOrder  []schema.Alias
	templates  map[schema.Alias]schema.TemplateDefinition
	containers []host.Container
	content    []schema.ContentInstance
	stats      Stats

	// PublishFailure, when set, makes Publish report the returned aliases
	// as invalid instead of succeeding. Tests use it to exercise the
	// saved-but-unpublished path.
	PublishFailure func(c *schema.ContentInstance) []string
}

// New creates an empty in-memory host.
func New() *Host {
	return &Host{
		types:     make(map[schema.Alias]schema.ContentTypeDefinition),
		templates: make(map[schema.Alias]schema.TemplateDefinition),
	}
}

// Services returns the host's service surface.
func (h *Host) Services() host.Services {
	return host.Services{
		ContentTypes: typeService{h},
		Templates:    templateService{h},
		Content:      contentService{h},
	}
}

// Stats returns a copy of the operation counters.
func (h *Host) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stats
}

func (h *Host) allocID() int64 {
	h.nextID++
	return h.nextID
}

// typeService implements host.ContentTypeService.
type typeService struct{ h *Host }

func (s typeService) GetByAlias(ctx context.Context, alias schema.Alias) (*schema.ContentTypeDefinition, error) {
	s.h.mu.RLock()
	defer s.h.mu.RUnlock()

	def, ok := s.h.types[alias]
	if !ok {
		return nil, fmt.Errorf("content type %q: %w", alias, host.ErrNotFound)
	}
	return cloneType(&def), nil
}

// List returns definitions in the order they were first saved.
func (s typeService) List(ctx context.Context) ([]*schema.ContentTypeDefinition, error) {
	s.h.mu.RLock()
	defer s.h.mu.RUnlock()

	out := make([]*schema.ContentTypeDefinition, 0, len(s.h.typeOrder))
	for _, alias := range s.h.typeOrder {
		def := s.h.types[alias]
		out = append(out, cloneType(&def))
	}
	return out, nil
}

// Save rejects duplicate content-type aliases and any property-alias
// collision within the definition or across its compositions.
func (s typeService) Save(ctx context.Context, def *schema.ContentTypeDefinition) error {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()

	s.h.stats.ContentTypeSaves++

	if def.Alias.IsZero() {
		return fmt.Errorf("content type requires an alias")
	}
	if _, exists := s.h.types[def.Alias]; exists {
		return fmt.Errorf("content type %q already exists", def.Alias)
	}
	if err := def.ValidateGroups(); err != nil {
		return err
	}

	// Composition union check: every composed alias must resolve, and the
	// union must be free of property-alias collisions.
	if _, err := def.EffectiveGroups(func(alias schema.Alias) (*schema.ContentTypeDefinition, error) {
		comp, ok := s.h.types[alias]
		if !ok {
			return nil, fmt.Errorf("composition %q: %w", alias, host.ErrNotFound)
		}
		return &comp, nil
	}); err != nil {
		return fmt.Errorf("content type %q: %w", def.Alias, err)
	}

	def.ID = s.h.allocID()
	def.Key = uuid.New()
	s.h.types[def.Alias] = *cloneType(def)
	s.h.typeOrder = append(s.h.typeOrder, def.Alias)
	return nil
}

func (s typeService) CreateContainer(ctx context.Context, parentID int64, name string) (*host.Container, error) {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()

	s.h.stats.ContainerCreates++
	c := host.Container{
		ID:       s.h.allocID(),
		Key:      uuid.New(),
		Name:     name,
		ParentID: parentID,
	}
	s.h.containers = append(s.h.containers, c)
	return &c, nil
}

func (s typeService) ListContainers(ctx context.Context, parentID int64) ([]*host.Container, error) {
	s.h.mu.RLock()
	defer s.h.mu.RUnlock()

	var out []*host.Container
	for i := range s.h.containers {
		if s.h.containers[i].ParentID == parentID {
			c := s.h.containers[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

// templateService implements host.TemplateService.
type templateService struct{ h *Host }

func (s templateService) GetByAlias(ctx context.Context, alias schema.Alias) (*schema.TemplateDefinition, error) {
	s.h.mu.RLock()
	defer s.h.mu.RUnlock()

	tpl, ok := s.h.templates[alias]
	if !ok {
		return nil, fmt.Errorf("template %q: %w", alias, host.ErrNotFound)
	}
	return &tpl, nil
}

// Save updates existing templates in place and assigns identity to new
// ones.
func (s templateService) Save(ctx context.Context, tpl *schema.TemplateDefinition) error {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()

	s.h.stats.TemplateSaves++

	if tpl.Alias.IsZero() {
		return fmt.Errorf("template requires an alias")
	}
	if existing, ok := s.h.templates[tpl.Alias]; ok {
		tpl.ID = existing.ID
	} else {
		tpl.ID = s.h.allocID()
	}
	s.h.templates[tpl.Alias] = *tpl
	return nil
}

// contentService implements host.ContentService.
type contentService struct{ h *Host }

func (s contentService) Create(ctx context.Context, name string, parentID int64, typeAlias schema.Alias) (*schema.ContentInstance, error) {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()

	s.h.stats.ContentCreates++
	if _, ok := s.h.types[typeAlias]; !ok {
		return nil, fmt.Errorf("content type %q: %w", typeAlias, host.ErrNotFound)
	}
	return &schema.ContentInstance{
		Name:      name,
		ParentID:  parentID,
		TypeAlias: typeAlias,
	}, nil
}

func (s contentService) Save(ctx context.Context, c *schema.ContentInstance) error {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()

	s.h.stats.ContentSaves++
	if c.ID == 0 {
		c.ID = s.h.allocID()
		c.Key = uuid.New()
		s.h.content = append(s.h.content, *c)
		return nil
	}
	for i := range s.h.content {
		if s.h.content[i].ID == c.ID {
			s.h.content[i] = *c
			return nil
		}
	}
	return fmt.Errorf("content %d: %w", c.ID, host.ErrNotFound)
}

func (s contentService) Publish(ctx context.Context, c *schema.ContentInstance) (host.PublishResult, error) {
	s.h.mu.Lock()
	defer s.h.mu.Unlock()

	s.h.stats.Publishes++
	if s.h.PublishFailure != nil {
		if invalid := s.h.PublishFailure(c); len(invalid) > 0 {
			return host.PublishResult{Success: false, InvalidProperties: invalid}, nil
		}
	}
	c.Published = true
	for i := range s.h.content {
		if s.h.content[i].ID == c.ID {
			s.h.content[i].Published = true
		}
	}
	return host.PublishResult{Success: true}, nil
}

func (s contentService) FirstChildOfType(ctx context.Context, parentID int64, typeAlias schema.Alias) (*schema.ContentInstance, error) {
	s.h.mu.RLock()
	defer s.h.mu.RUnlock()

	for i := range s.h.content {
		if s.h.content[i].ParentID == parentID && s.h.content[i].TypeAlias == typeAlias {
			c := s.h.content[i]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("no %q under %d: %w", typeAlias, parentID, host.ErrNotFound)
}

func cloneType(def *schema.ContentTypeDefinition) *schema.ContentTypeDefinition {
	out := *def
	out.Groups = make([]schema.PropertyGroup, len(def.Groups))
	for i, g := range def.Groups {
		out.Groups[i] = g
		out.Groups[i].Properties = append([]schema.PropertyDefinition(nil), g.Properties...)
	}
	out.Compositions = append([]schema.Alias(nil), def.Compositions...)
	out.AllowedChildTypes = append([]schema.Alias(nil), def.AllowedChildTypes...)
	out.AllowedTemplates = append([]schema.Alias(nil), def.AllowedTemplates...)
	return &out
}
