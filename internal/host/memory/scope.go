package memory

import (
	"context"

	"github.com/contentkit/contentkit/internal/host"
	"github.com/contentkit/contentkit/internal/schema"
)

// snapshot captures the whole host state. Scopes restore it when closed
// without completion, which is affordable here because provisioning drives
// the host sequentially with small state.
type snapshot struct {
	nextID     int64
	types      map[schema.Alias]schema.ContentTypeDefinition
	typeOrder  []schema.Alias
	templates  map[schema.Alias]schema.TemplateDefinition
	containers []host.Container
	content    []schema.ContentInstance
	stats      Stats
}

type scope struct {
	h         *Host
	snap      snapshot
	completed bool
	closed    bool
}

// Begin implements host.Host. Writes made through the returned scope's
// services apply immediately and are rolled back on Close unless Complete
// was called first.
func (h *Host) Begin(ctx context.Context) (host.Scope, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return &scope{h: h, snap: h.capture()}, nil
}

func (s *scope) Services() host.Services {
	return s.h.Services()
}

func (s *scope) Complete() {
	s.completed = true
}

func (s *scope) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.completed {
		return nil
	}

	s.h.mu.Lock()
	defer s.h.mu.Unlock()
	s.h.restore(s.snap)
	return nil
}

func (h *Host) capture() snapshot {
	snap := snapshot{
		nextID:     h.nextID,
		types:      make(map[schema.Alias]schema.ContentTypeDefinition, len(h.types)),
		typeOrder:  append([]schema.Alias(nil), h.typeOrder...),
		templates:  make(map[schema.Alias]schema.TemplateDefinition, len(h.templates)),
		containers: append([]host.Container(nil), h.containers...),
		content:    append([]schema.ContentInstance(nil), h.content...),
		stats:      h.stats,
	}
	for alias, def := range h.types {
		snap.types[alias] = *cloneType(&def)
	}
	for alias, tpl := range h.templates {
		snap.templates[alias] = tpl
	}
	return snap
}

func (h *Host) restore(snap snapshot) {
	h.nextID = snap.nextID
	h.types = snap.types
	h.typeOrder = snap.typeOrder
	h.templates = snap.templates
	h.containers = snap.containers
	h.content = snap.content
	h.stats = snap.stats
}
