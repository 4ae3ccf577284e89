// Package sqlitehost provides a SQLite-backed host implementation for
// local development. Definitions and templates are stored as JSON
// documents keyed by alias; content and containers are relational. Scopes
// map directly onto SQL transactions.
package sqlitehost

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/contentkit/contentkit/internal/host"
	"github.com/contentkit/contentkit/internal/schema"
)

const ddl = `
CREATE TABLE IF NOT EXISTS content_types (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    alias      TEXT NOT NULL UNIQUE,
    definition TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS templates (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    alias      TEXT NOT NULL UNIQUE,
    definition TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS containers (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    key       TEXT NOT NULL,
    name      TEXT NOT NULL,
    parent_id INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS content (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    key             TEXT NOT NULL,
    name            TEXT NOT NULL,
    parent_id       INTEGER NOT NULL,
    type_alias      TEXT NOT NULL,
    property_values TEXT NOT NULL,
    published       INTEGER NOT NULL DEFAULT 0
);
`

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so
// the same service code serves both scoped and unscoped access.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Host is a SQLite-backed CMS host.
type Host struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the
// host tables exist.
func Open(ctx context.Context, path string) (*Host, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %q: %w", path, err)
	}
	// An in-memory database exists per connection; pin the pool so every
	// scope sees the same one.
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		db.SetMaxOpenConns(1)
	}
	h := &Host{db: db}
	if err := h.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

// New wraps an existing database handle and ensures the host tables exist.
func New(ctx context.Context, db *sql.DB) (*Host, error) {
	h := &Host{db: db}
	if err := h.init(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Host) init(ctx context.Context) error {
	if _, err := h.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating host tables: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (h *Host) Close() error {
	return h.db.Close()
}

// Services returns an unscoped service surface writing directly to the
// database.
func (h *Host) Services() host.Services {
	return servicesFor(h.db)
}

// Begin implements host.Host: the scope is a SQL transaction, committed
// on Complete+Close and rolled back otherwise.
func (h *Host) Begin(ctx context.Context) (host.Scope, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return &txScope{tx: tx}, nil
}

type txScope struct {
	tx        *sql.Tx
	completed bool
	closed    bool
}

func (s *txScope) Services() host.Services {
	return servicesFor(s.tx)
}

func (s *txScope) Complete() {
	s.completed = true
}

func (s *txScope) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.completed {
		if err := s.tx.Commit(); err != nil {
			return fmt.Errorf("committing scope: %w", err)
		}
		return nil
	}
	if err := s.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("rolling back scope: %w", err)
	}
	return nil
}

func servicesFor(q querier) host.Services {
	return host.Services{
		ContentTypes: typeService{q},
		Templates:    templateService{q},
		Content:      contentService{q},
	}
}

// typeService implements host.ContentTypeService over SQLite.
type typeService struct{ q querier }

func (s typeService) GetByAlias(ctx context.Context, alias schema.Alias) (*schema.ContentTypeDefinition, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT id, definition FROM content_types WHERE alias = ?`, alias.String())
	return scanType(row)
}

func (s typeService) List(ctx context.Context) ([]*schema.ContentTypeDefinition, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, definition FROM content_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing content types: %w", err)
	}
	defer rows.Close()

	var out []*schema.ContentTypeDefinition
	for rows.Next() {
		var id int64
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning content type: %w", err)
		}
		def, err := decodeType(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, rows.Err()
}

func (s typeService) Save(ctx context.Context, def *schema.ContentTypeDefinition) error {
	if def.Alias.IsZero() {
		return fmt.Errorf("content type requires an alias")
	}
	if err := def.ValidateGroups(); err != nil {
		return err
	}
	if _, err := def.EffectiveGroups(func(alias schema.Alias) (*schema.ContentTypeDefinition, error) {
		return s.GetByAlias(ctx, alias)
	}); err != nil {
		return fmt.Errorf("content type %q: %w", def.Alias, err)
	}

	def.Key = uuid.New()
	raw, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("encoding content type %q: %w", def.Alias, err)
	}

	// The UNIQUE constraint on alias is the duplicate guard; a second
	// save of the same alias fails here.
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO content_types (alias, definition) VALUES (?, ?)`,
		def.Alias.String(), string(raw))
	if err != nil {
		return fmt.Errorf("saving content type %q: %w", def.Alias, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading content type id: %w", err)
	}
	def.ID = id
	return nil
}

func (s typeService) CreateContainer(ctx context.Context, parentID int64, name string) (*host.Container, error) {
	key := uuid.New()
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO containers (key, name, parent_id) VALUES (?, ?, ?)`,
		key.String(), name, parentID)
	if err != nil {
		return nil, fmt.Errorf("creating container %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading container id: %w", err)
	}
	return &host.Container{ID: id, Key: key, Name: name, ParentID: parentID}, nil
}

func (s typeService) ListContainers(ctx context.Context, parentID int64) ([]*host.Container, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, key, name, parent_id FROM containers WHERE parent_id = ? ORDER BY id`, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing containers under %d: %w", parentID, err)
	}
	defer rows.Close()

	var out []*host.Container
	for rows.Next() {
		var c host.Container
		var key string
		if err := rows.Scan(&c.ID, &key, &c.Name, &c.ParentID); err != nil {
			return nil, fmt.Errorf("scanning container: %w", err)
		}
		parsed, err := uuid.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("parsing container key: %w", err)
		}
		c.Key = parsed
		out = append(out, &c)
	}
	return out, rows.Err()
}

// templateService implements host.TemplateService over SQLite.
type templateService struct{ q querier }

func (s templateService) GetByAlias(ctx context.Context, alias schema.Alias) (*schema.TemplateDefinition, error) {
	var id int64
	var raw string
	err := s.q.QueryRowContext(ctx,
		`SELECT id, definition FROM templates WHERE alias = ?`, alias.String()).Scan(&id, &raw)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("template %q: %w", alias, host.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading template %q: %w", alias, err)
	}

	var tpl schema.TemplateDefinition
	if err := json.Unmarshal([]byte(raw), &tpl); err != nil {
		return nil, fmt.Errorf("decoding template %q: %w", alias, err)
	}
	tpl.ID = id
	return &tpl, nil
}

func (s templateService) Save(ctx context.Context, tpl *schema.TemplateDefinition) error {
	if tpl.Alias.IsZero() {
		return fmt.Errorf("template requires an alias")
	}
	raw, err := json.Marshal(tpl)
	if err != nil {
		return fmt.Errorf("encoding template %q: %w", tpl.Alias, err)
	}

	res, err := s.q.ExecContext(ctx,
		`INSERT INTO templates (alias, definition) VALUES (?, ?)
		 ON CONFLICT(alias) DO UPDATE SET definition = excluded.definition`,
		tpl.Alias.String(), string(raw))
	if err != nil {
		return fmt.Errorf("saving template %q: %w", tpl.Alias, err)
	}
	if tpl.ID == 0 {
		if id, err := res.LastInsertId(); err == nil {
			tpl.ID = id
		}
	}
	return nil
}

// contentService implements host.ContentService over SQLite.
type contentService struct{ q querier }

func (s contentService) Create(ctx context.Context, name string, parentID int64, typeAlias schema.Alias) (*schema.ContentInstance, error) {
	if _, err := (typeService{s.q}).GetByAlias(ctx, typeAlias); err != nil {
		return nil, err
	}
	return &schema.ContentInstance{
		Name:      name,
		ParentID:  parentID,
		TypeAlias: typeAlias,
	}, nil
}

func (s contentService) Save(ctx context.Context, c *schema.ContentInstance) error {
	values, err := json.Marshal(c.Values)
	if err != nil {
		return fmt.Errorf("encoding content values: %w", err)
	}

	if c.ID == 0 {
		c.Key = uuid.New()
		res, err := s.q.ExecContext(ctx,
			`INSERT INTO content (key, name, parent_id, type_alias, property_values, published)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			c.Key.String(), c.Name, c.ParentID, c.TypeAlias.String(), string(values), c.Published)
		if err != nil {
			return fmt.Errorf("saving content %q: %w", c.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading content id: %w", err)
		}
		c.ID = id
		return nil
	}

	_, err = s.q.ExecContext(ctx,
		`UPDATE content SET name = ?, parent_id = ?, property_values = ?, published = ? WHERE id = ?`,
		c.Name, c.ParentID, string(values), c.Published, c.ID)
	if err != nil {
		return fmt.Errorf("updating content %d: %w", c.ID, err)
	}
	return nil
}

func (s contentService) Publish(ctx context.Context, c *schema.ContentInstance) (host.PublishResult, error) {
	if _, err := s.q.ExecContext(ctx,
		`UPDATE content SET published = 1 WHERE id = ?`, c.ID); err != nil {
		return host.PublishResult{}, fmt.Errorf("publishing content %d: %w", c.ID, err)
	}
	c.Published = true
	return host.PublishResult{Success: true}, nil
}

func (s contentService) FirstChildOfType(ctx context.Context, parentID int64, typeAlias schema.Alias) (*schema.ContentInstance, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT id, key, name, parent_id, type_alias, property_values, published
		 FROM content WHERE parent_id = ? AND type_alias = ? ORDER BY id LIMIT 1`,
		parentID, typeAlias.String())

	var c schema.ContentInstance
	var key, values string
	err := row.Scan(&c.ID, &key, &c.Name, &c.ParentID, &c.TypeAlias, &values, &c.Published)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no %q under %d: %w", typeAlias, parentID, host.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}

	parsed, err := uuid.Parse(key)
	if err != nil {
		return nil, fmt.Errorf("parsing content key: %w", err)
	}
	c.Key = parsed
	if err := json.Unmarshal([]byte(values), &c.Values); err != nil {
		return nil, fmt.Errorf("decoding content values: %w", err)
	}
	return &c, nil
}

func scanType(row *sql.Row) (*schema.ContentTypeDefinition, error) {
	var id int64
	var raw string
	err := row.Scan(&id, &raw)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("content type: %w", host.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading content type: %w", err)
	}
	return decodeType(id, raw)
}

func decodeType(id int64, raw string) (*schema.ContentTypeDefinition, error) {
	var def schema.ContentTypeDefinition
	if err := json.Unmarshal([]byte(raw), &def); err != nil {
		return nil, fmt.Errorf("decoding content type: %w", err)
	}
	// The row id is authoritative; the JSON copy may predate assignment.
	def.ID = id
	return &def, nil
}
