// Package collection implements the JSON-file-backed record store shared by the
// book and movie repositories.
//
// A Collection owns an ordered slice of records and the file it is persisted to.
// Every mutation goes through one read-modify-persist path: the record is changed
// in memory, then the whole slice is written back to disk. A failed write leaves
// the in-memory change in place and is reported as ErrPersist.
//
// Identifiers are assigned as the current maximum plus one, so deleting the
// record holding the maximum makes that identifier available again; callers
// that keep identifiers across deletes must not treat them as permanent.
//
// Records leave and enter a Collection through Identity.Clone, so callers never
// share pointer fields with the stored records.
package collection

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"shelf/internal/metrics"
)

var (
	// ErrNotFound is returned when no record has the requested identifier.
	ErrNotFound = errors.New("record not found")
	// ErrPersist is returned when the collection could not be written to disk.
	ErrPersist = errors.New("failed to persist collection")
)

// Identity tells a Collection how to read and assign record identifiers.
//
// Clone deep-copies a record; nil means a plain value copy is enough.
// Normalize fills defaults on records read from disk and reports whether it
// changed anything; nil leaves loaded records as they are.
type Identity[T any] struct {
	ID        func(T) int
	SetID     func(*T, int)
	Clone     func(T) T
	Normalize func(*T) bool
}

// ClonePtr returns a new pointer to a copy of *p, or nil when p is nil.
func ClonePtr[V any](p *V) *V {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Collection is a mutex-guarded, file-backed list of records.
type Collection[T any] struct {
	mu       sync.Mutex
	name     string
	path     string
	identity Identity[T]
	items    []T
	logger   zerolog.Logger
}

// Open creates a collection named name backed by path and loads its records.
func Open[T any](name, path string, identity Identity[T], logger zerolog.Logger) *Collection[T] {
	c := &Collection[T]{
		name:     name,
		path:     path,
		identity: identity,
		logger:   logger.With().Str("collection", name).Logger(),
	}
	c.load()
	c.logger.Info().Int("count", len(c.items)).Str("path", path).Msg("collection initialized")
	return c
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Path returns the backing file path.
func (c *Collection[T]) Path() string {
	return c.path
}

// Load re-reads the backing file, replacing the in-memory records.
// A missing file yields an empty collection; a corrupt file is logged and also
// yields an empty collection. Loaded records are normalized and any missing or
// duplicate identifiers are reassigned, in which case the file is rewritten once.
func (c *Collection[T]) Load() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.load()
	return c.copyItems()
}

// Save writes the whole collection to the backing file.
func (c *Collection[T]) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.persist()
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// Snapshot returns a copy of the records in insertion order.
func (c *Collection[T]) Snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.copyItems()
}

// Get returns the record with the given identifier.
func (c *Collection[T]) Get(id int) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(id); i >= 0 {
		return c.clone(c.items[i]), nil
	}
	var zero T
	return zero, ErrNotFound
}

// Find returns the first record matching pred.
func (c *Collection[T]) Find(pred func(T) bool) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.items {
		if pred(item) {
			return c.clone(item), true
		}
	}
	var zero T
	return zero, false
}

// Insert assigns the next identifier to the record built by build, appends it
// and persists. The record is returned even when persisting fails.
func (c *Collection[T]) Insert(build func(id int) T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := c.clone(build(c.nextID()))
	c.items = append(c.items, item)
	return c.clone(item), c.persist()
}

// Mutate applies fn to a copy of the record with the given identifier. If fn
// returns an error the stored record is left untouched and the error is
// returned; otherwise the copy replaces the stored record and the collection is
// persisted.
func (c *Collection[T]) Mutate(id int, fn func(*T) error) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		c.logger.Warn().Int("id", id).Msg("record not found for update")
		var zero T
		return zero, ErrNotFound
	}

	updated := c.clone(c.items[i])
	if err := fn(&updated); err != nil {
		return c.clone(c.items[i]), err
	}
	c.identity.SetID(&updated, id)
	c.items[i] = updated
	return c.clone(updated), c.persist()
}

// Remove deletes the record with the given identifier and persists.
func (c *Collection[T]) Remove(id int) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		c.logger.Warn().Int("id", id).Msg("record not found for deletion")
		var zero T
		return zero, ErrNotFound
	}

	removed := c.items[i]
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	return removed, c.persist()
}

// RemoveFunc deletes every record matching pred and persists when anything was
// removed. It returns the removed records; none removed yields ErrNotFound.
func (c *Collection[T]) RemoveFunc(pred func(T) bool) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := make([]T, 0, len(c.items))
	var removed []T
	for _, item := range c.items {
		if pred(item) {
			removed = append(removed, item)
			continue
		}
		kept = append(kept, item)
	}
	if len(removed) == 0 {
		return nil, ErrNotFound
	}
	c.items = kept
	return removed, c.persist()
}

func (c *Collection[T]) nextID() int {
	maxID := 0
	for _, item := range c.items {
		if id := c.identity.ID(item); id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

func (c *Collection[T]) indexOf(id int) int {
	for i, item := range c.items {
		if c.identity.ID(item) == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) copyItems() []T {
	out := make([]T, len(c.items))
	for i, item := range c.items {
		out[i] = c.clone(item)
	}
	return out
}

func (c *Collection[T]) clone(item T) T {
	if c.identity.Clone == nil {
		return item
	}
	return c.identity.Clone(item)
}

// load must be called with mu held or before the collection is shared.
func (c *Collection[T]) load() {
	c.items = c.read()
	if !c.repair() {
		return
	}
	if err := c.persist(); err != nil {
		c.logger.Warn().Err(err).Msg("repaired records kept in memory only")
	}
}

// repair normalizes loaded records and gives every record without a usable
// identifier, or with one already taken, the next free identifier in file
// order. It reports whether anything changed.
func (c *Collection[T]) repair() bool {
	changed := false
	if c.identity.Normalize != nil {
		for i := range c.items {
			if c.identity.Normalize(&c.items[i]) {
				changed = true
			}
		}
	}

	maxID := 0
	for _, item := range c.items {
		if id := c.identity.ID(item); id > maxID {
			maxID = id
		}
	}
	seen := make(map[int]bool, len(c.items))
	reassigned := 0
	for i := range c.items {
		id := c.identity.ID(c.items[i])
		if id > 0 && !seen[id] {
			seen[id] = true
			continue
		}
		maxID++
		c.identity.SetID(&c.items[i], maxID)
		seen[maxID] = true
		reassigned++
	}
	if reassigned > 0 {
		c.logger.Warn().Int("count", reassigned).Msg("reassigned missing or duplicate record ids")
		changed = true
	}
	return changed
}

// read must be called with mu held or before the collection is shared.
func (c *Collection[T]) read() []T {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.logger.Info().Msg("no existing storage found, starting empty")
		} else {
			c.logger.Error().Err(err).Msg("failed to read storage, starting empty")
		}
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn().Err(err).Msg("storage file corrupted, starting empty")
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	c.logger.Info().Int("count", len(items)).Msg("loaded records from storage")
	return items
}

// persist must be called with mu held.
func (c *Collection[T]) persist() error {
	err := c.write()
	metrics.RecordPersist(c.name, len(c.items), err)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to save collection")
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	c.logger.Debug().Int("count", len(c.items)).Msg("saved collection")
	return nil
}

func (c *Collection[T]) write() error {
	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage directory: %w", err)
		}
	}

	items := c.items
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}
	return nil
}
