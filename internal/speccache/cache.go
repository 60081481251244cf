// Package speccache holds the object specifications of one metamodel,
// indexed by class name and, once initialised, by logical type name.
package speccache

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"causeway-metamodel/internal/spec"
)

var (
	// ErrNotInitialized is returned by logical type lookups before InternalInit.
	ErrNotInitialized = errors.New("specification cache: logical type index not initialized")
	// ErrUnknownObjectType is returned when no specification has the logical type name.
	ErrUnknownObjectType = errors.New("specification cache: unknown logical type name")
)

// Cache maps class names to specifications. All methods are safe for
// concurrent use.
type Cache struct {
	mu          sync.RWMutex
	byClass     map[string]*spec.ObjectSpecification
	byLogical   map[string]*spec.ObjectSpecification
	initialized bool
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		byClass:   make(map[string]*spec.ObjectSpecification),
		byLogical: make(map[string]*spec.ObjectSpecification),
	}
}

// Get returns the cached specification, or nil.
func (c *Cache) Get(className string) *spec.ObjectSpecification {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.byClass[className]
}

// Put stores s under className, replacing any previous entry.
func (c *Cache) Put(className string, s *spec.ObjectSpecification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byClass[className] = s
}

// PutIfAbsent stores s unless an entry exists, and returns the entry that
// ends up cached.
func (c *Cache) PutIfAbsent(className string, s *spec.ObjectSpecification) *spec.ObjectSpecification {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.byClass[className]; ok {
		return existing
	}

	c.byClass[className] = s

	return s
}

// Remove drops the entry for className and its logical type index entry.
func (c *Cache) Remove(className string) *spec.ObjectSpecification {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.byClass[className]
	if !ok {
		return nil
	}

	delete(c.byClass, className)

	if c.byLogical[s.LogicalTypeName()] == s {
		delete(c.byLogical, s.LogicalTypeName())
	}

	return s
}

// Clear empties the cache and resets the logical type index.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.byClass)
	clear(c.byLogical)
	c.initialized = false
}

// Len is the number of cached specifications.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.byClass)
}

// SnapshotSpecs returns the cached specifications sorted by class name.
func (c *Cache) SnapshotSpecs() []*spec.ObjectSpecification {
	c.mu.RLock()
	out := make([]*spec.ObjectSpecification, 0, len(c.byClass))
	for _, s := range c.byClass {
		out = append(out, s)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].ClassName() < out[j].ClassName()
	})

	return out
}

// InternalInit merges specs into the class map and builds the logical type
// index over every cached specification. An entry already cached for a
// class is kept, so a specification loaded concurrently is never replaced.
// When two specifications share a logical type name the one with the
// smaller class name is indexed; duplicates are a validation concern.
func (c *Cache) InternalInit(specs map[string]*spec.ObjectSpecification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for className, s := range specs {
		if _, ok := c.byClass[className]; !ok {
			c.byClass[className] = s
		}
	}

	clear(c.byLogical)

	for _, s := range c.byClass {
		c.index(s)
	}

	c.initialized = true
}

func (c *Cache) index(s *spec.ObjectSpecification) {
	name := s.LogicalTypeName()
	if prev, ok := c.byLogical[name]; ok && prev.ClassName() < s.ClassName() {
		return
	}

	c.byLogical[name] = s
}

// IsInitialized reports whether InternalInit has run since the last Clear.
func (c *Cache) IsInitialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.initialized
}

// GetByObjectType looks a specification up by logical type name.
func (c *Cache) GetByObjectType(logicalTypeName string) (*spec.ObjectSpecification, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.initialized {
		return nil, errors.WithStack(ErrNotInitialized)
	}

	s, ok := c.byLogical[logicalTypeName]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownObjectType, "%q", logicalTypeName)
	}

	return s, nil
}

// LogicalTypeNames returns the indexed logical type names, sorted.
func (c *Cache) LogicalTypeNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.byLogical))
	for n := range c.byLogical {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// RecacheObjectType adds a specification loaded after InternalInit to the
// logical type index.
func (c *Cache) RecacheObjectType(s *spec.ObjectSpecification) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return errors.WithStack(ErrNotInitialized)
	}

	c.index(s)

	return nil
}
