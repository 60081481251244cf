// Package memstore keeps persistent objects in memory and addresses them by
// bookmark.
package memstore

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"

	"causeway-metamodel/internal/analyze"
	"causeway-metamodel/internal/marshal"
	"causeway-metamodel/internal/spec"
)

var (
	// ErrNotPersistable is returned for values that are not pointers to
	// entities.
	ErrNotPersistable = errors.New("not persistable")
	// ErrNotFound is returned for bookmarks and objects the store does not hold.
	ErrNotFound = errors.New("object not found")
)

// SpecLookup resolves specifications for class and logical type names.
type SpecLookup interface {
	LoadSpecification(className string) *spec.ObjectSpecification
	SpecificationForLogicalTypeName(name string) (*spec.ObjectSpecification, error)
}

// Store is an in-memory marshal.ObjectManager. Objects are held by pointer
// identity.
type Store struct {
	mu        sync.RWMutex
	specs     SpecLookup
	objects   map[marshal.Bookmark]any
	bookmarks map[any]marshal.Bookmark
}

var _ marshal.ObjectManager = (*Store)(nil)

// New creates an empty store.
func New(specs SpecLookup) *Store {
	return &Store{
		specs:     specs,
		objects:   make(map[marshal.Bookmark]any),
		bookmarks: make(map[any]marshal.Bookmark),
	}
}

// Persist stores pojo under id and returns its bookmark. pojo must be a
// non-nil pointer to an entity. Persisting again under another id moves it.
func (s *Store) Persist(pojo any, id string) (marshal.Bookmark, error) {
	rv := reflect.ValueOf(pojo)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return marshal.Bookmark{}, errors.Wrapf(ErrNotPersistable, "%T is not a non-nil pointer", pojo)
	}

	className := analyze.ClassNameOfValue(pojo)

	objSpec := s.specs.LoadSpecification(className)
	if objSpec == nil || !objSpec.BeanSort().IsEntity() {
		return marshal.Bookmark{}, errors.Wrapf(ErrNotPersistable, "%s is not an entity", className)
	}

	bm := marshal.Bookmark{LogicalTypeName: objSpec.LogicalTypeName(), ID: id}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.bookmarks[pojo]; ok {
		delete(s.objects, old)
	}

	if prev, ok := s.objects[bm]; ok {
		delete(s.bookmarks, prev)
	}

	s.objects[bm] = pojo
	s.bookmarks[pojo] = bm

	return bm, nil
}

// Delete removes the object with the given bookmark.
func (s *Store) Delete(bm marshal.Bookmark) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pojo, ok := s.objects[bm]
	if !ok {
		return false
	}

	delete(s.objects, bm)
	delete(s.bookmarks, pojo)

	return true
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.objects)
}

// BookmarkFor returns the bookmark of a persisted object.
func (s *Store) BookmarkFor(obj marshal.ManagedObject) (marshal.Bookmark, error) {
	if obj.IsEmpty() {
		return marshal.Bookmark{}, errors.Wrap(ErrNotFound, "empty object has no bookmark")
	}

	if reflect.ValueOf(obj.Pojo).Kind() != reflect.Pointer {
		return marshal.Bookmark{}, errors.Wrapf(ErrNotPersistable, "%T is not a pointer", obj.Pojo)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	bm, ok := s.bookmarks[obj.Pojo]
	if !ok {
		return marshal.Bookmark{}, errors.Wrapf(ErrNotFound, "%s is not persisted", obj.ClassName())
	}

	return bm, nil
}

// LoadObject returns the object with the given bookmark together with its
// specification.
func (s *Store) LoadObject(bm marshal.Bookmark) (marshal.ManagedObject, error) {
	objSpec, err := s.specs.SpecificationForLogicalTypeName(bm.LogicalTypeName)
	if err != nil {
		return marshal.ManagedObject{}, err
	}

	s.mu.RLock()
	pojo, ok := s.objects[bm]
	s.mu.RUnlock()

	if !ok {
		return marshal.ManagedObject{}, errors.Wrapf(ErrNotFound, "%s", bm)
	}

	return marshal.Of(objSpec, pojo), nil
}
