package marshal

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"

	"causeway-metamodel/internal/analyze"
	"causeway-metamodel/internal/spec"
)

// ErrMalformedBookmark is returned by ParseBookmark.
var ErrMalformedBookmark = errors.New("malformed bookmark")

// ManagedValue is a recovered or recordable value: a single ManagedObject or
// a PackedManagedObject.
type ManagedValue interface {
	Specification() *spec.ObjectSpecification
	IsEmpty() bool
}

// ManagedObject pairs a domain value with its specification. A nil Pojo is
// the empty object.
type ManagedObject struct {
	Spec *spec.ObjectSpecification
	Pojo any
}

// Empty returns the empty object of s.
func Empty(s *spec.ObjectSpecification) ManagedObject {
	return ManagedObject{Spec: s}
}

// Of wraps pojo together with s.
func Of(s *spec.ObjectSpecification, pojo any) ManagedObject {
	return ManagedObject{Spec: s, Pojo: pojo}
}

func (m ManagedObject) Specification() *spec.ObjectSpecification { return m.Spec }

// IsEmpty reports a nil pojo, including typed nil pointers, maps and slices.
func (m ManagedObject) IsEmpty() bool {
	return isNil(m.Pojo)
}

// ClassName is the class of the pojo, falling back to the specification.
func (m ManagedObject) ClassName() string {
	if !m.IsEmpty() {
		return analyze.ClassNameOfValue(m.Pojo)
	}

	if m.Spec != nil {
		return m.Spec.ClassName()
	}

	return ""
}

// PackedManagedObject is a collection of objects sharing an element
// specification.
type PackedManagedObject struct {
	ElementSpec *spec.ObjectSpecification
	Values      []ManagedObject
}

// PackedEmpty returns the empty collection of elements of s.
func PackedEmpty(s *spec.ObjectSpecification) PackedManagedObject {
	return PackedManagedObject{ElementSpec: s}
}

// Pack wraps pojos as objects of s.
func Pack(s *spec.ObjectSpecification, pojos ...any) PackedManagedObject {
	p := PackedManagedObject{ElementSpec: s, Values: make([]ManagedObject, len(pojos))}
	for i, pojo := range pojos {
		p.Values[i] = Of(s, pojo)
	}

	return p
}

func (p PackedManagedObject) Specification() *spec.ObjectSpecification { return p.ElementSpec }
func (p PackedManagedObject) IsEmpty() bool                            { return len(p.Values) == 0 }

// Pojos returns the element pojos.
func (p PackedManagedObject) Pojos() []any {
	out := make([]any, len(p.Values))
	for i, v := range p.Values {
		out[i] = v.Pojo
	}

	return out
}

// Bookmark addresses a persistent object as "logicalTypeName:id".
type Bookmark struct {
	LogicalTypeName string
	ID              string
}

func (b Bookmark) String() string {
	return b.LogicalTypeName + ":" + b.ID
}

// ParseBookmark parses "logicalTypeName:id". The identifier may itself
// contain colons.
func ParseBookmark(s string) (Bookmark, error) {
	typ, id, ok := strings.Cut(s, ":")
	if !ok || typ == "" || id == "" {
		return Bookmark{}, errors.Wrapf(ErrMalformedBookmark, "%q", s)
	}

	return Bookmark{LogicalTypeName: typ, ID: id}, nil
}

// ObjectManager resolves references between objects and bookmarks.
type ObjectManager interface {
	BookmarkFor(obj ManagedObject) (Bookmark, error)
	LoadObject(bm Bookmark) (ManagedObject, error)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// deref returns the value a non-nil pointer points at.
func deref(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return v, false
	}

	return rv.Elem().Interface(), true
}
