// Package registry accumulates classifier results for every scanned type and
// decides how the hosting container should register it.
//
// A Registry is scoped to one metamodel instance: Open it before the bean
// scan and Close it when the metamodel is disposed.
package registry

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"causeway-metamodel/internal/analyze"
	"causeway-metamodel/internal/beansort"
	"causeway-metamodel/internal/common"
	"causeway-metamodel/internal/log"
)

// ErrRegistryClosed is returned when the registry is used outside Open/Close.
var ErrRegistryClosed = errors.New("bean type registry is closed")

// TypeMetaData is the hosting container's record of a scanned candidate type.
// Intercept mutates it in place.
type TypeMetaData struct {
	ClassName        string
	BeanName         string
	Injectable       bool
	BeanNameOverride string
}

// NewTypeMetaData returns an injectable candidate registered under beanName.
func NewTypeMetaData(className, beanName string) *TypeMetaData {
	return &TypeMetaData{ClassName: className, BeanName: beanName, Injectable: true}
}

// EffectiveBeanName is the override when set, otherwise the registered name.
func (m *TypeMetaData) EffectiveBeanName() string {
	if m.BeanNameOverride != "" {
		return m.BeanNameOverride
	}

	return m.BeanName
}

// TypeResolver resolves class names to analyzed types.
type TypeResolver interface {
	Lookup(className string) (*analyze.TypeInfo, bool)
}

// IntrospectableType is a type queued for metamodel introspection.
type IntrospectableType struct {
	ClassName string
	Sort      beansort.BeanSort
}

// Registry holds per-sort category sets for one metamodel instance.
type Registry struct {
	resolver TypeResolver
	logger   log.Logger

	mu               sync.RWMutex
	open             bool
	entityTypes      map[string]struct{}
	mixinTypes       map[string]struct{}
	viewModelTypes   map[string]struct{}
	vetoedTypes      map[string]struct{}
	introspectable   map[string]beansort.BeanSort
	managedBeanNames map[string]string
}

// New creates a closed registry.
func New(resolver TypeResolver, logger log.Logger) *Registry {
	if logger == nil {
		logger = log.Discard
	}

	r := &Registry{resolver: resolver, logger: logger.With("component", "registry")}
	r.reset()

	return r
}

func (r *Registry) reset() {
	r.entityTypes = make(map[string]struct{})
	r.mixinTypes = make(map[string]struct{})
	r.viewModelTypes = make(map[string]struct{})
	r.vetoedTypes = make(map[string]struct{})
	r.introspectable = make(map[string]beansort.BeanSort)
	r.managedBeanNames = make(map[string]string)
}

// Open starts a fresh registry lifetime, discarding any previous state.
func (r *Registry) Open() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reset()
	r.open = true
}

// Close clears all state. The registry can be reopened.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.reset()
	r.open = false
}

// IsOpen reports whether the registry accepts interceptions.
func (r *Registry) IsOpen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.open
}

// metamodelOwned are markers whose types are never handed to the container.
var metamodelOwned = []analyze.Marker{
	analyze.MarkerDomainObject,
	analyze.MarkerViewModel,
	analyze.MarkerMixin,
	analyze.MarkerVetoed,
}

// Intercept classifies a candidate before the container finalizes its
// registration. Types owned by the metamodel become non-injectable; other
// types may be renamed by a logicalTypeName (or component name) attribute.
func (r *Registry) Intercept(md *TypeMetaData) (beansort.BeanSort, error) {
	t, _ := r.resolver.Lookup(md.ClassName)
	bs := beansort.QuickClassify(t)

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open {
		return beansort.Unknown, errors.WithStack(ErrRegistryClosed)
	}

	if carriesAny(t, metamodelOwned...) {
		md.Injectable = false
	} else if name := beanNameOverride(t); name != "" {
		md.BeanNameOverride = name
	}

	if _, _, vetoed := t.FindNearestDirective(analyze.MarkerVetoed); vetoed {
		r.vetoedTypes[md.ClassName] = struct{}{}
	}

	switch bs {
	case beansort.Entity:
		r.entityTypes[md.ClassName] = struct{}{}
	case beansort.Mixin:
		r.mixinTypes[md.ClassName] = struct{}{}
	case beansort.ViewModel:
		r.viewModelTypes[md.ClassName] = struct{}{}
	case beansort.ManagedBean:
		r.managedBeanNames[md.ClassName] = md.EffectiveBeanName()
	}

	if queueForIntrospection(t, bs) {
		r.introspectable[md.ClassName] = bs
	}

	r.logger.Debug("intercepted", "class", md.ClassName, "sort", bs, "injectable", md.Injectable)

	return bs, nil
}

func queueForIntrospection(t *analyze.TypeInfo, bs beansort.BeanSort) bool {
	if bs.IsManagedBean() {
		_, _, ok := t.FindNearestDirective(analyze.MarkerDomainService)
		return ok
	}

	return bs.IsIntrospectable()
}

func carriesAny(t *analyze.TypeInfo, markers ...analyze.Marker) bool {
	for _, m := range markers {
		if _, _, ok := t.FindNearestDirective(m); ok {
			return true
		}
	}

	return false
}

func beanNameOverride(t *analyze.TypeInfo) string {
	if d, ok := t.Directive(analyze.MarkerDomainService); ok {
		if v, ok := d.Attr("logicalTypeName"); ok {
			return v
		}
	}

	if d, ok := t.Directive(analyze.MarkerComponent); ok {
		if v, ok := d.Attr("name"); ok {
			return v
		}
	}

	return ""
}

// ManagedBeanNameForType returns the bean name of a managed bean. Vetoed
// types never have a name, even when a stale mapping exists; the veto is
// re-evaluated on every call.
func (r *Registry) ManagedBeanNameForType(className string) (string, bool) {
	t, _ := r.resolver.Lookup(className)
	if _, _, vetoed := t.FindNearestDirective(analyze.MarkerVetoed); vetoed {
		return "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, vetoed := r.vetoedTypes[className]; vetoed {
		return "", false
	}

	name, ok := r.managedBeanNames[className]

	return name, ok
}

// IsEntity answers the persistence layer's question about a class.
func (r *Registry) IsEntity(className string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entityTypes[className]

	return ok
}

// EntityTypes returns the entity class names, sorted.
func (r *Registry) EntityTypes() []string { return r.snapshot(r.entityTypes) }

// MixinTypes returns the mixin class names, sorted.
func (r *Registry) MixinTypes() []string { return r.snapshot(r.mixinTypes) }

// ViewModelTypes returns the view model class names, sorted.
func (r *Registry) ViewModelTypes() []string { return r.snapshot(r.viewModelTypes) }

// VetoedTypes returns the vetoed class names, sorted.
func (r *Registry) VetoedTypes() []string { return r.snapshot(r.vetoedTypes) }

func (r *Registry) snapshot(set map[string]struct{}) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return common.SortedKeys(set)
}

// IntrospectableTypes returns the queued types sorted by class name.
func (r *Registry) IntrospectableTypes() []IntrospectableType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]IntrospectableType, 0, len(r.introspectable))
	for name, s := range r.introspectable {
		out = append(out, IntrospectableType{ClassName: name, Sort: s})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ClassName < out[j].ClassName })

	return out
}
