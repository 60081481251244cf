package valuesemantics

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"causeway-metamodel/internal/spec"
)

type selectKey struct {
	feature   spec.Identifier
	className string
}

// Registry holds the candidate providers per class name and per feature.
// Providers registered for a feature are tried before the class candidates;
// within each list registration order decides.
type Registry struct {
	mu        sync.RWMutex
	byClass   map[string][]Provider
	byFeature map[spec.Identifier][]Provider
	selected  *lru.Cache[selectKey, Provider]
}

// NewRegistry creates an empty registry caching up to cacheSize selections.
func NewRegistry(cacheSize int) (*Registry, error) {
	cache, err := lru.New[selectKey, Provider](cacheSize)
	if err != nil {
		return nil, err
	}

	return &Registry{
		byClass:   make(map[string][]Provider),
		byFeature: make(map[spec.Identifier][]Provider),
		selected:  cache,
	}, nil
}

// Register adds p as a candidate for its corresponding class.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := p.CorrespondingClass()
	r.byClass[c] = append(r.byClass[c], p)
	r.selected.Purge()
}

// RegisterFirst adds p ahead of the existing candidates for its class.
func (r *Registry) RegisterFirst(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := p.CorrespondingClass()
	r.byClass[c] = append([]Provider{p}, r.byClass[c]...)
	r.selected.Purge()
}

// RegisterFor adds p as a candidate for one feature only.
func (r *Registry) RegisterFor(feature spec.Identifier, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byFeature[feature] = append(r.byFeature[feature], p)
	r.selected.Purge()
}

// Candidates returns the providers for a feature and value class, in the
// order Select tries them.
func (r *Registry) Candidates(feature spec.Identifier, className string) []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.candidates(feature, className)
}

func (r *Registry) candidates(feature spec.Identifier, className string) []Provider {
	var out []Provider

	for _, p := range r.byFeature[feature] {
		if p.CorrespondingClass() == className {
			out = append(out, p)
		}
	}

	return append(out, r.byClass[className]...)
}

// Select returns the first candidate for a feature and value class.
func (r *Registry) Select(feature spec.Identifier, className string) (Provider, bool) {
	// registration purges the cache under the write lock
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := selectKey{feature: feature, className: className}
	if p, ok := r.selected.Get(key); ok {
		return p, true
	}

	candidates := r.candidates(feature, className)
	if len(candidates) == 0 {
		return nil, false
	}

	r.selected.Add(key, candidates[0])

	return candidates[0], true
}

// Has reports whether any provider handles the class.
func (r *Registry) Has(className string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byClass[className]) > 0
}
