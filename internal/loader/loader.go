// Package loader owns one metamodel instance: the analyzed type graph, the
// bean type registry, the specification cache, value semantics and the
// validators run over the result.
//
// The lifetime is bracketed by CreateMetaModel and DisposeMetaModel.
// Specifications are also loaded lazily on first request, before, during
// and after creation.
package loader

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"causeway-metamodel/internal/analyze"
	"causeway-metamodel/internal/beansort"
	"causeway-metamodel/internal/config"
	"causeway-metamodel/internal/diagnostic"
	"causeway-metamodel/internal/log"
	"causeway-metamodel/internal/marshal"
	"causeway-metamodel/internal/match"
	"causeway-metamodel/internal/registry"
	"causeway-metamodel/internal/spec"
	"causeway-metamodel/internal/speccache"
	"causeway-metamodel/internal/validate"
	"causeway-metamodel/internal/valuesemantics"
)

// ErrFeatureNotFound is returned by LoadFeature for identifiers that do not
// resolve.
var ErrFeatureNotFound = spec.ErrFeatureNotFound

// Loader loads and caches object specifications.
type Loader struct {
	cfg        *config.Config
	graph      *analyze.TypeGraph
	logger     log.Logger
	registry   *registry.Registry
	cache      *speccache.Cache
	semantics  *valuesemantics.Registry
	validators *validate.Composite
	extra      []validate.Validator

	loading singleflight.Group
	mu      sync.Mutex
	created bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger. The default is log.Root.
func WithLogger(l log.Logger) Option {
	return func(ld *Loader) {
		ld.logger = l
	}
}

// WithSemantics replaces the value semantics registry. The default holds
// the builtins.
func WithSemantics(r *valuesemantics.Registry) Option {
	return func(ld *Loader) {
		ld.semantics = r
	}
}

// WithValidators appends validators to the configured defaults.
func WithValidators(v ...validate.Validator) Option {
	return func(ld *Loader) {
		ld.extra = append(ld.extra, v...)
	}
}

// New creates a loader over an analyzed graph. A nil cfg means
// config.Default().
func New(cfg *config.Config, graph *analyze.TypeGraph, opts ...Option) (*Loader, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	l := &Loader{
		cfg:    cfg,
		graph:  graph,
		logger: log.Root,
		cache:  speccache.New(),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = log.Discard
	}

	if l.semantics == nil {
		r, err := valuesemantics.NewRegistry(cfg.Semantics.CacheSize)
		if err != nil {
			return nil, errors.WithMessage(err, "value semantics")
		}

		valuesemantics.RegisterBuiltins(r)
		l.semantics = r
	}

	l.registry = registry.New(graph, l.logger)
	l.validators = validate.DefaultValidators(cfg.Validation, l)
	l.validators.Add(l.extra...)

	return l, nil
}

// Load analyzes the configured packages and creates a loader over them.
func Load(cfg *config.Config, opts ...Option) (*Loader, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	var aopts []analyze.Option
	if cfg.Dir != "" {
		aopts = append(aopts, analyze.WithDir(cfg.Dir))
	}

	graph, err := analyze.NewAnalyzer(aopts...).LoadPackages(cfg.Packages...)
	if err != nil {
		return nil, err
	}

	return New(cfg, graph, opts...)
}

func (l *Loader) Config() *config.Config              { return l.cfg }
func (l *Loader) Graph() *analyze.TypeGraph           { return l.graph }
func (l *Loader) Registry() *registry.Registry        { return l.registry }
func (l *Loader) Cache() *speccache.Cache             { return l.cache }
func (l *Loader) Semantics() *valuesemantics.Registry { return l.semantics }
func (l *Loader) Validators() *validate.Composite     { return l.validators }

// IsCreated reports whether CreateMetaModel has completed and the metamodel
// has not been disposed since.
func (l *Loader) IsCreated() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.created
}

// CreateMetaModel runs the bean scan over every type of the graph,
// introspects the queued types and initialises the logical type index.
func (l *Loader) CreateMetaModel(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()

	l.registry.Open()

	for _, className := range l.graph.ClassNames() {
		md := registry.NewTypeMetaData(className, beanName(className))
		if _, err := l.registry.Intercept(md); err != nil {
			return err
		}
	}

	queued := l.registry.IntrospectableTypes()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(l.cfg.Introspect.Parallelism, 1))

	for _, it := range queued {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if l.LoadSpecification(it.ClassName) == nil {
				return errors.Errorf("queued type %s did not resolve", it.ClassName)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.WithMessage(err, "introspection")
	}

	specs := make(map[string]*spec.ObjectSpecification, l.cache.Len())
	for _, s := range l.cache.SnapshotSpecs() {
		specs[s.ClassName()] = s
	}

	l.cache.InternalInit(specs)
	l.created = true

	l.logger.Info("metamodel created",
		"types", len(l.graph.Types),
		"specs", len(specs),
		"entities", len(l.registry.EntityTypes()),
		"viewmodels", len(l.registry.ViewModelTypes()),
		"mixins", len(l.registry.MixinTypes()),
		"took", time.Since(start).Round(time.Microsecond))

	return nil
}

// DisposeMetaModel discards all specifications and closes the registry.
// A later CreateMetaModel starts from scratch.
func (l *Loader) DisposeMetaModel() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cache.Clear()
	l.registry.Close()
	l.created = false

	l.logger.Debug("metamodel disposed")
}

// LoadSpecification returns the specification of className, introspecting
// it on first use. It returns nil for classes the graph cannot resolve.
func (l *Loader) LoadSpecification(className string) *spec.ObjectSpecification {
	if s := l.cache.Get(className); s != nil {
		return s
	}

	v, _, _ := l.loading.Do(className, func() (any, error) {
		if s := l.cache.Get(className); s != nil {
			return s, nil
		}

		t, ok := l.graph.Lookup(className)
		if !ok {
			return (*spec.ObjectSpecification)(nil), nil
		}

		bs := beansort.QuickClassify(t)
		s := l.cache.PutIfAbsent(className, spec.Introspect(t, bs, l))

		// specs loaded after creation must still be addressable by logical name
		if l.cache.IsInitialized() {
			_ = l.cache.RecacheObjectType(s)
		}

		l.logger.Debug("introspected", "class", className, "sort", bs)

		return s, nil
	})

	return v.(*spec.ObjectSpecification)
}

// SpecificationForLogicalTypeName resolves a logical type name. It fails
// before CreateMetaModel.
func (l *Loader) SpecificationForLogicalTypeName(name string) (*spec.ObjectSpecification, error) {
	s, err := l.cache.GetByObjectType(name)
	if errors.Is(err, speccache.ErrUnknownObjectType) {
		if suggestions := match.Suggest(name, l.cache.LogicalTypeNames(), 1); len(suggestions) > 0 {
			return nil, errors.WithMessagef(err, "did you mean %q?", suggestions[0])
		}
	}

	return s, err
}

// LoadFeature resolves a member or parameter identifier.
func (l *Loader) LoadFeature(id spec.Identifier) (spec.Feature, error) {
	s := l.LoadSpecification(id.ClassName)
	if s == nil {
		return nil, errors.Wrapf(ErrFeatureNotFound, "%s: unknown class", id)
	}

	f, ok := s.Feature(id)
	if !ok {
		if suggestions := match.Suggest(id.MemberName, s.MemberNames(), 1); len(suggestions) > 0 {
			return nil, errors.Wrapf(ErrFeatureNotFound, "%s (did you mean %s?)", id, suggestions[0])
		}

		return nil, errors.Wrapf(ErrFeatureNotFound, "%s", id)
	}

	return f, nil
}

// Snapshot returns the loaded specifications sorted by class name.
func (l *Loader) Snapshot() []*spec.ObjectSpecification {
	return l.cache.SnapshotSpecs()
}

// Validate runs the validators once over the loaded specifications.
func (l *Loader) Validate() *diagnostic.ValidationFailures {
	failures := &diagnostic.ValidationFailures{}
	l.validators.ValidateInto(failures)

	if failures.HasFailures() {
		l.logger.Error("metamodel validation failed", "failures", failures.Len())
	} else {
		l.logger.Info("metamodel validated", "specs", l.cache.Len())
	}

	return failures
}

// Marshaller returns a marshaller resolving features through l.
func (l *Loader) Marshaller(objects marshal.ObjectManager, opts ...marshal.Option) *marshal.Marshaller {
	return marshal.New(l, l.semantics, objects, opts...)
}

// beanName is the simple type name with a lower case first letter.
func beanName(className string) string {
	name := className[strings.LastIndexByte(className, '.')+1:]

	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}

	return string(unicode.ToLower(r)) + name[size:]
}
