package marshal

import (
	"github.com/pkg/errors"

	"causeway-metamodel/internal/schema"
	"causeway-metamodel/internal/spec"
	"causeway-metamodel/internal/valuesemantics"
)

// FeatureLoader resolves identifiers to features and logical type names to
// specifications. The metamodel loader implements it.
type FeatureLoader interface {
	LoadFeature(id spec.Identifier) (spec.Feature, error)
	SpecificationForLogicalTypeName(name string) (*spec.ObjectSpecification, error)
}

// Element describes how single values of a feature travel on the wire.
// Semantics is nil for references.
type Element struct {
	CorrespondingClass string
	ValueType          schema.ValueType
	Semantics          valuesemantics.Provider
}

// IsReference reports an element recorded as an object reference.
func (e Element) IsReference() bool {
	return e.ValueType == schema.ValueTypeReference
}

// Context is resolved once per marshalling call.
type Context[F spec.Feature] struct {
	Element
	Feature F
}

func (m *Marshaller) element(f spec.Feature) Element {
	className := f.ElementClassName()
	if className == "" {
		return Element{ValueType: schema.ValueTypeVoid}
	}

	if p, ok := m.semantics.Select(f.FeatureIdentifier(), className); ok {
		return Element{CorrespondingClass: className, ValueType: p.ValueType(), Semantics: p}
	}

	return Element{CorrespondingClass: className, ValueType: schema.ValueTypeReference}
}

func featureAs[F spec.Feature](l FeatureLoader, id spec.Identifier) (F, error) {
	var zero F

	f, err := l.LoadFeature(id)
	if err != nil {
		return zero, err
	}

	typed, ok := f.(F)
	if !ok {
		return zero, errors.Wrapf(spec.ErrFeatureNotFound, "%s resolves to a %s", id, f.FeatureKind())
	}

	return typed, nil
}

func contextFor[F spec.Feature](m *Marshaller, id spec.Identifier) (Context[F], error) {
	f, err := featureAs[F](m.features, id)
	if err != nil {
		return Context[F]{}, err
	}

	return Context[F]{Element: m.element(f), Feature: f}, nil
}
