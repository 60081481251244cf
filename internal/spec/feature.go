package spec

import (
	"causeway-metamodel/internal/analyze"
)

// SpecResolver resolves class names to specifications, introspecting on
// demand. It returns nil for class names it cannot resolve.
type SpecResolver interface {
	LoadSpecification(className string) *ObjectSpecification
}

// Feature is a property, collection, action or action parameter.
type Feature interface {
	FeatureIdentifier() Identifier
	FeatureKind() FeatureKind
	Facets() *FacetHolder
	// ElementClassName is the class name of the value, or of the elements
	// for non-scalar features. Empty for void actions.
	ElementClassName() string
	ElementSpecification() *ObjectSpecification
	// IsScalar reports single (true) versus collection (false) cardinality.
	IsScalar() bool
}

type featureBase struct {
	id           Identifier
	facets       FacetHolder
	elementClass string
	scalar       bool
	declared     *analyze.TypeInfo
	resolver     SpecResolver
}

func (f *featureBase) FeatureIdentifier() Identifier { return f.id }
func (f *featureBase) FeatureKind() FeatureKind      { return f.id.Kind }
func (f *featureBase) Facets() *FacetHolder          { return &f.facets }
func (f *featureBase) ElementClassName() string      { return f.elementClass }
func (f *featureBase) IsScalar() bool                { return f.scalar }

// DeclaredType is the analyzed Go type as written in the source.
func (f *featureBase) DeclaredType() *analyze.TypeInfo { return f.declared }

func (f *featureBase) ElementSpecification() *ObjectSpecification {
	if f.elementClass == "" || f.resolver == nil {
		return nil
	}

	return f.resolver.LoadSpecification(f.elementClass)
}

// Optionality returns the effective optionality, Required when no facet exists.
func (f *featureBase) Optionality() Semantics {
	if m, ok := FacetOf[*MandatoryFacet](&f.facets, FacetMandatory); ok {
		return m.Semantics
	}

	return Required
}

// OneToOneAssociation is a scalar property.
type OneToOneAssociation struct {
	featureBase
}

// Name is the member name.
func (p *OneToOneAssociation) Name() string { return p.id.MemberName }

// IsMandatory reports whether a value is required.
func (p *OneToOneAssociation) IsMandatory() bool { return p.Optionality() == Required }

// OneToManyAssociation is a collection.
type OneToManyAssociation struct {
	featureBase
}

// Name is the member name.
func (c *OneToManyAssociation) Name() string { return c.id.MemberName }

// ObjectAction is an invokable method.
type ObjectAction struct {
	featureBase
	params []*ObjectActionParameter
}

// Name is the member name.
func (a *ObjectAction) Name() string { return a.id.MemberName }

// Parameters returns the parameters in declaration order.
func (a *ObjectAction) Parameters() []*ObjectActionParameter { return a.params }

// Parameter returns the index-th parameter.
func (a *ObjectAction) Parameter(index int) (*ObjectActionParameter, bool) {
	if index < 0 || index >= len(a.params) {
		return nil, false
	}

	return a.params[index], true
}

// ParameterByName returns the parameter with the given name.
func (a *ObjectAction) ParameterByName(name string) (*ObjectActionParameter, bool) {
	for _, p := range a.params {
		if p.name == name {
			return p, true
		}
	}

	return nil, false
}

// ReturnsVoid reports an action without a non-error result.
func (a *ObjectAction) ReturnsVoid() bool { return a.elementClass == "" }

// ObjectActionParameter is a parameter of an action.
type ObjectActionParameter struct {
	featureBase
	action *ObjectAction
	index  int
	name   string
}

// Name is the Go parameter name.
func (p *ObjectActionParameter) Name() string { return p.name }

// Index is the zero-based position.
func (p *ObjectActionParameter) Index() int { return p.index }

// Action is the owning action.
func (p *ObjectActionParameter) Action() *ObjectAction { return p.action }

// IsMandatory reports whether an argument is required.
func (p *ObjectActionParameter) IsMandatory() bool { return p.Optionality() == Required }
