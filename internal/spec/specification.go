package spec

import (
	"causeway-metamodel/internal/analyze"
	"causeway-metamodel/internal/beansort"
)

// ObjectSpecification is the introspected model of a domain type. It is
// immutable once built and safe for concurrent reads.
type ObjectSpecification struct {
	id                Identifier
	beanSort          beansort.BeanSort
	typeInfo          *analyze.TypeInfo
	facets            FacetHolder
	properties        []*OneToOneAssociation
	collections       []*OneToManyAssociation
	actions           []*ObjectAction
	embedded          []string
	orphans           []SupportingMethod
	unknownDirectives []analyze.Directive
}

func (s *ObjectSpecification) Identifier() Identifier               { return s.id }
func (s *ObjectSpecification) ClassName() string                    { return s.id.ClassName }
func (s *ObjectSpecification) LogicalTypeName() string              { return s.id.LogicalTypeName }
func (s *ObjectSpecification) BeanSort() beansort.BeanSort          { return s.beanSort }
func (s *ObjectSpecification) TypeInfo() *analyze.TypeInfo          { return s.typeInfo }
func (s *ObjectSpecification) Facets() *FacetHolder                 { return &s.facets }
func (s *ObjectSpecification) Properties() []*OneToOneAssociation   { return s.properties }
func (s *ObjectSpecification) Collections() []*OneToManyAssociation { return s.collections }
func (s *ObjectSpecification) Actions() []*ObjectAction             { return s.actions }

// Embedded lists the class names of directly embedded struct types.
func (s *ObjectSpecification) Embedded() []string { return s.embedded }

// OrphanedSupportingMethods lists supporting methods whose member does not exist.
func (s *ObjectSpecification) OrphanedSupportingMethods() []SupportingMethod { return s.orphans }

// UnknownDirectives lists directives with unrecognised markers.
func (s *ObjectSpecification) UnknownDirectives() []analyze.Directive { return s.unknownDirectives }

// EnumConstants returns the constants of an enum value type, or nil.
func (s *ObjectSpecification) EnumConstants() []analyze.EnumConstant {
	if f, ok := FacetOf[*EnumFacet](&s.facets, FacetEnum); ok {
		return f.Constants
	}

	return nil
}

// IsValue reports a value type.
func (s *ObjectSpecification) IsValue() bool { return s.beanSort.IsValue() }

// Property returns the named property.
func (s *ObjectSpecification) Property(name string) (*OneToOneAssociation, bool) {
	for _, p := range s.properties {
		if p.Name() == name {
			return p, true
		}
	}

	return nil, false
}

// Collection returns the named collection.
func (s *ObjectSpecification) Collection(name string) (*OneToManyAssociation, bool) {
	for _, c := range s.collections {
		if c.Name() == name {
			return c, true
		}
	}

	return nil, false
}

// Action returns the named action.
func (s *ObjectSpecification) Action(name string) (*ObjectAction, bool) {
	for _, a := range s.actions {
		if a.Name() == name {
			return a, true
		}
	}

	return nil, false
}

// Members returns properties, collections and actions in that order.
func (s *ObjectSpecification) Members() []Feature {
	out := make([]Feature, 0, len(s.properties)+len(s.collections)+len(s.actions))
	for _, p := range s.properties {
		out = append(out, p)
	}

	for _, c := range s.collections {
		out = append(out, c)
	}

	for _, a := range s.actions {
		out = append(out, a)
	}

	return out
}

// MemberNames returns the names of all members.
func (s *ObjectSpecification) MemberNames() []string {
	members := s.Members()
	out := make([]string, len(members))

	for i, m := range members {
		out[i] = m.FeatureIdentifier().MemberName
	}

	return out
}

// Feature resolves a member or parameter identifier against this specification.
func (s *ObjectSpecification) Feature(id Identifier) (Feature, bool) {
	switch id.Kind {
	case FeatureObject:
		return nil, false
	case FeatureProperty:
		if p, ok := s.Property(id.MemberName); ok {
			return p, true
		}

		// the wire format does not distinguish properties from collections
		if c, ok := s.Collection(id.MemberName); ok {
			return c, true
		}
	case FeatureCollection:
		if c, ok := s.Collection(id.MemberName); ok {
			return c, true
		}
	case FeatureAction:
		if a, ok := s.Action(id.MemberName); ok {
			return a, true
		}
	case FeatureParameter:
		if a, ok := s.Action(id.MemberName); ok {
			if p, ok := a.Parameter(id.ParamIndex); ok {
				return p, true
			}
		}
	}

	return nil, false
}

// String returns the class name.
func (s *ObjectSpecification) String() string {
	return s.id.ClassName
}
