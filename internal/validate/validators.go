package validate

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"causeway-metamodel/internal/analyze"
	"causeway-metamodel/internal/config"
	"causeway-metamodel/internal/diagnostic"
	"causeway-metamodel/internal/match"
	"causeway-metamodel/internal/spec"
)

// Failure codes.
const (
	CodeDeprecatedFacet          = "deprecated_facet"
	CodeConflictingOptionality   = "conflicting_optionality"
	CodeMalformedLogicalTypeName = "malformed_logical_type_name"
	CodeMissingLogicalTypeName   = "missing_logical_type_name"
	CodeDuplicateLogicalTypeName = "duplicate_logical_type_name"
	CodeOrphanedSupportingMethod = "orphaned_supporting_method"
	CodeUnknownDirective         = "unknown_directive"
)

// holders yields the facet holders of a specification: the type itself, its
// members and every action parameter.
func holders(s *spec.ObjectSpecification) []*spec.FacetHolder {
	out := []*spec.FacetHolder{s.Facets()}

	for _, m := range s.Members() {
		out = append(out, m.Facets())
	}

	for _, a := range s.Actions() {
		for _, p := range a.Parameters() {
			out = append(out, p.Facets())
		}
	}

	return out
}

// originOf keys a failure by its identifier; parameters carry their index
// in the member name.
func originOf(id spec.Identifier) diagnostic.Origin {
	o := OriginOf(id)
	if id.Kind == spec.FeatureParameter {
		o.MemberName = fmt.Sprintf("%s[%d]", id.MemberName, id.ParamIndex)
	}

	return o
}

// DeprecatedFacetVisitor reports facets derived from deprecated syntax. A
// facet promoted from an embedded type is reported against the embedded
// type, so every embedding type shares a single failure.
type DeprecatedFacetVisitor struct{}

func (DeprecatedFacetVisitor) Visit(s *spec.ObjectSpecification, failures *diagnostic.ValidationFailures) {
	for _, h := range holders(s) {
		for _, f := range h.AllFacets() {
			d, ok := f.(spec.DeprecatedMarker)
			if !ok {
				continue
			}

			failures.AddFor(originOf(f.Holder()), CodeDeprecatedFacet, "%s", d.DeprecationMessage())
		}
	}
}

// ConflictingOptionalityVisitor reports an optionality facet that inverts
// the semantics of an explicit facet it overrides. The framework default is
// not explicit and never conflicts.
type ConflictingOptionalityVisitor struct{}

func (ConflictingOptionalityVisitor) Visit(s *spec.ObjectSpecification, failures *diagnostic.ValidationFailures) {
	for _, h := range holders(s) {
		m, ok := spec.FacetOf[*spec.MandatoryFacet](h, spec.FacetMandatory)
		if !ok {
			continue
		}

		for _, f := range spec.Chain(m) {
			cur, ok := f.(*spec.MandatoryFacet)
			if !ok {
				continue
			}

			u := cur.UnderlyingMandatory()
			if u == nil || u.Default {
				continue
			}

			if cur.IsInvertedSemantics() != u.IsInvertedSemantics() {
				failures.AddFor(originOf(cur.Holder()), CodeConflictingOptionality,
					"conflicting optionality: %s makes it %s but %s makes it %s",
					cur.Source, cur.Semantics, u.Source, u.Semantics)
			}
		}
	}
}

var logicalTypeNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_$]*)+$`)

// LogicalTypeNameVisitor checks explicit logical type names for a namespace
// and, once every specification was visited, for uniqueness.
type LogicalTypeNameVisitor struct {
	// RequireExplicit flags entities and view models that fall back to the
	// class name.
	RequireExplicit bool

	classes map[string][]string
}

func (v *LogicalTypeNameVisitor) Visit(s *spec.ObjectSpecification, failures *diagnostic.ValidationFailures) {
	if v.classes == nil {
		v.classes = map[string][]string{}
	}

	name := s.LogicalTypeName()
	v.classes[name] = append(v.classes[name], s.ClassName())

	lt, ok := spec.FacetOf[*spec.LogicalTypeFacet](s.Facets(), spec.FacetLogicalType)
	if !ok || lt.Source == "className" {
		if v.RequireExplicit && s.BeanSort().IsEntityOrViewModel() {
			failures.AddFor(originOf(s.Identifier()), CodeMissingLogicalTypeName,
				"%s has no explicit logical type name", s.BeanSort())
		}

		return
	}

	if !logicalTypeNamePattern.MatchString(name) {
		failures.AddFor(originOf(s.Identifier()), CodeMalformedLogicalTypeName,
			"logical type name %q must be of the form namespace.Name", name)
	}
}

func (v *LogicalTypeNameVisitor) Summarize(failures *diagnostic.ValidationFailures) {
	for name, classes := range v.classes {
		if len(classes) < 2 {
			continue
		}

		slices.Sort(classes)

		for _, c := range classes {
			others := slices.DeleteFunc(slices.Clone(classes), func(o string) bool { return o == c })
			failures.AddFor(diagnostic.Origin{ClassName: c}, CodeDuplicateLogicalTypeName,
				"logical type name %q is also used by %s", name, strings.Join(others, ", "))
		}
	}

	v.classes = nil
}

// OrphanedSupportingMethodVisitor reports supporting methods whose member
// does not exist, suggesting the closest member name.
type OrphanedSupportingMethodVisitor struct{}

func (OrphanedSupportingMethodVisitor) Visit(s *spec.ObjectSpecification, failures *diagnostic.ValidationFailures) {
	members := s.MemberNames()

	for _, sm := range s.OrphanedSupportingMethods() {
		failures.Add(diagnostic.ValidationFailure{
			Origin:      diagnostic.Origin{ClassName: s.ClassName(), MemberName: sm.MethodName},
			Code:        CodeOrphanedSupportingMethod,
			Message:     fmt.Sprintf("%s method has no member %q to support", sm.Prefix, sm.MemberName),
			Suggestions: match.Suggest(sm.MemberName, members, 2),
		})
	}
}

// UnknownDirectiveVisitor reports directives whose marker is not understood.
type UnknownDirectiveVisitor struct{}

func (UnknownDirectiveVisitor) Visit(s *spec.ObjectSpecification, failures *diagnostic.ValidationFailures) {
	known := analyze.KnownMarkers()

	for _, d := range s.UnknownDirectives() {
		failures.Add(diagnostic.ValidationFailure{
			Origin:      diagnostic.Origin{ClassName: s.ClassName()},
			Code:        CodeUnknownDirective,
			Message:     fmt.Sprintf("unknown directive %q", analyze.DirectivePrefix+string(d.Marker)),
			Suggestions: match.Suggest(string(d.Marker), known, 1),
		})
	}
}

// DefaultValidators assembles the validators enabled in cfg.
func DefaultValidators(cfg config.ValidationConfig, source SpecSource) *Composite {
	c := NewComposite()

	if cfg.DeprecatedFacets {
		c.Add(NewVisiting(source, DeprecatedFacetVisitor{}))
	}

	if cfg.ConflictingOptionality {
		c.Add(NewVisiting(source, ConflictingOptionalityVisitor{}))
	}

	if cfg.LogicalTypeNames {
		c.Add(NewVisiting(source, &LogicalTypeNameVisitor{RequireExplicit: cfg.RequireExplicitLogicalTypeName}))
	}

	if cfg.OrphanedSupportingMethods {
		c.Add(NewVisiting(source, OrphanedSupportingMethodVisitor{}))
	}

	if cfg.UnknownDirectives {
		c.Add(NewVisiting(source, UnknownDirectiveVisitor{}))
	}

	return c
}
