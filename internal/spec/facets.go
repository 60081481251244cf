package spec

import (
	"causeway-metamodel/internal/analyze"
)

// Semantics is the optionality of a property or parameter.
type Semantics int

const (
	Required Semantics = iota
	Optional
)

// String returns "required" or "optional".
func (s Semantics) String() string {
	if s == Optional {
		return "optional"
	}

	return "required"
}

// MandatoryFacet records whether a value must be provided. Optional is the
// inverted semantics. The framework's own base case is marked Default and
// never conflicts with anything layered on top.
type MandatoryFacet struct {
	FacetBase
	Semantics Semantics
	Default   bool
	Source    string
}

// NewMandatoryFacetDefault creates the framework's base optionality facet.
func NewMandatoryFacetDefault(holder Identifier, sem Semantics) *MandatoryFacet {
	return &MandatoryFacet{
		FacetBase: FacetBase{Type: FacetMandatory, HolderID: holder},
		Semantics: sem,
		Default:   true,
		Source:    "default",
	}
}

// NewMandatoryFacet creates an optionality facet from explicit metadata.
func NewMandatoryFacet(holder Identifier, sem Semantics, source string) *MandatoryFacet {
	return &MandatoryFacet{
		FacetBase: FacetBase{Type: FacetMandatory, HolderID: holder},
		Semantics: sem,
		Source:    source,
	}
}

// IsInvertedSemantics reports optional semantics.
func (f *MandatoryFacet) IsInvertedSemantics() bool { return f.Semantics == Optional }

// IsMandatory reports required semantics.
func (f *MandatoryFacet) IsMandatory() bool { return f.Semantics == Required }

// UnderlyingMandatory returns the overridden optionality facet, or nil.
func (f *MandatoryFacet) UnderlyingMandatory() *MandatoryFacet {
	u, _ := f.Underlying().(*MandatoryFacet)
	return u
}

// LogicalTypeFacet carries the type's logical type name.
type LogicalTypeFacet struct {
	FacetBase
	Name   string
	Source string // "logicalTypeName", "objectType" or "className"
}

// ObjectTypeFacet comes from the deprecated objectType attribute.
type ObjectTypeFacet struct {
	FacetBase
	Name string
}

func (f *ObjectTypeFacet) DeprecationMessage() string {
	return "objectType=" + f.Name + " is deprecated, use logicalTypeName instead"
}

// RegexFacet comes from the deprecated regex tag option.
type RegexFacet struct {
	FacetBase
	Pattern string
}

func (f *RegexFacet) DeprecationMessage() string {
	return "regex=" + f.Pattern + " is deprecated, use pattern instead"
}

// PatternFacet constrains string values.
type PatternFacet struct {
	FacetBase
	Pattern string
}

// HiddenFacet hides a member from every viewer.
type HiddenFacet struct {
	FacetBase
}

// SupportingMethod is a method that supports a member instead of being an action,
// e.g. DisableRename supports Rename.
type SupportingMethod struct {
	Prefix     string
	MethodName string
	MemberName string
}

// SupportingMethodsFacet lists the supporting methods attached to a member.
type SupportingMethodsFacet struct {
	FacetBase
	Methods []SupportingMethod
}

// MixinFacet marks a mixin and names its contributed method.
type MixinFacet struct {
	FacetBase
	Method string
}

// EnumFacet lists the constants of an enum value type.
type EnumFacet struct {
	FacetBase
	Constants []analyze.EnumConstant
}

// Names returns the constant names in declaration order.
func (f *EnumFacet) Names() []string {
	out := make([]string, len(f.Constants))
	for i, c := range f.Constants {
		out[i] = c.Name
	}

	return out
}
