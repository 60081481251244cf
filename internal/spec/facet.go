package spec

// FacetType keys a facet within its holder.
type FacetType string

const (
	FacetMandatory         FacetType = "mandatory"
	FacetLogicalType       FacetType = "logicalType"
	FacetObjectType        FacetType = "objectType"
	FacetRegex             FacetType = "regex"
	FacetPattern           FacetType = "pattern"
	FacetHidden            FacetType = "hidden"
	FacetSupportingMethods FacetType = "supportingMethods"
	FacetMixin             FacetType = "mixin"
	FacetEnum              FacetType = "enum"
)

// Facet is a unit of metadata attached to a feature.
//
// A holder keeps one facet per type; adding a second one links the older
// facet as the newcomer's underlying facet, forming an override chain.
type Facet interface {
	FacetType() FacetType
	// Holder identifies the feature that declares the facet.
	Holder() Identifier
	// Underlying is the facet this one overrides, or nil.
	Underlying() Facet
	// InheritedFrom names the embedded type the facet was promoted from,
	// or "" when declared directly.
	InheritedFrom() string

	setUnderlying(Facet)
	setInheritedFrom(className string)
}

// DeprecatedMarker is implemented by facets derived from deprecated syntax.
type DeprecatedMarker interface {
	DeprecationMessage() string
}

// FacetBase implements the bookkeeping part of Facet.
type FacetBase struct {
	Type       FacetType
	HolderID   Identifier
	underlying Facet
	inherited  string
}

func (f *FacetBase) FacetType() FacetType  { return f.Type }
func (f *FacetBase) Holder() Identifier    { return f.HolderID }
func (f *FacetBase) Underlying() Facet     { return f.underlying }
func (f *FacetBase) InheritedFrom() string { return f.inherited }
func (f *FacetBase) IsInherited() bool     { return f.inherited != "" }

func (f *FacetBase) setUnderlying(u Facet)             { f.underlying = u }
func (f *FacetBase) setInheritedFrom(className string) { f.inherited = className }

// Chain returns the facet followed by every facet it overrides, newest first.
func Chain(f Facet) []Facet {
	var out []Facet
	for cur := f; cur != nil; cur = cur.Underlying() {
		out = append(out, cur)
	}

	return out
}

// FacetHolder stores the facets of one feature.
type FacetHolder struct {
	facets map[FacetType]Facet
	order  []FacetType
}

// AddFacet installs f, linking any facet of the same type beneath it.
func (h *FacetHolder) AddFacet(f Facet) {
	if h.facets == nil {
		h.facets = make(map[FacetType]Facet)
	}

	t := f.FacetType()
	if prev, ok := h.facets[t]; ok {
		f.setUnderlying(prev)
	} else {
		h.order = append(h.order, t)
	}

	h.facets[t] = f
}

// Facet returns the effective facet of a type, or nil.
func (h *FacetHolder) Facet(t FacetType) Facet {
	return h.facets[t]
}

// ContainsFacet reports whether a facet of the type is present.
func (h *FacetHolder) ContainsFacet(t FacetType) bool {
	_, ok := h.facets[t]
	return ok
}

// Facets returns the effective facets in the order their types were first added.
func (h *FacetHolder) Facets() []Facet {
	out := make([]Facet, 0, len(h.order))
	for _, t := range h.order {
		out = append(out, h.facets[t])
	}

	return out
}

// AllFacets returns every facet including overridden ones, chain by chain.
func (h *FacetHolder) AllFacets() []Facet {
	var out []Facet
	for _, f := range h.Facets() {
		out = append(out, Chain(f)...)
	}

	return out
}

// FacetOf returns the effective facet of type t as T.
func FacetOf[T Facet](h *FacetHolder, t FacetType) (T, bool) {
	f, ok := h.Facet(t).(T)
	return f, ok
}
