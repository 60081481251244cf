package spec

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"causeway-metamodel/internal/analyze"
	"causeway-metamodel/internal/beansort"
)

// SupportingPrefixes are method name prefixes that attach a method to a member
// instead of exposing it as an action.
var SupportingPrefixes = []string{
	"AutoComplete",
	"Choices",
	"Default",
	"Disable",
	"Hide",
	"Validate",
}

// prefixes whose member name may be followed by a parameter number, e.g. Default0Place
var indexedPrefixes = map[string]bool{
	"AutoComplete": true,
	"Choices":      true,
	"Default":      true,
	"Validate":     true,
}

// frameworkMethods are never actions.
var frameworkMethods = map[string]bool{
	"ViewModelMemento": true,
	"MarshalText":      true,
	"UnmarshalText":    true,
	"MarshalJSON":      true,
	"UnmarshalJSON":    true,
	"String":           true,
	"GoString":         true,
	"Title":            true,
	"IconName":         true,
	"Error":            true,
}

const contextClassName = "context.Context"

// DefaultMixinMethod is the contributed method name when a mixin names none.
const DefaultMixinMethod = "Act"

// LogicalTypeNameOf returns the logical type name of a type and where it
// came from: a logicalTypeName attribute, the deprecated objectType
// attribute, or the class name.
func LogicalTypeNameOf(t *analyze.TypeInfo) (name, source string) {
	markers := []analyze.Marker{
		analyze.MarkerDomainObject,
		analyze.MarkerViewModel,
		analyze.MarkerDomainService,
		analyze.MarkerMixin,
	}

	for _, m := range markers {
		if d, ok := t.Directive(m); ok {
			if v, ok := d.Attr("logicalTypeName"); ok && v != "" {
				return v, "logicalTypeName"
			}
		}
	}

	if v, ok := objectTypeAttr(t); ok {
		return v, "objectType"
	}

	return t.ClassName(), "className"
}

func objectTypeAttr(t *analyze.TypeInfo) (string, bool) {
	for _, d := range t.Directives {
		if v, ok := d.Attr("objectType"); ok && v != "" {
			return v, true
		}
	}

	return "", false
}

// Introspect builds the specification of an analyzed type. It only reads t,
// so independent types may be introspected concurrently. Element
// specifications of features are resolved later through resolver.
func Introspect(t *analyze.TypeInfo, bs beansort.BeanSort, resolver SpecResolver) *ObjectSpecification {
	logical, source := LogicalTypeNameOf(t)

	s := &ObjectSpecification{
		id:       TypeIdentifier(t.ClassName(), logical),
		beanSort: bs,
		typeInfo: t,
	}

	s.facets.AddFacet(&LogicalTypeFacet{
		FacetBase: FacetBase{Type: FacetLogicalType, HolderID: s.id},
		Name:      logical,
		Source:    source,
	})

	if v, ok := objectTypeAttr(t); ok {
		s.facets.AddFacet(&ObjectTypeFacet{
			FacetBase: FacetBase{Type: FacetObjectType, HolderID: s.id},
			Name:      v,
		})
	}

	if method, ok := mixinMethod(t); ok {
		s.facets.AddFacet(&MixinFacet{
			FacetBase: FacetBase{Type: FacetMixin, HolderID: s.id},
			Method:    method,
		})
	}

	if len(t.EnumConstants) > 0 {
		s.facets.AddFacet(&EnumFacet{
			FacetBase: FacetBase{Type: FacetEnum, HolderID: s.id},
			Constants: t.EnumConstants,
		})
	}

	for _, d := range t.Directives {
		if !d.Marker.IsKnown() {
			s.unknownDirectives = append(s.unknownDirectives, d)
		}
	}

	b := &builder{spec: s, resolver: resolver, taken: map[string]bool{}}
	b.collect(t.Deref())

	return s
}

func mixinMethod(t *analyze.TypeInfo) (string, bool) {
	d, ok := t.Directive(analyze.MarkerMixin)
	if !ok {
		d, ok = t.Directive(analyze.MarkerDomainObject)
		if !ok || beansort.NatureOf(d) != beansort.NatureMixin {
			return "", false
		}
	}

	if v, ok := d.Attr("method"); ok && v != "" && v != "true" {
		return exportedName(v), true
	}

	return DefaultMixinMethod, true
}

// exportedName upper-cases the first letter, so method=act names Act.
func exportedName(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

type builder struct {
	spec     *ObjectSpecification
	resolver SpecResolver
	taken    map[string]bool
}

// level is a struct visited during promotion, with the class name of the
// embedded type that declares its members ("" for the type itself).
type level struct {
	t         *analyze.TypeInfo
	declaring string
}

type candidate struct {
	method    analyze.MethodInfo
	declaring string
}

// collect walks the type and its embedded types breadth first. A shallower
// member shadows a deeper one of the same name, as in Go promotion.
func (b *builder) collect(root *analyze.TypeInfo) {
	if root == nil {
		return
	}

	var methods []candidate

	visited := map[*analyze.TypeInfo]bool{}
	queue := []level{{t: root}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.t == nil || visited[cur.t] {
			continue
		}

		visited[cur.t] = true

		for _, f := range cur.t.Fields {
			if f.Embedded {
				emb := f.Type.Deref()
				if cur.declaring == "" && emb.IsNamed() {
					b.spec.embedded = append(b.spec.embedded, emb.ClassName())
				}

				queue = append(queue, level{t: emb, declaring: emb.ClassName()})

				continue
			}

			if !f.Exported || b.taken[f.Name] {
				continue
			}

			b.taken[f.Name] = true
			b.addField(f, cur.declaring)
		}

		for _, m := range cur.t.Methods {
			if frameworkMethods[m.Name] {
				continue
			}

			if b.taken[m.Name] {
				continue
			}

			b.taken[m.Name] = true
			methods = append(methods, candidate{method: m, declaring: cur.declaring})
		}
	}

	b.addMethods(methods)
}

// holderFor returns the identifier facets are keyed by: the member of the
// declaring embedded type when promoted, the member itself otherwise.
func (b *builder) holderFor(id Identifier, declaring string) Identifier {
	if declaring == "" {
		return id
	}

	h := id
	h.ClassName = declaring
	h.LogicalTypeName = ""

	return h
}

func addFacet(h *FacetHolder, f Facet, declaring string) {
	if declaring != "" {
		f.setInheritedFrom(declaring)
	}

	h.AddFacet(f)
}

func (b *builder) addField(f analyze.FieldInfo, declaring string) {
	tag := parseMemberTag(f.GetTag(TagKey))
	if tag.skip {
		return
	}

	if f.Type.IsCollection() {
		c := &OneToManyAssociation{}
		c.id = b.spec.id.Member(f.Name, FeatureCollection)
		c.declared = f.Type
		c.resolver = b.resolver
		c.elementClass = f.Type.CollectionElem().ClassName()

		holder := b.holderFor(c.id, declaring)
		if _, ok := tag.get(TagHidden); ok {
			addFacet(&c.facets, &HiddenFacet{FacetBase: FacetBase{Type: FacetHidden, HolderID: holder}}, declaring)
		}

		b.spec.collections = append(b.spec.collections, c)

		return
	}

	p := &OneToOneAssociation{}
	p.id = b.spec.id.Member(f.Name, FeatureProperty)
	p.declared = f.Type
	p.resolver = b.resolver
	p.elementClass = f.Type.ClassName()
	p.scalar = true

	holder := b.holderFor(p.id, declaring)
	addOptionality(&p.facets, holder, f.Type, tag.options, declaring)
	addConstraints(&p.facets, holder, tag.options, declaring)

	b.spec.properties = append(b.spec.properties, p)
}

// addOptionality layers the optionality chain: the framework default, then
// nullable, then an explicit optionality attribute.
func addOptionality(h *FacetHolder, holder Identifier, t *analyze.TypeInfo, opts map[string]string, declaring string) {
	def := Required
	if t.IsPointer() || t.Deref().Kind == analyze.TypeKindInterface {
		def = Optional
	}

	addFacet(h, NewMandatoryFacetDefault(holder, def), declaring)

	if v, ok := opts[TagNullable]; ok && v != "false" {
		addFacet(h, NewMandatoryFacet(holder, Optional, TagNullable), declaring)
	}

	if v, ok := opts[TagOptionality]; ok {
		if sem, ok := parseSemantics(v); ok {
			addFacet(h, NewMandatoryFacet(holder, sem, TagOptionality), declaring)
		}
	}
}

func addConstraints(h *FacetHolder, holder Identifier, opts map[string]string, declaring string) {
	if v, ok := opts[TagRegex]; ok {
		addFacet(h, &RegexFacet{FacetBase: FacetBase{Type: FacetRegex, HolderID: holder}, Pattern: v}, declaring)
	}

	if v, ok := opts[TagPattern]; ok {
		addFacet(h, &PatternFacet{FacetBase: FacetBase{Type: FacetPattern, HolderID: holder}, Pattern: v}, declaring)
	}

	if _, ok := opts[TagHidden]; ok {
		addFacet(h, &HiddenFacet{FacetBase: FacetBase{Type: FacetHidden, HolderID: holder}}, declaring)
	}
}

// splitSupporting returns the prefix and member name of a supporting method.
func splitSupporting(name string) (prefix, member string, ok bool) {
	for _, p := range SupportingPrefixes {
		rest, found := strings.CutPrefix(name, p)
		if !found || rest == "" {
			continue
		}

		if indexedPrefixes[p] {
			rest = strings.TrimLeft(rest, "0123456789")
		}

		r, _ := utf8.DecodeRuneInString(rest)
		if rest == "" || !unicode.IsUpper(r) {
			continue
		}

		return p, rest, true
	}

	return "", "", false
}

func (b *builder) addMethods(methods []candidate) {
	var supporting []SupportingMethod

	for _, c := range methods {
		if prefix, member, ok := splitSupporting(c.method.Name); ok {
			supporting = append(supporting, SupportingMethod{Prefix: prefix, MethodName: c.method.Name, MemberName: member})
			continue
		}

		b.spec.actions = append(b.spec.actions, b.newAction(c.method, c.declaring))
	}

	byMember := map[string][]SupportingMethod{}
	for _, sm := range supporting {
		if !b.hasMember(sm.MemberName) {
			b.spec.orphans = append(b.spec.orphans, sm)
			continue
		}

		byMember[sm.MemberName] = append(byMember[sm.MemberName], sm)
	}

	for _, f := range b.spec.Members() {
		sms, ok := byMember[f.FeatureIdentifier().MemberName]
		if !ok {
			continue
		}

		f.Facets().AddFacet(&SupportingMethodsFacet{
			FacetBase: FacetBase{Type: FacetSupportingMethods, HolderID: f.FeatureIdentifier()},
			Methods:   sms,
		})
	}
}

func (b *builder) hasMember(name string) bool {
	for _, n := range b.spec.MemberNames() {
		if n == name {
			return true
		}
	}

	return false
}

func (b *builder) newAction(m analyze.MethodInfo, declaring string) *ObjectAction {
	a := &ObjectAction{}
	a.id = b.spec.id.Member(m.Name, FeatureAction)
	a.declared = m.ReturnType()
	a.resolver = b.resolver
	a.scalar = true

	if rt := m.ReturnType(); rt != nil {
		if rt.IsCollection() {
			a.elementClass = rt.CollectionElem().ClassName()
			a.scalar = false
		} else {
			a.elementClass = rt.ClassName()
		}
	}

	holder := b.holderFor(a.id, declaring)

	index := 0
	for i, p := range m.Params {
		if i == 0 && p.Type.ClassName() == contextClassName {
			continue
		}

		a.params = append(a.params, b.newParam(a, &m, p, index, holder, declaring))
		index++
	}

	return a
}

func (b *builder) newParam(
	a *ObjectAction,
	m *analyze.MethodInfo,
	p analyze.ParamInfo,
	index int,
	actionHolder Identifier,
	declaring string,
) *ObjectActionParameter {
	name := p.Name
	if name == "" || name == "_" {
		name = fmt.Sprintf("arg%d", index)
	}

	param := &ObjectActionParameter{action: a, index: index, name: name}
	param.id = a.id.Param(index)
	param.declared = p.Type
	param.resolver = b.resolver
	param.scalar = !p.Type.IsCollection()

	if param.scalar {
		param.elementClass = p.Type.ClassName()
	} else {
		param.elementClass = p.Type.CollectionElem().ClassName()
	}

	var opts map[string]string
	if d, ok := m.ParamDirective(name); ok {
		opts = d.Attrs
	}

	holder := actionHolder.Param(index)
	if param.scalar {
		addOptionality(&param.facets, holder, p.Type, opts, declaring)
	}

	addConstraints(&param.facets, holder, opts, declaring)

	return param
}
