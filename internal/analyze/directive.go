package analyze

import (
	"go/ast"
	"sort"
	"strings"
)

// DirectivePrefix introduces a marker directive in a doc comment.
const DirectivePrefix = "//causeway:"

// Marker names a directive.
type Marker string

const (
	MarkerVetoed             Marker = "vetoed"
	MarkerDomainService      Marker = "domainservice"
	MarkerPersistenceCapable Marker = "persistencecapable"
	MarkerMixin              Marker = "mixin"
	MarkerViewModel          Marker = "viewmodel"
	MarkerDomainObject       Marker = "domainobject"
	MarkerComponent          Marker = "component"
	MarkerParameter          Marker = "parameter"
)

var knownMarkers = map[Marker]struct{}{
	MarkerVetoed:             {},
	MarkerDomainService:      {},
	MarkerPersistenceCapable: {},
	MarkerMixin:              {},
	MarkerViewModel:          {},
	MarkerDomainObject:       {},
	MarkerComponent:          {},
	MarkerParameter:          {},
}

// IsKnown reports whether the marker is one the metamodel understands.
func (m Marker) IsKnown() bool {
	_, ok := knownMarkers[m]
	return ok
}

// KnownMarkers returns the understood marker names, sorted.
func KnownMarkers() []string {
	out := make([]string, 0, len(knownMarkers))
	for m := range knownMarkers {
		out = append(out, string(m))
	}

	sort.Strings(out)

	return out
}

// Directive is a parsed `//causeway:<marker> key=value ...` line.
type Directive struct {
	Marker Marker
	Attrs  map[string]string
	Raw    string
}

// Attr returns an attribute value. Flags without `=` map to "true".
func (d Directive) Attr(key string) (string, bool) {
	v, ok := d.Attrs[key]
	return v, ok
}

// AttrKeys returns the attribute keys in ascending order.
func (d Directive) AttrKeys() []string {
	keys := make([]string, 0, len(d.Attrs))
	for k := range d.Attrs {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// String reproduces the directive in canonical form.
func (d Directive) String() string {
	var b strings.Builder

	b.WriteString(DirectivePrefix)
	b.WriteString(string(d.Marker))

	for _, k := range d.AttrKeys() {
		b.WriteByte(' ')
		b.WriteString(k)

		if v := d.Attrs[k]; v != "true" {
			b.WriteByte('=')
			b.WriteString(v)
		}
	}

	return b.String()
}

// ParseDirective parses a single comment line. It returns false for lines
// that are not directives.
func ParseDirective(line string) (Directive, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, DirectivePrefix) {
		return Directive{}, false
	}

	fields := strings.Fields(strings.TrimPrefix(line, DirectivePrefix))
	if len(fields) == 0 {
		return Directive{}, false
	}

	d := Directive{
		Marker: Marker(strings.ToLower(fields[0])),
		Attrs:  make(map[string]string, len(fields)-1),
		Raw:    line,
	}

	for _, f := range fields[1:] {
		k, v, found := strings.Cut(f, "=")
		if !found {
			v = "true"
		}

		d.Attrs[k] = strings.Trim(v, `"`)
	}

	return d, true
}

// ParseDirectives extracts all directives from a doc comment group.
func ParseDirectives(doc *ast.CommentGroup) []Directive {
	if doc == nil {
		return nil
	}

	var out []Directive

	for _, c := range doc.List {
		if d, ok := ParseDirective(c.Text); ok {
			out = append(out, d)
		}
	}

	return out
}
