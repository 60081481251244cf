package beansort

import (
	"strings"

	"causeway-metamodel/internal/analyze"
)

// Nature is the value of the `nature` attribute of a domainobject directive.
type Nature string

const (
	NatureNotSpecified   Nature = "NOT_SPECIFIED"
	NatureEntity         Nature = "ENTITY"
	NatureJDOEntity      Nature = "JDO_ENTITY"
	NatureExternalEntity Nature = "EXTERNAL_ENTITY"
	NatureInMemoryEntity Nature = "INMEMORY_ENTITY"
	NatureMixin          Nature = "MIXIN"
	NatureViewModel      Nature = "VIEW_MODEL"
)

// NatureOf reads the nature attribute, defaulting to NOT_SPECIFIED.
func NatureOf(d analyze.Directive) Nature {
	v, ok := d.Attr("nature")
	if !ok || v == "" {
		return NatureNotSpecified
	}

	return Nature(strings.ToUpper(v))
}

// Rule is one entry of the classification precedence table.
type Rule struct {
	Name  string
	Match func(t *analyze.TypeInfo) (BeanSort, bool)
}

// rules is ordered by precedence; the first match wins.
var rules = []Rule{
	{"vetoed", markedAs(analyze.MarkerVetoed, Unknown)},
	{"collection", matchCollection},
	{"domainservice", markedAs(analyze.MarkerDomainService, ManagedBean)},
	// persistencecapable takes precedence over domainobject
	{"persistencecapable", markedAs(analyze.MarkerPersistenceCapable, Entity)},
	{"mixin", markedAs(analyze.MarkerMixin, Mixin)},
	{"viewmodel", matchViewModel},
	{"domainobject", matchDomainObject},
	{"component", markedAs(analyze.MarkerComponent, ManagedBean)},
	{"serializable", matchSerializable},
}

// Rules returns the rule names in precedence order.
func Rules() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}

	return names
}

// QuickClassify returns the bean sort of a type from its static metadata only.
// It is total and has no side effects; nil classifies as Unknown.
func QuickClassify(t *analyze.TypeInfo) BeanSort {
	sort, _ := Explain(t)
	return sort
}

// Explain classifies like QuickClassify and also names the rule that decided.
// The rule is "none" when no rule matched.
func Explain(t *analyze.TypeInfo) (BeanSort, string) {
	if t == nil {
		return Unknown, "none"
	}

	for _, r := range rules {
		if sort, ok := r.Match(t); ok {
			return sort, r.Name
		}
	}

	return Unknown, "none"
}

func markedAs(m analyze.Marker, sort BeanSort) func(*analyze.TypeInfo) (BeanSort, bool) {
	return func(t *analyze.TypeInfo) (BeanSort, bool) {
		if _, _, ok := t.FindNearestDirective(m); ok {
			return sort, true
		}

		return Unknown, false
	}
}

func matchCollection(t *analyze.TypeInfo) (BeanSort, bool) {
	return Collection, t.IsCollection()
}

func matchViewModel(t *analyze.TypeInfo) (BeanSort, bool) {
	if _, _, ok := t.FindNearestDirective(analyze.MarkerViewModel); ok {
		return ViewModel, true
	}

	return ViewModel, t.HasCapability(analyze.CapViewModel)
}

func matchDomainObject(t *analyze.TypeInfo) (BeanSort, bool) {
	d, _, ok := t.FindNearestDirective(analyze.MarkerDomainObject)
	if !ok {
		return Unknown, false
	}

	switch NatureOf(d) {
	case NatureMixin:
		return Mixin, true
	case NatureJDOEntity, NatureEntity:
		return Entity, true
	default:
		// without an explicit persistence context an object is a view model
		return ViewModel, true
	}
}

func matchSerializable(t *analyze.TypeInfo) (BeanSort, bool) {
	t = t.Deref()
	if t == nil {
		return Unknown, false
	}

	switch {
	case t.Kind == analyze.TypeKindBasic,
		t.IsByteSlice(),
		t.HasCapability(analyze.CapTextMarshaler):
		return Value, true
	case t.Kind == analyze.TypeKindAlias && t.Underlying != nil:
		return matchSerializable(t.Underlying)
	}

	return Unknown, false
}
