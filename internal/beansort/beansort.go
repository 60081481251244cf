package beansort

//go:generate go tool stringer -type=BeanSort -output=beansort_string.go

// BeanSort classifies an introspected type's role in the metamodel.
// Every type has exactly one sort.
type BeanSort int

const (
	Unknown     BeanSort = iota // not part of the metamodel
	ManagedBean                 // injectable service or component
	Entity                      // persistence-capable domain object
	Mixin                       // contributes behaviour to another type
	ViewModel                   // domain object whose state is its memento
	Value                       // serializable value type
	Collection                  // slice, array or map
)

// All lists every sort in declaration order.
var All = []BeanSort{Unknown, ManagedBean, Entity, Mixin, ViewModel, Value, Collection}

func (s BeanSort) IsUnknown() bool     { return s == Unknown }
func (s BeanSort) IsManagedBean() bool { return s == ManagedBean }
func (s BeanSort) IsEntity() bool      { return s == Entity }
func (s BeanSort) IsMixin() bool       { return s == Mixin }
func (s BeanSort) IsViewModel() bool   { return s == ViewModel }
func (s BeanSort) IsValue() bool       { return s == Value }
func (s BeanSort) IsCollection() bool  { return s == Collection }

// IsEntityOrViewModel reports whether instances are domain objects addressable by bookmark.
func (s BeanSort) IsEntityOrViewModel() bool {
	return s == Entity || s == ViewModel
}

// IsIntrospectable reports whether the metamodel owns the lifecycle of types of this sort.
// Managed beans are only introspected when explicitly marked as domain services.
func (s BeanSort) IsIntrospectable() bool {
	return s != Unknown && s != ManagedBean
}
