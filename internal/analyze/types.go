package analyze

import (
	"go/types"
	"reflect"
	"strings"

	"causeway-metamodel/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "causeway-metamodel/examples/simpleapp"
	Name    string // e.g., "Customer"
}

// String returns the class name of the type: "pkgpath.Name", or just the
// name for predeclared types.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// ParseTypeID splits a class name at the last dot that follows the last slash.
func ParseTypeID(className string) TypeID {
	slash := strings.LastIndex(className, "/")
	dot := strings.LastIndex(className, ".")
	if dot <= slash {
		return TypeID{Name: className}
	}

	return TypeID{PkgPath: className[:dot], Name: className[dot+1:]}
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, etc.
	TypeKindStruct             // struct type
	TypeKindPointer            // pointer to another type
	TypeKindSlice              // slice of another type
	TypeKindArray              // array of another type
	TypeKindMap                // map type
	TypeKindAlias              // named type wrapping a basic or local type
	TypeKindExternal           // external/opaque type (e.g., time.Time)
	TypeKindInterface          // interface type
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	case TypeKindInterface:
		return "interface"
	default:
		return common.UnknownStr
	}
}

// IsContainer reports whether values of this kind hold a variable number of elements.
func (k TypeKind) IsContainer() bool {
	return k == TypeKindSlice || k == TypeKindArray || k == TypeKindMap
}

// Capability is a bit set of well-known method sets a type implements.
type Capability uint8

const (
	// CapViewModel marks types with a `ViewModelMemento() string` method.
	CapViewModel Capability = 1 << iota
	// CapTextMarshaler marks types implementing encoding.TextMarshaler.
	CapTextMarshaler
	// CapTextUnmarshaler marks types implementing encoding.TextUnmarshaler (via pointer receiver).
	CapTextUnmarshaler
)

// Has reports whether all bits of c are set.
func (c Capability) Has(o Capability) bool {
	return c&o == o
}

// EnumConstant is a package-level typed constant of a named basic type.
type EnumConstant struct {
	Name  string
	Value string
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID            TypeID         // Unique identifier (empty for unnamed types like *T or []T)
	Kind          TypeKind       // Kind of type
	Underlying    *TypeInfo      // For named types, the underlying type
	ElemType      *TypeInfo      // For pointers, slices, arrays and maps, the element type
	KeyType       *TypeInfo      // For maps, the key type
	Fields        []FieldInfo    // For structs, the list of fields
	Methods       []MethodInfo   // Exported methods declared on the named type
	Directives    []Directive    // Marker directives from the declaration's doc comment
	Capabilities  Capability     // Well-known interfaces implemented by T or *T
	EnumConstants []EnumConstant // Typed constants declared alongside a named basic type
	GoType        types.Type     // The original go/types.Type
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// ClassName returns the identity shared with reflect: "pkgpath.Name" for named
// types, the kind name for basics, and a composed form for unnamed types.
// Pointers are transparent, so *Customer and Customer share a class name.
func (t *TypeInfo) ClassName() string {
	if t == nil {
		return ""
	}

	if t.IsNamed() {
		return t.ID.String()
	}

	switch t.Kind {
	case TypeKindPointer:
		return t.ElemType.ClassName()
	case TypeKindSlice:
		return "[]" + t.ElemType.ClassName()
	case TypeKindArray:
		return "[...]" + t.ElemType.ClassName()
	case TypeKindMap:
		return "map[" + t.KeyType.ClassName() + "]" + t.ElemType.ClassName()
	case TypeKindBasic:
		if b, ok := t.GoType.(*types.Basic); ok {
			return basicName(b)
		}
	}

	if t.GoType != nil {
		return t.GoType.String()
	}

	return common.UnknownStr
}

// Deref strips any number of pointer levels.
func (t *TypeInfo) Deref() *TypeInfo {
	for t != nil && t.Kind == TypeKindPointer {
		t = t.ElemType
	}

	return t
}

// IsPointer reports whether the type is a pointer.
func (t *TypeInfo) IsPointer() bool {
	return t != nil && t.Kind == TypeKindPointer
}

// IsCollection reports whether the type, or the named type's underlying type,
// is a slice, array or map. A byte slice is a value (a blob), not a collection.
func (t *TypeInfo) IsCollection() bool {
	t = t.Deref()
	if t == nil {
		return false
	}

	if t.Kind == TypeKindAlias && t.Underlying != nil {
		return t.Underlying.IsCollection()
	}

	if !t.Kind.IsContainer() {
		return false
	}

	return !t.IsByteSlice()
}

// IsByteSlice reports whether the type is []byte.
func (t *TypeInfo) IsByteSlice() bool {
	if t == nil || t.Kind != TypeKindSlice || t.ElemType == nil || t.ElemType.Kind != TypeKindBasic {
		return false
	}

	b, ok := t.ElemType.GoType.(*types.Basic)

	return ok && b.Kind() == types.Uint8
}

// CollectionElem returns the element type of a collection, looking through
// pointers and named types.
func (t *TypeInfo) CollectionElem() *TypeInfo {
	t = t.Deref()
	for t != nil && t.Kind == TypeKindAlias && t.Underlying != nil {
		t = t.Underlying
	}

	if t == nil {
		return nil
	}

	return t.ElemType
}

// HasCapability reports whether the type implements the given capability.
func (t *TypeInfo) HasCapability(c Capability) bool {
	return t != nil && t.Capabilities.Has(c)
}

// Directive returns the first directive declared directly on the type for the marker.
func (t *TypeInfo) Directive(m Marker) (Directive, bool) {
	if t == nil {
		return Directive{}, false
	}

	for _, d := range t.Directives {
		if d.Marker == m {
			return d, true
		}
	}

	return Directive{}, false
}

// FindNearestDirective looks for a marker on the type itself first, then
// breadth-first through embedded struct types. It returns the directive and
// the type that declared it.
func (t *TypeInfo) FindNearestDirective(m Marker) (Directive, *TypeInfo, bool) {
	if t == nil {
		return Directive{}, nil, false
	}

	visited := map[*TypeInfo]bool{}
	queue := []*TypeInfo{t.Deref()}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == nil || visited[cur] {
			continue
		}

		visited[cur] = true

		if d, ok := cur.Directive(m); ok {
			return d, cur, true
		}

		for i := range cur.Fields {
			if cur.Fields[i].Embedded {
				queue = append(queue, cur.Fields[i].Type.Deref())
			}
		}
	}

	return Directive{}, nil, false
}

// Method returns the exported method with the given name.
func (t *TypeInfo) Method(name string) (*MethodInfo, bool) {
	if t == nil {
		return nil, false
	}

	for i := range t.Methods {
		if t.Methods[i].Name == name {
			return &t.Methods[i], true
		}
	}

	return nil, false
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// HasTag returns true if the field has the specified tag.
func (f *FieldInfo) HasTag(key string) bool {
	return f.Tag.Get(key) != ""
}

// GetTag returns the value of the specified tag.
func (f *FieldInfo) GetTag(key string) string {
	return f.Tag.Get(key)
}

// MethodInfo describes an exported method of a named type.
type MethodInfo struct {
	Name            string
	Params          []ParamInfo
	Results         []*TypeInfo
	PointerReceiver bool
	Directives      []Directive
}

// ParamInfo describes a method parameter.
type ParamInfo struct {
	Name string
	Type *TypeInfo
}

// ParamDirective returns the `parameter` directive naming the given parameter.
func (m *MethodInfo) ParamDirective(name string) (Directive, bool) {
	for _, d := range m.Directives {
		if d.Marker != MarkerParameter {
			continue
		}

		if n, _ := d.Attr("name"); n == name {
			return d, true
		}
	}

	return Directive{}, false
}

// ReturnType returns the first non-error result, or nil for void methods.
func (m *MethodInfo) ReturnType() *TypeInfo {
	for _, r := range m.Results {
		if r != nil && r.ID == (TypeID{Name: "error"}) {
			continue
		}

		return r
	}

	return nil
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types of loaded packages.
	Types map[TypeID]*TypeInfo
	// Externals holds named types referenced from loaded packages but declared elsewhere.
	Externals map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:     make(map[TypeID]*TypeInfo),
		Externals: make(map[TypeID]*TypeInfo),
		Packages:  make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Add registers a named type, e.g. when building a graph by hand.
func (g *TypeGraph) Add(t *TypeInfo) *TypeInfo {
	g.Types[t.ID] = t

	pkg, ok := g.Packages[t.ID.PkgPath]
	if !ok {
		pkg = &PackageInfo{Path: t.ID.PkgPath, Name: common.PkgAlias(t.ID.PkgPath)}
		g.Packages[t.ID.PkgPath] = pkg
	}

	pkg.Types = append(pkg.Types, t.ID)

	return t
}

// Lookup resolves a class name against loaded types, referenced externals
// and the builtin value types.
func (g *TypeGraph) Lookup(className string) (*TypeInfo, bool) {
	id := ParseTypeID(className)

	if t, ok := g.Types[id]; ok {
		return t, true
	}

	if t, ok := g.Externals[id]; ok {
		return t, true
	}

	return Builtin(className)
}

// ClassNames returns the class names of all types of loaded packages, sorted.
func (g *TypeGraph) ClassNames() []string {
	names := make(map[string]struct{}, len(g.Types))
	for id := range g.Types {
		names[id.String()] = struct{}{}
	}

	return common.SortedKeys(names)
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package
}
