package analyze

import (
	"go/types"
	"reflect"
	"sync"
)

var (
	builtinOnce sync.Once
	builtins    map[string]*TypeInfo
)

// Builtin resolves predeclared basic types and the handful of library value
// types every metamodel understands without loading their packages.
func Builtin(className string) (*TypeInfo, bool) {
	builtinOnce.Do(initBuiltins)

	t, ok := builtins[className]

	return t, ok
}

func initBuiltins() {
	builtins = make(map[string]*TypeInfo)

	for _, k := range []types.BasicKind{
		types.Bool, types.String,
		types.Int, types.Int8, types.Int16, types.Int32, types.Int64,
		types.Uint, types.Uint8, types.Uint16, types.Uint32, types.Uint64,
		types.Float32, types.Float64,
	} {
		b := types.Typ[k]
		builtins[basicName(b)] = &TypeInfo{Kind: TypeKindBasic, GoType: b}
	}

	textual := CapTextMarshaler | CapTextUnmarshaler

	for _, id := range []TypeID{
		{PkgPath: "time", Name: "Time"},
		{PkgPath: "math/big", Name: "Int"},
	} {
		builtins[id.String()] = &TypeInfo{ID: id, Kind: TypeKindExternal, Capabilities: textual}
	}

	bytes := &TypeInfo{Kind: TypeKindSlice, ElemType: builtins["uint8"]}
	builtins[bytes.ClassName()] = bytes
}

// basicName normalizes the byte and rune aliases to their canonical names,
// matching reflect.Type.Name.
func basicName(b *types.Basic) string {
	switch b.Kind() {
	case types.Uint8:
		return "uint8"
	case types.Int32:
		return "int32"
	default:
		return b.Name()
	}
}

// ClassNameOf computes the class name of a runtime type, consistent with TypeInfo.ClassName.
func ClassNameOf(t reflect.Type) string {
	if t == nil {
		return ""
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name()
		}

		return t.PkgPath() + "." + t.Name()
	}

	switch t.Kind() {
	case reflect.Slice:
		return "[]" + ClassNameOf(t.Elem())
	case reflect.Array:
		return "[...]" + ClassNameOf(t.Elem())
	case reflect.Map:
		return "map[" + ClassNameOf(t.Key()) + "]" + ClassNameOf(t.Elem())
	default:
		return t.String()
	}
}

// ClassNameOfValue is ClassNameOf(reflect.TypeOf(v)).
func ClassNameOfValue(v any) string {
	return ClassNameOf(reflect.TypeOf(v))
}
