package analyze

import (
	"causeway-metamodel/internal/common"
)

// TypeString returns a short human-readable representation of a TypeInfo,
// qualifying named types with their package alias.
// Examples:
//   - "simpleapp.Customer" for a named struct
//   - "*string" for a pointer to a basic type
//   - "[]simpleapp.OrderLine" for a slice
func TypeString(t *TypeInfo) string {
	if t == nil {
		return "<nil>"
	}

	if t.IsNamed() {
		if alias := common.PkgAlias(t.ID.PkgPath); alias != "" {
			return alias + "." + t.ID.Name
		}

		return t.ID.Name
	}

	switch t.Kind {
	case TypeKindBasic:
		return t.ClassName()

	case TypeKindStruct:
		return "struct{...}"

	case TypeKindInterface:
		return "interface{...}"

	case TypeKindPointer:
		return "*" + TypeString(t.ElemType)

	case TypeKindSlice:
		return "[]" + TypeString(t.ElemType)

	case TypeKindArray:
		return "[...]" + TypeString(t.ElemType)

	case TypeKindMap:
		return "map[" + TypeString(t.KeyType) + "]" + TypeString(t.ElemType)

	case TypeKindAlias:
		return TypeString(t.Underlying)

	case TypeKindExternal, TypeKindUnknown:
		if t.GoType != nil {
			return t.GoType.String()
		}
	}

	return common.UnknownStr
}
