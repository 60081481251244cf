// Package analyze provides package loading and type graph extraction.
//
// It uses golang.org/x/tools/go/packages with AST and go/types
// to build a canonical in-memory model of domain types, their fields,
// methods and marker directives.
//
// Key types:
//   - TypeID: package import path + type name; its String form is the class name
//   - TypeInfo: describes kind, fields, methods, directives and capabilities
//   - Directive: a parsed `//causeway:<marker> key=value` doc comment line
//
// Class names are shared with reflect (see ClassNameOf), so a runtime value
// and its statically analyzed type resolve to the same specification.
package analyze
