package analyze

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	graph     *TypeGraph
	typeCache map[types.Type]*TypeInfo // Cache to handle recursive types
	docs      map[string]*ast.CommentGroup
	dir       string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithDir sets the directory in which package patterns are resolved.
func WithDir(dir string) Option {
	return func(a *Analyzer) {
		a.dir = dir
	}
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		graph:     NewTypeGraph(),
		typeCache: make(map[types.Type]*TypeInfo),
		docs:      make(map[string]*ast.CommentGroup),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./examples/simpleapp").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	// Register all packages first so cross-package references are not
	// mistaken for externals.
	for _, pkg := range pkgs {
		a.graph.Packages[pkg.PkgPath] = &PackageInfo{Path: pkg.PkgPath, Name: pkg.Name}
		a.collectDocs(pkg)
	}

	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, fmt.Errorf("failed to process package %s: %w", pkg.PkgPath, err)
		}
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// collectDocs indexes doc comments of type declarations and methods by
// "pkg.Type" and "pkg.Type.Method".
func (a *Analyzer) collectDocs(pkg *packages.Package) {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}

				for _, s := range d.Specs {
					ts, ok := s.(*ast.TypeSpec)
					if !ok {
						continue
					}

					doc := ts.Doc
					if doc == nil && len(d.Specs) == 1 {
						doc = d.Doc
					}

					a.docs[pkg.PkgPath+"."+ts.Name.Name] = doc
				}

			case *ast.FuncDecl:
				if d.Recv == nil || len(d.Recv.List) == 0 {
					continue
				}

				if recv := receiverName(d.Recv.List[0].Type); recv != "" {
					a.docs[pkg.PkgPath+"."+recv+"."+d.Name.Name] = d.Doc
				}
			}
		}
	}
}

func receiverName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return receiverName(e.X)
	case *ast.Ident:
		return e.Name
	case *ast.IndexExpr:
		return receiverName(e.X)
	case *ast.IndexListExpr:
		return receiverName(e.X)
	default:
		return ""
	}
}

// processPackage extracts types from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	pkgInfo := a.graph.Packages[pkg.PkgPath]

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		obj := scope.Lookup(name)

		// Only process type names (not variables, constants, functions)
		typeName, ok := obj.(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		typeID := TypeID{
			PkgPath: pkg.PkgPath,
			Name:    name,
		}

		typeInfo := a.analyzeType(typeName.Type())
		typeInfo.ID = typeID
		typeInfo.Directives = ParseDirectives(a.docs[typeID.String()])

		a.graph.Types[typeID] = typeInfo
		pkgInfo.Types = append(pkgInfo.Types, typeID)
	}

	a.collectEnumConstants(pkg)

	return nil
}

// collectEnumConstants attaches typed constants to their named basic type.
func (a *Analyzer) collectEnumConstants(pkg *packages.Package) {
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok || !c.Exported() {
			continue
		}

		named, ok := c.Type().(*types.Named)
		if !ok || named.Obj().Pkg() != pkg.Types {
			continue
		}

		info := a.graph.Types[TypeID{PkgPath: pkg.PkgPath, Name: named.Obj().Name()}]
		if info == nil || info.Kind != TypeKindAlias {
			continue
		}

		value := c.Val().ExactString()
		if c.Val().Kind() == constant.String {
			value = constant.StringVal(c.Val())
		}

		info.EnumConstants = append(info.EnumConstants, EnumConstant{Name: name, Value: value})
	}
}

// analyzeType recursively analyzes a go/types.Type and returns a TypeInfo.
func (a *Analyzer) analyzeType(t types.Type) *TypeInfo {
	// Check cache to handle recursive types
	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	info := &TypeInfo{
		GoType: t,
	}

	// Pre-cache to handle recursive types (we'll fill in details)
	a.typeCache[t] = info

	switch tt := t.(type) {
	case *types.Named:
		a.analyzeNamedType(tt, info)

	case *types.Alias:
		*info = *a.analyzeType(types.Unalias(tt))

	case *types.Basic:
		info.Kind = TypeKindBasic

	case *types.Pointer:
		info.Kind = TypeKindPointer
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Slice:
		info.Kind = TypeKindSlice
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Array:
		info.Kind = TypeKindArray
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Map:
		info.Kind = TypeKindMap
		info.KeyType = a.analyzeType(tt.Key())
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(tt, info)

	case *types.Interface:
		info.Kind = TypeKindInterface

	default:
		// Channels, signatures, type parameters are not modelled
		info.Kind = TypeKindUnknown
	}

	return info
}

// analyzeNamedType analyzes a named type.
func (a *Analyzer) analyzeNamedType(named *types.Named, info *TypeInfo) {
	obj := named.Obj()
	if obj.Pkg() == nil {
		// Universe scope: error, comparable
		info.ID = TypeID{Name: obj.Name()}
		info.Kind = TypeKindInterface

		return
	}

	info.ID = TypeID{
		PkgPath: obj.Pkg().Path(),
		Name:    obj.Name(),
	}
	info.Capabilities = capabilitiesOf(named)

	if a.isExternalPackage(obj.Pkg().Path()) {
		info.Kind = TypeKindExternal
		if _, ok := named.Underlying().(*types.Struct); !ok {
			info.Underlying = a.analyzeType(named.Underlying())
		}

		a.graph.Externals[info.ID] = info

		return
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(ut, info)

	case *types.Interface:
		info.Kind = TypeKindInterface

	default:
		// Named type wrapping something else in our packages
		// (e.g., type OrderStatus string, type Tags []string)
		info.Kind = TypeKindAlias
		info.Underlying = a.analyzeType(ut)
	}

	a.analyzeMethods(named, info)
}

// isExternalPackage returns true if the package is not in our analyzed set.
func (a *Analyzer) isExternalPackage(pkgPath string) bool {
	_, ok := a.graph.Packages[pkgPath]
	return !ok
}

// analyzeStructFields extracts fields from a struct type.
func (a *Analyzer) analyzeStructFields(st *types.Struct, info *TypeInfo) {
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)

		// Embedded types are kept even when unexported; their exported
		// fields are promoted.
		if !field.Exported() && !field.Embedded() {
			continue
		}

		fieldInfo := FieldInfo{
			Name:     field.Name(),
			Exported: field.Exported(),
			Type:     a.analyzeType(field.Type()),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: field.Embedded(),
			Index:    i,
		}

		info.Fields = append(info.Fields, fieldInfo)
	}
}

// analyzeMethods extracts the exported methods declared on a named type.
func (a *Analyzer) analyzeMethods(named *types.Named, info *TypeInfo) {
	for i := 0; i < named.NumMethods(); i++ {
		fn := named.Method(i)
		if !fn.Exported() {
			continue
		}

		sig, ok := fn.Type().(*types.Signature)
		if !ok {
			continue
		}

		m := MethodInfo{
			Name:       fn.Name(),
			Directives: ParseDirectives(a.docs[info.ID.String()+"."+fn.Name()]),
		}

		if recv := sig.Recv(); recv != nil {
			_, m.PointerReceiver = recv.Type().(*types.Pointer)
		}

		for j := 0; j < sig.Params().Len(); j++ {
			p := sig.Params().At(j)
			m.Params = append(m.Params, ParamInfo{Name: p.Name(), Type: a.analyzeType(p.Type())})
		}

		for j := 0; j < sig.Results().Len(); j++ {
			m.Results = append(m.Results, a.analyzeType(sig.Results().At(j).Type()))
		}

		info.Methods = append(info.Methods, m)
	}
}

// capabilitiesOf checks the method set of *T, which includes value receivers.
func capabilitiesOf(named *types.Named) Capability {
	var c Capability

	ms := types.NewMethodSet(types.NewPointer(named))

	if hasMethod(ms, "ViewModelMemento", 0, 1) {
		c |= CapViewModel
	}

	if hasMethod(ms, "MarshalText", 0, 2) {
		c |= CapTextMarshaler
	}

	if hasMethod(ms, "UnmarshalText", 1, 1) {
		c |= CapTextUnmarshaler
	}

	return c
}

func hasMethod(ms *types.MethodSet, name string, params, results int) bool {
	for i := 0; i < ms.Len(); i++ {
		sel := ms.At(i)
		if sel.Obj().Name() != name {
			continue
		}

		sig, ok := sel.Type().(*types.Signature)

		return ok && sig.Params().Len() == params && sig.Results().Len() == results
	}

	return false
}
