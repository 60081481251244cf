package analyze

import (
	"go/ast"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "causeway-metamodel/examples/simpleapp"
)

func TestTypeString(t *testing.T) {
	graph := loadSimpleApp(t)

	order := graph.GetType(TypeID{PkgPath: simpleapp, Name: "Order"})
	require.NotNil(t, order)
	assert.Equal(t, "simpleapp.Order", TypeString(order))

	assert.Equal(t, "*simpleapp.Customer", TypeString(field(t, order, "Customer").Type))
	assert.Equal(t, "[]simpleapp.OrderLine", TypeString(field(t, order, "Lines").Type))
	assert.Equal(t, "time.Time", TypeString(field(t, order, "OrderedAt").Type))
	assert.Equal(t, "string", TypeString(field(t, order, "Notes").Type))

	m := &TypeInfo{Kind: TypeKindMap, KeyType: field(t, order, "Notes").Type, ElemType: order}
	assert.Equal(t, "map[string]simpleapp.Order", TypeString(m))
	assert.Equal(t, "struct{...}", TypeString(&TypeInfo{Kind: TypeKindStruct}))
	assert.Equal(t, "<nil>", TypeString(nil))
}

type classNameFixture struct{}

func TestClassNameOf_MatchesTypeInfo(t *testing.T) {
	graph := loadSimpleApp(t)
	order := graph.GetType(TypeID{PkgPath: simpleapp, Name: "Order"})
	require.NotNil(t, order)

	values := map[string]any{
		"Customer":  &app.Customer{},
		"Lines":     []app.OrderLine{},
		"OrderedAt": time.Time{},
		"Total":     app.Money(0),
		"ID":        int64(0),
	}

	assert.Equal(t, order.ClassName(), ClassNameOfValue(app.Order{}))

	for name, v := range values {
		assert.Equal(t, field(t, order, name).Type.ClassName(), ClassNameOfValue(v), name)
	}

	fixture := "causeway-metamodel/internal/analyze.classNameFixture"
	assert.Equal(t, fixture, ClassNameOfValue(classNameFixture{}))
	assert.Equal(t, fixture, ClassNameOfValue(&classNameFixture{}))
	assert.Equal(t, "[]"+fixture, ClassNameOfValue([]*classNameFixture{}))
	assert.Equal(t, "time.Time", ClassNameOfValue(time.Time{}))
	assert.Equal(t, "int32", ClassNameOfValue('x'))
	assert.Equal(t, "[]uint8", ClassNameOfValue([]byte("x")))
	assert.Equal(t, "map[string]int", ClassNameOf(reflect.TypeOf(map[string]int{})))
	assert.Empty(t, ClassNameOf(nil))
}

func TestBuiltin(t *testing.T) {
	for _, name := range []string{"bool", "string", "int64", "uint8", "int32", "float64", "time.Time", "math/big.Int", "[]uint8"} {
		b, ok := Builtin(name)
		require.True(t, ok, name)
		assert.Equal(t, name, b.ClassName())
	}

	tm, _ := Builtin("time.Time")
	assert.True(t, tm.HasCapability(CapTextMarshaler))

	bs, _ := Builtin("[]uint8")
	assert.True(t, bs.IsByteSlice())

	_, ok := Builtin("byte")
	assert.False(t, ok)
}

func TestParseDirective(t *testing.T) {
	d, ok := ParseDirective(`  //causeway:DomainObject nature=ENTITY logicalTypeName="simple.Customer" bounded`)
	require.True(t, ok)
	assert.Equal(t, MarkerDomainObject, d.Marker)
	assert.Equal(t, []string{"bounded", "logicalTypeName", "nature"}, d.AttrKeys())

	v, _ := d.Attr("logicalTypeName")
	assert.Equal(t, "simple.Customer", v)

	v, _ = d.Attr("bounded")
	assert.Equal(t, "true", v)

	assert.Equal(t, "//causeway:domainobject bounded logicalTypeName=simple.Customer nature=ENTITY", d.String())
	assert.True(t, d.Marker.IsKnown())

	for _, line := range []string{"// causeway:vetoed", "//causeway:", "//go:generate stringer"} {
		_, ok := ParseDirective(line)
		assert.False(t, ok, line)
	}

	typo, ok := ParseDirective("//causeway:domainobjekt")
	require.True(t, ok)
	assert.False(t, typo.Marker.IsKnown())
}

func TestParseDirectives(t *testing.T) {
	assert.Nil(t, ParseDirectives(nil))

	doc := &ast.CommentGroup{List: []*ast.Comment{
		{Text: "// Customer places orders."},
		{Text: "//"},
		{Text: "//causeway:vetoed"},
		{Text: "//causeway:component name=clock"},
	}}

	ds := ParseDirectives(doc)
	require.Len(t, ds, 2)
	assert.Equal(t, MarkerVetoed, ds[0].Marker)
	assert.Equal(t, MarkerComponent, ds[1].Marker)
}

func TestKnownMarkers(t *testing.T) {
	assert.Equal(t, []string{
		"component", "domainobject", "domainservice", "mixin",
		"parameter", "persistencecapable", "vetoed", "viewmodel",
	}, KnownMarkers())
}
