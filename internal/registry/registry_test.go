package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"causeway-metamodel/internal/analyze"
	"causeway-metamodel/internal/beansort"
	"causeway-metamodel/internal/log"
)

const pkg = "causeway-metamodel/examples/simpleapp"

func class(name string) string { return pkg + "." + name }

func withDirectives(name string, ds ...analyze.Directive) *analyze.TypeInfo {
	return &analyze.TypeInfo{
		ID:         analyze.TypeID{PkgPath: pkg, Name: name},
		Kind:       analyze.TypeKindStruct,
		Directives: ds,
	}
}

func d(line string) analyze.Directive {
	dir, ok := analyze.ParseDirective(line)
	if !ok {
		panic("not a directive: " + line)
	}

	return dir
}

func buildGraph() *analyze.TypeGraph {
	g := analyze.NewTypeGraph()
	g.Add(withDirectives("Customer", d("//causeway:persistencecapable"), d("//causeway:domainobject logicalTypeName=simple.Customer")))
	g.Add(withDirectives("Dashboard", d("//causeway:viewmodel")))
	g.Add(withDirectives("CustomerOrderCount", d("//causeway:mixin method=act")))
	g.Add(withDirectives("Customers", d("//causeway:domainservice logicalTypeName=simple.Customers")))
	g.Add(withDirectives("Clock", d("//causeway:component name=clock")))
	g.Add(withDirectives("PlainComponent", d("//causeway:component")))
	g.Add(withDirectives("Internal", d("//causeway:vetoed")))
	g.Add(withDirectives("Untouched"))

	return g
}

func newOpenRegistry(t *testing.T) (*Registry, *analyze.TypeGraph) {
	t.Helper()

	g := buildGraph()
	r := New(g, log.NewTesting(t))
	r.Open()

	return r, g
}

func TestRegistry_InterceptPopulatesCategories(t *testing.T) {
	r, g := newOpenRegistry(t)

	sorts := map[string]beansort.BeanSort{}
	for _, name := range g.ClassNames() {
		md := NewTypeMetaData(name, analyze.ParseTypeID(name).Name)
		s, err := r.Intercept(md)
		require.NoError(t, err)
		sorts[name] = s
	}

	assert.Equal(t, beansort.Entity, sorts[class("Customer")])
	assert.Equal(t, beansort.ViewModel, sorts[class("Dashboard")])
	assert.Equal(t, beansort.Mixin, sorts[class("CustomerOrderCount")])
	assert.Equal(t, beansort.ManagedBean, sorts[class("Customers")])
	assert.Equal(t, beansort.ManagedBean, sorts[class("Clock")])
	assert.Equal(t, beansort.Unknown, sorts[class("Internal")])
	assert.Equal(t, beansort.Unknown, sorts[class("Untouched")])

	assert.Equal(t, []string{class("Customer")}, r.EntityTypes())
	assert.Equal(t, []string{class("CustomerOrderCount")}, r.MixinTypes())
	assert.Equal(t, []string{class("Dashboard")}, r.ViewModelTypes())
	assert.Equal(t, []string{class("Internal")}, r.VetoedTypes())
	assert.True(t, r.IsEntity(class("Customer")))
	assert.False(t, r.IsEntity(class("Dashboard")))
}

func TestRegistry_CategoriesAreMutuallyExclusive(t *testing.T) {
	r, g := newOpenRegistry(t)

	for _, name := range g.ClassNames() {
		_, err := r.Intercept(NewTypeMetaData(name, name))
		require.NoError(t, err)
	}

	seen := map[string]int{}
	for _, set := range [][]string{r.EntityTypes(), r.MixinTypes(), r.ViewModelTypes()} {
		for _, c := range set {
			seen[c]++
		}
	}

	for c, n := range seen {
		assert.Equal(t, 1, n, c)

		_, managed := r.ManagedBeanNameForType(c)
		assert.False(t, managed, c)
	}
}

func TestRegistry_Injectability(t *testing.T) {
	r, _ := newOpenRegistry(t)

	tests := []struct {
		name       string
		injectable bool
		override   string
	}{
		{"Customer", false, ""},
		{"Dashboard", false, ""},
		{"CustomerOrderCount", false, ""},
		{"Internal", false, ""},
		{"Customers", true, "simple.Customers"},
		{"Clock", true, "clock"},
		{"PlainComponent", true, ""},
		{"Untouched", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewTypeMetaData(class(tt.name), "bean"+tt.name)
			_, err := r.Intercept(md)
			require.NoError(t, err)

			assert.Equal(t, tt.injectable, md.Injectable)
			assert.Equal(t, tt.override, md.BeanNameOverride)
		})
	}
}

func TestRegistry_IntrospectionQueue(t *testing.T) {
	r, g := newOpenRegistry(t)

	for _, name := range g.ClassNames() {
		_, err := r.Intercept(NewTypeMetaData(name, name))
		require.NoError(t, err)
	}

	assert.Equal(t, []IntrospectableType{
		{ClassName: class("Customer"), Sort: beansort.Entity},
		{ClassName: class("CustomerOrderCount"), Sort: beansort.Mixin},
		{ClassName: class("Customers"), Sort: beansort.ManagedBean},
		{ClassName: class("Dashboard"), Sort: beansort.ViewModel},
	}, r.IntrospectableTypes())
}

func TestRegistry_ManagedBeanNames(t *testing.T) {
	r, _ := newOpenRegistry(t)

	for _, name := range []string{"Customers", "Clock", "PlainComponent"} {
		_, err := r.Intercept(NewTypeMetaData(class(name), "bean"+name))
		require.NoError(t, err)
	}

	name, ok := r.ManagedBeanNameForType(class("Customers"))
	assert.True(t, ok)
	assert.Equal(t, "simple.Customers", name)

	name, ok = r.ManagedBeanNameForType(class("PlainComponent"))
	assert.True(t, ok)
	assert.Equal(t, "beanPlainComponent", name)

	_, ok = r.ManagedBeanNameForType(class("Customer"))
	assert.False(t, ok)
}

func TestRegistry_VetoReevaluatedOnLookup(t *testing.T) {
	r, g := newOpenRegistry(t)

	_, err := r.Intercept(NewTypeMetaData(class("Clock"), "clock"))
	require.NoError(t, err)

	_, ok := r.ManagedBeanNameForType(class("Clock"))
	require.True(t, ok)

	// The type becomes vetoed after the name mapping was recorded.
	clock := g.GetType(analyze.TypeID{PkgPath: pkg, Name: "Clock"})
	clock.Directives = append(clock.Directives, d("//causeway:vetoed"))

	name, ok := r.ManagedBeanNameForType(class("Clock"))
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestRegistry_Lifecycle(t *testing.T) {
	g := buildGraph()
	r := New(g, nil)

	_, err := r.Intercept(NewTypeMetaData(class("Customer"), "customer"))
	require.ErrorIs(t, err, ErrRegistryClosed)

	r.Open()
	assert.True(t, r.IsOpen())

	_, err = r.Intercept(NewTypeMetaData(class("Customer"), "customer"))
	require.NoError(t, err)
	require.NotEmpty(t, r.EntityTypes())

	r.Close()
	assert.False(t, r.IsOpen())
	assert.Empty(t, r.EntityTypes())
	assert.Empty(t, r.IntrospectableTypes())

	r.Open()
	assert.Empty(t, r.EntityTypes())
}

func TestRegistry_UnresolvableTypeIsUnknown(t *testing.T) {
	r, _ := newOpenRegistry(t)

	md := NewTypeMetaData("example.com/nowhere.Ghost", "ghost")
	s, err := r.Intercept(md)
	require.NoError(t, err)

	assert.Equal(t, beansort.Unknown, s)
	assert.True(t, md.Injectable)
	assert.Empty(t, r.IntrospectableTypes())
}
