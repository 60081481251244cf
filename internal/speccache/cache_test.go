package speccache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"causeway-metamodel/internal/analyze"
	"causeway-metamodel/internal/beansort"
	"causeway-metamodel/internal/spec"
)

const pkg = "causeway-metamodel/examples/simpleapp"

func newSpec(name, logical string) *spec.ObjectSpecification {
	t := &analyze.TypeInfo{ID: analyze.TypeID{PkgPath: pkg, Name: name}, Kind: analyze.TypeKindStruct}
	if logical != "" {
		d, _ := analyze.ParseDirective("//causeway:domainobject logicalTypeName=" + logical)
		t.Directives = []analyze.Directive{d}
	}

	return spec.Introspect(t, beansort.ViewModel, nil)
}

func TestCache_GetPutRemove(t *testing.T) {
	c := New()
	customer := newSpec("Customer", "simple.Customer")

	assert.Nil(t, c.Get(customer.ClassName()))

	c.Put(customer.ClassName(), customer)
	assert.Same(t, customer, c.Get(customer.ClassName()))
	assert.Equal(t, 1, c.Len())

	other := newSpec("Customer", "simple.Customer")
	assert.Same(t, customer, c.PutIfAbsent(customer.ClassName(), other))

	assert.Same(t, customer, c.Remove(customer.ClassName()))
	assert.Nil(t, c.Remove(customer.ClassName()))
	assert.Zero(t, c.Len())
}

func TestCache_LogicalTypeIndex(t *testing.T) {
	c := New()
	customer := newSpec("Customer", "simple.Customer")
	order := newSpec("Order", "simple.Order")

	_, err := c.GetByObjectType("simple.Customer")
	require.ErrorIs(t, err, ErrNotInitialized)
	require.ErrorIs(t, c.RecacheObjectType(customer), ErrNotInitialized)

	c.InternalInit(map[string]*spec.ObjectSpecification{
		customer.ClassName(): customer,
	})
	assert.True(t, c.IsInitialized())

	got, err := c.GetByObjectType("simple.Customer")
	require.NoError(t, err)
	assert.Same(t, customer, got)

	_, err = c.GetByObjectType("simple.Order")
	require.ErrorIs(t, err, ErrUnknownObjectType)

	// loaded lazily after init
	c.Put(order.ClassName(), order)
	require.NoError(t, c.RecacheObjectType(order))

	got, err = c.GetByObjectType("simple.Order")
	require.NoError(t, err)
	assert.Same(t, order, got)
	assert.Equal(t, []string{"simple.Customer", "simple.Order"}, c.LogicalTypeNames())

	c.Remove(order.ClassName())
	_, err = c.GetByObjectType("simple.Order")
	require.ErrorIs(t, err, ErrUnknownObjectType)

	c.Clear()
	assert.False(t, c.IsInitialized())
	assert.Zero(t, c.Len())
}

func TestCache_DuplicateLogicalNameIsDeterministic(t *testing.T) {
	a := newSpec("Alpha", "simple.Shared")
	b := newSpec("Beta", "simple.Shared")

	for range 10 {
		c := New()
		c.InternalInit(map[string]*spec.ObjectSpecification{a.ClassName(): a, b.ClassName(): b})

		got, err := c.GetByObjectType("simple.Shared")
		require.NoError(t, err)
		assert.Same(t, a, got)
	}
}

func TestCache_SnapshotSorted(t *testing.T) {
	c := New()
	for _, n := range []string{"Zeta", "Alpha", "Mid"} {
		s := newSpec(n, "")
		c.Put(s.ClassName(), s)
	}

	var names []string
	for _, s := range c.SnapshotSpecs() {
		names = append(names, s.ClassName())
	}

	assert.Equal(t, []string{pkg + ".Alpha", pkg + ".Mid", pkg + ".Zeta"}, names)
}

func TestCache_ConcurrentPutIfAbsent(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	winners := make([]*spec.ObjectSpecification, 32)

	for i := range winners {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			s := newSpec(fmt.Sprintf("T%d", i%4), "")
			winners[i] = c.PutIfAbsent(s.ClassName(), s)
		}(i)
	}

	wg.Wait()

	assert.Equal(t, 4, c.Len())

	for i, w := range winners {
		assert.Same(t, c.Get(w.ClassName()), w, i)
	}
}

func TestCache_InternalInitKeepsConcurrentLoads(t *testing.T) {
	c := New()
	customer := newSpec("Customer", "simple.Customer")
	stale := newSpec("Customer", "simple.Customer")
	order := newSpec("Order", "simple.Order")

	snapshot := map[string]*spec.ObjectSpecification{stale.ClassName(): stale}

	// put after the snapshot was taken, before the index is built
	c.Put(customer.ClassName(), customer)
	c.Put(order.ClassName(), order)

	c.InternalInit(snapshot)

	assert.Same(t, customer, c.Get(customer.ClassName()))
	assert.Same(t, order, c.Get(order.ClassName()))

	got, err := c.GetByObjectType("simple.Order")
	require.NoError(t, err)
	assert.Same(t, order, got)

	got, err = c.GetByObjectType("simple.Customer")
	require.NoError(t, err)
	assert.Same(t, customer, got)
}
