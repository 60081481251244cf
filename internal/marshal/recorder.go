package marshal

import (
	"github.com/pkg/errors"

	"causeway-metamodel/internal/schema"
	"causeway-metamodel/internal/valuesemantics"
)

// ValueRecorder writes values in one version of the wire format.
type ValueRecorder interface {
	RecordValue(el Element, v ManagedObject) (schema.ValueWithTypeDto, error)
	RecordValues(el Element, vs PackedManagedObject) (schema.ValueWithTypeDto, error)
}

// V2 records values in the 2.0 schema. References are written as oids
// obtained from the object manager.
type V2 struct {
	objects ObjectManager
}

// NewV2 returns a 2.0 recorder.
func NewV2(objects ObjectManager) *V2 {
	return &V2{objects: objects}
}

func (r *V2) RecordValue(el Element, v ManagedObject) (schema.ValueWithTypeDto, error) {
	if el.ValueType == schema.ValueTypeVoid || v.IsEmpty() {
		return schema.NullValue(el.ValueType), nil
	}

	if el.Semantics != nil {
		dto, err := encode(el.Semantics, v.Pojo)
		if err != nil {
			return schema.ValueWithTypeDto{}, err
		}

		return schema.NewValue(el.ValueType, dto), nil
	}

	if r.objects == nil {
		return schema.ValueWithTypeDto{}, errors.Errorf("no object manager to record a reference to %s", v.ClassName())
	}

	bm, err := r.objects.BookmarkFor(v)
	if err != nil {
		return schema.ValueWithTypeDto{}, err
	}

	return schema.ValueWithTypeDto{
		Type:     schema.ValueTypeReference,
		ValueDto: schema.ValueDto{Reference: &schema.OidDto{Type: bm.LogicalTypeName, ID: bm.ID}},
	}, nil
}

// RecordValues writes an empty collection as a null COLLECTION.
func (r *V2) RecordValues(el Element, vs PackedManagedObject) (schema.ValueWithTypeDto, error) {
	if vs.IsEmpty() {
		return schema.NullValue(schema.ValueTypeCollection), nil
	}

	coll := &schema.CollectionDto{Type: el.ValueType, Values: make([]schema.ValueWithTypeDto, 0, len(vs.Values))}

	for i, v := range vs.Values {
		dto, err := r.RecordValue(el, v)
		if err != nil {
			return schema.ValueWithTypeDto{}, errors.WithMessagef(err, "element %d", i)
		}

		coll.Values = append(coll.Values, dto)
	}

	return schema.ValueWithTypeDto{Type: schema.ValueTypeCollection, ValueDto: schema.ValueDto{Collection: coll}}, nil
}

// encode hands p the value, dereferencing a pointer the provider rejects.
func encode(p valuesemantics.Provider, v any) (*schema.ValueDto, error) {
	dto, err := p.Encode(v)
	if err == nil || !errors.Is(err, valuesemantics.ErrWrongType) {
		return dto, err
	}

	if elem, ok := deref(v); ok {
		return p.Encode(elem)
	}

	return nil, err
}
