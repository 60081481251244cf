// Package marshal records managed values into schema DTOs and recovers them.
//
// Every call resolves the feature it works on through a FeatureLoader and
// picks value semantics for the feature's element class. Features without
// semantics are recorded as references through an ObjectManager. The
// cardinality of a recorded or recovered value must agree with the
// feature's; a mismatch is reported as ErrCardinalityMismatch.
package marshal

import (
	"github.com/pkg/errors"

	"causeway-metamodel/internal/analyze"
	"causeway-metamodel/internal/schema"
	"causeway-metamodel/internal/spec"
	"causeway-metamodel/internal/valuesemantics"
)

var (
	// ErrCardinalityMismatch is returned when a scalar meets a collection.
	ErrCardinalityMismatch = errors.New("cardinality mismatch")
	// ErrTypeMismatch is returned when a value does not match its feature's type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Marshaller converts between managed values and schema DTOs.
type Marshaller struct {
	features  FeatureLoader
	semantics *valuesemantics.Registry
	objects   ObjectManager
	recorder  ValueRecorder
}

// Option configures a Marshaller.
type Option func(*Marshaller)

// WithRecorder replaces the default V2 recorder.
func WithRecorder(r ValueRecorder) Option {
	return func(m *Marshaller) {
		m.recorder = r
	}
}

// New creates a marshaller. objects may be nil when no references are
// recorded or recovered.
func New(features FeatureLoader, semantics *valuesemantics.Registry, objects ObjectManager, opts ...Option) *Marshaller {
	m := &Marshaller{
		features:  features,
		semantics: semantics,
		objects:   objects,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.recorder == nil {
		m.recorder = NewV2(objects)
	}

	return m
}

// RecordActionResultScalar sets the returned value of dto.
func (m *Marshaller) RecordActionResultScalar(dto *schema.ActionInvocationDto, id spec.Identifier, result ManagedObject) (*schema.ActionInvocationDto, error) {
	ctx, err := contextFor[*spec.ObjectAction](m, id)
	if err != nil {
		return nil, err
	}

	if err := checkCardinality(ctx.Feature, true); err != nil {
		return nil, err
	}

	v, err := m.recorder.RecordValue(ctx.Element, result)
	if err != nil {
		return nil, errors.WithMessagef(err, "recording result of %s", id)
	}

	setMember(&dto.LogicalMemberIdentifier, id)
	dto.ReturnedValue = &v

	return dto, nil
}

// RecordActionResultNonScalar sets the returned collection of dto.
func (m *Marshaller) RecordActionResultNonScalar(dto *schema.ActionInvocationDto, id spec.Identifier, results PackedManagedObject) (*schema.ActionInvocationDto, error) {
	ctx, err := contextFor[*spec.ObjectAction](m, id)
	if err != nil {
		return nil, err
	}

	if err := checkCardinality(ctx.Feature, false); err != nil {
		return nil, err
	}

	v, err := m.recorder.RecordValues(ctx.Element, results)
	if err != nil {
		return nil, errors.WithMessagef(err, "recording result of %s", id)
	}

	setMember(&dto.LogicalMemberIdentifier, id)
	dto.ReturnedValue = &v

	return dto, nil
}

// RecordPropertyValue sets the new value of dto. value is a ManagedObject
// for properties and a PackedManagedObject for collections.
func (m *Marshaller) RecordPropertyValue(dto *schema.PropertyDto, id spec.Identifier, value ManagedValue) (*schema.PropertyDto, error) {
	ctx, err := contextFor[spec.Feature](m, id)
	if err != nil {
		return nil, err
	}

	if k := ctx.Feature.FeatureKind(); k != spec.FeatureProperty && k != spec.FeatureCollection {
		return nil, errors.Wrapf(spec.ErrFeatureNotFound, "%s is not an association", id)
	}

	var v schema.ValueWithTypeDto

	switch value := value.(type) {
	case ManagedObject:
		if err := checkCardinality(ctx.Feature, true); err != nil {
			return nil, err
		}

		if err := checkType(ctx.Feature, value); err != nil {
			return nil, err
		}

		v, err = m.recorder.RecordValue(ctx.Element, value)
	case PackedManagedObject:
		if err := checkCardinality(ctx.Feature, false); err != nil {
			return nil, err
		}

		for _, elem := range value.Values {
			if err := checkType(ctx.Feature, elem); err != nil {
				return nil, err
			}
		}

		v, err = m.recorder.RecordValues(ctx.Element, value)
	default:
		return nil, errors.Errorf("unsupported managed value %T", value)
	}

	if err != nil {
		return nil, errors.WithMessagef(err, "recording %s", id)
	}

	setMember(&dto.LogicalMemberIdentifier, id)
	dto.NewValue = &v

	return dto, nil
}

// RecordParamScalar appends the argument of a scalar parameter to h and
// returns a copy of it.
func (m *Marshaller) RecordParamScalar(h schema.ParamHolder, id spec.Identifier, value ManagedObject) (schema.ParamDto, error) {
	ctx, err := contextFor[*spec.ObjectActionParameter](m, id)
	if err != nil {
		return schema.ParamDto{}, err
	}

	if err := checkCardinality(ctx.Feature, true); err != nil {
		return schema.ParamDto{}, err
	}

	v, err := m.recorder.RecordValue(ctx.Element, value)
	if err != nil {
		return schema.ParamDto{}, errors.WithMessagef(err, "recording %s", id)
	}

	return schema.AddParam(h, ctx.Feature.Name(), v), nil
}

// RecordParamNonScalar appends the argument of a collection parameter to h
// and returns a copy of it.
func (m *Marshaller) RecordParamNonScalar(h schema.ParamHolder, id spec.Identifier, values PackedManagedObject) (schema.ParamDto, error) {
	ctx, err := contextFor[*spec.ObjectActionParameter](m, id)
	if err != nil {
		return schema.ParamDto{}, err
	}

	if err := checkCardinality(ctx.Feature, false); err != nil {
		return schema.ParamDto{}, err
	}

	v, err := m.recorder.RecordValues(ctx.Element, values)
	if err != nil {
		return schema.ParamDto{}, errors.WithMessagef(err, "recording %s", id)
	}

	return schema.AddParam(h, ctx.Feature.Name(), v), nil
}

// RecoverPropertyFrom recovers the new value of a property edit.
func (m *Marshaller) RecoverPropertyFrom(dto *schema.PropertyDto) (ManagedValue, error) {
	f, err := m.memberOf(dto.LogicalMemberIdentifier, spec.FeatureProperty)
	if err != nil {
		return nil, err
	}

	return m.recoverValue(f, dto.NewValue)
}

// RecoverActionResultFrom recovers the returned value of an action invocation.
func (m *Marshaller) RecoverActionResultFrom(dto *schema.ActionInvocationDto) (ManagedValue, error) {
	f, err := m.memberOf(dto.LogicalMemberIdentifier, spec.FeatureAction)
	if err != nil {
		return nil, err
	}

	return m.recoverValue(f, dto.ReturnedValue)
}

// RecoverParameterFrom recovers the argument of the parameter id.
func (m *Marshaller) RecoverParameterFrom(id spec.Identifier, dto *schema.ParamDto) (ManagedValue, error) {
	param, err := featureAs[*spec.ObjectActionParameter](m.features, id)
	if err != nil {
		return nil, err
	}

	if dto == nil {
		return m.recoverValue(param, nil)
	}

	return m.recoverValue(param, &dto.ValueWithTypeDto)
}

// RecoverReferenceFrom loads the object an oid points at. A nil oid is the
// empty object.
func (m *Marshaller) RecoverReferenceFrom(oid *schema.OidDto) (ManagedObject, error) {
	if oid == nil {
		return Empty(nil), nil
	}

	if m.objects == nil {
		return ManagedObject{}, errors.Errorf("no object manager to recover %s", oid)
	}

	return m.objects.LoadObject(Bookmark{LogicalTypeName: oid.Type, ID: oid.ID})
}

func (m *Marshaller) memberOf(logicalMemberID string, kind spec.FeatureKind) (spec.Feature, error) {
	logical, member, err := spec.ParseLogicalMemberIdentifier(logicalMemberID)
	if err != nil {
		return nil, err
	}

	s, err := m.features.SpecificationForLogicalTypeName(logical)
	if err != nil {
		return nil, err
	}

	return m.features.LoadFeature(s.Identifier().Member(member, kind))
}

// recoverValue dispatches on the COLLECTION tag. An absent value takes the
// feature's cardinality.
func (m *Marshaller) recoverValue(f spec.Feature, v *schema.ValueWithTypeDto) (ManagedValue, error) {
	multiple := !f.IsScalar()
	if v != nil {
		multiple = v.IsCollection()
	}

	if err := checkCardinality(f, !multiple); err != nil {
		return nil, err
	}

	el := m.element(f)
	elemSpec := f.ElementSpecification()

	if !multiple {
		return m.recoverScalar(el, elemSpec, v)
	}

	if v.IsNull() || v.Collection == nil {
		return PackedEmpty(elemSpec), nil
	}

	out := PackedManagedObject{ElementSpec: elemSpec, Values: make([]ManagedObject, 0, len(v.Collection.Values))}

	for i := range v.Collection.Values {
		obj, err := m.recoverScalar(el, elemSpec, &v.Collection.Values[i])
		if err != nil {
			return nil, errors.WithMessagef(err, "element %d of %s", i, f.FeatureIdentifier())
		}

		out.Values = append(out.Values, obj)
	}

	return out, nil
}

func (m *Marshaller) recoverScalar(el Element, elemSpec *spec.ObjectSpecification, v *schema.ValueWithTypeDto) (ManagedObject, error) {
	if v.IsNull() {
		return Empty(elemSpec), nil
	}

	if v.Reference != nil {
		return m.RecoverReferenceFrom(v.Reference)
	}

	if el.Semantics == nil {
		return ManagedObject{}, errors.Wrapf(ErrTypeMismatch, "%s value for %s, which has no value semantics", v.Type, el.CorrespondingClass)
	}

	if v.Type != "" && v.Type != el.ValueType {
		return ManagedObject{}, errors.Wrapf(ErrTypeMismatch, "%s value for %s, which is %s", v.Type, el.CorrespondingClass, el.ValueType)
	}

	pojo, err := el.Semantics.Decode(&v.ValueDto)
	if err != nil {
		return ManagedObject{}, err
	}

	return Of(elemSpec, pojo), nil
}

func checkCardinality(f spec.Feature, scalar bool) error {
	if f.IsScalar() == scalar {
		return nil
	}

	return errors.Wrapf(ErrCardinalityMismatch, "%s is %s, value is %s",
		f.FeatureIdentifier(), cardinality(f.IsScalar()), cardinality(scalar))
}

func cardinality(scalar bool) string {
	if scalar {
		return "scalar"
	}

	return "a collection"
}

type declaredTyped interface {
	DeclaredType() *analyze.TypeInfo
}

// checkType compares the class of a value against the feature's element
// class. Interface-typed features accept any class.
func checkType(f spec.Feature, v ManagedObject) error {
	if v.IsEmpty() {
		return nil
	}

	declared, actual := f.ElementClassName(), v.ClassName()
	if declared == actual {
		return nil
	}

	if d, ok := f.(declaredTyped); ok && isInterface(d.DeclaredType()) {
		return nil
	}

	return errors.Wrapf(ErrTypeMismatch, "%s holds %s, value is %s", f.FeatureIdentifier(), declared, actual)
}

func isInterface(t *analyze.TypeInfo) bool {
	if t.IsCollection() {
		t = t.CollectionElem()
	}

	t = t.Deref()

	return t != nil && t.Kind == analyze.TypeKindInterface
}

func setMember(dst *string, id spec.Identifier) {
	if *dst == "" {
		*dst = id.LogicalMemberIdentifier()
	}
}
