package schema

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip[T any](t *testing.T, v *T) *T {
	t.Helper()

	s, err := ToXML(v)
	require.NoError(t, err)

	out, err := FromXML[T](s)
	require.NoError(t, err)

	return out
}

func TestActionInvocation_NullAndStringArgs(t *testing.T) {
	inv := &ActionInvocationDto{
		LogicalMemberIdentifier: "simple.Customer#PlaceOrder",
		Target:                  OidDto{Type: "simple.Customer", ID: "1"},
	}

	AddParam(inv, "aString", NewValue(ValueTypeString, &ValueDto{String: Ptr("Fred")}))
	AddParam(inv, "nullString", NullValue(ValueTypeString))

	ixn := NewInteractionDto("ixn-1")
	ixn.ActionInvocation = inv

	recreated := roundTrip(t, ixn)
	require.NotNil(t, recreated.ActionInvocation)

	isNull, err := IsNull(recreated.ActionInvocation, "nullString")
	require.NoError(t, err)
	assert.True(t, isNull)

	got, err := GetArg[string](recreated.ActionInvocation, "aString")
	require.NoError(t, err)
	assert.Equal(t, "Fred", got)

	assert.Equal(t, []string{"aString", "nullString"}, ParamNames(recreated.ActionInvocation))
	assert.Equal(t, "2", recreated.MajorVersion)
}

func TestParams_AllValueTypes(t *testing.T) {
	tests := []struct {
		name  string
		value ValueWithTypeDto
		want  any
	}{
		{"aByte", NewValue(ValueTypeByte, &ValueDto{Byte: Ptr[int8](-8)}), int8(-8)},
		{"aShort", NewValue(ValueTypeShort, &ValueDto{Short: Ptr[int16](300)}), int16(300)},
		{"anInt", NewValue(ValueTypeInt, &ValueDto{Int: Ptr[int32](70000)}), int32(70000)},
		{"aLong", NewValue(ValueTypeLong, &ValueDto{Long: Ptr[int64](1 << 40)}), int64(1 << 40)},
		{"aFloat", NewValue(ValueTypeFloat, &ValueDto{Float: Ptr[float32](1.5)}), float32(1.5)},
		{"aDouble", NewValue(ValueTypeDouble, &ValueDto{Double: Ptr(2.25)}), 2.25},
		{"aBoolean", NewValue(ValueTypeBoolean, &ValueDto{Boolean: Ptr(true)}), true},
		{"aChar", NewValue(ValueTypeChar, &ValueDto{Char: Ptr("x")}), "x"},
		{"aBigInteger", NewValue(ValueTypeBigInteger, &ValueDto{BigInteger: Ptr("123456789012345678901234567890")}), "123456789012345678901234567890"},
		{"aTimestamp", NewValue(ValueTypeTimestamp, &ValueDto{Timestamp: Ptr("2026-01-02T03:04:05Z")}), "2026-01-02T03:04:05Z"},
		{"anEnum", NewValue(ValueTypeEnum, &ValueDto{Enum: &EnumDto{EnumType: "simple.Status", EnumName: "StatusActive"}}),
			&EnumDto{EnumType: "simple.Status", EnumName: "StatusActive"}},
		{"aReference", NewValue(ValueTypeReference, &ValueDto{Reference: &OidDto{Type: "simple.Customer", ID: "7"}}),
			&OidDto{Type: "simple.Customer", ID: "7"}},
	}

	action := &ActionDto{LogicalMemberIdentifier: "simple.Customer#Act"}
	for _, tt := range tests {
		AddParam(action, tt.name, tt.value)
	}

	cmd := NewCommandDto("cmd-1", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), OidDto{Type: "simple.Customer", ID: "7"})
	cmd.Action = action

	recreated := roundTrip(t, cmd)
	require.NotNil(t, recreated.Action)
	assert.Equal(t, cmd.Targets, recreated.Targets)
	assert.True(t, cmd.Timestamp.Equal(recreated.Timestamp))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Param(recreated.Action, tt.name)
			require.NoError(t, err)
			assert.False(t, p.IsNull())
			assert.Equal(t, tt.value.Type, p.Type)
			assert.Equal(t, tt.want, ValueOf(&p.ValueDto))
		})
	}
}

func TestGetArg_Errors(t *testing.T) {
	action := &ActionDto{}
	AddParam(action, "n", NewValue(ValueTypeInt, &ValueDto{Int: Ptr[int32](1)}))

	_, err := GetArg[string](action, "n")
	require.ErrorIs(t, err, ErrArgType)

	_, err = GetArg[string](action, "missing")
	require.ErrorIs(t, err, ErrParamNotFound)

	_, err = IsNull(action, "missing")
	require.ErrorIs(t, err, ErrParamNotFound)
}

func TestCollectionAndBlob(t *testing.T) {
	coll := NewValue(ValueTypeCollection, &ValueDto{Collection: &CollectionDto{
		Type: ValueTypeReference,
		Values: []ValueWithTypeDto{
			NewValue(ValueTypeReference, &ValueDto{Reference: &OidDto{Type: "simple.Order", ID: "1"}}),
			NewValue(ValueTypeReference, &ValueDto{Reference: &OidDto{Type: "simple.Order", ID: "2"}}),
		},
	}})

	ixn := NewInteractionDto("ixn-2")
	ixn.PropertyEdit = &PropertyEditDto{
		LogicalMemberIdentifier: "simple.Customer#Avatar",
		NewValue:                Ptr(NewValue(ValueTypeBlob, &ValueDto{Blob: NewBlobDto("a.png", "image/png", []byte{0, 1, 2})})),
	}

	recreated := roundTrip(t, ixn)
	data, err := recreated.PropertyEdit.NewValue.Blob.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, data)

	inv := &ActionInvocationDto{ReturnedValue: &coll}
	out := roundTrip(t, inv)
	assert.True(t, out.ReturnedValue.IsCollection())
	require.Len(t, out.ReturnedValue.Collection.Values, 2)
	assert.Equal(t, "simple.Order:2", out.ReturnedValue.Collection.Values[1].Reference.String())
}

func TestNullValue(t *testing.T) {
	assert.True(t, Ptr(NewValue(ValueTypeString, nil)).IsNull())
	assert.True(t, Ptr(NewValue(ValueTypeString, &ValueDto{})).IsNull())
	assert.False(t, Ptr(NewValue(ValueTypeString, &ValueDto{String: Ptr("")})).IsNull())

	s, err := ToXML(&PropertyDto{LogicalMemberIdentifier: "x.A#B", NewValue: Ptr(NullValue(ValueTypeString))})
	require.NoError(t, err)
	assert.True(t, strings.Contains(s, `null="true"`), s)
}

func TestReadXML_Invalid(t *testing.T) {
	_, err := ReadXML[CommandDto](strings.NewReader("<command"))
	require.Error(t, err)
}

func TestAddParam_ReturnsCopy(t *testing.T) {
	action := &ActionDto{}

	first := AddParam(action, "a", NewValue(ValueTypeInt, &ValueDto{Int: Ptr[int32](1)}))
	for i := range 8 {
		AddParam(action, fmt.Sprintf("p%d", i), NullValue(ValueTypeString))
	}

	assert.Equal(t, first, action.Parameters.Params[0])

	first.Name = "renamed"
	assert.Equal(t, "a", action.Parameters.Params[0].Name)

	held, err := Param(action, "a")
	require.NoError(t, err)

	held.Name = "renamed"
	assert.Equal(t, []string{"renamed"}, ParamNames(action)[:1])
}
