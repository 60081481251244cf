package valuesemantics

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"causeway-metamodel/internal/schema"
	"causeway-metamodel/internal/spec"
)

type status string

type money struct{ cents int64 }

func (m money) MarshalText() ([]byte, error) {
	return []byte(big.NewInt(m.cents).String()), nil
}

func (m *money) UnmarshalText(b []byte) error {
	n, ok := new(big.Int).SetString(string(b), 10)
	if !ok {
		return assert.AnError
	}

	m.cents = n.Int64()

	return nil
}

func newRegistry(t *testing.T) *Registry {
	t.Helper()

	r, err := NewRegistry(8)
	require.NoError(t, err)
	RegisterBuiltins(r)

	return r
}

func TestBuiltins_RoundTrip(t *testing.T) {
	r := newRegistry(t)
	feature := spec.TypeIdentifier("x.T", "x.T").Member("F", spec.FeatureProperty)

	tests := []struct {
		className string
		value     any
		valueType schema.ValueType
	}{
		{"string", "Fred", schema.ValueTypeString},
		{"bool", true, schema.ValueTypeBoolean},
		{"int", 42, schema.ValueTypeLong},
		{"int8", int8(-3), schema.ValueTypeByte},
		{"int16", int16(300), schema.ValueTypeShort},
		{"int32", int32(70000), schema.ValueTypeInt},
		{"int64", int64(1) << 50, schema.ValueTypeLong},
		{"uint8", uint8(255), schema.ValueTypeShort},
		{"uint16", uint16(65535), schema.ValueTypeInt},
		{"uint32", uint32(1) << 31, schema.ValueTypeLong},
		{"uint64", uint64(1) << 63, schema.ValueTypeBigInteger},
		{"uint", uint(7), schema.ValueTypeBigInteger},
		{"float32", float32(1.5), schema.ValueTypeFloat},
		{"float64", 2.25, schema.ValueTypeDouble},
		{"time.Time", time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC), schema.ValueTypeTimestamp},
		{"math/big.Int", big.NewInt(123456789), schema.ValueTypeBigInteger},
		{"[]uint8", []byte("blob"), schema.ValueTypeBlob},
	}

	for _, tt := range tests {
		t.Run(tt.className, func(t *testing.T) {
			p, ok := r.Select(feature, tt.className)
			require.True(t, ok)
			assert.Equal(t, tt.valueType, p.ValueType())
			assert.Equal(t, tt.className, p.CorrespondingClass())

			dto, err := p.Encode(tt.value)
			require.NoError(t, err)

			// survive the wire
			s, err := schema.ToXML(&schema.PropertyDto{NewValue: schema.Ptr(schema.NewValue(p.ValueType(), dto))})
			require.NoError(t, err)

			back, err := schema.FromXML[schema.PropertyDto](s)
			require.NoError(t, err)

			got, err := p.Decode(&back.NewValue.ValueDto)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestProvider_Errors(t *testing.T) {
	_, err := String().Encode(42)
	require.ErrorIs(t, err, ErrWrongType)

	_, err = String().Decode(&schema.ValueDto{})
	require.ErrorIs(t, err, ErrNoValue)

	_, err = Bool().Decode(&schema.ValueDto{String: schema.Ptr("true")})
	require.ErrorIs(t, err, ErrNoValue)
}

func TestEnum(t *testing.T) {
	p := Enum[status]()
	assert.Equal(t, schema.ValueTypeEnum, p.ValueType())
	assert.True(t, strings.HasSuffix(p.CorrespondingClass(), "valuesemantics.status"))

	dto, err := p.Encode(status("active"))
	require.NoError(t, err)
	assert.Equal(t, "active", dto.Enum.EnumName)

	v, err := p.Decode(dto)
	require.NoError(t, err)
	assert.Equal(t, status("active"), v)
}

func TestText_DelegatesToString(t *testing.T) {
	p := Text[money]()

	conv, ok := p.(Converter)
	require.True(t, ok)
	assert.Equal(t, "string", conv.Delegate().CorrespondingClass())
	assert.Equal(t, schema.ValueTypeString, p.ValueType())

	dto, err := p.Encode(money{cents: 1250})
	require.NoError(t, err)
	assert.Equal(t, "1250", *dto.String)

	v, err := p.Decode(dto)
	require.NoError(t, err)
	assert.Equal(t, money{cents: 1250}, v)

	_, err = p.Decode(&schema.ValueDto{String: schema.Ptr("twelve")})
	require.Error(t, err)
}

func TestRune(t *testing.T) {
	dto, err := Rune().Encode('é')
	require.NoError(t, err)
	assert.Equal(t, "é", *dto.Char)

	v, err := Rune().Decode(dto)
	require.NoError(t, err)
	assert.Equal(t, 'é', v)
}

func TestRegistry_SelectOrder(t *testing.T) {
	r := newRegistry(t)

	id := spec.TypeIdentifier("x.Customer", "x.Customer")
	notes := id.Member("Notes", spec.FeatureProperty)
	name := id.Member("Name", spec.FeatureProperty)

	p, ok := r.Select(notes, "string")
	require.True(t, ok)
	assert.Equal(t, schema.ValueTypeString, p.ValueType())

	// a feature override wins and invalidates the cached selection
	clob := New[string](schema.ValueTypeClob,
		func(s string) (*schema.ValueDto, error) {
			return &schema.ValueDto{Clob: &schema.ClobDto{MimeType: "text/plain", Chars: s}}, nil
		},
		func(d *schema.ValueDto) (string, error) { return d.Clob.Chars, nil })
	r.RegisterFor(notes, clob)

	p, ok = r.Select(notes, "string")
	require.True(t, ok)
	assert.Equal(t, schema.ValueTypeClob, p.ValueType())

	p, ok = r.Select(name, "string")
	require.True(t, ok)
	assert.Equal(t, schema.ValueTypeString, p.ValueType())

	assert.Len(t, r.Candidates(notes, "string"), 2)

	r.RegisterFirst(Rune())
	p, _ = r.Select(name, "int32")
	assert.Equal(t, schema.ValueTypeChar, p.ValueType())

	_, ok = r.Select(name, "x.Unknown")
	assert.False(t, ok)
	assert.True(t, r.Has("string"))
	assert.False(t, r.Has("x.Unknown"))
}

func TestNewRegistry_InvalidSize(t *testing.T) {
	_, err := NewRegistry(0)
	require.Error(t, err)
}

func TestIntegers_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		p    Provider
		dto  *schema.ValueDto
	}{
		{"long into int8", Int[int8](schema.ValueTypeByte), &schema.ValueDto{Long: schema.Ptr[int64](300)}},
		{"int into int16", Int[int16](schema.ValueTypeShort), &schema.ValueDto{Int: schema.Ptr[int32](1 << 20)}},
		{"negative into uint8", Uint[uint8](schema.ValueTypeShort), &schema.ValueDto{Short: schema.Ptr[int16](-1)}},
		{"short into uint8", Uint[uint8](schema.ValueTypeShort), &schema.ValueDto{Short: schema.Ptr[int16](256)}},
		{"long into uint32", Uint[uint32](schema.ValueTypeLong), &schema.ValueDto{Long: schema.Ptr[int64](1 << 40)}},
		{"big into uint32", Uint[uint32](schema.ValueTypeBigInteger), &schema.ValueDto{BigInteger: schema.Ptr("4294967296")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.p.Decode(tt.dto)
			require.ErrorIs(t, err, ErrOutOfRange)
		})
	}

	v, err := Int[int8](schema.ValueTypeByte).Decode(&schema.ValueDto{Long: schema.Ptr[int64](-128)})
	require.NoError(t, err)
	assert.Equal(t, int8(-128), v)

	_, err = Int[int](schema.ValueTypeByte).Encode(1000)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = Uint[uint64](schema.ValueTypeLong).Encode(uint64(1) << 63)
	require.ErrorIs(t, err, ErrOutOfRange)
}
