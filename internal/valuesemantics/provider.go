// Package valuesemantics converts domain values to and from schema values.
//
// A Provider handles one Go type. Providers are looked up through a
// Registry by feature identifier and class name; the first candidate wins.
package valuesemantics

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/pkg/errors"

	"causeway-metamodel/internal/analyze"
	"causeway-metamodel/internal/schema"
)

// ErrWrongType is returned when a provider is handed a value of another type.
var ErrWrongType = errors.New("value semantics: value of unexpected type")

// ErrNoValue is returned when a ValueDto does not carry the field a provider reads.
var ErrNoValue = errors.New("value semantics: dto carries no value of the expected kind")

// Provider encodes and decodes values of one class.
type Provider interface {
	ValueType() schema.ValueType
	CorrespondingClass() string
	Encode(v any) (*schema.ValueDto, error)
	Decode(dto *schema.ValueDto) (any, error)
}

// Converter is implemented by providers that delegate to a base provider
// through a conversion.
type Converter interface {
	Provider
	Delegate() Provider
}

type typed[T any] struct {
	valueType schema.ValueType
	className string
	encode    func(T) (*schema.ValueDto, error)
	decode    func(*schema.ValueDto) (T, error)
}

// New builds a provider for T from typed encode and decode functions.
func New[T any](vt schema.ValueType, encode func(T) (*schema.ValueDto, error), decode func(*schema.ValueDto) (T, error)) Provider {
	return &typed[T]{
		valueType: vt,
		className: analyze.ClassNameOf(reflect.TypeFor[T]()),
		encode:    encode,
		decode:    decode,
	}
}

func (p *typed[T]) ValueType() schema.ValueType { return p.valueType }
func (p *typed[T]) CorrespondingClass() string  { return p.className }

func (p *typed[T]) Encode(v any) (*schema.ValueDto, error) {
	t, ok := v.(T)
	if !ok {
		return nil, errors.Wrapf(ErrWrongType, "%s expects %T, got %T", p.className, t, v)
	}

	return p.encode(t)
}

func (p *typed[T]) Decode(dto *schema.ValueDto) (any, error) {
	if dto.IsAbsent() {
		return nil, errors.Wrapf(ErrNoValue, "%s", p.className)
	}

	return p.decode(dto)
}

func (p *typed[T]) String() string {
	return fmt.Sprintf("%s(%s)", p.className, p.valueType)
}

// Enum handles a string-based enum type as ENUM values.
func Enum[T ~string]() Provider {
	className := analyze.ClassNameOf(reflect.TypeFor[T]())

	return New[T](schema.ValueTypeEnum,
		func(v T) (*schema.ValueDto, error) {
			return &schema.ValueDto{Enum: &schema.EnumDto{EnumType: className, EnumName: string(v)}}, nil
		},
		func(dto *schema.ValueDto) (T, error) {
			if dto.Enum == nil {
				return "", errors.Wrapf(ErrNoValue, "%s", className)
			}

			return T(dto.Enum.EnumName), nil
		})
}

type converted[T, D any] struct {
	Provider
	delegate Provider
}

// Converted handles T by converting it to D and delegating to base, which
// must handle D.
func Converted[T, D any](base Provider, to func(T) (D, error), from func(D) (T, error)) Provider {
	p := New[T](base.ValueType(),
		func(v T) (*schema.ValueDto, error) {
			d, err := to(v)
			if err != nil {
				return nil, err
			}

			return base.Encode(d)
		},
		func(dto *schema.ValueDto) (T, error) {
			var zero T

			raw, err := base.Decode(dto)
			if err != nil {
				return zero, err
			}

			d, ok := raw.(D)
			if !ok {
				return zero, errors.Wrapf(ErrWrongType, "delegate returned %T", raw)
			}

			return from(d)
		})

	return &converted[T, D]{Provider: p, delegate: base}
}

func (c *converted[T, D]) Delegate() Provider { return c.delegate }

// TextMarshalerPointer is satisfied by *T when T round-trips through text.
type TextMarshalerPointer[T any] interface {
	*T
	encoding.TextUnmarshaler
}

// Text handles a type implementing encoding.TextMarshaler as STRING values,
// delegating to the string provider.
func Text[T encoding.TextMarshaler, PT TextMarshalerPointer[T]]() Provider {
	return Converted[T, string](String(),
		func(v T) (string, error) {
			b, err := v.MarshalText()
			return string(b), err
		},
		func(s string) (T, error) {
			var v T
			err := PT(&v).UnmarshalText([]byte(s))

			return v, err
		})
}
