package valuesemantics

import (
	"math"
	"math/big"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"

	"causeway-metamodel/internal/schema"
)

func noValue(className string) error {
	return errors.Wrapf(ErrNoValue, "%s", className)
}

// String handles string values.
func String() Provider {
	return New[string](schema.ValueTypeString,
		func(v string) (*schema.ValueDto, error) { return &schema.ValueDto{String: schema.Ptr(v)}, nil },
		func(d *schema.ValueDto) (string, error) {
			if d.String == nil {
				return "", noValue("string")
			}

			return *d.String, nil
		})
}

// Bool handles bool values.
func Bool() Provider {
	return New[bool](schema.ValueTypeBoolean,
		func(v bool) (*schema.ValueDto, error) { return &schema.ValueDto{Boolean: schema.Ptr(v)}, nil },
		func(d *schema.ValueDto) (bool, error) {
			if d.Boolean == nil {
				return false, noValue("bool")
			}

			return *d.Boolean, nil
		})
}

// Rune handles int32 values as CHAR. Go's rune is an alias of int32, so
// registering it replaces the INT provider for int32.
func Rune() Provider {
	return New[rune](schema.ValueTypeChar,
		func(v rune) (*schema.ValueDto, error) { return &schema.ValueDto{Char: schema.Ptr(string(v))}, nil },
		func(d *schema.ValueDto) (rune, error) {
			if d.Char == nil {
				return 0, noValue("rune")
			}

			r, _ := utf8.DecodeRuneInString(*d.Char)

			return r, nil
		})
}

type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// ErrOutOfRange is returned when an integer does not fit the target type.
var ErrOutOfRange = errors.New("value semantics: integer out of range")

// narrow converts n to T, failing when the value does not survive.
func narrow[T signed](n int64) (T, error) {
	t := T(n)
	if int64(t) != n {
		return 0, errors.Wrapf(ErrOutOfRange, "%d does not fit %T", n, t)
	}

	return t, nil
}

// Int handles a signed integer type, widening or narrowing through the
// given wire width.
func Int[T signed](vt schema.ValueType) Provider {
	return New[T](vt,
		func(v T) (*schema.ValueDto, error) {
			n := int64(v)

			switch vt {
			case schema.ValueTypeByte:
				b, err := narrow[int8](n)
				return &schema.ValueDto{Byte: &b}, err
			case schema.ValueTypeShort:
				s, err := narrow[int16](n)
				return &schema.ValueDto{Short: &s}, err
			case schema.ValueTypeInt:
				i, err := narrow[int32](n)
				return &schema.ValueDto{Int: &i}, err
			default:
				return &schema.ValueDto{Long: &n}, nil
			}
		},
		func(d *schema.ValueDto) (T, error) {
			switch {
			case d.Byte != nil:
				return narrow[T](int64(*d.Byte))
			case d.Short != nil:
				return narrow[T](int64(*d.Short))
			case d.Int != nil:
				return narrow[T](int64(*d.Int))
			case d.Long != nil:
				return narrow[T](*d.Long)
			}

			return 0, noValue(string(vt))
		})
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// narrowUnsigned converts n to T, failing on a negative value or overflow.
func narrowUnsigned[T unsigned](n uint64) (T, error) {
	t := T(n)
	if uint64(t) != n {
		return 0, errors.Wrapf(ErrOutOfRange, "%d does not fit %T", n, t)
	}

	return t, nil
}

// Uint handles an unsigned integer type in the next wider signed wire type,
// or BIG_INTEGER for 64 bit values.
func Uint[T unsigned](vt schema.ValueType) Provider {
	if vt == schema.ValueTypeBigInteger {
		return New[T](vt,
			func(v T) (*schema.ValueDto, error) {
				return &schema.ValueDto{BigInteger: schema.Ptr(strconv.FormatUint(uint64(v), 10))}, nil
			},
			func(d *schema.ValueDto) (T, error) {
				if d.BigInteger == nil {
					return 0, noValue(string(vt))
				}

				n, err := strconv.ParseUint(*d.BigInteger, 10, 64)
				if err != nil {
					return 0, errors.Wrap(err, "invalid unsigned integer")
				}

				return narrowUnsigned[T](n)
			})
	}

	inner := Int[int64](vt)

	return Converted[T, int64](inner,
		func(v T) (int64, error) {
			if uint64(v) > math.MaxInt64 {
				return 0, errors.Wrapf(ErrOutOfRange, "%d does not fit int64", uint64(v))
			}

			return int64(v), nil
		},
		func(n int64) (T, error) {
			if n < 0 {
				return 0, errors.Wrapf(ErrOutOfRange, "%d is negative", n)
			}

			return narrowUnsigned[T](uint64(n))
		})
}

// Float32 handles float32 values.
func Float32() Provider {
	return New[float32](schema.ValueTypeFloat,
		func(v float32) (*schema.ValueDto, error) { return &schema.ValueDto{Float: schema.Ptr(v)}, nil },
		func(d *schema.ValueDto) (float32, error) {
			if d.Float == nil {
				return 0, noValue("float32")
			}

			return *d.Float, nil
		})
}

// Float64 handles float64 values.
func Float64() Provider {
	return New[float64](schema.ValueTypeDouble,
		func(v float64) (*schema.ValueDto, error) { return &schema.ValueDto{Double: schema.Ptr(v)}, nil },
		func(d *schema.ValueDto) (float64, error) {
			if d.Double == nil {
				return 0, noValue("float64")
			}

			return *d.Double, nil
		})
}

// Timestamp handles time.Time as RFC 3339 TIMESTAMP values.
func Timestamp() Provider {
	return New[time.Time](schema.ValueTypeTimestamp,
		func(v time.Time) (*schema.ValueDto, error) {
			return &schema.ValueDto{Timestamp: schema.Ptr(v.Format(time.RFC3339Nano))}, nil
		},
		func(d *schema.ValueDto) (time.Time, error) {
			if d.Timestamp == nil {
				return time.Time{}, noValue("time.Time")
			}

			t, err := time.Parse(time.RFC3339Nano, *d.Timestamp)
			if err != nil {
				return time.Time{}, errors.Wrap(err, "invalid timestamp")
			}

			return t, nil
		})
}

// BigInt handles *big.Int as BIG_INTEGER values.
func BigInt() Provider {
	return New[*big.Int](schema.ValueTypeBigInteger,
		func(v *big.Int) (*schema.ValueDto, error) {
			return &schema.ValueDto{BigInteger: schema.Ptr(v.String())}, nil
		},
		func(d *schema.ValueDto) (*big.Int, error) {
			if d.BigInteger == nil {
				return nil, noValue("math/big.Int")
			}

			n, ok := new(big.Int).SetString(*d.BigInteger, 10)
			if !ok {
				return nil, errors.Errorf("invalid big integer %q", *d.BigInteger)
			}

			return n, nil
		})
}

// Bytes handles []byte as BLOB values.
func Bytes() Provider {
	return New[[]byte](schema.ValueTypeBlob,
		func(v []byte) (*schema.ValueDto, error) {
			return &schema.ValueDto{Blob: schema.NewBlobDto("", "application/octet-stream", v)}, nil
		},
		func(d *schema.ValueDto) ([]byte, error) {
			if d.Blob == nil {
				return nil, noValue("[]uint8")
			}

			return d.Blob.Data()
		})
}

// Builtins returns the providers of the predeclared and library value types.
func Builtins() []Provider {
	return []Provider{
		String(),
		Bool(),
		Int[int](schema.ValueTypeLong),
		Int[int8](schema.ValueTypeByte),
		Int[int16](schema.ValueTypeShort),
		Int[int32](schema.ValueTypeInt),
		Int[int64](schema.ValueTypeLong),
		Uint[uint8](schema.ValueTypeShort),
		Uint[uint16](schema.ValueTypeInt),
		Uint[uint32](schema.ValueTypeLong),
		Uint[uint64](schema.ValueTypeBigInteger),
		Uint[uint](schema.ValueTypeBigInteger),
		Float32(),
		Float64(),
		Timestamp(),
		BigInt(),
		Bytes(),
	}
}

// RegisterBuiltins registers Builtins with r.
func RegisterBuiltins(r *Registry) {
	for _, p := range Builtins() {
		r.Register(p)
	}
}
