package schema

import (
	"github.com/pkg/errors"
)

var (
	// ErrParamNotFound is returned for a parameter name the DTO does not carry.
	ErrParamNotFound = errors.New("parameter not found")
	// ErrArgType is returned when an argument does not hold the requested Go type.
	ErrArgType = errors.New("argument has a different type")
)

// ParamHolder is implemented by DTOs that carry parameters.
type ParamHolder interface {
	ParamList() *ParamsDto
}

func (a *ActionDto) ParamList() *ParamsDto           { return &a.Parameters }
func (a *ActionInvocationDto) ParamList() *ParamsDto { return &a.Parameters }

// AddParam appends a named argument and returns a copy of it. Use Param to
// modify the argument held by h.
func AddParam(h ParamHolder, name string, v ValueWithTypeDto) ParamDto {
	p := ParamDto{Name: name, ValueWithTypeDto: v}

	params := h.ParamList()
	params.Params = append(params.Params, p)

	return p
}

// Param returns the argument with the given name.
func Param(h ParamHolder, name string) (*ParamDto, error) {
	params := h.ParamList()
	for i := range params.Params {
		if params.Params[i].Name == name {
			return &params.Params[i], nil
		}
	}

	return nil, errors.Wrapf(ErrParamNotFound, "%q", name)
}

// ParamNames returns the argument names in order.
func ParamNames(h ParamHolder) []string {
	params := h.ParamList()

	out := make([]string, len(params.Params))
	for i, p := range params.Params {
		out[i] = p.Name
	}

	return out
}

// IsNull reports whether the named argument is null.
func IsNull(h ParamHolder, name string) (bool, error) {
	p, err := Param(h, name)
	if err != nil {
		return false, err
	}

	return p.IsNull(), nil
}

// GetArg returns the named argument as T. A null argument yields the zero
// value of T.
func GetArg[T any](h ParamHolder, name string) (T, error) {
	var zero T

	p, err := Param(h, name)
	if err != nil {
		return zero, err
	}

	if p.IsNull() {
		return zero, nil
	}

	v, ok := ValueOf(&p.ValueDto).(T)
	if !ok {
		return zero, errors.Wrapf(ErrArgType, "%q is %T, not %T", name, ValueOf(&p.ValueDto), zero)
	}

	return v, nil
}
