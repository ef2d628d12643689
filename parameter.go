package cask

import (
	"reflect"
	"strconv"
)

// Parameter is one prepared constructor argument recorded on a registration.
//
// The implementation set is closed: NamedParameter, PositionalParameter and
// TypedParameter. During activation a recorded parameter takes precedence
// over resolving the argument from the container; see the match rules on
// each variant.
//
// Parameters are plain value types and can be built with struct literals:
//
//	b.Register(NewPool).
//		WithParameter(cask.NamedParameter{Name: "size", Val: 8}).
//		WithParameter(cask.PositionalParameter{Index: 0, Val: "tcp"})
type Parameter interface {
	// ArgValue returns the prepared argument value.
	ArgValue() any

	// String renders the parameter for diagnostics.
	String() string

	// sealedParameter restricts implementations to this package.
	sealedParameter()
}

// NamedParameter supplies an argument by constructor parameter name.
//
// Go's runtime erases parameter names, so named parameters participate in
// activation only when the registration declares names via
// (*RegistrationBuilder).ParameterNames. They are always recorded on the
// registration and stay visible to introspection either way.
type NamedParameter struct {
	Name string
	Val  any
}

// ArgValue implements Parameter.
func (p NamedParameter) ArgValue() any { return p.Val }

// String implements Parameter.
func (p NamedParameter) String() string {
	// Example: named parameter "size"
	return "named parameter " + strconv.Quote(p.Name)
}

func (NamedParameter) sealedParameter() {}

// PositionalParameter supplies the constructor argument at a zero-based
// index.
type PositionalParameter struct {
	Index int
	Val   any
}

// ArgValue implements Parameter.
func (p PositionalParameter) ArgValue() any { return p.Val }

// String implements Parameter.
func (p PositionalParameter) String() string {
	// Example: positional parameter 0
	return "positional parameter " + strconv.Itoa(p.Index)
}

func (PositionalParameter) sealedParameter() {}

// TypedParameter supplies every constructor argument of an exact type.
type TypedParameter struct {
	Type reflect.Type
	Val  any
}

// Typed builds a TypedParameter for the contract T.
//
// It avoids the reflect.TypeOf pitfalls of interface contracts:
//
//	cask.Typed[Store](fakeStore)
func Typed[T any](val T) TypedParameter {
	return TypedParameter{Type: reflect.TypeOf((*T)(nil)).Elem(), Val: val}
}

// ArgValue implements Parameter.
func (p TypedParameter) ArgValue() any { return p.Val }

// String implements Parameter.
func (p TypedParameter) String() string {
	// Example: typed parameter widgets.Store
	if p.Type == nil {
		return "typed parameter <nil>"
	}
	return "typed parameter " + p.Type.String()
}

func (TypedParameter) sealedParameter() {}

// coerceArgument adapts a prepared parameter value to a constructor argument
// type: assignable values pass through, convertible values are converted,
// and nil is accepted for nilable argument kinds only.
func coerceArgument(val any, to reflect.Type) (reflect.Value, error) {
	if val == nil {
		switch to.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(to), nil
		default:
			return reflect.Value{}, ParameterTypeError{Want: to}
		}
	}
	v := reflect.ValueOf(val)
	if v.Type().AssignableTo(to) {
		return v, nil
	}
	if v.Type().ConvertibleTo(to) {
		return v.Convert(to), nil
	}
	return reflect.Value{}, ParameterTypeError{Want: to, Got: v.Type()}
}
