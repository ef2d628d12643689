package cask_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/casklabs/cask"
	"github.com/stretchr/testify/assert"
)

// Errors – ensure Error() strings are covered in one place
func TestErrorStrings(t *testing.T) {
	t.Parallel()

	cacheType := reflect.TypeOf((*Cache)(nil)).Elem()
	memType := reflect.TypeOf((**memCache)(nil)).Elem()
	cause := errors.New("dial failed")

	cases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not registered",
			err:  cask.NotRegisteredError{Service: cask.NewTypedService((*Cache)(nil))},
			want: "cask: service cask_test.Cache is not registered",
		},
		{
			name: "not registered keyed",
			err:  cask.NotRegisteredError{Service: cask.NewNamedService("primary", (*Cache)(nil))},
			want: `cask: service cask_test.Cache keyed "primary" is not registered`,
		},
		{
			name: "matching scope not found",
			err: cask.MatchingScopeNotFoundError{
				Service:  cask.NewTypedService((*Cache)(nil)),
				Lifetime: cask.MatchingScopeLifetime("request"),
			},
			want: `cask: no enclosing scope matches matching scope tagged "request" for service cask_test.Cache`,
		},
		{
			name: "circular dependency",
			err:  cask.CircularDependencyError{Chain: []reflect.Type{memType, cacheType, memType}},
			want: "cask: circular dependency: *cask_test.memCache -> cask_test.Cache -> *cask_test.memCache",
		},
		{
			name: "contract mismatch",
			err:  cask.ContractMismatchError{Contract: cacheType, Limit: reflect.TypeOf((**pool)(nil)).Elem()},
			want: "cask: *cask_test.pool does not satisfy contract cask_test.Cache",
		},
		{
			name: "parameter type",
			err:  cask.ParameterTypeError{Want: reflect.TypeOf((*int)(nil)).Elem(), Got: reflect.TypeOf((*string)(nil)).Elem()},
			want: "cask: parameter value of type string cannot be used as int",
		},
		{
			name: "parameter type nil value",
			err:  cask.ParameterTypeError{Want: reflect.TypeOf((*int)(nil)).Elem()},
			want: "cask: nil parameter value cannot be used as int",
		},
		{
			name: "dependency",
			err:  cask.DependencyError{Target: reflect.TypeOf((**journal)(nil)).Elem(), Requires: memType, Err: cause},
			want: "cask: activating *cask_test.journal: argument *cask_test.memCache: dial failed",
		},
		{
			name: "activation",
			err:  cask.ActivationError{Target: memType, Err: cause},
			want: "cask: constructing *cask_test.memCache: dial failed",
		},
		{
			name: "auto-activation",
			err:  cask.AutoActivationError{Service: cask.NewTypedService((*Cache)(nil)), Err: cause},
			want: "cask: auto-activation of cask_test.Cache failed: dial failed",
		},
		{
			name: "type mismatch",
			err:  cask.TypeMismatchError{Want: cacheType, Got: reflect.TypeOf((**pool)(nil)).Elem()},
			want: "cask: resolved instance of type *cask_test.pool cannot be used as cask_test.Cache",
		},
		{
			name: "type mismatch nil instance",
			err:  cask.TypeMismatchError{Want: cacheType},
			want: "cask: resolved nil instance cannot be used as cask_test.Cache",
		},
		{
			name: "invalid registration",
			err:  cask.InvalidRegistrationError{Index: 3, Err: cask.ErrNilConstructor},
			want: "cask: registration 3 invalid: cask: nil constructor",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.EqualError(t, tc.err, tc.want)
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial failed")
	memType := reflect.TypeOf((**memCache)(nil)).Elem()
	svc := cask.NewTypedService((*Cache)(nil))

	assert.ErrorIs(t, cask.DependencyError{Target: memType, Requires: memType, Err: cause}, cause)
	assert.ErrorIs(t, cask.ActivationError{Target: memType, Err: cause}, cause)
	assert.ErrorIs(t, cask.AutoActivationError{Service: svc, Err: cause}, cause)
	assert.ErrorIs(t, cask.InvalidRegistrationError{Index: 0, Err: cause}, cause)
}
