package cask

import (
	"errors"
	"reflect"
	"strconv"
)

var (
	// ErrNilContract is returned or panicked when a contract value is nil.
	ErrNilContract = errors.New("cask: nil contract type")

	// ErrNilConstructor is recorded when Register is given a nil constructor.
	ErrNilConstructor = errors.New("cask: nil constructor")

	// ErrNilFactory is recorded when RegisterFactory is given a nil factory.
	ErrNilFactory = errors.New("cask: nil factory")

	// ErrNilInstance is recorded when RegisterInstance is given nil.
	ErrNilInstance = errors.New("cask: nil instance")

	// ErrNilModule is recorded when RegisterModule is given nil.
	ErrNilModule = errors.New("cask: nil module")

	// ErrNilParameter is recorded when WithParameter is given nil.
	ErrNilParameter = errors.New("cask: nil parameter")

	// ErrNilServiceKey is recorded when Keyed is given a nil key.
	ErrNilServiceKey = errors.New("cask: nil service key")

	// ErrUncomparableServiceKey is recorded when Keyed is given a key whose
	// type does not support ==; keys index a map and must be comparable.
	ErrUncomparableServiceKey = errors.New("cask: service key must be comparable")

	// ErrNotAFunction is recorded when a constructor is not a function.
	ErrNotAFunction = errors.New("cask: constructor must be a function")

	// ErrVariadicConstructor is recorded for variadic constructors; the
	// container cannot decide an argument count for them.
	ErrVariadicConstructor = errors.New("cask: variadic constructors are not supported")

	// ErrReturnShape is recorded when a constructor or factory does not
	// return one value, optionally followed by an error.
	ErrReturnShape = errors.New("cask: constructor must return one value, optionally followed by an error")

	// ErrInterfaceReturn is recorded when a constructor or factory returns
	// an interface; the produced type must be concrete.
	ErrInterfaceReturn = errors.New("cask: constructor must return a concrete type, not an interface")

	// ErrFactoryShape is recorded when a factory is not a function taking
	// exactly one *Scope argument.
	ErrFactoryShape = errors.New("cask: factory must be a function taking a single *Scope")

	// ErrNoScopeTags is recorded when a matching-scope lifetime is declared
	// without any tags.
	ErrNoScopeTags = errors.New("cask: a matching scope lifetime needs at least one tag")

	// ErrParameterNames is recorded when ParameterNames is used on a
	// registration that has no constructor.
	ErrParameterNames = errors.New("cask: parameter names apply only to constructor registrations")

	// ErrParameterNameCount is recorded when the declared parameter names do
	// not cover the constructor arity exactly.
	ErrParameterNameCount = errors.New("cask: parameter name count must match the constructor arity")

	// ErrInstanceLifetime is recorded when an instance registration is given
	// a lifetime other than single-instance; one provided value cannot back
	// per-scope or per-dependency semantics.
	ErrInstanceLifetime = errors.New("cask: instance registrations are always single-instance")

	// ErrBuilderBuilt is returned when Build is called twice on the same
	// builder.
	ErrBuilderBuilt = errors.New("cask: builder has already been built")

	// ErrScopeClosed is returned when a closed lifetime scope is asked to
	// resolve or to open a child scope.
	ErrScopeClosed = errors.New("cask: lifetime scope is already closed")
)

// NotRegisteredError is returned when no registration exposes the requested
// service.
type NotRegisteredError struct{ Service Service }

// Error implements the error interface.
func (e NotRegisteredError) Error() string {
	// Example: cask: service widgets.Store is not registered
	return "cask: service " + e.Service.String() + " is not registered"
}

// MatchingScopeNotFoundError is returned when a matching-scope registration
// is resolved and no enclosing scope carries any of its tags.
type MatchingScopeNotFoundError struct {
	Service  Service
	Lifetime Lifetime
}

// Error implements the error interface.
func (e MatchingScopeNotFoundError) Error() string {
	// Example: cask: no enclosing scope matches matching scope tagged "request" for service widgets.Store
	return "cask: no enclosing scope matches " + e.Lifetime.String() + " for service " + e.Service.String()
}

// CircularDependencyError is returned when constructor dependencies form a
// cycle. Chain lists the implementation types in resolution order, ending
// with the type that closed the cycle.
type CircularDependencyError struct{ Chain []reflect.Type }

// Error implements the error interface.
func (e CircularDependencyError) Error() string {
	// Example: cask: circular dependency: pkg.A -> pkg.B -> pkg.A
	msg := "cask: circular dependency: "
	for i, t := range e.Chain {
		if i > 0 {
			msg += " -> "
		}
		msg += t.String()
	}
	return msg
}

// ContractMismatchError is recorded when As, Named or Keyed exposes a
// registration under a contract its implementation type cannot satisfy.
type ContractMismatchError struct {
	Contract reflect.Type
	Limit    reflect.Type
}

// Error implements the error interface.
func (e ContractMismatchError) Error() string {
	// Example: cask: widgets.memStore does not satisfy contract widgets.Store
	return "cask: " + e.Limit.String() + " does not satisfy contract " + e.Contract.String()
}

// ParameterTypeError is returned during activation when a recorded parameter
// value cannot be used as the constructor argument it matched.
type ParameterTypeError struct {
	// Want is the constructor argument type.
	Want reflect.Type

	// Got is the type of the recorded value; nil when the value itself was
	// nil and the argument kind cannot hold nil.
	Got reflect.Type
}

// Error implements the error interface.
func (e ParameterTypeError) Error() string {
	// Example: cask: parameter value of type string cannot be used as int
	if e.Got == nil {
		return "cask: nil parameter value cannot be used as " + e.Want.String()
	}
	return "cask: parameter value of type " + e.Got.String() + " cannot be used as " + e.Want.String()
}

// DependencyError is returned when a constructor argument cannot be
// resolved. It wraps the underlying resolution failure.
type DependencyError struct {
	// Target is the implementation type being activated.
	Target reflect.Type

	// Requires is the argument type that failed.
	Requires reflect.Type

	Err error
}

// Error implements the error interface.
func (e DependencyError) Error() string {
	// Example: cask: activating widgets.mailer: argument widgets.Store: cask: service widgets.Store is not registered
	return "cask: activating " + e.Target.String() + ": argument " + e.Requires.String() + ": " + e.Err.Error()
}

// Unwrap returns the underlying resolution failure.
func (e DependencyError) Unwrap() error { return e.Err }

// ActivationError is returned when an activator ran but failed: the
// constructor or factory returned a non-nil error.
type ActivationError struct {
	// Target is the implementation type being activated.
	Target reflect.Type

	Err error
}

// Error implements the error interface.
func (e ActivationError) Error() string {
	// Example: cask: constructing widgets.memStore: dial failed
	return "cask: constructing " + e.Target.String() + ": " + e.Err.Error()
}

// Unwrap returns the constructor's error.
func (e ActivationError) Unwrap() error { return e.Err }

// AutoActivationError is returned by Build when a registration flagged for
// activation at build time fails to activate.
type AutoActivationError struct {
	Service Service
	Err     error
}

// Error implements the error interface.
func (e AutoActivationError) Error() string {
	// Example: cask: auto-activation of widgets.Store failed: ...
	return "cask: auto-activation of " + e.Service.String() + " failed: " + e.Err.Error()
}

// Unwrap returns the activation failure.
func (e AutoActivationError) Unwrap() error { return e.Err }

// TypeMismatchError is returned by the generic resolve helpers when the
// resolved instance does not satisfy the requested Go type.
type TypeMismatchError struct {
	Want reflect.Type
	Got  reflect.Type
}

// Error implements the error interface.
func (e TypeMismatchError) Error() string {
	// Example: cask: resolved instance of type *widgets.memStore cannot be used as widgets.Cache
	if e.Got == nil {
		return "cask: resolved nil instance cannot be used as " + e.Want.String()
	}
	return "cask: resolved instance of type " + e.Got.String() + " cannot be used as " + e.Want.String()
}

// InvalidRegistrationError annotates a registration-time validation failure
// with the index of the offending Register call, so a long wiring block can
// be traced back to one line.
type InvalidRegistrationError struct {
	// Index is the zero-based position of the registration on its builder.
	Index int

	Err error
}

// Error implements the error interface.
func (e InvalidRegistrationError) Error() string {
	// Example: cask: registration 3 invalid: cask: nil constructor
	return "cask: registration " + strconv.Itoa(e.Index) + " invalid: " + e.Err.Error()
}

// Unwrap returns the validation failure.
func (e InvalidRegistrationError) Unwrap() error { return e.Err }
