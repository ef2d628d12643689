package cask

import (
	"reflect"
)

// ActivatorKind enumerates how a registration produces instances.
//
// The set is closed; see Activator.
type ActivatorKind int

const (
	// ReflectionKind invokes a constructor function, resolving each argument
	// from recorded parameters first and the resolving scope second.
	ReflectionKind ActivatorKind = iota

	// FactoryKind delegates construction to a caller-supplied factory that
	// receives the resolving scope.
	FactoryKind

	// InstanceKind hands out one pre-built value.
	InstanceKind
)

// String returns a short human-readable name for the kind.
func (k ActivatorKind) String() string {
	switch k {
	case ReflectionKind:
		return "reflection constructor"
	case FactoryKind:
		return "factory delegate"
	case InstanceKind:
		return "provided instance"
	default:
		return "unknown activator"
	}
}

// Activator produces instances for a registration.
//
// The implementation set is closed: a reflection constructor, a factory
// delegate or a provided instance, built by the corresponding Builder
// register calls. Only *ReflectionActivator records default parameters;
// introspection tooling discovers them through its DefaultParameters method
// rather than through this interface, so the other variants stay free of a
// parameter concept they do not have.
type Activator interface {
	// Kind reports which of the closed activator variants this is.
	Kind() ActivatorKind

	// LimitType returns the concrete type of the instances the activator
	// produces.
	LimitType() reflect.Type

	// activate produces one instance using the given scope for dependency
	// resolution. Unexported so the variant set stays closed.
	activate(s *Scope, sess *resolveSession) (reflect.Value, error)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// ReflectionActivator constructs instances by invoking a constructor
// function. Arguments are filled from the registration's recorded
// parameters where one matches (positional index, declared parameter name,
// or exact argument type) and resolved from the scope otherwise.
type ReflectionActivator struct {
	ctor       reflect.Value
	ctorType   reflect.Type
	limit      reflect.Type
	returnsErr bool
	params     []Parameter
	paramNames []string
}

// newReflectionActivator validates the constructor shape: a non-variadic
// function returning one concrete value, optionally followed by an error.
func newReflectionActivator(ctor any) (*ReflectionActivator, error) {
	if ctor == nil {
		return nil, ErrNilConstructor
	}
	v := reflect.ValueOf(ctor)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, ErrNotAFunction
	}
	if t.IsVariadic() {
		return nil, ErrVariadicConstructor
	}
	if err := checkProducedValue(t); err != nil {
		return nil, err
	}
	return &ReflectionActivator{
		ctor:       v,
		ctorType:   t,
		limit:      t.Out(0),
		returnsErr: t.NumOut() == 2,
	}, nil
}

// checkProducedValue enforces the shared return shape of constructors and
// factories: one concrete value, optionally followed by an error.
func checkProducedValue(t reflect.Type) error {
	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != errorType {
			return ErrReturnShape
		}
	default:
		return ErrReturnShape
	}
	if t.Out(0).Kind() == reflect.Interface {
		return ErrInterfaceReturn
	}
	return nil
}

// Kind implements Activator.
func (a *ReflectionActivator) Kind() ActivatorKind { return ReflectionKind }

// LimitType implements Activator.
func (a *ReflectionActivator) LimitType() reflect.Type { return a.limit }

// DefaultParameters returns a copy of the parameters recorded on the
// registration, in the order WithParameter recorded them.
//
// This is the public introspection hook for assertion and tooling packages;
// activation reads the internal slice directly.
func (a *ReflectionActivator) DefaultParameters() []Parameter {
	if len(a.params) == 0 {
		return nil
	}
	cp := make([]Parameter, len(a.params))
	copy(cp, a.params)
	return cp
}

// ParameterNames returns a copy of the declared constructor parameter names,
// or nil when the registration declared none.
func (a *ReflectionActivator) ParameterNames() []string {
	if len(a.paramNames) == 0 {
		return nil
	}
	cp := make([]string, len(a.paramNames))
	copy(cp, a.paramNames)
	return cp
}

func (a *ReflectionActivator) activate(s *Scope, sess *resolveSession) (reflect.Value, error) {
	n := a.ctorType.NumIn()
	args := make([]reflect.Value, n)
	for i := 0; i < n; i++ {
		in := a.ctorType.In(i)
		v, matched, err := a.recordedArgument(i, in)
		if err != nil {
			return reflect.Value{}, DependencyError{Target: a.limit, Requires: in, Err: err}
		}
		if matched {
			args[i] = v
			continue
		}
		v, err = s.resolveTypeInSession(in, sess)
		if err != nil {
			return reflect.Value{}, DependencyError{Target: a.limit, Requires: in, Err: err}
		}
		args[i] = v
	}
	outs := a.ctor.Call(args)
	if a.returnsErr && !outs[1].IsNil() {
		return reflect.Value{}, ActivationError{Target: a.limit, Err: outs[1].Interface().(error)}
	}
	return outs[0], nil
}

// recordedArgument scans the recorded parameters for one that supplies
// argument i. Positional parameters match on index, named parameters on the
// declared parameter name, typed parameters on the exact argument type.
func (a *ReflectionActivator) recordedArgument(i int, in reflect.Type) (reflect.Value, bool, error) {
	for _, p := range a.params {
		switch p := p.(type) {
		case PositionalParameter:
			if p.Index != i {
				continue
			}
		case NamedParameter:
			if i >= len(a.paramNames) || a.paramNames[i] != p.Name {
				continue
			}
		case TypedParameter:
			if p.Type != in {
				continue
			}
		default:
			continue
		}
		v, err := coerceArgument(p.ArgValue(), in)
		if err != nil {
			return reflect.Value{}, false, err
		}
		return v, true, nil
	}
	return reflect.Value{}, false, nil
}

var scopeType = reflect.TypeOf((**Scope)(nil)).Elem()

// factoryActivator delegates construction to a caller-supplied function of
// the resolving scope.
type factoryActivator struct {
	fn         reflect.Value
	limit      reflect.Type
	returnsErr bool
}

// newFactoryActivator validates the factory shape: a non-variadic function
// taking exactly one *Scope and returning one concrete value, optionally
// followed by an error.
func newFactoryActivator(fn any) (*factoryActivator, error) {
	if fn == nil {
		return nil, ErrNilFactory
	}
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, ErrNotAFunction
	}
	if t.IsVariadic() || t.NumIn() != 1 || t.In(0) != scopeType {
		return nil, ErrFactoryShape
	}
	if err := checkProducedValue(t); err != nil {
		return nil, err
	}
	return &factoryActivator{
		fn:         v,
		limit:      t.Out(0),
		returnsErr: t.NumOut() == 2,
	}, nil
}

// Kind implements Activator.
func (a *factoryActivator) Kind() ActivatorKind { return FactoryKind }

// LimitType implements Activator.
func (a *factoryActivator) LimitType() reflect.Type { return a.limit }

func (a *factoryActivator) activate(s *Scope, _ *resolveSession) (reflect.Value, error) {
	outs := a.fn.Call([]reflect.Value{reflect.ValueOf(s)})
	if a.returnsErr && !outs[1].IsNil() {
		return reflect.Value{}, ActivationError{Target: a.limit, Err: outs[1].Interface().(error)}
	}
	return outs[0], nil
}

// instanceActivator hands out one pre-built value.
type instanceActivator struct {
	val   reflect.Value
	limit reflect.Type
}

func newInstanceActivator(v any) (*instanceActivator, error) {
	if v == nil {
		return nil, ErrNilInstance
	}
	rv := reflect.ValueOf(v)
	return &instanceActivator{val: rv, limit: rv.Type()}, nil
}

// Kind implements Activator.
func (a *instanceActivator) Kind() ActivatorKind { return InstanceKind }

// LimitType implements Activator.
func (a *instanceActivator) LimitType() reflect.Type { return a.limit }

func (a *instanceActivator) activate(_ *Scope, _ *resolveSession) (reflect.Value, error) {
	return a.val, nil
}
