package cask

import "reflect"

// Container is the immutable product of Build: a frozen registration
// registry plus the root lifetime scope.
//
// Registration lookup goes through Registry; resolution goes through the
// root scope or a scope begun from it. After Build nothing mutates the
// registry, so lookups are safe from any goroutine; resolution shares the
// scope caches and is meant for one goroutine at a time.
type Container struct {
	registry *Registry
	root     *Scope
}

func newContainer(reg *Registry) *Container {
	c := &Container{registry: reg}
	c.root = &Scope{container: c, instances: make(map[*Registration]reflect.Value)}
	return c
}

// Registry exposes the read-only registration index.
func (c *Container) Registry() *Registry { return c.registry }

// Root returns the root lifetime scope.
func (c *Container) Root() *Scope { return c.root }

// Resolve returns an instance for the contract, resolved from the root
// scope.
func (c *Container) Resolve(contract any) (any, error) {
	return c.root.Resolve(contract)
}

// ResolveNamed returns an instance for the contract registered under the
// given service name, resolved from the root scope.
func (c *Container) ResolveNamed(name string, contract any) (any, error) {
	return c.root.ResolveNamed(name, contract)
}

// ResolveKeyed returns an instance for the contract registered under the
// given key, resolved from the root scope.
func (c *Container) ResolveKeyed(key any, contract any) (any, error) {
	return c.root.ResolveKeyed(key, contract)
}

// BeginScope opens a child of the root scope carrying the given tags.
func (c *Container) BeginScope(tags ...any) (*Scope, error) {
	return c.root.BeginScope(tags...)
}

// Close closes the root scope, disposing every root-owned instance.
func (c *Container) Close() error { return c.root.Close() }

// autoActivate resolves every registration flagged with AutoActivate, in
// commit order, so flagged instances exist before Build hands the container
// out.
func (c *Container) autoActivate() error {
	for _, reg := range c.registry.order {
		if !reg.autoStart {
			continue
		}
		svc := reg.services[0]
		if _, err := c.root.resolveRegistration(reg, svc, newResolveSession()); err != nil {
			return AutoActivationError{Service: svc, Err: err}
		}
	}
	return nil
}

// castResolved narrows a resolved instance to the requested Go type.
func castResolved[T any](v any) (T, error) {
	out, ok := v.(T)
	if !ok {
		var zero T
		return zero, TypeMismatchError{Want: reflect.TypeOf((*T)(nil)).Elem(), Got: reflect.TypeOf(v)}
	}
	return out, nil
}

// Get resolves the contract T from the container's root scope.
func Get[T any](c *Container) (T, error) {
	return ScopeGet[T](c.root)
}

// GetNamed resolves the contract T registered under the given service name.
func GetNamed[T any](c *Container, name string) (T, error) {
	return GetKeyed[T](c, name)
}

// GetKeyed resolves the contract T registered under the given key.
func GetKeyed[T any](c *Container, key any) (T, error) {
	v, err := c.ResolveKeyed(key, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		var zero T
		return zero, err
	}
	return castResolved[T](v)
}

// ScopeGet resolves the contract T from the given scope.
func ScopeGet[T any](s *Scope) (T, error) {
	v, err := s.Resolve(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		var zero T
		return zero, err
	}
	return castResolved[T](v)
}

// MustGet resolves the contract T from the root scope or panics with the
// resolution error. Useful in composition roots where a missing registration
// is a programming error.
func MustGet[T any](c *Container) T {
	v, err := Get[T](c)
	if err != nil {
		panic(err)
	}
	return v
}
