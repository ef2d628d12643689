package cask

import (
	"errors"
	"io"
	"reflect"
	"sync"
)

// resolveSession tracks in-flight activations so constructor dependency
// cycles fail with the offending chain instead of recursing forever.
type resolveSession struct {
	seen  map[reflect.Type]bool
	chain []reflect.Type
}

func newResolveSession() *resolveSession {
	return &resolveSession{seen: make(map[reflect.Type]bool)}
}

// Scope is one node in a container's lifetime scope tree. The root scope is
// created by Build; child scopes are opened with BeginScope and may carry
// tags that matching-scope registrations resolve against.
//
// A scope caches the shared instances it owns and tracks scope-owned
// instances that implement io.Closer, closing them in reverse activation
// order when the scope closes. Closing a scope does not close scopes begun
// from it; each scope is closed by whoever opened it.
type Scope struct {
	container *Container
	parent    *Scope
	tags      []any

	mu        sync.Mutex
	instances map[*Registration]reflect.Value
	closers   []io.Closer
	closed    bool
}

// Container returns the container the scope belongs to.
func (s *Scope) Container() *Container { return s.container }

// Tags returns a copy of the scope's tags.
func (s *Scope) Tags() []any {
	if len(s.tags) == 0 {
		return nil
	}
	cp := make([]any, len(s.tags))
	copy(cp, s.tags)
	return cp
}

// HasTag reports whether the scope carries the given tag.
func (s *Scope) HasTag(tag any) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// BeginScope opens a child scope carrying the given tags.
//
// It returns ErrScopeClosed when called on a closed scope.
func (s *Scope) BeginScope(tags ...any) (*Scope, error) {
	if s.isClosed() {
		return nil, ErrScopeClosed
	}
	return &Scope{
		container: s.container,
		parent:    s,
		tags:      append([]any(nil), tags...),
		instances: make(map[*Registration]reflect.Value),
	}, nil
}

// Resolve returns an instance for the contract, resolved from this scope.
// The contract is written as in registration calls: an interface pointer
// such as (*Store)(nil), a reflect.Type, or a value of the contract type.
func (s *Scope) Resolve(contract any) (any, error) {
	t, err := contractTypeOf(contract)
	if err != nil {
		return nil, err
	}
	return s.resolve(TypedService{Type: t})
}

// ResolveNamed returns an instance for the contract registered under the
// given service name.
func (s *Scope) ResolveNamed(name string, contract any) (any, error) {
	return s.ResolveKeyed(name, contract)
}

// ResolveKeyed returns an instance for the contract registered under the
// given key.
func (s *Scope) ResolveKeyed(key any, contract any) (any, error) {
	t, err := contractTypeOf(contract)
	if err != nil {
		return nil, err
	}
	return s.resolve(KeyedService{Key: key, Type: t})
}

func (s *Scope) resolve(svc Service) (any, error) {
	v, err := s.resolveServiceInSession(svc, newResolveSession())
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (s *Scope) resolveServiceInSession(svc Service, sess *resolveSession) (reflect.Value, error) {
	reg, err := s.container.registry.RegistrationFor(svc)
	if err != nil {
		return reflect.Value{}, err
	}
	return s.resolveRegistration(reg, svc, sess)
}

// resolveTypeInSession resolves a constructor argument. Arguments of type
// *Scope receive the resolving scope itself; everything else resolves as a
// typed service.
func (s *Scope) resolveTypeInSession(t reflect.Type, sess *resolveSession) (reflect.Value, error) {
	if t == scopeType {
		return reflect.ValueOf(s), nil
	}
	return s.resolveServiceInSession(TypedService{Type: t}, sess)
}

func (s *Scope) resolveRegistration(reg *Registration, svc Service, sess *resolveSession) (reflect.Value, error) {
	if s.isClosed() {
		return reflect.Value{}, ErrScopeClosed
	}
	owner, err := s.ownerScope(reg, svc)
	if err != nil {
		return reflect.Value{}, err
	}
	if reg.sharing == SharingShared {
		return owner.sharedInstance(reg, svc, sess)
	}
	return owner.activateInstance(reg, sess)
}

// ownerScope picks the scope an instance of reg belongs to when resolved
// from s: the root for root lifetimes, s itself for current-scope lifetimes,
// and the nearest enclosing scope carrying one of the lifetime's tags for
// matching-scope lifetimes.
func (s *Scope) ownerScope(reg *Registration, svc Service) (*Scope, error) {
	switch reg.lifetime.Kind() {
	case Root:
		return s.container.root, nil
	case MatchingScope:
		for cur := s; cur != nil; cur = cur.parent {
			for _, tag := range cur.tags {
				if reg.lifetime.HasTag(tag) {
					return cur, nil
				}
			}
		}
		return nil, MatchingScopeNotFoundError{Service: svc, Lifetime: reg.lifetime}
	default:
		return s, nil
	}
}

// sharedInstance returns the scope's cached instance for reg, activating it
// on first use. The lock is not held across activation, so a constructor may
// resolve further dependencies from the same scope.
func (s *Scope) sharedInstance(reg *Registration, svc Service, sess *resolveSession) (reflect.Value, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return reflect.Value{}, ErrScopeClosed
	}
	if v, ok := s.instances[reg]; ok {
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	v, err := s.activateInstance(reg, sess)
	if err != nil {
		return reflect.Value{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return reflect.Value{}, ErrScopeClosed
	}
	if cached, ok := s.instances[reg]; ok {
		return cached, nil
	}
	s.instances[reg] = v
	return v, nil
}

// activateInstance runs the registration's activator with cycle detection
// and tracks the produced instance for disposal when the scope owns it.
func (s *Scope) activateInstance(reg *Registration, sess *resolveSession) (reflect.Value, error) {
	limit := reg.activator.LimitType()
	if sess.seen[limit] {
		chain := append(append([]reflect.Type(nil), sess.chain...), limit)
		return reflect.Value{}, CircularDependencyError{Chain: chain}
	}
	sess.seen[limit] = true
	sess.chain = append(sess.chain, limit)
	v, err := reg.activator.activate(s, sess)
	sess.chain = sess.chain[:len(sess.chain)-1]
	delete(sess.seen, limit)
	if err != nil {
		return reflect.Value{}, err
	}
	s.trackOwned(reg, v)
	return v, nil
}

func (s *Scope) trackOwned(reg *Registration, v reflect.Value) {
	if reg.ownership != OwnedByLifetimeScope {
		return
	}
	c, ok := v.Interface().(io.Closer)
	if !ok {
		return
	}
	s.mu.Lock()
	if !s.closed {
		s.closers = append(s.closers, c)
	}
	s.mu.Unlock()
}

func (s *Scope) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close closes the scope: cached instances are dropped and scope-owned
// closers run in reverse activation order, their errors joined. Closing an
// already-closed scope is a no-op.
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	closers := s.closers
	s.closers = nil
	s.instances = nil
	s.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
