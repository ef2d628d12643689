package cask

import (
	"errors"
	"fmt"
	"reflect"
)

// Builder accumulates registrations and modules, then produces an immutable
// Container.
//
// Register calls never fail in place; invalid inputs are recorded on the
// registration and surface from Build, so wiring blocks read as
// uninterrupted chains. Module application is deferred: RegisterModule only
// queues, and Build drains the queue.
type Builder struct {
	pending []*RegistrationBuilder
	modules []Module
	errs    []error
	built   bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Register records a constructor-backed registration. The constructor must
// be a non-variadic function returning one concrete value, optionally
// followed by an error; its arguments are resolved from recorded parameters
// and the container during activation, and an argument of type *Scope
// receives the resolving scope.
//
// The registration defaults to instance-per-dependency, owned by its
// lifetime scope, exposed under the constructor's return type.
func (b *Builder) Register(ctor any) *RegistrationBuilder {
	act, err := newReflectionActivator(ctor)
	rb := b.newRegistration(err)
	if act != nil {
		rb.activator = act
		rb.refl = act
	}
	return rb
}

// RegisterFactory records a factory-backed registration. The factory must be
// a function taking exactly one *Scope and returning one concrete value,
// optionally followed by an error; it runs on every activation.
//
// The registration defaults to instance-per-dependency, owned by its
// lifetime scope, exposed under the factory's return type.
func (b *Builder) RegisterFactory(fn any) *RegistrationBuilder {
	act, err := newFactoryActivator(fn)
	rb := b.newRegistration(err)
	if act != nil {
		rb.activator = act
	}
	return rb
}

// RegisterInstance records a pre-built value. The registration defaults to
// single-instance (root scope, shared), owned by its lifetime scope, exposed
// under the value's concrete type.
func (b *Builder) RegisterInstance(v any) *RegistrationBuilder {
	act, err := newInstanceActivator(v)
	rb := b.newRegistration(err)
	if act != nil {
		rb.activator = act
		rb.lifetime = RootLifetime()
		rb.sharing = SharingShared
	}
	return rb
}

func (b *Builder) newRegistration(err error) *RegistrationBuilder {
	rb := &RegistrationBuilder{
		lifetime:  CurrentScopeLifetime(),
		sharing:   SharingNone,
		ownership: OwnedByLifetimeScope,
		err:       err,
	}
	b.pending = append(b.pending, rb)
	return rb
}

// RegisterModule queues a module for application during Build. Registering
// the same module value twice applies its configuration twice.
func (b *Builder) RegisterModule(m Module) *Builder {
	if m == nil {
		b.errs = append(b.errs, ErrNilModule)
		return b
	}
	b.modules = append(b.modules, m)
	return b
}

// Modules returns the modules queued so far, in registration order. Before
// Build this is exactly the explicitly registered set; during Build each
// applied module may queue more, so after Build the slice covers every
// module that was applied.
func (b *Builder) Modules() []Module {
	cp := make([]Module, len(b.modules))
	copy(cp, b.modules)
	return cp
}

// Build applies queued modules, commits every registration and returns the
// finished container.
//
// The module queue drains in first-in-first-out order and a module's
// configuration may queue further modules; Build keeps draining until the
// queue is empty. Registrations flagged with AutoActivate are activated
// before Build returns, and their failures fail the build. Building the same
// Builder twice returns ErrBuilderBuilt.
func (b *Builder) Build() (*Container, error) {
	if b.built {
		return nil, ErrBuilderBuilt
	}
	b.built = true

	// The queue grows while draining; index iteration keeps FIFO order.
	for i := 0; i < len(b.modules); i++ {
		b.modules[i].Configure(b)
	}

	errs := append([]error(nil), b.errs...)
	regs := make([]*Registration, 0, len(b.pending))
	for i, rb := range b.pending {
		reg, err := rb.commit()
		if err != nil {
			errs = append(errs, InvalidRegistrationError{Index: i, Err: err})
			continue
		}
		regs = append(regs, reg)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("cask: build: %w", errors.Join(errs...))
	}

	c := newContainer(newRegistry(regs))
	if err := c.autoActivate(); err != nil {
		return nil, err
	}
	return c, nil
}

// RegistrationBuilder configures one pending registration. Every method
// returns the receiver so configuration reads as a chain:
//
//	b.Register(NewMemStore).
//		As((*Store)(nil)).
//		SingleInstance().
//		AutoActivate()
//
// Methods never fail in place: the first invalid input is recorded and
// reported by Build.
type RegistrationBuilder struct {
	activator  Activator
	refl       *ReflectionActivator
	services   []Service
	lifetime   Lifetime
	sharing    Sharing
	ownership  Ownership
	autoStart  bool
	params     []Parameter
	paramNames []string
	namesSet   bool
	err        error
}

func (rb *RegistrationBuilder) fail(err error) *RegistrationBuilder {
	if rb.err == nil {
		rb.err = err
	}
	return rb
}

// checkContract validates that the implementation type can satisfy the
// contract. With no activator the registration is already invalid and the
// check is skipped.
func (rb *RegistrationBuilder) checkContract(contract reflect.Type) error {
	if rb.activator == nil {
		return nil
	}
	limit := rb.activator.LimitType()
	if !limit.AssignableTo(contract) {
		return ContractMismatchError{Contract: contract, Limit: limit}
	}
	return nil
}

// As exposes the registration under the given contract types instead of its
// limit type. Contracts are written as interface pointers, e.g.
// (*Store)(nil), as reflect.Type values, or as values of the contract type;
// the implementation type must satisfy each contract.
func (rb *RegistrationBuilder) As(contracts ...any) *RegistrationBuilder {
	for _, c := range contracts {
		t, err := contractTypeOf(c)
		if err != nil {
			return rb.fail(err)
		}
		if err := rb.checkContract(t); err != nil {
			return rb.fail(err)
		}
		rb.services = append(rb.services, TypedService{Type: t})
	}
	return rb
}

// AsSelf exposes the registration under its own limit type, in addition to
// any contracts given to As.
func (rb *RegistrationBuilder) AsSelf() *RegistrationBuilder {
	if rb.activator == nil {
		return rb
	}
	rb.services = append(rb.services, TypedService{Type: rb.activator.LimitType()})
	return rb
}

// Named exposes the registration under a service name for the given
// contract. Named resolution and lookup use the name plus the contract type.
func (rb *RegistrationBuilder) Named(name string, contract any) *RegistrationBuilder {
	return rb.Keyed(name, contract)
}

// Keyed exposes the registration under a key for the given contract. Keys
// must be comparable values.
func (rb *RegistrationBuilder) Keyed(key any, contract any) *RegistrationBuilder {
	if key == nil {
		return rb.fail(ErrNilServiceKey)
	}
	if !reflect.TypeOf(key).Comparable() {
		return rb.fail(ErrUncomparableServiceKey)
	}
	t, err := contractTypeOf(contract)
	if err != nil {
		return rb.fail(err)
	}
	if err := rb.checkContract(t); err != nil {
		return rb.fail(err)
	}
	rb.services = append(rb.services, KeyedService{Key: key, Type: t})
	return rb
}

// SingleInstance shares one instance container-wide: the lifetime is the
// root scope and the instance is cached there.
func (rb *RegistrationBuilder) SingleInstance() *RegistrationBuilder {
	rb.lifetime = RootLifetime()
	rb.sharing = SharingShared
	return rb
}

// InstancePerDependency activates a fresh instance for every resolve
// request. This is the default for constructor and factory registrations.
func (rb *RegistrationBuilder) InstancePerDependency() *RegistrationBuilder {
	rb.lifetime = CurrentScopeLifetime()
	rb.sharing = SharingNone
	return rb
}

// InstancePerLifetimeScope shares one instance per resolving scope.
func (rb *RegistrationBuilder) InstancePerLifetimeScope() *RegistrationBuilder {
	rb.lifetime = CurrentScopeLifetime()
	rb.sharing = SharingShared
	return rb
}

// InstancePerMatchingLifetimeScope shares one instance per nearest enclosing
// scope carrying one of the given tags. At least one tag is required.
func (rb *RegistrationBuilder) InstancePerMatchingLifetimeScope(tags ...any) *RegistrationBuilder {
	if len(tags) == 0 {
		return rb.fail(ErrNoScopeTags)
	}
	rb.lifetime = MatchingScopeLifetime(tags...)
	rb.sharing = SharingShared
	return rb
}

// InstancePerRequest shares one instance per request scope: the nearest
// enclosing scope tagged with RequestScopeTag or one of the extra tags.
func (rb *RegistrationBuilder) InstancePerRequest(extraTags ...any) *RegistrationBuilder {
	tags := append([]any{RequestScopeTag}, extraTags...)
	rb.lifetime = MatchingScopeLifetime(tags...)
	rb.sharing = SharingShared
	return rb
}

// InstancePerOwned shares one instance per scope opened around an owned
// instance of the given contract; the scope is identified by
// OwnedScopeTag(contract).
func (rb *RegistrationBuilder) InstancePerOwned(contract any) *RegistrationBuilder {
	t, err := contractTypeOf(contract)
	if err != nil {
		return rb.fail(err)
	}
	rb.lifetime = MatchingScopeLifetime(ownedScopeTag{contract: t})
	rb.sharing = SharingShared
	return rb
}

// ExternallyOwned leaves disposal of produced instances to the caller; the
// owning scope never tracks them.
func (rb *RegistrationBuilder) ExternallyOwned() *RegistrationBuilder {
	rb.ownership = ExternallyOwned
	return rb
}

// OwnedByLifetimeScope restores the default ownership: the owning scope
// closes instances that implement io.Closer when it closes.
func (rb *RegistrationBuilder) OwnedByLifetimeScope() *RegistrationBuilder {
	rb.ownership = OwnedByLifetimeScope
	return rb
}

// AutoActivate flags the registration for activation during Build, so the
// instance exists before the container is handed out.
func (rb *RegistrationBuilder) AutoActivate() *RegistrationBuilder {
	rb.autoStart = true
	return rb
}

// WithParameter records a default parameter on the registration. Only
// constructor registrations consume parameters: they match constructor
// arguments during activation and are visible through
// ReflectionActivator.DefaultParameters. Factory and instance registrations
// have no argument list, so parameters recorded on them go unused.
func (rb *RegistrationBuilder) WithParameter(p Parameter) *RegistrationBuilder {
	if p == nil {
		return rb.fail(ErrNilParameter)
	}
	rb.params = append(rb.params, p)
	return rb
}

// WithParameters records several default parameters in order.
func (rb *RegistrationBuilder) WithParameters(ps ...Parameter) *RegistrationBuilder {
	for _, p := range ps {
		rb.WithParameter(p)
	}
	return rb
}

// ParameterNames declares the constructor's parameter names so
// NamedParameter values can match arguments during activation. The count
// must equal the constructor arity, and the call is only valid on
// constructor registrations.
func (rb *RegistrationBuilder) ParameterNames(names ...string) *RegistrationBuilder {
	rb.namesSet = true
	rb.paramNames = append([]string(nil), names...)
	return rb
}

// commit validates the accumulated configuration and produces the immutable
// registration.
func (rb *RegistrationBuilder) commit() (*Registration, error) {
	if rb.err != nil {
		return nil, rb.err
	}
	if rb.namesSet {
		if rb.refl == nil {
			return nil, ErrParameterNames
		}
		if len(rb.paramNames) != rb.refl.ctorType.NumIn() {
			return nil, ErrParameterNameCount
		}
	}
	if rb.activator.Kind() == InstanceKind &&
		(rb.lifetime.Kind() != Root || rb.sharing != SharingShared) {
		return nil, ErrInstanceLifetime
	}
	if rb.refl != nil {
		rb.refl.params = rb.params
		rb.refl.paramNames = rb.paramNames
	}
	services := rb.services
	if len(services) == 0 {
		services = []Service{TypedService{Type: rb.activator.LimitType()}}
	}
	return &Registration{
		services:  services,
		lifetime:  rb.lifetime,
		sharing:   rb.sharing,
		ownership: rb.ownership,
		autoStart: rb.autoStart,
		activator: rb.activator,
	}, nil
}
