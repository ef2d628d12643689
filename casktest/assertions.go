package casktest

import (
	"errors"
	"reflect"

	"github.com/casklabs/cask"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
)

var (
	// ErrNilTestingT is the panic value when an entry point is given a nil
	// testing handle.
	ErrNilTestingT = errors.New("casktest: nil testing handle")

	// ErrNilContainer is the panic value when an entry point is given a nil
	// container.
	ErrNilContainer = errors.New("casktest: nil container")

	// ErrNilContract is the panic value when a nil contract is given to an
	// entry point or a chained check.
	ErrNilContract = errors.New("casktest: nil contract type")

	// ErrNilRegistration is the panic value when RegistrationOf is given a
	// nil registration handle.
	ErrNilRegistration = errors.New("casktest: nil registration")

	// ErrNilShadow is the panic value when ModulesOf is given a nil shadow.
	ErrNilShadow = errors.New("casktest: nil shadow")

	// ErrNilModule is the panic value when a nil module is given to a shadow
	// or a module check.
	ErrNilModule = errors.New("casktest: nil module")

	// ErrNilPredicate is the panic value when WithParameterMatching is given
	// a nil predicate.
	ErrNilPredicate = errors.New("casktest: nil parameter predicate")
)

// TestingT is the assertion-fail callback checks report through. *testing.T
// implements it, as does any testify-compatible harness. Failures are
// reported, never panicked, so a chain keeps running after a failed check.
type TestingT interface {
	Errorf(format string, args ...any)
}

// tHelper matches testing.T's Helper so failure lines attribute to the
// check's caller when the TestingT implementation supports it.
type tHelper interface {
	Helper()
}

func fail(t TestingT, format string, args ...any) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	t.Errorf(format, args...)
}

// exportAll lets cmp compare unexported fields instead of panicking on
// them; parameter values in tests are arbitrary user structs.
func exportAll(reflect.Type) bool { return true }

func cmpOptions(opts []cmp.Option) []cmp.Option {
	all := make([]cmp.Option, 0, len(opts)+1)
	all = append(all, cmp.Exporter(exportAll))
	return append(all, opts...)
}

// structurallyEqual compares a recorded parameter value against the expected
// one the way tests compare data: structurally, with caller options applied
// on top of the permissive exporter.
func structurallyEqual(want, got any, opts []cmp.Option) bool {
	return cmp.Equal(want, got, cmpOptions(opts)...)
}

func valueDiff(want, got any, opts []cmp.Option) string {
	return cmp.Diff(want, got, cmpOptions(opts)...)
}

func renderValue(v any) string {
	return spew.Sprintf("%#v", v)
}

// RegistrationAssertions chains checks against one resolved registration.
// Every check reports its own failure and returns the receiver, so one chain
// surfaces every wrong fact about a registration in a single run.
type RegistrationAssertions struct {
	t        TestingT
	registry *cask.Registry
	contract reflect.Type
	reg      *cask.Registration
	params   []cask.Parameter
}

// Registration looks up the default registration for the contract and
// begins an assertion chain on it. The contract is written as in cask
// registration calls: an interface pointer such as (*Store)(nil), a
// reflect.Type, or a value of the contract type.
//
// A missing registration is reported as an assertion failure and the
// returned chain is inert: its checks run without reporting further
// failures. Nil arguments panic with ErrNilTestingT, ErrNilContainer or
// ErrNilContract.
func Registration(t TestingT, c *cask.Container, contract any) *RegistrationAssertions {
	if t == nil {
		panic(ErrNilTestingT)
	}
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if c == nil {
		panic(ErrNilContainer)
	}
	if contract == nil {
		panic(ErrNilContract)
	}
	ct := cask.ContractOf(contract)
	a := &RegistrationAssertions{t: t, registry: c.Registry(), contract: ct}
	reg, err := lookupRegistration(c, cask.TypedService{Type: ct})
	if err != nil {
		fail(t, "expected a registration for %s, but the container has none", ct)
		return a
	}
	a.reg = reg
	a.params = defaultParameters(reg)
	return a
}

// RegistrationOf begins an assertion chain on a registration handle the
// caller already holds, e.g. one found by enumerating
// Container.Registry().Registrations(). Nil arguments panic with
// ErrNilTestingT, ErrNilContainer or ErrNilRegistration.
func RegistrationOf(t TestingT, c *cask.Container, reg *cask.Registration) *RegistrationAssertions {
	if t == nil {
		panic(ErrNilTestingT)
	}
	if c == nil {
		panic(ErrNilContainer)
	}
	if reg == nil {
		panic(ErrNilRegistration)
	}
	return &RegistrationAssertions{
		t:        t,
		registry: c.Registry(),
		reg:      reg,
		params:   defaultParameters(reg),
	}
}

// NotRegistered asserts that nothing exposes the contract as a plain typed
// service. Nil arguments panic as in Registration.
func NotRegistered(t TestingT, c *cask.Container, contract any) {
	if t == nil {
		panic(ErrNilTestingT)
	}
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if c == nil {
		panic(ErrNilContainer)
	}
	if contract == nil {
		panic(ErrNilContract)
	}
	ct := cask.ContractOf(contract)
	if c.Registry().IsRegistered(ct) {
		fail(t, "expected no registration for %s, but the container has one", ct)
	}
}

// Registration returns the underlying registration handle, or nil when the
// entry-point lookup failed.
func (a *RegistrationAssertions) Registration() *cask.Registration { return a.reg }

// Parameters returns a copy of the default parameters recovered from the
// registration's activator, in declaration order. Registrations whose
// activator records no parameters yield an empty set.
func (a *RegistrationAssertions) Parameters() []cask.Parameter {
	if len(a.params) == 0 {
		return nil
	}
	cp := make([]cask.Parameter, len(a.params))
	copy(cp, a.params)
	return cp
}

func (a *RegistrationAssertions) helper() {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}
}

// subject names the registration in failure messages: the looked-up
// contract when the chain began with one, the limit type otherwise.
func (a *RegistrationAssertions) subject() string {
	if a.contract != nil {
		return a.contract.String()
	}
	return a.reg.LimitType().String()
}

func describeLifetime(reg *cask.Registration) string {
	return reg.Lifetime().String() + " with sharing " + reg.Sharing().String()
}

// Named asserts the container exposes the contract under the given service
// name. It panics with ErrNilContract when contract is nil.
func (a *RegistrationAssertions) Named(name string, contract any) *RegistrationAssertions {
	a.helper()
	if a.reg == nil {
		return a
	}
	if contract == nil {
		panic(ErrNilContract)
	}
	ct := cask.ContractOf(contract)
	if !a.registry.IsRegisteredNamed(name, ct) {
		fail(a.t, "expected %s to be registered under name %q, but it is not", ct, name)
	}
	return a
}

// Keyed asserts the container exposes the contract under the given service
// key. It panics with ErrNilContract when contract is nil.
func (a *RegistrationAssertions) Keyed(key any, contract any) *RegistrationAssertions {
	a.helper()
	if a.reg == nil {
		return a
	}
	if contract == nil {
		panic(ErrNilContract)
	}
	ct := cask.ContractOf(contract)
	if !a.registry.IsRegisteredKeyed(key, ct) {
		fail(a.t, "expected %s to be registered under key %s, but it is not", ct, renderValue(key))
	}
	return a
}

// SingleInstance asserts the registration shares one instance container-wide:
// root lifetime with shared sharing.
func (a *RegistrationAssertions) SingleInstance() *RegistrationAssertions {
	a.helper()
	if a.reg == nil {
		return a
	}
	if a.reg.Lifetime().Kind() != cask.Root || a.reg.Sharing() != cask.SharingShared {
		fail(a.t, "expected the registration for %s to be single-instance, but it is %s",
			a.subject(), describeLifetime(a.reg))
	}
	return a
}

// InstancePerDependency asserts the registration activates a fresh instance
// per resolve request: current-scope lifetime with no sharing.
func (a *RegistrationAssertions) InstancePerDependency() *RegistrationAssertions {
	a.helper()
	if a.reg == nil {
		return a
	}
	if a.reg.Lifetime().Kind() != cask.CurrentScope || a.reg.Sharing() != cask.SharingNone {
		fail(a.t, "expected the registration for %s to be instance-per-dependency, but it is %s",
			a.subject(), describeLifetime(a.reg))
	}
	return a
}

// InstancePerLifetimeScope asserts the registration shares one instance per
// resolving scope: current-scope lifetime with shared sharing.
func (a *RegistrationAssertions) InstancePerLifetimeScope() *RegistrationAssertions {
	a.helper()
	if a.reg == nil {
		return a
	}
	if a.reg.Lifetime().Kind() != cask.CurrentScope || a.reg.Sharing() != cask.SharingShared {
		fail(a.t, "expected the registration for %s to be instance-per-lifetime-scope, but it is %s",
			a.subject(), describeLifetime(a.reg))
	}
	return a
}

// InstancePerMatchingLifetimeScope asserts the registration shares one
// instance per matching tagged scope. When tags are given, the lifetime must
// carry every one of them; with no tags the check is satisfied by any
// matching-scope lifetime.
func (a *RegistrationAssertions) InstancePerMatchingLifetimeScope(tags ...any) *RegistrationAssertions {
	a.helper()
	if a.reg == nil {
		return a
	}
	lt := a.reg.Lifetime()
	if lt.Kind() != cask.MatchingScope || a.reg.Sharing() != cask.SharingShared {
		fail(a.t, "expected the registration for %s to be instance-per-matching-lifetime-scope, but it is %s",
			a.subject(), describeLifetime(a.reg))
		return a
	}
	for _, tag := range tags {
		if !lt.HasTag(tag) {
			fail(a.t, "expected the registration for %s to match scopes tagged %s, but its lifetime is %s",
				a.subject(), renderValue(tag), lt)
		}
	}
	return a
}

// InstancePerRequest asserts the registration shares one instance per
// request scope: a matching-scope lifetime carrying cask.RequestScopeTag.
func (a *RegistrationAssertions) InstancePerRequest() *RegistrationAssertions {
	a.helper()
	if a.reg == nil {
		return a
	}
	lt := a.reg.Lifetime()
	if lt.Kind() != cask.MatchingScope || a.reg.Sharing() != cask.SharingShared ||
		!lt.HasTag(cask.RequestScopeTag) {
		fail(a.t, "expected the registration for %s to be instance-per-request, but it is %s",
			a.subject(), describeLifetime(a.reg))
	}
	return a
}

// InstancePerOwned asserts the registration shares one instance per scope
// opened around an owned instance of the given contract: a matching-scope
// lifetime carrying cask.OwnedScopeTag(contract). It panics with
// ErrNilContract when contract is nil.
func (a *RegistrationAssertions) InstancePerOwned(contract any) *RegistrationAssertions {
	a.helper()
	if a.reg == nil {
		return a
	}
	if contract == nil {
		panic(ErrNilContract)
	}
	ct := cask.ContractOf(contract)
	lt := a.reg.Lifetime()
	if lt.Kind() != cask.MatchingScope || a.reg.Sharing() != cask.SharingShared ||
		!lt.HasTag(cask.OwnedScopeTag(ct)) {
		fail(a.t, "expected the registration for %s to be instance-per-owned for %s, but it is %s",
			a.subject(), ct, describeLifetime(a.reg))
	}
	return a
}

// ExternallyOwned asserts disposal of produced instances is left to the
// caller.
func (a *RegistrationAssertions) ExternallyOwned() *RegistrationAssertions {
	a.helper()
	if a.reg == nil {
		return a
	}
	if a.reg.Ownership() != cask.ExternallyOwned {
		fail(a.t, "expected instances of %s to be externally owned, but the lifetime scope owns them",
			a.subject())
	}
	return a
}

// OwnedByLifetimeScope asserts the owning scope disposes produced instances.
func (a *RegistrationAssertions) OwnedByLifetimeScope() *RegistrationAssertions {
	a.helper()
	if a.reg == nil {
		return a
	}
	if a.reg.Ownership() != cask.OwnedByLifetimeScope {
		fail(a.t, "expected instances of %s to be owned by the lifetime scope, but they are externally owned",
			a.subject())
	}
	return a
}

// AutoActivate asserts the contract auto-activates at build time, delegating
// to the container's own auto-activation policy. For chains begun with
// RegistrationOf the check falls back to the handle's own flag, since no
// contract was looked up.
func (a *RegistrationAssertions) AutoActivate() *RegistrationAssertions {
	a.helper()
	if a.reg == nil {
		return a
	}
	activates := false
	if a.contract != nil {
		activates = a.registry.AutoActivates(a.contract)
	} else {
		activates = a.reg.IsAutoActivated()
	}
	if !activates {
		fail(a.t, "expected the registration for %s to auto-activate at build time, but it does not",
			a.subject())
	}
	return a
}

// WithParameter asserts a named default parameter with the given name whose
// value is structurally equal to value. Absence and value mismatch produce
// distinct failures; cmp options pass through to the comparison.
func (a *RegistrationAssertions) WithParameter(name string, value any, opts ...cmp.Option) *RegistrationAssertions {
	a.helper()
	if a.reg == nil {
		return a
	}
	var found *cask.NamedParameter
	for _, p := range a.params {
		np, ok := p.(cask.NamedParameter)
		if !ok || np.Name != name {
			continue
		}
		if structurallyEqual(value, np.Val, opts) {
			return a
		}
		if found == nil {
			found = &np
		}
	}
	if found == nil {
		fail(a.t, "expected a default parameter named %q on the registration for %s, but none is recorded",
			name, a.subject())
		return a
	}
	fail(a.t, "expected the default parameter %q on the registration for %s to equal %s, but values differ (-want +got):\n%s",
		name, a.subject(), renderValue(value), valueDiff(value, found.Val, opts))
	return a
}

// WithNamedParameter asserts the exact named parameter is recorded: same
// name, structurally equal value.
func (a *RegistrationAssertions) WithNamedParameter(p cask.NamedParameter, opts ...cmp.Option) *RegistrationAssertions {
	a.helper()
	return a.WithParameter(p.Name, p.Val, opts...)
}

// WithPositionalParameter asserts a positional parameter is recorded at the
// same index with a structurally equal value. Absence and value mismatch
// produce distinct failures.
func (a *RegistrationAssertions) WithPositionalParameter(p cask.PositionalParameter, opts ...cmp.Option) *RegistrationAssertions {
	a.helper()
	if a.reg == nil {
		return a
	}
	var found *cask.PositionalParameter
	for _, rec := range a.params {
		pp, ok := rec.(cask.PositionalParameter)
		if !ok || pp.Index != p.Index {
			continue
		}
		if structurallyEqual(p.Val, pp.Val, opts) {
			return a
		}
		if found == nil {
			found = &pp
		}
	}
	if found == nil {
		fail(a.t, "expected a positional default parameter at index %d on the registration for %s, but none is recorded",
			p.Index, a.subject())
		return a
	}
	fail(a.t, "expected the positional default parameter at index %d on the registration for %s to equal %s, but values differ (-want +got):\n%s",
		p.Index, a.subject(), renderValue(p.Val), valueDiff(p.Val, found.Val, opts))
	return a
}

// WithParameterMatching asserts at least one default parameter satisfies the
// predicate. It panics with ErrNilPredicate when pred is nil.
func (a *RegistrationAssertions) WithParameterMatching(pred func(cask.Parameter) bool) *RegistrationAssertions {
	a.helper()
	if pred == nil {
		panic(ErrNilPredicate)
	}
	if a.reg == nil {
		return a
	}
	for _, p := range a.params {
		if pred(p) {
			return a
		}
	}
	fail(a.t, "expected a default parameter matching the predicate on the registration for %s, but none of the %d recorded parameters does",
		a.subject(), len(a.params))
	return a
}

// WithParameterCount asserts exactly want default parameters satisfy the
// predicate. A nil predicate counts every recorded parameter.
func (a *RegistrationAssertions) WithParameterCount(pred func(cask.Parameter) bool, want int) *RegistrationAssertions {
	a.helper()
	if a.reg == nil {
		return a
	}
	got := 0
	for _, p := range a.params {
		if pred == nil || pred(p) {
			got++
		}
	}
	if got != want {
		fail(a.t, "expected exactly %d default parameters matching the predicate on the registration for %s, but %d match",
			want, a.subject(), got)
	}
	return a
}

// ModuleAssertions chains checks against a shadow's discovered module set.
type ModuleAssertions struct {
	t      TestingT
	shadow *Shadow
}

// ModulesOf begins assertions over the modules a shadow discovered,
// triggering the traversal on first use. Nil arguments panic with
// ErrNilTestingT or ErrNilShadow.
func ModulesOf(t TestingT, s *Shadow) *ModuleAssertions {
	if t == nil {
		panic(ErrNilTestingT)
	}
	if s == nil {
		panic(ErrNilShadow)
	}
	return &ModuleAssertions{t: t, shadow: s}
}

// Loaded asserts a module of m's concrete type was loaded, directly or by
// another module. It panics with ErrNilModule when m is nil.
func (a *ModuleAssertions) Loaded(m cask.Module) *ModuleAssertions {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}
	if m == nil {
		panic(ErrNilModule)
	}
	want := DescribeModule(m)
	for _, got := range a.shadow.Modules() {
		if got.Type == want.Type {
			return a
		}
	}
	fail(a.t, "expected module %s to be loaded, but it was not", want.Name)
	return a
}

// NotLoaded asserts no module of m's concrete type was loaded. It panics
// with ErrNilModule when m is nil.
func (a *ModuleAssertions) NotLoaded(m cask.Module) *ModuleAssertions {
	if h, ok := a.t.(tHelper); ok {
		h.Helper()
	}
	if m == nil {
		panic(ErrNilModule)
	}
	want := DescribeModule(m)
	for _, got := range a.shadow.Modules() {
		if got.Type == want.Type {
			fail(a.t, "expected module %s not to be loaded, but it was", want.Name)
			return a
		}
	}
	return a
}
