package cask

import "reflect"

// Registration is one committed entry in a container's registry: the
// services it is exposed under, its lifetime, sharing and ownership, and the
// activator that produces its instances.
//
// Registrations are immutable once Build has committed them; every accessor
// that returns a slice returns a copy.
type Registration struct {
	services  []Service
	lifetime  Lifetime
	sharing   Sharing
	ownership Ownership
	autoStart bool
	activator Activator
}

// Services returns the services the registration is exposed under, in the
// order they were declared. A registration with no explicit As, Named or
// Keyed call is exposed under its limit type.
func (r *Registration) Services() []Service {
	cp := make([]Service, len(r.services))
	copy(cp, r.services)
	return cp
}

// Lifetime returns where the registration's instances live.
func (r *Registration) Lifetime() Lifetime { return r.lifetime }

// Sharing returns whether instances are reused within their owning scope.
func (r *Registration) Sharing() Sharing { return r.sharing }

// Ownership returns whether the owning scope disposes produced instances.
func (r *Registration) Ownership() Ownership { return r.ownership }

// IsAutoActivated reports whether the registration is flagged for activation
// at build time. Container policy lives in Registry.AutoActivates; this is
// the raw per-registration flag.
func (r *Registration) IsAutoActivated() bool { return r.autoStart }

// Activator returns the activator that produces the registration's
// instances.
func (r *Registration) Activator() Activator { return r.activator }

// LimitType returns the concrete type of the instances the registration
// produces.
func (r *Registration) LimitType() reflect.Type { return r.activator.LimitType() }

// String renders the registration for diagnostics.
func (r *Registration) String() string {
	// Example: registration of *widgets.memStore (reflection constructor, current scope, sharing none)
	return "registration of " + r.LimitType().String() +
		" (" + r.activator.Kind().String() +
		", " + r.lifetime.String() +
		", sharing " + r.sharing.String() + ")"
}
