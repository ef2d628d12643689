package cask

// Module bundles related registrations so callers can apply them as a unit.
//
// Configure receives the builder and records registrations on it; it may
// also load further modules with RegisterModule. Module application is
// deferred: RegisterModule only queues the module, and Configure runs during
// Build, after all direct registrations have been recorded.
//
// Modules are identified by their concrete type: two values of the same type
// count as the same module for discovery purposes, and pointer and value
// forms of one type are the same module. Implement Configure on a named
// struct per module rather than on a shared adapter type, or discovery
// cannot tell modules apart.
type Module interface {
	Configure(b *Builder)
}
