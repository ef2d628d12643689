// Package cask is a small reflection-based dependency injection container
// with rich registration metadata.
//
// Wiring happens on a Builder: constructors, factories and pre-built
// instances are registered fluently, exposed under typed, named or keyed
// services, and given one of a closed set of lifetimes (root, current scope,
// or tag-matching scope) combined with sharing and ownership. Build commits
// everything into an immutable Container whose Registry can be inspected
// without activating anything.
//
// Design goals:
//   - Explicit wiring: registrations live in composition roots and modules,
//     never in init functions or global state.
//   - Inspectable: every committed registration exposes its services,
//     lifetime, sharing, ownership and activator for tooling to read.
//   - Safe defaults: constructor shapes are validated at registration time
//     and reported together by Build, with typed errors throughout.
//   - Test-friendly: the casktest subpackage asserts registration metadata
//     and module composition without resolving a single service.
//
// A minimal composition root:
//
//	b := cask.NewBuilder()
//	b.RegisterModule(storageModule{})
//	b.Register(NewMailer).As((*Mailer)(nil)).SingleInstance()
//	c, err := b.Build()
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//	m := cask.MustGet[Mailer](c)
//
// See subpackages:
//   - casktest: fluent assertions over registration metadata and modules
//   - examples/*: runnable wiring walkthroughs
package cask
