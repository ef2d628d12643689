// Package casktest provides fluent assertions over cask registration
// metadata and module composition.
//
// Checks read what the builder recorded; nothing is ever resolved or
// activated, so asserting a lifetime cannot trigger a constructor. Failures
// go through the TestingT callback the way testify failures do, which means
// a chain keeps running after a failed check and every wrong fact in a
// wiring shows up in one test run:
//
//	casktest.Registration(t, c, (*Store)(nil)).
//		SingleInstance().
//		AutoActivate().
//		WithParameter("dsn", "postgres://localhost")
//
// Design goals:
//   - Metadata only: lifetimes, sharing, ownership, auto-activation flags,
//     service names and keys, and recorded default parameters.
//   - Report, never panic: failed checks call Errorf and the chain stays
//     usable; only nil construction inputs panic, with typed errors.
//   - Best effort on parameters: default parameters are recovered through
//     the reflection activator's public capability, and activators without
//     one simply have none to assert against.
//
// Module composition is asserted through a Shadow, which records module
// loads the way a builder would and walks nested loads without building:
//
//	sh := casktest.NewShadow()
//	sh.Load(appModule{})
//	casktest.ModulesOf(t, sh).Loaded(storageModule{}).NotLoaded(debugModule{})
package casktest
