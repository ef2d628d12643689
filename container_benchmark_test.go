package cask_test

import (
	"testing"

	"github.com/casklabs/cask"
)

/*
   Shared helpers (NOT counted in benchmarks)
*/

func newBenchContainer(b *testing.B, wire func(cb *cask.Builder)) *cask.Container {
	b.Helper()
	cb := cask.NewBuilder()
	wire(cb)
	c, err := cb.Build()
	if err != nil {
		b.Fatal(err)
	}
	return c
}

func newCacheContainer(b *testing.B) *cask.Container {
	return newBenchContainer(b, func(cb *cask.Builder) {
		cb.Register(newMemCache).As((*Cache)(nil)).AsSelf().SingleInstance()
		cb.Register(newJournal)
	})
}

/*
   Benchmarks
*/

func BenchmarkBuild(b *testing.B) {
	for i := 0; i < b.N; i++ {
		cb := cask.NewBuilder()
		cb.Register(newMemCache).As((*Cache)(nil)).SingleInstance()
		cb.Register(newJournal)
		_, _ = cb.Build()
	}
}

func BenchmarkResolve_SingleInstanceCached(b *testing.B) {
	c := newCacheContainer(b)
	_, _ = cask.Get[Cache](c)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cask.Get[Cache](c)
	}
}

func BenchmarkResolve_PerDependency(b *testing.B) {
	c := newBenchContainer(b, func(cb *cask.Builder) {
		cb.Register(newMemCache)
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cask.Get[*memCache](c)
	}
}

func BenchmarkResolve_WithInjectedDependency(b *testing.B) {
	c := newCacheContainer(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cask.Get[*journal](c)
	}
}

func BenchmarkResolveKeyed(b *testing.B) {
	c := newBenchContainer(b, func(cb *cask.Builder) {
		cb.Register(newMemCache).Named("primary", (*Cache)(nil)).SingleInstance()
	})
	_, _ = cask.GetNamed[Cache](c, "primary")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cask.GetNamed[Cache](c, "primary")
	}
}

func BenchmarkBeginScope(b *testing.B) {
	c := newBenchContainer(b, func(cb *cask.Builder) {})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s, _ := c.BeginScope()
		_ = s.Close()
	}
}

func BenchmarkRegistryLookup(b *testing.B) {
	c := newCacheContainer(b)
	r := c.Registry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.IsRegistered((*Cache)(nil))
	}
}
