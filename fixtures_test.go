package cask_test

import (
	"errors"
	"sync"

	"github.com/casklabs/cask"
)

// Shared fixture types for the package tests. The domain is a tiny storage
// stack: a cache contract with an in-memory implementation, a journal that
// depends on it, and a pool whose constructor takes plain configuration
// arguments.

type Cache interface {
	Set(key, val string)
	Get(key string) (string, bool)
}

type memCache struct {
	mu     sync.Mutex
	data   map[string]string
	closes *closeLog
	closed bool
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (c *memCache) Set(key, val string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = val
}

func (c *memCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

// Close implements io.Closer so ownership tracking has something to close.
func (c *memCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.closes != nil {
		c.closes.record("cache")
	}
	return nil
}

type journal struct {
	cache  *memCache
	closes *closeLog
}

func newJournal(c *memCache) *journal { return &journal{cache: c} }

func (j *journal) Close() error {
	if j.closes != nil {
		j.closes.record("journal")
	}
	return nil
}

// pool exercises constructors with plain value arguments.
type pool struct {
	addr string
	size int
}

func newPool(addr string, size int) *pool { return &pool{addr: addr, size: size} }

// closeLog records close order across fixtures.
type closeLog struct {
	mu    sync.Mutex
	order []string
}

func (l *closeLog) record(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = append(l.order, name)
}

func (l *closeLog) names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.order...)
}

// failingCloser always fails so Close error joining can be observed.
type failingCloser struct{ err error }

func (f *failingCloser) Close() error { return f.err }

var errCloseBoom = errors.New("close boom")

// ping and pong form a constructor cycle.
type ping struct{ p *pong }

type pong struct{ p *ping }

func newPing(p *pong) *ping { return &ping{p: p} }

func newPong(p *ping) *pong { return &pong{p: p} }

// cacheModule registers the cache stack the way production wiring would.
type cacheModule struct{}

func (cacheModule) Configure(b *cask.Builder) {
	b.Register(newMemCache).As((*Cache)(nil)).AsSelf().SingleInstance()
}

// appModule loads cacheModule and adds the journal on top.
type appModule struct{}

func (appModule) Configure(b *cask.Builder) {
	b.RegisterModule(cacheModule{})
	b.Register(newJournal)
}
