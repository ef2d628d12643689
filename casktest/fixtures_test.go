package casktest_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/casklabs/cask"
	"github.com/stretchr/testify/require"
)

// recordingT captures failures instead of failing the real test, so the
// checks under test can be observed from the outside.
type recordingT struct {
	mu       sync.Mutex
	failures []string
}

func (r *recordingT) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func (r *recordingT) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures)
}

func (r *recordingT) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.failures) == 0 {
		return ""
	}
	return r.failures[len(r.failures)-1]
}

// Fixture domain: a disk-backed store with an indexer on top.

type Store interface {
	Put(key, val string)
}

type diskStore struct{ dir string }

func newDiskStore() *diskStore { return &diskStore{dir: "/tmp/store"} }

func (s *diskStore) Put(key, val string) {}

// Close lets ownership checks see a disposable instance.
func (s *diskStore) Close() error { return nil }

type indexer struct{ store *diskStore }

func newIndexer(s *diskStore) *indexer { return &indexer{store: s} }

// creds carries unexported fields so structural parameter comparison is
// exercised where reflect.DeepEqual-style access would panic under cmp.
type creds struct {
	user string
	pass string
}

// Modules

type storeModule struct{}

func (storeModule) Configure(b *cask.Builder) {
	b.Register(newDiskStore).As((*Store)(nil)).AsSelf().SingleInstance()
}

type searchModule struct{}

func (searchModule) Configure(b *cask.Builder) {
	b.RegisterModule(storeModule{})
	b.Register(newIndexer)
}

// backupModule also loads storeModule, giving the module graph a diamond.
type backupModule struct{}

func (backupModule) Configure(b *cask.Builder) {
	b.RegisterModule(storeModule{})
}

type appModule struct{}

func (appModule) Configure(b *cask.Builder) {
	b.RegisterModule(searchModule{})
	b.RegisterModule(backupModule{})
}

// metricsModule is never loaded by the other fixtures.
type metricsModule struct{}

func (metricsModule) Configure(b *cask.Builder) {}

// loopAModule and loopBModule load each other.
type loopAModule struct{}

func (loopAModule) Configure(b *cask.Builder) {
	b.RegisterModule(loopBModule{})
}

type loopBModule struct{}

func (loopBModule) Configure(b *cask.Builder) {
	b.RegisterModule(loopAModule{})
}

func buildContainer(t *testing.T, wire func(b *cask.Builder)) *cask.Container {
	t.Helper()
	b := cask.NewBuilder()
	wire(b)
	c, err := b.Build()
	require.NoError(t, err)
	return c
}
