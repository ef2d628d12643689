package casktest

import (
	"reflect"

	"github.com/casklabs/cask"
)

// ModuleDescriptor identifies one discovered module: its concrete type and a
// human-readable name derived from it. Pointer and value forms of a module
// type map to the same descriptor.
type ModuleDescriptor struct {
	Type reflect.Type
	Name string
}

// DescribeModule returns the descriptor a module value is recorded under.
//
// It panics with ErrNilModule when m is nil.
func DescribeModule(m cask.Module) ModuleDescriptor {
	if m == nil {
		panic(ErrNilModule)
	}
	t := reflect.TypeOf(m)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return ModuleDescriptor{Type: t, Name: t.String()}
}

// Shadow mirrors the registration phase of a container build so module
// composition can be asserted before, or entirely without, building.
//
// Load records modules exactly the way production wiring registers them on a
// builder. Modules then enumerates every module reachable from the loaded
// set, including modules loaded by other modules, which a plain builder only
// discovers while Build drains its queue.
//
// A Shadow never fails a test by itself; absence is asserted through
// ModulesOf.
type Shadow struct {
	builder     *cask.Builder
	loaded      []cask.Module
	enumerated  bool
	descriptors []ModuleDescriptor
}

// NewShadow returns a Shadow over a fresh builder.
func NewShadow() *Shadow {
	return &Shadow{builder: cask.NewBuilder()}
}

// Load records the module and registers it on the underlying builder, so a
// later Build sees exactly what production wiring would.
//
// It panics with ErrNilModule when m is nil.
func (s *Shadow) Load(m cask.Module) *Shadow {
	if m == nil {
		panic(ErrNilModule)
	}
	s.loaded = append(s.loaded, m)
	s.builder.RegisterModule(m)
	return s
}

// Builder exposes the underlying builder, e.g. to finish with a real Build
// after the composition has been asserted.
func (s *Shadow) Builder() *cask.Builder { return s.builder }

// Modules returns descriptors for every module reachable from the loaded
// set, in discovery order with duplicates removed. The first call runs the
// traversal and fixes the result; later calls return the same set even if
// further modules are loaded afterwards.
func (s *Shadow) Modules() []ModuleDescriptor {
	if !s.enumerated {
		s.descriptors = discoverModules(s.loaded)
		s.enumerated = true
	}
	cp := make([]ModuleDescriptor, len(s.descriptors))
	copy(cp, s.descriptors)
	return cp
}

// discoverModules walks the module graph as an explicit worklist with a
// visited set keyed by module type: each unvisited module's Configure runs
// once against a fresh probe builder, and the modules the probe captured
// join the queue. Cyclic or diamond-shaped module graphs therefore
// terminate, and no module configures twice.
func discoverModules(seed []cask.Module) []ModuleDescriptor {
	var out []ModuleDescriptor
	seen := make(map[reflect.Type]bool)
	queue := append([]cask.Module(nil), seed...)
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		d := DescribeModule(m)
		if seen[d.Type] {
			continue
		}
		seen[d.Type] = true
		out = append(out, d)

		probe := cask.NewBuilder()
		m.Configure(probe)
		queue = append(queue, probe.Modules()...)
	}
	return out
}
