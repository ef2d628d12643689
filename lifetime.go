package cask

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// LifetimeKind enumerates where instances produced by a registration live.
//
// The set is closed: Root, CurrentScope and MatchingScope cover every
// strategy the builder can attach to a registration. Together with Sharing
// they express the usual container idioms (see the RegistrationBuilder
// lifetime helpers).
type LifetimeKind int

const (
	// Root pins instances to the container's root scope.
	Root LifetimeKind = iota

	// CurrentScope ties instances to whichever scope resolves them.
	CurrentScope

	// MatchingScope walks from the resolving scope towards the root and
	// picks the nearest enclosing scope that carries one of the lifetime's
	// tags.
	MatchingScope
)

// String returns a short human-readable name for the kind.
func (k LifetimeKind) String() string {
	switch k {
	case Root:
		return "root scope"
	case CurrentScope:
		return "current scope"
	case MatchingScope:
		return "matching scope"
	default:
		return "unknown scope"
	}
}

// Lifetime describes where a registration's instances live: a kind plus, for
// MatchingScope lifetimes, the scope tags the resolver matches against.
//
// Lifetime values are immutable; the constructors copy their tag slices and
// the accessors hand out copies.
type Lifetime struct {
	kind LifetimeKind
	tags []any
}

// RootLifetime returns the lifetime that pins instances to the root scope.
func RootLifetime() Lifetime { return Lifetime{kind: Root} }

// CurrentScopeLifetime returns the lifetime that ties instances to the
// resolving scope.
func CurrentScopeLifetime() Lifetime { return Lifetime{kind: CurrentScope} }

// MatchingScopeLifetime returns the lifetime that resolves against the
// nearest enclosing scope carrying one of the given tags.
//
// Tags must be comparable values. Scope tags are typically package-level
// constants so registration and BeginScope calls cannot drift apart.
func MatchingScopeLifetime(tags ...any) Lifetime {
	cp := make([]any, len(tags))
	copy(cp, tags)
	return Lifetime{kind: MatchingScope, tags: cp}
}

// Kind returns the lifetime's kind.
func (l Lifetime) Kind() LifetimeKind { return l.kind }

// Tags returns a copy of the scope tags. It is nil for lifetimes that do not
// match on tags.
func (l Lifetime) Tags() []any {
	if len(l.tags) == 0 {
		return nil
	}
	cp := make([]any, len(l.tags))
	copy(cp, l.tags)
	return cp
}

// HasTag reports whether the lifetime carries the given scope tag.
func (l Lifetime) HasTag(tag any) bool {
	for _, t := range l.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// String renders the lifetime for diagnostics, including tags when present.
func (l Lifetime) String() string {
	if l.kind != MatchingScope || len(l.tags) == 0 {
		return l.kind.String()
	}
	parts := make([]string, len(l.tags))
	for i, t := range l.tags {
		parts[i] = tagString(t)
	}
	return l.kind.String() + " tagged " + strings.Join(parts, ", ")
}

func tagString(tag any) string {
	switch t := tag.(type) {
	case string:
		return strconv.Quote(t)
	case interface{ String() string }:
		return t.String()
	default:
		return fmt.Sprintf("%v", tag)
	}
}

// Sharing controls whether a resolved instance is reused within the scope
// that owns it.
type Sharing int

const (
	// SharingNone activates a fresh instance for every resolve request.
	SharingNone Sharing = iota

	// SharingShared caches the first instance in its owning scope and hands
	// it out on every later request from that scope.
	SharingShared
)

// String returns a short human-readable name for the sharing mode.
func (s Sharing) String() string {
	switch s {
	case SharingNone:
		return "none"
	case SharingShared:
		return "shared"
	default:
		return "unknown sharing"
	}
}

// Ownership controls whether the owning scope disposes instances it
// produced.
type Ownership int

const (
	// OwnedByLifetimeScope lets the owning scope close instances that
	// implement io.Closer when the scope itself closes.
	OwnedByLifetimeScope Ownership = iota

	// ExternallyOwned leaves disposal entirely to the caller; the scope
	// never tracks the instance.
	ExternallyOwned
)

// String returns a short human-readable name for the ownership mode.
func (o Ownership) String() string {
	switch o {
	case OwnedByLifetimeScope:
		return "owned by lifetime scope"
	case ExternallyOwned:
		return "externally owned"
	default:
		return "unknown ownership"
	}
}

// RequestScopeTag tags lifetime scopes that represent a single inbound unit
// of work, typically a request. InstancePerRequest registrations resolve
// against the nearest scope carrying this tag.
const RequestScopeTag = "request"

// ownedScopeTag discriminates scopes opened around an owned instance of a
// specific contract, so per-owned registrations from different owners never
// collide.
type ownedScopeTag struct{ contract reflect.Type }

// String renders the tag for lifetime diagnostics.
func (t ownedScopeTag) String() string { return "owned:" + t.contract.String() }

// OwnedScopeTag returns the scope tag for lifetime scopes opened around an
// owned instance of the given contract. The contract is written the same way
// as in registration calls: an interface pointer such as (*Store)(nil), a
// reflect.Type, or any value of the concrete type.
//
// It panics with ErrNilContract when contract is nil.
func OwnedScopeTag(contract any) any {
	return ownedScopeTag{contract: ContractOf(contract)}
}
