package cask_test

import (
	"testing"

	"github.com/casklabs/cask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// LifetimeKind
func TestLifetimeKind_String(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		kind cask.LifetimeKind
		want string
	}{
		{name: "root", kind: cask.Root, want: "root scope"},
		{name: "current", kind: cask.CurrentScope, want: "current scope"},
		{name: "matching", kind: cask.MatchingScope, want: "matching scope"},
		{name: "unknown", kind: cask.LifetimeKind(42), want: "unknown scope"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.kind.String())
		})
	}
}

// Lifetime constructors
func TestLifetime_Kinds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cask.Root, cask.RootLifetime().Kind())
	assert.Equal(t, cask.CurrentScope, cask.CurrentScopeLifetime().Kind())
	assert.Equal(t, cask.MatchingScope, cask.MatchingScopeLifetime("a").Kind())

	assert.Nil(t, cask.RootLifetime().Tags())
	assert.Nil(t, cask.CurrentScopeLifetime().Tags())
}

func TestLifetime_TagsAreCopied(t *testing.T) {
	t.Parallel()

	src := []any{"request", "job"}
	lt := cask.MatchingScopeLifetime(src...)

	// Mutating the input slice must not reach the lifetime.
	src[0] = "mutated"
	require.True(t, lt.HasTag("request"))
	assert.False(t, lt.HasTag("mutated"))

	// Mutating the returned copy must not reach the lifetime either.
	got := lt.Tags()
	require.Len(t, got, 2)
	got[1] = "mutated"
	assert.True(t, lt.HasTag("job"))
}

func TestLifetime_HasTag(t *testing.T) {
	t.Parallel()

	lt := cask.MatchingScopeLifetime("request", 7)

	assert.True(t, lt.HasTag("request"))
	assert.True(t, lt.HasTag(7))
	assert.False(t, lt.HasTag("job"))
	assert.False(t, cask.RootLifetime().HasTag("request"))
}

func TestLifetime_String(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		lt   cask.Lifetime
		want string
	}{
		{name: "root", lt: cask.RootLifetime(), want: "root scope"},
		{name: "current", lt: cask.CurrentScopeLifetime(), want: "current scope"},
		{
			name: "matching with string tags",
			lt:   cask.MatchingScopeLifetime("request", "job"),
			want: `matching scope tagged "request", "job"`,
		},
		{
			name: "matching with non-string tag",
			lt:   cask.MatchingScopeLifetime(7),
			want: "matching scope tagged 7",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.lt.String())
		})
	}
}

// Sharing / Ownership
func TestSharingAndOwnership_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", cask.SharingNone.String())
	assert.Equal(t, "shared", cask.SharingShared.String())
	assert.Equal(t, "unknown sharing", cask.Sharing(9).String())

	assert.Equal(t, "owned by lifetime scope", cask.OwnedByLifetimeScope.String())
	assert.Equal(t, "externally owned", cask.ExternallyOwned.String())
	assert.Equal(t, "unknown ownership", cask.Ownership(9).String())
}

// OwnedScopeTag
func TestOwnedScopeTag(t *testing.T) {
	t.Parallel()

	tagA := cask.OwnedScopeTag((*Cache)(nil))
	tagB := cask.OwnedScopeTag((*Cache)(nil))
	other := cask.OwnedScopeTag(&memCache{})

	// Tags for the same contract are interchangeable as map keys and in
	// lifetime tag matching.
	assert.Equal(t, tagA, tagB)
	assert.NotEqual(t, tagA, other)

	lt := cask.MatchingScopeLifetime(tagA)
	assert.True(t, lt.HasTag(tagB))
	assert.False(t, lt.HasTag(other))

	require.PanicsWithError(t, cask.ErrNilContract.Error(), func() {
		cask.OwnedScopeTag(nil)
	})
}

func TestRequestScopeTag_Value(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "request", cask.RequestScopeTag)
}
