package casktest_test

import (
	"testing"

	"github.com/casklabs/cask"
	"github.com/casklabs/cask/casktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameters_ReflectionRegistration(t *testing.T) {
	t.Parallel()

	c := paramContainer(t)

	params := casktest.Registration(t, c, (*Store)(nil)).Parameters()
	require.Len(t, params, 4)

	// Declaration order survives recovery.
	assert.Equal(t, cask.NamedParameter{Name: "region", Val: "eu-west-1"}, params[0])
	assert.Equal(t, cask.NamedParameter{Name: "auth", Val: creds{user: "svc", pass: "s3cr3t"}}, params[1])
	assert.Equal(t, cask.PositionalParameter{Index: 0, Val: 16}, params[2])
	assert.Equal(t, cask.Typed[int](42), params[3])
}

func TestParameters_ReturnsCopy(t *testing.T) {
	t.Parallel()

	c := paramContainer(t)
	a := casktest.Registration(t, c, (*Store)(nil))

	params := a.Parameters()
	require.Len(t, params, 4)
	params[0] = cask.PositionalParameter{Index: 9, Val: "mutated"}

	assert.Equal(t, cask.NamedParameter{Name: "region", Val: "eu-west-1"}, a.Parameters()[0])
}

// Factory and instance registrations have no constructor argument list; the
// defined parameter set for them is empty, not an error.
func TestParameters_NonConstructorRegistrations(t *testing.T) {
	t.Parallel()

	c := buildContainer(t, func(b *cask.Builder) {
		b.RegisterFactory(func(s *cask.Scope) *diskStore { return newDiskStore() }).As((*Store)(nil))
		b.RegisterInstance(newIndexer(newDiskStore()))
	})

	assert.Empty(t, casktest.Registration(t, c, (*Store)(nil)).Parameters())
	assert.Empty(t, casktest.Registration(t, c, (*indexer)(nil)).Parameters())
}

// A parameter check against a factory registration is an ordinary failure,
// not an error: the recovered set is empty, so the parameter is absent.
func TestParameterChecks_FactoryRegistrationFailsCleanly(t *testing.T) {
	t.Parallel()

	c := buildContainer(t, func(b *cask.Builder) {
		b.RegisterFactory(func(s *cask.Scope) *diskStore { return newDiskStore() }).As((*Store)(nil))
	})

	rt := &recordingT{}
	casktest.Registration(rt, c, (*Store)(nil)).WithParameter("region", "eu-west-1")

	require.Equal(t, 1, rt.count())
	assert.Equal(t,
		`expected a default parameter named "region" on the registration for casktest_test.Store, but none is recorded`,
		rt.last())
}

func TestParameters_ThroughRegistrationHandle(t *testing.T) {
	t.Parallel()

	c := paramContainer(t)
	reg, err := c.Registry().RegistrationFor(cask.NewTypedService((*Store)(nil)))
	require.NoError(t, err)

	params := casktest.RegistrationOf(t, c, reg).Parameters()
	require.Len(t, params, 4)
	assert.Equal(t, cask.NamedParameter{Name: "region", Val: "eu-west-1"}, params[0])
}
