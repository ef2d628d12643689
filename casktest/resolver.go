package casktest

import (
	"github.com/casklabs/cask"
)

// defaultParameterSource is the capability a reflection-constructor
// activator exposes for recorded-parameter introspection. It is asserted
// structurally rather than against a concrete activator type, so a container
// change that drops or reshapes the capability degrades to "no parameters"
// instead of breaking every parameter assertion at once.
type defaultParameterSource interface {
	DefaultParameters() []cask.Parameter
}

// defaultParameters recovers the default parameters recorded on a
// registration, in declaration order.
//
// Recovery is best effort: factory and instance activators have no
// constructor argument list, and an activator without the capability answers
// nothing. In both cases the defined result is an empty list, never an
// error, so parameter assertions against such registrations fail with an
// ordinary "no parameter recorded" message.
func defaultParameters(reg *cask.Registration) []cask.Parameter {
	src, ok := reg.Activator().(defaultParameterSource)
	if !ok {
		return nil
	}
	return src.DefaultParameters()
}

// lookupRegistration finds the default registration exposing the contract as
// a plain typed service. A missing registration surfaces the container's own
// NotRegisteredError untouched.
func lookupRegistration(c *cask.Container, svc cask.Service) (*cask.Registration, error) {
	return c.Registry().RegistrationFor(svc)
}
