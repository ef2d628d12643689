package cask

import (
	"reflect"
	"strconv"
)

// contractTypeOf normalizes a caller-supplied contract into a reflect.Type.
//
// Accepted forms:
//   - a reflect.Type, used as-is
//   - a pointer to an interface, e.g. (*Store)(nil), yielding the interface
//   - any other value, yielding its concrete type
//
// The interface-pointer form exists because interface types have no value to
// pass; a typed nil pointer carries the type without allocating anything.
func contractTypeOf(contract any) (reflect.Type, error) {
	if contract == nil {
		return nil, ErrNilContract
	}
	if t, ok := contract.(reflect.Type); ok {
		if t == nil {
			return nil, ErrNilContract
		}
		return t, nil
	}
	t := reflect.TypeOf(contract)
	if t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Interface {
		return t.Elem(), nil
	}
	return t, nil
}

// ContractOf derives the contract type from a caller-supplied value, using
// the same rules as the Builder registration calls: reflect.Type values pass
// through, interface pointers such as (*Store)(nil) yield the interface
// type, and anything else yields its concrete type.
//
// It panics with ErrNilContract when contract is nil; use it for inputs that
// are fixed at wiring time.
func ContractOf(contract any) reflect.Type {
	t, err := contractTypeOf(contract)
	if err != nil {
		panic(err)
	}
	return t
}

// serviceKey is the comparable identity a Service resolves to inside the
// registry index. key is nil for plain typed services.
type serviceKey struct {
	typ reflect.Type
	key any
}

// Service identifies the contract under which a registration is exposed.
//
// The implementation set is closed: TypedService exposes a registration by
// contract type alone, KeyedService by contract type plus a comparable key.
// A named service is a keyed service whose key is a string.
type Service interface {
	// ServiceType returns the contract type the service exposes.
	ServiceType() reflect.Type

	// String renders the service for error and failure messages.
	String() string

	// lookupKey restricts implementations to this package and yields the
	// registry index identity.
	lookupKey() serviceKey
}

// TypedService exposes a registration by contract type alone.
type TypedService struct {
	Type reflect.Type
}

// NewTypedService builds a TypedService from a contract value.
//
// It panics with ErrNilContract when contract is nil.
func NewTypedService(contract any) TypedService {
	return TypedService{Type: ContractOf(contract)}
}

// ServiceType implements Service.
func (s TypedService) ServiceType() reflect.Type { return s.Type }

// String implements Service.
func (s TypedService) String() string { return s.Type.String() }

func (s TypedService) lookupKey() serviceKey { return serviceKey{typ: s.Type} }

// KeyedService exposes a registration by contract type plus a key.
//
// Keys must be comparable values; string keys make the service a named
// service.
type KeyedService struct {
	Key  any
	Type reflect.Type
}

// NewKeyedService builds a KeyedService from a key and a contract value.
//
// It panics with ErrNilContract when contract is nil.
func NewKeyedService(key any, contract any) KeyedService {
	return KeyedService{Key: key, Type: ContractOf(contract)}
}

// NewNamedService builds the KeyedService for a named registration.
//
// It panics with ErrNilContract when contract is nil.
func NewNamedService(name string, contract any) KeyedService {
	return NewKeyedService(name, contract)
}

// ServiceType implements Service.
func (s KeyedService) ServiceType() reflect.Type { return s.Type }

// String implements Service.
func (s KeyedService) String() string {
	// Example: widgets.Store keyed "primary"
	if name, ok := s.Key.(string); ok {
		return s.Type.String() + " keyed " + strconv.Quote(name)
	}
	return s.Type.String() + " keyed " + tagString(s.Key)
}

func (s KeyedService) lookupKey() serviceKey { return serviceKey{typ: s.Type, key: s.Key} }
