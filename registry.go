package cask

// Registry is the read-only index of a container's committed registrations.
//
// It answers two kinds of question: enumeration (Registrations,
// RegistrationsFor) and membership (IsRegistered and friends). Lookup never
// mutates anything, so a Registry is safe to share across assertion helpers
// and resolution once Build has produced it.
type Registry struct {
	order []*Registration
	byKey map[serviceKey][]*Registration
}

func newRegistry(regs []*Registration) *Registry {
	r := &Registry{
		order: regs,
		byKey: make(map[serviceKey][]*Registration, len(regs)),
	}
	for _, reg := range regs {
		for _, svc := range reg.services {
			k := svc.lookupKey()
			r.byKey[k] = append(r.byKey[k], reg)
		}
	}
	return r
}

// Registrations returns every committed registration in commit order.
func (r *Registry) Registrations() []*Registration {
	cp := make([]*Registration, len(r.order))
	copy(cp, r.order)
	return cp
}

// RegistrationsFor returns every registration exposing the service, oldest
// first. The final element is the default provider.
func (r *Registry) RegistrationsFor(svc Service) []*Registration {
	regs := r.byKey[svc.lookupKey()]
	if len(regs) == 0 {
		return nil
	}
	cp := make([]*Registration, len(regs))
	copy(cp, regs)
	return cp
}

// RegistrationFor returns the default provider for the service: the most
// recently committed registration exposing it. Later registrations override
// earlier ones without removing them.
//
// It returns a NotRegisteredError when nothing exposes the service.
func (r *Registry) RegistrationFor(svc Service) (*Registration, error) {
	regs := r.byKey[svc.lookupKey()]
	if len(regs) == 0 {
		return nil, NotRegisteredError{Service: svc}
	}
	return regs[len(regs)-1], nil
}

// IsRegistered reports whether any registration exposes the contract as a
// plain typed service.
//
// It panics with ErrNilContract when contract is nil.
func (r *Registry) IsRegistered(contract any) bool {
	return r.isRegistered(serviceKey{typ: ContractOf(contract)})
}

// IsRegisteredNamed reports whether any registration exposes the contract
// under the given service name.
//
// It panics with ErrNilContract when contract is nil.
func (r *Registry) IsRegisteredNamed(name string, contract any) bool {
	return r.isRegistered(serviceKey{typ: ContractOf(contract), key: name})
}

// IsRegisteredKeyed reports whether any registration exposes the contract
// under the given key.
//
// It panics with ErrNilContract when contract is nil.
func (r *Registry) IsRegisteredKeyed(key any, contract any) bool {
	return r.isRegistered(serviceKey{typ: ContractOf(contract), key: key})
}

func (r *Registry) isRegistered(k serviceKey) bool {
	return len(r.byKey[k]) > 0
}

// AutoActivates reports whether any registration exposing the contract as a
// plain typed service is flagged for activation at build time. This is the
// container's auto-activation policy; assertion helpers delegate to it
// rather than reading registration flags themselves.
//
// It panics with ErrNilContract when contract is nil.
func (r *Registry) AutoActivates(contract any) bool {
	k := serviceKey{typ: ContractOf(contract)}
	for _, reg := range r.byKey[k] {
		if reg.autoStart {
			return true
		}
	}
	return false
}
