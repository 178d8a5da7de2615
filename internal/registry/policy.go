package registry

import "strings"

// CreationPolicy decides who may mint resources.
type CreationPolicy interface {
	CanCreate(caller, registryOwner string) bool
}

// OpenPolicy lets any authenticated account create resources.
type OpenPolicy struct{}

func (OpenPolicy) CanCreate(caller, _ string) bool {
	return caller != ""
}

// OwnerOnlyPolicy restricts creation to the registry owner.
type OwnerOnlyPolicy struct{}

func (OwnerOnlyPolicy) CanCreate(caller, registryOwner string) bool {
	return caller != "" && caller == registryOwner
}

// ParsePolicy maps a configuration value ("open" or "owner") to a policy.
func ParsePolicy(name string) (CreationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "open":
		return OpenPolicy{}, nil
	case "owner":
		return OwnerOnlyPolicy{}, nil
	default:
		return nil, ErrUnknownPolicy
	}
}
