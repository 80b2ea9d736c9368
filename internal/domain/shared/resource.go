package shared

// ResourceType identifies a fungible resource carried between stores
type ResourceType string

const (
	// ResourceEnergy is the primary transport resource
	ResourceEnergy ResourceType = "energy"

	// ResourcePower is a secondary resource some structures consume
	ResourcePower ResourceType = "power"

	// ResourceAll is the wildcard meaning "any resource". It is only valid on
	// output requests (withdraw everything), never as a concrete withdrawal.
	ResourceAll ResourceType = "all"
)

// IsWildcard reports whether r is the "any resource" wildcard
func (r ResourceType) IsWildcard() bool {
	return r == ResourceAll
}

// IsPrimary reports whether r is the primary transport resource
func (r ResourceType) IsPrimary() bool {
	return r == ResourceEnergy
}

func (r ResourceType) String() string {
	return string(r)
}
