package colony

import (
	"fmt"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// Role decides what requests a structure publishes
type Role string

const (
	// RoleConsumer wants its resource filled up to a level
	RoleConsumer Role = "consumer"
	// RoleProvider wants everything above a keep level taken away
	RoleProvider Role = "provider"
	// RoleHub is a general store (storage, terminal) used as a buffer and sink
	RoleHub Role = "hub"
	// RoleRelay is a dropoff point with a contention signal (link)
	RoleRelay Role = "relay"
)

// Well known structure kinds
const (
	KindStorage         = "storage"
	KindTerminal        = "terminal"
	KindHatcheryBattery = "hatchery_battery"
)

// StructureSpec holds the declared shape of a structure
type StructureSpec struct {
	ID         string
	Kind       string
	Role       Role
	Pos        shared.Position
	Store      *shared.Store
	Resource   shared.ResourceType
	Level      int
	Rate       float64
	Multiplier float64
	Priority   int
	Outpost    bool
}

// Structure is a store-bearing building of the colony
type Structure struct {
	id                  string
	kind                string
	role                Role
	pos                 shared.Position
	store               *shared.Store
	resource            shared.ResourceType
	level               int
	rate                float64
	multiplier          float64
	priority            int
	outpost             bool
	dropoffAvailability int
	alive               bool
}

// NewStructure creates a structure with validation
func NewStructure(spec StructureSpec) (*Structure, error) {
	if spec.ID == "" {
		return nil, shared.NewValidationError("id", "structure id cannot be empty")
	}
	if spec.Store == nil {
		return nil, shared.NewValidationError("store", fmt.Sprintf("structure %s has no store", spec.ID))
	}
	switch spec.Role {
	case RoleConsumer, RoleProvider:
		if spec.Resource == "" {
			return nil, shared.NewValidationError("resource", fmt.Sprintf("structure %s must declare a resource", spec.ID))
		}
	case RoleHub, RoleRelay:
	default:
		return nil, shared.NewValidationError("role", fmt.Sprintf("unknown role %q", spec.Role))
	}
	if spec.Level < 0 {
		return nil, shared.NewValidationError("level", "level cannot be negative")
	}
	if spec.Multiplier < 0 {
		return nil, shared.NewValidationError("multiplier", "multiplier cannot be negative")
	}

	multiplier := spec.Multiplier
	if multiplier == 0 {
		multiplier = 1
	}
	resource := spec.Resource
	if resource == "" && spec.Role == RoleRelay {
		resource = shared.ResourceEnergy
	}

	return &Structure{
		id:         spec.ID,
		kind:       spec.Kind,
		role:       spec.Role,
		pos:        spec.Pos,
		store:      spec.Store,
		resource:   resource,
		level:      spec.Level,
		rate:       spec.Rate,
		multiplier: multiplier,
		priority:   spec.Priority,
		outpost:    spec.Outpost,
		alive:      true,
	}, nil
}

func (s *Structure) ID() string                    { return s.id }
func (s *Structure) Kind() string                  { return s.kind }
func (s *Structure) Role() Role                    { return s.role }
func (s *Structure) Pos() shared.Position          { return s.pos }
func (s *Structure) Class() TargetClass            { return ClassStructure }
func (s *Structure) Alive() bool                   { return s.alive }
func (s *Structure) Store() *shared.Store          { return s.store }
func (s *Structure) Resource() shared.ResourceType { return s.resource }
func (s *Structure) Rate() float64                 { return s.rate }
func (s *Structure) Multiplier() float64           { return s.multiplier }
func (s *Structure) Priority() int                 { return s.priority }
func (s *Structure) Outpost() bool                 { return s.outpost }

// Level returns the fill target for consumers (full capacity when unset) and
// the keep level for providers.
func (s *Structure) Level() int {
	if s.role == RoleConsumer && s.level == 0 {
		return s.store.Capacity(s.resource)
	}
	return s.level
}

// DropoffAvailability is the number of ticks until a relay can accept a
// delivery again. Zero means immediately.
func (s *Structure) DropoffAvailability() int {
	return s.dropoffAvailability
}

// SetDropoffAvailability updates the relay contention signal
func (s *Structure) SetDropoffAvailability(ticks int) {
	if ticks < 0 {
		ticks = 0
	}
	s.dropoffAvailability = ticks
}

// Destroy marks the structure gone; pending requests against it become no-ops
func (s *Structure) Destroy() {
	s.alive = false
}

func (s *Structure) String() string {
	return fmt.Sprintf("%s@%s", s.id, s.pos)
}
