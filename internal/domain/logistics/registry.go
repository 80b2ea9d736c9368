package logistics

import (
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// Registry derives the outstanding requests of a colony from its stores.
// Collect is deterministic for a given snapshot and never mutates a store.
type Registry struct{}

func NewRegistry() *Registry {
	return &Registry{}
}

// Collect returns requests in declaration order: home structures, outpost
// structures, piles, then tombstones and ruins.
func (reg *Registry) Collect(c *colony.Colony) []*Request {
	var requests []*Request

	appendStructures := func(outpost bool) {
		for _, s := range c.Structures() {
			if s.Outpost() != outpost || !s.Alive() {
				continue
			}
			if r := structureRequest(s); r != nil {
				requests = append(requests, r)
			}
		}
	}
	appendStructures(false)
	appendStructures(true)

	for _, p := range c.Piles() {
		if !p.Alive() {
			continue
		}
		r, err := NewRequest(RequestSpec{
			Target:    p,
			Resource:  p.Resource(),
			Amount:    -p.Amount(),
			Rate:      float64(p.Decay()),
			ExpiresIn: p.ExpiresIn(),
		})
		if err == nil {
			requests = append(requests, r)
		}
	}

	for _, rem := range c.Remains() {
		if !rem.Alive() {
			continue
		}
		r, err := NewRequest(RequestSpec{
			Target:    rem,
			Resource:  shared.ResourceAll,
			Amount:    -rem.Store().UsedCapacity(),
			ExpiresIn: rem.ExpiresIn(),
		})
		if err == nil {
			requests = append(requests, r)
		}
	}

	for i, r := range requests {
		r.index = i
	}
	return requests
}

func structureRequest(s *colony.Structure) *Request {
	store := s.Store()
	var amount int

	switch s.Role() {
	case colony.RoleConsumer:
		amount = s.Level() - store.Contents(s.Resource())
		if free := store.FreeCapacity(s.Resource()); amount > free {
			amount = free
		}
		if amount <= 0 {
			return nil
		}
	case colony.RoleProvider:
		surplus := store.Contents(s.Resource()) - s.Level()
		if surplus <= 0 {
			return nil
		}
		amount = -surplus
	default:
		return nil
	}

	r, err := NewRequest(RequestSpec{
		Target:     s,
		Resource:   s.Resource(),
		Amount:     amount,
		Multiplier: s.Multiplier(),
		Priority:   Priority(s.Priority()),
		// contents consumed grow the demand; contents produced grow the surplus
		Rate: -s.Rate(),
	})
	if err != nil {
		return nil
	}
	return r
}
