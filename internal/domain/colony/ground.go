package colony

import (
	"fmt"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// Pile is a resource lying on the ground. It loses Decay units every tick and
// disappears once empty.
type Pile struct {
	id       string
	pos      shared.Position
	resource shared.ResourceType
	amount   int
	decay    int
}

// NewPile creates a ground pile with validation
func NewPile(id string, pos shared.Position, resource shared.ResourceType, amount, decay int) (*Pile, error) {
	if id == "" {
		return nil, shared.NewValidationError("id", "pile id cannot be empty")
	}
	if amount < 0 || decay < 0 {
		return nil, shared.NewValidationError("amount", "pile amount and decay cannot be negative")
	}
	if resource == "" {
		return nil, shared.NewValidationError("resource", "pile must declare a resource")
	}
	return &Pile{id: id, pos: pos, resource: resource, amount: amount, decay: decay}, nil
}

func (p *Pile) ID() string                    { return p.id }
func (p *Pile) Pos() shared.Position          { return p.pos }
func (p *Pile) Class() TargetClass            { return ClassPile }
func (p *Pile) Alive() bool                   { return p.amount > 0 }
func (p *Pile) Resource() shared.ResourceType { return p.resource }
func (p *Pile) Amount() int                   { return p.amount }
func (p *Pile) Decay() int                    { return p.decay }

// ExpiresIn returns ticks until the pile has decayed away (0 = never)
func (p *Pile) ExpiresIn() int {
	if p.decay == 0 {
		return 0
	}
	return (p.amount + p.decay - 1) / p.decay
}

// Take removes up to units and returns what was taken
func (p *Pile) Take(units int) int {
	if units > p.amount {
		units = p.amount
	}
	if units < 0 {
		return 0
	}
	p.amount -= units
	return units
}

// Add grows the pile (agents dropping onto it)
func (p *Pile) Add(units int) {
	if units > 0 {
		p.amount += units
	}
}

// Tick applies one tick of decay
func (p *Pile) Tick() {
	p.amount -= p.decay
	if p.amount < 0 {
		p.amount = 0
	}
}

func (p *Pile) String() string {
	return fmt.Sprintf("pile %s %d %s@%s", p.id, p.amount, p.resource, p.pos)
}

// Remains is a tombstone or ruin: a store that can only be emptied and
// vanishes after a while.
type Remains struct {
	id        string
	class     TargetClass
	pos       shared.Position
	store     *shared.Store
	expiresIn int
}

// NewRemains creates a tombstone or ruin
func NewRemains(id string, class TargetClass, pos shared.Position, store *shared.Store, expiresIn int) (*Remains, error) {
	if class != ClassTombstone && class != ClassRuin {
		return nil, shared.NewValidationError("class", fmt.Sprintf("remains cannot be of class %s", class))
	}
	if store == nil {
		return nil, shared.NewValidationError("store", "remains need a store")
	}
	if expiresIn <= 0 {
		return nil, shared.NewValidationError("expires_in", "remains must expire")
	}
	return &Remains{id: id, class: class, pos: pos, store: store, expiresIn: expiresIn}, nil
}

func (r *Remains) ID() string           { return r.id }
func (r *Remains) Pos() shared.Position { return r.pos }
func (r *Remains) Class() TargetClass   { return r.class }
func (r *Remains) Store() *shared.Store { return r.store }
func (r *Remains) ExpiresIn() int       { return r.expiresIn }

// Alive is false once the remains expired or were emptied
func (r *Remains) Alive() bool {
	return r.expiresIn > 0 && !r.store.IsEmpty()
}

// Tick counts down the remaining lifetime
func (r *Remains) Tick() {
	if r.expiresIn > 0 {
		r.expiresIn--
	}
}
