package logistics

import (
	"fmt"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// Priority is a request tier; lower values are served first regardless of score
type Priority int

const (
	PriorityCritical Priority = 1
	PriorityHigh     Priority = 2
	PriorityNormal   Priority = 3
	PriorityLow      Priority = 4
)

// RequestSpec declares a request before it is numbered by the registry
type RequestSpec struct {
	Target     colony.Target
	Resource   shared.ResourceType
	Amount     int
	Multiplier float64
	Priority   Priority
	// Rate is the per-tick change of Amount (production, consumption or decay)
	Rate float64
	// ExpiresIn is the number of ticks until the target vanishes (0 = never)
	ExpiresIn int
}

// Request is a signed supply/demand declaration valid for a single tick.
// Amount > 0 means the target wants input; Amount < 0 means it has surplus.
// Amount is the remaining delta and only ever moves toward zero.
type Request struct {
	id         string
	target     colony.Target
	resource   shared.ResourceType
	original   int
	amount     int
	multiplier float64
	priority   Priority
	rate       float64
	expiresIn  int
	index      int
	discarded  bool
}

// NewRequest creates a request with validation
func NewRequest(spec RequestSpec) (*Request, error) {
	if spec.Target == nil {
		return nil, shared.NewValidationError("target", "request target cannot be nil")
	}
	if spec.Resource == "" {
		return nil, shared.NewValidationError("resource", "request resource cannot be empty")
	}
	if spec.Multiplier < 0 {
		return nil, shared.NewValidationError("multiplier", "multiplier cannot be negative")
	}
	if spec.ExpiresIn < 0 {
		return nil, shared.NewValidationError("expires_in", "cannot be negative")
	}

	multiplier := spec.Multiplier
	if multiplier == 0 {
		multiplier = 1
	}
	priority := spec.Priority
	if priority == 0 {
		priority = PriorityNormal
	}

	return &Request{
		id:         fmt.Sprintf("%s:%s", spec.Target.ID(), spec.Resource),
		target:     spec.Target,
		resource:   spec.Resource,
		original:   spec.Amount,
		amount:     spec.Amount,
		multiplier: multiplier,
		priority:   priority,
		rate:       spec.Rate,
		expiresIn:  spec.ExpiresIn,
	}, nil
}

func (r *Request) ID() string                    { return r.id }
func (r *Request) Target() colony.Target         { return r.target }
func (r *Request) Resource() shared.ResourceType { return r.resource }
func (r *Request) Amount() int                   { return r.amount }
func (r *Request) Original() int                 { return r.original }
func (r *Request) Multiplier() float64           { return r.multiplier }
func (r *Request) Priority() Priority            { return r.priority }
func (r *Request) Rate() float64                 { return r.rate }
func (r *Request) ExpiresIn() int                { return r.expiresIn }
func (r *Request) Index() int                    { return r.index }

// IsInput reports whether the target wants resources delivered
func (r *Request) IsInput() bool { return r.amount > 0 }

// IsOutput reports whether the target wants resources taken away
func (r *Request) IsOutput() bool { return r.amount < 0 }

// IsVoid reports whether nothing is left to move this tick
func (r *Request) IsVoid() bool { return r.amount == 0 || r.discarded }

// Discarded reports whether the request was dropped from matching
func (r *Request) Discarded() bool { return r.discarded }

// Magnitude returns the absolute remaining delta
func (r *Request) Magnitude() int {
	if r.amount < 0 {
		return -r.amount
	}
	return r.amount
}

// Committed returns how much of the original delta has been claimed
func (r *Request) Committed() int {
	return absInt(r.original) - r.Magnitude()
}

// Shrink moves the remaining delta toward zero by up to quantity and returns
// the amount actually claimed. The delta never crosses zero.
func (r *Request) Shrink(quantity int) int {
	if quantity <= 0 || r.IsVoid() {
		return 0
	}
	if quantity > r.Magnitude() {
		quantity = r.Magnitude()
	}
	if r.amount > 0 {
		r.amount -= quantity
	} else {
		r.amount += quantity
	}
	return quantity
}

// CheckResolvable returns a configuration error when the request can never be
// turned into a valid task.
func (r *Request) CheckResolvable() error {
	if r.IsInput() && colony.IsGround(r.target) {
		return NewImproperRequestError(r.id)
	}
	if !r.resource.IsWildcard() {
		return nil
	}
	if r.IsInput() {
		return NewWildcardWithdrawError(r.id, "cannot request the wildcard as input")
	}
	if r.target.Class() == colony.ClassPile {
		return NewWildcardWithdrawError(r.id, "cannot pick up the wildcard from a pile")
	}
	return nil
}

func (r *Request) String() string {
	return fmt.Sprintf("%s %+d/%+d (x%.2f p%d)", r.id, r.amount, r.original, r.multiplier, r.priority)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
