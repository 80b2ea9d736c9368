package shared

import (
	"fmt"
	"sort"
	"strings"
)

// Store is a bounded multi-resource inventory. Capacity is either aggregate
// (shared by every resource) or per-resource when limits are set: a store with
// limits only accepts the resources it has a limit for.
type Store struct {
	capacity int
	limits   map[ResourceType]int
	contents map[ResourceType]int
}

// NewStore creates an aggregate-capacity store with validation
func NewStore(capacity int, contents map[ResourceType]int) (*Store, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("store capacity cannot be negative")
	}

	s := &Store{
		capacity: capacity,
		contents: make(map[ResourceType]int),
	}
	used := 0
	for r, units := range contents {
		if units < 0 {
			return nil, fmt.Errorf("store contents for %s cannot be negative", r)
		}
		if r.IsWildcard() {
			return nil, fmt.Errorf("store cannot hold the wildcard resource")
		}
		if units > 0 {
			s.contents[r] = units
			used += units
		}
	}
	if used > capacity {
		return nil, fmt.Errorf("store units %d exceed capacity %d", used, capacity)
	}

	return s, nil
}

// NewLimitedStore creates a store with a separate capacity per resource
func NewLimitedStore(limits map[ResourceType]int, contents map[ResourceType]int) (*Store, error) {
	total := 0
	for r, limit := range limits {
		if limit < 0 {
			return nil, fmt.Errorf("store limit for %s cannot be negative", r)
		}
		total += limit
	}

	s, err := NewStore(total, contents)
	if err != nil {
		return nil, err
	}

	s.limits = make(map[ResourceType]int, len(limits))
	for r, limit := range limits {
		s.limits[r] = limit
	}
	for r, units := range s.contents {
		limit, ok := s.limits[r]
		if !ok {
			return nil, fmt.Errorf("store does not accept %s", r)
		}
		if units > limit {
			return nil, fmt.Errorf("store units %d of %s exceed limit %d", units, r, limit)
		}
	}

	return s, nil
}

// MustNewStore is NewStore for fixtures; it panics on invalid input
func MustNewStore(capacity int, contents map[ResourceType]int) *Store {
	s, err := NewStore(capacity, contents)
	if err != nil {
		panic(err)
	}
	return s
}

// Contents returns units of r held (total units for the wildcard)
func (s *Store) Contents(r ResourceType) int {
	if r.IsWildcard() {
		return s.UsedCapacity()
	}
	return s.contents[r]
}

// UsedCapacity returns the total units held
func (s *Store) UsedCapacity() int {
	used := 0
	for _, units := range s.contents {
		used += units
	}
	return used
}

// Capacity returns the capacity available to r (aggregate for the wildcard)
func (s *Store) Capacity(r ResourceType) int {
	if s.limits == nil || r.IsWildcard() {
		return s.capacity
	}
	return s.limits[r]
}

// FreeCapacity returns how many more units of r fit
func (s *Store) FreeCapacity(r ResourceType) int {
	if s.limits != nil && !r.IsWildcard() {
		limit, ok := s.limits[r]
		if !ok {
			return 0
		}
		return limit - s.contents[r]
	}
	return s.capacity - s.UsedCapacity()
}

// Accepts reports whether the store can ever hold r
func (s *Store) Accepts(r ResourceType) bool {
	if r.IsWildcard() {
		return false
	}
	if s.limits == nil {
		return s.capacity > 0
	}
	_, ok := s.limits[r]
	return ok
}

// Resources returns held resource types in a stable order
func (s *Store) Resources() []ResourceType {
	out := make([]ResourceType, 0, len(s.contents))
	for r, units := range s.contents {
		if units > 0 {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasOtherThan checks if the store holds anything besides r
func (s *Store) HasOtherThan(r ResourceType) bool {
	for res, units := range s.contents {
		if res != r && units > 0 {
			return true
		}
	}
	return false
}

// HasNonPrimary checks if the store holds any resource other than energy
func (s *Store) HasNonPrimary() bool {
	return s.HasOtherThan(ResourceEnergy)
}

// IsEmpty checks if nothing is held
func (s *Store) IsEmpty() bool {
	return s.UsedCapacity() == 0
}

// IsFull checks if no aggregate capacity is left
func (s *Store) IsFull() bool {
	return s.UsedCapacity() >= s.capacity
}

// Add stores up to units of r and returns the amount actually added
func (s *Store) Add(r ResourceType, units int) int {
	if units <= 0 || r.IsWildcard() {
		return 0
	}
	added := units
	if free := s.FreeCapacity(r); added > free {
		added = free
	}
	if added <= 0 {
		return 0
	}
	s.contents[r] += added
	return added
}

// Remove takes up to units of r and returns the amount actually removed
func (s *Store) Remove(r ResourceType, units int) int {
	if units <= 0 || r.IsWildcard() {
		return 0
	}
	removed := units
	if held := s.contents[r]; removed > held {
		removed = held
	}
	s.contents[r] -= removed
	if s.contents[r] == 0 {
		delete(s.contents, r)
	}
	return removed
}

// Clone returns a deep copy so snapshots can be mutated independently
func (s *Store) Clone() *Store {
	c := &Store{
		capacity: s.capacity,
		contents: make(map[ResourceType]int, len(s.contents)),
	}
	for r, units := range s.contents {
		c.contents[r] = units
	}
	if s.limits != nil {
		c.limits = make(map[ResourceType]int, len(s.limits))
		for r, limit := range s.limits {
			c.limits[r] = limit
		}
	}
	return c
}

func (s *Store) String() string {
	parts := make([]string, 0, len(s.contents))
	for _, r := range s.Resources() {
		parts = append(parts, fmt.Sprintf("%s:%d", r, s.contents[r]))
	}
	return fmt.Sprintf("Store(%d/%d %s)", s.UsedCapacity(), s.capacity, strings.Join(parts, ","))
}
