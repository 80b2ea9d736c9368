package persistence

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/fleet"
)

// MemorySpawnQueue is an in-process SpawnQueue for offline runs and tests
type MemorySpawnQueue struct {
	mu       sync.Mutex
	requests map[string]map[string]fleet.SpawnRequest // colony -> role -> request
}

// NewMemorySpawnQueue creates an empty queue
func NewMemorySpawnQueue() *MemorySpawnQueue {
	return &MemorySpawnQueue{requests: make(map[string]map[string]fleet.SpawnRequest)}
}

func (q *MemorySpawnQueue) Wishlist(_ context.Context, request fleet.SpawnRequest) error {
	if request.ID == "" {
		return fmt.Errorf("spawn request has no id")
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	byRole, ok := q.requests[request.Colony]
	if !ok {
		byRole = make(map[string]fleet.SpawnRequest)
		q.requests[request.Colony] = byRole
	}
	byRole[request.Role] = request
	return nil
}

func (q *MemorySpawnQueue) Pending(_ context.Context, colony string) ([]fleet.SpawnRequest, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []fleet.SpawnRequest
	for _, r := range q.requests[colony] {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Role < out[j].Role
	})
	return out, nil
}

// MarkFulfilled removes a request once its agents exist
func (q *MemorySpawnQueue) MarkFulfilled(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, byRole := range q.requests {
		for role, r := range byRole {
			if r.ID == id {
				delete(byRole, role)
				return nil
			}
		}
	}
	return fmt.Errorf("spawn request not found: %s", id)
}
