package persistence

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
)

const guardedMemoryEntries = 1024

// GuardedColonyMemory keeps colony memory usable while the database is down.
// Values are cached write-through; once the breaker opens, reads are served
// from the cache and writes only reach the cache until the database recovers.
type GuardedColonyMemory struct {
	inner   common.ColonyMemory
	breaker *CircuitBreaker
	cache   *lru.Cache
}

// NewGuardedColonyMemory wraps inner with breaker
func NewGuardedColonyMemory(inner common.ColonyMemory, breaker *CircuitBreaker) (*GuardedColonyMemory, error) {
	cache, err := lru.New(guardedMemoryEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	return &GuardedColonyMemory{inner: inner, breaker: breaker, cache: cache}, nil
}

func memoryKey(colony, key string) string {
	return colony + "/" + key
}

// Get prefers the cache; a miss while the circuit is open reads as not found
func (m *GuardedColonyMemory) Get(ctx context.Context, colony, key string) (string, bool, error) {
	if v, ok := m.cache.Get(memoryKey(colony, key)); ok {
		return v.(string), true, nil
	}

	var (
		value string
		found bool
	)
	err := m.breaker.Call(func() error {
		var err error
		value, found, err = m.inner.Get(ctx, colony, key)
		return err
	})
	if errors.Is(err, ErrCircuitOpen) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if found {
		m.cache.Add(memoryKey(colony, key), value)
	}
	return value, found, nil
}

// Set caches the value, then writes through unless the circuit is open
func (m *GuardedColonyMemory) Set(ctx context.Context, colony, key, value string) error {
	m.cache.Add(memoryKey(colony, key), value)

	err := m.breaker.Call(func() error {
		return m.inner.Set(ctx, colony, key, value)
	})
	if errors.Is(err, ErrCircuitOpen) {
		return nil
	}
	return err
}

// State exposes the breaker state for status reporting
func (m *GuardedColonyMemory) State() CircuitState {
	return m.breaker.State()
}
