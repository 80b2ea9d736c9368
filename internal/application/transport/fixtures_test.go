package transport

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

func pos(x, y int) shared.Position {
	return shared.NewPosition(x, y, "W1N1")
}

func energy(units int) map[shared.ResourceType]int {
	return map[shared.ResourceType]int{shared.ResourceEnergy: units}
}

func newStructure(t *testing.T, spec colony.StructureSpec, capacity int, contents map[shared.ResourceType]int) *colony.Structure {
	t.Helper()
	store, err := shared.NewStore(capacity, contents)
	require.NoError(t, err)
	spec.Store = store
	s, err := colony.NewStructure(spec)
	require.NoError(t, err)
	return s
}

func newConsumer(t *testing.T, id string, p shared.Position, capacity, contents int) *colony.Structure {
	return newStructure(t, colony.StructureSpec{
		ID: id, Kind: "spawn", Role: colony.RoleConsumer, Pos: p, Resource: shared.ResourceEnergy,
	}, capacity, energy(contents))
}

func newProvider(t *testing.T, id string, p shared.Position, capacity, contents int) *colony.Structure {
	return newStructure(t, colony.StructureSpec{
		ID: id, Kind: "container", Role: colony.RoleProvider, Pos: p, Resource: shared.ResourceEnergy,
	}, capacity, energy(contents))
}

func newStorage(t *testing.T, p shared.Position, capacity int, contents map[shared.ResourceType]int) *colony.Structure {
	return newStructure(t, colony.StructureSpec{
		ID: "storage", Kind: colony.KindStorage, Role: colony.RoleHub, Pos: p,
	}, capacity, contents)
}

func newAgent(t *testing.T, name string, seq int, p shared.Position, capacity int, contents map[shared.ResourceType]int) *colony.Agent {
	t.Helper()
	store, err := shared.NewStore(capacity, contents)
	require.NoError(t, err)
	a, err := colony.NewAgent(name, colony.RoleTransport, seq, p, store)
	require.NoError(t, err)
	return a
}

func newColony(t *testing.T, structures ...*colony.Structure) *colony.Colony {
	t.Helper()
	c, err := colony.NewColony("W1N1", pos(25, 25))
	require.NoError(t, err)
	for _, s := range structures {
		require.NoError(t, c.AddStructure(s))
	}
	return c
}

func addAgents(t *testing.T, c *colony.Colony, agents ...*colony.Agent) {
	t.Helper()
	for _, a := range agents {
		require.NoError(t, c.AddAgent(a))
	}
}

type memoryStub struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newMemoryStub() *memoryStub {
	return &memoryStub{values: make(map[string]string)}
}

func (m *memoryStub) Get(_ context.Context, colonyName, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[colonyName+"/"+key]
	return v, ok, nil
}

func (m *memoryStub) Set(_ context.Context, colonyName, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.values[colonyName+"/"+key] = value
	return nil
}

type telemetryStub struct {
	records []string
	last    float64
}

func (s *telemetryStub) Record(colonyName, subsystem, metric string, value float64) {
	s.records = append(s.records, colonyName+"."+subsystem+"."+metric)
	s.last = value
}
