package routing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/routing"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/logistics"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

func at(x, y int) shared.Position {
	return shared.NewPosition(x, y, "W1N1")
}

func TestRangeOracle(t *testing.T) {
	o := routing.NewRangeOracle()

	d, ok := o.Distance(at(0, 0), at(5, 3), logistics.DistanceOptions{Range: 1})
	assert.True(t, ok)
	assert.Equal(t, 4.0, d)

	d, ok = o.Distance(at(5, 5), at(5, 5), logistics.DistanceOptions{Range: 1})
	assert.True(t, ok)
	assert.Equal(t, 0.0, d)

	_, ok = o.Distance(at(0, 0), shared.NewPosition(1, 1, "W2N2"), logistics.DistanceOptions{})
	assert.False(t, ok)
}

func TestGridOracle_DetoursAroundWalls(t *testing.T) {
	// Arrange: a wall at x=5 from y=0..8 forces a detour through y=9
	o := routing.NewGridOracle("W1N1", 10, 10)
	for y := 0; y <= 8; y++ {
		o.SetTerrain(5, y, routing.TerrainWall)
	}

	// Act
	open, okOpen := routing.NewGridOracle("W1N1", 10, 10).Distance(at(0, 0), at(9, 0), logistics.DistanceOptions{})
	walled, okWalled := o.Distance(at(0, 0), at(9, 0), logistics.DistanceOptions{})

	// Assert
	require.True(t, okOpen)
	require.True(t, okWalled)
	assert.Equal(t, 9.0, open)
	assert.Equal(t, 18.0, walled)
}

func TestGridOracle_SwampCostsMore(t *testing.T) {
	o := routing.NewGridOracle("W1N1", 3, 1)
	o.SetTerrain(1, 0, routing.TerrainSwamp)

	d, ok := o.Distance(at(0, 0), at(2, 0), logistics.DistanceOptions{})

	require.True(t, ok)
	assert.Equal(t, 6.0, d)
}

func TestGridOracle_UnreachableIsIncomplete(t *testing.T) {
	o := routing.NewGridOracle("W1N1", 5, 5)
	for y := 0; y < 5; y++ {
		o.SetTerrain(2, y, routing.TerrainWall)
	}

	_, ok := o.Distance(at(0, 0), at(4, 4), logistics.DistanceOptions{})

	assert.False(t, ok)
}

type countingOracle struct {
	calls    int
	complete bool
}

func (c *countingOracle) Distance(from, to shared.Position, opts logistics.DistanceOptions) (float64, bool) {
	c.calls++
	return float64(from.RangeTo(to)), c.complete
}

func TestCachingOracle(t *testing.T) {
	// Arrange
	inner := &countingOracle{complete: true}
	o, err := routing.NewCachingOracle(inner, 8)
	require.NoError(t, err)

	// Act
	first, _ := o.Distance(at(0, 0), at(3, 4), logistics.DistanceOptions{Range: 1})
	second, _ := o.Distance(at(0, 0), at(3, 4), logistics.DistanceOptions{Range: 1})
	_, _ = o.Distance(at(0, 0), at(3, 4), logistics.DistanceOptions{Range: 0})

	// Assert
	assert.Equal(t, first, second)
	assert.Equal(t, 2, inner.calls)
	hits, misses := o.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)
}

func TestCachingOracle_DoesNotCacheIncomplete(t *testing.T) {
	inner := &countingOracle{complete: false}
	o, err := routing.NewCachingOracle(inner, 0)
	require.NoError(t, err)

	_, ok := o.Distance(at(0, 0), at(3, 4), logistics.DistanceOptions{})
	_, _ = o.Distance(at(0, 0), at(3, 4), logistics.DistanceOptions{})

	assert.False(t, ok)
	assert.Equal(t, 2, inner.calls)
}

func TestZoneOracle_DispatchesByZone(t *testing.T) {
	grid := routing.NewGridOracle("W1N1", 3, 1)
	grid.SetTerrain(1, 0, routing.TerrainSwamp)
	o := routing.NewZoneOracle(nil)
	o.Add("W1N1", grid)

	inGrid, ok := o.Distance(at(0, 0), at(2, 0), logistics.DistanceOptions{})
	require.True(t, ok)
	other, ok := o.Distance(shared.NewPosition(0, 0, "W2N2"), shared.NewPosition(2, 0, "W2N2"), logistics.DistanceOptions{})
	require.True(t, ok)

	assert.Equal(t, 6.0, inGrid)
	assert.Equal(t, 2.0, other)
}
