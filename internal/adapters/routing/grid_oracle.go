package routing

import (
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/logistics"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// Terrain costs per tile
const (
	TerrainPlain = 1
	TerrainRoad  = 1
	TerrainSwamp = 5
	TerrainWall  = 0 // impassable
)

// GridOracle computes path lengths over a zone's terrain with a uniform-cost
// search. Unreachable targets or searches that exceed MaxOps are incomplete.
type GridOracle struct {
	width, height int
	zone          string
	cost          []int
	maxOps        int
}

// NewGridOracle creates an oracle over a width x height grid of plain tiles
func NewGridOracle(zone string, width, height int) *GridOracle {
	cost := make([]int, width*height)
	for i := range cost {
		cost[i] = TerrainPlain
	}
	return &GridOracle{width: width, height: height, zone: zone, cost: cost, maxOps: width * height * 4}
}

// SetTerrain sets the cost of one tile (TerrainWall blocks it)
func (o *GridOracle) SetTerrain(x, y, cost int) {
	if o.inBounds(x, y) {
		o.cost[y*o.width+x] = cost
	}
}

// SetMaxOps bounds the work of one search
func (o *GridOracle) SetMaxOps(ops int) {
	o.maxOps = ops
}

// Distance returns the cheapest path cost until within opts.Range of to
func (o *GridOracle) Distance(from, to shared.Position, opts logistics.DistanceOptions) (float64, bool) {
	if from.Zone != o.zone || to.Zone != o.zone || !o.inBounds(from.X, from.Y) {
		return 0, false
	}
	if from.InRangeTo(to, opts.Range) {
		return 0, true
	}

	dist := make([]int, len(o.cost))
	for i := range dist {
		dist[i] = -1
	}
	start := from.Y*o.width + from.X
	dist[start] = 0

	// bucket queue keyed by path cost; costs are small integers
	buckets := map[int][]int{0: {start}}
	ops := 0
	for d := 0; len(buckets) > 0; d++ {
		frontier, ok := buckets[d]
		if !ok {
			continue
		}
		delete(buckets, d)
		for _, idx := range frontier {
			if dist[idx] != d {
				continue
			}
			ops++
			if ops > o.maxOps {
				return 0, false
			}
			x, y := idx%o.width, idx/o.width
			if shared.NewPosition(x, y, o.zone).InRangeTo(to, opts.Range) {
				return float64(d), true
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if (dx == 0 && dy == 0) || !o.inBounds(nx, ny) {
						continue
					}
					n := ny*o.width + nx
					step := o.cost[n]
					if step == TerrainWall {
						continue
					}
					if nd := d + step; dist[n] < 0 || nd < dist[n] {
						dist[n] = nd
						buckets[nd] = append(buckets[nd], n)
					}
				}
			}
		}
	}
	return 0, false
}

func (o *GridOracle) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < o.width && y < o.height
}
