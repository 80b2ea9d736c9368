package routing

import (
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/logistics"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// ZoneOracle dispatches to a per-zone oracle, falling back to another
// oracle for zones without terrain.
type ZoneOracle struct {
	zones    map[string]logistics.DistanceOracle
	fallback logistics.DistanceOracle
}

// NewZoneOracle creates a dispatcher; a nil fallback uses RangeOracle
func NewZoneOracle(fallback logistics.DistanceOracle) *ZoneOracle {
	if fallback == nil {
		fallback = NewRangeOracle()
	}
	return &ZoneOracle{zones: make(map[string]logistics.DistanceOracle), fallback: fallback}
}

// Add registers the oracle of a zone
func (o *ZoneOracle) Add(zone string, oracle logistics.DistanceOracle) {
	o.zones[zone] = oracle
}

func (o *ZoneOracle) Distance(from, to shared.Position, opts logistics.DistanceOptions) (float64, bool) {
	if from.Zone == to.Zone {
		if zone, ok := o.zones[from.Zone]; ok {
			return zone.Distance(from, to, opts)
		}
	}
	return o.fallback.Distance(from, to, opts)
}
