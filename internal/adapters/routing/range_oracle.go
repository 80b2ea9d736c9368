package routing

import (
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/logistics"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// RangeOracle measures travel as tile range on open ground. It is always
// complete within a zone and never complete across zones.
type RangeOracle struct{}

// NewRangeOracle creates a range oracle
func NewRangeOracle() *RangeOracle {
	return &RangeOracle{}
}

// Distance returns the ticks needed to come within opts.Range of to
func (o *RangeOracle) Distance(from, to shared.Position, opts logistics.DistanceOptions) (float64, bool) {
	if from.Zone != to.Zone {
		return 0, false
	}
	d := from.RangeTo(to) - opts.Range
	if d < 0 {
		d = 0
	}
	return float64(d), true
}
