package logistics

import "github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"

// DistanceOptions tunes a distance lookup
type DistanceOptions struct {
	// Range stops the path this many tiles short of the destination
	Range int
}

// DistanceOracle estimates travel time in ticks between two positions.
// ok is false when no complete path is known.
type DistanceOracle interface {
	Distance(from, to shared.Position, opts DistanceOptions) (ticks float64, ok bool)
}

// Forecaster predicts a request's remaining amount eta ticks from now
type Forecaster interface {
	Forecast(r *Request, eta float64) int
}
