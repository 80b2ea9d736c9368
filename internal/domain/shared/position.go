package shared

import (
	"fmt"
	"math"
)

// Position is an immutable tile coordinate inside a colony's operational zone.
// Coordinates are zone-absolute so outposts can be compared with the home zone.
type Position struct {
	X    int    `json:"x" yaml:"x"`
	Y    int    `json:"y" yaml:"y"`
	Zone string `json:"zone,omitempty" yaml:"zone,omitempty"`
}

// NewPosition creates a position in the given zone
func NewPosition(x, y int, zone string) Position {
	return Position{X: x, Y: y, Zone: zone}
}

// RangeTo returns the Chebyshev distance (diagonal moves cost 1) to another position
func (p Position) RangeTo(other Position) int {
	dx := absInt(other.X - p.X)
	dy := absInt(other.Y - p.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// InRangeTo checks if other is within r tiles
func (p Position) InRangeTo(other Position, r int) bool {
	return p.RangeTo(other) <= r
}

// DistanceTo calculates Euclidean distance to another position
func (p Position) DistanceTo(other Position) float64 {
	dx := float64(other.X - p.X)
	dy := float64(other.Y - p.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// StepToward returns the adjacent position one tile closer to target
func (p Position) StepToward(target Position) Position {
	next := p
	next.X += sign(target.X - p.X)
	next.Y += sign(target.Y - p.Y)
	if target.Zone != "" && next == target {
		next.Zone = target.Zone
	}
	return next
}

// Equals compares coordinates only; the zone label is informational
func (p Position) Equals(other Position) bool {
	return p.X == other.X && p.Y == other.Y
}

func (p Position) String() string {
	if p.Zone == "" {
		return fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return fmt.Sprintf("%s(%d,%d)", p.Zone, p.X, p.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
