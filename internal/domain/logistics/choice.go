package logistics

import (
	"fmt"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
)

// Choice is one scored way for an agent to serve a request: directly, or
// through a buffer hub first.
type Choice struct {
	Request *Request
	// Buffer is nil for the direct route
	Buffer *colony.Structure
	DQ     int
	DT     float64
	Score  float64
	order  int
}

// Direct reports whether the choice goes straight to the request target
func (c Choice) Direct() bool {
	return c.Buffer == nil
}

// Via returns the ID of the first stop of the route
func (c Choice) Via() string {
	if c.Buffer != nil {
		return c.Buffer.ID()
	}
	return c.Request.Target().ID()
}

func (c Choice) String() string {
	return fmt.Sprintf("%s via %s dQ=%d dt=%.1f score=%.3f", c.Request.ID(), c.Via(), c.DQ, c.DT, c.Score)
}

// ranksBefore orders choices by priority tier, then score, then discovery
// order (request index, then choice index). Earlier discovery wins ties.
func ranksBefore(a, b *Choice) bool {
	if a.Request.Priority() != b.Request.Priority() {
		return a.Request.Priority() < b.Request.Priority()
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Request.Index() != b.Request.Index() {
		return a.Request.Index() < b.Request.Index()
	}
	return a.order < b.order
}
