package fleet

import (
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/task"
)

// Report summarises the state of a colony's transporters at one tick
type Report struct {
	Total    int
	Busy     int
	Idle     int
	Spawning int
	Evading  int
	Asleep   int
}

// IdleFraction returns idle / total, or 0 for an empty fleet
func (r Report) IdleFraction() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Idle) / float64(r.Total)
}

// Summarize counts agents of the role by state. An agent is idle when it has
// no task or only a park task.
func Summarize(c *colony.Colony, role string) Report {
	var r Report
	for _, a := range c.Agents(role) {
		r.Total++
		switch {
		case a.IsSpawning():
			r.Spawning++
		case a.InDanger(c.Tick()):
			r.Evading++
			r.Busy++
		case a.IsAsleep(c.Tick()):
			r.Asleep++
			r.Idle++
		case isIdle(a):
			r.Idle++
		default:
			r.Busy++
		}
	}
	return r
}

func isIdle(a *colony.Agent) bool {
	t := a.Task()
	return t == nil || t.Final().Kind() == task.KindPark
}
