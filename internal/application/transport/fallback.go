package transport

import (
	"context"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/task"
)

// fallback gives an unmatched agent something to do: unload what it carries
// at the best sink, or park when it is empty or no sink can take the load.
func (co *Coordinator) fallback(ctx context.Context, c *colony.Colony, agent *colony.Agent) Assignment {
	logger := common.LoggerFromContext(ctx)
	carry := agent.Carry()

	if !carry.IsEmpty() {
		selection, err := co.selector.SelectDropoff(agent, c)
		if err == nil {
			sink := selection.Sink
			var t *task.Task
			if carry.HasNonPrimary() {
				t = task.TransferAll(sink.ID(), sink.Pos())
			} else {
				t = task.Transfer(sink.ID(), sink.Pos(), shared.ResourceEnergy, selection.Amount)
			}
			agent.SetTask(t)

			logger.Log(common.LevelDebug, "Nothing to do, dropping off", map[string]interface{}{
				"agent":  agent.Name(),
				"sink":   sink.ID(),
				"reason": selection.Reason,
				"cost":   selection.Cost,
				"amount": selection.Amount,
			})
			return Assignment{
				Agent:    agent.Name(),
				Outcome:  OutcomeFallback,
				Via:      sink.ID(),
				Quantity: selection.Amount,
				Task:     t.String(),
			}
		}

		logger.Log(common.LevelWarning, "No dropoff point for idle transporter", map[string]interface{}{
			"agent": agent.Name(),
			"carry": carry.String(),
			"error": err.Error(),
		})
	}

	spot, reason := co.selector.SelectParking(agent, c)
	t := task.Park(spot)
	agent.SetTask(t)

	logger.Log(common.LevelDebug, "Nothing to do, parking", map[string]interface{}{
		"agent":  agent.Name(),
		"spot":   spot.String(),
		"reason": reason,
	})
	return Assignment{Agent: agent.Name(), Outcome: OutcomeParked, Via: reason, Task: t.String()}
}
