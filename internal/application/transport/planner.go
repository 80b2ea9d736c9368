package transport

import (
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/logistics"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/task"
)

// planTask turns a match into a task chain. The direction comes from the
// sign of the predicted amount at arrival; a buffer route prepends its leg
// through Fork so the buffer is visited first.
func (co *Coordinator) planTask(c *colony.Colony, agent *colony.Agent, choice *logistics.Choice, predicted int) (*task.Task, error) {
	r := choice.Request
	if err := r.CheckResolvable(); err != nil {
		return nil, err
	}
	target := r.Target()
	res := r.Resource()
	carry := agent.Carry()

	switch {
	case predicted > 0:
		t := task.Transfer(target.ID(), target.Pos(), res, choice.DQ)
		if choice.Direct() {
			return t, nil
		}
		buffer := choice.Buffer
		offload := carry.HasOtherThan(res)
		held := carry.Contents(res)
		if offload {
			held = 0
		}
		if withdraw := choice.DQ - held; withdraw > 0 {
			t = t.Fork(task.Withdraw(buffer.ID(), buffer.Pos(), res, withdraw))
		}
		if offload {
			t = t.Fork(task.TransferAll(buffer.ID(), buffer.Pos()))
		}
		return t, nil

	case predicted < 0:
		var t *task.Task
		switch {
		case target.Class() == colony.ClassPile:
			t = task.Pickup(target.ID(), target.Pos(), res, choice.DQ)
		case res.IsWildcard():
			t = task.WithdrawAll(target.ID(), target.Pos(), choice.DQ)
		default:
			t = task.Withdraw(target.ID(), target.Pos(), res, choice.DQ)
		}
		if !choice.Direct() {
			t = t.Fork(task.TransferAll(choice.Buffer.ID(), choice.Buffer.Pos()))
		}
		return t, nil

	default:
		// BestMatch never offers a request with nothing left on arrival, so
		// only direct callers with a stale prediction land here.
		spot, _ := co.selector.SelectParking(agent, c)
		return task.Park(spot), nil
	}
}
