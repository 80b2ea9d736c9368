package task

import (
	"fmt"
	"strings"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// Kind identifies the action a task step performs
type Kind string

const (
	KindTransfer    Kind = "transfer"
	KindWithdraw    Kind = "withdraw"
	KindWithdrawAll Kind = "withdrawAll"
	KindTransferAll Kind = "transferAll"
	KindPickup      Kind = "pickup"
	KindGoTo        Kind = "goTo"
	KindPark        Kind = "park"
	KindDrop        Kind = "drop"
	KindFlee        Kind = "flee"
)

// ActionRange is how close an agent must be to act on a target
const ActionRange = 1

// Task is one step of an agent plan. Steps are chained through parent: when a
// step finishes the agent continues with its parent, so the head of the chain
// runs first and the root runs last.
//
// Tasks reference targets by ID and position so the executor can tell when a
// target disappeared between planning and execution.
type Task struct {
	kind     Kind
	targetID string
	pos      shared.Position
	resource shared.ResourceType
	amount   int
	parent   *Task
}

// Kind returns the step action
func (t *Task) Kind() Kind { return t.kind }

// TargetID returns the target entity ID (empty for positional steps)
func (t *Task) TargetID() string { return t.targetID }

// Pos returns where the step is performed
func (t *Task) Pos() shared.Position { return t.pos }

// Resource returns the resource moved by the step
func (t *Task) Resource() shared.ResourceType { return t.resource }

// Amount returns the quantity the step moves (0 = as much as possible)
func (t *Task) Amount() int { return t.amount }

// Parent returns the step that runs after this one
func (t *Task) Parent() *Task { return t.parent }

// Fork makes prereq run before t and returns prereq as the new chain head.
// Forking onto an existing chain prepends in front of everything already there.
func (t *Task) Fork(prereq *Task) *Task {
	head := prereq
	for head.parent != nil {
		head = head.parent
	}
	head.parent = t
	return prereq
}

// Next returns the step to run after this one completes
func (t *Task) Next() *Task {
	return t.parent
}

// Final returns the last step of the chain (the step that fulfils the plan's goal)
func (t *Task) Final() *Task {
	last := t
	for last.parent != nil {
		last = last.parent
	}
	return last
}

// Steps returns the chain in execution order
func (t *Task) Steps() []*Task {
	var steps []*Task
	for s := t; s != nil; s = s.parent {
		steps = append(steps, s)
	}
	return steps
}

// Range returns the distance at which the step can be performed
func (t *Task) Range() int {
	switch t.kind {
	case KindGoTo, KindPark, KindFlee, KindDrop:
		return 0
	default:
		return ActionRange
	}
}

// MovesResource reports whether the step changes any store
func (t *Task) MovesResource() bool {
	switch t.kind {
	case KindTransfer, KindWithdraw, KindWithdrawAll, KindTransferAll, KindPickup, KindDrop:
		return true
	default:
		return false
	}
}

func (t *Task) String() string {
	var b strings.Builder
	for i, s := range t.Steps() {
		if i > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(string(s.kind))
		if s.targetID != "" {
			fmt.Fprintf(&b, "(%s", s.targetID)
		} else {
			fmt.Fprintf(&b, "(%s", s.pos)
		}
		if s.resource != "" {
			fmt.Fprintf(&b, " %s", s.resource)
		}
		if s.amount > 0 {
			fmt.Fprintf(&b, " x%d", s.amount)
		}
		b.WriteString(")")
	}
	return b.String()
}

// Constructors

// Transfer moves amount of r from the agent into the target
func Transfer(targetID string, pos shared.Position, r shared.ResourceType, amount int) *Task {
	return &Task{kind: KindTransfer, targetID: targetID, pos: pos, resource: r, amount: amount}
}

// Withdraw moves amount of r from the target into the agent
func Withdraw(targetID string, pos shared.Position, r shared.ResourceType, amount int) *Task {
	return &Task{kind: KindWithdraw, targetID: targetID, pos: pos, resource: r, amount: amount}
}

// WithdrawAll empties every resource of the target into the agent
func WithdrawAll(targetID string, pos shared.Position, amount int) *Task {
	return &Task{kind: KindWithdrawAll, targetID: targetID, pos: pos, resource: shared.ResourceAll, amount: amount}
}

// TransferAll empties the agent into the target
func TransferAll(targetID string, pos shared.Position) *Task {
	return &Task{kind: KindTransferAll, targetID: targetID, pos: pos, resource: shared.ResourceAll}
}

// Pickup collects a ground pile
func Pickup(targetID string, pos shared.Position, r shared.ResourceType, amount int) *Task {
	return &Task{kind: KindPickup, targetID: targetID, pos: pos, resource: r, amount: amount}
}

// GoTo moves the agent to pos
func GoTo(pos shared.Position) *Task {
	return &Task{kind: KindGoTo, pos: pos}
}

// Park moves the agent to pos and keeps it there until retargeted
func Park(pos shared.Position) *Task {
	return &Task{kind: KindPark, pos: pos}
}

// Drop dumps amount of r on the ground where the agent stands
func Drop(pos shared.Position, r shared.ResourceType, amount int) *Task {
	return &Task{kind: KindDrop, pos: pos, resource: r, amount: amount}
}

// Flee moves the agent toward a retreat position
func Flee(pos shared.Position) *Task {
	return &Task{kind: KindFlee, pos: pos}
}
