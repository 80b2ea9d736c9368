package simulation

import (
	"context"
	"fmt"
	"math"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/task"
	"github.com/SupernovaXTS/overmind-logistics/pkg/utils"
)

// step runs one tick of a colony. The caller holds the world lock.
func (w *World) step(ctx context.Context, st *colonyState) {
	c := st.colony

	for _, a := range c.Agents("") {
		if a.IsSpawning() {
			if c.Tick() >= st.readyAt[a.Name()] {
				a.SetSpawning(false)
				delete(st.readyAt, a.Name())
			}
			continue
		}
		w.execute(ctx, st, a)
	}

	st.produce()
	for _, s := range c.Relays() {
		s.SetDropoffAvailability(utils.Max(s.DropoffAvailability()-1, 0))
	}
	for _, p := range c.Piles() {
		p.Tick()
	}
	for _, r := range c.Remains() {
		r.Tick()
	}
	c.Prune()
	c.AdvanceTick()
	st.applyThreats()
}

// execute advances an agent's plan by one tick: walk a tile toward the step's
// target, or perform the step once in range and move on to the next one.
func (w *World) execute(ctx context.Context, st *colonyState, a *colony.Agent) {
	t := a.Task()
	if t == nil {
		return
	}
	c := st.colony

	dest := t.Pos()
	var target colony.Target
	if id := t.TargetID(); id != "" {
		found, ok := c.Target(id)
		if !ok || !found.Alive() {
			common.LoggerFromContext(ctx).Log(common.LevelDebug, "Task target gone", map[string]interface{}{
				"agent": a.Name(),
				"error": shared.NewTargetGoneError(id).Error(),
			})
			a.SetTask(nil)
			return
		}
		target = found
		dest = found.Pos()
	}

	if !a.Pos().InRangeTo(dest, t.Range()) {
		st.move(a, dest)
		return
	}

	switch t.Kind() {
	case task.KindPark, task.KindFlee:
		// held until the coordinator replaces the plan
		return
	case task.KindTransfer:
		w.transfer(st, a, target, t.Resource(), t.Amount())
	case task.KindTransferAll:
		for _, r := range a.Carry().Resources() {
			w.transfer(st, a, target, r, 0)
		}
	case task.KindWithdraw:
		withdraw(a, target, t.Resource(), t.Amount())
	case task.KindWithdrawAll:
		if store := storeOf(target); store != nil {
			for _, r := range store.Resources() {
				withdraw(a, target, r, 0)
			}
		}
	case task.KindPickup:
		if pile, ok := target.(*colony.Pile); ok {
			units := a.Carry().FreeCapacity(pile.Resource())
			if n := t.Amount(); n > 0 && n < units {
				units = n
			}
			a.Carry().Add(pile.Resource(), pile.Take(units))
		}
	case task.KindDrop:
		w.drop(st, a, t.Resource(), t.Amount())
	}

	a.SetTask(t.Next())
}

// move walks one tile toward dest, sidestepping walls of the colony zone
func (st *colonyState) move(a *colony.Agent, dest shared.Position) {
	from := a.Pos()
	next := from.StepToward(dest)
	if !st.blocked(next) {
		a.MoveTo(next)
		return
	}

	best, bestRange := from, math.MaxInt
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			cand := shared.NewPosition(from.X+dx, from.Y+dy, from.Zone)
			if st.blocked(cand) {
				continue
			}
			if r := cand.RangeTo(dest); r < bestRange {
				best, bestRange = cand, r
			}
		}
	}
	a.MoveTo(best)
}

func (st *colonyState) blocked(p shared.Position) bool {
	if p.X < 0 || p.Y < 0 || p.X >= ZoneSize || p.Y >= ZoneSize {
		return true
	}
	if p.Zone != "" && p.Zone != st.colony.Name() {
		return false
	}
	return st.walls[[2]int{p.X, p.Y}]
}

func (w *World) transfer(st *colonyState, a *colony.Agent, target colony.Target, r shared.ResourceType, amount int) {
	s, ok := target.(*colony.Structure)
	if !ok {
		return
	}
	units := a.Carry().Contents(r)
	if amount > 0 && amount < units {
		units = amount
	}
	moved := s.Store().Add(r, units)
	a.Carry().Remove(r, moved)
	if moved > 0 && s.Role() == colony.RoleRelay {
		s.SetDropoffAvailability(w.relayCooldown)
	}
}

func withdraw(a *colony.Agent, target colony.Target, r shared.ResourceType, amount int) {
	store := storeOf(target)
	if store == nil {
		return
	}
	units := a.Carry().FreeCapacity(r)
	if amount > 0 && amount < units {
		units = amount
	}
	a.Carry().Add(r, store.Remove(r, units))
}

func storeOf(target colony.Target) *shared.Store {
	switch t := target.(type) {
	case *colony.Structure:
		return t.Store()
	case *colony.Remains:
		return t.Store()
	default:
		return nil
	}
}

// drop dumps carried units onto the agent's tile, growing an existing pile
func (w *World) drop(st *colonyState, a *colony.Agent, r shared.ResourceType, amount int) {
	units := a.Carry().Contents(r)
	if amount > 0 && amount < units {
		units = amount
	}
	units = a.Carry().Remove(r, units)
	if units == 0 {
		return
	}

	c := st.colony
	if pile := c.PileAt(a.Pos(), r); pile != nil {
		pile.Add(units)
		return
	}
	st.drops++
	pile, err := colony.NewPile(fmt.Sprintf("drop-%s-%d", a.Name(), st.drops), a.Pos(), r, units, w.pileDecay)
	if err != nil {
		return
	}
	c.AddPile(pile)
}

// produce applies every structure's net inflow, carrying fractions over ticks
func (st *colonyState) produce() {
	for _, s := range st.colony.Structures() {
		if s.Rate() == 0 || !s.Alive() {
			continue
		}
		acc := st.rateCarry[s.ID()] + s.Rate()
		whole := int(acc)
		switch {
		case whole > 0:
			s.Store().Add(s.Resource(), whole)
		case whole < 0:
			s.Store().Remove(s.Resource(), -whole)
		}
		st.rateCarry[s.ID()] = acc - float64(whole)
	}
}
