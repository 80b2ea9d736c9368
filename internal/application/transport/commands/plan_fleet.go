package commands

import (
	"context"
	"fmt"

	"github.com/SupernovaXTS/overmind-logistics/internal/adapters/metrics"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/mediator"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/fleet"
	"github.com/SupernovaXTS/overmind-logistics/pkg/utils"
)

// PlanFleetCommand sizes a colony's transport fleet and wishlists the deficit
type PlanFleetCommand struct {
	Colony string
	// DryRun computes the plan without submitting a spawn request
	DryRun bool
}

// PlanFleetResponse carries the sizing decision
type PlanFleetResponse struct {
	Request   fleet.SpawnRequest
	Submitted bool
}

// PlanFleetHandler handles the PlanFleet command
type PlanFleetHandler struct {
	colonies common.ColonyStore
	sizer    *fleet.Sizer
	spawns   common.SpawnSink
}

// NewPlanFleetHandler creates a new PlanFleetHandler
func NewPlanFleetHandler(colonies common.ColonyStore, sizer *fleet.Sizer, spawns common.SpawnSink) *PlanFleetHandler {
	return &PlanFleetHandler{colonies: colonies, sizer: sizer, spawns: spawns}
}

// Handle executes the PlanFleet command
func (h *PlanFleetHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*PlanFleetCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *PlanFleetCommand")
	}
	ctx = common.WithLogFields(ctx, map[string]interface{}{"colony": cmd.Colony, "pass": "fleet-plan"})
	logger := common.LoggerFromContext(ctx)

	var plan fleet.SpawnRequest
	err := h.colonies.WithColony(ctx, cmd.Colony, func(c *colony.Colony) error {
		plan = h.sizer.Plan(c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fleet planning failed for %s: %w", cmd.Colony, err)
	}
	plan.ID = utils.GenerateRequestID("spawn", plan.Colony)

	metrics.RecordFleetPlan(plan.Colony, plan.Count, plan.Current, plan.NeededPower)

	response := &PlanFleetResponse{Request: plan}
	if cmd.DryRun || plan.Deficit() == 0 || h.spawns == nil {
		return response, nil
	}

	if err := h.spawns.Wishlist(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to wishlist transporters: %w", err)
	}
	metrics.RecordSpawnRequest(plan.Colony, plan.Role)
	response.Submitted = true

	logger.Log(common.LevelInfo, "Transporters wishlisted", map[string]interface{}{
		"colony":       plan.Colony,
		"setup":        plan.Setup,
		"target":       plan.Count,
		"current":      plan.Current,
		"needed_power": plan.NeededPower,
		"priority":     plan.Priority,
	})
	return response, nil
}
