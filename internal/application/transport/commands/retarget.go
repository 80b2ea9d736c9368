package commands

import (
	"context"
	"fmt"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/mediator"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/transport"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
)

// RetargetCommand clears every transporter's plan and reassigns the colony
type RetargetCommand struct {
	Colony string
}

// RetargetResponse carries the reassignment result
type RetargetResponse struct {
	Result *transport.TickResult
}

// RetargetHandler handles the Retarget command
type RetargetHandler struct {
	colonies    common.ColonyStore
	coordinator *transport.Coordinator
}

// NewRetargetHandler creates a new RetargetHandler
func NewRetargetHandler(colonies common.ColonyStore, coordinator *transport.Coordinator) *RetargetHandler {
	return &RetargetHandler{colonies: colonies, coordinator: coordinator}
}

// Handle executes the Retarget command
func (h *RetargetHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RetargetCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RetargetCommand")
	}
	ctx = common.WithLogFields(ctx, map[string]interface{}{"colony": cmd.Colony, "pass": "retarget"})

	var result *transport.TickResult
	err := h.colonies.WithColony(ctx, cmd.Colony, func(c *colony.Colony) error {
		var runErr error
		result, runErr = h.coordinator.Retarget(ctx, c)
		return runErr
	})
	if err != nil {
		return nil, fmt.Errorf("retarget failed for %s: %w", cmd.Colony, err)
	}

	common.LoggerFromContext(ctx).Log(common.LevelInfo, "Transporters retargeted", map[string]interface{}{
		"colony":  cmd.Colony,
		"agents":  len(result.Assignments),
		"matched": result.Count(transport.OutcomeMatched),
	})
	return &RetargetResponse{Result: result}, nil
}
