package commands

import (
	"context"
	"fmt"

	"github.com/SupernovaXTS/overmind-logistics/internal/application/common"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/mediator"
	"github.com/SupernovaXTS/overmind-logistics/internal/application/transport"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/colony"
	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// RunTransportTickCommand runs one transport pass over a colony
type RunTransportTickCommand struct {
	Colony string
}

// RunTransportTickResponse carries the pass result
type RunTransportTickResponse struct {
	Result *transport.TickResult
}

// RunTransportTickHandler handles the RunTransportTick command
type RunTransportTickHandler struct {
	colonies    common.ColonyStore
	coordinator *transport.Coordinator
	reports     common.TickReportRepository
	clock       shared.Clock
}

// NewRunTransportTickHandler creates a new RunTransportTickHandler. reports may be nil.
func NewRunTransportTickHandler(
	colonies common.ColonyStore,
	coordinator *transport.Coordinator,
	reports common.TickReportRepository,
	clock shared.Clock,
) *RunTransportTickHandler {
	clock = shared.ClockOrReal(clock)
	return &RunTransportTickHandler{
		colonies:    colonies,
		coordinator: coordinator,
		reports:     reports,
		clock:       clock,
	}
}

// Handle executes the RunTransportTick command
func (h *RunTransportTickHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RunTransportTickCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RunTransportTickCommand")
	}
	ctx = common.WithLogFields(ctx, map[string]interface{}{"colony": cmd.Colony, "pass": "tick"})

	var result *transport.TickResult
	err := h.colonies.WithColony(ctx, cmd.Colony, func(c *colony.Colony) error {
		var runErr error
		result, runErr = h.coordinator.Run(ctx, c)
		return runErr
	})
	if err != nil {
		return nil, fmt.Errorf("transport tick failed for %s: %w", cmd.Colony, err)
	}

	if h.reports != nil {
		report := result.Report()
		report.RecordedAt = h.clock.Now()
		if err := h.reports.Save(ctx, report); err != nil {
			common.LoggerFromContext(ctx).Log(common.LevelWarning, "Failed to save tick report", map[string]interface{}{
				"colony": cmd.Colony,
				"error":  err.Error(),
			})
		}
	}

	return &RunTransportTickResponse{Result: result}, nil
}
